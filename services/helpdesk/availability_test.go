package helpdesk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"medigate/gateway"
	"medigate/models"

	"go.uber.org/zap"
)

const availabilityPayload = `{
	"timeSlots": ["10:00 AM - 11:00 AM", "9:00 AM - 10:00 AM"],
	"days": [
		{
			"date": "2026-09-01",
			"slots": {
				"9:00 AM - 10:00 AM": {"count": 3, "isFull": false},
				"10:00 AM - 11:00 AM": {"count": 12, "isFull": true}
			}
		}
	]
}`

func newAvailabilityGateway(t *testing.T) (*gateway.SessionGateway, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/helpdesk/availability" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(availabilityPayload))
	}))
	gw := gateway.New(gateway.Options{
		BaseURL: srv.URL,
		Tokens:  gateway.NewMemoryTokenStore(models.TokenPair{AccessToken: "t", RefreshToken: "r"}),
		Logger:  zap.NewNop(),
	})
	return gw, srv.Close
}

func TestGetDayAvailability(t *testing.T) {
	gw, done := newAvailabilityGateway(t)
	defer done()

	svc := &DefaultHelpdeskService{IncrementMinutes: 5, HourlyCapacity: 12}
	offers, err := svc.GetDayAvailability(context.Background(), gw, "2026-09-01")
	if err != nil {
		t.Fatalf("GetDayAvailability: %v", err)
	}

	if len(offers.Offers) != 2 {
		t.Fatalf("got %d offers, want 2", len(offers.Offers))
	}

	// Sorted by window start, not by backend order.
	first := offers.Offers[0]
	if first.Window != "9:00 AM - 10:00 AM" {
		t.Errorf("first offer window = %q", first.Window)
	}
	if first.StartTime != "9:15 AM" || first.EndTime != "9:20 AM" {
		t.Errorf("first offer = %s - %s, want 9:15 AM - 9:20 AM", first.StartTime, first.EndTime)
	}
	if first.IsFull || first.AvailableCount != 9 {
		t.Errorf("first offer capacity: full=%v available=%d", first.IsFull, first.AvailableCount)
	}

	second := offers.Offers[1]
	if second.Window != "10:00 AM - 11:00 AM" {
		t.Errorf("second offer window = %q", second.Window)
	}
	if !second.IsFull || second.AvailableCount != 0 {
		t.Errorf("full window: full=%v available=%d", second.IsFull, second.AvailableCount)
	}
}

func TestGetDayAvailabilityMissingDay(t *testing.T) {
	gw, done := newAvailabilityGateway(t)
	defer done()

	svc := &DefaultHelpdeskService{IncrementMinutes: 5, HourlyCapacity: 12}
	offers, err := svc.GetDayAvailability(context.Background(), gw, "2026-09-02")
	if err != nil {
		t.Fatalf("GetDayAvailability: %v", err)
	}

	// A day the backend has no tallies for is all-open, not an error.
	for _, offer := range offers.Offers {
		if offer.IsFull || offer.AvailableCount != 12 {
			t.Errorf("%s: full=%v available=%d, want open window", offer.Window, offer.IsFull, offer.AvailableCount)
		}
	}
}

func TestGetDayAvailabilityRejectsBadDate(t *testing.T) {
	svc := &DefaultHelpdeskService{}
	if _, err := svc.GetDayAvailability(context.Background(), nil, "01-09-2026"); err == nil {
		t.Error("expected error for malformed date")
	}
}
