package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"medigate/config"
	"medigate/gateway"
	"medigate/models"
	"medigate/services/scheduling"
	"medigate/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HelpdeskService assembles bookable sub-slot offers for the scheduling
// screens: backend booking counts in, effective slots out.
type HelpdeskService interface {
	GetDayAvailability(ctx context.Context, gw *gateway.SessionGateway, date string) (*models.DayOffers, error)
}

// DefaultHelpdeskService is the production implementation. Availability is
// the same for every session, so assembled days are cached briefly in Redis.
type DefaultHelpdeskService struct {
	Cache            *redis.Client
	IncrementMinutes int
	HourlyCapacity   int
}

func NewDefaultHelpdeskService(cache *redis.Client) *DefaultHelpdeskService {
	return &DefaultHelpdeskService{
		Cache:            cache,
		IncrementMinutes: config.AppConfig.SlotIncrementMinutes,
		HourlyCapacity:   config.AppConfig.HourlyCapacity,
	}
}

func (s *DefaultHelpdeskService) GetDayAvailability(ctx context.Context, gw *gateway.SessionGateway, date string) (*models.DayOffers, error) {
	logger := utils.GetLogger()

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	cacheKey := utils.AvailabilityCachePrefix + date
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached models.DayOffers
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Warn("availability cache read failed", zap.Error(err))
		}
	}

	var resp models.AvailabilityResponse
	path := "/helpdesk/availability?date=" + url.QueryEscape(date)
	if err := gw.Get(ctx, path, &resp); err != nil {
		return nil, err
	}

	day := models.DaySchedule{Date: date}
	for _, d := range resp.Days {
		if d.Date == date {
			day = d
			break
		}
	}

	offers := make([]models.SlotOffer, 0, len(resp.TimeSlots))
	for _, window := range resp.TimeSlots {
		status := day.Slots[window]
		slot, err := scheduling.ComputeEffectiveSlot(scheduling.SlotQuery{
			Window:           window,
			BookedCount:      status.Count,
			IncrementMinutes: s.IncrementMinutes,
			HourlyCapacity:   s.HourlyCapacity,
		})
		if err != nil {
			// A negative count is a backend contract violation; drop the
			// window rather than the whole day.
			logger.Warn("skipping window with bad count",
				zap.String("window", window),
				zap.Int("count", status.Count),
				zap.Error(err))
			continue
		}
		offers = append(offers, models.SlotOffer{
			Window:         window,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			IsFull:         slot.IsFull || status.IsFull,
			AvailableCount: slot.AvailableCount,
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return windowMinutes(offers[i].Window) < windowMinutes(offers[j].Window)
	})

	result := &models.DayOffers{Date: date, Offers: offers}

	if s.Cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, utils.AvailabilityCacheTTL).Err(); err != nil {
				logger.Warn("availability cache write failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

// windowMinutes orders windows by their parsed start; unparseable labels
// sort last.
func windowMinutes(window string) int {
	hour, minute, ok := scheduling.ParseWindowStart(window)
	if !ok {
		return 24 * 60
	}
	return hour*60 + minute
}
