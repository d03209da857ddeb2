package utils

import "time"

// SessionKeyPrefix is the prefix used for Redis session token keys.
const SessionKeyPrefix = "session:"

// AvailabilityCachePrefix is the prefix used for cached day-availability entries.
const AvailabilityCachePrefix = "availability:"

// AvailabilityCacheTTL keeps availability snapshots fresh enough for a booking UI.
const AvailabilityCacheTTL = 30 * time.Second
