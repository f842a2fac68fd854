package sessionStore

import (
	"questionnaire-service/internal/app/models"
	"time"
)

// stampSession refreshes the bookkeeping timestamps. Expiry slides with every
// write.
func stampSession(state *models.SessionState, now time.Time, ttl time.Duration) {
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now
	if ttl > 0 {
		state.ExpiresAt = now.Add(ttl)
	}
}

func isExpired(state *models.SessionState, now time.Time) bool {
	return !state.ExpiresAt.IsZero() && !now.Before(state.ExpiresAt)
}
