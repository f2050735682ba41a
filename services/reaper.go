package services

import (
	"time"

	"go.uber.org/zap"
)

// ReapAbandoned periodically resets conversations whose last activity
// is older than the idle limit. An abandoned report creates nothing;
// the user's next message simply starts from the main menu.
func ReapAbandoned(tracker *Tracker, log *zap.Logger) {
	for {
		time.Sleep(reaperInterval)
		if expired := tracker.ExpireIdle(conversationIdleLimit); expired > 0 {
			log.Info("expired abandoned conversations", zap.Int("count", expired))
		}
	}
}
