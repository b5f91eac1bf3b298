package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types published on an ambassador's channel. Consumers treat
// every event as a cache-invalidation signal and re-fetch; no ordering
// guarantee is provided across event types.
const (
	EventReferralCreated     = "referral_created"
	EventReferralConfirmed   = "referral_confirmed"
	EventReferralCancelled   = "referral_cancelled"
	EventTierChanged         = "tier_changed"
	EventPayoutScheduled     = "payout_scheduled"
	EventPayoutPaid          = "payout_paid"
	EventAchievementUnlocked = "achievement_unlocked"
)

// Event is the payload published on ambassador channels.
type Event struct {
	Type         string    `json:"type"`
	AmbassadorID uint      `json:"ambassador_id"`
	At           time.Time `json:"at"`
}

// Connect initializes a Redis client from URL or host:port input.
// Supporting both formats keeps local/dev and container config paths simple.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// Notifier publishes dashboard invalidation events on a per-ambassador
// Redis channel. A nil Notifier is valid and drops all events, which
// keeps tests and offline tooling free of a Redis dependency.
type Notifier struct {
	client *redis.Client
}

func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

// Channel returns the pub/sub channel name for an ambassador.
func Channel(ambassadorID uint) string {
	return fmt.Sprintf("ambassador:%d", ambassadorID)
}

// Publish sends an event on the ambassador's channel. Publish failures
// are logged and swallowed: realtime delivery is best-effort and must
// never fail the underlying operation.
func (n *Notifier) Publish(ctx context.Context, ambassadorID uint, eventType string) {
	if n == nil || n.client == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Type:         eventType,
		AmbassadorID: ambassadorID,
		At:           time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Realtime: failed to encode %s event: %v", eventType, err)
		return
	}

	if err := n.client.Publish(ctx, Channel(ambassadorID), payload).Err(); err != nil {
		log.Printf("Realtime: failed to publish %s for ambassador %d: %v", eventType, ambassadorID, err)
	}
}
