package models

import (
	"strings"
	"time"
)

// NotificationType distinguishes how a feed entry was produced.
type NotificationType string

const (
	NotificationTypeSummary    NotificationType = "summary"
	NotificationTypeAlert      NotificationType = "alert"
	NotificationTypePrediction NotificationType = "prediction"
	NotificationTypeTrend      NotificationType = "trend"
)

// Priority orders notifications for delivery.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IntelligentNotification is one entry in the unified feed built from alerts
// and patterns. RelatedData carries the originating alert or pattern payload.
type IntelligentNotification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Priority    Priority         `json:"priority"`
	Zone        string           `json:"zone"`
	Category    string           `json:"category"`
	ActionItems []string         `json:"action_items"`
	RelatedData any              `json:"related_data,omitempty"`
	ExpiresAt   time.Time        `json:"expires_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Expired reports whether the notification should be dropped from the feed.
func (n IntelligentNotification) Expired(now time.Time) bool {
	return now.After(n.ExpiresAt)
}

// Subscription holds a subscriber's delivery preferences. A notification
// matches when its zone is in Zones or one of Interests matches its category
// or appears in its message (inclusive OR).
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Zones     []string  `json:"zones"`
	Interests []string  `json:"interests"`
	Frequency string    `json:"frequency"`
	Channel   string    `json:"channel"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Matches reports whether the notification passes the subscription filter.
func (s Subscription) Matches(n IntelligentNotification) bool {
	for _, zone := range s.Zones {
		if zone == n.Zone {
			return true
		}
	}
	message := strings.ToLower(n.Message)
	for _, interest := range s.Interests {
		if n.Category == interest || strings.Contains(message, strings.ToLower(interest)) {
			return true
		}
	}
	return false
}
