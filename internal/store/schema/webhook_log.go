package schema

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookProcessingStatus describes whether the local handler finished acting
// on an inbound provider event. This is distinct from any status field the
// provider embeds in the payload itself.
type WebhookProcessingStatus string

const (
	// WebhookProcessingStatusPending means the event was logged but not yet handled
	WebhookProcessingStatusPending WebhookProcessingStatus = "pending"
	// WebhookProcessingStatusProcessed means the handler finished acting on the event
	WebhookProcessingStatusProcessed WebhookProcessingStatus = "processed"
	// WebhookProcessingStatusFailed means the handler raised an error for the event
	WebhookProcessingStatusFailed WebhookProcessingStatus = "failed"
)

// WebhookLog represents the webhook_logs table - an append-only record of
// every inbound Stripe event. Rows are written once and only their
// processing_status/error_message are finalized afterwards.
type WebhookLog struct {
	// ID is an auto-incrementing sequence number
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// EventID is the provider's event identifier, unique for deduplication
	EventID string `gorm:"column:event_id;not null;uniqueIndex;type:varchar(255)"`
	// EventType is the provider event type (e.g. "payment_intent.succeeded")
	EventType string `gorm:"column:event_type;not null;index;type:varchar(100)"`
	// Payload is the raw event JSON as delivered
	Payload datatypes.JSON `gorm:"column:payload;not null"`
	// ProcessingStatus indicates whether the local handler finished acting on the event
	ProcessingStatus WebhookProcessingStatus `gorm:"column:processing_status;not null;default:pending;type:varchar(20)"`
	// ErrorMessage contains handler error details if processing failed
	ErrorMessage string `gorm:"column:error_message;type:text"`
	// ReceivedAt is when the event arrived
	ReceivedAt time.Time `gorm:"column:received_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the WebhookLog model
func (WebhookLog) TableName() string {
	return "webhook_logs"
}
