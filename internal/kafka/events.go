package kafka

import (
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EstimateCompletedEvent is published after every successful estimate
type EstimateCompletedEvent struct {
	EventID           string    `json:"event_id"`
	Brand             string    `json:"brand"`
	Model             string    `json:"model"`
	Details           string    `json:"details,omitempty"`
	ZipCode           string    `json:"zip_code,omitempty"`
	AnchorYear        int       `json:"anchor_year"`
	RequestedYears    int       `json:"requested_years"`
	EffectiveYears    int       `json:"effective_years"`
	PurchaseYearIndex int       `json:"purchase_year_index"`
	PurchasePrice     float64   `json:"purchase_price"`
	FinalValue        float64   `json:"final_value"`
	TotalMonthlyCost  float64   `json:"total_monthly_cost"`
	MissingYears      []int     `json:"missing_years,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewEstimateMessage wraps an event keyed by brand/model so that events of
// the same car land on the same partition
func NewEstimateMessage(event EstimateCompletedEvent) Message {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	return Message{
		Key:   event.Brand + "/" + event.Model,
		Value: event,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("estimate.completed")},
			{Key: "event-id", Value: []byte(event.EventID)},
		},
	}
}
