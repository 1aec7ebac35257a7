package kafka

import (
	"context"
	"encoding/json"
	"time"

	"chaletbook/internal/infra/backend"
)

// ReceiptPublisher emits booking.submitted events for downstream
// consumers (notifications, reporting). Bookings are recorded by the
// backend regardless; this stream is observational.
type ReceiptPublisher struct {
	Producer    *Producer
	TopicPrefix string
}

type receiptEvent struct {
	BookingID  string    `json:"booking_id"`
	Code       string    `json:"code"`
	ChaletID   string    `json:"chalet_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalPrice float64   `json:"total_price"`
	UserID     string    `json:"user_id,omitempty"`
	GuestEmail string    `json:"guest_email,omitempty"`
	At         time.Time `json:"at"`
}

func (p ReceiptPublisher) BookingSubmitted(ctx context.Context, receipt *backend.Receipt) error {
	event := receiptEvent{
		BookingID:  receipt.ID,
		Code:       receipt.Code,
		ChaletID:   receipt.ChaletID,
		CheckIn:    receipt.CheckIn,
		CheckOut:   receipt.CheckOut,
		TotalPrice: receipt.TotalPrice,
		UserID:     receipt.UserID,
		GuestEmail: receipt.GuestEmail,
		At:         time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, p.TopicPrefix+"booking.submitted", receipt.ID, payload)
}
