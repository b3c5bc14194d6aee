package jobs

import (
	"context"
	"log"
	"time"

	"koskita/internal/modules/booking"
)

// ExpiryJob sweeps bookings whose payment window lapsed into the expired
// state and releases their rooms.
type ExpiryJob struct {
	bookings *booking.Service
}

func NewExpiryJob(bookings *booking.Service) *ExpiryJob {
	return &ExpiryJob{bookings: bookings}
}

func (j *ExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ids, err := j.bookings.ExpireDue(ctx)
	if err != nil {
		log.Printf("expiry_sweep status=error err=%v", err)
		return
	}
	if len(ids) > 0 {
		log.Printf("expiry_sweep status=ok expired=%d booking_ids=%v", len(ids), ids)
	}
}
