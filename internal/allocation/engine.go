package allocation

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/model"
)

// Sink persists engine decisions as they happen. The db store implements it.
type Sink interface {
	MarkBookingAllocated(id int, dhajaNo string) error
	FillAllotment(id int, booking1, booking2 *model.Booking) error
}

// ProgressFunc receives (done, total) after every allotment row.
type ProgressFunc func(done, total int)

// Summary totals one engine pass.
type Summary struct {
	BookingsPlaced   int `json:"bookings_placed"`
	AllotmentsFilled int `json:"allotments_filled"`
}

type Engine struct {
	sink     Sink
	progress ProgressFunc
}

func NewEngine(sink Sink, progress ProgressFunc) *Engine {
	return &Engine{sink: sink, progress: progress}
}

// Run walks allotments in workbook order and matches each open slot against
// the still-pending booking pool. Matched bookings leave the pool, so a
// booking is never placed twice. A persistence failure aborts the pass;
// bookings already written stay written and the run is reported failed.
func (e *Engine) Run(allotments []model.Allotment, pending []model.Booking) (Summary, error) {
	pool := make([]model.Booking, len(pending))
	copy(pool, pending)

	var sum Summary
	total := len(allotments)

	for i, a := range allotments {
		if e.progress != nil {
			e.progress(i, total)
		}
		if a.Status != model.AllotmentOpen || a.Capacity <= 0 {
			continue
		}

		match := FindCombination(a.Capacity, pool)
		if match == nil {
			continue
		}

		for _, b := range match {
			if err := e.sink.MarkBookingAllocated(b.ID, a.DhajaNo); err != nil {
				return sum, fmt.Errorf("marking booking %d allocated: %w", b.ID, err)
			}
		}

		first := match[0]
		var second *model.Booking
		if len(match) == 2 {
			second = &match[1]
		}
		if err := e.sink.FillAllotment(a.ID, &first, second); err != nil {
			return sum, fmt.Errorf("filling allotment %d: %w", a.ID, err)
		}

		pool = remove(pool, match)
		sum.BookingsPlaced += len(match)
		sum.AllotmentsFilled++

		log.Debug().
			Str("section", a.Section).
			Str("dhaja_no", a.DhajaNo).
			Int("capacity", a.Capacity).
			Int("bookings", len(match)).
			Msg("allotment filled")
	}

	if e.progress != nil {
		e.progress(total, total)
	}
	return sum, nil
}

func remove(pool, matched []model.Booking) []model.Booking {
	out := pool[:0]
	for _, b := range pool {
		taken := false
		for _, m := range matched {
			if m.ID == b.ID {
				taken = true
				break
			}
		}
		if !taken {
			out = append(out, b)
		}
	}
	return out
}
