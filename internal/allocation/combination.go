package allocation

import "github.com/sevasetu/dhaja/internal/model"

// FindCombination picks at most two bookings whose party sizes add up to the
// target capacity. Totals are tried in preference order: exact, overfill by
// one, then each smaller total down to 1 so a partial fill still seats as many
// people as possible. A single booking beats a pair at the same total.
// Returns nil when nothing fits.
func FindCombination(target int, available []model.Booking) []model.Booking {
	if target <= 0 {
		return nil
	}

	totals := make([]int, 0, target+1)
	totals = append(totals, target, target+1)
	for t := target - 1; t >= 1; t-- {
		totals = append(totals, t)
	}

	// filter once against the largest total we will ever try
	maxTotal := target + 1
	candidates := make([]model.Booking, 0, len(available))
	for _, b := range available {
		if b.Persons <= maxTotal {
			candidates = append(candidates, b)
		}
	}

	for _, t := range totals {
		for _, b := range candidates {
			if b.Persons == t {
				return []model.Booking{b}
			}
		}

		// pair members must each stay under t so the pair cannot overshoot
		var pool []model.Booking
		for _, b := range candidates {
			if b.Persons < t {
				pool = append(pool, b)
			}
		}
		for i := 0; i < len(pool); i++ {
			for j := i + 1; j < len(pool); j++ {
				if pool[i].Persons+pool[j].Persons == t {
					return []model.Booking{pool[i], pool[j]}
				}
			}
		}
	}
	return nil
}
