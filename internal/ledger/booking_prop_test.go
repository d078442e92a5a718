package ledger

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

// TestBookingNonOverlapProperty throws random windows at a single
// slot and checks the core invariant after every attempt: no two
// active bookings on the slot ever overlap, accepted requests overlap
// nothing, and rejected requests overlap something.
func TestBookingNonOverlapProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)
		ctx := context.Background()

		type window struct{ start, end int64 }
		var accepted []window

		n := rapid.IntRange(1, 40).Draw(rt, "attempts")
		for i := 0; i < n; i++ {
			start := rapid.Int64Range(0, 500).Draw(rt, "start")
			length := rapid.Int64Range(1, 120).Draw(rt, "length")
			end := start + length

			_, err := f.book(t, start, end)

			conflicts := false
			for _, w := range accepted {
				if overlaps(start, end, w.start, w.end) {
					conflicts = true
					break
				}
			}

			switch {
			case err == nil:
				if conflicts {
					rt.Fatalf("accepted [%d,%d) despite overlap with an active booking", start, end)
				}
				accepted = append(accepted, window{start, end})
			case errors.Is(err, ErrSlotConflict):
				if !conflicts {
					rt.Fatalf("rejected [%d,%d) with no overlapping active booking", start, end)
				}
			default:
				rt.Fatalf("unexpected error: %v", err)
			}
		}

		// Cross-check against the store's view.
		active, err := f.store.ListActiveBySlot(ctx, f.slotID)
		if err != nil {
			rt.Fatalf("ListActiveBySlot: %v", err)
		}
		if len(active) != len(accepted) {
			rt.Fatalf("store sees %d active bookings, expected %d", len(active), len(accepted))
		}
		for i := range active {
			for j := i + 1; j < len(active); j++ {
				if overlaps(active[i].StartTime, active[i].EndTime, active[j].StartTime, active[j].EndTime) {
					rt.Fatalf("bookings %d and %d overlap", active[i].ID, active[j].ID)
				}
			}
		}
	})
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		aStart, aEnd, bStart, bEnd int64
		want                       bool
	}{
		{0, 10, 10, 20, false}, // back to back
		{10, 20, 0, 10, false},
		{0, 10, 9, 20, true},
		{0, 10, 0, 10, true},
		{5, 6, 0, 10, true},
		{0, 10, 20, 30, false},
	}
	for _, tc := range cases {
		if got := overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("overlaps(%d,%d,%d,%d) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
		}
	}
}
