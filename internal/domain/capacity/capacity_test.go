package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"tour-backoffice/internal/domain/apperr"
)

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(0, 1))
	assert.NoError(t, Check(9, 10))

	err := Check(1, 1)
	assert.Equal(t, apperr.CapacityExceeded, apperr.KindOf(err))

	err = Check(0, 0)
	assert.Equal(t, apperr.CapacityExceeded, apperr.KindOf(err), "a package without seats takes no enrollment")

	err = Check(0, -1)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, int64(3), Available(5, 2))
	assert.Equal(t, int64(0), Available(5, 5))
	assert.Equal(t, int64(0), Available(2, 5), "seats shrunk below bookings report zero")
}

// Filling a package one enrollment at a time admits exactly totalSeat.
func TestCheckAdmitsExactlyTotalSeat(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 200).Draw(t, "totalSeat")
		attempts := rapid.IntRange(0, 300).Draw(t, "attempts")

		var enrolled int64
		rejected := 0
		for i := 0; i < attempts; i++ {
			if err := Check(enrolled, total); err != nil {
				rejected++
				continue
			}
			enrolled++
		}

		want := int64(attempts)
		if want > int64(total) {
			want = int64(total)
		}
		if enrolled != want {
			t.Fatalf("admitted %d of %d attempts for %d seats", enrolled, attempts, total)
		}
		if rejected != attempts-int(want) {
			t.Fatalf("rejected %d, want %d", rejected, attempts-int(want))
		}
		if Available(total, enrolled) != int64(total)-enrolled {
			t.Fatalf("available mismatch")
		}
	})
}
