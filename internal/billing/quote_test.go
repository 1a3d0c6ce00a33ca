package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
		wantErr  error
	}{
		{name: "one night", checkIn: "2026-03-01", checkOut: "2026-03-02", want: 1},
		{name: "week stay", checkIn: "2026-03-01", checkOut: "2026-03-08", want: 7},
		{name: "across month boundary", checkIn: "2026-02-27", checkOut: "2026-03-02", want: 3},
		{name: "same day", checkIn: "2026-03-01", checkOut: "2026-03-01", wantErr: ErrInvalidStay},
		{name: "checkout before checkin", checkIn: "2026-03-05", checkOut: "2026-03-01", wantErr: ErrInvalidStay},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Nights(tc.checkIn, tc.checkOut)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNightsRejectsBadDates(t *testing.T) {
	_, err := Nights("03/01/2026", "2026-03-02")
	assert.Error(t, err)

	_, err = Nights("2026-03-01", "not-a-date")
	assert.Error(t, err)
}

func TestNewQuote(t *testing.T) {
	q, err := NewQuote("2026-03-01", "2026-03-04", 120, 10, 15)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 360.0, q.Subtotal)
	// 360 * 0.9 * 1.15
	assert.InDelta(t, 372.6, q.Total, 0.001)
}

func TestNewQuoteNoDiscountNoVAT(t *testing.T) {
	q, err := NewQuote("2026-03-01", "2026-03-03", 99.50, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 199.0, q.Subtotal)
	assert.Equal(t, 199.0, q.Total)
}

func TestNewQuoteRoundsToCents(t *testing.T) {
	q, err := NewQuote("2026-03-01", "2026-03-02", 99.99, 33.333, 7.7)
	require.NoError(t, err)
	assert.Equal(t, 99.99, q.Subtotal)
	assert.InDelta(t, 71.79, q.Total, 0.005)
}

func TestNewQuoteBounds(t *testing.T) {
	_, err := NewQuote("2026-03-01", "2026-03-02", 100, -1, 10)
	assert.ErrorIs(t, err, ErrDiscountRange)

	_, err = NewQuote("2026-03-01", "2026-03-02", 100, 101, 10)
	assert.ErrorIs(t, err, ErrDiscountRange)

	_, err = NewQuote("2026-03-01", "2026-03-02", 100, 10, -1)
	assert.ErrorIs(t, err, ErrVATRange)

	_, err = NewQuote("2026-03-01", "2026-03-02", 100, 10, 21)
	assert.ErrorIs(t, err, ErrVATRange)

	// Boundary values are legal.
	_, err = NewQuote("2026-03-01", "2026-03-02", 100, 100, 20)
	assert.NoError(t, err)
}
