package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "101", Room{RoomNumber: "101"}.Key())
	assert.Equal(t, "BK-1", Booking{BookingID: "BK-1"}.Key())
	assert.Equal(t, "7", Notification{ID: 7}.Key())
}

func TestGuestName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Booking{FirstName: "Ada", LastName: "Lovelace"}.GuestName())
	assert.Equal(t, "Ada", Booking{FirstName: "Ada"}.GuestName())
	assert.Equal(t, "Lovelace", Booking{LastName: "Lovelace"}.GuestName())
}

func TestRoomWireShape(t *testing.T) {
	payload := []byte(`{
		"room_number": "101",
		"type": "Deluxe",
		"status": "Available",
		"price": 120,
		"capacity": 2,
		"floor": 1,
		"amenities": ["wifi", "minibar"]
	}`)

	var room Room
	require.NoError(t, json.Unmarshal(payload, &room))
	assert.Equal(t, "101", room.RoomNumber)
	assert.Equal(t, "Deluxe", room.RoomType)
	assert.Equal(t, RoomAvailable, room.Status)
	assert.Equal(t, []string{"wifi", "minibar"}, room.Amenities)
}

func TestAsAPIError(t *testing.T) {
	apiErr := &APIError{StatusCode: 409, Detail: "room has an active booking"}

	got, ok := AsAPIError(apiErr)
	require.True(t, ok)
	assert.Equal(t, 409, got.StatusCode)
	assert.Equal(t, "room has an active booking", apiErr.Error())

	_, ok = AsAPIError(ErrNotFound)
	assert.False(t, ok)

	assert.Equal(t, "server returned status 500", (&APIError{StatusCode: 500}).Error())
}
