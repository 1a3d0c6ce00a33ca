package domain

import "context"

// RoomRepository provides access to the rooms collection.
type RoomRepository interface {
	// GetRooms returns one offset window of rooms plus the advisory total.
	GetRooms(ctx context.Context, offset, limit int) ([]Room, int, error)

	// GetRoomsByStatus returns rooms matching a status filter.
	GetRoomsByStatus(ctx context.Context, status RoomStatus) ([]Room, int, error)

	// SearchRooms resolves a keyed lookup or free-text search to a slice.
	// A miss is an empty slice, not an error.
	SearchRooms(ctx context.Context, query string) ([]Room, error)

	CreateRoom(ctx context.Context, room Room) error
	UpdateRoomStatus(ctx context.Context, roomNumber string, status RoomStatus) error
	DeleteRoom(ctx context.Context, roomNumber string) error
}

// BookingRepository provides access to the bookings collection.
type BookingRepository interface {
	GetBookings(ctx context.Context, offset, limit int) ([]Booking, int, error)

	GetBookingsByStatus(ctx context.Context, status BookingStatus) ([]Booking, int, error)

	SearchBookings(ctx context.Context, query string) ([]Booking, error)

	UpdateBookingStatus(ctx context.Context, bookingID string, status BookingStatus) error
	CancelBooking(ctx context.Context, bookingID string) error
	DeleteBooking(ctx context.Context, bookingID string) error
}

// NotificationRepository provides access to admin notifications.
type NotificationRepository interface {
	GetNotifications(ctx context.Context, offset, limit int) ([]Notification, int, error)
	MarkRead(ctx context.Context, id int) error
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int) error
	UnreadCount(ctx context.Context) (int, error)
}

// SummaryProvider serves the dashboard summary.
type SummaryProvider interface {
	GetSummary(ctx context.Context) (*Summary, error)
}
