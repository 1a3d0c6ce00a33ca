package domain

import "strconv"

// RoomStatus is the operational state of a room as reported by the backend.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomMaintenance RoomStatus = "Maintenance"
	RoomCleaning    RoomStatus = "Cleaning"
	RoomBooked      RoomStatus = "Booked"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingCompleted  BookingStatus = "completed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
)

// Room is a hotel room record, identified by its room number.
type Room struct {
	RoomNumber string     `json:"room_number"`
	RoomType   string     `json:"type"`
	Status     RoomStatus `json:"status"`
	Price      int        `json:"price"`
	Capacity   int        `json:"capacity"`
	Floor      int        `json:"floor"`
	Amenities  []string   `json:"amenities"`
}

// Key returns the natural key used by list stores.
func (r Room) Key() string { return r.RoomNumber }

// Booking is a reservation record with embedded guest details.
type Booking struct {
	BookingID       string        `json:"booking_id"`
	CheckIn         string        `json:"check_in"`  // YYYY-MM-DD
	CheckOut        string        `json:"check_out"` // YYYY-MM-DD
	CheckInTime     string        `json:"check_in_time,omitempty"`
	CheckOutTime    string        `json:"check_out_time,omitempty"`
	Guests          int           `json:"guests"`
	RoomNumber      string        `json:"room_number"`
	RoomType        string        `json:"room_type"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	Status          BookingStatus `json:"status"`
	Source          string        `json:"source,omitempty"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	TotalAmount     float64       `json:"total_amount,omitempty"`
	CreatedAt       string        `json:"created_at,omitempty"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
}

// Key returns the natural key used by list stores.
func (b Booking) Key() string { return b.BookingID }

// GuestName returns the guest's display name.
func (b Booking) GuestName() string {
	switch {
	case b.FirstName == "":
		return b.LastName
	case b.LastName == "":
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}

// Notification is an admin notification record.
//
// Key stringifies the numeric ID so notifications can live in the same
// generic list store as rooms and bookings.
type Notification struct {
	ID                int    `json:"id"`
	Type              string `json:"type"`
	Title             string `json:"title"`
	Message           string `json:"message"`
	RelatedBookingID  string `json:"related_booking_id,omitempty"`
	RelatedRoomNumber string `json:"related_room_number,omitempty"`
	IsRead            bool   `json:"is_read"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// Key returns the natural key used by list stores.
func (n Notification) Key() string { return strconv.Itoa(n.ID) }

// Summary is the flat numeric dashboard snapshot served by the backend.
// It is advisory and allowed to lag the paginated lists.
type Summary struct {
	TotalRooms       int     `json:"total_rooms"`
	AvailableRooms   int     `json:"available_rooms"`
	OccupiedRooms    int     `json:"occupied_rooms"`
	TotalBookings    int     `json:"total_bookings"`
	PendingBookings  int     `json:"pending_bookings"`
	TodayCheckIns    int     `json:"today_check_ins"`
	TodayCheckOuts   int     `json:"today_check_outs"`
	OccupancyRate    float64 `json:"occupancy_rate"`
	RevenueThisMonth float64 `json:"revenue_this_month"`
}
