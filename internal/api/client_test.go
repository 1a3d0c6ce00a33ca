package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pverberg/frontdesk/internal/domain"
	"github.com/pverberg/frontdesk/internal/log"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "test-token", log.NullLogger())
	return client, server
}

func TestGetRoomsEncodesPaginationParams(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(roomListResponse{
			Items:      []domain.Room{{RoomNumber: "101", Status: domain.RoomAvailable}},
			TotalCount: 42,
		})
	}))
	defer server.Close()

	rooms, total, err := client.GetRooms(context.Background(), 40, 20)
	require.NoError(t, err)
	assert.Equal(t, "40", gotQuery.Get("offset"))
	assert.Equal(t, "20", gotQuery.Get("limit"))
	assert.Equal(t, "Bearer test-token", gotAuth)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	assert.Equal(t, 42, total)
}

func TestGetRoomsByStatusSetsFilterParam(t *testing.T) {
	var gotStatus string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		_ = json.NewEncoder(w).Encode(roomListResponse{
			Items:      []domain.Room{{RoomNumber: "204", Status: domain.RoomOccupied}},
			TotalCount: 1,
		})
	}))
	defer server.Close()

	rooms, total, err := client.GetRoomsByStatus(context.Background(), domain.RoomOccupied)
	require.NoError(t, err)
	assert.Equal(t, "Occupied", gotStatus)
	assert.Len(t, rooms, 1)
	assert.Equal(t, 1, total)
}

func TestSearchRoomsNormalizesSingleObject(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/101", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.Room{RoomNumber: "101", Status: domain.RoomAvailable})
	}))
	defer server.Close()

	rooms, err := client.SearchRooms(context.Background(), "101")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].RoomNumber)
}

func TestSearchRoomsNormalizesArray(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]domain.Room{
			{RoomNumber: "101"},
			{RoomNumber: "102"},
		})
	}))
	defer server.Close()

	rooms, err := client.SearchRooms(context.Background(), "10")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestSearchRoomsMissIsEmpty(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Room not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	rooms, err := client.SearchRooms(context.Background(), "999")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestSearchRoomsRejectsMalformedPayload(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"surprise":true}`))
	}))
	defer server.Close()

	_, err := client.SearchRooms(context.Background(), "101")
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestSearchBookingsNormalizesSingleObject(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.Booking{BookingID: "BK-1", FirstName: "Ada"})
	}))
	defer server.Close()

	bookings, err := client.SearchBookings(context.Background(), "BK-1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "BK-1", bookings[0].BookingID)
}

func TestCreateRoomPostsRecord(t *testing.T) {
	var gotMethod string
	var gotRoom domain.Room
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotRoom)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	room := domain.Room{RoomNumber: "305", RoomType: "Suite", Status: domain.RoomAvailable, Price: 220}
	require.NoError(t, client.CreateRoom(context.Background(), room))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, room, gotRoom)
}

func TestUpdateRoomStatusSendsPatchBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := client.UpdateRoomStatus(context.Background(), "101", domain.RoomCleaning)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/rooms/101/status", gotPath)
	assert.Equal(t, map[string]string{"status": "Cleaning"}, gotBody)
}

func TestCancelBookingUsesPut(t *testing.T) {
	var gotMethod, gotPath string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, client.CancelBooking(context.Background(), "BK-9"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/bookings/BK-9/cancel", gotPath)
}

func TestMarkReadSendsFlag(t *testing.T) {
	var gotPath string
	var gotBody map[string]bool
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, client.MarkRead(context.Background(), 7))
	assert.Equal(t, "/notifications/7", gotPath)
	assert.Equal(t, map[string]bool{"is_read": true}, gotBody)
}

func TestUnreadCount(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications/unread-count", r.URL.Path)
		_ = json.NewEncoder(w).Encode(unreadCountResponse{Count: 3})
	}))
	defer server.Close()

	count, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetSummary(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard/summary", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.Summary{TotalRooms: 50, OccupancyRate: 0.64})
	}))
	defer server.Close()

	summary, err := client.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, summary.TotalRooms)
	assert.InDelta(t, 0.64, summary.OccupancyRate, 1e-9)
}

func TestAuthFailureMapsToSentinel(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not authenticated"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, _, err := client.GetRooms(context.Background(), 0, 20)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestServerDetailSurfacedVerbatim(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Room 101 has an active booking"}`, http.StatusConflict)
	}))
	defer server.Close()

	err := client.DeleteRoom(context.Background(), "101")
	require.Error(t, err)
	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Room 101 has an active booking", apiErr.Detail)
	assert.Equal(t, "Room 101 has an active booking", err.Error())
}

func TestUnreachableServerMapsToOffline(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "token", log.NullLogger())
	_, _, err := client.GetRooms(context.Background(), 0, 20)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestCancelledRequestReportsContextError(t *testing.T) {
	started := make(chan struct{})
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, _, err := client.GetRooms(ctx, 0, 20)
	require.Error(t, err)
	assert.True(t, IsCancelled(err))
	assert.NotErrorIs(t, err, domain.ErrServerOffline)
}

func TestMalformedListPayload(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": "nope"}`))
	}))
	defer server.Close()

	_, _, err := client.GetBookings(context.Background(), 0, 20)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestRequestTimeoutConfigured(t *testing.T) {
	client := NewClient("http://example.com", "", log.NullLogger())
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
}
