package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/pverberg/frontdesk/internal/api"
	"github.com/pverberg/frontdesk/internal/config"
	"github.com/pverberg/frontdesk/internal/domain"
	"github.com/pverberg/frontdesk/internal/liststore"
	"github.com/pverberg/frontdesk/internal/log"
	"github.com/pverberg/frontdesk/internal/notify"
	"github.com/pverberg/frontdesk/internal/snapshot"
	"github.com/pverberg/frontdesk/internal/stats"
	"github.com/pverberg/frontdesk/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("frontdesk %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting frontdesk", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	// Session snapshot cache; a broken cache never blocks startup
	snap, err := snapshot.Open(config.DefaultSnapshotPath(), cfg.Server.URL)
	if err != nil {
		logger.Warn("snapshot cache unavailable", "error", err)
		snap, _ = snapshot.Open("", "")
	}
	defer snap.Close()

	quiet := time.Duration(cfg.Lists.SearchDebounceMS) * time.Millisecond

	rooms := liststore.New(liststore.Config[domain.Room]{
		FetchPage: client.GetRooms,
		Search:    client.SearchRooms,
		FetchFilter: func(ctx context.Context, filter string) ([]domain.Room, int, error) {
			return client.GetRoomsByStatus(ctx, domain.RoomStatus(filter))
		},
		PageSize:    cfg.Lists.PageSize,
		MinQueryLen: cfg.Lists.MinQueryLen,
		QuietPeriod: quiet,
		Logger:      logger.With("store", "rooms"),
	})
	defer rooms.Close()

	bookings := liststore.New(liststore.Config[domain.Booking]{
		FetchPage: client.GetBookings,
		Search:    client.SearchBookings,
		FetchFilter: func(ctx context.Context, filter string) ([]domain.Booking, int, error) {
			return client.GetBookingsByStatus(ctx, domain.BookingStatus(filter))
		},
		PageSize:    cfg.Lists.PageSize,
		MinQueryLen: cfg.Lists.MinQueryLen,
		QuietPeriod: quiet,
		Logger:      logger.With("store", "bookings"),
	})
	defer bookings.Close()

	notifications := liststore.New(liststore.Config[domain.Notification]{
		FetchPage: client.GetNotifications,
		PageSize:  cfg.Lists.PageSize,
		Logger:    logger.With("store", "notifications"),
	})
	defer notifications.Close()

	// Warm the lists from the previous session while the first fetch runs
	if items, total, ok := snap.LoadRooms(); ok {
		rooms.Seed(items, total)
	}
	if items, total, ok := snap.LoadBookings(); ok {
		bookings.Seed(items, total)
	}
	if items, total, ok := snap.LoadNotifications(); ok {
		notifications.Seed(items, total)
	}

	statsSvc := stats.NewService(client, time.Duration(cfg.Lists.SummaryCacheTTLMS)*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refreshEvery := time.Duration(cfg.Lists.RefreshIntervalS) * time.Second
	model := tui.NewModel(ctx, rooms, bookings, notifications, client, statsSvc, refreshEvery,
		cfg.Billing.VATPct, cfg.Billing.DefaultDiscountPct, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	onChange := func() { p.Send(tui.StoreChangedMsg{}) }
	rooms.SetOnChange(onChange)
	bookings.SetOnChange(onChange)
	notifications.SetOnChange(onChange)

	// Passive push channel; the UI works without it
	wsURL, err := pushURL(cfg)
	if err != nil {
		logger.Warn("push channel disabled", "error", err)
	} else {
		listener := notify.NewListener(wsURL, notify.Callbacks{
			OnNotification: func(n domain.Notification) {
				p.Send(tui.PushNotificationMsg{Notification: n})
			},
			OnUnreadCount: func(count int) {
				p.Send(tui.UnreadCountMsg{Count: count})
			},
			OnAggregateRefresh: func() {
				p.Send(tui.AggregateRefreshMsg{})
			},
		}, logger)
		go listener.Run(ctx)
	}

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	cancel()

	// Persist the session for the next launch
	if st := rooms.State(); st.Loaded {
		if err := snap.SaveRooms(st.Items, st.TotalCount); err != nil {
			logger.Warn("failed to save room snapshot", "error", err)
		}
	}
	if st := bookings.State(); st.Loaded {
		if err := snap.SaveBookings(st.Items, st.TotalCount); err != nil {
			logger.Warn("failed to save booking snapshot", "error", err)
		}
	}
	if st := notifications.State(); st.Loaded {
		if err := snap.SaveNotifications(st.Items, st.TotalCount); err != nil {
			logger.Warn("failed to save notification snapshot", "error", err)
		}
	}

	logger.Info("shutting down")
	return nil
}

// pushURL resolves the websocket endpoint from the configured override or
// the backend URL.
func pushURL(cfg *config.Config) (string, error) {
	if cfg.Server.WSURL != "" {
		return cfg.Server.WSURL, nil
	}

	u, err := url.Parse(cfg.Server.URL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/admin"
	q := u.Query()
	q.Set("token", cfg.Server.Token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Frontdesk!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var serverURL string
	for {
		fmt.Print("Enter the backend URL (e.g., http://192.168.1.50:8000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Backend URL cannot be empty. Please try again.")
			continue
		}
		if _, err := url.Parse(serverURL); err != nil {
			fmt.Println("That doesn't look like a URL. Please try again.")
			continue
		}
		break
	}

	fmt.Print("Enter your admin API token: ")
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	cfg.Server.URL = serverURL
	cfg.Server.Token = token

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run frontdesk again to start the application.")

	return nil
}
