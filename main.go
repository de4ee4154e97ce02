// main.go - Entry point for the hotel bookings backend

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hotel-bookings-backend/admin"
	"hotel-bookings-backend/cache"
	"hotel-bookings-backend/config"
	"hotel-bookings-backend/database"
	"hotel-bookings-backend/handlers"
	"hotel-bookings-backend/mqtt"
	"hotel-bookings-backend/routes"
	"hotel-bookings-backend/services"
	"hotel-bookings-backend/tasks"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// STEP 1: configuration and connections
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatal("DB connection error: ", err)
	}

	// Left as a nil interface when Redis is off, so the cache middleware passes through.
	var store cache.Store
	if cfg.RedisAddr != "" {
		rs, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Printf("[CACHE] disabled: %v", err)
		} else {
			defer rs.Close()
			store = rs
		}
	}

	// STEP 2: background work triggered by new bookings
	var sender tasks.Sender
	if cfg.SMTPHost != "" {
		sender = tasks.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		log.Println("[MAIL] SMTP_HOST not set, confirmation emails will be marked failed")
	}
	queue := tasks.NewQueue(database.DB, sender, tasks.Options{
		MaxAttempts:       cfg.MailMaxAttempts,
		Backoff:           cfg.MailRetryBackoff,
		OverrideRecipient: cfg.MailOverrideTo,
	})
	go queue.Run(ctx)
	sweep, err := queue.StartRetrySweep(ctx, cfg.MailRetrySchedule)
	if err != nil {
		log.Printf("mail retry sweep: %v", err)
		return
	}
	defer sweep.Stop()

	notifiers := []services.BookingNotifier{queue}
	if cfg.MQTTBroker != "" {
		client, err := mqtt.Connect(cfg.MQTTBroker)
		if err != nil {
			log.Printf("[MQTT] booking events disabled: %v", err)
		} else {
			defer client.Close()
			notifiers = append(notifiers, mqtt.NewBookingEvents(client, cfg.MQTTTopic))
		}
	}

	// STEP 3: services, handlers and routes
	users := services.NewUsersService(database.DB, store, cfg.JWTSecret, cfg.TokenTTL)
	hotels := services.NewHotelsService(database.DB, store)
	rooms := services.NewRoomsService(database.DB, store)
	bookings := services.NewBookingsService(database.DB, store, notifiers...)

	h := &handlers.Handler{
		Users:        users,
		Hotels:       hotels,
		Rooms:        rooms,
		Bookings:     bookings,
		TokenTTL:     cfg.TokenTTL,
		CookieSecure: cfg.CookieSecure,
	}
	panel := admin.New(users, admin.NewSessionStore(cfg.SessionKey, cfg.CookieSecure),
		admin.DefaultViews(database.DB, admin.Services{Hotels: hotels, Rooms: rooms, Bookings: bookings}))

	r := routes.SetupRouter(h, routes.Options{
		Cache:       store,
		Admin:       panel,
		CORSOrigins: cfg.CORSOrigins,
	})

	// STEP 4: serve until interrupted
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Returning from main, rather than exiting, lets the deferred closes run.
	if err := serve(ctx, srv, 10*time.Second); err != nil {
		log.Printf("server error: %v", err)
	}
}

// serve runs srv until ctx is cancelled or the listener fails. On
// cancellation it shuts the server down gracefully within grace.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	serveErr := make(chan error, 1) // ListenAndServe failures, reported back to the caller
	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
