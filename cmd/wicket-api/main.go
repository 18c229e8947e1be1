package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/dimitrije/wicket-api/internal/config"
	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/dimitrije/wicket-api/internal/handlers"
	authmw "github.com/dimitrije/wicket-api/internal/middleware"
	"github.com/dimitrije/wicket-api/internal/metrics"
	"github.com/dimitrije/wicket-api/internal/notify"
	"github.com/dimitrije/wicket-api/internal/rollover"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/dimitrije/wicket-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	if cfg.IsProduction() {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	metricsSvc := metrics.NewService()
	loc := cfg.ScheduleTimezone

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	teamService := services.NewTeamService(db)
	groundService := services.NewGroundService(db)

	hub := sse.NewHub()
	go hub.Run(ctx)

	sinks := append(notificationSinks(cfg), notify.NewLiveSink(hub))
	dispatcher := notify.NewDispatcher(teamService, metricsSvc, cfg.NotifyQueueSize, sinks...)
	go dispatcher.Run(ctx)

	scheduleService := services.NewScheduleService(db, loc, dispatcher)
	bookingService := services.NewBookingService(db, scheduleService, groundService, teamService, dispatcher, metricsSvc)
	guestMatchService := services.NewGuestMatchService(db, scheduleService, groundService, teamService, dispatcher, metricsSvc)

	var alerter rollover.Alerter
	if slackAlerter := notify.NewSlackAlerter(cfg.Slack.Token, cfg.Slack.OpsChannelID); slackAlerter.IsConfigured() {
		alerter = slackAlerter
	}
	rolloverJob := rollover.New(groundService, scheduleService, alerter, metricsSvc, loc)
	go rollover.NewScheduler(rolloverJob, cfg.Rollover).Run(ctx)

	authHandler := handlers.NewAuthHandler(userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService, userService, bookingService)
	groundHandler := handlers.NewGroundHandler(groundService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, groundService)
	bookingHandler := handlers.NewBookingHandler(bookingService, loc)
	guestMatchHandler := handlers.NewGuestMatchHandler(guestMatchService, loc)
	eventsHandler := handlers.NewEventsHandler(hub, teamService)
	adminHandler := handlers.NewAdminHandler(rolloverJob)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Put("/users/me/push-token", userHandler.SetPushToken)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Patch("/teams/:id", teamHandler.Update)
	protected.Delete("/teams/:id", teamHandler.Delete)
	protected.Get("/teams/:id/members", teamHandler.GetMembers)
	protected.Post("/teams/:id/members", teamHandler.AddMember)
	protected.Delete("/teams/:id/members/:memberId", teamHandler.RemoveMember)
	protected.Post("/teams/:id/leave", teamHandler.LeaveTeam)
	protected.Get("/teams/:id/bookings", teamHandler.ListBookings)
	protected.Get("/teams/:id/events", eventsHandler.Connect)

	protected.Get("/grounds", groundHandler.List)
	protected.Post("/grounds", groundHandler.Create)
	protected.Get("/grounds/:groundId", groundHandler.Get)
	protected.Patch("/grounds/:groundId", groundHandler.Update)

	protected.Get("/grounds/:groundId/weeks/:date", scheduleHandler.GetWeek)
	protected.Put("/grounds/:groundId/weeks/:date/slots/:day/:timeSlot", scheduleHandler.SetSlot)
	protected.Post("/grounds/:groundId/weeks/:date/clone", scheduleHandler.CloneWeek)

	protected.Post("/grounds/:groundId/bookings", bookingHandler.Create)
	protected.Get("/grounds/:groundId/bookings/pending", bookingHandler.ListPending)
	protected.Post("/grounds/:groundId/bookings/respond", bookingHandler.RespondGroup)
	protected.Get("/bookings/:bookingId", bookingHandler.Get)
	protected.Post("/bookings/:bookingId/respond", bookingHandler.Respond)

	protected.Post("/grounds/:groundId/guest-matches", guestMatchHandler.Create)
	protected.Get("/grounds/:groundId/guest-matches", guestMatchHandler.List)
	protected.Get("/guest-matches/:requestId", guestMatchHandler.Get)
	protected.Post("/guest-matches/:requestId/respond", guestMatchHandler.Respond)

	admin := api.Group("/admin")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.RequireSuperAdmin())
	admin.Post("/rollover", adminHandler.RunRollover)

	api.Get("/health", func(c *drift.Context) {
		if err := db.Pool.Ping(context.Background()); err != nil {
			_ = c.JSON(503, map[string]string{"status": "unavailable"})
			return
		}
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.NewHandler())
	mux.Handle("/", app)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := tokenService.CleanupExpired(ctx); err != nil {
					log.Error("Failed to clean up expired refresh tokens", "error", err)
				} else if n > 0 {
					log.Debug("Cleaned up expired refresh tokens", "count", n)
				}
			}
		}
	}()

	go func() {
		log.Info("Server starting", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}
}

// notificationSinks returns the channels that have credentials configured.
func notificationSinks(cfg *config.Config) []notify.Sink {
	sinks := []notify.Sink{notify.NewPushSink(cfg.Push)}

	if mail := notify.NewMailSink(cfg.SMTP); mail.IsConfigured() {
		sinks = append(sinks, mail)
	} else {
		log.Warn("SMTP not configured, mail notices disabled")
	}

	if wa := notify.NewWhatsAppSink(cfg.WhatsApp); wa.IsConfigured() {
		sinks = append(sinks, wa)
	} else {
		log.Warn("WhatsApp not configured, WhatsApp notices disabled")
	}

	return sinks
}
