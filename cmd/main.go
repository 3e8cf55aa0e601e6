package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/rs/cors"

	slackclient "github.com/Ambro17/slacker/clients/slack"
	"github.com/Ambro17/slacker/config"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/handlers"
	"github.com/Ambro17/slacker/middleware"
	"github.com/Ambro17/slacker/notify"
	"github.com/Ambro17/slacker/rooms"
	"github.com/Ambro17/slacker/services/polls"
	"github.com/Ambro17/slacker/services/retro"
	"github.com/Ambro17/slacker/services/stickers"
	"github.com/Ambro17/slacker/services/txmanager"
	"github.com/Ambro17/slacker/services/users"
	"github.com/Ambro17/slacker/services/vms"
	"github.com/Ambro17/slacker/skills"
	"github.com/Ambro17/slacker/tasks"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	pollsRepo := db.NewPostgresPollsRepository(dbConn, cfg.DatabaseSchema)
	stickersRepo := db.NewPostgresStickersRepository(dbConn, cfg.DatabaseSchema)
	retroRepo := db.NewPostgresRetroRepository(dbConn, cfg.DatabaseSchema)
	vmsRepo := db.NewPostgresVMsRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	// One bot identity for general chat, another one for the VM and rooms
	// features. They fall back to the same token when only one is set.
	bot := slackclient.NewClient(cfg.SlackConfig.BotToken)
	oviBot := bot
	if cfg.SlackConfig.OviBotToken != "" {
		oviBot = slackclient.NewClient(cfg.SlackConfig.OviBotToken)
	}
	admin := notify.NewAdmin(bot, cfg.SlackConfig.ErrorsChannel, cfg.SlackConfig.BotFather)

	usersService := users.NewUsersService(usersRepo, bot)
	pollsService := polls.NewPollsService(pollsRepo, txManager)
	stickersService := stickers.NewStickersService(stickersRepo)
	retroService := retro.NewRetroService(retroRepo, usersRepo, usersService, txManager)
	vmsService := vms.NewVMsService(vmsRepo, usersService, txManager)

	// Task broker connection. The producer only enqueues, the worker binary
	// consumes the same queues.
	redisOpt, err := asynq.ParseRedisURI(cfg.BrokerConfig.BrokerURL)
	if err != nil {
		return err
	}
	broker := asynq.NewClient(redisOpt)
	defer broker.Close()
	dispatcher := tasks.NewDispatcher(broker)

	slackHandler := handlers.NewSlackHandler(handlers.SlackHandlerParams{
		Bot:        bot,
		OviBot:     oviBot,
		Dispatcher: dispatcher,
		Admin:      admin,

		Users:    usersService,
		Polls:    pollsService,
		Stickers: stickersService,
		Retro:    retroService,
		VMs:      vmsService,

		Holidays: skills.NewHolidays(cfg.SkillsConfig.HolidaysAPIURL),
		Subte:    skills.NewSubte(cfg.SkillsConfig.SubteAPIURL, cfg.SubteConfig.ClientID, cfg.SubteConfig.ClientSecret),
		Menu:     skills.NewHoypido(cfg.SkillsConfig.HoypidoAPIURL),
		Dolar:    skills.NewDolar(cfg.SkillsConfig.DolarAPIURL),
		Calendar: rooms.NewCalendar(cfg.RoomsConfig.OAuthClientID, cfg.RoomsConfig.OAuthClientSecret),
	})

	signatureGate := middleware.NewSignatureMiddleware(cfg.SlackConfig.SigningSecrets, cfg.SlackConfig.SkipVerification)
	recovery := middleware.NewRecoveryMiddleware(admin)

	router := mux.NewRouter()

	// Health check endpoint, outside the signature gate. Registered first:
	// routes match in registration order and the webhook subrouter below
	// claims every other path.
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Every webhook route hangs off this subrouter, behind the signature
	// gate. Handlers added here later cannot bypass the check. Slash
	// commands mount one path per command, so the catch-all single-segment
	// route goes to the command router.
	webhooks := router.PathPrefix("/").Subrouter()
	webhooks.Use(recovery.HTTPMiddleware, signatureGate.HTTPMiddleware)
	webhooks.HandleFunc("/slack/events", slackHandler.HandleEvent).Methods("POST")
	webhooks.HandleFunc("/interactive/message_actions", slackHandler.HandleInteractivity).Methods("POST")
	webhooks.HandleFunc("/{command}", slackHandler.HandleCommand).Methods("POST")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
