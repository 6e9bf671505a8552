package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"carrental/internal/auth"
	"carrental/internal/backend"
	"carrental/internal/config"
	"carrental/internal/consul"
	"carrental/internal/events"
	"carrental/internal/logger"
	"carrental/internal/session"
	"carrental/internal/web"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("Starting car rental web front-end",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"session_store", cfg.Session.Store,
	)

	var consulClient *consul.Client
	if cfg.Consul.Enabled() {
		consulClient, err = consul.NewClient(cfg.Consul.Addr, cfg.Consul.Token)
		if err != nil {
			slog.Error("Failed to create Consul client", "error", err)
			os.Exit(1)
		}
		slog.Info("Connected to Consul", "addr", cfg.Consul.Addr)
	}

	// Session store
	var store session.Store
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		store = session.NewMemoryStore()
		slog.Warn("Using in-memory session store; sessions are lost on restart")
	default:
		store = session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if p, ok := store.(pinger); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := p.Ping(ctx)
			cancel()
			if err != nil {
				slog.Error("Failed to connect to Redis", "addr", cfg.Redis.Addr, "error", err)
				os.Exit(1)
			}
		}
		slog.Info("Connected to Redis", "addr", cfg.Redis.Addr)
	}
	sessionMgr := session.NewManager(store, cfg.Session.MaxAge)

	// Backend gateway
	apiURL := cfg.Backend.APIURL
	if cfg.Backend.Service != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		apiURL, err = consulClient.ServiceURL(ctx, cfg.Backend.Service, cfg.Backend.APIPath)
		cancel()
		if err != nil {
			slog.Error("Failed to discover backend", "service", cfg.Backend.Service, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Using backend", "url", apiURL)

	client, err := backend.New(apiURL, backend.WithTimeout(cfg.Backend.Timeout))
	if err != nil {
		slog.Error("Failed to create backend client", "error", err)
		os.Exit(1)
	}

	// Session event stream
	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewProducer(events.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, log)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = producer
	}

	authSvc := auth.NewService(client, sessionMgr, auth.WithPublisher(publisher))
	handler := web.NewHandler(client, authSvc, sessionMgr, web.CookieOptions{
		Secure: cfg.IsProduction(),
		MaxAge: cfg.Session.MaxAge,
	})

	// Setup router
	router := web.SetupRouter(handler, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Web front-end listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	var serviceID string
	if consulClient != nil {
		port, _ := strconv.Atoi(cfg.Port)
		serviceID = consul.ServiceID(cfg.Consul.ServiceName, cfg.Consul.ServiceHost, port)

		// drop a registration left behind by a crashed instance
		_ = consulClient.Deregister(serviceID)

		err := consulClient.Register(consul.Registration{
			ID:   serviceID,
			Name: cfg.Consul.ServiceName,
			Host: cfg.Consul.ServiceHost,
			Port: port,
			Tags: []string{"web", "frontend"},
		})
		if err != nil {
			slog.Error("Failed to register with Consul", "error", err)
			os.Exit(1)
		}
		slog.Info("Registered with Consul", "service_id", serviceID)
	}

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down web front-end")

	if consulClient != nil {
		if err := consulClient.Deregister(serviceID); err != nil {
			slog.Warn("Failed to deregister from Consul", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Web front-end stopped")
}
