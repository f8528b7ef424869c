package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paradise-cafe/ai"
	"github.com/yeremiapane/paradise-cafe/config"
	"github.com/yeremiapane/paradise-cafe/database"
	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/realtime"
	"github.com/yeremiapane/paradise-cafe/router"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/store"
	"github.com/yeremiapane/paradise-cafe/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, opts, cleanup := openStore(ctx, cfg)
	defer cleanup()

	if cfg.NATS.URL != "" {
		relay, err := store.NewNATSRelay(cfg.NATS.URL)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer relay.Close()
		opts = append(opts, store.WithFeed(relay), store.WithAnnouncer(relay))
		utils.InfoLogger.Printf("Relaying collection changes over %s", cfg.NATS.URL)
	}

	opts = append(opts, store.WithMaxDocumentBytes(cfg.Store.MaxDocumentBytes))
	gw := store.NewGateway(backend, opts...)
	gw.Start(ctx)
	defer gw.Close()

	site := services.NewSite(gw)
	if err := site.Start(ctx); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start site: %v", err)
	}
	defer site.Close()

	readyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := site.WaitReady(readyCtx); err != nil {
		utils.ErrorLogger.Warnf("Collections not ready yet: %v", err)
	}
	cancel()

	hub := realtime.NewHub(site, cfg.Banner.Interval)
	if err := hub.Start(ctx); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start realtime hub: %v", err)
	}
	defer hub.Stop()

	engine := newEngine(ctx, cfg.AI)

	r := router.SetupRouter(router.Deps{
		Site:          site,
		Hub:           hub,
		Recommender:   services.NewRecommender(engine),
		Generator:     services.NewGenerator(engine),
		Encoder:       ingest.NewEncoder(cfg.Store.MaxImageBytes),
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Error during shutdown: %v", err)
	}
}

// openStore connects the configured backend and returns the gateway options its change feed needs.
func openStore(ctx context.Context, cfg *config.Config) (store.Backend, []store.Option, func()) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		utils.InfoLogger.Println("Using in-memory store; data is lost on restart")
		return store.NewMemoryBackend(), nil, func() {}

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			utils.ErrorLogger.Fatalf("Failed to reach MongoDB: %v", err)
		}
		backend := store.NewMongoBackend(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection)
		utils.InfoLogger.Printf("Using MongoDB %s/%s", cfg.Mongo.Database, cfg.Mongo.Collection)
		return backend, []store.Option{store.WithFeed(backend)}, func() {
			_ = client.Disconnect(context.Background())
		}

	default:
		db, err := config.InitDB(cfg.DB)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
		}

		monitor := services.NewChangeMonitor(db)
		monitor.Interval = cfg.DB.PollInterval
		monitor.Retention = cfg.DB.Retention
		return store.NewSQLBackend(db), []store.Option{store.WithFeed(monitor)}, func() {
			monitor.Stop()
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}
}

func newEngine(ctx context.Context, c config.AIConfig) ai.Engine {
	if c.APIKey == "" {
		utils.InfoLogger.Println("GEMINI_API_KEY not set; suggestions and generation are disabled")
		return ai.Disabled{}
	}

	engine, err := ai.NewGemini(ctx, c.APIKey, c.Model, c.ImageModel)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to create Gemini client, continuing without it: %v", err)
		return ai.Disabled{}
	}
	return engine
}
