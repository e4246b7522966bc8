package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nncoach/client-core/internal/api"
	"github.com/nncoach/client-core/internal/core"
	"github.com/nncoach/client-core/internal/gate"
	"github.com/nncoach/client-core/internal/httpx"
	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/session"
	"github.com/nncoach/client-core/internal/state"
	"github.com/nncoach/client-core/internal/storage"
	"github.com/nncoach/client-core/pkg/bmi"
	logx "github.com/nncoach/client-core/pkg/logger"
	pkgredis "github.com/nncoach/client-core/pkg/redis"
)

// AppConfig defines all configurable parameters for the client demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Storage backend: file (default), redis or memory.
	StorageBackend string             `envconfig:"STORAGE_BACKEND" default:"file"`
	File           storage.FileConfig
	Redis          pkgredis.Config    `ignored:"true"`

	API  httpx.Config
	Gate gate.Config
}

func main() {
	fmt.Println("nncoach client core demo...")
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	kv := openStorage(&envCfg)

	sessions := session.NewManager(kv)
	store := state.New(kv, sessions)
	client := httpx.New(envCfg.API, sessions, store)
	routes := gate.New(envCfg.Gate, sessions, store.SetError)

	// React to session invalidation the way a host shell would; a web
	// shell would hard-navigate to the login route here.
	sessions.Subscribe(func(ev session.Event) {
		if ev.Kind == session.EventInvalidated {
			fmt.Printf("session invalidated (%s), navigate to %s\n", ev.Reason, envCfg.Gate.LoginPath)
		}
	})

	// Walk the gate over a few navigation attempts.
	for _, r := range []gate.Route{
		{Path: "/"},
		{Path: "/dashboard", Requirements: gate.Requirements{RequiresAuth: true, RequiresProfile: true}},
		{Path: envCfg.Gate.LoginPath},
	} {
		d := routes.Authorize(ctx, r)
		fmt.Printf("navigate %-18s -> %s %s\n", r.Path, d.Action, d.Target)
	}

	// Cart walkthrough against the current identity's partition.
	store.AddToCart(model.Product{
		ExternalID:       "PRD-1001",
		Name:             "chicken breast 1kg",
		Price:            9900,
		IngredientName:   "chicken breast",
		RecommendedCount: 2,
		PackageGram:      1000,
	})
	store.AddToCart(model.Product{
		ExternalID:       "PRD-1001",
		Name:             "chicken breast 1kg",
		Price:            9900,
		IngredientName:   "chicken breast",
		RecommendedCount: 3,
		PackageGram:      1000,
	})

	snap := store.Snapshot()
	fmt.Printf("cart: %d item(s), recommendedCount=%d\n", len(snap.Cart), snap.Cart[0].RecommendedCount)

	store.ConfirmCurrentCart()
	fmt.Printf("purchased PRD-1001: %v, ledger: %d item(s)\n", store.IsPurchased("PRD-1001"), len(store.Snapshot().Purchased))

	// Log in and read the dashboard when demo credentials are provided.
	if email := os.Getenv("NNCOACH_EMAIL"); email != "" {
		auth := api.NewAuthService(client, sessions)
		user, err := auth.Login(ctx, api.Credentials{
			Email:    email,
			Password: os.Getenv("NNCOACH_PASSWORD"),
		})
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		v := bmi.Calculate(user.Weight, user.Height)
		fmt.Printf("logged in as %s, bmi %.1f (%s), profile complete: %v\n",
			user.Name, v, bmi.Categorize(v), user.Complete())

		summary, err := api.NewDashboardService(client).Summary(ctx, user.ID)
		if err != nil {
			log.Fatalf("Dashboard summary failed: %v", err)
		}
		fmt.Printf("latest weight %.1f, today %.0f kcal\n", summary.LatestWeight, summary.TodayCalories)
	}

	fmt.Println("demo completed")
}

// openStorage selects the persistence backend for the run.
func openStorage(cfg *AppConfig) storage.KV {
	switch cfg.StorageBackend {
	case "redis":
		if err := envconfig.Process("redis", &cfg.Redis); err != nil {
			log.Fatalf("Failed to process redis config: %v", err)
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		return storage.NewRedis(rdb, "nncoach:")
	case "memory":
		return storage.NewMemory()
	default:
		kv, err := storage.NewFile(cfg.File)
		if err != nil {
			log.Fatalf("Failed to open storage dir: %v", err)
		}
		return kv
	}
}
