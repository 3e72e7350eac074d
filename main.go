package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"

	"jobintake_backend/internals/configs"
	database "jobintake_backend/internals/databases"
	"jobintake_backend/internals/databases/migrations"
	"jobintake_backend/internals/features/applications/repository"
	"jobintake_backend/internals/features/applications/scheduler"
	"jobintake_backend/internals/features/applications/service"
	helper "jobintake_backend/internals/helpers"
	"jobintake_backend/internals/helpers/storage"
	middlewares "jobintake_backend/internals/middlewares"
	routes "jobintake_backend/internals/route"
	"jobintake_backend/internals/seeds"
	applicationSeeds "jobintake_backend/internals/seeds/applications"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply schema migrations and exit")
	seedOnly := flag.Bool("seed", false, "insert the sample applications and exit")
	flag.Parse()

	configs.LoadEnv()
	cfg := configs.Load()
	helper.ExposeInternalErrors = cfg.IsDevelopment()

	// 🔌 DB connect + pool
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer database.Close(db)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), time.Minute)
	if err := migrations.Run(bootCtx, db); err != nil {
		cancelBoot()
		database.Close(db)
		log.Fatalf("❌ migrations: %v", err)
	}
	cancelBoot()
	if *migrateOnly {
		log.Println("✅ Migrations applied, exiting.")
		return
	}

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		database.Close(db)
		log.Fatalf("❌ upload dir: %v", err)
	}
	policy, err := configs.LoadUploadPolicy(cfg.UploadPolicy, cfg.MaxUploadBytes)
	if err != nil {
		database.Close(db)
		log.Fatalf("❌ %v", err)
	}
	repo := repository.NewApplicationRepository(db, store)

	if *seedOnly {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := seeds.RunAllSeeds(ctx, repo); err != nil {
			database.Close(db)
			log.Fatalf("❌ seeds: %v", err)
		}
		return
	}

	// 🧠 Limiter storage: redis when configured, memory otherwise
	var (
		limiterStore fiber.Storage
		redisStore   *middlewares.RedisStorage
	)
	if cfg.RateLimit.RedisURL != "" {
		redisStore, err = middlewares.NewRedisStorage(cfg.RateLimit.RedisURL, "jobintake:limiter:")
		if err != nil {
			log.Printf("⚠️ redis unavailable, limiter falls back to memory: %v", err)
		} else {
			limiterStore = redisStore
			log.Println("✅ Limiter storage: redis")
		}
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimitBytes,
		ErrorHandler:          helper.ErrorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	submitLimiter := middlewares.SetupMiddlewares(app, cfg, limiterStore)

	routes.SetupRoutes(app, routes.Deps{
		DB:            db,
		Repo:          repo,
		Store:         store,
		Uploads:       service.NewUploadService(store, policy),
		SubmitLimiter: submitLimiter,
		JWTSecret:     cfg.AdminJWTSecret,
		Seed: func(ctx context.Context) (int, int, error) {
			return applicationSeeds.SeedApplications(ctx, repo, time.Now())
		},
	})

	// ⏱ scheduler setelah DB siap
	var reaperCron *cron.Cron
	if cfg.Reaper.Enabled {
		c, err := scheduler.StartOrphanReaper(cfg.Reaper, scheduler.NewOrphanReaper(repo, store, cfg.Reaper))
		if err != nil {
			log.Printf("⚠️ orphan reaper not started: %v", err)
		} else {
			reaperCron = c
		}
	}

	go func() {
		log.Printf("✅ Listening on :%s (env=%s, uploads=%s)", cfg.Port, cfg.Env, store.Dir())
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if reaperCron != nil {
		select {
		case <-reaperCron.Stop().Done():
		case <-ctx.Done():
		}
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	repo.WaitSweeps()
	if redisStore != nil {
		_ = redisStore.Close()
	}
}
