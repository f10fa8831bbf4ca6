package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"classifier-api/internal/cache"
	"classifier-api/internal/config"
	"classifier-api/internal/handlers/prediction"
	"classifier-api/internal/logging"
	"classifier-api/internal/model"
	"classifier-api/internal/routers"
	"classifier-api/internal/shared"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Flags / ENV Variables
	configPath := flag.String("config", shared.DefaultConfigPath, "Settings yaml path")
	addr := flag.String("addr", shared.DefaultListenAddr, "Listen address")
	apiKey := flag.String("api-key", "", "Overrides api_key from the settings file")
	redisAddr := flag.String("redis-addr", "", "Redis host:port for the shared prediction cache")
	logFile := flag.String("log-file", "", "Also write logs to this rotating file")
	logMaxSize := flag.Int("log-max-size", logging.DefaultMaxSizeMB, "Megabytes before the log file is rotated")
	logMaxBackups := flag.Int("log-max-backups", 0, "Rotated log files to keep, 0 keeps all")
	logMaxAge := flag.Int("log-max-age", 0, "Days to keep rotated log files, 0 keeps all")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	log, err := logging.New(logging.Options{
		Debug:      *debug,
		File:       *logFile,
		MaxSizeMB:  *logMaxSize,
		MaxBackups: *logMaxBackups,
		MaxAgeDays: *logMaxAge,
	})
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	settings, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if *apiKey != "" {
		settings.APIKey = *apiKey
	}

	m, err := model.Load(settings.ModelPath)
	if err != nil {
		panic(err)
	}
	log.Infow("Loaded model", "path", settings.ModelPath, "model_version", m.Version(), "features", m.FeatureCount())

	var local, remote cache.Cache
	if settings.CacheSize > 0 {
		local, err = cache.NewLRU(settings.CacheSize)
		if err != nil {
			panic(err)
		}
	}
	if *redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     *redisAddr,
			Password: "",
			DB:       0,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			panic(fmt.Sprintf("failed ping to redis db: %s", err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		remote = cache.NewRedis(redisClient, settings.CacheTTL, log)
	}

	ph, err := prediction.NewPredictionHandler(settings, m, cache.NewTiered(local, remote), log)
	if err != nil {
		panic(err)
	}
	e, err := routers.New(ph, log)
	if err != nil {
		panic(err)
	}

	go func() {
		log.Infow("Listening", "addr", *addr)
		if err := e.Start(*addr); err != nil && err != http.ErrServerClosed {
			log.Fatalw("shutting down the server", "error", err)
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorw("Failed graceful shutdown", "error", err)
	}
}
