package main

import (
	"Quizzy/ai"
	"Quizzy/bot"
	"Quizzy/core"
	"Quizzy/holder"
	"Quizzy/lib/sl"
	"Quizzy/storage"
	"Quizzy/web"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	// .env is optional, the real environment always wins
	_ = godotenv.Load()

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := core.MustLoad(*configPath)
	log := setupLogger(conf.Env)
	log.With(
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		slog.String("model", conf.OpenAI.Model),
		sl.Secret(conf.OpenAI.ApiKey),
	).Info("starting quizzy")

	// Initialize storage based on config
	var store storage.GenerationStorage
	if conf.Mongo.Enabled {
		mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%s",
			conf.Mongo.User, conf.Mongo.Password,
			conf.Mongo.Host, conf.Mongo.Port)
		var err error
		store, err = storage.NewMongoStorage(mongoURI, conf.Mongo.Database, log)
		if err != nil {
			log.With(
				slog.String("db", conf.Mongo.Database),
				slog.String("user", conf.Mongo.User),
				slog.String("host", conf.Mongo.Host),
			).Error("falling back to memory", sl.Err(err))
			store = storage.NewMemoryStorage()
		} else {
			log.Info("using MongoDB storage")
		}
	} else {
		store = storage.NewMemoryStorage()
		log.Info("using in-memory storage")
	}
	history := holder.NewHistoryKeeper(store, log)

	var limiter web.Limiter
	if conf.RateLimit.Enabled {
		redisLimiter, err := storage.NewRedisLimiter(conf.RateLimit.Addr, conf.RateLimit.Password, conf.RateLimit.DB)
		if err != nil {
			log.With(
				slog.String("addr", conf.RateLimit.Addr),
			).Error("rate limiting disabled", sl.Err(err))
		} else {
			defer func() {
				if err := redisLimiter.Close(); err != nil {
					log.Error("closing redis", sl.Err(err))
				}
			}()
			limiter = redisLimiter
			log.Info("rate limiting enabled")
		}
	}

	generator := ai.NewQuestionGenerator(conf, log)
	server := web.New(conf, generator, generator, history, limiter, log)

	var tgBot *bot.TgBot
	if conf.TelegramApiKey != "" {
		var err error
		tgBot, err = bot.NewTgBot(conf, log)
		if err != nil {
			log.Error("creating telegram", sl.Err(err))
		}
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	if tgBot != nil {
		go func() {
			if err := tgBot.Start(); err != nil {
				log.Error("bot stopped with error", sl.Err(err))
			}
		}()
	}

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", slog.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			log.Error("web server stopped", sl.Err(err))
		}
	}

	// Graceful shutdown
	if tgBot != nil {
		tgBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutting down web server", sl.Err(err))
	}

	if err := history.Close(); err != nil {
		log.Error("closing storage", sl.Err(err))
	}

	log.Info("shutdown complete")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
