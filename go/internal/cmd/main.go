package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/felt/go/internal/gateway"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	setupLogging()

	config, err := loadConfig(getEnv("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	services := setupServices(config)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go services.Gateway.Run(ctx)

	if config.NATS.Enabled {
		consumerConfig := gateway.DefaultJetStreamConsumerConfig()
		consumerConfig.URL = config.NATS.URL
		if config.NATS.StreamName != "" {
			consumerConfig.StreamName = config.NATS.StreamName
		}
		if config.NATS.SubjectFilter != "" {
			consumerConfig.SubjectFilter = config.NATS.SubjectFilter
		}

		consumer, err := gateway.NewEventConsumer(services.Gateway, consumerConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event consumer")
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer stopped")
			}
		}()
	} else {
		log.Info().Msg("NATS disabled - relying on snapshot polling only")
	}

	server := setupServer(config, services)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("dashboard engine listening")
		if err := server.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func setupLogging() {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if getEnv("LOG_PRETTY", "") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
