package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "seed").Logger()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ADMIN_EMAIL", "admin@storefront.local")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	if err := seed.Apply(ctx, dbpool, v.GetString("ADMIN_EMAIL"), v.GetString("ADMIN_PASSWORD")); err != nil {
		logger.Fatal().Err(err).Msg("seed data")
	}
	logger.Info().Msg("seed data applied")
}
