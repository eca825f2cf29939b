package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"scale-monitor-backend/internal/config"
	"scale-monitor-backend/internal/database"
	"scale-monitor-backend/internal/logger"
	"scale-monitor-backend/internal/seed"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var dsn, password, logLevel string
	var migrate bool

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&dsn, "dsn", "", "Postgres DSN (default: $DATABASE_DSN)")
	flagSet.StringVar(&password, "password", seed.DefaultPassword, "password given to every seeded user")
	flagSet.BoolVar(&migrate, "migrate", true, "create or update tables before seeding")
	flagSet.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if dsn == "" {
		dsn = config.DSN()
	}

	log, err := logger.New(logLevel, "console", "scale-monitor-seed")
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.Open(&config.Config{DatabaseDSN: dsn, DBMaxOpenConns: 2, DBMaxIdleConns: 1}, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d := seed.Demo(password)
	if err := seed.Apply(ctx, db, d, log); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	for _, u := range d.Users {
		log.Info("user ready", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	}
	for _, s := range d.Scales {
		log.Info("device ready", zap.String("device_id", s.DeviceID), zap.String("branch", s.BranchCode))
	}
	return nil
}
