package main

import (
	"context"
	"flag"
	"time"

	"pinboard-server/config"
	"pinboard-server/seed"
	"pinboard-server/stores"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	count := flag.Int("n", 50, "Number of posts to create.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Faker seed.")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	store, err := stores.GetStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open post store")
	}
	defer store.Close()

	ids, err := seed.New(*seedValue).Posts(context.Background(), store, *count)
	if err != nil {
		logrus.WithError(err).WithField("inserted", len(ids)).Error("seeding stopped")
		return
	}
	logrus.WithField("inserted", len(ids)).Info("seeding finished")
}
