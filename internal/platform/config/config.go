// Package config loads the controller's deployment settings from the
// environment. Game rules are fixed constants in internal/game and are
// deliberately not configurable; everything here is wiring: addresses,
// device paths, the RNG seed.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/energiepark/moonshot/internal/platform/logger"
)

// Config holds the deployment settings for one exhibit installation.
type Config struct {
	// ListenAddr is where the panel and metrics HTTP server binds.
	ListenAddr string
	// JournalPath is the SQLite journal file; empty disables journaling.
	JournalPath string
	// SerialDevice is the segment-display controller; empty disables it.
	SerialDevice string
	SerialBaud   int
	// Seed seeds the LED randomizer; 0 means derive from the clock.
	Seed int64
}

// Load reads .env (when present) and the process environment.
func Load(log *logger.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using process environment")
	}

	return &Config{
		ListenAddr:   getString("MOONSHOT_LISTEN_ADDR", ":8090"),
		JournalPath:  getString("MOONSHOT_JOURNAL_PATH", "moonshot.db"),
		SerialDevice: getString("MOONSHOT_SERIAL_DEVICE", ""),
		SerialBaud:   getInt("MOONSHOT_SERIAL_BAUD", 9600, log),
		Seed:         int64(getInt("MOONSHOT_SEED", 0, log)),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, log *logger.Logger) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("Invalid integer for " + key + ": " + v + ", using default")
		return fallback
	}
	return n
}
