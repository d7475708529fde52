package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// Config holds the runtime configuration read from the environment.
type Config struct {
	DatabaseURL string // Postgres DSN; empty selects local sqlite
	DataDir     string
	ModelPath   string
	Mode        models.Mode
	DailyGoal   int
	RetrainHour int
	MinSamples  int
}

// Load reads .env if present, then the environment, applying defaults
// for anything unset.
func Load() *Config {
	// Missing .env is fine; the environment may be set directly.
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}

	mode := models.ModeBaseline
	if s := os.Getenv("MODE"); s != "" {
		m, err := models.ParseMode(s)
		if err != nil {
			log.Printf("config: %v, using baseline", err)
		} else {
			mode = m
		}
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = dataDir + "/interval_model.json"
	}

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataDir:     dataDir,
		ModelPath:   modelPath,
		Mode:        mode,
		DailyGoal:   envInt("DAILY_GOAL", 20),
		RetrainHour: envInt("RETRAIN_HOUR", 3),
		MinSamples:  envInt("MIN_TRAINING_SAMPLES", 0), // 0 → trainer default
	}
}

func envInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, s, fallback)
		return fallback
	}
	return v
}
