package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	LogLevel           string
	MaxUploadSizeBytes int64
	SessionTTLMinutes  int

	// Audit tuning. Read once at startup and treated as immutable for the
	// duration of every run.
	LateFeePerDay     float64
	MinLateFee        float64
	MaxLateFee        float64
	MismatchTolerance float64
	FuzzyMatchCutoff  float64

	// Report rendering.
	ReportRowCap   int
	CurrencySymbol string
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found. Relying on OS environment variables and defaults.")
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", 10*1024*1024),
		SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),

		LateFeePerDay:     getEnvAsFloat("LATE_FEE_PER_DAY", 50),
		MinLateFee:        getEnvAsFloat("MIN_LATE_FEE", 100),
		MaxLateFee:        getEnvAsFloat("MAX_LATE_FEE", 5000),
		MismatchTolerance: getEnvAsFloat("MISMATCH_TOLERANCE", 1.00),
		FuzzyMatchCutoff:  getEnvAsFloat("FUZZY_MATCH_CUTOFF", 0.6),

		ReportRowCap:   getEnvAsInt("REPORT_ROW_CAP", 10),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "Rs."),
	}

	if Cfg.LateFeePerDay <= 0 {
		log.Printf("WARNING: LATE_FEE_PER_DAY must be positive, got %v. Using default 50.", Cfg.LateFeePerDay)
		Cfg.LateFeePerDay = 50
	}
	if Cfg.FuzzyMatchCutoff <= 0 || Cfg.FuzzyMatchCutoff > 1 {
		log.Printf("WARNING: FUZZY_MATCH_CUTOFF must be in (0,1], got %v. Using default 0.6.", Cfg.FuzzyMatchCutoff)
		Cfg.FuzzyMatchCutoff = 0.6
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, FeePerDay=%.0f, Tolerance=%.2f",
		Cfg.Port, Cfg.LogLevel, Cfg.LateFeePerDay, Cfg.MismatchTolerance)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid numeric value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}
