package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// OutputDir receives one <site>.json file per crawled site.
	OutputDir string // default: "output"
	// ValidationDir receives the valid/invalid CSV exports.
	ValidationDir string // default: "validation_output"

	// Sites lists the site names to crawl when no SitesFile is given.
	Sites []string
	// SitesFile is an optional JSON5 site binding file.
	SitesFile string

	Browser BrowserConfig
	Crawl   CrawlConfig
	Mongo   MongoConfig
	S3      S3Config
	Notify  NotifyConfig
	Log     LogConfig

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string
}

// BrowserConfig controls rendered fetches.
type BrowserConfig struct {
	// Engine picks the browser driver: "chromedp", "selenium" or "rod".
	Engine string // default: "chromedp"

	// ChromeDriverPath is the chromedriver binary used by the selenium engine.
	ChromeDriverPath string // default: "chromedriver"

	SeleniumBasePort  int // default: 9515
	SeleniumPortRange int // default: 100

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	Headless  bool // default: true
	NoSandbox bool // default: false

	// Stealth injects rod's anti-detection script into every tab.
	Stealth bool // default: false
}

// CrawlConfig controls request timing.
type CrawlConfig struct {
	RequestTimeout time.Duration // default: 30s

	// RenderWaitTimeout bounds the wait for a page's ready selector.
	RenderWaitTimeout time.Duration // default: 10s

	// PacingBatch detail fetches are followed by a PacingPause in rendered
	// mode. Zero keeps each site's own pacing.
	PacingBatch int
	PacingPause time.Duration

	// StaticRPS limits static requests per second. 0 disables the limit.
	StaticRPS float64

	// SiteConcurrency is how many sites are crawled at once.
	SiteConcurrency int // default: 1
}

// MongoConfig enables storing records in MongoDB when URI is set.
type MongoConfig struct {
	URI      string
	Database string // default: "catalog"
}

// S3Config enables uploading output files when Bucket is set.
type S3Config struct {
	Region string // default: "us-east-1"
	Bucket string
	Prefix string
}

// NotifyConfig enables the run summary e-mail when SendGridAPIKey is set.
type NotifyConfig struct {
	SendGridAPIKey string
	From           string
	To             string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from a .env file, if present, and the environment.
func Load() *Config {
	envFile := ""
	if err := godotenv.Load(); err == nil {
		envFile = ".env"
	}

	return &Config{
		OutputDir:     envOr("OUTPUT_DIR", "output"),
		ValidationDir: envOr("VALIDATION_DIR", "validation_output"),
		Sites:         envSliceOr("SITES", nil),
		SitesFile:     os.Getenv("SITES_FILE"),
		Browser: BrowserConfig{
			Engine:            strings.ToLower(envOr("RENDER_ENGINE", "chromedp")),
			ChromeDriverPath:  envOr("CHROMEDRIVER_PATH", "chromedriver"),
			SeleniumBasePort:  envIntOr("SELENIUM_BASE_PORT", 9515),
			SeleniumPortRange: envIntOr("SELENIUM_PORT_RANGE", 100),
			BrowserBin:        os.Getenv("BROWSER_BIN"),
			Headless:          envBoolOr("HEADLESS", true),
			NoSandbox:         envBoolOr("NO_SANDBOX", false),
			Stealth:           envBoolOr("STEALTH", false),
		},
		Crawl: CrawlConfig{
			RequestTimeout:    envDurationOr("REQUEST_TIMEOUT", 30*time.Second),
			RenderWaitTimeout: envDurationOr("RENDER_WAIT_TIMEOUT", 10*time.Second),
			PacingBatch:       envIntOr("PACING_BATCH", 0),
			PacingPause:       envDurationOr("PACING_PAUSE", 0),
			StaticRPS:         envFloatOr("STATIC_RPS", 0),
			SiteConcurrency:   envIntOr("SITE_CONCURRENCY", 1),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: envOr("MONGO_DATABASE", "catalog"),
		},
		S3: S3Config{
			Region: envOr("AWS_REGION", "us-east-1"),
			Bucket: os.Getenv("AWS_BUCKET_NAME"),
			Prefix: os.Getenv("S3_PREFIX"),
		},
		Notify: NotifyConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			From:           os.Getenv("NOTIFY_FROM"),
			To:             os.Getenv("NOTIFY_TO"),
		},
		Log: LogConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "text"),
		},
		EnvFile: envFile,
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
