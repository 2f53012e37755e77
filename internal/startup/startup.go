package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"trainprep/internal/codec"
	"trainprep/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	TrainDir        string
	ValDir          string // empty disables validation
	ManifestDir     string
	Port            string
	TargetSize      codec.Size
	BatchSize       int
	KeepRemainder   bool
	Seed            int64
	WatchEnabled    bool
	MetricsEnabled  bool
	LogHealthChecks bool
	UseVips         bool

	// Derived paths
	ManifestPath string
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	trainDir := getEnv("TRAIN_DIR", "/data/train")
	valDir := getEnv("VAL_DIR", "")
	manifestDir := getEnv("MANIFEST_DIR", "/manifest")
	port := getEnv("PORT", "8080")
	targetSizeStr := getEnv("TARGET_SIZE", "224x224")
	batchSize := getEnvInt("BATCH_SIZE", 32)
	keepRemainder := getEnvBool("KEEP_REMAINDER", false)
	seed := getEnvInt64("SEED", time.Now().UnixNano())
	watchEnabled := getEnvBool("WATCH_ENABLED", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", false)
	useVips := getEnvBool("USE_VIPS", false)

	logging.Info("  TRAIN_DIR:        %s", trainDir)
	logging.Info("  VAL_DIR:          %s", orNone(valDir))
	logging.Info("  MANIFEST_DIR:     %s", manifestDir)
	logging.Info("  PORT:             %s", port)
	logging.Info("  TARGET_SIZE:      %s", targetSizeStr)
	logging.Info("  BATCH_SIZE:       %d", batchSize)
	logging.Info("  KEEP_REMAINDER:   %v", keepRemainder)
	logging.Info("  WATCH_ENABLED:    %v", watchEnabled)
	logging.Info("  METRICS_ENABLED:  %v", metricsEnabled)
	logging.Info("  USE_VIPS:         %v", useVips)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	targetSize, err := parseTargetSize(targetSizeStr)
	if err != nil {
		logging.Warn("  Invalid TARGET_SIZE %q, using default 224x224", targetSizeStr)
		targetSize = codec.DefaultSize
	}

	if batchSize <= 0 {
		logging.Warn("  Invalid BATCH_SIZE %d, using default 32", batchSize)
		batchSize = 32
	}

	if err := requireDirectory("TRAIN_DIR", trainDir); err != nil {
		return nil, err
	}
	if valDir != "" {
		if err := requireDirectory("VAL_DIR", valDir); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(manifestDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create MANIFEST_DIR %s: %w", manifestDir, err)
	}

	return &Config{
		TrainDir:        trainDir,
		ValDir:          valDir,
		ManifestDir:     manifestDir,
		Port:            port,
		TargetSize:      targetSize,
		BatchSize:       batchSize,
		KeepRemainder:   keepRemainder,
		Seed:            seed,
		WatchEnabled:    watchEnabled,
		MetricsEnabled:  metricsEnabled,
		LogHealthChecks: logHealthChecks,
		UseVips:         useVips,
		ManifestPath:    filepath.Join(manifestDir, "manifest.db"),
	}, nil
}

// parseTargetSize parses "HxW" strings like "224x224".
func parseTargetSize(s string) (codec.Size, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return codec.Size{}, fmt.Errorf("expected HxW, got %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return codec.Size{}, err
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return codec.Size{}, err
	}
	size := codec.Size{Height: h, Width: w}
	if !size.Valid() {
		return codec.Size{}, fmt.Errorf("dimensions must be positive, got %q", s)
	}
	return size, nil
}

func requireDirectory(name, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%s %s is not accessible: %w", name, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s %s is not a directory", name, dir)
	}
	return nil
}

func printBanner() {
	logging.Info("============================================================")
	logging.Info("trainprep %s (commit %s, built %s)", Version, Commit, BuildTime)
	logging.Info("%s %s/%s", GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Info("============================================================")
}

// LogHTTPRoutes logs all registered routes on the router
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP ROUTES")
	logging.Info("------------------------------------------------------------")

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			logging.Info("  *       %s", path)
			return nil
		}
		for _, m := range methods {
			logging.Info("  %-7s %s", m, path)
		}
		return nil
	})
	if err != nil {
		logging.Warn("failed to walk routes: %v", err)
	}
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
