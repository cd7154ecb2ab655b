package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	logFile *os.File

	// L is the base logger used when no component scope applies.
	L *slog.Logger

	// App logs application lifecycle events.
	App *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// Sender logs outbound dispatch activity.
	Sender *slog.Logger
	// DB logs database events.
	DB *slog.Logger
	// MIG logs migration events.
	MIG *slog.Logger
	// SVCOrders logs order service activity.
	SVCOrders *slog.Logger
	// SVCCatalog logs catalog loading activity.
	SVCCatalog *slog.Logger
)

func init() {
	// Components stay usable before Init (tests, early bootstrap).
	L = slog.Default()
	wireComponents()
}

// Config carries the logging settings consumed by Init.
type Config struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Profile string `yaml:"profile"`
	Dir     string `yaml:"dir"`
	File    string `yaml:"file"`
}

// Init configures the global structured logger. It may be called only once.
func Init(cfg Config) error {
	var initErr error
	initOnce.Do(func() {
		out, err := buildOutput(cfg)
		if err != nil {
			initErr = err
			return
		}

		opts := &slog.HandlerOptions{Level: selectLevel(cfg.Level)}
		var handler slog.Handler
		if selectFormat(cfg) == "text" {
			handler = slog.NewTextHandler(out, opts)
		} else {
			handler = slog.NewJSONHandler(out, opts)
		}

		L = slog.New(handler)
		slog.SetDefault(L)
		wireComponents()

		App.Info("startup",
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("profile", selectProfile(cfg)),
		)
	})
	return initErr
}

func wireComponents() {
	App = L.With("component", "app")
	TG = L.With("component", "tg")
	Sender = L.With("component", "tg.sender")
	DB = L.With("component", "db")
	MIG = L.With("component", "db.migrate")
	SVCOrders = L.With("component", "service.orders")
	SVCCatalog = L.With("component", "service.catalog")
}

// Shutdown flushes and closes file sinks opened by Init.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// Component constructs a logger scoped to the provided component attribute.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default()
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return L
	}
	return L.With("component", trimmed)
}

func buildOutput(cfg Config) (io.Writer, error) {
	dir := strings.TrimSpace(cfg.Dir)
	file := strings.TrimSpace(cfg.File)
	if dir == "" || file == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("logger: failed to create log dir %s: %v", dir, err)
		return os.Stdout, nil
	}
	path := filepath.Join(dir, file)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("logger: failed to open log file %s: %v", path, err)
		return os.Stdout, nil
	}
	logFile = f
	return io.MultiWriter(os.Stdout, f), nil
}

func selectLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectFormat(cfg Config) string {
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "text", "kv", "pretty":
		return "text"
	case "json":
		return "json"
	}
	if strings.EqualFold(cfg.Profile, "debug") || strings.EqualFold(cfg.Profile, "dev") {
		return "text"
	}
	return "json"
}

func selectProfile(cfg Config) string {
	if p := strings.TrimSpace(cfg.Profile); p != "" {
		return strings.ToLower(p)
	}
	return "prod"
}
