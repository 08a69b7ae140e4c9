package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	apiPkg "github.com/h1v3-io/screenshotter/internal/api"
	"github.com/h1v3-io/screenshotter/internal/capture"
	"github.com/h1v3-io/screenshotter/internal/config"
	"github.com/h1v3-io/screenshotter/internal/journal"
	"github.com/h1v3-io/screenshotter/internal/logbuf"
	"github.com/h1v3-io/screenshotter/internal/mcpserver"
	"github.com/h1v3-io/screenshotter/internal/scheduler"
	"github.com/h1v3-io/screenshotter/internal/tool"
	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (.json, .yaml or .yml)")
	backend := flag.String("backend", "", "Capture backend: native or library (overrides config)")
	transport := flag.String("transport", "", "MCP transport: stdio, sse or http (overrides config)")
	addr := flag.String("addr", "", "Listen address for sse/http transports (overrides config)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	// stdout belongs to the stdio transport, so logs always go to stderr.
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logBuf := logbuf.New(2000)
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logbuf.NewHandler(jsonHandler, logBuf))

	// Load config (file or env), then apply flag overrides
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Capture.Backend = *backend
	}
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Capture journal (optional)
	var store journal.Store
	var recorder capture.Recorder
	if cfg.Journal.Path != "" {
		sqlStore, err := openJournal(cfg.Journal.Path)
		if err != nil {
			logger.Error("failed to open capture journal", "path", cfg.Journal.Path, "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store, recorder = sqlStore, sqlStore
		logger.Info("capture journal opened", "path", cfg.Journal.Path)
	}

	// 2. Capture service
	be, err := capture.NewBackend(cfg.Capture.Backend)
	if err != nil {
		logger.Error("failed to select backend", "error", err)
		os.Exit(1)
	}
	toolName := tool.ToolNameFor(be.Name())
	svc, err := capture.NewService(capture.Options{
		Backend:  be,
		Namer:    &capture.Namer{Dir: cfg.Capture.OutputDir, AvoidCollisions: cfg.Capture.AvoidCollisions},
		Recorder: recorder,
		Logger:   logger.With(logbuf.ComponentKey, "capture"),
		Tool:     toolName,
	})
	if err != nil {
		logger.Error("failed to create capture service", "error", err)
		os.Exit(1)
	}

	// 3. Tools + MCP server
	tools := tool.NewRegistry()
	if err := tools.Register(tool.NewScreenshotTool(be.Name(), svc)); err != nil {
		logger.Error("failed to register tool", "error", err)
		os.Exit(1)
	}
	if store != nil {
		if err := tools.Register(&tool.ListScreenshotsTool{Journal: store}); err != nil {
			logger.Error("failed to register tool", "error", err)
			os.Exit(1)
		}
	}
	mcpSrv, err := mcpserver.New(tools, mcpserver.Info{Name: cfg.Server.Name, Version: version}, logger)
	if err != nil {
		logger.Error("failed to create mcp server", "error", err)
		os.Exit(1)
	}

	// 4. Scheduled captures
	if len(cfg.Schedules) > 0 {
		sched := scheduler.New(func(ctx context.Context, name string) {
			out := svc.Take(ctx, protocol.TriggerSchedule)
			logger.Debug("scheduled capture done", "schedule", name, "id", out.ID, "ok", out.OK())
		}, logger.With(logbuf.ComponentKey, "scheduler"))
		for _, s := range cfg.Schedules {
			if err := sched.Add(s.Name, s.Cron); err != nil {
				logger.Error("failed to schedule capture", "name", s.Name, "error", err)
				os.Exit(1)
			}
		}
		go safeGo(logger, "scheduler", func() { sched.Start(ctx) })
	}

	// 5. Admin API
	if cfg.API.Port > 0 {
		var history apiPkg.History
		if store != nil {
			history = store
		}
		apiSrv := apiPkg.NewServer(apiPkg.Config{
			Host: cfg.API.Host,
			Port: cfg.API.Port,
			Tool: toolName,
		}, svc, history, logger.With(logbuf.ComponentKey, "api"), logBuf)
		go safeGo(logger, "api-server", func() { runAPI(ctx, logger, apiSrv) })
	}

	// 6. Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	fmt.Fprintln(bannerWriter(cfg.Server.Transport, os.Stdout, os.Stderr), banner(be.Name()))
	logger.Info("screenshotterd starting",
		"version", version,
		"tool", toolName,
		"transport", cfg.Server.Transport,
		"journal", store != nil,
		"schedules", len(cfg.Schedules),
	)

	if err := mcpSrv.Serve(ctx, cfg.Server.Transport, cfg.Server.Addr, os.Stdin, os.Stdout); err != nil {
		logger.Error("mcp server failed", "error", err)
		cancel()
		os.Exit(1)
	}
	cancel()
	logger.Info("screenshotterd stopped")
}

func banner(backend string) string {
	if backend == capture.BackendLibrary {
		return "Starting Modern Screenshotter MCP server..."
	}
	return "Starting Screenshotter MCP server..."
}

// bannerWriter keeps the stdio protocol stream clean.
func bannerWriter(transport string, stdout, stderr io.Writer) io.Writer {
	if transport == "" || transport == mcpserver.TransportStdio {
		return stderr
	}
	return stdout
}

func openJournal(path string) (*journal.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return journal.NewSQLiteStore(path)
}

type starter interface {
	Start(ctx context.Context) error
}

// runAPI blocks until the admin API stops; a bind failure is logged, not fatal.
func runAPI(ctx context.Context, logger *slog.Logger, srv starter) {
	if err := srv.Start(ctx); err != nil {
		logger.Error("api server failed", "error", err)
	}
}

// safeGo runs fn with panic recovery.
func safeGo(logger *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("goroutine panicked", "name", name, "panic", fmt.Sprintf("%v", r))
		}
	}()
	fn()
}
