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
	"runtime"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/world-clocks/internal/config"
	"github.com/tartampluch/world-clocks/internal/engine"
	"github.com/tartampluch/world-clocks/internal/server"
	"github.com/tartampluch/world-clocks/internal/ui"
)

// main delegates to runMain so deferred cleanups (the log file) run before
// os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and signals, and maps the outcome
// to a process exit code.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	if logFile := setupLogging(*debugMode); logFile != nil {
		defer func() {
			_ = logFile.Close()
		}()
	}

	// SIGINT and SIGTERM stop the refresher, the API server and the UI.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run loads the city catalogue, wires dependencies, and starts the UI loop.
// A broken catalogue is a build defect and aborts startup.
func run(ctx context.Context) error {
	cities, err := engine.DefaultCities()
	if err != nil {
		return err
	}

	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	port := a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	srv := server.NewSnapshotServer(port)

	// The UI applies the interval stored in preferences.
	refresher := engine.NewRefresher(engine.NewRealClock(), cities, 0)

	gui := ui.NewWorldClockApp(a, ctx, srv, refresher)

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(a.Quit)
	}()

	// Blocks until the application quits.
	gui.Run()

	return nil
}

func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON slog logger writing to stdout and, when the
// cache directory is usable, to a log file truncated on every start.
// The returned file is nil when only stdout is used.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}

	logFile := openLogFile()
	if logFile != nil {
		writers = append(writers, logFile)
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

func openLogFile() *os.File {
	logPath, err := getLogFilePath()
	if err != nil {
		return nil
	}

	f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		return nil
	}
	return f
}

// getLogFilePath returns the log location under the user's cache directory,
// creating the application folder (0700) if needed.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
