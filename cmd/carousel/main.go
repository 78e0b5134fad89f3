package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abcnews/content-carousel/internal/config"
	"github.com/abcnews/content-carousel/internal/logging"
	"github.com/abcnews/content-carousel/internal/storage"
	"github.com/abcnews/content-carousel/internal/track"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "carousel"

var (
	// Global flags
	configDir string
	logLevel  string

	// Set up in PersistentPreRunE
	SlogManager *logging.SlogManager
	Logger      *slog.Logger
	logFile     *os.File

	sessionStart = time.Now()
	sessionID    = uuid.NewString()
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Parse article carousels and replay swipe gestures",
	Long: `carousel turns CMS article markup into carousel slide decks and drives the
swipe recognizer from recorded input traces.

Configuration is read from carousel.cfg.json in --config; missing files fall
back to defaults.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.ErrOrStderr())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing "+config.FileName)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	rootCmd.AddCommand(parseCmd, replayCmd, statsCmd)
}

// setup loads configuration and initializes logging. Logs go to stderr so
// command output on stdout stays machine readable.
func setup(stderr io.Writer) error {
	cfgErr := config.Load(configDir)
	if logLevel != "" {
		viper.Set("logLevel", logLevel)
	}

	if dir := viper.GetString("logsDir"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs dir: %w", err)
		}
		path := logging.LogFilePath(dir, appName, sessionStart)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
	}

	SlogManager = logging.NewSlogManager()
	var file io.Writer
	if logFile != nil {
		file = logFile
	}
	SlogManager.Setup(stderr, file, viper.GetString("logLevel"), slog.String("session", sessionID))
	Logger = SlogManager.Logger()

	if cfgErr != nil {
		Logger.Debug("Config file not loaded, using defaults", "dir", configDir, "error", cfgErr)
	} else {
		Logger.Debug("Loaded config", "file", viper.ConfigFileUsed())
	}
	return nil
}

// openStorage creates and initializes the configured counting store.
func openStorage() (storage.Backend, error) {
	cfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(cfg, Logger, SlogManager.ZeroLogger("database"))
	if err != nil {
		return nil, err
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Type, err)
	}
	Logger.Debug("Storage initialized", "type", cfg.Type)
	return backend, nil
}

// newRegistry builds the tracking registry over the counting store, mirrored
// into OpenTelemetry when enabled.
func newRegistry(backend storage.Backend) (*track.Registry, error) {
	var counter track.Counter = backend
	if viper.GetBool("otel.enabled") {
		oc, err := track.NewOTelCounter(nil)
		if err != nil {
			return nil, err
		}
		counter = track.Multi(backend, oc)
	}
	return track.NewRegistry(counter, Logger, config.GetTrackConfig()), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if Logger != nil {
			Logger.Error("Command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
