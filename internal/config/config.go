package config

import (
	"fmt"
	"time"

	"github.com/abcnews/content-carousel/internal/gesture"
	"github.com/abcnews/content-carousel/internal/slides"
	"github.com/abcnews/content-carousel/internal/track"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "carousel.cfg.json"

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// StorageConfig selects and configures the counting store
type StorageConfig struct {
	Type          string        `json:"type" mapstructure:"type"`
	FlushInterval time.Duration `json:"flushInterval" mapstructure:"flushInterval"`
	SQLite        SQLiteConfig  `json:"sqlite" mapstructure:"sqlite"`
	Postgres      DBConfig      `json:"db" mapstructure:"db"`
}

// CarouselConfig holds bootstrap settings
type CarouselConfig struct {
	DecoySelector string `json:"decoySelector" mapstructure:"decoySelector"`
}

// SetDefaults registers default values for every known key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("gesture.minDistancePx", gesture.DefaultMinDistancePx)
	viper.SetDefault("gesture.thresholdDistancePx", gesture.DefaultThresholdDistancePx)
	viper.SetDefault("gesture.alwaysListen", false)

	viper.SetDefault("parser.markerSelector", slides.DefaultMarkerSelector)
	viper.SetDefault("carousel.decoySelector", `[data-key="carousel"]`)

	viper.SetDefault("track.groupPrefix", track.DefaultGroupPrefix)
	viper.SetDefault("track.preview", false)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.flushInterval", "2s")
	viper.SetDefault("storage.sqlite.path", "./carousel.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "carousel")

	viper.SetDefault("otel.enabled", false)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetGestureConfig returns the recognizer settings.
func GetGestureConfig() gesture.Config {
	return gesture.Config{
		MinDistancePx:       viper.GetFloat64("gesture.minDistancePx"),
		ThresholdDistancePx: viper.GetFloat64("gesture.thresholdDistancePx"),
		AlwaysListen:        viper.GetBool("gesture.alwaysListen"),
	}
}

// GetParserConfig returns the slide parser settings.
func GetParserConfig() slides.Options {
	return slides.Options{
		MarkerSelector: viper.GetString("parser.markerSelector"),
	}
}

// GetCarouselConfig returns the bootstrap settings.
func GetCarouselConfig() CarouselConfig {
	return CarouselConfig{
		DecoySelector: viper.GetString("carousel.decoySelector"),
	}
}

// GetTrackConfig returns the tracking registry settings.
func GetTrackConfig() track.Options {
	return track.Options{
		GroupPrefix: viper.GetString("track.groupPrefix"),
		Preview:     viper.GetBool("track.preview"),
	}
}

// GetStorageConfig returns the counting store settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		Postgres: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}
