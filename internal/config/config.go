package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service settings for the serve daemon, populated from
// EQCAT_* environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Spool directory watched for incoming ISF bulletins.
	SpoolDir      string
	SpoolDebounce time.Duration

	// Identity of the master catalogue built by the daemon.
	CatalogueID   string
	CatalogueName string

	// Path to a YAML selection profile; empty keeps everything.
	SelectionFile string

	// Kafka publishing configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration through viper, applying defaults where unset,
// and validates eagerly so a misconfigured daemon fails before watching
// anything.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EQCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("spool_debounce", "2s")
	v.SetDefault("catalogue_id", "master")
	v.SetDefault("catalogue_name", "Master Catalogue")
	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_sink_topic", "harmonized-quake-events")

	cfg := &Config{
		HTTPAddr:        v.GetString("http_addr"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		SpoolDir:        v.GetString("spool_dir"),
		SpoolDebounce:   v.GetDuration("spool_debounce"),
		CatalogueID:     v.GetString("catalogue_id"),
		CatalogueName:   v.GetString("catalogue_name"),
		SelectionFile:   v.GetString("selection_file"),
		KafkaEnabled:    v.GetBool("kafka_enabled"),
		KafkaBrokers:    splitBrokers(v.GetString("kafka_brokers")),
		KafkaSinkTopic:  v.GetString("kafka_sink_topic"),
	}

	if cfg.SpoolDir == "" {
		return nil, errors.New("EQCAT_SPOOL_DIR is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("invalid EQCAT_SHUTDOWN_TIMEOUT")
	}
	if cfg.SpoolDebounce <= 0 {
		return nil, errors.New("invalid EQCAT_SPOOL_DEBOUNCE")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("EQCAT_KAFKA_ENABLED is true but EQCAT_KAFKA_BROKERS is not set")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("EQCAT_KAFKA_ENABLED is true but EQCAT_KAFKA_SINK_TOPIC is not set")
		}
	}
	return cfg, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
