package main

import (
	"time"

	"github.com/lanternhq/lantern/internal/model"
)

const (
	defaultBindHost           = "127.0.0.1"
	defaultAPIPort            = 3000
	defaultQueryTimeout       = 30 * time.Second
	defaultLogRetention       = 30 // days, 0 = disabled
	defaultMaxUploadBytes     = 16 << 20
	defaultAlertWindowMinutes = model.DefaultAlertWindowMinutes
	defaultAlertThreshold     = model.DefaultAlertThreshold
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	APIEnabled     bool          `mapstructure:"api-enabled"`
	APIPort        int           `mapstructure:"api-port"`
	APIAddr        string        `mapstructure:"api-addr"`
	DBPath         string        `mapstructure:"db-path"`
	QueryTimeout   time.Duration `mapstructure:"query-timeout"`
	LogRetention   int           `mapstructure:"log-retention"`
	MaxUploadBytes int64         `mapstructure:"max-upload-bytes"`
	Debug          bool          `mapstructure:"debug"`

	JournalEnabled bool   `mapstructure:"journal-enabled"`
	JournalPath    string `mapstructure:"journal-path"`

	AlertWindowMinutes int      `mapstructure:"alert-window-minutes"`
	AlertThreshold     int      `mapstructure:"alert-threshold"`
	AlertKeywords      []string `mapstructure:"alert-keywords"`

	ChatEndpoint  string        `mapstructure:"chat-endpoint"`
	ChatModel     string        `mapstructure:"chat-model"`
	ChatToken     string        `mapstructure:"chat-token"`
	ChatMaxTokens int           `mapstructure:"chat-max-tokens"`
	ChatTimeout   time.Duration `mapstructure:"chat-timeout"`

	BackupEnabled        bool          `mapstructure:"backup-enabled"`
	BackupInterval       time.Duration `mapstructure:"backup-interval"`
	BackupLocalDir       string        `mapstructure:"backup-local-dir"`
	BackupKeepLast       int           `mapstructure:"backup-keep-last"`
	BackupBucketURL      string        `mapstructure:"backup-bucket-url"`
	BackupS3Endpoint     string        `mapstructure:"backup-s3-endpoint"`
	BackupS3Region       string        `mapstructure:"backup-s3-region"`
	BackupS3AccessKey    string        `mapstructure:"backup-s3-access-key"`
	BackupS3SecretKey    string        `mapstructure:"backup-s3-secret-key"`
	BackupS3SessionToken string        `mapstructure:"backup-s3-session-token"`
	BackupS3UseSSL       bool          `mapstructure:"backup-s3-use-ssl"`

	ConfigPath string `mapstructure:"-"` // not from config file
}
