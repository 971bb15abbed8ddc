package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Storage
	DataDir   string `mapstructure:"DATA_DIR"`
	BackupDir string `mapstructure:"BACKUP_DIR"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	JWTRefreshHours    int    `mapstructure:"JWT_REFRESH_HOURS"`

	// Business clock
	Timezone string `mapstructure:"TIMEZONE"`

	// Backup schedule
	LocalBackupMinutes int    `mapstructure:"LOCAL_BACKUP_MINUTES"`
	CloudBackupMinutes int    `mapstructure:"CLOUD_BACKUP_MINUTES"`
	DropboxToken       string `mapstructure:"DROPBOX_TOKEN"`
	DropboxPath        string `mapstructure:"DROPBOX_PATH"`

	// Printables
	PDFStoragePath string `mapstructure:"PDF_STORAGE_PATH"`
}

// Load reads configuration from environment variables (and an optional .env
// file for local development).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("BACKUP_DIR", "./backups")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("JWT_REFRESH_HOURS", 24)
	viper.SetDefault("TIMEZONE", "Africa/Cairo")
	viper.SetDefault("LOCAL_BACKUP_MINUTES", 10)
	viper.SetDefault("CLOUD_BACKUP_MINUTES", 120)
	viper.SetDefault("DROPBOX_PATH", "/CenterFive/CenterFive_Backup.json")
	viper.SetDefault("PDF_STORAGE_PATH", "./pdfs")

	// .env is optional, no error if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
