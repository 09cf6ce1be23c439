package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =======================
// CONFIG TYPES
// =======================

type DBConfig struct {
	Driver   string `env:"DRIVER" yaml:"driver"` // postgres | mysql | sqlite
	DSN      string `env:"DSN" yaml:"dsn"`       // overrides the discrete fields below
	Host     string `env:"HOST" yaml:"host"`
	Port     string `env:"PORT" yaml:"port"`
	User     string `env:"USER" yaml:"user"`
	Password string `env:"PASSWORD" yaml:"password"`
	Name     string `env:"NAME" yaml:"name"`
	SSLMode  string `env:"SSLMODE" yaml:"sslmode"`
	Path     string `env:"PATH" yaml:"path"` // sqlite file

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" yaml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `env:"SLOW_THRESHOLD" yaml:"slow_threshold"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" yaml:"auto_migrate"`
}

// UploadConfig is handed to the image store and the upload handler.
type UploadConfig struct {
	Dir              string   `env:"DIR" yaml:"dir"`
	PublicPrefix     string   `env:"PUBLIC_PREFIX" yaml:"public_prefix"`
	StaticRoot       string   `env:"STATIC_ROOT" yaml:"static_root"`
	StaticMount      string   `env:"STATIC_MOUNT" yaml:"static_mount"`
	FieldName        string   `env:"FIELD_NAME" yaml:"field_name"`
	MaxFileSize      int64    `env:"MAX_FILE_SIZE" yaml:"max_file_size"`
	MaxFiles         int      `env:"MAX_FILES" yaml:"max_files"`
	AllowedMIMETypes []string `env:"ALLOWED_MIME_TYPES" envSeparator:"," yaml:"allowed_mime_types"`
	ThumbnailWidth   int      `env:"THUMBNAIL_WIDTH" yaml:"thumbnail_width"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET" yaml:"secret"`
	TTL    time.Duration `env:"TTL" yaml:"ttl"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:"," yaml:"allow_origins"`
}

type RateLimitConfig struct {
	Max        int           `env:"MAX" yaml:"max"`
	Expiration time.Duration `env:"EXPIRATION" yaml:"expiration"`
	LoginMax   int           `env:"LOGIN_MAX" yaml:"login_max"`
}

type SearchConfig struct {
	Host   string `env:"HOST" yaml:"host"`
	APIKey string `env:"API_KEY" yaml:"api_key"`
	Index  string `env:"INDEX" yaml:"index"`
}

type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:"," yaml:"brokers"`
	Topic   string   `env:"TOPIC" yaml:"topic"`
}

type ReconcileConfig struct {
	Enabled  bool   `env:"ENABLED" yaml:"enabled"`
	Schedule string `env:"SCHEDULE" yaml:"schedule"`
}

type AdminSeedConfig struct {
	UserName string `env:"USER_NAME" yaml:"user_name"`
	Email    string `env:"EMAIL" yaml:"email"`
	Password string `env:"PASSWORD" yaml:"password"`
}

type LogConfig struct {
	Level       string `env:"LEVEL" yaml:"level"`
	Development bool   `env:"DEVELOPMENT" yaml:"development"`
}

type Config struct {
	Env  string `env:"APP_ENV" yaml:"env"`
	Port string `env:"PORT" yaml:"port"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" yaml:"request_timeout"`
	SeedFile       string        `env:"SEED_INITIATIVES_FILE" yaml:"seed_initiatives_file"`

	DB        DBConfig        `envPrefix:"DB_" yaml:"db"`
	Upload    UploadConfig    `envPrefix:"UPLOAD_" yaml:"upload"`
	JWT       JWTConfig       `envPrefix:"JWT_" yaml:"jwt"`
	CORS      CORSConfig      `envPrefix:"CORS_" yaml:"cors"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_" yaml:"rate_limit"`
	Search    SearchConfig    `envPrefix:"MEILI_" yaml:"search"`
	Kafka     KafkaConfig     `envPrefix:"KAFKA_" yaml:"kafka"`
	Reconcile ReconcileConfig `envPrefix:"RECONCILE_" yaml:"reconcile"`
	Admin     AdminSeedConfig `envPrefix:"ADMIN_" yaml:"admin"`
	Log       LogConfig       `envPrefix:"LOG_" yaml:"log"`
}

// =======================
// DEFAULTS
// =======================

func DefaultConfig() *Config {
	return &Config{
		Env:            "development",
		Port:           "3000",
		RequestTimeout: 15 * time.Second,
		DB: DBConfig{
			Driver:          "postgres",
			Port:            "5432",
			SSLMode:         "require",
			Path:            "tamilvalam.db",
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 10 * time.Minute,
			SlowThreshold:   200 * time.Millisecond,
		},
		Upload: UploadConfig{
			Dir:          "./uploads/initiatives",
			PublicPrefix: "/uploads/initiatives",
			StaticRoot:   "./uploads",
			StaticMount:  "/uploads",
			FieldName:    "images",
			MaxFileSize:  5 * 1024 * 1024,
			MaxFiles:     10,
			AllowedMIMETypes: []string{
				"image/jpeg",
				"image/png",
				"image/gif",
				"image/webp",
			},
		},
		JWT: JWTConfig{
			TTL: 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5500"},
		},
		RateLimit: RateLimitConfig{
			Max:        100,
			Expiration: time.Minute,
			LoginMax:   5,
		},
		Search: SearchConfig{
			Index: "initiatives",
		},
		Kafka: KafkaConfig{
			Topic: "initiative-images",
		},
		Reconcile: ReconcileConfig{
			Enabled:  true,
			Schedule: "@daily",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =======================
// LOADERS
// =======================

// LoadEnv loads a .env file when present. Returns false when none was found,
// in which case the process environment is used as-is.
func LoadEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load builds the config: defaults, then the YAML file named by CONFIG_FILE
// (when set), then environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.ParseFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ParseEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) ParseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close() // nolint: errcheck

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c *Config) ParseEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.DB.Driver)
	}
	if c.Upload.MaxFileSize <= 0 {
		return errors.New("upload max file size must be positive")
	}
	if c.Upload.MaxFiles <= 0 {
		return errors.New("upload max files must be positive")
	}
	if strings.TrimSpace(c.Upload.Dir) == "" || strings.TrimSpace(c.Upload.PublicPrefix) == "" {
		return errors.New("upload dir and public prefix are required")
	}
	if strings.TrimSpace(c.Upload.FieldName) == "" {
		return errors.New("upload field name is required")
	}
	if c.JWT.Secret == "" && !c.IsDevelopment() {
		return errors.New("JWT_SECRET is required outside development")
	}
	return nil
}

// BodyLimit is the largest multipart body the server accepts.
func (u UploadConfig) BodyLimit() int {
	return int(u.MaxFileSize)*u.MaxFiles + 1024*1024
}
