package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Upload drivers accepted in UPLOADS_DRIVER.
const (
	UploadsDisk = "disk"
	UploadsS3   = "s3"
)

// Config holds all configuration for the kitchen services
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	RabbitMQ RabbitMQConfig
	Uploads  UploadsConfig
	Telegram TelegramConfig
	Geocode  GeocodeConfig
	Client   ClientConfig
}

type ServerConfig struct {
	Port int
	// StrictOrders enables server-side total recomputation and reference checks.
	StrictOrders bool
}

type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type MongoConfig struct {
	URL      string
	Database string
}

// RabbitMQConfig holds RabbitMQ connection configuration. An empty Host disables messaging.
type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type UploadsConfig struct {
	Driver   string
	Dir      string
	S3Bucket string
	Region   string
}

// TelegramConfig configures the bot that pings the kitchen about new orders.
type TelegramConfig struct {
	MessageToken string
	AdminChatID  int64
}

type GeocodeConfig struct {
	APIKey string
}

// ClientConfig is used by the admin CLI modes.
type ClientConfig struct {
	APIBaseURL string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 5000)
	if err != nil {
		return nil, err
	}
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	mqPort, err := getEnvInt("RABBITMQ_PORT", 5672)
	if err != nil {
		return nil, err
	}

	var chatID int64
	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			StrictOrders: getEnvBool("ORDER_STRICT"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "kitchen"),
		},
		Mongo: MongoConfig{
			URL:      getEnv("MONGO_URL", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "kitchen"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getEnv("RABBITMQ_HOST", ""),
			Port:     mqPort,
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
		},
		Uploads: UploadsConfig{
			Driver:   strings.ToLower(getEnv("UPLOADS_DRIVER", UploadsDisk)),
			Dir:      getEnv("UPLOADS_DIR", "uploads"),
			S3Bucket: getEnv("S3_BUCKET", ""),
			Region:   getEnv("AWS_REGION", "us-east-1"),
		},
		Telegram: TelegramConfig{
			MessageToken: getEnv("MESSAGE_TOKEN", ""),
			AdminChatID:  chatID,
		},
		Geocode: GeocodeConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
		Client: ClientConfig{
			APIBaseURL: getEnv("API_BASE_URL", "http://localhost:5000"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER: %s", c.Store.Driver)
	}
	switch c.Uploads.Driver {
	case UploadsDisk:
	case UploadsS3:
		if c.Uploads.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOADS_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown UPLOADS_DRIVER: %s", c.Uploads.Driver)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

// MessagingEnabled reports whether a broker has been configured.
func (c *Config) MessagingEnabled() bool {
	return c.RabbitMQ.Host != ""
}

// TelegramEnabled reports whether new orders should be pushed to an admin chat.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.MessageToken != "" && c.Telegram.AdminChatID != 0
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}
