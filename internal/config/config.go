package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/memocorner/repair-desk/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every env-sourced value the services need. Only this struct
// must be used to hold configuration; no direct access to env, ini or any
// other config source should be made elsewhere. The composer and dispatcher
// receive their slice of this as explicit values at construction.
type Config struct {
	AppEnv              string `env:"APP_ENV" default:"dev"`
	AppName             string `env:"APP_NAME" default:"repair_desk"`
	AppDebug            bool   `env:"APP_DEBUG" default:"1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`

	HttpListenAddr string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	QueueName              string        `env:"QUEUE_NAME" default:"notifications"`
	QueueConsumerGroup     string        `env:"QUEUE_CONSUMER_GROUP" default:"notifier"`
	QueueConsumerName      string        `env:"QUEUE_CONSUMER_NAME"`
	QueueMaxRetries        int           `env:"QUEUE_MAX_RETRIES"`
	QueueVisibilityTimeout time.Duration `env:"QUEUE_VISIBILITY_TIMEOUT"`
	QueuePollInterval      time.Duration `env:"QUEUE_POLL_INTERVAL"`
	QueueBatchSize         int64         `env:"QUEUE_BATCH_SIZE"`
	QueueMaxLen            int64         `env:"QUEUE_MAX_LEN"`
	QueueEnableDLQ         bool          `env:"QUEUE_ENABLE_DLQ"`

	CompanyName  string `env:"COMPANY_NAME" default:"Memory Corner"`
	WarrantyDays int    `env:"WARRANTY_DAYS" default:"30"`

	AuthJWTSecret  string        `env:"AUTH_JWT_SECRET"`
	AuthSessionTTL time.Duration `env:"AUTH_SESSION_TTL" default:"12h"`

	AssistEnabled       bool          `env:"ASSIST_ENABLED" default:"1"`
	AssistUseClipboard  bool          `env:"ASSIST_USE_CLIPBOARD" default:"1"`
	AssistPressConfirm  bool          `env:"ASSIST_PRESS_CONFIRM" default:"1"`
	AssistInitialDelay  time.Duration `env:"ASSIST_INITIAL_DELAY" default:"1200ms"`
	AssistFocusAttempts int           `env:"ASSIST_FOCUS_ATTEMPTS" default:"12"`
	AssistPollInterval  time.Duration `env:"ASSIST_POLL_INTERVAL" default:"350ms"`
	AssistSettleDelay   time.Duration `env:"ASSIST_SETTLE_DELAY" default:"150ms"`

	LicensePrefix     string `env:"LICENSE_PREFIX" default:"ATTA"`
	LicenseListenAddr string `env:"LICENSE_LISTEN_ADDR" default:":8000"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
