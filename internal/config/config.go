package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type NotificationService struct {
	Port            string `env:"NOTIFICATION_SERVICE_PORT, default=8088"`
	LogDir          string `env:"LOG_DIR, default=/push/log/push_service"`
	RabbitMQCfg     RabbitMQConfig
	GoogleConfig    GoogleConfig
	ProfileStoreCfg ProfileStoreConfig
	PostgresCfg     PostgresConfig
	RedisCfg        RedisConfig
	DeliveryCfg     DeliveryConfig
}

type RabbitMQConfig struct {
	Enabled         bool   `env:"RABBITMQ_ENABLED, default=true"`
	Username        string `env:"RABBITMQ_USER, default=admin"`
	Password        string `env:"RABBITMQ_PWD, default=admin"`
	Host            string `env:"RABBITMQ_HOST, default=rabbitmq"`
	Port            string `env:"RABBITMQ_PORT, default=5672"`
	QueueName       string `env:"RABBITMQ_CHANGE_QUEUE, default=document_changes"`
	DeadLetterQueue string `env:"RABBITMQ_CHANGE_DLQ, default=document_changes.dlq"`
	PrefetchCount   int    `env:"RABBITMQ_PREFETCH, default=10"`
}

func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", r.Username, r.Password, r.Host, r.Port)
}

type GoogleConfig struct {
	FirebaseCredentials string `env:"FIREBASE_SERVICE_ACCOUNT_KEY"`
	FirebaseProjectID   string `env:"FIREBASE_PROJECT_ID"`
	UsersCollection     string `env:"FIRESTORE_USERS_COLLECTION, default=users"`
	TokenField          string `env:"FIRESTORE_TOKEN_FIELD, default=fcmToken"`
}

const (
	BackendFirestore = "firestore"
	BackendRedis     = "redis"
	BackendPostgres  = "postgres"
)

type ProfileStoreConfig struct {
	Backend string        `env:"PROFILE_STORE_BACKEND, default=firestore"`
	Timeout time.Duration `env:"PROFILE_STORE_TIMEOUT, default=10s"`
}

type PostgresConfig struct {
	DBname   string `env:"POSTGRES_DB, default=push"`
	Username string `env:"POSTGRES_USER, default=postgres"`
	Password string `env:"POSTGRES_PASSWORD, default=postgres"`
	Host     string `env:"POSTGRES_HOST, default=localhost"`
	Port     string `env:"POSTGRES_PORT, default=5432"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST, default=localhost"`
	Port     string `env:"REDIS_PORT, default=6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	TokenKey string `env:"REDIS_TOKEN_KEY, default=user_fcm_tokens"`
}

type DeliveryConfig struct {
	// FCM rejects multicast requests above 500 tokens.
	BatchSize       int           `env:"FCM_MULTICAST_BATCH_SIZE, default=500"`
	Timeout         time.Duration `env:"FCM_SEND_TIMEOUT, default=15s"`
	AndroidPriority string        `env:"FCM_ANDROID_PRIORITY, default=high"`
	Sound           string        `env:"FCM_SOUND, default=default"`
}

// New reads the configuration from the process environment.
func New() (*NotificationService, error) {
	return Load(context.Background(), envconfig.OsLookuper())
}

func Load(ctx context.Context, lookuper envconfig.Lookuper) (*NotificationService, error) {
	var cfg NotificationService
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *NotificationService) validate() error {
	switch c.ProfileStoreCfg.Backend {
	case BackendFirestore, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unsupported profile store backend: %q", c.ProfileStoreCfg.Backend)
	}
	if c.DeliveryCfg.BatchSize <= 0 || c.DeliveryCfg.BatchSize > 500 {
		return fmt.Errorf("multicast batch size must be within 1..500, got %d", c.DeliveryCfg.BatchSize)
	}
	return nil
}
