package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
	"github.com/yoshii-hideaki/mikan-order/internal/pricing"
)

// App holds the register's runtime configuration, loaded from the
// environment (and .env when present).
type App struct {
	Addr string
	// PricingMode selects the active tiering rule: flat, split,
	// pooled_discount or per_line.
	PricingMode string
	// InitialStatus is where new orders start: new or in_progress.
	InitialStatus domain.OrderStatus
	ReceiptBase   string
	BoardTTL      time.Duration
}

func Load() App {
	_ = godotenv.Load()

	return App{
		Addr:          ":" + getEnv("PORT", "8080"),
		PricingMode:   getEnv("PRICING_MODE", pricing.ModeFlat),
		InitialStatus: domain.OrderStatus(getEnv("ORDER_INITIAL_STATUS", string(domain.StatusInProgress))),
		ReceiptBase:   getEnv("RECEIPT_BASE_URL", "http://localhost"),
		BoardTTL:      10 * time.Second,
	}
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
