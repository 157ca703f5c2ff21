package main

import (
	"context"
	"log"

	"github.com/yoshii-hideaki/mikan-order/config"
	httpapi "github.com/yoshii-hideaki/mikan-order/internal/api/http"
	"github.com/yoshii-hideaki/mikan-order/internal/kitchen"
	"github.com/yoshii-hideaki/mikan-order/internal/pricing"
	"github.com/yoshii-hideaki/mikan-order/internal/service"
	"github.com/yoshii-hideaki/mikan-order/internal/storage"
)

const orderEventsTopic = "order-events"

func main() {
	cfg := config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()
	board := storage.NewBoardCache(rdb, cfg.BoardTTL)

	writer := config.NewKafkaWriter(orderEventsTopic)
	defer writer.Close()
	events := storage.NewKafkaPublisher(writer)

	strategy, err := pricing.ForMode(cfg.PricingMode)
	if err != nil {
		log.Fatal("Failed to configure pricing:", err)
	}
	log.Printf("[mikan] pricing mode: %s, initial order status: %s", cfg.PricingMode, cfg.InitialStatus)

	menuSvc := service.NewMenuService(repo)
	if err := menuSvc.SeedDefaults(); err != nil {
		log.Fatal("Failed to seed menu:", err)
	}

	qr := service.DefaultQRGenerator{BaseURL: cfg.ReceiptBase}
	orderSvc := service.NewOrderService(repo, repo, strategy, qr, board, events, cfg.InitialStatus)

	reader := config.NewKafkaReader(orderEventsTopic, "kitchen-board")
	defer reader.Close()
	consumer := kitchen.NewConsumer(reader, repo, board)
	go consumer.Start(context.Background())

	handler := httpapi.NewHandler(menuSvc, orderSvc)
	httpapi.StartServer(cfg.Addr, httpapi.NewRouter(handler))
}
