package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/recallist/recallist-server/internal/api/gateway"
	"github.com/recallist/recallist-server/internal/config"
	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/repository/dynamo"
	"github.com/recallist/recallist-server/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := dynamo.NewConnection(ctx, cfg.Region)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}

	itemRepo := dynamo.NewItemRepository(db, cfg.Tables.Items)
	itemService := service.NewItem(itemRepo, logger)

	router := gateway.New(itemService, logger)

	lambda.Start(router.Handle)
}
