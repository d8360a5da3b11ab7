package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/recallist/recallist-server/internal/api/gateway/authorizer"
	"github.com/recallist/recallist-server/internal/config"
	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/repository/dynamo"
	"github.com/recallist/recallist-server/internal/service"
	"github.com/recallist/recallist-server/internal/token"
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

	apiKeyRepo := dynamo.NewAPIKeyRepository(db, cfg.Tables.APIKeys)
	identityService := service.NewIdentity(token.NewUnverified(), apiKeyRepo, cfg.Cognito.IssuerPrefix(), logger)

	handler := authorizer.New(identityService, logger)

	lambda.Start(handler.Handle)
}
