package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"options_sdk/internal/aggregator"
	"options_sdk/internal/app/service"
	"options_sdk/internal/client"
	"options_sdk/internal/config"
	"options_sdk/internal/domain/entity"
	clientprovider "options_sdk/internal/infrastructure/network/client"
	networkdefinition "options_sdk/internal/infrastructure/network/definition"
	"options_sdk/internal/infrastructure/optionloader"
	"options_sdk/internal/infrastructure/restapi"
	"options_sdk/internal/pkg/logger"
	"options_sdk/internal/pkg/metrics"
	"options_sdk/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	slog.SetDefault(slog.New(zapslog.NewHandler(zapLogger.Core())))
	appLogger := logger.NewSlogAdapter(zapLogger)
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	overrides := make([]entity.NetworkDefinition, 0, len(cfg.Networks))
	for _, node := range cfg.Networks {
		overrides = append(overrides, node.Definition())
	}
	networks := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Options.DataDir, overrides)

	agg, err := aggregator.NewDefault(networks, appLogger, cfg.Logging.Verbosity())
	if err != nil {
		zapLogger.Fatal("Failed to initialize aggregator", zap.Error(err))
	}

	subgraphClient := client.NewSubgraphClient(
		time.Duration(cfg.Subgraph.RequestTimeoutMillis)*time.Millisecond,
		cfg.Subgraph.PageSize,
		zapLogger,
	)
	marketService := service.NewMarketService(
		agg,
		clientprovider.NewEVMClientProvider(cfg.RpcClient, cfg.Cache, appLogger),
		optionloader.NewOptionLoader(appLogger),
		subgraphClient,
		cfg,
		zapLogger,
	)
	zapLogger.Info("MarketService initialized")

	// Warm the statics cache in the background.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		for _, network := range networks.GetAllNetworkDefinitions() {
			options, err := marketService.ListOptions(ctx, network)
			if err != nil {
				zapLogger.Error("Failed to preload options", zap.String("network", network.Identifier), zap.Error(err))
				continue
			}
			zapLogger.Info("Options preloaded", zap.String("network", network.Identifier), zap.Int("count", len(options)))
		}
	}()

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := restapi.SetupRouter(restapi.NewMarketHandler(marketService, networks, zapLogger), zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
