package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/tilakpeace/banking-system-audit/internal/config"
	"github.com/tilakpeace/banking-system-audit/internal/eventlog"
	"github.com/tilakpeace/banking-system-audit/internal/handler"
	"github.com/tilakpeace/banking-system-audit/internal/ledger"
	"github.com/tilakpeace/banking-system-audit/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting ledger audit service",
		zap.String("environment", cfg.ServiceEnvironment),
		zap.String("port", cfg.ServiceAPIPort))

	// Initialize the append-only event log and the ledger engine over it
	log.Info("Initializing event log")
	eventLog := eventlog.NewMemoryLog()
	engine := ledger.NewEngine(eventLog, log)

	// Initialize handler
	h := handler.NewHandler(engine, log)

	addr := fmt.Sprintf(":%s", cfg.ServiceAPIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
