package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sahilaicoders-git/spgst/internal/handler"
	"github.com/sahilaicoders-git/spgst/internal/middleware"
	"github.com/sahilaicoders-git/spgst/internal/model"
	"github.com/sahilaicoders-git/spgst/internal/registry"
	"github.com/sahilaicoders-git/spgst/pkg/config"
	"github.com/sahilaicoders-git/spgst/pkg/logger"
	"github.com/sahilaicoders-git/spgst/pkg/tenantdb"
	"github.com/sahilaicoders-git/spgst/prometheus"
)

func main() {
	// Load configuration (.env is optional)
	conf, err := config.Load("spgst")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", conf.LogConfig()...)

	// Open the registry database and migrate the clients table
	reg, err := registry.Open(conf.Storage)
	if err != nil {
		log.Fatal("Failed to open registry database", zap.Error(err))
	}
	defer reg.Close()

	// Set up the per-client database provisioner
	stores, err := tenantdb.NewProvisioner(conf.Storage, model.TenantCollections()...)
	if err != nil {
		log.Fatal("Failed to initialize client database directory", zap.Error(err))
	}

	// Roll schema additions out to client databases created before the
	// sundry debtors ledger existed
	if err := stores.EnsureAll(&model.SundryDebtor{}); err != nil {
		log.Warn("Could not ensure schema on existing client databases", zap.Error(err))
	}

	if n, err := reg.Count(); err == nil {
		prometheus.UpdateRegisteredClients(n)
	}

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	h := handler.New(reg, stores)
	h.Register(e)

	log.Info("Starting spgst backend on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
