package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"AcctEventSQL/internal/appmanager"
	"AcctEventSQL/internal/config"
	"AcctEventSQL/internal/logger"
)

func main() {
	servicesPath := flag.String("services", config.DefaultServicesFile, "path to services.yaml")
	envPath := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	// Load .env for local dev; a missing file is fine
	_ = godotenv.Load(*envPath)

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence(*servicesPath)
	if err != nil {
		logger.L().WithError(err).Fatal("failed to load service sequence")
	}

	// Automatically register all services
	for _, name := range manager.AutoRegisterServices(servicesCfg) {
		logger.L().WithField("service", name).Warn("no constructor for configured service, skipping")
	}

	if err := manager.StartAll(); err != nil {
		logger.L().WithError(err).Fatal("failed to start")
	}
	if svc, ok := manager.GetServiceByName("accounting").(interface{ Addr() string }); ok {
		logger.L().WithField("addr", svc.Addr()).Info("accounting service listening")
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	logger.L().WithField("signal", sig.String()).Info("shutting down")

	if err := manager.StopAll(); err != nil {
		logger.L().WithError(err).Fatal("failed to stop")
	}
}
