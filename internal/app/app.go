package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crossrates/internal/adapters"
	"crossrates/internal/adapters/cache"
	"crossrates/internal/adapters/httpclient"
	"crossrates/internal/adapters/openpayments"
	"crossrates/internal/adapters/postgres"
	"crossrates/internal/api"
	"crossrates/internal/config"
	"crossrates/internal/domain"
	"crossrates/internal/optimizer"
	"crossrates/internal/optimizer/handler"
	"crossrates/internal/platform/db"
	httpserver "crossrates/internal/platform/http"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts the HTTP server and the
// market-rate refresh scheduler.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Sender wallets with their signing keys
	wallets, err := loadSenderWallets(appCfg.Wallets)
	if err != nil {
		logrus.WithError(err).Error("Failed to load sender wallets")
		return err
	}
	if len(wallets) == 0 {
		err = errors.New("no sender wallets configured")
		logrus.WithError(err).Error("Refusing to start without wallets")
		return err
	}
	logrus.Infof("✅ %d sender wallets loaded", len(wallets))
	for _, w := range wallets {
		logrus.Infof("   - %s: %s", w.Name, w.URL)
	}

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External clients
	marketClient := httpclient.NewMarketRateClient(baseHTTPClient, appCfg.MarketAPI.BaseURL)
	paymentClient := openpayments.NewClient(baseHTTPClient)

	// Caches
	marketTTL := time.Duration(appCfg.MarketAPI.RefreshSeconds) * time.Second
	addressCache, err := cache.NewAddressCache(1024, 5*time.Minute)
	if err != nil {
		return err
	}
	defer addressCache.Close()
	marketCache, err := cache.NewMarketCache(64, marketTTL)
	if err != nil {
		return err
	}
	defer marketCache.Close()

	// Engine
	comparator := optimizer.NewMarketComparator(
		marketClient,
		marketCache,
		appCfg.MarketAPI.Currencies,
		time.Duration(appCfg.MarketAPI.PaceMillis)*time.Millisecond,
	)
	collector := optimizer.NewCollector(paymentClient, addressCache, paymentClient, appCfg.Optimizer.WorkerLimit)
	service := optimizer.NewService(wallets, collector, comparator, optimizer.Tolerances{
		EpsilonBps:          appCfg.Optimizer.EpsilonBps,
		MatrixSpreadPct:     appCfg.Optimizer.MatrixSpreadPct,
		PreviewSpreadPct:    appCfg.Optimizer.PreviewSpreadPct,
		MaxReceivers:        appCfg.Optimizer.MaxReceivers,
		MaxPreviewReceivers: appCfg.Optimizer.MaxPreviewReceivers,
	}, appCfg.Optimizer.WorkerLimit)

	// Market-rate refresh scheduler
	scheduler := optimizer.NewMarketRefreshScheduler(comparator, marketTTL)
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start market refresh scheduler")
		return startErr
	}
	logrus.Info("✅ Market refresh scheduler activation successful")

	// Optional wallet directory store
	var directory adapters.WalletDirectory
	if appCfg.DirectoryDB.Enabled {
		pool, poolErr := db.CreatePoolAndPing(startupCtx, appCfg.DirectoryDB)
		if poolErr != nil {
			logrus.WithError(poolErr).Error("Error connecting to directory db")
			return poolErr
		}
		defer pool.Close()
		directory = postgres.NewWalletDirectoryRepository(pool)
		logrus.Info("✅ Wallet directory store connected")
	} else {
		logrus.Info("Wallet directory store disabled")
	}

	// Handlers and router
	h := handler.NewHandler(service, directory, comparator.SupportedCurrencies())
	router := api.NewRouter(h)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

// loadSenderWallets loads the signing key of every configured wallet.
func loadSenderWallets(configs []domain.WalletConfig) ([]*domain.SenderWallet, error) {
	wallets := make([]*domain.SenderWallet, 0, len(configs))
	for _, cfg := range configs {
		key, err := openpayments.LoadPrivateKey(cfg.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, &domain.SenderWallet{WalletConfig: cfg, PrivateKey: key})
	}
	return wallets, nil
}
