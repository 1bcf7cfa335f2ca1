package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/config"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/dispatcher"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/repository"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-matchserver/transport/rest"
	"github.com/rocketscienceinc/tictactoe-matchserver/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	accountRepo, closeStore, err := initAccountStore(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			log.Error("could not close account store", "error", closeErr)
		}
	}()

	accounts := usecase.NewAccountDirectory(logger, accountRepo)
	if err = accounts.Load(ctx); err != nil {
		return fmt.Errorf("could not load accounts: %w", err)
	}

	gameManager := usecase.NewGameManager(logger, accounts, usecase.NewMatchQueue(), usecase.NewRoomPool())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	wsServer := websocket.New(logger, websocket.Options{
		MaxConnections:    conf.Websocket.MaxConnections,
		ReadLimit:         conf.Websocket.ReadLimit,
		SendBuffer:        conf.Websocket.SendBuffer,
		MessagesPerSecond: conf.Websocket.MessagesPerSecond,
		Burst:             conf.Websocket.Burst,
	})
	defer wsServer.Close()

	gameDispatcher := dispatcher.New(logger, gameManager, wsServer, appMetrics, dispatcher.Options{
		StoreTimeout: conf.StoreTimeout,
	})
	go gameDispatcher.Run(ctx)

	router := rest.NewRouter(logger, registry)
	wsServer.Register(ctx, router, gameDispatcher)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "accountStore", conf.AccountStore.Type, "accounts", accounts.Len())

	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// initAccountStore picks the account persistence backend from config.
func initAccountStore(ctx context.Context, conf *config.Config) (repository.AccountRepository, func() error, error) {
	if conf.AccountStore.Type != config.StoreTypeRedis {
		return repository.NewAccountFileRepository(conf.AccountStore.FilePath), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewAccountRepository(redisStorage), redisStorage.Close, nil
}
