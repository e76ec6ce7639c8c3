package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"deadpigeons/api"
	"deadpigeons/config"
	"deadpigeons/database"
	"deadpigeons/domain/services"
	"deadpigeons/events"
	"deadpigeons/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	log.WithField("environment", cfg.Environment).Info("Starting deadpigeons server...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Applying database migrations...")
	if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	eventBus := events.NewBus()
	registerEventConsumers(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	clock, err := cfg.WeekClock()
	if err != nil {
		return fmt.Errorf("failed to build week clock: %w", err)
	}

	boardService := services.NewBoardService(uowFactory, clock)
	entryService := services.NewEntryService(uowFactory, clock, cfg.PriceTable)
	ledgerService := services.NewLedgerService(uowFactory)
	settlementService := services.NewSettlementService(uowFactory, clock)
	historyService := services.NewHistoryService(uowFactory)

	server := api.NewServer(boardService, entryService, ledgerService, settlementService, historyService)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

// registerEventConsumers wires audit logging and metrics onto the event bus
func registerEventConsumers(bus *events.Bus) {
	bus.Subscribe(events.EventTypeEntryPlaced, func(ctx context.Context, event events.Event) {
		e := event.(events.EntryPlacedEvent)
		api.CountEntryPlaced()
		log.WithFields(log.Fields{
			"entryID":   e.EntryID,
			"boardID":   e.BoardID,
			"accountID": e.AccountID,
			"week":      e.WeekNumber,
			"price":     e.Price,
		}).Info("Entry placed event")
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e := event.(events.BalanceChangeEvent)
		api.CountBalanceChange(string(e.Reason))
		log.WithFields(log.Fields{
			"accountID":     e.AccountID,
			"balanceBefore": e.BalanceBefore,
			"balanceAfter":  e.BalanceAfter,
			"amount":        e.Amount,
			"reason":        e.Reason,
		}).Info("Balance change event")
	})

	bus.Subscribe(events.EventTypeBoardSettled, func(ctx context.Context, event events.Event) {
		e := event.(events.BoardSettledEvent)
		api.CountBoardSettled()
		log.WithFields(log.Fields{
			"boardID":      e.BoardID,
			"year":         e.Year,
			"week":         e.WeekNumber,
			"totalEntries": e.TotalEntries,
			"totalWinners": e.TotalWinners,
		}).Info("Board settled event")
	})
}
