package backend

import (
	"context"
	"fmt"
	"log/slog"

	"homebudget/internal/amqp"
	"homebudget/internal/services"
	"homebudget/internal/store/memory"
	"homebudget/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	st, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	notifier, cleanup := f.createNotifier(config, st.Close)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", notifier != nil)

	return &Result{
		Store:    st,
		Notifier: notifier,
		Cleanup:  cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	st := memory.New()

	notifier, cleanup := f.createNotifier(config, st.Close)

	f.logger.Info("Initialized memory backend", "amqp_enabled", notifier != nil)

	return &Result{
		Store:    st,
		Notifier: notifier,
		Cleanup:  cleanup,
	}, nil
}

// createNotifier wires the optional AMQP client. A broker that is down at
// startup only disables sync; the app still runs on local storage.
func (f *DefaultFactory) createNotifier(config Config, closeStore func() error) (services.CloudNotifier, CleanupFunc) {
	if config.AMQPURL == "" {
		return nil, closeStore
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		return nil, closeStore
	}

	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	cleanup := func() error {
		if err := client.Close(); err != nil {
			f.logger.Warn("Failed to close AMQP client", "error", err)
		}
		return closeStore()
	}
	return client, cleanup
}
