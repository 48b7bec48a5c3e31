// Package db holds the storage backends: an embedded BadgerDB store and a
// PostgreSQL store accessed through GORM
package db

import (
	"errors"
	"fmt"
	"os"

	"github.com/damon-houk/card-transaction-service/internal/domain/repository"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/config"
	"github.com/damon-houk/card-transaction-service/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
)

// sequenceBandwidth is how many IDs a Badger sequence leases per disk write
const sequenceBandwidth = 100

// Storage bundles the repositories of one backend
type Storage struct {
	Transactions repository.TransactionRepository
	Cards        repository.CardRepository
	Clients      repository.ClientRepository

	closers []func() error
}

// Close releases every resource held by the backend, in reverse order of acquisition
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open connects the backend selected by cfg.Driver
func Open(cfg config.StorageConfig, log logger.Logger) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		if err := os.MkdirAll(cfg.BadgerPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		badgerOpts := badger.DefaultOptions(cfg.BadgerPath)
		badgerOpts.Logger = nil // Disable Badger's default logger

		badgerDB, err := badger.Open(badgerOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		storage, err := NewBadgerStorage(badgerDB)
		if err != nil {
			badgerDB.Close()
			return nil, err
		}
		storage.closers = append([]func() error{badgerDB.Close}, storage.closers...)

		log.Info("Badger storage opened", map[string]interface{}{
			"path": cfg.BadgerPath,
		})
		return storage, nil

	case config.DriverPostgres:
		gormDB, err := OpenPostgres(cfg.PostgresDSN, log)
		if err != nil {
			return nil, err
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get connection pool: %w", err)
		}

		log.Info("PostgreSQL storage opened", nil)
		return &Storage{
			Transactions: NewGormTransactionRepository(gormDB),
			Cards:        NewGormCardRepository(gormDB),
			Clients:      NewGormClientRepository(gormDB),
			closers:      []func() error{sqlDB.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewBadgerStorage builds the repositories over an already open database.
// Closing the returned storage releases the ID sequences but leaves the
// database open.
func NewBadgerStorage(badgerDB *badger.DB) (*Storage, error) {
	storage := &Storage{}

	txRepo, err := NewBadgerTransactionRepository(badgerDB)
	if err != nil {
		return nil, err
	}
	storage.Transactions = txRepo
	storage.closers = append(storage.closers, txRepo.Close)

	cardRepo, err := NewBadgerCardRepository(badgerDB)
	if err != nil {
		storage.Close()
		return nil, err
	}
	storage.Cards = cardRepo
	storage.closers = append(storage.closers, cardRepo.Close)

	clientRepo, err := NewBadgerClientRepository(badgerDB)
	if err != nil {
		storage.Close()
		return nil, err
	}
	storage.Clients = clientRepo
	storage.closers = append(storage.closers, clientRepo.Close)

	return storage, nil
}

// nextID returns a positive ID; Badger sequences start at zero
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return int64(n) + 1, nil
}
