package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"smart-fridge-be/internal/model"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/unitofwork"
	"smart-fridge-be/pkg/database"
	"smart-fridge-be/pkg/events"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// newFileTestDB backs the store with a real file so writers go through the
// same connection handling as a deployed instance.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "fridge.db"))
}

func openTestDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(database.Config{Driver: database.DriverSQLite, Path: path})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestInventory(t *testing.T) (*inventoryService, unitofwork.RepositoryFactory) {
	t.Helper()
	factory := unitofwork.NewRepositoryFactory(newTestDB(t))
	return NewInventoryService(factory, logger.NewNopLogger()).(*inventoryService), factory
}

// recordingPublisher stands in for both the bus publisher and the NATS mirror.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}
