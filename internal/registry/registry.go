// Package registry implements the shared clients database: the
// authoritative list of clients and their metadata, including the
// derived key addressing each client's own database.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sahilaicoders-git/spgst/internal/model"
	"github.com/sahilaicoders-git/spgst/pkg/apperr"
	"github.com/sahilaicoders-git/spgst/pkg/config"
	"github.com/sahilaicoders-git/spgst/pkg/idgen"
	"github.com/sahilaicoders-git/spgst/pkg/tenantdb"
)

// Store is the registry of clients.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the registry database and
// migrates the clients table.
func Open(cfg config.StorageConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.RegistryPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperr.StorageUnavailable("registry directory unavailable", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		cfg.RegistryPath, cfg.BusyTimeout.Milliseconds())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, apperr.StorageUnavailable("could not open registry database", err)
	}
	if err := db.AutoMigrate(&model.Client{}); err != nil {
		return nil, apperr.StorageUnavailable("could not migrate registry database", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the registry handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create validates the request, assigns an id and the derived database
// key, and inserts the client.
func (s *Store) Create(req *model.ClientRequest) (*model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	client := req.Record()
	client.ID = idgen.New(idgen.PrefixClient)
	client.DBKey = tenantdb.DeriveKey(client.ClientName)
	if err := s.db.Create(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.DuplicateKey("duplicate client id", err)
		}
		return nil, apperr.StorageUnavailable("client creation failed", err)
	}
	return &client, nil
}

// List returns all clients, newest first.
func (s *Store) List() ([]model.Client, error) {
	clients := make([]model.Client, 0)
	if err := s.db.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, apperr.StorageUnavailable("could not list clients", err)
	}
	return clients, nil
}

// Get returns the client with the given id.
func (s *Store) Get(id string) (*model.Client, error) {
	var client model.Client
	if err := s.db.Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Client")
		}
		return nil, apperr.StorageUnavailable("could not load client", err)
	}
	return &client, nil
}

// Update merges the present request fields into the stored client.
// The derived database key never changes, even when the client name
// does: the store stays where it was provisioned.
func (s *Store) Update(id string, req *model.ClientRequest) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.Model(&model.Client{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return apperr.StorageUnavailable("client update failed", err)
	}
	return nil
}

// Delete removes the client from the registry. The client's database
// file is left in place; removing it is a separate, explicit operation.
func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.db.Where("id = ?", id).Delete(&model.Client{}).Error; err != nil {
		return apperr.StorageUnavailable("client deletion failed", err)
	}
	return nil
}

// Count returns the number of registered clients.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&model.Client{}).Count(&n).Error; err != nil {
		return 0, apperr.StorageUnavailable("could not count clients", err)
	}
	return n, nil
}
