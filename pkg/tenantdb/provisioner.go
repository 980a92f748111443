package tenantdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
	"github.com/sahilaicoders-git/spgst/pkg/config"
	"github.com/sahilaicoders-git/spgst/pkg/logger"
)

// Provisioner creates and opens per-client SQLite databases under a
// configured storage directory. All paths flow from the explicit
// config, so tests can point a Provisioner at a temporary root.
type Provisioner struct {
	cfg         config.StorageConfig
	collections []interface{}
	log         *zap.Logger
}

// NewProvisioner builds a Provisioner rooted at cfg.Dir, creating the
// directory if needed. collections is the model set established in
// every provisioned store.
func NewProvisioner(cfg config.StorageConfig, collections ...interface{}) (*Provisioner, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, apperr.StorageUnavailable("client database directory unavailable", err)
	}
	return &Provisioner{
		cfg:         cfg,
		collections: collections,
		log:         logger.GetLogger(),
	}, nil
}

// Path returns the database file path for a derived key.
func (p *Provisioner) Path(key string) string {
	return filepath.Join(p.cfg.Dir, key+".db")
}

// Exists reports whether the store for key has been created.
func (p *Provisioner) Exists(key string) bool {
	_, err := os.Stat(p.Path(key))
	return err == nil
}

// Size returns the on-disk size of the store for key, or 0 when absent.
func (p *Provisioner) Size(key string) int64 {
	info, err := os.Stat(p.Path(key))
	if err != nil {
		return 0
	}
	return info.Size()
}

// Open opens the store for key. Connections are not pooled across
// requests: the caller owns the handle and must release it with Close.
// SQLite serializes writers itself; the busy timeout makes a second
// writer block instead of failing immediately.
func (p *Provisioner) Open(key string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		p.Path(key), p.cfg.BusyTimeout.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(p.cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, apperr.StorageUnavailable("could not open client database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperr.StorageUnavailable("could not open client database", err)
	}
	// one writer per handle, one handle per request
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Provision creates the store for key if absent and idempotently
// establishes its collections. Existing rows are never touched.
func (p *Provisioner) Provision(key string) (string, error) {
	db, err := p.Open(key)
	if err != nil {
		return "", err
	}
	defer Close(db)

	if err := EnsureCollections(db, p.collections...); err != nil {
		return "", err
	}

	p.log.Info("Client database provisioned", zap.String("path", p.Path(key)))
	return p.Path(key), nil
}

// Remove deletes the store file for key. Registry entries are not
// touched; deleting a client and deleting its database are separate
// operations.
func (p *Provisioner) Remove(key string) error {
	if err := os.Remove(p.Path(key)); err != nil {
		return apperr.StorageUnavailable("could not remove client database", err)
	}
	// WAL side files, best effort
	os.Remove(p.Path(key) + "-wal")
	os.Remove(p.Path(key) + "-shm")
	return nil
}

// Keys enumerates the derived keys of every store under the storage
// directory.
func (p *Provisioner) Keys() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(p.cfg.Dir, "*.db"))
	if err != nil {
		return nil, apperr.StorageUnavailable("could not scan client database directory", err)
	}
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		keys = append(keys, strings.TrimSuffix(filepath.Base(path), ".db"))
	}
	return keys, nil
}

// EnsureAll applies EnsureCollections with the given models to every
// existing store. It is the startup schema-evolution sweep: adding a
// model here rolls a new collection out to stores created before the
// collection existed.
func (p *Provisioner) EnsureAll(models ...interface{}) error {
	keys, err := p.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		db, err := p.Open(key)
		if err != nil {
			return fmt.Errorf("ensure collections for %q: %w", key, err)
		}
		err = EnsureCollections(db, models...)
		Close(db)
		if err != nil {
			return fmt.Errorf("ensure collections for %q: %w", key, err)
		}
		p.log.Info("Client database schema ensured", zap.String("key", key))
	}
	return nil
}

// EnsureCollections creates the tables and indexes for the given
// models if they do not exist, leaving current rows alone.
func EnsureCollections(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return apperr.StorageUnavailable("could not establish client database schema", err)
	}
	return nil
}

// Close releases a handle returned by Open.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
