// Package repository implements filtered, ordered CRUD and bulk insert
// over the record collections of a client database. Operations are
// generic over the record kind; validation and default application
// happen in the model layer before records reach this package.
package repository

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
	"github.com/sahilaicoders-git/spgst/pkg/logger"
)

// Record is implemented by every tenant-store model.
type Record interface {
	RecordID() string
	Kind() string
}

// Query narrows and orders a List call. Filters is an open conjunction
// over columns; only present, non-empty values should be added.
type Query struct {
	Filters map[string]interface{}
	Order   string
}

// List returns the records matching q. The result is never nil, so an
// empty collection serializes as a JSON array.
func List[T Record](db *gorm.DB, q Query) ([]T, error) {
	records := make([]T, 0)
	tx := db.Model(new(T))
	for column, value := range q.Filters {
		tx = tx.Where(fmt.Sprintf("%s = ?", column), value)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if err := tx.Find(&records).Error; err != nil {
		return nil, translate[T](err)
	}
	return records, nil
}

// Get returns the record with the given id.
func Get[T Record](db *gorm.DB, id string) (T, error) {
	var record T
	if err := db.Where("id = ?", id).First(&record).Error; err != nil {
		return record, translate[T](err)
	}
	return record, nil
}

// Create inserts a fully-populated record. The id must already be set.
func Create[T Record](db *gorm.DB, record *T) error {
	if err := db.Create(record).Error; err != nil {
		return translate[T](err)
	}
	return nil
}

// Update applies the given column assignments to the record with id,
// leaving absent columns untouched. The record's updated_at refreshes
// as part of the same statement.
func Update[T Record](db *gorm.DB, id string, updates map[string]interface{}) error {
	if _, err := Get[T](db, id); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	if err := db.Model(new(T)).Where("id = ?", id).Updates(updates).Error; err != nil {
		return translate[T](err)
	}
	return nil
}

// Delete removes the record with id.
func Delete[T Record](db *gorm.DB, id string) error {
	if _, err := Get[T](db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return translate[T](err)
	}
	return nil
}

// BulkItem is one payload of a bulk insert. Err marks a payload that
// already failed decoding or coercion; it is reported in the results
// without ever reaching the database.
type BulkItem[T Record] struct {
	Record T
	Err    error
}

// BulkItemResult reports the outcome of one bulk payload.
type BulkItemResult struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// BulkCreate inserts each item independently: a failing item is skipped
// and recorded, never aborting the batch or undoing earlier successes.
// All successful inserts commit as a single unit at the end. The
// returned count is the number of successes.
func BulkCreate[T Record](db *gorm.DB, items []BulkItem[T]) ([]BulkItemResult, int, error) {
	if len(items) == 0 {
		return nil, 0, apperr.Validation("no records provided")
	}

	log := logger.GetLogger()
	results := make([]BulkItemResult, 0, len(items))
	inserted := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, item := range items {
			if item.Err != nil {
				log.Warn("Skipping bulk record",
					zap.Int("index", i), zap.Error(item.Err))
				results = append(results, BulkItemResult{Index: i, Error: item.Err.Error()})
				continue
			}
			record := item.Record
			if err := tx.Create(&record).Error; err != nil {
				log.Warn("Skipping bulk record",
					zap.Int("index", i), zap.Error(err))
				results = append(results, BulkItemResult{Index: i, Error: translate[T](err).Error()})
				continue
			}
			results = append(results, BulkItemResult{Index: i, ID: record.RecordID()})
			inserted++
		}
		return nil
	})
	if err != nil {
		return nil, 0, apperr.StorageUnavailable("bulk insert failed", err)
	}
	return results, inserted, nil
}

func translate[T Record](err error) error {
	var zero T
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(zero.Kind())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.DuplicateKey(fmt.Sprintf("duplicate %s key", zero.Kind()), err)
	default:
		return apperr.StorageUnavailable(fmt.Sprintf("%s storage error", zero.Kind()), err)
	}
}
