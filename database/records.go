package database

import (
	"errors"
	"math"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Records is the CRUD base shared by every repo. T is the model struct type.
type Records[T any] struct {
	db *gorm.DB
}

func NewRecords[T any](db *gorm.DB) Records[T] {
	return Records[T]{db: db}
}

// Get looks a record up by primary key. Values that are not positive integers, and ids with
// no row, yield (nil, nil).
func (r Records[T]) Get(id any) (*T, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	var rec T
	err := r.db.First(&rec, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// All returns every row ordered by primary key.
func (r Records[T]) All() ([]T, error) {
	var recs []T
	err := r.db.Order("id").Find(&recs).Error
	return recs, err
}

// Create inserts rec. Associations are not written.
func (r Records[T]) Create(rec *T) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(rec).Error
	})
}

// Save inserts rec when its key is zero and updates every column otherwise. Nothing is
// written if the statement fails.
func (r Records[T]) Save(rec *T) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(rec).Error
	})
}

// Delete removes rec by primary key.
func (r Records[T]) Delete(rec *T) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(rec).Error
	})
}

// Count returns the number of rows.
func (r Records[T]) Count() (int64, error) {
	var n int64
	err := r.db.Model(new(T)).Count(&n).Error
	return n, err
}

// parseID accepts integers, whole floats and decimal digit strings greater than zero.
func parseID(id any) (uint, bool) {
	var n uint64
	switch v := id.(type) {
	case int:
		if v <= 0 {
			return 0, false
		}
		n = uint64(v)
	case int64:
		if v <= 0 {
			return 0, false
		}
		n = uint64(v)
	case int32:
		if v <= 0 {
			return 0, false
		}
		n = uint64(v)
	case uint:
		n = uint64(v)
	case uint64:
		n = v
	case uint32:
		n = uint64(v)
	case float64:
		if v <= 0 || v != math.Trunc(v) || v > math.MaxUint32 {
			return 0, false
		}
		n = uint64(v)
	case string:
		if v == "" {
			return 0, false
		}
		for _, c := range v {
			if c < '0' || c > '9' {
				return 0, false
			}
		}
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if n == 0 || n > math.MaxInt64 {
		return 0, false
	}
	return uint(n), true
}
