// Package repository holds the GORM-backed stores. Every method accepts an
// optional transaction; a nil tx runs against the repository's own handle.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// firstOrNil maps gorm.ErrRecordNotFound to a nil result.
func firstOrNil[T any](q *gorm.DB, dest *T) (*T, error) {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}
