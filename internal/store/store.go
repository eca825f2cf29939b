// Package store implements every repository interface on top of gorm.
// Lookups return (nil, nil) when nothing matches so services can choose the
// error kind themselves.
package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// validID reports whether id fits a uuid column. Postgres rejects any other
// literal with 22P02, so lookups treat such ids as matching nothing.
func validID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

// validIDs keeps the ids that fit a uuid column. nil stays nil.
func validIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}
