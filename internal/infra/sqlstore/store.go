package sqlstore

import (
	"github.com/uptrace/bun"
)

// Store implements the app repositories on top of bun. Every aggregate write
// runs in a single transaction.
type Store struct {
	db *bun.DB
}

func New(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *bun.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
