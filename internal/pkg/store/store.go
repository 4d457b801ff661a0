// Package store is the Postgres-backed record store, for deployments that
// keep the roster and report history in a local database instead of the
// hosted record API.
package store

import (
	"github.com/microsievert/dosimetria/internal/pkg/store/xpgx"
)

type Store struct {
	pool *xpgx.Pool
}

func NewStore(pool *xpgx.Pool) *Store {
	return &Store{pool: pool}
}
