package repos

import (
	"github.com/jmoiron/sqlx"
)

// ArchiveRepo persists archived reddit objects. Every method is a single
// committed statement; there is no multi-statement atomicity across calls.
type ArchiveRepo struct {
	db *sqlx.DB
}

func NewArchiveRepo(db *sqlx.DB) *ArchiveRepo {
	return &ArchiveRepo{db}
}
