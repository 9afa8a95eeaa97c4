package database

import (
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

// NewMockPool creates a pgxmock pool for repository tests. It satisfies DBTX,
// so it drops into any repository constructor in place of a real pool. Finish
// each test with ExpectationsWereMet to catch unexecuted expectations.
func NewMockPool() (pgxmock.PgxPoolIface, error) {
	return pgxmock.NewPool()
}
