package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/writecarenotes/backend/internal/domain/finance"
	"github.com/writecarenotes/backend/internal/domain/shared"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func TestGormInvoiceRepository_NextNumber(t *testing.T) {
	t.Run("allocates sequential number for current year", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		year := time.Now().Year()

		mock.ExpectQuery(`INSERT INTO invoice_sequences`).
			WithArgs(tenantID, year).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(7))

		number, err := repo.NextNumber(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-0007", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO invoice_sequences`).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.NextNumber(context.Background(), uuid.New())
		assert.Error(t, err)
	})
}

func TestGormInvoiceRepository_FindByNumber(t *testing.T) {
	t.Run("finds existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		tenantID := uuid.New()
		residentID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "number", "resident_id", "funding_source", "total", "amount_paid", "status"}).
			AddRow(invoiceID, tenantID, "INV-2026-0001", residentID, "self", "4200.00", "0.00", "draft")

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND number = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "INV-2026-0001", 1).
			WillReturnRows(rows)

		inv, err := repo.FindByNumber(context.Background(), tenantID, "INV-2026-0001")
		require.NoError(t, err)
		assert.Equal(t, invoiceID, inv.ID)
		assert.Equal(t, "INV-2026-0001", inv.Number)
		assert.Equal(t, "4200.00", inv.Total.StringFixed(2))
	})

	t.Run("returns ErrNotFound for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoices"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByNumber(context.Background(), uuid.New(), "INV-2026-9999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("rejects stale version", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		inv, err := finance.NewInvoice(uuid.New(), uuid.New(), "INV-2026-0042", finance.FundingSelf,
			time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		inv.Version = 3

		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), inv)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}
