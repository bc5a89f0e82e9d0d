package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/writecarenotes/backend/internal/infrastructure/persistence"
)

func TestInvoiceNumbering_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormInvoiceRepository(testDB.DB)
	ctx := context.Background()
	year := time.Now().Year()

	t.Run("numbers are sequential within a tenant and year", func(t *testing.T) {
		tenantID := uuid.New()

		first, err := repo.NextNumber(ctx, tenantID)
		require.NoError(t, err)
		second, err := repo.NextNumber(ctx, tenantID)
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("INV-%d-0001", year), first)
		assert.Equal(t, fmt.Sprintf("INV-%d-0002", year), second)
	})

	t.Run("each tenant has its own sequence", func(t *testing.T) {
		number, err := repo.NextNumber(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-0001", year), number)
	})

	t.Run("concurrent allocations never collide", func(t *testing.T) {
		tenantID := uuid.New()
		const workers = 20

		numbers := make([]string, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				number, err := repo.NextNumber(ctx, tenantID)
				assert.NoError(t, err)
				numbers[i] = number
			}(i)
		}
		wg.Wait()

		seen := make(map[string]bool, workers)
		for _, number := range numbers {
			assert.False(t, seen[number], "duplicate invoice number %s", number)
			seen[number] = true
		}
	})
}
