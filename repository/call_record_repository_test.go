package repository

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copromote/henry-help/models"
	apptesting "github.com/copromote/henry-help/testing"
)

// requireTestDB spins up an isolated database or skips when no Postgres is
// reachable (set TEST_DB_HOST to enable).
func requireTestDB(t *testing.T) *apptesting.TestDB {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set; skipping database test")
	}

	testDB, err := apptesting.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("teardown failed: %v", err)
		}
	})
	return testDB
}

func TestUpsertByProviderCallIDIsIdempotent(t *testing.T) {
	testDB := requireTestDB(t)
	fixtures := apptesting.NewTestFixtures(testDB)
	ctx := apptesting.CreateTestContext()

	seller, err := fixtures.CreateTestSeller()
	require.NoError(t, err)

	repo := NewCallRecordRepository(testDB.DB)

	first := &models.CallRecord{
		SellerID:       seller.ID,
		ProviderCallID: "prov-idem-1",
		Status:         models.CallStatusQueued,
	}
	require.NoError(t, repo.UpsertByProviderCallID(ctx, first))

	// Replay with an updated status lands on the same row.
	outcome := models.OutcomeSale
	replay := &models.CallRecord{
		SellerID:       seller.ID,
		ProviderCallID: "prov-idem-1",
		Status:         models.CallStatusCompleted,
		Outcome:        &outcome,
	}
	require.NoError(t, repo.UpsertByProviderCallID(ctx, replay))

	count, err := repo.Count(ctx, models.CallRecordFilter{SellerID: &seller.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := repo.ByProviderCallID(ctx, "prov-idem-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.CallStatusCompleted, stored.Status)
	require.NotNil(t, stored.Outcome)
	assert.Equal(t, models.OutcomeSale, *stored.Outcome)
}

func TestByProviderCallIDMissingReturnsNil(t *testing.T) {
	testDB := requireTestDB(t)
	ctx := apptesting.CreateTestContext()

	repo := NewCallRecordRepository(testDB.DB)

	record, err := repo.ByProviderCallID(ctx, "prov-missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}
