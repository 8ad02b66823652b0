package businessflow

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/pricing"
	"github.com/copromote/henry-help/repository"
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

func TestImportProspectsAppliesIndividualMapping(t *testing.T) {
	testDB := requireTestDB(t)
	fixtures := apptesting.NewTestFixtures(testDB)
	ctx := apptesting.CreateTestContext()

	seller, err := fixtures.CreateTestSeller()
	require.NoError(t, err)

	profile := &models.ProgramProfile{
		UUID:     uuid.New(),
		SellerID: seller.ID,
		Model:    string(pricing.ModelIndividual),
		Rules: models.RulesPayload{
			Individual: &pricing.IndividualRules{
				Mapping: []pricing.ColumnMapping{
					{Duration: "2YR", SourceColumn: "2 Year Plan"},
					{Duration: "3YR", SourceColumn: "3 Year Plan"},
				},
			},
		},
	}
	require.NoError(t, testDB.DB.Create(profile).Error)

	prospectRepo := repository.NewProspectRepository(testDB.DB)
	flow := NewCallFlow(
		nil,
		prospectRepo,
		repository.NewProgramProfileRepository(testDB.DB),
		nil,
		repository.NewSellerRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		nil,
		testDB.DB,
	)

	csv := "First Name,Last Name,Phone,Product,Amount,2 Year Plan,3 Year Plan\n" +
		"Dana,Reyes,+14155550123,4K OLED TV,1299,$149.99,199\n" +
		"Kim,Lee,,Soundbar,400,60,80\n" +
		"Alex,Stone,+14155550124,Fridge,900,call us,120\n"

	result, err := flow.ImportProspects(ctx, seller.ID, "leads.csv", []byte(csv), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	prospects, err := prospectRepo.ByFilter(ctx, models.ProspectFilter{SellerID: &seller.ID}, "id ASC", 10, 0)
	require.NoError(t, err)
	require.Len(t, prospects, 2)

	first := prospects[0]
	assert.Equal(t, "Dana", first.FirstName)
	require.NotNil(t, first.LastName)
	assert.Equal(t, "Reyes", *first.LastName)
	assert.Equal(t, "+14155550123", first.Phone)
	assert.InDelta(t, 1299.0, first.PurchaseAmount, 0.001)
	assert.InDelta(t, 149.99, first.ImportedPrices["2YR"], 0.001)
	assert.InDelta(t, 199.0, first.ImportedPrices["3YR"], 0.001)
	assert.NotEqual(t, uuid.Nil, first.UUID)

	// The unparseable 2YR cell is omitted; the resolver falls back to the
	// computed price for that duration.
	second := prospects[1]
	_, has2YR := second.ImportedPrices["2YR"]
	assert.False(t, has2YR)
	assert.InDelta(t, 120.0, second.ImportedPrices["3YR"], 0.001)
}

func TestImportProspectsWithoutPhoneColumn(t *testing.T) {
	testDB := requireTestDB(t)
	fixtures := apptesting.NewTestFixtures(testDB)
	ctx := apptesting.CreateTestContext()

	seller, err := fixtures.CreateTestSeller()
	require.NoError(t, err)

	flow := NewCallFlow(
		nil,
		repository.NewProspectRepository(testDB.DB),
		repository.NewProgramProfileRepository(testDB.DB),
		nil,
		repository.NewSellerRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		nil,
		testDB.DB,
	)

	_, err = flow.ImportProspects(ctx, seller.ID, "leads.csv", []byte("Name,Amount\nDana,1299\n"), nil)
	require.Error(t, err)
	assert.True(t, IsProspectSheetInvalid(err))
}
