package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
)

func setupBusinessTest(t *testing.T) (*gorm.DB, BusinessRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewBusinessRepository(testDB)
	return testDB, repo
}

func createTestWorkspaces(t *testing.T, testDB *gorm.DB) (uint, uint) {
	ws1 := &model.Workspace{Name: "Salgsteam Vest"}
	ws2 := &model.Workspace{Name: "Salgsteam Øst"}
	require.NoError(t, testDB.Create(ws1).Error)
	require.NoError(t, testDB.Create(ws2).Error)
	return ws1.ID, ws2.ID
}

func strPtr(s string) *string { return &s }

func TestBusinessRepository_Create(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, _ := createTestWorkspaces(t, testDB)

	business := &model.Business{
		WorkspaceID:   ws1,
		Name:          "Fjellheimen Eiendom AS",
		OrgNumber:     strPtr("987654321"),
		Stage:         model.StageProspect,
		ContactPerson: "Kari Nordmann",
	}

	err := repo.Create(business)
	assert.NoError(t, err)
	assert.NotZero(t, business.ID)
}

func TestBusinessRepository_OrgNumberUniquePerWorkspace(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, ws2 := createTestWorkspaces(t, testDB)

	first := &model.Business{WorkspaceID: ws1, Name: "Fjellheimen Eiendom AS", OrgNumber: strPtr("987654321")}
	require.NoError(t, repo.Create(first))

	// Samme orgnr i samme arbeidsområde avvises av indeksen
	duplicate := &model.Business{WorkspaceID: ws1, Name: "Duplikat AS", OrgNumber: strPtr("987654321")}
	assert.Error(t, repo.Create(duplicate))

	// Men et annet arbeidsområde kan følge samme bedrift
	other := &model.Business{WorkspaceID: ws2, Name: "Fjellheimen Eiendom AS", OrgNumber: strPtr("987654321")}
	assert.NoError(t, repo.Create(other))
}

func TestBusinessRepository_NilOrgNumberNotUnique(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, _ := createTestWorkspaces(t, testDB)

	// Manuelt registrerte leads uten orgnr skal ikke kollidere
	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "Lead en"}))
	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "Lead to"}))
}

func TestBusinessRepository_FindByID_ScopedToWorkspace(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, ws2 := createTestWorkspaces(t, testDB)

	business := &model.Business{WorkspaceID: ws1, Name: "Fjellheimen Eiendom AS"}
	require.NoError(t, repo.Create(business))

	found, err := repo.FindByID(ws1, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fjellheimen Eiendom AS", found.Name)

	// Et annet arbeidsområde ser den ikke
	_, err = repo.FindByID(ws2, business.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBusinessRepository_FindByOrgNumber(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, ws2 := createTestWorkspaces(t, testDB)

	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "Fjellheimen Eiendom AS", OrgNumber: strPtr("987654321")}))

	found, err := repo.FindByOrgNumber(ws1, "987654321")
	require.NoError(t, err)
	assert.Equal(t, "Fjellheimen Eiendom AS", found.Name)

	_, err = repo.FindByOrgNumber(ws2, "987654321")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBusinessRepository_FindAll_Filters(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, _ := createTestWorkspaces(t, testDB)

	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "Fjellheimen Eiendom AS", Stage: model.StageCustomer}))
	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "Kystfiske AS", Stage: model.StageLead}))
	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "Dalens Bakeri", Stage: model.StageLead, ContactPerson: "Per Hansen"}))

	stage := model.StageLead
	leads, err := repo.FindAll(ws1, BusinessFilter{Stage: &stage})
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	// Søk treffer både navn og kontaktperson
	byName, err := repo.FindAll(ws1, BusinessFilter{Search: "Kystfiske"})
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byContact, err := repo.FindAll(ws1, BusinessFilter{Search: "Hansen"})
	require.NoError(t, err)
	assert.Len(t, byContact, 1)
	assert.Equal(t, "Dalens Bakeri", byContact[0].Name)
}

func TestBusinessRepository_UpdateFields(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, _ := createTestWorkspaces(t, testDB)

	business := &model.Business{WorkspaceID: ws1, Name: "Fjellheimen Eiendom AS"}
	require.NoError(t, repo.Create(business))

	now := time.Now()
	err := repo.UpdateFields(business.ID, map[string]interface{}{
		"city":             "Bergen",
		"brreg_updated_at": now,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ws1, business.ID)
	require.NoError(t, err)
	require.NotNil(t, found.City)
	assert.Equal(t, "Bergen", *found.City)
	require.NotNil(t, found.BrregUpdatedAt)
}

func TestBusinessRepository_FindStale(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, _ := createTestWorkspaces(t, testDB)

	old := time.Now().Add(-60 * 24 * time.Hour)
	fresh := time.Now()

	neverSynced := &model.Business{WorkspaceID: ws1, Name: "Aldri synket AS", OrgNumber: strPtr("111111111")}
	staleSynced := &model.Business{WorkspaceID: ws1, Name: "Gammel synk AS", OrgNumber: strPtr("222222222"), BrregUpdatedAt: &old}
	freshSynced := &model.Business{WorkspaceID: ws1, Name: "Fersk synk AS", OrgNumber: strPtr("333333333"), BrregUpdatedAt: &fresh}
	noOrgnr := &model.Business{WorkspaceID: ws1, Name: "Uten orgnr"}
	require.NoError(t, repo.Create(neverSynced))
	require.NoError(t, repo.Create(staleSynced))
	require.NoError(t, repo.Create(freshSynced))
	require.NoError(t, repo.Create(noOrgnr))

	stale, err := repo.FindStale(time.Now().Add(-30*24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, stale, 2)

	names := []string{stale[0].Name, stale[1].Name}
	assert.Contains(t, names, "Aldri synket AS")
	assert.Contains(t, names, "Gammel synk AS")
}

func TestBusinessRepository_CountByStage(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)
	ws1, ws2 := createTestWorkspaces(t, testDB)

	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "A", Stage: model.StageLead}))
	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "B", Stage: model.StageLead}))
	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws1, Name: "C", Stage: model.StageCustomer}))
	require.NoError(t, repo.Create(&model.Business{WorkspaceID: ws2, Name: "D", Stage: model.StageLead}))

	counts, err := repo.CountByStage(ws1)
	require.NoError(t, err)

	byStage := map[model.BusinessStage]int64{}
	for _, c := range counts {
		byStage[c.Stage] = c.Count
	}
	assert.Equal(t, int64(2), byStage[model.StageLead])
	assert.Equal(t, int64(1), byStage[model.StageCustomer])
}
