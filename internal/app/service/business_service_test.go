package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	events []interface{}
}

func (f *fakeNotifier) BroadcastToWorkspace(workspaceID uint, event interface{}) {
	f.events = append(f.events, event)
}

// fakeRegistry svarer som Enhetsregisteret for ett kjent orgnr
func fakeRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/enheter/987654321":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"organisasjonsnummer": "987654321",
				"navn": "Ola Nordmann AS",
				"organisasjonsform": {"kode": "AS", "beskrivelse": "Aksjeselskap"},
				"naeringskode1": {"kode": "62.010", "beskrivelse": "Programmeringstjenester"},
				"antallAnsatte": 5,
				"harRegistrertAntallAnsatte": true,
				"registrertIMvaregisteret": true,
				"forretningsadresse": {
					"adresse": ["Storgata 1"],
					"postnummer": "0155",
					"poststed": "OSLO",
					"kommune": "OSLO",
					"land": "Norge"
				},
				"stiftelsesdato": "2015-03-12",
				"konkurs": false,
				"underAvvikling": false
			}`))
		case "/enheter/111111111":
			w.WriteHeader(http.StatusGone)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func setupBusinessServiceTest(t *testing.T, registryURL string) (BusinessService, *gorm.DB, *model.Workspace, *fakeNotifier) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	workspace := &model.Workspace{Name: "Testområde"}
	testDB.Create(workspace)

	notifier := &fakeNotifier{}
	client := brreg.NewClient(brreg.Config{BaseURL: registryURL})
	svc := NewBusinessService(
		repository.NewBusinessRepository(testDB),
		repository.NewActivityRepository(testDB),
		repository.NewBrregRepository(testDB),
		client,
		notifier,
	)
	return svc, testDB, workspace, notifier
}

func TestBusinessService_CreateFromOrgNumber_Created(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	outcome, err := svc.CreateFromOrgNumber(context.Background(), workspace.ID, "987654321")
	require.NoError(t, err)
	require.True(t, outcome.Created)
	require.NotNil(t, outcome.Business)

	assert.Equal(t, "Ola Nordmann AS", outcome.Business.Name)
	assert.Equal(t, model.StageLead, outcome.Business.Stage)
	require.NotNil(t, outcome.Business.Address)
	assert.Equal(t, "Storgata 1", *outcome.Business.Address)
	require.NotNil(t, outcome.Business.EmployeeCount)
	assert.Equal(t, 5, *outcome.Business.EmployeeCount)
	require.NotNil(t, outcome.Business.BrregUpdatedAt)

	var count int64
	testDB.Model(&model.Business{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBusinessService_CreateFromOrgNumber_DuplicateIsIdempotent(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	first, err := svc.CreateFromOrgNumber(context.Background(), workspace.ID, "987654321")
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := svc.CreateFromOrgNumber(context.Background(), workspace.ID, "987654321")
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.False(t, second.Created)
	assert.Equal(t, first.Business.ID, second.Business.ID)

	var count int64
	testDB.Model(&model.Business{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBusinessService_CreateFromOrgNumber_NotFound(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	outcome, err := svc.CreateFromOrgNumber(context.Background(), workspace.ID, "999999999")
	require.NoError(t, err)
	assert.True(t, outcome.NotFound)
	assert.Nil(t, outcome.Business)

	var count int64
	testDB.Model(&model.Business{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestBusinessService_CreateFromOrgNumber_GoneBehavesLikeNotFound(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, _, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	outcome, err := svc.CreateFromOrgNumber(context.Background(), workspace.ID, "111111111")
	require.NoError(t, err)
	assert.True(t, outcome.NotFound)
}

func TestBusinessService_CreateFromOrgNumber_InvalidOrgNumber(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, _, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	_, err := svc.CreateFromOrgNumber(context.Background(), workspace.ID, "12345")
	assert.ErrorIs(t, err, ErrInvalidOrgNumber)
}

func TestBusinessService_UpdateStage(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace, notifier := setupBusinessServiceTest(t, registry.URL)

	business := &model.Business{
		WorkspaceID: workspace.ID,
		Name:        "Pipeline AS",
		Stage:       model.StageLead,
		Status:      model.StatusActive,
	}
	testDB.Create(business)

	updated, err := svc.UpdateStage(workspace.ID, business.ID, model.StageQualified, "test@eksempel.no")
	require.NoError(t, err)
	assert.Equal(t, model.StageQualified, updated.Stage)

	// Aktivitet logges og hendelse publiseres
	var activities []model.Activity
	testDB.Where("business_id = ?", business.ID).Find(&activities)
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityStageChange, activities[0].Type)

	require.Len(t, notifier.events, 1)
	event := notifier.events[0].(StageChangeEvent)
	assert.Equal(t, model.StageLead, event.From)
	assert.Equal(t, model.StageQualified, event.To)
}

func TestBusinessService_UpdateStage_InvalidStage(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, _, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	_, err := svc.UpdateStage(workspace.ID, 1, model.BusinessStage("vunnet"), "test")
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestBusinessService_SyncWithRegistry_MergesWithoutOverwriting(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	orgnr := "987654321"
	business := &model.Business{
		WorkspaceID: workspace.ID,
		OrgNumber:   &orgnr,
		Name:        "Old Name",
		Stage:       model.StageProspect,
		Status:      model.StatusActive,
		City:        strPtr("Brukerby"),
	}
	testDB.Create(business)

	synced, err := svc.SyncWithRegistry(context.Background(), workspace.ID, business.ID)
	require.NoError(t, err)

	// Navn overskrives, brukersatt by beholdes, tomme felter fylles
	assert.Equal(t, "Ola Nordmann AS", synced.Name)
	require.NotNil(t, synced.City)
	assert.Equal(t, "Brukerby", *synced.City)
	require.NotNil(t, synced.Address)
	assert.Equal(t, "Storgata 1", *synced.Address)
	require.NotNil(t, synced.BrregUpdatedAt)
}

func TestBusinessService_ConvertSnapshotToLead(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	snapshot := &model.BrregBusiness{
		OrgNumber:     "912345678",
		Name:          "Utdrag AS",
		LegalForm:     strPtr("AS"),
		City:          strPtr("Bergen"),
		IndustryCode1: strPtr("47.110"),
	}
	testDB.Create(snapshot)

	outcome, err := svc.ConvertSnapshotToLead(workspace.ID, "912345678")
	require.NoError(t, err)
	require.True(t, outcome.Created)
	assert.Equal(t, "Utdrag AS", outcome.Business.Name)
	assert.Equal(t, model.StageLead, outcome.Business.Stage)
	require.NotNil(t, outcome.Business.City)
	assert.Equal(t, "Bergen", *outcome.Business.City)

	// Andre gang: duplikat
	second, err := svc.ConvertSnapshotToLead(workspace.ID, "912345678")
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
}

func TestBusinessService_ConvertSnapshotToLead_MissingSnapshot(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, _, workspace, _ := setupBusinessServiceTest(t, registry.URL)

	_, err := svc.ConvertSnapshotToLead(workspace.ID, "900000001")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
