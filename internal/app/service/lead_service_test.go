package service

import (
	"context"
	"testing"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLeadServiceTest(t *testing.T, registryURL string) (LeadService, *gorm.DB, *model.Workspace) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	workspace := &model.Workspace{Name: "Testområde"}
	testDB.Create(workspace)

	client := brreg.NewClient(brreg.Config{BaseURL: registryURL})
	svc := NewLeadService(
		repository.NewBusinessRepository(testDB),
		repository.NewActivityRepository(testDB),
		client,
	)
	return svc, testDB, workspace
}

func TestLeadService_Submit_WithoutOrgNumber(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace := setupLeadServiceTest(t, registry.URL)

	result, err := svc.Submit(context.Background(), workspace.ID, &LeadSubmission{
		Name:  "Test AS",
		Email: "a@b.no",
		Phone: "12345678",
	})
	require.NoError(t, err)
	assert.True(t, result.IsNew)

	var businesses []model.Business
	testDB.Find(&businesses)
	require.Len(t, businesses, 1)
	assert.Equal(t, model.StageLead, businesses[0].Stage)
	assert.Nil(t, businesses[0].OrgNumber)
	assert.Equal(t, "a@b.no", businesses[0].Email)
}

func TestLeadService_Submit_EnrichesFromRegistry(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace := setupLeadServiceTest(t, registry.URL)

	result, err := svc.Submit(context.Background(), workspace.ID, &LeadSubmission{
		Name:      "Innsendt Navn",
		Email:     "kontakt@olanordmann.no",
		Phone:     "98765432",
		OrgNumber: "987654321",
	})
	require.NoError(t, err)
	assert.True(t, result.IsNew)

	var business model.Business
	testDB.First(&business, result.ID)
	// Registernavnet har overskrevet det innsendte
	assert.Equal(t, "Ola Nordmann AS", business.Name)
	require.NotNil(t, business.Address)
	assert.Equal(t, "Storgata 1", *business.Address)
	// Innsendte kontaktdata beholdes
	assert.Equal(t, "kontakt@olanordmann.no", business.Email)
}

func TestLeadService_Submit_RegistryDownDoesNotBlockLead(t *testing.T) {
	registry := fakeRegistry(t)
	registry.Close() // registeret er nede
	svc, testDB, workspace := setupLeadServiceTest(t, registry.URL)

	result, err := svc.Submit(context.Background(), workspace.ID, &LeadSubmission{
		Name:      "Robust AS",
		Email:     "post@robust.no",
		Phone:     "11112222",
		OrgNumber: "987654321",
	})
	require.NoError(t, err)
	assert.True(t, result.IsNew)

	// Leaden finnes, uten beriking
	var business model.Business
	testDB.First(&business, result.ID)
	assert.Equal(t, "Robust AS", business.Name)
	assert.Nil(t, business.BrregUpdatedAt)
}

func TestLeadService_Submit_ResubmissionIsNotNew(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace := setupLeadServiceTest(t, registry.URL)

	submission := &LeadSubmission{
		Name:       "Gjentatt AS",
		Email:      "post@gjentatt.no",
		Phone:      "22223333",
		ExternalID: "crm-42",
	}

	first, err := svc.Submit(context.Background(), workspace.ID, submission)
	require.NoError(t, err)
	assert.True(t, first.IsNew)

	second, err := svc.Submit(context.Background(), workspace.ID, submission)
	require.NoError(t, err)
	assert.False(t, second.IsNew)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "crm-42", second.ExternalID)

	var count int64
	testDB.Model(&model.Business{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLeadService_Submit_RecordsSourceSystem(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, testDB, workspace := setupLeadServiceTest(t, registry.URL)

	result, err := svc.Submit(context.Background(), workspace.ID, &LeadSubmission{
		Name:         "Kilde AS",
		Email:        "post@kilde.no",
		Phone:        "33334444",
		SourceSystem: "hubspot",
	})
	require.NoError(t, err)

	var activities []model.Activity
	testDB.Where("business_id = ?", result.ID).Find(&activities)
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityAPILead, activities[0].Type)
	assert.Contains(t, activities[0].Content, "hubspot")
}

func TestLeadService_Submit_InvalidOrgNumber(t *testing.T) {
	registry := fakeRegistry(t)
	defer registry.Close()
	svc, _, workspace := setupLeadServiceTest(t, registry.URL)

	_, err := svc.Submit(context.Background(), workspace.ID, &LeadSubmission{
		Name:      "Ugyldig AS",
		Email:     "post@ugyldig.no",
		Phone:     "44445555",
		OrgNumber: "abc123",
	})
	assert.ErrorIs(t, err, ErrInvalidOrgNumber)
}
