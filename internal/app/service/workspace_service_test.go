package service

import (
	"testing"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWorkspaceServiceTest(t *testing.T) (WorkspaceService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewWorkspaceService(repository.NewWorkspaceRepository(testDB)), testDB
}

func TestWorkspaceService_RevokeAPIKey(t *testing.T) {
	svc, testDB := setupWorkspaceServiceTest(t)

	workspace := &model.Workspace{Name: "Salgsrom AS"}
	testDB.Create(workspace)

	key, err := svc.IssueAPIKey(workspace.ID, "nettside")
	require.NoError(t, err)
	assert.True(t, key.Active)

	err = svc.RevokeAPIKey(workspace.ID, key.ID)
	require.NoError(t, err)

	var stored model.WorkspaceAPIKey
	testDB.First(&stored, key.ID)
	assert.False(t, stored.Active)
}

func TestWorkspaceService_RevokeAPIKey_OtherWorkspace(t *testing.T) {
	svc, testDB := setupWorkspaceServiceTest(t)

	workspace := &model.Workspace{Name: "Salgsrom AS"}
	other := &model.Workspace{Name: "Annet Firma AS"}
	testDB.Create(workspace)
	testDB.Create(other)

	key, err := svc.IssueAPIKey(workspace.ID, "nettside")
	require.NoError(t, err)

	// Tilbakekalling fra feil arbeidsområde skal avvises, ikke treffe nøkkelen
	err = svc.RevokeAPIKey(other.ID, key.ID)
	assert.ErrorIs(t, err, ErrAPIKeyInvalid)

	var stored model.WorkspaceAPIKey
	testDB.First(&stored, key.ID)
	assert.True(t, stored.Active)
}

func TestWorkspaceService_RevokeAPIKey_UnknownKey(t *testing.T) {
	svc, testDB := setupWorkspaceServiceTest(t)

	workspace := &model.Workspace{Name: "Salgsrom AS"}
	testDB.Create(workspace)

	err := svc.RevokeAPIKey(workspace.ID, 9999)
	assert.ErrorIs(t, err, ErrAPIKeyInvalid)
}

func TestWorkspaceService_ResolveAPIKey(t *testing.T) {
	svc, testDB := setupWorkspaceServiceTest(t)

	workspace := &model.Workspace{Name: "Salgsrom AS"}
	testDB.Create(workspace)

	key, err := svc.IssueAPIKey(workspace.ID, "nettside")
	require.NoError(t, err)
	require.Nil(t, key.LastUsedAt)

	resolved, err := svc.ResolveAPIKey(key.Key)
	require.NoError(t, err)
	assert.Equal(t, workspace.ID, resolved.WorkspaceID)

	var stored model.WorkspaceAPIKey
	testDB.First(&stored, key.ID)
	require.NotNil(t, stored.LastUsedAt)
}

func TestWorkspaceService_ResolveAPIKey_Revoked(t *testing.T) {
	svc, testDB := setupWorkspaceServiceTest(t)

	workspace := &model.Workspace{Name: "Salgsrom AS"}
	testDB.Create(workspace)

	key, err := svc.IssueAPIKey(workspace.ID, "nettside")
	require.NoError(t, err)
	require.NoError(t, svc.RevokeAPIKey(workspace.ID, key.ID))

	_, err = svc.ResolveAPIKey(key.Key)
	assert.ErrorIs(t, err, ErrAPIKeyRevoked)
}

func TestWorkspaceService_ResolveAPIKey_Unknown(t *testing.T) {
	svc, _ := setupWorkspaceServiceTest(t)

	_, err := svc.ResolveAPIKey("sf_finnes-ikke")
	assert.ErrorIs(t, err, ErrAPIKeyInvalid)
}
