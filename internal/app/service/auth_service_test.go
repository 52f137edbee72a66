package service

import (
	"testing"
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	svc := NewAuthService(
		repository.NewUserRepository(testDB),
		repository.NewWorkspaceRepository(testDB),
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	return svc, testDB
}

func TestAuthService_Register(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)

	user, tokens, err := svc.Register("kari@firma.no", "hemmelig123", "Kari Nordmann", "Firma AS")
	require.NoError(t, err)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, model.RoleAdmin, user.Role)
	// Passordet skal aldri lagres i klartekst
	assert.NotEqual(t, "hemmelig123", user.PasswordHash)

	var workspace model.Workspace
	testDB.First(&workspace, user.WorkspaceID)
	assert.Equal(t, "Firma AS", workspace.Name)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, _, err := svc.Register("kari@firma.no", "hemmelig123", "Kari Nordmann", "Firma AS")
	require.NoError(t, err)

	_, _, err = svc.Register("kari@firma.no", "annetpassord", "Kari N", "Annet AS")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	registered, _, err := svc.Register("kari@firma.no", "hemmelig123", "Kari Nordmann", "Firma AS")
	require.NoError(t, err)

	user, tokens, err := svc.Login("kari@firma.no", "hemmelig123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, _, err := svc.Register("kari@firma.no", "hemmelig123", "Kari Nordmann", "Firma AS")
	require.NoError(t, err)

	_, _, err = svc.Login("kari@firma.no", "feilpassord")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, _, err := svc.Login("finnes-ikke@firma.no", "hemmelig123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
