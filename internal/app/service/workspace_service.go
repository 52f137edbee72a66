package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrAPIKeyInvalid     = errors.New("invalid API key")
	ErrAPIKeyRevoked     = errors.New("API key is revoked")
)

type WorkspaceService interface {
	GetWorkspace(id uint) (*model.Workspace, error)
	IssueAPIKey(workspaceID uint, label string) (*model.WorkspaceAPIKey, error)
	RevokeAPIKey(workspaceID, keyID uint) error
	ListAPIKeys(workspaceID uint) ([]model.WorkspaceAPIKey, error)
	ResolveAPIKey(key string) (*model.WorkspaceAPIKey, error)
}

type workspaceService struct {
	workspaceRepo repository.WorkspaceRepository
}

func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository) WorkspaceService {
	return &workspaceService{workspaceRepo: workspaceRepo}
}

func (s *workspaceService) GetWorkspace(id uint) (*model.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return workspace, nil
}

// IssueAPIKey lager en ny nøkkel for lead-API-et. Nøkkelen vises bare
// én gang, ved utstedelse.
func (s *workspaceService) IssueAPIKey(workspaceID uint, label string) (*model.WorkspaceAPIKey, error) {
	apiKey := &model.WorkspaceAPIKey{
		WorkspaceID: workspaceID,
		Key:         fmt.Sprintf("sf_%s", uuid.New().String()),
		Label:       label,
		Active:      true,
	}
	if err := s.workspaceRepo.CreateAPIKey(apiKey); err != nil {
		logger.Error("Failed to issue API key", err, map[string]interface{}{
			"workspace_id": workspaceID,
			"label":        label,
		})
		return nil, err
	}
	logger.Info("API key issued", map[string]interface{}{
		"workspace_id": workspaceID,
		"key_id":       apiKey.ID,
		"label":        label,
	})
	return apiKey, nil
}

func (s *workspaceService) RevokeAPIKey(workspaceID, keyID uint) error {
	if err := s.workspaceRepo.RevokeAPIKey(workspaceID, keyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAPIKeyInvalid
		}
		return err
	}
	logger.Info("API key revoked", map[string]interface{}{
		"workspace_id": workspaceID,
		"key_id":       keyID,
	})
	return nil
}

func (s *workspaceService) ListAPIKeys(workspaceID uint) ([]model.WorkspaceAPIKey, error) {
	return s.workspaceRepo.ListAPIKeys(workspaceID)
}

// ResolveAPIKey slår opp nøkkelen fra X-API-Key-headeren og oppdaterer
// siste-brukt-tidspunktet. Tilbakekalte nøkler avvises eksplisitt.
func (s *workspaceService) ResolveAPIKey(key string) (*model.WorkspaceAPIKey, error) {
	apiKey, err := s.workspaceRepo.FindAPIKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAPIKeyInvalid
		}
		return nil, err
	}
	if !apiKey.Active {
		return nil, ErrAPIKeyRevoked
	}

	now := time.Now()
	if err := s.workspaceRepo.TouchAPIKey(apiKey.ID, now); err != nil {
		// Siste-brukt er ren bokføring, aldri grunn til å avvise
		logger.Warn("Failed to touch API key", map[string]interface{}{
			"key_id": apiKey.ID,
		})
	}
	apiKey.LastUsedAt = &now
	return apiKey, nil
}
