package db

import (
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Workspace{},
		&model.WorkspaceAPIKey{},
		&model.User{},
		&model.Business{},
		&model.BrregBusiness{},
		&model.Task{},
		&model.Activity{},
		&model.Offer{},
		&model.OfferItem{},
		&model.OfferAttachment{},
		&model.SavedSearch{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	// Et arbeidsområde må finnes før brukere kan registreres
	return seedDefaultWorkspace()
}

func seedDefaultWorkspace() error {
	var count int64
	if err := DB.Model(&model.Workspace{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	logger.Info("Seeding default workspace...")

	workspace := model.Workspace{Name: "Standard"}
	if err := DB.Create(&workspace).Error; err != nil {
		logger.Error("Failed to create default workspace", err)
		return err
	}

	logger.Info("Default workspace seeded", map[string]interface{}{
		"workspace_id": workspace.ID,
	})
	return nil
}
