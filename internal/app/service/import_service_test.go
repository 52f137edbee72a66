package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const importCSV = `"organisasjonsnummer","navn","organisasjonsform.kode","naeringskode1.kode","naeringskode1.beskrivelse","forretningsadresse.adresse","forretningsadresse.postnummer","forretningsadresse.poststed","forretningsadresse.kommune","antallAnsatte","registrertIMvaregisteret","konkurs","underAvvikling","stiftelsesdato"
"912345678","Fjordfiske AS","AS","03.111","Hav- og kystfiske","Kaigata 4","9008","TROMSØ","TROMSØ","7","JA","NEI","NEI","2015-03-12"
"923456789","Byggmester Hansen ENK","ENK","41.200","Oppføring av bygninger","Hammerveien 2","5003","BERGEN","BERGEN","","JA","NEI","NEI","2018-06-01"
"999","Ugyldig rad","AS","","","","","","","","","","",""
`

func setupImportServiceTest(t *testing.T) (ImportService, *gorm.DB, string) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	path := filepath.Join(t.TempDir(), "enheter.csv")
	require.NoError(t, os.WriteFile(path, []byte(importCSV), 0o644))

	svc := NewImportService(repository.NewBrregRepository(testDB))
	return svc, testDB, path
}

func TestImportService_ImportSnapshots(t *testing.T) {
	svc, testDB, path := setupImportServiceTest(t)

	summary, err := svc.ImportSnapshots(path, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.Failed) // ugyldig orgnr

	var snapshot model.BrregBusiness
	require.NoError(t, testDB.Where("org_number = ?", "912345678").First(&snapshot).Error)
	assert.Equal(t, "Fjordfiske AS", snapshot.Name)
	require.NotNil(t, snapshot.IndustrySection)
	assert.Equal(t, "A", *snapshot.IndustrySection) // 03 = fiske
	require.NotNil(t, snapshot.EmployeeCount)
	assert.Equal(t, 7, *snapshot.EmployeeCount)
	require.NotNil(t, snapshot.VATRegistered)
	assert.True(t, *snapshot.VATRegistered)
	require.NotNil(t, snapshot.EstablishedDate)

	// Bygg og anlegg er seksjon F
	var builder model.BrregBusiness
	require.NoError(t, testDB.Where("org_number = ?", "923456789").First(&builder).Error)
	require.NotNil(t, builder.IndustrySection)
	assert.Equal(t, "F", *builder.IndustrySection)
	assert.Nil(t, builder.EmployeeCount)
}

func TestImportService_RepeatedImportCreatesNothing(t *testing.T) {
	svc, testDB, path := setupImportServiceTest(t)

	first, err := svc.ImportSnapshots(path, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := svc.ImportSnapshots(path, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)

	var count int64
	testDB.Model(&model.BrregBusiness{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestImportService_MaxRecordsLimitsRun(t *testing.T) {
	svc, _, path := setupImportServiceTest(t)

	summary, err := svc.ImportSnapshots(path, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Created)
}

func TestImportService_FallsBackToSample(t *testing.T) {
	svc, testDB, path := setupImportServiceTest(t)

	missing := filepath.Join(filepath.Dir(path), "finnes-ikke.csv")
	summary, err := svc.ImportSnapshots(missing, path, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)

	var count int64
	testDB.Model(&model.BrregBusiness{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestImportService_MissingFileAndSample(t *testing.T) {
	svc, _, _ := setupImportServiceTest(t)

	_, err := svc.ImportSnapshots("/tmp/finnes-ikke.csv", "", 0)
	assert.ErrorIs(t, err, ErrImportFileMissing)
}
