package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"github.com/salgsflyt/salgsflyt-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

var ErrImportFileMissing = errors.New("import file not found")

// ImportSummary oppsummerer én importkjøring
type ImportSummary struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type ImportService interface {
	ImportSnapshots(path, samplePath string, maxRecords int) (*ImportSummary, error)
}

type importService struct {
	brregRepo repository.BrregRepository
}

func NewImportService(brregRepo repository.BrregRepository) ImportService {
	return &importService{brregRepo: brregRepo}
}

// ImportSnapshots leser et registeruttrekk (CSV eller XLSX) og skriver
// radene som registerutdrag. Importen er ikke gjenopptagbar: hver kjøring
// leser fra toppen og hopper over orgnr som allerede finnes, så en
// gjentatt kjøring av samme fil gir null nye rader.
func (s *importService) ImportSnapshots(path, samplePath string, maxRecords int) (*ImportSummary, error) {
	resolved := path
	if _, err := os.Stat(resolved); err != nil {
		if samplePath == "" {
			return nil, ErrImportFileMissing
		}
		logger.Warn("Import file missing, falling back to sample", map[string]interface{}{
			"path":   path,
			"sample": samplePath,
		})
		resolved = samplePath
		if _, err := os.Stat(resolved); err != nil {
			return nil, ErrImportFileMissing
		}
	}

	rows, err := readRows(resolved)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return &ImportSummary{}, nil
	}

	columns := indexColumns(rows[0])
	if _, ok := columns["organisasjonsnummer"]; !ok {
		return nil, fmt.Errorf("import file %s has no organisasjonsnummer column", resolved)
	}

	summary := &ImportSummary{}
	for _, row := range rows[1:] {
		if maxRecords > 0 && summary.Processed >= maxRecords {
			break
		}
		summary.Processed++

		snapshot, err := rowToSnapshot(row, columns)
		if err != nil {
			summary.Failed++
			continue
		}

		exists, err := s.brregRepo.ExistsByOrgNumber(snapshot.OrgNumber)
		if err != nil {
			summary.Failed++
			continue
		}
		if exists {
			summary.Skipped++
			continue
		}

		if err := s.brregRepo.Create(snapshot); err != nil {
			logger.Error("Failed to insert snapshot", err, map[string]interface{}{
				"org_number": snapshot.OrgNumber,
			})
			summary.Failed++
			continue
		}
		summary.Created++
	}

	logger.Info("Snapshot import finished", map[string]interface{}{
		"file":      resolved,
		"processed": summary.Processed,
		"created":   summary.Created,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	})
	return summary, nil
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // uttrekket har varierende kolonneantall på eldre rader
	return reader.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	return file.GetRows(sheets[0])
}

// indexColumns mapper kolonnenavn fra headerraden til posisjon.
// Navnene følger feltstiene i registerets eget uttrekk.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.Trim(name, "\""))] = i
	}
	return columns
}

func rowToSnapshot(row []string, columns map[string]int) (*model.BrregBusiness, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	orgNumber := util.NormalizeOrgNumber(cell("organisasjonsnummer"))
	if !util.IsValidOrgNumber(orgNumber) {
		return nil, fmt.Errorf("invalid org number %q", orgNumber)
	}
	name := cell("navn")
	if name == "" {
		return nil, fmt.Errorf("missing name for %s", orgNumber)
	}

	snapshot := &model.BrregBusiness{
		OrgNumber: orgNumber,
		Name:      name,
	}
	copyStrPtr(&snapshot.LegalForm, strOrNil(cell("organisasjonsform.kode")))
	copyStrPtr(&snapshot.IndustryCode1, strOrNil(cell("naeringskode1.kode")))
	copyStrPtr(&snapshot.IndustryDesc1, strOrNil(cell("naeringskode1.beskrivelse")))
	copyStrPtr(&snapshot.IndustryCode2, strOrNil(cell("naeringskode2.kode")))
	copyStrPtr(&snapshot.IndustryDesc2, strOrNil(cell("naeringskode2.beskrivelse")))
	copyStrPtr(&snapshot.IndustryCode3, strOrNil(cell("naeringskode3.kode")))
	copyStrPtr(&snapshot.IndustryDesc3, strOrNil(cell("naeringskode3.beskrivelse")))
	copyStrPtr(&snapshot.Address, strOrNil(cell("forretningsadresse.adresse")))
	copyStrPtr(&snapshot.PostalCode, strOrNil(cell("forretningsadresse.postnummer")))
	copyStrPtr(&snapshot.City, strOrNil(cell("forretningsadresse.poststed")))
	copyStrPtr(&snapshot.Municipality, strOrNil(cell("forretningsadresse.kommune")))
	copyStrPtr(&snapshot.Country, strOrNil(cell("forretningsadresse.land")))
	copyStrPtr(&snapshot.PostalAddress, strOrNil(cell("postadresse.adresse")))
	copyStrPtr(&snapshot.PostalPostalCode, strOrNil(cell("postadresse.postnummer")))
	copyStrPtr(&snapshot.PostalCity, strOrNil(cell("postadresse.poststed")))
	copyStrPtr(&snapshot.Website, strOrNil(cell("hjemmeside")))

	if code := cell("naeringskode1.kode"); code != "" {
		if section, sectionName := util.NaceSectionWithName(code); section != "" {
			snapshot.IndustrySection = &section
			snapshot.IndustrySectionName = &sectionName
		}
	}

	if raw := cell("antallAnsatte"); raw != "" {
		if employees, err := strconv.Atoi(raw); err == nil {
			snapshot.EmployeeCount = &employees
			has := true
			snapshot.HasEmployeeCount = &has
		}
	}
	if raw := cell("registrertIMvaregisteret"); raw != "" {
		v := parseNorwegianBool(raw)
		snapshot.VATRegistered = &v
	}
	if raw := cell("konkurs"); raw != "" {
		v := parseNorwegianBool(raw)
		snapshot.IsBankrupt = &v
	}
	if raw := cell("underAvvikling"); raw != "" {
		v := parseNorwegianBool(raw)
		snapshot.IsWindingUp = &v
	}
	if date := parseImportDate(cell("stiftelsesdato")); date != nil {
		snapshot.EstablishedDate = date
	}
	if date := parseImportDate(cell("registreringsdatoEnhetsregisteret")); date != nil {
		snapshot.RegisteredDate = date
	}

	return snapshot, nil
}

// Uttrekket bruker "JA"/"NEI", eldre filer "true"/"false"
func parseNorwegianBool(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "JA", "TRUE", "J", "1":
		return true
	}
	return false
}

func parseImportDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}
