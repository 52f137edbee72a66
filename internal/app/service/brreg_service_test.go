package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBrregServiceTest(t *testing.T, registryURL string) BrregService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	client := brreg.NewClient(brreg.Config{BaseURL: registryURL})
	return NewBrregService(client, repository.NewBrregRepository(testDB))
}

func TestBrregService_SearchByName_TooShort(t *testing.T) {
	var called bool
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_embedded": {"enheter": []}, "page": {"size": 20, "totalElements": 0, "totalPages": 1, "number": 0}}`))
	}))
	defer registry.Close()
	svc := setupBrregServiceTest(t, registry.URL)

	for _, query := range []string{"", "a", " a ", "\t b \n"} {
		_, err := svc.SearchByName(context.Background(), query, 20)
		assert.ErrorIs(t, err, ErrQueryTooShort, "query %q", query)
	}
	// For korte søk skal aldri nå registeret
	assert.False(t, called)
}

func TestBrregService_SearchByName_TrimsQuery(t *testing.T) {
	var gotNavn string
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotNavn = r.URL.Query().Get("navn")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"_embedded": {"enheter": [{
				"organisasjonsnummer": "987654321",
				"navn": "Ola Nordmann AS",
				"organisasjonsform": {"kode": "AS", "beskrivelse": "Aksjeselskap"}
			}]},
			"page": {"size": 20, "totalElements": 1, "totalPages": 1, "number": 0}
		}`))
	}))
	defer registry.Close()
	svc := setupBrregServiceTest(t, registry.URL)

	results, err := svc.SearchByName(context.Background(), "  Ola Nordmann  ", 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "987654321", results[0].OrgNumber)
	assert.Equal(t, "Ola Nordmann", gotNavn)
}
