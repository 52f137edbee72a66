package brreg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enhetJSON = `{
	"organisasjonsnummer": "987654321",
	"navn": "Ola Nordmann AS",
	"organisasjonsform": {"kode": "AS", "beskrivelse": "Aksjeselskap"},
	"hjemmeside": "www.olanordmann.no",
	"naeringskode1": {"kode": "62.010", "beskrivelse": "Programmeringstjenester"},
	"antallAnsatte": 5,
	"harRegistrertAntallAnsatte": true,
	"registrertIMvaregisteret": true,
	"forretningsadresse": {
		"adresse": ["Storgata 1", "Oppgang B"],
		"postnummer": "0155",
		"poststed": "OSLO",
		"kommune": "OSLO",
		"land": "Norge"
	},
	"stiftelsesdato": "2015-03-12",
	"konkurs": false,
	"underAvvikling": false
}`

const searchJSON = `{
	"_embedded": {
		"enheter": [
			{"organisasjonsnummer": "911111111", "navn": "Norsk Tekno Konkurs AS", "konkurs": true},
			{"organisasjonsnummer": "922222222", "navn": "Norsk Tekno Avvikling AS", "underAvvikling": true},
			{"organisasjonsnummer": "933333333", "navn": "Norsk Tekno AS", "konkurs": false, "underAvvikling": false}
		]
	},
	"page": {"size": 10, "totalElements": 3, "totalPages": 1, "number": 0}
}`

func TestClient_GetUnit(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		require.Equal(t, "/enheter/987654321", r.URL.Path)
		w.Write([]byte(enhetJSON))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	unit, err := client.GetUnit(context.Background(), "987654321")
	require.NoError(t, err)
	require.NotNil(t, unit)

	assert.Equal(t, "application/vnd.brreg.enhetsregisteret.enhet.v2+json", gotAccept)
	assert.Equal(t, "987654321", unit.OrgNumber)
	assert.Equal(t, "Ola Nordmann AS", unit.Name)
	assert.Equal(t, "AS", unit.LegalForm)
	assert.Equal(t, "Storgata 1, Oppgang B", unit.Address)
	assert.Equal(t, "0155", unit.PostalCode)
	assert.Equal(t, "OSLO", unit.City)
	assert.Equal(t, "62.010", unit.IndustryCode)
	require.NotNil(t, unit.Employees)
	assert.Equal(t, 5, *unit.Employees)
	require.NotNil(t, unit.VATRegistered)
	assert.True(t, *unit.VATRegistered)
	require.NotNil(t, unit.EstablishedDate)
	assert.Equal(t, "2015-03-12", unit.EstablishedDate.Format("2006-01-02"))
	require.NotNil(t, unit.Bankrupt)
	assert.False(t, *unit.Bankrupt)
}

func TestClient_GetUnit_NotFoundAndGoneAreNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/enheter/111111111":
			w.WriteHeader(http.StatusGone)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	unit, err := client.GetUnit(context.Background(), "999999999")
	require.NoError(t, err)
	assert.Nil(t, unit)

	// 410 skilles ikke fra 404 utad
	unit, err = client.GetUnit(context.Background(), "111111111")
	require.NoError(t, err)
	assert.Nil(t, unit)
}

func TestClient_GetUnit_ServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	unit, err := client.GetUnit(context.Background(), "987654321")
	assert.Error(t, err)
	assert.Nil(t, unit)
}

func TestClient_GetUnit_EmployeesOnlyWhenRegistered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"organisasjonsnummer": "987654321",
			"navn": "Uten Ansatte AS",
			"antallAnsatte": 0,
			"harRegistrertAntallAnsatte": false
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	unit, err := client.GetUnit(context.Background(), "987654321")
	require.NoError(t, err)
	assert.Nil(t, unit.Employees)
}

type mapCache struct {
	mu    sync.Mutex
	units map[string]*Unit
}

func (c *mapCache) GetUnit(_ context.Context, orgNumber string) (*Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	unit, ok := c.units[orgNumber]
	return unit, ok
}

func (c *mapCache) SetUnit(_ context.Context, orgNumber string, unit *Unit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units[orgNumber] = unit
}

func TestClient_GetUnit_UsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(enhetJSON))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	client.UseCache(&mapCache{units: map[string]*Unit{}})

	for i := 0; i < 3; i++ {
		unit, err := client.GetUnit(context.Background(), "987654321")
		require.NoError(t, err)
		require.NotNil(t, unit)
	}
	assert.Equal(t, 1, calls)
}

func TestClient_SearchByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Norsk Tekno", r.URL.Query().Get("navn"))
		w.Write([]byte(searchJSON))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	results := client.SearchByName(context.Background(), "Norsk Tekno", 10)
	require.Len(t, results, 3)

	// Konkursfilteret ligger hos kalleren; klienten leverer alt
	active := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.IsBankrupt || r.IsWindingUp {
			continue
		}
		active = append(active, r)
	}
	require.Len(t, active, 1)
	assert.Equal(t, "Norsk Tekno AS", active[0].Name)
}

func TestClient_SearchByName_FailsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	results := client.SearchByName(context.Background(), "Hvem Som Helst", 10)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestClient_Search_PageTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1-basert side 3 blir oppstrøms side 2
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{
			"_embedded": {"enheter": [{"organisasjonsnummer": "933333333", "navn": "Treff AS"}]},
			"page": {"size": 10, "totalElements": 21, "totalPages": 3, "number": 2}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	page := client.Search(context.Background(), SearchFilters{Query: "Treff"}, 3, 10)
	require.NotNil(t, page)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(21), page.Total)
	require.Len(t, page.Items, 1)
}

func TestClient_Search_FilterParams(t *testing.T) {
	vat := true
	hasEmployees := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "OSLO", q.Get("forretningsadresse.kommune"))
		assert.Equal(t, "AS", q.Get("organisasjonsform"))
		assert.Equal(t, "62", q.Get("naeringskode"))
		assert.Equal(t, "true", q.Get("registrertIMvaregisteret"))
		assert.Equal(t, "1", q.Get("fraAntallAnsatte"))
		w.Write([]byte(`{"_embedded": {"enheter": []}, "page": {"size": 10, "totalElements": 0, "totalPages": 0, "number": 0}}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	page := client.Search(context.Background(), SearchFilters{
		Municipality:  "Oslo",
		LegalForm:     "AS",
		IndustryCode:  "62",
		VATRegistered: &vat,
		HasEmployees:  &hasEmployees,
	}, 1, 10)
	require.NotNil(t, page)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
}

func TestClient_Search_FailsSoftToEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	page := client.Search(context.Background(), SearchFilters{Query: "Nede"}, 2, 10)
	require.NotNil(t, page)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)

	// Den kontrollerte varianten propagerer feilen
	_, err := client.SearchChecked(context.Background(), SearchFilters{Query: "Nede"}, 2, 10)
	assert.Error(t, err)
}
