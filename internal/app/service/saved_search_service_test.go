package service

import (
	"testing"

	"github.com/lib/pq"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubSavedSearchRepo holder lagrede søk i minnet. Modellens text[]-kolonner
// finnes bare i Postgres, så tjenestelaget testes uten database.
type stubSavedSearchRepo struct {
	searches []model.SavedSearch
	nextID   uint
}

func (r *stubSavedSearchRepo) Create(search *model.SavedSearch) error {
	r.nextID++
	search.ID = r.nextID
	r.searches = append(r.searches, *search)
	return nil
}

func (r *stubSavedSearchRepo) FindByID(workspaceID, id uint) (*model.SavedSearch, error) {
	for i := range r.searches {
		if r.searches[i].WorkspaceID == workspaceID && r.searches[i].ID == id {
			return &r.searches[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSavedSearchRepo) FindAll(workspaceID uint) ([]model.SavedSearch, error) {
	var found []model.SavedSearch
	for _, s := range r.searches {
		if s.WorkspaceID == workspaceID {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *stubSavedSearchRepo) Delete(workspaceID, id uint) error {
	for i := range r.searches {
		if r.searches[i].WorkspaceID == workspaceID && r.searches[i].ID == id {
			r.searches = append(r.searches[:i], r.searches[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestSavedSearchService_CreateAndList(t *testing.T) {
	svc := NewSavedSearchService(&stubSavedSearchRepo{})

	search := &model.SavedSearch{
		Name:         "IT-selskaper i Oslo",
		Municipality: "OSLO",
		LegalForms:   pq.StringArray{"AS"},
	}
	require.NoError(t, svc.Create(7, search))
	assert.Equal(t, uint(7), search.WorkspaceID)

	found, err := svc.List(7)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "IT-selskaper i Oslo", found[0].Name)

	// Andre arbeidsområder ser ingenting
	other, err := svc.List(8)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSavedSearchService_Delete(t *testing.T) {
	svc := NewSavedSearchService(&stubSavedSearchRepo{})

	search := &model.SavedSearch{Name: "Bygg og anlegg"}
	require.NoError(t, svc.Create(7, search))

	// Feil arbeidsområde skal ikke kunne slette
	assert.ErrorIs(t, svc.Delete(8, search.ID), ErrSavedSearchNotFound)

	require.NoError(t, svc.Delete(7, search.ID))
	assert.ErrorIs(t, svc.Delete(7, search.ID), ErrSavedSearchNotFound)
}

func TestSavedSearchService_ToFilters(t *testing.T) {
	svc := NewSavedSearchService(&stubSavedSearchRepo{})

	vat := true
	search := &model.SavedSearch{
		Name:          "Regnskapsbyråer",
		Query:         "regnskap",
		Municipality:  "BERGEN",
		LegalForms:    pq.StringArray{"AS", "ENK"},
		NacePrefixes:  pq.StringArray{"69", "70"},
		VATRegistered: &vat,
	}
	require.NoError(t, svc.Create(7, search))

	filters, err := svc.ToFilters(7, search.ID)
	require.NoError(t, err)
	assert.Equal(t, "regnskap", filters.Query)
	assert.Equal(t, "BERGEN", filters.Municipality)
	// Registeret tar ett filter per felt; første element vinner
	assert.Equal(t, "AS", filters.LegalForm)
	assert.Equal(t, "69", filters.IndustryCode)
	require.NotNil(t, filters.VATRegistered)
	assert.True(t, *filters.VATRegistered)
}

func TestSavedSearchService_ToFilters_EmptyArrays(t *testing.T) {
	svc := NewSavedSearchService(&stubSavedSearchRepo{})

	search := &model.SavedSearch{Name: "Alt i Trondheim", Municipality: "TRONDHEIM"}
	require.NoError(t, svc.Create(7, search))

	filters, err := svc.ToFilters(7, search.ID)
	require.NoError(t, err)
	assert.Empty(t, filters.LegalForm)
	assert.Empty(t, filters.IndustryCode)
}

func TestSavedSearchService_ToFilters_NotFound(t *testing.T) {
	svc := NewSavedSearchService(&stubSavedSearchRepo{})

	_, err := svc.ToFilters(7, 42)
	assert.ErrorIs(t, err, ErrSavedSearchNotFound)
}
