package brreg

import "time"

// enhetResponse mirrors the Enhetsregisteret single-entity wire format (v2)
type enhetResponse struct {
	Organisasjonsnummer string         `json:"organisasjonsnummer"`
	Navn                string         `json:"navn"`
	Organisasjonsform   *kodeBeskrivelse `json:"organisasjonsform"`
	Hjemmeside          string         `json:"hjemmeside"`
	Naeringskode1       *kodeBeskrivelse `json:"naeringskode1"`
	Naeringskode2       *kodeBeskrivelse `json:"naeringskode2"`
	Naeringskode3       *kodeBeskrivelse `json:"naeringskode3"`
	AntallAnsatte       *int           `json:"antallAnsatte"`
	HarRegistrertAntallAnsatte *bool   `json:"harRegistrertAntallAnsatte"`
	RegistrertIMvaregisteret   *bool   `json:"registrertIMvaregisteret"`
	Forretningsadresse  *adresse       `json:"forretningsadresse"`
	Postadresse         *adresse       `json:"postadresse"`
	Stiftelsesdato      string         `json:"stiftelsesdato"`
	RegistreringsdatoEnhetsregisteret string `json:"registreringsdatoEnhetsregisteret"`
	Konkurs             *bool          `json:"konkurs"`
	UnderAvvikling      *bool          `json:"underAvvikling"`
}

type kodeBeskrivelse struct {
	Kode        string `json:"kode"`
	Beskrivelse string `json:"beskrivelse"`
}

type adresse struct {
	Adresse    []string `json:"adresse"`
	Postnummer string   `json:"postnummer"`
	Poststed   string   `json:"poststed"`
	Kommune    string   `json:"kommune"`
	Land       string   `json:"land"`
}

// searchResponse mirrors the Enhetsregisteret collection wire format
type searchResponse struct {
	Embedded struct {
		Enheter []enhetResponse `json:"enheter"`
	} `json:"_embedded"`
	Page struct {
		Size          int   `json:"size"`
		TotalElements int64 `json:"totalElements"`
		TotalPages    int   `json:"totalPages"`
		Number        int   `json:"number"` // 0-basert
	} `json:"page"`
}

// Unit is the normalized single-entity result of a registry fetch.
// Fields absent in the upstream payload stay zero/nil, never guessed.
type Unit struct {
	OrgNumber       string
	Name            string
	LegalForm       string
	LegalFormDesc   string
	Website         string
	Address         string
	PostalCode      string
	City            string
	Country         string
	Municipality    string
	IndustryCode    string
	IndustryDesc    string
	IndustryCode2   string
	IndustryDesc2   string
	IndustryCode3   string
	IndustryDesc3   string
	Employees       *int
	VATRegistered   *bool
	EstablishedDate *time.Time
	RegisteredDate  *time.Time
	Bankrupt        *bool
	WindingUp       *bool
}

// SearchResult is one row of a name or filtered search
type SearchResult struct {
	OrgNumber    string `json:"org_number"`
	Name         string `json:"name"`
	LegalForm    string `json:"legal_form"`
	Address      string `json:"address"`
	PostalCode   string `json:"postal_code"`
	City         string `json:"city"`
	IndustryDesc string `json:"industry_desc"`
	Employees    int    `json:"employees"`
	IsBankrupt   bool   `json:"is_bankrupt"`
	IsWindingUp  bool   `json:"is_winding_up"`
}

// SearchFilters narrows a paginated registry search
type SearchFilters struct {
	Query         string
	Municipality  string
	City          string
	LegalForm     string
	IndustryCode  string // NACE-kode eller prefiks
	VATRegistered *bool
	HasEmployees  *bool
}

// SearchPage is one page of a paginated search, 1-based at this boundary
type SearchPage struct {
	Items       []SearchResult `json:"items"`
	Total       int64          `json:"total"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

// EmptyPage is what soft-failing searches return when the registry is unreachable
func EmptyPage(page int) *SearchPage {
	return &SearchPage{
		Items:       []SearchResult{},
		Total:       0,
		TotalPages:  1,
		CurrentPage: page,
	}
}
