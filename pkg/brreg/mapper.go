package brreg

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// mapEnhet maps the wire format to the normalized Unit. Absent upstream
// fields stay nil/empty - never a default guess.
func mapEnhet(e *enhetResponse) *Unit {
	unit := &Unit{
		OrgNumber: e.Organisasjonsnummer,
		Name:      e.Navn,
		Website:   e.Hjemmeside,
	}

	if e.Organisasjonsform != nil {
		unit.LegalForm = e.Organisasjonsform.Kode
		unit.LegalFormDesc = e.Organisasjonsform.Beskrivelse
	}
	if e.Naeringskode1 != nil {
		unit.IndustryCode = e.Naeringskode1.Kode
		unit.IndustryDesc = e.Naeringskode1.Beskrivelse
	}
	if e.Naeringskode2 != nil {
		unit.IndustryCode2 = e.Naeringskode2.Kode
		unit.IndustryDesc2 = e.Naeringskode2.Beskrivelse
	}
	if e.Naeringskode3 != nil {
		unit.IndustryCode3 = e.Naeringskode3.Kode
		unit.IndustryDesc3 = e.Naeringskode3.Beskrivelse
	}

	if e.Forretningsadresse != nil {
		unit.Address = joinAddress(e.Forretningsadresse.Adresse)
		unit.PostalCode = e.Forretningsadresse.Postnummer
		unit.City = e.Forretningsadresse.Poststed
		unit.Municipality = e.Forretningsadresse.Kommune
		unit.Country = e.Forretningsadresse.Land
	} else if e.Postadresse != nil {
		unit.Address = joinAddress(e.Postadresse.Adresse)
		unit.PostalCode = e.Postadresse.Postnummer
		unit.City = e.Postadresse.Poststed
		unit.Country = e.Postadresse.Land
	}

	// Antall ansatte regnes bare som kjent når registeret sier det er registrert
	if e.AntallAnsatte != nil {
		if e.HarRegistrertAntallAnsatte == nil || *e.HarRegistrertAntallAnsatte {
			unit.Employees = e.AntallAnsatte
		}
	}

	unit.VATRegistered = e.RegistrertIMvaregisteret
	unit.Bankrupt = e.Konkurs
	unit.WindingUp = e.UnderAvvikling
	unit.EstablishedDate = parseDate(e.Stiftelsesdato)
	unit.RegisteredDate = parseDate(e.RegistreringsdatoEnhetsregisteret)

	return unit
}

func mapSearchResult(e *enhetResponse) SearchResult {
	result := SearchResult{
		OrgNumber: e.Organisasjonsnummer,
		Name:      e.Navn,
	}

	if e.Organisasjonsform != nil {
		result.LegalForm = e.Organisasjonsform.Kode
	}
	if e.Naeringskode1 != nil {
		result.IndustryDesc = e.Naeringskode1.Beskrivelse
	}
	if e.Forretningsadresse != nil {
		result.Address = joinAddress(e.Forretningsadresse.Adresse)
		result.PostalCode = e.Forretningsadresse.Postnummer
		result.City = e.Forretningsadresse.Poststed
	}
	if e.AntallAnsatte != nil {
		result.Employees = *e.AntallAnsatte
	}
	if e.Konkurs != nil {
		result.IsBankrupt = *e.Konkurs
	}
	if e.UnderAvvikling != nil {
		result.IsWindingUp = *e.UnderAvvikling
	}

	return result
}

func joinAddress(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
