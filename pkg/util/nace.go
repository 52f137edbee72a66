package util

import (
	"strconv"
	"strings"
)

// naceSection beskriver en av de 21 overordnede næringsseksjonene (A-U).
// De to første sifrene i NACE-koden avgjør seksjonen.
type naceSection struct {
	from    int
	to      int
	code    string
	name    string
}

var naceSections = []naceSection{
	{1, 3, "A", "Jordbruk, skogbruk og fiske"},
	{5, 9, "B", "Bergverksdrift og utvinning"},
	{10, 33, "C", "Industri"},
	{35, 35, "D", "Elektrisitets-, gass-, damp- og varmtvannsforsyning"},
	{36, 39, "E", "Vannforsyning, avløps- og renovasjonsvirksomhet"},
	{41, 43, "F", "Bygge- og anleggsvirksomhet"},
	{45, 47, "G", "Varehandel, reparasjon av motorvogner"},
	{49, 53, "H", "Transport og lagring"},
	{55, 56, "I", "Overnattings- og serveringsvirksomhet"},
	{58, 63, "J", "Informasjon og kommunikasjon"},
	{64, 66, "K", "Finansierings- og forsikringsvirksomhet"},
	{68, 68, "L", "Omsetning og drift av fast eiendom"},
	{69, 75, "M", "Faglig, vitenskapelig og teknisk tjenesteyting"},
	{77, 82, "N", "Forretningsmessig tjenesteyting"},
	{84, 84, "O", "Offentlig administrasjon og forsvar"},
	{85, 85, "P", "Undervisning"},
	{86, 88, "Q", "Helse- og sosialtjenester"},
	{90, 93, "R", "Kulturell virksomhet, underholdning og fritidsaktiviteter"},
	{94, 96, "S", "Annen tjenesteyting"},
	{97, 98, "T", "Lønnet arbeid i private husholdninger"},
	{99, 99, "U", "Internasjonale organisasjoner og organer"},
}

// NaceSection maps a NACE code (e.g. "62.010") to its section letter (A-U).
// Returns empty string for unknown or malformed codes.
func NaceSection(naceCode string) string {
	code, _ := NaceSectionWithName(naceCode)
	return code
}

// NaceSectionWithName maps a NACE code to its section letter and Norwegian
// section name. Returns empty strings for unknown or malformed codes.
func NaceSectionWithName(naceCode string) (string, string) {
	trimmed := strings.TrimSpace(naceCode)
	if len(trimmed) < 2 {
		return "", ""
	}

	prefix, err := strconv.Atoi(trimmed[:2])
	if err != nil {
		return "", ""
	}

	for _, section := range naceSections {
		if prefix >= section.from && prefix <= section.to {
			return section.code, section.name
		}
	}
	return "", ""
}
