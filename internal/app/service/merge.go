package service

import (
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
)

// MergeRegistryData bestemmer, felt for felt, hva som skal skrives inn i en
// eksisterende bedrift fra et registeroppslag. Ren funksjon uten I/O.
//
//   - Navn overskrives alltid når registeret har et navn; registeret er
//     autoritativt for juridisk navn.
//   - Registeravledede felter fylles bare når de er tomme fra før, slik at
//     brukerens egne verdier aldri overskrives.
//   - Ingen felter nullstilles noensinne.
//   - Avstemmingstidspunktet oppdateres alltid, også uten andre endringer.
//
// Returverdien er kolonne→verdi og kan gis rett til UpdateFields.
func MergeRegistryData(existing *model.Business, unit *brreg.Unit, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"brreg_updated_at": now,
	}
	if unit == nil {
		return updates
	}

	if unit.OrgNumber != "" {
		updates["brreg_org_number"] = unit.OrgNumber
	}
	if unit.Name != "" {
		updates["name"] = unit.Name
	}

	fillString(updates, "legal_form", existing.LegalForm, unit.LegalForm)
	fillString(updates, "address", existing.Address, unit.Address)
	fillString(updates, "postal_code", existing.PostalCode, unit.PostalCode)
	fillString(updates, "city", existing.City, unit.City)
	fillString(updates, "country", existing.Country, unit.Country)
	fillString(updates, "website", existing.Website, unit.Website)
	fillString(updates, "industry_code", existing.IndustryCode, unit.IndustryCode)
	fillString(updates, "industry_desc", existing.IndustryDesc, unit.IndustryDesc)

	if existing.EmployeeCount == nil && unit.Employees != nil {
		updates["employee_count"] = *unit.Employees
	}
	if existing.VATRegistered == nil && unit.VATRegistered != nil {
		updates["vat_registered"] = *unit.VATRegistered
	}
	if existing.EstablishedDate == nil && unit.EstablishedDate != nil {
		updates["established_date"] = *unit.EstablishedDate
	}
	if existing.IsBankrupt == nil && unit.Bankrupt != nil {
		updates["is_bankrupt"] = *unit.Bankrupt
	}
	if existing.IsWindingUp == nil && unit.WindingUp != nil {
		updates["is_winding_up"] = *unit.WindingUp
	}

	return updates
}

// ApplyRegistryData fyller en ny bedrift direkte fra et registeroppslag,
// med samme fyll-regler som MergeRegistryData
func ApplyRegistryData(business *model.Business, unit *brreg.Unit, now time.Time) {
	if unit == nil {
		return
	}
	business.BrregUpdatedAt = &now
	if unit.OrgNumber != "" {
		orgnr := unit.OrgNumber
		business.BrregOrgNumber = &orgnr
		if business.OrgNumber == nil {
			business.OrgNumber = &orgnr
		}
	}
	if unit.Name != "" {
		business.Name = unit.Name
	}
	setIfEmpty(&business.LegalForm, unit.LegalForm)
	setIfEmpty(&business.Address, unit.Address)
	setIfEmpty(&business.PostalCode, unit.PostalCode)
	setIfEmpty(&business.City, unit.City)
	setIfEmpty(&business.Country, unit.Country)
	setIfEmpty(&business.Website, unit.Website)
	setIfEmpty(&business.IndustryCode, unit.IndustryCode)
	setIfEmpty(&business.IndustryDesc, unit.IndustryDesc)
	if business.EmployeeCount == nil && unit.Employees != nil {
		v := *unit.Employees
		business.EmployeeCount = &v
	}
	if business.VATRegistered == nil && unit.VATRegistered != nil {
		v := *unit.VATRegistered
		business.VATRegistered = &v
	}
	if business.EstablishedDate == nil && unit.EstablishedDate != nil {
		v := *unit.EstablishedDate
		business.EstablishedDate = &v
	}
	if business.IsBankrupt == nil && unit.Bankrupt != nil {
		v := *unit.Bankrupt
		business.IsBankrupt = &v
	}
	if business.IsWindingUp == nil && unit.WindingUp != nil {
		v := *unit.WindingUp
		business.IsWindingUp = &v
	}
}

func fillString(updates map[string]interface{}, column string, existing *string, fetched string) {
	if fetched == "" {
		return
	}
	if existing != nil && *existing != "" {
		return
	}
	updates[column] = fetched
}

func setIfEmpty(field **string, value string) {
	if value == "" {
		return
	}
	if *field != nil && **field != "" {
		return
	}
	v := value
	*field = &v
}
