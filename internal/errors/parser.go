package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo holder kode og brukervennlig melding for en feil
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError oversetter interne feil til feilkode og norsk melding.
// Tekniske detaljer logges server-side og vises aldri til brukeren.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Det oppstod en serverfeil",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Raden er knyttet til andre data og kan ikke endres",
		}
	}

	// 2-3. Not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Et påkrevd felt mangler",
		}
	}

	// 3. Nettverk mot eksterne tjenester
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Fikk ikke kontakt med ekstern tjeneste. Prøv igjen senere",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Orgnr-duplikat innenfor arbeidsområdet
	if strings.Contains(errLower, "org_number") || strings.Contains(errLower, "idx_businesses_workspace_orgnr") {
		return ErrorInfo{
			Code:    BusinessDuplicateOrgnr,
			Message: "Organisasjonsnummeret er allerede registrert i arbeidsområdet",
		}
	}

	// Registerkopi-duplikat
	if strings.Contains(errLower, "brreg_businesses") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Enheten finnes allerede i registerkopien",
		}
	}

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "E-postadressen er allerede i bruk",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Raden finnes allerede. Prøv igjen",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Raden finnes allerede",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "business") || strings.Contains(contextLower, "bedrift") {
		return "Fant ikke bedriften"
	}
	if strings.Contains(contextLower, "task") || strings.Contains(contextLower, "oppgave") {
		return "Fant ikke oppgaven"
	}
	if strings.Contains(contextLower, "offer") || strings.Contains(contextLower, "tilbud") {
		return "Fant ikke tilbudet"
	}
	if strings.Contains(contextLower, "snapshot") || strings.Contains(contextLower, "register") {
		return "Fant ikke enheten i registerkopien"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "bruker") {
		return "Fant ikke brukeren"
	}

	return "Fant ikke forespurte data"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "opprett") {
		return "Det oppstod en feil under opprettelse. Prøv igjen senere"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "oppdater") {
		return "Det oppstod en feil under oppdatering. Prøv igjen senere"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "slett") {
		return "Det oppstod en feil under sletting. Prøv igjen senere"
	}
	if strings.Contains(contextLower, "import") {
		return "Det oppstod en feil under import. Prøv igjen senere"
	}
	if strings.Contains(contextLower, "sync") || strings.Contains(contextLower, "synk") {
		return "Det oppstod en feil under synkronisering mot Enhetsregisteret"
	}

	return "Det oppstod en serverfeil. Prøv igjen senere"
}
