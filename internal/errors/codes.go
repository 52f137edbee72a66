package errors

// Feilkodekonstanter
// Format: KATEGORI_DETALJ
// Frontend mapper disse kodene til visningstekster

const (
	// ==================== Autentisering (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // Innlogging kreves
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // Feil e-post/passord
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // Token utløpt
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // Ugyldig token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // Token trukket tilbake
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // E-post allerede i bruk

	// ==================== API-nøkkel (APIKEY_) ====================
	APIKeyMissing  = "APIKEY_MISSING"  // X-API-Key mangler
	APIKeyInvalid  = "APIKEY_INVALID"  // Ukjent eller deaktivert nøkkel
	APIKeyRevoked  = "APIKEY_REVOKED"  // Nøkkel trukket tilbake

	// ==================== Tilgang (AUTHZ_) ====================
	AuthzForbidden     = "AUTHZ_FORBIDDEN"      // Ingen tilgang
	AuthzWorkspaceOnly = "AUTHZ_WORKSPACE_ONLY" // Tilhører annet arbeidsområde
	AuthzAdminOnly     = "AUTHZ_ADMIN_ONLY"     // Kun administrator

	// ==================== Validering (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // Ugyldig inndata
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // Ugyldig ID
	ValidationInvalidOrgnr  = "VALIDATION_INVALID_ORGNR"  // Ugyldig organisasjonsnummer
	ValidationQueryTooShort = "VALIDATION_QUERY_TOO_SHORT" // For kort søkestreng
	ValidationRequired      = "VALIDATION_REQUIRED"       // Påkrevd felt mangler

	// ==================== Ressurs (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // Finnes ikke
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // Finnes fra før
	ResourceConflict      = "RESOURCE_CONFLICT"       // Konflikt

	// ==================== Bedrift (BUSINESS_) ====================
	BusinessNotFound       = "BUSINESS_NOT_FOUND"        // Bedrift finnes ikke
	BusinessDuplicateOrgnr = "BUSINESS_DUPLICATE_ORGNR"  // Orgnr allerede registrert i arbeidsområdet
	BusinessInvalidStage   = "BUSINESS_INVALID_STAGE"    // Ukjent pipeline-steg

	// ==================== Register (BRREG_) ====================
	BrregNotFound    = "BRREG_NOT_FOUND"    // Ingen treff i Enhetsregisteret
	BrregUnavailable = "BRREG_UNAVAILABLE"  // Registeret svarer ikke
	SnapshotNotFound = "BRREG_SNAPSHOT_NOT_FOUND" // Ingen lagret registerkopi

	// ==================== Oppgaver (TASK_) ====================
	TaskNotFound = "TASK_NOT_FOUND" // Oppgave finnes ikke

	// ==================== Tilbud (OFFER_) ====================
	OfferNotFound      = "OFFER_NOT_FOUND"       // Tilbud finnes ikke
	OfferInvalidStatus = "OFFER_INVALID_STATUS"  // Ukjent tilbudsstatus

	// ==================== Lagrede søk (SEARCH_) ====================
	SavedSearchNotFound = "SEARCH_NOT_FOUND" // Lagret søk finnes ikke

	// ==================== Opplasting (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // Ugyldig filtype
	UploadFailed          = "UPLOAD_FAILED"            // Opplasting feilet

	// ==================== Interne feil (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // Serverfeil
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // Databasefeil
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // Feil mot eksternt API
)
