package apierror

// Error type URIs following the urn:bloom:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:bloom:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:bloom:error:not_found"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:bloom:error:rate_limit"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:bloom:error:internal"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:bloom:error:bad_request"

	// TypeAnalyticsUnavailable indicates the record store could not be
	// read, so no insight or recommendation list could be produced (503).
	// Distinct from an empty list, which means "no insights apply".
	TypeAnalyticsUnavailable = "urn:bloom:error:analytics_unavailable"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation           = "Validation Error"
	TitleNotFound             = "Resource Not Found"
	TitleRateLimit            = "Rate Limit Exceeded"
	TitleInternal             = "Internal Server Error"
	TitleBadRequest           = "Bad Request"
	TitleAnalyticsUnavailable = "Analytics Unavailable"
)
