// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthInvalidRefresh     = "auth.invalid_refresh"

	// Vendors
	KeyVendorCreated  = "vendor.created"
	KeyVendorUpdated  = "vendor.updated"
	KeyVendorDeleted  = "vendor.deleted"
	KeyVendorNotFound = "vendor.not_found"
	KeyVendorCodeUsed = "vendor.code_taken"
	KeyReportExported = "vendor.report_exported"

	// Purchase orders
	KeyPOCreated          = "purchase_order.created"
	KeyPOUpdated          = "purchase_order.updated"
	KeyPODeleted          = "purchase_order.deleted"
	KeyPONotFound         = "purchase_order.not_found"
	KeyPOStatusUpdated    = "purchase_order.status_updated"
	KeyPORatingUpdated    = "purchase_order.rating_updated"
	KeyPOAckUpdated       = "purchase_order.acknowledgment_updated"
	KeyPORatingNotAllowed = "purchase_order.rating_not_allowed"
	KeyPONotIssued        = "purchase_order.not_issued"
	KeyPONumberConflict   = "purchase_order.number_conflict"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyValidationBody    = "validation.body"
)
