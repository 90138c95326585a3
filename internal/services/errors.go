package services

import "fmt"

// Service errors
var (
	ErrNoTablesSpecified = &ServiceError{Message: "no tables specified"}
	ErrInvalidRating     = &ServiceError{Message: "rating must be between 1 and 5"}
	ErrMissingSession    = &ServiceError{Message: "session token is required"}
	ErrInvalidSeedCount  = &ServiceError{Message: "count must be between 1 and 50"}
	ErrInvalidColor      = &ServiceError{Message: "invalid hex color"}
	ErrInvalidPlatePath  = &ServiceError{Message: "plate path must be a relative path of letters, digits, '-', '_' and '/'"}
	ErrInvalidPlateData  = &ServiceError{Message: "plate data must be a JSON object"}
	ErrInvalidBaseURL    = &ServiceError{Message: "base_url must be an absolute http or https URL"}
	ErrBaseURLNotSet     = &ServiceError{Message: "base_url not configured"}
	ErrInvalidQRSize     = &ServiceError{Message: "size must be between 64 and 1024"}
)

// ReviewExistsMessage is returned with a conflict when a session reviews an
// item twice
const ReviewExistsMessage = "Review already exists for this item and session"

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}
