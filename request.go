package pictor

// Payload is implemented by every backend request type. Validate enforces
// the family's own rules (enumerated sizes, quality levels, non-empty
// prompt) and returns a validation-kind error on the first violation.
//
// Validation is invoked by the facade before dispatch; the transport only
// checks that the request is non-nil.
type Payload interface {
	Validate() error
}
