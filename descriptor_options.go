package pictor

import "time"

// ProfileOption is a functional option for configuring a Profile before
// validation. Backend packages prepend their family defaults; caller
// options run last and win.
type ProfileOption func(*Profile)

// WithModelName sets the backend model identifier.
func WithModelName(model string) ProfileOption {
	return func(p *Profile) {
		p.model = model
	}
}

// WithAPIVersion sets the API version appended as a query parameter.
func WithAPIVersion(version string) ProfileOption {
	return func(p *Profile) {
		p.apiVersion = version
	}
}

// WithGeneratePath sets the relative path of the generation endpoint.
func WithGeneratePath(path string) ProfileOption {
	return func(p *Profile) {
		p.generatePath = path
	}
}

// WithTimeout sets the deadline for one whole dispatch call.
func WithTimeout(timeout time.Duration) ProfileOption {
	return func(p *Profile) {
		p.timeout = timeout
	}
}

// WithMaxRetries sets the number of retry attempts after the initial one.
// Zero disables retries.
func WithMaxRetries(n int) ProfileOption {
	return func(p *Profile) {
		p.maxRetries = n
	}
}

// WithRetryBaseDelay sets the base of the exponential backoff between
// attempts. The delay before retry i is base * 2^i.
func WithRetryBaseDelay(d time.Duration) ProfileOption {
	return func(p *Profile) {
		p.retryBaseDelay = d
	}
}
