package pictor

import (
	"net/url"
	"time"
)

// Built-in defaults applied by NewProfile before options run.
const (
	DefaultTimeout        = 2 * time.Minute
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 1 * time.Second
	DefaultAPIVersion     = "v1"
)

// Descriptor identifies one backend target and its call policy. Implementations
// are immutable once constructed and safe to share across concurrent dispatch
// calls. Each backend family provides its own descriptor type; the transport is
// written against this contract only.
type Descriptor interface {
	// ModelName is the backend model identifier sent with each request.
	ModelName() string

	// Endpoint is the absolute base URL of the backend.
	Endpoint() string

	// Credential is the opaque bearer token attached to each call.
	Credential() string

	// APIVersion is appended to every call as a query parameter.
	APIVersion() string

	// GeneratePath is the relative path of the generation endpoint.
	GeneratePath() string

	// Timeout bounds one whole dispatch call, retries included.
	Timeout() time.Duration

	// MaxRetries is the number of retry attempts after the initial one.
	MaxRetries() int

	// RetryBaseDelay is the base of the exponential backoff between attempts.
	RetryBaseDelay() time.Duration
}

// Profile is the validated value object behind every backend descriptor.
// Backend packages embed it and layer family defaults on top via options.
type Profile struct {
	endpoint       string
	credential     string
	model          string
	apiVersion     string
	generatePath   string
	timeout        time.Duration
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewProfile applies defaults, then the given options, then validates.
// Validation checks fields in a fixed order and fails with a config-kind
// error naming the first invalid field: endpoint presence, endpoint
// well-formedness, credential presence, model-name presence, timeout
// positivity, retry-count non-negativity, retry-delay non-negativity.
func NewProfile(endpoint, credential string, opts ...ProfileOption) (Profile, error) {
	p := Profile{
		endpoint:       endpoint,
		credential:     credential,
		apiVersion:     DefaultAPIVersion,
		timeout:        DefaultTimeout,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p Profile) validate() error {
	if p.endpoint == "" {
		return NewConfigError("endpoint", "must not be empty")
	}
	u, err := url.Parse(p.endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return NewConfigError("endpoint", "must be an absolute URL")
	}
	if p.credential == "" {
		return NewConfigError("credential", "must not be empty")
	}
	if p.model == "" {
		return NewConfigError("model", "must not be empty")
	}
	if p.timeout <= 0 {
		return NewConfigError("timeout", "must be positive")
	}
	if p.maxRetries < 0 {
		return NewConfigError("max retries", "must not be negative")
	}
	if p.retryBaseDelay < 0 {
		return NewConfigError("retry base delay", "must not be negative")
	}
	return nil
}

// ModelName implements Descriptor.
func (p Profile) ModelName() string { return p.model }

// Endpoint implements Descriptor.
func (p Profile) Endpoint() string { return p.endpoint }

// Credential implements Descriptor.
func (p Profile) Credential() string { return p.credential }

// APIVersion implements Descriptor.
func (p Profile) APIVersion() string { return p.apiVersion }

// GeneratePath implements Descriptor.
func (p Profile) GeneratePath() string { return p.generatePath }

// Timeout implements Descriptor.
func (p Profile) Timeout() time.Duration { return p.timeout }

// MaxRetries implements Descriptor.
func (p Profile) MaxRetries() int { return p.maxRetries }

// RetryBaseDelay implements Descriptor.
func (p Profile) RetryBaseDelay() time.Duration { return p.retryBaseDelay }

var _ Descriptor = Profile{}
