// Package flux provides the descriptor and request/response shapes for the
// Black Forest Labs Flux family.
package flux

import (
	"context"
	"fmt"
	"time"

	"github.com/spetersoncode/pictor"
	"github.com/spetersoncode/pictor/client"
)

// Family defaults.
const (
	DefaultEndpoint = "https://api.bfl.ml"
	DefaultModel    = "flux-pro-1.1"
	DefaultTimeout  = 3 * time.Minute

	generatePath = "/v1/flux-pro-1.1"
	apiVersion   = "v1"
)

// Dimension constraints: width and height are pixels, multiples of 32.
const (
	MinDimension = 256
	MaxDimension = 1440
)

// OutputFormat is the encoding of the generated image.
type OutputFormat string

const (
	FormatJPEG OutputFormat = "jpeg"
	FormatPNG  OutputFormat = "png"
)

// Descriptor targets one Flux deployment.
type Descriptor struct {
	pictor.Profile
}

// New creates a validated descriptor with the family defaults applied.
func New(endpoint, credential string, opts ...pictor.ProfileOption) (*Descriptor, error) {
	base := []pictor.ProfileOption{
		pictor.WithModelName(DefaultModel),
		pictor.WithGeneratePath(generatePath),
		pictor.WithAPIVersion(apiVersion),
		pictor.WithTimeout(DefaultTimeout),
	}
	p, err := pictor.NewProfile(endpoint, credential, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Profile: p}, nil
}

// Request is the wire shape of one generation call.
type Request struct {
	Prompt string `json:"prompt"`

	// Width and Height are pixels; multiples of 32 in [256,1440].
	// Zero lets the backend pick its default.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Steps is the number of diffusion steps.
	Steps int `json:"steps,omitempty"`

	// Guidance improves prompt adherence at the cost of realism.
	Guidance float64 `json:"guidance,omitempty"`

	// PromptUpsampling rewrites the prompt for more creative generation.
	PromptUpsampling bool `json:"prompt_upsampling,omitempty"`

	// Seed makes generation reproducible when set.
	Seed int `json:"seed,omitempty"`

	// SafetyTolerance ranges 0 (strictest) to 6 (least strict).
	SafetyTolerance int `json:"safety_tolerance,omitempty"`

	OutputFormat OutputFormat `json:"output_format,omitempty"`
}

// Validate enforces the family's request rules.
func (r *Request) Validate() error {
	if r.Prompt == "" {
		return pictor.NewValidationError("prompt", "must not be empty")
	}
	if err := validateDimension("width", r.Width); err != nil {
		return err
	}
	if err := validateDimension("height", r.Height); err != nil {
		return err
	}
	if r.Steps < 0 {
		return pictor.NewValidationError("steps", "must not be negative")
	}
	if r.SafetyTolerance < 0 || r.SafetyTolerance > 6 {
		return pictor.NewValidationError("safety_tolerance", "must be between 0 and 6")
	}
	switch r.OutputFormat {
	case "", FormatJPEG, FormatPNG:
	default:
		return pictor.NewValidationError("output_format", fmt.Sprintf("unsupported value %q", r.OutputFormat))
	}
	return nil
}

func validateDimension(field string, v int) error {
	if v == 0 {
		return nil
	}
	if v < MinDimension || v > MaxDimension {
		return pictor.NewValidationError(field, fmt.Sprintf("must be between %d and %d", MinDimension, MaxDimension))
	}
	if v%32 != 0 {
		return pictor.NewValidationError(field, "must be a multiple of 32")
	}
	return nil
}

// Response is the wire shape of a successful generation.
type Response struct {
	ID     string  `json:"id"`
	Status string  `json:"status,omitempty"`
	Result *Result `json:"result,omitempty"`
}

// Result carries the generated sample and its metadata.
type Result struct {
	// Sample is a signed URL for the generated image.
	Sample string `json:"sample,omitempty"`

	// Prompt echoes the prompt actually used, after any upsampling.
	Prompt string `json:"prompt,omitempty"`

	Seed   int `json:"seed,omitempty"`
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Generate runs one generation call against d through c.
func Generate(ctx context.Context, c *client.Client, d *Descriptor, req *Request) (*Response, error) {
	return client.Generate[*Request, Response](ctx, c, d, req)
}

var _ pictor.Descriptor = (*Descriptor)(nil)
var _ pictor.Payload = (*Request)(nil)
