// Package dalle provides the descriptor and request/response shapes for the
// OpenAI Images API family (DALL-E and GPT Image models).
package dalle

import (
	"context"
	"fmt"
	"time"

	"github.com/spetersoncode/pictor"
	"github.com/spetersoncode/pictor/client"
)

// Family defaults.
const (
	DefaultEndpoint = "https://api.openai.com"
	DefaultModel    = "dall-e-3"
	DefaultTimeout  = 2 * time.Minute

	generatePath = "/v1/images/generations"
	apiVersion   = "2024-02-01"
)

// Size is an image dimension supported by the family.
type Size string

const (
	Size1024x1024 Size = "1024x1024"
	Size1792x1024 Size = "1792x1024" // Landscape
	Size1024x1792 Size = "1024x1792" // Portrait
)

// Quality is a generation quality level.
// Note: Only supported by DALL-E 3.
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHD       Quality = "hd"
)

// Style is a visual style for generated images.
// Note: Only supported by DALL-E 3.
type Style string

const (
	StyleVivid   Style = "vivid"
	StyleNatural Style = "natural"
)

// ResponseFormat specifies how image payloads are returned.
type ResponseFormat string

const (
	FormatURL     ResponseFormat = "url"
	FormatB64JSON ResponseFormat = "b64_json"
)

// Descriptor targets one DALL-E deployment. Build one with New and share it
// freely across concurrent generate calls.
type Descriptor struct {
	pictor.Profile
}

// New creates a validated descriptor with the family defaults applied.
// Caller options run after the defaults and win.
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
	Model          string         `json:"model,omitempty"`
	Prompt         string         `json:"prompt"`
	N              int            `json:"n,omitempty"`
	Size           Size           `json:"size,omitempty"`
	Quality        Quality        `json:"quality,omitempty"`
	Style          Style          `json:"style,omitempty"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
	User           string         `json:"user,omitempty"`
}

// Validate enforces the family's request rules. Zero values pass: the
// backend applies its own defaults for omitted fields.
func (r *Request) Validate() error {
	if r.Prompt == "" {
		return pictor.NewValidationError("prompt", "must not be empty")
	}
	if r.N < 0 || r.N > 10 {
		return pictor.NewValidationError("n", "must be between 1 and 10")
	}
	switch r.Size {
	case "", Size1024x1024, Size1792x1024, Size1024x1792:
	default:
		return pictor.NewValidationError("size", fmt.Sprintf("unsupported value %q", r.Size))
	}
	switch r.Quality {
	case "", QualityStandard, QualityHD:
	default:
		return pictor.NewValidationError("quality", fmt.Sprintf("unsupported value %q", r.Quality))
	}
	switch r.Style {
	case "", StyleVivid, StyleNatural:
	default:
		return pictor.NewValidationError("style", fmt.Sprintf("unsupported value %q", r.Style))
	}
	switch r.ResponseFormat {
	case "", FormatURL, FormatB64JSON:
	default:
		return pictor.NewValidationError("response_format", fmt.Sprintf("unsupported value %q", r.ResponseFormat))
	}
	return nil
}

// Response is the wire shape of a successful generation.
type Response struct {
	Created int64   `json:"created"`
	Model   string  `json:"model,omitempty"`
	Data    []Image `json:"data"`
}

// Image is a single generated image payload.
type Image struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// Generate runs one generation call against d through c.
func Generate(ctx context.Context, c *client.Client, d *Descriptor, req *Request) (*Response, error) {
	return client.Generate[*Request, Response](ctx, c, d, req)
}

var _ pictor.Descriptor = (*Descriptor)(nil)
var _ pictor.Payload = (*Request)(nil)
