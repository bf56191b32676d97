// Package stability provides the descriptor and request/response shapes for
// the Stability AI family.
package stability

import (
	"context"
	"fmt"
	"time"

	"github.com/spetersoncode/pictor"
	"github.com/spetersoncode/pictor/client"
)

// Family defaults.
const (
	DefaultEndpoint = "https://api.stability.ai"
	DefaultModel    = "sd3.5-large"
	DefaultTimeout  = 2 * time.Minute

	generatePath = "/v2beta/stable-image/generate/sd3"
	apiVersion   = "2024-06-01"
)

// AspectRatio is a supported output aspect ratio.
type AspectRatio string

const (
	Aspect1x1  AspectRatio = "1:1"
	Aspect16x9 AspectRatio = "16:9"
	Aspect9x16 AspectRatio = "9:16"
	Aspect3x2  AspectRatio = "3:2"
	Aspect2x3  AspectRatio = "2:3"
	Aspect4x5  AspectRatio = "4:5"
	Aspect5x4  AspectRatio = "5:4"
	Aspect21x9 AspectRatio = "21:9"
	Aspect9x21 AspectRatio = "9:21"
)

// OutputFormat is the encoding of the generated image.
type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatJPEG OutputFormat = "jpeg"
	FormatWebP OutputFormat = "webp"
)

// Descriptor targets one Stability deployment.
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
	Prompt         string       `json:"prompt"`
	NegativePrompt string       `json:"negative_prompt,omitempty"`
	Model          string       `json:"model,omitempty"`
	AspectRatio    AspectRatio  `json:"aspect_ratio,omitempty"`
	Seed           int64        `json:"seed,omitempty"`
	OutputFormat   OutputFormat `json:"output_format,omitempty"`
}

// Validate enforces the family's request rules.
func (r *Request) Validate() error {
	if r.Prompt == "" {
		return pictor.NewValidationError("prompt", "must not be empty")
	}
	switch r.AspectRatio {
	case "", Aspect1x1, Aspect16x9, Aspect9x16, Aspect3x2, Aspect2x3,
		Aspect4x5, Aspect5x4, Aspect21x9, Aspect9x21:
	default:
		return pictor.NewValidationError("aspect_ratio", fmt.Sprintf("unsupported value %q", r.AspectRatio))
	}
	if r.Seed < 0 {
		return pictor.NewValidationError("seed", "must not be negative")
	}
	switch r.OutputFormat {
	case "", FormatPNG, FormatJPEG, FormatWebP:
	default:
		return pictor.NewValidationError("output_format", fmt.Sprintf("unsupported value %q", r.OutputFormat))
	}
	return nil
}

// Response is the wire shape of a successful generation.
type Response struct {
	// Image is the base64-encoded generated image.
	Image string `json:"image"`

	// Seed is the seed actually used for generation.
	Seed int64 `json:"seed,omitempty"`

	// FinishReason is SUCCESS or CONTENT_FILTERED.
	FinishReason string `json:"finish_reason,omitempty"`
}

// Generate runs one generation call against d through c.
func Generate(ctx context.Context, c *client.Client, d *Descriptor, req *Request) (*Response, error) {
	return client.Generate[*Request, Response](ctx, c, d, req)
}

var _ pictor.Descriptor = (*Descriptor)(nil)
var _ pictor.Payload = (*Request)(nil)
