// Package leonardo provides the descriptor and request/response shapes for
// the Leonardo.ai family.
package leonardo

import (
	"context"
	"time"

	"github.com/spetersoncode/pictor"
	"github.com/spetersoncode/pictor/client"
)

// Family defaults.
const (
	DefaultEndpoint = "https://cloud.leonardo.ai"
	DefaultModel    = "leonardo-phoenix"
	DefaultTimeout  = 3 * time.Minute

	generatePath = "/api/rest/v1/generations"
	apiVersion   = "v1"
)

// MaxImages is the most images one request may ask for.
const MaxImages = 8

// Descriptor targets one Leonardo deployment.
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

// Request is the wire shape of one generation call. Only a subset of the
// backend's many parameters is exposed; zero values are omitted from the
// body and fall back to backend defaults.
type Request struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	ModelID        string  `json:"model_id,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	NumImages      int     `json:"num_images,omitempty"`
	GuidanceScale  float64 `json:"guidance_scale,omitempty"`
	Seed           int     `json:"seed,omitempty"`

	// Alchemy enables the enhanced generation pipeline.
	Alchemy bool `json:"alchemy,omitempty"`
}

// Validate enforces the family's request rules.
func (r *Request) Validate() error {
	if r.Prompt == "" {
		return pictor.NewValidationError("prompt", "must not be empty")
	}
	if r.NumImages < 0 || r.NumImages > MaxImages {
		return pictor.NewValidationError("num_images", "must be between 1 and 8")
	}
	if r.Width < 0 || r.Height < 0 {
		return pictor.NewValidationError("dimensions", "must not be negative")
	}
	if r.GuidanceScale < 0 {
		return pictor.NewValidationError("guidance_scale", "must not be negative")
	}
	return nil
}

// Response is the wire shape of a successful generation.
type Response struct {
	GenerationID string           `json:"generation_id"`
	Status       string           `json:"status,omitempty"`
	Images       []GeneratedImage `json:"images,omitempty"`
}

// GeneratedImage is a single generated image reference.
type GeneratedImage struct {
	ID   string `json:"id,omitempty"`
	URL  string `json:"url,omitempty"`
	Seed int    `json:"seed,omitempty"`
}

// Generate runs one generation call against d through c.
func Generate(ctx context.Context, c *client.Client, d *Descriptor, req *Request) (*Response, error) {
	return client.Generate[*Request, Response](ctx, c, d, req)
}

var _ pictor.Descriptor = (*Descriptor)(nil)
var _ pictor.Payload = (*Request)(nil)
