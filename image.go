package pictor

import (
	"encoding/base64"
	"fmt"
)

// DecodeImage converts a base64 image payload from a backend response into
// raw bytes, ready for a byte sink. Both standard and raw (unpadded)
// encodings are accepted.
func DecodeImage(b64 string) ([]byte, error) {
	if b64 == "" {
		return nil, fmt.Errorf("decode image: empty payload")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err == nil {
		return data, nil
	}
	data, rawErr := base64.RawStdEncoding.DecodeString(b64)
	if rawErr == nil {
		return data, nil
	}
	return nil, fmt.Errorf("decode image: %w", err)
}
