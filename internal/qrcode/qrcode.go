// Package qrcode renders scannable deep links for parking spots. Each spot
// carries a stable code; scanning resolves it back to the spot through the
// lookup endpoint.
package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const imageSize = 256

// Generator renders spot deep links as PNG images.
type Generator struct {
	baseURL string
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: baseURL}
}

// DeepLink returns the URL encoded into a spot's QR image.
func (g *Generator) DeepLink(code string) string {
	return fmt.Sprintf("%s/spot?code=%s", g.baseURL, code)
}

// PNG renders the deep link for the given spot code as a PNG.
func (g *Generator) PNG(code string) ([]byte, error) {
	png, err := qrcode.Encode(g.DeepLink(code), qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("encoding qr image for %s: %w", code, err)
	}
	return png, nil
}
