// Package clipboard moves exported screenshots and chat text through the
// system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

var (
	// ErrNoImage reports a clipboard without image data.
	ErrNoImage = errors.New("clipboard does not contain image data")
	// ErrNoText reports a clipboard without text data.
	ErrNoText = errors.New("clipboard does not contain text data")
)

// chatText turns copied chat into newline separated lines. Windows line
// endings are folded and one trailing newline is dropped; a clipboard holding
// only whitespace counts as empty.
func chatText(data []byte) (string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return strings.TrimSuffix(text, "\n"), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoImage
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeImage accepts any format registered with the image package.
func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}
