//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard is not supported on this platform")

func WriteImage(image.Image) error {
	return errUnsupported
}

func ReadImage() (image.Image, error) {
	return nil, errUnsupported
}

func WriteText(string) error {
	return errUnsupported
}

func ReadText() (string, error) {
	return "", errUnsupported
}
