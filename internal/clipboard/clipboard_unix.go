//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"image"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard needs DISPLAY or WAYLAND_DISPLAY")
)

// read initializes the system clipboard on first use and returns the data
// held in format.
func read(format clipboard.Format) ([]byte, error) {
	if err := ready(); err != nil {
		return nil, err
	}
	return clipboard.Read(format), nil
}

func ready() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// WriteImage publishes a rendered screenshot as PNG.
func WriteImage(img image.Image) error {
	if err := ready(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// ReadImage returns the screenshot on the clipboard.
func ReadImage() (image.Image, error) {
	data, err := read(clipboard.FmtImage)
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

// WriteText places extracted chat lines on the clipboard.
func WriteText(text string) error {
	if err := ready(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// ReadText returns chat lines copied out of the game, one per line.
func ReadText() (string, error) {
	data, err := read(clipboard.FmtText)
	if err != nil {
		return "", err
	}
	return chatText(data)
}
