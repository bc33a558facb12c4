package overlay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/example/chatshot/internal/logger"
)

// LengthHeader carries the comma separated byte lengths of the response parts.
const LengthHeader = "X-Content-Length"

// Part indexes within a frame.
const (
	TopMeta = iota
	TopBitmap
	BottomMeta
	BottomBitmap
	partCount
)

// ErrMalformedFrame reports a response whose length header does not
// describe its body.
var ErrMalformedFrame = errors.New("malformed overlay frame")

// Frame is the four raw parts of a rasterizer response.
type Frame [partCount][]byte

// ParseLengths parses the LengthHeader value.
func ParseLengths(header string) ([partCount]int, error) {
	var lengths [partCount]int
	fields := strings.Split(strings.TrimSpace(header), ",")
	if len(fields) != partCount {
		return lengths, fmt.Errorf("%w: want %d lengths, got %q", ErrMalformedFrame, partCount, header)
	}
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return lengths, fmt.Errorf("%w: bad length %q", ErrMalformedFrame, f)
		}
		lengths[i] = n
	}
	return lengths, nil
}

// ReadFrame splits body into its parts. Parts are joined by single '\n'
// separators; one trailing newline after the last part is tolerated.
func ReadFrame(header string, body []byte) (Frame, error) {
	var f Frame
	lengths, err := ParseLengths(header)
	if err != nil {
		return f, err
	}
	want := partCount - 1
	for i, n := range lengths {
		if n > len(body)-want {
			return f, fmt.Errorf("%w: part %d declares %d bytes, body has %d", ErrMalformedFrame, i, n, len(body))
		}
		want += n
	}
	if len(body) == want+1 && body[len(body)-1] == '\n' {
		body = body[:want]
	}
	if len(body) != want {
		return f, fmt.Errorf("%w: header describes %d bytes, body has %d", ErrMalformedFrame, want, len(body))
	}
	pos := 0
	for i, n := range lengths {
		f[i] = body[pos : pos+n]
		pos += n
		if i < partCount-1 {
			if body[pos] != '\n' {
				return f, fmt.Errorf("%w: missing separator after part %d", ErrMalformedFrame, i)
			}
			pos++
		}
	}
	return f, nil
}

// EncodeFrame joins parts and returns the matching LengthHeader value.
func EncodeFrame(f Frame) (string, []byte) {
	lengths := make([]string, partCount)
	var buf bytes.Buffer
	for i, p := range f {
		lengths[i] = strconv.Itoa(len(p))
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(p)
	}
	return strings.Join(lengths, ","), buf.Bytes()
}

// Decode turns a frame into overlays. A part that is empty or fails to decode
// leaves its slot nil without affecting the others.
func (f Frame) Decode() Result {
	return Result{
		Top:    decodeOverlay("top", f[TopMeta], f[TopBitmap]),
		Bottom: decodeOverlay("bottom", f[BottomMeta], f[BottomBitmap]),
	}
}

func decodeOverlay(section string, meta, bitmap []byte) *Overlay {
	var o Overlay
	if len(meta) > 0 {
		var m Metadata
		if err := json.Unmarshal(meta, &m); err != nil {
			logger.Warnf("overlay: decode %s metadata: %v", section, err)
		} else {
			o.Meta = &m
		}
	}
	if len(bitmap) > 0 {
		img, err := png.Decode(bytes.NewReader(bitmap))
		if err != nil {
			logger.Warnf("overlay: decode %s bitmap: %v", section, err)
		} else {
			o.Bitmap = img
		}
	}
	if o.Meta == nil && o.Bitmap == nil {
		return nil
	}
	return &o
}

// EncodeOverlay renders meta and img into the two parts of one section.
// A nil img yields empty parts.
func EncodeOverlay(meta Metadata, img image.Image) (metaPart, bitmapPart []byte, err error) {
	if img == nil {
		return nil, nil, nil
	}
	metaPart, err = json.Marshal(meta)
	if err != nil {
		return nil, nil, fmt.Errorf("encode metadata: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, nil, fmt.Errorf("encode bitmap: %w", err)
	}
	return metaPart, buf.Bytes(), nil
}
