package overlay

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestReadFrameSplitsParts(t *testing.T) {
	body := []byte("ab\ncde\n\nf")
	f, err := ReadFrame("2,3,0,1", body)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	want := []string{"ab", "cde", "", "f"}
	for i, w := range want {
		if string(f[i]) != w {
			t.Fatalf("part %d = %q, want %q", i, f[i], w)
		}
	}
}

func TestReadFrameToleratesTrailingNewline(t *testing.T) {
	if _, err := ReadFrame("1,1,1,1", []byte("a\nb\nc\nd\n")); err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
}

func TestReadFrameRejectsMismatch(t *testing.T) {
	cases := map[string]struct {
		header string
		body   string
	}{
		"short body":      {"2,2,2,2", "aa\nbb\ncc\nd"},
		"long body":       {"1,1,1,1", "a\nb\nc\ndef"},
		"missing lengths": {"1,1,1", "a\nb\nc"},
		"bad number":      {"1,x,1,1", "a\nb\nc\nd"},
		"negative":        {"-1,1,1,1", "a\nb\nc\nd"},
		"empty header":    {"", ""},
		"bad separator":   {"1,1,1,1", "a\nbxc\nd"},
		"overflowing sum": {"9223372036854775807,9223372036854775807,4,5", "0123456789"},
		"huge last part":  {"0,0,0,9223372036854775807", "\n\n\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadFrame(tc.header, []byte(tc.body))
			if !errors.Is(err, ErrMalformedFrame) {
				t.Fatalf("err = %v, want ErrMalformedFrame", err)
			}
		})
	}
}

func TestEncodeFrameRoundTrip(t *testing.T) {
	in := Frame{[]byte(`{"width":1}`), pngBytes(t, 2, 2), nil, []byte("x")}
	header, body := EncodeFrame(in)
	out, err := ReadFrame(header, body)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	for i := range in {
		if !bytes.Equal(in[i], out[i]) {
			t.Fatalf("part %d differs", i)
		}
	}
}

func TestDecodeIsolatesFailedParts(t *testing.T) {
	f := Frame{
		[]byte(`{"width":20,"height":10,"masks":[{"left":1,"top":2,"width":3,"height":4}]}`),
		[]byte("not a png"),
		nil,
		pngBytes(t, 4, 3),
	}
	res := f.Decode()
	if res.Top == nil || res.Top.Meta == nil {
		t.Fatalf("top metadata missing: %+v", res.Top)
	}
	if res.Top.Bitmap != nil {
		t.Fatalf("top bitmap should be nil after decode failure")
	}
	if got := res.Top.Size(); got != image.Pt(20, 10) {
		t.Fatalf("top size = %v", got)
	}
	if got := res.Top.Meta.Masks[0].Rect(); got != image.Rect(1, 2, 4, 6) {
		t.Fatalf("mask rect = %v", got)
	}
	if res.Bottom == nil || res.Bottom.Meta != nil || res.Bottom.Bitmap == nil {
		t.Fatalf("bottom = %+v, want bitmap only", res.Bottom)
	}
	if got := res.Bottom.Size(); got != image.Pt(4, 3) {
		t.Fatalf("bottom size = %v", got)
	}
}

func TestDecodeEmptySectionIsNil(t *testing.T) {
	res := Frame{}.Decode()
	if res.Top != nil || res.Bottom != nil {
		t.Fatalf("empty frame decoded to %+v", res)
	}
	var o *Overlay
	if o.Size() != (image.Point{}) {
		t.Fatalf("nil overlay size should be zero")
	}
}
