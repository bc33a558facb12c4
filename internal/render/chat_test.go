package render

import (
	"image/color"
	"sync/atomic"
	"testing"
	"time"
)

func TestWarnings(t *testing.T) {
	c := chatWith("\n* Ray waves.", "John Doe says: hi\n")
	got := Warnings(c)
	if len(got) != 2 {
		t.Fatalf("warnings = %q", got)
	}
	if got := Warnings(chatWith("ok", "")); len(got) != 0 {
		t.Fatalf("unexpected warnings %q", got)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"black":     {A: 255},
		"#fff":      {R: 255, G: 255, B: 255, A: 255},
		"#102030":   {R: 0x10, G: 0x20, B: 0x30, A: 255},
		"#10203080": {R: 0x10, G: 0x20, B: 0x30, A: 0x80},
	}
	for in, want := range cases {
		c, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got := color.NRGBAModel.Convert(c).(color.NRGBA); got != want {
			t.Fatalf("ParseColor(%q) = %+v, want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "nope", "#12", "#gggggg"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		d.Trigger(func() { runs.Add(1) })
	}
	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("runs = %d, want 1", got)
	}

	d.Trigger(func() { runs.Add(1) })
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("stopped call ran")
	}
}
