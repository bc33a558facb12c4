package prefs

import (
	"encoding/json"
	"reflect"
	"testing"
)

func blob(t *testing.T, s string) Blob {
	t.Helper()
	var b Blob
	if err := json.Unmarshal([]byte(s), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return b
}

func TestMigrateUnversionedDocument(t *testing.T) {
	in := blob(t, `{"chatData":{"top":"* hi","bottom":"","offset":{"left":30,"top":10},"fontSize":20}}`)
	out, err := Migrate(in)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if Version(out) != CurrentVersion {
		t.Fatalf("version = %d", Version(out))
	}
	chat := out["chatData"].(map[string]any)
	if off := chat["offset"].(map[string]any); off["left"] != float64(10) || off["top"] != float64(10) {
		t.Fatalf("offset = %v, want reset to 10,10", off)
	}
	top := chat["top"].(map[string]any)
	want := map[string]any{
		"text":          "* hi",
		"background":    "black",
		"useBackground": false,
		"outside":       false,
		"useMask":       false,
		"maskWidth":     float64(3),
	}
	if !reflect.DeepEqual(top, want) {
		t.Fatalf("top = %v, want %v", top, want)
	}
	if _, ok := in["version"]; ok {
		t.Fatalf("input document was modified")
	}
	if _, ok := in["chatData"].(map[string]any)["top"].(string); !ok {
		t.Fatalf("input sections were modified")
	}
}

func TestMigrateKeepsCustomOffset(t *testing.T) {
	out, err := Migrate(blob(t, `{"chatData":{"top":"","bottom":"","offset":{"left":30,"top":12}}}`))
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	off := out["chatData"].(map[string]any)["offset"].(map[string]any)
	if off["left"] != float64(30) || off["top"] != float64(12) {
		t.Fatalf("offset = %v", off)
	}
}

func TestMigrateStepsInOrder(t *testing.T) {
	b := blob(t, `{"version":1,"chatData":{"top":"a","bottom":"b"}}`)
	b, err := Step(b)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if Version(b) != 2 {
		t.Fatalf("version = %d, want 2", Version(b))
	}
	if top := b["chatData"].(map[string]any)["top"]; !reflect.DeepEqual(top, map[string]any{"text": "a"}) {
		t.Fatalf("top after v2 = %v", top)
	}
	b, _ = Step(b)
	if got := b["chatData"].(map[string]any)["bottom"].(map[string]any)["background"]; got != "black" {
		t.Fatalf("background after v3 = %v", got)
	}
	b, _ = Step(b)
	if got := b["chatData"].(map[string]any)["bottom"].(map[string]any)["maskWidth"]; got != float64(3) {
		t.Fatalf("maskWidth after v4 = %v", got)
	}
	if _, err := Step(b); err == nil {
		t.Fatalf("expected error stepping past the current version")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	raw, err := json.Marshal(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	in := blob(t, string(raw))
	out, err := Migrate(in)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("current document changed:\n%v\n%v", in, out)
	}
	again, err := Migrate(out)
	if err != nil || !reflect.DeepEqual(out, again) {
		t.Fatalf("second migration changed document: %v", err)
	}
}

func TestMigrateRejectsFutureVersion(t *testing.T) {
	if _, err := Migrate(Blob{"version": float64(CurrentVersion + 1)}); err == nil {
		t.Fatalf("expected error for newer document")
	}
}
