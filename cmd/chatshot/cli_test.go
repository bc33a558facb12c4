package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/chatshot/internal/config"
	"github.com/example/chatshot/internal/overlay"
)

func testRoot(t *testing.T) (*root, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r := &root{
		program:   "chatshot",
		config:    config.New(),
		prefsPath: filepath.Join(t.TempDir(), "prefs.json"),
		stdout:    &out,
	}
	return r, &out
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func TestRootUsageListsCommands(t *testing.T) {
	r := &root{program: "chatshot", fs: flag.NewFlagSet("chatshot", flag.ContinueOnError)}
	r.fs.String("rasterizer", "", "rasterizer endpoint")
	err := r.Run(nil)
	if err == nil {
		t.Fatalf("expected usage error")
	}
	if !containsAll(err.Error(), []string{"Usage: chatshot", "classify", "render", "serve", "-rasterizer"}) {
		t.Fatalf("unexpected help text:\n%s", err)
	}
}

func TestSubcommandHelpUsesProgramPath(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parseExtractCmd([]string{"-at", "12:00:00"}, r)
	if err == nil {
		t.Fatalf("expected usage error, got %+v", cmd)
	}
	if !containsAll(err.Error(), []string{"Usage: chatshot extract -log", "-top-lines", "-bottom"}) {
		t.Fatalf("unexpected help text:\n%s", err)
	}
}

func TestEndpointPrecedence(t *testing.T) {
	r, _ := testRoot(t)
	t.Setenv("CHATSHOT_RASTERIZER", "")
	if got := r.endpoint(); got != overlay.DefaultEndpoint {
		t.Fatalf("default endpoint = %q", got)
	}
	r.config.Rasterizer = "http://config:1/"
	if got := r.endpoint(); got != "http://config:1/" {
		t.Fatalf("config endpoint = %q", got)
	}
	t.Setenv("CHATSHOT_RASTERIZER", "http://env:2/")
	if got := r.endpoint(); got != "http://env:2/" {
		t.Fatalf("env endpoint = %q", got)
	}
	r.rasterizer = "http://flag:3/"
	if got := r.endpoint(); got != "http://flag:3/" {
		t.Fatalf("flag endpoint = %q", got)
	}
}

func TestClassifyPlainOutput(t *testing.T) {
	r, out := testRoot(t)
	r.stdin = strings.NewReader("* Ray Maverick waves.\r\n**[CH 1] Hello\r\nnoise\r\n")
	cmd, err := parseClassifyCmd([]string{"-plain"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "action\tC2A4DA\t* Ray Maverick waves.\nradio\tFFEC8B\t**[CH 1] Hello\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestClassifyFilterFlags(t *testing.T) {
	r, out := testRoot(t)
	r.stdin = strings.NewReader("**[CH 1] Hello\n* Ray Maverick waves.")
	cmd, err := parseClassifyCmd([]string{"-plain", "-radio=false"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out.String(), "CH 1") || !strings.Contains(out.String(), "Ray Maverick") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestClassifyRejectsTwoSources(t *testing.T) {
	r, _ := testRoot(t)
	_, err := parseClassifyCmd([]string{"-file", "x.txt", "-from-clipboard"}, r)
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestClassifyMissingFile(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parseClassifyCmd([]string{"-file", "missing.txt"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "classify missing.txt") {
		t.Fatalf("expected file error context, got %v", err)
	}
}

const sessionLog = `[12:03:30] * Ray Maverick waves.
[12:04:00] John Doe says: hi
[12:04:50] * Ray Maverick nods.
[12:05:00] * at the shutter
[12:05:10] John Doe says: nice shot
[12:06:00] John Doe says: too late`

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatlog.txt")
	if err := os.WriteFile(path, []byte(sessionLog), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestExtractTopOnly(t *testing.T) {
	r, out := testRoot(t)
	cmd, err := parseExtractCmd([]string{"-log", writeLog(t), "-at", "12:05:00", "-top-lines", "2"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "[12:04:00] John Doe says: hi\n[12:04:50] * Ray Maverick nods.\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestExtractWithBottom(t *testing.T) {
	r, out := testRoot(t)
	cmd, err := parseExtractCmd([]string{"-log", writeLog(t), "-at", "12:05:00", "-top-lines", "1", "-bottom"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "[12:04:50] * Ray Maverick nods.\n---\n[12:05:10] John Doe says: nice shot\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestExtractBadTime(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parseExtractCmd([]string{"-log", writeLog(t), "-at", "noon"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "HH:MM:SS") {
		t.Fatalf("expected time error, got %v", err)
	}
}

func TestPrefsPrintToml(t *testing.T) {
	r, out := testRoot(t)
	cmd, err := parsePrefsCmd([]string{"-format", "toml", "print"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !containsAll(out.String(), []string{"version = 4", "[chat.top]", "font_size = 18"}) {
		t.Fatalf("unexpected toml:\n%s", out.String())
	}
}

func TestPrefsMigrateRewritesLegacyFile(t *testing.T) {
	r, _ := testRoot(t)
	legacy := `{"chatData":{"top":"* hello","bottom":"","fontSize":20}}`
	if err := os.WriteFile(r.prefsPath, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write prefs: %v", err)
	}
	cmd, err := parsePrefsCmd([]string{"migrate"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(r.prefsPath)
	if err != nil {
		t.Fatalf("read prefs: %v", err)
	}
	if !containsAll(string(b), []string{`"version": 4`, `"text": "* hello"`, `"fontSize": 20`}) {
		t.Fatalf("prefs not migrated:\n%s", b)
	}
}

func TestPrefsUnknownCommand(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parsePrefsCmd([]string{"explode"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "unknown prefs command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestConfigSaveAndPrint(t *testing.T) {
	r, out := testRoot(t)
	r.config.Palette.Action = "ABCDEF"
	path := filepath.Join(t.TempDir(), "config.rc")
	cmd, err := parseConfigCmd([]string{"-output", path, "save"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	cmd, err = parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("print: %v", err)
	}
	if out.String() != string(b) || !strings.Contains(out.String(), "ABCDEF") {
		t.Fatalf("print = %q, saved = %q", out.String(), b)
	}
}

func TestVersion(t *testing.T) {
	r, out := testRoot(t)
	if err := (&versionCmd{r: r}).Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); !strings.HasPrefix(got, "chatshot version ") {
		t.Fatalf("version output = %q", got)
	}
}
