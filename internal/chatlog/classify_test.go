package chatlog

import (
	"strings"
	"testing"
)

func TestClassifyActionWithTimestamp(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.IncludeAutomatedActions = false
	line, ok := Classify("[12:01:02] * Ray Maverick waves.", prefs)
	if !ok {
		t.Fatal("expected line to be accepted")
	}
	if line.Text != "* Ray Maverick waves." {
		t.Fatalf("text = %q, want %q", line.Text, "* Ray Maverick waves.")
	}
	if line.Color != "C2A4DA" {
		t.Fatalf("color = %q, want C2A4DA", line.Color)
	}
}

func TestClassifyActionMarkerNormalized(t *testing.T) {
	prefs := DefaultPreferences()
	for _, in := range []string{"> Ray Maverick nods.", "* Ray Maverick nods.", "[10:00:00] > Ray Maverick nods."} {
		line, ok := Classify(in, prefs)
		if !ok {
			t.Fatalf("%q rejected", in)
		}
		if !strings.HasPrefix(line.Text, "* ") || strings.HasPrefix(line.Text, "**") {
			t.Fatalf("%q produced %q, want single leading '*'", in, line.Text)
		}
		if line.Category != CategoryAction {
			t.Fatalf("%q category = %s, want action", in, line.Category)
		}
	}
}

func TestClassifyActionExclusions(t *testing.T) {
	prefs := DefaultPreferences()
	if line, ok := Classify("* [Vehicle alarm] beeps", prefs); ok && line.Category == CategoryAction {
		t.Fatalf("vehicle alarm classified as action")
	}
	if line, ok := Classify("* Ray Maverick (Ray_Maverick): hello", prefs); ok && line.Category == CategoryAction {
		t.Fatalf("actor attribution classified as action")
	}
}

func TestClassifyAutomatedActions(t *testing.T) {
	automated := []string{
		"* Ray Maverick started the engine of the Sultan.",
		"* Ray Maverick stopped the engine of the Sultan.",
		"* Ray Maverick checks the time.",
		"* Ray Maverick takes their gun and badge from a locker.",
	}
	prefs := DefaultPreferences()
	for _, in := range automated {
		prefs.IncludeAutomatedActions = false
		if _, ok := Classify(in, prefs); ok {
			t.Fatalf("%q accepted with automated actions disabled", in)
		}
		prefs.IncludeAutomatedActions = true
		if _, ok := Classify(in, prefs); !ok {
			t.Fatalf("%q rejected with automated actions enabled", in)
		}
	}
}

func TestClassifyRadioRejectedWhenDisabled(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.IncludeRadio = false
	if _, ok := Classify("**[CH 1] Hello", prefs); ok {
		t.Fatal("radio line accepted with radio disabled")
	}
}

func TestClassifyRadioToggleSetEquality(t *testing.T) {
	input := []string{
		"**[CH 1] Ray Maverick: 10-4",
		"** [LSPD] Dispatch: all units **",
		"* Ray Maverick waves.",
		"John Doe says: hi",
		"(Radio) static",
		"**[CH 2] Jane Roe: copy",
		"garbage line",
	}
	radio := map[string]bool{input[0]: true, input[1]: true, input[5]: true}

	off := DefaultPreferences()
	off.IncludeRadio = false
	on := off
	on.IncludeRadio = true

	accepted := func(p Preferences) map[string]bool {
		out := map[string]bool{}
		for _, l := range input {
			if _, ok := Classify(l, p); ok {
				out[l] = true
			}
		}
		return out
	}
	withOff := accepted(off)
	withOn := accepted(on)
	for l := range radio {
		if withOff[l] {
			t.Fatalf("%q accepted with radio disabled", l)
		}
		if !withOn[l] {
			t.Fatalf("%q rejected with radio enabled", l)
		}
	}
	for l := range withOn {
		if !radio[l] && !withOff[l] {
			t.Fatalf("%q only accepted with radio enabled but is not a radio line", l)
		}
	}
	if len(withOn)-len(withOff) != len(radio) {
		t.Fatalf("toggle changed %d lines, want %d", len(withOn)-len(withOff), len(radio))
	}
}

func TestClassifyColors(t *testing.T) {
	all := Preferences{IncludeRadio: true, IncludeAutomatedActions: true, IncludeBroadcasts: true, IncludeNotices: true}
	cases := []struct {
		in       string
		color    Color
		category Category
	}{
		{"**[CH 1] Hello", "FFEC8B", CategoryRadio},
		{"(Radio) Hello", "BFC0C2", CategoryRadioReceive},
		{"John Doe says [low]: psst", "C8C8C8", CategoryLowSpeech},
		{"John Doe says (phone): hello?", "FFFF00", CategoryPhone},
		{"John Doe says (phone - low): hello?", "FFFF00", CategoryPhone},
		{"John Doe says: hi", "E6E6E6", CategorySpeech},
		{"John Doe shouts to Jane Roe: stop!", "E6E6E6", CategorySpeech},
		{"John Doe says [MIC]: testing", "9DFF96", CategorySpeech},
		{"John Doe whispers: secret", "FFFF00", CategoryWhisper},
		{"shouts: HEY", "FFFFFF", CategoryShout},
		{"[Company Advertisement] Buy now", "33AA33", CategoryAdvertisement},
		{"[Advertisement] Selling car", "33AA33", CategoryAdvertisement},
		{"[Package] Delivered", "33AA33", CategoryPackage},
		{"[SAN] Breaking news", "FFEC8B", CategoryNews},
		{"[Government Announcement] Curfew", "6495ED", CategoryGovernment},
		{"** [LSPD] Dispatch: all units **", "FF8282", CategoryRadioBanner},
		{"_______Vehicle Weapon Package:_______", "33AA33", CategoryWeaponPackage},
		{"[ 1. Desert Eagle ]", "F0F8FF", CategoryListItem},
		{"You will spawn now with your weapons.", "33AA33", CategorySpawn},
		{"[Drugs] You've taken some pills.", "FFFF00", CategoryDrugs},
		{"You've taken some pills.", "FFFF00", CategoryDrugs},
		{"   ", "FFFFFF", CategoryBlank},
	}
	for _, tc := range cases {
		line, ok := Classify(tc.in, all)
		if !ok {
			t.Fatalf("%q rejected", tc.in)
		}
		if line.Color != tc.color || line.Category != tc.category {
			t.Fatalf("%q = (%s, %s), want (%s, %s)", tc.in, line.Color, line.Category, tc.color, tc.category)
		}
	}
}

func TestClassifyOwnVoice(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.CharacterName = "john_doe"
	cases := map[string]Color{
		"John Doe says: hi":             "FFFFFF",
		"John Doe says [low]: psst":     "FFFFFF",
		"John Doe says (phone): hello?": "FFFFFF",
		"Jane Roe says: hi":             "E6E6E6",
		"Jane Roe says [low]: psst":     "C8C8C8",
		"Jane Roe says (phone): hello?": "FFFF00",
	}
	for in, want := range cases {
		line, ok := Classify(in, prefs)
		if !ok {
			t.Fatalf("%q rejected", in)
		}
		if line.Color != want {
			t.Fatalf("%q color = %s, want %s", in, line.Color, want)
		}
	}
}

func TestClassifyRuleOrderWins(t *testing.T) {
	// Matches both the speech and whisper heuristics; speech comes first.
	line, ok := Classify("John Doe says: he whispers: hi", DefaultPreferences())
	if !ok || line.Category != CategorySpeech {
		t.Fatalf("got (%v, %v), want speech", line, ok)
	}
}

func TestClassifyBroadcastsFiltered(t *testing.T) {
	prefs := DefaultPreferences()
	for _, in := range []string{"[Advertisement] x", "[Company Advertisement] x", "[SAN] x", "[Government Announcement] x"} {
		if _, ok := Classify(in, prefs); ok {
			t.Fatalf("%q accepted with broadcasts disabled", in)
		}
	}
}

func TestClassifyNoticesFiltered(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.IncludeNotices = false
	for _, in := range []string{"[Package] x", "You will spawn now with x", "[Drugs] You've taken x", weaponPackageHeader} {
		if _, ok := Classify(in, prefs); ok {
			t.Fatalf("%q accepted with notices disabled", in)
		}
	}
}

func TestClassifyUnknownRejected(t *testing.T) {
	if _, ok := Classify("Welcome to the server!", DefaultPreferences()); ok {
		t.Fatal("unknown line accepted")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.CharacterName = "Ray Maverick"
	in := "[09:00:00] Ray Maverick says: hello"
	first, ok1 := Classify(in, prefs)
	for i := 0; i < 10; i++ {
		got, ok := Classify(in, prefs)
		if got != first || ok != ok1 {
			t.Fatalf("run %d = (%v, %v), want (%v, %v)", i, got, ok, first, ok1)
		}
	}
}

func TestClassifyTextKeepsBlankLines(t *testing.T) {
	lines := ClassifyText("* Ray Maverick waves.\n\nnoise\nJohn Doe says: hi", DefaultPreferences())
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %+v", len(lines), lines)
	}
	if lines[1].Category != CategoryBlank {
		t.Fatalf("middle line category = %s, want blank", lines[1].Category)
	}
}

func TestClassifierCustomPalette(t *testing.T) {
	p := DefaultPalette()
	p.Action = "123456"
	line, ok := NewClassifier(p).Classify("* waves", DefaultPreferences())
	if !ok || line.Color != "123456" {
		t.Fatalf("got (%v, %v), want custom action color", line, ok)
	}
}
