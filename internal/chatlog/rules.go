package chatlog

import (
	"regexp"
	"strings"
)

// Category identifies which rule accepted a line.
type Category string

const (
	CategoryAction        Category = "action"
	CategoryRadio         Category = "radio"
	CategoryRadioReceive  Category = "radio-receive"
	CategoryLowSpeech     Category = "low"
	CategoryPhone         Category = "phone"
	CategorySpeech        Category = "speech"
	CategoryWhisper       Category = "whisper"
	CategoryShout         Category = "shout"
	CategoryAdvertisement Category = "advertisement"
	CategoryPackage       Category = "package"
	CategoryNews          Category = "news"
	CategoryGovernment    Category = "government"
	CategoryRadioBanner   Category = "radio-banner"
	CategoryWeaponPackage Category = "weapon-package"
	CategoryListItem      Category = "list-item"
	CategorySpawn         Category = "spawn"
	CategoryDrugs         Category = "drugs"
	CategoryBlank         Category = "blank"
)

var (
	actorAttributionRe = regexp.MustCompile(`\s\(([A-Z][a-z]+_[A-Z][a-z]+)\):\s(.+)`)
	lowSpeechRe        = regexp.MustCompile(`([A-Za-z]+\s[A-Za-z]+)\s+says(.*)\[low\](.*?):\s+(.*)`)
	phoneRe            = regexp.MustCompile(`([A-Za-z]+\s[A-Za-z]+)\s+says(.*)\((phone|phone - low)\)(.*?):\s+(.*)`)
	speechToRe         = regexp.MustCompile(`([A-Za-z]+\s[A-Za-z]+)\s+(says|shouts|screams)\s+to\s+([A-Za-z]+\s[A-Za-z]+):\s+(.*)`)
	speechRe           = regexp.MustCompile(`([A-Za-z]+\s[A-Za-z]+)\s+(says|shouts|screams)(.*):\s+(.*)`)
	whisperRe          = regexp.MustCompile(`([A-Za-z]+\s[A-Za-z]+)\s+whispers(.*):\s+(.*)`)
	listItemRe         = regexp.MustCompile(`^\[\s([0-9]+).\s`)
)

const weaponPackageHeader = "_______Vehicle Weapon Package:_______"

// rule is one row of the classification table. Rules are evaluated in order
// and the first whose match returns true decides the outcome.
type rule struct {
	category Category
	match    func(line string) bool
	// allow reports whether prefs keep a matched line. nil keeps everything.
	allow func(line string, prefs Preferences) bool
	color func(line string, prefs Preferences, p *Palette) Color
	// rewrite adjusts the displayed text. nil keeps the line as is.
	rewrite func(line string) string
}

func fixed(pick func(p *Palette) Color) func(string, Preferences, *Palette) Color {
	return func(_ string, _ Preferences, p *Palette) Color {
		return pick(p)
	}
}

func whenRadio(_ string, prefs Preferences) bool      { return prefs.IncludeRadio }
func whenBroadcasts(_ string, prefs Preferences) bool { return prefs.IncludeBroadcasts }
func whenNotices(_ string, prefs Preferences) bool    { return prefs.IncludeNotices }
func hasPrefix(prefix string) func(string) bool {
	return func(l string) bool { return strings.HasPrefix(l, prefix) }
}
func containsAny(subs ...string) func(string) bool {
	return func(l string) bool {
		for _, s := range subs {
			if strings.Contains(l, s) {
				return true
			}
		}
		return false
	}
}

func isAction(line string) bool {
	if !strings.HasPrefix(line, "> ") && !strings.HasPrefix(line, "* ") {
		return false
	}
	if strings.HasPrefix(line, "* [Vehicle alarm]") {
		return false
	}
	return !actorAttributionRe.MatchString(line)
}

func isAutomatedAction(line string) bool {
	return strings.Contains(line, "started the engine") ||
		strings.Contains(line, "stopped the engine") ||
		strings.HasSuffix(line, "checks the time.") ||
		strings.HasSuffix(line, "takes their gun and badge from a locker.")
}

func speakerColor(other func(p *Palette) Color) func(string, Preferences, *Palette) Color {
	return func(line string, prefs Preferences, p *Palette) Color {
		if prefs.owns(line) {
			return p.OwnVoice
		}
		return other(p)
	}
}

var rules = []rule{
	{
		category: CategoryAction,
		match:    isAction,
		allow: func(line string, prefs Preferences) bool {
			return prefs.IncludeAutomatedActions || !isAutomatedAction(line)
		},
		color:   fixed(func(p *Palette) Color { return p.Action }),
		rewrite: func(line string) string { return "*" + line[1:] },
	},
	{
		category: CategoryRadio,
		match:    hasPrefix("**[CH"),
		allow:    whenRadio,
		color:    fixed(func(p *Palette) Color { return p.Radio }),
	},
	{
		category: CategoryRadioReceive,
		match:    hasPrefix("(Radio)"),
		color:    fixed(func(p *Palette) Color { return p.RadioReceive }),
	},
	{
		category: CategoryLowSpeech,
		match: func(l string) bool {
			return strings.Contains(l, " says [low]: ") || lowSpeechRe.MatchString(l)
		},
		color: speakerColor(func(p *Palette) Color { return p.LowSpeech }),
	},
	{
		category: CategoryPhone,
		match: func(l string) bool {
			return containsAny(" says (phone): ", " says (phone - low): ")(l) || phoneRe.MatchString(l)
		},
		color: speakerColor(func(p *Palette) Color { return p.Phone }),
	},
	{
		category: CategorySpeech,
		match: func(l string) bool {
			return strings.Contains(l, " says: ") || speechToRe.MatchString(l) || speechRe.MatchString(l)
		},
		color: func(line string, prefs Preferences, p *Palette) Color {
			if strings.Contains(line, "[MIC]") {
				return p.Mic
			}
			return speakerColor(func(p *Palette) Color { return p.Speech })(line, prefs, p)
		},
	},
	{
		category: CategoryWhisper,
		match: func(l string) bool {
			return strings.Contains(l, " whispers: ") || whisperRe.MatchString(l)
		},
		color: fixed(func(p *Palette) Color { return p.Whisper }),
	},
	{
		category: CategoryShout,
		match:    containsAny("shouts: ", "screams: "),
		color:    fixed(func(p *Palette) Color { return p.Shout }),
	},
	{
		category: CategoryAdvertisement,
		match: func(l string) bool {
			return strings.HasPrefix(l, "[Company Advertisement]") || strings.HasPrefix(l, "[Advertisement]")
		},
		allow: whenBroadcasts,
		color: fixed(func(p *Palette) Color { return p.Advertisement }),
	},
	{
		category: CategoryPackage,
		match:    hasPrefix("[Package]"),
		allow:    whenNotices,
		color:    fixed(func(p *Palette) Color { return p.Package }),
	},
	{
		category: CategoryNews,
		match:    hasPrefix("[SAN]"),
		allow:    whenBroadcasts,
		color:    fixed(func(p *Palette) Color { return p.News }),
	},
	{
		category: CategoryGovernment,
		match:    hasPrefix("[Government Announcement]"),
		allow:    whenBroadcasts,
		color:    fixed(func(p *Palette) Color { return p.Government }),
	},
	{
		category: CategoryRadioBanner,
		match: func(l string) bool {
			return strings.HasPrefix(l, "** [") && strings.HasSuffix(l, "**")
		},
		allow: whenRadio,
		color: fixed(func(p *Palette) Color { return p.RadioBanner }),
	},
	{
		category: CategoryWeaponPackage,
		match:    func(l string) bool { return l == weaponPackageHeader },
		allow:    whenNotices,
		color:    fixed(func(p *Palette) Color { return p.WeaponPackage }),
	},
	{
		category: CategoryListItem,
		match:    listItemRe.MatchString,
		allow:    whenNotices,
		color:    fixed(func(p *Palette) Color { return p.ListItem }),
	},
	{
		category: CategorySpawn,
		match:    containsAny("You will spawn now with"),
		allow:    whenNotices,
		color:    fixed(func(p *Palette) Color { return p.Spawn }),
	},
	{
		category: CategoryDrugs,
		match: func(l string) bool {
			return strings.HasPrefix(l, "[Drugs] You've taken") || strings.HasPrefix(l, "You've taken")
		},
		allow: whenNotices,
		color: fixed(func(p *Palette) Color { return p.Drugs }),
	},
	{
		category: CategoryBlank,
		match:    func(l string) bool { return strings.TrimSpace(l) == "" },
		color:    fixed(func(p *Palette) Color { return p.Default }),
	},
}
