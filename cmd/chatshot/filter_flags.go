package main

import (
	"flag"

	"github.com/example/chatshot/internal/chatlog"
)

// filterFlags registers the classification toggles on fs, seeded from p.
func filterFlags(fs *flag.FlagSet, p *chatlog.Preferences) {
	fs.BoolVar(&p.IncludeRadio, "radio", p.IncludeRadio, "keep radio lines")
	fs.BoolVar(&p.IncludeAutomatedActions, "automated", p.IncludeAutomatedActions, "keep automated action lines")
	fs.BoolVar(&p.IncludeBroadcasts, "broadcasts", p.IncludeBroadcasts, "keep advertisements, news and government broadcasts")
	fs.BoolVar(&p.IncludeNotices, "notices", p.IncludeNotices, "keep server notices such as spawn and drug messages")
	fs.StringVar(&p.CharacterName, "name", p.CharacterName, "your character name, used to color your own lines")
}
