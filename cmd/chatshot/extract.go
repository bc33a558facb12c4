package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/clipboard"
)

// bottomSeparator splits the top and bottom sections in extract output.
const bottomSeparator = "---"

type extractCmd struct {
	*root
	fs          *flag.FlagSet
	log         string
	at          string
	image       string
	top         chatlog.Selection
	bottom      chatlog.Selection
	toClipboard bool
	filter      chatlog.Preferences
	now         func() time.Time
}

func (e *extractCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

// selectionFlags registers the line and second budgets of one section.
func selectionFlags(fs *flag.FlagSet, prefix string, sel *chatlog.Selection) {
	fs.IntVar(&sel.Lines, prefix+"-lines", sel.Lines, "maximum "+prefix+" lines")
	fs.IntVar(&sel.Seconds, prefix+"-seconds", sel.Seconds, "maximum age in seconds of "+prefix+" lines")
}

func parseExtractCmd(args []string, r *root) (*extractCmd, error) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	e := &extractCmd{
		root:   r.subcommand("extract"),
		fs:     fs,
		top:    chatlog.DefaultTopSelection(),
		bottom: chatlog.DefaultBottomSelection(),
		now:    time.Now,
	}
	e.filter = e.preferences().ChatData.Filter()
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.log, "log", "", "chatlog file to read")
	fs.StringVar(&e.at, "at", "", "screenshot time as HH:MM:SS (default: -image modification time, else now)")
	fs.StringVar(&e.image, "image", "", "screenshot whose modification time marks the capture")
	selectionFlags(fs, "top", &e.top)
	selectionFlags(fs, "bottom", &e.bottom)
	fs.BoolVar(&e.bottom.Include, "bottom", e.bottom.Include, "also extract the lines after the screenshot")
	fs.BoolVar(&e.toClipboard, "to-clipboard", false, "copy the extracted text to the clipboard")
	filterFlags(fs, &e.filter)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.log == "" {
		return nil, &UsageError{of: e}
	}
	if e.top.Lines < 0 || e.bottom.Lines < 0 || e.top.Seconds < 0 || e.bottom.Seconds < 0 {
		return nil, errors.New("line and second limits must not be negative")
	}
	return e, nil
}

// shotTime picks the capture time from -at, -image or the clock.
func (e *extractCmd) shotTime() (chatlog.Clock, error) {
	if e.at != "" {
		return chatlog.ParseClock(e.at)
	}
	if e.image != "" {
		info, err := os.Stat(e.image)
		if err != nil {
			return 0, fmt.Errorf("stat %s: %w", e.image, err)
		}
		return chatlog.ClockOf(info.ModTime()), nil
	}
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	return chatlog.ClockOf(now()), nil
}

// sections returns the top and bottom texts.
func (e *extractCmd) sections() (string, string, error) {
	shot, err := e.shotTime()
	if err != nil {
		return "", "", err
	}
	b, err := os.ReadFile(e.log)
	if err != nil {
		return "", "", fmt.Errorf("extract %s: %w", e.log, err)
	}
	top, bottom := e.classifier().Extract(string(b), e.filter, shot, e.top, e.bottom)
	return top, bottom, nil
}

func (e *extractCmd) Run() error {
	top, bottom, err := e.sections()
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("\n")
	if e.bottom.Include {
		sb.WriteString(bottomSeparator + "\n")
		sb.WriteString(bottom)
		sb.WriteString("\n")
	}
	fmt.Fprint(e.out(), sb.String())
	if e.toClipboard {
		if err := clipboard.WriteText(strings.TrimSuffix(sb.String(), "\n")); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied chat text to clipboard")
		e.notifyCopy("chat text", nil)
	}
	return nil
}
