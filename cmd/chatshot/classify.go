package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/clipboard"
)

type classifyCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	fromClipboard bool
	plain         bool
	filter        chatlog.Preferences
}

func (c *classifyCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseClassifyCmd(args []string, r *root) (*classifyCmd, error) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	c := &classifyCmd{root: r.subcommand("classify"), fs: fs}
	c.filter = c.preferences().ChatData.Filter()
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "read chat text from this file instead of stdin")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read chat text from the clipboard")
	fs.BoolVar(&c.plain, "plain", false, "print category, color and text separated by tabs")
	filterFlags(fs, &c.filter)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file != "" && c.fromClipboard {
		return nil, errors.New("-file and -from-clipboard cannot be combined")
	}
	return c, nil
}

func (c *classifyCmd) Run() error {
	text, err := c.readText()
	if err != nil {
		return err
	}
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := c.classifier().ClassifyText(text, c.filter)
	w := c.out()
	for _, l := range lines {
		if c.plain {
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Category, l.Color, l.Text)
			continue
		}
		if l.Category == chatlog.CategoryBlank {
			fmt.Fprintln(w)
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color.Hex()))
		fmt.Fprintln(w, style.Render(l.Text))
	}
	return nil
}

func (c *classifyCmd) readText() (string, error) {
	switch {
	case c.fromClipboard:
		text, err := clipboard.ReadText()
		if err != nil {
			return "", fmt.Errorf("read clipboard text: %w", err)
		}
		return text, nil
	case c.file != "":
		b, err := os.ReadFile(c.file)
		if err != nil {
			return "", fmt.Errorf("classify %s: %w", c.file, err)
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(c.in())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
}
