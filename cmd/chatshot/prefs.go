package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/chatshot/internal/prefs"
)

type prefsCmd struct {
	*root
	fs     *flag.FlagSet
	format string
}

func (p *prefsCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePrefsCmd(args []string, r *root) (*prefsCmd, error) {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	p := &prefsCmd{root: r.subcommand("prefs"), fs: fs}
	fs.Usage = usageFunc(p)
	fs.StringVar(&p.format, "format", "json", "output format for print (json, toml)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *prefsCmd) Run() error {
	args := p.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: p}
	}

	switch args[0] {
	case "print":
		return p.runPrint()
	case "migrate":
		return p.runMigrate()
	case "reset":
		return p.runReset()
	case "path":
		fmt.Fprintln(p.out(), p.preferencesPath())
		return nil
	default:
		return fmt.Errorf("unknown prefs command: %s", args[0])
	}
}

func (p *prefsCmd) runPrint() error {
	d, err := prefs.Load(p.preferencesPath())
	if err != nil {
		return err
	}
	return prefs.Encode(p.out(), d, p.format)
}

// runMigrate upgrades the stored document in place. Load writes every step.
func (p *prefsCmd) runMigrate() error {
	path := p.preferencesPath()
	d, err := prefs.Load(path)
	if err != nil {
		return err
	}
	if err := prefs.Save(path, d); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "preferences at version %d in %s\n", d.Version, path)
	return nil
}

func (p *prefsCmd) runReset() error {
	path := p.preferencesPath()
	if err := prefs.Save(path, prefs.Default()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "preferences reset in %s\n", path)
	return nil
}
