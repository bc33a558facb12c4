package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/chatshot/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	output string
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r.subcommand("config"), fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "output", "", "file to save to (default: the loaded config file, else "+config.DefaultDir()+"/config.rc)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	case "path":
		path := config.NewLoader(version, configOverride()).GetConfigPath()
		if path == "" {
			path = "(none)"
		}
		fmt.Fprintln(c.out(), path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runPrint() error {
	fmt.Fprint(c.out(), c.config.String())
	return nil
}

func (c *configCmd) runSave() error {
	path := c.output
	if path == "" {
		path = config.NewLoader(version, configOverride()).GetConfigPath()
	}
	saved, err := config.Save(c.config, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", saved)
	return nil
}
