package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/rasterd"
)

type serveCmd struct {
	*root
	fs         *flag.FlagSet
	configPath string
	addr       string
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r.subcommand("serve"), fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.configPath, "config", "", "rasterizer config file (yaml, toml or json)")
	fs.StringVar(&s.addr, "addr", "", "listen address, overrides server.addr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *serveCmd) Run() error {
	cfg, err := rasterd.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	if s.addr != "" {
		cfg.Server.Addr = s.addr
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rasterd.NewServer(cfg).Run(ctx)
}
