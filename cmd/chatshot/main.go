package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/config"
	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/notify"
	"github.com/example/chatshot/internal/overlay"
	"github.com/example/chatshot/internal/prefs"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	notifier   *notify.Notifier
	config     *config.Config
	saveAlerts bool
	copyAlerts bool
	rasterizer string
	prefsPath  string
	logLevel   string
	logFormat  string
	stdout     io.Writer
	stdin      io.Reader
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:    program,
		notifier:   r.notifier,
		config:     r.config,
		saveAlerts: r.saveAlerts,
		copyAlerts: r.copyAlerts,
		rasterizer: r.rasterizer,
		prefsPath:  r.prefsPath,
		logLevel:   r.logLevel,
		logFormat:  r.logFormat,
		stdout:     r.stdout,
		stdin:      r.stdin,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	np := notify.LoadPreferences()
	loader := config.NewLoader(version, configOverride())
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("chatshot", flag.ExitOnError),
		program:  "chatshot",
		notifier: notify.New(np),
		config:   cfg,
		stdout:   os.Stdout,
		stdin:    os.Stdin,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.rasterizer, "rasterizer", "", "rasterizer endpoint (default "+overlay.DefaultEndpoint+")")
	r.fs.StringVar(&r.prefsPath, "prefs", cfg.Prefs, "preferences file (default "+prefs.DefaultPath()+")")
	r.fs.StringVar(&r.logLevel, "log-level", orDefault(cfg.LogLevel, "info"), "log level (debug, info, warn, error)")
	r.fs.StringVar(&r.logFormat, "log-format", orDefault(cfg.LogFormat, "text"), "log format (text, json)")
	r.fs.Usage = usageFunc(r)
	return r
}

// configOverride returns the explicit config path, if any.
func configOverride() string {
	if configPathOverride != "" {
		return configPathOverride
	}
	return os.Getenv("CHATSHOT_CONFIG")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	logger.Init(r.logLevel, r.logFormat)
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "classify":
		cmd, err = parseClassifyCmd(subArgs, r)
	case "extract":
		cmd, err = parseExtractCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "prefs":
		cmd, err = parsePrefsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	if runErr := cmd.Run(); runErr != nil {
		return runErr
	}
	return nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// endpoint resolves the rasterizer address.
func (r *root) endpoint() string {
	if r.rasterizer != "" {
		return r.rasterizer
	}
	if env := os.Getenv("CHATSHOT_RASTERIZER"); env != "" {
		return env
	}
	if r.config != nil && r.config.Rasterizer != "" {
		return r.config.Rasterizer
	}
	return overlay.DefaultEndpoint
}

func (r *root) preferencesPath() string {
	if r.prefsPath != "" {
		return r.prefsPath
	}
	return prefs.DefaultPath()
}

// preferences loads the stored settings, falling back to defaults when the
// file cannot be read.
func (r *root) preferences() prefs.Data {
	d, err := prefs.Load(r.preferencesPath())
	if err != nil {
		logger.Warnf("preferences: %v, using defaults", err)
		return prefs.Default()
	}
	return d
}

func (r *root) classifier() *chatlog.Classifier {
	if r.config == nil {
		return chatlog.Default
	}
	return chatlog.NewClassifier(r.config.Palette)
}

func (r *root) out() io.Writer {
	if r == nil || r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func (r *root) in() io.Reader {
	if r == nil || r.stdin == nil {
		return os.Stdin
	}
	return r.stdin
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail, img)
}
