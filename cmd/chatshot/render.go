package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/clipboard"
	"github.com/example/chatshot/internal/imagefx"
	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/overlay"
	"github.com/example/chatshot/internal/prefs"
	"github.com/example/chatshot/internal/render"
)

type renderCmd struct {
	*root
	fs   *flag.FlagSet
	data prefs.Data

	image         string
	fromClipboard bool

	topFile          string
	bottomFile       string
	topFromClipboard bool
	chatlog          string
	at               string
	topSel           chatlog.Selection
	bottomSel        chatlog.Selection

	crop       string
	width      int
	height     int
	flipX      bool
	flipY      bool
	filters    string
	background string

	output      string
	toClipboard bool
	savePrefs   bool
	watch       bool
	debounce    time.Duration
	timeout     time.Duration

	fetcher overlay.Fetcher
	now     func() time.Time
	// exportMu keeps overlapping -watch renders from writing output together.
	exportMu sync.Mutex
}

// renderInputs is everything one composition needs.
type renderInputs struct {
	base      image.Image
	transform imagefx.Transform
	chat      render.ChatConfig
	data      prefs.Data
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{
		root:      r.subcommand("render"),
		fs:        fs,
		topSel:    chatlog.DefaultTopSelection(),
		bottomSel: chatlog.DefaultBottomSelection(),
		now:       time.Now,
	}
	c.data = c.preferences()
	chat := &c.data.ChatData
	fs.Usage = usageFunc(c)

	fs.StringVar(&c.image, "image", "", "base screenshot (png or jpeg)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the base screenshot from the clipboard")

	fs.StringVar(&chat.Top.Text, "top-text", chat.Top.Text, "chat text drawn at the top")
	fs.StringVar(&chat.Bottom.Text, "bottom-text", chat.Bottom.Text, "chat text drawn at the bottom")
	fs.StringVar(&c.topFile, "top-file", "", "read the top chat text from this file")
	fs.StringVar(&c.bottomFile, "bottom-file", "", "read the bottom chat text from this file")
	fs.BoolVar(&c.topFromClipboard, "top-from-clipboard", false, "read the top chat text from the clipboard")
	fs.StringVar(&c.chatlog, "chatlog", "", "extract the chat text from this chatlog")
	fs.StringVar(&c.at, "at", "", "screenshot time as HH:MM:SS for -chatlog (default: -image modification time, else now)")
	selectionFlags(fs, "top", &c.topSel)
	selectionFlags(fs, "bottom", &c.bottomSel)
	fs.BoolVar(&c.bottomSel.Include, "bottom", c.bottomSel.Include, "also extract the lines after the screenshot for the bottom section")

	fs.IntVar(&chat.FontSize, "font-size", chat.FontSize, "chat font size in pixels")
	fs.IntVar(&chat.Offset.Left, "offset-left", chat.Offset.Left, "left text offset inside the overlays")
	fs.IntVar(&chat.Offset.Top, "offset-top", chat.Offset.Top, "top text offset inside the overlays")
	sectionFlags(fs, "top", &chat.Top)
	sectionFlags(fs, "bottom", &chat.Bottom)
	fs.StringVar(&c.background, "background-color", "", "background color of both sections (name, #RGB, #RRGGBB or #RRGGBBAA)")
	chatFilter := chat.Filter()
	filterFlags(fs, &chatFilter)

	fs.StringVar(&c.crop, "crop", "", "source crop as x,y,width,height (default: whole image)")
	fs.IntVar(&c.width, "width", 0, "output width (default: crop or image width, else the stored size)")
	fs.IntVar(&c.height, "height", 0, "output height (default: crop or image height, else the stored size)")
	fs.BoolVar(&c.flipX, "flip-x", false, "mirror the image horizontally")
	fs.BoolVar(&c.flipY, "flip-y", false, "mirror the image vertically")
	fs.StringVar(&c.filters, "filter", "", "enable filters, e.g. sepia,brightness=1.2 (brightness, grayscale, sepia, saturate, contrast)")

	fs.StringVar(&c.output, "output", "", "output png (default: save directory/Screenshot <time>.png)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.savePrefs, "save-prefs", false, "store the chat and image settings as the new defaults")
	fs.BoolVar(&c.watch, "watch", false, "re-render whenever an input file changes")
	fs.DurationVar(&c.debounce, "debounce", render.DefaultDebounce, "quiet period before a -watch re-render")
	fs.DurationVar(&c.timeout, "timeout", 30*time.Second, "rasterizer request timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	chat.IncludeRadio = chatFilter.IncludeRadio
	chat.IncludeAutomatedActions = chatFilter.IncludeAutomatedActions
	chat.IncludeBroadcasts = chatFilter.IncludeBroadcasts
	chat.IncludeNotices = chatFilter.IncludeNotices
	chat.CharacterName = chatFilter.CharacterName

	if c.image != "" && c.fromClipboard {
		return nil, errors.New("-image and -from-clipboard cannot be combined")
	}
	sources := 0
	for _, set := range []bool{c.topFile != "", c.topFromClipboard, c.chatlog != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("choose only one of -top-file, -top-from-clipboard and -chatlog")
	}
	if c.watch && c.fromClipboard {
		return nil, errors.New("-watch needs file inputs, not -from-clipboard")
	}
	if c.width < 0 || c.height < 0 {
		return nil, errors.New("output size must not be negative")
	}
	if c.background != "" {
		if _, err := render.ParseColor(c.background); err != nil {
			return nil, err
		}
		chat.Top.Background = c.background
		chat.Bottom.Background = c.background
	}
	return c, nil
}

// sectionFlags registers the background and placement toggles of one section.
func sectionFlags(fs *flag.FlagSet, name string, s *prefs.Section) {
	fs.BoolVar(&s.UseBackground, name+"-background", s.UseBackground, "draw a background behind the "+name+" chat")
	fs.BoolVar(&s.UseMask, name+"-mask", s.UseMask, "fit the "+name+" background to each line instead of the whole box")
	fs.IntVar(&s.MaskWidth, name+"-mask-padding", s.MaskWidth, "padding around each "+name+" line mask")
	fs.BoolVar(&s.Outside, name+"-outside", s.Outside, "place the "+name+" chat outside the image, growing the canvas")
}

func (c *renderCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session, err := c.session()
	if err != nil {
		return err
	}
	output := c.outputPath()
	if err := c.renderOnce(ctx, session, output, true); err != nil {
		return err
	}
	if !c.watch {
		return nil
	}
	return c.watchInputs(ctx, session, output)
}

func (c *renderCmd) session() (*render.Session, error) {
	f := c.fetcher
	if f == nil {
		client, err := overlay.NewClient(c.endpoint())
		if err != nil {
			return nil, err
		}
		f = client
	}
	return render.NewSession(f, render.WithClassifier(c.classifier())), nil
}

// outputPath returns the file to save to, or "" when the result only goes
// to the clipboard.
func (c *renderCmd) outputPath() string {
	if c.output != "" {
		return c.output
	}
	if c.toClipboard {
		return ""
	}
	dir := "."
	if c.config != nil && c.config.SaveDir != "" {
		dir = c.config.SaveDir
	}
	return filepath.Join(dir, screenshotName(c.clock()))
}

func screenshotName(t time.Time) string {
	return "Screenshot " + t.UTC().Format("2006-01-02T15-04-05.000Z") + ".png"
}

func (c *renderCmd) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// renderOnce composes the current inputs and exports the result.
func (c *renderCmd) renderOnce(ctx context.Context, session *render.Session, output string, force bool) error {
	in, err := c.inputs()
	if err != nil {
		return err
	}
	for _, w := range render.Warnings(in.chat) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	canvas := render.NewCanvas()
	if err := session.Render(ctx, canvas, in.base, in.transform, in.chat, force); err != nil {
		return err
	}
	c.exportMu.Lock()
	defer c.exportMu.Unlock()
	if err := c.export(canvas.Image(), output); err != nil {
		return err
	}
	if c.savePrefs {
		if err := prefs.Save(c.preferencesPath(), in.data); err != nil {
			return err
		}
		logger.Infof("stored preferences in %s", c.preferencesPath())
	}
	return nil
}

// inputs reads the base image and chat text sources.
func (c *renderCmd) inputs() (renderInputs, error) {
	d := c.data
	chat := &d.ChatData

	base, modTime, err := c.loadBase()
	if err != nil {
		return renderInputs{}, err
	}

	switch {
	case c.topFile != "":
		text, err := readTextFile(c.topFile)
		if err != nil {
			return renderInputs{}, err
		}
		chat.Top.Text = text
	case c.topFromClipboard:
		text, err := clipboard.ReadText()
		if err != nil {
			return renderInputs{}, fmt.Errorf("read clipboard text: %w", err)
		}
		chat.Top.Text = text
	case c.chatlog != "":
		top, bottom, err := c.extract(modTime)
		if err != nil {
			return renderInputs{}, err
		}
		chat.Top.Text = top
		if c.bottomSel.Include {
			chat.Bottom.Text = bottom
		}
	}
	if c.bottomFile != "" {
		text, err := readTextFile(c.bottomFile)
		if err != nil {
			return renderInputs{}, err
		}
		chat.Bottom.Text = text
	}

	t, err := c.transform(base, d.ImageData)
	if err != nil {
		return renderInputs{}, err
	}
	d.ImageData.Width, d.ImageData.Height = t.Width, t.Height
	d.ImageData.SetEffects(t.Effects)
	return renderInputs{base: base, transform: t, chat: chat.Config(), data: d}, nil
}

// loadBase returns the base image, if any, and the time it was taken.
func (c *renderCmd) loadBase() (image.Image, time.Time, error) {
	switch {
	case c.fromClipboard:
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, c.clock(), nil
	case c.image != "":
		img, err := loadImage(c.image)
		if err != nil {
			return nil, time.Time{}, err
		}
		info, err := os.Stat(c.image)
		if err != nil {
			return nil, time.Time{}, err
		}
		return img, info.ModTime(), nil
	}
	return nil, c.clock(), nil
}

func (c *renderCmd) extract(taken time.Time) (string, string, error) {
	shot := chatlog.ClockOf(taken)
	if c.at != "" {
		var err error
		if shot, err = chatlog.ParseClock(c.at); err != nil {
			return "", "", err
		}
	}
	b, err := os.ReadFile(c.chatlog)
	if err != nil {
		return "", "", fmt.Errorf("read chatlog %s: %w", c.chatlog, err)
	}
	top, bottom := c.classifier().Extract(string(b), c.data.ChatData.Filter(), shot, c.topSel, c.bottomSel)
	return top, bottom, nil
}

// transform resolves the output size, crop and filters.
func (c *renderCmd) transform(base image.Image, stored prefs.ImageData) (imagefx.Transform, error) {
	var crop imagefx.Crop
	if c.crop != "" {
		var err error
		if crop, err = imagefx.ParseCrop(c.crop); err != nil {
			return imagefx.Transform{}, err
		}
	} else if base != nil {
		b := base.Bounds()
		crop = imagefx.Crop{Width: float64(b.Dx()), Height: float64(b.Dy()), ScaleX: 1, ScaleY: 1}
	}

	switch {
	case c.width > 0 && c.height > 0:
		stored.Width, stored.Height = c.width, c.height
	case crop.Width > 0 && crop.Height > 0:
		stored.Width, stored.Height = int(crop.Width), int(crop.Height)
		if c.width > 0 {
			stored.Width = c.width
		}
		if c.height > 0 {
			stored.Height = c.height
		}
	}
	if stored.Width > overlay.MaxWidth {
		stored.Width = overlay.MaxWidth
	}
	if stored.Height > overlay.MaxHeight {
		stored.Height = overlay.MaxHeight
	}

	t := stored.Transform(crop)
	if c.flipX {
		t.Crop.ScaleX = -t.Crop.ScaleX
	}
	if c.flipY {
		t.Crop.ScaleY = -t.Crop.ScaleY
	}
	if c.filters != "" {
		e, err := imagefx.ParseEffects(c.filters, t.Effects)
		if err != nil {
			return imagefx.Transform{}, err
		}
		t.Effects = e
	}
	logger.Debugf("render: %dx%d crop %v filters %s", t.Width, t.Height, t.Crop.Rect(), imagefx.ChainString(t.Effects.Chain()))
	return t, nil
}

// export saves img to output and copies it to the clipboard as requested.
func (c *renderCmd) export(img *image.RGBA, output string) error {
	if output != "" {
		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := savePNG(output, img); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", output)
		c.notifySave(output)
	}
	if c.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		detail := "screenshot"
		if output != "" {
			detail = output
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		c.notifyCopy(detail, img)
	}
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	if cerr := f.Close(); cerr != nil {
		logger.Warnf("error closing %q: %v", path, cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// readTextFile returns the file contents without the final newline.
func readTextFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(b), "\r\n", "\n")
	return strings.TrimSuffix(text, "\n"), nil
}
