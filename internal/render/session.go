package render

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/imagefx"
	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/overlay"
)

var (
	// ErrNoCanvas is returned when Render is called without a canvas.
	ErrNoCanvas = errors.New("render: no canvas")
	// ErrSuperseded is returned by a render that was replaced by a newer
	// call before it could draw.
	ErrSuperseded = errors.New("render: superseded by a newer render")
)

// Session serializes renders against one overlay cache. Starting a render
// cancels the fetch of the previous one; only the newest render may write
// the cache or touch the canvas.
type Session struct {
	fetcher    overlay.Fetcher
	classifier *chatlog.Classifier

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	cache  *overlay.Result
	size   image.Point
}

// Option configures a Session.
type Option func(*Session)

// WithClassifier overrides the classifier used to build requests.
func WithClassifier(c *chatlog.Classifier) Option {
	return func(s *Session) {
		if c != nil {
			s.classifier = c
		}
	}
}

// NewSession returns a Session that fetches overlays through f.
func NewSession(f overlay.Fetcher, opts ...Option) *Session {
	s := &Session{fetcher: f, classifier: chatlog.Default}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cached returns the last successfully fetched overlays, or nil.
func (s *Session) Cached() *overlay.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache
}

// Render draws base through t, then the chat overlays, onto canvas. The
// rasterizer is only contacted when a section has text and either force is
// set or nothing is cached. A failed fetch is logged and the stale cache is
// drawn instead. Render returns ErrSuperseded without drawing when a newer
// call started while it was waiting on the network.
func (s *Session) Render(ctx context.Context, canvas *Canvas, base image.Image, t imagefx.Transform, chat ChatConfig, force bool) error {
	if canvas == nil {
		return ErrNoCanvas
	}
	ctx, gen, cached := s.begin(ctx, image.Pt(t.Width, t.Height))
	defer s.end(gen)

	hasText := chat.Top.HasText() || chat.Bottom.HasText()
	var fresh *overlay.Result
	if hasText && (force || cached == nil) && s.fetcher != nil {
		req := chat.Request(s.classifier, t.Width, t.Height)
		res, err := s.fetcher.Fetch(ctx, req)
		switch {
		case err == nil:
			fresh = &res
		case errors.Is(err, context.Canceled) && !s.current(gen):
			return ErrSuperseded
		default:
			logger.Warnf("render: overlay fetch failed, keeping previous overlays: %v", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrSuperseded
	}
	if fresh != nil {
		s.cache = fresh
	}
	compose(canvas, base, t, chat, s.cache)
	return nil
}

// begin makes the caller the current render, cancelling the previous one.
func (s *Session) begin(parent context.Context, size image.Point) (context.Context, uint64, *overlay.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	if size != s.size {
		if s.cache != nil {
			logger.Debugf("render: output size changed to %v, dropping cached overlays", size)
		}
		s.cache = nil
		s.size = size
	}
	return ctx, s.gen, s.cache
}

func (s *Session) end(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}
