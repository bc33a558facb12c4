package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/chatshot/internal/chatlog"
)

func TestParseEndpoint(t *testing.T) {
	u, err := parseEndpoint("")
	if err != nil {
		t.Fatalf("parseEndpoint: %v", err)
	}
	if u.String() != DefaultEndpoint {
		t.Fatalf("default = %q", u.String())
	}
	u, err = parseEndpoint("render.example.com:9000/api/render#x")
	if err != nil {
		t.Fatalf("parseEndpoint: %v", err)
	}
	if u.Scheme != "http" || u.Path != "/api/render" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestNewRequestClampsAndConverts(t *testing.T) {
	top := []chatlog.Line{{Text: "* Ray waves.", Color: "C2A4DA"}}
	req := NewRequest(Offset{Left: 10, Top: 10}, 18, 5000, 3000, top, nil)
	if req.Width != MaxWidth || req.Height != MaxHeight {
		t.Fatalf("size = %dx%d", req.Width, req.Height)
	}
	if len(req.Top) != 1 || req.Top[0].Color != "C2A4DA" || req.Top[0].Message != "* Ray waves." {
		t.Fatalf("top = %+v", req.Top)
	}
	if req.Bottom == nil || len(req.Bottom) != 0 {
		t.Fatalf("bottom = %#v, want empty list", req.Bottom)
	}
}

func TestClientFetch(t *testing.T) {
	t.Parallel()

	var got Request
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(RequestIDHeader)
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		header, body := EncodeFrame(Frame{[]byte(`{"width":4,"height":3}`), pngBytes(t, 4, 3), nil, nil})
		w.Header().Set(LengthHeader, header)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	res, err := c.Fetch(ctx, Request{FontSize: 18, Width: 9999, Height: 600, Top: []Line{{Message: "hi", Color: "FFFFFF"}}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Width != MaxWidth || got.FontSize != 18 || len(got.Top) != 1 {
		t.Fatalf("server saw %+v", got)
	}
	if gotID == "" {
		t.Fatalf("request id header missing")
	}
	if res.Top == nil || res.Top.Bitmap == nil || res.Bottom != nil {
		t.Fatalf("result = %+v", res)
	}
}

func TestClientFetchMalformedFrame(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(LengthHeader, "10,10,10,10")
		_, _ = w.Write([]byte("short"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Fetch(context.Background(), Request{}); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("err = %v, want ErrMalformedFrame", err)
	}
}

func TestClientFetchStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Fetch(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestClientFetchHonoursCancel(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if _, err := c.Fetch(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
