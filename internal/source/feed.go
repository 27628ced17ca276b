package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/facelit/internal/engine/texture"
	"github.com/Faultbox/facelit/internal/facemesh"
	"github.com/Faultbox/facelit/internal/logger"
)

const (
	// maxMessageBytes bounds one websocket message. Frames are encoded
	// images, so this is generous.
	maxMessageBytes = 16 << 20

	shutdownTimeout = 2 * time.Second
)

// FeedConfig configures a Feed.
type FeedConfig struct {
	Listen string // host:port for Start
	Path   string // websocket endpoint, e.g. /landmarks

	// Frames are fitted to this size.
	FrameWidth  int
	FrameHeight int

	// Recorder receives every accepted detection when set.
	Recorder *Recorder
}

// MessageHandler handles one websocket message payload.
type MessageHandler func(data []byte) error

// Feed is a websocket server that the detector pushes results to. Text
// messages carry JSON detections, binary messages carry encoded video
// frames. It implements LandmarkSource and FrameSource.
type Feed struct {
	cfg      FeedConfig
	log      *zap.Logger
	upgrader websocket.Upgrader
	handlers map[int]MessageHandler

	mu    sync.RWMutex
	det   facemesh.Detection
	frame *image.RGBA

	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}

	srv       *http.Server
	ln        net.Listener
	closeOnce sync.Once

	detections atomic.Uint64
	frames     atomic.Uint64
	dropped    atomic.Uint64
}

// NewFeed creates a feed. Frame returns a black frame until the first
// binary message arrives.
func NewFeed(cfg FeedConfig) *Feed {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	f := &Feed{
		cfg:   cfg,
		log:   logger.Named("feed"),
		frame: texture.Blank(cfg.FrameWidth, cfg.FrameHeight),
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			// The detector page is served from anywhere, usually file:// or
			// a dev server.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	f.handlers = map[int]MessageHandler{
		websocket.TextMessage:   f.handleDetection,
		websocket.BinaryMessage: f.handleFrame,
	}
	return f
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (f *Feed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(f.cfg.Path, f.serveWS)
	return mux
}

// Start listens on cfg.Listen and serves in the background until ctx is
// done or Close is called.
func (f *Feed) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", f.cfg.Listen)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", f.cfg.Listen, err)
	}
	f.ln = ln
	f.srv = &http.Server{
		Handler:           f.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := f.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.log.Error("feed server stopped", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		f.Close()
	}()

	f.log.Info("landmark feed listening",
		zap.String("url", fmt.Sprintf("ws://%s%s", ln.Addr(), f.cfg.Path)))
	return nil
}

// Addr returns the listen address after Start, or nil.
func (f *Feed) Addr() net.Addr {
	if f.ln == nil {
		return nil
	}
	return f.ln.Addr()
}

// Close stops the server and disconnects all clients. Safe to call twice.
func (f *Feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		f.connsMu.Lock()
		for c := range f.conns {
			c.Close()
		}
		f.connsMu.Unlock()

		if f.srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			err = f.srv.Shutdown(ctx)
		}
		f.log.Info("landmark feed closed",
			zap.Uint64("detections", f.detections.Load()),
			zap.Uint64("frames", f.frames.Load()),
			zap.Uint64("dropped", f.dropped.Load()))
	})
	return err
}

// Latest implements LandmarkSource.
func (f *Feed) Latest() facemesh.Detection {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.det
}

// Frame implements FrameSource.
func (f *Feed) Frame() *image.RGBA {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frame
}

// Stats returns accepted detections, accepted frames and dropped messages.
func (f *Feed) Stats() (detections, frames, dropped uint64) {
	return f.detections.Load(), f.frames.Load(), f.dropped.Load()
}

func (f *Feed) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	f.connsMu.Lock()
	f.conns[conn] = struct{}{}
	f.connsMu.Unlock()

	remote := conn.RemoteAddr().String()
	f.log.Info("detector connected", zap.String("remote", remote))

	defer func() {
		f.connsMu.Lock()
		delete(f.conns, conn)
		f.connsMu.Unlock()
		conn.Close()
		f.log.Info("detector disconnected", zap.String("remote", remote))
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				f.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if err := f.handleMessage(kind, data); err != nil {
			f.dropped.Add(1)
			f.log.Warn("dropping malformed message",
				zap.Int("type", kind), zap.Int("bytes", len(data)), zap.Error(err))
		}
	}
}

func (f *Feed) handleMessage(kind int, data []byte) error {
	h, ok := f.handlers[kind]
	if !ok {
		return fmt.Errorf("unsupported message type %d", kind)
	}
	return h(data)
}

func (f *Feed) handleDetection(data []byte) error {
	det, err := decodeDetection(data)
	if err != nil {
		return err
	}
	if det.Timestamp.IsZero() {
		det.Timestamp = time.Now()
	}

	f.mu.Lock()
	f.det = det
	f.mu.Unlock()
	f.detections.Add(1)

	if f.cfg.Recorder != nil {
		if err := f.cfg.Recorder.Record(det); err != nil {
			f.log.Error("recording detection", zap.Error(err))
		}
	}
	return nil
}

func (f *Feed) handleFrame(data []byte) error {
	img, format, err := texture.DecodeFrame(data)
	if err != nil {
		return err
	}
	img = texture.Fit(img, f.cfg.FrameWidth, f.cfg.FrameHeight)

	f.mu.Lock()
	f.frame = img
	f.mu.Unlock()

	if f.frames.Add(1) == 1 {
		f.log.Info("first video frame", zap.String("format", format))
	}
	return nil
}
