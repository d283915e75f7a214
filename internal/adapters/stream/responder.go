// Package stream serves the currently selected video over HTTP.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/random-video-picker/internal/domain"
)

const (
	Path = "/stream"

	msgNoSelection = "No video selected for streaming"
	msgUnavailable = "Selected video is no longer available"
)

var (
	ErrShutdownTimeout = errors.New("stream server shutdown timed out")
	ErrNoAdvertiseIP   = errors.New("no address to advertise")
)

// Some containers are missing from minimal MIME databases.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".flv":  "video/x-flv",
	".wmv":  "video/x-ms-wmv",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
}

type Config struct {
	Host string
	Port int
}

// Selection is the read side of the shared selection slot.
type Selection interface {
	Get() (string, bool)
}

type Responder struct {
	selection Selection
	logger    *slog.Logger
	listener  net.Listener
	server    *http.Server
	url       string
	closeOnce sync.Once
	closeErr  error
}

// Start binds host:port and serves in the background. Bind failures are
// returned before any goroutine starts.
func Start(cfg Config, selection Selection, logger *slog.Logger) (*Responder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	advertise, err := ResolveAdvertiseIP(cfg.Host)
	if err != nil {
		return nil, domain.NewError(domain.KindInfrastructure, "resolve stream address", cfg.Host, err)
	}

	listenAddr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, domain.NewError(domain.KindInfrastructure, "listen stream server", listenAddr, err)
	}

	r := &Responder{
		selection: selection,
		logger:    logger,
		listener:  listener,
	}

	port := cfg.Port
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	r.url = fmt.Sprintf("http://%s%s", net.JoinHostPort(advertise, strconv.Itoa(port)), Path)

	r.server = &http.Server{Handler: r.Handler()}

	go func() {
		if serveErr := r.server.Serve(r.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			r.logger.Warn("stream server stopped", "error", serveErr)
		}
	}()

	logger.Debug("stream server listening", "addr", listener.Addr().String(), "url", r.url)

	return r, nil
}

func (r *Responder) URL() string {
	return r.url
}

func (r *Responder) Addr() net.Addr {
	return r.listener.Addr()
}

func (r *Responder) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, r.handleStream)
	return mux
}

// Shutdown drains in-flight responses until ctx is done, then closes the
// remaining connections.
func (r *Responder) Shutdown(ctx context.Context) error {
	r.closeOnce.Do(func() {
		err := r.server.Shutdown(ctx)
		if err == nil {
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			_ = r.server.Close()
			r.closeErr = fmt.Errorf("%w: %v", ErrShutdownTimeout, err)
			return
		}
		r.closeErr = fmt.Errorf("shutdown stream server: %w", err)
	})
	return r.closeErr
}

func (r *Responder) handleStream(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	path, ok := r.selection.Get()
	if !ok {
		http.Error(w, msgNoSelection, http.StatusNotFound)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		r.logger.Debug("open selected video", "path", path, "error", err)
		http.Error(w, msgUnavailable, http.StatusNotFound)
		return
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.Error(w, msgUnavailable, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", ContentType(path))
	http.ServeContent(w, req, filepath.Base(path), info.ModTime(), file)
}

// ContentType maps a file name to its MIME type, defaulting to an octet stream.
func ContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := videoTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ResolveAdvertiseIP returns host when it names a concrete address, and the
// address of the outbound interface otherwise.
func ResolveAdvertiseIP(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host != "" {
		ip := net.ParseIP(host)
		if ip == nil || !ip.IsUnspecified() {
			return host, nil
		}
	}

	// UDP dial sends no packets; it only selects a route.
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoAdvertiseIP, err)
	}
	defer func() { _ = conn.Close() }()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() {
		return "", ErrNoAdvertiseIP
	}

	return addr.IP.String(), nil
}
