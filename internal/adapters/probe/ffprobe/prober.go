// Package ffprobe reads resolution and duration of video files with the
// ffprobe executable.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

var ErrProbeFailed = errors.New("ffprobe failed")

type runFunc func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

type Prober struct {
	executable string
	run        runFunc
}

var _ ports.MetadataProber = (*Prober)(nil)

// NewProber looks for ffprobe next to the running executable, in a tools
// directory beside it, and finally on PATH.
func NewProber() *Prober {
	return &Prober{executable: locateExecutable(), run: runCommand}
}

func (p *Prober) Probe(ctx context.Context, path string) (domain.Metadata, error) {
	stdout, stderr, err := p.run(ctx, p.executable,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail != "" {
			err = fmt.Errorf("%w: run %s: %v: %s", ErrProbeFailed, p.executable, err, detail)
		} else {
			err = fmt.Errorf("%w: run %s: %v", ErrProbeFailed, p.executable, err)
		}
		return domain.Metadata{}, domain.NewError(domain.KindRecoverable, "probe", path, err)
	}

	metadata, err := ParseOutput(stdout)
	if err != nil {
		return domain.Metadata{}, domain.NewError(domain.KindRecoverable, "probe", path, err)
	}
	return metadata, nil
}

type output struct {
	Streams []stream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type stream struct {
	CodecType string `json:"codec_type"`
	Width     int64  `json:"width"`
	Height    int64  `json:"height"`
	Duration  string `json:"duration"`
}

// ParseOutput extracts metadata from ffprobe's JSON output. Resolution comes
// from the first video stream; duration prefers the container value.
func ParseOutput(data []byte) (domain.Metadata, error) {
	var parsed output
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.Metadata{}, fmt.Errorf("%w: decode output: %v", ErrProbeFailed, err)
	}

	var metadata domain.Metadata
	video := firstVideoStream(parsed.Streams)
	if video != nil && video.Width > 0 && video.Height > 0 {
		metadata.Resolution = fmt.Sprintf("%dx%d", video.Width, video.Height)
	}

	raw := parsed.Format.Duration
	if raw == "" && video != nil {
		raw = video.Duration
	}
	if raw != "" {
		if formatted, ok := FormatDuration(raw); ok {
			metadata.Duration = formatted
		}
	}

	return metadata, nil
}

// FormatDuration renders a seconds value as HH:MM:SS, or MM:SS below an hour.
func FormatDuration(raw string) (string, bool) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", false
	}

	total := uint64(math.Round(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs), true
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs), true
}

func firstVideoStream(streams []stream) *stream {
	for i := range streams {
		if streams[i].CodecType == "video" {
			return &streams[i]
		}
	}
	return nil
}

func executableName() string {
	if runtime.GOOS == "windows" {
		return "ffprobe.exe"
	}
	return "ffprobe"
}

func locateExecutable() string {
	name := executableName()

	exe, err := os.Executable()
	if err == nil {
		dir := filepath.Dir(exe)
		for _, candidate := range []string{
			filepath.Join(dir, name),
			filepath.Join(dir, "tools", name),
		} {
			if info, statErr := os.Stat(candidate); statErr == nil && info.Mode().IsRegular() {
				return candidate
			}
		}
	}

	return name
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
