// Package pick renders selection results for the terminal.
package pick

import (
	"fmt"
	"io"
	"os"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

type Presenter struct {
	out    io.Writer
	errOut io.Writer
	showQR bool
	styles styles
	stat   func(string) (os.FileInfo, error)
}

var _ ports.Presenter = (*Presenter)(nil)

type Option func(*Presenter)

// WithoutQR suppresses the QR code under the stream URL.
func WithoutQR() Option {
	return func(p *Presenter) {
		p.showQR = false
	}
}

func NewPresenter(out, errOut io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:    out,
		errOut: errOut,
		showQR: true,
		styles: newStyles(),
		stat:   os.Stat,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Presenter) ShowPick(pick domain.Pick) {
	opts := RenderOptions{SizeBytes: -1, ShowQR: p.showQR}
	if info, err := p.stat(pick.Entry.Path); err == nil {
		opts.SizeBytes = info.Size()
	}

	_, _ = fmt.Fprintln(p.out, renderPick(pick, opts, p.styles))
}

func (p *Presenter) ShowScanError(root string, err error) {
	_, _ = fmt.Fprintln(p.errOut, renderScanError(root, err, p.styles))
}

func (p *Presenter) ShowNoCandidates(root string) {
	_, _ = fmt.Fprintln(p.out, renderNoCandidates(root, p.styles))
}

func (p *Presenter) ShowGoodbye() {
	_, _ = fmt.Fprintln(p.out, "Goodbye!")
}
