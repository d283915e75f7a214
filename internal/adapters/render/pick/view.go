package pick

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mdp/qrterminal/v3"

	"github.com/bnema/random-video-picker/internal/domain"
)

const notAvailable = "N/A"

type RenderOptions struct {
	// SizeBytes is the file size; negative when unknown.
	SizeBytes int64
	ShowQR    bool
}

func renderPick(pick domain.Pick, opts RenderOptions, s styles) string {
	lines := []string{
		fmt.Sprintf("✨ Picked: %s %s",
			s.path.Render(pick.Entry.Path),
			s.count.Render(fmt.Sprintf("(Pick count: %d)", pick.Entry.PickCount)),
		),
	}

	if pick.Metadata != nil {
		lines = append(lines, s.meta.Render(fmt.Sprintf("Resolution: %s, Duration: %s",
			orNotAvailable(pick.Metadata.Resolution),
			orNotAvailable(pick.Metadata.Duration),
		)))
	}

	if opts.SizeBytes >= 0 {
		lines = append(lines, s.meta.Render("Size: "+humanize.IBytes(uint64(opts.SizeBytes))))
	}

	if pick.StreamURL != "" {
		lines = append(lines, "Streaming URL: "+s.url.Render(pick.StreamURL))
		if opts.ShowQR {
			lines = append(lines, renderQR(pick.StreamURL))
		}
	}

	return s.section.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderQR(text string) string {
	var buf bytes.Buffer
	qrterminal.GenerateHalfBlock(text, qrterminal.L, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func renderScanError(root string, err error, s styles) string {
	return s.warning.Render(fmt.Sprintf("Error scanning folder '%s': %v", root, err))
}

func renderNoCandidates(root string, s styles) string {
	return s.empty.Render(fmt.Sprintf("No video files found in %s", root))
}

func orNotAvailable(value string) string {
	if value == "" {
		return notAvailable
	}
	return value
}
