package ports

import (
	"context"

	"github.com/bnema/random-video-picker/internal/domain"
)

type MetadataProber interface {
	Probe(ctx context.Context, path string) (domain.Metadata, error)
}
