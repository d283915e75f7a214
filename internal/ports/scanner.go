package ports

import "context"

// Scanner lists candidate files under root, sorted.
type Scanner interface {
	Scan(ctx context.Context, root string, recursive bool) ([]string, error)
}

type ScannerFunc func(ctx context.Context, root string, recursive bool) ([]string, error)

func (f ScannerFunc) Scan(ctx context.Context, root string, recursive bool) ([]string, error) {
	return f(ctx, root, recursive)
}
