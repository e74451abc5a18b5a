package sources

import (
	"context"
	"io"

	"github.com/rjindal/segfetch/internal/utils"
)

// ResourceInfo is the result of a capability probe.
type ResourceInfo struct {
	Size           int64
	RangeSupported bool
	Filename       string
	ContentHash    string
}

// Source is the collaborator contract the download engine consumes. It
// hides transport detail: the engine only ever asks for metadata, a
// ranged byte stream, or the whole body.
type Source interface {
	Probe(ctx context.Context) (*ResourceInfo, error)
	// FetchRange requests bytes [start, end] (end-inclusive on the wire).
	FetchRange(ctx context.Context, start, end int64) (io.ReadCloser, error)
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// Resolve picks a source implementation from the URL scheme.
func Resolve(rawURL string, clientCfg utils.HTTPClientConfig) (Source, error) {
	if utils.IsS3URL(rawURL) {
		return NewS3Source(rawURL)
	}
	return NewHTTPSource(rawURL, clientCfg), nil
}
