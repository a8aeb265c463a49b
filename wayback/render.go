package wayback

import (
	"context"
	"errors"
)

// ErrRenderUnavailable is returned by renderers that have no backend.
var ErrRenderUnavailable = errors.New("render backend unavailable")

// Renderer is the pluggable seam for a browser-rendering fallback, used only
// when neither JSON nor meta-tag extraction recovers any data. The default
// implementation is a deliberate no-op; no browser automation ships with the
// engine.
type Renderer interface {
	// Render returns the rendered HTML of the page at url.
	Render(ctx context.Context, url string) (string, error)
}

type noopRenderer struct{}

// NewNoopRenderer returns the default renderer, which always reports the
// backend as unavailable.
func NewNoopRenderer() Renderer {
	return noopRenderer{}
}

func (noopRenderer) Render(ctx context.Context, url string) (string, error) {
	return "", ErrRenderUnavailable
}
