package css

import (
	"context"

	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/theme"
)

var _ theme.Renderer = (*Renderer)(nil)

// Renderer compiles page stylesheets through a theme service.
type Renderer struct {
	svc    *theme.Service
	logger *zap.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(svc *theme.Service, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{svc: svc, logger: logger}
}

// Render returns the complete stylesheet for page, themed by t or by the
// page's own theme_id when t is nil.
func (r *Renderer) Render(ctx context.Context, page *theme.Page, t *theme.Theme) string {
	return FromPage(ctx, r.svc, page, t, WithLogger(r.logger)).StyleBlock()
}
