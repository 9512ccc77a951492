package lsp

import (
	"context"
	"log/slog"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleShutdown(ctx context.Context, req *jrpc2.Request) (any, error) {
	if h.settings != nil {
		if err := h.settings.Close(); err != nil {
			slog.WarnContext(ctx, "settings refresh did not finish cleanly", "error", err)
		}
	}
	return nil, nil
}
