package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleWorkspaceDidChangeConfiguration(ctx context.Context, req *jrpc2.Request) (any, error) {
	// The payload is ignored; each folder's settings are re-fetched via
	// workspace/configuration instead.
	h.manager.DidChangeConfiguration(ctx)
	return nil, nil
}
