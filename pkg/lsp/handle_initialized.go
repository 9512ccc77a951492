package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleInitialized(ctx context.Context, req *jrpc2.Request) (any, error) {
	// Listeners attach only now, so the folders seeded during initialize
	// fired no lifecycle events.
	if h.settings != nil {
		h.manager.AddListener(h.settings)
	}
	h.manager.AddListener(&logListener{srv: h.srv})

	// Fetch settings for the folders that were open at startup.
	h.manager.DidChangeConfiguration(ctx)
	return nil, nil
}
