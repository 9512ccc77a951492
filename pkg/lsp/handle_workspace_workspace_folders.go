package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleWorkspaceWorkspaceFolders(ctx context.Context, req *jrpc2.Request) (any, error) {
	folders := []WorkspaceFolder{}
	for _, f := range h.manager.All() {
		folders = append(folders, WorkspaceFolder{
			URI:  DocumentURI(f.Key()),
			Name: f.Name(),
		})
	}
	return folders, nil
}
