package lsp

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/creachadair/jrpc2"

	"github.com/driftlint/driftls/pkg/workspace"
)

func (h *Handler) handleWorkspaceDidChangeWorkspaceFolders(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DidChangeWorkspaceFoldersParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	// A folder with an unparseable URI is dropped from the batch; the
	// rest of the event still applies.
	removed := make([]*url.URL, 0, len(params.Event.Removed))
	for _, wf := range params.Event.Removed {
		u, err := parseURI(wf.URI)
		if err != nil {
			slog.WarnContext(ctx, "skipping removed folder", "uri", wf.URI, "error", err)
			continue
		}
		removed = append(removed, u)
	}
	added := make([]workspace.FolderInfo, 0, len(params.Event.Added))
	for _, wf := range params.Event.Added {
		u, err := parseURI(wf.URI)
		if err != nil {
			slog.WarnContext(ctx, "skipping added folder", "uri", wf.URI, "error", err)
			continue
		}
		added = append(added, workspace.FolderInfo{URI: u, Name: wf.Name})
	}

	h.manager.DidChangeFolders(workspace.ChangeEvent{Removed: removed, Added: added})
	return nil, nil
}
