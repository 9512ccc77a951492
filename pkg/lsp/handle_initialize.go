package lsp

import (
	"context"
	"path"

	"github.com/creachadair/jrpc2"

	"github.com/driftlint/driftls/pkg/workspace"
)

func (h *Handler) handleInitialize(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params InitializeParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	folders, err := decodeFolders(params.WorkspaceFolders)
	if err != nil {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "workspace folders: %v", err)
	}
	if len(folders) == 0 && params.RootURI != "" {
		// Older clients send a single root URI instead of folders.
		u, err := parseURI(params.RootURI)
		if err != nil {
			return nil, jrpc2.Errorf(jrpc2.InvalidParams, "root URI: %v", err)
		}
		folders = []workspace.FolderInfo{{URI: u, Name: path.Base(u.Path)}}
	}
	h.manager.Initialize(folders)

	return InitializeResult{
		Capabilities: ServerCapabilities{
			Workspace: &ServerCapabilitiesWorkspace{
				WorkspaceFolders: WorkspaceFoldersServerCapabilities{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
	}, nil
}
