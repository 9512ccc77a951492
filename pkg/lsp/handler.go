// Package lsp exposes the workspace folder registry over the Language
// Server Protocol. The protocol layer stays thin: it decodes params,
// hands them to the registry, and encodes the answer.
package lsp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/creachadair/jrpc2"

	"github.com/driftlint/driftls/pkg/settings"
	"github.com/driftlint/driftls/pkg/workspace"
)

// Handler routes LSP requests to the workspace registry.
type Handler struct {
	manager  *workspace.Manager
	settings *settings.Manager
	srv      *jrpc2.Server
}

// NewHandler creates the JSON-RPC handler for this language server. The
// settings manager may be nil when no settings subsystem is wired in.
func NewHandler(manager *workspace.Manager, settings *settings.Manager) *Handler {
	return &Handler{manager: manager, settings: settings}
}

// SetServer attaches the running server so the handler can push
// notifications and configuration requests to the client.
func (h *Handler) SetServer(srv *jrpc2.Server) {
	h.srv = srv
	if h.settings != nil {
		h.settings.SetClient(srv)
	}
}

// Assign implements jrpc2.Assigner. Unassigned methods are answered
// with MethodNotFound by the server.
func (h *Handler) Assign(ctx context.Context, method string) jrpc2.Handler {
	switch method {
	case "initialize":
		return h.handleInitialize
	case "initialized":
		return h.handleInitialized
	case "shutdown":
		return h.handleShutdown
	case "workspace/workspaceFolders":
		return h.handleWorkspaceWorkspaceFolders
	case "workspace/didChangeWorkspaceFolders":
		return h.handleWorkspaceDidChangeWorkspaceFolders
	case "workspace/didChangeConfiguration":
		return h.handleWorkspaceDidChangeConfiguration
	}
	return nil
}

// parseURI parses an LSP document URI into a structured URL.
func parseURI(uri DocumentURI) (*url.URL, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return nil, fmt.Errorf("invalid URI %q: %w", uri, err)
	}
	return u, nil
}

func decodeFolders(wire []WorkspaceFolder) ([]workspace.FolderInfo, error) {
	folders := make([]workspace.FolderInfo, 0, len(wire))
	for _, wf := range wire {
		u, err := parseURI(wf.URI)
		if err != nil {
			return nil, err
		}
		folders = append(folders, workspace.FolderInfo{URI: u, Name: wf.Name})
	}
	return folders, nil
}
