// Package settings fetches per-folder analysis settings from the
// client and applies them to workspace folder records.
package settings

import (
	"context"
	"log/slog"
	"sync"

	"github.com/creachadair/jrpc2"
	"golang.org/x/sync/errgroup"

	"github.com/driftlint/driftls/pkg/workspace"
)

// Requester issues server-to-client requests. *jrpc2.Server satisfies
// it once the connection is up.
type Requester interface {
	Callback(ctx context.Context, method string, params any) (*jrpc2.Response, error)
}

// configurationParams mirrors the LSP workspace/configuration request.
type configurationParams struct {
	Items []configurationItem `json:"items"`
}

type configurationItem struct {
	ScopeURI string `json:"scopeUri,omitempty"`
	Section  string `json:"section,omitempty"`
}

// Manager fetches folder settings over workspace/configuration and
// stores the result on the folder record. It also implements
// workspace.Listener so that newly opened folders get a snapshot as
// soon as they are added; until the client answers (or when no client
// is attached yet) folders carry the server defaults.
type Manager struct {
	defaults workspace.FolderSettings
	group    *errgroup.Group

	mu     sync.Mutex
	client Requester
}

// NewManager creates a settings manager whose fallback for every folder
// is the given defaults.
func NewManager(defaults workspace.FolderSettings) *Manager {
	g := new(errgroup.Group)
	// Keep a lid on concurrent configuration round trips; editors answer
	// them one at a time anyway.
	g.SetLimit(4)
	return &Manager{defaults: defaults, group: g}
}

// SetClient attaches the connection used for workspace/configuration
// requests. Refreshes issued before this point fall back to defaults.
func (m *Manager) SetClient(c Requester) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.client = c
}

func (m *Manager) requester() Requester {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// RefreshFolderSettingsAsync starts a refresh for one folder and
// returns immediately. Implements workspace.SettingsRefresher.
func (m *Manager) RefreshFolderSettingsAsync(ctx context.Context, f *workspace.Folder) {
	// The refresh outlives the request that triggered it.
	ctx = context.WithoutCancel(ctx)
	m.group.Go(func() error {
		m.refresh(ctx, f)
		return nil
	})
}

// refresh performs one workspace/configuration round trip scoped to the
// folder and replaces its settings snapshot. Failures leave the current
// snapshot in place.
func (m *Manager) refresh(ctx context.Context, f *workspace.Folder) {
	client := m.requester()
	if client == nil {
		f.SetSettings(m.defaults)
		return
	}

	rsp, err := client.Callback(ctx, "workspace/configuration", configurationParams{
		Items: []configurationItem{{ScopeURI: f.Key(), Section: "driftls"}},
	})
	if err != nil {
		slog.Warn("failed to fetch folder settings", "folder", f.Key(), "error", err)
		return
	}

	// The client answers with one entry per requested item.
	var configs []*workspace.FolderSettings
	if err := rsp.UnmarshalResult(&configs); err != nil {
		slog.Warn("malformed folder settings from client", "folder", f.Key(), "error", err)
		return
	}

	s := m.defaults
	if len(configs) > 0 && configs[0] != nil {
		s = merged(m.defaults, *configs[0])
	}
	f.SetSettings(s)
	slog.Debug("applied folder settings", "folder", f.Key())
}

// merged overlays the client's values on the server defaults. Scalar
// fields replace when set; maps overlay key by key.
func merged(defaults, got workspace.FolderSettings) workspace.FolderSettings {
	out := got
	if out.TestFilePattern == "" {
		out.TestFilePattern = defaults.TestFilePattern
	}
	out.AnalyzerProperties = overlay(defaults.AnalyzerProperties, got.AnalyzerProperties)
	out.Rules = overlay(defaults.Rules, got.Rules)
	return out
}

func overlay(base, top map[string]string) map[string]string {
	if len(base) == 0 {
		return top
	}
	out := make(map[string]string, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// Added implements workspace.Listener: a newly opened folder gets its
// settings fetched immediately.
func (m *Manager) Added(f *workspace.Folder) {
	m.RefreshFolderSettingsAsync(context.Background(), f)
}

// Removed implements workspace.Listener. Nothing to clean up; the
// snapshot dies with the folder record.
func (m *Manager) Removed(f *workspace.Folder) {}

// Close waits for in-flight refreshes to finish.
func (m *Manager) Close() error {
	return m.group.Wait()
}
