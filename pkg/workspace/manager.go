package workspace

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"sync"
)

// FolderInfo names one workspace root as delivered by the client.
type FolderInfo struct {
	URI  *url.URL
	Name string
}

// ChangeEvent is one decoded workspace folder change notification:
// roots that left the session and roots that joined it.
type ChangeEvent struct {
	Removed []*url.URL
	Added   []FolderInfo
}

// Manager is the single source of truth for which workspace folders are
// open. It is safe for concurrent use; one mutex guards both readers
// and writers, which is plenty for a handful of folders.
type Manager struct {
	settings SettingsRefresher

	mu        sync.Mutex
	folders   map[string]*Folder
	listeners []Listener
}

// NewManager creates an empty registry. The settings refresher may be
// nil when no settings subsystem is wired in.
func NewManager(settings SettingsRefresher) *Manager {
	return &Manager{
		settings: settings,
		folders:  make(map[string]*Folder),
	}
}

// Initialize seeds the registry with the folders open at startup. No
// lifecycle events fire; listeners attach later in the lifecycle. If
// the same root URI appears twice the last entry wins.
func (m *Manager) Initialize(folders []FolderInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, wf := range folders {
		m.folders[wf.URI.String()] = newFolder(wf.URI, wf.Name)
	}
}

// DidChangeFolders applies one folder change event: all removals first,
// then all additions, firing exactly one listener callback per
// effective mutation, in that order.
//
// Removing an unknown folder and re-adding a known one are protocol
// anomalies, not errors: they are logged and skipped so the rest of the
// batch still applies. A duplicate addition keeps the existing record
// untouched, so an in-flight settings snapshot is never orphaned.
func (m *Manager) DidChangeFolders(event ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, uri := range event.Removed {
		key := uri.String()
		folder, ok := m.folders[key]
		if !ok {
			slog.Warn("removed workspace folder was not registered", "uri", key)
			continue
		}
		delete(m.folders, key)
		for _, l := range m.listeners {
			dispatch(l.Removed, folder)
		}
	}

	for _, wf := range event.Added {
		key := wf.URI.String()
		if _, ok := m.folders[key]; ok {
			slog.Warn("added workspace folder was already registered", "uri", key)
			continue
		}
		folder := newFolder(wf.URI, wf.Name)
		m.folders[key] = folder
		for _, l := range m.listeners {
			dispatch(l.Added, folder)
		}
	}
}

// FindFolderForFile returns the registered folder that owns fileURI, or
// nil when no registered root contains it. When nested roots both
// contain the file the deepest one wins (longest path); ties break by
// canonical URI order so the answer is stable across calls.
func (m *Manager) FindFolderForFile(fileURI *url.URL) (*Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []*Folder
	for _, folder := range m.folders {
		ok, err := IsAncestor(folder.URI(), fileURI)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, folder)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		pi, pj := len(candidates[i].URI().Path), len(candidates[j].URI().Path)
		if pi != pj {
			return pi > pj
		}
		return candidates[i].Key() < candidates[j].Key()
	})
	if len(candidates) > 1 {
		slog.Debug("multiple workspace folders contain file, picking the deepest",
			"file", fileURI.String(), "picked", candidates[0].Key())
	}
	return candidates[0], nil
}

// All returns a snapshot of the currently open folders, in no
// particular order.
func (m *Manager) All() []*Folder {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Folder, 0, len(m.folders))
	for _, f := range m.folders {
		out = append(out, f)
	}
	return out
}

// DidChangeConfiguration pushes every open folder to the settings
// subsystem for a refresh. The refreshes are fire-and-forget and run
// without the registry lock held; only the snapshot walk is locked.
func (m *Manager) DidChangeConfiguration(ctx context.Context) {
	if m.settings == nil {
		return
	}
	for _, f := range m.All() {
		m.settings.RefreshFolderSettingsAsync(ctx, f)
	}
}

// AddListener registers a lifecycle listener. Listeners fire in
// registration order; registering the same listener twice means it
// fires twice.
func (m *Manager) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// RemoveListener unregisters the first occurrence of l.
func (m *Manager) RemoveListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.listeners {
		if cur == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}
