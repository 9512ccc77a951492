package workspace

import (
	"net/url"
	"sync"
)

// Folder is the registry's record of one open workspace root.
//
// The settings snapshot is owned by the settings subsystem: it is
// replaced wholesale on refresh and the registry itself never reads or
// writes it beyond handing out the record.
type Folder struct {
	uri  *url.URL
	name string

	mu       sync.Mutex
	settings FolderSettings
}

func newFolder(uri *url.URL, name string) *Folder {
	return &Folder{uri: uri, name: name}
}

// URI returns the root URI identifying this folder.
func (f *Folder) URI() *url.URL { return f.uri }

// Name returns the display name the client gave the folder.
func (f *Folder) Name() string { return f.name }

// Key is the canonical string form of the root URI. Two folders are the
// same folder iff their keys match exactly.
func (f *Folder) Key() string { return f.uri.String() }

// Settings returns the folder's current settings snapshot.
func (f *Folder) Settings() FolderSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

// SetSettings replaces the folder's settings snapshot.
func (f *Folder) SetSettings(s FolderSettings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = s
}
