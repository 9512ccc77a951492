package workspace

import "context"

// FolderSettings is the per-folder analysis configuration supplied by
// the client, with server defaults filling the gaps. The zero value
// means "use defaults for everything".
type FolderSettings struct {
	// TestFilePattern is a glob matching files analyzed as test code.
	TestFilePattern string `json:"testFilePattern,omitempty"`

	// AnalyzerProperties are free-form properties forwarded to analyzers.
	AnalyzerProperties map[string]string `json:"analyzerProperties,omitempty"`

	// Rules maps rule keys to "on" or "off" overrides.
	Rules map[string]string `json:"rules,omitempty"`
}

// SettingsRefresher is the narrow view of the settings subsystem the
// registry needs: start a settings refresh for one folder without
// waiting for the result.
type SettingsRefresher interface {
	RefreshFolderSettingsAsync(ctx context.Context, f *Folder)
}
