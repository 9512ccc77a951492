package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"

	"github.com/driftlint/driftls/pkg/workspace"
)

// logListener forwards folder lifecycle changes to the client's log.
type logListener struct {
	srv *jrpc2.Server
}

func (l *logListener) Added(f *workspace.Folder) {
	l.log("workspace folder added: " + f.Key())
}

func (l *logListener) Removed(f *workspace.Folder) {
	l.log("workspace folder removed: " + f.Key())
}

func (l *logListener) log(message string) {
	if l.srv == nil {
		return
	}
	_ = l.srv.Notify(context.Background(), "window/logMessage", &LogMessageParams{
		Type:    LogInfo,
		Message: message,
	})
}
