package lsp

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlint/driftls/pkg/settings"
	"github.com/driftlint/driftls/pkg/workspace"
)

// startServer wires a handler to an in-process jrpc2 server and returns
// a client talking to it over pipes, using the same LSP framing as the
// real stdio transport.
func startServer(t *testing.T, manager *workspace.Manager, settingsMgr *settings.Manager, copts *jrpc2.ClientOptions) *jrpc2.Client {
	t.Helper()

	clientRead, serverWrite := io.Pipe()
	serverRead, clientWrite := io.Pipe()

	handler := NewHandler(manager, settingsMgr)
	srv := jrpc2.NewServer(handler, &jrpc2.ServerOptions{AllowPush: true})
	handler.SetServer(srv)
	srv.Start(channel.LSP(serverRead, serverWrite))

	client := jrpc2.NewClient(channel.LSP(clientRead, clientWrite), copts)
	t.Cleanup(func() {
		_ = client.Close()
		srv.Stop()
	})
	return client
}

func TestInitializeAndListFolders(t *testing.T) {
	ctx := context.Background()
	manager := workspace.NewManager(nil)
	client := startServer(t, manager, nil, nil)

	rsp, err := client.Call(ctx, "initialize", InitializeParams{
		WorkspaceFolders: []WorkspaceFolder{
			{URI: "file:///projects/alpha", Name: "alpha"},
			{URI: "file:///projects/beta", Name: "beta"},
		},
	})
	require.NoError(t, err)

	var result InitializeResult
	require.NoError(t, rsp.UnmarshalResult(&result))
	require.NotNil(t, result.Capabilities.Workspace)
	assert.True(t, result.Capabilities.Workspace.WorkspaceFolders.Supported)
	assert.True(t, result.Capabilities.Workspace.WorkspaceFolders.ChangeNotifications)

	rsp, err = client.Call(ctx, "workspace/workspaceFolders", nil)
	require.NoError(t, err)

	var folders []WorkspaceFolder
	require.NoError(t, rsp.UnmarshalResult(&folders))
	assert.ElementsMatch(t, []WorkspaceFolder{
		{URI: "file:///projects/alpha", Name: "alpha"},
		{URI: "file:///projects/beta", Name: "beta"},
	}, folders)
}

func TestInitializeRootURIFallback(t *testing.T) {
	ctx := context.Background()
	manager := workspace.NewManager(nil)
	client := startServer(t, manager, nil, nil)

	_, err := client.Call(ctx, "initialize", InitializeParams{
		RootURI: "file:///projects/gamma",
	})
	require.NoError(t, err)

	all := manager.All()
	require.Len(t, all, 1)
	assert.Equal(t, "file:///projects/gamma", all[0].Key())
	assert.Equal(t, "gamma", all[0].Name())
}

func TestInitializeMissingParams(t *testing.T) {
	ctx := context.Background()
	client := startServer(t, workspace.NewManager(nil), nil, nil)

	_, err := client.Call(ctx, "initialize", nil)
	var jerr *jrpc2.Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, jrpc2.InvalidParams, jerr.Code)
}

func TestDidChangeWorkspaceFolders(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var notified []string
	copts := &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			mu.Lock()
			defer mu.Unlock()
			notified = append(notified, req.Method())
		},
	}

	manager := workspace.NewManager(nil)
	client := startServer(t, manager, nil, copts)

	_, err := client.Call(ctx, "initialize", InitializeParams{
		WorkspaceFolders: []WorkspaceFolder{{URI: "file:///projects/alpha", Name: "alpha"}},
	})
	require.NoError(t, err)
	require.NoError(t, client.Notify(ctx, "initialized", nil))

	err = client.Notify(ctx, "workspace/didChangeWorkspaceFolders", DidChangeWorkspaceFoldersParams{
		Event: WorkspaceFoldersChangeEvent{
			Removed: []WorkspaceFolder{{URI: "file:///projects/alpha", Name: "alpha"}},
			Added:   []WorkspaceFolder{{URI: "file:///projects/beta", Name: "beta"}},
		},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		all := manager.All()
		return len(all) == 1 && all[0].Key() == "file:///projects/beta"
	}, time.Second, 10*time.Millisecond)

	// The log listener pushed one message per lifecycle change.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		count := 0
		for _, m := range notified {
			if m == "window/logMessage" {
				count++
			}
		}
		return count == 2
	}, time.Second, 10*time.Millisecond)
}

func TestConfigurationRoundTrip(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var scopes []string
	copts := &jrpc2.ClientOptions{
		OnCallback: func(ctx context.Context, req *jrpc2.Request) (any, error) {
			if req.Method() != "workspace/configuration" {
				return nil, jrpc2.Errorf(jrpc2.MethodNotFound, "unexpected callback %q", req.Method())
			}
			var params struct {
				Items []struct {
					ScopeURI string `json:"scopeUri"`
					Section  string `json:"section"`
				} `json:"items"`
			}
			if err := req.UnmarshalParams(&params); err != nil {
				return nil, err
			}
			mu.Lock()
			for _, item := range params.Items {
				scopes = append(scopes, item.ScopeURI)
			}
			mu.Unlock()
			return []*workspace.FolderSettings{{TestFilePattern: "**/*_spec.rb"}}, nil
		},
	}

	settingsMgr := settings.NewManager(workspace.FolderSettings{
		AnalyzerProperties: map[string]string{"severity": "warning"},
	})
	manager := workspace.NewManager(settingsMgr)
	client := startServer(t, manager, settingsMgr, copts)

	_, err := client.Call(ctx, "initialize", InitializeParams{
		WorkspaceFolders: []WorkspaceFolder{{URI: "file:///projects/alpha", Name: "alpha"}},
	})
	require.NoError(t, err)
	require.NoError(t, client.Notify(ctx, "initialized", nil))

	// initialized kicks off a settings fetch for the seeded folder.
	require.Eventually(t, func() bool {
		all := manager.All()
		return len(all) == 1 && all[0].Settings().TestFilePattern == "**/*_spec.rb"
	}, time.Second, 10*time.Millisecond)

	got := manager.All()[0].Settings()
	assert.Equal(t, "warning", got.AnalyzerProperties["severity"])

	mu.Lock()
	assert.Contains(t, scopes, "file:///projects/alpha")
	mu.Unlock()

	// An explicit configuration change re-fetches every folder.
	require.NoError(t, client.Notify(ctx, "workspace/didChangeConfiguration", DidChangeConfigurationParams{}))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(scopes) >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestUnknownMethod(t *testing.T) {
	ctx := context.Background()
	client := startServer(t, workspace.NewManager(nil), nil, nil)

	_, err := client.Call(ctx, "textDocument/hover", nil)
	var jerr *jrpc2.Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, jrpc2.MethodNotFound, jerr.Code)
}
