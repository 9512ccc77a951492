package workspace

import "log/slog"

// Listener observes folder lifecycle changes. Callbacks run
// synchronously on the goroutine applying the change, in listener
// registration order. A callback must not call back into the Manager.
type Listener interface {
	Added(f *Folder)
	Removed(f *Folder)
}

// dispatch runs one listener callback, containing a panic so the
// remaining listeners for the same event still fire.
func dispatch(fn func(*Folder), f *Folder) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("workspace folder listener panicked", "folder", f.Key(), "panic", r)
		}
	}()
	fn(f)
}
