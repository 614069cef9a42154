// Package watcher reports changes to benchmark texts so a comparison can be
// re-run.
//
// A Watcher observes a set of directories without recursing, through
// fsnotify when available and by polling otherwise. Raw events are filtered
// to tracked files and debounced into batches, so an editor's
// write-rename-chmod burst triggers a single re-run.
//
//	w, err := watcher.New([]string{"data"}, watcher.Options{Filter: tracked})
//	if err != nil {
//	    return err
//	}
//	go func() { _ = w.Run(ctx) }()
//
//	for batch := range w.Events() {
//	    // invalidate and re-run
//	}
package watcher
