package watcher

import "context"

// FileWatcher monitors source files for changes with debouncing.
type FileWatcher interface {
	// Start begins watching, calling callback with each debounced batch of
	// changed files in sorted order.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources. It is safe to call
	// more than once.
	Stop() error
}
