package ports

// Watcher monitors a content directory for bank file changes so the server can
// reload without a restart. The adapter (fsnotify) filters out files that are
// not bank sources and coalesces bursts before invoking onChange. Only one
// Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring dir. onChange is called with the absolute path
	// of a changed file. The callback may be invoked from any goroutine.
	// Returns an error if the directory doesn't exist or permissions are
	// insufficient.
	Watch(dir string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
