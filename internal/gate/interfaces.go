// Package gate decides which files to format, runs the formatter over them
// and reports whether the commit may proceed.
package gate

import "context"

// ChangedFilesProvider lists paths that differ from a base reference.
type ChangedFilesProvider interface {
	ChangedFiles(ctx context.Context, baseRef string) ([]string, error)
}

// Formatter rewrites paths in place and reports whether anything changed.
type Formatter interface {
	Format(ctx context.Context, paths []string) (bool, error)
}
