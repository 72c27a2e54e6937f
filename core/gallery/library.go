// Package gallery resolves numeric attachment IDs to on-disk relative
// file paths. WordPress galleries reference attachments by post ID; the
// path lives in the attachment's own _wp_attached_file meta, so the
// library is filled while the export streams and queried afterwards.
package gallery

import (
	"strings"

	"github.com/gaurav-prasanna/wxrpipe/core"
)

// AttachedFileKey is the attachment meta key carrying the relative path.
const AttachedFileKey = "_wp_attached_file"

// Ensure Library implements the interface.
var _ core.Resolver = (*Library)(nil)

// Library maps attachment post IDs to relative file paths.
type Library struct {
	paths map[string]string
}

// New creates an empty Library.
func New() *Library {
	return &Library{paths: make(map[string]string)}
}

// Add registers one attachment. Empty IDs and paths are ignored.
func (l *Library) Add(id, path string) {
	id = strings.TrimSpace(id)
	if id == "" || path == "" {
		return
	}
	l.paths[id] = path
}

// Len returns the number of registered attachments.
func (l *Library) Len() int {
	return len(l.paths)
}

// Lookup returns the path for one attachment ID.
func (l *Library) Lookup(id string) (string, bool) {
	path, ok := l.paths[strings.TrimSpace(id)]
	return path, ok
}

// Resolve maps each ID to its attachment path, echoing IDs with no known
// attachment back unchanged so nothing is lost.
func (l *Library) Resolve(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if path, ok := l.Lookup(id); ok {
			out[i] = path
		} else {
			out[i] = id
		}
	}
	return out
}
