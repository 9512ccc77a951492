package workspace

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// IsAncestor reports whether fileURI points inside the tree rooted at
// folderURI. Containment is only defined for hierarchical URIs; passing
// an opaque URI is a programming error and yields an error.
//
// URIs under different schemes, hosts or ports never contain one
// another. File URIs are compared segment-wise with native path
// semantics, so /foo does not contain /foobar. Every other hierarchical
// scheme is compared by splitting the paths on "/" and requiring the
// folder's segments to be a prefix of the file's.
func IsAncestor(folderURI, fileURI *url.URL) (bool, error) {
	if folderURI.Opaque != "" {
		return false, fmt.Errorf("containment is undefined for opaque URI %q", folderURI)
	}
	if fileURI.Opaque != "" {
		return false, fmt.Errorf("containment is undefined for opaque URI %q", fileURI)
	}
	if !strings.EqualFold(folderURI.Scheme, fileURI.Scheme) {
		return false, nil
	}
	if folderURI.Hostname() != fileURI.Hostname() {
		return false, nil
	}
	if folderURI.Port() != fileURI.Port() {
		return false, nil
	}

	if strings.EqualFold(folderURI.Scheme, "file") {
		return isPathAncestor(folderURI.Path, fileURI.Path), nil
	}

	// Other hierarchical schemes have no platform path semantics; "/" is
	// the folder separator.
	folderSegs := strings.Split(strings.TrimSuffix(folderURI.Path, "/"), "/")
	fileSegs := strings.Split(strings.TrimSuffix(fileURI.Path, "/"), "/")
	if len(folderSegs) > len(fileSegs) {
		return false, nil
	}
	for i, seg := range folderSegs {
		if fileSegs[i] != seg {
			return false, nil
		}
	}
	return true, nil
}

// isPathAncestor compares file-scheme paths natively. A folder contains
// itself; anything whose relative path escapes upward is outside.
func isPathAncestor(folderPath, filePath string) bool {
	rel, err := filepath.Rel(
		filepath.Clean(filepath.FromSlash(folderPath)),
		filepath.Clean(filepath.FromSlash(filePath)),
	)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
