package errors

import (
	"path"
	"strings"
	"unicode"
)

// Limits on caller-supplied values. The HTTP request validators use the
// same bounds.
const (
	MaxPathLength = 4096
	MaxDepth      = 64
	MaxNodeCap    = 100_000
)

// ValidatePath checks a document path relative to the document root. Paths
// are slash-separated, since they double as document identity. Absolute
// paths, ".." segments, backslashes and control characters are rejected.
func ValidatePath(p string) error {
	switch {
	case p == "":
		return New(ErrCodeInvalidPath, "path is empty")
	case len(p) > MaxPathLength:
		return New(ErrCodeInvalidPath, "path longer than %d bytes", MaxPathLength)
	case strings.ContainsFunc(p, unicode.IsControl):
		return New(ErrCodeInvalidPath, "path %q contains control characters", p)
	case strings.ContainsRune(p, '\\'):
		return New(ErrCodeInvalidPath, "path %q uses backslashes; use /", p)
	case path.IsAbs(p):
		return New(ErrCodeInvalidPath, "path %q must be relative to the document root", p)
	}
	for seg := range strings.SplitSeq(p, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path %q leaves the document root", p)
		}
	}
	return nil
}

// ValidateDepth checks a traversal depth. Zero means the focus alone.
func ValidateDepth(depth int) error {
	if depth < 0 || depth > MaxDepth {
		return New(ErrCodeInvalidInput, "max depth %d out of range [0, %d]", depth, MaxDepth)
	}
	return nil
}

// ValidateNodeCap checks a cap on loaded documents.
func ValidateNodeCap(n int) error {
	if n < 1 || n > MaxNodeCap {
		return New(ErrCodeInvalidInput, "max nodes %d out of range [1, %d]", n, MaxNodeCap)
	}
	return nil
}
