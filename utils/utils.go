// Package utils holds the slash and key arithmetic shared by drivers and the
// file API layer. Driver keys are slash-separated and carry no leading slash.
package utils

import (
	"errors"
	"path"
	"strings"
)

// ErrBadKey is returned when a key is empty, absolute, or escapes its root.
const ErrBadKey = "key is invalid - may not be empty, absolute, or reference a parent directory"

// RemoveTrailingSlash removes trailing slash, if any
func RemoveTrailingSlash(p string) string {
	return strings.TrimRight(p, "/")
}

// RemoveLeadingSlash removes leading slash, if any
func RemoveLeadingSlash(p string) string {
	return strings.TrimLeft(p, "/")
}

// EnsureTrailingSlash adds a trailing slash if one isn't present. Always /,
// never a Windows separator: keys are web-style paths.
func EnsureTrailingSlash(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// JoinKey joins key segments with slashes, cleans the result, and strips any
// leading slash so the result is a valid driver key. Empty segments drop out.
func JoinKey(segments ...string) string {
	joined := path.Join(segments...)
	if joined == "." {
		return ""
	}
	return RemoveLeadingSlash(joined)
}

// ValidateKey ensures a key names an object beneath the container root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return errors.New(ErrBadKey)
	}
	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return errors.New(ErrBadKey)
	}
	return nil
}

// PrefixMatch reports whether key sits under prefix. An empty prefix matches
// every key. Matching is segment-aware: prefix "notes" matches "notes" and
// "notes/a.md" but not "notes-archive/a.md".
func PrefixMatch(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(key, prefix)
	}
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}
