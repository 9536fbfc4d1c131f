package util

import (
	"regexp"
	"strings"
)

var unsafeNameRegexp = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const maxDirNameLength = 255

// SafeDirName turns a repository name into a single, non-hidden path
// element that cannot escape its parent directory.
func SafeDirName(name string) string {
	safe := unsafeNameRegexp.ReplaceAllString(strings.TrimSpace(name), "-")
	safe = strings.TrimLeft(safe, ".-")
	if safe == "" {
		safe = "repo"
	}
	if len(safe) > maxDirNameLength {
		safe = safe[:maxDirNameLength]
	}
	return safe
}
