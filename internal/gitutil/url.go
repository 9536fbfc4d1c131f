package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var mrURLRegex = regexp.MustCompile(`^(?:https?://)?([^/]+)/(.+?)/-/merge_requests/(\d+)$`)

// ParseMergeRequestURL parses a GitLab merge request URL and extracts the
// instance host, the project path (which may include subgroups) and the IID.
// Supported format: https://{host}/{group}[/{subgroup}...]/{project}/-/merge_requests/{iid}
func ParseMergeRequestURL(url string) (host, projectPath string, iid int64, err error) {
	// Normalize URL
	url = strings.TrimSuffix(url, "/")

	matches := mrURLRegex.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid merge request URL format: %s", url)
	}

	host = matches[1]
	projectPath = matches[2]
	iidStr := matches[3]

	iid, err = strconv.ParseInt(iidStr, 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid merge request IID '%s': %w", iidStr, err)
	}

	return host, projectPath, iid, nil
}
