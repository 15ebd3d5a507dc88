package githubsource

import (
	"fmt"
	"strings"
)

// URLType identifies which shape of GitHub URL was parsed.
type URLType int

const (
	Raw URLType = iota
	Tree
	Blob
	Repository
)

// URL is a parsed reference to a file inside a GitHub repository.
type URL struct {
	Owner     string
	Repo      string
	Path      string
	Reference string // branch, tag, or commit
}

// ParseURL parses a GitHub URL in any of its common shapes:
//   - raw content: https://raw.githubusercontent.com/owner/repo/ref/path
//   - tree: https://github.com/owner/repo/tree/ref/path
//   - blob: https://github.com/owner/repo/blob/ref/path
//   - bare repository path: owner/repo/path (assumes the main branch)
func ParseURL(raw string) (URL, URLType, error) {
	switch {
	case strings.Contains(raw, "raw.githubusercontent.com"):
		return parseRawURL(raw)
	case strings.Contains(raw, "github.com") && strings.Contains(raw, "/tree/"):
		return parseGitHubComURL(raw, "tree", Tree)
	case strings.Contains(raw, "github.com") && strings.Contains(raw, "/blob/"):
		return parseGitHubComURL(raw, "blob", Blob)
	case !strings.HasPrefix(raw, "http") && strings.Count(raw, "/") >= 2:
		return parseRepositoryPath(raw)
	default:
		return URL{}, 0, newError(URLParsing, fmt.Sprintf("unsupported GitHub URL format: %s", raw))
	}
}

func parseRawURL(raw string) (URL, URLType, error) {
	parts := strings.Split(raw, "/")
	if len(parts) < 7 || parts[2] != "raw.githubusercontent.com" {
		return URL{}, 0, newError(URLParsing, fmt.Sprintf("invalid raw content URL format: %s", raw))
	}
	return URL{
		Owner:     parts[3],
		Repo:      parts[4],
		Reference: parts[5],
		Path:      strings.Join(parts[6:], "/"),
	}, Raw, nil
}

func parseGitHubComURL(raw, marker string, urlType URLType) (URL, URLType, error) {
	parts := strings.Split(raw, "/")
	if len(parts) < 7 || parts[2] != "github.com" || parts[5] != marker {
		return URL{}, 0, newError(URLParsing, fmt.Sprintf("invalid %s URL format: %s", marker, raw))
	}
	path := ""
	if len(parts) > 7 {
		path = strings.Join(parts[7:], "/")
	}
	return URL{
		Owner:     parts[3],
		Repo:      parts[4],
		Reference: parts[6],
		Path:      path,
	}, urlType, nil
}

func parseRepositoryPath(path string) (URL, URLType, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return URL{}, 0, newError(URLParsing, fmt.Sprintf("invalid repository path format: %s", path))
	}
	return URL{
		Owner:     parts[0],
		Repo:      parts[1],
		Path:      strings.Join(parts[2:], "/"),
		Reference: "main",
	}, Repository, nil
}

// ToRawURL renders the URL as a raw.githubusercontent.com content URL.
func (u URL) ToRawURL() string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", u.Owner, u.Repo, u.Reference, u.Path)
}

// ToAPIURL renders the URL as a GitHub contents-API URL.
func (u URL) ToAPIURL() string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/contents/%s?ref=%s", u.Owner, u.Repo, u.Path, u.Reference)
}

func (u URL) String() string {
	return fmt.Sprintf("%s/%s/%s@%s", u.Owner, u.Repo, u.Path, u.Reference)
}

// ParseSourceKey parses the string a URL.String() call produced back into
// a URL, so a cache key recovered from storage can be re-fetched.
func ParseSourceKey(key string) (URL, error) {
	atIdx := strings.LastIndex(key, "@")
	if atIdx < 0 {
		return URL{}, newError(URLParsing, fmt.Sprintf("invalid source key: %s", key))
	}
	reference := key[atIdx+1:]
	parts := strings.SplitN(key[:atIdx], "/", 3)
	if len(parts) < 3 {
		return URL{}, newError(URLParsing, fmt.Sprintf("invalid source key: %s", key))
	}
	return URL{Owner: parts[0], Repo: parts[1], Path: parts[2], Reference: reference}, nil
}
