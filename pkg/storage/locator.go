package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveDownloadURL turns a tmpfiles-style locator such as
// "http://tmpfiles.org/8499799/abc123.pdf" into its direct download form
// "{base}/dl/8499799/abc123.pdf". The id and file name are the last two path
// segments. An empty base keeps the locator's own scheme and host.
func ResolveDownloadURL(base, locator string) (string, error) {
	u, err := parseAbsolute(locator)
	if err != nil {
		return "", err
	}

	segs := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	if len(segs) < 2 {
		return "", fmt.Errorf("%w: %q has no id/filename path", ErrLocatorFormat, locator)
	}
	id, name := segs[len(segs)-2], segs[len(segs)-1]
	if id == "" || name == "" {
		return "", fmt.Errorf("%w: %q has an empty id or filename", ErrLocatorFormat, locator)
	}

	if base == "" {
		base = u.Scheme + "://" + u.Host
	}
	return strings.TrimRight(base, "/") + "/dl/" + id + "/" + name, nil
}

// ValidateURL checks that locator is already a directly usable http(s) URL.
func ValidateURL(locator string) (string, error) {
	u, err := parseAbsolute(locator)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func parseAbsolute(locator string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(locator))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrLocatorFormat, locator, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrLocatorFormat, locator)
	}
	return u, nil
}
