package links

import (
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

const defaultScheme = "https://"

// Host code points that never appear in a valid host.
const forbiddenHostChars = " \t\n\r#%/:<>?@[\\]^|"

// Normalize trims raw and prefixes https:// unless it already starts with
// http:// or https:// (any case).
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if hasHTTPScheme(trimmed) {
		return trimmed
	}
	return defaultScheme + trimmed
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Validate reports whether raw normalizes to a well-formed absolute URL.
// Empty input is never valid.
func Validate(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	_, err := Parse(Normalize(raw))
	return err == nil
}

// Check normalizes raw and reports its validity in one call.
func Check(raw string) (normalized string, valid bool) {
	return Normalize(raw), Validate(raw)
}

// Parse parses s as an absolute http(s) URL with a usable host. Only the
// scheme and authority decide validity: path, query and fragment are taken
// as-is, so a stray '%' or a '\' separator does not make the URL invalid.
func Parse(s string) (*url.URL, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return nil, &url.Error{Op: "parse", URL: s, Err: errNotAbsolute}
	}
	scheme = strings.ToLower(scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &url.Error{Op: "parse", URL: s, Err: errScheme}
	}

	// Backslashes act as slashes for http(s).
	rest = strings.TrimLeft(rest, `/\`)
	end := strings.IndexAny(rest, `/\?#`)
	if end < 0 {
		end = len(rest)
	}
	authority, tail := rest[:end], rest[end:]

	u, err := url.Parse(scheme + "://" + authority)
	if err != nil {
		return nil, err
	}
	if err := validateHost(u); err != nil {
		return nil, &url.Error{Op: "parse", URL: s, Err: err}
	}

	tail, u.Fragment, _ = strings.Cut(tail, "#")
	tail, u.RawQuery, _ = strings.Cut(tail, "?")
	u.Path = strings.ReplaceAll(tail, `\`, "/")

	return u, nil
}

func validateHost(u *url.URL) error {
	host := u.Hostname()
	if host == "" {
		return errEmptyHost
	}

	if strings.HasPrefix(u.Host, "[") {
		if _, err := netip.ParseAddr(host); err != nil {
			return errInvalidHost
		}
	} else if strings.ContainsAny(host, forbiddenHostChars) {
		return errInvalidHost
	}

	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n > 65535 {
			return errInvalidPort
		}
	}

	return nil
}
