package links

import "errors"

var (
	errNotAbsolute = errors.New("url is not absolute")
	errScheme      = errors.New("url must start with http:// or https://")
	errEmptyHost   = errors.New("url has no host")
	errInvalidHost = errors.New("url host is malformed")
	errInvalidPort = errors.New("url port is out of range")
)
