package profile

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidName is wrapped by every name validation failure.
var ErrInvalidName = errors.New("invalid profile name")

// maxSocketPath is the smallest sun_path limit among supported platforms,
// minus the terminating NUL.
const maxSocketPath = 103

var nameRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateName checks that name is a usable profile directory name: lower
// case letters, digits, '-' and '_', starting with a letter or digit.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("%w %q: use 1-64 of [a-z0-9_-], starting with a letter or digit", ErrInvalidName, name)
	}
	return nil
}

// CheckSocketPath reports an error when the profile's socket path would not
// fit in a unix socket address.
func CheckSocketPath(name string) error {
	if p := SocketPath(name); len(p) > maxSocketPath {
		return fmt.Errorf("socket path %s is %d bytes, the limit is %d: set %s to a shorter directory", p, len(p), maxSocketPath, HomeEnv)
	}
	return nil
}
