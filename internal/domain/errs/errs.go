// Package errs holds the error kinds shared by every layer. Domain
// sentinels wrap one of these so callers can branch with errors.Is
// without knowing the concrete sentinel.
package errs

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage unavailable")
	ErrConfiguration = errors.New("configuration incomplete")
)

// Kind returns the kind err belongs to, or nil when it has none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrConfiguration, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
