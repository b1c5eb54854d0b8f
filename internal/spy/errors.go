package spy

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported means the scope cannot be measured, so visibility
	// cannot be observed on it.
	ErrUnsupported = errors.New("visibility observation unsupported")

	// ErrStarted is returned by Start on a context that is already running.
	ErrStarted = errors.New("scroll-spy context already started")
)

// ConfigurationError reports an invalid region/control mapping passed to
// Context.Start.
type ConfigurationError struct {
	Context string // context name, may be empty
	Key     string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	prefix := "scroll-spy"
	if e.Context != "" {
		prefix = fmt.Sprintf("scroll-spy %q", e.Context)
	}
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", prefix, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %q", prefix, e.Reason, e.Key)
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
