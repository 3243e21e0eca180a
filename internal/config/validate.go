package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptySources indicates no source patterns were configured
	ErrEmptySources = errors.New("empty source patterns")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidCacheSize indicates a non-positive cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidMaxFiles indicates a negative file limit
	ErrInvalidMaxFiles = errors.New("invalid max files")

	// ErrInvalidFormat indicates an unknown output format
	ErrInvalidFormat = errors.New("invalid output format")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateSearch(&cfg.Search); err != nil {
		errs = append(errs, err)
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	if len(cfg.Sources) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one source pattern required", ErrEmptySources))
	}

	for _, pattern := range append(append([]string{}, cfg.Sources...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	return joinErrors(errs)
}

func validateSearch(cfg *SearchConfig) error {
	var errs []error

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if cfg.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	// zero means no limit
	if cfg.MaxFiles < 0 {
		errs = append(errs, fmt.Errorf("%w: max_files cannot be negative, got %d", ErrInvalidMaxFiles, cfg.MaxFiles))
	}

	return joinErrors(errs)
}

func validateOutput(cfg *OutputConfig) error {
	format := strings.ToLower(cfg.Format)
	if format != FormatJSON && format != FormatText {
		return fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidFormat, FormatJSON, FormatText, cfg.Format)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every joined error with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &multiError{errs: errs}
}

type multiError struct {
	errs []error
}

func (m *multiError) Error() string {
	msgs := make([]string, 0, len(m.errs))
	for _, err := range m.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (m *multiError) Unwrap() []error {
	return m.errs
}
