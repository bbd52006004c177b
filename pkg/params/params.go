// Package params checks the parameter sets passed to generated operation methods.
// Outcomes are returned as values; nothing in this package panics or logs.
package params

import (
	"reflect"
	"sort"
	"strings"

	"github.com/tansive/sdkcore/internal/common/apperrors"
)

var (
	// ErrInvalidParams is the kind of every error produced by this package.
	ErrInvalidParams = apperrors.New("invalid parameters")

	// ErrMissingParams is returned by RequireParams.
	ErrMissingParams = ErrInvalidParams.New("missing required parameters")
)

// FindMissing returns the required names whose value is absent, nil or the empty string,
// in the order they were required. Zero numbers, false and empty collections are present.
// The result is nil when nothing is missing.
func FindMissing(params map[string]any, required []string) []string {
	var missing []string
	for _, name := range required {
		v, ok := params[name]
		if !ok || isNil(v) {
			missing = append(missing, name)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// RequireParams is FindMissing as an error, for callers that propagate rather than inspect.
func RequireParams(params map[string]any, required []string) error {
	missing := FindMissing(params, required)
	if len(missing) == 0 {
		return nil
	}
	return ErrMissingParams.Msg("Missing required parameters: " + strings.Join(missing, ", "))
}

// Result is the outcome of Validate: either success or a single aggregated validation error.
type Result struct {
	Missing []string
	Invalid []string
	err     error
}

// OK reports whether validation passed.
func (r Result) OK() bool {
	return r.err == nil
}

// Err returns the aggregated error, or nil on success.
func (r Result) Err() error {
	return r.err
}

// Validate checks params against the required names and the allowed names. Missing names
// keep the required order; keys not in allowed are reported sorted.
func Validate(params map[string]any, required []string, allowed []string) Result {
	missing := FindMissing(params, required)

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = struct{}{}
	}
	var invalid []string
	for k := range params {
		if _, ok := allowedSet[k]; !ok {
			invalid = append(invalid, k)
		}
	}
	sort.Strings(invalid)

	if len(missing) == 0 && len(invalid) == 0 {
		return Result{}
	}

	var lines []string
	if len(missing) > 0 {
		lines = append(lines, "Missing required parameters: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		lines = append(lines, "Found invalid parameters: "+strings.Join(invalid, ", "))
	}
	return Result{
		Missing: missing,
		Invalid: invalid,
		err:     ErrInvalidParams.Msg(strings.Join(lines, "\n")),
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
