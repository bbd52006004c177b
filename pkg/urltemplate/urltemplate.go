// Package urltemplate expands parameterized service URLs such as
// "{scheme}://{region}.example.com/{version}".
package urltemplate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tansive/sdkcore/internal/common/apperrors"
)

// ErrInvalidVariable is returned when a provided variable is not one of the defaults.
var ErrInvalidVariable = apperrors.New("invalid URL variable")

// Expand substitutes variables into template. defaults holds every legal variable name with
// its default value; provided overrides some of them and may be nil. Each name replaces
// the first occurrence of its {name} placeholder only.
func Expand(template string, defaults map[string]string, provided map[string]string) (string, error) {
	names := sortedKeys(defaults)

	for _, name := range sortedKeys(provided) {
		if _, ok := defaults[name]; !ok {
			return "", ErrInvalidVariable.Msg(fmt.Sprintf(
				"'%s' is an invalid variable name; valid variable names: [%s]",
				name, strings.Join(names, ", ")))
		}
	}

	url := template
	for _, name := range names {
		value, ok := provided[name]
		if !ok {
			value = defaults[name]
		}
		url = strings.Replace(url, "{"+name+"}", value, 1)
	}
	return url, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
