package credentials

import (
	"fmt"
	"sort"
	"strings"
)

const badChars = `{}"`

// HasBadFirstOrLastChar reports whether s starts or ends with a brace or a double quote,
// which usually means a value was pasted together with its surrounding JSON.
func HasBadFirstOrLastChar(s string) bool {
	if s == "" {
		return false
	}
	return strings.ContainsRune(badChars, rune(s[0])) || strings.ContainsRune(badChars, rune(s[len(s)-1]))
}

// Check validates credential-like values. The first offending field, in name order, is reported.
func Check(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if HasBadFirstOrLastChar(fields[name]) {
			return ErrInvalidCredential.Msg(fmt.Sprintf(
				"the %s shouldn't start or end with curly brackets or quotes; be sure to remove any {, } and \" from the %s",
				name, name))
		}
	}
	return nil
}
