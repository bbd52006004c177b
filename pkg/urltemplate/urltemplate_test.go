package urltemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	defaults := map[string]string{"scheme": "https", "ver": "v1"}

	tests := []struct {
		name     string
		template string
		provided map[string]string
		expected string
	}{
		{
			name:     "nil provided uses defaults",
			template: "{scheme}://x.com/{ver}",
			provided: nil,
			expected: "https://x.com/v1",
		},
		{
			name:     "empty provided uses defaults",
			template: "{scheme}://x.com/{ver}",
			provided: map[string]string{},
			expected: "https://x.com/v1",
		},
		{
			name:     "provided overrides default",
			template: "{scheme}://x.com/{ver}",
			provided: map[string]string{"ver": "v2"},
			expected: "https://x.com/v2",
		},
		{
			name:     "template without placeholders",
			template: "https://fixed.example.com",
			provided: map[string]string{"scheme": "http"},
			expected: "https://fixed.example.com",
		},
		{
			name:     "only the first occurrence of a repeated placeholder is replaced",
			template: "{scheme}://{ver}.x.com/{ver}",
			provided: nil,
			expected: "https://v1.x.com/{ver}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := Expand(tt.template, defaults, tt.provided)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, url)
		})
	}
}

func TestExpandInvalidVariable(t *testing.T) {
	defaults := map[string]string{"ver": "v1", "scheme": "https", "host": "x.com"}

	_, err := Expand("{scheme}://{host}/{ver}", defaults, map[string]string{"bogus": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidVariable)
	assert.Contains(t, err.Error(), "'bogus'")
	assert.Contains(t, err.Error(), "[host, scheme, ver]")
}
