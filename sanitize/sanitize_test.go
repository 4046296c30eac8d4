package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kokiebisu/sonus/sanitize"
)

func TestName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "slash", in: "A/B", want: "A-B"},
		{name: "backslash", in: `A\B`, want: "A-B"},
		{name: "plain", in: "Abbey Road", want: "Abbey Road"},
		{name: "surrounding spaces", in: "  Help!  ", want: "Help!"},
		{name: "control chars", in: "Line\nBreak\t", want: "LineBreak"},
		{name: "empty", in: "", want: "untitled"},
		{name: "dot", in: ".", want: "untitled"},
		{name: "dot dot", in: "..", want: "untitled"},
		{name: "traversal", in: "../../etc", want: "..-..-etc"},
		{name: "trailing dot", in: "Vol. 2.", want: "Vol. 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitize.Name(tt.in))
		})
	}
}

func TestName_NeverContainsSeparator(t *testing.T) {
	t.Parallel()

	inputs := []string{"a/b/c", "/leading", "trailing/", `mixed\/both`, "//", "AC/DC - Back/In/Black"}
	for _, in := range inputs {
		got := sanitize.Name(in)
		assert.False(t, strings.ContainsAny(got, `/\`), "got %q for %q", got, in)
		assert.NotEmpty(t, got)
	}
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		extra []string
		want  string
	}{
		{name: "official video", in: "Song Name (Official Video)", want: "Song Name"},
		{name: "official music video", in: "Song Name [Official Music Video]", want: "Song Name"},
		{name: "artist prefix", in: "Artist - Song Name (Lyrics)", extra: []string{"artist"}, want: "Song Name"},
		{name: "keeps inner words", in: "Shadow of the Colossus", want: "Shadow of the Colossus"},
		{name: "all noise keeps original", in: "Audio", want: "Audio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitize.CleanTitle(tt.in, tt.extra...))
		})
	}
}
