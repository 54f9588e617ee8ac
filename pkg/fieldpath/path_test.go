package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathString(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"root", Root(), ""},
		{"single field", Root().Field("label"), "label"},
		{"nested field", Root().Field("location").Field("latitude"), "location.latitude"},
		{"indexed", Root().Field("members").Index(1), "members[1]"},
		{"indexed sub field", Root().Field("members").Index(2).Field("user_id"), "members[2].user_id"},
		{"index at root", Root().Index(0).Field("id"), "[0].id"},
		{"new helper", New("a", "b", "c"), "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.String())
		})
	}
}

func TestPathDerivationDoesNotAlias(t *testing.T) {
	parent := Root().Field("members")
	// Force spare capacity in the parent's backing array.
	parent = Path{segments: append(make([]Segment, 0, 8), parent.segments...)}

	first := parent.Index(0)
	second := parent.Index(1)

	assert.Equal(t, "members[0]", first.String())
	assert.Equal(t, "members[1]", second.String())
	assert.Equal(t, "members", parent.String())
}

func TestPathJoin(t *testing.T) {
	p := New("task").Join(MustParse("members[3].user_id"))
	assert.Equal(t, "task.members[3].user_id", p.String())
	assert.Equal(t, 4, p.Len())
	assert.True(t, New("a").Join(Root()).Equal(New("a")))
}

func TestPathLast(t *testing.T) {
	_, ok := Root().Last()
	assert.False(t, ok)

	last, ok := MustParse("members[4]").Last()
	require.True(t, ok)
	assert.True(t, last.IsIndex())
	assert.Equal(t, 4, last.Index)
	assert.Equal(t, "[4]", last.String())
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"label",
		"location.latitude",
		"members[1]",
		"members[12].user_id",
		"attributes.severity",
		"[0].id",
		"a[1][2].b",
	} {
		t.Run(s, func(t *testing.T) {
			p, err := Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, p.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		".a",
		"a.",
		"a..b",
		"a[x]",
		"a[-1]",
		"a[1",
		"a[1]b",
		"a.[1]",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			assert.Error(t, err)
		})
	}
}

func TestPathText(t *testing.T) {
	p := MustParse("checklist[0].label")
	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "checklist[0].label", string(text))

	var decoded Path
	require.NoError(t, decoded.UnmarshalText(text))
	assert.True(t, p.Equal(decoded))
}
