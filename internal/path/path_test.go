package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("users/42/rounds/9")
	require.NoError(t, err)
	assert.Equal(t, "users/42/rounds/9", p.String())
	assert.Equal(t, []string{"users", "42", "rounds", "9"}, p.Segments())
	assert.Equal(t, "users", p.Root())
	assert.Equal(t, 4, p.Depth())
}

func TestParseTrimsSlashes(t *testing.T) {
	p, err := Parse("/activeRounds/AB3X9K/")
	require.NoError(t, err)
	assert.Equal(t, "activeRounds/AB3X9K", p.String())
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "/", "a//b", "//"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidPath, "input %q", s)
	}
}

func TestChild(t *testing.T) {
	p := MustParse("activeRounds")
	c, err := p.Child("AB3X9K", "scores", "u1")
	require.NoError(t, err)
	assert.Equal(t, "activeRounds/AB3X9K/scores/u1", c.String())
}

func TestRelated(t *testing.T) {
	p := MustParse("a/b")

	assert.True(t, p.Related(MustParse("a/b")), "self")
	assert.True(t, p.Related(MustParse("a/b/c")), "descendant")
	assert.True(t, p.Related(MustParse("a")), "ancestor")
	assert.False(t, p.Related(MustParse("a/c")), "sibling")
	assert.False(t, p.Related(MustParse("ab")), "segment boundary, not string prefix")
	assert.False(t, p.Related(MustParse("a/bc")), "segment boundary on leaf")
}

func TestIsAncestorOf(t *testing.T) {
	assert.True(t, MustParse("a").IsAncestorOf(MustParse("a/b")))
	assert.False(t, MustParse("a/b").IsAncestorOf(MustParse("a/b")), "not strict")
	assert.False(t, MustParse("a/b").IsAncestorOf(MustParse("a")))
}
