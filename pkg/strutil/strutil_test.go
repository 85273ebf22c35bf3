package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceChar(t *testing.T) {
	out := ReplaceChar([]byte("a-b-c"), '-', '_')
	assert.Equal(t, "a_b_c", string(out))
}

func TestReplaceChars(t *testing.T) {
	out := ReplaceChars([]byte("a-b_c.d"), []byte("-_."), ' ')
	assert.Equal(t, "a b c d", string(out))
}

func TestToLower(t *testing.T) {
	assert.Equal(t, "hello world", string(ToLower([]byte("Hello WORLD"))))
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "abc", string(Trim([]byte("  \tabc\r\n"))))
}

func TestTrim_AllWhitespace(t *testing.T) {
	assert.Equal(t, "", string(Trim([]byte("   \t\r\n"))))
}

func TestCollapseSpaces(t *testing.T) {
	out := CollapseSpaces([]byte("  a   b\tc  "))
	assert.Equal(t, "a b c", string(out))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]byte("abcdef"), []byte("cde")))
	assert.False(t, Contains([]byte("abcdef"), []byte("xyz")))
}
