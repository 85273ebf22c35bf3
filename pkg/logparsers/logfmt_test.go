package logparsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogfmtParser_KeyValuePairs(t *testing.T) {
	p := NewLogfmtParser()
	r, err := p.Parse(`level=warn msg="disk is full" host=web-1`)
	require.NoError(t, err)
	assert.Equal(t, "warn", r.Level)
	assert.Equal(t, "disk is full", r.Body)
	assert.Equal(t, "web-1", r.Field("host"))
}

func TestLogfmtParser_QuotedMessagePreservesLevelCase(t *testing.T) {
	p := NewLogfmtParser()
	r, err := p.Parse(`time=2024-01-02T03:04:05Z level=info msg="hello world" user=42`)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T03:04:05Z", r.Timestamp.Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, "info", r.Level)
	assert.Equal(t, "hello world", r.Body)
	assert.Equal(t, "42", r.Field("user"))
}

func TestLogfmtParser_TrailingTextBecomesMessage(t *testing.T) {
	p := NewLogfmtParser()
	r, err := p.Parse(`host=web-1 connection refused by peer`)
	require.NoError(t, err)
	assert.Equal(t, "connection refused by peer", r.Body)
	assert.Equal(t, "web-1", r.Field("host"))
}

func TestLogfmtParser_Validate(t *testing.T) {
	p := NewLogfmtParser()
	assert.True(t, p.Validate("a=1 b=2"))
	assert.False(t, p.Validate("just plain text"))
}
