package logparsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog4jParser_BasicLine(t *testing.T) {
	p := NewLog4jParser()
	r, err := p.Parse("2024-01-15 10:00:00,123 ERROR [main] com.example.App: request failed status=500")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", r.Level)
	assert.Equal(t, "main", r.Field("thread"))
	assert.Equal(t, "com.example.App", r.Field("logger"))
	assert.Equal(t, "request failed status=500", r.Body)
	assert.Equal(t, "500", r.Field("status"))
	assert.Equal(t, 123000000, r.Timestamp.Nanosecond())
}

func TestLog4jParser_NoMatch(t *testing.T) {
	p := NewLog4jParser()
	_, err := p.Parse("not a log4j line")
	assert.Error(t, err)
}

func TestLog4jParser_Validate(t *testing.T) {
	p := NewLog4jParser()
	assert.True(t, p.Validate("2024-01-15 10:00:00.123 INFO [t] l: msg"))
}
