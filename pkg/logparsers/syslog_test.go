package logparsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyslogParser_WithPRIAndProgramPID(t *testing.T) {
	p := NewSyslogParser()
	r, err := p.Parse("<34>Jan 15 10:00:00 host sshd[1234]: authentication failure")
	require.NoError(t, err)
	assert.Equal(t, "authentication failure", r.Body)
	assert.Equal(t, "sshd", r.Field("program"))
	assert.Equal(t, "1234", r.Field("pid"))
	assert.Equal(t, "4", r.Field("facility"))
	assert.Equal(t, "CRITICAL", r.Level)
}

func TestSyslogParser_ISO8601Timestamp(t *testing.T) {
	p := NewSyslogParser()
	r, err := p.Parse("2024-01-15T10:00:00Z host app: started")
	require.NoError(t, err)
	assert.Equal(t, 2024, r.Timestamp.Year())
	assert.Equal(t, "started", r.Body)
}

func TestSyslogParser_NoPRI(t *testing.T) {
	p := NewSyslogParser()
	r, err := p.Parse("Jan 15 10:00:00 host kernel: out of memory")
	require.NoError(t, err)
	assert.Equal(t, "kernel", r.Field("program"))
	assert.Equal(t, "out of memory", r.Body)
}

func TestSyslogParser_Validate(t *testing.T) {
	p := NewSyslogParser()
	assert.True(t, p.Validate("Jan 15 10:00:00 host app: ok"))
	assert.False(t, p.Validate("no timestamp at all here"))
}
