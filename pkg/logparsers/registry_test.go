package logparsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AllKnownKinds(t *testing.T) {
	kinds := []Kind{KindCSV, KindJSON, KindJSONL, KindLogfmt, KindSyslog, KindLog4j, KindCEF, KindLine, KindDrain}
	for _, k := range kinds {
		p, err := New(k, Options{})
		require.NoError(t, err, "kind %s", k)
		assert.NotNil(t, p)
	}
}

func TestNew_RegexPropagatesCompileError(t *testing.T) {
	_, err := New(KindRegex, Options{Regex: RegexConfig{Pattern: "("}})
	assert.Error(t, err)
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(Kind("bogus"), Options{})
	assert.Error(t, err)
}
