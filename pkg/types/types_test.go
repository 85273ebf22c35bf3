package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogRecord_SetFieldAllocatesLazily(t *testing.T) {
	r := &LogRecord{Body: "hello"}
	r.SetField("user", "42")
	assert.Equal(t, "42", r.Field("user"))
}

func TestLogRecord_FieldOnNilFields(t *testing.T) {
	r := &LogRecord{Body: "hello"}
	assert.Equal(t, "", r.Field("missing"))
}

func TestFields_CopyOnWriteIsolatesSharedHandles(t *testing.T) {
	base := NewFields()
	base.Set("k", "v1")

	shared := base.Share()
	shared.Set("k", "v2")

	v, _ := base.Get("k")
	assert.Equal(t, "v1", v, "original must not observe the shared handle's write")

	v2, _ := shared.Get("k")
	assert.Equal(t, "v2", v2)
}

func TestFields_CloneIsIndependent(t *testing.T) {
	base := NewFieldsFromMap(map[string]string{"a": "1"})
	clone := base.Clone()
	clone.Set("a", "2")

	v, _ := base.Get("a")
	assert.Equal(t, "1", v)
}
