package types

import (
	"encoding/json"
	"sync"
)

// Fields is a copy-on-write string map used for LogRecord.Fields. Handles
// obtained through Share use one underlying map until one of them actually
// mutates it, at which point only that handle pays for a copy.
//
// Same copy-on-write discipline as a Prometheus-style label set,
// retargeted at LogRecord field maps.
type Fields struct {
	mu       sync.RWMutex
	data     map[string]string
	readonly bool
}

// NewFields creates an empty Fields map.
func NewFields() *Fields {
	return &Fields{data: make(map[string]string)}
}

// NewFieldsFromMap copies m into a new Fields map.
func NewFieldsFromMap(m map[string]string) *Fields {
	data := make(map[string]string, len(m))
	for k, v := range m {
		data[k] = v
	}
	return &Fields{data: data}
}

// Get returns the value for key and whether it was present.
func (f *Fields) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	return v, ok
}

// Set stores key=value, copying the backing map first if it is shared.
func (f *Fields) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copyIfShared()
	f.data[key] = value
}

// Delete removes key, copying the backing map first if it is shared.
func (f *Fields) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copyIfShared()
	delete(f.data, key)
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.data[key]
	return ok
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data)
}

// Range calls fn for every key/value pair, stopping early if fn returns false.
func (f *Fields) Range(fn func(key, value string) bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for k, v := range f.data {
		if !fn(k, v) {
			break
		}
	}
}

// ToMap returns an independent copy of the underlying map.
func (f *Fields) ToMap() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.data))
	for k, v := range f.data {
		out[k] = v
	}
	return out
}

// Share marks f as readonly and returns a handle backed by the same map.
// Both the original and the returned handle copy-on-write on their next
// mutation, so neither observes the other's subsequent changes.
func (f *Fields) Share() *Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readonly = true
	return &Fields{data: f.data, readonly: true}
}

// Clone returns a deep, independently-mutable copy.
func (f *Fields) Clone() *Fields {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data := make(map[string]string, len(f.data))
	for k, v := range f.data {
		data[k] = v
	}
	return &Fields{data: data}
}

func (f *Fields) copyIfShared() {
	if !f.readonly {
		return
	}
	data := make(map[string]string, len(f.data))
	for k, v := range f.data {
		data[k] = v
	}
	f.data = data
	f.readonly = false
}

func (f *Fields) MarshalJSON() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return json.Marshal(f.data)
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data == nil {
		f.data = make(map[string]string)
	}
	return json.Unmarshal(data, &f.data)
}
