package feature

import "sort"

// LabelEncoder assigns stable, small integer codes to the distinct values
// of a categorical column, for callers that need a numeric feature column
// alongside FeatureVectors' continuous ones rather than the raw string
// value. Codes are assigned in ascending sorted order of the fitted
// values, so the same input always yields the same codes.
type LabelEncoder struct {
	classes map[string]int
	order   []string
	fitted  bool
}

// NewLabelEncoder returns an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit assigns each distinct, non-empty value in values a code, replacing
// any previous fit. Empty strings are treated as missing and never
// assigned a code.
func (e *LabelEncoder) Fit(values []string) {
	seen := make(map[string]bool, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)

	e.classes = make(map[string]int, len(distinct))
	e.order = distinct
	for i, v := range distinct {
		e.classes[v] = i
	}
	e.fitted = true
}

// Transform returns the code Fit assigned to value. ok is false when the
// encoder has not been fitted or value was not present during Fit.
func (e *LabelEncoder) Transform(value string) (code int, ok bool) {
	if !e.fitted {
		return 0, false
	}
	code, ok = e.classes[value]
	return code, ok
}

// IsFitted reports whether Fit has been called.
func (e *LabelEncoder) IsFitted() bool {
	return e.fitted
}

// Classes returns the fitted values in code order: index i is the value
// mapped to code i. Returns nil when the encoder has not been fitted.
func (e *LabelEncoder) Classes() []string {
	if !e.fitted {
		return nil
	}
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// EncodeGroupKeys fits a LabelEncoder over each group's Key and returns the
// resulting code for each group, in group order, for callers that want the
// category as a numeric feature column alongside FeatureVectors' output.
func EncodeGroupKeys(groups []Group) ([]int, *LabelEncoder) {
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}

	enc := NewLabelEncoder()
	enc.Fit(keys)

	codes := make([]int, len(groups))
	for i, k := range keys {
		codes[i], _ = enc.Transform(k)
	}
	return codes, enc
}
