package components

import "sort"

// Tags is a set of string labels attached to an entity.
type Tags map[string]struct{}

// NewTags creates a tag set holding the given labels.
func NewTags(labels ...string) Tags {
	t := make(Tags, len(labels))
	for _, l := range labels {
		t[l] = struct{}{}
	}
	return t
}

// Has reports whether the label is present.
func (t Tags) Has(label string) bool {
	_, ok := t[label]
	return ok
}

// Add inserts a label. Adding an existing label is a no-op.
func (t Tags) Add(label string) {
	t[label] = struct{}{}
}

// Remove deletes a label if present.
func (t Tags) Remove(label string) {
	delete(t, label)
}

// Copy returns an independent set with the same labels.
func (t Tags) Copy() Tags {
	out := make(Tags, len(t))
	for l := range t {
		out[l] = struct{}{}
	}
	return out
}

// List returns the labels in sorted order.
func (t Tags) List() []string {
	out := make([]string, 0, len(t))
	for l := range t {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
