package port

import "autoapply/internal/domain"

// Resolution is a single resolver's answer for a field.
type Resolution struct {
	Value      string
	Confidence float64
	// Detail names the attribute, document or application the value came from.
	Detail string
}

// Found reports whether the resolver produced a value.
func (r Resolution) Found() bool {
	return r.Value != ""
}

// SourceResolver looks up a deterministic value for a field from one knowledge source.
type SourceResolver interface {
	Resolve(field domain.Field, knowledge *domain.KnowledgeBundle) Resolution

	// Source names the channel the resolver reads.
	Source() domain.Source
}
