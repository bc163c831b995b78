package resolver

import (
	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// Outcome is the winning resolution of a chain together with its source.
type Outcome struct {
	port.Resolution
	Source domain.Source
}

// Chain consults resolvers in a fixed order. The first one returning a
// non-empty value at or above the floor wins; confidences are never combined.
type Chain struct {
	resolvers []port.SourceResolver
	floor     float64
}

// NewChain builds a chain over the given resolvers, in order.
func NewChain(floor float64, resolvers ...port.SourceResolver) *Chain {
	return &Chain{resolvers: resolvers, floor: floor}
}

// DefaultChain returns the profile → document → previous application chain.
func DefaultChain(floor float64, combineDocumentConfidence bool, previousLimit int) *Chain {
	return NewChain(floor,
		NewProfileResolver(),
		NewDocumentResolver(combineDocumentConfidence),
		NewPreviousApplicationResolver(previousLimit),
	)
}

// Resolve runs the chain. accept may reject a value (for example one that
// matches none of a select field's options); a rejected value counts as a miss.
func (c *Chain) Resolve(field domain.Field, knowledge *domain.KnowledgeBundle, accept func(string) (string, bool)) (Outcome, bool) {
	for _, r := range c.resolvers {
		res := r.Resolve(field, knowledge)
		if !res.Found() || res.Confidence < c.floor {
			continue
		}
		if accept != nil {
			value, ok := accept(res.Value)
			if !ok {
				continue
			}
			res.Value = value
		}
		return Outcome{Resolution: res, Source: r.Source()}, true
	}
	return Outcome{}, false
}
