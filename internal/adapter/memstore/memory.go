package memstore

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// MemoryStore keeps applications and knowledge bundles in memory.
// Values are copied on the way in and out so callers never share state.
type MemoryStore struct {
	mu           sync.RWMutex
	applications map[string]*domain.ApplicationState
	knowledge    map[string]*domain.KnowledgeBundle
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		applications: make(map[string]*domain.ApplicationState),
		knowledge:    make(map[string]*domain.KnowledgeBundle),
	}
}

func (s *MemoryStore) SaveApplication(state *domain.ApplicationState) error {
	if state == nil || state.ID == "" {
		return errors.New("application id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[state.ID] = cloneState(state)
	return nil
}

func (s *MemoryStore) GetApplication(id string) (*domain.ApplicationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.applications[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrApplicationNotFound, id)
	}
	return cloneState(state), nil
}

func (s *MemoryStore) ListApplications() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.applications))
	for id := range s.applications {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) PutValue(appID string, value domain.ResolvedValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.applications[appID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrApplicationNotFound, appID)
	}
	if state.Values == nil {
		state.Values = make(map[string]domain.ResolvedValue)
	}
	state.Values[value.FieldID] = cloneValue(value)
	return nil
}

func (s *MemoryStore) DeleteApplication(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.applications, id)
	return nil
}

func (s *MemoryStore) PutKnowledge(bundle *domain.KnowledgeBundle) error {
	if bundle == nil || bundle.OrganizationID == "" {
		return errors.New("organization id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knowledge[bundle.OrganizationID] = bundle.Clone()
	return nil
}

func (s *MemoryStore) GetKnowledge(orgID string) (*domain.KnowledgeBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bundle, ok := s.knowledge[orgID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrKnowledgeNotFound, orgID)
	}
	return bundle.Clone(), nil
}

func cloneState(in *domain.ApplicationState) *domain.ApplicationState {
	out := *in
	out.Fields = append([]domain.Field(nil), in.Fields...)
	out.Grant.Requirements = append([]string(nil), in.Grant.Requirements...)
	if in.User.Knowledge != nil {
		out.User.Knowledge = in.User.Knowledge.Clone()
	}
	out.Values = make(map[string]domain.ResolvedValue, len(in.Values))
	for k, v := range in.Values {
		out.Values[k] = cloneValue(v)
	}
	return &out
}

func cloneValue(v domain.ResolvedValue) domain.ResolvedValue {
	v.Alternatives = append([]string(nil), v.Alternatives...)
	v.Validation.Issues = append([]domain.Issue(nil), v.Validation.Issues...)
	v.Validation.Improvements = append([]string(nil), v.Validation.Improvements...)
	return v
}

var (
	_ port.ApplicationStore = (*MemoryStore)(nil)
	_ port.KnowledgeStore   = (*MemoryStore)(nil)
)
