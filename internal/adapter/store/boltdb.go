package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"autoapply/internal/domain"
)

var (
	bucketApplications = []byte("applications")
	bucketValues       = []byte("values")
	bucketKnowledge    = []byte("knowledge")
	bucketMeta         = []byte("meta")
)

// BoltStore persists applications and knowledge bundles in a single bbolt file.
// Each application's resolved values live in a nested bucket keyed by field ID,
// so a single value can be replaced in one transaction.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketApplications, bucketValues, bucketKnowledge, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// applicationRecord is the stored form of an application without its values.
type applicationRecord struct {
	ID           string             `json:"id"`
	Grant        domain.Grant       `json:"grant"`
	User         domain.UserContext `json:"user"`
	Fields       []domain.Field     `json:"fields"`
	SettingsHash string             `json:"settings_hash,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (s *BoltStore) SaveApplication(state *domain.ApplicationState) error {
	if state == nil || state.ID == "" {
		return errors.New("application id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		rec := applicationRecord{
			ID:           state.ID,
			Grant:        state.Grant,
			User:         state.User,
			Fields:       state.Fields,
			SettingsHash: state.SettingsHash,
			UpdatedAt:    state.UpdatedAt,
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode application: %w", err)
		}
		if err := tx.Bucket(bucketApplications).Put([]byte(state.ID), data); err != nil {
			return err
		}

		values := tx.Bucket(bucketValues)
		if values.Bucket([]byte(state.ID)) != nil {
			if err := values.DeleteBucket([]byte(state.ID)); err != nil {
				return err
			}
		}
		vb, err := values.CreateBucket([]byte(state.ID))
		if err != nil {
			return err
		}
		for fieldID, v := range state.Values {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("failed to encode value %s: %w", fieldID, err)
			}
			if err := vb.Put([]byte(fieldID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) GetApplication(id string) (*domain.ApplicationState, error) {
	var state *domain.ApplicationState
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketApplications).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", domain.ErrApplicationNotFound, id)
		}
		var rec applicationRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to decode application: %w", err)
		}

		state = &domain.ApplicationState{
			ID:           rec.ID,
			Grant:        rec.Grant,
			User:         rec.User,
			Fields:       rec.Fields,
			Values:       make(map[string]domain.ResolvedValue),
			SettingsHash: rec.SettingsHash,
			UpdatedAt:    rec.UpdatedAt,
		}

		vb := tx.Bucket(bucketValues).Bucket([]byte(id))
		if vb == nil {
			return nil
		}
		return vb.ForEach(func(k, v []byte) error {
			var rv domain.ResolvedValue
			if err := json.Unmarshal(v, &rv); err != nil {
				return fmt.Errorf("failed to decode value %s: %w", k, err)
			}
			state.Values[string(k)] = rv
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ListApplications returns application IDs in key order.
func (s *BoltStore) ListApplications() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketApplications).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

func (s *BoltStore) PutValue(appID string, value domain.ResolvedValue) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketApplications).Get([]byte(appID)) == nil {
			return fmt.Errorf("%w: %s", domain.ErrApplicationNotFound, appID)
		}
		vb, err := tx.Bucket(bucketValues).CreateBucketIfNotExists([]byte(appID))
		if err != nil {
			return err
		}
		return vb.Put([]byte(value.FieldID), data)
	})
}

func (s *BoltStore) DeleteApplication(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketApplications).Delete([]byte(id)); err != nil {
			return err
		}
		values := tx.Bucket(bucketValues)
		if values.Bucket([]byte(id)) != nil {
			return values.DeleteBucket([]byte(id))
		}
		return nil
	})
}

func (s *BoltStore) PutKnowledge(bundle *domain.KnowledgeBundle) error {
	if bundle == nil || bundle.OrganizationID == "" {
		return errors.New("organization id is required")
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKnowledge).Put([]byte(bundle.OrganizationID), data)
	})
}

func (s *BoltStore) GetKnowledge(orgID string) (*domain.KnowledgeBundle, error) {
	var bundle domain.KnowledgeBundle
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketKnowledge).Get([]byte(orgID))
		if data == nil {
			return fmt.Errorf("%w: %s", domain.ErrKnowledgeNotFound, orgID)
		}
		return json.Unmarshal(data, &bundle)
	})
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
