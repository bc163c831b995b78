package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"autoapply/config"
	"autoapply/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var keySchemaVersion = []byte("schema_version")

// SchemaInfo stores the schema version.
type SchemaInfo struct {
	Version int `json:"version"`
}

func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}
		if data := b.Get(keySchemaVersion); data != nil {
			if err := json.Unmarshal(data, &info.Version); err != nil {
				return fmt.Errorf("corrupt schema version: %w", err)
			}
		}
		return nil
	})
	return &info, err
}

func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		data, err := json.Marshal(info.Version)
		if err != nil {
			return err
		}
		return b.Put(keySchemaVersion, data)
	})
}

// ComputeConfigHash hashes the settings that change how values are resolved.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		Floor         float64 `json:"floor"`
		PreviousLimit int     `json:"previous_limit"`
		Combine       bool    `json:"combine"`
		Provider      string  `json:"provider"`
		Model         string  `json:"model"`
	}{
		Floor:         cfg.Engine.ConfidenceFloor,
		PreviousLimit: cfg.Engine.PreviousApplicationLimit,
		Combine:       cfg.Engine.CombineExtractionConfidence,
		Provider:      cfg.Generation.Provider,
		Model:         cfg.Generation.Model,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// IsStale reports whether state was last resolved under settings other than cfg.
// Applications saved before hashes were recorded are never stale.
func IsStale(state *domain.ApplicationState, cfg *config.Config) bool {
	return state.SettingsHash != "" && state.SettingsHash != ComputeConfigHash(cfg)
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration compares the stored schema version with the current one.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		return nil, fmt.Errorf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
	}

	return result, nil
}

// Migrate upgrades the schema to CurrentSchemaVersion.
func (s *BoltStore) Migrate(cfg *config.Config) error {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return err
	}
	if info.Version > CurrentSchemaVersion {
		return fmt.Errorf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
	}

	for v := info.Version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return s.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion})
}

func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return s.db.Update(func(tx *bbolt.Tx) error {
			for _, b := range [][]byte{bucketApplications, bucketValues, bucketKnowledge} {
				if _, err := tx.CreateBucketIfNotExists(b); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return nil
	}
}
