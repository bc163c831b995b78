package fs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// KnowledgeLoader reads an organization's knowledge from a directory:
//
//	profile.yaml                  organization profile
//	documents/**/*.yaml           one document extraction per file
//	applications/**/*.yaml        one prior application per file
type KnowledgeLoader struct {
	documents    port.FileWalker
	applications port.FileWalker
	logger       *zap.Logger
}

func NewKnowledgeLoader(logger *zap.Logger) *KnowledgeLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	yamlFiles := []string{"**/*.yaml", "**/*.yml"}
	hidden := []string{"**/.*", "**/.*/**"}
	return &KnowledgeLoader{
		documents:    NewWalker(yamlFiles, hidden),
		applications: NewWalker(yamlFiles, hidden),
		logger:       logger.Named("knowledge"),
	}
}

// Load builds a bundle from dir. orgID defaults to the directory name.
// Missing sections are skipped; malformed files are errors.
func (l *KnowledgeLoader) Load(dir, orgID string) (*domain.KnowledgeBundle, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("knowledge directory not found: %s", dir)
	}
	if orgID == "" {
		orgID = filepath.Base(abs)
	}

	bundle := &domain.KnowledgeBundle{OrganizationID: orgID}

	profilePath := filepath.Join(abs, "profile.yaml")
	if _, err := os.Stat(profilePath); err == nil {
		var profile domain.Profile
		if err := decodeFile(profilePath, &profile); err != nil {
			return nil, err
		}
		bundle.Profile = &profile
	}

	docs, err := walkSection(l.documents, filepath.Join(abs, "documents"))
	if err != nil {
		return nil, err
	}
	for _, f := range docs {
		var doc domain.DocumentExtraction
		if err := decodeFile(f.Path, &doc); err != nil {
			return nil, err
		}
		if doc.DocumentID == "" {
			doc.DocumentID = stem(f.RelPath)
		}
		bundle.Documents = append(bundle.Documents, doc)
	}

	apps, err := walkSection(l.applications, filepath.Join(abs, "applications"))
	if err != nil {
		return nil, err
	}
	for _, f := range apps {
		var app domain.PriorApplication
		if err := decodeFile(f.Path, &app); err != nil {
			return nil, err
		}
		if app.ID == "" {
			app.ID = stem(f.RelPath)
		}
		bundle.PriorApplications = append(bundle.PriorApplications, app)
	}

	l.logger.Debug("knowledge loaded",
		zap.String("organization_id", orgID),
		zap.Bool("profile", bundle.Profile != nil),
		zap.Int("documents", len(bundle.Documents)),
		zap.Int("applications", len(bundle.PriorApplications)),
	)
	return bundle, nil
}

func walkSection(w port.FileWalker, root string) ([]port.FileInfo, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, nil
	}
	files, err := w.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func stem(relPath string) string {
	return strings.TrimSuffix(relPath, path.Ext(relPath))
}
