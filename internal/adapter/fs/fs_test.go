package fs

import (
	"os"
	"path/filepath"
	"testing"

	"autoapply/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.yaml"), "")
	writeFile(t, filepath.Join(root, "sub", "a.yaml"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "")
	writeFile(t, filepath.Join(root, ".git", "c.yaml"), "")

	files, err := NewWalker([]string{"**/*.yaml"}, []string{"**/.*/**"}).Walk(root)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
	if files[0].RelPath != "b.yaml" || files[1].RelPath != "sub/a.yaml" {
		t.Errorf("unexpected order: %s, %s", files[0].RelPath, files[1].RelPath)
	}
}

func TestKnowledgeLoader(t *testing.T) {
	root := filepath.Join(t.TempDir(), "river-city")
	writeFile(t, filepath.Join(root, "profile.yaml"), `
organization_name: River City Literacy
ein: 12-3456789
focus_areas: [literacy, adult education]
`)
	writeFile(t, filepath.Join(root, "documents", "2023", "audit.yaml"), `
document_type: financial_statement
confidence: 0.8
financial:
  annual_budget: 850000
`)
	writeFile(t, filepath.Join(root, "applications", "fund-2023.yaml"), `
status: awarded
submitted_at: 2023-09-01T00:00:00Z
answers:
  need_statement: Adults in Springfield lack access to literacy classes.
`)

	bundle, err := NewKnowledgeLoader(nil).Load(root, "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if bundle.OrganizationID != "river-city" {
		t.Errorf("expected org id from directory name, got %s", bundle.OrganizationID)
	}
	if bundle.Profile == nil || bundle.Profile.EIN != "12-3456789" {
		t.Errorf("unexpected profile %+v", bundle.Profile)
	}
	if len(bundle.Documents) != 1 || bundle.Documents[0].DocumentID != "2023/audit" {
		t.Errorf("unexpected documents %+v", bundle.Documents)
	}
	if bundle.Documents[0].Financial == nil || bundle.Documents[0].Financial.AnnualBudget != 850000 {
		t.Error("expected financial data to be decoded")
	}
	if len(bundle.PriorApplications) != 1 {
		t.Fatalf("expected 1 application, got %d", len(bundle.PriorApplications))
	}
	app := bundle.PriorApplications[0]
	if app.ID != "fund-2023" || app.Status != domain.StatusAwarded || app.SubmittedAt.Year() != 2023 {
		t.Errorf("unexpected application %+v", app)
	}
}

func TestKnowledgeLoader_EmptyDir(t *testing.T) {
	bundle, err := NewKnowledgeLoader(nil).Load(t.TempDir(), "org-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !bundle.IsEmpty() {
		t.Error("expected empty bundle")
	}
}

func TestKnowledgeLoader_Malformed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "profile.yaml"), "organization_name: [unclosed")

	if _, err := NewKnowledgeLoader(nil).Load(root, ""); err == nil {
		t.Error("expected error for malformed profile")
	}
}

func TestLoadForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	writeFile(t, path, `
grant:
  title: Community Literacy Fund
  funder: Acme Foundation
  funder_type: foundation
fields:
  - id: org_name
    label: Organization Name
    required: true
  - id: need
    label: Statement of Need
    input_kind: textarea
    max_length: 500
    length_unit: words
`)

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if form.Grant.FunderType != domain.FunderFoundation {
		t.Errorf("unexpected funder type %s", form.Grant.FunderType)
	}
	if len(form.Fields) != 2 || form.Fields[1].WordLimit() != 500 {
		t.Errorf("unexpected fields %+v", form.Fields)
	}
}

func TestLoadForm_DuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	writeFile(t, path, "fields:\n  - id: a\n  - id: a\n")

	if _, err := LoadForm(path); err == nil {
		t.Error("expected duplicate id error")
	}
}
