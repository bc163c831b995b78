package fs

import (
	"fmt"

	"autoapply/internal/domain"
)

// Form is an application form file: the target grant and its fields.
// Fields may be omitted, in which case a template is selected for the grant.
type Form struct {
	Grant  domain.Grant   `yaml:"grant"`
	Fields []domain.Field `yaml:"fields"`
}

// LoadForm reads a form from a YAML file.
func LoadForm(path string) (*Form, error) {
	var form Form
	if err := decodeFile(path, &form); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(form.Fields))
	for i, f := range form.Fields {
		if f.ID == "" {
			return nil, fmt.Errorf("%s: field %d has no id", path, i+1)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("%s: duplicate field id %q", path, f.ID)
		}
		seen[f.ID] = true
	}
	return &form, nil
}
