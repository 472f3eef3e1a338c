// Package loader reads template definition files from a filesystem and
// serves them through an in-memory store. Files may be JSON or YAML; every
// loaded template is structurally validated and its operator-facing help
// text sanitized before it is admitted.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-crf/pkg/template"
)

// Store holds loaded templates keyed by template id.
type Store struct {
	templates map[string]template.Template
}

// LoadFS walks the provided filesystem and parses JSON/YAML template files.
// When fsys is nil or no template files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{templates: make(map[string]template.Template)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", path, err)
		}
		tpl, err := parseTemplate(data, path)
		if err != nil {
			return err
		}
		if err := tpl.Validate(); err != nil {
			return fmt.Errorf("loader: file %s: %w", path, err)
		}
		if _, exists := store.templates[tpl.ID]; exists {
			return fmt.Errorf("loader: duplicate template %q (file %s)", tpl.ID, path)
		}
		store.templates[tpl.ID] = sanitizeTemplate(tpl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Get returns the template with the supplied id.
func (s *Store) Get(id string) (template.Template, bool) {
	if s == nil {
		return template.Template{}, false
	}
	tpl, ok := s.templates[id]
	return tpl, ok
}

// IDs returns the loaded template ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any templates.
func (s *Store) Empty() bool {
	return s == nil || len(s.templates) == 0
}

// Put admits a template built in memory, replacing any previous version
// with the same id. The template is validated and sanitized like a loaded
// one.
func (s *Store) Put(tpl template.Template) error {
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("loader: put %q: %w", tpl.ID, err)
	}
	s.templates[tpl.ID] = sanitizeTemplate(tpl)
	return nil
}

func parseTemplate(data []byte, source string) (template.Template, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return template.Template{}, fmt.Errorf("loader: file %s is empty", source)
	}

	var tpl template.Template
	if err := json.Unmarshal(data, &tpl); err == nil {
		return tpl, nil
	}
	if err := yaml.Unmarshal(data, &tpl); err == nil {
		return tpl, nil
	}
	return template.Template{}, fmt.Errorf("loader: parse %s: invalid JSON or YAML", source)
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
