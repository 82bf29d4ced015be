package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure QuestionLoader implements the interface.
var _ driven.QuestionSource = (*QuestionLoader)(nil)

// questionFile is the YAML layout of a question set.
//
//	name: maritime-incident
//	questions:
//	  - At what time did the incident occur?
//	  - Who is the vessel's owner?
type questionFile struct {
	Name      string   `yaml:"name"`
	Questions []string `yaml:"questions"`
}

// QuestionLoader reads the question battery from a YAML file.
// With no path it serves the built-in maritime incident battery.
type QuestionLoader struct {
	path string
}

// NewQuestionLoader creates a loader for path. An empty path selects the built-in set.
func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

// Path returns the configured file, or "" for the built-in set.
func (l *QuestionLoader) Path() string {
	return l.path
}

// Questions reads and validates the set. Questions are numbered from 1
// in file order.
func (l *QuestionLoader) Questions() (domain.QuestionSet, error) {
	if l.path == "" {
		return domain.DefaultQuestionSet(), nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("read question set: %w", err)
	}

	var qf questionFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, l.path, err)
	}

	texts := make([]string, 0, len(qf.Questions))
	for i, q := range qf.Questions {
		q = strings.TrimSpace(q)
		if q == "" {
			return domain.QuestionSet{}, fmt.Errorf("%w: %s: question %d is empty", domain.ErrInvalidInput, l.path, i+1)
		}
		texts = append(texts, q)
	}

	name := qf.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	}

	set := domain.NewQuestionSet(name, texts)
	if err := set.Validate(); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("%s: %w", l.path, err)
	}
	return set, nil
}

// SaveQuestionSet writes set to path as YAML, creating directories as needed.
func SaveQuestionSet(path string, set domain.QuestionSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	data, err := yaml.Marshal(questionFile{Name: set.Name, Questions: set.Texts()})
	if err != nil {
		return fmt.Errorf("marshal question set: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
