package bank

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryDef is the YAML schema of one content file.
type CategoryDef struct {
	Category string      `yaml:"category"`
	Label    string      `yaml:"label"`
	Chips    []ChipDef   `yaml:"chips"`
	Courses  []CourseDef `yaml:"courses"`
	Topics   []TopicDef  `yaml:"topics"`

	source string // file name, for error messages; "" when built in code
}

// ChipDef is a quick-start button shown under the chat input.
type ChipDef struct {
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
}

// CourseDef declares a course scope owned by the category.
type CourseDef struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// TopicDef groups answers with the entries and suggestions that reach them.
// A topic with a Course belongs to that course scope and to the global scope;
// a topic without one is global only.
type TopicDef struct {
	Name        string          `yaml:"name"`
	Course      string          `yaml:"course"`
	Answers     []AnswerDef     `yaml:"answers"`
	Entries     []EntryDef      `yaml:"entries"`
	Suggestions []SuggestionDef `yaml:"suggestions"`
}

// AnswerDef is a pre-written answer plus its side-table data.
type AnswerDef struct {
	ID    string    `yaml:"id"`
	Text  string    `yaml:"text"`
	Video *VideoDef `yaml:"video"`
	Next  []string  `yaml:"next"`
}

// VideoDef points at a walkthrough video for an answer.
type VideoDef struct {
	Src       string `yaml:"src"`
	Label     string `yaml:"label"`
	ModuleURL string `yaml:"moduleUrl"`
}

// EntryDef is a scoring entry. Exactly one of Answer or FollowUp must be set.
type EntryDef struct {
	Keywords []string     `yaml:"keywords"`
	Answer   string       `yaml:"answer"`
	FollowUp *FollowUpDef `yaml:"followUp"`
}

// FollowUpDef is a clarifying question with its options.
type FollowUpDef struct {
	Question string      `yaml:"question"`
	Options  []OptionDef `yaml:"options"`
}

// OptionDef is one choice of a follow-up.
type OptionDef struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// SuggestionDef is an autocomplete row.
type SuggestionDef struct {
	Text     string   `yaml:"text"`
	Keywords []string `yaml:"keywords"`
}

// Load reads every .yaml/.yml file in dir and decodes it as a CategoryDef.
// Files are loaded in sorted order for deterministic bank order.
// Unknown fields are rejected so a misspelled key fails at startup.
func Load(fsys fs.FS, dir string) ([]CategoryDef, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir %q: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var defs []CategoryDef
	for _, entry := range entries {
		if entry.IsDir() || !IsContentFile(entry.Name()) {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		def, err := decodeCategory(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		def.source = entry.Name()
		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return nil, fmt.Errorf("content is empty: no categories found in %q", dir)
	}
	return defs, nil
}

// IsContentFile reports whether name looks like a bank file.
func IsContentFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func decodeCategory(data []byte) (CategoryDef, error) {
	var def CategoryDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return def, fmt.Errorf("empty document")
		}
		return def, err
	}
	if def.Category == "" {
		return def, fmt.Errorf("missing category name")
	}
	return def, nil
}

// LoadRegistry loads the content files in dir and builds a validated Registry.
func LoadRegistry(fsys fs.FS, dir string) (*Registry, error) {
	defs, err := Load(fsys, dir)
	if err != nil {
		return nil, err
	}
	return Build(defs)
}
