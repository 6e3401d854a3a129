// Package config loads vocabulary files: the prefix map and the well-known
// predicate table the builder uses when cleaning slot values.
//
// A vocabulary file is YAML:
//
//	prefixes:
//	  foaf: http://xmlns.com/foaf/0.1/
//	predicates:
//	  knows: foaf:knows
//
// Entries extend the default vocabulary; an entry with the same key
// replaces the default one.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/woql/woql"
)

// File is the on-disk form of a vocabulary.
type File struct {
	// Prefixes maps a prefix, without its colon, to a namespace IRI.
	Prefixes map[string]string `yaml:"prefixes"`

	// Predicates maps a bareword predicate to the IRI it stands for.
	Predicates map[string]string `yaml:"predicates"`
}

// Load reads a vocabulary file and merges it over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (woql.Vocabulary, error) {
	if path == "" {
		return woql.DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return woql.Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return woql.Vocabulary{}, fmt.Errorf("%s: %w", path, err)
	}
	return woql.DefaultVocabulary().Merge(f.Vocabulary()), nil
}

// Parse decodes and checks a vocabulary document. Unknown keys are
// rejected so typos surface early.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}
	return &f, nil
}

func (f *File) validate() error {
	var errs []error
	for _, name := range sortedKeys(f.Prefixes) {
		switch iri := f.Prefixes[name]; {
		case name == "" || strings.Contains(name, ":"):
			errs = append(errs, fmt.Errorf("prefix %q must be a bare name", name))
		case iri == "":
			errs = append(errs, fmt.Errorf("prefix %q has no namespace", name))
		}
	}
	for _, word := range sortedKeys(f.Predicates) {
		switch iri := f.Predicates[word]; {
		case word == "" || strings.Contains(word, ":"):
			errs = append(errs, fmt.Errorf("predicate %q must be a bareword", word))
		case !strings.Contains(iri, ":"):
			errs = append(errs, fmt.Errorf("predicate %q maps to %q, which is neither prefixed nor an IRI", word, iri))
		}
	}
	return errors.Join(errs...)
}

// Vocabulary converts the file to the builder's form.
func (f *File) Vocabulary() woql.Vocabulary {
	return woql.Vocabulary{Prefixes: f.Prefixes, Predicates: f.Predicates}
}

// Marshal writes a vocabulary back out, keys sorted.
func Marshal(v woql.Vocabulary) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Prefixes: v.Prefixes, Predicates: v.Predicates}); err != nil {
		return nil, fmt.Errorf("marshal vocabulary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal vocabulary: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
