package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var entryValidate *validator.Validate

func init() {
	entryValidate = validator.New()
	_ = entryValidate.RegisterValidation("entrykind", validateEntryKind)
}

func validateEntryKind(fl validator.FieldLevel) bool {
	_, _, err := ParseKind(fl.Field().String())
	return err == nil
}

// LoadFile reads an entry stream from a YAML or JSON file.
func LoadFile(path string) (*Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entry file %s: %w", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	s, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("entry file %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a stream in the given format ("yaml" or "json") and
// validates it.
func Decode(r io.Reader, format string) (*Stream, error) {
	var s Stream
	switch format {
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case "yaml", "yml", "":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported entry format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every entry. Entries imported from tag files are only
// checked structurally; their kinds are left for the graph to judge.
func (s *Stream) Validate() error {
	var errs []error
	for i := range s.Entries {
		if err := s.Entries[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Entry) Validate() error {
	if err := entryValidate.Struct(e); err != nil {
		return fmt.Errorf("%s: %w: %v", e.Name, ErrInvalidEntry, err)
	}
	if e.IsExternal() {
		return nil
	}
	if err := entryValidate.Var(e.Kind, "entrykind"); err != nil {
		return fmt.Errorf("%s: kind %q: %w", e.Name, e.Kind, ErrUnknownKind)
	}
	return nil
}

// Sequence returns the entries in processing order. Entries with an
// explicit Seq come first, ordered by it; the rest follow in stream order.
// The returned entries are renumbered 1..n.
func Sequence(entries []Entry) []Entry {
	maxSeq := 0
	for _, e := range entries {
		maxSeq = max(maxSeq, e.Seq)
	}
	keys := make([]int, len(entries))
	idx := make([]int, len(entries))
	for i, e := range entries {
		idx[i] = i
		keys[i] = e.Seq
		if e.Seq <= 0 {
			keys[i] = maxSeq + i + 1
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })
	out := make([]Entry, len(entries))
	for i, j := range idx {
		out[i] = entries[j]
		out[i].Seq = i + 1
	}
	return out
}

// Merge concatenates streams in order.
func Merge(streams ...*Stream) []Entry {
	var out []Entry
	for _, s := range streams {
		if s != nil {
			out = append(out, s.Entries...)
		}
	}
	return out
}
