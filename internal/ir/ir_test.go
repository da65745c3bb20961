package ir

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
version: "1"
entries:
  - kind: class
    name: Base
    location: {file: base.h, line: 3}
  - kind: class
    name: Derived
    bases:
      - {name: Base, protection: public}
  - kind: function
    name: m
    scope: Derived
    args: "(int)"
    arguments: [{type: int}]
    groups:
      - {name: api, priority: 3}
  - kind: group
    name: api
    title: Public API
`

func TestDecode(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		s, err := Decode(strings.NewReader(sampleYAML), "yaml")
		require.NoError(t, err)
		require.Len(t, s.Entries, 4)
		assert.Equal(t, "base.h", s.Entries[0].Location.File)
		assert.Equal(t, "Base", s.Entries[1].Bases[0].Name)
		assert.Equal(t, 3, s.Entries[2].Groups[0].Pri())
		assert.Equal(t, "Public API", s.Entries[3].Title)
	})

	t.Run("JSON", func(t *testing.T) {
		s, err := Decode(strings.NewReader(`{"entries":[{"kind":"struct","name":"P"}]}`), "json")
		require.NoError(t, err)
		assert.Equal(t, "struct", s.Entries[0].Kind)
	})

	t.Run("Unknown kind", func(t *testing.T) {
		_, err := Decode(strings.NewReader("entries:\n  - {kind: gadget, name: g}\n"), "yaml")
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("Unknown kind from a tag file passes", func(t *testing.T) {
		_, err := Decode(strings.NewReader("entries:\n  - {kind: gadget, name: g, tag_file: ext.tag}\n"), "yaml")
		assert.NoError(t, err)
	})

	t.Run("Missing name", func(t *testing.T) {
		_, err := Decode(strings.NewReader("entries:\n  - {kind: class}\n"), "yaml")
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("Unknown field", func(t *testing.T) {
		_, err := Decode(strings.NewReader("entries:\n  - {kind: class, name: A, colour: red}\n"), "yaml")
		assert.Error(t, err)
	})

	t.Run("Empty document", func(t *testing.T) {
		s, err := Decode(strings.NewReader(""), "yaml")
		require.NoError(t, err)
		assert.Empty(t, s.Entries)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Entries, 4)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in    string
		kind  string
		class Class
	}{
		{"Class", "class", ClassCompound},
		{"enumeration", "enum", ClassMember},
		{"enumerator", "enumvalue", ClassMember},
		{"method", "function", ClassMember},
		{"idl-service", "idl-service", ClassMember},
		{"namespace", "namespace", ClassNamespace},
		{"example", "example", ClassPage},
		{"group", "group", ClassGroup},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, c, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, k)
			assert.Equal(t, tt.class, c)
		})
	}

	_, _, err := ParseKind("widget")
	assert.ErrorIs(t, err, ErrUnknownKind)

	ext := Entry{Kind: "widget", Name: "w", TagFile: "x.tag"}
	assert.Equal(t, ClassMember, ext.Class())
}

func TestGroupRefPriority(t *testing.T) {
	seven := 7
	assert.Equal(t, 0, GroupRef{Name: "g", Command: "@weakgroup"}.Pri())
	assert.Equal(t, 1, GroupRef{Name: "g", Command: `\addtogroup`}.Pri())
	assert.Equal(t, 2, GroupRef{Name: "g", Command: "defgroup"}.Pri())
	assert.Equal(t, 3, GroupRef{Name: "g"}.Pri())
	assert.Equal(t, 7, GroupRef{Name: "g", Command: "weakgroup", Priority: &seven}.Pri())
}

func TestSequence(t *testing.T) {
	in := []Entry{
		{Name: "a"},
		{Name: "b", Seq: 2},
		{Name: "c"},
		{Name: "d", Seq: 1},
	}
	out := Sequence(in)

	var names []string
	for i, e := range out {
		names = append(names, e.Name)
		assert.Equal(t, i+1, e.Seq)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, names)
	assert.Equal(t, 0, in[0].Seq, "input is not modified")
}

func TestAutoBrief(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"First sentence", "Computes the sum. Overflow wraps.", "Computes the sum."},
		{"Wrapped paragraph", "Opens the\nsocket and waits.\n\nSecond paragraph.", "Opens the socket and waits."},
		{"Inline markup", "Returns `nil` on *failure*", "Returns nil on failure"},
		{"Version numbers", "Requires v1.2 or later. More.", "Requires v1.2 or later."},
		{"Heading first", "# Title\n\nBody text.", "Body text."},
		{"Empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoBrief(tt.doc))
		})
	}

	entries := []Entry{{Name: "f", Doc: "Does f. Details."}, {Name: "g", Brief: "kept", Doc: "Other."}}
	ApplyAutoBrief(entries)
	assert.Equal(t, "Does f.", entries[0].Brief)
	assert.Equal(t, "kept", entries[1].Brief)
}
