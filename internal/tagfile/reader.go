package tagfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"symgraph/internal/ir"
	"symgraph/internal/logfields"
)

// Reader turns a tag file into external entries. Every entry carries the
// reader's Name as its tag file origin. Member kinds are passed through
// unchecked; the graph reports the ones it cannot place.
type Reader struct {
	Name   string
	Logger *slog.Logger
}

func NewReader(name string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{Name: name, Logger: logger}
}

func (r *Reader) ReadFile(p string) ([]ir.Entry, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open tag file: %w", err)
	}
	defer f.Close()
	entries, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	r.Logger.Info("Tag file imported", logfields.Path(p), logfields.Count(len(entries)))
	return entries, nil
}

func (r *Reader) Read(in io.Reader) ([]ir.Entry, error) {
	var doc tagFile
	if err := xml.NewDecoder(in).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	b := &entryBuilder{
		tag:      r.Name,
		byName:   make(map[string]int),
		byAnchor: make(map[string]int),
	}
	// Groups refer to entities by name, so they are applied after every
	// other compound was read.
	var groups []compoundTag
	for i, ct := range doc.Compounds {
		if strings.TrimSpace(ct.Kind) == "" || strings.TrimSpace(ct.Name) == "" {
			return nil, fmt.Errorf("compound %d without kind or name: %w", i, ErrMalformed)
		}
		switch ct.Kind {
		case "group":
			groups = append(groups, ct)
		case "namespace", "file", "page", "dir":
			b.scope(ct)
		default:
			if _, class, err := ir.ParseKind(ct.Kind); err != nil || class != ir.ClassCompound {
				r.Logger.Warn("Skipping tag file compound of unknown kind",
					logfields.Kind(ct.Kind), logfields.Compound(ct.Name))
				continue
			}
			b.class(ct)
		}
	}
	for _, ct := range groups {
		b.group(ct)
	}
	b.linkSubgroups()
	return b.entries, nil
}

type entryBuilder struct {
	tag      string
	entries  []ir.Entry
	byName   map[string]int
	byAnchor map[string]int
	// nesting holds (subgroup, parent) pairs.
	nesting [][2]string
}

func (b *entryBuilder) add(e ir.Entry) int {
	e.TagFile = b.tag
	b.entries = append(b.entries, e)
	return len(b.entries) - 1
}

func (b *entryBuilder) class(ct compoundTag) {
	e := ir.Entry{
		Kind:     ct.Kind,
		Name:     ct.Name,
		Location: ir.Location{File: ct.Filename},
	}
	for _, ta := range ct.TemplArgs {
		e.TemplateArgs = append(e.TemplateArgs, splitDecl(ta))
	}
	for _, bt := range ct.Bases {
		e.Bases = append(e.Bases, ir.BaseRef{
			Name:       strings.TrimSpace(bt.Name),
			Protection: bt.Protection,
			Virtual:    bt.Virtualness == "virtual",
		})
	}
	b.byName[ct.Kind+":"+ct.Name] = b.add(e)
	b.members(ct.Name, ct.Members)
}

func (b *entryBuilder) scope(ct compoundTag) {
	e := ir.Entry{Kind: ct.Kind, Name: ct.Name, Title: ct.Title}
	switch ct.Kind {
	case "file":
		e.Name = ct.Path + ct.Name
	case "dir":
		e.Name = strings.TrimSuffix(ct.Name, "/")
	}
	b.byName[ct.Kind+":"+e.Name] = b.add(e)
	// Only namespace members are scoped; file members keep an empty scope.
	scope := ""
	if ct.Kind == "namespace" {
		scope = ct.Name
	}
	b.members(scope, ct.Members)
}

func (b *entryBuilder) members(scope string, members []memberTag) {
	for _, mt := range members {
		if _, dup := b.byAnchor[mt.AnchorFile+"#"+mt.Anchor]; dup && mt.Anchor != "" {
			continue
		}
		e := ir.Entry{
			Kind:       memberKind(mt.Kind),
			Name:       mt.Name,
			Scope:      scope,
			Protection: mt.Protection,
			Virtual:    mt.Virtualness,
			Static:     mt.Static == "yes",
			Type:       mt.Type,
			Args:       mt.ArgList,
			Arguments:  parseArgList(mt.ArgList),
			Location:   ir.Location{File: mt.AnchorFile},
		}
		i := b.add(e)
		if mt.Anchor != "" {
			b.byAnchor[mt.AnchorFile+"#"+mt.Anchor] = i
		}
	}
}

// group emits the group entry and tags the entities it lists. Members that
// only appear inside a group are emitted here.
func (b *entryBuilder) group(ct compoundTag) {
	b.byName["group:"+ct.Name] = b.add(ir.Entry{Kind: "group", Name: ct.Name, Title: ct.Title})
	ref := ir.GroupRef{Name: ct.Name, Command: "ingroup"}

	tag := func(key string) {
		if i, ok := b.byName[key]; ok {
			b.entries[i].Groups = append(b.entries[i].Groups, ref)
		}
	}
	for _, c := range ct.Classes {
		kind := c.Kind
		if kind == "" {
			kind = "class"
		}
		tag(kind + ":" + strings.TrimSpace(c.Name))
	}
	for _, n := range ct.Namespaces {
		tag("namespace:" + n)
	}
	for _, f := range ct.Files {
		tag("file:" + f)
	}
	for _, d := range ct.Dirs {
		tag("dir:" + strings.TrimSuffix(d, "/"))
	}
	for _, p := range ct.Pages {
		tag("page:" + p)
	}
	for _, mt := range ct.Members {
		if i, ok := b.byAnchor[mt.AnchorFile+"#"+mt.Anchor]; ok && mt.Anchor != "" {
			b.entries[i].Groups = append(b.entries[i].Groups, ref)
			continue
		}
		b.members("", []memberTag{mt})
		b.entries[len(b.entries)-1].Groups = []ir.GroupRef{ref}
	}
	for _, sub := range ct.SubGroups {
		b.nesting = append(b.nesting, [2]string{sub, ct.Name})
	}
}

// linkSubgroups tags every nested group with its parent once all groups
// have entries.
func (b *entryBuilder) linkSubgroups() {
	for _, n := range b.nesting {
		if i, ok := b.byName["group:"+n[0]]; ok {
			b.entries[i].Groups = append(b.entries[i].Groups, ir.GroupRef{Name: n[1], Command: "ingroup"})
		}
	}
}

// memberKind maps member kinds whose names collide with compound kinds.
func memberKind(kind string) string {
	switch kind {
	case "interface":
		return "idl-interface"
	case "service":
		return "idl-service"
	}
	return kind
}

// splitDecl splits "typename T" or "const int &x" into type and name.
func splitDecl(s string) ir.Arg {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 && isIdent(s[i-1]) {
		i--
	}
	if i == 0 || i == len(s) || s[i-1] == ':' {
		return ir.Arg{Type: s}
	}
	return ir.Arg{Type: strings.TrimSpace(s[:i]), Name: s[i:]}
}

// parseArgList splits "(const T &a, int b=3) const" into arguments.
func parseArgList(list string) []ir.Arg {
	open := strings.IndexByte(list, '(')
	if open < 0 {
		return nil
	}
	depth := 0
	start := open + 1
	var out []ir.Arg
	for i := open; i < len(list); i++ {
		switch list[i] {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
			if depth == 0 && list[i] == ')' {
				if a := argOf(list[start:i]); a != nil {
					out = append(out, *a)
				}
				return out
			}
		case ',':
			if depth == 1 {
				if a := argOf(list[start:i]); a != nil {
					out = append(out, *a)
				}
				start = i + 1
			}
		}
	}
	return out
}

func argOf(s string) *ir.Arg {
	s = strings.TrimSpace(s)
	var def string
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		s, def = strings.TrimSpace(s[:eq]), strings.TrimSpace(s[eq+1:])
	}
	if s == "" || s == "void" {
		return nil
	}
	a := splitDecl(s)
	// "unsigned int" is a type, not a parameter named int.
	if typeKeywords[a.Name] {
		a = ir.Arg{Type: s}
	}
	a.Default = def
	return &a
}

var typeKeywords = map[string]bool{
	"int": true, "char": true, "short": true, "long": true, "double": true,
	"float": true, "bool": true, "signed": true, "unsigned": true, "const": true,
}

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
