package graph

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// Options are the already-resolved configuration switches the graph reads.
type Options struct {
	ExtractPrivate      bool
	ExtractPackage      bool
	ExtractStatic       bool
	ExtractAll          bool
	ExtractLocalMethods bool
	HideUndocMembers    bool
	HideFriendCompounds bool
	UMLLook             bool
	// SeparateMemberPages gives every documented member its own page.
	SeparateMemberPages bool
}

// ProtectionVisible reports whether members of protection p are documented.
func (o Options) ProtectionVisible(p Protection) bool {
	switch p {
	case Private:
		return o.ExtractPrivate
	case Package:
		return o.ExtractPackage
	}
	return true
}

// Graph owns every definition of one run. Relations between definitions are
// stored as handles into its arenas.
type Graph struct {
	opts   Options
	report *Reporter
	frozen bool

	classes    []*Compound
	members    []*Member
	groups     []*Group
	namespaces []*Namespace
	files      []*File
	dirs       []*Dir
	pages      []*Page

	classByName     map[string]ClassID
	groupByName     map[string]GroupID
	namespaceByName map[string]NamespaceID
	fileByPath      map[string]FileID
	dirByPath       map[string]DirID
	pageByName      map[string]PageID
	// memberNames indexes members by local name across all scopes.
	memberNames map[string][]MemberID
}

// New creates an empty graph reporting through logger.
func New(opts Options, logger *slog.Logger) *Graph {
	return &Graph{
		opts:            opts,
		report:          NewReporter(logger),
		classByName:     make(map[string]ClassID),
		groupByName:     make(map[string]GroupID),
		namespaceByName: make(map[string]NamespaceID),
		fileByPath:      make(map[string]FileID),
		dirByPath:       make(map[string]DirID),
		pageByName:      make(map[string]PageID),
		memberNames:     make(map[string][]MemberID),
	}
}

func (g *Graph) Options() Options        { return g.opts }
func (g *Graph) Diagnostics() *Reporter { return g.report }

// Freeze ends the mutation phase. Later mutations are refused.
func (g *Graph) Freeze()      { g.frozen = true }
func (g *Graph) Frozen() bool { return g.frozen }

func (g *Graph) mutable(op string) bool {
	if g.frozen {
		g.report.Report(DiagInternalError, Location{}, "%s: %v", op, ErrGraphFrozen)
		return false
	}
	return true
}

// AddCompound registers a compound under its qualified name. A second call
// with the same name returns the existing compound.
func (g *Graph) AddCompound(name string, t CompoundType, loc Location) *Compound {
	if id, ok := g.classByName[name]; ok {
		return g.classes[id]
	}
	if !g.mutable("add compound " + name) {
		return nil
	}
	c := newCompound(g, ClassID(len(g.classes)), name, t, loc)
	g.classes = append(g.classes, c)
	g.classByName[name] = c.ID
	return c
}

// newArtificialCompound registers a compound whose name may collide, such as
// a template instance; it is indexed by name only if the name is free.
func (g *Graph) newArtificialCompound(name string, t CompoundType, loc Location) *Compound {
	c := newCompound(g, ClassID(len(g.classes)), name, t, loc)
	c.Artificial = true
	g.classes = append(g.classes, c)
	if _, taken := g.classByName[name]; !taken {
		g.classByName[name] = c.ID
	}
	return c
}

func (g *Graph) Class(id ClassID) *Compound {
	if id < 0 || int(id) >= len(g.classes) {
		return nil
	}
	return g.classes[id]
}

func (g *Graph) FindClass(name string) (*Compound, bool) {
	id, ok := g.classByName[name]
	if !ok {
		return nil, false
	}
	return g.classes[id], true
}

func (g *Graph) Classes() []*Compound { return append([]*Compound(nil), g.classes...) }

// NewMember allocates a member. It is not part of any scope until inserted.
func (g *Graph) NewMember(kind MemberKind, name string, loc Location) *Member {
	if !g.mutable("new member " + name) {
		return nil
	}
	m := newMember(MemberID(len(g.members)), kind, name, loc)
	g.members = append(g.members, m)
	g.memberNames[m.LocalName] = append(g.memberNames[m.LocalName], m.ID)
	return m
}

func (g *Graph) cloneMember(src *Member) *Member {
	m := src.clone(MemberID(len(g.members)))
	g.members = append(g.members, m)
	g.memberNames[m.LocalName] = append(g.memberNames[m.LocalName], m.ID)
	return m
}

func (g *Graph) Member(id MemberID) *Member {
	if id < 0 || int(id) >= len(g.members) {
		return nil
	}
	return g.members[id]
}

func (g *Graph) Members() []*Member { return append([]*Member(nil), g.members...) }

// MembersNamed returns every member with the given local name.
func (g *Graph) MembersNamed(local string) []MemberID {
	return append([]MemberID(nil), g.memberNames[local]...)
}

// AddGroup registers a group, or returns the existing one. An empty title
// leaves an existing title alone.
func (g *Graph) AddGroup(name, title string, loc Location) *Group {
	if id, ok := g.groupByName[name]; ok {
		gr := g.groups[id]
		if title != "" && gr.Title == "" {
			gr.Title = title
		}
		return gr
	}
	if !g.mutable("add group " + name) {
		return nil
	}
	gr := newGroup(g, GroupID(len(g.groups)), name, title, loc)
	g.groups = append(g.groups, gr)
	g.groupByName[name] = gr.ID
	return gr
}

func (g *Graph) Group(id GroupID) *Group {
	if id < 0 || int(id) >= len(g.groups) {
		return nil
	}
	return g.groups[id]
}

func (g *Graph) FindGroup(name string) (*Group, bool) {
	id, ok := g.groupByName[name]
	if !ok {
		return nil, false
	}
	return g.groups[id], true
}

func (g *Graph) Groups() []*Group { return append([]*Group(nil), g.groups...) }

func (g *Graph) AddNamespace(name string, loc Location) *Namespace {
	if id, ok := g.namespaceByName[name]; ok {
		return g.namespaces[id]
	}
	if !g.mutable("add namespace " + name) {
		return nil
	}
	n := &Namespace{
		Definition:  Definition{Name: name, LocalName: LocalNameOf(name), Loc: loc},
		memberScope: newMemberScope(g),
		ID:          NamespaceID(len(g.namespaces)),
	}
	g.namespaces = append(g.namespaces, n)
	g.namespaceByName[name] = n.ID
	if outer := ScopeOf(name); outer != "" {
		parent := g.AddNamespace(outer, loc)
		n.Outer = NamespaceRef(parent.ID)
		parent.Namespaces = append(parent.Namespaces, n.ID)
	}
	return n
}

func (g *Graph) Namespace(id NamespaceID) *Namespace {
	if id < 0 || int(id) >= len(g.namespaces) {
		return nil
	}
	return g.namespaces[id]
}

func (g *Graph) FindNamespace(name string) (*Namespace, bool) {
	id, ok := g.namespaceByName[name]
	if !ok {
		return nil, false
	}
	return g.namespaces[id], true
}

func (g *Graph) Namespaces() []*Namespace { return append([]*Namespace(nil), g.namespaces...) }

// AddFile registers a source file and the directory chain above it.
func (g *Graph) AddFile(p string) *File {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if id, ok := g.fileByPath[p]; ok {
		return g.files[id]
	}
	if !g.mutable("add file " + p) {
		return nil
	}
	f := &File{
		Definition:  Definition{Name: path.Base(p), LocalName: path.Base(p), Loc: Location{File: p, Line: 1}},
		memberScope: newMemberScope(g),
		ID:          FileID(len(g.files)),
		Path:        p,
		Dir:         NoDir,
	}
	g.files = append(g.files, f)
	g.fileByPath[p] = f.ID
	if d := path.Dir(p); d != "." && d != "/" {
		dir := g.AddDir(d)
		f.Dir = dir.ID
		dir.Files = append(dir.Files, f.ID)
	}
	return f
}

func (g *Graph) File(id FileID) *File {
	if id < 0 || int(id) >= len(g.files) {
		return nil
	}
	return g.files[id]
}

func (g *Graph) FindFile(p string) (*File, bool) {
	id, ok := g.fileByPath[path.Clean(strings.ReplaceAll(p, "\\", "/"))]
	if !ok {
		return nil, false
	}
	return g.files[id], true
}

func (g *Graph) Files() []*File { return append([]*File(nil), g.files...) }

func (g *Graph) AddDir(p string) *Dir {
	p = path.Clean(p)
	if id, ok := g.dirByPath[p]; ok {
		return g.dirs[id]
	}
	if !g.mutable("add dir " + p) {
		return nil
	}
	d := &Dir{
		Definition: Definition{Name: p, LocalName: path.Base(p), Loc: Location{File: p}},
		ID:         DirID(len(g.dirs)),
		Path:       p,
		Parent:     NoDir,
	}
	g.dirs = append(g.dirs, d)
	g.dirByPath[p] = d.ID
	if parent := path.Dir(p); parent != "." && parent != "/" && parent != p {
		pd := g.AddDir(parent)
		d.Parent = pd.ID
		d.Outer = DirRef(pd.ID)
		pd.SubDirs = append(pd.SubDirs, d.ID)
	}
	return d
}

func (g *Graph) Dir(id DirID) *Dir {
	if id < 0 || int(id) >= len(g.dirs) {
		return nil
	}
	return g.dirs[id]
}

func (g *Graph) FindDir(p string) (*Dir, bool) {
	id, ok := g.dirByPath[path.Clean(p)]
	if !ok {
		return nil, false
	}
	return g.dirs[id], true
}

func (g *Graph) Dirs() []*Dir { return append([]*Dir(nil), g.dirs...) }

func (g *Graph) AddPage(name, title string, loc Location) *Page {
	if id, ok := g.pageByName[name]; ok {
		return g.pages[id]
	}
	if !g.mutable("add page " + name) {
		return nil
	}
	p := &Page{
		Definition: Definition{Name: name, LocalName: name, Loc: loc},
		ID:         PageID(len(g.pages)),
		Title:      title,
	}
	g.pages = append(g.pages, p)
	g.pageByName[name] = p.ID
	return p
}

func (g *Graph) Page(id PageID) *Page {
	if id < 0 || int(id) >= len(g.pages) {
		return nil
	}
	return g.pages[id]
}

func (g *Graph) FindPage(name string) (*Page, bool) {
	id, ok := g.pageByName[name]
	if !ok {
		return nil, false
	}
	return g.pages[id], true
}

func (g *Graph) Pages() []*Page { return append([]*Page(nil), g.pages...) }

// Definition resolves any handle to its shared definition part.
func (g *Graph) Definition(r Ref) (*Definition, error) {
	var d *Definition
	switch r.Kind {
	case DefClass:
		if c := g.Class(ClassID(r.Index)); c != nil {
			d = &c.Definition
		}
	case DefMember:
		if m := g.Member(MemberID(r.Index)); m != nil {
			d = &m.Definition
		}
	case DefNamespace:
		if n := g.Namespace(NamespaceID(r.Index)); n != nil {
			d = &n.Definition
		}
	case DefFile:
		if f := g.File(FileID(r.Index)); f != nil {
			d = &f.Definition
		}
	case DefGroup:
		if gr := g.Group(GroupID(r.Index)); gr != nil {
			d = &gr.Definition
		}
	case DefDir:
		if dir := g.Dir(DirID(r.Index)); dir != nil {
			d = &dir.Definition
		}
	case DefPage:
		if p := g.Page(PageID(r.Index)); p != nil {
			d = &p.Definition
		}
	}
	if d == nil {
		return nil, fmt.Errorf("%s %d: %w", r.Kind, r.Index, ErrUnknownHandle)
	}
	return d, nil
}

// EdgeCount is the number of inheritance and usage edges, counted on the
// base/user side only.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, c := range g.classes {
		n += len(c.bases) + len(c.uses)
	}
	return n
}

// Stats summarizes arena sizes.
type Stats struct {
	Compounds   int
	Members     int
	Namespaces  int
	Files       int
	Dirs        int
	Pages       int
	Groups      int
	Edges       int
	Instances   int
	Diagnostics int
}

func (g *Graph) Stats() Stats {
	s := Stats{
		Compounds:   len(g.classes),
		Members:     len(g.members),
		Namespaces:  len(g.namespaces),
		Files:       len(g.files),
		Dirs:        len(g.dirs),
		Pages:       len(g.pages),
		Groups:      len(g.groups),
		Edges:       g.EdgeCount(),
		Diagnostics: g.report.Len(),
	}
	for _, c := range g.classes {
		if c.TemplateMaster != NoClass {
			s.Instances++
		}
	}
	return s
}

// SortedClassNames lists compound names alphabetically.
func (g *Graph) SortedClassNames() []string {
	names := make([]string, 0, len(g.classByName))
	for n := range g.classByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
