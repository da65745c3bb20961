package graph

import "sort"

// memberScope is the member bookkeeping shared by compounds, namespaces,
// files and groups: categorized lists, the all-members index and member groups.
type memberScope struct {
	g            *Graph
	lists        map[ListType]*MemberList
	all          *MemberNameIndex
	memberGroups []*MemberGroup
}

func newMemberScope(g *Graph) memberScope {
	return memberScope{
		g:     g,
		lists: make(map[ListType]*MemberList),
		all:   newMemberNameIndex(),
	}
}

func (s *memberScope) list(t ListType) *MemberList {
	l, ok := s.lists[t]
	if !ok {
		l = newMemberList(s.g, t)
		l.scope = s
		s.lists[t] = l
	}
	return l
}

func (s *memberScope) invalidateAll() {
	for _, l := range s.lists {
		l.Invalidate()
	}
	for _, mg := range s.memberGroups {
		mg.list.Invalidate()
	}
}

// MemberList returns the section of type t, or nil if nothing was routed there.
func (s *memberScope) MemberList(t ListType) *MemberList {
	return s.lists[t]
}

// ListTypes returns the non-empty sections in declaration order.
func (s *memberScope) ListTypes() []ListType {
	var out []ListType
	for t, l := range s.lists {
		if l.Len() > 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *memberScope) AllMembers() *MemberNameIndex { return s.all }

func (s *memberScope) MemberGroups() []*MemberGroup {
	return append([]*MemberGroup(nil), s.memberGroups...)
}

// MemberGroup returns the member group with the given header, creating it.
func (s *memberScope) MemberGroup(header string) *MemberGroup {
	for _, mg := range s.memberGroups {
		if mg.Header == header {
			return mg
		}
	}
	mg := &MemberGroup{Header: header, list: newMemberList(s.g, ListAllMembers)}
	mg.list.scope = s
	s.memberGroups = append(s.memberGroups, mg)
	return mg
}

// route appends m to every list in types.
func (s *memberScope) route(id MemberID, types []ListType) {
	for _, t := range types {
		s.list(t).Append(id)
	}
}

func (s *memberScope) unroute(id MemberID, types []ListType) {
	for _, t := range types {
		if l := s.lists[t]; l != nil {
			l.Remove(id)
		}
	}
	for _, mg := range s.memberGroups {
		mg.list.Remove(id)
	}
}

// AddMembersToMemberGroups moves members tagged with a member group out of
// their declaration sections into the group. A group whose members all came
// from one section is aggregated into that section's counts; otherwise it
// stands as a section of its own. Members follow the documentation group of
// the first member of their member group.
func (s *memberScope) AddMembersToMemberGroups() {
	if !s.g.mutable("member group assignment") {
		return
	}
	types := make([]ListType, 0, len(s.lists))
	for t := range s.lists {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	section := make(map[MemberID]*MemberList)
	var moved []MemberID
	for _, t := range types {
		if !t.IsDeclaration() {
			continue
		}
		l := s.lists[t]
		for _, id := range l.Members() {
			m := s.g.Member(id)
			if m == nil || m.MemberGroup == "" {
				continue
			}
			l.Remove(id)
			if _, seen := section[id]; !seen {
				section[id] = l
				moved = append(moved, id)
			}
		}
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i] < moved[j] })

	for _, id := range moved {
		m := s.g.Member(id)
		mg := s.MemberGroup(m.MemberGroup)
		if first := s.g.Member(mg.first()); first != nil {
			s.g.followMemberGroup(m, first)
		}
		mg.insert(id, section[id])
	}
	for _, mg := range s.memberGroups {
		if l := mg.InDeclSection(); l != nil {
			l.AddMemberGroup(mg)
		}
	}
}

// Namespace is a named scope for compounds and free members.
type Namespace struct {
	Definition
	memberScope
	ID         NamespaceID
	Classes    []ClassID
	Namespaces []NamespaceID
}

// InsertMember routes m into the namespace's sections.
func (n *Namespace) InsertMember(id MemberID) {
	if !n.g.mutable("namespace member insertion") {
		return
	}
	m := n.g.Member(id)
	if m == nil {
		return
	}
	n.all.add(m.LocalName, MemberInfo{Member: id, Prot: m.Prot, Virt: m.Virt})
	types, ok := namespaceLists(m.Kind)
	if !ok {
		n.g.report.Report(DiagInternalError, m.Loc,
			"unexpected member %s of kind %s in namespace %s", m.Name, m.Kind, n.Name)
		return
	}
	n.route(id, types)
}

func (n *Namespace) RemoveMember(id MemberID) {
	if !n.g.mutable("namespace member removal") {
		return
	}
	m := n.g.Member(id)
	if m == nil {
		return
	}
	n.all.remove(m.LocalName, id)
	types, _ := namespaceLists(m.Kind)
	n.unroute(id, types)
}

// File is a source file with its free members.
type File struct {
	Definition
	memberScope
	ID         FileID
	Path       string
	Dir        DirID
	Classes    []ClassID
	Namespaces []NamespaceID
}

func (f *File) InsertMember(id MemberID) {
	if !f.g.mutable("file member insertion") {
		return
	}
	m := f.g.Member(id)
	if m == nil {
		return
	}
	f.all.add(m.LocalName, MemberInfo{Member: id, Prot: m.Prot, Virt: m.Virt})
	types, ok := fileLists(m.Kind)
	if !ok {
		f.g.report.Report(DiagInternalError, m.Loc,
			"unexpected member %s of kind %s in file %s", m.Name, m.Kind, f.Name)
		return
	}
	f.route(id, types)
}

func (f *File) RemoveMember(id MemberID) {
	if !f.g.mutable("file member removal") {
		return
	}
	m := f.g.Member(id)
	if m == nil {
		return
	}
	f.all.remove(m.LocalName, id)
	types, _ := fileLists(m.Kind)
	f.unroute(id, types)
}

type Dir struct {
	Definition
	ID      DirID
	Path    string
	Parent  DirID
	Files   []FileID
	SubDirs []DirID
}

type Page struct {
	Definition
	ID    PageID
	Title string
	// Example marks pages created for example sources.
	Example bool
}
