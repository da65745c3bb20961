package graph

// GroupedMember is a member owned by a group, with the priority and
// documentation state recorded when it was assigned.
type GroupedMember struct {
	Member  MemberID
	Pri     Priority
	HasDocs bool
}

// Group is a user-declared documentation grouping.
type Group struct {
	Definition
	memberScope
	ID    GroupID
	Title string

	Compounds  []ClassID
	Namespaces []NamespaceID
	Files      []FileID
	Dirs       []DirID
	Pages      []PageID
	Examples   []PageID
	SubGroups  []GroupID
	grouped    []GroupedMember
}

func newGroup(g *Graph, id GroupID, name, title string, loc Location) *Group {
	return &Group{
		Definition:  Definition{Name: name, LocalName: name, Loc: loc},
		memberScope: newMemberScope(g),
		ID:          id,
		Title:       title,
	}
}

// GroupedMembers returns the members this group documents, in assignment order.
func (gr *Group) GroupedMembers() []GroupedMember {
	return append([]GroupedMember(nil), gr.grouped...)
}

// ContainsGroup reports whether target is gr itself or reachable through
// gr's nested groups.
func (gr *Group) ContainsGroup(target GroupID) bool {
	return gr.containsGroup(target, 0)
}

func (gr *Group) containsGroup(target GroupID, level int) bool {
	if gr.ID == target {
		return true
	}
	if level > maxGroupDepth {
		gr.g.report.Report(DiagInternalError, gr.Loc, "group nesting of %s exceeds depth %d", gr.Name, maxGroupDepth)
		return false
	}
	for _, id := range gr.SubGroups {
		if id == target {
			return true
		}
		if sub := gr.g.Group(id); sub != nil && sub.containsGroup(target, level+1) {
			return true
		}
	}
	return false
}

// AddGroup nests sub inside gr. Self nesting and nesting that would close a
// cycle are refused with a warning; nesting that already holds is a no-op.
func (gr *Group) AddGroup(sub GroupID) bool {
	if !gr.g.mutable("add subgroup to " + gr.Name) {
		return false
	}
	sg := gr.g.Group(sub)
	if sg == nil {
		return false
	}
	if sub == gr.ID {
		gr.g.report.Report(DiagRejection, gr.Loc, "Refusing to add group %s to itself", gr.Name)
		return false
	}
	if sg.ContainsGroup(gr.ID) {
		gr.g.report.Report(DiagRejection, sg.Loc,
			"Refusing to add group %s to group %s, since the latter is already a subgroup of the former",
			sg.Name, gr.Name)
		return false
	}
	if gr.ContainsGroup(sub) {
		return false
	}
	gr.SubGroups = append(gr.SubGroups, sub)
	sg.makePartOfGroup(gr.ID)
	if sg.Outer.IsZero() {
		sg.Outer = GroupRef(gr.ID)
	}
	return true
}

// InsertMember adds m to the group. A function matching an already grouped
// member in name, scope, arguments and template arity is not added; it
// becomes a group alias of that member instead and false is returned.
func (gr *Group) InsertMember(id MemberID, docOnly bool) bool {
	if !gr.g.mutable("insert member into group " + gr.Name) {
		return false
	}
	m := gr.g.Member(id)
	if m == nil || m.Hidden {
		return false
	}
	if mni := gr.all.Lookup(m.LocalName); mni != nil {
		for _, mi := range mni.Members {
			other := gr.g.Member(mi.Member)
			if other == nil {
				continue
			}
			if other.ID == m.ID {
				return false
			}
			sameScope := m.Outer == other.Outer || (m.Outer.FileScoped() && other.Outer.FileScoped())
			if m.IsFunctionLike() && other.IsFunctionLike() &&
				len(m.TemplateArgs) == len(other.TemplateArgs) &&
				sameScope && MatchArguments(m.Arguments, other.Arguments) {
				if other.GroupAlias == NoMember {
					m.GroupAlias = other.ID
				} else if other.GroupAlias != m.ID {
					m.GroupAlias = other.GroupAlias
				}
				return false
			}
		}
	}

	types, ok := groupLists(m, docOnly)
	gr.all.add(m.LocalName, MemberInfo{Member: id, Prot: m.Prot, Virt: m.Virt})
	if !ok {
		gr.g.report.Report(DiagInternalError, m.Loc,
			"member %s (kind %s) of group %s has unexpected type",
			m.Name, m.Kind, gr.Name)
		return true
	}
	gr.route(id, types)
	return true
}

// RemoveMember takes m out of every section it was routed into.
func (gr *Group) RemoveMember(id MemberID) {
	if !gr.g.mutable("remove member from group " + gr.Name) {
		return
	}
	m := gr.g.Member(id)
	if m == nil {
		return
	}
	gr.all.remove(m.LocalName, id)
	types, _ := groupLists(m, false)
	gr.unroute(id, types)
	for i, gm := range gr.grouped {
		if gm.Member == id {
			gr.grouped = append(gr.grouped[:i], gr.grouped[i+1:]...)
			break
		}
	}
}

func (gr *Group) recordMember(id MemberID, pri Priority, hasDocs bool) {
	for i, gm := range gr.grouped {
		if gm.Member == id {
			gr.grouped[i] = GroupedMember{Member: id, Pri: pri, HasDocs: hasDocs}
			return
		}
	}
	gr.grouped = append(gr.grouped, GroupedMember{Member: id, Pri: pri, HasDocs: hasDocs})
}

func appendUnique[T comparable](list []T, v T) ([]T, bool) {
	for _, x := range list {
		if x == v {
			return list, false
		}
	}
	return append(list, v), true
}

func removeValue[T comparable](list []T, v T) []T {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// AddCompound lists a compound in the group. Hidden compounds are skipped.
func (gr *Group) AddCompound(id ClassID) bool {
	c := gr.g.Class(id)
	if c == nil || c.Hidden || !gr.g.mutable("add compound to group "+gr.Name) {
		return false
	}
	var added bool
	gr.Compounds, added = appendUnique(gr.Compounds, id)
	return added
}

func (gr *Group) AddNamespace(id NamespaceID) bool {
	n := gr.g.Namespace(id)
	if n == nil || n.Hidden || !gr.g.mutable("add namespace to group "+gr.Name) {
		return false
	}
	var added bool
	gr.Namespaces, added = appendUnique(gr.Namespaces, id)
	return added
}

func (gr *Group) AddFile(id FileID) bool {
	f := gr.g.File(id)
	if f == nil || f.Hidden || !gr.g.mutable("add file to group "+gr.Name) {
		return false
	}
	var added bool
	gr.Files, added = appendUnique(gr.Files, id)
	return added
}

func (gr *Group) AddDir(id DirID) bool {
	d := gr.g.Dir(id)
	if d == nil || d.Hidden || !gr.g.mutable("add dir to group "+gr.Name) {
		return false
	}
	var added bool
	gr.Dirs, added = appendUnique(gr.Dirs, id)
	return added
}

// AddPage lists a page, or an example page, in the group.
func (gr *Group) AddPage(id PageID) bool {
	p := gr.g.Page(id)
	if p == nil || p.Hidden || !gr.g.mutable("add page to group "+gr.Name) {
		return false
	}
	var added bool
	if p.Example {
		gr.Examples, added = appendUnique(gr.Examples, id)
	} else {
		gr.Pages, added = appendUnique(gr.Pages, id)
	}
	return added
}

func (gr *Group) removeEntity(r Ref) {
	switch r.Kind {
	case DefClass:
		gr.Compounds = removeValue(gr.Compounds, ClassID(r.Index))
	case DefNamespace:
		gr.Namespaces = removeValue(gr.Namespaces, NamespaceID(r.Index))
	case DefFile:
		gr.Files = removeValue(gr.Files, FileID(r.Index))
	case DefDir:
		gr.Dirs = removeValue(gr.Dirs, DirID(r.Index))
	case DefPage:
		gr.Pages = removeValue(gr.Pages, PageID(r.Index))
		gr.Examples = removeValue(gr.Examples, PageID(r.Index))
	}
}

// CountMembers is the number of documented entities the group holds.
func (gr *Group) CountMembers() int {
	return len(gr.SubGroups) + len(gr.Compounds) + len(gr.Namespaces) +
		len(gr.Files) + len(gr.Dirs) + len(gr.Pages) + len(gr.Examples) +
		gr.NumDocMembers()
}

// NumDocMembers counts grouped members that are not aliases.
func (gr *Group) NumDocMembers() int {
	n := 0
	for _, gm := range gr.grouped {
		if m := gr.g.Member(gm.Member); m != nil && m.GroupAlias == NoMember {
			n++
		}
	}
	return n
}
