package graph

import "strings"

const countUnknown = -1

// MemberList is an ordered, duplicate-free section of members with cached
// declaration and documentation counts. Every mutation resets the caches of
// the list and of every list that aggregates it through a member group.
type MemberList struct {
	g       *Graph
	scope   *memberScope
	typ     ListType
	members []MemberID
	index   map[MemberID]struct{}
	groups  []*MemberGroup
	parents []*MemberList

	numDecMembers    int
	numDecEnumValues int
	numDocMembers    int
	numDocEnumValues int
}

func newMemberList(g *Graph, t ListType) *MemberList {
	l := &MemberList{g: g, typ: t, index: make(map[MemberID]struct{})}
	l.Invalidate()
	return l
}

func (l *MemberList) Type() ListType { return l.typ }
func (l *MemberList) Len() int       { return len(l.members) }

func (l *MemberList) Members() []MemberID {
	out := make([]MemberID, len(l.members))
	copy(out, l.members)
	return out
}

func (l *MemberList) Contains(id MemberID) bool {
	_, ok := l.index[id]
	return ok
}

// Append adds id unless it is already present.
func (l *MemberList) Append(id MemberID) bool {
	if !l.g.mutable("append to " + l.typ.String()) {
		return false
	}
	if l.Contains(id) {
		return false
	}
	l.members = append(l.members, id)
	l.index[id] = struct{}{}
	l.changed()
	return true
}

func (l *MemberList) Remove(id MemberID) bool {
	if !l.g.mutable("remove from " + l.typ.String()) {
		return false
	}
	if !l.Contains(id) {
		return false
	}
	for i, m := range l.members {
		if m == id {
			l.members = append(l.members[:i], l.members[i+1:]...)
			break
		}
	}
	delete(l.index, id)
	l.changed()
	return true
}

// changed invalidates every list of the owning scope, since declaration
// rules look at sibling sections.
func (l *MemberList) changed() {
	if l.scope != nil {
		l.scope.invalidateAll()
	}
	l.Invalidate()
}

// Invalidate resets the cached counts to the "not computed" sentinel.
func (l *MemberList) Invalidate() {
	l.numDecMembers = countUnknown
	l.numDecEnumValues = countUnknown
	l.numDocMembers = countUnknown
	l.numDocEnumValues = countUnknown
	for _, p := range l.parents {
		p.Invalidate()
	}
}

func (l *MemberList) MemberGroups() []*MemberGroup {
	return append([]*MemberGroup(nil), l.groups...)
}

// AddMemberGroup makes l aggregate the counts of mg.
func (l *MemberList) AddMemberGroup(mg *MemberGroup) {
	for _, g := range l.groups {
		if g == mg {
			return
		}
	}
	l.groups = append(l.groups, mg)
	mg.list.parents = append(mg.list.parents, l)
	l.Invalidate()
}

// CountDecMembers returns the number of entries a declaration section shows,
// including those of its member groups.
func (l *MemberList) CountDecMembers() int {
	if l.numDecMembers != countUnknown {
		return l.numDecMembers
	}
	opt := l.g.opts
	l.numDecMembers, l.numDecEnumValues = 0, 0
	for _, id := range l.members {
		m := l.g.Member(id)
		if m == nil || !m.IsBriefSectionVisible(opt) {
			continue
		}
		switch m.Kind {
		case MemberFriend, MemberVariable, MemberEvent, MemberProperty,
			MemberTypedef, MemberInterface, MemberService:
			l.numDecMembers++
		case MemberFunction, MemberSignal, MemberDCOP, MemberSlot:
			if !m.Related || m.Class != NoClass {
				l.numDecMembers++
			}
		case MemberEnumeration:
			if !l.hiddenAnonymousEnum(m) {
				l.numDecMembers++
			}
		case MemberEnumValue:
			l.numDecEnumValues++
			l.numDecMembers++
		case MemberDefine:
			if opt.ExtractAll || m.Args != "" || m.Initializer != "" || m.HasDocumentation() {
				l.numDecMembers++
			}
		}
	}
	for _, mg := range l.groups {
		l.numDecMembers += mg.list.CountDecMembers()
		l.numDecEnumValues += mg.list.NumDecEnumValues()
	}
	return l.numDecMembers
}

func (l *MemberList) NumDecEnumValues() int {
	l.CountDecMembers()
	return l.numDecEnumValues
}

// CountDocMembers returns the number of detailed documentation entries.
// Enum values are included; NumDocEnumValues reports how many of them.
func (l *MemberList) CountDocMembers() int {
	if l.numDocMembers != countUnknown {
		return l.numDocMembers
	}
	opt := l.g.opts
	l.numDocMembers, l.numDocEnumValues = 0, 0
	for _, id := range l.members {
		m := l.g.Member(id)
		if m == nil || !m.IsDetailedSectionVisible(opt) {
			continue
		}
		if m.Kind == MemberEnumValue {
			l.numDocEnumValues++
		}
		l.numDocMembers++
	}
	for _, mg := range l.groups {
		l.numDocMembers += mg.list.CountDocMembers()
		l.numDocEnumValues += mg.list.NumDocEnumValues()
	}
	return l.numDocMembers
}

func (l *MemberList) NumDocEnumValues() int {
	l.CountDocMembers()
	return l.numDocEnumValues
}

// DeclarationMembers returns the members a declaration section emits, in
// order, applying the same filters CountDecMembers counts with. Members of
// attached member groups are not included.
func (l *MemberList) DeclarationMembers() []MemberID {
	opt := l.g.opts
	var out []MemberID
	for _, id := range l.members {
		m := l.g.Member(id)
		if m == nil || !m.IsBriefSectionVisible(opt) {
			continue
		}
		switch m.Kind {
		case MemberFunction, MemberSignal, MemberDCOP, MemberSlot:
			if m.Related && m.Class == NoClass {
				continue
			}
		case MemberEnumeration:
			if l.hiddenAnonymousEnum(m) {
				continue
			}
		case MemberDefine:
			if !(opt.ExtractAll || m.Args != "" || m.Initializer != "" || m.HasDocumentation()) {
				continue
			}
		case MemberUnknown:
			continue
		}
		out = append(out, id)
	}
	return out
}

// DocumentationMembers returns the members that get a detailed entry.
func (l *MemberList) DocumentationMembers() []MemberID {
	var out []MemberID
	for _, id := range l.members {
		if m := l.g.Member(id); m != nil && m.IsDetailedSectionVisible(l.g.opts) {
			out = append(out, id)
		}
	}
	return out
}

// hiddenAnonymousEnum reports an anonymous enumeration that is only reachable
// through a member of its type: the enum name, stripped of its scope, starts
// with '@' and the type of some other member of the same scope contains it.
func (l *MemberList) hiddenAnonymousEnum(enum *Member) bool {
	name := enum.Name
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if !strings.HasPrefix(name, "@") {
		return false
	}
	uses := func(id MemberID) bool {
		if id == enum.ID {
			return false
		}
		v := l.g.Member(id)
		return v != nil && strings.Contains(v.Type, name)
	}
	for _, id := range l.members {
		if uses(id) {
			return true
		}
	}
	if l.scope == nil {
		return false
	}
	found := false
	l.scope.all.Each(func(_ string, mi MemberInfo) {
		if !found && uses(mi.Member) {
			found = true
		}
	})
	return found
}

// MemberGroup is a user-declared subdivision of a member section.
type MemberGroup struct {
	Header string
	Doc    string
	list   *MemberList

	// inDeclSection is the declaration section of the first member;
	// inSameSection stays true while every member came from it.
	inDeclSection *MemberList
	inSameSection bool
}

// InDeclSection returns the section the group is shown in, or nil when its
// members come from different sections and it forms a section of its own.
func (mg *MemberGroup) InDeclSection() *MemberList {
	if !mg.inSameSection {
		return nil
	}
	return mg.inDeclSection
}

// AllMembersInSameSection reports whether every member came from one
// declaration section.
func (mg *MemberGroup) AllMembersInSameSection() bool { return mg.inSameSection }

func (mg *MemberGroup) insert(id MemberID, section *MemberList) {
	switch {
	case mg.list.Len() == 0:
		mg.inDeclSection, mg.inSameSection = section, true
	case mg.inDeclSection != section:
		mg.inSameSection = false
	}
	mg.list.Append(id)
}

func (mg *MemberGroup) first() MemberID {
	if mg.list.Len() == 0 {
		return NoMember
	}
	return mg.list.members[0]
}

func (mg *MemberGroup) List() *MemberList { return mg.list }

// MemberInfo is one overload entry of a MemberNameInfo.
type MemberInfo struct {
	Member MemberID
	Prot   Protection
	Virt   Specifier
	// Inherited marks entries copied from a base compound.
	Inherited bool
}

// MemberNameInfo collects every member sharing one identifier.
type MemberNameInfo struct {
	Name    string
	Members []MemberInfo
}

func (mni *MemberNameInfo) Find(id MemberID) (MemberInfo, bool) {
	for _, mi := range mni.Members {
		if mi.Member == id {
			return mi, true
		}
	}
	return MemberInfo{}, false
}

// MemberNameIndex maps identifiers to their overload sets in insertion order.
type MemberNameIndex struct {
	names  []string
	byName map[string]*MemberNameInfo
}

func newMemberNameIndex() *MemberNameIndex {
	return &MemberNameIndex{byName: make(map[string]*MemberNameInfo)}
}

func (x *MemberNameIndex) add(name string, mi MemberInfo) bool {
	mni, ok := x.byName[name]
	if !ok {
		mni = &MemberNameInfo{Name: name}
		x.byName[name] = mni
		x.names = append(x.names, name)
	}
	if _, dup := mni.Find(mi.Member); dup {
		return false
	}
	mni.Members = append(mni.Members, mi)
	return true
}

func (x *MemberNameIndex) remove(name string, id MemberID) (MemberInfo, bool) {
	mni, ok := x.byName[name]
	if !ok {
		return MemberInfo{}, false
	}
	for i, mi := range mni.Members {
		if mi.Member != id {
			continue
		}
		mni.Members = append(mni.Members[:i], mni.Members[i+1:]...)
		if len(mni.Members) == 0 {
			delete(x.byName, name)
			for j, n := range x.names {
				if n == name {
					x.names = append(x.names[:j], x.names[j+1:]...)
					break
				}
			}
		}
		return mi, true
	}
	return MemberInfo{}, false
}

// Lookup returns the overload set for name, or nil.
func (x *MemberNameIndex) Lookup(name string) *MemberNameInfo {
	return x.byName[name]
}

func (x *MemberNameIndex) Names() []string {
	return append([]string(nil), x.names...)
}

func (x *MemberNameIndex) Len() int { return len(x.names) }

// Each visits every entry in insertion order.
func (x *MemberNameIndex) Each(fn func(name string, mi MemberInfo)) {
	for _, n := range x.names {
		for _, mi := range x.byName[n].Members {
			fn(n, mi)
		}
	}
}
