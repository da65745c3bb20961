package graph

// GroupCandidate is one group tag attached to an entry.
type GroupCandidate struct {
	Group GroupID
	Pri   Priority
}

// pickGroup selects the candidate with the highest priority. Candidates are
// taken in the order given; on a tie the first one wins and the tie is
// reported as an ambiguity.
func (g *Graph) pickGroup(candidates []GroupCandidate, what string, loc Location) (GroupCandidate, bool) {
	var (
		best  GroupCandidate
		found bool
	)
	for _, cand := range candidates {
		if g.Group(cand.Group) == nil {
			continue
		}
		switch {
		case !found || cand.Pri > best.Pri:
			best, found = cand, true
		case cand.Pri == best.Pri && cand.Group != best.Group:
			g.report.Report(DiagAmbiguity, loc,
				"%s is requested by groups %s and %s with the same priority %s; keeping %s",
				what, g.Group(best.Group).Name, g.Group(cand.Group).Name, cand.Pri, g.Group(best.Group).Name)
		}
	}
	return best, found
}

// shouldMove applies the re-assignment policy to an entity already owned by
// a group: move only on a strictly higher priority, or on an equal priority
// when the new request is documented and the recorded one was not.
func (g *Graph) shouldMove(cur *GroupAssignment, next GroupCandidate, hasDocs bool, what string, loc Location) bool {
	if cur.Group == next.Group {
		return false
	}
	switch {
	case next.Pri > cur.Pri:
		return true
	case next.Pri < cur.Pri:
		return false
	case hasDocs && !cur.HasDocs:
		return true
	}
	old := g.Group(cur.Group)
	g.report.Report(DiagAmbiguity, loc,
		"%s is already in group %s with priority %s (defined at %s:%d); ignoring request for group %s",
		what, old.Name, cur.Pri, cur.Loc.File, cur.Loc.Line, g.Group(next.Group).Name)
	return false
}

// AddMemberToGroups assigns a member to one of the candidate groups of an
// entry that declares it. hasDocs tells whether that entry documents the
// member. It returns the group that owns the member afterwards.
func (g *Graph) AddMemberToGroups(candidates []GroupCandidate, id MemberID, hasDocs bool, loc Location) GroupID {
	m := g.Member(id)
	if m == nil || !g.mutable("group member "+m.Name) {
		return NoGroup
	}
	best, ok := g.pickGroup(candidates, "member "+m.Name, loc)
	if !ok {
		return m.GroupID()
	}

	if m.Grouping != nil {
		if !g.shouldMove(m.Grouping, best, hasDocs, "member "+m.Name, loc) {
			return m.Grouping.Group
		}
		if old := g.Group(m.Grouping.Group); old != nil {
			old.RemoveMember(id)
			m.leaveGroup(old.ID)
		}
		m.Grouping = nil
	}

	gr := g.Group(best.Group)
	if !gr.InsertMember(id, false) {
		return m.GroupID()
	}
	m.Grouping = &GroupAssignment{Group: gr.ID, Pri: best.Pri, HasDocs: hasDocs, Loc: loc}
	m.makePartOfGroup(gr.ID)
	gr.recordMember(id, best.Pri, hasDocs)

	// Members of an anonymous compound used as this member's type follow it.
	if anon := g.Class(m.AnonType); anon != nil {
		anon.all.Each(func(_ string, mi MemberInfo) {
			if am := g.Member(mi.Member); am != nil && am.Grouping == nil {
				am.Grouping = &GroupAssignment{Group: gr.ID, Pri: best.Pri, HasDocs: hasDocs, Loc: loc}
				am.makePartOfGroup(gr.ID)
			}
		})
	}
	return gr.ID
}

// AddEntityToGroups assigns a compound, namespace, file, directory or page to
// one of the candidate groups, using the same selection and re-assignment
// rules as members.
func (g *Graph) AddEntityToGroups(candidates []GroupCandidate, r Ref, hasDocs bool, loc Location) GroupID {
	def, err := g.Definition(r)
	if err != nil {
		g.report.Report(DiagInternalError, loc, "group assignment: %v", err)
		return NoGroup
	}
	if r.Kind == DefMember {
		return g.AddMemberToGroups(candidates, MemberID(r.Index), hasDocs, loc)
	}
	if r.Kind == DefGroup {
		g.report.Report(DiagInternalError, loc, "group %s must be nested with AddGroup", def.Name)
		return NoGroup
	}
	if !g.mutable("group " + def.Name) {
		return NoGroup
	}
	what := r.Kind.String() + " " + def.Name
	best, ok := g.pickGroup(candidates, what, loc)
	if !ok {
		return def.GroupID()
	}
	if def.Grouping != nil {
		if !g.shouldMove(def.Grouping, best, hasDocs, what, loc) {
			return def.Grouping.Group
		}
		if old := g.Group(def.Grouping.Group); old != nil {
			old.removeEntity(r)
			def.leaveGroup(old.ID)
		}
		def.Grouping = nil
	}

	gr := g.Group(best.Group)
	var added bool
	switch r.Kind {
	case DefClass:
		added = gr.AddCompound(ClassID(r.Index))
	case DefNamespace:
		added = gr.AddNamespace(NamespaceID(r.Index))
	case DefFile:
		added = gr.AddFile(FileID(r.Index))
	case DefDir:
		added = gr.AddDir(DirID(r.Index))
	case DefPage:
		added = gr.AddPage(PageID(r.Index))
	}
	if !added {
		return def.GroupID()
	}
	def.Grouping = &GroupAssignment{Group: gr.ID, Pri: best.Pri, HasDocs: hasDocs, Loc: loc}
	def.makePartOfGroup(gr.ID)
	return gr.ID
}

// followMemberGroup places m in the documentation group of first, the
// leading member of the member group m is joining.
func (g *Graph) followMemberGroup(m, first *Member) {
	if first.Grouping == nil || first.GroupAlias != NoMember {
		return
	}
	if m.Grouping != nil && m.Grouping.Group == first.Grouping.Group {
		return
	}
	gr := g.Group(first.Grouping.Group)
	if gr == nil {
		return
	}
	if m.Grouping != nil {
		if old := g.Group(m.Grouping.Group); old != nil {
			old.RemoveMember(m.ID)
			m.leaveGroup(old.ID)
		}
		m.Grouping = nil
	}
	if !gr.InsertMember(m.ID, false) {
		return
	}
	a := *first.Grouping
	m.Grouping = &a
	m.makePartOfGroup(gr.ID)
	gr.recordMember(m.ID, a.Pri, a.HasDocs)
}
