package graph

import "strings"

type CompoundType uint8

const (
	CompoundClass CompoundType = iota
	CompoundStruct
	CompoundUnion
	CompoundInterface
	CompoundProtocol
	CompoundCategory
	CompoundException
	CompoundService
	CompoundSingleton
)

var compoundTypeNames = [...]string{
	CompoundClass:     "class",
	CompoundStruct:    "struct",
	CompoundUnion:     "union",
	CompoundInterface: "interface",
	CompoundProtocol:  "protocol",
	CompoundCategory:  "category",
	CompoundException: "exception",
	CompoundService:   "service",
	CompoundSingleton: "singleton",
}

func (t CompoundType) String() string {
	if int(t) < len(compoundTypeNames) {
		return compoundTypeNames[t]
	}
	return "class"
}

// ParseCompoundType maps a compound keyword; ok is false for anything else.
func ParseCompoundType(s string) (CompoundType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range compoundTypeNames {
		if n == s {
			return CompoundType(i), true
		}
	}
	return CompoundClass, false
}

// InheritanceEdge is one base or derived relation. The edge stored on the
// derived side names the base; its mirror on the base side names the derived.
type InheritanceEdge struct {
	Class     ClassID
	UsedName  string
	Prot      Protection
	Virt      Specifier
	TemplSpec string
}

// UsageEdge is a collaboration relation. Accessors is an ordered set of the
// member names through which the relation exists.
type UsageEdge struct {
	Class       ClassID
	Accessors   []string
	Containment bool
	TemplSpec   string
}

func (e *UsageEdge) addAccessor(name string) {
	for _, a := range e.Accessors {
		if a == name {
			return
		}
	}
	e.Accessors = append(e.Accessors, name)
}

func (e UsageEdge) copyEdge() UsageEdge {
	e.Accessors = append([]string(nil), e.Accessors...)
	return e
}

type Compound struct {
	Definition
	memberScope
	ID   ClassID
	Type CompoundType

	bases []InheritanceEdge
	subs  []InheritanceEdge

	uses        []*UsageEdge
	usedBy      []*UsageEdge
	usesIndex   map[ClassID]*UsageEdge
	usedByIndex map[ClassID]*UsageEdge

	TemplateArgs   []Arg
	TemplateMaster ClassID
	templates      templateRegistry

	Nested []ClassID

	// IsLocal marks compounds only visible in their translation unit, such
	// as class extensions declared in an implementation file.
	IsLocal    bool
	IsAbstract bool
	IsSimple   bool
	// CategoryOf is the compound a merged category extends.
	CategoryOf ClassID
	Categories []ClassID

	ArrowOperator MemberID
}

func newCompound(g *Graph, id ClassID, name string, t CompoundType, loc Location) *Compound {
	return &Compound{
		Definition: Definition{
			Name:      name,
			LocalName: LocalNameOf(name),
			Loc:       loc,
		},
		memberScope:    newMemberScope(g),
		ID:             id,
		Type:           t,
		usesIndex:      make(map[ClassID]*UsageEdge),
		usedByIndex:    make(map[ClassID]*UsageEdge),
		TemplateMaster: NoClass,
		templates:      newTemplateRegistry(),
		IsSimple:       t == CompoundStruct || t == CompoundUnion,
		CategoryOf:     NoClass,
		ArrowOperator:  NoMember,
	}
}

// IsTemplate reports a compound declared with template parameters.
func (c *Compound) IsTemplate() bool { return len(c.TemplateArgs) > 0 }

// InsertBaseClass records base as a base of c and, in the same step, c as a
// sub-compound of base. A compound never becomes its own base.
func (c *Compound) InsertBaseClass(base ClassID, usedName string, prot Protection, virt Specifier, templSpec string) {
	if base == c.ID {
		return
	}
	bc := c.g.Class(base)
	if bc == nil {
		c.g.report.Report(DiagInternalError, c.Loc, "base class handle %d of %s does not exist", base, c.Name)
		return
	}
	if !c.g.mutable("insert base class of " + c.Name) {
		return
	}
	c.bases = append(c.bases, InheritanceEdge{Class: base, UsedName: usedName, Prot: prot, Virt: virt, TemplSpec: templSpec})
	bc.subs = append(bc.subs, InheritanceEdge{Class: c.ID, UsedName: c.Name, Prot: prot, Virt: virt, TemplSpec: templSpec})
}

// RemoveBaseClass drops every edge between c and base on both sides.
func (c *Compound) RemoveBaseClass(base ClassID) {
	if !c.g.mutable("remove base class of " + c.Name) {
		return
	}
	c.bases = dropEdges(c.bases, base)
	if bc := c.g.Class(base); bc != nil {
		bc.subs = dropEdges(bc.subs, c.ID)
	}
}

func dropEdges(edges []InheritanceEdge, id ClassID) []InheritanceEdge {
	out := edges[:0]
	for _, e := range edges {
		if e.Class != id {
			out = append(out, e)
		}
	}
	return out
}

func (c *Compound) BaseClasses() []InheritanceEdge {
	return append([]InheritanceEdge(nil), c.bases...)
}

func (c *Compound) SubClasses() []InheritanceEdge {
	return append([]InheritanceEdge(nil), c.subs...)
}

// VisibleBaseClasses drops private derivation unless private members are extracted.
func (c *Compound) VisibleBaseClasses() []InheritanceEdge {
	return visibleEdges(c.bases, c.g.opts)
}

func (c *Compound) VisibleSubClasses() []InheritanceEdge {
	return visibleEdges(c.subs, c.g.opts)
}

func visibleEdges(edges []InheritanceEdge, opt Options) []InheritanceEdge {
	var out []InheritanceEdge
	for _, e := range edges {
		if e.Prot == Private && !opt.ExtractPrivate {
			continue
		}
		out = append(out, e)
	}
	return out
}

// IsBaseClass reports whether candidate is a direct or indirect base of c.
// With followInstances false, template instances are replaced by their master
// before comparing. Compounds already visited are not searched again, and
// recursion deeper than maxInheritanceDepth is reported and answered with false.
func (c *Compound) IsBaseClass(candidate ClassID, followInstances bool, level int) bool {
	return c.isBaseClass(candidate, followInstances, level, make(map[ClassID]bool))
}

func (c *Compound) isBaseClass(candidate ClassID, followInstances bool, level int, seen map[ClassID]bool) bool {
	if level > maxInheritanceDepth {
		c.g.report.Report(DiagInternalError, c.Loc,
			"possible recursive class relation while inside %s and looking for base class %s",
			c.Name, c.g.nameOf(candidate))
		return false
	}
	seen[c.ID] = true
	for _, e := range c.bases {
		id := e.Class
		bc := c.g.Class(id)
		if bc == nil {
			continue
		}
		if !followInstances && bc.TemplateMaster != NoClass {
			id = bc.TemplateMaster
			if bc = c.g.Class(id); bc == nil {
				continue
			}
		}
		if id == candidate {
			return true
		}
		if !seen[id] && bc.isBaseClass(candidate, followInstances, level+1, seen) {
			return true
		}
	}
	return false
}

// IsSubClass reports whether candidate derives, directly or not, from c.
func (c *Compound) IsSubClass(candidate ClassID, level int) bool {
	return c.isSubClass(candidate, level, make(map[ClassID]bool))
}

func (c *Compound) isSubClass(candidate ClassID, level int, seen map[ClassID]bool) bool {
	if level > maxInheritanceDepth {
		c.g.report.Report(DiagInternalError, c.Loc,
			"possible recursive class relation while inside %s and looking for derived class %s",
			c.Name, c.g.nameOf(candidate))
		return false
	}
	seen[c.ID] = true
	for _, e := range c.subs {
		if e.Class == candidate {
			return true
		}
		sc := c.g.Class(e.Class)
		if sc != nil && !seen[e.Class] && sc.isSubClass(candidate, level+1, seen) {
			return true
		}
	}
	return false
}

func (g *Graph) nameOf(id ClassID) string {
	if c := g.Class(id); c != nil {
		return c.Name
	}
	return "<unknown>"
}

// InsertMember routes member id into c's sections by kind, protection and
// static flag. With addToAllList the member also joins the all-members index.
func (c *Compound) InsertMember(id MemberID, prot Protection, addToAllList bool) {
	if !c.g.mutable("insert member into " + c.Name) {
		return
	}
	m := c.g.Member(id)
	if m == nil {
		return
	}
	c.insertMember(m, prot, addToAllList)
}

func (c *Compound) insertMember(m *Member, prot Protection, addToAllList bool) {
	if m.Kind == MemberDefine {
		c.g.report.Report(DiagRejection, m.Loc, "Define for (%s) can not be a member of %s", m.Name, c.Name)
		return
	}
	if addToAllList && !(c.g.opts.HideFriendCompounds && m.IsFriendCompound()) {
		c.all.add(m.LocalName, MemberInfo{Member: m.ID, Prot: prot, Virt: m.Virt})
	}

	dec, ok := compoundDeclLists(m, prot)
	if !ok {
		c.g.report.Report(DiagInternalError, m.Loc,
			"unexpected member type %s for member %s of %s", m.Kind, m.Name, c.Name)
		return
	}
	c.route(m.ID, dec)
	c.route(m.ID, compoundDetailedLists(m, prot, c.g.opts))

	if m.Virt == Pure {
		c.IsAbstract = true
	}
	if m.Kind != MemberVariable || m.Static || prot != Public {
		c.IsSimple = false
	}
	if m.IsFunctionLike() && m.LocalName == "operator->" {
		c.ArrowOperator = m.ID
	}
}

// RemoveMember undoes InsertMember using the same routing.
func (c *Compound) RemoveMember(id MemberID) {
	if !c.g.mutable("remove member from " + c.Name) {
		return
	}
	m := c.g.Member(id)
	if m == nil {
		return
	}
	prot := m.Prot
	if mi, ok := c.all.remove(m.LocalName, id); ok {
		prot = mi.Prot
	}
	dec, _ := compoundDeclLists(m, prot)
	c.unroute(id, dec)
	c.unroute(id, compoundDetailedLists(m, prot, c.g.opts))
	if c.ArrowOperator == id {
		c.ArrowOperator = NoMember
	}
}

func umlPrefix(p Protection) string {
	switch p {
	case Protected:
		return "#"
	case Private:
		return "-"
	case Package:
		return "~"
	}
	return "+"
}

// AddUsedClass records that c uses target through accessor. Repeated calls
// for the same target extend the accessor set of the existing edge.
func (c *Compound) AddUsedClass(target ClassID, accessor string, prot Protection, templSpec string) {
	c.addUsage(&c.uses, c.usesIndex, target, accessor, prot, templSpec)
}

// AddUsedByClass is the reverse of AddUsedClass; callers insert both sides.
func (c *Compound) AddUsedByClass(user ClassID, accessor string, prot Protection, templSpec string) {
	c.addUsage(&c.usedBy, c.usedByIndex, user, accessor, prot, templSpec)
}

func (c *Compound) addUsage(edges *[]*UsageEdge, index map[ClassID]*UsageEdge, target ClassID, accessor string, prot Protection, templSpec string) {
	if !c.g.mutable("usage edge of " + c.Name) {
		return
	}
	if prot == Private && !c.g.opts.ExtractPrivate {
		return
	}
	if c.g.opts.UMLLook {
		accessor = umlPrefix(prot) + accessor
	}
	e, ok := index[target]
	if !ok {
		e = &UsageEdge{Class: target, Containment: true, TemplSpec: templSpec}
		index[target] = e
		*edges = append(*edges, e)
	}
	e.addAccessor(accessor)
}

func (c *Compound) UsedClasses() []UsageEdge   { return copyUsage(c.uses) }
func (c *Compound) UsedByClasses() []UsageEdge { return copyUsage(c.usedBy) }

func copyUsage(edges []*UsageEdge) []UsageEdge {
	out := make([]UsageEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.copyEdge())
	}
	return out
}

// AddNested records id as a compound declared inside c.
func (c *Compound) AddNested(id ClassID) {
	for _, n := range c.Nested {
		if n == id {
			return
		}
	}
	c.Nested = append(c.Nested, id)
}

// IsExtension reports a category with an empty name between the parentheses.
func (c *Compound) IsExtension() bool {
	if c.Type != CompoundCategory {
		return false
	}
	open := strings.Index(c.Name, "(")
	if open < 0 {
		return false
	}
	end := strings.Index(c.Name[open:], ")")
	if end < 0 {
		return false
	}
	return strings.TrimSpace(c.Name[open+1:open+end]) == ""
}

// ExtendedName is the name of the class a category extends.
func (c *Compound) ExtendedName() string {
	if i := strings.Index(c.Name, "("); i >= 0 {
		return strings.TrimSpace(c.Name[:i])
	}
	return c.Name
}
