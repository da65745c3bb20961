package graph

import "strings"

type MemberKind uint8

const (
	// MemberUnknown is only produced for data that bypassed kind validation,
	// such as imported tag files.
	MemberUnknown MemberKind = iota
	MemberDefine
	MemberFunction
	MemberVariable
	MemberTypedef
	MemberEnumeration
	MemberEnumValue
	MemberSignal
	MemberSlot
	MemberFriend
	MemberDCOP
	MemberProperty
	MemberEvent
	MemberInterface
	MemberService
)

var memberKindNames = map[MemberKind]string{
	MemberUnknown:     "unknown",
	MemberDefine:      "define",
	MemberFunction:    "function",
	MemberVariable:    "variable",
	MemberTypedef:     "typedef",
	MemberEnumeration: "enumeration",
	MemberEnumValue:   "enumvalue",
	MemberSignal:      "signal",
	MemberSlot:        "slot",
	MemberFriend:      "friend",
	MemberDCOP:        "dcop",
	MemberProperty:    "property",
	MemberEvent:       "event",
	MemberInterface:   "interface",
	MemberService:     "service",
}

func (k MemberKind) String() string {
	if s, ok := memberKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseMemberKind maps a kind keyword. Unrecognised keywords yield MemberUnknown.
func ParseMemberKind(s string) MemberKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "define", "macro":
		return MemberDefine
	case "function", "method", "prototype":
		return MemberFunction
	case "variable", "var", "field":
		return MemberVariable
	case "typedef", "using":
		return MemberTypedef
	case "enum", "enumeration":
		return MemberEnumeration
	case "enumvalue", "enumerator":
		return MemberEnumValue
	case "signal":
		return MemberSignal
	case "slot":
		return MemberSlot
	case "friend":
		return MemberFriend
	case "dcop":
		return MemberDCOP
	case "property":
		return MemberProperty
	case "event":
		return MemberEvent
	case "interface", "idl-interface":
		return MemberInterface
	case "service", "idl-service":
		return MemberService
	}
	return MemberUnknown
}

// Arg is one entry of an argument or template-parameter list.
type Arg struct {
	Type    string
	Name    string
	Default string
}

type Member struct {
	Definition
	ID   MemberID
	Kind MemberKind

	Static  bool
	Related bool
	Virt    Specifier
	Ctor    bool
	Dtor    bool

	Type         string
	Args         string
	Arguments    []Arg
	TemplateArgs []Arg
	Initializer  string

	Class     ClassID
	Namespace NamespaceID
	File      FileID

	// GroupAlias points at the grouped member this one duplicates.
	GroupAlias     MemberID
	TemplateMaster MemberID

	// Enumerations list their values; values point back at their enumeration.
	EnumScope  MemberID
	EnumValues []MemberID

	// AnonType is the anonymous compound used as this member's type.
	AnonType ClassID
	// CategoryRelation links a method merged from a category to its counterpart.
	CategoryRelation MemberID

	MemberGroup string
}

func (m *Member) IsFunctionLike() bool {
	switch m.Kind {
	case MemberFunction, MemberSignal, MemberSlot, MemberDCOP:
		return true
	}
	return false
}

func (m *Member) IsFriend() bool { return m.Kind == MemberFriend }

// IsFriendCompound reports "friend class X" style declarations.
func (m *Member) IsFriendCompound() bool {
	if m.Kind != MemberFriend {
		return false
	}
	switch strings.TrimSpace(m.Type) {
	case "friend class", "friend struct", "friend union", "class", "struct", "union":
		return true
	}
	return false
}

// IsBriefSectionVisible decides whether m appears in declaration sections.
func (m *Member) IsBriefSectionVisible(opt Options) bool {
	if m.Hidden {
		return false
	}
	visibleIfStatic := !(m.Class == NoClass && m.Static && !opt.ExtractStatic)
	visibleIfDocumented := !opt.HideUndocMembers || m.HasDocumentation()
	visibleIfPrivate := opt.ProtectionVisible(m.Prot) || m.IsFriend()
	visibleIfFriendCompound := !(opt.HideFriendCompounds && m.IsFriendCompound())
	return visibleIfStatic && visibleIfDocumented && visibleIfPrivate && visibleIfFriendCompound
}

// IsDetailedSectionVisible decides whether m gets a documentation entry.
func (m *Member) IsDetailedSectionVisible(opt Options) bool {
	if m.Hidden {
		return false
	}
	docFilter := opt.ExtractAll || m.HasDocumentation()
	privateFilter := opt.ProtectionVisible(m.Prot) || m.IsFriend()
	staticFilter := m.Class != NoClass || !m.Static || opt.ExtractStatic
	return docFilter && privateFilter && staticFilter
}

// Signature is the name plus argument string, used for display and anchors.
func (m *Member) Signature() string {
	return m.Name + m.Args
}

func newMember(id MemberID, kind MemberKind, name string, loc Location) *Member {
	return &Member{
		Definition: Definition{
			Name:      name,
			LocalName: LocalNameOf(name),
			Loc:       loc,
		},
		ID:               id,
		Kind:             kind,
		Class:            NoClass,
		Namespace:        NoNamespace,
		File:             NoFile,
		GroupAlias:       NoMember,
		TemplateMaster:   NoMember,
		EnumScope:        NoMember,
		AnonType:         NoClass,
		CategoryRelation: NoMember,
	}
}

// clone copies m into a fresh arena slot; relations are not copied.
func (m *Member) clone(id MemberID) *Member {
	c := *m
	c.ID = id
	c.Definition.PartOfGroups = nil
	c.Definition.Grouping = nil
	c.GroupAlias = NoMember
	c.EnumValues = nil
	c.Arguments = append([]Arg(nil), m.Arguments...)
	c.TemplateArgs = append([]Arg(nil), m.TemplateArgs...)
	return &c
}

// MatchArguments compares two argument lists by their normalized types.
// Parameter names and defaults are ignored; "(void)" equals "()".
func MatchArguments(a, b []Arg) bool {
	a, b = dropVoid(a), dropVoid(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if normalizeType(a[i].Type) != normalizeType(b[i].Type) {
			return false
		}
	}
	return true
}

func dropVoid(args []Arg) []Arg {
	if len(args) == 1 && normalizeType(args[0].Type) == "void" && args[0].Name == "" {
		return nil
	}
	return args
}

func normalizeType(t string) string {
	return RemoveRedundantWhitespace(strings.TrimSpace(t))
}

// RemoveRedundantWhitespace collapses whitespace runs and drops spaces that
// do not separate two identifier characters.
func RemoveRedundantWhitespace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fields[0])
	for _, f := range fields[1:] {
		prev := sb.String()
		if isIdentByte(prev[len(prev)-1]) && isIdentByte(f[0]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(f)
	}
	return sb.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
