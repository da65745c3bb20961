package graph

import "strings"

type Protection uint8

const (
	Public Protection = iota
	Protected
	Private
	Package
)

func (p Protection) String() string {
	switch p {
	case Protected:
		return "protected"
	case Private:
		return "private"
	case Package:
		return "package"
	}
	return "public"
}

// ParseProtection maps a protection keyword, defaulting to Public.
func ParseProtection(s string) Protection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "protected":
		return Protected
	case "private":
		return Private
	case "package":
		return Package
	}
	return Public
}

// Specifier is the virtualness of a member or an inheritance relation.
type Specifier uint8

const (
	Normal Specifier = iota
	Virtual
	Pure
)

func (s Specifier) String() string {
	switch s {
	case Virtual:
		return "virtual"
	case Pure:
		return "pure"
	}
	return "non-virtual"
}

func ParseSpecifier(s string) Specifier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "virtual":
		return Virtual
	case "pure", "pure-virtual", "pure virtual":
		return Pure
	}
	return Normal
}

type Location struct {
	File   string
	Line   int
	Column int
}

// Priority ranks the grouping command that placed an entity in a group.
type Priority int

const (
	PriorityWeak Priority = iota
	PriorityAddToGroup
	PriorityDefGroup
	PriorityInGroup
)

func (p Priority) String() string {
	switch p {
	case PriorityWeak:
		return "@weakgroup"
	case PriorityAddToGroup:
		return "@addtogroup"
	case PriorityDefGroup:
		return "@defgroup"
	case PriorityInGroup:
		return "@ingroup"
	}
	return "@ingroup(custom)"
}

// GroupAssignment records the owning group of a definition together with the
// priority and documentation state seen when ownership was decided.
type GroupAssignment struct {
	Group   GroupID
	Pri     Priority
	HasDocs bool
	Loc     Location
}

// Definition is the part every entity in the graph shares.
type Definition struct {
	Name      string // fully qualified
	LocalName string
	Loc       Location
	Prot      Protection
	Brief     string
	Doc       string
	Outer     Ref
	// TagFile names the external tag file the entity was imported from.
	// Empty for entities that belong to this run.
	TagFile    string
	Hidden     bool
	Artificial bool

	PartOfGroups []GroupID
	Grouping     *GroupAssignment
}

func (d *Definition) HasDocumentation() bool {
	return strings.TrimSpace(d.Brief) != "" || strings.TrimSpace(d.Doc) != ""
}

func (d *Definition) IsExternal() bool { return d.TagFile != "" }

// GroupID returns the owning group, or NoGroup.
func (d *Definition) GroupID() GroupID {
	if d.Grouping == nil {
		return NoGroup
	}
	return d.Grouping.Group
}

func (d *Definition) makePartOfGroup(id GroupID) {
	for _, g := range d.PartOfGroups {
		if g == id {
			return
		}
	}
	d.PartOfGroups = append(d.PartOfGroups, id)
}

func (d *Definition) leaveGroup(id GroupID) {
	for i, g := range d.PartOfGroups {
		if g == id {
			d.PartOfGroups = append(d.PartOfGroups[:i], d.PartOfGroups[i+1:]...)
			return
		}
	}
}

// mergeDocs fills empty documentation from another declaration of the same entity.
func (d *Definition) mergeDocs(brief, doc string) {
	if strings.TrimSpace(d.Brief) == "" {
		d.Brief = brief
	}
	if strings.TrimSpace(d.Doc) == "" {
		d.Doc = doc
	}
}

// LocalNameOf strips every scope qualifier from name.
func LocalNameOf(name string) string {
	if i := strings.LastIndex(stripTemplateSpec(name), "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// ScopeOf returns the qualifier part of name, or "".
func ScopeOf(name string) string {
	if i := strings.LastIndex(stripTemplateSpec(name), "::"); i >= 0 {
		return name[:i]
	}
	return ""
}

// stripTemplateSpec blanks out everything nested inside <...> so scope
// separators inside template arguments are ignored, keeping byte offsets.
func stripTemplateSpec(name string) string {
	if !strings.Contains(name, "<") {
		return name
	}
	b := []byte(name)
	depth := 0
	for i, c := range b {
		switch c {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
				if depth == 0 {
					continue
				}
			}
		}
		if depth > 0 && c != '<' {
			b[i] = ' '
		}
	}
	return string(b)
}
