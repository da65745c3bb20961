package graph

import (
	"regexp"
	"strings"
)

// TemplateState is the lifecycle of one (master, spec) pair.
type TemplateState uint8

const (
	NoInstance TemplateState = iota
	FreshInstance
	CachedInstance
)

func (s TemplateState) String() string {
	switch s {
	case FreshInstance:
		return "fresh"
	case CachedInstance:
		return "cached"
	}
	return "none"
}

type templateInstance struct {
	class ClassID
	state TemplateState
}

type templateRegistry struct {
	instances map[string]*templateInstance
	order     []string
	variables map[string]ClassID
}

func newTemplateRegistry() templateRegistry {
	return templateRegistry{
		instances: make(map[string]*templateInstance),
		variables: make(map[string]ClassID),
	}
}

// InsertTemplateInstance returns the instance of c for templSpec, creating it
// on first use. fresh is true only for the call that created it.
func (c *Compound) InsertTemplateInstance(file string, line, column int, templSpec string) (instance ClassID, fresh bool) {
	templSpec = RemoveRedundantWhitespace(templSpec)
	if ti, ok := c.templates.instances[templSpec]; ok {
		ti.state = CachedInstance
		return ti.class, false
	}
	if !c.g.mutable("template instance of " + c.Name) {
		return NoClass, false
	}
	inst := c.newInstance(templSpec, Location{File: file, Line: line, Column: column})
	c.templates.instances[templSpec] = &templateInstance{class: inst.ID, state: FreshInstance}
	c.templates.order = append(c.templates.order, templSpec)
	return inst.ID, true
}

func (c *Compound) newInstance(templSpec string, loc Location) *Compound {
	name := RemoveRedundantWhitespace(c.Name + templSpec)
	inst := c.g.newArtificialCompound(name, c.Type, loc)
	inst.LocalName = RemoveRedundantWhitespace(c.LocalName + templSpec)
	inst.TemplateMaster = c.ID
	inst.Outer = c.Outer
	inst.Prot = c.Prot
	inst.Hidden = true
	inst.TagFile = c.TagFile
	return inst
}

// TemplateInstance looks up an existing instance without creating one.
func (c *Compound) TemplateInstance(templSpec string) (ClassID, bool) {
	templSpec = RemoveRedundantWhitespace(templSpec)
	ti, ok := c.templates.instances[templSpec]
	if !ok {
		return NoClass, false
	}
	return ti.class, true
}

func (c *Compound) TemplateInstanceState(templSpec string) TemplateState {
	templSpec = RemoveRedundantWhitespace(templSpec)
	if ti, ok := c.templates.instances[templSpec]; ok {
		return ti.state
	}
	return NoInstance
}

// TemplateInstances returns the instances in creation order.
func (c *Compound) TemplateInstances() []ClassID {
	out := make([]ClassID, 0, len(c.templates.order))
	for _, spec := range c.templates.order {
		out = append(out, c.templates.instances[spec].class)
	}
	return out
}

// GetVariableInstance returns the instance implied by a variable declaration
// of type c<templSpec>. These instances are not documented on their own and
// live apart from the regular instances.
func (c *Compound) GetVariableInstance(templSpec string, sub Substituter) ClassID {
	templSpec = RemoveRedundantWhitespace(templSpec)
	if id, ok := c.templates.variables[templSpec]; ok {
		return id
	}
	if !c.g.mutable("variable instance of " + c.Name) {
		return NoClass
	}
	inst := c.newInstance(templSpec, Location{File: "<code>", Line: 1, Column: 1})
	inst.AddMembersToTemplateInstance(sub)
	c.templates.variables[templSpec] = inst.ID
	return inst.ID
}

// VariableInstances lists the variable instance handles.
func (c *Compound) VariableInstances() map[string]ClassID {
	out := make(map[string]ClassID, len(c.templates.variables))
	for k, v := range c.templates.variables {
		out[k] = v
	}
	return out
}

// AddMembersToTemplateInstance copies every member of the master into c,
// substituting the master's template parameters with the actual arguments
// of c's specialization.
func (c *Compound) AddMembersToTemplateInstance(sub Substituter) {
	master := c.g.Class(c.TemplateMaster)
	if master == nil || !c.g.mutable("template members of "+c.Name) {
		return
	}
	if sub == nil {
		sub = WordSubstituter{}
	}
	spec := strings.TrimPrefix(c.Name, master.Name)
	actual := ParseTemplateArgs(spec)
	formal := master.TemplateArgs
	if len(c.TemplateArgs) == 0 {
		c.TemplateArgs = actual
	}

	master.all.Each(func(_ string, mi MemberInfo) {
		md := c.g.Member(mi.Member)
		if md == nil || mi.Inherited {
			return
		}
		imd := c.g.cloneMember(md)
		imd.Type = sub.Substitute(md.Type, formal, actual)
		imd.Args = sub.Substitute(md.Args, formal, actual)
		for i := range imd.Arguments {
			imd.Arguments[i].Type = sub.Substitute(imd.Arguments[i].Type, formal, actual)
		}
		imd.Name = c.Name + "::" + md.LocalName
		imd.Class = c.ID
		imd.Outer = ClassRef(c.ID)
		imd.TemplateMaster = md.ID
		imd.Artificial = true
		c.insertMember(imd, mi.Prot, true)
	})
}

// Substituter rewrites template parameter names occurring in a type or
// argument string with the actual template arguments.
type Substituter interface {
	Substitute(s string, formal, actual []Arg) string
}

// WordSubstituter replaces whole-word occurrences of each formal parameter
// name with the actual argument at the same position.
type WordSubstituter struct{}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

func (WordSubstituter) Substitute(s string, formal, actual []Arg) string {
	if s == "" || len(formal) == 0 {
		return s
	}
	repl := make(map[string]string, len(formal))
	for i, f := range formal {
		name := f.Name
		if name == "" {
			name = f.Type
		}
		if i < len(actual) {
			repl[name] = actual[i].Type
		} else if f.Default != "" {
			repl[name] = f.Default
		}
	}
	return identRe.ReplaceAllStringFunc(s, func(w string) string {
		if r, ok := repl[w]; ok {
			return r
		}
		return w
	})
}

// ParseTemplateArgs splits "<int, std::map<a,b> >" into its top-level
// arguments. Each argument is returned as the Type of an Arg.
func ParseTemplateArgs(spec string) []Arg {
	spec = strings.TrimSpace(spec)
	if !strings.HasPrefix(spec, "<") || !strings.HasSuffix(spec, ">") {
		return nil
	}
	inner := spec[1 : len(spec)-1]
	var (
		out   []Arg
		depth int
		start int
	)
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, Arg{Type: RemoveRedundantWhitespace(inner[start:i])})
				start = i + 1
			}
		}
	}
	if last := RemoveRedundantWhitespace(inner[start:]); last != "" || len(out) > 0 {
		out = append(out, Arg{Type: last})
	}
	return out
}

// SplitTemplateName splits "ns::Vec<int>" into "ns::Vec" and "<int>".
// Names without a trailing specialization return an empty spec.
func SplitTemplateName(name string) (master, spec string) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ">") {
		return name, ""
	}
	depth := 0
	for i := len(name) - 1; i >= 0; i-- {
		switch name[i] {
		case '>':
			depth++
		case '<':
			depth--
			if depth == 0 {
				return strings.TrimSpace(name[:i]), name[i:]
			}
		}
	}
	return name, ""
}
