package ir

// Location describes where an entry was declared.
type Location struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Arg is one function argument or template parameter.
type Arg struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
}

// BaseRef is an unresolved base class as written in the source, e.g.
// "Base", "ns::Base" or "Vec<int>".
type BaseRef struct {
	Name       string `json:"name" yaml:"name" validate:"required"`
	Protection string `json:"protection,omitempty" yaml:"protection,omitempty"`
	Virtual    bool   `json:"virtual,omitempty" yaml:"virtual,omitempty"`
}

// GroupRef is a grouping command attached to an entry. Priority is either
// given explicitly or derived from the command.
type GroupRef struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Command  string `json:"command,omitempty" yaml:"command,omitempty"`
	Priority *int   `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Entry is one extracted declaration. Entries are self-contained: every
// reference to another entity is by name and resolved later.
type Entry struct {
	// Seq orders entries for resolution. Entries without one keep their
	// position in the stream.
	Seq  int    `json:"seq,omitempty" yaml:"seq,omitempty"`
	Kind string `json:"kind" yaml:"kind" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
	// Scope is the qualified name of the compound or namespace declaring a
	// member. When empty it is taken from Name.
	Scope    string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Location Location `json:"location,omitempty" yaml:"location,omitempty"`

	Protection string `json:"protection,omitempty" yaml:"protection,omitempty"`
	Virtual    string `json:"virtual,omitempty" yaml:"virtual,omitempty"`
	Static     bool   `json:"static,omitempty" yaml:"static,omitempty"`
	Related    bool   `json:"related,omitempty" yaml:"related,omitempty"`
	Hidden     bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Local      bool   `json:"local,omitempty" yaml:"local,omitempty"`

	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Args         string `json:"args,omitempty" yaml:"args,omitempty"`
	Arguments    []Arg  `json:"arguments,omitempty" yaml:"arguments,omitempty" validate:"dive"`
	TemplateArgs []Arg  `json:"template_args,omitempty" yaml:"template_args,omitempty"`
	Initializer  string `json:"initializer,omitempty" yaml:"initializer,omitempty"`

	Bases  []BaseRef  `json:"bases,omitempty" yaml:"bases,omitempty" validate:"dive"`
	Groups []GroupRef `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive"`
	// MemberGroup names the member group ("@{ ... @}" block) of a member.
	MemberGroup string `json:"member_group,omitempty" yaml:"member_group,omitempty"`
	// Enum is the enumeration an enum value belongs to.
	Enum string `json:"enum,omitempty" yaml:"enum,omitempty"`
	// AnonType is the anonymous compound a variable is declared with.
	AnonType string `json:"anon_type,omitempty" yaml:"anon_type,omitempty"`

	Brief string `json:"brief,omitempty" yaml:"brief,omitempty"`
	Doc   string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// TagFile is set on entries imported from an external tag file.
	TagFile string `json:"tag_file,omitempty" yaml:"tag_file,omitempty"`
}

// HasDocs reports whether the entry carries any documentation text.
func (e *Entry) HasDocs() bool {
	return e.Brief != "" || e.Doc != ""
}

// IsExternal reports entries imported from a tag file.
func (e *Entry) IsExternal() bool { return e.TagFile != "" }

// Stream is the unit of exchange between extractors and the resolver.
type Stream struct {
	Version string  `json:"version,omitempty" yaml:"version,omitempty"`
	Entries []Entry `json:"entries" yaml:"entries" validate:"dive"`
}
