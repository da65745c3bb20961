package graph

// Handles into the graph arenas. A negative value means "none".
type (
	ClassID     int32
	MemberID    int32
	GroupID     int32
	NamespaceID int32
	FileID      int32
	DirID       int32
	PageID      int32
)

const (
	NoClass     ClassID     = -1
	NoMember    MemberID    = -1
	NoGroup     GroupID     = -1
	NoNamespace NamespaceID = -1
	NoFile      FileID      = -1
	NoDir       DirID       = -1
	NoPage      PageID      = -1
)

// DefKind tags the arena a Ref points into.
type DefKind uint8

const (
	DefNone DefKind = iota
	DefClass
	DefMember
	DefNamespace
	DefFile
	DefGroup
	DefDir
	DefPage
)

func (k DefKind) String() string {
	switch k {
	case DefClass:
		return "class"
	case DefMember:
		return "member"
	case DefNamespace:
		return "namespace"
	case DefFile:
		return "file"
	case DefGroup:
		return "group"
	case DefDir:
		return "dir"
	case DefPage:
		return "page"
	}
	return "none"
}

// Ref is a kind-tagged handle usable as an edge endpoint for any definition.
// The zero Ref refers to nothing (global scope).
type Ref struct {
	Kind  DefKind
	Index int32
}

func ClassRef(id ClassID) Ref         { return Ref{Kind: DefClass, Index: int32(id)} }
func MemberRef(id MemberID) Ref       { return Ref{Kind: DefMember, Index: int32(id)} }
func NamespaceRef(id NamespaceID) Ref { return Ref{Kind: DefNamespace, Index: int32(id)} }
func FileRef(id FileID) Ref           { return Ref{Kind: DefFile, Index: int32(id)} }
func GroupRef(id GroupID) Ref         { return Ref{Kind: DefGroup, Index: int32(id)} }
func DirRef(id DirID) Ref             { return Ref{Kind: DefDir, Index: int32(id)} }
func PageRef(id PageID) Ref           { return Ref{Kind: DefPage, Index: int32(id)} }

// IsZero reports whether r points at nothing.
func (r Ref) IsZero() bool { return r.Kind == DefNone }

// FileScoped reports whether r denotes a file or the global scope.
func (r Ref) FileScoped() bool { return r.Kind == DefNone || r.Kind == DefFile }
