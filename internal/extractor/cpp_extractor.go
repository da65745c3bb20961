package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"symgraph/internal/ir"
)

// CppExtractor implements LanguageExtractor for C and C++. Anonymous
// compounds are numbered across every file it extracts, so their names stay
// unique within one run.
type CppExtractor struct {
	mu   sync.Mutex
	anon int
}

func (x *CppExtractor) GetLanguage() *sitter.Language {
	return cpp.GetLanguage()
}

func (x *CppExtractor) Extract(root *sitter.Node, sourceCode []byte, filepath string) []ir.Entry {
	x.mu.Lock()
	defer x.mu.Unlock()
	w := &cppWalker{src: sourceCode, path: filepath, anon: x.anon}
	w.entries = append(w.entries, ir.Entry{Kind: "file", Name: filepath, Location: ir.Location{File: filepath}})
	w.block(root, &cppScope{})
	x.anon = w.anon
	return w.entries
}

// cppScope is the declaration context of a block.
type cppScope struct {
	name  string
	class bool
	prot  string
}

func (s *cppScope) qualify(name string) string {
	if s.name == "" {
		return name
	}
	return s.name + "::" + name
}

type cppWalker struct {
	src     []byte
	path    string
	entries []ir.Entry
	anon    int
}

var pureRe = regexp.MustCompile(`=\s*0\s*;?\s*$`)

func (w *cppWalker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Content(w.src))
}

func (w *cppWalker) loc(n *sitter.Node) ir.Location {
	p := n.StartPoint()
	return ir.Location{File: w.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// block walks the children of n, attaching each doc comment to the
// declaration that directly follows it and trailing comments to the one
// before. Adjacent line comments form one block.
func (w *cppWalker) block(n *sitter.Node, sc *cppScope) {
	var (
		pendingRaw  string
		pendingNode *sitter.Node
		pendingEnd  uint32
		last        *sitter.Node
		lastFrom    int
		lastTo      int
	)
	flush := func() *docComment {
		if pendingRaw == "" {
			return nil
		}
		dc := parseDocComment(pendingRaw)
		dc.endRow = pendingEnd
		w.groupDefs(pendingNode, &dc)
		pendingRaw = ""
		if dc.defines {
			return nil
		}
		return &dc
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			raw := w.text(child)
			if !isDocComment(raw) {
				continue
			}
			if isTrailingDoc(raw) {
				if last != nil && last.EndPoint().Row == child.StartPoint().Row {
					dc := parseDocComment(raw)
					w.document(lastFrom, lastTo, &dc)
				}
				continue
			}
			if pendingRaw != "" && pendingEnd+1 >= child.StartPoint().Row &&
				isLineComment(pendingRaw) && isLineComment(raw) {
				pendingRaw += "\n" + raw
				pendingEnd = child.EndPoint().Row
				continue
			}
			flush()
			pendingRaw, pendingNode, pendingEnd = raw, child, child.EndPoint().Row
			continue
		}

		adjacent := pendingRaw != "" && pendingEnd+1 >= child.StartPoint().Row
		doc := flush()
		if !adjacent {
			doc = nil
		}
		from := len(w.entries)
		w.decl(child, sc, doc, nil)
		last, lastFrom, lastTo = child, from, len(w.entries)
	}
	flush()
}

// groupDefs emits the group entries a comment defines. A @defgroup
// comment documents its group.
func (w *cppWalker) groupDefs(n *sitter.Node, dc *docComment) {
	for i, def := range dc.defs {
		def.Location = w.loc(n)
		if dc.defines && i == 0 {
			def.Brief, def.Doc = dc.brief, dc.doc
			def.Groups = dc.groups
		}
		w.entries = append(w.entries, def)
	}
}

func (w *cppWalker) document(from, to int, dc *docComment) {
	for k := from; k < to; k++ {
		e := &w.entries[k]
		if e.Kind == "group" {
			continue
		}
		if e.Brief == "" {
			e.Brief = firstNonEmpty(dc.brief, dc.doc)
		}
		e.Groups = append(e.Groups, dc.groups...)
	}
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

func (w *cppWalker) decl(n *sitter.Node, sc *cppScope, doc *docComment, tmpl []ir.Arg) {
	switch n.Type() {
	case "namespace_definition":
		w.namespace(n, sc, doc)
	case "class_specifier", "struct_specifier", "union_specifier":
		w.class(n, sc, doc, tmpl)
	case "enum_specifier":
		w.enum(n, sc, doc)
	case "template_declaration":
		params := w.templateParams(n.ChildByFieldName("parameters"))
		for i := 0; i < int(n.NamedChildCount()); i++ {
			inner := n.NamedChild(i)
			if inner.Type() == "template_parameter_list" || inner.Type() == "comment" {
				continue
			}
			w.decl(inner, sc, doc, params)
		}
	case "function_definition", "declaration", "field_declaration":
		w.declaration(n, sc, doc, tmpl)
	case "friend_declaration":
		w.friend(n, sc, doc)
	case "access_specifier":
		sc.prot = strings.TrimSuffix(w.text(n), ":")
	case "type_definition":
		w.typedef(n, sc, doc)
	case "alias_declaration":
		w.add(n, sc, doc, ir.Entry{
			Kind: "typedef",
			Name: w.text(n.ChildByFieldName("name")),
			Type: w.text(n.ChildByFieldName("type")),
		})
	case "preproc_def", "preproc_function_def":
		if sc.class {
			return
		}
		e := ir.Entry{
			Kind:        "define",
			Name:        w.text(n.ChildByFieldName("name")),
			Args:        w.text(n.ChildByFieldName("parameters")),
			Initializer: w.text(n.ChildByFieldName("value")),
		}
		w.add(n, &cppScope{}, doc, e)
	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			if body.Type() == "declaration_list" {
				w.block(body, sc)
			} else {
				w.decl(body, sc, doc, tmpl)
			}
		}
	case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif", "declaration_list":
		w.block(n, sc)
	}
}

// add appends e declared by n in sc, filling location, scope, access and
// documentation.
func (w *cppWalker) add(n *sitter.Node, sc *cppScope, doc *docComment, e ir.Entry) {
	if e.Name == "" {
		return
	}
	e.Location = w.loc(n)
	if e.Scope == "" && e.Kind != "define" {
		e.Scope = sc.name
	}
	if sc.class && e.Protection == "" {
		e.Protection = sc.prot
	}
	if doc != nil {
		e.Brief, e.Doc = doc.brief, doc.doc
		e.Groups = append(e.Groups, doc.groups...)
	}
	w.entries = append(w.entries, e)
}

func (w *cppWalker) namespace(n *sitter.Node, sc *cppScope, doc *docComment) {
	body := n.ChildByFieldName("body")
	name := w.text(n.ChildByFieldName("name"))
	if name == "" {
		// Anonymous namespaces contribute to the enclosing scope.
		if body != nil {
			w.block(body, sc)
		}
		return
	}
	q := sc.qualify(name)
	e := ir.Entry{Kind: "namespace", Name: q, Location: w.loc(n)}
	if doc != nil {
		e.Brief, e.Doc, e.Groups = doc.brief, doc.doc, doc.groups
	}
	w.entries = append(w.entries, e)
	if body != nil {
		w.block(body, &cppScope{name: q})
	}
}

func (w *cppWalker) anonName() string {
	name := fmt.Sprintf("@%d", w.anon)
	w.anon++
	return name
}

// class emits a compound with a body and its members, returning its
// qualified name. Forward declarations are skipped.
func (w *cppWalker) class(n *sitter.Node, sc *cppScope, doc *docComment, tmpl []ir.Arg) string {
	body := n.ChildByFieldName("body")
	if body == nil {
		return ""
	}
	kind := strings.TrimSuffix(n.Type(), "_specifier")
	name := w.text(n.ChildByFieldName("name"))
	if name == "" {
		name = w.anonName()
	}
	q := sc.qualify(name)
	e := ir.Entry{
		Kind:         kind,
		Name:         q,
		Location:     w.loc(n),
		TemplateArgs: tmpl,
	}
	if sc.class {
		e.Protection = sc.prot
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "base_class_clause" {
			e.Bases = w.bases(c)
		}
	}
	if doc != nil {
		e.Brief, e.Doc, e.Groups = doc.brief, doc.doc, doc.groups
	}
	w.entries = append(w.entries, e)

	inner := &cppScope{name: q, class: true, prot: "private"}
	if kind != "class" {
		inner.prot = "public"
	}
	w.block(body, inner)
	return q
}

// bases reads "public Base, virtual protected ns::Other<int>".
func (w *cppWalker) bases(n *sitter.Node) []ir.BaseRef {
	var (
		out     []ir.BaseRef
		prot    string
		virtual bool
	)
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		t := w.text(c)
		switch {
		case t == "public" || t == "protected" || t == "private":
			prot = t
		case t == "virtual":
			virtual = true
		case c.Type() == "access_specifier":
			prot = t
		case c.Type() == "type_identifier", c.Type() == "qualified_identifier", c.Type() == "template_type":
			out = append(out, ir.BaseRef{Name: t, Protection: prot, Virtual: virtual})
			prot, virtual = "", false
		}
	}
	return out
}

func (w *cppWalker) enum(n *sitter.Node, sc *cppScope, doc *docComment) string {
	name := w.text(n.ChildByFieldName("name"))
	body := n.ChildByFieldName("body")
	if body == nil {
		return ""
	}
	if name == "" {
		name = w.anonName()
	}
	w.add(n, sc, doc, ir.Entry{Kind: "enum", Name: name})
	enum := sc.qualify(name)

	values := &cppScope{name: sc.name, class: sc.class, prot: sc.prot}
	var (
		pending *docComment
		lastAt  = -1
		lastRow uint32
	)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		switch c.Type() {
		case "comment":
			raw := w.text(c)
			if !isDocComment(raw) {
				continue
			}
			dc := parseDocComment(raw)
			dc.endRow = c.EndPoint().Row
			if dc.trailing && lastAt >= 0 && lastRow == c.StartPoint().Row {
				w.document(lastAt, lastAt+1, &dc)
				continue
			}
			pending = &dc
		case "enumerator":
			var vdoc *docComment
			if pending != nil && pending.endRow+1 >= c.StartPoint().Row {
				vdoc = pending
			}
			pending = nil
			v := ir.Entry{
				Kind:        "enumvalue",
				Name:        w.text(c.ChildByFieldName("name")),
				Enum:        enum,
				Initializer: w.text(c.ChildByFieldName("value")),
			}
			lastAt, lastRow = len(w.entries), c.EndPoint().Row
			w.add(c, values, vdoc, v)
		}
	}
	return name
}

func (w *cppWalker) friend(n *sitter.Node, sc *cppScope, doc *docComment) {
	if !sc.class {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "declaration", "function_definition":
			d := w.firstDeclarator(c)
			if d == nil {
				continue
			}
			info := w.unwrap(d)
			if info.name == "" {
				continue
			}
			e := ir.Entry{Kind: "friend", Name: info.name, Type: strings.TrimSpace("friend " + w.typeOf(c))}
			if info.fn != nil {
				e.Args, e.Arguments = w.args(info.fn)
			}
			w.add(n, sc, doc, e)
		case "type_identifier", "qualified_identifier", "template_type":
			w.add(n, sc, doc, ir.Entry{Kind: "friend", Name: w.text(c), Type: "friend class"})
		case "class_specifier", "struct_specifier", "union_specifier":
			kind := strings.TrimSuffix(c.Type(), "_specifier")
			w.add(n, sc, doc, ir.Entry{Kind: "friend", Name: w.text(c.ChildByFieldName("name")), Type: "friend " + kind})
		}
	}
}

func (w *cppWalker) typedef(n *sitter.Node, sc *cppScope, doc *docComment) {
	typeNode := n.ChildByFieldName("type")
	d := n.ChildByFieldName("declarator")
	if d == nil {
		return
	}
	info := w.unwrap(d)
	typ := w.text(typeNode)
	if typeNode != nil {
		switch typeNode.Type() {
		case "struct_specifier", "class_specifier", "union_specifier":
			// typedef struct { ... } Name; names the struct itself.
			if typeNode.ChildByFieldName("name") == nil && typeNode.ChildByFieldName("body") != nil {
				named := &cppScope{name: sc.name, class: sc.class, prot: sc.prot}
				w.namedClass(typeNode, named, doc, info.name)
				return
			}
			if typeNode.ChildByFieldName("body") != nil {
				typ = strings.TrimSuffix(typeNode.Type(), "_specifier") + " " + w.class(typeNode, sc, nil, nil)
			}
		case "enum_specifier":
			if typeNode.ChildByFieldName("body") != nil {
				typ = "enum " + w.enum(typeNode, sc, nil)
			}
		}
	}
	w.add(n, sc, doc, ir.Entry{
		Kind: "typedef",
		Name: info.name,
		Type: strings.TrimSpace(typ + " " + info.prefix),
		Args: info.suffix,
	})
}

// namedClass emits an unnamed compound under name.
func (w *cppWalker) namedClass(n *sitter.Node, sc *cppScope, doc *docComment, name string) {
	from := len(w.entries)
	placeholder := fmt.Sprintf("@%d", w.anon)
	w.class(n, sc, doc, nil)
	anon, named := sc.qualify(placeholder), sc.qualify(name)
	for k := from; k < len(w.entries); k++ {
		e := &w.entries[k]
		switch {
		case e.Name == anon:
			e.Name = named
		case e.Scope == anon:
			e.Scope = named
		case strings.HasPrefix(e.Name, anon+"::"):
			e.Name = named + strings.TrimPrefix(e.Name, anon)
		}
		if strings.HasPrefix(e.Scope, anon+"::") {
			e.Scope = named + strings.TrimPrefix(e.Scope, anon)
		}
		if e.Enum != "" && strings.HasPrefix(e.Enum, anon+"::") {
			e.Enum = named + strings.TrimPrefix(e.Enum, anon)
		}
	}
}

var declaratorTypes = map[string]bool{
	"function_declarator":      true,
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"init_declarator":          true,
	"array_declarator":         true,
	"parenthesized_declarator": true,
	"field_identifier":         true,
	"identifier":               true,
	"qualified_identifier":     true,
	"destructor_name":          true,
	"operator_name":            true,
}

func (w *cppWalker) firstDeclarator(n *sitter.Node) *sitter.Node {
	return n.ChildByFieldName("declarator")
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// declaration handles variables and functions, including declarations
// with several declarators ("int a, *b;"). A declaration without
// declarators defines its type only.
func (w *cppWalker) declaration(n *sitter.Node, sc *cppScope, doc *docComment, tmpl []ir.Arg) {
	typeNode := n.ChildByFieldName("type")
	var declarators []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if sameNode(d, typeNode) || !declaratorTypes[d.Type()] {
			continue
		}
		declarators = append(declarators, d)
	}

	typ := w.typeOf(n)
	var anonType string
	if typeNode != nil && typeNode.ChildByFieldName("body") != nil {
		typeDoc, typeTmpl := doc, tmpl
		if len(declarators) > 0 {
			typeDoc, typeTmpl = nil, nil
		}
		switch typeNode.Type() {
		case "struct_specifier", "class_specifier", "union_specifier":
			unnamed := typeNode.ChildByFieldName("name") == nil
			q := w.class(typeNode, sc, typeDoc, typeTmpl)
			if unnamed {
				anonType = q
			}
			typ = strings.TrimSuffix(typeNode.Type(), "_specifier") + " " + graphLocal(q)
		case "enum_specifier":
			typ = "enum " + w.enum(typeNode, sc, typeDoc)
		}
	}

	var static, virtual bool
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == "storage_class_specifier" && w.text(c) == "static":
			static = true
		case c.Type() == "virtual" || c.Type() == "virtual_function_specifier" || w.text(c) == "virtual":
			virtual = true
		}
	}
	pure := virtual && pureRe.MatchString(w.text(n))

	for _, d := range declarators {
		info := w.unwrap(d)
		if info.name == "" {
			continue
		}
		e := ir.Entry{
			Kind:   "variable",
			Static: static,
			Type:   strings.TrimSpace(typ + " " + info.prefix),
		}
		name := info.name
		if info.fn != nil {
			e.Kind = "function"
			e.Args, e.Arguments = w.args(info.fn)
			e.TemplateArgs = tmpl
			switch {
			case pure:
				e.Virtual = "pure"
			case virtual:
				e.Virtual = "virtual"
			}
		} else {
			e.Args = info.suffix
			e.Initializer = info.init
			e.AnonType = anonType
		}
		// Out-of-line definitions name their scope: void Shape::draw() {}
		if strings.Contains(name, "::") {
			full := sc.qualify(name)
			e.Scope = scopeOf(full)
			name = full[len(e.Scope)+2:]
		}
		e.Name = name
		w.add(n, sc, doc, e)
	}
}

// typeOf returns the written type of a declaration with its leading
// qualifiers ("const std::string").
func (w *cppWalker) typeOf(n *sitter.Node) string {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	var quals []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if sameNode(c, typeNode) {
			break
		}
		if c.Type() == "type_qualifier" {
			quals = append(quals, w.text(c))
		}
	}
	return strings.TrimSpace(strings.Join(append(quals, w.text(typeNode)), " "))
}

// declInfo is what a declarator says about the declared name.
type declInfo struct {
	name   string
	prefix string // pointer and reference markers
	suffix string // array dimensions
	init   string
	fn     *sitter.Node
}

func (w *cppWalker) unwrap(d *sitter.Node) declInfo {
	var info declInfo
	for d != nil {
		switch d.Type() {
		case "pointer_declarator":
			info.prefix += "*"
			d = d.ChildByFieldName("declarator")
		case "reference_declarator":
			if strings.HasPrefix(w.text(d), "&&") {
				info.prefix += "&&"
			} else {
				info.prefix += "&"
			}
			d = d.NamedChild(0)
		case "init_declarator":
			info.init = w.text(d.ChildByFieldName("value"))
			d = d.ChildByFieldName("declarator")
		case "array_declarator":
			info.suffix = "[" + w.text(d.ChildByFieldName("size")) + "]" + info.suffix
			d = d.ChildByFieldName("declarator")
		case "function_declarator":
			if info.fn == nil {
				info.fn = d
			}
			d = d.ChildByFieldName("declarator")
		case "parenthesized_declarator":
			d = d.NamedChild(0)
		default:
			info.name = w.text(d)
			return info
		}
	}
	return info
}

// args returns the argument list text of a function declarator, including
// trailing qualifiers, and its parsed parameters.
func (w *cppWalker) args(fn *sitter.Node) (string, []ir.Arg) {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return "", nil
	}
	text := strings.TrimSpace(string(w.src[params.StartByte():fn.EndByte()]))
	var out []ir.Arg
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
			a := ir.Arg{Type: w.typeOf(p)}
			if d := p.ChildByFieldName("declarator"); d != nil {
				info := w.unwrap(d)
				a.Name = info.name
				a.Type = strings.TrimSpace(a.Type + " " + info.prefix)
				if info.suffix != "" {
					a.Type += " " + info.suffix
				}
			}
			a.Default = w.text(p.ChildByFieldName("default_value"))
			if a.Type == "void" && a.Name == "" {
				continue
			}
			out = append(out, a)
		case "variadic_parameter_declaration", "variadic_parameter":
			out = append(out, ir.Arg{Type: w.text(p)})
		}
	}
	if strings.HasSuffix(text, "...)") && (len(out) == 0 || !strings.Contains(out[len(out)-1].Type, "...")) {
		out = append(out, ir.Arg{Type: "..."})
	}
	return text, out
}

// templateParams reads "<typename T, int N = 3>".
func (w *cppWalker) templateParams(n *sitter.Node) []ir.Arg {
	if n == nil || n.NamedChildCount() == 0 {
		return nil
	}
	var out []ir.Arg
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "type_parameter_declaration", "variadic_type_parameter_declaration":
			raw := w.text(p)
			keyword, name, _ := strings.Cut(raw, " ")
			out = append(out, ir.Arg{Type: keyword, Name: strings.TrimSpace(name)})
		case "optional_type_parameter_declaration":
			raw := w.text(p)
			keyword, _, _ := strings.Cut(raw, " ")
			out = append(out, ir.Arg{
				Type:    keyword,
				Name:    w.text(p.ChildByFieldName("name")),
				Default: w.text(p.ChildByFieldName("default_type")),
			})
		case "parameter_declaration", "optional_parameter_declaration":
			a := ir.Arg{Type: w.typeOf(p), Default: w.text(p.ChildByFieldName("default_value"))}
			if d := p.ChildByFieldName("declarator"); d != nil {
				a.Name = w.unwrap(d).name
			}
			out = append(out, a)
		case "template_template_parameter_declaration":
			out = append(out, ir.Arg{Type: w.text(p)})
		}
	}
	return out
}

func scopeOf(name string) string {
	depth := 0
	for i := len(name) - 1; i > 0; i-- {
		switch name[i] {
		case '>':
			depth++
		case '<':
			depth--
		case ':':
			if depth == 0 && name[i-1] == ':' {
				return name[:i-1]
			}
		}
	}
	return ""
}

func graphLocal(name string) string {
	if s := scopeOf(name); s != "" {
		return name[len(s)+2:]
	}
	return name
}
