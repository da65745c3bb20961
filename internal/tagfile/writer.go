package tagfile

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"symgraph/internal/graph"
	"symgraph/internal/logfields"
)

const DefaultExt = ".html"

// Writer serializes the compound, member and group summary of a resolved
// graph. Entities imported from other tag files, hidden entities and
// template instances are left out.
type Writer struct {
	Ext    string
	Logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{Ext: DefaultExt, Logger: logger}
}

// WriteFile writes the tag file for g to path, replacing it.
func (w *Writer) WriteFile(p string, g *graph.Graph) error {
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create tag file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := w.Encode(bw, g); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush tag file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close tag file: %w", err)
	}
	w.Logger.Info("Tag file written", logfields.Path(p))
	return nil
}

func (w *Writer) Encode(out io.Writer, g *graph.Graph) error {
	doc := w.build(g)
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return fmt.Errorf("write tag file header: %w", err)
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode tag file: %w", err)
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return fmt.Errorf("write tag file: %w", err)
	}
	w.Logger.Debug("Tag file encoded", logfields.Count(len(doc.Compounds)))
	return nil
}

func (w *Writer) ext() string {
	if w.Ext == "" {
		return DefaultExt
	}
	return w.Ext
}

func exported(d *graph.Definition) bool {
	return !d.Hidden && !d.IsExternal()
}

func (w *Writer) build(g *graph.Graph) tagFile {
	var doc tagFile
	for _, c := range g.Classes() {
		if !exported(&c.Definition) || c.TemplateMaster != graph.NoClass {
			continue
		}
		doc.Compounds = append(doc.Compounds, w.class(g, c))
	}
	for _, n := range g.Namespaces() {
		if exported(&n.Definition) {
			doc.Compounds = append(doc.Compounds, w.namespace(g, n))
		}
	}
	for _, f := range g.Files() {
		if exported(&f.Definition) {
			doc.Compounds = append(doc.Compounds, w.file(g, f))
		}
	}
	for _, gr := range g.Groups() {
		if exported(&gr.Definition) {
			doc.Compounds = append(doc.Compounds, w.group(g, gr))
		}
	}
	for _, p := range g.Pages() {
		if exported(&p.Definition) && !p.Example {
			doc.Compounds = append(doc.Compounds, compoundTag{
				Kind:     "page",
				Name:     p.Name,
				Title:    p.Title,
				Filename: FileName("", p.Name, w.ext()),
			})
		}
	}
	for _, d := range g.Dirs() {
		if exported(&d.Definition) {
			doc.Compounds = append(doc.Compounds, w.dir(g, d))
		}
	}
	return doc
}

func (w *Writer) class(g *graph.Graph, c *graph.Compound) compoundTag {
	ct := compoundTag{
		Kind:     c.Type.String(),
		Name:     c.Name,
		Filename: FileName(c.Type.String(), c.Name, w.ext()),
	}
	for _, a := range c.TemplateArgs {
		ct.TemplArgs = append(ct.TemplArgs, strings.TrimSpace(a.Type+" "+a.Name))
	}
	for _, b := range c.BaseClasses() {
		bt := baseTag{Name: b.UsedName}
		if bt.Name == "" {
			bt.Name = g.Class(b.Class).Name
		}
		if b.Prot != graph.Public {
			bt.Protection = b.Prot.String()
		}
		if b.Virt != graph.Normal {
			bt.Virtualness = b.Virt.String()
		}
		ct.Bases = append(ct.Bases, bt)
	}
	for _, id := range c.Nested {
		if n := g.Class(id); n != nil && exported(&n.Definition) {
			ct.Classes = append(ct.Classes, refTag{Kind: n.Type.String(), Name: n.Name})
		}
	}
	ct.Members = w.members(g, c.Name, ct.Filename, c.AllMembers())
	return ct
}

func (w *Writer) namespace(g *graph.Graph, n *graph.Namespace) compoundTag {
	ct := compoundTag{
		Kind:     "namespace",
		Name:     n.Name,
		Filename: FileName("namespace", n.Name, w.ext()),
	}
	ct.Classes = w.classRefs(g, n.Classes)
	for _, id := range n.Namespaces {
		if sub := g.Namespace(id); sub != nil && exported(&sub.Definition) {
			ct.Namespaces = append(ct.Namespaces, sub.Name)
		}
	}
	ct.Members = w.members(g, n.Name, ct.Filename, n.AllMembers())
	return ct
}

func (w *Writer) file(g *graph.Graph, f *graph.File) compoundTag {
	ct := compoundTag{
		Kind:     "file",
		Name:     f.Name,
		Filename: FileName("", f.Path, w.ext()),
	}
	if d := path.Dir(f.Path); d != "." {
		ct.Path = d + "/"
	}
	ct.Classes = w.classRefs(g, f.Classes)
	for _, id := range f.Namespaces {
		if n := g.Namespace(id); n != nil && exported(&n.Definition) {
			ct.Namespaces = append(ct.Namespaces, n.Name)
		}
	}
	ct.Members = w.members(g, "", ct.Filename, f.AllMembers())
	return ct
}

func (w *Writer) group(g *graph.Graph, gr *graph.Group) compoundTag {
	ct := compoundTag{
		Kind:     "group",
		Name:     gr.Name,
		Title:    gr.Title,
		Filename: FileName("group__", gr.Name, w.ext()),
	}
	ct.Classes = w.classRefs(g, gr.Compounds)
	for _, id := range gr.Namespaces {
		if n := g.Namespace(id); n != nil {
			ct.Namespaces = append(ct.Namespaces, n.Name)
		}
	}
	for _, id := range gr.Files {
		if f := g.File(id); f != nil {
			ct.Files = append(ct.Files, f.Name)
		}
	}
	for _, id := range gr.Dirs {
		if d := g.Dir(id); d != nil {
			ct.Dirs = append(ct.Dirs, d.Path)
		}
	}
	for _, id := range gr.Pages {
		if p := g.Page(id); p != nil {
			ct.Pages = append(ct.Pages, p.Name)
		}
	}
	for _, id := range gr.SubGroups {
		if sub := g.Group(id); sub != nil {
			ct.SubGroups = append(ct.SubGroups, sub.Name)
		}
	}
	for _, gm := range gr.GroupedMembers() {
		m := g.Member(gm.Member)
		if m == nil || m.GroupAlias != graph.NoMember || !exported(&m.Definition) {
			continue
		}
		ct.Members = append(ct.Members, w.member(g, graph.ScopeOf(m.Name), ct.Filename, m))
	}
	return ct
}

func (w *Writer) dir(g *graph.Graph, d *graph.Dir) compoundTag {
	ct := compoundTag{
		Kind:     "dir",
		Name:     d.Path,
		Path:     d.Path + "/",
		Filename: FileName("dir_", d.Path, w.ext()),
	}
	for _, id := range d.Files {
		if f := g.File(id); f != nil && exported(&f.Definition) {
			ct.Files = append(ct.Files, f.Name)
		}
	}
	for _, id := range d.SubDirs {
		if sub := g.Dir(id); sub != nil {
			ct.Dirs = append(ct.Dirs, sub.Path)
		}
	}
	return ct
}

func (w *Writer) classRefs(g *graph.Graph, ids []graph.ClassID) []refTag {
	var out []refTag
	for _, id := range ids {
		c := g.Class(id)
		if c == nil || !exported(&c.Definition) || c.TemplateMaster != graph.NoClass {
			continue
		}
		out = append(out, refTag{Kind: c.Type.String(), Name: c.Name})
	}
	return out
}

func (w *Writer) members(g *graph.Graph, scope, filename string, idx *graph.MemberNameIndex) []memberTag {
	var out []memberTag
	idx.Each(func(_ string, mi graph.MemberInfo) {
		m := g.Member(mi.Member)
		if m == nil || mi.Inherited || !exported(&m.Definition) {
			return
		}
		out = append(out, w.member(g, scope, filename, m))
	})
	return out
}

// member describes m. A grouped member is anchored in its group's page;
// with separate member pages a documented member gets a page of its own
// named after the page it would otherwise live on.
func (w *Writer) member(g *graph.Graph, scope, filename string, m *graph.Member) memberTag {
	if gr := g.Group(m.GroupID()); gr != nil {
		filename = FileName("group__", gr.Name, w.ext())
	}
	anchor := Anchor(scope, m)
	opt := g.Options()
	if opt.SeparateMemberPages && m.Kind != graph.MemberEnumValue && m.IsDetailedSectionVisible(opt) {
		filename = strings.TrimSuffix(filename, w.ext()) + "_" + anchor + w.ext()
	}
	mt := memberTag{
		Kind:       m.Kind.String(),
		Protection: m.Prot.String(),
		Type:       m.Type,
		Name:       m.LocalName,
		AnchorFile: filename,
		Anchor:     anchor,
		ArgList:    m.Args,
	}
	if m.Virt != graph.Normal {
		mt.Virtualness = m.Virt.String()
	}
	if m.Static {
		mt.Static = "yes"
	}
	if mt.ArgList == "" && m.IsFunctionLike() {
		parts := make([]string, len(m.Arguments))
		for i, a := range m.Arguments {
			parts[i] = strings.TrimSpace(a.Type + " " + a.Name)
		}
		mt.ArgList = "(" + strings.Join(parts, ", ") + ")"
	}
	return mt
}
