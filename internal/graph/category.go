package graph

// MergeCategory folds category cat into c, the compound it extends. Bases of
// the category become bases of c. Methods c already declares are linked to
// their category counterpart; new methods are copied into c. A method whose
// template arity disagrees with its counterpart is skipped.
func (c *Compound) MergeCategory(cat ClassID) {
	cc := c.g.Class(cat)
	if cc == nil || cat == c.ID {
		return
	}
	if !c.g.mutable("merge category into " + c.Name) {
		return
	}
	if cc.IsLocal && !c.g.opts.ExtractLocalMethods {
		return
	}
	extension := cc.IsExtension()

	var added bool
	if c.Categories, added = appendUnique(c.Categories, cat); !added {
		return
	}
	cc.CategoryOf = c.ID
	if extension {
		c.mergeDocs(cc.Brief, cc.Doc)
	}

	for _, e := range cc.BaseClasses() {
		cc.RemoveBaseClass(e.Class)
		c.InsertBaseClass(e.Class, e.UsedName, e.Prot, e.Virt, e.TemplSpec)
	}

	cc.all.Each(func(name string, mi MemberInfo) {
		src := c.g.Member(mi.Member)
		if src == nil {
			return
		}
		if existing := c.all.Lookup(name); existing != nil {
			if c.mergeCategoryMember(src, existing) {
				return
			}
		}
		dst := c.g.cloneMember(src)
		dst.Name = c.Name + "::" + src.LocalName
		dst.Class = c.ID
		dst.Outer = ClassRef(c.ID)
		dst.CategoryRelation = src.ID
		src.CategoryRelation = dst.ID
		c.insertMember(dst, mi.Prot, true)
	})
}

// mergeCategoryMember links src to a member of c with the same signature.
// It returns true when src needs no copy, either because it was linked or
// because it was rejected on template arity.
func (c *Compound) mergeCategoryMember(src *Member, existing *MemberNameInfo) bool {
	for _, dmi := range existing.Members {
		dst := c.g.Member(dmi.Member)
		if dst == nil || dst.IsFunctionLike() != src.IsFunctionLike() {
			continue
		}
		if !MatchArguments(src.Arguments, dst.Arguments) {
			continue
		}
		if len(src.TemplateArgs) != len(dst.TemplateArgs) {
			c.g.report.Report(DiagRejection, src.Loc,
				"skipping category member %s: template argument count %d does not match %d of %s",
				src.Name, len(src.TemplateArgs), len(dst.TemplateArgs), dst.Name)
			return true
		}
		dst.mergeDocs(src.Brief, src.Doc)
		src.mergeDocs(dst.Brief, dst.Doc)
		dst.CategoryRelation = src.ID
		src.CategoryRelation = dst.ID
		return true
	}
	return false
}
