package graph

// Routing tables: which sections a member lands in, keyed by kind, protection
// and the static flag. Insertion and removal share them so a member always
// leaves exactly the sections it entered.

func byProt(p Protection, pub, pro, pac, pri ListType) ListType {
	switch p {
	case Protected:
		return pro
	case Package:
		return pac
	case Private:
		return pri
	}
	return pub
}

// compoundDeclLists returns the declaration sections of a compound member.
// ok is false for kinds a compound cannot hold.
func compoundDeclLists(m *Member, prot Protection) (types []ListType, ok bool) {
	if m.Related {
		return []ListType{ListRelated}, true
	}
	switch m.Kind {
	case MemberFriend:
		return []ListType{ListFriends}, true
	case MemberService:
		return []ListType{ListServices}, true
	case MemberInterface:
		return []ListType{ListInterfaces}, true
	case MemberDCOP:
		return []ListType{ListDCOPMethods}, true
	case MemberProperty:
		return []ListType{ListProperties}, true
	case MemberEvent:
		return []ListType{ListEvents}, true
	case MemberSignal:
		return []ListType{byProt(prot, ListPubSignals, ListProSignals, ListProSignals, ListPriSignals)}, true
	case MemberSlot:
		return []ListType{byProt(prot, ListPubSlots, ListProSlots, ListProSlots, ListPriSlots)}, true
	case MemberEnumValue:
		return nil, true
	case MemberVariable:
		if m.Static {
			return []ListType{byProt(prot, ListPubStaticAttribs, ListProStaticAttribs, ListPacStaticAttribs, ListPriStaticAttribs)}, true
		}
		return []ListType{byProt(prot, ListPubAttribs, ListProAttribs, ListPacAttribs, ListPriAttribs)}, true
	case MemberFunction:
		if m.Static {
			return []ListType{byProt(prot, ListPubStaticMethods, ListProStaticMethods, ListPacStaticMethods, ListPriStaticMethods)}, true
		}
		return []ListType{byProt(prot, ListPubMethods, ListProMethods, ListPacMethods, ListPriMethods)}, true
	case MemberTypedef:
		return []ListType{byProt(prot, ListPubTypedefs, ListProTypedefs, ListPacTypedefs, ListPriTypedefs)}, true
	case MemberEnumeration:
		return []ListType{byProt(prot, ListPubTypes, ListProTypes, ListPacTypes, ListPriTypes)}, true
	}
	return nil, false
}

// compoundDetailedLists returns the documentation sections of a compound member.
func compoundDetailedLists(m *Member, prot Protection, opt Options) []ListType {
	if m.Related {
		return []ListType{ListRelatedMembers}
	}
	switch m.Kind {
	case MemberService:
		return []ListType{ListServiceMembers}
	case MemberInterface:
		return []ListType{ListInterfaceMembers}
	case MemberProperty:
		return []ListType{ListPropertyMembers}
	case MemberEvent:
		return []ListType{ListEventMembers}
	case MemberSignal, MemberDCOP, MemberFriend:
		return []ListType{ListFunctionMembers}
	case MemberSlot:
		if opt.ProtectionVisible(prot) {
			return []ListType{ListFunctionMembers}
		}
		return nil
	case MemberFunction:
		if m.Ctor || m.Dtor {
			return []ListType{ListConstructors}
		}
		return []ListType{ListFunctionMembers}
	case MemberTypedef:
		return []ListType{ListTypedefMembers}
	case MemberEnumeration:
		return []ListType{ListEnumMembers}
	case MemberEnumValue:
		return []ListType{ListEnumValMembers}
	case MemberVariable:
		return []ListType{ListVariableMembers}
	}
	return nil
}

func namespaceLists(k MemberKind) ([]ListType, bool) {
	switch k {
	case MemberVariable:
		return []ListType{ListDecVarMembers, ListDocVarMembers}, true
	case MemberFunction:
		return []ListType{ListDecFuncMembers, ListDocFuncMembers}, true
	case MemberTypedef:
		return []ListType{ListDecTypedefMembers, ListDocTypedefMembers}, true
	case MemberEnumeration:
		return []ListType{ListDecEnumMembers, ListDocEnumMembers}, true
	case MemberEnumValue:
		return nil, true
	case MemberDefine:
		return []ListType{ListDecDefineMembers, ListDocDefineMembers}, true
	}
	return nil, false
}

func fileLists(k MemberKind) ([]ListType, bool) {
	if k == MemberProperty {
		return []ListType{ListDecVarMembers, ListDocVarMembers}, true
	}
	return namespaceLists(k)
}

// groupLists returns the sections of a grouped member. docOnly suppresses
// the declaration sections.
func groupLists(m *Member, docOnly bool) ([]ListType, bool) {
	var dec, doc []ListType
	switch m.Kind {
	case MemberDefine:
		dec, doc = []ListType{ListDecDefineMembers}, []ListType{ListDocDefineMembers}
	case MemberFunction:
		dec, doc = []ListType{ListDecFuncMembers}, []ListType{ListDocFuncMembers}
	case MemberVariable:
		dec, doc = []ListType{ListDecVarMembers}, []ListType{ListDocVarMembers}
	case MemberTypedef:
		dec, doc = []ListType{ListDecTypedefMembers}, []ListType{ListDocTypedefMembers}
	case MemberEnumeration:
		dec, doc = []ListType{ListDecEnumMembers}, []ListType{ListDocEnumMembers}
	case MemberEnumValue:
		dec, doc = []ListType{ListDecEnumValMembers}, []ListType{ListDocEnumValMembers}
	case MemberSignal:
		dec, doc = []ListType{ListDecSignalMembers}, []ListType{ListDocSignalMembers}
	case MemberSlot:
		dec = []ListType{byProt(m.Prot, ListPubSlots, ListProSlots, ListProSlots, ListPriSlots)}
		doc = []ListType{ListDocSlotMembers}
	case MemberEvent:
		dec, doc = []ListType{ListDecEventMembers}, []ListType{ListDocEventMembers}
	case MemberProperty:
		dec, doc = []ListType{ListDecPropMembers}, []ListType{ListDocPropMembers}
	case MemberFriend:
		dec, doc = []ListType{ListDecFriendMembers}, []ListType{ListDocFriendMembers}
	case MemberDCOP:
		dec, doc = []ListType{ListDecDCOPMembers}, []ListType{ListDocDCOPMembers}
	default:
		return nil, false
	}
	if docOnly {
		return doc, true
	}
	return append(dec, doc...), true
}
