package graph

// ListType names one member section of a compound, namespace, file or group.
type ListType uint8

const (
	ListAllMembers ListType = iota

	// Compound declaration sections.
	ListPubMethods
	ListProMethods
	ListPacMethods
	ListPriMethods
	ListPubStaticMethods
	ListProStaticMethods
	ListPacStaticMethods
	ListPriStaticMethods
	ListPubSlots
	ListProSlots
	ListPriSlots
	ListPubSignals
	ListProSignals
	ListPriSignals
	ListPubAttribs
	ListProAttribs
	ListPacAttribs
	ListPriAttribs
	ListPubStaticAttribs
	ListProStaticAttribs
	ListPacStaticAttribs
	ListPriStaticAttribs
	ListPubTypes
	ListProTypes
	ListPacTypes
	ListPriTypes
	ListPubTypedefs
	ListProTypedefs
	ListPacTypedefs
	ListPriTypedefs
	ListRelated
	ListFriends
	ListDCOPMethods
	ListProperties
	ListEvents
	ListInterfaces
	ListServices

	// Compound detailed documentation sections.
	ListTypedefMembers
	ListEnumMembers
	ListEnumValMembers
	ListFunctionMembers
	ListRelatedMembers
	ListVariableMembers
	ListPropertyMembers
	ListEventMembers
	ListConstructors
	ListInterfaceMembers
	ListServiceMembers

	// Namespace, file and group declaration sections.
	ListDecDefineMembers
	ListDecTypedefMembers
	ListDecEnumMembers
	ListDecEnumValMembers
	ListDecFuncMembers
	ListDecVarMembers
	ListDecSignalMembers
	ListDecEventMembers
	ListDecPropMembers
	ListDecFriendMembers
	ListDecDCOPMembers

	// Namespace, file and group documentation sections.
	ListDocDefineMembers
	ListDocTypedefMembers
	ListDocEnumMembers
	ListDocEnumValMembers
	ListDocFuncMembers
	ListDocVarMembers
	ListDocSignalMembers
	ListDocSlotMembers
	ListDocEventMembers
	ListDocPropMembers
	ListDocFriendMembers
	ListDocDCOPMembers

	listTypeCount
)

// ListSection tells whether a list feeds a declaration summary or the
// detailed documentation.
type ListSection uint8

const (
	SectionIndex ListSection = iota
	SectionDeclaration
	SectionDocumentation
)

type listTypeInfo struct {
	name    string
	title   string
	section ListSection
}

var listTypes = [listTypeCount]listTypeInfo{
	ListAllMembers:       {"all-members", "All Members", SectionIndex},
	ListPubMethods:       {"pub-methods", "Public Member Functions", SectionDeclaration},
	ListProMethods:       {"pro-methods", "Protected Member Functions", SectionDeclaration},
	ListPacMethods:       {"pac-methods", "Package Functions", SectionDeclaration},
	ListPriMethods:       {"pri-methods", "Private Member Functions", SectionDeclaration},
	ListPubStaticMethods: {"pub-static-methods", "Static Public Member Functions", SectionDeclaration},
	ListProStaticMethods: {"pro-static-methods", "Static Protected Member Functions", SectionDeclaration},
	ListPacStaticMethods: {"pac-static-methods", "Static Package Functions", SectionDeclaration},
	ListPriStaticMethods: {"pri-static-methods", "Static Private Member Functions", SectionDeclaration},
	ListPubSlots:         {"pub-slots", "Public Slots", SectionDeclaration},
	ListProSlots:         {"pro-slots", "Protected Slots", SectionDeclaration},
	ListPriSlots:         {"pri-slots", "Private Slots", SectionDeclaration},
	ListPubSignals:       {"pub-signals", "Public Signals", SectionDeclaration},
	ListProSignals:       {"pro-signals", "Protected Signals", SectionDeclaration},
	ListPriSignals:       {"pri-signals", "Private Signals", SectionDeclaration},
	ListPubAttribs:       {"pub-attribs", "Public Attributes", SectionDeclaration},
	ListProAttribs:       {"pro-attribs", "Protected Attributes", SectionDeclaration},
	ListPacAttribs:       {"pac-attribs", "Package Attributes", SectionDeclaration},
	ListPriAttribs:       {"pri-attribs", "Private Attributes", SectionDeclaration},
	ListPubStaticAttribs: {"pub-static-attribs", "Static Public Attributes", SectionDeclaration},
	ListProStaticAttribs: {"pro-static-attribs", "Static Protected Attributes", SectionDeclaration},
	ListPacStaticAttribs: {"pac-static-attribs", "Static Package Attributes", SectionDeclaration},
	ListPriStaticAttribs: {"pri-static-attribs", "Static Private Attributes", SectionDeclaration},
	ListPubTypes:         {"pub-types", "Public Types", SectionDeclaration},
	ListProTypes:         {"pro-types", "Protected Types", SectionDeclaration},
	ListPacTypes:         {"pac-types", "Package Types", SectionDeclaration},
	ListPriTypes:         {"pri-types", "Private Types", SectionDeclaration},
	ListPubTypedefs:      {"pub-typedefs", "Public Typedefs", SectionDeclaration},
	ListProTypedefs:      {"pro-typedefs", "Protected Typedefs", SectionDeclaration},
	ListPacTypedefs:      {"pac-typedefs", "Package Typedefs", SectionDeclaration},
	ListPriTypedefs:      {"pri-typedefs", "Private Typedefs", SectionDeclaration},
	ListRelated:          {"related", "Related Functions", SectionDeclaration},
	ListFriends:          {"friends", "Friends", SectionDeclaration},
	ListDCOPMethods:      {"dcop-methods", "DCOP Methods", SectionDeclaration},
	ListProperties:       {"properties", "Properties", SectionDeclaration},
	ListEvents:           {"events", "Events", SectionDeclaration},
	ListInterfaces:       {"interfaces", "Exported Interfaces", SectionDeclaration},
	ListServices:         {"services", "Included Services", SectionDeclaration},

	ListTypedefMembers:   {"member-typedef-docs", "Member Typedef Documentation", SectionDocumentation},
	ListEnumMembers:      {"member-enum-docs", "Member Enumeration Documentation", SectionDocumentation},
	ListEnumValMembers:   {"member-enumval-docs", "Member Enumerator Documentation", SectionDocumentation},
	ListFunctionMembers:  {"member-function-docs", "Member Function Documentation", SectionDocumentation},
	ListRelatedMembers:   {"member-related-docs", "Friends And Related Function Documentation", SectionDocumentation},
	ListVariableMembers:  {"member-variable-docs", "Member Data Documentation", SectionDocumentation},
	ListPropertyMembers:  {"member-property-docs", "Property Documentation", SectionDocumentation},
	ListEventMembers:     {"member-event-docs", "Event Documentation", SectionDocumentation},
	ListConstructors:     {"member-constructor-docs", "Constructor & Destructor Documentation", SectionDocumentation},
	ListInterfaceMembers: {"member-interface-docs", "Member Interface Documentation", SectionDocumentation},
	ListServiceMembers:   {"member-service-docs", "Member Service Documentation", SectionDocumentation},

	ListDecDefineMembers:  {"define-members", "Macros", SectionDeclaration},
	ListDecTypedefMembers: {"typedef-members", "Typedefs", SectionDeclaration},
	ListDecEnumMembers:    {"enum-members", "Enumerations", SectionDeclaration},
	ListDecEnumValMembers: {"enumval-members", "Enumerator", SectionDeclaration},
	ListDecFuncMembers:    {"func-members", "Functions", SectionDeclaration},
	ListDecVarMembers:     {"var-members", "Variables", SectionDeclaration},
	ListDecSignalMembers:  {"signal-members", "Signals", SectionDeclaration},
	ListDecEventMembers:   {"event-members", "Events", SectionDeclaration},
	ListDecPropMembers:    {"prop-members", "Properties", SectionDeclaration},
	ListDecFriendMembers:  {"friend-members", "Friends", SectionDeclaration},
	ListDecDCOPMembers:    {"dcop-members", "DCOP Methods", SectionDeclaration},

	ListDocDefineMembers:  {"define-docs", "Macro Definition Documentation", SectionDocumentation},
	ListDocTypedefMembers: {"typedef-docs", "Typedef Documentation", SectionDocumentation},
	ListDocEnumMembers:    {"enum-docs", "Enumeration Type Documentation", SectionDocumentation},
	ListDocEnumValMembers: {"enumval-docs", "Enumerator Documentation", SectionDocumentation},
	ListDocFuncMembers:    {"func-docs", "Function Documentation", SectionDocumentation},
	ListDocVarMembers:     {"var-docs", "Variable Documentation", SectionDocumentation},
	ListDocSignalMembers:  {"signal-docs", "Signal Documentation", SectionDocumentation},
	ListDocSlotMembers:    {"slot-docs", "Slot Documentation", SectionDocumentation},
	ListDocEventMembers:   {"event-docs", "Event Documentation", SectionDocumentation},
	ListDocPropMembers:    {"prop-docs", "Property Documentation", SectionDocumentation},
	ListDocFriendMembers:  {"friend-docs", "Friends And Related Symbol Documentation", SectionDocumentation},
	ListDocDCOPMembers:    {"dcop-docs", "DCOP Method Documentation", SectionDocumentation},
}

func (t ListType) String() string {
	if t < listTypeCount {
		return listTypes[t].name
	}
	return "unknown"
}

// Title is the human readable section heading.
func (t ListType) Title() string {
	if t < listTypeCount {
		return listTypes[t].title
	}
	return ""
}

func (t ListType) Section() ListSection {
	if t < listTypeCount {
		return listTypes[t].section
	}
	return SectionIndex
}

func (t ListType) IsDeclaration() bool   { return t.Section() == SectionDeclaration }
func (t ListType) IsDocumentation() bool { return t.Section() == SectionDocumentation }
