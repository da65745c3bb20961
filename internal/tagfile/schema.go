package tagfile

import "encoding/xml"

// The element layout follows the tag file format read by other
// documentation runs for cross-project links.

type tagFile struct {
	XMLName   xml.Name      `xml:"tagfile"`
	Compounds []compoundTag `xml:"compound"`
}

type compoundTag struct {
	Kind     string `xml:"kind,attr"`
	Name     string `xml:"name"`
	Title    string `xml:"title,omitempty"`
	Path     string `xml:"path,omitempty"`
	Filename string `xml:"filename,omitempty"`

	TemplArgs []string  `xml:"templarg,omitempty"`
	Bases     []baseTag `xml:"base,omitempty"`

	Classes    []refTag `xml:"class,omitempty"`
	Namespaces []string `xml:"namespace,omitempty"`
	Files      []string `xml:"file,omitempty"`
	Dirs       []string `xml:"dir,omitempty"`
	Pages      []string `xml:"page,omitempty"`
	SubGroups  []string `xml:"subgroup,omitempty"`

	Members []memberTag `xml:"member,omitempty"`
}

type baseTag struct {
	Protection  string `xml:"protection,attr,omitempty"`
	Virtualness string `xml:"virtualness,attr,omitempty"`
	Name        string `xml:",chardata"`
}

type refTag struct {
	Kind string `xml:"kind,attr,omitempty"`
	Name string `xml:",chardata"`
}

type memberTag struct {
	Kind        string `xml:"kind,attr"`
	Protection  string `xml:"protection,attr,omitempty"`
	Virtualness string `xml:"virtualness,attr,omitempty"`
	Static      string `xml:"static,attr,omitempty"`
	Type        string `xml:"type"`
	Name        string `xml:"name"`
	AnchorFile  string `xml:"anchorfile"`
	Anchor      string `xml:"anchor"`
	ArgList     string `xml:"arglist"`
}
