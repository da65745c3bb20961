package ir

import (
	"fmt"
	"strings"
)

// Class is the broad category of an entry kind.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassCompound
	ClassMember
	ClassNamespace
	ClassFile
	ClassDir
	ClassPage
	ClassGroup
)

var kindClasses = map[string]Class{
	"class":     ClassCompound,
	"struct":    ClassCompound,
	"union":     ClassCompound,
	"interface": ClassCompound,
	"protocol":  ClassCompound,
	"category":  ClassCompound,
	"exception": ClassCompound,
	"service":   ClassCompound,
	"singleton": ClassCompound,

	"define":        ClassMember,
	"function":      ClassMember,
	"variable":      ClassMember,
	"typedef":       ClassMember,
	"enum":          ClassMember,
	"enumvalue":     ClassMember,
	"signal":        ClassMember,
	"slot":          ClassMember,
	"friend":        ClassMember,
	"dcop":          ClassMember,
	"property":      ClassMember,
	"event":         ClassMember,
	"idl-interface": ClassMember,
	"idl-service":   ClassMember,

	"namespace": ClassNamespace,
	"file":      ClassFile,
	"dir":       ClassDir,
	"page":      ClassPage,
	"example":   ClassPage,
	"group":     ClassGroup,
}

// ParseKind normalizes kind and reports its class. Unknown kinds return
// ErrUnknownKind.
func ParseKind(kind string) (string, Class, error) {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch k {
	case "enumeration":
		k = "enum"
	case "enum-value", "enumerator":
		k = "enumvalue"
	case "method", "func":
		k = "function"
	case "macro":
		k = "define"
	}
	c, ok := kindClasses[k]
	if !ok {
		return k, ClassUnknown, fmt.Errorf("kind %q: %w", kind, ErrUnknownKind)
	}
	return k, c, nil
}

// Class reports the entry's kind class. External entries with an unknown
// kind are treated as members so the graph can report them.
func (e *Entry) Class() Class {
	_, c, err := ParseKind(e.Kind)
	if err != nil && e.IsExternal() {
		return ClassMember
	}
	return c
}

// DefaultPriority maps a grouping command to its priority.
func DefaultPriority(command string) int {
	switch strings.TrimLeft(strings.ToLower(command), "@\\") {
	case "weakgroup":
		return 0
	case "addtogroup":
		return 1
	case "defgroup":
		return 2
	}
	return 3
}

// Pri returns the explicit priority or the command's default.
func (r GroupRef) Pri() int {
	if r.Priority != nil {
		return *r.Priority
	}
	return DefaultPriority(r.Command)
}
