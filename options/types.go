// Package options implements the declarative option schema and
// validator every translator's descriptor table is checked against
// (spec.md §4.3 "Option validation", C5). Grounded on
// original_source/libglusterfs/src/options.c's xlator_option_validate.
package options

// Type enumerates the recognized option value kinds, spec.md's full
// list carried over unabridged.
type Type int

const (
	TypePath Type = iota
	TypeInt
	TypeSizeBytes
	TypeSizeBytesOrPercent
	TypeBool
	TypeStringEnum
	TypeTime
	TypeDouble
	TypePercent
	TypeXlatorName
	TypeInternetAddress
	TypeInternetAddressList
	TypeClientAuthAddress
	TypePriorityList
	TypeSizeList
	TypeAny
)

// Descriptor is one option's schema entry: its canonical key, any
// fnmatch-style aliases (including deprecated ones that should be
// rewritten on match), its Type, and the constraints relevant to that
// Type.
type Descriptor struct {
	Key    string
	Aliases []string

	// Deprecated marks Key (or one of Aliases) as superseded; a match
	// against a deprecated alias is rewritten to Key rather than
	// rejected, per spec.md §4.3(b).
	Deprecated bool

	Type Type

	// Min/Max apply to TypeInt, TypeSizeBytes, TypeSizeBytesOrPercent,
	// TypeTime, TypeDouble, TypePercent.
	// HasMin/HasMax distinguish "no bound" from "bound is zero", since
	// the original supports min-only and max-only modes.
	HasMin, HasMax bool
	Min, Max       float64

	// Enum holds the fnmatch patterns accepted for TypeStringEnum.
	Enum []string

	Default string
}
