package feather

import "fmt"

// ForeignType is the internal representation wrapping a host-language
// (Go) value exposed to scripts via [DefineType]/[RegisterType]. Its
// string form is normally overwritten with a handle name (e.g. "mux1") by
// the foreign-object constructor; UpdateString only supplies a fallback.
type ForeignType struct {
	TypeName string
	Value    any
}

func (t *ForeignType) Name() string         { return t.TypeName }
func (t *ForeignType) Dup() ObjType         { return t }
func (t *ForeignType) UpdateString() string { return fmt.Sprintf("<%s:%p>", t.TypeName, t.Value) }
