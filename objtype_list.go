package feather

import "strings"

// ListType is the internal representation for list values.
type ListType []*Obj

func (t ListType) Name() string { return "list" }
func (t ListType) Dup() ObjType {
	cp := make(ListType, len(t))
	copy(cp, t)
	return cp
}

func (t ListType) UpdateString() string {
	var b strings.Builder
	for i, item := range t {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quoteListElement(item.String()))
	}
	return b.String()
}

func (t ListType) IntoList() ([]*Obj, bool) { return t, true }

func (t ListType) IntoDict() (map[string]*Obj, []string, bool) {
	if len(t)%2 != 0 {
		return nil, nil, false
	}
	items := make(map[string]*Obj, len(t)/2)
	order := make([]string, 0, len(t)/2)
	for i := 0; i < len(t); i += 2 {
		key := t[i].String()
		if _, exists := items[key]; !exists {
			order = append(order, key)
		}
		items[key] = t[i+1]
	}
	return items, order, true
}

// IntoInt lets a single-element list shimmer into a number, matching TCL's
// "list of one element looks like its element" behavior for expr contexts.
func (t ListType) IntoInt() (int64, bool) {
	if len(t) != 1 {
		return 0, false
	}
	v, err := asInt(t[0])
	return v, err == nil
}

func (t ListType) IntoDouble() (float64, bool) {
	if len(t) != 1 {
		return 0, false
	}
	v, err := asDouble(t[0])
	return v, err == nil
}
