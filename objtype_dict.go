package feather

import "strings"

// DictType is the internal representation for dictionary values.
type DictType struct {
	Items map[string]*Obj
	Order []string
}

func (t *DictType) Name() string { return "dict" }

func (t *DictType) Dup() ObjType {
	newItems := make(map[string]*Obj, len(t.Items))
	for k, v := range t.Items {
		newItems[k] = v
	}
	newOrder := make([]string, len(t.Order))
	copy(newOrder, t.Order)
	return &DictType{Items: newItems, Order: newOrder}
}

func (t *DictType) UpdateString() string {
	var result strings.Builder
	for i, key := range t.Order {
		if i > 0 {
			result.WriteByte(' ')
		}
		result.WriteString(quoteListElement(key))
		result.WriteByte(' ')
		result.WriteString(quoteListElement(t.Items[key].String()))
	}
	return result.String()
}

func (t *DictType) IntoDict() (map[string]*Obj, []string, bool) {
	return t.Items, t.Order, true
}

func (t *DictType) IntoList() ([]*Obj, bool) {
	list := make([]*Obj, 0, len(t.Order)*2)
	for _, k := range t.Order {
		list = append(list, NewStringObj(k), t.Items[k])
	}
	return list, true
}
