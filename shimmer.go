package feather

// Package-level constructors for the built-in internal representations.
// These build bare *Obj values with no owning interpreter; InternalInterp
// adopts ownership (for handle bookkeeping) when one is registered via
// registerObj.

// NewStringObj creates a pure string object with no internal representation.
func NewStringObj(s string) *Obj {
	return &Obj{bytes: s}
}

// NewIntObj creates an integer object.
func NewIntObj(v int64) *Obj {
	return &Obj{intrep: IntType(v)}
}

// NewDoubleObj creates a floating-point object.
func NewDoubleObj(v float64) *Obj {
	return &Obj{intrep: DoubleType(v)}
}

// NewListObj creates a list object from the given items.
func NewListObj(items ...*Obj) *Obj {
	l := make(ListType, len(items))
	copy(l, items)
	return &Obj{intrep: l}
}

// NewDictObj creates an empty dict object.
func NewDictObj() *Obj {
	return &Obj{intrep: &DictType{Items: make(map[string]*Obj)}}
}

// NewForeignObj creates a foreign object wrapping a host value.
func NewForeignObj(typeName string, value any) *Obj {
	return &Obj{intrep: &ForeignType{TypeName: typeName, Value: value}}
}

// ObjListAppend appends item to obj in place if obj holds a list
// representation; otherwise obj is left unchanged.
func ObjListAppend(obj *Obj, item *Obj) {
	if obj == nil {
		return
	}
	if l, ok := obj.intrep.(ListType); ok {
		obj.intrep = append(l, item)
		obj.invalidate()
		return
	}
}

// ObjDictSet sets key to val in obj in place if obj holds a dict
// representation; otherwise obj is left unchanged.
func ObjDictSet(obj *Obj, key string, val *Obj) {
	if obj == nil {
		return
	}
	d, ok := obj.intrep.(*DictType)
	if !ok {
		return
	}
	if _, exists := d.Items[key]; !exists {
		d.Order = append(d.Order, key)
	}
	d.Items[key] = val
	obj.invalidate()
}

// ObjDictGet retrieves the value for key in obj, if obj holds a dict
// representation and key is present.
func ObjDictGet(obj *Obj, key string) (*Obj, bool) {
	if obj == nil {
		return nil, false
	}
	d, ok := obj.intrep.(*DictType)
	if !ok {
		return nil, false
	}
	v, ok := d.Items[key]
	return v, ok
}
