package feather

import (
	"fmt"
	"strconv"
	"strings"
)

// This file implements the shimmering conversions from spec.md §4.3: a pure
// string object lazily grows a typed internal representation the first time
// it is asked for one, and that representation is cached for next time. The
// lowercase helpers are used internally by Obj's typed accessors and by the
// evaluator; the exported As* functions are the same conversions for callers
// holding a *Obj directly.

// asInt converts o to int64, shimmering the internal representation if o is
// a pure string or another numeric-like type.
func asInt(o *Obj) (int64, error) {
	if o == nil {
		return 0, fmt.Errorf("expected integer but got \"\"")
	}
	if c, ok := o.intrep.(IntoInt); ok {
		if v, ok := c.IntoInt(); ok {
			return v, nil
		}
	}
	s := strings.TrimSpace(o.String())
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("expected integer but got %q", o.String())
	}
	o.intrep = IntType(v)
	return v, nil
}

// asDouble converts o to float64, shimmering if needed.
func asDouble(o *Obj) (float64, error) {
	if o == nil {
		return 0, fmt.Errorf("expected floating-point number but got \"\"")
	}
	if c, ok := o.intrep.(IntoDouble); ok {
		if v, ok := c.IntoDouble(); ok {
			return v, nil
		}
	}
	s := strings.TrimSpace(o.String())
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected floating-point number but got %q", o.String())
	}
	o.intrep = DoubleType(v)
	return v, nil
}

// asList converts o to a list if it already has a list-compatible internal
// representation. Callers that also want pure-string parsing should use
// [Obj.List] instead, which falls back to [parseListString].
func asList(o *Obj) ([]*Obj, error) {
	if o == nil {
		return nil, nil
	}
	if c, ok := o.intrep.(IntoList); ok {
		if v, ok := c.IntoList(); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %q to list", o.String())
}

// asDict converts o to a dict if it already has a dict-compatible internal
// representation. Callers that also want pure-string parsing should use
// [Obj.Dict] instead, which falls back to [parseDictString].
func asDict(o *Obj) (*DictType, error) {
	if o == nil {
		return &DictType{Items: make(map[string]*Obj)}, nil
	}
	if d, ok := o.intrep.(*DictType); ok {
		return d, nil
	}
	if c, ok := o.intrep.(IntoDict); ok {
		if items, order, ok := c.IntoDict(); ok {
			d := &DictType{Items: items, Order: order}
			o.intrep = d
			return d, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %q to dict", o.String())
}

// asBool converts o to a boolean using TCL truthiness rules: any integer
// shimmers to nonzero-is-true, otherwise the canonical boolean spellings are
// recognized case-insensitively.
func asBool(o *Obj) (bool, error) {
	if o == nil {
		return false, nil
	}
	if c, ok := o.intrep.(IntoBool); ok {
		if v, ok := c.IntoBool(); ok {
			return v, nil
		}
	}
	if v, err := asInt(o); err == nil {
		return v != 0, nil
	}
	switch strings.ToLower(o.String()) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected boolean but got %q", o.String())
}

// AsInt converts o to int64, shimmering if needed.
func AsInt(o *Obj) (int64, error) { return asInt(o) }

// AsDouble converts o to float64, shimmering if needed.
func AsDouble(o *Obj) (float64, error) { return asDouble(o) }

// AsBool converts o to a boolean using TCL boolean rules.
func AsBool(o *Obj) (bool, error) { return asBool(o) }

// AsList converts o to a list, parsing its string form if it is not already
// a list.
func AsList(o *Obj) ([]*Obj, error) {
	if o == nil {
		return nil, nil
	}
	return o.List()
}

// AsDict converts o to a dict, parsing its string form if it is not already
// a dict.
func AsDict(o *Obj) (*DictType, error) {
	if o == nil {
		return &DictType{Items: make(map[string]*Obj)}, nil
	}
	return o.Dict()
}
