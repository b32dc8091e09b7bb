package feather

import (
	"fmt"
	"strings"
)

// parseArrayRef splits a command-argument variable name of the form
// "arr(index)" into its array name and index, as used by `set`, `incr`,
// `append`, `lappend`, and `unset` when a caller writes e.g. `set a(x) 1`
// rather than going through $-substitution (which the parser already
// breaks into an arrayRefWord ahead of time).
func parseArrayRef(name string) (arr, index string, ok bool) {
	if !strings.HasSuffix(name, ")") {
		return "", "", false
	}
	open := strings.IndexByte(name, '(')
	if open <= 0 {
		return "", "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}

// resolveVarOrElem reads a scalar or, if name has array(index) syntax, an
// array element.
func (i *InternalInterp) resolveVarOrElem(name string) (*Obj, bool) {
	if arr, idx, ok := parseArrayRef(name); ok {
		return i.getArrayElem(arr, idx)
	}
	return i.resolveVar(name)
}

// setVarOrElem writes a scalar or, if name has array(index) syntax, an
// array element.
func (i *InternalInterp) setVarOrElem(name string, val *Obj) error {
	if arr, idx, ok := parseArrayRef(name); ok {
		return i.setArrayElem(arr, idx, val)
	}
	return i.setVar(name, val)
}

// unsetVarOrElem removes a scalar, array, or single array element named
// name, reporting whether it was previously set.
func (i *InternalInterp) unsetVarOrElem(name string) bool {
	if arr, idx, ok := parseArrayRef(name); ok {
		a, exists := i.resolveArray(arr, false)
		if !exists {
			return false
		}
		if _, had := a.Items[idx]; !had {
			return false
		}
		delete(a.Items, idx)
		for j, k := range a.Order {
			if k == idx {
				a.Order = append(a.Order[:j], a.Order[j+1:]...)
				break
			}
		}
		return true
	}
	return i.unsetVar(name)
}

// This file implements the variable store from spec.md §5: each call frame
// holds its own scalars and arrays, and upvar/global create a single-hop
// link from a name in the current frame to a name in another frame — a
// link is never chased through another link, matching TCL's own upvar
// semantics of binding directly to the target frame's slot.

// globalFrame returns the outermost call frame, used by commands like
// "global" and "uplevel #0".
func (i *InternalInterp) globalFrame() *CallFrame {
	return i.frames[0]
}

// linkTarget resolves name to the frame and name that actually own its
// storage: the current frame itself, or — through at most one upvar hop —
// the frame a link points at. Links are never chased through other links.
func (i *InternalInterp) linkTarget(name string) (*CallFrame, string) {
	f := i.currentFrame()
	if link, ok := f.links[name]; ok {
		return link.frame, link.name
	}
	return f, name
}

// resolveVar looks up a scalar by name in the current frame, following a
// single upvar link if one is set.
func (i *InternalInterp) resolveVar(name string) (*Obj, bool) {
	tf, key := i.linkTarget(name)
	v, ok := tf.vars[key]
	return v, ok
}

// isArrayName reports whether name (after link resolution) currently holds
// an array.
func (i *InternalInterp) isArrayName(name string) bool {
	tf, key := i.linkTarget(name)
	_, ok := tf.arrays[key]
	return ok
}

// setVar stores val under name in the current frame, following a single
// upvar link if one is set. Writing a scalar over an existing array is an
// error.
func (i *InternalInterp) setVar(name string, val *Obj) error {
	tf, key := i.linkTarget(name)
	if _, isArr := tf.arrays[key]; isArr {
		return fmt.Errorf("can't set %q: variable is array", name)
	}
	tf.vars[key] = val
	return nil
}

// unsetVar removes name from the current frame (or its link target),
// reporting whether it was previously set.
func (i *InternalInterp) unsetVar(name string) bool {
	f := i.currentFrame()
	if link, ok := f.links[name]; ok {
		delete(f.links, name)
		if _, existed := link.frame.vars[link.name]; existed {
			delete(link.frame.vars, link.name)
			return true
		}
		return false
	}
	if _, ok := f.vars[name]; ok {
		delete(f.vars, name)
		return true
	}
	if _, ok := f.arrays[name]; ok {
		delete(f.arrays, name)
		return true
	}
	return false
}

// linkVar creates an upvar-style link from localName in the current frame
// to otherName in targetFrame.
func (i *InternalInterp) linkVar(targetFrame *CallFrame, otherName, localName string) {
	f := i.currentFrame()
	f.links[localName] = &varLink{frame: targetFrame, name: otherName}
}

// resolveArray returns the array map bound to name in the current frame
// (creating it on demand), following a single upvar link if one is set.
func (i *InternalInterp) resolveArray(name string, create bool) (*DictType, bool) {
	target, key := i.linkTarget(name)
	arr, ok := target.arrays[key]
	if !ok {
		if !create {
			return nil, false
		}
		arr = &DictType{Items: make(map[string]*Obj)}
		target.arrays[key] = arr
	}
	return arr, true
}

// getArrayElem reads arrName(index).
func (i *InternalInterp) getArrayElem(arrName, index string) (*Obj, bool) {
	arr, ok := i.resolveArray(arrName, false)
	if !ok {
		return nil, false
	}
	v, ok := arr.Items[index]
	return v, ok
}

// setArrayElem writes arrName(index), creating the array if needed.
// Writing an element over an existing scalar is an error.
func (i *InternalInterp) setArrayElem(arrName, index string, val *Obj) error {
	tf, key := i.linkTarget(arrName)
	if _, isScalar := tf.vars[key]; isScalar {
		return fmt.Errorf("can't set \"%s(%s)\": variable isn't array", arrName, index)
	}
	arr, _ := i.resolveArray(arrName, true)
	if _, exists := arr.Items[index]; !exists {
		arr.Order = append(arr.Order, index)
	}
	arr.Items[index] = val
	return nil
}

// readVarError builds the message for a failed variable read, matching
// TCL's wording for a missing scalar, a missing array element, and a
// scalar read of a whole array.
func (i *InternalInterp) readVarError(name string) string {
	if arr, idx, ok := parseArrayRef(name); ok {
		if _, exists := i.resolveArray(arr, false); exists {
			return fmt.Sprintf("can't read \"%s(%s)\": no such element in array", arr, idx)
		}
		return fmt.Sprintf("can't read \"%s(%s)\": no such variable", arr, idx)
	}
	if i.isArrayName(name) {
		return fmt.Sprintf("can't read %q: variable is array", name)
	}
	return fmt.Sprintf("can't read %q: no such variable", name)
}

// pushFrame enters a new proc call, enforcing the recursion limit.
func (i *InternalInterp) pushFrame(proc *Procedure) error {
	if len(i.frames) > i.recursionLimit {
		return fmt.Errorf("too many nested evaluations (infinite loop?)")
	}
	i.frames = append(i.frames, newCallFrame(i.currentFrame(), proc))
	return nil
}

// popFrame leaves the innermost proc call.
func (i *InternalInterp) popFrame() {
	i.frames = i.frames[:len(i.frames)-1]
}
