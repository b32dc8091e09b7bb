package feather

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// This file implements the bootstrap command set described in spec.md's
// control-flow, variable, list, and dict sections: enough of the language's
// core vocabulary to write and run real scripts against the evaluator in
// eval.go. Commands are native Go functions registered through
// registerNative, which adapts the handle-based [InternalCommandFunc]
// signature to a plain []*Obj one for readability.

// registerNative adapts a *Obj-based command implementation to the
// handle-based [InternalCommandFunc] signature the evaluator dispatches to.
func (i *InternalInterp) registerNative(name string, fn func(i *InternalInterp, args []*Obj) FeatherResult) {
	i.Register(name, func(ii *InternalInterp, cmd FeatherObj, argHandles []FeatherObj) FeatherResult {
		args := make([]*Obj, len(argHandles))
		for j, h := range argHandles {
			args[j] = ii.objForHandle(h)
		}
		return fn(ii, args)
	})
}

// registerBuiltinCommands installs the bootstrap command set on a freshly
// created interpreter.
func registerBuiltinCommands(i *InternalInterp) {
	i.registerNative("set", cmdSet)
	i.registerNative("unset", cmdUnset)
	i.registerNative("global", cmdGlobal)
	i.registerNative("variable", cmdVariable)
	i.registerNative("upvar", cmdUpvar)
	i.registerNative("incr", cmdIncr)
	i.registerNative("append", cmdAppend)
	i.registerNative("array", cmdArray)

	i.registerNative("if", cmdIf)
	i.registerNative("while", cmdWhile)
	i.registerNative("for", cmdFor)
	i.registerNative("foreach", cmdForeach)
	i.registerNative("break", cmdBreak)
	i.registerNative("continue", cmdContinue)
	i.registerNative("return", cmdReturn)
	i.registerNative("catch", cmdCatch)
	i.registerNative("error", cmdError)
	i.registerNative("throw", cmdThrow)
	i.registerNative("uplevel", cmdUplevel)

	i.registerNative("proc", cmdProc)
	i.registerNative("eval", cmdEval)

	i.registerNative("expr", cmdExpr)

	i.registerNative("list", cmdList)
	i.registerNative("llength", cmdLlength)
	i.registerNative("lindex", cmdLindex)
	i.registerNative("lappend", cmdLappend)
	i.registerNative("concat", cmdConcat)
	i.registerNative("split", cmdSplit)
	i.registerNative("join", cmdJoin)

	i.registerNative("dict", cmdDict)

	registerJSONCommands(i)
}

func wrongArgs(i *InternalInterp, usage string) FeatherResult {
	i.SetErrorString(fmt.Sprintf("wrong # args: should be %q", usage))
	return ResultError
}

// unknownSubcommand formats the error for an ensemble dispatch miss, with
// the valid subcommands listed in sorted order.
func unknownSubcommand(sub string, names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	var list string
	switch len(sorted) {
	case 0:
		list = ""
	case 1:
		list = sorted[0]
	case 2:
		list = sorted[0] + " or " + sorted[1]
	default:
		list = strings.Join(sorted[:len(sorted)-1], ", ") + ", or " + sorted[len(sorted)-1]
	}
	return fmt.Sprintf("unknown or ambiguous subcommand %q: must be %s", sub, list)
}

// cmdSet implements `set varName ?value?`.
func cmdSet(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 1 && len(args) != 2 {
		return wrongArgs(i, "set varName ?newValue?")
	}
	name := args[0].String()
	if len(args) == 2 {
		if err := i.setVarOrElem(name, args[1]); err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		i.SetResult(i.registerObj(args[1]))
		return ResultOK
	}
	v, ok := i.resolveVarOrElem(name)
	if !ok {
		i.SetErrorString(i.readVarError(name))
		return ResultError
	}
	i.SetResult(i.registerObj(v))
	return ResultOK
}

// cmdUnset implements `unset ?-nocomplain? varName ...`.
func cmdUnset(i *InternalInterp, args []*Obj) FeatherResult {
	for _, a := range args {
		name := a.String()
		if name == "-nocomplain" {
			continue
		}
		i.unsetVarOrElem(name)
	}
	i.SetResultString("")
	return ResultOK
}

// cmdGlobal implements `global varName ...`: links each name in the current
// frame to the same name in the global frame.
func cmdGlobal(i *InternalInterp, args []*Obj) FeatherResult {
	gf := i.globalFrame()
	for _, a := range args {
		name := a.String()
		i.linkVar(gf, name, name)
	}
	i.SetResultString("")
	return ResultOK
}

// cmdVariable implements `variable name ?value? ?name value ...?`: like
// global, but also initializes the global slot when a value is given and
// the variable doesn't already exist.
func cmdVariable(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) == 0 {
		return wrongArgs(i, "variable ?name value...? name ?value?")
	}
	gf := i.globalFrame()
	j := 0
	for j < len(args) {
		name := args[j].String()
		i.linkVar(gf, name, name)
		if j+1 < len(args) {
			if _, exists := gf.vars[name]; !exists {
				gf.vars[name] = args[j+1]
			}
			j += 2
		} else {
			j++
		}
	}
	i.SetResultString("")
	return ResultOK
}

// cmdUpvar implements `upvar ?level? otherVar localVar ?otherVar localVar ...?`.
func cmdUpvar(i *InternalInterp, args []*Obj) FeatherResult {
	spec := "1"
	rest := args
	if len(args)%2 == 1 && len(args) > 0 {
		spec = args[0].String()
		rest = args[1:]
	}
	if len(rest) == 0 || len(rest)%2 != 0 {
		return wrongArgs(i, "upvar ?level? otherVar localVar ?otherVar localVar ...?")
	}
	target, err := i.frameAtLevel(spec)
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	for j := 0; j+1 < len(rest); j += 2 {
		i.linkVar(target, rest[j].String(), rest[j+1].String())
	}
	i.SetResultString("")
	return ResultOK
}

// frameAtLevel resolves an upvar/uplevel level spec: a plain number counts
// frames up from the current one (1 is the caller), and "#N" is an absolute
// depth where #0 is the global frame.
func (i *InternalInterp) frameAtLevel(spec string) (*CallFrame, error) {
	if strings.HasPrefix(spec, "#") {
		n, err := strconv.Atoi(spec[1:])
		if err != nil || n < 0 || n >= len(i.frames) {
			return nil, fmt.Errorf("bad level %q", spec)
		}
		return i.frames[n], nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("bad level %q", spec)
	}
	idx := len(i.frames) - 1 - n
	if idx < 0 {
		return nil, fmt.Errorf("bad level %q", spec)
	}
	return i.frames[idx], nil
}

// cmdIncr implements `incr varName ?increment?`.
func cmdIncr(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 1 && len(args) != 2 {
		return wrongArgs(i, "incr varName ?increment?")
	}
	delta := int64(1)
	if len(args) == 2 {
		v, err := asInt(args[1])
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		delta = v
	}
	name := args[0].String()
	cur := int64(0)
	if v, ok := i.resolveVarOrElem(name); ok {
		n, err := asInt(v)
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		cur = n
	}
	result := NewIntObj(cur + delta)
	if err := i.setVarOrElem(name, result); err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	i.SetResult(i.registerObj(result))
	return ResultOK
}

// cmdAppend implements `append varName ?value value ...?`.
func cmdAppend(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 {
		return wrongArgs(i, "append varName ?value ...?")
	}
	name := args[0].String()
	var sb strings.Builder
	if v, ok := i.resolveVarOrElem(name); ok {
		sb.WriteString(v.String())
	}
	for _, a := range args[1:] {
		sb.WriteString(a.String())
	}
	result := NewStringObj(sb.String())
	if err := i.setVarOrElem(name, result); err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	i.SetResult(i.registerObj(result))
	return ResultOK
}

// cmdIf implements `if cond ?then? body {elseif cond ?then? body}... ?else? body`.
func cmdIf(i *InternalInterp, args []*Obj) FeatherResult {
	j := 0
	for j < len(args) {
		cond := args[j]
		j++
		if j >= len(args) {
			return wrongArgs(i, "if cond ?then? body ...")
		}
		if args[j].String() == "then" {
			j++
		}
		if j >= len(args) {
			return wrongArgs(i, "if cond ?then? body ...")
		}
		body := args[j]
		j++

		truth, err := i.evalExprBool(cond)
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		if truth {
			return i.evalScriptObj(body)
		}

		if j >= len(args) {
			i.SetResultString("")
			return ResultOK
		}
		if args[j].String() == "elseif" {
			j++
			continue
		}
		if args[j].String() == "else" {
			j++
			if j >= len(args) {
				return wrongArgs(i, "if cond ?then? body ... else body")
			}
			return i.evalScriptObj(args[j])
		}
		// Bare trailing body means an implicit final else.
		return i.evalScriptObj(args[j])
	}
	i.SetResultString("")
	return ResultOK
}

// cmdWhile implements `while cond body`.
func cmdWhile(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 2 {
		return wrongArgs(i, "while test command")
	}
	cond, body := args[0], args[1]
	for {
		truth, err := i.evalExprBool(cond)
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		if !truth {
			break
		}
		code := i.evalScriptObj(body)
		switch code {
		case ResultBreak:
			i.SetResultString("")
			return ResultOK
		case ResultContinue, ResultOK:
			// keep looping
		default:
			return code
		}
	}
	i.SetResultString("")
	return ResultOK
}

// cmdFor implements `for start test next body`.
func cmdFor(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 4 {
		return wrongArgs(i, "for start test next command")
	}
	start, test, next, body := args[0], args[1], args[2], args[3]
	if code := i.evalScriptObj(start); code != ResultOK {
		return code
	}
	for {
		truth, err := i.evalExprBool(test)
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		if !truth {
			break
		}
		code := i.evalScriptObj(body)
		switch code {
		case ResultBreak:
			i.SetResultString("")
			return ResultOK
		case ResultContinue, ResultOK:
			// fall through to next
		default:
			return code
		}
		if code := i.evalScriptObj(next); code != ResultOK {
			return code
		}
	}
	i.SetResultString("")
	return ResultOK
}

// cmdForeach implements `foreach varName list body` (single variable list
// form; multi-variable parallel iteration is not yet supported).
func cmdForeach(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 3 {
		return wrongArgs(i, "foreach varname list command")
	}
	name := args[0].String()
	items, err := args[1].List()
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	body := args[2]
	for _, item := range items {
		if err := i.setVar(name, item); err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		code := i.evalScriptObj(body)
		switch code {
		case ResultBreak:
			i.SetResultString("")
			return ResultOK
		case ResultContinue, ResultOK:
			// continue looping
		default:
			return code
		}
	}
	i.SetResultString("")
	return ResultOK
}

func cmdBreak(i *InternalInterp, args []*Obj) FeatherResult {
	i.SetResultString("")
	return ResultBreak
}

func cmdContinue(i *InternalInterp, args []*Obj) FeatherResult {
	i.SetResultString("")
	return ResultContinue
}

// cmdCatch implements `catch script ?resultVarName? ?optionsVarName?`.
func cmdCatch(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 || len(args) > 3 {
		return wrongArgs(i, "catch script ?resultVarName? ?optionsVarName?")
	}
	code, result := i.catchEval(args[0])
	if len(args) >= 2 {
		if err := i.setVar(args[1].String(), result); err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
	}
	if len(args) == 3 {
		opts := NewDictObj()
		ObjDictSet(opts, "-code", NewIntObj(resultCodeInt(code)))
		if code == ResultError {
			ObjDictSet(opts, "-errorinfo", NewStringObj(i.errorInfo))
			ec := i.errorCode
			if ec == nil {
				ec = NewStringObj("NONE")
			}
			ObjDictSet(opts, "-errorcode", ec)
		}
		if err := i.setVar(args[2].String(), opts); err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
	}
	i.SetResult(i.registerObj(NewIntObj(resultCodeInt(code))))
	return ResultOK
}

// cmdError implements `error message ?errorInfo? ?errorCode?`.
func cmdError(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 || len(args) > 3 {
		return wrongArgs(i, "error message ?info? ?code?")
	}
	msg := args[0].String()
	i.SetErrorString(msg)
	if len(args) >= 2 && args[1].String() != "" {
		// A caller-supplied errorInfo means this is a rethrow of an error
		// whose trace was already captured, not a new one.
		i.errorInfo = args[1].String()
		i.errorNew = false
	}
	if len(args) == 3 {
		i.errorCode = args[2]
	}
	return ResultError
}

// cmdThrow implements `throw type message`, raising an error tagged with an
// arbitrary error code list rather than the plain string `error` attaches.
func cmdThrow(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 2 {
		return wrongArgs(i, "throw type message")
	}
	i.SetErrorString(args[1].String())
	i.errorCode = args[0]
	return ResultError
}

// cmdArray implements the `array` ensemble (`set`/`get`/`exists`/`names`/
// `size`/`unset`) over the per-frame array storage in vars.go.
func cmdArray(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 2 {
		return wrongArgs(i, "array subcommand arrayName ?arg ...?")
	}
	sub := args[0].String()
	name := args[1].String()
	rest := args[2:]
	switch sub {
	case "set":
		if len(rest) != 1 {
			return wrongArgs(i, "array set arrayName list")
		}
		items, err := rest[0].List()
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		if len(items)%2 != 0 {
			i.SetErrorString("list must have an even number of elements")
			return ResultError
		}
		for j := 0; j+1 < len(items); j += 2 {
			if err := i.setArrayElem(name, items[j].String(), items[j+1]); err != nil {
				i.SetErrorString(err.Error())
				return ResultError
			}
		}
		i.SetResultString("")
		return ResultOK
	case "get":
		arr, ok := i.resolveArray(name, false)
		if !ok {
			i.SetResult(i.registerObj(NewListObj()))
			return ResultOK
		}
		flat := make([]*Obj, 0, len(arr.Order)*2)
		for _, k := range arr.Order {
			flat = append(flat, NewStringObj(k), arr.Items[k])
		}
		i.SetResult(i.registerObj(NewListObj(flat...)))
		return ResultOK
	case "exists":
		_, ok := i.resolveArray(name, false)
		if ok {
			i.SetResult(i.registerObj(NewIntObj(1)))
		} else {
			i.SetResult(i.registerObj(NewIntObj(0)))
		}
		return ResultOK
	case "names":
		arr, ok := i.resolveArray(name, false)
		if !ok {
			i.SetResult(i.registerObj(NewListObj()))
			return ResultOK
		}
		items := make([]*Obj, len(arr.Order))
		for j, k := range arr.Order {
			items[j] = NewStringObj(k)
		}
		i.SetResult(i.registerObj(NewListObj(items...)))
		return ResultOK
	case "size":
		arr, ok := i.resolveArray(name, false)
		n := 0
		if ok {
			n = len(arr.Items)
		}
		i.SetResult(i.registerObj(NewIntObj(int64(n))))
		return ResultOK
	case "unset":
		i.unsetVar(name)
		i.SetResultString("")
		return ResultOK
	default:
		i.SetErrorString(unknownSubcommand(sub, []string{"set", "get", "exists", "names", "size", "unset"}))
		return ResultError
	}
}

// cmdUplevel implements `uplevel ?level? script`, running script's
// substitutions and commands against an outer frame.
func cmdUplevel(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 {
		return wrongArgs(i, "uplevel ?level? script")
	}
	spec := "1"
	scriptArgs := args
	if len(args) > 1 {
		if s := args[0].String(); s != "" && (s[0] == '#' || (s[0] >= '0' && s[0] <= '9')) {
			spec = s
			scriptArgs = args[1:]
		}
	}
	target, err := i.frameAtLevel(spec)
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	saved := i.frames
	i.frames = append(append([]*CallFrame{}, i.frames[:indexOfFrame(i.frames, target)+1]...))
	defer func() { i.frames = saved }()

	var sb strings.Builder
	for j, a := range scriptArgs {
		if j > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.String())
	}
	return i.evalScriptObj(NewStringObj(sb.String()))
}

func indexOfFrame(frames []*CallFrame, target *CallFrame) int {
	for idx, f := range frames {
		if f == target {
			return idx
		}
	}
	return 0
}

// cmdProc implements `proc name args body`.
func cmdProc(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 3 {
		return wrongArgs(i, "proc name args body")
	}
	name := args[0].String()
	paramItems, err := args[1].List()
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	params := make([]procParam, 0, len(paramItems))
	for _, p := range paramItems {
		sub, err := p.List()
		if err == nil && len(sub) == 2 {
			params = append(params, procParam{name: sub[0].String(), hasDef: true, def: sub[1]})
			continue
		}
		pname := p.String()
		if pname == "args" {
			params = append(params, procParam{name: pname, isArgs: true})
			continue
		}
		params = append(params, procParam{name: pname})
	}
	proc := &Procedure{Name: name, Params: params, Body: args[2]}
	i.registerNative(name, func(ii *InternalInterp, callArgs []*Obj) FeatherResult {
		return ii.callProc(proc, callArgs)
	})
	i.SetResultString("")
	return ResultOK
}

// cmdEval implements `eval arg ?arg ...?`, concatenating its arguments into
// a single script exactly as TCL's eval does.
func cmdEval(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) == 0 {
		i.SetResultString("")
		return ResultOK
	}
	if len(args) == 1 {
		return i.evalScriptObj(args[0])
	}
	var sb strings.Builder
	for j, a := range args {
		if j > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.String())
	}
	return i.evalScriptObj(NewStringObj(sb.String()))
}

// cmdExpr implements `expr arg ?arg ...?`.
func cmdExpr(i *InternalInterp, args []*Obj) FeatherResult {
	var sb strings.Builder
	for j, a := range args {
		if j > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.String())
	}
	result, err := i.evalExprString(sb.String())
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	i.SetResult(i.registerObj(result))
	return ResultOK
}

// cmdList implements `list ?arg ...?`.
func cmdList(i *InternalInterp, args []*Obj) FeatherResult {
	i.SetResult(i.registerObj(NewListObj(args...)))
	return ResultOK
}

// cmdLlength implements `llength list`.
func cmdLlength(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) != 1 {
		return wrongArgs(i, "llength list")
	}
	items, err := args[0].List()
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	i.SetResult(i.registerObj(NewIntObj(int64(len(items)))))
	return ResultOK
}

// cmdLindex implements `lindex list ?index?`.
func cmdLindex(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 {
		return wrongArgs(i, "lindex list ?index ...?")
	}
	items, err := args[0].List()
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	for _, idxArg := range args[1:] {
		idx, err := strconv.Atoi(idxArg.String())
		if err != nil || idx < 0 || idx >= len(items) {
			i.SetResultString("")
			return ResultOK
		}
		next, err := items[idx].List()
		if err == nil && idxArg != args[len(args)-1] {
			items = next
			continue
		}
		i.SetResult(i.registerObj(items[idx]))
		return ResultOK
	}
	i.SetResult(i.registerObj(NewListObj(items...)))
	return ResultOK
}

// cmdLappend implements `lappend varName ?value value ...?`.
func cmdLappend(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 {
		return wrongArgs(i, "lappend varName ?value ...?")
	}
	name := args[0].String()
	var items []*Obj
	if v, ok := i.resolveVarOrElem(name); ok {
		items, _ = v.List()
	}
	items = append(items, args[1:]...)
	result := NewListObj(items...)
	if err := i.setVarOrElem(name, result); err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	i.SetResult(i.registerObj(result))
	return ResultOK
}

// cmdConcat implements `concat ?arg ...?`.
func cmdConcat(i *InternalInterp, args []*Obj) FeatherResult {
	var items []*Obj
	for _, a := range args {
		elems, err := a.List()
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		items = append(items, elems...)
	}
	i.SetResult(i.registerObj(NewListObj(items...)))
	return ResultOK
}

// cmdSplit implements `split string ?splitChars?`.
func cmdSplit(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 || len(args) > 2 {
		return wrongArgs(i, "split string ?splitChars?")
	}
	s := args[0].String()
	chars := " \t\n"
	if len(args) == 2 {
		chars = args[1].String()
	}
	var parts []string
	if chars == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.FieldsFunc(s, func(r rune) bool { return strings.ContainsRune(chars, r) })
	}
	items := make([]*Obj, len(parts))
	for j, p := range parts {
		items[j] = NewStringObj(p)
	}
	i.SetResult(i.registerObj(NewListObj(items...)))
	return ResultOK
}

// cmdJoin implements `join list ?joinString?`.
func cmdJoin(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 || len(args) > 2 {
		return wrongArgs(i, "join list ?joinString?")
	}
	items, err := args[0].List()
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	sep := " "
	if len(args) == 2 {
		sep = args[1].String()
	}
	parts := make([]string, len(items))
	for j, it := range items {
		parts[j] = it.String()
	}
	i.SetResult(i.registerObj(NewStringObj(strings.Join(parts, sep))))
	return ResultOK
}

// cmdDict implements the "dict" ensemble: create, get, set, exists, keys,
// values, size, remove, merge.
func cmdDict(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 {
		return wrongArgs(i, "dict subcommand ?arg ...?")
	}
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "create":
		d := NewDictObj()
		for j := 0; j+1 < len(rest); j += 2 {
			ObjDictSet(d, rest[j].String(), rest[j+1])
		}
		i.SetResult(i.registerObj(d))
		return ResultOK
	case "get":
		if len(rest) < 1 {
			return wrongArgs(i, "dict get dictionary ?key ...?")
		}
		d, err := rest[0].Dict()
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		if len(rest) == 1 {
			flat, _ := d.IntoList()
			i.SetResult(i.registerObj(NewListObj(flat...)))
			return ResultOK
		}
		for _, k := range rest[1:] {
			v, ok := d.Items[k.String()]
			if !ok {
				i.SetErrorString(fmt.Sprintf("key %q not known in dictionary", k.String()))
				return ResultError
			}
			d2, derr := v.Dict()
			if derr == nil && k != rest[len(rest)-1] {
				d = d2
				continue
			}
			i.SetResult(i.registerObj(v))
			return ResultOK
		}
		return ResultOK
	case "set":
		if len(rest) < 3 {
			return wrongArgs(i, "dict set varName key ?key ...? value")
		}
		name := rest[0].String()
		d, ok := i.resolveVar(name)
		if !ok {
			d = NewDictObj()
		} else {
			existing, err := d.Dict()
			if err != nil {
				i.SetErrorString(err.Error())
				return ResultError
			}
			d = &Obj{intrep: existing}
		}
		keys := rest[1 : len(rest)-1]
		val := rest[len(rest)-1]
		if len(keys) != 1 {
			i.SetErrorString("dict set: nested keys not supported")
			return ResultError
		}
		ObjDictSet(d, keys[0].String(), val)
		if err := i.setVar(name, d); err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		i.SetResult(i.registerObj(d))
		return ResultOK
	case "exists":
		if len(rest) != 2 {
			return wrongArgs(i, "dict exists dictionary key")
		}
		d, err := rest[0].Dict()
		if err != nil {
			i.SetResult(i.registerObj(NewIntObj(0)))
			return ResultOK
		}
		_, ok := d.Items[rest[1].String()]
		if ok {
			i.SetResult(i.registerObj(NewIntObj(1)))
		} else {
			i.SetResult(i.registerObj(NewIntObj(0)))
		}
		return ResultOK
	case "keys":
		if len(rest) != 1 {
			return wrongArgs(i, "dict keys dictionary")
		}
		d, err := rest[0].Dict()
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		items := make([]*Obj, len(d.Order))
		for j, k := range d.Order {
			items[j] = NewStringObj(k)
		}
		i.SetResult(i.registerObj(NewListObj(items...)))
		return ResultOK
	case "values":
		if len(rest) != 1 {
			return wrongArgs(i, "dict values dictionary")
		}
		d, err := rest[0].Dict()
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		items := make([]*Obj, len(d.Order))
		for j, k := range d.Order {
			items[j] = d.Items[k]
		}
		i.SetResult(i.registerObj(NewListObj(items...)))
		return ResultOK
	case "size":
		if len(rest) != 1 {
			return wrongArgs(i, "dict size dictionary")
		}
		d, err := rest[0].Dict()
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		i.SetResult(i.registerObj(NewIntObj(int64(len(d.Order)))))
		return ResultOK
	case "remove":
		if len(rest) < 1 {
			return wrongArgs(i, "dict remove dictionary ?key ...?")
		}
		d, err := rest[0].Dict()
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		out := &DictType{Items: make(map[string]*Obj, len(d.Items)), Order: nil}
		removed := make(map[string]bool, len(rest)-1)
		for _, k := range rest[1:] {
			removed[k.String()] = true
		}
		for _, k := range d.Order {
			if removed[k] {
				continue
			}
			out.Items[k] = d.Items[k]
			out.Order = append(out.Order, k)
		}
		i.SetResult(i.registerObj(&Obj{intrep: out}))
		return ResultOK
	case "merge":
		out := &DictType{Items: make(map[string]*Obj)}
		for _, a := range rest {
			d, err := a.Dict()
			if err != nil {
				i.SetErrorString(err.Error())
				return ResultError
			}
			for _, k := range d.Order {
				if _, exists := out.Items[k]; !exists {
					out.Order = append(out.Order, k)
				}
				out.Items[k] = d.Items[k]
			}
		}
		i.SetResult(i.registerObj(&Obj{intrep: out}))
		return ResultOK
	default:
		i.SetErrorString(unknownSubcommand(sub, []string{"create", "exists", "get", "keys", "merge", "remove", "set", "size", "values"}))
		return ResultError
	}
}
