package feather

import (
	"fmt"
	"strings"
)

// This file implements the evaluator from spec.md §6: word substitution,
// command dispatch, and the five-valued completion-code protocol (OK,
// ERROR, RETURN, BREAK, CONTINUE, and OTHER(n) for `return -code n`).

// evalScript runs each command in sc in order, stopping at the first
// non-OK completion code exactly as a TCL script body does: BREAK and
// CONTINUE propagate out to the nearest loop, RETURN propagates out to the
// nearest proc call, and ERROR propagates until something catches it.
func (i *InternalInterp) evalScript(sc *script) FeatherResult {
	code := ResultOK
	for _, cmd := range sc.commands {
		code = i.evalCommand(cmd)
		if code != ResultOK {
			return code
		}
	}
	return code
}

// evalScriptObj evaluates the script cached on (or parsed from) obj, used
// by the "eval", "uplevel", and proc-body execution paths so a script run
// repeatedly is only parsed once.
func (i *InternalInterp) evalScriptObj(obj *Obj) FeatherResult {
	sc, err := compiledScript(obj)
	if err != nil {
		return i.raiseError(err)
	}
	return i.evalScript(sc)
}

// errPropagated marks an error already recorded in the interpreter result
// and trace (a failed [script] substitution), so raiseError must not start
// a fresh trace for it.
var errPropagated = &propagatedError{}

type propagatedError struct{}

func (*propagatedError) Error() string { return "propagated" }

// raiseError sets the interpreter result to err's message and returns
// ResultError. A fresh error starts its trace with the message itself; an
// errPropagated keeps the trace already accumulated by the inner script.
func (i *InternalInterp) raiseError(err error) FeatherResult {
	if err != errPropagated {
		i.SetErrorString(err.Error())
	}
	return ResultError
}

// maxTraceCommand bounds how much of a command's source text is quoted in
// an error-trace context line.
const maxTraceCommand = 150

// addErrorContext appends one context line for cmd to the error trace: a
// "while executing" line the first time the error is seen, or an "invoked
// from within" line when it has just crossed a proc boundary. Frames in
// between add nothing, so each boundary contributes at most one line.
func (i *InternalInterp) addErrorContext(cmd *command) {
	src := cmd.source
	if len(src) > maxTraceCommand {
		src = src[:maxTraceCommand] + "..."
	}
	switch {
	case i.errorNew:
		i.errorInfo += "\n    while executing\n\"" + src + "\""
		i.errorNew = false
		i.errorLine = cmd.line
	case i.errorFromProc:
		i.errorInfo += "\n    invoked from within\n\"" + src + "\""
		i.errorFromProc = false
		i.errorLine = cmd.line
	}
}

// evalCommand substitutes every word of cmd, splicing {*}-expanded words
// into the argument list, then dispatches to the named command.
func (i *InternalInterp) evalCommand(cmd *command) FeatherResult {
	var args []*Obj
	for _, w := range cmd.words {
		if ew, ok := w.(expandWord); ok {
			inner, err := i.substWord(ew.inner)
			if err != nil {
				i.raiseError(err)
				i.addErrorContext(cmd)
				return ResultError
			}
			items, err := inner.List()
			if err != nil {
				i.raiseError(err)
				i.addErrorContext(cmd)
				return ResultError
			}
			args = append(args, items...)
			continue
		}
		o, err := i.substWord(w)
		if err != nil {
			i.raiseError(err)
			i.addErrorContext(cmd)
			return ResultError
		}
		args = append(args, o)
	}
	if len(args) == 0 {
		return ResultOK
	}
	name := args[0].String()
	code := i.invoke(name, args[1:])
	if code == ResultError {
		i.addErrorContext(cmd)
	}
	return code
}

// substWord resolves a single parsed word to its runtime value: a literal
// returns itself, a variable or array reference reads the variable store,
// a nested script (command substitution) is evaluated for its result, and a
// tokensWord concatenates its parts' string forms.
func (i *InternalInterp) substWord(w word) (*Obj, error) {
	switch w := w.(type) {
	case literalWord:
		return w.value, nil
	case varRefWord:
		obj, ok := i.resolveVar(w.name)
		if !ok {
			return nil, fmt.Errorf("%s", i.readVarError(w.name))
		}
		return obj, nil
	case arrayRefWord:
		idxObj, err := i.substWord(w.index)
		if err != nil {
			return nil, err
		}
		index := idxObj.String()
		obj, ok := i.getArrayElem(w.name, index)
		if !ok {
			return nil, fmt.Errorf("%s", i.readVarError(w.name+"("+index+")"))
		}
		return obj, nil
	case scriptWord:
		code := i.evalScript(w.script)
		if code == ResultError {
			return nil, errPropagated
		}
		return i.objForHandle(i.result), nil
	case tokensWord:
		var sb strings.Builder
		for _, p := range w.parts {
			po, err := i.substWord(p)
			if err != nil {
				return nil, err
			}
			sb.WriteString(po.String())
		}
		return NewStringObj(sb.String()), nil
	case stringWord:
		return NewStringObj(string(w)), nil
	case expandWord:
		return i.substWord(w.inner)
	default:
		return NewStringObj(""), nil
	}
}

// invoke looks up name in the global command table (falling back to the
// unknown-command handler) and calls it with args.
func (i *InternalInterp) invoke(name string, args []*Obj) FeatherResult {
	cmd, ok := i.Commands[name]
	if !ok {
		if i.unknownHandler != nil {
			return i.callHandles(i.unknownHandler, name, args)
		}
		i.SetErrorString(fmt.Sprintf("invalid command name %q", name))
		return ResultError
	}
	return i.callHandles(cmd.Fn, name, args)
}

// callHandles registers name and args as handles and invokes fn, the
// boundary between the *Obj-based evaluator and the handle-based command
// signature shared with the foreign-object machinery.
func (i *InternalInterp) callHandles(fn InternalCommandFunc, name string, args []*Obj) FeatherResult {
	cmdHandle := i.registerObj(NewStringObj(name))
	argHandles := make([]FeatherObj, len(args))
	for j, a := range args {
		argHandles[j] = i.registerObj(a)
	}
	return fn(i, cmdHandle, argHandles)
}

// callProc invokes a user-defined procedure with positional argument
// binding (including a trailing "args" catch-all and parameter defaults),
// running its body in a fresh call frame.
func (i *InternalInterp) callProc(proc *Procedure, args []*Obj) FeatherResult {
	if err := i.pushFrame(proc); err != nil {
		i.SetErrorString(err.Error())
		return ResultError
	}
	defer i.popFrame()

	frame := i.currentFrame()
	argi := 0
	for _, p := range proc.Params {
		if p.isArgs {
			rest := args[argi:]
			frame.vars[p.name] = NewListObj(rest...)
			argi = len(args)
			continue
		}
		if argi < len(args) {
			frame.vars[p.name] = args[argi]
			argi++
			continue
		}
		if p.hasDef {
			frame.vars[p.name] = p.def
			continue
		}
		i.SetErrorString(fmt.Sprintf("wrong # args: should be \"%s %s\"", proc.Name, procUsage(proc.Params)))
		return ResultError
	}
	if argi < len(args) {
		i.SetErrorString(fmt.Sprintf("wrong # args: should be \"%s %s\"", proc.Name, procUsage(proc.Params)))
		return ResultError
	}

	code := i.evalScriptObj(proc.Body)
	switch code {
	case ResultError:
		i.errorInfo += fmt.Sprintf("\n    (procedure %q line %d)", proc.Name, i.errorLine)
		i.errorFromProc = true
		return ResultError
	case ResultReturn:
		return i.unwindReturn()
	case ResultBreak, ResultContinue:
		i.SetErrorString(fmt.Sprintf("invoked %q outside of a loop", map[FeatherResult]string{ResultBreak: "break", ResultContinue: "continue"}[code]))
		return ResultError
	default:
		return code
	}
}

// procUsage renders a procedure's formal parameters for a "wrong # args"
// error message.
func procUsage(params []procParam) string {
	parts := make([]string, len(params))
	for j, p := range params {
		switch {
		case p.isArgs:
			parts[j] = "args"
		case p.hasDef:
			parts[j] = "?" + p.name + "?"
		default:
			parts[j] = p.name
		}
	}
	return strings.Join(parts, " ")
}
