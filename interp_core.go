package feather

import (
	"fmt"
	"sort"
)

// FeatherObj is an opaque handle to an [Obj] owned by an [InternalInterp].
// Handles give command implementations and the foreign-object machinery a
// stable, comparable identity for a value without exposing the pointer
// directly — the same role the object table played in feather's original
// embedding layer, now backed by a plain Go map instead of the C runtime.
type FeatherObj int

// FeatherResult is the five-valued completion code from spec.md §6: a
// command either succeeds, fails, or signals one of the three loop/proc
// control-flow conditions. Values from resultOtherBase up are the "OTHER"
// codes from `return -code <n>`, carrying n as FeatherResult - resultOtherBase.
type FeatherResult int

const (
	ResultOK FeatherResult = iota
	ResultError
	ResultReturn
	ResultBreak
	ResultContinue
	resultOtherBase
)

// ResultOther returns the completion code for `return -code n`.
func ResultOther(n int) FeatherResult { return resultOtherBase + FeatherResult(n) }

// IsOtherResult reports whether code is a `return -code n` completion with n
// outside the five named codes, and if so returns n.
func IsOtherResult(code FeatherResult) (int, bool) {
	if code < resultOtherBase {
		return 0, false
	}
	return int(code - resultOtherBase), true
}

// InternalCommandFunc is the handle-based command signature the evaluator
// dispatches to. The public package wraps this with *Obj-based adapters in
// [Interp.RegisterCommand] and [Interp.Register].
type InternalCommandFunc func(i *InternalInterp, cmd FeatherObj, args []FeatherObj) FeatherResult

// Command is a single entry in the command table: a name bound to an
// implementation function.
type Command struct {
	Name string
	Fn   InternalCommandFunc
}

// Namespace holds a set of commands. Only the global namespace is used at
// present; the type exists so procs and ensembles have somewhere to live
// that can grow namespace-qualified names later without reshaping callers.
type Namespace struct {
	name     string
	commands map[string]*Command
	parent   *Namespace
}

func newNamespace(name string, parent *Namespace) *Namespace {
	return &Namespace{name: name, commands: make(map[string]*Command), parent: parent}
}

// varLink is a single upvar-style hop: a variable name in one frame aliases
// a variable name in another.
type varLink struct {
	frame *CallFrame
	name  string
}

// CallFrame is one level of the proc call stack: a set of local scalars and
// arrays, plus any upvar links into other frames.
type CallFrame struct {
	vars   map[string]*Obj
	arrays map[string]*DictType
	links  map[string]*varLink
	parent *CallFrame
	proc   *Procedure
}

func newCallFrame(parent *CallFrame, proc *Procedure) *CallFrame {
	return &CallFrame{
		vars:   make(map[string]*Obj),
		arrays: make(map[string]*DictType),
		links:  make(map[string]*varLink),
		parent: parent,
		proc:   proc,
	}
}

// procParam is one formal parameter of a Procedure: a name, an optional
// default value, and whether it is the trailing "args" catch-all.
type procParam struct {
	name   string
	hasDef bool
	def    *Obj
	isArgs bool
}

// Procedure is a user-defined command created by the "proc" command. The
// body is cached as a [scriptRep] the first time it is evaluated so a proc
// called in a loop is only parsed once.
type Procedure struct {
	Name   string
	Params []procParam
	Body   *Obj
}

// DefaultRecursionLimit bounds proc call depth, matching TCL's default
// interp recursionlimit.
const DefaultRecursionLimit = 1000

// InternalInterp is the pure-Go evaluation engine behind [Interp]. Most
// programs should use [Interp]; InternalInterp is exposed via
// [Interp.Internal] for code that needs handle-level access, such as the
// foreign-object machinery in interp_foreign.go.
type InternalInterp struct {
	objects    map[FeatherObj]*Obj
	nextHandle FeatherObj

	Commands        map[string]*Command
	globalNamespace *Namespace
	ForeignRegistry *ForeignRegistry

	frames         []*CallFrame
	recursionLimit int

	unknownHandler InternalCommandFunc

	result        FeatherObj
	resultIsError bool
	errorCode     *Obj

	// errorInfo is the human-readable stack trace accumulated while an
	// error propagates. errorNew marks an error that has not yet had a
	// "while executing" context line attached; errorFromProc marks one
	// that just crossed a proc boundary, so the calling command adds an
	// "invoked from within" line instead. errorLine is the source line of
	// the command the error arose in, reported by the enclosing proc's
	// "(procedure ... line N)" context line.
	errorInfo     string
	errorNew      bool
	errorFromProc bool
	errorLine     int

	// returnLevel/returnCode carry the pending -level/-code of a "return"
	// completion as it unwinds through callProc frames; returnErrorInfo
	// holds a caller-supplied -errorinfo to apply if the completion lands
	// as an error. See exception.go.
	returnLevel     int
	returnCode      FeatherResult
	returnErrorInfo string
	returnErrorCode *Obj
}

// NewInternalInterp creates an interpreter with the bootstrap command set
// registered (see commands.go, callExprFunc in expr.go for the math
// functions, and the json bridge in json.go).
func NewInternalInterp() *InternalInterp {
	i := &InternalInterp{
		objects:        make(map[FeatherObj]*Obj),
		Commands:       make(map[string]*Command),
		recursionLimit: DefaultRecursionLimit,
	}
	i.globalNamespace = newNamespace("", nil)
	i.frames = []*CallFrame{newCallFrame(nil, nil)}
	i.result = i.registerObj(NewStringObj(""))
	registerBuiltinCommands(i)
	return i
}

// Close releases the interpreter's object table. An interpreter and its
// *Obj values must not be used after Close.
func (i *InternalInterp) Close() {
	i.objects = nil
}

// SetRecursionLimit changes the maximum proc call depth.
func (i *InternalInterp) SetRecursionLimit(n int) {
	if n > 0 {
		i.recursionLimit = n
	}
}

func (i *InternalInterp) getRecursionLimit() int { return i.recursionLimit }

// registerObj adopts obj into the object table and returns its handle.
func (i *InternalInterp) registerObj(obj *Obj) FeatherObj {
	if obj == nil {
		obj = NewStringObj("")
	}
	i.nextHandle++
	h := i.nextHandle
	obj.interp = i
	i.objects[h] = obj
	return h
}

// getObject returns the *Obj behind h, or nil if h is not (or no longer) a
// live handle.
func (i *InternalInterp) getObject(h FeatherObj) *Obj {
	if i.objects == nil {
		return nil
	}
	return i.objects[h]
}

// handleForObj registers obj and returns its handle, or the zero handle for
// a nil obj.
func (i *InternalInterp) handleForObj(obj *Obj) FeatherObj {
	if obj == nil {
		return 0
	}
	return i.registerObj(obj)
}

// objForHandle returns the *Obj behind h, substituting an empty string
// object for an invalid or expired handle.
func (i *InternalInterp) objForHandle(h FeatherObj) *Obj {
	if o := i.getObject(h); o != nil {
		return o
	}
	return NewStringObj("")
}

// internString registers a freshly created string object and returns its
// handle.
func (i *InternalInterp) internString(s string) FeatherObj {
	return i.registerObj(NewStringObj(s))
}

// InternString is the exported form of internString, used by
// [Interp.ParseList] and [Interp.ParseDict] to hand a raw string into the
// handle-based shimmering helpers below.
func (i *InternalInterp) InternString(s string) FeatherObj {
	return i.internString(s)
}

// GetString returns the string representation of the object behind h.
func (i *InternalInterp) GetString(h FeatherObj) string {
	return i.objForHandle(h).String()
}

// GetInt shimmers the object behind h to an integer.
func (i *InternalInterp) GetInt(h FeatherObj) (int64, error) {
	return asInt(i.objForHandle(h))
}

// GetDouble shimmers the object behind h to a float64.
func (i *InternalInterp) GetDouble(h FeatherObj) (float64, error) {
	return asDouble(i.objForHandle(h))
}

// GetBool shimmers the object behind h to a boolean using TCL truthiness rules.
func (i *InternalInterp) GetBool(h FeatherObj) (bool, error) {
	return asBool(i.objForHandle(h))
}

// GetList shimmers the object behind h to a list, returning a fresh handle
// per element.
func (i *InternalInterp) GetList(h FeatherObj) ([]FeatherObj, error) {
	items, err := i.objForHandle(h).List()
	if err != nil {
		return nil, err
	}
	handles := make([]FeatherObj, len(items))
	for j, it := range items {
		handles[j] = i.registerObj(it)
	}
	return handles, nil
}

// GetDict shimmers the object behind h to a dict, returning a fresh handle
// per value and preserving insertion order.
func (i *InternalInterp) GetDict(h FeatherObj) (map[string]FeatherObj, []string, error) {
	d, err := i.objForHandle(h).Dict()
	if err != nil {
		return nil, nil, err
	}
	items := make(map[string]FeatherObj, len(d.Items))
	for k, v := range d.Items {
		items[k] = i.registerObj(v)
	}
	return items, d.Order, nil
}

// IsNativeList reports whether the object behind h already has a list
// internal representation (no shimmering performed).
func (i *InternalInterp) IsNativeList(h FeatherObj) bool {
	_, ok := i.objForHandle(h).intrep.(ListType)
	return ok
}

// IsNativeDict reports whether the object behind h already has a dict
// internal representation (no shimmering performed).
func (i *InternalInterp) IsNativeDict(h FeatherObj) bool {
	_, ok := i.objForHandle(h).intrep.(*DictType)
	return ok
}

// IsForeignHandle reports whether h names a live foreign object.
func (i *InternalInterp) IsForeignHandle(h FeatherObj) bool {
	_, ok := i.objForHandle(h).intrep.(*ForeignType)
	return ok
}

// getForeignType returns the registered type name of the foreign object
// behind h, or "" if h is not a foreign object.
func (i *InternalInterp) getForeignType(h FeatherObj) string {
	if f, ok := i.objForHandle(h).intrep.(*ForeignType); ok {
		return f.TypeName
	}
	return ""
}

// getForeignValue returns the wrapped Go value of the foreign object behind
// h, or nil if h is not a foreign object.
func (i *InternalInterp) getForeignValue(h FeatherObj) any {
	if f, ok := i.objForHandle(h).intrep.(*ForeignType); ok {
		return f.Value
	}
	return nil
}

// SetResult sets the interpreter result to the object behind h.
func (i *InternalInterp) SetResult(h FeatherObj) {
	i.result = h
	i.resultIsError = false
}

// SetResultString sets the interpreter result to a fresh string object.
func (i *InternalInterp) SetResultString(s string) {
	i.result = i.registerObj(NewStringObj(s))
	i.resultIsError = false
}

// SetError sets the interpreter result to the object behind h and marks the
// current command as having failed, starting a fresh error trace whose
// first line is the message itself.
func (i *InternalInterp) SetError(h FeatherObj) {
	i.result = h
	i.resultIsError = true
	i.errorInfo = i.objForHandle(h).String()
	i.errorNew = true
	i.errorFromProc = false
	i.errorCode = nil
}

// SetErrorString sets the interpreter result to a fresh string object and
// marks the current command as having failed, starting a fresh error trace.
func (i *InternalInterp) SetErrorString(s string) {
	i.result = i.registerObj(NewStringObj(s))
	i.resultIsError = true
	i.errorInfo = s
	i.errorNew = true
	i.errorFromProc = false
	i.errorCode = nil
}

// ResultHandle returns the handle of the current interpreter result.
func (i *InternalInterp) ResultHandle() FeatherObj {
	return i.result
}

// Register binds name to fn in the global command table.
func (i *InternalInterp) Register(name string, fn InternalCommandFunc) {
	cmd := &Command{Name: name, Fn: fn}
	i.Commands[name] = cmd
	i.globalNamespace.commands[name] = cmd
}

// SetUnknownHandler installs a fallback invoked when a command name has no
// registered implementation. Pass nil to restore the default "invalid
// command name" error.
func (i *InternalInterp) SetUnknownHandler(fn InternalCommandFunc) {
	i.unknownHandler = fn
}

// CommandNames returns the names of every registered command, sorted.
func (i *InternalInterp) CommandNames() []string {
	names := make([]string, 0, len(i.Commands))
	for name := range i.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasCommand reports whether name is a registered command.
func (i *InternalInterp) HasCommand(name string) bool {
	_, ok := i.Commands[name]
	return ok
}

// currentFrame returns the innermost active call frame.
func (i *InternalInterp) currentFrame() *CallFrame {
	return i.frames[len(i.frames)-1]
}

// PushFrame enters a new call frame on behalf of the host, giving
// host-driven evaluations proc-local scoping without defining a procedure.
// Every PushFrame must be paired with a PopFrame.
func (i *InternalInterp) PushFrame() error {
	return i.pushFrame(nil)
}

// PopFrame leaves a host-pushed frame. The global frame is never popped.
func (i *InternalInterp) PopFrame() {
	if len(i.frames) > 1 {
		i.popFrame()
	}
}

// GetVarHandle looks up a scalar variable by name in the current frame and
// returns its handle, or 0 if unset.
func (i *InternalInterp) GetVarHandle(name string) FeatherObj {
	obj, ok := i.resolveVar(name)
	if !ok {
		return 0
	}
	return i.registerObj(obj)
}

// SetVar sets a scalar variable in the current frame to a fresh string
// object holding val.
func (i *InternalInterp) SetVar(name string, val string) {
	i.setVar(name, NewStringObj(val))
}

// EvalError is returned by [InternalInterp.Eval] when a script fails with
// an uncaught TCL error.
type EvalError struct {
	Message   string
	ErrorInfo string
}

func (e *EvalError) Error() string { return e.Message }

// Eval parses and evaluates script as a sequence of commands, returning the
// final completion code. The interpreter's result (see
// [InternalInterp.ResultHandle]) holds the value or error message.
func (i *InternalInterp) Eval(script string) (FeatherResult, error) {
	sc, err := parseScript(script)
	if err != nil {
		i.SetErrorString(err.Error())
		return ResultError, &EvalError{Message: err.Error()}
	}
	code := i.evalScript(sc)
	switch code {
	case ResultBreak, ResultContinue:
		word := "break"
		if code == ResultContinue {
			word = "continue"
		}
		i.SetErrorString(fmt.Sprintf("invoked %q outside of a loop", word))
		code = ResultError
	}
	if code == ResultError {
		msg := i.objForHandle(i.result).String()
		return code, &EvalError{Message: msg, ErrorInfo: i.errorInfo}
	}
	return code, nil
}

// internalParseStatus mirrors TCL's Tcl_CommandComplete/error distinction,
// backing the public ParseStatus enum in feather.go.
type internalParseStatus int

const (
	InternalParseOK internalParseStatus = iota
	InternalParseIncomplete
	InternalParseError
)

// internalParseResult is the InternalInterp-level parse outcome backing
// [Interp.Parse].
type internalParseResult struct {
	Status       internalParseStatus
	ErrorMessage string
}

// Parse reports whether script is a syntactically complete, valid command
// sequence.
func (i *InternalInterp) Parse(script string) internalParseResult {
	_, err := parseScript(script)
	if err == nil {
		return internalParseResult{Status: InternalParseOK}
	}
	if pe, ok := err.(*parseError); ok && pe.incomplete {
		return internalParseResult{Status: InternalParseIncomplete, ErrorMessage: pe.msg}
	}
	return internalParseResult{Status: InternalParseError, ErrorMessage: err.Error()}
}

// HostParseResult is returned by [InternalInterp.ParseInternal]; Result
// holds the script text that was passed in.
type HostParseResult struct {
	Result string
}

// ParseInternal returns script unchanged in HostParseResult.Result. It does
// not run the parser; [InternalInterp.Parse] gives the complete/incomplete
// verdict.
func (i *InternalInterp) ParseInternal(script string) HostParseResult {
	return HostParseResult{Result: script}
}
