package feather

import (
	"fmt"
	"strconv"
)

// This file implements the `return` exception protocol from spec.md §6:
// `return ?-code code? ?-level level? ?value?` unwinds `level` enclosing
// proc frames before taking effect. Each intervening proc boundary (in
// eval.go's callProc) decrements the pending level by one; the frame where
// it reaches zero applies the requested completion code, and every frame in
// between simply re-raises ResultReturn to keep unwinding.

// codeNameToResult maps a `-code` name to its completion code.
func codeNameToResult(name string) (FeatherResult, bool) {
	switch name {
	case "ok":
		return ResultOK, true
	case "error":
		return ResultError, true
	case "return":
		return ResultReturn, true
	case "break":
		return ResultBreak, true
	case "continue":
		return ResultContinue, true
	default:
		return 0, false
	}
}

// parseReturnCode resolves a `-code` argument, which may be one of the five
// named codes, their integer values 0-4, or any other integer (an "OTHER"
// completion).
func parseReturnCode(s string) (FeatherResult, error) {
	if code, ok := codeNameToResult(s); ok {
		return code, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad completion code %q: must be ok, error, return, break, continue, or an integer", s)
	}
	if n >= 0 && n <= int(ResultContinue) {
		return FeatherResult(n), nil
	}
	return ResultOther(n), nil
}

// resultCodeInt maps a completion code to the integer catch reports: the
// named codes are 0-4 and an OTHER completion is its own number.
func resultCodeInt(code FeatherResult) int64 {
	if n, ok := IsOtherResult(code); ok {
		return int64(n)
	}
	return int64(code)
}

// cmdReturn implements the "return" command.
func cmdReturn(i *InternalInterp, args []*Obj) FeatherResult {
	level := 1
	code := ResultOK
	var value *Obj
	var errorCode *Obj

	j := 0
	for j < len(args) {
		opt := args[j].String()
		switch opt {
		case "-code":
			if j+1 >= len(args) {
				i.SetErrorString("missing value for -code")
				return ResultError
			}
			c, err := parseReturnCode(args[j+1].String())
			if err != nil {
				i.SetErrorString(err.Error())
				return ResultError
			}
			code = c
			j += 2
		case "-level":
			if j+1 >= len(args) {
				i.SetErrorString("missing value for -level")
				return ResultError
			}
			n, err := strconv.Atoi(args[j+1].String())
			if err != nil || n < 0 {
				i.SetErrorString(fmt.Sprintf("bad -level value %q: must be a non-negative integer", args[j+1].String()))
				return ResultError
			}
			level = n
			j += 2
		case "-errorinfo":
			if j+1 >= len(args) {
				i.SetErrorString("missing value for -errorinfo")
				return ResultError
			}
			i.returnErrorInfo = args[j+1].String()
			j += 2
		case "-errorcode":
			if j+1 >= len(args) {
				i.SetErrorString("missing value for -errorcode")
				return ResultError
			}
			errorCode = args[j+1]
			j += 2
		default:
			goto doneOptions
		}
	}
doneOptions:
	if j < len(args) {
		value = args[j]
		j++
	}
	if j != len(args) {
		i.SetErrorString("wrong # args: should be \"return ?-code code? ?-level level? ?value?\"")
		return ResultError
	}
	if value == nil {
		value = NewStringObj("")
	}

	if level == 0 {
		// Takes effect immediately in the current scope; no unwinding.
		if code == ResultError {
			i.SetError(i.registerObj(value))
			i.applyReturnErrorOptions(errorCode)
		} else {
			i.SetResult(i.registerObj(value))
		}
		return code
	}

	i.SetResult(i.registerObj(value))
	i.returnLevel = level
	i.returnCode = code
	i.returnErrorCode = errorCode
	return ResultReturn
}

// applyReturnErrorOptions overlays a caller-supplied -errorinfo/-errorcode
// on the fresh trace SetError just started. A supplied -errorinfo marks the
// error as a rethrow of an existing one, so no new "while executing"
// context is added for it.
func (i *InternalInterp) applyReturnErrorOptions(errorCode *Obj) {
	if i.returnErrorInfo != "" {
		i.errorInfo = i.returnErrorInfo
		i.errorNew = false
	}
	i.returnErrorInfo = ""
	if errorCode != nil {
		i.errorCode = errorCode
	}
}

// unwindReturn is called by callProc when a proc body completes with
// ResultReturn: it decrements the pending level and either applies the
// stored completion code (level reached zero) or keeps propagating.
func (i *InternalInterp) unwindReturn() FeatherResult {
	i.returnLevel--
	if i.returnLevel > 0 {
		return ResultReturn
	}
	code := i.returnCode
	if code == ResultOK {
		return ResultOK
	}
	if code == ResultError {
		i.SetError(i.result)
		i.applyReturnErrorOptions(i.returnErrorCode)
		i.returnErrorCode = nil
	}
	return code
}

// catchEval evaluates body, converting any completion code into a return
// value and storing the interpreter's result, used by the "catch" command.
func (i *InternalInterp) catchEval(body *Obj) (FeatherResult, *Obj) {
	code := i.evalScriptObj(body)
	return code, i.objForHandle(i.result)
}
