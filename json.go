package feather

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// This file implements the "json" ensemble bridging JSON documents to
// dict/list values, per spec.md's JSON bridge supplement. Decoding walks a
// gjson.Result tree into nested DictType/ListType objects; encoding walks an
// Obj tree the other way, building the document with sjson so the result
// always round-trips through a real JSON library rather than hand-rolled
// string concatenation.

func registerJSONCommands(i *InternalInterp) {
	i.registerNative("json", cmdJSON)
}

func cmdJSON(i *InternalInterp, args []*Obj) FeatherResult {
	if len(args) < 1 {
		return wrongArgs(i, "json subcommand ?arg ...?")
	}
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "decode":
		if len(rest) != 1 {
			return wrongArgs(i, "json decode jsonValue")
		}
		text := rest[0].String()
		if !gjson.Valid(text) {
			i.SetErrorString(fmt.Sprintf("invalid JSON value: %q", text))
			return ResultError
		}
		obj := jsonToObj(gjson.Parse(text))
		i.SetResult(i.registerObj(obj))
		return ResultOK
	case "encode":
		if len(rest) != 1 {
			return wrongArgs(i, "json encode value")
		}
		out, err := objToJSON(rest[0])
		if err != nil {
			i.SetErrorString(err.Error())
			return ResultError
		}
		i.SetResult(i.registerObj(NewStringObj(out)))
		return ResultOK
	case "type":
		if len(rest) != 1 {
			return wrongArgs(i, "json type jsonValue")
		}
		text := rest[0].String()
		if !gjson.Valid(text) {
			i.SetErrorString(fmt.Sprintf("invalid JSON value: %q", text))
			return ResultError
		}
		i.SetResult(i.registerObj(NewStringObj(jsonTypeName(gjson.Parse(text)))))
		return ResultOK
	default:
		i.SetErrorString(unknownSubcommand(sub, []string{"decode", "encode", "type"}))
		return ResultError
	}
}

// jsonTypeName reports the JSON type name of r. gjson folds objects and
// arrays into a single Type value (gjson.JSON), so IsObject/IsArray must be
// checked ahead of the scalar Type switch.
func jsonTypeName(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		return "unknown"
	}
}

// jsonToObj converts a gjson result into the feather value that best fits
// its shape: JSON objects become dicts, arrays become lists, and scalars
// become ints, doubles, or strings.
func jsonToObj(r gjson.Result) *Obj {
	switch {
	case r.IsObject():
		d := NewDictObj()
		r.ForEach(func(key, value gjson.Result) bool {
			ObjDictSet(d, key.String(), jsonToObj(value))
			return true
		})
		return d
	case r.IsArray():
		var items []*Obj
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, jsonToObj(value))
			return true
		})
		return NewListObj(items...)
	case r.Type == gjson.Number:
		if r.Num == float64(int64(r.Num)) && !strings.ContainsAny(r.Raw, ".eE") {
			return NewIntObj(int64(r.Num))
		}
		return NewDoubleObj(r.Num)
	case r.Type == gjson.True:
		return NewIntObj(1)
	case r.Type == gjson.False:
		return NewIntObj(0)
	case r.Type == gjson.Null:
		return NewStringObj("")
	default:
		return NewStringObj(r.String())
	}
}

// objToJSON serializes obj as a JSON document. A dict intrep becomes a
// JSON object, a list intrep becomes a JSON array, an int/double intrep
// becomes a JSON number, and anything else is treated as a string.
func objToJSON(obj *Obj) (string, error) {
	switch v := obj.intrep.(type) {
	case *DictType:
		doc := "{}"
		var err error
		for _, k := range v.Order {
			child, cerr := objToJSON(v.Items[k])
			if cerr != nil {
				return "", cerr
			}
			doc, err = sjson.SetRaw(doc, jsonPathKey(k), child)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case ListType:
		doc := "[]"
		var err error
		for idx, item := range v {
			child, cerr := objToJSON(item)
			if cerr != nil {
				return "", cerr
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(idx), child)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case IntType:
		return strconv.FormatInt(int64(v), 10), nil
	case DoubleType:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	default:
		s := obj.String()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(n, 10), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && s != "" {
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
		out, err := sjson.Set("", "x", s)
		if err != nil {
			return "", err
		}
		return gjson.Get(out, "x").Raw, nil
	}
}

// jsonPathKey escapes a dict key for use as an sjson path segment, since
// keys containing '.' or '*' would otherwise be read back as nested paths.
func jsonPathKey(k string) string {
	if strings.ContainsAny(k, ".*?") {
		return strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(k)
	}
	return k
}
