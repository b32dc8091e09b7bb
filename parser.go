package feather

// This file implements the script parser described in spec.md §4.2: source
// text is compiled into a Script, an ordered sequence of commands each
// composed of words. See tokenizer.go for the character-level cursor and
// backslash decoding this parser builds on.

// parseError is a parse-time failure. incomplete marks errors that arise
// only because the input ended before a closing delimiter was found — the
// four "missing ..." messages — which feather.Parse reports as
// ParseIncomplete rather than ParseError so REPLs can prompt for more input.
type parseError struct {
	msg        string
	incomplete bool
}

func (e *parseError) Error() string { return e.msg }

func errIncomplete(msg string) error { return &parseError{msg: msg, incomplete: true} }
func errSyntax(msg string) error     { return &parseError{msg: msg} }

// script is the compiled form of a block of source text: an ordered
// sequence of commands.
type script struct {
	commands []*command
}

// command is an ordered sequence of words; word[0] names the callable.
// source and line record where the command sits in its enclosing script
// text, for the "while executing" / "(procedure ... line N)" lines the
// evaluator appends to the error trace.
type command struct {
	words  []word
	source string
	line   int
}

// word is the tagged union from spec.md §3: a literal value, a variable
// reference, an array-element reference, a nested script, a concatenated
// run of parts, an expansion marker, or (inside a tokensWord) a raw string
// fragment.
type word interface{ isWord() }

type literalWord struct{ value *Obj }
type varRefWord struct{ name string }
type arrayRefWord struct {
	name  string
	index word
}
type scriptWord struct{ script *script }
type tokensWord struct{ parts []word }
type expandWord struct{ inner word }
type stringWord string

func (literalWord) isWord()  {}
func (varRefWord) isWord()   {}
func (arrayRefWord) isWord() {}
func (scriptWord) isWord()   {}
func (tokensWord) isWord()   {}
func (expandWord) isWord()   {}
func (stringWord) isWord()   {}

// scriptRep is the ObjType cached on a Value used as a script body (a
// procedure body, or the argument to eval/uplevel), per spec.md §9
// "Script caching inside Value": re-evaluating the same body does not
// reparse it.
type scriptRep struct {
	script *script
}

func (scriptRep) Name() string          { return "script" }
func (s scriptRep) UpdateString() string { return "" }
func (s scriptRep) Dup() ObjType        { return s }

// compiledScript returns the parsed script cached on obj, parsing and
// caching it on first use.
func compiledScript(obj *Obj) (*script, error) {
	if obj == nil {
		return &script{}, nil
	}
	if rep, ok := obj.intrep.(scriptRep); ok {
		return rep.script, nil
	}
	sc, err := parseScript(obj.String())
	if err != nil {
		return nil, err
	}
	obj.intrep = scriptRep{script: sc}
	return sc, nil
}

// parseScript compiles src into a Script, or returns a *parseError.
func parseScript(src string) (*script, error) {
	tk := newTokenizer(src)
	return parseScriptBody(tk, false)
}

// parseScriptBody parses commands until end of input, or (if bracket is
// true) until an unmatched ']' is reached — used for [command substitution].
func parseScriptBody(tk *tokenizer, bracket bool) (*script, error) {
	var cmds []*command
	for {
		tk.skipWhile(func(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == ';' })
		if tk.atEnd() {
			break
		}
		if bracket && tk.peek() == ']' {
			break
		}
		cmd, err := parseCommand(tk, bracket)
		if err != nil {
			return nil, err
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if tk.atEnd() {
			break
		}
		if bracket && tk.peek() == ']' {
			break
		}
	}
	return &script{commands: cmds}, nil
}

// parseCommand parses one command (possibly empty, e.g. a comment line),
// stopping at a command terminator (newline, semicolon), end of input, or
// (inside brackets) an unmatched ']'.
func parseCommand(tk *tokenizer, bracket bool) (*command, error) {
	tk.skipWhile(isSpaceOrTab)
	if tk.atEnd() {
		return nil, nil
	}
	if bracket && tk.peek() == ']' {
		return nil, nil
	}
	if tk.peek() == '#' {
		for !tk.atEnd() && tk.peek() != '\n' {
			if bracket && tk.peek() == ']' {
				break
			}
			tk.pos++
		}
		return nil, nil
	}

	start := tk.mark()
	line := 1 + countNewlines(tk.s[:start])
	var words []word
	for {
		tk.skipWhile(isSpaceOrTab)
		if tk.atEnd() {
			break
		}
		c := tk.peek()
		if c == '\n' || c == ';' {
			break
		}
		if bracket && c == ']' {
			break
		}
		w, err := parseOneWord(tk, bracket)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, nil
	}
	src := tk.sliceFrom(start)
	for len(src) > 0 && (src[len(src)-1] == ' ' || src[len(src)-1] == '\t') {
		src = src[:len(src)-1]
	}
	return &command{words: words, source: src, line: line}, nil
}

func countNewlines(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}

// parseOneWord parses a single word, first checking for the {*} expansion
// marker: a literal "{*}" immediately followed (no whitespace) by another
// word marks that word as spliced into the argument list at eval time.
func parseOneWord(tk *tokenizer, bracket bool) (word, error) {
	if tk.peek() == '{' && tk.peekAt(1) == '*' && tk.peekAt(2) == '}' {
		after := tk.pos + 3
		if after < len(tk.s) {
			nc := tk.s[after]
			if nc != ' ' && nc != '\t' && nc != '\n' && nc != ';' && !(bracket && nc == ']') {
				tk.pos += 3
				inner, err := parseWord(tk, bracket)
				if err != nil {
					return nil, err
				}
				return expandWord{inner: inner}, nil
			}
		}
	}
	return parseWord(tk, bracket)
}

func parseWord(tk *tokenizer, bracket bool) (word, error) {
	switch tk.peek() {
	case '{':
		w, err := parseBracedWord(tk)
		if err != nil {
			return nil, err
		}
		if !atWordBoundary(tk, bracket) {
			return nil, errSyntax("extra characters after close-brace")
		}
		return w, nil
	case '"':
		return parseQuotedWord(tk, bracket)
	default:
		return parseBareWord(tk, bracket)
	}
}

// atWordBoundary reports whether the cursor sits at a legal word
// terminator: whitespace, a command terminator, end of input, or (inside
// brackets) an unmatched ']'.
func atWordBoundary(tk *tokenizer, bracket bool) bool {
	if tk.atEnd() {
		return true
	}
	c := tk.peek()
	if c == ' ' || c == '\t' || c == '\n' || c == ';' {
		return true
	}
	if bracket && c == ']' {
		return true
	}
	return false
}

// parseBracedWord parses a {...} word: braces nest, and no substitution is
// performed except that a backslash-newline becomes a single space (spec
// §9(c); grounded on original_source's parse_braced_word). A backslash and
// the character after it are kept verbatim, so an escaped brace does not
// count toward nesting.
func parseBracedWord(tk *tokenizer) (word, error) {
	tk.advance() // consume '{'
	depth := 1
	var out []byte
	for {
		if tk.atEnd() {
			return nil, errIncomplete("missing close-brace")
		}
		c := tk.peek()
		switch c {
		case '\\':
			tk.advance()
			if !tk.atEnd() && tk.peek() == '\n' {
				tk.advance()
				out = append(out, ' ')
				continue
			}
			out = append(out, '\\')
			if !tk.atEnd() {
				out = append(out, tk.advance())
			}
		case '{':
			tk.advance()
			depth++
			out = append(out, '{')
		case '}':
			tk.advance()
			depth--
			if depth == 0 {
				return literalWord{value: NewStringObj(string(out))}, nil
			}
			out = append(out, '}')
		default:
			out = append(out, tk.advance())
		}
	}
}

// parseQuotedWord parses a "..." word with full backslash/$/[ substitution.
func parseQuotedWord(tk *tokenizer, bracket bool) (word, error) {
	tk.advance() // consume opening '"'
	w, err := parseSubstRun(tk, bracket, func(t *tokenizer) bool { return t.peek() == '"' })
	if err != nil {
		return nil, err
	}
	if tk.atEnd() || tk.peek() != '"' {
		return nil, errIncomplete(`missing "`)
	}
	tk.advance() // consume closing '"'
	if !atWordBoundary(tk, bracket) {
		return nil, errSyntax("extra characters after close-quote")
	}
	return w, nil
}

// parseBareWord parses an unquoted, unbraced word with full substitution,
// ending at whitespace, a command terminator, or (inside brackets) ']'.
func parseBareWord(tk *tokenizer, bracket bool) (word, error) {
	return parseSubstRun(tk, bracket, func(t *tokenizer) bool {
		c := t.peek()
		return c == ' ' || c == '\t' || c == '\n' || c == ';' || (bracket && c == ']')
	})
}

// parseSubstRun scans characters until stop reports true (or input ends),
// honoring backslash, $, and [ substitutions, and collapses the resulting
// parts per spec §4.2: a single literal run becomes a literalWord; a
// single substitution becomes that word directly; otherwise the parts are
// wrapped in a tokensWord to be concatenated at eval time.
func parseSubstRun(tk *tokenizer, bracket bool, stop func(*tokenizer) bool) (word, error) {
	var parts []word
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			parts = append(parts, stringWord(lit))
			lit = nil
		}
	}
	for !tk.atEnd() && !stop(tk) {
		switch tk.peek() {
		case '\\':
			lit = append(lit, tk.backslashSubst()...)
		case '$':
			flush()
			w, err := parseDollar(tk)
			if err != nil {
				return nil, err
			}
			parts = append(parts, w)
		case '[':
			flush()
			w, err := parseBracketSub(tk)
			if err != nil {
				return nil, err
			}
			parts = append(parts, w)
		default:
			lit = append(lit, tk.advance())
		}
	}
	flush()
	return collapseParts(parts), nil
}

func collapseParts(parts []word) word {
	switch len(parts) {
	case 0:
		return literalWord{value: NewStringObj("")}
	case 1:
		if sw, ok := parts[0].(stringWord); ok {
			return literalWord{value: NewStringObj(string(sw))}
		}
		return parts[0]
	default:
		return tokensWord{parts: parts}
	}
}

// parseDollar parses a $ substitution: $name, $name(index), ${name}, or
// ${name(index)} (index taken as a literal inside braces — the
// braced-vs-unbraced array-index asymmetry from original_source).
func parseDollar(tk *tokenizer) (word, error) {
	tk.advance() // consume '$'
	if tk.atEnd() {
		return literalWord{value: NewStringObj("$")}, nil
	}
	if tk.peek() == '{' {
		tk.advance()
		start := tk.pos
		for !tk.atEnd() && tk.peek() != '}' {
			tk.pos++
		}
		if tk.atEnd() {
			return nil, errIncomplete("missing close-brace for variable name")
		}
		raw := tk.s[start:tk.pos]
		tk.advance() // consume '}'
		return splitVarNameLiteral(raw), nil
	}
	if !isNameChar(tk.peek()) {
		return literalWord{value: NewStringObj("$")}, nil
	}
	start := tk.pos
	tk.skipWhile(isNameChar)
	name := tk.s[start:tk.pos]
	if !tk.atEnd() && tk.peek() == '(' {
		tk.advance()
		idx, err := parseSubstRun(tk, false, func(t *tokenizer) bool { return t.peek() == ')' })
		if err != nil {
			return nil, err
		}
		if tk.atEnd() || tk.peek() != ')' {
			return nil, errIncomplete("missing close-bracket")
		}
		tk.advance()
		return arrayRefWord{name: name, index: idx}, nil
	}
	return varRefWord{name: name}, nil
}

// splitVarNameLiteral implements parse_varname_literal: a braced variable
// name ending in ")" with an earlier "(" names an array element whose
// index is the literal text between the parens; anything else names a
// scalar (the whole raw text, including any literal parens that don't fit
// that pattern).
func splitVarNameLiteral(raw string) word {
	if len(raw) > 0 && raw[len(raw)-1] == ')' {
		if idx := indexByte(raw, '('); idx >= 0 {
			base := raw[:idx]
			index := raw[idx+1 : len(raw)-1]
			return arrayRefWord{name: base, index: literalWord{value: NewStringObj(index)}}
		}
	}
	return varRefWord{name: raw}
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// parseBracketSub parses a [script] command substitution.
func parseBracketSub(tk *tokenizer) (word, error) {
	tk.advance() // consume '['
	sub, err := parseScriptBody(tk, true)
	if err != nil {
		return nil, err
	}
	if tk.atEnd() || tk.peek() != ']' {
		return nil, errIncomplete("missing close-bracket")
	}
	tk.advance() // consume ']'
	return scriptWord{script: sub}, nil
}
