package feather

import "testing"

func TestBackslashSubst(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		rest string // unconsumed input after the escape
	}{
		{"bell", `\a`, "\a", ""},
		{"backspace", `\b`, "\b", ""},
		{"formfeed", `\f`, "\f", ""},
		{"newline", `\n`, "\n", ""},
		{"carriage-return", `\r`, "\r", ""},
		{"tab", `\t`, "\t", ""},
		{"vertical-tab", `\v`, "\v", ""},
		{"escaped-newline", "\\\nx", " ", "x"},
		{"octal-one-digit", `\7`, "\x07", ""},
		{"octal-three-digits", `\101`, "A", ""},
		{"octal-stops-at-three", `\1011`, "A", "1"},
		{"octal-mod-256", `\777`, "ÿ", ""},
		{"hex-two-digits", `\x41`, "A", ""},
		{"hex-one-digit", `\xFzz`, "\x0f", "zz"},
		{"hex-no-digits", `\xzz`, "x", "zz"},
		{"unicode-four", `\u0041`, "A", ""},
		{"unicode-short", `\u41g`, "A", "g"},
		{"unicode-no-digits", `\uzz`, "u", "zz"},
		{"unicode-surrogate-backtracks", `\uD800`, "u", "D800"},
		{"big-unicode", `\U0001F600`, "\U0001F600", ""},
		{"big-unicode-invalid-backtracks", `\UFFFFFFFF`, "U", "FFFFFFFF"},
		{"big-unicode-no-digits", `\Uzz`, "U", "zz"},
		{"other-char", `\q`, "q", ""},
		{"escaped-dollar", `\$`, "$", ""},
		{"trailing-backslash", `\`, `\`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tk := newTokenizer(tc.in)
			got := tk.backslashSubst()
			if got != tc.want {
				t.Errorf("backslashSubst(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if rest := tc.in[tk.pos:]; rest != tc.rest {
				t.Errorf("backslashSubst(%q) left %q unconsumed, want %q", tc.in, rest, tc.rest)
			}
		})
	}
}

func TestTokenizerCursor(t *testing.T) {
	tk := newTokenizer("abc def")

	if tk.peek() != 'a' {
		t.Fatalf("peek = %q, want 'a'", tk.peek())
	}
	if tk.peekAt(3) != ' ' {
		t.Fatalf("peekAt(3) = %q, want ' '", tk.peekAt(3))
	}
	if tk.peekAt(99) != 0 {
		t.Fatalf("peekAt past end = %d, want 0", tk.peekAt(99))
	}

	m := tk.mark()
	tk.skipWhile(func(c byte) bool { return c != ' ' })
	if got := tk.sliceFrom(m); got != "abc" {
		t.Fatalf("sliceFrom = %q, want \"abc\"", got)
	}

	tk.resetTo(m)
	if tk.peek() != 'a' {
		t.Fatalf("peek after resetTo = %q, want 'a'", tk.peek())
	}

	for !tk.atEnd() {
		tk.advance()
	}
	if tk.peek() != 0 {
		t.Fatalf("peek at end = %d, want 0", tk.peek())
	}
}
