package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/feather-lang/feather"
)

// replLine is a minimal raw-mode line editor: printable input, backspace,
// left/right/home/end movement, and up/down history recall. It does not
// attempt completion popups; feather's REPL needs are simpler than the
// full-blown tester harness this is modeled on.
type replLine struct {
	fd      int
	line    []rune
	cursor  int
	history []string
	histPos int
}

func newReplLine(fd int, history []string) *replLine {
	return &replLine{fd: fd, history: history, histPos: len(history)}
}

func (r *replLine) readByte(in *bufio.Reader) (byte, error) {
	return in.ReadByte()
}

// readKey mirrors the escape-sequence handling of the tester's line editor:
// arrow keys and a handful of control characters become named keys, anything
// else is returned as a literal rune.
func (r *replLine) readKey(in *bufio.Reader) (string, error) {
	ch, err := r.readByte(in)
	if err != nil {
		return "", err
	}
	if ch == 0x1b {
		ch2, err := r.readByte(in)
		if err != nil {
			return "escape", nil
		}
		if ch2 == '[' {
			ch3, err := r.readByte(in)
			if err != nil {
				return "escape", nil
			}
			switch ch3 {
			case 'A':
				return "up", nil
			case 'B':
				return "down", nil
			case 'C':
				return "right", nil
			case 'D':
				return "left", nil
			case 'H':
				return "home", nil
			case 'F':
				return "end", nil
			}
			return "escape", nil
		}
		return "escape", nil
	}
	switch ch {
	case 0x01:
		return "home", nil
	case 0x03:
		return "ctrl-c", nil
	case 0x04:
		return "ctrl-d", nil
	case 0x05:
		return "end", nil
	case 0x0d, 0x0a:
		return "enter", nil
	case 0x7f, 0x08:
		return "backspace", nil
	}
	return string(ch), nil
}

func (r *replLine) render(prompt string) {
	fmt.Print("\r\033[K")
	fmt.Print(prompt)
	fmt.Print(string(r.line))
	fmt.Printf("\r\033[%dC", len(prompt)+r.cursor)
}

// read runs one line-editing loop and returns the entered text, or
// errReplEOF if the user pressed ctrl-d on an empty line.
func (r *replLine) read(in *bufio.Reader, prompt string) (string, error) {
	r.line = r.line[:0]
	r.cursor = 0
	r.histPos = len(r.history)
	r.render(prompt)

	for {
		key, err := r.readKey(in)
		if err != nil {
			return "", err
		}
		switch key {
		case "enter":
			fmt.Print("\r\n")
			return string(r.line), nil
		case "ctrl-c":
			fmt.Print("\r\n")
			r.line = r.line[:0]
			r.cursor = 0
			r.render(prompt)
		case "ctrl-d":
			if len(r.line) == 0 {
				fmt.Print("\r\n")
				return "", errReplEOF
			}
		case "backspace":
			if r.cursor > 0 {
				r.line = append(r.line[:r.cursor-1], r.line[r.cursor:]...)
				r.cursor--
			}
		case "left":
			if r.cursor > 0 {
				r.cursor--
			}
		case "right":
			if r.cursor < len(r.line) {
				r.cursor++
			}
		case "home":
			r.cursor = 0
		case "end":
			r.cursor = len(r.line)
		case "up":
			if r.histPos > 0 {
				r.histPos--
				r.line = []rune(r.history[r.histPos])
				r.cursor = len(r.line)
			}
		case "down":
			if r.histPos < len(r.history)-1 {
				r.histPos++
				r.line = []rune(r.history[r.histPos])
				r.cursor = len(r.line)
			} else {
				r.histPos = len(r.history)
				r.line = r.line[:0]
				r.cursor = 0
			}
		case "escape":
			// ignore
		default:
			if len(key) == 1 && key[0] >= 0x20 {
				ru := []rune(key)[0]
				r.line = append(r.line[:r.cursor], append([]rune{ru}, r.line[r.cursor:]...)...)
				r.cursor++
			}
		}
		r.render(prompt)
	}
}

var errReplEOF = fmt.Errorf("eof")

// runRepl drives an interactive session: each accepted line is fed to
// [feather.Interp.Parse]; while the script is incomplete (an open brace,
// bracket or quote), more lines are appended using the continuation prompt
// before the accumulated script is finally evaluated.
func runRepl(i *feather.Interp, cfg Config) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return runScriptedRepl(i, os.Stdin)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	in := bufio.NewReader(os.Stdin)
	var history []string
	editor := newReplLine(fd, history)

	var pending strings.Builder
	prompt := cfg.Prompt

	for {
		line, err := editor.read(in, prompt)
		if err != nil {
			fmt.Println()
			return nil
		}

		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)

		pr := i.Parse(pending.String())
		if pr.Status == feather.ParseIncomplete {
			prompt = cfg.ContinuationPrompt
			continue
		}

		script := pending.String()
		pending.Reset()
		prompt = cfg.Prompt
		if strings.TrimSpace(script) == "" {
			continue
		}
		history = append(history, script)
		editor.history = history

		result, evalErr := i.Eval(script)
		if evalErr != nil {
			fmt.Printf("\r\nerror: %s\r\n", evalErr)
			continue
		}
		if s := result.String(); s != "" {
			fmt.Printf("%s\r\n", s)
		}
	}
}

// runScriptedRepl handles the non-TTY case (input piped from a file or
// another process): no raw mode, no line editing, just read-eval-print.
func runScriptedRepl(i *feather.Interp, in *os.File) error {
	scanner := bufio.NewScanner(in)
	var pending strings.Builder
	for scanner.Scan() {
		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(scanner.Text())

		pr := i.Parse(pending.String())
		if pr.Status == feather.ParseIncomplete {
			continue
		}
		script := pending.String()
		pending.Reset()
		if strings.TrimSpace(script) == "" {
			continue
		}
		result, err := i.Eval(script)
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}
		if s := result.String(); s != "" {
			fmt.Println(s)
		}
	}
	return scanner.Err()
}
