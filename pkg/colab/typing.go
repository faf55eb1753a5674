package colab

import (
	"context"
	"fmt"
)

// Editor key names understood by Playwright.
const (
	keyEnd       = "End"
	keyBackspace = "Backspace"
	keyDelete    = "Delete"
	keyEnter     = "Enter"
	keyTab       = "Tab"
)

// editor is the part of a code editor the typing loop needs.
type editor interface {
	// text returns the editor's whole content
	text() (string, error)

	// press sends a named key (End, Backspace)
	press(key string) error

	// typeRune types one character at the cursor
	typeRune(r rune) error
}

// typeText types want into ed one character at a time.
//
// The editor may insert text on its own: indentation after a newline, a
// closing bracket after an opening one. After each keystroke the editor's
// content is compared with want:
//
//   - content equal to what was typed so far: type the next character
//   - content already holding the next characters of want: accept them
//     without typing
//   - content holding anything else: delete the last character of the
//     cursor line (End, Backspace) and compare again
//
// If the editor dropped characters the loop rewinds and retypes them. Every
// correction spends from a budget proportional to len(want); running out
// means the editor keeps diverging and is reported as an error.
//
// typeText returns the editor content once it equals want.
func typeText(ctx context.Context, ed editor, want string) (string, error) {
	target := []rune(want)
	budget := 4*len(target) + 64
	sent := 0

	correct := func(state []rune) error {
		budget--
		if budget < 0 {
			return fmt.Errorf("editor content diverged from typed text: have %q, want prefix %q",
				string(state), string(target[:sent]))
		}
		if err := ed.press(keyEnd); err != nil {
			return err
		}
		return ed.press(keyBackspace)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		content, err := ed.text()
		if err != nil {
			return "", fmt.Errorf("failed to read editor content: %w", err)
		}
		state := []rune(content)

		if runesEqual(state, target[:sent]) {
			if sent == len(target) {
				return content, nil
			}
			if err := ed.typeRune(target[sent]); err != nil {
				return "", fmt.Errorf("failed to type %q: %w", target[sent], err)
			}
			sent++
			continue
		}

		prefix := commonPrefixLen(state, target)
		switch {
		case prefix > sent:
			// the editor inserted what we were about to type
			sent = prefix
		case prefix < sent && prefix == len(state):
			// the editor lost characters; retype from where it stops
			budget--
			if budget < 0 {
				return "", fmt.Errorf("editor keeps dropping typed text: have %q", content)
			}
			sent = prefix
		default:
			if err := correct(state); err != nil {
				return "", err
			}
		}
	}
}

// commonPrefixLen returns the length in runes of the longest common prefix.
func commonPrefixLen(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// commonPrefix returns the longest common prefix of a and b without
// splitting a multi-byte character.
func commonPrefix(a, b string) string {
	ra := []rune(a)
	return string(ra[:commonPrefixLen(ra, []rune(b))])
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
