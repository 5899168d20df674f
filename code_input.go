package goAuthFlow

import "strings"

// CodeLength is the number of cells of a verification code.
const CodeLength = 6

// CodeInput models the six single-digit cells of the verify screen and the
// cell that has focus. The zero value is empty with focus on the first cell.
type CodeInput struct {
	cells [CodeLength]byte
	focus int
}

// Set changes cell i. A single digit fills the cell and moves focus to the
// next one; an empty value clears the cell. Anything else is ignored and Set
// reports false.
func (ci *CodeInput) Set(i int, value string) bool {
	if i < 0 || i >= CodeLength {
		return false
	}
	switch {
	case value == "":
		ci.cells[i] = 0
		return true
	case len(value) == 1 && isDigit(value[0]):
		ci.cells[i] = value[0]
		if i < CodeLength-1 {
			ci.focus = i + 1
		} else {
			ci.focus = i
		}
		return true
	default:
		return false
	}
}

// Backspace handles the delete key on cell i. A filled cell is cleared; on an
// empty cell focus moves to the previous one.
func (ci *CodeInput) Backspace(i int) {
	if i < 0 || i >= CodeLength {
		return
	}
	if ci.cells[i] != 0 {
		ci.cells[i] = 0
		ci.focus = i
		return
	}
	if i > 0 {
		ci.focus = i - 1
	}
}

// Paste distributes up to six pasted digits from the first cell and focuses
// the last populated one. Input containing any non-digit within its first
// six characters leaves every cell unchanged and Paste reports false.
func (ci *CodeInput) Paste(text string) bool {
	if len(text) > CodeLength {
		text = text[:CodeLength]
	}
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) {
			return false
		}
	}
	for i := 0; i < len(text); i++ {
		ci.cells[i] = text[i]
	}
	ci.focus = len(text) - 1
	return true
}

// Cells returns the cell values; empty cells are "".
func (ci *CodeInput) Cells() [CodeLength]string {
	var out [CodeLength]string
	for i, c := range ci.cells {
		if c != 0 {
			out[i] = string(c)
		}
	}
	return out
}

// Focus returns the index of the focused cell.
func (ci *CodeInput) Focus() int {
	return ci.focus
}

// Code joins the cells. Empty cells are skipped.
func (ci *CodeInput) Code() string {
	var b strings.Builder
	for _, c := range ci.cells {
		if c != 0 {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Complete reports whether all six cells hold a digit.
func (ci *CodeInput) Complete() bool {
	for _, c := range ci.cells {
		if c == 0 {
			return false
		}
	}
	return true
}

// Reset empties every cell and focuses the first.
func (ci *CodeInput) Reset() {
	*ci = CodeInput{}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
