package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// refresh pulls the current session state. Snapshots delivered later via
// stateMsg are ignored when older.
func (m *model) refresh() {
	m.snap = m.session.Snapshot()
}

// contentChanged pushes the textarea value to the session when it differs
// from before and records the edit.
func (m *model) contentChanged(actionType ActionType, before string) {
	after := m.content.Value()
	if after == before {
		return
	}
	m.recordAction(actionType, ContentData{Text: after}, ContentData{Text: before})
	m.session.SetContent(after)
	m.errorMessage = ""
	m.refresh()
}

func (m *model) clearContent() {
	before := m.content.Value()
	m.content.Reset()
	if before != "" {
		m.recordAction(ActionClear, ContentData{Text: ""}, ContentData{Text: before})
	}
	m.session.Clear()
	m.errorMessage = ""
	m.refresh()
}

func (m *model) pasteClipboard() {
	text, err := m.readClipboard()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error reading clipboard: %s", err.Error())
		return
	}
	text = cleanClipboardText(text)
	if text == "" {
		return
	}
	before := m.content.Value()
	m.content.InsertString(text)
	m.contentChanged(ActionPaste, before)
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText drops control characters and RTF markup, normalizes
// line endings and trims trailing newlines.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.TrimRight(normalized, "\n")
}

func stripRTF(text string) string {
	if !strings.HasPrefix(text, "{\\rtf") {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r == '\\' {
			if i+1 < len(runes) {
				next := runes[i+1]
				if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') {
					start := i + 1
					i++
					for i < len(runes) && runes[i] != ' ' && runes[i] != '\\' && runes[i] != '{' && runes[i] != '}' && runes[i] != '\n' {
						i++
					}
					word := strings.TrimRight(string(runes[start:i]), "-0123456789")
					if word == "par" || word == "line" {
						result.WriteRune('\n')
					}
					if i < len(runes) && runes[i] != ' ' {
						i--
					}
					continue
				} else if next == '\\' || next == '{' || next == '}' {
					result.WriteRune(next)
					i++
					continue
				}
			}
			continue
		}
		if r == '\n' || r == '\r' {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
