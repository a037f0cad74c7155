package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"bare cr", "a\rb", "a\nb"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"tabs kept", "a\tb", "a\tb"},
		{"rtf", "{\\rtf1\\ansi hello\\par world}", "hello\nworld"},
		{"rtf escapes", "{\\rtf1 a\\{b\\}}", "a{b}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.in))
		})
	}
}

func TestNextSize(t *testing.T) {
	assert.Equal(t, 800, nextSize(700, 1))
	assert.Equal(t, 600, nextSize(700, -1))
	assert.Equal(t, 200, nextSize(1000, 1))
	assert.Equal(t, 1000, nextSize(200, -1))
	assert.Equal(t, 300, nextSize(123, 1))
}

func TestRecordAction_CapsHistory(t *testing.T) {
	m := &model{}
	for i := 0; i < maxUndo+10; i++ {
		m.recordAction(ActionEditContent, ContentData{}, ContentData{})
	}
	assert.Len(t, m.undoStack, maxUndo)
}
