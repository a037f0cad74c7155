package main

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"qrterm/internal/domain"
	"qrterm/internal/session"
)

type model struct {
	width         int
	height        int
	mode          Mode
	help          bool
	helpScroll    int
	session       *session.Session
	snap          domain.Snapshot
	content       textarea.Model
	filename      textinput.Model
	pendingPath   string
	confirmAction ConfirmAction
	confirmReturn Mode
	alertMessage  string
	errorMessage  string
	undoStack     []Action
	redoStack     []Action
	config        *Config
	now           func() time.Time
	readClipboard func() (string, error)
}

// stateMsg carries a session snapshot into the Update loop.
type stateMsg domain.Snapshot

type Action struct {
	Type    ActionType
	Data    interface{}
	Inverse interface{}
}

type ContentData struct {
	Text string
}

type SizeData struct {
	Size int
}
