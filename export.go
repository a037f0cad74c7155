package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"qrterm/internal/domain"
	"qrterm/internal/encoder"
	"qrterm/internal/logging"
	"qrterm/internal/persist"
	"qrterm/internal/session"
)

// beginSave opens the filename prompt, prefilled with a timestamped name.
// With no image the session reports the failure in the status line.
func (m *model) beginSave() tea.Cmd {
	if !m.snap.CanExecuteSave() {
		if !m.snap.Generating {
			if _, err := m.session.Save(""); err != nil && !errors.Is(err, domain.ErrNothingToSave) {
				m.errorMessage = err.Error()
			}
			m.refresh()
		}
		return nil
	}
	m.mode = ModeFileInput
	m.errorMessage = ""
	m.filename.SetValue(strings.TrimSuffix(session.DefaultFileName(m.now()), ".png"))
	m.filename.CursorEnd()
	m.content.Blur()
	m.filename.Focus()
	return textinput.Blink
}

func (m *model) handleFileInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.leaveFileInput()
		m.errorMessage = ""
		return nil
	case "ctrl+c":
		return m.requestQuit()
	case "enter":
		name := strings.TrimSpace(m.filename.Value())
		if name == "" {
			m.errorMessage = "Please enter a filename"
			return nil
		}
		path := m.config.GetSavePath(persist.EnsureExt(name))
		if m.config.Confirmations && persist.Exists(path) {
			m.pendingPath = path
			m.confirm(ConfirmOverwriteFile)
			return nil
		}
		m.saveTo(path)
		return nil
	}
	var cmd tea.Cmd
	m.filename, cmd = m.filename.Update(msg)
	return cmd
}

func (m *model) leaveFileInput() {
	m.mode = ModeEdit
	m.pendingPath = ""
	m.filename.Blur()
	m.content.Focus()
}

// saveTo writes the current QR code. Failures open a blocking alert.
func (m *model) saveTo(path string) {
	_, err := m.session.Save(path)
	m.leaveFileInput()
	m.refresh()
	if err != nil {
		m.mode = ModeAlert
		m.alertMessage = fmt.Sprintf("Error saving QR code: %s", err.Error())
	}
}

// exportPNG renders content once and writes it to out. It backs the
// generate command and skips the debounce path.
func exportPNG(backend, content string, size, margin int, out string) (string, error) {
	if !domain.ValidSize(size) {
		return "", fmt.Errorf("size %d is not one of %v: %w", size, domain.Sizes, domain.ErrValidation)
	}
	enc, err := encoder.New(backend)
	if err != nil {
		return "", err
	}
	img, err := enc.Generate(content, size, margin)
	if err != nil {
		return "", err
	}
	path, err := persist.SavePNG(img, out)
	if err != nil {
		return "", err
	}
	logging.Info("qr code exported", "path", path, "size", size, "encoder", enc.Backend())
	return path, nil
}
