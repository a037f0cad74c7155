package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"qrterm/internal/domain"
	"qrterm/internal/encoder"
	"qrterm/internal/logging"
	"qrterm/internal/session"
)

var version = "dev"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	alertStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 2)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var cfg *Config

	runUI := func(cmd *cobra.Command, args []string) error {
		return runProgram(cfg)
	}

	root := &cobra.Command{
		Use:          "qrterm",
		Short:        "Generate QR codes as you type",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = c
			logging.InitLogger(cfg.LogFile, 10, 3, 28, true, cfg.LogLevel)
			return nil
		},
		RunE: runUI,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.qrterm.yaml)")

	root.AddCommand(&cobra.Command{
		Use:   "ui",
		Short: "Open the interactive generator",
		RunE:  runUI,
	})
	root.AddCommand(newGenerateCmd(func() *Config { return cfg }))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qrterm %s\n", version)
		},
	})
	return root
}

func newGenerateCmd(config func() *Config) *cobra.Command {
	var (
		size    int
		margin  int
		out     string
		backend string
	)
	cmd := &cobra.Command{
		Use:   "generate <content>",
		Short: "Write a QR code PNG without opening the UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config()
			if !cmd.Flags().Changed("size") {
				size = cfg.DefaultSize
			}
			if !cmd.Flags().Changed("margin") {
				margin = cfg.Margin
			}
			if backend == "" {
				backend = cfg.Encoder
			}
			if out == "" {
				out = cfg.GetSavePath(session.DefaultFileName(time.Now()))
			}
			path, err := exportPNG(backend, args[0], size, margin, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", domain.DefaultSize, fmt.Sprintf("image size in pixels, one of %v", domain.Sizes))
	cmd.Flags().IntVar(&margin, "margin", domain.DefaultMargin, "quiet zone in modules")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default QRCode_<timestamp>.png)")
	cmd.Flags().StringVar(&backend, "encoder", "", fmt.Sprintf("QR encoder, one of %v", encoder.Backends))
	return cmd
}

func runProgram(cfg *Config) error {
	enc, err := encoder.New(cfg.Encoder)
	if err != nil {
		return err
	}
	sess := session.New(enc, session.Options{
		Margin:        cfg.Margin,
		DefaultSize:   cfg.DefaultSize,
		Quiet:         cfg.Debounce.Duration,
		FeedbackDelay: cfg.FeedbackDelay.Duration,
	})

	p := tea.NewProgram(newModel(cfg, sess), tea.WithAltScreen())
	// Send blocks until the event loop reads the message, and the loop
	// itself triggers notifications, so delivery happens off the caller.
	unsubscribe := sess.Subscribe(func(snap domain.Snapshot) {
		go p.Send(stateMsg(snap))
	})
	defer unsubscribe()

	logging.Info("ui started", "encoder", enc.Backend(), "size", cfg.DefaultSize)
	if _, err := p.Run(); err != nil {
		logging.Error("ui stopped", "error", err)
		return err
	}
	return nil
}

func newModel(cfg *Config, sess *session.Session) model {
	content := textarea.New()
	content.Placeholder = "Type or paste the text to encode"
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.SetHeight(contentHeight)
	content.Focus()

	filename := textinput.New()
	filename.Prompt = ""
	filename.CharLimit = 255

	return model{
		mode:          ModeEdit,
		session:       sess,
		snap:          sess.Snapshot(),
		content:       content,
		filename:      filename,
		config:        cfg,
		now:           time.Now,
		readClipboard: readClipboardText,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.content.SetWidth(max(msg.Width-2, 10))
		return m, nil

	case stateMsg:
		if msg.Seq >= m.snap.Seq {
			m.snap = domain.Snapshot(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.mode == ModeFileInput {
		m.filename, cmd = m.filename.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.help {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "f1", "q":
			m.help = false
			m.helpScroll = 0
		case "j", "down":
			m.helpScroll++
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		}
		return m, nil
	}

	switch m.mode {
	case ModeAlert:
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "enter", "esc", " ":
			m.mode = ModeEdit
			m.alertMessage = ""
		}
		return m, nil

	case ModeConfirm:
		switch key {
		case "y", "Y":
			switch m.confirmAction {
			case ConfirmQuit:
				return m, tea.Quit
			case ConfirmOverwriteFile:
				m.saveTo(m.pendingPath)
			}
		case "n", "N", "esc":
			m.mode = m.confirmReturn
			m.pendingPath = ""
		}
		return m, nil

	case ModeFileInput:
		cmd := m.handleFileInput(msg)
		return m, cmd
	}

	switch key {
	case "ctrl+c":
		return m, m.requestQuit()
	case "f1":
		m.help = true
	case "esc":
		m.errorMessage = ""
	case "ctrl+s":
		return m, m.beginSave()
	case "ctrl+l":
		m.clearContent()
	case "ctrl+v":
		m.pasteClipboard()
	case "ctrl+z":
		m.undo()
	case "ctrl+y":
		m.redo()
	case "tab", "shift+tab", "ctrl+right", "ctrl+left":
		m.handleSizeKey(key)
	default:
		before := m.content.Value()
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		m.contentChanged(ActionEditContent, before)
		return m, cmd
	}
	return m, nil
}

// requestQuit asks for confirmation when there is content to lose.
func (m *model) requestQuit() tea.Cmd {
	if m.config.Confirmations && strings.TrimSpace(m.content.Value()) != "" {
		m.confirm(ConfirmQuit)
		return nil
	}
	return tea.Quit
}

// confirm opens a y/n prompt; declining returns to the current mode.
func (m *model) confirm(action ConfirmAction) {
	m.confirmReturn = m.mode
	m.confirmAction = action
	m.mode = ModeConfirm
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	var top strings.Builder
	top.WriteString(titleStyle.Render("qrterm") + "  " + dimStyle.Render("QR code generator"))
	top.WriteString("\n\n")
	top.WriteString(labelStyle.Render("Content") + "\n")
	top.WriteString(m.content.View())
	top.WriteString("\n\n")
	top.WriteString(labelStyle.Render("Size") + "  " + m.sizeSelector())
	top.WriteString("\n\n")

	var bottom strings.Builder
	if m.mode == ModeAlert {
		bottom.WriteString(alertStyle.Render(m.alertMessage + "\n\n" + dimStyle.Render("Press Enter to continue")))
		bottom.WriteString("\n")
	}
	bottom.WriteString(m.statusLine())

	available := m.height - lipgloss.Height(top.String()) - lipgloss.Height(bottom.String())
	return top.String() + m.previewView(available) + "\n" + bottom.String()
}

func (m model) sizeSelector() string {
	parts := make([]string, 0, len(domain.Sizes))
	for _, s := range domain.Sizes {
		if s == m.snap.SelectedSize {
			parts = append(parts, selectedStyle.Render(fmt.Sprintf("[%d]", s)))
		} else {
			parts = append(parts, dimStyle.Render(fmt.Sprintf(" %d ", s)))
		}
	}
	return strings.Join(parts, " ")
}

func (m model) previewView(available int) string {
	canvas := NewCanvas(m.snap.Image)
	if canvas == nil {
		if m.snap.Generating {
			return dimStyle.Render("Generating preview…")
		}
		return dimStyle.Render("The QR code appears here once you type something.")
	}
	if !canvas.Fits(m.width, available) {
		return dimStyle.Render(fmt.Sprintf("Preview needs %dx%d cells; enlarge the terminal to see it.", canvas.Width(), canvas.Height()))
	}
	return canvas.View()
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeFileInput:
		if m.errorMessage != "" {
			return fmt.Sprintf("Mode: SAVE | %s | Save as: %s | Enter=retry, Esc=cancel",
				errorStyle.Render("ERROR: "+m.errorMessage), m.filename.View())
		}
		return fmt.Sprintf("Mode: SAVE | Save as: %s | Enter=confirm, Esc=cancel", m.filename.View())
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit qrterm? (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingPath)
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	case ModeAlert:
		return "Mode: ALERT | Enter to dismiss"
	}

	status := fmt.Sprintf("Mode: %s | %s", m.modeString(), m.snap.Status)
	if m.snap.CanExecuteSave() {
		status += " | Ctrl+S=save"
	} else {
		status += " | " + dimStyle.Render("Ctrl+S=save")
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else {
		status += " | F1 for help"
	}
	return status
}

func (m model) modeString() string {
	switch m.mode {
	case ModeEdit:
		return "EDIT"
	case ModeFileInput:
		return "SAVE"
	case ModeConfirm:
		return "CONFIRM"
	case ModeAlert:
		return "ALERT"
	default:
		return "UNKNOWN"
	}
}

func (m model) helpView() string {
	helpLines := []string{
		"qrterm Help",
		"===========",
		"",
		"The QR code is regenerated shortly after you stop typing.",
		"",
		"Editing:",
		"--------",
		"  Type             Edit the content to encode",
		"  Enter            Insert a newline",
		"  Ctrl+V           Paste from the clipboard",
		"  Ctrl+L           Clear the content and the QR code",
		"  Ctrl+Z           Undo last edit or size change",
		"  Ctrl+Y           Redo last undone change",
		"",
		"Size:",
		"-----",
		"  Tab/Ctrl+→       Next size",
		"  Shift+Tab/Ctrl+← Previous size",
		fmt.Sprintf("                   Sizes: %v pixels", domain.Sizes),
		"",
		"Saving:",
		"-------",
		"  Ctrl+S           Save the QR code as PNG at the selected size",
		"  Enter            Confirm the filename",
		"  Esc              Cancel",
		"",
		"General:",
		"--------",
		"  F1               Toggle this help screen",
		"  Esc              Dismiss an error",
		"  Ctrl+C           Quit qrterm",
	}

	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = len(helpLines)
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = len(helpLines) - visibleHeight
	}
	if startLine < 0 {
		startLine = 0
	}
	endLine := startLine + visibleHeight
	if endLine > len(helpLines) {
		endLine = len(helpLines)
	}

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
