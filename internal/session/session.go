// Package session is the view state and command surface of the QR tool.
//
// A Session owns the user's content and size selection, the status line,
// the generating flag and the image store. Content and size edits go
// through a debounce scheduler; the generation itself runs on the timer
// goroutine and applies its result under the session lock. Observers get
// a domain.Snapshot after every change.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/xid"

	"qrterm/internal/debounce"
	"qrterm/internal/domain"
	"qrterm/internal/imagestore"
	"qrterm/internal/logging"
	"qrterm/internal/persist"
)

const (
	StatusReady      = "Ready to generate QR codes"
	StatusGenerating = "Generating QR code…"
	StatusNothing    = "Nothing to save: generate a QR code first"

	// DefaultFeedbackDelay keeps the generating indicator visible long
	// enough to avoid flicker on trivial inputs.
	DefaultFeedbackDelay = 100 * time.Millisecond
)

// Generator renders one QR code.
type Generator interface {
	Generate(content string, size, margin int) (*domain.Image, error)
}

// SaveFunc persists img at path and returns the final path.
type SaveFunc func(img *domain.Image, path string) (string, error)

type Options struct {
	Margin      int
	DefaultSize int
	// Quiet is the debounce period, debounce.DefaultQuiet when zero.
	Quiet time.Duration
	// FeedbackDelay runs before each encode. Zero disables it.
	FeedbackDelay time.Duration
	// AfterFunc replaces the debounce timer facility.
	AfterFunc debounce.AfterFunc
	// Save replaces persist.SavePNG.
	Save SaveFunc
}

type Session struct {
	mu       sync.Mutex
	gen      Generator
	store    *imagestore.Store
	sched    *debounce.Scheduler
	save     SaveFunc
	margin   int
	feedback time.Duration

	content    string
	size       int
	status     string
	generating bool
	// epoch changes whenever the content is cleared; results of runs
	// started in an older epoch are dropped.
	epoch uint64
	seq   uint64

	subsMu  sync.Mutex
	subs    map[int]func(domain.Snapshot)
	nextSub int
}

// New returns an idle session with empty content.
func New(gen Generator, opts Options) *Session {
	size := opts.DefaultSize
	if !domain.ValidSize(size) {
		size = domain.DefaultSize
	}
	save := opts.Save
	if save == nil {
		save = persist.SavePNG
	}
	s := &Session{
		gen:      gen,
		store:    imagestore.New(),
		save:     save,
		margin:   opts.Margin,
		feedback: opts.FeedbackDelay,
		size:     size,
		status:   StatusReady,
		subs:     make(map[int]func(domain.Snapshot)),
	}
	var schedOpts []debounce.Option
	if opts.AfterFunc != nil {
		schedOpts = append(schedOpts, debounce.WithAfterFunc(opts.AfterFunc))
	}
	s.sched = debounce.New(opts.Quiet, s.generate, schedOpts...)
	return s
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes the subscription.
func (s *Session) Subscribe(fn func(domain.Snapshot)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Session) notify() {
	snap := s.Snapshot()
	s.subsMu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.Snapshot {
	img := s.store.Get()
	return domain.Snapshot{
		Seq:          s.seq,
		Content:      s.content,
		SelectedSize: s.size,
		Status:       s.status,
		Generating:   s.generating,
		CanSave:      img != nil,
		Image:        img,
	}
}

func (s *Session) Content() string      { return s.Snapshot().Content }
func (s *Session) SelectedSize() int    { return s.Snapshot().SelectedSize }
func (s *Session) Status() string       { return s.Snapshot().Status }
func (s *Session) Generating() bool     { return s.Snapshot().Generating }
func (s *Session) CanSave() bool        { return s.Snapshot().CanSave }
func (s *Session) Image() *domain.Image { return s.store.Get() }

// CanExecuteSave is the Save guard: an image exists and nothing is generating.
func (s *Session) CanExecuteSave() bool { return s.Snapshot().CanExecuteSave() }

// CanExecuteClear is always true.
func (s *Session) CanExecuteClear() bool { return true }

// SchedulerState exposes the debounce state for the status bar and tests.
func (s *Session) SchedulerState() debounce.State { return s.sched.State() }

// SetContent replaces the content. Blank content clears the image at once
// and cancels any pending generation; anything else re-arms the debounce
// timer.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	if content == s.content {
		s.mu.Unlock()
		return
	}
	s.content = content
	if isBlank(content) {
		s.resetLocked()
	} else {
		s.sched.Trigger()
	}
	s.seq++
	s.mu.Unlock()
	s.notify()
}

// SetSize selects one of domain.Sizes and re-arms the debounce timer when
// there is content to render.
func (s *Session) SetSize(size int) error {
	if !domain.ValidSize(size) {
		return fmt.Errorf("size %d is not one of %v: %w", size, domain.Sizes, domain.ErrValidation)
	}
	s.mu.Lock()
	if size == s.size {
		s.mu.Unlock()
		return nil
	}
	s.size = size
	if !isBlank(s.content) {
		s.sched.Trigger()
	}
	s.seq++
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear empties the content, drops the image, cancels any pending
// generation and restores the initial prompt.
func (s *Session) Clear() {
	s.mu.Lock()
	s.content = ""
	s.resetLocked()
	s.seq++
	s.mu.Unlock()
	s.notify()
}

func (s *Session) resetLocked() {
	s.sched.Cancel()
	s.epoch++
	s.store.Clear()
	s.status = StatusReady
}

func (s *Session) generate() {
	s.mu.Lock()
	content, size, epoch := s.content, s.size, s.epoch
	if isBlank(content) {
		s.mu.Unlock()
		return
	}
	s.generating = true
	s.status = StatusGenerating
	s.seq++
	s.mu.Unlock()
	s.notify()

	id := xid.New().String()
	logging.Debug("generation started", "id", id, "size", size, "chars", utf8.RuneCountInString(content))
	if s.feedback > 0 {
		time.Sleep(s.feedback)
	}
	img, err := s.gen.Generate(content, size, s.margin)

	s.mu.Lock()
	s.generating = false
	switch {
	case epoch != s.epoch:
		logging.Debug("generation discarded after clear", "id", id)
	case err != nil:
		s.status = fmt.Sprintf("Error generating QR code: %v", err)
		logging.Warn("generation failed", "id", id, "size", size, "error", err)
	default:
		s.store.Set(img)
		s.status = generatedStatus(img)
		logging.Info("generation finished", "id", id, "size", size)
	}
	s.seq++
	s.mu.Unlock()
	s.notify()
}

// Save writes the stored QR code to path. When the stored image was
// rendered at a different size than the one selected, it is re-rendered
// at the selected size first. Save persists the previewed content, not
// edits still waiting on the debounce timer.
func (s *Session) Save(path string) (string, error) {
	s.mu.Lock()
	img, size, generating := s.store.Get(), s.size, s.generating
	s.mu.Unlock()

	if img == nil {
		s.setStatus(StatusNothing)
		return "", domain.ErrNothingToSave
	}
	if generating {
		return "", domain.ErrBusy
	}

	if img.Width() != size {
		var err error
		img, err = s.gen.Generate(img.Content, size, s.margin)
		if err != nil {
			return "", s.saveFailed(path, err)
		}
	}

	saved, err := s.save(img, path)
	if err != nil {
		return "", s.saveFailed(path, err)
	}
	logging.Info("qr code saved", "path", saved, "size", size)
	s.setStatus(fmt.Sprintf("QR code saved to %s (%dx%d)", saved, size, size))
	return saved, nil
}

func (s *Session) saveFailed(path string, err error) error {
	logging.Error("save failed", "path", path, "error", err)
	s.setStatus(fmt.Sprintf("Error saving QR code: %v", err))
	return err
}

func (s *Session) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.seq++
	s.mu.Unlock()
	s.notify()
}

// DefaultFileName is the suggested name for a save made at t.
func DefaultFileName(t time.Time) string {
	return "QRCode_" + t.Format("2006-01-02_15-04-05") + ".png"
}

func generatedStatus(img *domain.Image) string {
	return fmt.Sprintf("QR code generated (%dx%d, %d chars)", img.Width(), img.Height(), utf8.RuneCountInString(img.Content))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
