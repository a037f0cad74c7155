package main

import "qrterm/internal/domain"

func (m *model) handleSizeKey(key string) {
	step := m.getSizeStep(key)
	if step == 0 {
		return
	}
	m.selectSize(nextSize(m.snap.SelectedSize, step))
}

func (m *model) selectSize(size int) {
	before := m.snap.SelectedSize
	if size == before {
		return
	}
	if err := m.session.SetSize(size); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.recordAction(ActionSelectSize, SizeData{Size: size}, SizeData{Size: before})
	m.refresh()
}

func (m *model) getSizeStep(key string) int {
	switch key {
	case "tab", "ctrl+right":
		return 1
	case "shift+tab", "ctrl+left":
		return -1
	default:
		return 0
	}
}

// nextSize steps through domain.Sizes from current, wrapping at both ends.
// An unknown current size counts as the first entry.
func nextSize(current, step int) int {
	idx := 0
	for i, s := range domain.Sizes {
		if s == current {
			idx = i
			break
		}
	}
	n := len(domain.Sizes)
	idx = ((idx+step)%n + n) % n
	return domain.Sizes[idx]
}
