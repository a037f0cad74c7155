package main

func (m *model) recordAction(actionType ActionType, data, inverse interface{}) {
	action := Action{
		Type:    actionType,
		Data:    data,
		Inverse: inverse,
	}
	m.undoStack = append(m.undoStack, action)
	if len(m.undoStack) > maxUndo {
		m.undoStack = m.undoStack[len(m.undoStack)-maxUndo:]
	}
	m.redoStack = m.redoStack[:0]
}

func (m *model) undo() {
	if len(m.undoStack) == 0 {
		return
	}

	lastIndex := len(m.undoStack) - 1
	action := m.undoStack[lastIndex]
	m.undoStack = m.undoStack[:lastIndex]

	switch action.Type {
	case ActionEditContent, ActionPaste, ActionClear:
		m.applyContent(action.Inverse.(ContentData).Text)
	case ActionSelectSize:
		m.applySize(action.Inverse.(SizeData).Size)
	}

	m.redoStack = append(m.redoStack, action)
}

func (m *model) redo() {
	if len(m.redoStack) == 0 {
		return
	}

	lastIndex := len(m.redoStack) - 1
	action := m.redoStack[lastIndex]
	m.redoStack = m.redoStack[:lastIndex]

	switch action.Type {
	case ActionEditContent, ActionPaste, ActionClear:
		m.applyContent(action.Data.(ContentData).Text)
	case ActionSelectSize:
		m.applySize(action.Data.(SizeData).Size)
	}

	m.undoStack = append(m.undoStack, action)
}

// applyContent and applySize replay history without recording it again.
func (m *model) applyContent(text string) {
	m.content.SetValue(text)
	m.session.SetContent(text)
	m.refresh()
}

func (m *model) applySize(size int) {
	if err := m.session.SetSize(size); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.refresh()
}
