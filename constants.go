package main

type Mode int

const (
	ModeEdit Mode = iota
	ModeFileInput
	ModeConfirm
	ModeAlert
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmOverwriteFile
)

type ActionType int

const (
	ActionEditContent ActionType = iota
	ActionPaste
	ActionClear
	ActionSelectSize
)

const (
	maxUndo       = 200
	contentHeight = 4
)
