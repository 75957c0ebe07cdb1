package tui

import "github.com/runoshun/treeboard/internal/remotesync"

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgBoardChanged is sent when the store notifies its listeners,
// after a local mutation, an undo or redo, or a remote pull.
type MsgBoardChanged struct{}

func (MsgBoardChanged) sealed() {}

// MsgNotice is sent when a background remote call fails or diverges.
type MsgNotice struct {
	Notice remotesync.Notice
}

func (MsgNotice) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
