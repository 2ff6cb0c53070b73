package command

import "log"

// Command is a single undoable mutation. Execute captures whatever state it
// needs at run time; Undo and Redo replay against that captured state so ids
// survive round trips.
type Command interface {
	Execute() error
	Undo() error
	Redo() error
	Name() string
}

// Manager keeps the linear history with a cursor between the undo and redo
// halves. Executing a new command truncates the redo tail.
type Manager struct {
	history []Command
	cursor  int // commands [0:cursor) are undoable, [cursor:] redoable
}

// NewManager creates an empty history.
func NewManager() *Manager {
	return &Manager{}
}

// Execute runs the command and appends it to the history. A failed command is
// not recorded and its error is returned; the redo tail survives the failure.
func (m *Manager) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	m.history = append(m.history[:m.cursor], cmd)
	m.cursor = len(m.history)
	return nil
}

// Undo reverts the most recent command. Empty history is a silent no-op.
func (m *Manager) Undo() error {
	if m.cursor == 0 {
		return nil
	}
	cmd := m.history[m.cursor-1]
	if err := cmd.Undo(); err != nil {
		log.Printf("undo %s failed: %v", cmd.Name(), err)
		return err
	}
	m.cursor--
	return nil
}

// Redo re-applies the most recently undone command. No redo tail is a silent
// no-op.
func (m *Manager) Redo() error {
	if m.cursor >= len(m.history) {
		return nil
	}
	cmd := m.history[m.cursor]
	if err := cmd.Redo(); err != nil {
		log.Printf("redo %s failed: %v", cmd.Name(), err)
		return err
	}
	m.cursor++
	return nil
}

// CanUndo reports whether an undoable command exists.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether a redoable command exists.
func (m *Manager) CanRedo() bool { return m.cursor < len(m.history) }

// Len returns the total number of recorded commands.
func (m *Manager) Len() int { return len(m.history) }

// Clear drops the whole history.
func (m *Manager) Clear() {
	m.history = nil
	m.cursor = 0
}
