package command

import (
	"errors"
	"testing"
)

// spy counts lifecycle calls and optionally fails Execute.
type spy struct {
	executed, undone, redone int
	fail                     error
}

func (p *spy) Name() string { return "spy" }

func (p *spy) Execute() error {
	if p.fail != nil {
		return p.fail
	}
	p.executed++
	return nil
}

func (p *spy) Undo() error { p.undone++; return nil }
func (p *spy) Redo() error { p.redone++; return nil }

func TestManagerUndoRedoCursor(t *testing.T) {
	m := NewManager()
	a, b := &spy{}, &spy{}

	if m.CanUndo() || m.CanRedo() {
		t.Fatal("empty history should have nothing to undo or redo")
	}
	m.Execute(a)
	m.Execute(b)
	if m.Len() != 2 || !m.CanUndo() || m.CanRedo() {
		t.Fatalf("unexpected state after two executes: len=%d", m.Len())
	}

	m.Undo()
	if b.undone != 1 || a.undone != 0 {
		t.Error("undo should revert the most recent command first")
	}
	if !m.CanRedo() {
		t.Error("undo should open a redo tail")
	}
	m.Redo()
	if b.redone != 1 {
		t.Error("redo should re-apply the undone command")
	}
}

func TestManagerTruncatesRedoTail(t *testing.T) {
	m := NewManager()
	a, b, c := &spy{}, &spy{}, &spy{}
	m.Execute(a)
	m.Execute(b)
	m.Undo()

	// A fresh command replaces the undone tail.
	m.Execute(c)
	if m.Len() != 2 {
		t.Fatalf("expected history of 2 after truncation, got %d", m.Len())
	}
	if m.CanRedo() {
		t.Error("redo tail should be gone")
	}
	m.Undo()
	m.Undo()
	if c.undone != 1 || a.undone != 1 {
		t.Error("undoing to the bottom should walk c then a")
	}
	if b.undone != 1 {
		t.Error("the truncated command should not be touched again")
	}
}

func TestManagerFailedCommandNotRecorded(t *testing.T) {
	m := NewManager()
	ok := &spy{}
	bad := &spy{fail: errors.New("boom")}

	m.Execute(ok)
	if err := m.Execute(bad); err == nil {
		t.Fatal("expected the failure to propagate")
	}
	if m.Len() != 1 {
		t.Errorf("failed command should not be recorded, len=%d", m.Len())
	}
	m.Undo()
	if ok.undone != 1 {
		t.Error("history should still hold the successful command")
	}
}

func TestManagerEmptyNoOps(t *testing.T) {
	m := NewManager()
	if err := m.Undo(); err != nil {
		t.Errorf("undo on empty history should be a silent no-op, got %v", err)
	}
	if err := m.Redo(); err != nil {
		t.Errorf("redo with no tail should be a silent no-op, got %v", err)
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager()
	m.Execute(&spy{})
	m.Clear()
	if m.Len() != 0 || m.CanUndo() || m.CanRedo() {
		t.Error("clear should drop the whole history")
	}
}
