package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"wallplan/event"
	"wallplan/plan"
	"wallplan/session"
	"wallplan/storage"
	"wallplan/tool"
)

// tui is the terminal shell: it feeds pointer and key events into the
// session's tools and implements plan.Layer so entities draw themselves onto
// the screen. Plan units map to cells through an adjustable scale; the Y
// scale is halved to compensate for cell aspect.
type tui struct {
	screen tcell.Screen
	sess   *session.Session
	store  *storage.ProjectStore

	scaleX, scaleY float64
	offX, offY     float64

	mouseDown bool
	preview   event.PreviewChanged
	status    string
	projectID string
	quit      bool
}

func runTUI(sess *session.Session, store *storage.ProjectStore) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	t := &tui{
		screen: screen,
		sess:   sess,
		store:  store,
		scaleX: 0.1,
		scaleY: 0.05,
		status: "wall tool: drag to draw | 1-6 tools  u undo  y redo  q quit",
	}
	cancel := sess.Bus.Subscribe(event.KindPreviewChanged, func(ev event.Event) {
		if pc, ok := ev.(event.PreviewChanged); ok {
			t.preview = pc
		}
	})
	defer cancel()

	sess.Tools.Switch("wall")

	for !t.quit {
		sess.Do(t.draw)
		ev := screen.PollEvent()
		sess.Do(func() { t.handle(ev) })
	}
	return nil
}

func (t *tui) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		t.handleKey(ev)
	case *tcell.EventMouse:
		t.handleMouse(ev)
	}
}

func (t *tui) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit = true
		return
	case tcell.KeyDelete, tcell.KeyBackspace2:
		if rm, ok := t.sess.Tools.Get("remove").(*tool.RemoveTool); ok {
			rm.RemoveSelection()
		}
		return
	case tcell.KeyCtrlZ:
		t.sess.History.Undo()
		return
	case tcell.KeyLeft:
		t.offX -= 40
		return
	case tcell.KeyRight:
		t.offX += 40
		return
	case tcell.KeyUp:
		t.offY -= 40
		return
	case tcell.KeyDown:
		t.offY += 40
		return
	}

	switch ev.Rune() {
	case 'q':
		t.quit = true
	case '1', 's':
		t.switchTool("select")
	case '2', 'w':
		t.switchTool("wall")
	case '3', 'd':
		t.switchTool("door")
	case '4', 'n':
		t.switchTool("window")
	case '5', 'r':
		t.switchTool("room")
	case '6', 'x':
		t.switchTool("remove")
	case 'u':
		t.sess.History.Undo()
	case 'y':
		t.sess.History.Redo()
	case 'c':
		t.sess.Clear()
		t.status = "plan cleared"
	case 'S':
		t.save()
	case '+', '=':
		t.scaleX *= 1.25
		t.scaleY *= 1.25
	case '-':
		t.scaleX /= 1.25
		t.scaleY /= 1.25
	}
}

func (t *tui) switchTool(name string) {
	t.sess.Tools.Switch(name)
	t.status = name + " tool"
}

func (t *tui) save() {
	if t.store == nil {
		t.status = "no project database (-project)"
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap := storage.Capture(t.sess)
	if t.projectID == "" {
		id, err := t.store.Save(ctx, time.Now().Format("plan 2006-01-02 15:04"), snap)
		if err != nil {
			t.status = "save failed: " + err.Error()
			return
		}
		t.projectID = id
		t.status = "saved as " + id
		return
	}
	if err := t.store.Update(ctx, t.projectID, snap); err != nil {
		t.status = "save failed: " + err.Error()
		return
	}
	t.status = "saved"
}

func (t *tui) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := t.screenToPlan(x, y)
	mods := tool.Modifiers{
		Ctrl:  ev.Modifiers()&tcell.ModCtrl != 0,
		Shift: ev.Modifiers()&tcell.ModShift != 0,
		Alt:   ev.Modifiers()&tcell.ModAlt != 0,
	}
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !t.mouseDown:
		t.mouseDown = true
		t.sess.Tools.HandlePointer(tool.PointerEvent{Kind: tool.PointerDown, Pos: pos, Mods: mods})
	case pressed && t.mouseDown:
		t.sess.Tools.HandlePointer(tool.PointerEvent{Kind: tool.PointerMove, Pos: pos, Mods: mods})
	case !pressed && t.mouseDown:
		t.mouseDown = false
		t.sess.Tools.HandlePointer(tool.PointerEvent{Kind: tool.PointerUp, Pos: pos, Mods: mods})
	}
}

// ---------------------------------------------------------------------------
// Coordinate mapping
// ---------------------------------------------------------------------------

func (t *tui) planToScreen(p plan.Point) (int, int) {
	return int((p.X - t.offX) * t.scaleX), int((p.Y - t.offY) * t.scaleY)
}

func (t *tui) screenToPlan(x, y int) plan.Point {
	return plan.Point{X: float64(x)/t.scaleX + t.offX, Y: float64(y)/t.scaleY + t.offY}
}

// ---------------------------------------------------------------------------
// plan.Layer implementation
// ---------------------------------------------------------------------------

func (t *tui) styleFor(style plan.Style) tcell.Style {
	base := tcell.StyleDefault
	switch {
	case style.Preview:
		return base.Foreground(tcell.ColorGreen)
	case style.Selected:
		return base.Foreground(tcell.ColorYellow).Bold(true)
	case style.Highlighted:
		return base.Foreground(tcell.ColorAqua)
	}
	return base
}

// Line draws a plan-space segment with Bresenham over cells.
func (t *tui) Line(a, b plan.Point, style plan.Style) {
	x0, y0 := t.planToScreen(a)
	x1, y1 := t.planToScreen(b)
	glyph := lineGlyph(x1-x0, y1-y0)
	st := t.styleFor(style)

	dx, sx := absInt(x1-x0), 1
	if x0 > x1 {
		sx = -1
	}
	dy, sy := -absInt(y1-y0), 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		t.screen.SetContent(x0, y0, glyph, nil, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Marker draws a single glyph at a plan-space point.
func (t *tui) Marker(p plan.Point, glyph rune, style plan.Style) {
	x, y := t.planToScreen(p)
	t.screen.SetContent(x, y, glyph, nil, t.styleFor(style))
}

// Label writes text starting at a plan-space point.
func (t *tui) Label(p plan.Point, text string, style plan.Style) {
	x, y := t.planToScreen(p)
	st := t.styleFor(style)
	for i, r := range text {
		t.screen.SetContent(x+i, y, r, nil, st)
	}
}

func lineGlyph(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ---------------------------------------------------------------------------
// Frame drawing
// ---------------------------------------------------------------------------

func (t *tui) draw() {
	t.screen.Clear()

	for _, w := range t.sess.Graph.Walls() {
		w.Render(t)
	}
	for _, d := range t.sess.Doors.All() {
		d.Render(t)
	}
	for _, w := range t.sess.Windows.All() {
		w.Render(t)
	}
	for _, n := range t.sess.Graph.Nodes() {
		n.Render(t)
	}
	for _, r := range t.sess.Rooms.All() {
		t.drawRoomLabel(r)
	}
	t.drawPreview()
	t.drawStatus()
	t.screen.Show()
}

func (t *tui) drawRoomLabel(r *plan.Room) {
	var sum plan.Point
	count := 0
	for _, wid := range r.Walls {
		w := t.sess.Graph.Wall(wid)
		if w == nil {
			continue
		}
		mid := w.PointAt(0.5)
		sum.X += mid.X
		sum.Y += mid.Y
		count++
	}
	if count == 0 {
		return
	}
	center := plan.Point{X: sum.X / float64(count), Y: sum.Y / float64(count)}
	label := fmt.Sprintf("%s (%.1f m²)", r.Name, r.Area/10000)
	t.Label(center, label, plan.Style{})
}

func (t *tui) drawPreview() {
	if !t.preview.Active {
		return
	}
	st := plan.Style{Preview: true}
	if !t.preview.Valid {
		// Red overrides the preview green for rejected placements.
		x0, y0 := t.planToScreen(t.preview.From)
		x1, y1 := t.planToScreen(t.preview.To)
		bad := tcell.StyleDefault.Foreground(tcell.ColorRed)
		t.screen.SetContent(x0, y0, 'x', nil, bad)
		t.screen.SetContent(x1, y1, 'x', nil, bad)
		return
	}
	if t.preview.From == t.preview.To {
		t.Marker(t.preview.From, '+', st)
		return
	}
	t.Line(t.preview.From, t.preview.To, st)
}

func (t *tui) drawStatus() {
	_, h := t.screen.Size()
	counts := t.sess.Counts()
	active := ""
	if tl := t.sess.Tools.Active(); tl != nil {
		active = tl.Name()
	}
	line := fmt.Sprintf("[%s] nodes:%d walls:%d doors:%d windows:%d rooms:%d | %s",
		active, counts.Nodes, counts.Walls, counts.Doors, counts.Windows, counts.Rooms, t.status)
	st := tcell.StyleDefault.Reverse(true)
	w, _ := t.screen.Size()
	runes := []rune(line)
	for i := 0; i < w; i++ {
		r := ' '
		if i < len(runes) {
			r = runes[i]
		}
		t.screen.SetContent(i, h-1, r, nil, st)
	}
}
