package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/project/watcher"
)

// editor is a single-window view over the registry's buffers.
type editor struct {
	screen  tcell.Screen
	reg     *buffer.Registry
	buf     *buffer.Buffer
	log     *logging.Logger
	tabSize int

	// Scroll offsets: first visible line and first visible display column.
	top  int
	left int
	// goal is the display column kept across vertical moves.
	goal int

	status    string
	quitArmed bool
	quit      bool
}

func newEditor(screen tcell.Screen, reg *buffer.Registry, buf *buffer.Buffer, log *logging.Logger, tabSize int) *editor {
	return &editor{
		screen:  screen,
		reg:     reg,
		buf:     buf,
		log:     log,
		tabSize: tabSize,
		goal:    -1,
	}
}

// run draws and handles events until the user quits.
func (e *editor) run() {
	for !e.quit {
		e.draw()
		ev := e.screen.PollEvent()
		if ev == nil {
			return
		}
		e.handle(ev)
	}
}

func (e *editor) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		e.handleKey(ev)
	case *tcell.EventResize:
		e.screen.Sync()
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case watcher.Event:
			e.fileChanged(data)
		case os.Signal:
			e.log.Info("received %v", data)
			e.quit = true
		}
	}
}

// commands maps Ctrl+letter to editor commands.
var commands = map[rune]func(e *editor){
	'q': (*editor).quitCmd,
	'z': func(e *editor) { e.report(e.buf.Undo()) },
	'y': func(e *editor) { e.report(e.buf.Redo()) },
	'b': (*editor).nextBranch,
	's': (*editor).save,
	'r': (*editor).reload,
	'n': (*editor).nextBuffer,
}

// ctrlLetter returns the letter of a Ctrl+letter key. Terminals report
// these either as control key codes or as a rune with ModCtrl.
func ctrlLetter(ev *tcell.EventKey) (rune, bool) {
	k := ev.Key()
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return 'a' + rune(k-tcell.KeyCtrlA), true
	}
	if k == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 {
		r := ev.Rune()
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return r, true
	}
	return 0, false
}

func (e *editor) handleKey(ev *tcell.EventKey) {
	e.status = ""
	if c, ok := ctrlLetter(ev); ok {
		if cmd := commands[c]; cmd != nil {
			if c != 'q' {
				e.quitArmed = false
			}
			cmd(e)
			e.goal = -1
			return
		}
	}
	e.quitArmed = false
	vertical := false

	switch ev.Key() {
	case tcell.KeyEnter:
		e.insert(e.buf.LineEnding().Sequence())
	case tcell.KeyTab:
		e.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.deleteForward()
	case tcell.KeyLeft:
		e.moveLeft()
	case tcell.KeyRight:
		e.moveRight()
	case tcell.KeyUp:
		e.moveVertical(-1)
		vertical = true
	case tcell.KeyDown:
		e.moveVertical(1)
		vertical = true
	case tcell.KeyHome:
		e.buf.SetCursor(cursor.Pos(e.buf.Cursor().Line, 0))
	case tcell.KeyEnd:
		line := e.buf.Cursor().Line
		e.buf.SetCursor(cursor.Pos(line, e.contentLength(line)))
	case tcell.KeyRune:
		e.insert(string(ev.Rune()))
	}

	if !vertical {
		e.goal = -1
	}
}

func (e *editor) insert(s string) {
	if err := e.buf.InsertString(e.buf.Cursor(), s); err != nil {
		e.fail(err)
	}
}

func (e *editor) backspace() {
	pos := e.buf.Cursor()
	start := pos
	switch {
	case pos.Column > 0:
		start.Column = cursor.PrevGrapheme(e.buf.Line(pos.Line), pos.Column)
	case pos.Line > 0:
		start = cursor.Pos(pos.Line-1, e.contentLength(pos.Line-1))
	default:
		return
	}
	if err := e.buf.Delete(cursor.NewRange(start, pos)); err != nil {
		e.fail(err)
	}
}

func (e *editor) deleteForward() {
	pos := e.buf.Cursor()
	line := e.buf.Line(pos.Line)
	end := pos
	switch {
	case pos.Column < e.contentLength(pos.Line):
		end.Column = cursor.NextGrapheme(line, pos.Column)
	case pos.Line < e.buf.LineCount()-1:
		end = cursor.Pos(pos.Line+1, 0)
	default:
		return
	}
	if err := e.buf.Delete(cursor.NewRange(pos, end)); err != nil {
		e.fail(err)
	}
}

func (e *editor) moveLeft() {
	pos := e.buf.Cursor()
	switch {
	case pos.Column > 0:
		pos.Column = cursor.PrevGrapheme(e.buf.Line(pos.Line), pos.Column)
	case pos.Line > 0:
		pos = cursor.Pos(pos.Line-1, e.contentLength(pos.Line-1))
	}
	e.buf.SetCursor(pos)
}

func (e *editor) moveRight() {
	pos := e.buf.Cursor()
	switch {
	case pos.Column < e.contentLength(pos.Line):
		pos.Column = cursor.NextGrapheme(e.buf.Line(pos.Line), pos.Column)
	case pos.Line < e.buf.LineCount()-1:
		pos = cursor.Pos(pos.Line+1, 0)
	}
	e.buf.SetCursor(pos)
}

// moveVertical moves by delta lines, keeping the display column.
func (e *editor) moveVertical(delta int) {
	pos := e.buf.Cursor()
	target := pos.Line + delta
	if target < 0 || target >= e.buf.LineCount() {
		return
	}
	if e.goal < 0 {
		e.goal = cursor.DisplayColumn(e.buf.Line(pos.Line), pos.Column, e.tabSize)
	}
	line := e.buf.Line(target)
	col := min(cursor.ByteColumn(line, e.goal, e.tabSize), e.contentLength(target))
	e.buf.SetCursor(cursor.Pos(target, col))
}

// contentLength returns the byte length of line without a trailing
// carriage return, so CRLF pairs are treated as one line break.
func (e *editor) contentLength(line int) int {
	text := e.buf.Line(line)
	if bytes.HasSuffix(text, []byte{'\r'}) {
		return len(text) - 1
	}
	return len(text)
}

func (e *editor) nextBranch() {
	n := e.buf.BranchCount()
	if n < 2 {
		e.status = "no other undo branch here"
		return
	}
	next := (e.buf.ActiveBranch() + 1) % n
	if err := e.buf.SwitchBranch(next); err != nil {
		e.fail(err)
		return
	}
	e.status = fmt.Sprintf("redo follows branch %d of %d", next+1, n)
}

func (e *editor) save() {
	if err := e.buf.Save(); err != nil {
		e.fail(err)
		return
	}
	e.reg.ClearStale(e.buf.ID())
	e.status = fmt.Sprintf("wrote %s (%d bytes)", e.buf.Name(), e.buf.Len())
}

func (e *editor) reload() {
	if err := e.reg.Reload(e.buf.ID()); err != nil {
		e.fail(err)
		return
	}
	e.top, e.left = 0, 0
	e.status = "reloaded " + e.buf.Name()
}

func (e *editor) nextBuffer() {
	list := e.reg.List()
	for i, b := range list {
		if b == e.buf {
			e.buf = list[(i+1)%len(list)]
			break
		}
	}
	e.top, e.left = 0, 0
	e.status = e.buf.Name()
}

func (e *editor) quitCmd() {
	if e.quitArmed {
		e.quit = true
		return
	}
	for _, b := range e.reg.List() {
		if b.Modified() {
			e.quitArmed = true
			e.status = b.Name() + " has unsaved changes; Ctrl-Q again to quit"
			return
		}
	}
	e.quit = true
}

func (e *editor) fileChanged(ev watcher.Event) {
	b, changed := e.reg.HandleEvent(ev)
	if !changed {
		return
	}
	e.log.Debug("external change: %s %s", ev.Op, ev.Path)
	if b == e.buf {
		e.status = b.Name() + " changed on disk; Ctrl-R to reload"
	}
}

// report shows the outcome of undo or redo.
func (e *editor) report(ok bool, err error) {
	switch {
	case err != nil:
		e.fail(err)
	case !ok:
		e.status = "nothing to do"
	}
}

func (e *editor) fail(err error) {
	if errors.Is(err, buffer.ErrReadOnly) {
		e.status = "buffer is read-only"
		return
	}
	e.log.Warn("%s: %v", e.buf.Name(), err)
	e.status = err.Error()
}

// draw paints the visible lines and the status line.
func (e *editor) draw() {
	e.screen.Clear()
	width, height := e.screen.Size()
	rows := height - 1
	if rows < 1 || width < 1 {
		e.screen.Show()
		return
	}

	pos := e.buf.Cursor()
	line := e.buf.Line(pos.Line)
	cx := cursor.DisplayColumn(line, pos.Column, e.tabSize)
	e.scrollTo(pos.Line, cx, width, rows)

	for y := 0; y < rows; y++ {
		n := e.top + y
		if n >= e.buf.LineCount() {
			e.screen.SetContent(0, y, '~', nil, tcell.StyleDefault.Foreground(tcell.ColorBlue))
			continue
		}
		e.drawLine(y, e.buf.Line(n), width)
	}
	e.drawStatus(height-1, width)

	e.screen.ShowCursor(cx-e.left, pos.Line-e.top)
	e.screen.Show()
}

func (e *editor) scrollTo(line, col, width, rows int) {
	if line < e.top {
		e.top = line
	}
	if line >= e.top+rows {
		e.top = line - rows + 1
	}
	if col < e.left {
		e.left = col
	}
	if col >= e.left+width {
		e.left = col - width + 1
	}
}

// drawLine paints the grapheme clusters of text on row y, expanding tabs.
func (e *editor) drawLine(y int, text []byte, width int) {
	col := 0
	g := uniseg.NewGraphemes(string(text))
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		switch {
		case runes[0] == '\t':
			w = e.tabSize - col%e.tabSize
			runes = []rune{' '}
		case runes[0] == '\r':
			continue
		case w == 0:
			w = 1
			runes = []rune{'?'}
		}

		x := col - e.left
		col += w
		if x < 0 {
			continue
		}
		if x >= width {
			return
		}
		if runes[0] == ' ' && w > 1 {
			for i := 0; i < w && x+i < width; i++ {
				e.screen.SetContent(x+i, y, ' ', nil, tcell.StyleDefault)
			}
			continue
		}
		e.screen.SetContent(x, y, runes[0], runes[1:], tcell.StyleDefault)
	}
}

func (e *editor) drawStatus(y, width int) {
	style := tcell.StyleDefault.Reverse(true)
	text := e.statusText()
	x := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() && x < width {
		runes := g.Runes()
		e.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += max(g.Width(), 1)
	}
	for ; x < width; x++ {
		e.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (e *editor) statusText() string {
	b := e.buf
	flags := ""
	if b.Modified() {
		flags += " [+]"
	}
	if b.ReadOnly() {
		flags += " [RO]"
	}
	if e.reg.IsStale(b.ID()) {
		flags += " [changed on disk]"
	}
	pos := b.Cursor()
	s := fmt.Sprintf(" %s%s  %s  %s %s  Ln %d, Col %d",
		b.Name(), flags, b.Language(), b.Encoding(), b.LineEnding(), pos.Line+1, pos.Column+1)
	if n := b.BranchCount(); n > 1 {
		s += fmt.Sprintf("  branch %d/%d", b.ActiveBranch()+1, n)
	}
	if e.status != "" {
		s += "  | " + e.status
	}
	return s
}
