package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"taskboard/internal/board"
	"taskboard/internal/domain"

	"github.com/dustin/go-humanize"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	viewHeader = "header"
	viewFooter = "footer"
)

// Remote is the task API the board talks to.
type Remote interface {
	board.TaskLister
	board.StatusUpdater
}

type Options struct {
	PerPage  int
	Rollback bool
	Logger   *slog.Logger
}

type UI struct {
	engine *board.Engine
	gui    *gocui.Gui
	ctx    context.Context
	post   func(func())

	focus    int
	selected [3]int
	failed   []board.Move
	status   string
	loading  bool
	loads    sync.WaitGroup
}

// Run opens the terminal board and blocks until the user quits.
func Run(ctx context.Context, remote Remote, opts Options) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	post := func(fn func()) {
		gui.Update(func(*gocui.Gui) error {
			fn()
			return nil
		})
	}
	ui := newUI(ctx, remote, opts, post)
	ui.gui = gui

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.engine.Load(ctx); err != nil {
		ui.status = "load failed: " + err.Error()
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func newUI(ctx context.Context, remote Remote, opts Options, post func(func())) *UI {
	u := &UI{ctx: ctx, post: post}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	engineOpts := []board.Option{
		board.WithPost(post),
		board.WithHandler(u.onEvent),
		board.WithQuery(board.ListQuery{Page: 1, PerPage: perPage}),
	}
	if opts.Rollback {
		engineOpts = append(engineOpts, board.WithRollback())
	}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, board.WithLogger(opts.Logger))
	}
	u.engine = board.NewEngine(remote, remote, engineOpts...)
	return u
}

func columnView(s domain.Status) string {
	return "col_" + string(s)
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	bindings := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'h', u.focusLeft},
		{gocui.KeyArrowLeft, u.focusLeft},
		{'l', u.focusRight},
		{gocui.KeyArrowRight, u.focusRight},
		{'j', u.moveDown},
		{gocui.KeyArrowDown, u.moveDown},
		{'k', u.moveUp},
		{gocui.KeyArrowUp, u.moveUp},
		{'H', u.dragLeft},
		{'L', u.dragRight},
		{'J', u.reorderDown},
		{'K', u.reorderUp},
		{'r', u.reload},
		{'u', u.revertLast},
		{'n', u.nextPage},
		{'p', u.prevPage},
	}
	for _, b := range bindings {
		if err := gui.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	u.renderHeader(headerView)

	footerY0 := maxY - 3
	if footerY0 < 2 {
		footerY0 = 2
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, maxY-1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	u.renderFooter(footerView)

	b := u.engine.Board()
	width := maxX / 3
	for i, s := range domain.Statuses() {
		x0 := i * width
		x1 := x0 + width - 1
		if i == 2 {
			x1 = maxX - 1
		}
		view, err := gui.SetView(columnView(s), x0, 1, x1, footerY0-1, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		cards := b.Column(s)
		view.Title = fmt.Sprintf("%s (%d)", s.Label(), len(cards))
		applyViewStyle(view, u.focus == i)
		u.renderColumn(view, cards, u.selected[i], u.focus == i)
	}
	_, _ = gui.SetCurrentView(columnView(domain.Statuses()[u.focus]))
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	p := u.engine.Page()
	fmt.Fprintf(view, "Task board | page %d/%d | %d tasks", max(p.CurrentPage, 1), max(p.LastPage, 1), p.Total)
	if n := len(u.engine.Board().Unplaced()); n > 0 {
		fmt.Fprintf(view, " | %d with unknown status", n)
	}
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "h/l column | j/k select | H/L move card | J/K reorder | u revert failed | r reload | n/p page | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderColumn(view *gocui.View, cards []*domain.Task, selected int, focused bool) {
	view.Clear()
	for i, t := range cards {
		prefix := " "
		if focused && i == selected {
			prefix = ">"
		}
		fmt.Fprintf(view, "%s %s\n", prefix, cardLine(t))
	}
	if len(cards) > 0 {
		view.SetCursor(0, min(selected, len(cards)-1))
	}
}

// cardLine renders one card: "#12 Title · alice · starts in 3 days".
func cardLine(t *domain.Task) string {
	parts := []string{fmt.Sprintf("#%d %s", t.ID, t.Title), t.OwnerName()}
	if !t.StartDate.IsZero() {
		parts = append(parts, "starts "+humanize.Time(t.StartDate.Time()))
	}
	return strings.Join(parts, " · ")
}

func applyViewStyle(view *gocui.View, focused bool) {
	view.Frame = true
	view.Highlight = focused
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
		view.TitleColor = gocui.ColorDefault
	}
}

func (u *UI) onEvent(ev board.Event) {
	switch ev.Kind {
	case board.MoveConfirmed:
		u.status = fmt.Sprintf("saved #%d as %s", ev.Move.TaskID, ev.Move.To.Column)
	case board.MoveFailed:
		if ev.Reverted {
			u.status = fmt.Sprintf("move of #%d failed and was undone: %v", ev.Move.TaskID, ev.Err)
			u.clampSelection()
			return
		}
		u.failed = append(u.failed, ev.Move)
		u.status = fmt.Sprintf("move of #%d to %s failed: %v (u to revert)", ev.Move.TaskID, ev.Move.To.Column, ev.Err)
	}
}

func (u *UI) columnLen(i int) int {
	return len(u.engine.Board().Column(domain.Statuses()[i]))
}

func (u *UI) clampSelection() {
	for i := range u.selected {
		n := u.columnLen(i)
		if u.selected[i] >= n {
			u.selected[i] = n - 1
		}
		if u.selected[i] < 0 {
			u.selected[i] = 0
		}
	}
}

func (u *UI) focusLeft(_ *gocui.Gui, _ *gocui.View) error {
	if u.focus > 0 {
		u.focus--
	}
	return nil
}

func (u *UI) focusRight(_ *gocui.Gui, _ *gocui.View) error {
	if u.focus < 2 {
		u.focus++
	}
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.selected[u.focus] < u.columnLen(u.focus)-1 {
		u.selected[u.focus]++
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.selected[u.focus] > 0 {
		u.selected[u.focus]--
	}
	return nil
}

func (u *UI) dragLeft(_ *gocui.Gui, _ *gocui.View) error {
	if u.focus == 0 {
		return nil
	}
	return u.dragTo(u.focus-1, u.columnLen(u.focus-1))
}

func (u *UI) dragRight(_ *gocui.Gui, _ *gocui.View) error {
	if u.focus == 2 {
		return nil
	}
	return u.dragTo(u.focus+1, u.columnLen(u.focus+1))
}

func (u *UI) reorderDown(_ *gocui.Gui, _ *gocui.View) error {
	return u.dragTo(u.focus, u.selected[u.focus]+1)
}

func (u *UI) reorderUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.selected[u.focus] == 0 {
		return nil
	}
	return u.dragTo(u.focus, u.selected[u.focus]-1)
}

// dragTo drags the selected card of the focused column to column col at
// index. Selection follows the card.
func (u *UI) dragTo(col, index int) error {
	if u.columnLen(u.focus) == 0 {
		return nil
	}
	statuses := domain.Statuses()
	m, err := u.engine.Drag(board.Drag{
		Source:      board.Location{Column: statuses[u.focus], Index: u.selected[u.focus]},
		Destination: &board.Location{Column: statuses[col], Index: index},
	})
	if err != nil {
		u.status = err.Error()
		return nil
	}
	u.focus = col
	u.selected[col] = m.To.Index
	u.clampSelection()
	if m.CrossColumn() {
		u.status = fmt.Sprintf("moving #%d to %s...", m.TaskID, m.To.Column)
	}
	return nil
}

func (u *UI) revertLast(_ *gocui.Gui, _ *gocui.View) error {
	if len(u.failed) == 0 {
		u.status = "nothing to revert"
		return nil
	}
	m := u.failed[len(u.failed)-1]
	u.failed = u.failed[:len(u.failed)-1]

	if err := u.engine.Revert(m); err != nil {
		if board.IsStale(err) {
			u.status = fmt.Sprintf("#%d has moved since; not reverted", m.TaskID)
			return nil
		}
		u.status = err.Error()
		return nil
	}
	u.status = fmt.Sprintf("#%d back in %s (not saved)", m.TaskID, m.From.Column)
	u.clampSelection()
	return nil
}

// reload fetches off the main loop and applies the outcome through post.
func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.loading {
		return nil
	}
	u.loading = true
	u.status = "loading..."
	u.loads.Add(1)
	go func() {
		defer u.loads.Done()
		err := u.engine.Load(u.ctx)
		u.post(func() { u.loaded(err) })
	}()
	return nil
}

func (u *UI) loaded(err error) {
	u.loading = false
	if err != nil {
		u.status = "reload failed: " + err.Error()
		return
	}
	// failed moves refer to the old columns
	u.failed = nil
	u.status = ""
	u.clampSelection()
}

func (u *UI) nextPage(g *gocui.Gui, v *gocui.View) error {
	p := u.engine.Page()
	if u.loading || p.CurrentPage >= p.LastPage {
		return nil
	}
	u.engine.SetPage(p.CurrentPage + 1)
	return u.reload(g, v)
}

func (u *UI) prevPage(g *gocui.Gui, v *gocui.View) error {
	p := u.engine.Page()
	if u.loading || p.CurrentPage <= 1 {
		return nil
	}
	u.engine.SetPage(p.CurrentPage - 1)
	return u.reload(g, v)
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}
