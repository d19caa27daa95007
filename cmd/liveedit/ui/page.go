package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"liveedit/internal/authority"
	"liveedit/internal/drag"
	"liveedit/internal/geometry"
	"liveedit/internal/logging"
	"liveedit/internal/overlay"
	"liveedit/internal/store"
)

// pxPerCell maps page pixels to terminal cells: 10 px per column, 20 px
// per row. Pointer coordinates are scaled up before they reach the drag
// controllers, so all geometry stays in pixels.
const (
	pxPerCellX = 10
	pxPerCellY = 20
)

// Demo region identities. The FilePath/ComponentName pairs mimic the
// storefront sources these regions would live in.
var (
	titleMeta = overlay.Meta{FilePath: "src/pages/Home.jsx", ComponentName: "HeroTitle"}
	imageMeta = overlay.Meta{FilePath: "src/pages/Home.jsx", ComponentName: "HeroImage"}
	boxMeta   = overlay.Meta{FilePath: "src/pages/Home.jsx", ComponentName: "PromoBox"}
)

// clearFlashMsg dismisses the transient saved badge / error flash.
type clearFlashMsg struct{}

// savedSink collects the one-shot "saved" notifications widgets emit
// while an input event is being handled.
type savedSink struct {
	id string
}

func (s *savedSink) Saved(regionID string) { s.id = regionID }

func (s *savedSink) take() (string, bool) {
	id := s.id
	s.id = ""
	return id, id != ""
}

// PageConfig wires the demo page to the real stores and authority.
type PageConfig struct {
	Authority *authority.Authority
	Content   *store.ContentStore
	Geometry  *store.GeometryStore
	Activity  *logging.ActivityLog
	Clamp     geometry.Clamp
	Picker    overlay.FilePicker
	Prompter  overlay.Prompter
	Log       *zap.Logger
	Styles    Styles
}

// PageModel is the demo storefront page: an editable headline, a
// replaceable hero image with body-drag resize, and a promo box with
// corner-handle resize.
type PageModel struct {
	cfg    PageConfig
	auth   *authority.Authority
	styles Styles

	text *overlay.EditableText
	img  *overlay.EditableImage

	boxCtrl *drag.Controller
	boxSize geometry.Size

	sink  *savedSink
	saved string
	flash string

	showLog bool
	logView viewport.Model

	width  int
	height int
}

// NewPage builds the page and mounts its regions, loading persisted
// content and geometry.
func NewPage(cfg PageConfig) PageModel {
	sink := &savedSink{}
	deps := overlay.Deps{
		Gate:     cfg.Authority,
		Content:  cfg.Content,
		Geometry: cfg.Geometry,
		Activity: cfg.Activity,
		Picker:   cfg.Picker,
		Prompter: cfg.Prompter,
		Notifier: sink,
		Log:      cfg.Log,
	}

	m := PageModel{
		cfg:    cfg,
		auth:   cfg.Authority,
		styles: cfg.Styles,
		sink:   sink,
		text: overlay.NewEditableText(
			"hero-title", "Fresh Gear, Every Season", titleMeta, deps),
		img: overlay.NewEditableImage(
			"hero-image", "/img/hero-default.png",
			geometry.WidthOnly(300), cfg.Clamp, imageMeta, deps),
		logView: viewport.New(80, 8),
	}

	m.boxSize = cfg.Geometry.Load("promo-box", geometry.FixedSize(300, 100))
	m.boxCtrl = drag.New(drag.Config{
		RegionID: "promo-box",
		Clamp:    cfg.Clamp,
		Policy:   drag.AspectFree,
		Active:   cfg.Authority.ResizeMode,
		Store:    cfg.Geometry,
		Log:      cfg.Log,
	})
	return m
}

func (m PageModel) Init() tea.Cmd {
	return nil
}

func (m PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		return m, nil

	case clearFlashMsg:
		m.saved = ""
		m.flash = ""
		return m, nil

	case ConfigReloadedMsg:
		m.styles = NewStyles(msg.Theme)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.showLog {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m PageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.text.Editing() {
		switch msg.String() {
		case "enter":
			m.text.Enter()
			return m.drainSaved()
		case "esc":
			m.text.Cancel()
			return m, nil
		case "backspace":
			m.text.Backspace()
			return m, nil
		case " ":
			m.text.Input(' ')
			return m, nil
		default:
			if msg.Type == tea.KeyRunes {
				for _, r := range msg.Runes {
					m.text.Input(r)
				}
			}
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.img.Unmount()
		m.boxCtrl.Cancel()
		return m, tea.Quit
	case "e":
		m.auth.SetEditMode(!m.auth.EditMode(), "keyboard")
		return m, nil
	case "r":
		m.auth.SetResizeMode(!m.auth.ResizeMode(), "keyboard")
		return m, nil
	case "l":
		m.showLog = !m.showLog
		if m.showLog {
			m.refreshLog()
		}
		return m, nil
	case "esc":
		m.boxCtrl.Cancel()
		m.img.Unmount()
		return m, nil
	}
	return m, nil
}

func (m PageModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	at := geometry.Point{X: msg.X * pxPerCellX, Y: msg.Y * pxPerCellY}
	cell := geometry.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonRight {
			if m.imgRect().Contains(cell) {
				m.img.SecondaryClick()
				return m.drainSaved()
			}
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.handlePress(cell, at)

	case tea.MouseActionMotion:
		if m.img.Dragging() {
			m.img.DragMove(at)
			return m, nil
		}
		if m.boxCtrl.Dragging() {
			if size, ok := m.boxCtrl.Move(at); ok {
				m.boxSize = size
			}
			return m, nil
		}

	case tea.MouseActionRelease:
		if m.img.Dragging() {
			m.img.DragEnd()
			return m.drainSaved()
		}
		if m.boxCtrl.Dragging() {
			if final, ok := m.boxCtrl.End(); ok {
				m.boxSize = final
				m.recordBoxResize(final)
				m.saved = "promo-box"
				return m, m.flashTimer()
			}
		}
	}
	return m, nil
}

func (m PageModel) handlePress(cell, at geometry.Point) (tea.Model, tea.Cmd) {
	// A press outside the headline commits any in-flight edit first.
	if m.text.Editing() && !m.textRect().Contains(cell) {
		m.text.Blur()
		if model, cmd := m.drainSaved(); cmd != nil {
			return model, cmd
		}
	}

	if m.textRect().Contains(cell) {
		m.text.Focus()
		return m, nil
	}

	if r := m.imgRect(); r.Contains(cell) {
		// Bottom-right corner starts a body drag; anywhere else is the
		// click-to-replace path.
		corner := geometry.Rect{X: r.Right() - 2, Y: r.Bottom() - 1, Width: 2, Height: 1}
		if corner.Contains(cell) {
			if err := m.img.DragStart(at); err != nil {
				m.cfg.logger().Debug("image drag rejected", zap.Error(err))
			}
			return m, nil
		}
		if err := m.img.Click(); err != nil {
			m.flash = err.Error()
			return m, m.flashTimer()
		}
		return m.drainSaved()
	}

	if r := m.boxRect(); r.Contains(cell) {
		if h, ok := cornerHandle(r, cell); ok {
			if err := m.boxCtrl.Start(h, at, m.boxSize); err != nil {
				m.cfg.logger().Debug("box drag rejected", zap.Error(err))
			}
		}
		return m, nil
	}
	return m, nil
}

// cornerHandle maps a press within one cell of a rect corner to the
// matching resize handle.
func cornerHandle(r geometry.Rect, p geometry.Point) (geometry.Handle, bool) {
	near := func(x, y int) bool {
		return abs(p.X-x) <= 1 && abs(p.Y-y) <= 1
	}
	switch {
	case near(r.X, r.Y):
		return geometry.HandleNW, true
	case near(r.Right()-1, r.Y):
		return geometry.HandleNE, true
	case near(r.X, r.Bottom()-1):
		return geometry.HandleSW, true
	case near(r.Right()-1, r.Bottom()-1):
		return geometry.HandleSE, true
	}
	return 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (m PageModel) drainSaved() (tea.Model, tea.Cmd) {
	if id, ok := m.sink.take(); ok {
		m.saved = id
		return m, m.flashTimer()
	}
	return m, nil
}

func (m PageModel) flashTimer() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearFlashMsg{}
	})
}

func (m *PageModel) refreshLog() {
	if m.cfg.Activity == nil {
		m.logView.SetContent("Activity log not available.")
		return
	}
	entries, err := m.cfg.Activity.Entries()
	if err != nil {
		m.logView.SetContent(fmt.Sprintf("Cannot read activity log: %v", err))
		return
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s  %-24s %s\n",
			e.UpdatedAt.Format("15:04:05"), e.ComponentName, e.Text))
	}
	if sb.Len() == 0 {
		sb.WriteString("No activity yet.")
	}
	m.logView.SetContent(sb.String())
	m.logView.GotoBottom()
}

func (m PageModel) recordBoxResize(final geometry.Size) {
	if m.cfg.Activity == nil {
		return
	}
	m.cfg.Activity.Append(logging.ActivityEntry{
		Text:          fmt.Sprintf("Resized promo box to %s×%s", final.Width, final.Height),
		FilePath:      boxMeta.FilePath,
		ComponentName: boxMeta.ComponentName,
		TriggeredBy:   "mouse",
	})
}

func (c PageConfig) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// Layout. Regions are stacked with fixed origins; widths follow the
// live pixel sizes so hit testing matches what is drawn.

func (m PageModel) textRect() geometry.Rect {
	return geometry.Rect{X: 2, Y: 1, Width: 46, Height: 3}
}

func (m PageModel) imgRect() geometry.Rect {
	w := 12
	if px, ok := m.img.Size().Width.Px(); ok {
		w = px/pxPerCellX + 2
	}
	return geometry.Rect{X: 2, Y: 5, Width: w, Height: 7}
}

func (m PageModel) boxRect() geometry.Rect {
	w, h := 32, 7
	if px, ok := m.boxSize.Width.Px(); ok {
		w = px/pxPerCellX + 2
	}
	if px, ok := m.boxSize.Height.Px(); ok {
		h = px/pxPerCellY + 2
	}
	return geometry.Rect{X: 2, Y: 13, Width: w, Height: h}
}

func (m PageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("liveedit demo storefront"))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderText())
	sb.WriteString("\n")
	sb.WriteString(m.renderImage())
	sb.WriteString("\n")
	sb.WriteString(m.renderBox())
	sb.WriteString("\n")

	if m.showLog {
		sb.WriteString(m.styles.Region.Render(m.logView.View()))
		sb.WriteString("\n")
	}

	sb.WriteString(m.statusBar())
	return sb.String()
}

func (m PageModel) renderText() string {
	style := m.styles.Region
	content := m.text.Text()
	if m.text.Editing() {
		style = m.styles.Editing
		content += "▌"
	}
	return style.Width(m.textRect().Width - 2).Render(content)
}

func (m PageModel) renderImage() string {
	r := m.imgRect()
	style := m.styles.Region
	if m.img.Dragging() {
		style = m.styles.Highlight
	}
	label := truncate(m.img.Source(), r.Width-4)
	body := lipgloss.Place(r.Width-2, r.Height-2, lipgloss.Center, lipgloss.Center, label)
	out := style.Render(body)
	if m.img.Dragging() {
		if w, ok := m.img.Size().Width.Px(); ok {
			out += "\n" + m.styles.SizeLabel.Render(fmt.Sprintf("%d px", w))
		}
	}
	return out
}

func (m PageModel) renderBox() string {
	r := m.boxRect()
	style := m.styles.Region
	if m.boxCtrl.Dragging() {
		style = m.styles.Highlight
	}
	body := lipgloss.Place(r.Width-2, r.Height-2, lipgloss.Center, lipgloss.Center, "PROMO")
	out := style.Render(body)
	if m.boxCtrl.Dragging() {
		out += "\n" + m.styles.SizeLabel.Render(
			fmt.Sprintf("%s × %s", m.boxSize.Width, m.boxSize.Height))
	}
	return out
}

func (m PageModel) statusBar() string {
	state := m.auth.Snapshot()
	mode := func(label string, on bool) string {
		if on {
			return m.styles.ModeOn.Render(label + " on")
		}
		return m.styles.ModeOff.Render(label + " off")
	}

	parts := []string{
		mode("edit", state.EditMode),
		mode("resize", state.ResizeMode),
	}
	if m.saved != "" {
		parts = append(parts, m.styles.SavedBadge.Render("saved "+m.saved))
	}
	if m.flash != "" {
		parts = append(parts, m.styles.ErrorFlash.Render(m.flash))
	}
	parts = append(parts, m.styles.Help.Render("e edit · r resize · l log · esc cancel · q quit"))

	return m.styles.StatusBar.Render(strings.Join(parts, "  "))
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
