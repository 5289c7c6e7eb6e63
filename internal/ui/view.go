package ui

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mathsticks/internal/segments"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type drawMsg struct{}
type animateMsg time.Time

type gameKeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Segments key.Binding
	Submit   key.Binding
	Reset    key.Binding
	NewGame  key.Binding
	EndRun   key.Binding
	Skip     key.Binding
	Rules    key.Binding
	Stats    key.Binding
	Tutorial key.Binding
	Quit     key.Binding
}

func (k gameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Segments, k.Submit, k.Reset, k.NewGame, k.Rules, k.Quit}
}

func (k gameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Segments, k.Submit},
		{k.Reset, k.NewGame, k.EndRun, k.Skip},
		{k.Rules, k.Stats, k.Tutorial, k.Quit},
	}
}

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string
	mouseScope   string

	mu      sync.Mutex
	program *tea.Program
	running bool

	layout LayoutMode
	cols   int
	rows   int

	board       BoardState
	selected    int
	statusFlash string

	rulesMD   string
	rulesOpen bool
	infoTitle string
	infoText  string
	infoOpen  bool

	help       help.Model
	keymap     gameKeyMap
	timer      progress.Model
	busySpin   spinner.Model
	markdown   *glamour.TermRenderer
	logger     *clog.Logger
	scoreShown float64
	scoreVel   float64
	spring     harmonica.Spring

	drawPending atomic.Bool
	calls       *dispatcher

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
	MouseScope   string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "mathsticks-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(56),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	mouseScope := normalizeMouseScope(opts.MouseScope)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	switch motionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	case "off":
		spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	timer := progress.New(
		progress.WithWidth(24),
		progress.WithColors(lipgloss.Color("#FF6F91"), lipgloss.Color("#F2D16B"), lipgloss.Color("#79E6A6")),
		progress.WithScaled(true),
	)
	timer.ShowPercentage = false
	if motionLevel == "off" {
		timer.SetSpringOptions(1000.0, 1.0)
	}
	busySpin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		mouseScope:   mouseScope,
		layout:       LayoutWide,
		cols:         100,
		rows:         30,
		help:         h,
		timer:        timer,
		busySpin:     busySpin,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
		calls:        newDispatcher(),
		board: BoardState{
			Tutorial: TutorialState{Step: TutorialInactive},
		},
	}
	r.keymap = gameKeyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "Prev digit")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "Next digit")),
		Segments: key.NewBinding(key.WithKeys("a", "b", "c", "d", "e", "f", "g"), key.WithHelp("a-g", "Toggle stick")),
		Submit:   key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Submit")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reset")),
		NewGame:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "New game")),
		EndRun:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Give up")),
		Skip:     key.NewBinding(key.WithKeys("esc", "s"), key.WithHelp("Esc", "Skip tutorial")),
		Rules:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Rules")),
		Stats:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Stats")),
		Tutorial: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Tutorial")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+q", "ctrl+c"), key.WithHelp("q", "Quit")),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(animateTickCmd(), spinnerTickCmd(r.busySpin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case drawMsg:
		r.drawPending.Store(false)
		return r, nil
	case animateMsg:
		target := float64(r.board.Score)
		r.scoreShown, r.scoreVel = r.spring.Update(r.scoreShown, r.scoreVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		r.scoreShown = target
		r.scoreVel = 0
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.busySpin, cmd = r.busySpin.Update(msg)
		return r, cmd
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 100
	}
	if r.rows < 1 {
		r.rows = 30
	}

	var base string
	if r.layout == LayoutTooSmall {
		base = r.renderTooSmall()
	} else {
		base = r.renderPlaying()
	}
	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	v.MouseMode = r.currentMouseMode()
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.calls.stop()
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
	r.calls.start()
}

func (r *Root) SetBoard(b BoardState) {
	r.apply(func(m *Root) {
		if len(b.Digits) > 0 && m.selected >= len(b.Digits) {
			m.selected = len(b.Digits) - 1
		}
		if b.Tutorial.Highlight {
			m.selected = b.Tutorial.HighlightDigit
		}
		if b.Score < m.board.Score || m.motionLevel == "off" {
			m.scoreShown = float64(b.Score)
			m.scoreVel = 0
		}
		m.board = b
	})
}

func (r *Root) SetRules(md string) {
	r.apply(func(m *Root) {
		m.rulesMD = md
	})
}

func (r *Root) SetInfo(title, text string, open bool) {
	r.apply(func(m *Root) {
		m.infoTitle = title
		m.infoText = text
		m.infoOpen = open
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) RequestDraw() {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !r.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		r.mu.Lock()
		p := r.program
		running := r.running
		r.mu.Unlock()
		if !running || p == nil {
			r.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

// apply runs fn on the model inside the program loop, or directly when the
// program is not running.
func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	r.calls.push(func() { fn(ctrl) })
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"))) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if r.overlayActive() {
		return r.handleOverlayKey(msg)
	}
	return r.handlePlayingKey(msg)
}

func (r *Root) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	confirm := key.Matches(msg, key.NewBinding(key.WithKeys("enter", "space")))
	back := key.Matches(msg, key.NewBinding(key.WithKeys("esc")))

	switch r.topOverlay() {
	case "info":
		if confirm || back || key.Matches(msg, r.keymap.Quit) {
			r.infoOpen = false
		}
	case "rules":
		if confirm || back || key.Matches(msg, r.keymap.Quit, r.keymap.Rules) {
			r.rulesOpen = false
		}
	case "tutorial_intro":
		switch {
		case confirm:
			r.dispatchController(func(c Controller) { c.OnTutorialStart() })
		case key.Matches(msg, r.keymap.Skip):
			r.dispatchController(func(c Controller) { c.OnTutorialSkip() })
		case key.Matches(msg, r.keymap.Quit):
			r.dispatchController(func(c Controller) { c.OnQuit() })
		}
	case "tutorial_done":
		if confirm || back {
			r.dispatchController(func(c Controller) { c.OnTutorialFinish() })
		}
	case "game_over":
		switch {
		case confirm || key.Matches(msg, r.keymap.NewGame):
			r.dispatchController(func(c Controller) { c.OnNewGame() })
		case key.Matches(msg, r.keymap.Stats):
			r.dispatchController(func(c Controller) { c.OnOpenStats() })
		case key.Matches(msg, r.keymap.Tutorial):
			r.dispatchController(func(c Controller) { c.OnReplayTutorial() })
		case key.Matches(msg, r.keymap.Quit):
			r.dispatchController(func(c Controller) { c.OnQuit() })
		}
	}
	return r, nil
}

func (r *Root) handlePlayingKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	n := len(r.board.Digits)
	switch {
	case key.Matches(msg, r.keymap.Left):
		r.selected = wrapIndex(r.selected-1, n)
		return r, nil
	case key.Matches(msg, r.keymap.Right):
		r.selected = wrapIndex(r.selected+1, n)
		return r, nil
	case key.Matches(msg, r.keymap.Segments):
		seg, ok := segments.Index([]rune(msg.String())[0])
		if !ok || n == 0 {
			return r, nil
		}
		digit := r.selected
		r.statusFlash = ""
		r.dispatchController(func(c Controller) { c.OnToggle(digit, seg) })
		return r, nil
	case key.Matches(msg, r.keymap.Submit):
		r.statusFlash = ""
		r.dispatchController(func(c Controller) { c.OnSubmit() })
		return r, nil
	case key.Matches(msg, r.keymap.Reset):
		r.dispatchController(func(c Controller) { c.OnReset() })
		return r, nil
	case key.Matches(msg, r.keymap.Skip):
		if r.board.Tutorial.Active() {
			r.dispatchController(func(c Controller) { c.OnTutorialSkip() })
		}
		return r, nil
	case key.Matches(msg, r.keymap.NewGame):
		r.dispatchController(func(c Controller) { c.OnNewGame() })
		return r, nil
	case key.Matches(msg, r.keymap.EndRun):
		r.dispatchController(func(c Controller) { c.OnEndRun() })
		return r, nil
	case key.Matches(msg, r.keymap.Rules):
		r.rulesOpen = true
		return r, nil
	case key.Matches(msg, r.keymap.Stats):
		r.dispatchController(func(c Controller) { c.OnOpenStats() })
		return r, nil
	case key.Matches(msg, r.keymap.Tutorial):
		r.dispatchController(func(c Controller) { c.OnReplayTutorial() })
		return r, nil
	case key.Matches(msg, r.keymap.Quit):
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if d, err := strconv.Atoi(msg.Text); err == nil && d >= 1 && d <= n {
		r.selected = d - 1
	}
	return r, nil
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button))

	if r.mouseScope == "off" || mouse.Button != tea.MouseLeft {
		return r, nil
	}
	if r.overlayActive() {
		if r.mouseScope != "full" {
			return r, nil
		}
		switch r.topOverlay() {
		case "info":
			r.infoOpen = false
		case "rules":
			r.rulesOpen = false
		}
		return r, nil
	}
	n := len(r.board.Digits)
	if r.mouseScope == "full" && mouse.Y == boardTop+digitH {
		if d, ok := digitAtColumn(mouse.X, r.cols, n); ok {
			r.selected = d
		}
		return r, nil
	}
	digit, seg, ok := hitTest(mouse.X, mouse.Y, r.cols, n)
	if !ok {
		return r, nil
	}
	r.selected = digit
	r.statusFlash = ""
	r.dispatchController(func(c Controller) { c.OnToggle(digit, seg) })
	return r, nil
}

func (r *Root) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", MinCols, MinRows, r.cols, r.rows)
	return lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, r.theme.Fail.Render(trimForWidth(msg, r.cols)))
}

func (r *Root) renderPlaying() string {
	b := r.board
	lines := make([]string, 0, r.rows)
	lines = append(lines, r.theme.Header.Width(r.cols).Render(trimForWidth(r.headerText(), max(1, r.cols-2))))
	lines = append(lines, r.theme.Rule.Render(strings.Repeat(r.rule(), r.cols)))
	lines = append(lines, r.timerLine())
	lines = append(lines, r.movesLine())
	lines = append(lines, "")

	hlDigit, hlSeg := -1, -1
	if b.Tutorial.Highlight {
		hlDigit, hlSeg = b.Tutorial.HighlightDigit, b.Tutorial.HighlightSegment
	}
	lines = append(lines, renderBoard(b.Digits, hlDigit, hlSeg, r.cols, r.boardStyle())...)
	mark := "▲"
	if r.ascii {
		mark = "^"
	}
	lines = append(lines, r.theme.Cursor.Render(cursorLine(len(b.Digits), r.selected, r.cols, mark)))
	lines = append(lines, "")
	lines = append(lines, r.messageLine())
	if b.Tutorial.Step >= TutorialPickUp && b.Tutorial.Step <= TutorialSubmit {
		title := trimForWidth(b.Tutorial.Title, r.cols)
		body := trimForWidth(b.Tutorial.Body, max(1, r.cols-len([]rune(title))-2))
		lines = append(lines, r.theme.StepTitle.Render(title)+": "+r.theme.StepBody.Render(body))
	}
	if r.layout == LayoutWide && len(b.History) > 0 {
		lines = append(lines, r.theme.Muted.Render(trimForWidth("Found: "+joinInts(b.History, r.arrow()), r.cols)))
	}

	footer := r.statusText()
	bodyRows := max(0, r.rows-1)
	for len(lines) < bodyRows {
		lines = append(lines, "")
	}
	if len(lines) > bodyRows {
		lines = lines[:bodyRows]
	}
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}

func (r *Root) headerText() string {
	b := r.board
	mode := ""
	if b.Strict {
		mode = "  [strict]"
	}
	return fmt.Sprintf("MATH STICKS%s   Round %d   Score %d   Best %d (%d rounds)",
		mode, b.Round, int(math.Round(r.scoreShown)), b.HighScore, b.HighRounds)
}

func (r *Root) timerLine() string {
	b := r.board
	pct := 0.0
	if b.RoundSeconds > 0 {
		pct = float64(b.TimeLeft) / float64(b.RoundSeconds)
	}
	label := fmt.Sprintf("Time %2ds ", b.TimeLeft)
	if b.Tutorial.Active() {
		label = "Time  --  "
		pct = 1
	}
	line := label + r.timerBar(min(40, max(8, r.cols/3)), pct)
	if b.Busy {
		line += " " + r.busySpin.View()
	}
	return padLeft(line, max(0, (r.cols-ansi.StringWidth(line))/2))
}

func (r *Root) timerBar(width int, pct float64) string {
	m := r.timer
	m.SetWidth(max(8, width))
	return m.ViewAs(pct)
}

func (r *Root) movesLine() string {
	b := r.board
	cost := fmt.Sprintf("%.1f", b.Cost)
	if b.Cost == math.Trunc(b.Cost) {
		cost = fmt.Sprintf("%d", int(b.Cost))
	}
	line := fmt.Sprintf("Start %d   Moves %s/%d   In hand %d", b.Target, cost, b.Budget, b.Hand)
	style := r.theme.Info
	if b.Hand > 0 {
		style = r.theme.Pending
	}
	return padLeft(style.Render(line), max(0, (r.cols-len(line))/2))
}

func (r *Root) messageLine() string {
	b := r.board
	if r.statusFlash != "" {
		return r.theme.Pending.Render(trimForWidth(r.statusFlash, r.cols))
	}
	if b.Message == "" {
		return ""
	}
	style := r.theme.Fail
	if b.MessageOK {
		style = r.theme.Pass
	}
	return style.Render(trimForWidth(b.Message, r.cols))
}

func (r *Root) statusText() string {
	if r.layout != LayoutWide {
		return r.theme.Status.Width(r.cols).Render(trimForWidth("a-g toggle  Enter submit  ? rules  q quit", max(1, r.cols-2)))
	}
	return r.theme.Status.Width(r.cols).Render(r.help.View(r.keymap))
}

func (r *Root) boardStyle() boardStyle {
	g := unicodeGlyphs
	if r.ascii {
		g = asciiGlyphs
	}
	return boardStyle{on: r.theme.Stick, off: r.theme.Ghost, target: r.theme.Target, g: g}
}

func (r *Root) rule() string {
	if r.ascii {
		return "-"
	}
	return "─"
}

func (r *Root) arrow() string {
	if r.ascii {
		return " -> "
	}
	return " → "
}

func (r *Root) renderOverlay() string {
	top := r.topOverlay()
	if top == "" {
		return ""
	}
	title, body := r.overlayContent(top)
	width := min(60, max(20, r.cols-6))
	text := r.theme.OverlayTitle.Render(title) + "\n\n" + body
	return r.theme.Overlay.Width(width).Render(text)
}

func (r *Root) overlayContent(top string) (string, string) {
	b := r.board
	switch top {
	case "info":
		return r.infoTitle, r.infoText
	case "rules":
		return "Rules", r.renderMarkdown(r.rulesMD)
	case "tutorial_intro":
		return firstNonEmptyStr(b.Tutorial.Title, "Welcome"),
			b.Tutorial.Body + "\n\nEnter: start tutorial   Esc: skip"
	case "tutorial_done":
		return firstNonEmptyStr(b.Tutorial.Title, "Tutorial complete"),
			b.Tutorial.Body + "\n\nEnter: start playing"
	case "game_over":
		lines := []string{
			fmt.Sprintf("Score: %d", b.Score),
			fmt.Sprintf("Rounds: %d", max(0, b.Round-1)),
		}
		if b.NewHighScore {
			lines = append(lines, "", "New high score!")
		} else {
			lines = append(lines, fmt.Sprintf("Best: %d (%d rounds)", b.HighScore, b.HighRounds))
		}
		if len(b.History) > 1 {
			lines = append(lines, "", "Chain: "+joinInts(b.History, r.arrow()))
		}
		lines = append(lines, "", "Enter: play again   i: stats   q: quit")
		return "Game over", strings.Join(lines, "\n")
	}
	return "", ""
}

func (r *Root) renderMarkdown(md string) string {
	if r.markdown == nil || r.ascii {
		return md
	}
	out, err := r.markdown.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// topOverlay names the modal that owns input, most urgent first.
func (r *Root) topOverlay() string {
	switch {
	case r.infoOpen:
		return "info"
	case r.rulesOpen:
		return "rules"
	case r.board.Tutorial.Step == TutorialIntro:
		return "tutorial_intro"
	case r.board.Tutorial.Step == TutorialDone && !r.board.Busy:
		return "tutorial_done"
	case r.board.Over:
		return "game_over"
	}
	return ""
}

func (r *Root) overlayActive() bool {
	return r.topOverlay() != ""
}

func (r *Root) animateIfNeeded() tea.Cmd {
	if r.shouldAnimate(float64(r.board.Score)) {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	return math.Abs(r.scoreShown-target) > 0.5 || math.Abs(r.scoreVel) > 0.01
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func joinInts(nums []int, sep string) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}

func firstNonEmptyStr(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func padLeft(s string, n int) string {
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

// composeOverlay centers overlay on base. Styling is dropped from both.
func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		ow = max(ow, len([]rune(line)))
	}
	ow = min(ow, cols)
	oh := min(len(overlayLines), rows)
	startRow := (rows - oh) / 2
	startCol := max(0, (cols-ow)/2)

	for i := 0; i < oh; i++ {
		row := startRow + i
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// currentMouseMode captures the mouse only where clicks act. In scoped mode
// overlays leave it to the terminal so their text stays selectable.
func (r *Root) currentMouseMode() tea.MouseMode {
	switch r.mouseScope {
	case "off":
		return tea.MouseModeNone
	case "scoped":
		if r.overlayActive() {
			return tea.MouseModeNone
		}
	}
	return tea.MouseModeCellMotion
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "cozy_clean", "retro_terminal", "modern_arcade":
		return strings.TrimSpace(v)
	default:
		return "modern_arcade"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func normalizeMouseScope(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "scoped", "full":
		return strings.TrimSpace(v)
	default:
		return "scoped"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"messageType", msgType,
		"layout", r.layout,
		"cols", r.cols,
		"rows", r.rows,
		"overlay", r.topOverlay(),
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
