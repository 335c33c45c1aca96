package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/wippyai/dwarfread/reader"
	"github.com/wippyai/dwarfread/section"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	hexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// keyKinds maps explorer keys to value kinds.
var keyKinds = map[string]string{
	"1": "u8",
	"2": "u16",
	"4": "u32",
	"8": "u64",
	"u": "uleb",
	"s": "sleb",
	"a": "addr",
	"w": "word",
	"o": "offset",
	"l": "initial-length",
	"c": "cstr",
}

const historyLimit = 12

type decoded struct {
	kind   string
	value  string
	offset uint64
}

type exploreState int

const (
	stateStep exploreState = iota
	stateGoto
)

// exploreModel steps a cursor through one section. Every step or jump
// pushes the previous cursor onto undo and one line onto history, so the
// two stay the same length.
type exploreModel[O reader.Offset] struct {
	err     error
	base    reader.Reader[O]
	cur     reader.Reader[O]
	input   textinput.Model
	title   string
	undo    []reader.Reader[O]
	history []decoded
	params  decodeParams
	state   exploreState
}

func newExploreModel[O reader.Offset](title string, r reader.Reader[O], p decodeParams) *exploreModel[O] {
	ti := textinput.New()
	ti.Prompt = "goto offset: "
	ti.Placeholder = "0x0"
	ti.Width = 20
	return &exploreModel[O]{
		title:  title,
		base:   r.Clone(),
		cur:    r,
		params: p,
		input:  ti,
	}
}

func (m *exploreModel[O]) Init() tea.Cmd {
	return nil
}

func (m *exploreModel[O]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateGoto {
		switch key.String() {
		case "enter":
			m.gotoOffset(m.input.Value())
			m.input.Blur()
			m.input.SetValue("")
			m.state = stateStep
			return m, nil
		case "esc":
			m.input.Blur()
			m.state = stateStep
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "g":
		m.state = stateGoto
		return m, m.input.Focus()
	case "backspace", "z":
		m.stepBack()
	default:
		if kind, ok := keyKinds[key.String()]; ok {
			m.step(kind)
		}
	}
	return m, nil
}

// step decodes on a clone and commits it only on success, so a derived
// read that fails partway leaves the cursor where it was.
func (m *exploreModel[O]) step(kind string) {
	off := uint64(m.cur.OffsetFrom(m.base))
	next := m.cur.Clone()
	v, err := decodeValue(next, kind, m.params)
	m.err = err
	if err != nil {
		return
	}
	m.push(next, decoded{offset: off, kind: kind, value: v})
}

// push makes next the cursor and records d so stepBack can undo both.
func (m *exploreModel[O]) push(next reader.Reader[O], d decoded) {
	m.undo = append(m.undo, m.cur)
	m.cur = next
	m.history = append(m.history, d)
}

func (m *exploreModel[O]) stepBack() {
	if len(m.undo) == 0 {
		return
	}
	m.cur = m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.history = m.history[:len(m.history)-1]
	m.err = nil
}

func (m *exploreModel[O]) gotoOffset(s string) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		m.err = fmt.Errorf("invalid offset %q", s)
		return
	}
	off, err := reader.OffsetFromU64[O](v)
	if err != nil {
		m.err = err
		return
	}
	next := m.base.Clone()
	if err := next.Skip(off); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.push(next, decoded{
		offset: uint64(m.cur.OffsetFrom(m.base)),
		kind:   "goto",
		value:  fmt.Sprintf("%#x", v),
	})
}

func (m *exploreModel[O]) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("DWARF Explorer"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	pos := uint64(m.cur.OffsetFrom(m.base))
	fmt.Fprintf(&b, "offset %s  remaining %d  %s  address size %d\n\n",
		offsetStyle.Render(fmt.Sprintf("%#08x", pos)),
		uint64(m.cur.Len()),
		m.params.format,
		m.params.addressSize)

	b.WriteString(hexStyle.Render(hexPreview(m.cur, 64)))
	b.WriteString("\n\n")

	shown := m.history
	if len(shown) > historyLimit {
		shown = shown[len(shown)-historyLimit:]
	}
	for _, d := range shown {
		fmt.Fprintf(&b, "%s  %s %s\n",
			offsetStyle.Render(fmt.Sprintf("%#08x", d.offset)),
			kindStyle.Render(fmt.Sprintf("%-14s", d.kind)),
			d.value)
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state == stateGoto {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter jump • esc cancel"))
		return b.String()
	}
	b.WriteString(helpStyle.Render("1/2/4/8 uint • u/s leb128 • a addr • w word • o offset • l length • c cstr • g goto • z undo • q quit"))
	return b.String()
}

func (e *env) explore(c *cli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("explore needs an interactive terminal")
	}

	set, err := e.open(c)
	if err != nil {
		return err
	}
	defer set.Close()

	name := c.String("section")
	title := c.Args().First() + " " + name
	var model tea.Model
	if e.cfg.OffsetWidth == 32 {
		r, err := section.Open[uint32](set, name)
		if err != nil {
			return err
		}
		model = newExploreModel(title, r, e.params(set))
	} else {
		r, err := section.Open[uint64](set, name)
		if err != nil {
			return err
		}
		model = newExploreModel(title, r, e.params(set))
	}

	_, err = tea.NewProgram(model).Run()
	return err
}
