// Package tui renders the acquisition status. It is a thin adapter: it only
// reads the controller's status and forwards user intents (close,
// pick-from-gallery) as events.
package tui

import (
	"context"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trymirror/scanflow/internal/domain"
	"github.com/trymirror/scanflow/internal/scan"
)

const beamFrameInterval = 50 * time.Millisecond

type Model struct {
	controller *scan.Controller
	beam       *scan.Beam
	status     domain.ScanStatus
	width      int
	pickErr    error
	quitting   bool
}

type statusMsg domain.ScanStatus

type beamFrameMsg time.Time

type pickedMsg struct{ err error }

func NewModel(controller *scan.Controller, beam *scan.Beam) Model {
	return Model{
		controller: controller,
		beam:       beam,
		status:     controller.Status(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForStatus(m.controller.Updates()), beamFrame())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = domain.ScanStatus(msg)
		return m, listenForStatus(m.controller.Updates())
	case beamFrameMsg:
		return m, beamFrame()
	case pickedMsg:
		m.pickErr = msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "g":
			return m, pickFromGallery(m.controller)
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.controller.Close()
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		titleStyle.Render("scanflow"),
		m.statusLine(),
	}

	switch m.status.Kind {
	case domain.StatusActive, domain.StatusDetected:
		lines = append(lines, barStyle.Render(renderBeam(m.barWidth(), m.beam.Progress())))
	}

	if m.pickErr != nil {
		lines = append(lines, dimStyle.Render("gallery: "+m.pickErr.Error()))
	}

	lines = append(lines, dimStyle.Render("g: pick from gallery · q: close"))

	return strings.Join(lines, "\n")
}

func (m Model) statusLine() string {
	text := m.status.Message()
	switch m.status.Kind {
	case domain.StatusPermissionDenied, domain.StatusUnavailable:
		return errorStyle.Render(text)
	case domain.StatusDetected:
		return detectedStyle.Render(text)
	default:
		return labelStyle.Render(text)
	}
}

func (m Model) barWidth() int {
	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}
	return barWidth
}

func listenForStatus(updates <-chan domain.ScanStatus) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return statusMsg(s)
	}
}

func beamFrame() tea.Cmd {
	return tea.Tick(beamFrameInterval, func(t time.Time) tea.Msg {
		return beamFrameMsg(t)
	})
}

func pickFromGallery(controller *scan.Controller) tea.Cmd {
	return func() tea.Msg {
		return pickedMsg{err: controller.PickFromGallery(context.Background())}
	}
}

// renderBeam draws the sweeping scan-beam indicator.
func renderBeam(width int, progress float64) string {
	pos := int(math.Round(progress * float64(width-1)))
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	return "[" + strings.Repeat(" ", pos) + "┃" + strings.Repeat(" ", width-1-pos) + "]"
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	detectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
