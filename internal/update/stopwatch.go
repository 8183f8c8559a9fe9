package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palomera/studyd/internal/views"
)

func (m Model) handleStopwatchKey(msg tea.KeyMsg) Model {
	now := m.now()
	switch msg.String() {
	case " ", "space":
		if m.Stopwatch.Running() {
			m.Stopwatch.Pause(now)
			m.Status = StatusBar{Text: "stopwatch paused"}
		} else {
			m.Stopwatch.Start(now)
			m.Status = StatusBar{Text: "stopwatch running"}
		}
	case "l":
		if m.Stopwatch.Running() {
			lap := m.Stopwatch.Lap(now)
			m.Status = StatusBar{Text: "lap " + formatDuration(lap.Total)}
		}
	case "r":
		m.Stopwatch.Reset()
		m.Status = StatusBar{Text: "stopwatch reset"}
	}
	return m
}

func (m Model) renderStopwatchView() string {
	now := m.now()
	laps := m.Stopwatch.Laps()
	lapData := make([]views.LapData, 0, len(laps))
	for _, lap := range laps {
		lapData = append(lapData, views.LapData{
			Number: lap.Number,
			Total:  formatDuration(lap.Total),
			Delta:  formatDuration(lap.Delta),
		})
	}
	return views.RenderStopwatchPanel(views.StopwatchPanelData{
		Elapsed: formatDuration(m.Stopwatch.Elapsed(now)),
		Running: m.Stopwatch.Running(),
		Laps:    lapData,
	})
}
