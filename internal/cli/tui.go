package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lutforge/lutforge/pkg/batch"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Messages driving the batch progress model.
type (
	batchResultMsg batch.Result
	batchDoneMsg   struct {
		run *batch.Run
		err error
	}
	batchTickMsg time.Time
)

// BatchModel is the bubbletea model showing live progress of a combine
// batch: one table row per finished item, a spinner while work remains.
type BatchModel struct {
	total   int
	results []batch.Result
	frame   int
	run     *batch.Run
	err     error
	done    bool
}

// NewBatchModel creates a progress model for a batch of the given size.
func NewBatchModel(total int) BatchModel {
	return BatchModel{total: total}
}

func batchTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return batchTickMsg(t)
	})
}

func (m BatchModel) Init() tea.Cmd {
	return batchTick()
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	case batchResultMsg:
		m.results = append(m.results, batch.Result(msg))
	case batchDoneMsg:
		m.run = msg.run
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case batchTickMsg:
		m.frame++
		return m, batchTick()
	}
	return m, nil
}

func (m BatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Combining %d LUT pairs", m.total)))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.results))
	for i, res := range m.results {
		icon := iconSuccess
		detail := fmt.Sprintf("range [%.4f, %.4f]", res.Min, res.Max)
		if res.Status == batch.StatusError {
			icon = iconError
			detail = res.Message
		} else if res.ClippedRatio > 0 {
			detail += fmt.Sprintf("  %.2f%% clipped", res.ClippedRatio*100)
		}
		rows[i] = []string{icon, res.Name, detail}
	}

	if len(rows) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("", "LUT", "Result").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
				}
				if col == 0 && row < len(m.results) {
					if m.results[row].Status == batch.StatusError {
						return styleIconError
					}
					return styleIconSuccess
				}
				return lipgloss.NewStyle()
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if !m.done {
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		b.WriteString(fmt.Sprintf("%s %s\n",
			styleIconSpinner.Render(frame),
			StyleDim.Render(fmt.Sprintf("%d/%d done", len(m.results), m.total))))
	}
	return b.String()
}

// runBatchTUI executes the orchestrator under a live progress display and
// returns its run once every item has finished.
func runBatchTUI(ctx context.Context, o *batch.Orchestrator, items []batch.Item) (*batch.Run, error) {
	p := tea.NewProgram(NewBatchModel(len(items)), tea.WithContext(ctx))

	o.OnResult = func(res batch.Result) {
		p.Send(batchResultMsg(res))
	}
	go func() {
		run, err := o.Run(ctx, items)
		p.Send(batchDoneMsg{run: run, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(BatchModel)
	if m.err != nil {
		return m.run, m.err
	}
	return m.run, nil
}
