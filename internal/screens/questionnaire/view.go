package questionnaire

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/prediction"
	qn "github.com/mindcare-ai/mindcare/internal/questionnaire"
	"github.com/mindcare-ai/mindcare/internal/ui/components"
	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	q := s.session.Current()
	n, total := s.session.Progress()

	var b strings.Builder

	// Progress line: section on the left, position on the right.
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(q.Section)
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("Question %d of %d", n, total))
	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right)
	b.WriteString("\n")
	b.WriteString(theme.BarFilled.Render(strings.Repeat(" ", cw*n/total)))
	b.WriteString(theme.BarEmpty.Render(strings.Repeat(" ", cw-cw*n/total)))
	b.WriteString("\n\n")

	b.WriteString(components.Card(s.renderQuestion(q, cw-6), cw))
	b.WriteString("\n\n")
	b.WriteString(s.buttons.View())
	b.WriteString("\n\n")
	b.WriteString(s.renderStatus(cw))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *Screen) renderQuestion(q qn.Question, w int) string {
	prompt := lipgloss.NewStyle().
		Width(w).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt)

	var answer string
	if q.Kind == qn.KindNumber {
		answer = s.input.View()
	} else {
		answer = s.picker.View()
	}
	return prompt + "\n\n" + answer
}

// renderStatus shows the loading spinner, the last error, or where the
// result will appear.
func (s *Screen) renderStatus(cw int) string {
	switch {
	case s.submitter.Loading():
		return lipgloss.NewStyle().Foreground(theme.Accent).
			Render(s.spinner.View() + " Predicting...")
	case s.errMsg != "":
		return lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(s.errMsg))
	}

	res := s.submitter.Result()
	if res == nil {
		return theme.Hint.Render(prediction.AwaitingResult)
	}
	summary := fmt.Sprintf("Last result: %d categories, %d above %.0f%%.",
		len(res), res.HighCount(), prediction.HighThreshold*100)
	return theme.Hint.Render(summary + " Press R to view.")
}
