package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindcare-ai/mindcare/internal/chat"
	"github.com/mindcare-ai/mindcare/internal/ui/layout"
	"github.com/mindcare-ai/mindcare/internal/ui/theme"
)

// Fixed texts of the chat view.
const (
	SidebarTitle = "Chat History"
	NoChats      = "No chats yet. Start new chat!"
	NoMessages   = "No messages yet. Type something to start."
)

const sidebarWidth = 28

func (s *Screen) View(width, height int) string {
	showSidebar := !layout.IsCompactWidth(width)
	mainWidth := width
	if showSidebar {
		mainWidth = width - sidebarWidth - 1
	}

	main := s.renderMain(mainWidth, height)
	if !showSidebar {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, s.renderSidebar(height), " ", main)
}

func (s *Screen) renderSidebar(height int) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render(SidebarTitle))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Ctrl+N  + New Chat"))
	b.WriteString("\n\n")

	sessions := s.book.Sessions()
	if len(sessions) == 0 {
		b.WriteString(theme.Hint.Render(NoChats))
	}
	active := s.book.Active()
	for _, ss := range sessions {
		title := truncate(ss.Title, sidebarWidth-6)
		if active != nil && ss.ID == active.ID {
			b.WriteString(theme.Selected.Render("▸ " + title))
		} else {
			b.WriteString(theme.Unselected.Render("  " + title))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth - 2).
		Height(height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(b.String())
}

func (s *Screen) renderMain(width, height int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var footer strings.Builder
	if s.book.Pending() {
		footer.WriteString(theme.Hint.Render(s.spinner.View() + " Thinking..."))
		footer.WriteString("\n")
	}
	if s.attachmentName != "" {
		footer.WriteString(theme.Hint.Render("Attached: " + s.attachmentName))
		footer.WriteString("\n")
	}
	if s.notice != "" {
		footer.WriteString(theme.ErrorText.Render(s.notice))
		footer.WriteString("\n")
	}
	footer.WriteString(layout.Divider(inner+4, inner))
	footer.WriteString("\n")
	footer.WriteString(s.input.View())

	footerText := footer.String()
	avail := height - lipgloss.Height(footerText) - 1
	if avail < 1 {
		avail = 1
	}

	transcript := s.renderTranscript(inner)
	if rows := strings.Split(transcript, "\n"); len(rows) > avail {
		transcript = strings.Join(rows[len(rows)-avail:], "\n")
	}

	body := lipgloss.NewStyle().
		Width(inner).
		Height(avail).
		AlignVertical(lipgloss.Bottom).
		Render(transcript)
	return lipgloss.NewStyle().Padding(0, 2).Render(body + "\n" + footerText)
}

func (s *Screen) renderTranscript(width int) string {
	active := s.book.Active()
	if active == nil || len(active.Messages) == 0 {
		return theme.Hint.Render(NoMessages)
	}

	parts := make([]string, 0, len(active.Messages))
	for _, m := range active.Messages {
		if m.Role == chat.RoleUser {
			bubble := theme.UserBubble.MaxWidth(width * 3 / 4).Render(m.Display())
			parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
			continue
		}
		parts = append(parts, theme.BotLabel.Render("MindCare")+"\n"+s.markdown.Render(m.Text, width))
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
