package team

import (
	"fmt"

	"github.com/bnema/teamrelay/internal/application"
	"github.com/charmbracelet/lipgloss"
)

func renderView(status application.TeamStatus, s styles) string {
	focused := "(none)"
	if status.Focused != "" {
		focused = status.Focused.String()
	}

	lines := []string{
		s.title.Render("Team"),
		s.header.Render(fmt.Sprintf("workers: %d  focused: %s", len(status.Members), focused)),
	}

	if len(status.Members) == 0 && len(status.Unclaimed) == 0 {
		lines = append(lines, s.empty.Render("No team members yet. Add someone with teamrelay hire <name>."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	members := make([]string, 0, len(status.Members))
	for _, member := range status.Members {
		members = append(members, renderMember(member, s))
	}
	if len(members) > 0 {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, members...)))
	}

	if len(status.Unclaimed) > 0 {
		unclaimed := []string{s.warning.Render("Unclaimed running Claude (needs a name):")}
		for _, session := range status.Unclaimed {
			unclaimed = append(unclaimed, s.detail.Render("  "+session))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, unclaimed...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderMember(member application.MemberStatus, s styles) string {
	marker := " "
	name := s.worker.Render(member.Worker.Name.String())
	if member.Focused {
		marker = s.focused.Render("*")
		name = s.focused.Render(member.Worker.Name.String())
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		marker,
		" ",
		name,
		" ",
		stateBadge(member, s),
		" ",
		s.detail.Render("("+member.Worker.Session+")"),
	)
}

func stateBadge(member application.MemberStatus, s styles) string {
	switch {
	case !member.Online:
		return s.offline.Render("[offline]")
	case !member.AgentRunning:
		return s.warning.Render("[needs relaunch]")
	case member.Working:
		return s.working.Render("[working]")
	default:
		return s.available.Render("[available]")
	}
}
