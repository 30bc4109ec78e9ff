package application

import (
	"fmt"
	"strings"

	"github.com/bnema/teamrelay/internal/domain"
)

const (
	persistenceNote = "They'll stay on your team."

	textNoTeam        = "No team members yet. Add someone with /hire <name>."
	textNoOneAssigned = "No one assigned."
	textClaimPrompt   = "Found a running Claude not yet on your team.\n" +
		"Claim it to make it a long-lived worker by replying with:\n" +
		`{"name": "your-worker-name"}`
	textInvalidName   = "Name must use letters, numbers, and hyphens only."
	textNoOneOnline   = "No one's online to share with."
	textImageNoFocus  = "Needs decision - No focused worker. Use /focus <name> first."
	textImageDownload = "Needs decision - Could not download image. Try again or send as file."
	textOnline        = "I'm online and ready."
	textNoWorkersYet  = "No workers yet. Hire your first long-lived worker with /hire <name>."
)

func textNoOneAssignedTeam(names []domain.WorkerName) string {
	return fmt.Sprintf("No one assigned. Your team: %s\nWho should I talk to?", joinNames(names))
}

func textReserved(name domain.WorkerName) string {
	return fmt.Sprintf("Cannot use %q - reserved command. Choose another name.", name.String())
}

func textNowTalking(name domain.WorkerName) string {
	return fmt.Sprintf("Now talking to %s.", name)
}

func textOffline(name domain.WorkerName) string {
	return fmt.Sprintf("%s is offline. Try /relaunch.", name)
}

func textBlocked(command string) string {
	return fmt.Sprintf("/%s is interactive and not supported here.", command)
}

// FormatTeam renders the /team reply.
func FormatTeam(status TeamStatus) string {
	if len(status.Members) == 0 && len(status.Unclaimed) == 0 {
		return textNoTeam
	}

	lines := []string{
		"Your team:",
		"Focused: " + orNone(status.Focused.String()),
		"Workers:",
	}
	for _, member := range status.Members {
		var flags []string
		if member.Focused {
			flags = append(flags, "focused")
		}
		if member.Working {
			flags = append(flags, "working")
		} else {
			flags = append(flags, "available")
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", member.Worker.Name, strings.Join(flags, ", ")))
	}

	if len(status.Unclaimed) > 0 {
		lines = append(lines, "", "Unclaimed running Claude (needs a name):")
		for _, session := range status.Unclaimed {
			lines = append(lines, "- "+session)
		}
	}

	return strings.Join(lines, "\n")
}

func FormatProgress(report ProgressReport) string {
	lines := []string{
		"Progress for focused worker: " + report.Name.String(),
		"Focused: yes",
		"Working: " + yesNo(report.Working),
		"Online: " + yesNo(report.Online),
	}
	if report.Online {
		lines = append(lines, "Ready: "+yesNo(report.Ready))
		if !report.Ready {
			lines = append(lines, "Needs attention: worker app is not running. Use /relaunch.")
		}
	}
	return strings.Join(lines, "\n")
}

// Settings is the configuration shown by /settings.
type Settings struct {
	Version       string
	Token         string
	WebhookSecret string
	SessionsDir   string
	Prefix        string
	Backend       string
	Port          int
}

func FormatSettings(settings Settings, admin domain.ChatID, focused domain.WorkerName, workers []domain.WorkerName, pendingClaim string) string {
	adminText := "(auto-learn)"
	if admin != 0 {
		adminText = domain.FormatChatID(admin)
	}
	webhook := "(disabled)"
	if settings.WebhookSecret != "" {
		webhook = domain.Redact(settings.WebhookSecret)
	}

	lines := []string{
		"teamrelay v" + settings.Version,
		persistenceNote,
		"",
		"Bot token: " + domain.Redact(settings.Token),
		"Admin: " + adminText,
		"Webhook verification: " + webhook,
		"Team storage: " + settings.SessionsDir,
		"State backend: " + settings.Backend,
		"Session prefix: " + settings.Prefix,
		fmt.Sprintf("Port: %d", settings.Port),
		"",
		"Team state",
		"Focused worker: " + orNone(focused.String()),
		"Workers: " + orNone(joinNames(workers)),
		"Pending claim: " + orNone(pendingClaim),
	}
	return strings.Join(lines, "\n")
}

func formatStartup(roster Roster, focused domain.WorkerName) string {
	lines := []string{textOnline}
	if len(roster.Workers) == 0 {
		lines = append(lines, textNoWorkersYet)
		return strings.Join(lines, "\n")
	}
	lines = append(lines, "Team: "+joinNames(roster.Names()))
	if focused != "" {
		lines = append(lines, "Focused: "+focused.String())
	}
	return strings.Join(lines, "\n")
}

func joinNames(names []domain.WorkerName) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name.String())
	}
	return strings.Join(parts, ", ")
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
