package domain

import (
	"fmt"
	"strings"
)

const maxPrefixNameLen = 64

// FormatReplyContext wraps a manager reply with the worker message it answers.
func FormatReplyContext(reply, context string) string {
	if context == "" {
		return "Manager reply:\n" + reply
	}
	return fmt.Sprintf("Manager reply:\n%s\n\nContext (your previous message):\n%s", reply, context)
}

// ParseWorkerPrefix reads the "<name>: body" label the relay puts on worker
// output. The caller still has to check the name is registered.
func ParseWorkerPrefix(text string) (WorkerName, bool) {
	head, _, found := strings.Cut(text, ":")
	if !found || head == "" || len(head) > maxPrefixNameLen {
		return "", false
	}
	name := SanitizeName(head)
	return name, name != ""
}

// ParseMention splits "@name rest". It requires whitespace after the name.
func ParseMention(text string) (WorkerName, string, bool) {
	if !strings.HasPrefix(text, "@") {
		return "", "", false
	}
	idx := strings.IndexAny(text, " \t\n\r")
	if idx <= 1 {
		return "", "", false
	}
	name := SanitizeName(text[1:idx])
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimLeft(text[idx:], " \t\n\r"), true
}

// ParseBroadcast returns the body of an "@all " message.
func ParseBroadcast(text string) (string, bool) {
	const marker = "@all "
	if len(text) < len(marker) || !strings.EqualFold(text[:len(marker)], marker) {
		return "", false
	}
	return text[len(marker):], true
}

func LearnPrompt(topic string) string {
	subject := "What did you learn today?"
	if topic != "" {
		subject = fmt.Sprintf("What did you learn about %s today?", topic)
	}
	return subject + " Please answer in Problem / Fix / Why format:\n" +
		"Problem: <what went wrong or was inefficient>\n" +
		"Fix: <the better approach>\n" +
		"Why: <root cause or insight>"
}

// WelcomeMessage is typed into a freshly hired agent so it knows how to
// return images.
const WelcomeMessage = "You are connected to Telegram via teamrelay. " +
	"To send images back to Telegram, include this tag in your response: " +
	"[[image:/path/to/file.png|optional caption]]. " +
	"Allowed paths: /tmp, current directory. Allowed formats: jpg, png, gif, webp, bmp."

// ImageReceivedPrompt is what the agent sees when the manager sends a picture.
func ImageReceivedPrompt(caption, path string) string {
	if caption == "" {
		return "Manager sent image: " + path
	}
	return fmt.Sprintf("%s\n\nManager sent image: %s", caption, path)
}

// Redact keeps the first and last four characters of secrets longer than 8.
func Redact(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
