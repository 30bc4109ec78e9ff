package domain

import (
	"strings"
	"unicode"
)

type CommandKind string

const (
	CommandTeam     CommandKind = "team"
	CommandFocus    CommandKind = "focus"
	CommandProgress CommandKind = "progress"
	CommandLearn    CommandKind = "learn"
	CommandPause    CommandKind = "pause"
	CommandRelaunch CommandKind = "relaunch"
	CommandSettings CommandKind = "settings"
	CommandHire     CommandKind = "hire"
	CommandEnd      CommandKind = "end"
)

type BotCommand struct {
	Command     string
	Description string
}

// BotCommands is the fixed part of the bot command menu, in display order.
var BotCommands = []BotCommand{
	{Command: "team", Description: "Show your team"},
	{Command: "focus", Description: "Focus a worker: /focus <name>"},
	{Command: "progress", Description: "Check focused worker status"},
	{Command: "learn", Description: "Ask focused worker what they learned"},
	{Command: "pause", Description: "Pause focused worker"},
	{Command: "relaunch", Description: "Relaunch focused worker"},
	{Command: "settings", Description: "Show settings"},
	{Command: "hire", Description: "Hire a worker: /hire <name>"},
	{Command: "end", Description: "Offboard a worker: /end <name>"},
}

var commandAliases = map[string]CommandKind{
	"team":     CommandTeam,
	"list":     CommandTeam,
	"focus":    CommandFocus,
	"use":      CommandFocus,
	"progress": CommandProgress,
	"status":   CommandProgress,
	"learn":    CommandLearn,
	"pause":    CommandPause,
	"stop":     CommandPause,
	"relaunch": CommandRelaunch,
	"restart":  CommandRelaunch,
	"settings": CommandSettings,
	"system":   CommandSettings,
	"hire":     CommandHire,
	"new":      CommandHire,
	"end":      CommandEnd,
	"kill":     CommandEnd,
}

// Agent commands that need an interactive terminal and cannot be relayed.
var blockedCommands = map[string]struct{}{
	"mcp": {}, "help": {}, "config": {}, "model": {}, "compact": {}, "cost": {},
	"doctor": {}, "init": {}, "login": {}, "logout": {}, "memory": {},
	"permissions": {}, "pr": {}, "review": {}, "terminal": {}, "vim": {},
	"approved-tools": {}, "listen": {},
}

type SlashCommand struct {
	Name string
	Arg  string
}

// ParseSlashCommand splits "/cmd[@bot] [argument]". Name is lowercased and
// stripped of the leading slash and any @suffix.
func ParseSlashCommand(text string) (SlashCommand, bool) {
	if !strings.HasPrefix(text, "/") {
		return SlashCommand{}, false
	}

	head, rest := text[1:], ""
	if idx := strings.IndexFunc(head, unicode.IsSpace); idx >= 0 {
		head, rest = head[:idx], head[idx:]
	}
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}

	name := strings.ToLower(head)
	if name == "" {
		return SlashCommand{}, false
	}

	return SlashCommand{Name: name, Arg: strings.TrimSpace(rest)}, true
}

func (c SlashCommand) Kind() (CommandKind, bool) {
	kind, ok := commandAliases[c.Name]
	return kind, ok
}

func (c SlashCommand) Blocked() bool {
	_, ok := blockedCommands[c.Name]
	return ok
}
