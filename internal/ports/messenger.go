package ports

import (
	"context"

	"github.com/bnema/teamrelay/internal/domain"
)

type ParseMode string

const (
	ParseModePlain ParseMode = ""
	ParseModeHTML  ParseMode = "HTML"
)

const ChatActionTyping = "typing"

type Messenger interface {
	SendMessage(ctx context.Context, chat domain.ChatID, text string, mode ParseMode) error
	SendPhoto(ctx context.Context, chat domain.ChatID, path string, caption string) error
	SetReaction(ctx context.Context, chat domain.ChatID, messageID int64, emoji string) error
	SendChatAction(ctx context.Context, chat domain.ChatID, action string) error
	SetCommands(ctx context.Context, commands []domain.BotCommand) error
	// DownloadFile stores a remote file at dest, refusing files above maxBytes.
	DownloadFile(ctx context.Context, fileID string, dest string, maxBytes int64) error
}

// Formatter converts worker markdown into the markup the messenger expects.
type Formatter interface {
	Format(markdown string) string
}
