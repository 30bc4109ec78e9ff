package httpapi

import (
	"path/filepath"
	"strings"

	"github.com/bnema/teamrelay/internal/application"
	"github.com/bnema/teamrelay/internal/domain"
)

// Telegram update subset the router consumes.
type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	MessageID      int64       `json:"message_id"`
	Chat           chat        `json:"chat"`
	From           *user       `json:"from"`
	Text           string      `json:"text"`
	Caption        string      `json:"caption"`
	Photo          []photoSize `json:"photo"`
	Document       *document   `json:"document"`
	ReplyToMessage *message    `json:"reply_to_message"`
}

type chat struct {
	ID int64 `json:"id"`
}

type user struct {
	IsBot bool `json:"is_bot"`
}

type photoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
}

type document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

func (m *message) body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// inbound converts an update into a router message. ok is false for updates
// that carry no message.
func (u update) inbound() (application.InboundMessage, bool) {
	if u.Message == nil {
		return application.InboundMessage{}, false
	}

	msg := application.InboundMessage{
		ChatID:    domain.ChatID(u.Message.Chat.ID),
		MessageID: u.Message.MessageID,
		Text:      u.Message.body(),
		Image:     u.Message.image(),
	}
	if reply := u.Message.ReplyToMessage; reply != nil {
		msg.ReplyTo = &application.ReplyMessage{
			Text:    reply.body(),
			FromBot: reply.From != nil && reply.From.IsBot,
		}
	}
	return msg, true
}

func (m *message) image() *application.InboundImage {
	if photo, ok := largestPhoto(m.Photo); ok {
		return &application.InboundImage{FileID: photo.FileID, Ext: ".jpg"}
	}

	if m.Document == nil || m.Document.FileID == "" {
		return nil
	}
	ext, ok := domain.ImageExtForMIME(m.Document.MimeType)
	if !ok {
		name := strings.ToLower(m.Document.FileName)
		if !strings.HasPrefix(strings.ToLower(m.Document.MimeType), "image/") || !domain.IsAllowedImageExt(name) {
			return nil
		}
		ext = filepath.Ext(name)
	}
	return &application.InboundImage{FileID: m.Document.FileID, Ext: ext}
}

// Telegram lists photo variants smallest first, but that order is not
// guaranteed, so compare pixel counts.
func largestPhoto(sizes []photoSize) (photoSize, bool) {
	var (
		best  photoSize
		found bool
	)
	for _, size := range sizes {
		if size.FileID == "" {
			continue
		}
		if !found || size.Width*size.Height > best.Width*best.Height ||
			(size.Width*size.Height == best.Width*best.Height && size.FileSize > best.FileSize) {
			best, found = size, true
		}
	}
	return best, found
}
