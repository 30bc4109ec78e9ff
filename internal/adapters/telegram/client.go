package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

const (
	DefaultBaseURL         = "https://api.telegram.org"
	maxAPIResponseBytes    = 1 << 20
	defaultRequestTimeout  = 15 * time.Second
	defaultTransferTimeout = 60 * time.Second
	downloadFileMode       = 0o600
)

var ErrFileTooLarge = errors.New("file exceeds size limit")

// Client talks to the Telegram Bot API.
type Client struct {
	BaseURL         string
	Token           string
	HTTPClient      *http.Client
	RequestTimeout  time.Duration
	TransferTimeout time.Duration
}

var _ ports.Messenger = (*Client)(nil)

type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type fileResult struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size"`
	FilePath string `json:"file_path"`
}

type reactionType struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

type botCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

func (c *Client) SendMessage(ctx context.Context, chat domain.ChatID, text string, mode ports.ParseMode) error {
	for _, chunk := range domain.SplitMessage(text, domain.MaxMessageLength) {
		payload := map[string]any{
			"chat_id": int64(chat),
			"text":    chunk,
		}
		if mode != ports.ParseModePlain {
			payload["parse_mode"] = string(mode)
		}
		if err := c.call(ctx, "sendMessage", payload, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) SetReaction(ctx context.Context, chat domain.ChatID, messageID int64, emoji string) error {
	return c.call(ctx, "setMessageReaction", map[string]any{
		"chat_id":    int64(chat),
		"message_id": messageID,
		"reaction":   []reactionType{{Type: "emoji", Emoji: emoji}},
	}, nil)
}

func (c *Client) SendChatAction(ctx context.Context, chat domain.ChatID, action string) error {
	return c.call(ctx, "sendChatAction", map[string]any{
		"chat_id": int64(chat),
		"action":  action,
	}, nil)
}

func (c *Client) SetCommands(ctx context.Context, commands []domain.BotCommand) error {
	payload := make([]botCommand, 0, len(commands))
	for _, cmd := range commands {
		payload = append(payload, botCommand{Command: cmd.Command, Description: cmd.Description})
	}
	return c.call(ctx, "setMyCommands", map[string]any{"commands": payload}, nil)
}

// SetWebhook registers url as the update endpoint. An empty secret disables
// header verification on Telegram's side.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string, secret string) error {
	payload := map[string]any{"url": webhookURL}
	if secret != "" {
		payload["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", payload, nil)
}

func (c *Client) SendPhoto(ctx context.Context, chat domain.ChatID, path string, caption string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", domain.FormatChatID(chat)); err != nil {
		return fmt.Errorf("encode photo request: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("encode photo request: %w", err)
		}
	}
	part, err := writer.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("encode photo request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("encode photo request: %w", err)
	}

	endpoint, err := c.methodURL("sendPhoto")
	if err != nil {
		return err
	}

	requestCtx, cancel := c.transferContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("create sendPhoto request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "sendPhoto", nil)
}

func (c *Client) DownloadFile(ctx context.Context, fileID string, dest string, maxBytes int64) error {
	if fileID == "" {
		return errors.New("file id is required")
	}

	var info fileResult
	if err := c.call(ctx, "getFile", map[string]any{"file_id": fileID}, &info); err != nil {
		return err
	}
	if info.FilePath == "" {
		return errors.New("telegram getFile: response missing file_path")
	}
	if maxBytes > 0 && info.FileSize > maxBytes {
		return fmt.Errorf("download %s: %w", fileID, ErrFileTooLarge)
	}

	endpoint, err := buildAPIURL(c.baseURL(), "/file/bot"+c.Token+"/"+info.FilePath)
	if err != nil {
		return err
	}

	requestCtx, cancel := c.transferContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", fileID, scrubURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("download %s: status %d", fileID, resp.StatusCode)
	}

	return writeLimited(dest, resp.Body, maxBytes)
}

func writeLimited(dest string, body io.Reader, maxBytes int64) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o700); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, downloadFileMode)
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}

	reader := body
	if maxBytes > 0 {
		reader = io.LimitReader(body, maxBytes+1)
	}
	written, copyErr := io.Copy(out, reader)
	closeErr := out.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(dest)
		return fmt.Errorf("write download file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(dest)
		return fmt.Errorf("close download file: %w", closeErr)
	case maxBytes > 0 && written > maxBytes:
		_ = os.Remove(dest)
		return fmt.Errorf("write download file: %w", ErrFileTooLarge)
	}

	return nil
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	endpoint, err := c.methodURL(method)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, method, result)
}

func (c *Client) do(req *http.Request, method string, result any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, scrubURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	var payload apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxAPIResponseBytes)).Decode(&payload); err != nil {
		return fmt.Errorf("telegram %s: status %d", method, resp.StatusCode)
	}
	if !payload.OK {
		return fmt.Errorf("telegram %s: %s", method, describeAPIError(resp.StatusCode, payload))
	}

	if result != nil && len(payload.Result) > 0 {
		if err := json.Unmarshal(payload.Result, result); err != nil {
			return fmt.Errorf("decode %s response: %w", method, err)
		}
	}

	return nil
}

func describeAPIError(statusCode int, payload apiResponse) string {
	if payload.Description == "" {
		return fmt.Sprintf("status %d", statusCode)
	}
	code := payload.ErrorCode
	if code == 0 {
		code = statusCode
	}
	return fmt.Sprintf("%s (%d)", payload.Description, code)
}

// The bot token is part of every API URL; never let it reach logs or chats.
func scrubURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func (c *Client) methodURL(method string) (string, error) {
	if c.Token == "" {
		return "", errors.New("telegram bot token is required")
	}
	return buildAPIURL(c.baseURL(), "/bot"+c.Token+"/"+method)
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, c.RequestTimeout, defaultRequestTimeout)
}

func (c *Client) transferContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, c.TransferTimeout, defaultTransferTimeout)
}

func withTimeout(ctx context.Context, timeout, fallback time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	if timeout <= 0 {
		timeout = fallback
	}
	return context.WithTimeout(ctx, timeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", errors.New("parse telegram base url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("telegram base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("telegram base url host is required")
	}

	return parsed.String() + path, nil
}
