package claude

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/teamrelay/internal/domain"
)

// Transcript lines can carry whole tool outputs.
const maxTranscriptLine = 16 << 20

// StopHookInput is the JSON document the agent writes to a stop hook's stdin.
type StopHookInput struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	StopHookActive bool   `json:"stop_hook_active"`
}

func ParseStopHookInput(r io.Reader) (StopHookInput, error) {
	var input StopHookInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return StopHookInput{}, errors.New("stop hook input is empty")
		}
		return StopHookInput{}, fmt.Errorf("decode stop hook input: %w", err)
	}
	return input, nil
}

type transcriptEntry struct {
	Type    string `json:"type"`
	Message struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ExtractLastReply returns the assistant text written after the last user
// entry of a JSONL transcript, blocks joined by blank lines. Lines that do not
// decode are skipped.
func ExtractLastReply(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxTranscriptLine)

	var texts []string
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry transcriptEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}

		switch entry.Type {
		case "user":
			texts = texts[:0]
		case "assistant":
			texts = append(texts, assistantText(entry.Message.Content)...)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	return strings.Join(texts, "\n\n"), nil
}

// ReadTranscriptReply opens path and extracts the last reply from it.
func ReadTranscriptReply(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open transcript: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ExtractLastReply(file)
}

func assistantText(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		if strings.TrimSpace(plain) == "" {
			return nil
		}
		return []string{plain}
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil
	}
	var texts []string
	for _, block := range blocks {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			texts = append(texts, block.Text)
		}
	}
	return texts
}

// ResolveWorker picks the worker a hook runs for: the exported worker variable
// when set, otherwise the tmux session name with the prefix removed.
func ResolveWorker(envWorker, session, prefix string) (domain.WorkerName, error) {
	if name := domain.WorkerName(strings.TrimSpace(envWorker)); name != "" {
		if !name.Valid() {
			return "", fmt.Errorf("worker %q: %w", name, domain.ErrInvalidName)
		}
		return name, nil
	}

	name, ok := domain.NameFromSession(prefix, strings.TrimSpace(session))
	if !ok || !name.Valid() {
		return "", fmt.Errorf("session %q is not a worker session: %w", session, domain.ErrWorkerNotFound)
	}
	return name, nil
}
