package application

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/google/uuid"
)

// Inbox places images sent by the manager under <root>/<worker>/inbox.
type Inbox struct {
	root  string
	newID func() string
}

func NewInbox(root string) *Inbox {
	return &Inbox{root: root, newID: uuid.NewString}
}

func (i *Inbox) Root() string {
	return i.root
}

func (i *Inbox) PathFor(worker domain.WorkerName, ext string) (string, error) {
	if i.root == "" {
		return "", fmt.Errorf("inbox root is not configured")
	}
	if !worker.Valid() {
		return "", fmt.Errorf("inbox for %q: %w", worker, domain.ErrInvalidName)
	}
	return filepath.Join(i.root, worker.String(), "inbox", i.newID()+ext), nil
}

// Remove deletes everything the worker received.
func (i *Inbox) Remove(worker domain.WorkerName) error {
	if i.root == "" {
		return nil
	}
	if !worker.Valid() {
		return fmt.Errorf("inbox for %q: %w", worker, domain.ErrInvalidName)
	}
	if err := os.RemoveAll(filepath.Join(i.root, worker.String())); err != nil {
		return fmt.Errorf("remove inbox for %s: %w", worker, err)
	}
	return nil
}
