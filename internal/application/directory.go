package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/teamrelay/internal/domain"
	"github.com/bnema/teamrelay/internal/ports"
)

// Roster is one scan of the multiplexer. Workers are sorted by name.
type Roster struct {
	Workers   []domain.Worker
	Unclaimed []string
}

func (r Roster) Find(name domain.WorkerName) (domain.Worker, bool) {
	for _, worker := range r.Workers {
		if worker.Name == name {
			return worker, true
		}
	}
	return domain.Worker{}, false
}

func (r Roster) Has(name domain.WorkerName) bool {
	_, ok := r.Find(name)
	return ok
}

func (r Roster) Names() []domain.WorkerName {
	names := make([]domain.WorkerName, 0, len(r.Workers))
	for _, worker := range r.Workers {
		names = append(names, worker.Name)
	}
	return names
}

func (r Roster) Empty() bool {
	return len(r.Workers) == 0 && len(r.Unclaimed) == 0
}

// Directory discovers workers from the multiplexer sessions. It keeps no
// cache: every call reflects the live session list.
type Directory struct {
	mux          ports.Multiplexer
	prefix       string
	processMatch string
}

func NewDirectory(mux ports.Multiplexer, prefix, processMatch string) *Directory {
	if prefix == "" {
		prefix = domain.DefaultSessionPrefix
	}
	if processMatch == "" {
		processMatch = "claude"
	}
	return &Directory{
		mux:          mux,
		prefix:       prefix,
		processMatch: strings.ToLower(processMatch),
	}
}

func (d *Directory) Prefix() string {
	return d.prefix
}

func (d *Directory) SessionFor(name domain.WorkerName) string {
	return domain.SessionHandle(d.prefix, name)
}

// Scan classifies sessions into registered workers and unclaimed agent
// sessions.
func (d *Directory) Scan(ctx context.Context) (Roster, error) {
	sessions, err := d.mux.ListSessions(ctx)
	if err != nil {
		return Roster{}, fmt.Errorf("list sessions: %w", err)
	}

	var roster Roster
	for _, session := range sessions {
		if name, ok := domain.NameFromSession(d.prefix, session); ok {
			if name.Valid() {
				roster.Workers = append(roster.Workers, domain.Worker{Name: name, Session: session})
			}
			continue
		}
		if d.runsAgent(ctx, session) {
			roster.Unclaimed = append(roster.Unclaimed, session)
		}
	}

	sort.Slice(roster.Workers, func(i, j int) bool {
		return roster.Workers[i].Name < roster.Workers[j].Name
	})
	sort.Strings(roster.Unclaimed)

	return roster, nil
}

func (d *Directory) Find(ctx context.Context, name domain.WorkerName) (domain.Worker, error) {
	roster, err := d.Scan(ctx)
	if err != nil {
		return domain.Worker{}, err
	}
	worker, ok := roster.Find(name)
	if !ok {
		return domain.Worker{}, fmt.Errorf("worker %q: %w", name, domain.ErrWorkerNotFound)
	}
	return worker, nil
}

// Alive asks the multiplexer directly whether the worker's session exists.
func (d *Directory) Alive(ctx context.Context, worker domain.Worker) bool {
	return d.mux.HasSession(ctx, worker.Session)
}

// AgentRunning reports whether the agent process is in the foreground of the
// worker's pane.
func (d *Directory) AgentRunning(ctx context.Context, worker domain.Worker) bool {
	return d.runsAgent(ctx, worker.Session)
}

func (d *Directory) runsAgent(ctx context.Context, session string) bool {
	if session == d.processMatch {
		return true
	}
	command, err := d.mux.PaneCommand(ctx, session)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(command), d.processMatch)
}
