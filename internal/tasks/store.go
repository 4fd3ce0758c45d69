package tasks

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Store owns the ordered task list. Every mutation is written through the
// Repository before it becomes visible, then listeners receive a snapshot.
type Store struct {
	mu sync.Mutex
	// notifyMu is taken before mu is released, so listeners run in commit order.
	notifyMu  sync.Mutex
	repo      *Repository
	tasks     []Task
	nextID    int64
	listeners []func([]Task)
	log       *logrus.Entry
}

func NewStore(repo *Repository, log *logrus.Entry) *Store {
	return &Store{repo: repo, nextID: 1, log: log}
}

// OnChange registers fn to receive the full list after every successful mutation.
// Listeners run one at a time in commit order and must not mutate the store.
func (s *Store) OnChange(fn func([]Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load replaces the in-memory list with the persisted one. A missing blob
// yields an empty list and nothing is written back.
func (s *Store) Load(ctx context.Context) ([]Task, error) {
	loaded, found, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, t := range loaded {
		if t.ID == math.MaxInt64 {
			return nil, fmt.Errorf("%w: task id %d leaves no room for new ids", ErrCorruptData, t.ID)
		}
		maxID = max(maxID, t.ID)
	}

	s.mu.Lock()
	s.tasks = loaded
	s.nextID = maxID + 1
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"count": len(snapshot), "found": found}).Info("tasks loaded")
	return snapshot, nil
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns the first task with id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Add appends a new active task.
func (s *Store) Add(ctx context.Context, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.nextID == math.MaxInt64 {
		s.mu.Unlock()
		return Task{}, ErrIDsExhausted
	}
	t := Task{ID: s.nextID, Text: text}
	next := append(s.snapshotLocked(), t)
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return Task{}, err
	}
	s.nextID++
	s.unlockAndNotify()

	s.log.WithField("task_id", t.ID).Info("task added")
	return t, nil
}

// Toggle flips the completion flag of the first task with id.
func (s *Store) Toggle(ctx context.Context, id int64) (Task, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, s.missing("toggle", id)
	}
	next := s.snapshotLocked()
	next[i].Completed = !next[i].Completed
	t := next[i]
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return Task{}, err
	}
	s.unlockAndNotify()

	s.log.WithFields(logrus.Fields{"task_id": id, "completed": t.Completed}).Info("task toggled")
	return t, nil
}

// Edit asks p for replacement text and stores it. A cancelled prompt or blank
// answer leaves the task untouched.
func (s *Store) Edit(ctx context.Context, id int64, p Prompter) (Task, error) {
	current, ok := s.Get(id)
	if !ok {
		return Task{}, s.missing("edit", id)
	}

	answer, ok, err := p.Prompt(ctx, PromptEdit, current.Text)
	if err != nil {
		return Task{}, fmt.Errorf("prompt: %w", err)
	}
	if !ok {
		return Task{}, ErrCancelled
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Task{}, ErrEmptyInput
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Task{}, s.missing("edit", id)
	}
	next := s.snapshotLocked()
	next[i].Text = answer
	t := next[i]
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return Task{}, err
	}
	s.unlockAndNotify()

	s.log.WithField("task_id", id).Info("task edited")
	return t, nil
}

// Remove deletes every task with id once c confirms.
func (s *Store) Remove(ctx context.Context, id int64, c Confirmer) error {
	if _, ok := s.Get(id); !ok {
		return s.missing("remove", id)
	}

	yes, err := c.Confirm(ctx, ConfirmRemove)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !yes {
		return ErrCancelled
	}

	s.mu.Lock()
	next := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(s.tasks) {
		s.mu.Unlock()
		return s.missing("remove", id)
	}
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.unlockAndNotify()

	s.log.WithField("task_id", id).Info("task removed")
	return nil
}

// commitLocked persists next and only then makes it the current list.
func (s *Store) commitLocked(ctx context.Context, next []Task) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}

func (s *Store) indexLocked(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) missing(op string, id int64) error {
	s.log.WithFields(logrus.Fields{"op": op, "task_id": id}).Warn("task id not found")
	return fmt.Errorf("%s %d: %w", op, id, ErrMissingID)
}

// unlockAndNotify releases mu and hands the committed list to every listener.
func (s *Store) unlockAndNotify() {
	listeners := make([]func([]Task), len(s.listeners))
	copy(listeners, s.listeners)
	snapshot := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
