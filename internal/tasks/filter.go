package tasks

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Status selects which tasks FilterByStatus keeps.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	// StatusExpired has no backing data yet; it always filters to nothing.
	StatusExpired Status = "expired"
)

var statusLabels = map[Status]string{
	StatusAll:       "Todos",
	StatusActive:    "Ativos",
	StatusCompleted: "Concluídos",
	StatusExpired:   "Expirados",
}

// Statuses lists every status in selector order.
func Statuses() []Status {
	return []Status{StatusAll, StatusActive, StatusCompleted, StatusExpired}
}

// Label is the name shown in the filter selector.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus accepts either a selector label ("Ativos") or a key ("active").
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if s == st.Label() || strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Search returns the tasks whose text contains term, ignoring case.
// An empty term returns tasks unchanged.
func Search(tasks []Task, term string) []Task {
	if term == "" {
		return tasks
	}
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(fold.String(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByStatus keeps the tasks matching status. The zero Status applies no
// filter. A value outside Statuses matches nothing.
func FilterByStatus(tasks []Task, status Status) []Task {
	switch status {
	case "", StatusAll:
		return tasks
	case StatusActive, StatusCompleted:
		want := status == StatusCompleted
		out := make([]Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Completed == want {
				out = append(out, t)
			}
		}
		return out
	case StatusExpired:
		return []Task{}
	default:
		return []Task{}
	}
}
