// Package tasks owns the task list: the in-memory store, its persistence,
// the search and status filters, and the HTTP handlers that drive them.
package tasks

// Task is a single to-do item.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UI strings shown to the user.
const (
	NoticeEmptyInput = "Digite uma tarefa antes de adicionar!"
	PromptEdit       = "Edite a tarefa:"
	ConfirmRemove    = "Tem certeza que deseja excluir esta tarefa?"
)
