// Package view turns task sequences into what the user sees. Rows is the
// pure step; HTML and Terminal draw the rows, always from scratch.
package view

import (
	"strconv"

	"tasklist/internal/tasks"
)

const (
	itemClass      = "flex w-9/12 justify-between items-center shadow 2xl h-10 text-left border rounded-md p-5 hover:bg-gray-300 hover:scale-105 transition duration-300"
	doneItemClass  = itemClass + " opacity-70"
	textClass      = "cursor-pointer"
	doneTextClass  = "line-through text-gray-400 cursor-pointer"
	deleteBtnClass = "bg-red-400 w-8 h-8 rounded-lg text-xl shadow-4xl text-center hover:bg-red-600 hover:scale-110 transition duration-75"
	editBtnClass   = "bg-blue-400 w-8 h-8 rounded-lg text-xl shadow-4xl text-center hover:bg-blue-600 hover:scale-110 transition duration-75"
)

// Row is one rendered task.
type Row struct {
	ID          int64
	Text        string
	Completed   bool
	ItemClass   string
	TextClass   string
	AriaPressed string
}

// Rows maps tasks to rows, one per task, in order.
func Rows(ts []tasks.Task) []Row {
	rows := make([]Row, 0, len(ts))
	for _, t := range ts {
		r := Row{
			ID:          t.ID,
			Text:        t.Text,
			Completed:   t.Completed,
			ItemClass:   itemClass,
			TextClass:   textClass,
			AriaPressed: strconv.FormatBool(t.Completed),
		}
		if t.Completed {
			r.ItemClass = doneItemClass
			r.TextClass = doneTextClass
		}
		rows = append(rows, r)
	}
	return rows
}

// FilterOption is one entry of the status selector.
type FilterOption struct {
	Label    string
	Selected bool
}

func filterOptions(selected tasks.Status) []FilterOption {
	if selected == "" {
		selected = tasks.StatusAll
	}
	var opts []FilterOption
	for _, st := range tasks.Statuses() {
		opts = append(opts, FilterOption{Label: st.Label(), Selected: st == selected})
	}
	return opts
}
