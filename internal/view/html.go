package view

import (
	"html/template"
	"io"

	"tasklist/internal/tasks"
)

const layout = `{{define "head"}}<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>EsToDoList</title>
<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-100 min-h-screen">
<main class="flex flex-col items-center gap-4 py-10">
<h1 class="text-3xl font-bold">EsToDoList</h1>
{{end}}
{{define "foot"}}</main>
</body>
</html>
{{end}}`

const listPage = `{{template "head"}}
{{with .Notice}}<div role="alert" class="w-9/12 rounded-md bg-red-200 p-3">{{.}}</div>{{end}}
<form method="post" action="/tasks" class="flex w-9/12 gap-2">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <input id="newTask" name="text" class="flex-1 border rounded-md p-2" placeholder="Nova tarefa" autofocus>
  <button id="newTask-btn" type="submit" class="bg-green-400 rounded-md px-4 hover:bg-green-600">Adicionar</button>
</form>
<div class="flex w-9/12 gap-2">
  <form method="get" action="/" class="flex-1">
    <input type="search" name="q" value="{{.Search}}" class="w-full border rounded-md p-2" placeholder="🔎Pesquise uma tarefa" enterkeyhint="search"{{if .Search}} autofocus{{end}}>
  </form>
  <form method="get" action="/">
    <select id="Filtro-select" name="filter" class="border rounded-md p-2" onchange="this.form.requestSubmit()">
      {{range .Filters}}<option value="{{.Label}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
  </form>
</div>
<ul class="flex w-full flex-col items-center gap-3">
{{range .Rows}}  <li class="{{.ItemClass}}" data-id="{{.ID}}">
    <form method="post" action="/tasks/{{.ID}}/toggle">
      <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
      <button type="submit" class="{{.TextClass}}" role="button" aria-pressed="{{.AriaPressed}}">{{.Text}}</button>
    </form>
    <div class="flex justify-center items-center gap-2">
      <a href="/tasks/{{.ID}}/delete" class="` + deleteBtnClass + `" aria-label="Excluir">🗑</a>
      <a href="/tasks/{{.ID}}/edit" class="` + editBtnClass + `" aria-label="Editar">📝</a>
    </div>
  </li>
{{end}}</ul>
{{template "foot"}}`

const promptPage = `{{template "head"}}
<form method="post" action="/tasks/{{.Task.ID}}/edit" class="flex w-9/12 flex-col gap-2">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <label for="text">{{.Message}}</label>
  <input id="text" name="text" value="{{.Task.Text}}" class="border rounded-md p-2" autofocus>
  <div class="flex gap-2">
    <button type="submit" class="bg-blue-400 rounded-md px-4 hover:bg-blue-600">OK</button>
    <button type="submit" name="cancel" value="1" class="bg-gray-300 rounded-md px-4">Cancelar</button>
  </div>
</form>
{{template "foot"}}`

const confirmPage = `{{template "head"}}
<form method="post" action="/tasks/{{.Task.ID}}/delete" role="alertdialog" class="flex w-9/12 flex-col gap-2">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <p>{{.Message}}</p>
  <p class="font-semibold">{{.Task.Text}}</p>
  <div class="flex gap-2">
    <button type="submit" name="confirm" value="yes" class="bg-red-400 rounded-md px-4 hover:bg-red-600" autofocus>OK</button>
    <button type="submit" name="confirm" value="no" class="bg-gray-300 rounded-md px-4">Cancelar</button>
  </div>
</form>
{{template "foot"}}`

// HTML renders full pages with html/template.
type HTML struct {
	list    *template.Template
	prompt  *template.Template
	confirm *template.Template
}

func NewHTML() *HTML {
	base := template.Must(template.New("layout").Parse(layout))
	return &HTML{
		list:    template.Must(template.Must(base.Clone()).New("list").Parse(listPage)),
		prompt:  template.Must(template.Must(base.Clone()).New("prompt").Parse(promptPage)),
		confirm: template.Must(template.Must(base.Clone()).New("confirm").Parse(confirmPage)),
	}
}

type listData struct {
	Notice    string
	Search    string
	Filters   []FilterOption
	Rows      []Row
	CSRFToken string
}

func (h *HTML) Render(w io.Writer, page tasks.Page) error {
	return h.list.Execute(w, listData{
		Notice:    page.Notice,
		Search:    page.Search,
		Filters:   filterOptions(page.Filter),
		Rows:      Rows(page.Tasks),
		CSRFToken: page.CSRFToken,
	})
}

func (h *HTML) RenderPrompt(w io.Writer, d tasks.Dialog) error {
	return h.prompt.Execute(w, d)
}

func (h *HTML) RenderConfirm(w io.Writer, d tasks.Dialog) error {
	return h.confirm.Execute(w, d)
}
