// Package view turns a frost.UIState into something a person can look at:
// the dashboard HTML page and a coloured terminal block.
package view

import (
	"html/template"
	"io"

	"github.com/i474232898/frost-dashboard/internal/frost"
)

// PageData is what the dashboard template receives.
type PageData struct {
	State       frost.UIState
	HistoryHref string
}

var funcs = template.FuncMap{
	"toneClass": func(t frost.Tone) string { return t.CSSClass() },
}

var page = template.Must(template.New("dashboard").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="utf-8">
	<title>Predicción de Heladas</title>
	<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-100 p-6">
	<main class="max-w-3xl mx-auto space-y-4">
		<h1 class="text-2xl font-bold">Predicción de Heladas</h1>

		<div id="statusBox" class="rounded p-4 text-white {{toneClass .State.Tone}}" data-phase="{{.State.Phase}}">
			<p id="statusText" class="text-xl">{{.State.StatusText}}</p>
			{{if .State.Summary}}<p id="resumen" class="text-sm">{{.State.Summary}}</p>{{end}}
		</div>

		<dl class="grid grid-cols-2 gap-2">
			<dt>Ubicación</dt><dd id="ubicacion">{{.State.Location}}</dd>
			<dt>Estación</dt><dd id="estacion">{{.State.Station}}</dd>
			<dt>Fecha</dt><dd id="fecha">{{.State.Date}}</dd>
			<dt>Intensidad</dt><dd id="intensidad">{{.State.Intensity}}</dd>
			<dt>Duración</dt><dd id="duracion">{{.State.Duration}}</dd>
			<dt>Probabilidad</dt><dd id="probabilidad">{{.State.Probability}}</dd>
			<dt>Temperatura mínima</dt><dd id="temperatura">{{.State.Temperature}}</dd>
		</dl>

		{{if .State.Warning}}<p id="advertencia" class="text-yellow-700">{{.State.Warning}}</p>{{end}}

		{{if .State.Rows}}
		<table id="tablaPronostico" class="w-full text-left">
			<thead><tr><th>Hora</th><th>Resultado</th><th>Intensidad</th></tr></thead>
			<tbody>
			{{range .State.Rows}}<tr><td>{{.Time}}</td><td>{{.Result}}</td><td>{{.Intensity}}</td></tr>
			{{end}}
			</tbody>
		</table>
		{{end}}

		<div class="flex gap-2">
			<form method="post" action="/ui/predecir"><button type="submit">Predecir hoy</button></form>
			<form method="post" action="/ui/pronostico"><button type="submit">Pronóstico automático</button></form>
			<form method="post" action="/ui/actual"><button type="submit">Actualizar</button></form>
			<a href="{{.HistoryHref}}">Ver registros</a>
		</div>
	</main>
</body>
</html>
`))

// RenderPage writes the dashboard page for data.
func RenderPage(w io.Writer, data PageData) error {
	return page.Execute(w, data)
}
