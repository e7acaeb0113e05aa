// internal/report/template.go
package report

import "html/template"

var pageTemplate = template.Must(template.New("matscope-page").Parse(pageTemplateHTML))

const pageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <script src="{{ .ChartJS }}"></script>
  <style>
    :root {
      --primary: #334155;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
      --danger: #DC2626;
    }
    body { background-color: var(--light); color: var(--text); }
    .navbar-dark { background-color: var(--primary) !important; }
    .card { border: 1px solid var(--border); background-color: var(--background); }
    .chart-canvas { position: relative; min-height: 320px; }
    .placeholder-message { color: #64748B; font-style: italic; }
    .error-message { color: var(--danger); }
    .history-entry { border-bottom: 1px solid var(--border); padding: 0.75rem 0; }
    .follow-up-answer h3 { font-size: 1.1rem; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark mb-4">
    <div class="container">
      <span class="navbar-brand">{{ .Title }}</span>
    </div>
  </nav>
  <main class="container">
  {{- $interactive := .Interactive }}
  {{- range .Sections }}
    <section class="card mb-4" id="{{ .Type }}-section">
      <div class="card-body">
        <h2 class="h4">{{ .Title }}</h2>

        {{- if $interactive }}
        <form method="post" action="/analyze/{{ .Type }}" enctype="multipart/form-data" class="row g-2 mb-3">
          {{- range .FileFields }}
          <div class="col-md-6">
            <label class="form-label" for="{{ . }}">{{ . }}</label>
            <input class="form-control" type="file" id="{{ . }}" name="{{ . }}">
          </div>
          {{- end }}
          {{- range .TextFields }}
          <div class="col-12">
            <label class="form-label" for="{{ . }}">{{ . }}</label>
            <textarea class="form-control" id="{{ . }}" name="{{ . }}" rows="2"></textarea>
          </div>
          {{- end }}
          <div class="col-12"><button class="btn btn-primary" type="submit">Analyze</button></div>
        </form>
        {{- end }}

        {{- if .Loading }}<p class="loading">Loading...</p>{{ end }}
        {{- if .Error }}<p class="error-message">{{ .Error }}</p>{{ end }}

        {{- if .ResultVisible }}
        <div class="result">
          {{- range .Plots }}
          <div class="plot mb-3" id="{{ .ID }}-surface">
            {{- if .Chart }}{{ .Chart }}{{ end }}
            {{- if .Message }}<p class="placeholder-message">{{ .Message }}</p>{{ end }}
            {{- if .Fields }}
            <div class="summary">
              {{- range .Fields }}<p><strong>{{ .Label }}:</strong> {{ .Value }}</p>{{ end }}
            </div>
            {{- end }}
          </div>
          {{- end }}
          {{- range .Metrics }}
          <p class="metric"><strong>{{ .Label }}:</strong> {{ .Value }}</p>
          {{- end }}
          <div class="commentary">{{ .Commentary }}</div>
        </div>
        {{- end }}

        {{- if .FollowUpVisible }}
        <div class="follow-up mt-3">
          {{- range .FollowUps }}
          <div class="follow-up-answer">
            <h3>Follow-up Response</h3>
            <p class="text-muted">{{ .Question }}</p>
            {{ .Answer }}
          </div>
          {{- end }}
          {{- if $interactive }}
          <form method="post" action="/followup/{{ .Type }}" class="input-group mt-2">
            <input class="form-control" type="text" name="question" placeholder="Ask a follow-up question">
            <button class="btn btn-secondary" type="submit">Ask</button>
          </form>
          {{- end }}
        </div>
        {{- end }}
        {{- if .Prompt }}<p class="error-message">{{ .Prompt }}</p>{{ end }}

        {{- if $interactive }}
        <form method="post" action="/history/{{ .Type }}/toggle" class="mt-3">
          <button class="btn btn-outline-secondary btn-sm" type="submit">{{ if .History.Visible }}Hide{{ else }}Show{{ end }} History</button>
        </form>
        {{- end }}

        {{- if .History.Visible }}
        <div class="history mt-3">
          {{- if $interactive }}
          <form method="get" action="/history/{{ .Type }}" class="input-group input-group-sm mb-2">
            <input class="form-control" type="search" name="q" value="{{ .History.Query }}" placeholder="Search history">
            <button class="btn btn-outline-secondary" type="submit">Search</button>
          </form>
          {{- end }}
          {{- if .History.Err }}<p class="error-message">{{ .History.Err }}</p>{{ end }}
          {{- if .History.Empty }}<p class="placeholder-message">{{ .History.Empty }}</p>{{ end }}
          {{- range .History.Entries }}
          <div class="history-entry">
            <p><strong>Date:</strong> {{ .Date }}</p>
            {{- if .Query }}<p><strong>User Query:</strong> {{ .Query }}</p>{{ end }}
            {{- range .Fields }}<p><strong>{{ .Label }}:</strong> {{ .Value }}</p>{{ end }}
            <p><strong>AI Summary:</strong> {{ .Summary }}</p>
          </div>
          {{- end }}
        </div>
        {{- end }}
      </div>
    </section>
  {{- end }}
  </main>
</body>
</html>
`
