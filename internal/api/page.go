package api

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/starford/evalview/internal/dashboard"
	"github.com/starford/evalview/internal/report"
)

// DefaultTitle is the page title when none is configured.
const DefaultTitle = "Evaluation dashboard"

// pageData is embedded into the page so the first paint needs no API round trip.
type pageData struct {
	Data    *report.Table           `json:"data"`
	Charts  []dashboard.Series      `json:"charts"`
	Outputs []dashboard.OutputItem  `json:"outputs"`
	Prompt  *dashboard.PromptDetail `json:"prompt"`

	ChartsError string `json:"charts_error,omitempty"`
}

type pageView struct {
	Title       string
	PayloadJSON template.JS
}

// PageHandler renders the dashboard HTML page.
type PageHandler struct {
	svc   *dashboard.Service
	title string
}

// NewPageHandler creates a page handler.
func NewPageHandler(svc *dashboard.Service, title string) *PageHandler {
	if title == "" {
		title = DefaultTitle
	}
	return &PageHandler{svc: svc, title: title}
}

// ServeHTTP handles GET /.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	data := pageData{Data: h.svc.Data()}

	var err error
	if data.Charts, err = h.svc.Charts(); err != nil {
		slog.Warn("page charts unavailable", slog.String("error", err.Error()))
		data.Charts = []dashboard.Series{}
		data.ChartsError = err.Error()
	}
	if data.Outputs, err = h.svc.Outputs(); err != nil {
		writeError(w, "page outputs", err)
		return
	}
	if data.Prompt, err = h.svc.Prompt(); err != nil {
		writeError(w, "page prompt", err)
		return
	}

	// encoding/json escapes <, > and & so the payload cannot close the script tag.
	payload, err := json.Marshal(data)
	if err != nil {
		writeError(w, "page payload", err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageView{Title: h.title, PayloadJSON: template.JS(payload)}); err != nil {
		slog.Error("page render failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

var pageTemplate = template.Must(template.New("dashboard").Parse(pageTemplateHTML))

const pageTemplateHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    .output-body pre { background: #f6f8fa; padding: .75rem; border-radius: .25rem; }
    .chart-box { position: relative; min-height: 320px; }
  </style>
</head>
<body>
  <main class="container-fluid py-3">
    <h1 class="h3 mb-3">{{.Title}}</h1>
    <ul class="nav nav-tabs" role="tablist">
      <li class="nav-item"><button class="nav-link active" data-bs-toggle="tab" data-bs-target="#tab-data" type="button">Data</button></li>
      <li class="nav-item"><button class="nav-link" data-bs-toggle="tab" data-bs-target="#tab-charts" type="button">Visualizations</button></li>
      <li class="nav-item"><button class="nav-link" data-bs-toggle="tab" data-bs-target="#tab-outputs" type="button">Outputs</button></li>
      <li class="nav-item"><button class="nav-link" data-bs-toggle="tab" data-bs-target="#tab-prompt" type="button">Prompt</button></li>
    </ul>
    <div class="tab-content pt-3">
      <section class="tab-pane fade show active" id="tab-data">
        <div class="table-responsive"><table class="table table-sm table-striped" id="data-table"></table></div>
      </section>
      <section class="tab-pane fade" id="tab-charts">
        <div class="row" id="charts"></div>
      </section>
      <section class="tab-pane fade" id="tab-outputs">
        <div class="row">
          <div class="col-md-3">
            <input class="form-control form-control-sm mb-2" id="search" placeholder="Search outputs">
            <div class="list-group" id="output-list"></div>
          </div>
          <div class="col-md-9">
            <div class="small text-muted mb-2" id="output-meta"></div>
            <article class="output-body" id="output-body"></article>
          </div>
        </div>
      </section>
      <section class="tab-pane fade" id="tab-prompt">
        <article class="output-body" id="prompt-body"></article>
      </section>
    </div>
  </main>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    (function () {
      var state = {{.PayloadJSON}};
      var token = new URLSearchParams(window.location.search).get('token');

      function api(path) {
        var url = '/api' + path;
        if (token) {
          url += (url.indexOf('?') < 0 ? '?' : '&') + 'token=' + encodeURIComponent(token);
        }
        return fetch(url).then(function (r) { return r.json(); });
      }

      function el(tag, text) {
        var node = document.createElement(tag);
        if (text !== undefined) { node.textContent = text; }
        return node;
      }

      function renderTable() {
        var table = document.getElementById('data-table');
        table.innerHTML = '';
        var head = el('thead'), tr = el('tr');
        state.data.columns.forEach(function (c) { tr.appendChild(el('th', c)); });
        head.appendChild(tr);
        table.appendChild(head);
        var body = el('tbody');
        state.data.rows.forEach(function (row) {
          var r = el('tr');
          row.forEach(function (v) { r.appendChild(el('td', v)); });
          body.appendChild(r);
        });
        table.appendChild(body);
      }

      function renderCharts() {
        var box = document.getElementById('charts');
        box.innerHTML = '';
        if (state.charts_error) {
          var warn = el('div', state.charts_error);
          warn.className = 'alert alert-warning';
          box.appendChild(warn);
        }
        state.charts.forEach(function (s) {
          var col = el('div'); col.className = 'col-lg-4 mb-4';
          col.appendChild(el('h2', s.column)).className = 'h6';
          var holder = el('div'); holder.className = 'chart-box';
          var canvas = el('canvas');
          holder.appendChild(canvas);
          col.appendChild(holder);
          box.appendChild(col);
          new Chart(canvas, {
            type: 'bar',
            data: { labels: s.labels, datasets: [{ label: s.column, data: s.values, backgroundColor: '#3B82F6' }] },
            options: { indexAxis: 'y', maintainAspectRatio: false, plugins: { legend: { display: false } } }
          });
        });
      }

      function renderOutputList(items) {
        var list = document.getElementById('output-list');
        list.innerHTML = '';
        items.forEach(function (o) {
          var a = el('button', o.name);
          a.type = 'button';
          a.className = 'list-group-item list-group-item-action';
          a.title = o.description || '';
          a.addEventListener('click', function () { showOutput(o.index); });
          list.appendChild(a);
        });
      }

      function showOutput(i) {
        api('/outputs/' + i).then(function (o) {
          if (o.error) {
            document.getElementById('output-meta').textContent = o.error;
            document.getElementById('output-body').innerHTML = '';
            return;
          }
          var m = o.metrics;
          document.getElementById('output-meta').textContent =
            o.name + ' · ' + m.character_count + ' chars · ' + m.code_percentage.toFixed(2) + '% code · ' + m.code_blocks + ' blocks';
          document.getElementById('output-body').innerHTML = o.html;
        });
      }

      document.getElementById('search').addEventListener('input', function (ev) {
        var q = ev.target.value.trim();
        if (!q) { renderOutputList(state.outputs); return; }
        api('/search?q=' + encodeURIComponent(q)).then(function (r) {
          renderOutputList((r.results || []).map(function (h) {
            return { index: h.index, name: h.name, description: h.description };
          }));
        });
      });

      var events = new EventSource('/api/events' + (token ? '?token=' + encodeURIComponent(token) : ''));
      events.addEventListener('outputs.changed', function () {
        api('/outputs').then(function (r) {
          state.outputs = r.outputs || [];
          renderOutputList(state.outputs);
        });
      });

      renderTable();
      renderCharts();
      renderOutputList(state.outputs);
      document.getElementById('prompt-body').innerHTML = state.prompt.html;
      if (state.outputs.length > 0) { showOutput(0); }
    })();
  </script>
</body>
</html>
`
