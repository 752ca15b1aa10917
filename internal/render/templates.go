// internal/render/templates.go
package render

import "html/template"

// PlaceholderSVG is served at PlaceholderPath.
const PlaceholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="160" height="120" viewBox="0 0 160 120">
  <rect width="160" height="120" fill="#e5e7eb"/>
  <path d="M52 80l20-24 14 16 10-12 14 20z" fill="#9ca3af"/>
  <circle cx="104" cy="44" r="8" fill="#9ca3af"/>
</svg>
`

var pageTemplate = template.Must(template.New("cards").Parse(cardTemplateHTML + pageTemplateHTML))

const cardTemplateHTML = `{{define "card"}}<div class="card-wrap" data-card-id="{{.CardID}}">
  <div class="card">
    <div class="card-head">
      <div class="prompt-block">
        <div class="prompt-title">
          <h2>Prompt</h2>
          <span class="tag tag-difficulty">{{.Difficulty}}</span>
          <span class="tag tag-model">{{.ModelName}}</span>
        </div>
        <p class="prompt">&ldquo;{{.Prompt}}&rdquo;</p>
      </div>
      <div class="chart-block">
        <h3>Checklist Scores</h3>
        <div class="chart">
          <div class="ticks">{{range .Ticks}}<div class="tick" data-tick="{{.}}"></div>{{end}}</div>
          <div class="bars">{{range .Bars}}
            <div class="bar-col">
              <div class="bar-slot"><div class="bar" style="{{.Style}}" title="{{.Score}}"></div></div>
              <span class="bar-label">{{.Module}}</span>
            </div>{{end}}
          </div>
        </div>
      </div>
      <div class="score-panel">
        <h3>Final Score</h3>
        <div class="score-line"><span class="score-label">Score =</span> <span class="final-score">{{.FinalScore}}</span> <span class="score-max">/10</span></div>
        <div class="score-line"><span class="score-label">TSR =</span> <span class="tsr">{{.TSR}}</span></div>
      </div>
    </div>
    <div class="card-body">
      <div class="input-block">
        <h3>Input Image</h3>
        <img class="input-image" src="{{.InputImage}}" alt="Input" width="160" height="120" crossorigin="anonymous">
      </div>
      <div class="model-block">
        <div class="model-icon{{if .Transparent}} transparent{{end}}">
          <img src="{{.Icon}}" alt="Model Icon" width="40" height="40" crossorigin="anonymous">
        </div>
        <div class="arrow"></div>
      </div>
      <div class="frames-block">
        <h3>Generated Video</h3>
        <div class="frames">{{range .Frames}}
          <img class="frame" src="{{.URL}}" alt="{{.Alt}}" width="160" height="120" crossorigin="anonymous">{{end}}
        </div>
      </div>
    </div>
  </div>
</div>{{end}}`

const pageTemplateHTML = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; background: #F3F4F6; font-family: ui-sans-serif, system-ui, sans-serif; }
    main { padding: 32px; }
    header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 24px; }
    header h1 { margin: 0; font-size: 24px; color: #111827; }
    header p { margin: 4px 0 0; font-size: 14px; color: #6b7280; }
    .hint { font-size: 12px; color: #6b7280; }
    .hint code { background: #e5e7eb; padding: 2px 4px; border-radius: 4px; }
    .cards { display: flex; flex-direction: column; gap: 40px; }
    .card { max-width: 1600px; margin: 0 auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 12px; overflow: hidden; }
    .card-head { display: flex; gap: 16px; justify-content: space-between; align-items: center; padding: 12px 16px 8px; border-bottom: 1px solid #f3f4f6; background: linear-gradient(to right, #f9fafb, #eff6ff); }
    .prompt-block { width: 50%; flex-shrink: 0; }
    .prompt-title { display: flex; align-items: center; gap: 8px; }
    h2, h3 { margin: 0; font-size: 12px; font-family: ui-serif, Georgia, serif; font-weight: 600; color: #374151; white-space: nowrap; }
    .tag { font-family: ui-monospace, monospace; font-size: 10px; padding: 2px 8px; border-radius: 999px; border: 1px solid; }
    .tag-difficulty { background: rgba(164, 190, 194, 0.15); color: #526D72; border-color: rgba(164, 190, 194, 0.5); }
    .tag-model { background: #eff6ff; color: #2563eb; border-color: #dbeafe; }
    .prompt { margin: 8px 0 0; font-size: 14px; line-height: 1.6; color: #1f2937; font-weight: 500; }
    .chart-block { flex-grow: 1; min-width: 0; }
    .chart { position: relative; height: 100px; margin-top: 4px; }
    .ticks { position: absolute; inset: 0; display: flex; flex-direction: column; justify-content: space-between; }
    .tick { border-bottom: 1px dashed #e5e7eb; }
    .bars { position: absolute; inset: 0; display: flex; align-items: flex-end; justify-content: space-between; padding: 0 8px; }
    .bar-col { flex: 1; display: flex; flex-direction: column; align-items: center; gap: 4px; }
    .bar-slot { height: 85px; display: flex; align-items: flex-end; }
    .bar { width: 12px; background: #A4BEC2; }
    .bar-label { font-size: 9px; color: #6b7280; }
    .score-panel { min-width: 120px; height: 100px; border: 1px solid #e5e7eb; border-radius: 8px; background: #fff; display: flex; flex-direction: column; align-items: center; justify-content: center; gap: 6px; }
    .score-line { font-size: 11px; color: #6b7280; }
    .final-score, .tsr { font-size: 14px; font-weight: 700; color: #111827; }
    .score-max { font-size: 10px; color: #9ca3af; }
    .card-body { display: flex; gap: 16px; align-items: flex-end; padding: 16px; }
    .input-block { width: calc((100% - 64px) / 9); flex-shrink: 0; }
    .input-image, .frame { width: 100%; height: auto; aspect-ratio: 4 / 3; object-fit: cover; border: 2px solid #e5e7eb; border-radius: 8px; background: #f3f4f6; }
    .model-block { width: 64px; flex-shrink: 0; padding-bottom: 8px; display: flex; flex-direction: column; align-items: center; gap: 4px; }
    .model-icon { width: 40px; height: 40px; border-radius: 999px; overflow: hidden; background: #fff; border: 1px solid #e5e7eb; box-shadow: 0 0 6px #dbeafe; }
    .model-icon.transparent { background: transparent; border: none; box-shadow: none; }
    .model-icon img { width: 100%; height: 100%; object-fit: cover; }
    .arrow { width: 100%; height: 2px; background: #d1d5db; }
    .frames-block { flex-grow: 1; }
    .frames { display: grid; grid-template-columns: repeat(8, 1fr); gap: 6px; margin-top: 6px; }
  </style>
</head>
<body>
<main>
{{- if not .Bare}}
  <header>
    <div>
      <h1>{{.Title}}</h1>
      <p class="count">{{.Count}} samples</p>
    </div>
    <p class="hint">Export every card with <code>reasoncards export all</code>; files land in <code>exported_cards</code>.</p>
  </header>
{{- end}}
  <div class="cards">
{{- range .Cards}}
{{template "card" .}}
{{- end}}
  </div>
</main>
</body>
</html>
{{end}}`
