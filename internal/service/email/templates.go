package email

// digestTemplate renders the post-precompute summary.
const digestTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; color: #333; }
  .container { max-width: 640px; margin: 0 auto; padding: 16px; }
  h1 { font-size: 20px; }
  h2 { font-size: 16px; margin-bottom: 4px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #ddd; padding: 6px 8px; text-align: left; font-size: 13px; }
  th { background: #f5f5f5; }
  .discount { color: #b00020; }
  .markup { color: #006400; }
  .meta { color: #777; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
  <h1>Doporučení cen</h1>
  <p>Vygenerováno {{.Count}} doporučení pro pokoje a {{.DailyCount}} denních souhrnů.</p>

  {{if .Discounts}}
  <h2 class="discount">Největší slevy</h2>
  <table>
    <tr><th>Datum</th><th>Pokoj</th><th>Změna</th><th>Důvod</th></tr>
    {{range .Discounts}}
    <tr><td>{{.Date}}</td><td>{{.RoomName}}</td><td>{{printf "%+.1f%%" .ChangePct}}</td><td>{{.Reason}}</td></tr>
    {{end}}
  </table>
  {{end}}

  {{if .Markups}}
  <h2 class="markup">Největší přirážky</h2>
  <table>
    <tr><th>Datum</th><th>Pokoj</th><th>Změna</th><th>Důvod</th></tr>
    {{range .Markups}}
    <tr><td>{{.Date}}</td><td>{{.RoomName}}</td><td>{{printf "%+.1f%%" .ChangePct}}</td><td>{{.Reason}}</td></tr>
    {{end}}
  </table>
  {{end}}

  {{if .LearnedHolidays}}
  <h2>Naučené svátky</h2>
  <p>{{range $i, $name := .LearnedHolidays}}{{if $i}}, {{end}}{{$name}}{{end}}</p>
  {{end}}

  <p class="meta">Spočteno {{.ComputedAt}}</p>
</div>
</body>
</html>`
