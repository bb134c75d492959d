package mail

import (
	"bytes"
	"html/template"
)

// Branded is the content of the company email layout. Paragraphs are plain
// text and get escaped; the layout supplies the markup.
type Branded struct {
	Brand      string
	Title      string
	Preheader  string
	Greeting   string
	Paragraphs []string
	ActionURL  string
	ActionText string
	FooterNote string
}

const defaultFooterNote = "Ceci est un message automatique, merci de ne pas y répondre directement."

var brandedTmpl = template.Must(template.New("branded").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; background-color: #f4f7f9; }
    .container { max-width: 600px; margin: 20px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border: 1px solid #e1e8ed; }
    .header { background-color: #2c3e8a; padding: 32px 20px; text-align: center; color: #ffffff; font-size: 13px; font-weight: bold; letter-spacing: 5px; text-transform: uppercase; }
    .content { padding: 40px 30px; }
    .title { color: #2c3e8a; font-size: 24px; font-weight: bold; margin: 0 0 20px; border-bottom: 2px solid #f97316; display: inline-block; padding-bottom: 5px; }
    .text { font-size: 16px; color: #4b5563; margin-bottom: 25px; }
    .button-container { text-align: center; margin: 30px 0; }
    .button { background-color: #2c3e8a; color: #ffffff !important; padding: 12px 25px; border-radius: 6px; text-decoration: none; font-weight: bold; display: inline-block; }
    .signature { margin-top: 40px; padding-top: 20px; border-top: 1px solid #edf2f7; color: #718096; font-size: 14px; }
    .footer { background-color: #f8fafc; padding: 20px; text-align: center; color: #94a3b8; font-size: 12px; }
  </style>
</head>
<body>
  <div style="display:none;max-height:0;overflow:hidden">{{.Preheader}}</div>
  <div class="container">
    <div class="header">{{.Brand}}</div>
    <div class="content">
      <h1 class="title">{{.Title}}</h1>
      <div class="text">
        {{- if .Greeting}}<p>{{.Greeting}}</p>{{end}}
        {{- range .Paragraphs}}
        <p>{{.}}</p>
        {{- end}}
      </div>
      {{- if and .ActionURL .ActionText}}
      <div class="button-container">
        <a href="{{.ActionURL}}" class="button">{{.ActionText}}</a>
      </div>
      {{- end}}
      <div class="signature">
        <p>Cordialement,</p>
        <p><strong>Service RH · {{.Brand}}</strong></p>
      </div>
    </div>
    <div class="footer">{{.FooterNote}}</div>
  </div>
</body>
</html>
`))

func RenderBranded(b Branded) (string, error) {
	if b.FooterNote == "" {
		b.FooterNote = defaultFooterNote
	}
	if b.Brand == "" {
		b.Brand = "Staff Requests"
	}
	var buf bytes.Buffer
	if err := brandedTmpl.Execute(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}
