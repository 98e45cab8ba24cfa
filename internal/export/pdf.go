package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// PDFExporter wraps Gotenberg interactions for printable table exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

// RenderTable sends an HTML table to Gotenberg and returns the PDF bytes.
// The rendered document carries the fixed-style header band and a
// page-number footer.
func (p *PDFExporter) RenderTable(ctx context.Context, title string, columns []string, rows [][]string) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, buildTableHTML(title, columns, rows)); err != nil {
		return nil, err
	}

	footer, err := writer.CreateFormFile("files", "footer.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(footer, footerHTML); err != nil {
		return nil, err
	}

	if err := writer.WriteField("marginBottom", "0.6"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

// footerHTML renders "Página N" on every page; pageNumber is substituted by
// the Chromium print pipeline.
const footerHTML = `<html><head><style>p{font-size:10px;font-family:sans-serif;margin-left:24px;}</style></head>` +
	`<body><p>Página <span class="pageNumber"></span></p></body></html>`

func buildTableHTML(title string, columns []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:18px;}")
	b.WriteString("table{width:100%;border-collapse:collapse;font-size:11px;}")
	b.WriteString("th{background:#2980b9;color:#fff;font-weight:bold;text-align:left;padding:5px;}")
	b.WriteString("td{border:1px solid #ddd;padding:5px;vertical-align:middle;}")
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>%s</h1>", html.EscapeString(title)))

	b.WriteString("<table><thead><tr>")
	for _, col := range columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(col))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}
