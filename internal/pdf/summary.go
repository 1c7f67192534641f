// Package pdf renders the administrative summary report.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/stats"
)

// Filename is the attachment name sent to the browser.
const Filename = "reporte_smart_collector.pdf"

const title = "Reporte General - Smart Collector"

type column struct {
	header string
	width  float64
}

var reportColumns = []column{
	{"#", 12},
	{"Fecha", 26},
	{"Tipo", 24},
	{"Estado", 24},
	{"Usuario", 30},
	{"Detalle", 74},
}

// RenderSummary lays out the counters followed by one table row per report.
// The table header is repeated on every page and each page carries its number.
func RenderSummary(s stats.Summary, reports []models.Report, generatedAt time.Time) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "Letter", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(title, true)
	doc.SetAutoPageBreak(true, 15)
	doc.AliasNbPages("")

	inTable := false
	doc.SetHeaderFunc(func() {
		if inTable {
			tableHeader(doc, tr)
		}
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-12)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 8, tr(fmt.Sprintf("Página %d/{nb}", doc.PageNo())), "", 0, "C", false, 0, "")
	})

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, tr("Generado: "+generatedAt.UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Rutas completadas: %d", s.CompletedRoutes),
		fmt.Sprintf("Rutas pendientes: %d", s.PendingRoutes),
		"",
		fmt.Sprintf("Reportes recibidos: %d", s.TotalReports),
		fmt.Sprintf("Resueltos: %d", s.ResolvedReports),
		fmt.Sprintf("No solucionados: %d", s.UnresolvedReports),
		fmt.Sprintf("Pendientes: %d", s.PendingReports),
		"",
		fmt.Sprintf("Días desde el primer reporte: %d", s.DaysSinceFirstReport),
	}
	for _, l := range lines {
		doc.CellFormat(0, 7, tr(l), "", 1, "L", false, 0, "")
	}

	if len(reports) > 0 {
		doc.Ln(6)
		inTable = true
		tableHeader(doc, tr)
		doc.SetFont("Helvetica", "", 9)
		for _, r := range reports {
			filer := ""
			if r.User != nil {
				filer = r.User.Username
			}
			cells := []string{
				fmt.Sprintf("%d", r.ID),
				r.Fecha.UTC().Format(models.DateLayout),
				string(r.Tipo),
				string(r.Status),
				truncate(filer, 18),
				truncate(r.Detalle, 48),
			}
			for i, c := range cells {
				doc.CellFormat(reportColumns[i].width, 7, tr(c), "1", 0, "L", false, 0, "")
			}
			doc.Ln(-1)
		}
	}

	if err := doc.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tableHeader(doc *gofpdf.Fpdf, tr func(string) string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for _, col := range reportColumns {
		doc.CellFormat(col.width, 8, tr(col.header), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 9)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
