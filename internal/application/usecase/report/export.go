package report

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// CSVHeader is the first record of every CSV export.
var CSVHeader = []string{"Data", "Causale", "Categoria", "Tipo", "Importo"}

//go:embed templates/report.html
var templateFS embed.FS

var printTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"date":   formatRange,
	"amount": formatAmount,
	"income": func(t entity.MovementType) bool { return t == entity.MovementTypeIncome },
}).ParseFS(templateFS, "templates/report.html"))

// ExportReportInput represents the input for report export.
type ExportReportInput struct {
	GenerateReportInput
	Format Format
}

// ExportReportOutput carries the rendered file.
type ExportReportOutput struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportReportUseCase renders a report as CSV or a printable HTML page.
type ExportReportUseCase struct {
	aggregator *Aggregator
}

// NewExportReportUseCase creates a new ExportReportUseCase instance.
func NewExportReportUseCase(aggregator *Aggregator) *ExportReportUseCase {
	return &ExportReportUseCase{
		aggregator: aggregator,
	}
}

// Execute generates the report and renders it in the requested format.
func (uc *ExportReportUseCase) Execute(ctx context.Context, input ExportReportInput) (*ExportReportOutput, error) {
	format := Format(strings.ToLower(string(input.Format)))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatHTML {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidExportFormat,
			fmt.Sprintf("unsupported export format %q", input.Format),
			nil,
		)
	}

	report, err := uc.aggregator.Generate(ctx, Request{
		EntityID:    input.Actor.EntityID,
		Period:      input.Period,
		AccountIDs:  input.AccountIDs,
		CategoryIDs: input.CategoryIDs,
		Types:       input.Types,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	output := &ExportReportOutput{
		FileName: fmt.Sprintf("report_%s.%s", report.GeneratedAt.Format(valueobject.DateLayout), format),
	}
	switch format {
	case FormatCSV:
		output.ContentType = "text/csv; charset=utf-8"
		err = WriteCSV(&buf, report)
	case FormatHTML:
		output.ContentType = "text/html; charset=utf-8"
		err = WriteHTML(&buf, report)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}
	output.Body = buf.Bytes()
	return output, nil
}

// WriteCSV writes the movements as ';'-separated records followed by the totals.
func WriteCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range report.Movements {
		record := []string{
			row.Date.Format(valueobject.ItalianDateLayout),
			row.Note,
			row.Path,
			string(row.Type),
			formatAmount(row.Amount),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	trailer := [][]string{
		{"", "", "", "Totale entrate", formatAmount(report.TotalIncome)},
		{"", "", "", "Totale uscite", formatAmount(report.TotalExpense)},
		{"", "", "", "Saldo", formatAmount(report.Saldo())},
	}
	if err := cw.WriteAll(trailer); err != nil {
		return err
	}
	return cw.Error()
}

// WriteHTML renders the printable report page.
func WriteHTML(w io.Writer, report *Report) error {
	return printTemplate.Execute(w, report)
}

// formatAmount renders d with two decimals, '.' thousands and ',' decimal separators.
func formatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + grouped.String() + "," + fracPart
}

func formatRange(d valueobject.DateRange) string {
	return d.Start.Format(valueobject.ItalianDateLayout) + " - " + d.End.Format(valueobject.ItalianDateLayout)
}
