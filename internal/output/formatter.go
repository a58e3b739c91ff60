package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is what a formatter renders: a tax result and, when optimization
// ran, its ranked recommendations.
type Report struct {
	Profile      *domain.FiscalProfile        `json:"profile"`
	Tax          *domain.TaxCalculationResult `json:"tax"`
	Optimization *domain.OptimizationResult   `json:"optimization,omitempty"`
}

// Formatter renders a report in one output format.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

// Formats lists the supported output format names.
var Formats = []string{"console", "json", "csv"}

// NewFormatter returns the formatter for a format name.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "console", "":
		return &ConsoleFormatter{}, nil
	case "json":
		return &JSONFormatter{Pretty: true}, nil
	case "csv":
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteFormatted renders r with f and writes it to w.
func WriteFormatted(w io.Writer, f Formatter, r *Report) error {
	if r == nil || r.Tax == nil {
		return fmt.Errorf("%s: report has no tax result", f.Name())
	}
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// FormatCurrency formats a decimal as euros
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " €"
}

// FormatPercentage formats a rate (0.11) as a percentage (11.00%)
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func bracketRange(lower decimal.Decimal, upper *decimal.Decimal) string {
	if upper == nil {
		return lower.StringFixed(0) + "+"
	}
	return lower.StringFixed(0) + "-" + upper.StringFixed(0)
}
