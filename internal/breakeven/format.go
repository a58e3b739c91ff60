package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var targetLabels = map[Target]string{
	TargetReelExpenses: "Réel break-even expenses",
	TargetPERBracket:   "PER contribution to drop a bracket",
}

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format renders one block per result.
func (tf *TableFormatter) Format(results []Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")

	for _, res := range results {
		sb.WriteString("\n" + tf.label(res.Target) + "\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		sb.WriteString(fmt.Sprintf("Status:            %s\n", tf.formatStatus(res.Success)))
		sb.WriteString(fmt.Sprintf("Current amount:    %s\n", tf.formatCurrency(res.Current)))
		if res.BreakEven != nil {
			sb.WriteString(fmt.Sprintf("Break-even amount: %s\n", tf.formatCurrency(*res.BreakEven)))
			sb.WriteString(fmt.Sprintf("Gap:               %s%s\n", tf.deltaSymbol(res.Gap), tf.formatCurrency(res.Gap)))
			sb.WriteString(fmt.Sprintf("Net tax:           %s -> %s\n",
				tf.formatCurrency(res.NetTaxCurrent), tf.formatCurrency(res.NetTaxBreakEven)))
		}
		if res.ConvergenceInfo != "" {
			sb.WriteString(fmt.Sprintf("Details:           %s\n", res.ConvergenceInfo))
		}
	}
	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(results []Result) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(results, "", "  ")
	} else {
		data, err = json.Marshal(results)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (tf *TableFormatter) label(t Target) string {
	if l, ok := targetLabels[t]; ok {
		return l
	}
	return string(t)
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Reachable"
	}
	return "⚠ Not reachable"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2) + " EUR"
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}
