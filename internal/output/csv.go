package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// CSVHeader is the column contract consumed by spreadsheet exports
var CSVHeader = []string{"Year", "Invested", "Future Value", "Gains"}

// CSVFormatter writes one row per year point with two-decimal fields
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, p := range result.Points {
		row := []string{
			strconv.Itoa(p.Year),
			p.Invested.StringFixed(2),
			p.Value.StringFixed(2),
			p.Gains.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
