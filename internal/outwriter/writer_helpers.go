package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSV runs rows against a CSV writer and reports any buffered write error.
func writeCSV(w io.Writer, rows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if err := rows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeCSVWithHeader writes a header followed by data rows.
func writeCSVWithHeader(w *csv.Writer, header []string, records [][]string) error {
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// createFormatter returns a float formatter with a fixed precision.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}

// renderTable writes headers and rows as a table with right aligned cells.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// keyValue is one labelled line of a summary.
type keyValue struct {
	Key   string
	Label string
	Value string
}

// writeKeyValueTable renders a two column summary under a title.
func writeKeyValueTable(w io.Writer, title string, pairs []keyValue) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	data := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		data = append(data, []string{p.Label, p.Value})
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeKeyValuesCSV writes a summary as metric,value rows keyed by machine names.
func writeKeyValuesCSV(w *csv.Writer, pairs []keyValue) error {
	records := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, []string{p.Key, p.Value})
	}
	return writeCSVWithHeader(w, []string{"metric", "value"}, records)
}
