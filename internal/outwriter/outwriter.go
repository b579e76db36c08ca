// Package outwriter renders engine results as tables, JSON or CSV.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// OutWriter renders every result type in the configured output format.
type OutWriter struct {
	cfg *contract.Config
	w   io.Writer // overrides cfg.OutputFile when set
}

// NewOutWriter creates a writer that honors cfg.Output and cfg.OutputFile.
func NewOutWriter(cfg *contract.Config) *OutWriter {
	return &OutWriter{cfg: cfg}
}

// NewOutWriterTo creates a writer that always writes to w.
func NewOutWriterTo(cfg *contract.Config, w io.Writer) *OutWriter {
	return &OutWriter{cfg: cfg, w: w}
}

// WriteInit prints the result of registering a repository.
func (ow *OutWriter) WriteInit(res schema.InitResult) error {
	return ow.dispatch(res, func(w *csv.Writer) error {
		return writeKeyValuesCSV(w, initPairs(res))
	}, func(w io.Writer) error {
		return writeKeyValueTable(w, "Repository initialized", initPairs(res))
	})
}

// WriteCollect prints the result of a collection run, including batch errors.
func (ow *OutWriter) WriteCollect(res schema.CollectResult, duration time.Duration) error {
	return ow.dispatch(res, func(w *csv.Writer) error {
		return writeKeyValuesCSV(w, collectPairs(res))
	}, func(w io.Writer) error {
		return writeCollectTable(w, res, duration)
	})
}

// WriteCommits prints a list of commits.
func (ow *OutWriter) WriteCommits(commits []schema.Commit) error {
	return ow.dispatch(commits, func(w *csv.Writer) error {
		return writeCommitsCSV(w, commits)
	}, func(w io.Writer) error {
		if err := writeCommitTable(w, commits, ow.cfg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Showing %d commits\n", len(commits))
		return err
	})
}

// WriteQuery prints one page of a commit query with its summary.
func (ow *OutWriter) WriteQuery(res schema.QueryResult, filter schema.CommitFilter) error {
	return ow.dispatch(res, func(w *csv.Writer) error {
		return writeCommitsCSV(w, res.Commits)
	}, func(w io.Writer) error {
		return writeQueryTable(w, res, filter, ow.cfg)
	})
}

// WriteBranches prints stored branches.
func (ow *OutWriter) WriteBranches(branches []schema.Branch) error {
	return ow.dispatch(branches, func(w *csv.Writer) error {
		return writeBranchesCSV(w, branches)
	}, func(w io.Writer) error {
		return writeBranchTable(w, branches)
	})
}

// WriteCorrelation prints the result of a correlation run.
func (ow *OutWriter) WriteCorrelation(res schema.CorrelationResult) error {
	return ow.dispatch(res, func(w *csv.Writer) error {
		return writeKeyValuesCSV(w, correlationPairs(res))
	}, func(w io.Writer) error {
		return writeKeyValueTable(w, "Correlation finished", correlationPairs(res))
	})
}

// WriteHotspots prints ranked hotspots and their summary.
func (ow *OutWriter) WriteHotspots(res schema.HotspotResult) error {
	fmtFloat := createFormatter(ow.cfg.Precision)
	return ow.dispatch(res, func(w *csv.Writer) error {
		return writeHotspotsCSV(w, res.Hotspots, fmtFloat)
	}, func(w io.Writer) error {
		return writeHotspotTable(w, res, ow.cfg, fmtFloat)
	})
}

// WriteAnalysis prints the analysis of one commit.
func (ow *OutWriter) WriteAnalysis(res schema.CommitAnalysis) error {
	fmtFloat := createFormatter(ow.cfg.Precision)
	return ow.dispatch(res, func(w *csv.Writer) error {
		return writeAnalysisCSV(w, res, fmtFloat)
	}, func(w io.Writer) error {
		return writeAnalysisTable(w, res, ow.cfg)
	})
}

// WriteStatus prints the state of the commit store.
func (ow *OutWriter) WriteStatus(status schema.StoreStatus) error {
	return ow.dispatch(status, func(w *csv.Writer) error {
		return writeStatusCSV(w, status)
	}, func(w io.Writer) error {
		return writeStatusTable(w, status)
	})
}

// dispatch writes data as JSON, rows as CSV or the table, based on the configured output.
func (ow *OutWriter) dispatch(data any, rows func(*csv.Writer) error, table func(io.Writer) error) error {
	var write func(io.Writer) error
	var msg string
	switch ow.cfg.Output {
	case schema.JSONOut:
		write, msg = func(w io.Writer) error { return writeJSON(w, data) }, "Wrote JSON"
	case schema.CSVOut:
		write, msg = func(w io.Writer) error { return writeCSV(w, rows) }, "Wrote CSV"
	default:
		write, msg = table, "Wrote table"
	}
	if ow.w != nil {
		return write(ow.w)
	}
	if err := writeWithFile(ow.cfg.OutputFile, write, msg); err != nil {
		return fmt.Errorf("error writing %s output: %w", ow.cfg.Output, err)
	}
	return nil
}
