// Package exporter writes the derived analytical views to plain CSV and
// JSON files. It carries no rendering concerns; the presentation layer
// consumes whatever it emits.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"grantlens/internal/analytics"
	"grantlens/internal/collab"
)

// Writer exports report files into a single output directory. Every Writer
// carries a run identifier that tags its manifest and log lines, so
// concurrent report runs stay distinguishable.
type Writer struct {
	outDir string
	runID  string
	logger *slog.Logger

	written []string
}

// NewWriter creates a report writer rooted at outDir.
func NewWriter(outDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		outDir: outDir,
		runID:  uuid.NewString(),
		logger: logger,
	}
}

// RunID returns the identifier of this report run.
func (w *Writer) RunID() string { return w.runID }

// WriteSeriesCSV writes an aggregated series as key,value,count rows.
func (w *Writer) WriteSeriesCSV(name, keyHeader string, s analytics.Series) error {
	rows := make([][]string, 0, len(s))
	for _, e := range s {
		rows = append(rows, []string{e.Key, formatFloat(e.Value), strconv.Itoa(e.Count)})
	}
	return w.writeCSV(name, []string{keyHeader, "Total Funding ($M)", "Count"}, rows)
}

// WriteTrendCSV writes the funding trend view: one row per fiscal year with
// the moving average column blank until its window fills, plus a trailing
// forecast row when the view carries one.
func (w *Writer) WriteTrendCSV(name string, v analytics.TrendView) error {
	rows := make([][]string, 0, len(v.Points)+1)
	for i, p := range v.Points {
		rows = append(rows, []string{
			strconv.Itoa(p.Year),
			formatFloat(p.Value),
			formatOptional(v.MovingAvg[i]),
			"",
		})
	}
	if v.Forecast != nil {
		rows = append(rows, []string{
			strconv.Itoa(v.Forecast.Period),
			"",
			"",
			formatFloat(v.Forecast.Value),
		})
	}
	headers := []string{"Fiscal Year", "Total Funding ($M)", "Moving Average ($M)", "Forecast ($M)"}
	return w.writeCSV(name, headers, rows)
}

// WriteInvestigatorsCSV writes the top-investigators view.
func (w *Writer) WriteInvestigatorsCSV(name string, rows []analytics.Investigator) error {
	out := make([][]string, 0, len(rows))
	for _, pi := range rows {
		out = append(out, []string{
			pi.PersonID,
			pi.Name,
			pi.State,
			formatFloat(pi.TotalFunding),
			strconv.Itoa(pi.Projects),
		})
	}
	headers := []string{"PI Person ID", "PI Name", "State", "Total Funding ($M)", "Project Count"}
	return w.writeCSV(name, headers, out)
}

// networkDocument is the JSON shape of the collaboration view.
type networkDocument struct {
	Nodes []networkNode `json:"nodes"`
	Edges []collab.Edge `json:"edges"`
}

type networkNode struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// WriteNetworkJSON writes the collaboration graph with its layout.
func (w *Writer) WriteNetworkJSON(name string, g *collab.Graph, layout map[string]collab.Position) error {
	doc := networkDocument{
		Nodes: make([]networkNode, 0, g.NodeCount()),
		Edges: g.Edges(),
	}
	if doc.Edges == nil {
		doc.Edges = []collab.Edge{}
	}
	for _, node := range g.Nodes() {
		p := layout[node]
		doc.Nodes = append(doc.Nodes, networkNode{Name: node, X: p.X, Y: p.Y})
	}
	return w.writeJSON(name, doc)
}

// Manifest describes one completed report run.
type Manifest struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Files       []string  `json:"files"`
}

// WriteManifest records the run id and every file written so far.
func (w *Writer) WriteManifest(name string) error {
	return w.writeJSON(name, Manifest{
		RunID:       w.runID,
		GeneratedAt: time.Now().UTC(),
		Files:       append([]string(nil), w.written...),
	})
}

func (w *Writer) writeCSV(name string, headers []string, rows [][]string) error {
	path := filepath.Join(w.outDir, name)
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := cw.Error(); err != nil {
		return err
	}

	w.logWritten(name, len(rows))
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	path := filepath.Join(w.outDir, name)
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	w.logWritten(name, -1)
	return nil
}

func (w *Writer) logWritten(name string, rows int) {
	w.written = append(w.written, name)
	attrs := []any{"run_id", w.runID, "file", filepath.Join(w.outDir, name)}
	if rows >= 0 {
		attrs = append(attrs, "rows", rows)
	}
	w.logger.Info("report file written", attrs...)
}
