package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/schema"

	"github.com/olekukonko/tablewriter"
)

// weightRow is one metric of the active weight table.
type weightRow struct {
	Metric      schema.MetricName `json:"metric"`
	Weight      float64           `json:"weight"`
	Inverted    bool              `json:"inverted"`
	Description string            `json:"description"`
}

// weightsRenderModel is everything PrintWeights shows.
type weightsRenderModel struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Formula     string      `json:"formula"`
	Metrics     []weightRow `json:"metrics"`
}

// buildWeightsRenderModel lists every metric in display order.
func buildWeightsRenderModel(weights schema.WeightTable) *weightsRenderModel {
	rows := make([]weightRow, 0, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		rows = append(rows, weightRow{
			Metric:      m,
			Weight:      weights[m],
			Inverted:    schema.IsInverted(m),
			Description: schema.MetricDescriptions[m],
		})
	}
	return &weightsRenderModel{
		Title:       "Composite Complexity Score",
		Description: "Score = weighted sum of metrics min-max normalized across the batch",
		Formula:     weights.Formula(),
		Metrics:     rows,
	}
}

// PrintWeights displays the active weight table and scoring formula.
func PrintWeights(weights schema.WeightTable, cfg *contract.Config) error {
	model := buildWeightsRenderModel(weights)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsCSV(w, model)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsText(w, model)
		}, "Wrote text")
	}
}

func writeWeightsCSV(w io.Writer, model *weightsRenderModel) error {
	header := []string{"metric", "weight", "inverted", "description"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range model.Metrics {
			row := []string{
				string(r.Metric),
				strconv.FormatFloat(r.Weight, 'f', -1, 64),
				strconv.FormatBool(r.Inverted),
				r.Description,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeWeightsText(w io.Writer, model *weightsRenderModel) error {
	if _, err := fmt.Fprintf(w, "📐 %s\n==============================\n\n%s\n\n", model.Title, model.Description); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Weight", "Direction", "Description"})
	var data [][]string
	for _, r := range model.Metrics {
		direction := "higher = more complex"
		if r.Inverted {
			direction = "higher = less complex"
		}
		data = append(data, []string{string(r.Metric), fmt.Sprintf("%.2f", r.Weight), direction, r.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nFormula: Score = %s\n", model.Formula)
	return err
}
