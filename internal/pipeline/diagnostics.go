package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// WriteScoresCSV writes a header row and then one row per sentence:
// index, token count, the chart's optimal projective score, the score
// actually realized after any refinement, and the number of refiner
// commits. Modeled on WriteDPResultsToCSV.
func WriteScoresCSV(w io.Writer, results []*SentenceResult) (err error) {
	data := make([][]string, len(results)+1)
	data[0] = []string{"Sentence", "Tokens", "ChartScore", "FinalScore", "RefinerCommits"}
	for i, r := range results {
		data[i+1] = []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Tokens),
			strconv.FormatFloat(r.ChartScore, 'f', -1, 64),
			strconv.FormatFloat(r.FinalScore, 'f', -1, 64),
			strconv.Itoa(r.RefinerCommits),
		}
	}
	writer := csv.NewWriter(w)
	defer func() {
		writer.Flush()
		if err == nil {
			err = writer.Error()
		} else if writer.Error() != nil {
			log.Printf("error when flushing scores csv, %s", writer.Error())
		}
	}()
	if err = writer.WriteAll(data); err != nil {
		err = fmt.Errorf("%w, %s", ErrWritingDiagnostics, err)
		return
	}
	return
}

// WriteScoresLineplot draws the final tree score per sentence index to
// "<prefix>.scores.png". Modeled on WriteResultsLineplot.
func WriteScoresLineplot(results []*SentenceResult, prefix string) error {
	p := plot.New()
	p.X.Label.Text = "Sentence"
	p.Y.Label.Text = "Final Tree Score"

	pts := make(plotter.XYs, len(results))
	for i, r := range results {
		pts[i].X = float64(r.Index)
		pts[i].Y = r.FinalScore
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrWritingDiagnostics, err)
	}
	p.Add(line, points)
	if err := p.Save(plotWidth, plotHeight, fmt.Sprintf("%s.scores.png", prefix)); err != nil {
		return fmt.Errorf("%w: %s", ErrWritingDiagnostics, err)
	}
	return nil
}
