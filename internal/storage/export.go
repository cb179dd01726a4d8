package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

type ExportData struct {
	RunMetadata
	Times        []float64   `json:"times"`
	Setpoints    []float64   `json:"setpoints"`
	Measurements []float64   `json:"measurements"`
	Outputs      []float64   `json:"outputs"`
	States       [][]float64 `json:"states"`
}

func newExportData(meta RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		RunMetadata:  meta,
		Times:        result.Times,
		Setpoints:    result.Setpoints,
		Measurements: result.Measurements,
		Outputs:      result.Outputs,
		States:       make([][]float64, len(result.States)),
	}
	data.Steps = result.Len()
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

// ExportJSON writes a run with its samples as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}

// Export writes a stored run to path, or to stdout when path is "-".
func (s *Store) Export(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	result, err := s.LoadResult(runID)
	if err != nil {
		return err
	}

	if path == "-" {
		return ExportJSON(os.Stdout, *meta, result)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, *meta, result)
}
