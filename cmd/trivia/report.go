package main

import (
	"io"
	"os"

	"trivia-gen/internal/domain"

	"gopkg.in/yaml.v3"
)

// report is the machine-readable record of one run.
type report struct {
	File        string  `yaml:"file"`
	Status      string  `yaml:"status"`
	Message     string  `yaml:"message"`
	FailedStage string  `yaml:"failed_stage,omitempty"`
	Error       string  `yaml:"error,omitempty"`
	Context     *string `yaml:"context"`
	Questions   *string `yaml:"questions"`
}

func newReport(fileName string, state domain.PipelineState, outcome *domain.PipelineOutcome) report {
	r := report{
		File:      fileName,
		Status:    string(state.Status.Kind),
		Message:   state.Status.Text,
		Context:   outcome.Context,
		Questions: outcome.Questions,
	}
	if outcome.Failure != nil {
		r.FailedStage = string(outcome.Failure.Stage)
		r.Error = outcome.Failure.Cause.Error()
	}
	return r
}

func writeReport(w io.Writer, r report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// saveReport writes r to path, or to stdout when path is "-".
func saveReport(path string, r report) error {
	if path == "-" {
		return writeReport(os.Stdout, r)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeReport(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
