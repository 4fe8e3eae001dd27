package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"trivia-gen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteReport_Success(t *testing.T) {
	text, questions := "Hello world", "Q1: ...?"
	state := domain.PipelineState{Status: domain.StatusMessage{Kind: domain.StatusSucceeded, Text: domain.MsgQuestionsReady}}
	outcome := &domain.PipelineOutcome{Context: &text, Questions: &questions}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, newReport("lecture.pdf", state, outcome)))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "lecture.pdf", got["file"])
	assert.Equal(t, "succeeded", got["status"])
	assert.Equal(t, "Hello world", got["context"])
	assert.Equal(t, "Q1: ...?", got["questions"])
	assert.NotContains(t, got, "failed_stage")
}

func TestWriteReport_GenerationFailure(t *testing.T) {
	text := "Hello world"
	state := domain.PipelineState{Status: domain.StatusMessage{Kind: domain.StatusFailed, Text: domain.MsgGenerationFailed}}
	outcome := &domain.PipelineOutcome{
		Context: &text,
		Failure: &domain.StageFailure{
			Stage: domain.StageGeneration,
			Cause: fmt.Errorf("%w: %q", domain.ErrUnexpectedTag, "error"),
		},
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, saveReport(path, newReport("lecture.pdf", state, outcome)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &got))
	assert.Equal(t, "generation", got["failed_stage"])
	assert.Equal(t, "Hello world", got["context"])
	assert.Nil(t, got["questions"])
	assert.Contains(t, got["error"], "unexpected")
}
