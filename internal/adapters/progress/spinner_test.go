package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func TestSpinnerSink_NonInteractive(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSpinnerSink(&buf, false)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "submitting", Message: "Casting vote", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "complete", Message: "Casting vote"})
	sink.Info("paymaster balance is low")
	sink.Error("sponsorship declined")

	out := buf.String()
	assert.Contains(t, out, "Casting vote...\n")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Casting vote")))
	assert.Contains(t, out, "paymaster balance is low")
	assert.Contains(t, out, "sponsorship declined")
}

func TestNopSink(t *testing.T) {
	sink := NewNopSink()
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Message: "ignored", Spinner: true})
	sink.Info("ignored")
	sink.Error("ignored")
}
