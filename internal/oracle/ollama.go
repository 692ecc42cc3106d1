package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/nao1215/deedscan/internal/model"
)

// DefaultOllamaModel is the local model used when none is configured.
const DefaultOllamaModel = "llama3"

// ErrOllamaNotFound is returned when the ollama binary is not on PATH.
var ErrOllamaNotFound = errors.New("ollama command not found")

// Ollama classifies by running `ollama run <model>` with the prompt on
// stdin.
type Ollama struct {
	command string
	model   string
	labels  []string
}

// OllamaOption configures Ollama.
type OllamaOption func(*Ollama)

// WithOllamaCommand overrides the executable name or path.
func WithOllamaCommand(command string) OllamaOption {
	return func(o *Ollama) {
		if command != "" {
			o.command = command
		}
	}
}

// WithOllamaLabels sets the labels listed in the prompt.
func WithOllamaLabels(labels []string) OllamaOption {
	return func(o *Ollama) {
		o.labels = slices.Clone(labels)
	}
}

// NewOllama creates an Ollama oracle for model.
func NewOllama(modelName string, opts ...OllamaOption) *Ollama {
	if modelName == "" {
		modelName = DefaultOllamaModel
	}
	o := &Ollama{
		command: "ollama",
		model:   modelName,
		labels:  model.DefaultLabels(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ModelName returns the model passed to ollama.
func (o *Ollama) ModelName() string { return o.model }

// Check reports whether the ollama executable can be found.
func (o *Ollama) Check() error {
	if _, err := exec.LookPath(o.command); err != nil {
		return fmt.Errorf("%w: %s", ErrOllamaNotFound, o.command)
	}
	return nil
}

// Classify implements classify.Oracle.
func (o *Ollama) Classify(ctx context.Context, text string) (string, error) {
	cmd := exec.CommandContext(ctx, o.command, "run", o.model)
	cmd.Stdin = strings.NewReader(Prompt(text, o.labels))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("ollama run %s: %w: %s", o.model, err, msg)
		}
		return "", fmt.Errorf("ollama run %s: %w", o.model, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
