package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/model"
)

// DefaultPrompt asks the model for five ranked animals with percentages.
const DefaultPrompt = "What are the top 5 animals this cloud looks like, with confidence scores in percentage? " +
	"Please only give me the top 5 animals and their confidence scores in percentage. No other description!"

// Analyzer asks the vision model what a cloud photo looks like.
type Analyzer struct {
	inferer Inferer
	prompt  string
}

// NewAnalyzer creates an Analyzer; an empty prompt selects DefaultPrompt.
func NewAnalyzer(inferer Inferer, prompt string) *Analyzer {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Analyzer{inferer: inferer, prompt: prompt}
}

// Analyze sends the photo to the model and extracts the ranked answers.
func (a *Analyzer) Analyze(ctx context.Context, img *model.Image) ([]Similarity, error) {
	if a.inferer == nil {
		return nil, fmt.Errorf("%w: no inference backend configured", blob.ErrInference)
	}

	text, err := a.inferer.Infer(ctx, DataURL(img.Format, img.Data), a.prompt)
	if err != nil {
		if errors.Is(err, blob.ErrInference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", blob.ErrInference, err)
	}
	return ExtractResults(text), nil
}

// DataURL embeds encoded image bytes in a data: URL.
func DataURL(format string, data []byte) string {
	return fmt.Sprintf("data:image/%s;base64,%s", strings.ToLower(format), base64.StdEncoding.EncodeToString(data))
}
