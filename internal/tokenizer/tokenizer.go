// Package tokenizer estimates how many model tokens a text occupies.
package tokenizer

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters.
type Config struct {
	Model string
}

const (
	// EstimateModelName selects the character based estimate.
	EstimateModelName   = "estimate"
	defaultEncodingName = "cl100k_base"
	charactersPerToken  = 4.0
)

// EstimateTokens approximates the token count of text as one token per four
// characters, rounded up. Characters are Unicode code points.
func EstimateTokens(text string) int {
	characterCount := utf8.RuneCountInString(text)
	if characterCount == 0 {
		return 0
	}
	return int(math.Ceil(float64(characterCount) / charactersPerToken))
}

// NewCounter returns a Counter for the requested model together with the
// resolved model name. An empty model selects the estimate.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	lowerModel := strings.ToLower(model)
	if lowerModel == "" || lowerModel == EstimateModelName {
		return estimateCounter{}, EstimateModelName, nil
	}

	if isOpenAIModel(lowerModel) {
		encoding, err := tiktoken.EncodingForModel(lowerModel)
		if err == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: lowerModel}, model, nil
		}
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer for %s: %w", model, fallbackErr)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

// CountTexts sums counter results over texts.
func CountTexts(counter Counter, texts []string) (int, error) {
	total := 0
	for _, text := range texts {
		tokens, err := counter.CountString(text)
		if err != nil {
			return 0, fmt.Errorf("count tokens with %s: %w", counter.Name(), err)
		}
		total += tokens
	}
	return total, nil
}

func isOpenAIModel(model string) bool {
	prefixes := []string{
		"gpt-",
		"o1",
		"o3",
		"text-embedding",
		"davinci",
		"curie",
		"babbage",
		"ada",
		"code-",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

type estimateCounter struct{}

func (estimateCounter) Name() string {
	return EstimateModelName
}

func (estimateCounter) CountString(input string) (int, error) {
	return EstimateTokens(input), nil
}
