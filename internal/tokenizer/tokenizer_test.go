package tokenizer

import (
	"errors"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "two_characters", input: "ab", expected: 1},
		{name: "exactly_four", input: "abcd", expected: 1},
		{name: "rounds_up", input: "abcde", expected: 2},
		{name: "eight_characters", input: "abcdefgh", expected: 2},
		{name: "counts_code_points_not_bytes", input: "ééééé", expected: 2},
		{name: "supplementary_plane_is_one_character", input: "😀😀😀😀", expected: 1},
		{name: "supplementary_plane_rounds_up", input: "😀😀😀😀😀", expected: 2},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := EstimateTokens(testCase.input); actual != testCase.expected {
				t.Fatalf("expected %d tokens, got %d", testCase.expected, actual)
			}
		})
	}
}

func TestNewCounterDefaultsToEstimate(t *testing.T) {
	for _, model := range []string{"", "estimate", " Estimate "} {
		counter, resolved, err := NewCounter(Config{Model: model})
		if err != nil {
			t.Fatalf("NewCounter(%q) error: %v", model, err)
		}
		if resolved != EstimateModelName || counter.Name() != EstimateModelName {
			t.Fatalf("expected estimate counter for %q, got %s", model, resolved)
		}
		tokens, countErr := counter.CountString("hello")
		if countErr != nil {
			t.Fatalf("CountString error: %v", countErr)
		}
		if tokens != 2 {
			t.Fatalf("expected 2 tokens, got %d", tokens)
		}
	}
}

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func TestCountTexts(t *testing.T) {
	total, err := CountTexts(estimateCounter{}, []string{"abcd", "abcde", ""})
	if err != nil {
		t.Fatalf("CountTexts error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 tokens, got %d", total)
	}
	if _, err := CountTexts(failingCounter{}, []string{"x"}); err == nil {
		t.Fatalf("expected counter error to propagate")
	}
}
