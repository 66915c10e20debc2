package suggest //nolint:testpackage // testing internal implementation.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/ast"
)

func findingAt(rule, message string, line uint32) analyze.Finding {
	return analyze.Finding{
		Rule:     rule,
		Message:  message,
		Severity: analyze.SeverityWarning,
		Category: analyze.CategoryCodeSmell,
		Span: ast.Span{
			Start: ast.Position{Line: line, Column: 1},
			End:   ast.Position{Line: line, Column: 2},
		},
	}
}

func fileResult(findings ...analyze.Finding) *analyze.FileResult {
	return &analyze.FileResult{
		File:     analyze.FileInfo{Path: "src/app.js", Language: "JavaScript", Lines: 120},
		Findings: findings,
	}
}

// newTestProvider points a provider at a stub Ollama endpoint.
func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Options{Endpoint: server.URL, Model: "test-model", Timeout: 5 * time.Second}, nil)
}

func ollamaReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"response": text,
		"done":     true,
	}))
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	provider := New(Options{}, nil)
	assert.Equal(t, DefaultEndpoint, provider.client.BaseURL)
	assert.Equal(t, DefaultModel, provider.model)
	assert.Equal(t, DefaultTimeout, provider.client.GetClient().Timeout)
}

func TestSuggest_NoFindingsSkipsCall(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, func(http.ResponseWriter, *http.Request) {
		t.Error("endpoint must not be called for a clean file")
	})

	suggestions, err := provider.Suggest(context.Background(), fileResult())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggest_PairsRepliesWithFindings(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "test-model", payload["model"])
		assert.Equal(t, false, payload["stream"])

		prompt, ok := payload["prompt"].(string)
		require.True(t, ok)
		assert.Contains(t, prompt, "src/app.js")
		assert.Contains(t, prompt, "[sql-injection]")
		assert.Contains(t, prompt, "(line 3)")

		ollamaReply(t, w, "Use parameterized queries\nExtract the branch into a helper\n")
	})

	result := fileResult(
		findingAt("sql-injection", "SQL query built by concatenation", 3),
		findingAt("complexity-cyclomatic", "too complex", 10),
	)

	suggestions, err := provider.Suggest(context.Background(), result)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "Use parameterized queries", suggestions[0].Title)
	assert.Equal(t, "sql-injection", suggestions[0].Rule)
	assert.Equal(t, "ollama", suggestions[0].Source)

	assert.Equal(t, "Extract the branch into a helper", suggestions[1].Title)
	assert.Equal(t, "complexity-cyclomatic", suggestions[1].Rule)
}

func TestSuggest_SurplusLinesDropped(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		ollamaReply(t, w, "First fix\nSecond thought\nThird thought\n")
	})

	suggestions, err := provider.Suggest(context.Background(), fileResult(
		findingAt("magic-number", "magic number 42", 7),
	))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "First fix", suggestions[0].Title)
}

func TestSuggest_CleansListMarkers(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		ollamaReply(t, w, "1. Name the constant\n- Shorten the function\n")
	})

	suggestions, err := provider.Suggest(context.Background(), fileResult(
		findingAt("magic-number", "magic number 42", 7),
		findingAt("function-length", "too long", 1),
	))
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Name the constant", suggestions[0].Title)
	assert.Equal(t, "Shorten the function", suggestions[1].Title)
}

func TestSuggest_ErrorStatus(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := provider.Suggest(context.Background(), fileResult(
		findingAt("magic-number", "magic number 42", 7),
	))
	require.ErrorIs(t, err, ErrGenerateFailed)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestSuggest_UnreachableEndpoint(t *testing.T) {
	t.Parallel()

	provider := New(Options{Endpoint: "http://127.0.0.1:1", Timeout: 2 * time.Second}, nil)

	_, err := provider.Suggest(context.Background(), fileResult(
		findingAt("magic-number", "magic number 42", 7),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama generate")
}

func TestBuildPrompt_CapsFindings(t *testing.T) {
	t.Parallel()

	findings := make([]analyze.Finding, 0, maxPromptFindings+2)
	for i := range maxPromptFindings + 2 {
		findings = append(findings, findingAt("magic-number", fmt.Sprintf("value %d", i), uint32(i+1)))
	}

	prompt := buildPrompt(fileResult(findings...))
	assert.Contains(t, prompt, fmt.Sprintf("%d. [magic-number]", maxPromptFindings))
	assert.NotContains(t, prompt, fmt.Sprintf("%d. [magic-number]", maxPromptFindings+1))
}

func TestCleanLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Use a constant", want: "Use a constant"},
		{name: "dash_bullet", input: "- Use a constant", want: "Use a constant"},
		{name: "star_bullet", input: "* Use a constant", want: "Use a constant"},
		{name: "dot_numbering", input: "1. Use a constant", want: "Use a constant"},
		{name: "paren_numbering", input: "12) Use a constant", want: "Use a constant"},
		{name: "whitespace", input: "   Use a constant  ", want: "Use a constant"},
		{name: "empty", input: "   ", want: ""},
		{name: "sentence_with_period", input: "Ok. Then fix it", want: "Ok. Then fix it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cleanLine(tt.input))
		})
	}
}
