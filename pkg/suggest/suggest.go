// Package suggest produces improvement suggestions for analyzed files by
// asking an Ollama model about the findings. The provider is optional and
// fails soft: an unreachable endpoint costs a log line, never a run.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
)

// Stock connection settings for a local Ollama daemon.
const (
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "qwen2.5-coder"
	DefaultTimeout  = 30 * time.Second
)

const (
	generatePath = "/api/generate"

	// maxPromptFindings caps how many findings one prompt describes; a file
	// drowning in findings needs a refactor, not a longer prompt.
	maxPromptFindings = 10

	maxErrorDetail = 512

	suggestionSource = "ollama"
)

// ErrGenerateFailed indicates the model endpoint answered with a non-OK status.
var ErrGenerateFailed = errors.New("suggestion generation failed")

// Options configure the provider connection.
type Options struct {
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Provider turns a file's findings into improvement suggestions via an
// Ollama completion call. It implements the analysis service's suggestion
// contract.
type Provider struct {
	client *resty.Client
	model  string
	log    *slog.Logger
}

// New builds a provider. Zero option fields fall back to the defaults and a
// nil logger to the default logger.
func New(opts Options, log *slog.Logger) *Provider {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}

	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if log == nil {
		log = slog.Default()
	}

	client := resty.New().
		SetBaseURL(opts.Endpoint).
		SetTimeout(opts.Timeout)

	return &Provider{client: client, model: opts.Model, log: log}
}

// generateResponse is the non-streaming Ollama completion shape.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Suggest asks the model for one suggestion per finding. Replies are paired
// with findings in order; surplus reply lines are dropped.
func (p *Provider) Suggest(ctx context.Context, result *analyze.FileResult) ([]analyze.Suggestion, error) {
	if len(result.Findings) == 0 {
		return nil, nil
	}

	var reply generateResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":  p.model,
			"prompt": buildPrompt(result),
			"stream": false,
		}).
		SetResult(&reply).
		Post(generatePath)
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		detail := strings.TrimSpace(resp.String())
		if detail != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrGenerateFailed, resp.StatusCode(), truncate(detail, maxErrorDetail))
		}

		return nil, fmt.Errorf("%w: status %d", ErrGenerateFailed, resp.StatusCode())
	}

	suggestions := pairSuggestions(reply.Response, result.Findings)

	p.log.Debug("suggestions generated",
		slog.String("file", result.File.Path),
		slog.Int("count", len(suggestions)))

	return suggestions, nil
}

// buildPrompt describes the file and its findings, asking for exactly one
// plain suggestion line per finding so the reply can be paired back up.
func buildPrompt(result *analyze.FileResult) string {
	findings := result.Findings
	if len(findings) > maxPromptFindings {
		findings = findings[:maxPromptFindings]
	}

	var prompt strings.Builder

	prompt.WriteString("You are reviewing static analysis findings for the file ")
	prompt.WriteString(result.File.Path)

	if result.File.Language != "" {
		prompt.WriteString(" (")
		prompt.WriteString(result.File.Language)
		prompt.WriteString(")")
	}

	prompt.WriteString(".\n")
	prompt.WriteString("Reply with exactly one short, concrete fix suggestion per finding, ")
	prompt.WriteString("one per line, in the same order, without numbering or bullets.\n\nFindings:\n")

	for i := range findings {
		finding := &findings[i]
		fmt.Fprintf(&prompt, "%d. [%s] %s (line %d)\n",
			i+1, finding.Rule, finding.Message, finding.Span.Start.Line)
	}

	return prompt.String()
}

// pairSuggestions maps reply lines onto findings in order. Lines beyond the
// finding count are model rambling and are dropped.
func pairSuggestions(reply string, findings []analyze.Finding) []analyze.Suggestion {
	limit := min(len(findings), maxPromptFindings)

	var suggestions []analyze.Suggestion

	for _, line := range strings.Split(reply, "\n") {
		title := cleanLine(line)
		if title == "" {
			continue
		}

		if len(suggestions) >= limit {
			break
		}

		suggestions = append(suggestions, analyze.Suggestion{
			Title:  title,
			Rule:   findings[len(suggestions)].Rule,
			Source: suggestionSource,
		})
	}

	return suggestions
}

// cleanLine strips list markers the model adds despite instructions.
func cleanLine(line string) string {
	cleaned := strings.TrimSpace(line)
	cleaned = strings.TrimLeft(cleaned, "-*• \t")

	// Drop "1." / "2)" style numbering.
	if cut := strings.IndexAny(cleaned, ".)"); cut > 0 && cut <= 2 {
		if isDigits(cleaned[:cut]) {
			cleaned = strings.TrimSpace(cleaned[cut+1:])
		}
	}

	return strings.TrimSpace(cleaned)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return len(s) > 0
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
