package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/herddir/herddir/internal/directory"
	"github.com/herddir/herddir/internal/llm"
	"github.com/herddir/herddir/internal/logger"
)

// EndpointError reports a failure contacting the language model
// endpoint: network, auth, or rate limiting. Fatal for the call; the
// resolver never retries on its own.
type EndpointError struct {
	Err error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("language model endpoint failure: %v", e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}

// ResponseParseError reports that the model replied but the payload did
// not match the expected structured format. The resolver never guesses
// filters from a malformed reply: "no filters" and "could not understand
// the request" are different outcomes to the user.
type ResponseParseError struct {
	Reason string
	Raw    string
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("could not parse model response: %s", e.Reason)
}

// Resolver resolves natural-language sentences into FilterSets through
// an injected completion provider.
type Resolver struct {
	provider    llm.Provider
	temperature float64
	maxTokens   int
}

// Option configures the resolver.
type Option func(*Resolver)

// WithTemperature sets the sampling temperature. The default is low to
// keep resolution near-deterministic.
func WithTemperature(t float64) Option {
	return func(r *Resolver) { r.temperature = t }
}

// WithMaxTokens bounds the model's response length.
func WithMaxTokens(n int) Option {
	return func(r *Resolver) { r.maxTokens = n }
}

// New creates a Resolver over the given provider.
func New(provider llm.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider:    provider,
		temperature: 0.1,
		maxTokens:   512,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve turns a sentence into a FilterSet, or fails with
// *EndpointError or *ResponseParseError.
func (r *Resolver) Resolve(ctx context.Context, sentence string) (directory.FilterSet, error) {
	logger.Debug("resolving natural-language query",
		"provider", r.provider.Name(),
		"sentence_len", len(sentence))

	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: BuildPrompt(sentence)},
		},
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
		JSONSchema:  filterSchema(),
	})
	if err != nil {
		return directory.FilterSet{}, &EndpointError{Err: err}
	}

	logger.Debug("model replied",
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return ParseResponse(resp.Content)
}

// payload is the model's raw structured output before validation.
type payload struct {
	State  *string `json:"state"`
	Member *string `json:"member"`
	Breed  *string `json:"breed"`
}

// ParseResponse extracts the JSON payload from a model reply. Reasoning
// models prepend explanation text, so the payload is located as the
// outermost brace-delimited object rather than parsed from position 0.
func ParseResponse(content string) (directory.FilterSet, error) {
	raw, ok := locateJSON(content)
	if !ok {
		return directory.FilterSet{}, &ResponseParseError{
			Reason: "no JSON object found in reply",
			Raw:    content,
		}
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return directory.FilterSet{}, &ResponseParseError{
			Reason: fmt.Sprintf("malformed JSON payload: %v", err),
			Raw:    content,
		}
	}

	return directory.NewFilterSet(
		fieldValue(p.State),
		fieldValue(p.Member),
		fieldValue(p.Breed),
	), nil
}

// locateJSON returns the outermost {...} span of the reply.
func locateJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// fieldValue maps a payload field to a filter value. null, "none" and
// empty strings all mean the field is absent.
func fieldValue(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "none") || strings.EqualFold(v, "null") {
		return ""
	}
	return v
}
