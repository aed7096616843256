// Package service implements the cached etymology fetch.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/etymon/internal/llm"
	"github.com/raphaelgruber/etymon/internal/metrics"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/raphaelgruber/etymon/internal/schema"
	"golang.org/x/sync/singleflight"
)

// Fetcher returns etymology data for a word in a language.
// Implemented by EtymologyService (in-process) and client.Client (remote).
type Fetcher interface {
	Fetch(ctx context.Context, word, language string) (*models.EtymologyData, error)
}

// Options configures an EtymologyService.
type Options struct {
	ReasoningEffort string
	MaxOutputTokens int
	Logger          *slog.Logger
	Metrics         *metrics.Collector
}

// EtymologyService fetches etymologies from the model and memoizes successes.
type EtymologyService struct {
	gen     llm.Generator
	cache   *Cache
	group   singleflight.Group
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Collector
}

// Compile-time check that EtymologyService implements Fetcher.
var _ Fetcher = (*EtymologyService)(nil)

// NewEtymologyService creates a service over gen using cache.
// A nil cache gets a fresh one; pass a shared cache to control its lifetime.
func NewEtymologyService(gen llm.Generator, cache *Cache, opts Options) *EtymologyService {
	if cache == nil {
		cache = NewCache()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mc := opts.Metrics
	if mc == nil {
		mc = metrics.NewCollector()
	}
	mc.TrackCacheSize(cache.Len)

	return &EtymologyService{
		gen:     gen,
		cache:   cache,
		opts:    opts,
		logger:  logger,
		metrics: mc,
	}
}

// Cache returns the cache backing the service.
func (s *EtymologyService) Cache() *Cache {
	return s.cache
}

// Fetch returns the etymology of word in language.
// Queries equal after trimming and lowercasing share one cache entry, and at
// most one model request is made per entry. Failures are never cached.
func (s *EtymologyService) Fetch(ctx context.Context, word, language string) (*models.EtymologyData, error) {
	q := models.NewQuery(word, language)
	key := q.Key()
	start := time.Now()

	if data, ok := s.cache.Get(key); ok {
		s.metrics.RecordTiming(metrics.OpCacheHit, time.Since(start))
		s.logger.Debug("etymology cache hit", "key", key)
		return data, nil
	}

	// The shared request ignores caller cancellation; each caller stops
	// waiting when its own context ends.
	flight := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		// A concurrent caller may have filled the entry while we waited for the group.
		if data, ok := s.cache.Get(key); ok {
			return data, nil
		}
		data, err := s.generate(flight, q)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, data)
		return data, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		s.metrics.RecordFailure(metrics.OpFetch, time.Since(start))
		return nil, fmt.Errorf("fetch etymology %q (%s): %w", q.Word, q.Language, ctx.Err())
	}

	if res.Err != nil {
		s.metrics.RecordFailure(metrics.OpFetch, time.Since(start))
		return nil, res.Err
	}
	s.metrics.RecordTiming(metrics.OpFetch, time.Since(start))
	if res.Shared {
		s.logger.Debug("etymology fetch shared in-flight request", "key", key)
	}
	v := res.Val
	return v.(*models.EtymologyData), nil
}

// generate issues exactly one model request and decodes its output.
func (s *EtymologyService) generate(ctx context.Context, q models.Query) (*models.EtymologyData, error) {
	requestID := uuid.New().String()[:8]
	logger := s.logger.With("request_id", requestID, "word", q.Word, "language", q.Language, "model", s.gen.Model())

	req := llm.Request{
		System:            llm.SystemPrompt,
		Prompt:            llm.BuildInstruction(q.Word, q.Language),
		SchemaName:        schema.Name,
		SchemaDescription: schema.Description,
		Schema:            schema.Etymology(),
		ReasoningEffort:   s.opts.ReasoningEffort,
		MaxOutputTokens:   s.opts.MaxOutputTokens,
	}

	logger.Info("requesting etymology")
	start := time.Now()
	resp, err := s.gen.Generate(ctx, req)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordFailure(metrics.OpLLMGenerate, duration)
		s.logFailure(logger, "etymology request failed", duration, err)
		return nil, fmt.Errorf("fetch etymology %q (%s): %w", q.Word, q.Language, err)
	}
	s.metrics.RecordLLMUsage(metrics.OpLLMGenerate, duration, resp.InputTokens, resp.OutputTokens)

	data, err := Decode(resp.Text)
	if err != nil {
		s.logFailure(logger, "etymology response unusable", duration, err, "response_len", len(resp.Text))
		return nil, fmt.Errorf("fetch etymology %q (%s): %w", q.Word, q.Language, err)
	}
	if n := data.UnknownKinds(); n > 0 {
		// Rendered with fallback colors and glyphs.
		logger.Warn("model returned unknown kinds", "count", n)
	}

	logger.Info("etymology fetched",
		"duration_ms", duration.Milliseconds(),
		"timeline_steps", len(data.Timeline),
		"nodes", len(data.Graph.Nodes),
		"links", len(data.Graph.Links),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return data, nil
}

func (s *EtymologyService) logFailure(logger *slog.Logger, msg string, duration time.Duration, err error, attrs ...any) {
	attrs = append(attrs, "duration_ms", duration.Milliseconds(), "error", err)
	if errors.Is(err, llm.ErrFatalAPI) {
		attrs = append(attrs, "hint", "check API credentials and account quota")
	}
	logger.Error(msg, attrs...)
}

// Decode parses model output into EtymologyData.
// Empty output is ErrEmptyResponse. Output that is not JSON, even after
// extracting the outermost object from surrounding text, is ErrMalformedJSON.
// Field contents are not validated.
func Decode(text string) (*models.EtymologyData, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, llm.ErrEmptyResponse
	}

	var data models.EtymologyData
	if err := unmarshalObject([]byte(s), &data); err == nil {
		return &data, nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in output (len=%d)", llm.ErrMalformedJSON, len(s))
	}
	if err := unmarshalObject([]byte(s[start:end+1]), &data); err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrMalformedJSON, err)
	}
	return &data, nil
}

// unmarshalObject rejects JSON that is valid but not an object (null, arrays, scalars).
func unmarshalObject(b []byte, v any) error {
	if !bytes.HasPrefix(b, []byte("{")) {
		return errors.New("not a JSON object")
	}
	return json.Unmarshal(b, v)
}
