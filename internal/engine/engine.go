package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/symptomlab/triagent/internal/cache"
	"github.com/symptomlab/triagent/internal/extract"
	"github.com/symptomlab/triagent/internal/model"
	"github.com/symptomlab/triagent/internal/reason"
	"github.com/symptomlab/triagent/internal/rules"
	"github.com/symptomlab/triagent/internal/score"
	"github.com/symptomlab/triagent/internal/worker"
)

// EntityExtractor is the narrow interface the engine expects from the local
// entity-extraction capability. It is never assumed reliable.
type EntityExtractor interface {
	Name() string
	Extract(ctx context.Context, text string) ([]model.EntityRecord, error)
}

// RuleClassifier is the narrow interface for the deterministic fallback
// classifier. The production implementation never returns an error.
type RuleClassifier interface {
	Name() string
	Classify(text string) (rules.Classification, error)
}

// Engine orchestrates the analyzers for one request at a time: it sequences
// the calls, applies the fallback cascade on failure, and merges partial
// results into a single AnalysisResult. It holds no mutable state across
// requests, so independent requests may run concurrently on one Engine.
type Engine struct {
	extractor  EntityExtractor
	reasoner   reason.Provider // nil when disabled
	classifier RuleClassifier
	cache      cache.Cache // nil when disabled
	limiter    *worker.Limiter
	config     *model.Config

	retryBackoff time.Duration
}

// New creates an engine from configuration, wiring the default analyzers.
// A reasoner that fails to initialize disables itself with a warning instead
// of failing construction: the rules path still works offline.
func New(cfg *model.Config) (*Engine, error) {
	extractor, err := buildExtractor(cfg)
	if err != nil {
		return nil, err
	}

	classifier, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}

	var reasoner reason.Provider
	if cfg.Reasoner.Provider != "" {
		reasoner, err = reason.NewProvider(reason.ConfigFromModel(cfg.Reasoner))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize reasoner: %v\n", err)
			reasoner = nil
		}
	}

	return NewWith(cfg, extractor, reasoner, classifier), nil
}

// NewWith creates an engine with explicit analyzer implementations. Tests
// substitute fixtures here.
func NewWith(cfg *model.Config, extractor EntityExtractor, reasoner reason.Provider, classifier RuleClassifier) *Engine {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL*2)
	}

	return &Engine{
		extractor:    extractor,
		reasoner:     reasoner,
		classifier:   classifier,
		cache:        resultCache,
		limiter:      worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize),
		config:       cfg,
		retryBackoff: 500 * time.Millisecond,
	}
}

func buildExtractor(cfg *model.Config) (EntityExtractor, error) {
	if cfg.Extractor.LexiconPath == "" {
		return extract.NewExtractor(), nil
	}
	lex, err := extract.LoadLexicon(cfg.Extractor.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("extractor lexicon: %w", err)
	}
	return extract.NewExtractorWithLexicon(lex), nil
}

func buildClassifier(cfg *model.Config) (RuleClassifier, error) {
	if cfg.Rules.TablePath == "" {
		return rules.NewClassifier(), nil
	}
	table, err := rules.LoadTable(cfg.Rules.TablePath)
	if err != nil {
		return nil, fmt.Errorf("rule table: %w", err)
	}
	return rules.NewClassifierWithTable(table), nil
}

// Analyze runs the full pipeline for one request:
// validate → extract entities → reason → classify (fallback only) → score →
// aggregate. Analyzer failures degrade; only validation errors propagate.
func (e *Engine) Analyze(ctx context.Context, req model.SymptomRequest) (*model.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cacheKey := cache.Key(req)
	if e.cache != nil {
		if data, found := e.cache.Get(cacheKey); found {
			var cached model.AnalysisResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			_ = e.cache.Delete(cacheKey)
		}
	}

	analyses := make([]model.ModelAnalysis, 0, 3)

	// Extracting entities. The extractor is local and fast; it runs first so
	// its output can enrich the reasoner prompt. Its failure never fails the
	// request: the pipeline continues with an empty entity list.
	entities, extractRecord := e.runExtractor(ctx, req.Symptoms)
	analyses = append(analyses, extractRecord)

	// Reasoning. The primary analyzer when configured and healthy. A failure
	// marks the request degraded: the verdict still gets built, but it is not
	// cached, so the next identical request retries the better path.
	degraded := false
	primary, reasonRecord := e.runReasoner(ctx, req, entities)
	if reasonRecord != nil {
		analyses = append(analyses, *reasonRecord)
		if !reasonRecord.Success {
			degraded = true
		}
	}

	// Classifying runs only when the reasoner did not produce the primary
	// verdict, then the static response backstops everything.
	if primary == nil {
		var classifyRecord *model.ModelAnalysis
		primary, classifyRecord = e.runClassifier(req.Symptoms)
		if classifyRecord != nil {
			analyses = append(analyses, *classifyRecord)
			if !classifyRecord.Success {
				degraded = true
			}
		}
	}
	if primary == nil {
		var staticRecord model.ModelAnalysis
		primary, staticRecord = staticFallback()
		analyses = append(analyses, staticRecord)
	}

	// Scoring is pure and always runs.
	urgency := score.Urgency(entities, primary.severity, req.Symptoms)

	// Aggregating.
	entityTexts := make([]string, 0, len(entities))
	for _, ent := range entities {
		entityTexts = append(entityTexts, ent.Text)
	}

	result := &model.AnalysisResult{
		ID:              uuid.New(),
		CreatedAt:       time.Now().UTC(),
		Condition:       primary.condition,
		Severity:        primary.severity,
		Confidence:      normalizeConfidence(primary.confidence),
		Advice:          primary.advice,
		Recommendations: primary.recommendations,
		WhenToSeekHelp:  primary.whenToSeekHelp,
		Disclaimer:      model.Disclaimer,
		Entities:        entityTexts,
		UrgencyScore:    urgency,
		ModelAnalyses:   analyses,
		ModelsUsed:      modelsUsed(analyses),
	}

	if e.cache != nil && !degraded {
		if data, err := json.Marshal(result); err == nil {
			_ = e.cache.Set(cacheKey, data, e.config.Cache.TTL)
		}
	}

	return result, nil
}

// verdict is the primary outcome selected by the fallback cascade.
type verdict struct {
	condition       string
	severity        model.Severity
	confidence      float64 // as reported, any scale; normalized at aggregation
	advice          string
	recommendations []string
	whenToSeekHelp  string
}

func (e *Engine) runExtractor(ctx context.Context, text string) ([]model.EntityRecord, model.ModelAnalysis) {
	record := model.ModelAnalysis{Analyzer: e.extractor.Name()}

	timeout := e.config.Extractor.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	extractCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	entities, err := e.extractor.Extract(extractCtx, text)
	record.Duration = time.Since(start)

	if err != nil {
		record.Error = err.Error()
		return nil, record
	}

	record.Success = true
	record.Confidence = meanEntityConfidence(entities)
	record.Analysis = fmt.Sprintf("recognized %d medical terms", len(entities))
	return entities, record
}

// runReasoner calls the remote provider with at most one retry for transport
// failures. Auth and quota failures are logged distinctly but degrade the
// same way: success=false, cascade continues.
func (e *Engine) runReasoner(ctx context.Context, req model.SymptomRequest, entities []model.EntityRecord) (*verdict, *model.ModelAnalysis) {
	if e.reasoner == nil {
		return nil, nil
	}

	record := model.ModelAnalysis{Analyzer: e.reasoner.Name()}
	start := time.Now()

	resp, err := e.reasonWithRetry(ctx, reason.Request{
		Symptoms: req.Symptoms,
		Entities: entities,
		Age:      req.Age,
		Gender:   req.Gender,
	})
	record.Duration = time.Since(start)

	if err != nil {
		kind := reason.Kind(err)
		fmt.Fprintf(os.Stderr, "reasoner %s unavailable (%s): %v\n", e.reasoner.Name(), kind, err)
		record.Error = err.Error()
		return nil, &record
	}

	record.Success = true
	record.Confidence = normalizeFraction(resp.Confidence)
	record.Analysis = resp.Assessment

	v := &verdict{
		condition:       resp.Assessment,
		severity:        resp.Severity,
		confidence:      resp.Confidence,
		advice:          adviceFor(resp.Severity),
		recommendations: resp.Recommendations,
		whenToSeekHelp:  resp.WhenToSeekHelp,
	}
	if len(v.recommendations) == 0 {
		v.recommendations = recommendationsFor(resp.Severity)
	}
	if v.whenToSeekHelp == "" {
		v.whenToSeekHelp = seekHelpFor(resp.Severity)
	}
	return v, &record
}

func (e *Engine) reasonWithRetry(ctx context.Context, req reason.Request) (*reason.Response, error) {
	if err := e.limiter.Wait(ctx, e.reasoner.Name()); err != nil {
		return nil, err
	}

	resp, err := e.reasoner.Reason(ctx, req)
	if err == nil || !reason.Retryable(err) {
		return resp, err
	}

	// One bounded retry with backoff, then fall back
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(e.retryBackoff):
	}

	return e.reasoner.Reason(ctx, req)
}

// rulesConfidenceCap bounds the confidence of the non-AI fallback path.
const rulesConfidenceCap = 65

func (e *Engine) runClassifier(text string) (*verdict, *model.ModelAnalysis) {
	if e.classifier == nil {
		return nil, nil
	}

	record := model.ModelAnalysis{Analyzer: e.classifier.Name()}
	start := time.Now()

	cls, err := e.classifier.Classify(text)
	record.Duration = time.Since(start)

	if err != nil {
		record.Error = err.Error()
		return nil, &record
	}

	// Reduced trust in the keyword fallback: confidence grows with distinct
	// keyword hits but never exceeds the cap.
	confidence := 45 + 5*len(cls.MatchedKeywords)
	if confidence > rulesConfidenceCap {
		confidence = rulesConfidenceCap
	}
	if len(cls.MatchedKeywords) == 0 {
		confidence = 50
	}

	record.Success = true
	record.Confidence = float64(confidence) / 100
	record.Analysis = fmt.Sprintf("matched category %q via %d keywords", cls.Category, len(cls.MatchedKeywords))

	return &verdict{
		condition:       fmt.Sprintf("Possible %s condition", cls.Category),
		severity:        cls.Severity,
		confidence:      float64(confidence),
		advice:          cls.Advice,
		recommendations: recommendationsFor(cls.Severity),
		whenToSeekHelp:  seekHelpFor(cls.Severity),
	}, &record
}

// staticFallback is the deterministic minimal safe response. It has no
// external dependency; if even this cannot be built, that is a programming
// defect, not a runtime condition.
func staticFallback() (*verdict, model.ModelAnalysis) {
	v := &verdict{
		condition:       "General health concern",
		severity:        model.SeverityMedium,
		confidence:      50,
		advice:          "Consult a healthcare professional about your symptoms.",
		recommendations: recommendationsFor(model.SeverityMedium),
		whenToSeekHelp:  seekHelpFor(model.SeverityMedium),
	}
	record := model.ModelAnalysis{
		Analyzer:   "static",
		Analysis:   "static minimal response (all analyzers unavailable)",
		Confidence: 0.5,
		Success:    true,
	}
	return v, record
}

// modelsUsed joins every analyzer that ran into a human-readable summary,
// success or not.
func modelsUsed(analyses []model.ModelAnalysis) string {
	parts := make([]string, 0, len(analyses))
	for _, a := range analyses {
		if a.Success {
			parts = append(parts, a.Analyzer)
		} else {
			parts = append(parts, a.Analyzer+" (failed)")
		}
	}
	return strings.Join(parts, ", ")
}

// normalizeConfidence rescales any reported confidence into 0-100.
// Fractions scale up, in-range values round, and out-of-range values clamp
// to 95 rather than passing through.
func normalizeConfidence(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v <= 1:
		return int(math.Round(v * 100))
	case v <= 100:
		return int(math.Round(v))
	default:
		return 95
	}
}

// normalizeFraction rescales any reported confidence into the 0-1 range used
// by ModelAnalysis records.
func normalizeFraction(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v <= 1:
		return v
	case v <= 100:
		return v / 100
	default:
		return 0.95
	}
}

func meanEntityConfidence(entities []model.EntityRecord) float64 {
	if len(entities) == 0 {
		return 0
	}
	sum := 0.0
	for _, ent := range entities {
		sum += ent.Confidence
	}
	return sum / float64(len(entities))
}
