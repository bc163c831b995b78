package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autoapply/internal/adapter/classifier"
	"autoapply/internal/adapter/pool"
	"autoapply/internal/adapter/resolver"
	"autoapply/internal/adapter/template"
	"autoapply/internal/adapter/validator"
	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// EngineOptions tunes resolution and generation.
type EngineOptions struct {
	ConfidenceFloor             float64
	PreviousApplicationLimit    int
	CombineExtractionConfidence bool
	// Concurrency bounds in-flight generation calls during a resolution pass.
	Concurrency int
	// GenerationTimeout bounds a single generation call.
	GenerationTimeout time.Duration
	// SettingsHash is stamped on every application this engine resolves.
	SettingsHash string
}

// DefaultEngineOptions returns the options used when none are configured.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		ConfidenceFloor:          0.5,
		PreviousApplicationLimit: resolver.DefaultPreviousLimit,
		Concurrency:              4,
		GenerationTimeout:        60 * time.Second,
	}
}

// EngineDeps are the collaborators the engine is built from.
// Critic and Knowledge are optional.
type EngineDeps struct {
	Generator    port.Generator
	Critic       port.Critic
	Applications port.ApplicationStore
	Knowledge    port.KnowledgeStore
	Templates    *template.Registry
	Logger       *zap.Logger
}

// ApplicationEngine resolves, validates and aggregates application fields.
type ApplicationEngine struct {
	classifier *classifier.Classifier
	templates  *template.Registry
	chain      *resolver.Chain
	previous   *resolver.PreviousApplicationResolver
	narrative  *NarrativeCoordinator
	validator  *validator.Validator

	generator port.Generator
	critic    port.Critic
	apps      port.ApplicationStore
	knowledge port.KnowledgeStore

	pool    *pool.Pool
	timeout time.Duration
	hash    string
	locks   *keyedMutex
	logger  *zap.Logger
	now     func() time.Time
}

// NewApplicationEngine wires an engine. Generator and Applications are required.
func NewApplicationEngine(deps EngineDeps, opts EngineOptions) (*ApplicationEngine, error) {
	if deps.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if deps.Applications == nil {
		return nil, errors.New("application store is required")
	}
	if opts.ConfidenceFloor < 0 || opts.ConfidenceFloor > 1 {
		return nil, fmt.Errorf("confidence floor must be within [0, 1], got %v", opts.ConfidenceFloor)
	}

	defaults := DefaultEngineOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaults.Concurrency
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = defaults.GenerationTimeout
	}
	if opts.PreviousApplicationLimit <= 0 {
		opts.PreviousApplicationLimit = defaults.PreviousApplicationLimit
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	templates := deps.Templates
	if templates == nil {
		templates = template.NewRegistry()
	}

	workers, err := pool.New("generation", pool.Config{Capacity: opts.Concurrency}, logger)
	if err != nil {
		return nil, err
	}

	return &ApplicationEngine{
		classifier: classifier.New(),
		templates:  templates,
		chain:      resolver.DefaultChain(opts.ConfidenceFloor, opts.CombineExtractionConfidence, opts.PreviousApplicationLimit),
		previous:   resolver.NewPreviousApplicationResolver(opts.PreviousApplicationLimit),
		narrative:  NewNarrativeCoordinator(),
		validator:  validator.New(),
		generator:  deps.Generator,
		critic:     deps.Critic,
		apps:       deps.Applications,
		knowledge:  deps.Knowledge,
		pool:       workers,
		timeout:    opts.GenerationTimeout,
		hash:       opts.SettingsHash,
		locks:      newKeyedMutex(),
		logger:     logger.Named("engine"),
		now:        time.Now,
	}, nil
}

// Close releases the worker pool.
func (e *ApplicationEngine) Close() {
	e.pool.Release()
}

// ProgressFunc is called after each generation call of a pass finishes.
type ProgressFunc func(done, total int, fieldID string)

// ResolveRequest starts a resolution pass.
type ResolveRequest struct {
	// ApplicationID is generated when empty. An existing application is replaced.
	ApplicationID string
	Grant         domain.Grant
	// Fields are taken from the best matching template when empty.
	Fields []domain.Field
	User   domain.UserContext
	// OrganizationID loads knowledge from the knowledge store when User.Knowledge is nil.
	OrganizationID string
	Progress       ProgressFunc
}

// ApplicationResult is the outcome of a resolution pass.
type ApplicationResult struct {
	ApplicationID string                     `json:"application_id"`
	Template      string                     `json:"template,omitempty"`
	Match         template.MatchKind         `json:"match,omitempty"`
	Fields        []domain.Field             `json:"fields"`
	Values        []domain.ResolvedValue     `json:"values"`
	Snapshot      domain.ApplicationSnapshot `json:"snapshot"`
}

// AnalyzeFields classifies fields and derives whether each needs generation.
func (e *ApplicationEngine) AnalyzeFields(fields []domain.Field) []domain.Field {
	return e.classifier.Analyze(fields)
}

// SelectTemplate picks the template for a grant signature.
func (e *ApplicationEngine) SelectTemplate(grant domain.Grant) template.Selection {
	return e.templates.Select(grant)
}

type generationJob struct {
	index     int
	field     domain.Field
	reference string
}

type generationOutcome struct {
	resp domain.GenerationResponse
	err  error
}

// ResolveApplication resolves every field, generating prose where needed.
// Field-level failures degrade to NeedsUserInput; only store failures and
// caller cancellation are returned as errors. On cancellation, in-flight
// generation calls finish in the background and their results are discarded.
func (e *ApplicationEngine) ResolveApplication(ctx context.Context, req ResolveRequest) (*ApplicationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user := req.User
	if user.Knowledge == nil && req.OrganizationID != "" && e.knowledge != nil {
		bundle, err := e.knowledge.GetKnowledge(req.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge: %w", err)
		}
		user.Knowledge = bundle
	}
	user.Knowledge = user.Knowledge.Clone()

	appID := req.ApplicationID
	if appID == "" {
		appID = uuid.NewString()
	}
	passID := uuid.NewString()
	log := e.logger.With(zap.String("application_id", appID), zap.String("pass_id", passID))

	result := &ApplicationResult{ApplicationID: appID}
	fields := req.Fields
	if len(fields) == 0 {
		sel := e.templates.Select(req.Grant)
		fields = sel.Template.Fields
		result.Template = sel.Template.Name
		result.Match = sel.Match
		log.Info("template selected", zap.String("template", sel.Template.Name), zap.String("match", string(sel.Match)))
	}
	fields = e.AnalyzeFields(fields)
	result.Fields = fields

	if user.Knowledge.IsEmpty() {
		log.Warn("no organization knowledge available; factual fields will need user input")
	}

	log.Info("resolution pass started", zap.Int("fields", len(fields)))

	values := make([]domain.ResolvedValue, len(fields))
	var jobs []generationJob
	for i, f := range fields {
		if f.NeedsGeneration {
			jobs = append(jobs, generationJob{index: i, field: f, reference: e.referenceAnswer(f, user.Knowledge)})
			continue
		}

		out, ok := e.chain.Resolve(f, user.Knowledge, acceptOption(f))
		switch {
		case ok:
			values[i] = e.validated(f, domain.ResolvedValue{
				FieldID:    f.ID,
				Value:      out.Value,
				Confidence: out.Confidence,
				Source:     out.Source,
				ResolvedAt: e.now(),
			})
			log.Debug("field resolved", zap.String("field_id", f.ID), zap.String("source", string(out.Source)), zap.String("detail", out.Detail))
		case f.InputKind.IsFreeText() && f.Category.IsProse():
			jobs = append(jobs, generationJob{index: i, field: f})
		default:
			values[i] = e.narrative.Unresolved(f.ID, MissingInputPrompt(f))
		}
	}

	outcomes, err := e.runGenerations(ctx, jobs, req.Grant, user, req.Progress)
	if err != nil {
		log.Info("resolution pass cancelled", zap.Error(err))
		return nil, err
	}

	for j, job := range jobs {
		values[job.index] = e.generatedValue(log, job.field, outcomes[j])
	}

	resolved := make(map[string]domain.ResolvedValue, len(values))
	for _, v := range values {
		resolved[v.FieldID] = v
	}

	// Stored state is replaced only once the whole pass has finished.
	state := &domain.ApplicationState{
		ID:           appID,
		Grant:        req.Grant,
		User:         user,
		Fields:       fields,
		Values:       resolved,
		SettingsHash: e.hash,
		UpdatedAt:    e.now(),
	}
	if err := e.apps.SaveApplication(state); err != nil {
		return nil, fmt.Errorf("failed to save application: %w", err)
	}
	result.Values = values
	result.Snapshot = Aggregate(fields, resolved)

	log.Info("resolution pass finished",
		zap.Int("generated", len(jobs)),
		zap.Int("completion", result.Snapshot.CompletionPercentage),
		zap.Int("confidence", result.Snapshot.OverallConfidence),
		zap.String("readiness", string(result.Snapshot.ReadinessLevel)),
	)
	return result, nil
}

// runGenerations dispatches jobs to the worker pool and waits for all of them.
// If ctx is cancelled first, it returns ctx.Err() without waiting; jobs not
// yet started are skipped.
func (e *ApplicationEngine) runGenerations(ctx context.Context, jobs []generationJob, grant domain.Grant, user domain.UserContext, progress ProgressFunc) ([]generationOutcome, error) {
	outcomes := make([]generationOutcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes, nil
	}

	var progressMu sync.Mutex
	done := 0
	stopped := false
	report := func(fieldID string) {
		progressMu.Lock()
		defer progressMu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		done++
		if progress != nil {
			progress(done, len(jobs), fieldID)
		}
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var wg sync.WaitGroup
		for j, job := range jobs {
			j, job := j, job
			wg.Add(1)
			err := e.pool.Submit(func() {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					outcomes[j] = generationOutcome{err: err}
					return
				}
				req := e.narrative.BuildGenerationRequest(GenerationInput{
					Field:           job.field,
					Grant:           grant,
					User:            user,
					ReferenceAnswer: job.reference,
				})
				resp, err := e.callGenerator(ctx, req)
				outcomes[j] = generationOutcome{resp: resp, err: err}
				report(job.field.ID)
			})
			if err != nil {
				wg.Done()
				outcomes[j] = generationOutcome{err: err}
			}
		}
		wg.Wait()
	}()

	select {
	case <-finished:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return outcomes, nil
	case <-ctx.Done():
		// No progress is reported once the caller has been told the pass stopped.
		progressMu.Lock()
		stopped = true
		progressMu.Unlock()
		return nil, ctx.Err()
	}
}

// callGenerator runs one generation call detached from caller cancellation
// and bounded by the engine timeout. A generator that ignores its context
// still counts as timed out.
func (e *ApplicationEngine) callGenerator(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	ch := make(chan generationOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- generationOutcome{err: fmt.Errorf("%w: generator panic: %v", domain.ErrGenerationFailed, r)}
			}
		}()
		resp, err := e.generator.Generate(callCtx, req)
		ch <- generationOutcome{resp: resp, err: err}
	}()

	select {
	case out := <-ch:
		return out.resp, out.err
	case <-callCtx.Done():
		return domain.GenerationResponse{}, callCtx.Err()
	}
}

func (e *ApplicationEngine) generatedValue(log *zap.Logger, f domain.Field, out generationOutcome) domain.ResolvedValue {
	err := out.err
	var v domain.ResolvedValue
	if err == nil {
		v, err = e.narrative.ApplyGenerationResponse(f.ID, out.resp)
	}
	if err != nil {
		log.Warn("generation failed", zap.String("field_id", f.ID), zap.Error(err))
		return e.narrative.Unresolved(f.ID, GenerationFailurePrompt(f, err))
	}
	log.Debug("field generated", zap.String("field_id", f.ID), zap.Float64("confidence", v.Confidence))
	return e.validated(f, v)
}

// referenceAnswer finds a prior answer to give the generator as context.
func (e *ApplicationEngine) referenceAnswer(f domain.Field, k *domain.KnowledgeBundle) string {
	return e.previous.Resolve(f, k).Value
}

func (e *ApplicationEngine) validated(f domain.Field, v domain.ResolvedValue) domain.ResolvedValue {
	if v.NeedsUserInput {
		return v
	}
	v.Validation = e.validator.Validate(v.Value, f.Category, validator.LimitsFor(f))
	return v
}

func (e *ApplicationEngine) loadField(appID, fieldID string) (*domain.ApplicationState, domain.Field, error) {
	state, err := e.apps.GetApplication(appID)
	if err != nil {
		return nil, domain.Field{}, err
	}
	f, ok := state.Field(fieldID)
	if !ok {
		return nil, domain.Field{}, fmt.Errorf("%w: %s", domain.ErrFieldNotFound, fieldID)
	}
	return state, f, nil
}

// RegenerateField authors a fresh answer for one field. Concurrent calls for
// the same field are serialized; other fields and bulk passes are not blocked.
// On failure the stored value is left unchanged.
func (e *ApplicationEngine) RegenerateField(ctx context.Context, appID, fieldID, customInstructions string) (domain.ResolvedValue, error) {
	if err := ctx.Err(); err != nil {
		return domain.ResolvedValue{}, err
	}

	unlock := e.locks.Lock(fieldKey(appID, fieldID))
	defer unlock()

	state, f, err := e.loadField(appID, fieldID)
	if err != nil {
		return domain.ResolvedValue{}, err
	}

	reference := state.Values[fieldID].Value
	if reference == "" {
		reference = e.referenceAnswer(f, state.User.Knowledge)
	}

	req := e.narrative.BuildGenerationRequest(GenerationInput{
		Field:              f,
		Grant:              state.Grant,
		User:               state.User,
		ReferenceAnswer:    reference,
		CustomInstructions: customInstructions,
		Fresh:              true,
	})

	log := e.logger.With(zap.String("application_id", appID), zap.String("field_id", fieldID))
	resp, err := e.callGenerator(ctx, req)
	if err == nil {
		var v domain.ResolvedValue
		v, err = e.narrative.ApplyGenerationResponse(fieldID, resp)
		if err == nil {
			v = e.validated(f, v)
			if err := e.apps.PutValue(appID, v); err != nil {
				return domain.ResolvedValue{}, fmt.Errorf("failed to store value for %s: %w", fieldID, err)
			}
			log.Info("field regenerated", zap.Float64("confidence", v.Confidence))
			return v, nil
		}
	}

	log.Warn("regeneration failed", zap.Error(err))
	if errors.Is(err, domain.ErrGenerationFailed) || errors.Is(err, domain.ErrEmptyGeneration) {
		return domain.ResolvedValue{}, err
	}
	return domain.ResolvedValue{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
}

// ValidateField scores content against a stored field's rules without saving it.
func (e *ApplicationEngine) ValidateField(ctx context.Context, appID, fieldID, content string) (domain.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ValidationResult{}, err
	}
	_, f, err := e.loadField(appID, fieldID)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return e.validator.Validate(content, f.Category, validator.LimitsFor(f)), nil
}

// UpdateField records a user-authored value and returns the recomputed snapshot.
// Blank content clears the field back to needing input.
func (e *ApplicationEngine) UpdateField(ctx context.Context, appID, fieldID, content string) (domain.ResolvedValue, domain.ApplicationSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.ResolvedValue{}, domain.ApplicationSnapshot{}, err
	}

	unlock := e.locks.Lock(fieldKey(appID, fieldID))
	_, f, err := e.loadField(appID, fieldID)
	if err != nil {
		unlock()
		return domain.ResolvedValue{}, domain.ApplicationSnapshot{}, err
	}

	var v domain.ResolvedValue
	if content = strings.TrimSpace(content); content == "" {
		v = e.narrative.Unresolved(fieldID, MissingInputPrompt(f))
	} else {
		v = e.validated(f, domain.ResolvedValue{
			FieldID:    fieldID,
			Value:      content,
			Confidence: 1.0,
			Source:     domain.SourceManual,
			ResolvedAt: e.now(),
		})
	}
	err = e.apps.PutValue(appID, v)
	unlock()
	if err != nil {
		return domain.ResolvedValue{}, domain.ApplicationSnapshot{}, fmt.Errorf("failed to store value for %s: %w", fieldID, err)
	}

	snap, err := e.Snapshot(ctx, appID)
	if err != nil {
		return domain.ResolvedValue{}, domain.ApplicationSnapshot{}, err
	}
	return v, snap, nil
}

// ImproveField asks the critic to review a field's current value. Suggestions
// and the refined score are merged into the stored validation, and any
// proposed revision is offered as an alternative.
func (e *ApplicationEngine) ImproveField(ctx context.Context, appID, fieldID string) (domain.ValidationResult, error) {
	if e.critic == nil {
		return domain.ValidationResult{}, errors.New("no critic configured")
	}
	if err := ctx.Err(); err != nil {
		return domain.ValidationResult{}, err
	}

	unlock := e.locks.Lock(fieldKey(appID, fieldID))
	defer unlock()

	state, f, err := e.loadField(appID, fieldID)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	current, ok := state.Values[fieldID]
	if !ok || !current.IsComplete() {
		return domain.ValidationResult{}, fmt.Errorf("field %s has no content to improve", fieldID)
	}

	base := e.validator.Validate(current.Value, f.Category, validator.LimitsFor(f))
	tone := ToneFor(state.Grant.FunderType)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	critique, err := e.critic.Critique(callCtx, domain.CritiqueRequest{
		Question:  f.Title(),
		Category:  f.Category,
		Content:   current.Value,
		WordLimit: f.WordLimit(),
		Funder:    state.Grant.Funder,
		Tone:      tone,
	})
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("failed to critique %s: %w", fieldID, err)
	}

	merged := validator.MergeCritique(base, critique)
	current.Validation = merged
	if critique.Revision != "" && critique.Revision != current.Value {
		current.Alternatives = append([]string{critique.Revision}, current.Alternatives...)
	}
	if err := e.apps.PutValue(appID, current); err != nil {
		return domain.ValidationResult{}, fmt.Errorf("failed to store value for %s: %w", fieldID, err)
	}
	return merged, nil
}

// Snapshot recomputes the application aggregate from stored state.
func (e *ApplicationEngine) Snapshot(ctx context.Context, appID string) (domain.ApplicationSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.ApplicationSnapshot{}, err
	}
	state, err := e.apps.GetApplication(appID)
	if err != nil {
		return domain.ApplicationSnapshot{}, err
	}
	return Aggregate(state.Fields, state.Values), nil
}

// acceptOption restricts option fields to one of their options, matched
// without regard to case.
func acceptOption(f domain.Field) func(string) (string, bool) {
	if len(f.Options) == 0 {
		return nil
	}
	return func(v string) (string, bool) {
		v = strings.TrimSpace(v)
		for _, opt := range f.Options {
			if strings.EqualFold(opt, v) {
				return opt, true
			}
		}
		return "", false
	}
}
