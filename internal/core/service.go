package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"launchcore/internal/infra/persistence/memory"
	"launchcore/pkg/domain"
)

// Service is the mutation gateway. Every external operation goes through it:
// it runs the requested transformation inside a store transaction, lets the
// rules engine veto the result, appends a history entry to the affected
// project in the same transaction, and maps rule violations onto the client
// error taxonomy.
type Service struct {
	store   PersistentStore
	logger  Logger
	metrics MetricsRecorder
	nowFn   func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger installs a logger for gateway operations.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithNowFunc overrides the time provider. Intended for tests.
func WithNowFunc(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.nowFn = fn
		}
	}
}

// NewService constructs a gateway backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a gateway over a fresh in-memory store with the
// default rules engine. Intended for tests and ephemeral runs.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(NewDefaultRulesEngine()), opts...)
}

// Store returns the underlying persistent store.
func (s *Service) Store() PersistentStore { return s.store }

func (s *Service) now() time.Time { return s.nowFn() }

func newID() string { return uuid.NewString() }

// run executes fn inside a store transaction, translating blocking rule
// violations into typed client errors.
func (s *Service) run(ctx context.Context, op string, fn func(tx Transaction) error) error {
	_, err := s.store.RunInTransaction(ctx, fn)
	err = mapRuleError(err)
	s.metrics.ObserveMutation(op, err)
	if err != nil {
		s.logger.Warn("mutation rejected", "op", op, "error", err.Error())
		return err
	}
	s.logger.Debug("mutation committed", "op", op)
	return nil
}

// mapRuleError converts a blocking rule violation into the matching member
// of the error taxonomy. Other errors pass through untouched.
func mapRuleError(err error) error {
	if err == nil {
		return nil
	}
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		return err
	}
	v, ok := rve.Result.FirstBlocking()
	if !ok {
		return err
	}
	switch v.Code {
	case domain.CodeReference:
		return domain.ReferenceError{Entity: v.Entity, ID: v.EntityID, Field: v.Rule}
	case domain.CodeConflict:
		return domain.ConflictError{Entity: v.Entity, ID: v.EntityID, Reason: v.Message}
	case domain.CodeValidation:
		return domain.ValidationError{Field: v.Rule, Reason: v.Message}
	default:
		return err
	}
}

// prependHistory records a mutation on the project, newest first.
func (s *Service) prependHistory(p *Project, summary string, details *string) {
	entry := HistoryEntry{
		ID:         newID(),
		OccurredAt: s.now(),
		Summary:    summary,
		Details:    details,
	}
	p.History = append([]HistoryEntry{entry}, p.History...)
}

// mutateProject applies fn to the project and appends a history entry
// describing the change in the same transaction.
func (s *Service) mutateProject(ctx context.Context, op, projectID, summary string, details *string, fn func(p *Project) error) (Project, error) {
	var updated Project
	err := s.run(ctx, op, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateProject(projectID, func(p *Project) error {
			if err := fn(p); err != nil {
				return err
			}
			s.prependHistory(p, summary, details)
			return nil
		})
		return err
	})
	if err != nil {
		return Project{}, err
	}
	return updated, nil
}

// mutateProjectDeferred works like mutateProject but reads the summary after
// fn ran, for operations that only know what happened once they inspect the
// entity.
func (s *Service) mutateProjectDeferred(ctx context.Context, op, projectID string, summary *string, fn func(p *Project) error) (Project, error) {
	var updated Project
	err := s.run(ctx, op, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateProject(projectID, func(p *Project) error {
			if err := fn(p); err != nil {
				return err
			}
			msg := "project updated"
			if summary != nil && *summary != "" {
				msg = *summary
			}
			s.prependHistory(p, msg, nil)
			return nil
		})
		return err
	})
	if err != nil {
		return Project{}, err
	}
	return updated, nil
}
