// Package memory provides the in-memory transactional implementation of the
// core persistence store. Every mutation runs against a cloned state and is
// committed only after the rules engine accepts it.
package memory

import (
	"context"
	"sync"
	"time"

	"launchcore/pkg/domain"

	"github.com/google/uuid"
)

// Compile-time contract assertion ensuring memory.Store adheres to the
// domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// ProductGroup aliases domain.ProductGroup for in-memory operations.
	ProductGroup = domain.ProductGroup
	// Project aliases domain.Project.
	Project = domain.Project
	// GTMTemplate aliases domain.GTMTemplate.
	GTMTemplate = domain.GTMTemplate
	// CharacteristicTemplate aliases domain.CharacteristicTemplate.
	CharacteristicTemplate = domain.CharacteristicTemplate
	// GTMStage aliases domain.GTMStage.
	GTMStage = domain.GTMStage
	// Task aliases domain.Task.
	Task = domain.Task
	// ImageAsset aliases domain.ImageAsset.
	ImageAsset = domain.ImageAsset
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	groups        map[string]ProductGroup
	projects      map[string]Project
	gtmTemplates  map[string]GTMTemplate
	charTemplates map[string]CharacteristicTemplate
	// childIndex maps every nested entity id (stage, task, subtask, section,
	// field, file, image, comment, history entry, checklist item) to its
	// owning project id. Maintained alongside the forward sequences so
	// children never need back-pointers.
	childIndex map[string]string
}

func newMemoryState() memoryState {
	return memoryState{
		groups:        make(map[string]ProductGroup),
		projects:      make(map[string]Project),
		gtmTemplates:  make(map[string]GTMTemplate),
		charTemplates: make(map[string]CharacteristicTemplate),
		childIndex:    make(map[string]string),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.groups {
		cloned.groups[k] = cloneGroup(v)
	}
	for k, v := range s.projects {
		cloned.projects[k] = cloneProject(v)
	}
	for k, v := range s.gtmTemplates {
		cloned.gtmTemplates[k] = cloneGTMTemplate(v)
	}
	for k, v := range s.charTemplates {
		cloned.charTemplates[k] = cloneCharTemplate(v)
	}
	for k, v := range s.childIndex {
		cloned.childIndex[k] = v
	}
	return cloned
}

func (s *memoryState) indexProject(p Project) {
	add := func(id string) {
		if id != "" {
			s.childIndex[id] = p.ID
		}
	}
	for _, st := range p.GTMStages {
		add(st.ID)
		for _, c := range st.Checklist {
			add(c.ID)
		}
	}
	for _, t := range p.Tasks {
		add(t.ID)
		for _, sub := range t.Subtasks {
			add(sub.ID)
		}
		for _, c := range t.Comments {
			add(c.ID)
		}
	}
	for _, sec := range p.Characteristics {
		add(sec.ID)
		for _, f := range sec.Fields {
			add(f.ID)
		}
	}
	for _, f := range p.Files {
		add(f.ID)
	}
	for _, img := range p.Images {
		add(img.ID)
	}
	for _, c := range p.Comments {
		add(c.ID)
	}
	for _, h := range p.History {
		add(h.ID)
	}
}

func (s *memoryState) unindexProject(id string) {
	for child, owner := range s.childIndex {
		if owner == id {
			delete(s.childIndex, child)
		}
	}
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the time provider. Intended for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

// RulesEngine exposes the configured engine for integration points.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *Store) newID() string { return uuid.NewString() }

// NewID mints a fresh globally-unique identifier using the store's id source.
func (s *Store) NewID() string { return s.newID() }

// RunInTransaction executes fn within a transactional copy of the store
// state. The copy is evaluated by the rules engine and swapped in only when
// fn and every blocking rule succeed; otherwise the committed state is left
// untouched.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state, tx.now)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(ctx context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	now := s.nowFn()
	s.mu.RUnlock()
	return fn(newTransactionView(&snapshot, now))
}

// Read helpers ---------------------------------------------------------------

// GetGroup retrieves a product group by id from committed state.
func (s *Store) GetGroup(id string) (ProductGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.state.groups[id]
	if !ok {
		return ProductGroup{}, false
	}
	return cloneGroup(g), true
}

// ListGroups returns all product groups sorted by creation time.
func (s *Store) ListGroups() []ProductGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProductGroup, 0, len(s.state.groups))
	for _, g := range s.state.groups {
		out = append(out, cloneGroup(g))
	}
	sortGroups(out)
	return out
}

// GetProject retrieves a project by id from committed state with derived
// stage risk applied.
func (s *Store) GetProject(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return decorateProject(cloneProject(p), s.nowFn()), true
}

// ListProjects returns all projects sorted by creation time, with derived
// stage risk applied.
func (s *Store) ListProjects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.nowFn()
	out := make([]Project, 0, len(s.state.projects))
	for _, p := range s.state.projects {
		out = append(out, decorateProject(cloneProject(p), now))
	}
	sortProjects(out)
	return out
}

// GetGTMTemplate retrieves a GTM template by id.
func (s *Store) GetGTMTemplate(id string) (GTMTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.gtmTemplates[id]
	if !ok {
		return GTMTemplate{}, false
	}
	return cloneGTMTemplate(t), true
}

// ListGTMTemplates returns all GTM templates sorted by creation time.
func (s *Store) ListGTMTemplates() []GTMTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GTMTemplate, 0, len(s.state.gtmTemplates))
	for _, t := range s.state.gtmTemplates {
		out = append(out, cloneGTMTemplate(t))
	}
	sortGTMTemplates(out)
	return out
}

// GetCharacteristicTemplate retrieves a characteristic template by id.
func (s *Store) GetCharacteristicTemplate(id string) (CharacteristicTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.charTemplates[id]
	if !ok {
		return CharacteristicTemplate{}, false
	}
	return cloneCharTemplate(t), true
}

// ListCharacteristicTemplates returns all characteristic templates sorted by
// creation time.
func (s *Store) ListCharacteristicTemplates() []CharacteristicTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CharacteristicTemplate, 0, len(s.state.charTemplates))
	for _, t := range s.state.charTemplates {
		out = append(out, cloneCharTemplate(t))
	}
	sortCharTemplates(out)
	return out
}
