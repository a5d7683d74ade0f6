package memory

import (
	"fmt"
	"time"

	"launchcore/pkg/domain"
)

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state, tx.now)
}

// CreateGroup stores a new product group within the transaction.
func (tx *transaction) CreateGroup(g ProductGroup) (ProductGroup, error) {
	if g.ID == "" {
		g.ID = tx.store.newID()
	}
	if _, exists := tx.state.groups[g.ID]; exists {
		return ProductGroup{}, fmt.Errorf("product group %q already exists", g.ID)
	}
	g.CreatedAt = tx.now
	g.UpdatedAt = tx.now
	normalizeGroup(&g)
	tx.state.groups[g.ID] = cloneGroup(g)
	tx.recordChange(Change{Entity: domain.EntityGroup, Action: domain.ActionCreate, After: cloneGroup(g)})
	return cloneGroup(g), nil
}

// UpdateGroup mutates a product group using the provided mutator function.
func (tx *transaction) UpdateGroup(id string, mutator func(*ProductGroup) error) (ProductGroup, error) {
	current, ok := tx.state.groups[id]
	if !ok {
		return ProductGroup{}, domain.NotFoundError{Entity: domain.EntityGroup, ID: id}
	}
	before := cloneGroup(current)
	if err := mutator(&current); err != nil {
		return ProductGroup{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	normalizeGroup(&current)
	tx.state.groups[id] = cloneGroup(current)
	tx.recordChange(Change{Entity: domain.EntityGroup, Action: domain.ActionUpdate, Before: before, After: cloneGroup(current)})
	return cloneGroup(current), nil
}

// DeleteGroup removes a product group. The delete is refused while any
// project still references the group.
func (tx *transaction) DeleteGroup(id string) error {
	current, ok := tx.state.groups[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityGroup, ID: id}
	}
	for _, p := range tx.state.projects {
		if p.GroupID == id {
			return domain.ConflictError{
				Entity: domain.EntityGroup,
				ID:     id,
				Reason: fmt.Sprintf("still referenced by project %s", p.ID),
			}
		}
	}
	delete(tx.state.groups, id)
	tx.recordChange(Change{Entity: domain.EntityGroup, Action: domain.ActionDelete, Before: cloneGroup(current)})
	return nil
}

// CreateProject stores a new project record.
func (tx *transaction) CreateProject(p Project) (Project, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.projects[p.ID]; exists {
		return Project{}, fmt.Errorf("project %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	normalizeProject(&p)
	tx.state.projects[p.ID] = cloneProject(p)
	tx.state.indexProject(p)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionCreate, After: cloneProject(p)})
	return cloneProject(p), nil
}

// UpdateProject mutates a project record, including any of its owned
// sequences, using the provided mutator function. The child index is rebuilt
// for the project afterwards.
func (tx *transaction) UpdateProject(id string, mutator func(*Project) error) (Project, error) {
	current, ok := tx.state.projects[id]
	if !ok {
		return Project{}, domain.NotFoundError{Entity: domain.EntityProject, ID: id}
	}
	before := cloneProject(current)
	working := cloneProject(current)
	if err := mutator(&working); err != nil {
		return Project{}, err
	}
	working.ID = id
	working.CreatedAt = before.CreatedAt
	working.UpdatedAt = tx.now
	normalizeProject(&working)
	tx.state.unindexProject(id)
	tx.state.projects[id] = cloneProject(working)
	tx.state.indexProject(working)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, Before: before, After: cloneProject(working)})
	return cloneProject(working), nil
}

// DeleteProject removes a project and, because every owned sequence is
// embedded, cascades to all of its stages, tasks, subtasks, characteristics,
// files, images, comments and history in the same step.
func (tx *transaction) DeleteProject(id string) error {
	current, ok := tx.state.projects[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityProject, ID: id}
	}
	delete(tx.state.projects, id)
	tx.state.unindexProject(id)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionDelete, Before: cloneProject(current)})
	return nil
}

// CreateGTMTemplate stores a new GTM template.
func (tx *transaction) CreateGTMTemplate(t GTMTemplate) (GTMTemplate, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.gtmTemplates[t.ID]; exists {
		return GTMTemplate{}, fmt.Errorf("gtm template %q already exists", t.ID)
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	normalizeGTMTemplate(&t, tx.store.newID)
	tx.state.gtmTemplates[t.ID] = cloneGTMTemplate(t)
	tx.recordChange(Change{Entity: domain.EntityGTMTemplate, Action: domain.ActionCreate, After: cloneGTMTemplate(t)})
	return cloneGTMTemplate(t), nil
}

// UpdateGTMTemplate mutates a GTM template.
func (tx *transaction) UpdateGTMTemplate(id string, mutator func(*GTMTemplate) error) (GTMTemplate, error) {
	current, ok := tx.state.gtmTemplates[id]
	if !ok {
		return GTMTemplate{}, domain.NotFoundError{Entity: domain.EntityGTMTemplate, ID: id}
	}
	before := cloneGTMTemplate(current)
	working := cloneGTMTemplate(current)
	if err := mutator(&working); err != nil {
		return GTMTemplate{}, err
	}
	working.ID = id
	working.CreatedAt = before.CreatedAt
	working.UpdatedAt = tx.now
	normalizeGTMTemplate(&working, tx.store.newID)
	tx.state.gtmTemplates[id] = cloneGTMTemplate(working)
	tx.recordChange(Change{Entity: domain.EntityGTMTemplate, Action: domain.ActionUpdate, Before: before, After: cloneGTMTemplate(working)})
	return cloneGTMTemplate(working), nil
}

// DeleteGTMTemplate removes a GTM template.
func (tx *transaction) DeleteGTMTemplate(id string) error {
	current, ok := tx.state.gtmTemplates[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityGTMTemplate, ID: id}
	}
	delete(tx.state.gtmTemplates, id)
	tx.recordChange(Change{Entity: domain.EntityGTMTemplate, Action: domain.ActionDelete, Before: cloneGTMTemplate(current)})
	return nil
}

// CreateCharacteristicTemplate stores a new characteristic template.
func (tx *transaction) CreateCharacteristicTemplate(t CharacteristicTemplate) (CharacteristicTemplate, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.charTemplates[t.ID]; exists {
		return CharacteristicTemplate{}, fmt.Errorf("characteristic template %q already exists", t.ID)
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	normalizeCharTemplate(&t, tx.store.newID)
	tx.state.charTemplates[t.ID] = cloneCharTemplate(t)
	tx.recordChange(Change{Entity: domain.EntityCharTemplate, Action: domain.ActionCreate, After: cloneCharTemplate(t)})
	return cloneCharTemplate(t), nil
}

// UpdateCharacteristicTemplate mutates a characteristic template.
func (tx *transaction) UpdateCharacteristicTemplate(id string, mutator func(*CharacteristicTemplate) error) (CharacteristicTemplate, error) {
	current, ok := tx.state.charTemplates[id]
	if !ok {
		return CharacteristicTemplate{}, domain.NotFoundError{Entity: domain.EntityCharTemplate, ID: id}
	}
	before := cloneCharTemplate(current)
	working := cloneCharTemplate(current)
	if err := mutator(&working); err != nil {
		return CharacteristicTemplate{}, err
	}
	working.ID = id
	working.CreatedAt = before.CreatedAt
	working.UpdatedAt = tx.now
	normalizeCharTemplate(&working, tx.store.newID)
	tx.state.charTemplates[id] = cloneCharTemplate(working)
	tx.recordChange(Change{Entity: domain.EntityCharTemplate, Action: domain.ActionUpdate, Before: before, After: cloneCharTemplate(working)})
	return cloneCharTemplate(working), nil
}

// DeleteCharacteristicTemplate removes a characteristic template.
func (tx *transaction) DeleteCharacteristicTemplate(id string) error {
	current, ok := tx.state.charTemplates[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityCharTemplate, ID: id}
	}
	delete(tx.state.charTemplates, id)
	tx.recordChange(Change{Entity: domain.EntityCharTemplate, Action: domain.ActionDelete, Before: cloneCharTemplate(current)})
	return nil
}

// FindGroup retrieves a product group from the transactional state.
func (tx *transaction) FindGroup(id string) (ProductGroup, bool) {
	g, ok := tx.state.groups[id]
	if !ok {
		return ProductGroup{}, false
	}
	return cloneGroup(g), true
}

// FindProject retrieves a project from the transactional state.
func (tx *transaction) FindProject(id string) (Project, bool) {
	p, ok := tx.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return cloneProject(p), true
}

// FindGTMTemplate retrieves a GTM template from the transactional state.
func (tx *transaction) FindGTMTemplate(id string) (GTMTemplate, bool) {
	t, ok := tx.state.gtmTemplates[id]
	if !ok {
		return GTMTemplate{}, false
	}
	return cloneGTMTemplate(t), true
}

// FindCharacteristicTemplate retrieves a characteristic template from the
// transactional state.
func (tx *transaction) FindCharacteristicTemplate(id string) (CharacteristicTemplate, bool) {
	t, ok := tx.state.charTemplates[id]
	if !ok {
		return CharacteristicTemplate{}, false
	}
	return cloneCharTemplate(t), true
}

// transactionView exposes a read-only snapshot of state to rules and reads.
type transactionView struct {
	state *memoryState
	now   time.Time
}

func newTransactionView(state *memoryState, now time.Time) TransactionView {
	return transactionView{state: state, now: now}
}

// ListGroups returns all product groups within the snapshot.
func (v transactionView) ListGroups() []ProductGroup {
	out := make([]ProductGroup, 0, len(v.state.groups))
	for _, g := range v.state.groups {
		out = append(out, cloneGroup(g))
	}
	sortGroups(out)
	return out
}

// ListProjects returns all projects within the snapshot with derived stage
// risk applied.
func (v transactionView) ListProjects() []Project {
	out := make([]Project, 0, len(v.state.projects))
	for _, p := range v.state.projects {
		out = append(out, decorateProject(cloneProject(p), v.now))
	}
	sortProjects(out)
	return out
}

// ListGTMTemplates returns all GTM templates within the snapshot.
func (v transactionView) ListGTMTemplates() []GTMTemplate {
	out := make([]GTMTemplate, 0, len(v.state.gtmTemplates))
	for _, t := range v.state.gtmTemplates {
		out = append(out, cloneGTMTemplate(t))
	}
	sortGTMTemplates(out)
	return out
}

// ListCharacteristicTemplates returns all characteristic templates within
// the snapshot.
func (v transactionView) ListCharacteristicTemplates() []CharacteristicTemplate {
	out := make([]CharacteristicTemplate, 0, len(v.state.charTemplates))
	for _, t := range v.state.charTemplates {
		out = append(out, cloneCharTemplate(t))
	}
	sortCharTemplates(out)
	return out
}

// FindGroup retrieves a product group by id from the snapshot.
func (v transactionView) FindGroup(id string) (ProductGroup, bool) {
	g, ok := v.state.groups[id]
	if !ok {
		return ProductGroup{}, false
	}
	return cloneGroup(g), true
}

// FindProject retrieves a project by id from the snapshot with derived stage
// risk applied.
func (v transactionView) FindProject(id string) (Project, bool) {
	p, ok := v.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return decorateProject(cloneProject(p), v.now), true
}

// FindProjectByChild resolves the owning project of a nested entity id.
func (v transactionView) FindProjectByChild(childID string) (Project, bool) {
	owner, ok := v.state.childIndex[childID]
	if !ok {
		return Project{}, false
	}
	return v.FindProject(owner)
}

// FindGTMTemplate retrieves a GTM template by id from the snapshot.
func (v transactionView) FindGTMTemplate(id string) (GTMTemplate, bool) {
	t, ok := v.state.gtmTemplates[id]
	if !ok {
		return GTMTemplate{}, false
	}
	return cloneGTMTemplate(t), true
}

// FindCharacteristicTemplate retrieves a characteristic template by id from
// the snapshot.
func (v transactionView) FindCharacteristicTemplate(id string) (CharacteristicTemplate, bool) {
	t, ok := v.state.charTemplates[id]
	if !ok {
		return CharacteristicTemplate{}, false
	}
	return cloneCharTemplate(t), true
}
