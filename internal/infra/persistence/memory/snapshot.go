package memory

// GroupSnapshot nests a group's projects under the group record, matching
// the on-disk document layout.
type GroupSnapshot struct {
	ProductGroup
	Projects []Project `json:"projects"`
}

// Snapshot is the serializable representation of the complete store state.
type Snapshot struct {
	Groups                  []GroupSnapshot          `json:"groups"`
	GTMTemplates            []GTMTemplate            `json:"gtm_templates"`
	CharacteristicTemplates []CharacteristicTemplate `json:"characteristic_templates"`
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	snap := Snapshot{
		Groups:                  make([]GroupSnapshot, 0, len(state.groups)),
		GTMTemplates:            make([]GTMTemplate, 0, len(state.gtmTemplates)),
		CharacteristicTemplates: make([]CharacteristicTemplate, 0, len(state.charTemplates)),
	}

	byGroup := make(map[string][]Project, len(state.groups))
	for _, p := range state.projects {
		byGroup[p.GroupID] = append(byGroup[p.GroupID], cloneProject(p))
	}
	for _, projects := range byGroup {
		sortProjects(projects)
	}

	groups := make([]ProductGroup, 0, len(state.groups))
	for _, g := range state.groups {
		groups = append(groups, cloneGroup(g))
	}
	sortGroups(groups)
	for _, g := range groups {
		projects := byGroup[g.ID]
		if projects == nil {
			projects = []Project{}
		}
		snap.Groups = append(snap.Groups, GroupSnapshot{ProductGroup: g, Projects: projects})
	}

	for _, t := range state.gtmTemplates {
		snap.GTMTemplates = append(snap.GTMTemplates, cloneGTMTemplate(t))
	}
	sortGTMTemplates(snap.GTMTemplates)

	for _, t := range state.charTemplates {
		snap.CharacteristicTemplates = append(snap.CharacteristicTemplates, cloneCharTemplate(t))
	}
	sortCharTemplates(snap.CharacteristicTemplates)

	return snap
}

func memoryStateFromSnapshot(snap Snapshot) memoryState {
	state := newMemoryState()
	for _, gs := range snap.Groups {
		g := cloneGroup(gs.ProductGroup)
		normalizeGroup(&g)
		state.groups[g.ID] = g
		for _, p := range gs.Projects {
			pc := cloneProject(p)
			pc.GroupID = g.ID
			normalizeProject(&pc)
			state.projects[pc.ID] = pc
			state.indexProject(pc)
		}
	}
	noID := func() string { return "" }
	for _, t := range snap.GTMTemplates {
		tc := cloneGTMTemplate(t)
		normalizeGTMTemplate(&tc, noID)
		state.gtmTemplates[tc.ID] = tc
	}
	for _, t := range snap.CharacteristicTemplates {
		tc := cloneCharTemplate(t)
		normalizeCharTemplate(&tc, noID)
		state.charTemplates[tc.ID] = tc
	}
	return state
}

// migrateSnapshot repairs the internal references of a loaded snapshot so
// older or hand-edited documents import cleanly: dangling stage references
// are cleared and at most one image per project keeps the cover flag.
func migrateSnapshot(snap Snapshot) Snapshot {
	for gi := range snap.Groups {
		for pi := range snap.Groups[gi].Projects {
			p := &snap.Groups[gi].Projects[pi]
			stageIDs := make(map[string]struct{}, len(p.GTMStages))
			for _, s := range p.GTMStages {
				stageIDs[s.ID] = struct{}{}
			}
			if p.CurrentGTMStageID != nil {
				if _, ok := stageIDs[*p.CurrentGTMStageID]; !ok {
					p.CurrentGTMStageID = nil
				}
			}
			for ti := range p.Tasks {
				t := &p.Tasks[ti]
				if t.GTMStageID != nil {
					if _, ok := stageIDs[*t.GTMStageID]; !ok {
						t.GTMStageID = nil
					}
				}
			}
			coverSeen := false
			for ii := range p.Images {
				if !p.Images[ii].IsCover {
					continue
				}
				if coverSeen {
					p.Images[ii].IsCover = false
					continue
				}
				coverSeen = true
			}
		}
	}
	return snap
}

// ExportState returns a deterministic snapshot of committed state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces committed state with the normalized contents of the
// snapshot. Rules are not evaluated: imports restore previously accepted
// state.
func (s *Store) ImportState(snap Snapshot) {
	state := memoryStateFromSnapshot(migrateSnapshot(snap))
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
