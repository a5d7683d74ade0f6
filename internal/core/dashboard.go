package core

import (
	"sort"
	"time"

	"launchcore/pkg/domain"
)

// StatusSummary counts projects by lifecycle status.
type StatusSummary struct {
	Active   int `json:"active"`
	Closed   int `json:"closed"`
	Archived int `json:"archived"`
}

// GroupCard summarizes one product group for the dashboard.
type GroupCard struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ActiveProjects int    `json:"active_projects"`
	Risk           bool   `json:"risk"`
}

// UpcomingItem is a dated stage or important task approaching (or past) its
// planned date.
type UpcomingItem struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	GroupName   string    `json:"group_name"`
	Kind        string    `json:"kind"` // gtm_stage or task
	Title       string    `json:"title"`
	PlannedDate time.Time `json:"planned_date"`
	DaysDelta   int       `json:"days_delta"`
	Risk        bool      `json:"risk"`
}

// RecentChange is one history entry annotated with its project and group.
type RecentChange struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	GroupName   string    `json:"group_name"`
	OccurredAt  time.Time `json:"occurred_at"`
	Summary     string    `json:"summary"`
	Details     *string   `json:"details,omitempty"`
}

// Dashboard aggregates the read model served to the overview page.
type Dashboard struct {
	Statuses      StatusSummary  `json:"statuses"`
	Groups        []GroupCard    `json:"groups"`
	Upcoming      []UpcomingItem `json:"upcoming"`
	RecentChanges []RecentChange `json:"recent_changes"`
}

// DashboardOptions filters and limits the aggregation.
type DashboardOptions struct {
	IncludeArchived bool
	GroupID         string
	Brand           string
	UpcomingLimit   int
	ChangesLimit    int
}

func (o DashboardOptions) matches(p Project) bool {
	if !o.IncludeArchived && p.Status == domain.ProjectStatusArchived {
		return false
	}
	if o.GroupID != "" && p.GroupID != o.GroupID {
		return false
	}
	if o.Brand != "" && p.Brand != o.Brand {
		return false
	}
	return true
}

// daysUntil is the calendar-day distance between now and t, negative when t
// is on an earlier date.
func daysUntil(now, t time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(today).Hours() / 24)
}

func projectHasRisk(p Project) bool {
	for _, stage := range p.GTMStages {
		if stage.RiskFlag {
			return true
		}
	}
	return false
}

// BuildDashboard aggregates status counts, per-group cards, upcoming dated
// items and recent history across the current graph.
func (s *Service) BuildDashboard(opts DashboardOptions) Dashboard {
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = 10
	}
	if opts.ChangesLimit <= 0 {
		opts.ChangesLimit = 20
	}
	now := s.now()

	groups := s.store.ListGroups()
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	var projects []Project
	for _, p := range s.store.ListProjects() {
		if opts.matches(p) {
			projects = append(projects, p)
		}
	}

	dash := Dashboard{
		Upcoming:      []UpcomingItem{},
		RecentChanges: []RecentChange{},
	}

	for _, p := range projects {
		switch p.Status {
		case domain.ProjectStatusActive:
			dash.Statuses.Active++
		case domain.ProjectStatusClosed:
			dash.Statuses.Closed++
		case domain.ProjectStatusArchived:
			dash.Statuses.Archived++
		}
	}

	for _, g := range groups {
		if !opts.IncludeArchived && g.Status == domain.GroupStatusArchived {
			continue
		}
		card := GroupCard{ID: g.ID, Name: g.Name}
		for _, p := range projects {
			if p.GroupID != g.ID {
				continue
			}
			if p.Status != domain.ProjectStatusArchived {
				card.ActiveProjects++
			}
			if projectHasRisk(p) {
				card.Risk = true
			}
		}
		dash.Groups = append(dash.Groups, card)
	}

	for _, p := range projects {
		groupName := groupNames[p.GroupID]
		for _, stage := range p.GTMStages {
			if stage.PlannedEnd == nil || stage.Status == domain.StageStatusDone || stage.Status == domain.StageStatusCancelled {
				continue
			}
			delta := daysUntil(now, *stage.PlannedEnd)
			dash.Upcoming = append(dash.Upcoming, UpcomingItem{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				GroupName:   groupName,
				Kind:        "gtm_stage",
				Title:       stage.Title,
				PlannedDate: *stage.PlannedEnd,
				DaysDelta:   delta,
				Risk:        stage.RiskFlag || delta < 0,
			})
		}
		for _, task := range p.Tasks {
			if task.DueDate == nil || task.Status == domain.TaskStatusDone || !task.Important {
				continue
			}
			delta := daysUntil(now, *task.DueDate)
			dash.Upcoming = append(dash.Upcoming, UpcomingItem{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				GroupName:   groupName,
				Kind:        "task",
				Title:       task.Title,
				PlannedDate: *task.DueDate,
				DaysDelta:   delta,
				Risk:        delta < 0,
			})
		}
		for _, event := range p.History {
			dash.RecentChanges = append(dash.RecentChanges, RecentChange{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				GroupName:   groupName,
				OccurredAt:  event.OccurredAt,
				Summary:     event.Summary,
				Details:     event.Details,
			})
		}
	}

	sort.SliceStable(dash.Upcoming, func(i, j int) bool {
		return dash.Upcoming[i].DaysDelta < dash.Upcoming[j].DaysDelta
	})
	if len(dash.Upcoming) > opts.UpcomingLimit {
		dash.Upcoming = dash.Upcoming[:opts.UpcomingLimit]
	}

	sort.SliceStable(dash.RecentChanges, func(i, j int) bool {
		return dash.RecentChanges[i].OccurredAt.After(dash.RecentChanges[j].OccurredAt)
	})
	if len(dash.RecentChanges) > opts.ChangesLimit {
		dash.RecentChanges = dash.RecentChanges[:opts.ChangesLimit]
	}

	return dash
}
