package models

import (
	"context"
	"fmt"
)

const dashboardListLimit = 5

// Context shared by every role dashboard.
type DashboardCommon struct {
	Kpis              []*KPI        `json:"kpis"`
	Categories        []KPICategory `json:"categories"`
	DateSelected      string        `json:"date_selected,omitempty"`
	CategorieSelected string        `json:"categorie_selected,omitempty"`
	SearchQuery       string        `json:"search_query,omitempty"`
}

type AdminDashboard struct {
	DashboardCommon
	Users        []*User `json:"users"`
	RoleSelected string  `json:"role_selected,omitempty"`
	TotalUsers   int64   `json:"total_users"`
	ActiveUsers  int64   `json:"active_users"`
}

type AnalysteDashboard struct {
	DashboardCommon
	Reports        []*Report      `json:"reports"`
	RecentInsights []*Commentaire `json:"recent_insights"`
}

type MetierDashboard struct {
	DashboardCommon
	CriticalKpis []*KPI `json:"critical_kpis"`
}

// BuildDashboard assembles the role-specific payload. The role switch is
// exhaustive over the closed enum; callers handle unauthenticated users
// before getting here.
func BuildDashboard(ctx context.Context, role UserRole, f KPIFilter, roleFilter string) (any, error) {

	f.DefaultCurrentMonth = true
	kpis, err := SearchKPIs(ctx, f)
	if err != nil {
		return nil, err
	}

	common := DashboardCommon{
		Kpis:              kpis,
		Categories:        AllKPICategories(),
		DateSelected:      f.Date,
		CategorieSelected: f.Categorie,
		SearchQuery:       f.Search,
	}

	switch role {
	case UserRoleAdmin:
		users, err := GetUsers(ctx, roleFilter)
		if err != nil {
			return nil, err
		}
		total, err := CountUsers(ctx)
		if err != nil {
			return nil, err
		}
		active, err := CountActiveUsers(ctx)
		if err != nil {
			return nil, err
		}
		return &AdminDashboard{
			DashboardCommon: common,
			Users:           users,
			RoleSelected:    roleFilter,
			TotalUsers:      total,
			ActiveUsers:     active,
		}, nil

	case UserRoleAnalyste:
		reports, err := RecentActiveReports(ctx, dashboardListLimit)
		if err != nil {
			return nil, err
		}
		insights, err := RecentInsights(ctx, dashboardListLimit)
		if err != nil {
			return nil, err
		}
		return &AnalysteDashboard{
			DashboardCommon: common,
			Reports:         reports,
			RecentInsights:  insights,
		}, nil

	case UserRoleMetier:
		critical, err := CriticalKPIs(ctx, f)
		if err != nil {
			return nil, err
		}
		return &MetierDashboard{
			DashboardCommon: common,
			CriticalKpis:    critical,
		}, nil
	}

	return nil, fmt.Errorf("unhandled role %q", role)
}
