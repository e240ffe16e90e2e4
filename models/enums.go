package models

import "errors"

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleAnalyste UserRole = "analyste"
	UserRoleMetier   UserRole = "metier"
)

func ParseUserRole(s string) (UserRole, error) {
	switch s {
	case "admin":
		return UserRoleAdmin, nil
	case "analyste":
		return UserRoleAnalyste, nil
	case "metier":
		return UserRoleMetier, nil
	}
	return "", errors.New("invalid user role")
}

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleAnalyste, UserRoleMetier:
		return true
	}
	return false
}

func (r UserRole) Label() string {
	switch r {
	case UserRoleAdmin:
		return "Administrateur"
	case UserRoleAnalyste:
		return "Analyste"
	case UserRoleMetier:
		return "Métier"
	}
	return string(r)
}

type KPICategory string

const (
	KPICategoryFinancier    KPICategory = "financier"
	KPICategoryOperationnel KPICategory = "operationnel"
	KPICategoryAutre        KPICategory = "autre"
)

func AllKPICategories() []KPICategory {
	return []KPICategory{KPICategoryFinancier, KPICategoryOperationnel, KPICategoryAutre}
}

func ParseKPICategory(s string) (KPICategory, error) {
	switch s {
	case "financier":
		return KPICategoryFinancier, nil
	case "operationnel":
		return KPICategoryOperationnel, nil
	case "autre":
		return KPICategoryAutre, nil
	}
	return "", errors.New("invalid KPI category")
}

func (c KPICategory) Label() string {
	switch c {
	case KPICategoryFinancier:
		return "Financier"
	case KPICategoryOperationnel:
		return "Opérationnel"
	case KPICategoryAutre:
		return "Autre"
	}
	return string(c)
}

type KPIStatus string

const (
	KPIStatusNormal   KPIStatus = "normal"
	KPIStatusWarning  KPIStatus = "warning"
	KPIStatusCritique KPIStatus = "critique"
)

type ChartKind string

const (
	ChartKindLine ChartKind = "line"
	ChartKindBar  ChartKind = "bar"
	ChartKindPie  ChartKind = "pie"
)

func ParseChartKind(s string) (ChartKind, error) {
	switch s {
	case "line":
		return ChartKindLine, nil
	case "bar":
		return ChartKindBar, nil
	case "pie":
		return ChartKindPie, nil
	}
	return "", errors.New("invalid chart type")
}

func (k ChartKind) Valid() bool {
	switch k {
	case ChartKindLine, ChartKindBar, ChartKindPie:
		return true
	}
	return false
}
