package usecase

import (
	"time"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type ColumnCount struct {
	ColumnID string             `json:"column_id"`
	Name     string             `json:"name"`
	Color    entity.ColumnColor `json:"color"`
	Count    int                `json:"count"`
}

type DashboardStats struct {
	TotalLeads         int           `json:"total_leads"`
	LeadsThisMonth     int           `json:"leads_this_month"`
	ScheduledFollowups int           `json:"scheduled_followups"`
	ConversionRate     float64       `json:"conversion_rate"`
	PerColumn          []ColumnCount `json:"per_column"`
}

// BuildDashboard resume o quadro carregado. A conversão é a fração de
// leads na última coluna do funil.
func BuildDashboard(columns []entity.Column, leads []entity.Lead, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalLeads: len(leads),
		PerColumn:  make([]ColumnCount, 0, len(columns)),
	}

	year, month, _ := now.Date()
	for _, l := range leads {
		y, m, _ := l.CreatedAt.In(now.Location()).Date()
		if y == year && m == month {
			stats.LeadsThisMonth++
		}
		if l.HasFollowup {
			stats.ScheduledFollowups++
		}
	}

	for _, c := range columns {
		stats.PerColumn = append(stats.PerColumn, ColumnCount{
			ColumnID: c.ID,
			Name:     c.Name,
			Color:    c.Color,
			Count:    len(c.Leads),
		})
	}

	if len(columns) > 0 && len(leads) > 0 {
		last := columns[len(columns)-1]
		stats.ConversionRate = float64(len(last.Leads)) / float64(len(leads))
	}

	return stats
}
