package dto

import (
	"time"

	checkuc "github.com/checks-dashboard/backend/internal/application/usecase/check"
	"github.com/checks-dashboard/backend/internal/domain/aggregator"
)

// StatsResponse represents the dashboard counters.
type StatsResponse struct {
	TotalChecks   int    `json:"totalChecks"`
	OverdueCount  int    `json:"overdueCount"`
	UpcomingCount int    `json:"upcomingCount"`
	TotalAmount   string `json:"totalAmount"`
}

// CurrencyStatResponse represents totals for a single currency.
type CurrencyStatResponse struct {
	Currency    string `json:"currency"`
	Count       int    `json:"count"`
	TotalAmount string `json:"totalAmount"`
}

// DashboardResponse represents the response for the dashboard summary.
type DashboardResponse struct {
	Stats       StatsResponse          `json:"stats"`
	Currencies  []CurrencyStatResponse `json:"currencies"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// SnapshotResponse is the payload of one dashboard stream event.
type SnapshotResponse struct {
	DashboardResponse
	Filter string          `json:"filter"`
	Query  string          `json:"query,omitempty"`
	Checks []CheckResponse `json:"checks"`
}

func toStatsResponse(stats aggregator.DashboardStats) StatsResponse {
	return StatsResponse{
		TotalChecks:   stats.TotalChecks,
		OverdueCount:  stats.OverdueCount,
		UpcomingCount: stats.UpcomingCount,
		TotalAmount:   stats.TotalAmount.StringFixed(2),
	}
}

func toCurrencyStatResponses(stats aggregator.CurrencyStats) []CurrencyStatResponse {
	out := make([]CurrencyStatResponse, len(stats))
	for i, s := range stats {
		out[i] = CurrencyStatResponse{
			Currency:    s.Currency,
			Count:       s.Count,
			TotalAmount: s.TotalAmount.StringFixed(2),
		}
	}
	return out
}

// ToDashboardResponse converts a GetDashboardOutput to a DashboardResponse DTO.
func ToDashboardResponse(output *checkuc.GetDashboardOutput) DashboardResponse {
	return DashboardResponse{
		Stats:       toStatsResponse(output.Stats),
		Currencies:  toCurrencyStatResponses(output.Currencies),
		GeneratedAt: output.GeneratedAt,
	}
}

// ToSnapshotResponse converts a DashboardSnapshot to a SnapshotResponse DTO.
func ToSnapshotResponse(snapshot *checkuc.DashboardSnapshot) SnapshotResponse {
	return SnapshotResponse{
		DashboardResponse: DashboardResponse{
			Stats:       toStatsResponse(snapshot.Stats),
			Currencies:  toCurrencyStatResponses(snapshot.Currencies),
			GeneratedAt: snapshot.GeneratedAt,
		},
		Filter: string(snapshot.Filter),
		Query:  snapshot.Query,
		Checks: ToCheckResponses(snapshot.Checks),
	}
}
