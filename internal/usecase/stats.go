package usecase

import (
	"context"
	"math"

	"github.com/leadline-hq/crm-api/internal/entity"
)

// StatsReader aggregates the dashboard numbers. Read-only.
type StatsReader struct {
	Leads   LeadRepository
	Clients ClientRepository
}

func NewStatsReader(leads LeadRepository, clients ClientRepository) *StatsReader {
	return &StatsReader{Leads: leads, Clients: clients}
}

func (s *StatsReader) GetStats(ctx context.Context) (*Stats, error) {
	totalLeads, err := s.Leads.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalClients, err := s.Clients.Count(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.Leads.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	rate := 0
	if totalLeads > 0 {
		rate = int(math.Round(float64(totalClients) / float64(totalLeads) * 100))
	}

	return &Stats{
		TotalLeads:     totalLeads,
		TotalClients:   totalClients,
		ConversionRate: rate,
		LeadsByStatus: StatusCounts{
			New:       byStatus[entity.StatusNew],
			Contacted: byStatus[entity.StatusContacted],
			Qualified: byStatus[entity.StatusQualified],
			Closed:    byStatus[entity.StatusClosed],
		},
	}, nil
}
