package usecase

import "github.com/leadline-hq/crm-api/internal/entity"

type CreateLeadInput struct {
	Name     string
	Email    string
	Business string
	Message  string
	Source   string
}

type ConvertLeadOutput struct {
	Client           *entity.Client
	AlreadyConverted bool
}

type StatusCounts struct {
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Qualified int `json:"qualified"`
	Closed    int `json:"closed"`
}

type Stats struct {
	TotalLeads     int          `json:"totalLeads"`
	TotalClients   int          `json:"totalClients"`
	ConversionRate int          `json:"conversionRate"`
	LeadsByStatus  StatusCounts `json:"leadsByStatus"`
}
