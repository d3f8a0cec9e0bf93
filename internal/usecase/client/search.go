package client

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
)

type SearchClients struct {
	repo Repository
}

func NewSearchClients(repo Repository) *SearchClients {
	return &SearchClients{repo: repo}
}

// Execute matches term case-insensitively as a substring of name, phone or
// email. An empty term lists every client. Results are ordered by name.
func (uc *SearchClients) Execute(ctx context.Context, term string, activeOnly bool) ([]models.Client, error) {
	term = strings.ToLower(strings.TrimSpace(term))

	out := []models.Client{}
	for _, c := range uc.repo.Snapshot().Clients() {
		if activeOnly && c.Status != models.ClientActive {
			continue
		}
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Phone), term) ||
			strings.Contains(strings.ToLower(c.Email), term) {
			out = append(out, c)
		}
	}
	return out, nil
}

type GetClient struct {
	repo Repository
}

func NewGetClient(repo Repository) *GetClient {
	return &GetClient{repo: repo}
}

func (uc *GetClient) Execute(ctx context.Context, id string) (models.Client, error) {
	c, ok := uc.repo.Snapshot().Client(id)
	if !ok {
		return models.Client{}, httperr.ErrNotFound("client", id)
	}
	return c, nil
}
