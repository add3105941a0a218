package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
)

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	now        func() time.Time
}

// NewClientService creates the client service.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade) portssvc.ClientSvcFacade {
	return &clientService{
		clientRepo: clientRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorID string) (*domain.Client, error) {
	now := s.now()
	client := domain.Client{
		ClientID: uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	return &client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, updaterID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	client.LastUpdatedAt = s.now()
	client.LastUpdatedBy = updaterID

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.clientRepo.FindClientByID(ctx, clientID)
}

func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.ListClients(ctx)
}
