package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/identity-client/internal/client/client"
	"github.com/dmitrijs2005/identity-client/internal/client/models"
)

// AdminService exposes the privileged user directory.
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
}

type adminService struct {
	client client.Client
}

func NewAdminService(c client.Client) AdminService {
	return &adminService{client: c}
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users error: %w", err)
	}
	return users, nil
}

func (s *adminService) GetUser(ctx context.Context, id string) (models.User, error) {
	u, err := s.client.GetUser(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}
	return u, nil
}
