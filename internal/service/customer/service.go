package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/internal/repository/postgres"
)

type CustomerService interface {
	Create(ctx context.Context, req *model.CreateCustomerRequest) (*model.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateCustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.CustomerFilters) ([]*model.Customer, int, error)
	FindOrCreate(ctx context.Context, req *model.CreateCustomerRequest) (*model.Customer, error)
}

type Service struct {
	repo repository.CustomerRepository
}

func NewService(repo repository.CustomerRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateCustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCustomerRequest) (*model.Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// List returns the page of customers plus the unpaged total, so list
// responses report real page counts.
func (s *Service) List(ctx context.Context, filters *model.CustomerFilters) ([]*model.Customer, int, error) {
	customers, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// FindOrCreate matches an existing customer by phone so a returning
// customer keeps one record across walk-in orders.
func (s *Service) FindOrCreate(ctx context.Context, req *model.CreateCustomerRequest) (*model.Customer, error) {
	existing, err := s.repo.GetByPhone(ctx, req.Phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, postgres.ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, req)
}
