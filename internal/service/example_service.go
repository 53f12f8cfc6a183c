package service

import (
	"context"

	"drawbook/internal/domain"
	"drawbook/internal/port"
)

// ExampleService lists the shared example library.
type ExampleService interface {
	List(ctx context.Context) ([]domain.ExampleFile, error)
}

type exampleService struct {
	exampleRepo port.ExampleFileRepository
}

// NewExampleService creates a new ExampleService implementation.
func NewExampleService(exampleRepo port.ExampleFileRepository) ExampleService {
	return &exampleService{exampleRepo: exampleRepo}
}

func (s *exampleService) List(ctx context.Context) ([]domain.ExampleFile, error) {
	examples, err := s.exampleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	// The cached blob can be large; listings only need metadata.
	for i := range examples {
		examples[i].OCRResult = nil
	}
	return examples, nil
}
