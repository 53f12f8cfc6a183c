package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"drawbook/internal/config"
	"drawbook/internal/domain"
	"drawbook/internal/port"
)

// FileService defines the uploaded-file management contract.
type FileService interface {
	GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.UserFile, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UserFile, int, error)
	GetDownloadURL(ctx context.Context, userID, fileID uuid.UUID) (string, error)
	Delete(ctx context.Context, userID, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo port.UserFileRepository
	storage  port.ObjectStorage
	cfg      *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(fileRepo port.UserFileRepository, storage port.ObjectStorage, cfg *config.S3Config) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

func (s *fileService) GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.UserFile, error) {
	return s.fileRepo.GetByID(ctx, userID, fileID)
}

func (s *fileService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.UserFile, int, error) {
	return s.fileRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *fileService) GetDownloadURL(ctx context.Context, userID, fileID uuid.UUID) (string, error) {
	file, err := s.fileRepo.GetByID(ctx, userID, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, s.cfg.Bucket, file.FilePath, s.cfg.PresignExpiry)
}

// Delete removes the stored object and the record. The user asked for the
// removal, so a storage failure surfaces instead of being swallowed.
func (s *fileService) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, s.cfg.Bucket, file.FilePath); err != nil {
		log.Printf("fileService.Delete: storage delete failed for %s: %v", file.FilePath, err)
		return domain.ErrDeleteFailed
	}

	return s.fileRepo.Delete(ctx, userID, fileID)
}
