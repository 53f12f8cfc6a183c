package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"drawbook/internal/domain"
	"drawbook/internal/service"
	"drawbook/mocks"
)

func newFileService() (service.FileService, *mocks.MockUserFileRepo, *mocks.MockObjectStorage) {
	fileRepo := new(mocks.MockUserFileRepo)
	storage := new(mocks.MockObjectStorage)
	return service.NewFileService(fileRepo, storage, testS3Config()), fileRepo, storage
}

func TestFileService_GetDownloadURL(t *testing.T) {
	svc, fileRepo, storage := newFileService()
	userID := uuid.New()
	fileID := uuid.New()

	fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(&domain.UserFile{
		ID:       fileID,
		UserID:   userID,
		FilePath: "users/x/files/y/report.pdf",
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "users/x/files/y/report.pdf", int64(3600)).
		Return("https://s3/presigned", nil)

	url, err := svc.GetDownloadURL(context.Background(), userID, fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/presigned", url)
}

func TestFileService_Delete(t *testing.T) {
	userID := uuid.New()
	fileID := uuid.New()
	file := &domain.UserFile{ID: fileID, UserID: userID, FilePath: "users/x/files/y/report.pdf"}

	t.Run("removes object then record", func(t *testing.T) {
		svc, fileRepo, storage := newFileService()

		fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(file, nil)
		storage.On("Delete", mock.Anything, "test-bucket", file.FilePath).Return(nil)
		fileRepo.On("Delete", mock.Anything, userID, fileID).Return(nil).Once()

		require.NoError(t, svc.Delete(context.Background(), userID, fileID))
		fileRepo.AssertExpectations(t)
	})

	t.Run("storage failure keeps the record", func(t *testing.T) {
		svc, fileRepo, storage := newFileService()

		fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(file, nil)
		storage.On("Delete", mock.Anything, "test-bucket", file.FilePath).
			Return(errors.New("s3 unavailable"))

		err := svc.Delete(context.Background(), userID, fileID)
		assert.ErrorIs(t, err, domain.ErrDeleteFailed)
		fileRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing file", func(t *testing.T) {
		svc, fileRepo, storage := newFileService()

		fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(nil, domain.ErrNotFound)

		err := svc.Delete(context.Background(), userID, fileID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
