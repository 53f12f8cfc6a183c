package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"drawbook/internal/config"
	"drawbook/internal/domain"
	"drawbook/internal/layout"
	"drawbook/internal/port"
	"drawbook/internal/service"
	"drawbook/mocks"
)

func testS3Config() *config.S3Config {
	return &config.S3Config{Bucket: "test-bucket", MaxFileSizeMB: 50, PresignExpiry: 3600}
}

func twoPageResult() *layout.ParseResult {
	return &layout.ParseResult{
		Image: "base64-overlay",
		LayoutParsingResults: []layout.PageResult{
			{PrunedResult: layout.PrunedResult{ParsingResList: []layout.Block{
				{BlockLabel: "title", BlockContent: "Report"},
				{BlockLabel: "table", BlockContent: "<table><tr><td>x</td></tr></table>"},
			}}},
			{
				PrunedResult: layout.PrunedResult{ParsingResList: []layout.Block{
					{BlockLabel: "image", BlockContent: "imgs/fig.jpg"},
				}},
				Markdown: layout.PageMarkdown{Images: map[string]string{
					"imgs/fig.jpg": "https://cdn.example.com/fig.jpg",
				}},
			},
		},
	}
}

type parseServiceMocks struct {
	userRepo    *mocks.MockUserRepo
	fileRepo    *mocks.MockUserFileRepo
	exampleRepo *mocks.MockExampleFileRepo
	parser      *mocks.MockLayoutParser
	storage     *mocks.MockObjectStorage
}

func newParseService(t *testing.T) (service.ParseService, *parseServiceMocks) {
	t.Helper()
	m := &parseServiceMocks{
		userRepo:    new(mocks.MockUserRepo),
		fileRepo:    new(mocks.MockUserFileRepo),
		exampleRepo: new(mocks.MockExampleFileRepo),
		parser:      new(mocks.MockLayoutParser),
		storage:     new(mocks.MockObjectStorage),
	}
	svc := service.NewParseService(
		m.userRepo, m.fileRepo, m.exampleRepo, m.parser, m.storage,
		service.NewMeteringService(m.userRepo), testS3Config(),
	)
	return svc, m
}

func TestParseService_ParseUpload_FreshUploadChargedOnce(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()
	data := []byte("%PDF-1.4 doc")

	m.userRepo.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, BalancePages: 5, IsActive: true}, nil)
	m.parser.On("Parse", mock.Anything, data, true).Return(twoPageResult(), nil)
	m.storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://s3/test"}, nil)
	m.fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.fileRepo.On("UpdateOCRResult", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil)
	m.userRepo.On("ChargeUsage", mock.Anything, userID, 2, "report.pdf").Return(3, nil).Once()

	outcome, err := svc.ParseUpload(context.Background(), service.ParseUploadInput{
		UserID:      userID,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Data:        data,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Document.PageCount)
	assert.Contains(t, outcome.Document.Markdown, "## Report")
	assert.Contains(t, outcome.Document.Markdown, "![image](https://cdn.example.com/fig.jpg)")
	assert.Contains(t, outcome.Document.Markdown, layout.PageAnchor(1))
	assert.Contains(t, outcome.Document.Markdown, layout.PageAnchor(2))
	assert.False(t, outcome.CacheHit)
	assert.True(t, outcome.Charge.Charged)
	assert.Equal(t, 2, outcome.Charge.Pages)
	assert.Equal(t, 3, outcome.Charge.NewBalance)

	m.userRepo.AssertNumberOfCalls(t, "ChargeUsage", 1)
}

func TestParseService_ParseUpload_CacheWriteStripsVisualization(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()
	data := []byte("img bytes")

	m.userRepo.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, BalancePages: 5}, nil)
	m.parser.On("Parse", mock.Anything, data, false).Return(twoPageResult(), nil)
	m.storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://s3/test"}, nil)
	m.fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.fileRepo.On("UpdateOCRResult", mock.Anything, userID, mock.Anything, mock.MatchedBy(func(raw json.RawMessage) bool {
		var cached layout.ParseResult
		if err := json.Unmarshal(raw, &cached); err != nil {
			return false
		}
		return cached.Image == "" && len(cached.LayoutParsingResults) == 2
	})).Return(nil).Once()
	m.userRepo.On("ChargeUsage", mock.Anything, userID, 2, "scan.png").Return(3, nil)

	_, err := svc.ParseUpload(context.Background(), service.ParseUploadInput{
		UserID:      userID,
		Filename:    "scan.png",
		ContentType: "image/png",
		Data:        data,
	})
	require.NoError(t, err)
	m.fileRepo.AssertExpectations(t)
}

func TestParseService_ParseUpload_StorageFailureStillReturnsDocument(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()
	data := []byte("%PDF-1.4 doc")

	m.userRepo.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, BalancePages: 5}, nil)
	m.parser.On("Parse", mock.Anything, data, true).Return(twoPageResult(), nil)
	m.storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, errors.New("s3 unavailable"))
	m.userRepo.On("ChargeUsage", mock.Anything, userID, 2, "report.pdf").Return(3, nil)

	outcome, err := svc.ParseUpload(context.Background(), service.ParseUploadInput{
		UserID:      userID,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Data:        data,
	})
	require.NoError(t, err)

	assert.Nil(t, outcome.File)
	assert.Equal(t, 2, outcome.Document.PageCount)
	m.fileRepo.AssertNotCalled(t, "UpdateOCRResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestParseService_ParseUpload_ParseFailureAbortsEverything(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()
	data := []byte("%PDF-1.4 doc")

	m.userRepo.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, BalancePages: 5}, nil)
	m.parser.On("Parse", mock.Anything, data, true).
		Return(nil, &domain.ParseAPIError{Code: 7, Message: "bad input"})
	m.storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://s3/test"}, nil)
	m.fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.ParseUpload(context.Background(), service.ParseUploadInput{
		UserID:      userID,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Data:        data,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParseFailed))

	m.fileRepo.AssertNotCalled(t, "UpdateOCRResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.userRepo.AssertNotCalled(t, "ChargeUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestParseService_ParseUpload_InsufficientBalance(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()

	m.userRepo.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, BalancePages: 0}, nil)

	_, err := svc.ParseUpload(context.Background(), service.ParseUploadInput{
		UserID:      userID,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Data:        []byte("x"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	m.parser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything, mock.Anything)
}

func TestParseService_ParseUpload_UnsupportedType(t *testing.T) {
	svc, _ := newParseService(t)

	_, err := svc.ParseUpload(context.Background(), service.ParseUploadInput{
		UserID:      uuid.New(),
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("x"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestParseService_ParseUserFile_CacheHitSkipsAPIAndCharge(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()
	fileID := uuid.New()

	cached, err := json.Marshal(twoPageResult())
	require.NoError(t, err)

	m.fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(&domain.UserFile{
		ID:        fileID,
		UserID:    userID,
		Filename:  "report.pdf",
		FileType:  domain.FileTypePDF,
		OCRResult: cached,
	}, nil)

	outcome, err := svc.ParseUserFile(context.Background(), userID, fileID)
	require.NoError(t, err)

	assert.True(t, outcome.CacheHit)
	assert.False(t, outcome.Charge.Charged)
	assert.Equal(t, 2, outcome.Document.PageCount)
	assert.Contains(t, outcome.Document.Markdown, "## Report")

	m.parser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything, mock.Anything)
	m.userRepo.AssertNotCalled(t, "ChargeUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.fileRepo.AssertNotCalled(t, "UpdateOCRResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestParseService_ParseUserFile_NoCacheParsesAndCharges(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()
	fileID := uuid.New()
	data := []byte("stored pdf bytes")

	m.fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(&domain.UserFile{
		ID:       fileID,
		UserID:   userID,
		Filename: "report.pdf",
		FilePath: "users/x/files/y/report.pdf",
		FileType: domain.FileTypePDF,
	}, nil)
	m.userRepo.On("GetByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, BalancePages: 5}, nil)
	m.storage.On("Download", mock.Anything, "test-bucket", "users/x/files/y/report.pdf").Return(data, nil)
	m.parser.On("Parse", mock.Anything, data, true).Return(twoPageResult(), nil)
	m.fileRepo.On("UpdateOCRResult", mock.Anything, userID, fileID, mock.Anything).Return(nil)
	m.userRepo.On("ChargeUsage", mock.Anything, userID, 2, "report.pdf").Return(3, nil).Once()

	outcome, err := svc.ParseUserFile(context.Background(), userID, fileID)
	require.NoError(t, err)
	assert.False(t, outcome.CacheHit)
	assert.True(t, outcome.Charge.Charged)
	m.userRepo.AssertNumberOfCalls(t, "ChargeUsage", 1)
}

func TestParseService_ParseUserFile_SecondConcurrentRequestFailsFast(t *testing.T) {
	svc, m := newParseService(t)
	userID := uuid.New()
	fileID := uuid.New()

	started := make(chan struct{})
	release := make(chan struct{})

	m.fileRepo.On("GetByID", mock.Anything, userID, fileID).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, domain.ErrNotFound).Once()

	done := make(chan error, 1)
	go func() {
		_, err := svc.ParseUserFile(context.Background(), userID, fileID)
		done <- err
	}()

	<-started
	_, err := svc.ParseUserFile(context.Background(), userID, fileID)
	assert.ErrorIs(t, err, domain.ErrParseInFlight)

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("first request did not finish")
	}
}

func TestParseService_ParseExample_NeverCharged(t *testing.T) {
	svc, m := newParseService(t)
	exampleID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("example pdf bytes"))
	}))
	defer server.Close()

	m.exampleRepo.On("GetByID", mock.Anything, exampleID).Return(&domain.ExampleFile{
		ID:   exampleID,
		Name: "Invoice sample",
		URL:  server.URL + "/invoice.pdf",
		Type: "pdf",
	}, nil)
	m.parser.On("Parse", mock.Anything, []byte("example pdf bytes"), true).Return(twoPageResult(), nil)
	m.exampleRepo.On("UpdateOCRResult", mock.Anything, exampleID, mock.Anything).Return(nil).Once()

	outcome, err := svc.ParseExample(context.Background(), exampleID)
	require.NoError(t, err)
	assert.False(t, outcome.CacheHit)
	assert.False(t, outcome.Charge.Charged)
	assert.Equal(t, 2, outcome.Document.PageCount)

	m.userRepo.AssertNotCalled(t, "ChargeUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.exampleRepo.AssertExpectations(t)
}

func TestParseService_ParseExample_CacheHit(t *testing.T) {
	svc, m := newParseService(t)
	exampleID := uuid.New()

	cached, err := json.Marshal(twoPageResult())
	require.NoError(t, err)

	m.exampleRepo.On("GetByID", mock.Anything, exampleID).Return(&domain.ExampleFile{
		ID:        exampleID,
		OCRResult: cached,
	}, nil)

	outcome, err := svc.ParseExample(context.Background(), exampleID)
	require.NoError(t, err)
	assert.True(t, outcome.CacheHit)
	assert.True(t, strings.Contains(outcome.Document.Markdown, layout.PageAnchor(1)))

	m.parser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything, mock.Anything)
	m.exampleRepo.AssertNotCalled(t, "UpdateOCRResult", mock.Anything, mock.Anything, mock.Anything)
}
