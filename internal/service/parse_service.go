package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"drawbook/internal/config"
	"drawbook/internal/domain"
	"drawbook/internal/layout"
	"drawbook/internal/port"
)

// ParseUploadInput is the DTO for parse-on-upload requests.
type ParseUploadInput struct {
	UserID      uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
}

// ParseOutcome is the result of a parse request: the assembled document plus
// what happened around it.
type ParseOutcome struct {
	Document *layout.ParsedDocument `json:"document"`
	File     *domain.UserFile       `json:"file,omitempty"`
	CacheHit bool                   `json:"cache_hit"`
	Charge   ChargeResult           `json:"charge"`
}

// ParseService runs the parse pipeline: cache gate, remote parse, document
// assembly, cache write-back and charging.
type ParseService interface {
	ParseUpload(ctx context.Context, input ParseUploadInput) (*ParseOutcome, error)
	ParseUserFile(ctx context.Context, userID, fileID uuid.UUID) (*ParseOutcome, error)
	ParseExample(ctx context.Context, exampleID uuid.UUID) (*ParseOutcome, error)
}

type parseService struct {
	userRepo    port.UserRepository
	fileRepo    port.UserFileRepository
	exampleRepo port.ExampleFileRepository
	parser      port.LayoutParser
	storage     port.ObjectStorage
	metering    MeteringService
	s3cfg       *config.S3Config
	httpClient  *http.Client

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewParseService creates a new ParseService implementation.
func NewParseService(
	userRepo port.UserRepository,
	fileRepo port.UserFileRepository,
	exampleRepo port.ExampleFileRepository,
	parser port.LayoutParser,
	storage port.ObjectStorage,
	metering MeteringService,
	s3cfg *config.S3Config,
) ParseService {
	return &parseService{
		userRepo:    userRepo,
		fileRepo:    fileRepo,
		exampleRepo: exampleRepo,
		parser:      parser,
		storage:     storage,
		metering:    metering,
		s3cfg:       s3cfg,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		inFlight:    make(map[uuid.UUID]struct{}),
	}
}

// acquire marks an id as having a parse in flight. Re-requesting the same
// file while its parse is running would double-submit to the remote API, so
// the second caller fails fast instead.
func (s *parseService) acquire(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return domain.ErrParseInFlight
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *parseService) release(id uuid.UUID) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

// ParseUpload handles a fresh upload: the remote parse and the storage
// upload run concurrently and are joined before the cache write, which needs
// the inserted record. A storage failure still shows the parse result; a
// parse failure aborts everything.
func (s *parseService) ParseUpload(ctx context.Context, input ParseUploadInput) (*ParseOutcome, error) {
	fileType, ok := domain.FileTypeFromFilename(input.Filename)
	if !ok {
		if fileType, ok = domain.FileTypeFromContentType(input.ContentType); !ok {
			return nil, domain.ErrUnsupportedFileType
		}
	}
	maxBytes := s.s3cfg.MaxFileSizeMB * 1024 * 1024
	if int64(len(input.Data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.BalancePages < 1 {
		return nil, domain.ErrInsufficientBalance
	}

	var (
		wg         sync.WaitGroup
		result     *layout.ParseResult
		parseErr   error
		file       *domain.UserFile
		storageErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result, parseErr = s.parser.Parse(ctx, input.Data, fileType.IsPDF())
	}()
	go func() {
		defer wg.Done()
		file, storageErr = s.storeUpload(ctx, input, fileType)
	}()
	wg.Wait()

	if parseErr != nil {
		return nil, parseErr
	}
	if storageErr != nil {
		log.Printf("parseService.ParseUpload: storage failed for %s, result not persisted: %v", input.Filename, storageErr)
		file = nil
	}

	doc := s.assemble(result)

	if file != nil {
		s.writeFileCache(ctx, file, result)
	}

	charge := s.metering.MaybeCharge(ctx, input.UserID, doc.PageCount, input.Filename, true)

	return &ParseOutcome{Document: doc, File: file, Charge: charge}, nil
}

// ParseUserFile re-parses a previously uploaded file. A cached result is
// authoritative: it is returned without a network call and without a charge.
func (s *parseService) ParseUserFile(ctx context.Context, userID, fileID uuid.UUID) (*ParseOutcome, error) {
	if err := s.acquire(fileID); err != nil {
		return nil, err
	}
	defer s.release(fileID)

	file, err := s.fileRepo.GetByID(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}

	if len(file.OCRResult) > 0 {
		result, err := decodeCachedResult(file.OCRResult)
		if err != nil {
			return nil, fmt.Errorf("parseService.ParseUserFile cache decode: %w", err)
		}
		return &ParseOutcome{Document: s.assemble(result), File: file, CacheHit: true}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.BalancePages < 1 {
		return nil, domain.ErrInsufficientBalance
	}

	data, err := s.storage.Download(ctx, s.s3cfg.Bucket, file.FilePath)
	if err != nil {
		return nil, fmt.Errorf("parseService.ParseUserFile download: %w", err)
	}

	result, err := s.parser.Parse(ctx, data, file.FileType.IsPDF())
	if err != nil {
		return nil, err
	}

	doc := s.assemble(result)
	s.writeFileCache(ctx, file, result)
	charge := s.metering.MaybeCharge(ctx, userID, doc.PageCount, file.Filename, true)

	return &ParseOutcome{Document: doc, File: file, Charge: charge}, nil
}

// ParseExample parses a shared example document. Examples are never charged;
// the first successful parse populates the shared cache for everyone.
func (s *parseService) ParseExample(ctx context.Context, exampleID uuid.UUID) (*ParseOutcome, error) {
	if err := s.acquire(exampleID); err != nil {
		return nil, err
	}
	defer s.release(exampleID)

	example, err := s.exampleRepo.GetByID(ctx, exampleID)
	if err != nil {
		return nil, err
	}

	if len(example.OCRResult) > 0 {
		result, err := decodeCachedResult(example.OCRResult)
		if err != nil {
			return nil, fmt.Errorf("parseService.ParseExample cache decode: %w", err)
		}
		return &ParseOutcome{Document: s.assemble(result), CacheHit: true}, nil
	}

	data, err := s.fetchExample(ctx, example.URL)
	if err != nil {
		return nil, err
	}

	result, err := s.parser.Parse(ctx, data, example.Type == "pdf")
	if err != nil {
		return nil, err
	}

	doc := s.assemble(result)
	if cached, err := encodeCachedResult(result); err != nil {
		log.Printf("parseService.ParseExample: cache encode failed for %s: %v", exampleID, err)
	} else if err := s.exampleRepo.UpdateOCRResult(ctx, exampleID, cached); err != nil {
		log.Printf("parseService.ParseExample: cache write failed for %s: %v", exampleID, err)
	}

	return &ParseOutcome{Document: doc}, nil
}

func (s *parseService) assemble(result *layout.ParseResult) *layout.ParsedDocument {
	raw, err := json.Marshal(result)
	if err != nil {
		raw = nil
	}
	return &layout.ParsedDocument{
		Markdown:  layout.Assemble(result),
		Result:    raw,
		PageCount: result.PageCount(),
	}
}

func (s *parseService) storeUpload(ctx context.Context, input ParseUploadInput, fileType domain.FileType) (*domain.UserFile, error) {
	key := fmt.Sprintf("users/%s/files/%s/%s", input.UserID, uuid.New(), input.Filename)

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Data),
		ContentType: input.ContentType,
		Size:        int64(len(input.Data)),
	})
	if err != nil {
		return nil, domain.ErrUploadFailed
	}

	fileURL := out.Location
	if s.s3cfg.PublicBaseURL != "" {
		fileURL = s.s3cfg.PublicBaseURL + "/" + key
	}

	file := &domain.UserFile{
		UserID:   input.UserID,
		Filename: input.Filename,
		FilePath: key,
		FileURL:  fileURL,
		FileSize: int64(len(input.Data)),
		FileType: fileType,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("creating file record: %w", err)
	}
	return file, nil
}

// writeFileCache persists the sanitized parse result. A failed write only
// costs a re-parse on the next selection, so it is logged and swallowed.
func (s *parseService) writeFileCache(ctx context.Context, file *domain.UserFile, result *layout.ParseResult) {
	cached, err := encodeCachedResult(result)
	if err != nil {
		log.Printf("parseService: cache encode failed for file %s: %v", file.ID, err)
		return
	}
	if err := s.fileRepo.UpdateOCRResult(ctx, file.UserID, file.ID, cached); err != nil {
		log.Printf("parseService: cache write failed for file %s: %v", file.ID, err)
		return
	}
	file.OCRResult = cached
}

func (s *parseService) fetchExample(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching example: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching example: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching example: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading example: %w", err)
	}
	return data, nil
}

// encodeCachedResult strips the base64 visualization before persisting; the
// overlay is large and recomputable, the rest of the response is not.
func encodeCachedResult(result *layout.ParseResult) (json.RawMessage, error) {
	sanitized := *result
	sanitized.StripVisualization()
	return json.Marshal(&sanitized)
}

func decodeCachedResult(raw json.RawMessage) (*layout.ParseResult, error) {
	var result layout.ParseResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

