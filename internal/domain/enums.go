package domain

import "strings"

// FileType identifies the upload format accepted by the parse pipeline.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeBMP  FileType = "bmp"
	FileTypeWEBP FileType = "webp"
)

var extToFileType = map[string]FileType{
	".pdf":  FileTypePDF,
	".jpg":  FileTypeJPG,
	".jpeg": FileTypeJPG,
	".png":  FileTypePNG,
	".bmp":  FileTypeBMP,
	".webp": FileTypeWEBP,
}

var mimeToFileType = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/bmp":       FileTypeBMP,
	"image/webp":      FileTypeWEBP,
}

// FileTypeFromFilename resolves a FileType from the file extension.
func FileTypeFromFilename(name string) (FileType, bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", false
	}
	ft, ok := extToFileType[strings.ToLower(name[idx:])]
	return ft, ok
}

// FileTypeFromContentType resolves a FileType from a MIME type.
func FileTypeFromContentType(ct string) (FileType, bool) {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	ft, ok := mimeToFileType[strings.TrimSpace(strings.ToLower(ct))]
	return ft, ok
}

// IsPDF reports whether the file type requires page-based parsing.
func (t FileType) IsPDF() bool { return t == FileTypePDF }

// TransactionStatus tracks the lifecycle of a top-up order.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)
