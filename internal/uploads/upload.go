package uploads

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxBytes = 5 << 20
	formField       = "file"
	sniffLen        = 512
)

// Error is an upload the client got wrong or the backend failed to store.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var knownExt = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
	"image/bmp":     ".bmp",
	"image/x-icon":  ".ico",
}

// Uploader accepts one multipart image per request and hands it to a
// Provider under a generated name.
type Uploader struct {
	provider Provider
	maxBytes int64
	now      func() time.Time
	suffix   func() string
}

func NewUploader(p Provider, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploader{provider: p, maxBytes: maxBytes, now: time.Now, suffix: randomSuffix}
}

// Save stores the "file" field of a multipart request and returns its URL.
// The object is written before Save returns.
func (u *Uploader) Save(w http.ResponseWriter, r *http.Request) (string, error) {
	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes+64<<10)
	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", u.tooLarge()
		}
		return "", &Error{Message: "Invalid upload", Err: err}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formField)
	if err != nil {
		return "", &Error{Message: "No file uploaded"}
	}
	defer file.Close()
	if header.Size > u.maxBytes {
		return "", u.tooLarge()
	}

	declared, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", &Error{Message: "Invalid upload", Err: err}
	}
	if !isImage(declared, http.DetectContentType(head[:n])) {
		return "", &Error{Message: "Only image files are allowed"}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", &Error{Message: "Invalid upload", Err: err}
	}

	key := fmt.Sprintf("%d-%s%s", u.now().UnixMilli(), u.suffix(), extension(header.Filename, declared))
	if err := u.provider.Put(r.Context(), key, file, declared); err != nil {
		log.Printf("uploads: storing %s: %v", key, err)
		return "", &Error{Message: "Failed to store file", Err: err}
	}
	return u.provider.URL(key), nil
}

func (u *Uploader) tooLarge() *Error {
	return &Error{Message: fmt.Sprintf("File too large (max %d MB)", u.maxBytes>>20)}
}

// isImage requires both the declared and the sniffed type to be images.
// SVG sniffs as text, so a declared SVG is taken at its word.
func isImage(declared, sniffed string) bool {
	if !strings.HasPrefix(declared, "image/") {
		return false
	}
	if declared == "image/svg+xml" {
		return true
	}
	return strings.HasPrefix(sniffed, "image/")
}

// extension keeps the client's extension when it is a plain token and
// otherwise derives one from the MIME type.
func extension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if clean := sanitizeExt(ext); clean != "" {
		return clean
	}
	if ext, ok := knownExt[contentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func sanitizeExt(ext string) string {
	name := strings.TrimPrefix(ext, ".")
	if name == "" || len(name) > 10 {
		return ""
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + name
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
