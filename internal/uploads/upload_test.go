package uploads

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aTrapDeer/portfolio-backend/internal/config"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func multipartRequest(t *testing.T, field, filename, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func newTestUploader(t *testing.T, maxBytes int64) (*Uploader, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := NewLocalProvider(dir)
	require.NoError(t, err)
	u := NewUploader(p, maxBytes)
	u.now = func() time.Time { return time.UnixMilli(1700000000000) }
	u.suffix = func() string { return "abcdef123456" }
	return u, dir
}

func TestUploaderSave(t *testing.T) {
	u, dir := newTestUploader(t, DefaultMaxBytes)

	url, err := u.Save(httptest.NewRecorder(), multipartRequest(t, "file", "Avatar.PNG", "image/png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-abcdef123456.png", url)

	stored, err := os.ReadFile(filepath.Join(dir, "1700000000000-abcdef123456.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)
}

func TestUploaderRejects(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		maxBytes int64
		want     string
	}{
		{
			name: "text file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "notes.txt", "text/plain", []byte("hello"))
			},
			want: "Only image files are allowed",
		},
		{
			name: "declared image with text content",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "fake.png", "image/png", []byte("<html>nope</html>"))
			},
			want: "Only image files are allowed",
		},
		{
			name: "wrong field",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "image", "a.png", "image/png", pngBytes)
			},
			want: "No file uploaded",
		},
		{
			name:     "too large",
			maxBytes: 32,
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "a.png", "image/png", pngBytes)
			},
			want: "File too large",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader([]byte("{}")))
			},
			want: "Invalid upload",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, dir := newTestUploader(t, tt.maxBytes)
			_, err := u.Save(httptest.NewRecorder(), tt.req(t))
			var uerr *Error
			require.ErrorAs(t, err, &uerr)
			assert.Contains(t, uerr.Message, tt.want)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestUploaderAcceptsDeclaredSVG(t *testing.T) {
	u, _ := newTestUploader(t, DefaultMaxBytes)
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	url, err := u.Save(httptest.NewRecorder(), multipartRequest(t, "file", "logo", "image/svg+xml", svg))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000000-abcdef123456.svg", url)
}

func TestExtension(t *testing.T) {
	tests := []struct {
		filename, contentType, want string
	}{
		{"photo.JPG", "image/jpeg", ".jpg"},
		{"photo", "image/jpeg", ".jpg"},
		{"photo.j p g", "image/jpeg", ".jpg"},
		{"../../etc/passwd", "image/png", ".png"},
		{"shot.webp", "image/webp", ".webp"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, extension(tt.filename, tt.contentType))
		})
	}
}

func TestRandomSuffix(t *testing.T) {
	a, b := randomSuffix(), randomSuffix()
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Provider(t *testing.T) {
	api := &fakeS3{}
	p := newS3Provider(api, "media", "https://cdn.example.com/")

	require.NoError(t, p.Put(context.Background(), "1-abc.png", bytes.NewReader(pngBytes), "image/png"))
	assert.Equal(t, "media", aws.StringValue(api.input.Bucket))
	assert.Equal(t, "1-abc.png", aws.StringValue(api.input.Key))
	assert.Equal(t, "image/png", aws.StringValue(api.input.ContentType))
	assert.Equal(t, pngBytes, api.body)
	assert.Equal(t, "https://cdn.example.com/1-abc.png", p.URL("1-abc.png"))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.Config{UploadBackend: "local", UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalProvider{}, p)

	p, err = NewProvider(config.Config{UploadBackend: "s3", S3Bucket: "media", S3Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/k", p.URL("k"))

	_, err = NewProvider(config.Config{UploadBackend: "ftp"})
	assert.Error(t, err)
}
