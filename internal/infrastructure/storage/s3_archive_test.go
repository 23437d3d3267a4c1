package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/config"
)

// fakeS3 records the requests an S3 client sends
type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   map[string]int // "METHOD path" -> status
}

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		status, ok := f.status[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			status = http.StatusOK
		}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func testStorageConfig(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Enabled:      true,
		Endpoint:     endpoint,
		Region:       "ap-south-1",
		Bucket:       "reports",
		AccessKey:    "test-access",
		SecretKey:    "test-secret",
		UsePathStyle: true,
		KeyPrefix:    "/gst-reports/",
	}
}

func TestNewS3ReportArchive_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		want   string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig("http://localhost:9000")
			tt.mutate(&cfg)

			archive, err := NewS3ReportArchive(ctx, cfg)
			require.Error(t, err)
			assert.Nil(t, archive)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", normalizeEndpoint("", true))
	assert.Equal(t, "http://minio:9000", normalizeEndpoint("minio:9000", false))
	assert.Equal(t, "https://minio:9000", normalizeEndpoint("minio:9000", true))
	assert.Equal(t, "http://minio:9000", normalizeEndpoint("http://minio:9000", true))
}

func TestS3ReportArchive_ObjectKey(t *testing.T) {
	archive, err := NewS3ReportArchive(context.Background(), testStorageConfig("http://localhost:9000"))
	require.NoError(t, err)

	assert.Equal(t, "gst-reports/gst/org/gstr1.xlsx", archive.ObjectKey("gst/org/gstr1.xlsx"))
}

func TestS3ReportArchive_Upload(t *testing.T) {
	fake, srv := newFakeS3(t)
	archive, err := NewS3ReportArchive(context.Background(), testStorageConfig(srv.URL))
	require.NoError(t, err)

	data := []byte("PK\x03\x04workbook")
	err = archive.Upload(context.Background(), "gst/org-1/gstr1_20240401_20240430.xlsx", data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/reports/gst-reports/gst/org-1/gstr1_20240401_20240430.xlsx", req.Path)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", req.ContentType)
	assert.Equal(t, data, req.Body)
}

func TestS3ReportArchive_UploadRequiresKey(t *testing.T) {
	archive, err := NewS3ReportArchive(context.Background(), testStorageConfig("http://localhost:9000"))
	require.NoError(t, err)

	assert.Error(t, archive.Upload(context.Background(), "", []byte("x"), "text/plain"))
}

func TestS3ReportArchive_UploadFailure(t *testing.T) {
	fake, srv := newFakeS3(t)
	fake.status["PUT /reports/gst-reports/k.xlsx"] = http.StatusForbidden
	archive, err := NewS3ReportArchive(context.Background(), testStorageConfig(srv.URL))
	require.NoError(t, err)

	err = archive.Upload(context.Background(), "k.xlsx", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload")
}

func TestS3ReportArchive_EnsureBucketExisting(t *testing.T) {
	fake, srv := newFakeS3(t)
	archive, err := NewS3ReportArchive(context.Background(), testStorageConfig(srv.URL))
	require.NoError(t, err)

	require.NoError(t, archive.EnsureBucket(context.Background()))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodHead, fake.requests[0].Method)
}

func TestS3ReportArchive_EnsureBucketCreates(t *testing.T) {
	fake, srv := newFakeS3(t)
	fake.status["HEAD /reports"] = http.StatusNotFound
	archive, err := NewS3ReportArchive(context.Background(), testStorageConfig(srv.URL))
	require.NoError(t, err)

	require.NoError(t, archive.EnsureBucket(context.Background()))
	require.Len(t, fake.requests, 2)
	assert.Equal(t, http.MethodPut, fake.requests[1].Method)
	assert.Equal(t, "/reports", fake.requests[1].Path)
}
