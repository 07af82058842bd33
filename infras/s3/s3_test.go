package s3

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"hostel/config"
	"hostel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestStore() *s3Impl {
	cfg := &config.Config{}
	cfg.External.S3.BucketName = "hostel"
	cfg.External.S3.PublicDomain = "https://cdn.example.com/"
	cfg.External.S3.APIEndpoint = "https://storage.example.com"
	cfg.External.S3.MaxImageSizeKB = 1

	return &s3Impl{Config: cfg}
}

func TestGetObjectNameFromURL(t *testing.T) {
	store := newTestStore()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public domain", url: "https://cdn.example.com/room/abc.png", want: "abc.png"},
		{name: "path style endpoint", url: "https://storage.example.com/hostel/activity/kayak.jpg", want: "kayak.jpg"},
		{name: "foreign url", url: "https://images.example.org/room/abc.png", want: ""},
		{name: "other bucket", url: "https://storage.example.com/archive/room/abc.png", want: ""},
		{name: "empty", url: "", want: ""},
		{name: "domain only", url: "https://cdn.example.com/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.GetObjectNameFromURL("", tt.url))
		})
	}
}

func TestPublicURL(t *testing.T) {
	store := newTestStore()

	assert.Equal(t, "https://cdn.example.com/room/abc.png", store.publicURL("room/abc.png"))
}

func TestReadLimited(t *testing.T) {
	data, err := readLimited(bytes.NewReader(pngHeader), 1024)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	_, err = readLimited(strings.NewReader(strings.Repeat("x", 1025)), 1024)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Contains(t, err.Error(), "1 KB")

	_, err = readLimited(strings.NewReader(""), 1024)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	_, err = readLimited(nil, 1024)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	data, err = readLimited(strings.NewReader(strings.Repeat("x", 4096)), 0)
	require.NoError(t, err)
	assert.Len(t, data, 4096)
}

func TestImageContentType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		data     []byte
		want     string
		wantErr  bool
	}{
		{name: "declared jpeg", declared: "image/jpeg", data: []byte("anything"), want: "image/jpeg"},
		{name: "declared with params", declared: "Image/PNG; charset=binary", data: pngHeader, want: "image/png"},
		{name: "sniffed png", declared: "application/octet-stream", data: pngHeader, want: "image/png"},
		{name: "missing header sniffed", declared: "", data: pngHeader, want: "image/png"},
		{name: "text rejected", declared: "text/plain", data: []byte("hello world"), wantErr: true},
		{name: "pdf rejected", declared: "application/pdf", data: []byte("%PDF-1.4"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := imageContentType(tt.declared, tt.data)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
