package sources

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rjindal/segfetch/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "2048")
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.Header().Set(ContentHashHeader, "abc123")
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, utils.HTTPClientConfig{})
	info, err := src.Probe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2048), info.Size)
	assert.True(t, info.RangeSupported)
	assert.Equal(t, "report.pdf", info.Filename)
	assert.Equal(t, "abc123", info.ContentHash)
}

func TestHTTPSourceProbeNoRangeSupport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, utils.HTTPClientConfig{})
	info, err := src.Probe(context.Background())
	require.NoError(t, err)
	assert.False(t, info.RangeSupported)
	assert.Empty(t, info.Filename)
	assert.Empty(t, info.ContentHash)
}

func TestHTTPSourceProbeBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, utils.HTTPClientConfig{})
	_, err := src.Probe(context.Background())
	require.Error(t, err)
}

func TestHTTPSourceFetchRange(t *testing.T) {
	data := []byte("0123456789abcdefghij")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "bytes=5-9", r.Header.Get("Range"))
		w.Header().Set("Content-Range", "bytes 5-9/"+strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(data[5:10])
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, utils.HTTPClientConfig{})
	body, err := src.FetchRange(context.Background(), 5, 9)
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, []byte("56789"), got)
}

func TestHTTPSourceFetchRangeIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("full body instead of a range"))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, utils.HTTPClientConfig{})
	_, err := src.FetchRange(context.Background(), 0, 10)
	require.Error(t, err)
}

func TestHTTPSourceFetch(t *testing.T) {
	data := []byte("whole file contents")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Range"))
		w.Write(data)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, utils.HTTPClientConfig{})
	body, err := src.Fetch(context.Background())
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestHTTPSourceBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sekrit" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Length", "10")
		w.Header().Set("Accept-Ranges", "bytes")
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, utils.HTTPClientConfig{BearerToken: "sekrit"})
	info, err := src.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size)

	unauthed := NewHTTPSource(server.URL, utils.HTTPClientConfig{})
	_, err = unauthed.Probe(context.Background())
	require.Error(t, err)
}

func TestResolveScheme(t *testing.T) {
	src, err := Resolve("https://example.com/file.bin", utils.HTTPClientConfig{})
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://my-bucket/path/to/object.bin")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/object.bin", key)

	_, _, err = parseS3URL("s3://only-bucket")
	require.Error(t, err)
}
