package sources

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	u "net/url"
	"strconv"
	"strings"

	"github.com/rjindal/segfetch/internal/utils"
)

// ContentHashHeader is the exact header name carrying the declared
// content hash. Absence of the header skips verification.
const ContentHashHeader = "X-Content-Hash"

type HTTPSource struct {
	url    string
	client *utils.FetchClient
}

func NewHTTPSource(url string, cfg utils.HTTPClientConfig) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: utils.NewFetchClient(cfg),
	}
}

func (s *HTTPSource) Probe(ctx context.Context) (*ResourceInfo, error) {
	log := utils.GetLogger("probe")
	req, err := http.NewRequestWithContext(ctx, "HEAD", s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected probe status code: %d", resp.StatusCode)
	}
	info := &ResourceInfo{
		Filename:       filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		RangeSupported: resp.Header.Get("Accept-Ranges") == "bytes",
		ContentHash:    resp.Header.Get(ContentHashHeader),
	}
	contentLength := resp.Header.Get("Content-Length")
	if contentLength == "" {
		return nil, fmt.Errorf("server didn't provide Content-Length header")
	}
	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid Content-Length header: %v", err)
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid file size reported by server: %d", size)
	}
	info.Size = size
	log.Debug().Int64("size", size).Bool("rangeSupported", info.RangeSupported).Str("filename", info.Filename).Msg("Probe completed")
	return info, nil
}

func (s *HTTPSource) FetchRange(ctx context.Context, start, end int64) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	req.Header.Set("Connection", "keep-alive")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code for range request: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Connection", "keep-alive")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func filenameFromDisposition(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return ""
	}
	if fn, ok := params["filename"]; ok && fn != "" {
		return utils.SanitizeFilename(fn)
	}
	if fn, ok := params["filename*"]; ok && fn != "" {
		if strings.HasPrefix(fn, "UTF-8''") {
			unescaped, _ := u.PathUnescape(strings.TrimPrefix(fn, "UTF-8''"))
			return utils.SanitizeFilename(unescaped)
		}
	}
	return ""
}
