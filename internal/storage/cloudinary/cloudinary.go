// Package cloudinary implements the media store on top of the Cloudinary
// REST API.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // upload signatures are defined as SHA-1 by the API
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/storage"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httpclient"
)

const (
	serviceName = "cloudinary"

	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.cloudinary.com/v1_1"

	// deleteBatchSize is the most public ids one delete_resources call accepts.
	deleteBatchSize = 100
)

// Config holds the account credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

// Storage implements storage.Storage against Cloudinary.
type Storage struct {
	cfg    Config
	client httpclient.Doer
	logger *slog.Logger
	now    func() time.Time
}

var _ storage.Storage = (*Storage)(nil)

// New creates a Cloudinary media store. Requests go through a circuit breaker
// and are never retried: a retried upload could create a duplicate asset.
func New(cfg Config, logger *slog.Logger) *Storage {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	httpCfg := httpclient.DefaultConfig()
	httpCfg.MaxRetries = 0
	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.MediaHostBreakerConfig(serviceName),
		logger,
	)
	return newWithClient(cfg, client, logger)
}

func newWithClient(cfg Config, client httpclient.Doer, logger *slog.Logger) *Storage {
	return &Storage{
		cfg:    cfg,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// resource is the asset shape returned by upload and search.
type resource struct {
	PublicID  string    `json:"public_id"`
	SecureURL string    `json:"secure_url"`
	Folder    string    `json:"folder"`
	Format    string    `json:"format"`
	Bytes     int64     `json:"bytes"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// Upload sends the image as a signed multipart upload.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*domain.Image, error) {
	params := map[string]string{
		"folder":    input.Folder,
		"timestamp": s.timestamp(),
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range s.signed(params) {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write upload field: %w", err)
		}
	}
	filename := input.Filename
	if filename == "" {
		filename = "upload"
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create upload part: %w", err)
	}
	if _, err := part.Write(input.Data); err != nil {
		return nil, fmt.Errorf("write upload part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint("image/upload"), &body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res resource
	if err := s.do(req, &res); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "image uploaded",
		slog.String("asset_id", res.PublicID),
		slog.Int64("bytes", res.Bytes),
	)
	return &domain.Image{AssetID: res.PublicID, URL: res.SecureURL}, nil
}

// Delete destroys a single asset.
func (s *Storage) Delete(ctx context.Context, assetID string) error {
	form := url.Values{}
	for k, v := range s.signed(map[string]string{"public_id": assetID, "timestamp": s.timestamp()}) {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint("image/destroy"),
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var res struct {
		Result string `json:"result"`
	}
	if err := s.do(req, &res); err != nil {
		return err
	}
	switch res.Result {
	case "ok":
		return nil
	case "not found":
		return apperrors.NotFound("media asset", assetID)
	default:
		return &httpclient.UpstreamError{Service: serviceName, Status: http.StatusOK, Message: "destroy result: " + res.Result}
	}
}

// DeleteMany removes assets through the admin API in batches.
func (s *Storage) DeleteMany(ctx context.Context, assetIDs []string) error {
	for start := 0; start < len(assetIDs); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(assetIDs))

		q := url.Values{}
		for _, id := range assetIDs[start:end] {
			q.Add("public_ids[]", id)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			s.endpoint("resources/image/upload")+"?"+q.Encode(), http.NoBody)
		if err != nil {
			return fmt.Errorf("create delete request: %w", err)
		}
		req.SetBasicAuth(s.cfg.APIKey, s.cfg.APISecret)

		if err := s.do(req, nil); err != nil {
			return err
		}
	}
	return nil
}

// Search lists a folder's assets newest first.
func (s *Storage) Search(ctx context.Context, query storage.SearchQuery) ([]domain.MediaAsset, error) {
	payload, err := json.Marshal(map[string]any{
		"expression":  "folder:" + query.Folder,
		"sort_by":     []map[string]string{{"created_at": "desc"}},
		"max_results": query.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint("resources/search"), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.cfg.APIKey, s.cfg.APISecret)

	var res struct {
		Resources []resource `json:"resources"`
	}
	if err := s.do(req, &res); err != nil {
		return nil, err
	}

	assets := make([]domain.MediaAsset, 0, len(res.Resources))
	for _, r := range res.Resources {
		assets = append(assets, domain.MediaAsset{
			AssetID:   r.PublicID,
			URL:       r.SecureURL,
			Folder:    r.Folder,
			Format:    r.Format,
			Bytes:     r.Bytes,
			Width:     r.Width,
			Height:    r.Height,
			CreatedAt: r.CreatedAt,
		})
	}
	return assets, nil
}

func (s *Storage) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req.Context(), req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", serviceName, req.URL.Path, err)
	}
	if resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", serviceName, err)
	}
	return nil
}

func (s *Storage) endpoint(path string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.CloudName, path)
}

func (s *Storage) timestamp() string {
	return strconv.FormatInt(s.now().Unix(), 10)
}

// signed returns params plus api_key and signature.
func (s *Storage) signed(params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	out["signature"] = sign(params, s.cfg.APISecret)
	out["api_key"] = s.cfg.APIKey
	return out
}

// sign computes the hex SHA-1 of the alphabetically sorted k=v pairs joined
// by '&' with the secret appended.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
