// Package hosted downloads pre-built dataset bundles from the public release
// host. This path needs no credentials and is preferred over the origin API.
package hosted

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/schema"
)

// DefaultBaseURL points at the latest published data release.
const DefaultBaseURL = "https://github.com/modelscout/modelscout-data/releases/download/data-latest"

const requestTimeout = 15 * time.Second

// ErrUnavailable means the release host could not be reached or did not
// serve the manifest. The resolver falls through to the origin API.
var ErrUnavailable = errors.New("hosted snapshot unavailable")

type Client struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: baseURL,
		log:     log,
	}
}

// FetchManifest downloads the release manifest.
func (c *Client) FetchManifest(ctx context.Context) (*model.Manifest, error) {
	raw, err := c.get(ctx, c.baseURL+"/manifest.json")
	if err != nil {
		return nil, err
	}
	var m model.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %v", ErrUnavailable, err)
	}
	return &m, nil
}

// FetchTable downloads the asset named by the manifest for one table,
// verifies its checksum, and conforms it to the registry schema. Returns the
// table and the manifest marker it was fetched under.
func (c *Client) FetchTable(ctx context.Context, name string, m *model.Manifest) (*model.Table, string, error) {
	def, ok := schema.Lookup(name)
	if !ok {
		return nil, "", fmt.Errorf("unknown table %q", name)
	}
	asset, ok := m.Asset(def.Name)
	if !ok {
		return nil, "", fmt.Errorf("%w: release carries no asset for table %q", ErrUnavailable, def.Name)
	}

	raw, err := c.get(ctx, c.baseURL+"/"+asset.File)
	if err != nil {
		return nil, "", err
	}

	if asset.SHA256 != "" {
		sum := sha256.Sum256(raw)
		if got := hex.EncodeToString(sum[:]); got != asset.SHA256 {
			return nil, "", fmt.Errorf("%w: checksum mismatch for %s", ErrUnavailable, asset.File)
		}
	}

	var t model.Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, "", fmt.Errorf("%w: parse %s: %v", ErrUnavailable, asset.File, err)
	}

	c.log.Debug("hosted table fetched",
		zap.String("table", def.Name),
		zap.Int("rows", len(t.Rows)),
		zap.String("sha256", asset.SHA256))
	return schema.Conform(def, &t), asset.SHA256, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrUnavailable, url, res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	return raw, nil
}
