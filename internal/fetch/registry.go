// Package fetch holds the network-facing collaborators that feed the graph
// build: the registry dataset download, the insolvency-registry lookups, and
// the foreign-registry lookups. Nothing here touches the graph directly; the
// results are handed to the assembler as enrichment inputs.
package fetch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// RegistryClient downloads the business-registry dataset from the CKAN open
// data API, keeping a local CSV cache because the exports run to hundreds of
// megabytes.
type RegistryClient struct {
	BaseURL     string
	CacheDir    string
	CacheMaxAge time.Duration
	HTTPClient  *http.Client
}

func NewRegistryClient(baseURL, cacheDir string, cacheMaxAge time.Duration) *RegistryClient {
	return &RegistryClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		CacheDir:    cacheDir,
		CacheMaxAge: cacheMaxAge,
		HTTPClient:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type ckanListResponse struct {
	Success bool     `json:"success"`
	Result  []string `json:"result"`
}

type ckanShowResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Resources []ckanResource `json:"resources"`
	} `json:"result"`
}

type ckanResource struct {
	Format     string `json:"format"`
	FormatEnum string `json:"formatEnum"`
	URL        string `json:"url"`
}

// LatestDataset returns the name of the newest available dataset, preferring
// packages named for the current or previous year.
func (c *RegistryClient) LatestDataset(ctx context.Context) (string, error) {
	var list ckanListResponse
	if err := c.getJSON(ctx, c.BaseURL+"/package_list", &list); err != nil {
		return "", fmt.Errorf("fetch package list: %w", err)
	}
	if !list.Success || len(list.Result) == 0 {
		return "", fmt.Errorf("package list empty or unsuccessful")
	}
	year := time.Now().Year()
	for _, name := range list.Result {
		if strings.Contains(name, strconv.Itoa(year)) || strings.Contains(name, strconv.Itoa(year-1)) {
			return name, nil
		}
	}
	return list.Result[0], nil
}

// FetchDataset returns a local path to the dataset CSV, downloading it unless
// a sufficiently fresh cached copy exists.
func (c *RegistryClient) FetchDataset(ctx context.Context, dataset string) (string, error) {
	cachePath := c.cachePath(dataset)
	if c.cacheValid(cachePath) {
		log.Info("using cached dataset", "path", cachePath)
		return cachePath, nil
	}

	resource, err := c.csvResource(ctx, dataset)
	if err != nil {
		return "", err
	}
	log.Info("downloading dataset", "dataset", dataset, "url", resource.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resource.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download dataset: unexpected status %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(resource.URL, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.CacheDir, "dataset-*.csv")
	if err != nil {
		return "", err
	}
	written, err := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write dataset: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", closeErr
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	log.Info("dataset downloaded", "bytes", written, "path", cachePath)
	return cachePath, nil
}

func (c *RegistryClient) csvResource(ctx context.Context, dataset string) (*ckanResource, error) {
	var show ckanShowResponse
	url := c.BaseURL + "/package_show?id=" + dataset
	if err := c.getJSON(ctx, url, &show); err != nil {
		return nil, fmt.Errorf("fetch dataset info: %w", err)
	}
	if !show.Success {
		return nil, fmt.Errorf("dataset info unsuccessful for %q", dataset)
	}
	for _, r := range show.Result.Resources {
		format := strings.ToUpper(r.Format)
		formatEnum := strings.ToUpper(r.FormatEnum)
		if format == "CSV" || format == "CSV.GZ" || formatEnum == "CSV" || formatEnum == "CSV_GZ" {
			if r.URL != "" {
				res := r
				return &res, nil
			}
		}
	}
	return nil, fmt.Errorf("dataset %q has no CSV resource", dataset)
}

func (c *RegistryClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *RegistryClient) cachePath(dataset string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(dataset)
	return filepath.Join(c.CacheDir, safe+".csv")
}

func (c *RegistryClient) cacheValid(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < c.CacheMaxAge
}
