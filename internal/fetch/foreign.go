package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/prepify/orgraph/internal/graph"
)

// ForeignRegistryClient resolves foreign companies through the
// OpenCorporates API. Results feed the assembler's foreign-details
// enrichment; a dissolved or liquidated status maps onto the insolvent flag.
type ForeignRegistryClient struct {
	BaseURL    string
	HTTPClient *http.Client
	cache      *gocache.Cache
}

func NewForeignRegistryClient(baseURL string, cacheTTL time.Duration) *ForeignRegistryClient {
	return &ForeignRegistryClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// ForeignCompany is one foreign-registry lookup result.
type ForeignCompany struct {
	ID        string
	Name      string
	City      string
	Country   string
	Status    string
	Insolvent bool
}

// Details converts the lookup into the assembler's enrichment payload.
func (f *ForeignCompany) Details() graph.ForeignDetails {
	return graph.ForeignDetails{
		Name:    f.Name,
		City:    f.City,
		Country: f.Country,
		Status:  f.Status,
	}
}

type openCorporatesResponse struct {
	Results struct {
		Company struct {
			Name              string `json:"name"`
			CurrentStatus     string `json:"current_status"`
			RegisteredAddress struct {
				Locality string `json:"locality"`
			} `json:"registered_address"`
		} `json:"company"`
	} `json:"results"`
}

// inactiveStatuses are registry statuses treated as insolvency-equivalent.
var inactiveStatuses = map[string]bool{
	"Dissolved":   true,
	"Inactive":    true,
	"Liquidation": true,
}

// SplitForeignID splits an entity id of the form <jurisdiction><number>
// (e.g. "CY123456") into its lookup parts. Domestic registry numbers are all
// digits and report ok=false.
func SplitForeignID(id string) (jurisdiction, number string, ok bool) {
	if len(id) < 3 {
		return "", "", false
	}
	j := id[:2]
	for i := 0; i < 2; i++ {
		if j[i] < 'A' || j[i] > 'Z' {
			return "", "", false
		}
	}
	return strings.ToLower(j), id[2:], true
}

// Company looks up one company by jurisdiction code and company number.
func (c *ForeignRegistryClient) Company(ctx context.Context, jurisdiction, number string) (*ForeignCompany, error) {
	key := jurisdiction + ":" + number
	if v, ok := c.cache.Get(key); ok {
		return v.(*ForeignCompany), nil
	}

	u := fmt.Sprintf("%s/companies/%s/%s", c.BaseURL, jurisdiction, number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("foreign registry lookup %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("foreign registry lookup %s: unexpected status %s", key, resp.Status)
	}

	var body openCorporatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("foreign registry lookup %s: decode: %w", key, err)
	}
	company := body.Results.Company
	if company.Name == "" {
		return nil, fmt.Errorf("foreign registry lookup %s: empty result", key)
	}

	entity := &ForeignCompany{
		ID:        strings.ToUpper(jurisdiction) + number,
		Name:      company.Name,
		City:      company.RegisteredAddress.Locality,
		Country:   strings.ToUpper(jurisdiction),
		Status:    company.CurrentStatus,
		Insolvent: inactiveStatuses[company.CurrentStatus],
	}
	c.cache.SetDefault(key, entity)
	return entity, nil
}
