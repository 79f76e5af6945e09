package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBatchSize bounds how many accessions one API request carries.
const DefaultBatchSize = 100

const inactiveEntryType = "Inactive"

// Client resolves historical UniProt accessions via the UniProt REST API.
type Client struct {
	baseURL     string
	contactInfo string
	batchSize   int
	httpClient  *http.Client
}

var _ Resolver = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBatchSize overrides the per-request accession count.
func WithBatchSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.batchSize = size
		}
	}
}

// New creates a UniProt resolver client. contactInfo identifies the caller in
// the User-Agent header, per UniProt API guidance.
func New(baseURL, contactInfo string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("resolver base url required")
	}
	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		contactInfo: strings.TrimSpace(contactInfo),
		batchSize:   DefaultBatchSize,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// accessionEntry models the subset of a UniProt entry the resolver reads.
type accessionEntry struct {
	PrimaryAccession    string   `json:"primaryAccession"`
	EntryType           string   `json:"entryType"`
	SecondaryAccessions []string `json:"secondaryAccessions"`
	InactiveReason      *struct {
		InactiveReasonType string   `json:"inactiveReasonType"`
		MergeDemergeTo     []string `json:"mergeDemergeTo"`
	} `json:"inactiveReason"`
}

type accessionsResponse struct {
	Results []accessionEntry `json:"results"`
}

// ResolveBatch resolves identifiers in sequential chunks. Every requested
// identifier gets an entry in the result; identifiers in a failed chunk carry
// an error:* status instead of aborting the remaining chunks.
func (c *Client) ResolveBatch(ctx context.Context, ids []string) (map[string]Resolution, error) {
	resolved := make(map[string]Resolution, len(ids))
	for start := 0; start < len(ids); start += c.batchSize {
		end := start + c.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		entries, err := c.fetchChunk(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return resolved, ctx.Err()
			}
			reason := StatusErrorPrefix + err.Error()
			for _, id := range chunk {
				resolved[id] = Resolution{Status: reason}
			}
			continue
		}
		assignResolutions(resolved, chunk, entries)
	}
	return resolved, nil
}

func (c *Client) fetchChunk(ctx context.Context, chunk []string) ([]accessionEntry, error) {
	endpoint, err := url.Parse(c.baseURL + "/uniprotkb/accessions")
	if err != nil {
		return nil, fmt.Errorf("build resolver url: %w", err)
	}
	query := endpoint.Query()
	query.Set("accessions", strings.Join(chunk, ","))
	query.Set("fields", "accession")
	query.Set("format", "json")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build resolver request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.contactInfo != "" {
		req.Header.Set("User-Agent", "biobridge ("+c.contactInfo+")")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolver request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("resolver returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload accessionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode resolver response: %w", err)
	}
	return payload.Results, nil
}

// assignResolutions maps API entries back onto the queried identifiers. An
// identifier absent from the response is considered obsolete.
func assignResolutions(resolved map[string]Resolution, chunk []string, entries []accessionEntry) {
	byPrimary := make(map[string]accessionEntry, len(entries))
	bySecondary := make(map[string]accessionEntry)
	for _, entry := range entries {
		byPrimary[entry.PrimaryAccession] = entry
		for _, secondary := range entry.SecondaryAccessions {
			bySecondary[secondary] = entry
		}
	}

	for _, id := range chunk {
		if entry, ok := byPrimary[id]; ok {
			resolved[id] = resolveEntry(id, entry, false)
			continue
		}
		if entry, ok := bySecondary[id]; ok {
			resolved[id] = resolveEntry(id, entry, true)
			continue
		}
		resolved[id] = Resolution{Status: StatusObsolete}
	}
}

func resolveEntry(id string, entry accessionEntry, viaSecondary bool) Resolution {
	if entry.EntryType != inactiveEntryType {
		if viaSecondary {
			return Resolution{
				PrimaryIDs: []string{entry.PrimaryAccession},
				Status:     StatusSecondaryPrefix + entry.PrimaryAccession,
			}
		}
		return Resolution{PrimaryIDs: []string{entry.PrimaryAccession}, Status: StatusPrimary}
	}

	if entry.InactiveReason == nil {
		return Resolution{Status: StatusObsolete}
	}
	targets := append([]string(nil), entry.InactiveReason.MergeDemergeTo...)
	switch strings.ToUpper(entry.InactiveReason.InactiveReasonType) {
	case "MERGED":
		if len(targets) == 0 {
			return Resolution{Status: StatusObsolete}
		}
		return Resolution{PrimaryIDs: targets, Status: StatusReplaced}
	case "DEMERGED":
		if len(targets) == 0 {
			return Resolution{Status: StatusObsolete}
		}
		return Resolution{PrimaryIDs: targets, Status: StatusDemerged}
	case "DELETED":
		return Resolution{Status: StatusObsolete}
	default:
		if len(targets) > 0 {
			return Resolution{PrimaryIDs: targets, Status: StatusSuperseded}
		}
		return Resolution{Status: StatusObsolete}
	}
}
