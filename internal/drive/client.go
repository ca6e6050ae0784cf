package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2/jwt"
)

const (
	defaultBaseURL  = "https://www.googleapis.com/drive/v3"
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	scopeReadonly   = "https://www.googleapis.com/auth/drive.readonly"

	// listTTL is how long a folder listing stays fresh. Ride files only
	// appear when someone uploads one, so hammering files.list on every
	// screen change buys nothing.
	listTTL = 5 * time.Minute

	listPageSize = 1000
)

// File is one entry of a Drive folder listing.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client is a read-only Google Drive API client authenticated as a
// service account.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu          sync.Mutex
	listFolder  string
	listFiles   []File
	listFetched time.Time
}

// NewClient creates a Drive client from service-account credentials.
func NewClient(creds *Credentials) *Client {
	tokenURL := creds.TokenURI
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	cfg := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{scopeReadonly},
		TokenURL:   tokenURL,
	}

	return &Client{
		httpClient: cfg.Client(context.Background()),
		baseURL:    defaultBaseURL,
	}
}

// ListFITFiles lists the .fit files in a Drive folder.
// Listings are cached for listTTL; concurrent callers share one fetch
// result. Switching folders bypasses the cache.
func (c *Client) ListFITFiles(ctx context.Context, folderID string) ([]File, error) {
	c.mu.Lock()
	if c.listFolder == folderID && time.Since(c.listFetched) < listTTL {
		files := c.listFiles
		c.mu.Unlock()
		return files, nil
	}
	c.mu.Unlock()

	files, err := c.fetchListing(ctx, folderID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.listFolder = folderID
	c.listFiles = files
	c.listFetched = time.Now()
	c.mu.Unlock()

	return files, nil
}

func (c *Client) fetchListing(ctx context.Context, folderID string) ([]File, error) {
	var files []File
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("q", fmt.Sprintf("'%s' in parents and name contains '.fit'", folderID))
		params.Set("fields", "nextPageToken, files(id, name)")
		params.Set("pageSize", fmt.Sprintf("%d", listPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		resp, err := c.get(ctx, "/files", params)
		if err != nil {
			return nil, err
		}

		var page struct {
			NextPageToken string `json:"nextPageToken"`
			Files         []File `json:"files"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding file listing: %w", err)
		}

		files = append(files, page.Files...)

		if page.NextPageToken == "" {
			return files, nil
		}
		pageToken = page.NextPageToken
	}
}

// Download fetches the raw bytes of a Drive file.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	params := url.Values{}
	params.Set("alt", "media")

	resp, err := c.get(ctx, "/files/"+url.PathEscape(fileID), params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", fileID, err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
