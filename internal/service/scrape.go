package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrScrapeFailed means the scrape service reported failure or returned no
// content. The scraped text is required input, so callers must abort.
var ErrScrapeFailed = errors.New("content scrape failed")

// ScrapeService resolves page content through an external scraping API and
// preview images through a direct markup fetch.
type ScrapeService struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewScrapeService creates a new ScrapeService instance
func NewScrapeService() (*ScrapeService, error) {
	apiKey := os.Getenv("FIRECRAWL_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("FIRECRAWL_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("FIRECRAWL_API_KEY or FIRECRAWL_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("FIRECRAWL_API_URL")
	if apiURL == "" {
		apiURL = "https://api.firecrawl.dev/v1/scrape"
	}

	return &ScrapeService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Scrape fetches a markdown rendering of the page's primary content.
// It fails loudly when the service reports failure or returns nothing.
func (s *ScrapeService) Scrape(ctx context.Context, pageURL string) (string, error) {
	payload := map[string]interface{}{
		"url":     pageURL,
		"formats": []string{"markdown"},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrScrapeFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ScrapeService] scrape request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%w: status %d", ErrScrapeFailed, resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Markdown string `json:"markdown"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrScrapeFailed, err)
	}

	if !result.Success || strings.TrimSpace(result.Data.Markdown) == "" {
		return "", fmt.Errorf("%w: no content returned for %s", ErrScrapeFailed, pageURL)
	}

	return result.Data.Markdown, nil
}

// PreviewImage fetches the page markup and extracts the first social
// preview image reference. Best effort: any fetch or parse failure
// resolves to nil, never an error. Both attribute orderings on the meta
// tag are recognized.
func (s *ScrapeService) PreviewImage(ctx context.Context, pageURL string) *string {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[ScrapeService] preview image fetch failed for %s: %v", pageURL, err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("[ScrapeService] preview image parse failed for %s: %v", pageURL, err)
		return nil
	}

	for _, selector := range []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:secure_url"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return &trimmed
			}
		}
	}

	return nil
}
