// Package extract turns a reading target — a URL, a file path, raw text,
// or whatever sits on the clipboard — into clean readable text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/atotto/clipboard"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrNoContent indicates the target yielded nothing speakable.
var ErrNoContent = errors.New("page has no readable content")

const (
	maxBodyBytes  = 2 << 20 // 2 MB cap on fetched pages
	fetchRetries  = 2
	clientTimeout = 30 * time.Second
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Page holds the readable text extracted from a target.
type Page struct {
	Title string
	Text  string
}

// Extractor resolves reading targets and produces page text.
type Extractor struct {
	mu       sync.Mutex
	fallback string
	client   *http.Client
	logger   *zap.Logger
}

// New creates an extractor. fallbackURL is used when no target is given.
func New(fallbackURL string, logger *zap.Logger) *Extractor {
	return &Extractor{
		fallback: fallbackURL,
		client: &http.Client{
			Timeout: clientTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		logger: logger,
	}
}

// SetFallback replaces the configured fallback target.
func (e *Extractor) SetFallback(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fallback = url
}

// Extract resolves the target and returns its readable text. An empty
// target falls back to the configured page URL, then to the clipboard.
func (e *Extractor) Extract(ctx context.Context, target string) (Page, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		e.mu.Lock()
		target = strings.TrimSpace(e.fallback)
		e.mu.Unlock()
	}
	if target == "" {
		clip, err := clipboard.ReadAll()
		if err != nil {
			return Page{}, fmt.Errorf("read clipboard: %w", err)
		}
		target = strings.TrimSpace(clip)
	}
	if target == "" {
		return Page{}, ErrNoContent
	}

	switch {
	case isURL(target):
		return e.fetch(ctx, target)
	case isFile(target):
		return fromFile(target)
	default:
		// raw text pasted or passed on the command line
		return Page{Text: target}, nil
	}
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) (Page, error) {
	var page Page
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("invalid URL %q: %w", rawURL, err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := e.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
			page = Page{Text: strings.TrimSpace(string(body))}
			return nil
		}

		page, err = fromHTML(bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return Page{}, err
	}
	if strings.TrimSpace(page.Text) == "" {
		return Page{}, ErrNoContent
	}
	e.logger.Debug("page extracted",
		zap.String("url", rawURL),
		zap.String("title", page.Title),
		zap.Int("bytes", len(page.Text)))
	return page, nil
}

func fromFile(path string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		page, err := fromHTML(bytes.NewReader(data))
		if err != nil {
			return Page{}, err
		}
		if strings.TrimSpace(page.Text) == "" {
			return Page{}, ErrNoContent
		}
		return page, nil
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return Page{}, ErrNoContent
	}
	return Page{Title: filepath.Base(path), Text: text}, nil
}

func fromHTML(r io.Reader) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	// Remove noise elements before extraction.
	doc.Find("script, style, noscript, nav, footer, aside, header, form, iframe").Remove()

	var sb strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, figcaption, pre").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	})

	text := strings.TrimSpace(sb.String())
	if text == "" {
		// pages without semantic blocks still get a flat body read
		text = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	}

	return Page{Title: title, Text: strings.TrimSpace(text)}, nil
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func isFile(target string) bool {
	info, err := os.Stat(target)
	return err == nil && !info.IsDir()
}
