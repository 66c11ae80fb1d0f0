package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Deep Sea Creatures</title>
  <script>console.log("tracking")</script>
  <style>body { color: red }</style>
</head>
<body>
  <nav>Home | About</nav>
  <h1>Deep Sea Creatures</h1>
  <p>Anglerfish live in darkness.</p>
  <p>Giant squid remain elusive.</p>
  <footer>Copyright 2026</footer>
</body>
</html>`

func newExtractor() *Extractor {
	return New("", zap.NewNop())
}

func TestExtractHTMLPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	page, err := newExtractor().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "Deep Sea Creatures", page.Title)
	require.Contains(t, page.Text, "Anglerfish live in darkness.")
	require.Contains(t, page.Text, "Giant squid remain elusive.")
	require.NotContains(t, page.Text, "tracking")
	require.NotContains(t, page.Text, "color: red")
	require.NotContains(t, page.Text, "Home | About")
	require.NotContains(t, page.Text, "Copyright 2026")
}

func TestExtractEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>   </body></html>"))
	}))
	defer server.Close()

	_, err := newExtractor().Extract(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestExtractPlainTextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("just plain text\n"))
	}))
	defer server.Close()

	page, err := newExtractor().Extract(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "just plain text", page.Text)
}

func TestExtractNotFound(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newExtractor().Extract(context.Background(), server.URL)
	require.Error(t, err)
	require.Equal(t, 1, hits, "client errors must not be retried")
}

func TestExtractRawText(t *testing.T) {
	page, err := newExtractor().Extract(context.Background(), "read this sentence out loud")
	require.NoError(t, err)
	require.Equal(t, "read this sentence out loud", page.Text)
}

func TestExtractPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("file contents here\n"), 0o644))

	page, err := newExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "notes.txt", page.Title)
	require.Equal(t, "file contents here", page.Text)
}

func TestExtractHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.html")
	require.NoError(t, os.WriteFile(path, []byte(articleHTML), 0o644))

	page, err := newExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "Deep Sea Creatures", page.Title)
	require.Contains(t, page.Text, "Anglerfish")
}

func TestExtractWhitespaceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("  \n\t "), 0o644))

	_, err := newExtractor().Extract(context.Background(), path)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestExtractUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>Fallback</title></head><body><p>Configured page.</p></body></html>"))
	}))
	defer server.Close()

	extractor := New(server.URL, zap.NewNop())
	page, err := extractor.Extract(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "Fallback", page.Title)
	require.Contains(t, page.Text, "Configured page.")
}
