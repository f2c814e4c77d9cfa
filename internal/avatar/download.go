package avatar

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultTimeout bounds each individual GET request.
const DefaultTimeout = 15 * time.Second

// Failure records why one URL could not be downloaded.
type Failure struct {
	URL    string
	Reason string
}

// Summary is the outcome of one download batch. Found always equals
// Succeeded plus Failed.
type Summary struct {
	RunID     string
	Found     int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Render formats the batch outcome for display, capping failure details at
// limit entries.
func (s Summary) Render(limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Avatar download finished.\n")
	fmt.Fprintf(&b, "Total URLs found: %d\n", s.Found)
	fmt.Fprintf(&b, "Downloaded: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "Failed: %d", s.Failed)
	if len(s.Failures) > 0 {
		shown := s.Failures
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		for _, f := range shown {
			fmt.Fprintf(&b, "\n  %s: %s", f.URL, f.Reason)
		}
		if len(s.Failures) > len(shown) {
			b.WriteString("\n  ...")
		}
	}
	return b.String()
}

// Downloader fetches a batch of URLs into a destination directory,
// sequentially and without retries. Derived filenames never collide with
// existing files; a numeric suffix is appended instead of overwriting.
type Downloader struct {
	client   *http.Client
	destDir  string
	progress func(done, total int)
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(dl *Downloader) { dl.client.Timeout = d }
}

// WithProgress installs a callback invoked after every URL, successful or
// not. The downloader itself stays single-threaded; a UI wanting a live
// progress bar runs the batch on its own goroutine.
func WithProgress(fn func(done, total int)) Option {
	return func(dl *Downloader) { dl.progress = fn }
}

// NewDownloader creates a downloader writing into destDir.
func NewDownloader(destDir string, opts ...Option) *Downloader {
	dl := &Downloader{
		client:  &http.Client{Timeout: DefaultTimeout},
		destDir: destDir,
	}
	for _, opt := range opts {
		opt(dl)
	}
	return dl
}

// Run downloads every URL in the batch. Individual failures are recorded in
// the summary, never returned as an error; the batch always attempts every
// URL.
func (d *Downloader) Run(ctx context.Context, urls []string) Summary {
	summary := Summary{
		RunID: uuid.NewString(),
		Found: len(urls),
	}
	log := slog.With("run_id", summary.RunID, "dest", d.destDir)

	for i, rawURL := range urls {
		if err := d.fetch(ctx, rawURL); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{URL: rawURL, Reason: err.Error()})
			log.Warn("download failed", "url", rawURL, "reason", err.Error())
		} else {
			summary.Succeeded++
		}
		if d.progress != nil {
			d.progress(i+1, len(urls))
		}
	}

	log.Info("batch complete", "found", summary.Found,
		"succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary
}

func (d *Downloader) fetch(ctx context.Context, rawURL string) error {
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return errors.New("not a web URL")
	}

	destPath, err := d.resolvePath(rawURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "request error")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return classifyRequestError(err, d.client.Timeout)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("HTTP error: %s", resp.Status)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return errors.Wrap(err, "file write error")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(destPath)
		return errors.Wrap(err, "file write error")
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return errors.Wrap(err, "file write error")
	}
	return nil
}

func classifyRequestError(err error, timeout time.Duration) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Errorf("timeout after %s", timeout)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Wrap(err, "connection error")
	}
	return errors.Wrap(err, "request error")
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// resolvePath derives a collision-free local path for a URL. The basename
// comes from the URL path, then from a filename-shaped query value, then
// from a digest of the URL text. Missing extensions are inferred from the
// URL, defaulting to .png.
func (d *Downloader) resolvePath(rawURL string) (string, error) {
	name := remoteFilename(rawURL)

	destPath := filepath.Join(d.destDir, name)
	ext := filepath.Ext(destPath)
	base := strings.TrimSuffix(destPath, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(destPath); os.IsNotExist(err) {
			return destPath, nil
		} else if err != nil {
			return "", errors.Wrap(err, "file write error")
		}
		destPath = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}

func remoteFilename(rawURL string) string {
	var name string
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
		if name == "/" || name == "." {
			name = ""
		}
		if name == "" || path.Ext(name) == "" {
			if q := queryBasename(u.RawQuery); q != "" {
				name = q
			}
		}
	}

	name = unsafeFileChars.ReplaceAllString(name, "_")
	if !hasRealName(name) {
		sum := md5.Sum([]byte(rawURL))
		name = fmt.Sprintf("hashed_image_%x", sum[:4])
	}
	if strings.HasPrefix(name, ".") {
		name = "_" + name[1:]
	}

	if path.Ext(name) == "" {
		name += inferExt(rawURL)
	}
	return name
}

// hasRealName rejects names that are empty or made of nothing but
// underscores and dots.
func hasRealName(name string) bool {
	return strings.Trim(name, "_.") != ""
}

// queryBasename looks for a filename-shaped value among the query
// parameters, in declaration order so the choice is deterministic.
func queryBasename(rawQuery string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		_, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		if unescaped, err := url.QueryUnescape(value); err == nil {
			value = unescaped
		}
		base := path.Base(value)
		ext := path.Ext(base)
		if imageExts[strings.ToLower(ext)] && base != ext {
			return base
		}
	}
	return ""
}

func inferExt(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, ".png"):
		return ".png"
	case strings.Contains(lower, ".jpg"), strings.Contains(lower, ".jpeg"):
		return ".jpg"
	case strings.Contains(lower, ".gif"):
		return ".gif"
	default:
		return ".png"
	}
}
