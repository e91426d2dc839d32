// Package download implements the keyed-by-origin download engine: entries
// are grouped by (scheme, host), streamed with SHA-1/size verification and
// a three-attempt retry policy, and post-batch callbacks run only once
// every entry in the batch has succeeded.
package download

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
)

// Entry is a single file to fetch and verify.
type Entry struct {
	URL          string
	Path         string
	ExpectedSize int64
	ExpectedSHA1 string
	DisplayName  string
}

type originKey struct {
	Scheme string
	Host   string
}

// List groups entries by origin to enable per-origin connection reuse and
// sequential ordering, and holds post-batch callbacks that only run after a
// fully successful drain.
type List struct {
	byOrigin  map[originKey][]Entry
	origins   []originKey
	count     int
	totalSize int64
	callbacks []func() error
}

// NewList creates an empty download list.
func NewList() *List {
	return &List{byOrigin: make(map[originKey][]Entry)}
}

// Add enqueues an entry. The URL's scheme must be http or https.
func (l *List) Add(e Entry) error {
	u, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("parsing url %q: %w", e.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %q", u.Scheme, e.URL)
	}
	key := originKey{Scheme: u.Scheme, Host: u.Host}
	if _, seen := l.byOrigin[key]; !seen {
		l.origins = append(l.origins, key)
	}
	l.byOrigin[key] = append(l.byOrigin[key], e)
	l.count++
	l.totalSize += e.ExpectedSize
	return nil
}

// AddCallback registers a post-batch callback, run in registration order
// only if the whole batch succeeds.
func (l *List) AddCallback(fn func() error) {
	l.callbacks = append(l.callbacks, fn)
}

// Count returns the number of enqueued entries.
func (l *List) Count() int { return l.count }

// TotalSize returns the summed expected size of all enqueued entries.
func (l *List) TotalSize() int64 { return l.totalSize }

// Reset clears the list, including callbacks.
func (l *List) Reset() {
	l.byOrigin = make(map[originKey][]Entry)
	l.origins = nil
	l.count = 0
	l.totalSize = 0
	l.callbacks = nil
}

// FailKind categorizes why a download entry ultimately failed.
type FailKind string

const (
	ConnError   FailKind = "conn_error"
	NotFound    FailKind = "not_found"
	InvalidSize FailKind = "invalid_size"
	InvalidSha1 FailKind = "invalid_sha1"
)

// Error is raised at the end of a batch, and only then, when at least one
// entry failed after exhausting retries.
type Error struct {
	Fails map[string]FailKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d download(s) failed", len(e.Fails))
}

// EntryProgress reports streaming progress for one in-flight entry.
type EntryProgress struct {
	Name  string
	Size  int64
	Total int64
}

// Progress is delivered to an optional callback during Run.
type Progress struct {
	GlobalSize int64
	Entries    []EntryProgress
}

const bufferSize = 64 * 1024
const maxAttempts = 3

// Engine drains a List, grouping work by origin and bounding concurrency to
// one goroutine per distinct origin — preserving the spec's per-origin
// sequential ordering while allowing cross-origin concurrency, adapted from
// the teacher's worker-pool-shaped download.Manager.
type Engine struct {
	client *retryablehttp.Client
}

// NewEngine builds a download Engine. Retries are driven by this package's
// own per-entry attempt loop (so size/sha1 mismatches can be distinguished
// from connection failures), so the underlying retryablehttp client itself
// performs no automatic retries.
func NewEngine() *Engine {
	c := retryablehttp.NewClient()
	c.RetryMax = 0
	c.Logger = nil
	return &Engine{client: c}
}

// Run drains the list. progress, if non-nil, receives throttled updates;
// the caller is responsible for draining it promptly. On success, the list
// is reset and registered callbacks run in order. On failure, a *Error is
// returned and the list is left untouched for inspection.
func (eng *Engine) Run(ctx context.Context, l *List, progress chan<- Progress) error {
	var (
		mu         sync.Mutex
		globalSize int64
		fails      = make(map[string]FailKind)
		wg         sync.WaitGroup
	)

	origins := append([]originKey{}, l.origins...)
	sort.Slice(origins, func(i, j int) bool {
		if origins[i].Host != origins[j].Host {
			return origins[i].Host < origins[j].Host
		}
		return origins[i].Scheme < origins[j].Scheme
	})

	for _, key := range origins {
		entries := l.byOrigin[key]
		wg.Add(1)
		go func(entries []Entry) {
			defer wg.Done()
			for _, e := range entries {
				size, kind, err := eng.fetchWithRetry(ctx, e, &globalSize, &mu, progress)
				if err != nil {
					mu.Lock()
					fails[e.URL] = kind
					mu.Unlock()
					continue
				}
				_ = size
			}
		}(entries)
	}

	wg.Wait()

	if len(fails) > 0 {
		return &Error{Fails: fails}
	}

	for _, cb := range l.callbacks {
		if err := cb(); err != nil {
			return fmt.Errorf("running post-batch callback: %w", err)
		}
	}
	l.Reset()
	return nil
}

func (eng *Engine) fetchWithRetry(ctx context.Context, e Entry, globalSize *int64, mu *sync.Mutex, progress chan<- Progress) (int64, FailKind, error) {
	var lastKind FailKind
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		size, kind, err := eng.fetchOnce(ctx, e, globalSize, mu, progress)
		if err == nil {
			return size, "", nil
		}
		lastKind, lastErr = kind, err
	}
	return 0, lastKind, lastErr
}

func (eng *Engine) fetchOnce(ctx context.Context, e Entry, globalSize *int64, mu *sync.Mutex, progress chan<- Progress) (int64, FailKind, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return 0, ConnError, err
	}

	resp, err := eng.client.Do(req)
	if err != nil {
		return 0, ConnError, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, NotFound, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, e.URL)
	}

	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		return 0, ConnError, err
	}

	tmpPath := e.Path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, ConnError, err
	}

	hasher := sha1.New()
	writer := io.MultiWriter(f, hasher)
	buf := make([]byte, bufferSize)

	var written int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := writer.Write(buf[:n]); werr != nil {
				f.Close()
				os.Remove(tmpPath)
				return 0, ConnError, werr
			}
			written += int64(n)
			mu.Lock()
			*globalSize += int64(n)
			gs := *globalSize
			mu.Unlock()
			if progress != nil {
				select {
				case progress <- Progress{GlobalSize: gs, Entries: []EntryProgress{{Name: e.DisplayName, Size: written, Total: e.ExpectedSize}}}:
				default:
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			f.Close()
			os.Remove(tmpPath)
			return 0, ConnError, readErr
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, ConnError, err
	}

	if e.ExpectedSize > 0 && written != e.ExpectedSize {
		os.Remove(tmpPath)
		mu.Lock()
		*globalSize -= written
		mu.Unlock()
		return 0, InvalidSize, fmt.Errorf("size mismatch for %s: got %d want %d", e.Path, written, e.ExpectedSize)
	}

	if e.ExpectedSHA1 != "" {
		sum := hex.EncodeToString(hasher.Sum(nil))
		if sum != e.ExpectedSHA1 {
			os.Remove(tmpPath)
			mu.Lock()
			*globalSize -= written
			mu.Unlock()
			return 0, InvalidSha1, fmt.Errorf("sha1 mismatch for %s: got %s want %s", e.Path, sum, e.ExpectedSHA1)
		}
	}

	if err := os.Rename(tmpPath, e.Path); err != nil {
		os.Remove(tmpPath)
		return 0, ConnError, err
	}

	return written, "", nil
}

// FormatSpeed renders a bytes-per-second rate for progress messages.
func FormatSpeed(bytesPerSec float64) string {
	return humanize.Bytes(uint64(bytesPerSec)) + "/s"
}
