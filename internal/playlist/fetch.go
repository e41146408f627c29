package playlist

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/westy/filemaster/internal/constants"
	"github.com/westy/filemaster/internal/logging"
)

// retryLogger adapts the internal logger to the retryablehttp
// LeveledLogger interface, keeping retry chatter at debug level.
type retryLogger struct {
	log *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Interface("details", keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Interface("details", keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugf("%s %v", msg, keysAndValues)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugf("%s %v", msg, keysAndValues)
}

// Fetcher downloads stream entries of a playlist to local files with a
// retrying HTTP client.
type Fetcher struct {
	client *retryablehttp.Client
	log    *logging.Logger
}

// NewFetcher creates a Fetcher. logger may be nil.
func NewFetcher(logger *logging.Logger) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = constants.MaxRetries
	client.RetryWaitMin = constants.RetryInitialDelay
	client.RetryWaitMax = constants.RetryMaxDelay
	client.HTTPClient.Timeout = 5 * time.Minute
	if logger != nil {
		client.Logger = &retryLogger{log: logger}
	} else {
		client.Logger = nil
	}
	return &Fetcher{client: client, log: logger}
}

// FetchResult describes one download attempt.
type FetchResult struct {
	URL  string
	Dest string
	Err  error
}

// FetchStreams downloads every http(s) track of the playlist into
// destDir and returns one result per stream entry. Local entries are
// ignored. Existing destination files are not overwritten.
func (f *Fetcher) FetchStreams(ctx context.Context, pl *Playlist, destDir string) []FetchResult {
	var results []FetchResult

	if err := os.MkdirAll(destDir, 0755); err != nil {
		for _, track := range pl.Tracks {
			if IsStreamURL(track.Location) {
				results = append(results, FetchResult{URL: track.Location, Err: err})
			}
		}
		return results
	}

	for _, track := range pl.Tracks {
		if !IsStreamURL(track.Location) {
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, FetchResult{URL: track.Location, Err: err})
			continue
		}

		dest, err := f.fetchOne(ctx, track.Location, destDir)
		results = append(results, FetchResult{URL: track.Location, Dest: dest, Err: err})
	}
	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, rawURL, destDir string) (string, error) {
	name, err := filenameForURL(rawURL)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, name)
	if _, err := os.Stat(dest); err == nil {
		return dest, fmt.Errorf("destination exists: %s", name)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	_, err = out.ReadFrom(resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return "", err
	}

	if f.log != nil {
		f.log.Debugf("fetched %s -> %s", rawURL, dest)
	}
	return dest, nil
}

// filenameForURL derives a local filename from the URL path.
func filenameForURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive filename from %s", rawURL)
	}
	return name, nil
}
