// Package loader implements pkg/loader.Loader over files, fs.FS entries and
// HTTP.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	pkgloader "github.com/NamazuStudios/elements-formgen/pkg/loader"
)

// Loader delegates to file, fs.FS or HTTP strategies by source kind.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	header    http.Header
}

var _ pkgloader.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgloader.LoaderOptions) pkgloader.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		header:    options.Header.Clone(),
	}
}

// Load fetches a document from src.
func (l *Loader) Load(ctx context.Context, src pkgloader.Source) (pkgloader.Document, error) {
	if src == nil {
		return pkgloader.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkgloader.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkgloader.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case pkgloader.SourceKindURL:
		if !l.allowHTTP {
			return pkgloader.Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout, l.header)
	default:
		err = errors.New("loader: unsupported source kind")
	}
	if err != nil {
		return pkgloader.Document{}, err
	}

	return pkgloader.NewDocument(src, data)
}
