package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/conradoqg/cloudstatus/internal/logx"
)

const (
	acceptJSON = "application/json"
	acceptXML  = "application/rss+xml, application/xml, text/xml"

	// maxBodyBytes bounds how much of an upstream response is read.
	maxBodyBytes = 5 << 20
)

// ErrorKind classifies a FetchError.
type ErrorKind int

// Fetch failure kinds: the request failed, the body was not valid JSON, or it
// was valid JSON of the wrong shape.
const (
	KindTransport ErrorKind = iota + 1
	KindDecode
	KindSchema
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// ErrBodyTooLarge is wrapped when an upstream response exceeds maxBodyBytes.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// FetchError is returned for any failure fetching or decoding one provider.
type FetchError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchOptions configures the transport shared by all providers.
type FetchOptions struct {
	UserAgent   string
	JSONTimeout time.Duration
	XMLTimeout  time.Duration
}

// Fetcher issues single, timeout-bounded requests against provider endpoints.
// It is safe for concurrent use.
type Fetcher struct {
	opts    FetchOptions
	clients map[clientKey]*http.Client
	now     func() time.Time
}

type clientKey struct {
	xml      bool
	insecure bool
}

// NewFetcher applies default timeouts of 10s for JSON and 30s for RSS.
func NewFetcher(opts FetchOptions) *Fetcher {
	if opts.JSONTimeout <= 0 {
		opts.JSONTimeout = 10 * time.Second
	}
	if opts.XMLTimeout <= 0 {
		opts.XMLTimeout = 30 * time.Second
	}
	f := &Fetcher{opts: opts, clients: make(map[clientKey]*http.Client, 4), now: time.Now}
	for _, isXML := range []bool{false, true} {
		for _, insecure := range []bool{false, true} {
			f.clients[clientKey{isXML, insecure}] = NewHTTPClient(f.timeout(isXML), insecure)
		}
	}
	return f
}

func (f *Fetcher) timeout(xml bool) time.Duration {
	if xml {
		return f.opts.XMLTimeout
	}
	return f.opts.JSONTimeout
}

// Timeout returns the request timeout used for pc's transport.
func (f *Fetcher) Timeout(pc ProviderConfig) time.Duration { return f.timeout(pc.Format.IsXML()) }

// Get performs the raw request for pc and returns the response body.
func (f *Fetcher) Get(ctx context.Context, pc ProviderConfig) ([]byte, error) {
	isXML := pc.Format.IsXML()
	ctx, cancel := context.WithTimeout(ctx, f.timeout(isXML))
	defer cancel()

	logx.Debugf("fetch provider=%s url=%s", pc.ID, pc.APIURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pc.APIURL, nil)
	if err != nil {
		return nil, &FetchError{Provider: pc.ID, Kind: KindTransport, Err: err}
	}
	if isXML {
		req.Header.Set("Accept", acceptXML)
	} else {
		req.Header.Set("Accept", acceptJSON)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	res, err := f.clients[clientKey{isXML, pc.InsecureSkipVerify}].Do(req)
	if err != nil {
		return nil, &FetchError{Provider: pc.ID, Kind: KindTransport, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
		return nil, &FetchError{Provider: pc.ID, Kind: KindTransport, Err: fmt.Errorf("unexpected status: %s", res.Status)}
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{Provider: pc.ID, Kind: KindTransport, Err: err}
	}
	if len(body) > maxBodyBytes {
		return nil, &FetchError{Provider: pc.ID, Kind: KindTransport, Err: ErrBodyTooLarge}
	}
	return body, nil
}

// Fetch retrieves and normalizes the current status of pc.
func (f *Fetcher) Fetch(ctx context.Context, pc ProviderConfig) (Result, error) {
	body, err := f.Get(ctx, pc)
	if err != nil {
		return Result{}, err
	}
	res, err := Parse(pc.Format, body, f.now())
	if err != nil {
		kind := KindDecode
		if errors.Is(err, ErrSchema) {
			kind = KindSchema
		}
		return Result{}, &FetchError{Provider: pc.ID, Kind: kind, Err: err}
	}
	logx.Debugf("parsed provider=%s status=%s incidents=%d", pc.ID, res.Status, len(res.Incidents))
	return res, nil
}
