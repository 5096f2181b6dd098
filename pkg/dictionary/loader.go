package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// maxPayloadSize bounds how much of a fetched or read payload is accepted.
// Larger payloads are rejected rather than truncated.
var maxPayloadSize int64 = 256 << 20

// Loader retrieves a dictionary payload from a locator, decodes it and
// builds the Dictionary.
type Loader struct {
	Encoding Encoding
	Client   *http.Client
}

// NewLoader returns a Loader with a default HTTP client.
func NewLoader(enc Encoding) *Loader {
	return &Loader{
		Encoding: enc,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Load reads the payload named by locator (a file path or an http(s) URL)
// and builds a Dictionary from it.
func (l *Loader) Load(ctx context.Context, locator string) (*Dictionary, error) {
	if locator == "" {
		return nil, fmt.Errorf("dictionary: empty locator")
	}
	start := time.Now()

	var payload []byte
	var err error
	if isURL(locator) {
		payload, err = l.fetch(ctx, locator)
	} else {
		payload, err = readFile(locator)
	}
	if err != nil {
		return nil, err
	}

	d, err := l.LoadBytes(payload)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded dictionary from %s: %d readings in %v", locator, d.Len(), time.Since(start))
	return d, nil
}

// LoadBytes decodes payload with the Loader's encoding and builds it.
func (l *Loader) LoadBytes(payload []byte) (*Dictionary, error) {
	text, err := Decode(payload, l.Encoding)
	if err != nil {
		return nil, err
	}
	return Build(text)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dictionary: building request for %s: %w", url, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		head, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, newFormatError(StageFetch, fmt.Sprintf("%s -> %s", url, resp.Status), head)
	}
	return readLimited(resp.Body, url)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: opening %s: %w", path, err)
	}
	defer f.Close()

	return readLimited(f, path)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r, maxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("dictionary: reading %s: %w", name, err)
	}
	if int64(len(payload)) > maxPayloadSize {
		return nil, newFormatError(StageFetch, fmt.Sprintf("%s exceeds %d bytes", name, maxPayloadSize), payload)
	}
	return payload, nil
}

func isURL(locator string) bool {
	lower := strings.ToLower(locator)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
