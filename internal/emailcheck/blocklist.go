package emailcheck

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

// falsePositiveRate trades a small chance of wrongly rejecting a legitimate
// domain for a compact in-memory filter.
const falsePositiveRate = 0.001

// Blocklist rejects signups from known disposable-email domains.
// Domains are loaded once at startup into a bloom filter; an unloaded
// blocklist blocks nothing.
type Blocklist struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	count  int
}

// NewBlocklist creates an empty blocklist.
func NewBlocklist() *Blocklist {
	return &Blocklist{}
}

// LoadFromURL downloads a domain-per-line blocklist file and builds the
// filter. Files ending in .gz are decompressed transparently.
func (b *Blocklist) LoadFromURL(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download blocklist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if strings.HasSuffix(url, ".gz") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		body = gzReader
	}

	return b.LoadFromReader(body)
}

// LoadFromReader builds the filter from a domain-per-line reader, replacing
// any previously loaded set.
func (b *Blocklist) LoadFromReader(r io.Reader) error {
	var domains []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading blocklist: %w", err)
	}

	if len(domains) == 0 {
		return fmt.Errorf("blocklist is empty")
	}

	filter := bloom.NewWithEstimates(uint(len(domains)), falsePositiveRate)
	for _, d := range domains {
		filter.AddString(d)
	}

	b.mu.Lock()
	b.filter = filter
	b.count = len(domains)
	b.mu.Unlock()

	return nil
}

// IsBlocked reports whether the email's domain appears on the blocklist.
// Addresses without a domain part are not the blocklist's concern and pass.
func (b *Blocklist) IsBlocked(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.filter == nil {
		return false
	}
	return b.filter.TestString(domain)
}

// Size returns the number of domains loaded.
func (b *Blocklist) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
