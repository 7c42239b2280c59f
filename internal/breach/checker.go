package breach

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status is the tri-state outcome of a breach lookup. Unknown means the
// remote check itself failed; it must never be treated as "not breached".
type Status int

const (
	StatusUnknown Status = iota
	StatusClear
	StatusBreached
)

// Result of one breach lookup.
type Result struct {
	Status Status
	// Count is the number of times the password appeared in breach corpora.
	// Meaningful only when Status is StatusBreached.
	Count int
	// Err is the underlying failure when Status is StatusUnknown. Kept for
	// server-side logging, never serialized to clients.
	Err error
}

// BreachedPtr serializes the tri-state as bool-or-null for API responses.
func (r Result) BreachedPtr() *bool {
	switch r.Status {
	case StatusBreached:
		v := true
		return &v
	case StatusClear:
		v := false
		return &v
	default:
		return nil
	}
}

const (
	defaultBaseURL = "https://api.pwnedpasswords.com"
	defaultTimeout = 5 * time.Second
	userAgent      = "password-health-tracker/1.0"
)

// Checker queries a k-anonymity breach index: only the first 5 hex chars of
// the password's SHA-1 ever leave the process.
type Checker struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *cache
}

// New builds a Checker from the environment (BREACH_API_URL, BREACH_API_KEY,
// BREACH_TIMEOUT). Defaults target the public pwnedpasswords range API.
// rdb may be nil; when present it backs a short-TTL result cache.
func New(rdb *redis.Client) *Checker {
	base := os.Getenv("BREACH_API_URL")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := defaultTimeout
	if s := os.Getenv("BREACH_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			timeout = d
		}
	}
	return &Checker{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  os.Getenv("BREACH_API_KEY"),
		client:  &http.Client{Timeout: timeout},
		cache:   newCache(rdb),
	}
}

// NewWithClient is used by tests and callers that manage their own transport.
func NewWithClient(baseURL, apiKey string, client *http.Client) *Checker {
	return &Checker{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

// Check performs one range query. Failures degrade to StatusUnknown; the
// request is bounded by the client timeout and the caller's ctx, whichever
// fires first. No retries: breach checking is best-effort and must not delay
// the primary analysis response.
func (c *Checker) Check(ctx context.Context, password string) Result {
	sum := sha1.Sum([]byte(password))
	full := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := full[:5], full[5:]

	if cached, ok := c.cache.get(ctx, full); ok {
		return cached
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return unknown(err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("hibp-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return unknown(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unknown(fmt.Errorf("breach index returned status %d", resp.StatusCode))
	}

	res := scanRange(resp.Body, suffix)
	c.cache.put(ctx, full, res)
	return res
}

// scanRange scans newline-delimited "SUFFIX:COUNT" lines for an exact
// 35-char suffix match. A full response with no match is a definitive clear.
func scanRange(body io.Reader, suffix string) Result {
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		rest, ok := strings.CutPrefix(line, suffix)
		if !ok || !strings.HasPrefix(rest, ":") {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(rest[1:]))
		if err != nil {
			return unknown(fmt.Errorf("malformed count in range response: %w", err))
		}
		return Result{Status: StatusBreached, Count: count}
	}
	if err := sc.Err(); err != nil {
		return unknown(err)
	}
	return Result{Status: StatusClear}
}

func unknown(err error) Result {
	log.Printf("[Breach] check failed: %v (degrading to unknown)", err)
	return Result{Status: StatusUnknown, Err: err}
}
