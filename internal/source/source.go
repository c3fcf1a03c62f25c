// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/rosterq/rosterq/internal/aws"
	"github.com/rosterq/rosterq/internal/cacheutil"
	"github.com/rosterq/rosterq/internal/fixture"
	"github.com/rosterq/rosterq/internal/log"
)

// Record is one decoded employee.
type Record = map[string]interface{}

// DefaultKey is the envelope key holding the record array.
const DefaultKey = "employees"

// Options tune how remote sources are fetched.
type Options struct {
	// CacheTTL is how long fetched documents are reused. Zero disables the
	// cache.
	CacheTTL time.Duration

	// HTTP is the client for http(s) sources. Nil builds a retrying client.
	HTTP *retryablehttp.Client

	// S3 serves s3:// sources. Nil loads the default AWS config.
	S3 aws.ObjectAPI

	// Stdin is read for the "-" source. Nil means os.Stdin.
	Stdin io.Reader
}

// Load reads the records named by spec:
//
//	""  fixture  fixture:N  fixture:N:SEED   generated records
//	-                                         stdin
//	http://...  https://...                   GET with retries
//	s3://bucket/key                           S3 object
//	anything else                             local file
func Load(ctx context.Context, spec string, opts Options) ([]Record, error) {
	spec = strings.TrimSpace(spec)

	switch {
	case spec == "" || spec == "fixture" || strings.HasPrefix(spec, "fixture:"):
		n, seed, err := parseFixtureSpec(spec)
		if err != nil {
			return nil, err
		}
		log.Debugf("generating %d fixture records, seed %d", n, seed)
		return fixture.Employees(n, seed), nil

	case spec == "-":
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return Parse(data)

	case strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://"):
		data, err := cached(opts, "http", spec, func() ([]byte, error) {
			return fetchHTTP(ctx, opts.HTTP, spec)
		})
		if err != nil {
			return nil, err
		}
		return Parse(data)

	case aws.IsS3URL(spec):
		loc, err := aws.ParseS3URL(spec)
		if err != nil {
			return nil, err
		}
		data, err := cached(opts, "s3", spec, func() ([]byte, error) {
			api := opts.S3
			if api == nil {
				cfg, err := aws.LoadAWSConfig(ctx)
				if err != nil {
					return nil, fmt.Errorf("loading aws config: %w", err)
				}
				api = aws.NewS3(cfg)
			}
			return aws.GetObject(ctx, api, loc)
		})
		if err != nil {
			return nil, err
		}
		return Parse(data)

	default:
		data, err := os.ReadFile(spec)
		if err != nil {
			return nil, err
		}
		return Parse(data)
	}
}

// LoadWithFallback is Load, except that a failure yields the default fixture
// records along with the error so the caller can report it and carry on.
func LoadWithFallback(ctx context.Context, spec string, opts Options) ([]Record, error) {
	records, err := Load(ctx, spec, opts)
	if err == nil {
		return records, nil
	}
	log.WithError(err).Warnf("loading %s, falling back to fixture records", spec)
	return fixture.Employees(fixture.DefaultCount, fixture.DefaultSeed), err
}

// Parse extracts records from a JSON document. Array elements that are not
// objects are skipped.
func Parse(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("source is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get(DefaultKey)
		if !list.Exists() {
			return nil, fmt.Errorf("source object has no %q key", DefaultKey)
		}
	}
	if !list.IsArray() {
		return nil, errors.New("source holds no record array")
	}

	items := list.Array()
	records := make([]Record, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			log.Warnf("skipping record %d: not an object", i)
			continue
		}
		if m, ok := item.Value().(map[string]interface{}); ok {
			records = append(records, m)
		}
	}
	return records, nil
}

func parseFixtureSpec(spec string) (int, uint64, error) {
	n, seed := fixture.DefaultCount, fixture.DefaultSeed
	parts := strings.Split(spec, ":")
	if len(parts) > 1 && parts[1] != "" {
		v, err := strconv.Atoi(parts[1])
		if err != nil || v < 0 {
			return 0, 0, fmt.Errorf("invalid fixture count %q", parts[1])
		}
		n = v
	}
	if len(parts) > 2 && parts[2] != "" {
		v, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid fixture seed %q", parts[2])
		}
		seed = v
	}
	return n, seed, nil
}

// cached runs fetch through the on-disk cache when a TTL is set.
func cached(opts Options, kind, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if opts.CacheTTL <= 0 {
		return fetch()
	}
	return cacheutil.Fetch([]string{kind}, key, opts.CacheTTL, fetch)
}

// NewHTTPClient returns a retrying client that logs through the application
// logger.
func NewHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = leveledLogger{}
	return client
}

func fetchHTTP(ctx context.Context, client *retryablehttp.Client, url string) ([]byte, error) {
	if client == nil {
		client = NewHTTPClient()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}
