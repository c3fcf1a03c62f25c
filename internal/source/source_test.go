// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterq/rosterq/internal/fixture"
)

const doc = `{"employees":[
  {"id":1,"name":"Ada","department":"Engineering","salary":120000},
  {"id":2,"name":"Bob","department":"Sales","salary":80000}
]}`

type fakeS3 struct {
	objects map[string][]byte
	gets    int
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.gets++
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(context.Context, *s3v2.PutObjectInput, ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	return nil, errors.New("read only")
}

func quickClient() *retryablehttp.Client {
	client := NewHTTPClient()
	client.RetryWaitMin = time.Millisecond
	client.RetryWaitMax = 5 * time.Millisecond
	return client
}

func TestParse(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		records, err := Parse([]byte(doc))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Ada", records[0]["name"])
		assert.Equal(t, float64(120000), records[0]["salary"])
	})

	t.Run("bare array skips non-objects", func(t *testing.T) {
		records, err := Parse([]byte(`[{"id":1}, 7, "x", {"id":2}]`))
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	for name, input := range map[string]string{
		"invalid json": `{"employees":[`,
		"missing key":  `{"people":[]}`,
		"not an array": `{"employees":{"id":1}}`,
		"scalar":       `42`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixture(t *testing.T) {
	ctx := context.Background()

	records, err := Load(ctx, "", Options{})
	require.NoError(t, err)
	assert.Len(t, records, fixture.DefaultCount)

	records, err = Load(ctx, "fixture:7", Options{})
	require.NoError(t, err)
	assert.Len(t, records, 7)

	a, err := Load(ctx, "fixture:5:99", Options{})
	require.NoError(t, err)
	b, err := Load(ctx, "fixture:5:99", Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = Load(ctx, "fixture:many", Options{})
	assert.Error(t, err)
	_, err = Load(ctx, "fixture:3:-1", Options{})
	assert.Error(t, err)
}

func TestLoadStdinAndFile(t *testing.T) {
	ctx := context.Background()

	records, err := Load(ctx, "-", Options{Stdin: strings.NewReader(doc)})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	path := filepath.Join(t.TempDir(), "people.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	records, err = Load(ctx, path, Options{})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = Load(ctx, filepath.Join(t.TempDir(), "missing.json"), Options{})
	assert.Error(t, err)
}

func TestLoadHTTPRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	records, err := Load(context.Background(), srv.URL, Options{HTTP: quickClient()})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoadHTTPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL, Options{HTTP: quickClient()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadHTTPCached(t *testing.T) {
	t.Setenv("ROSTERQ_CACHE_DIR", t.TempDir())
	t.Setenv("ROSTERQ_CACHE", "")

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	opts := Options{HTTP: quickClient(), CacheTTL: time.Hour}
	for range 3 {
		records, err := Load(context.Background(), srv.URL, opts)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadS3(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{"hr/people.json": []byte(doc)}}

	records, err := Load(context.Background(), "s3://hr/people.json", Options{S3: api})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, api.gets)

	_, err = Load(context.Background(), "s3://hr/other.json", Options{S3: api})
	assert.Error(t, err)
}

func TestLoadWithFallback(t *testing.T) {
	records, err := LoadWithFallback(context.Background(), filepath.Join(t.TempDir(), "nope.json"), Options{})
	assert.Error(t, err)
	assert.Len(t, records, fixture.DefaultCount)

	records, err = LoadWithFallback(context.Background(), "fixture:3", Options{})
	assert.NoError(t, err)
	assert.Len(t, records, 3)
}
