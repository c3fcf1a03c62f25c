// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rosterq/rosterq/internal/log"
)

// ObjectAPI is the part of the S3 client used here.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// Location is a parsed s3://bucket/key address.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// IsS3URL reports whether s has the s3:// scheme.
func IsS3URL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "s3://")
}

// ParseS3URL splits s3://bucket/key. Both parts are required.
func ParseS3URL(s string) (Location, error) {
	if !IsS3URL(s) {
		return Location{}, fmt.Errorf("not an s3 url: %s", s)
	}
	bucket, key, _ := strings.Cut(s[len("s3://"):], "/")
	if bucket == "" || key == "" {
		return Location{}, fmt.Errorf("s3 url needs a bucket and a key: %s", s)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// GetObject downloads the object at loc.
func GetObject(ctx context.Context, api ObjectAPI, loc Location) ([]byte, error) {
	out, err := api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(loc.Bucket),
		Key:    awsv2.String(loc.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", loc, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc, err)
	}
	log.Debugf("s3 get: %s bytes=%d", loc, len(data))
	return data, nil
}

// PutObject uploads data to loc.
func PutObject(ctx context.Context, api ObjectAPI, loc Location, data []byte, contentType string) error {
	_, err := api.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(loc.Bucket),
		Key:         awsv2.String(loc.Key),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("putting %s: %w", loc, err)
	}
	log.Debugf("s3 put: %s bytes=%d", loc, len(data))
	return nil
}
