// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOptions verifies that each Option sets its field.
func TestOptions(t *testing.T) {
	var opts options
	for _, opt := range []Option{
		WithProfile("my-profile"),
		WithRegion("eu-west-1"),
		WithRetryer(func() awsv2.Retryer { return retry.NewStandard() }),
	} {
		opt(&opts)
	}

	assert.Equal(t, "my-profile", opts.profile)
	assert.Equal(t, "eu-west-1", opts.region)
	require.NotNil(t, opts.retryer)
	assert.NotNil(t, opts.retryer())
}

// TestLoadAWSConfig_WithRegion verifies that the region override reaches
// the loaded config. No network is needed.
func TestLoadAWSConfig_WithRegion(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(),
		WithRegion("us-west-2"),
		WithRetryer(func() awsv2.Retryer { return retry.NewStandard() }),
	)

	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
}

// TestNewS3_Endpoint verifies that ROSTERQ_S3_ENDPOINT switches the client to
// a custom endpoint with path style addressing.
func TestNewS3_Endpoint(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), WithRegion("us-east-1"))
	require.NoError(t, err)

	t.Setenv("ROSTERQ_S3_ENDPOINT", "http://localhost:9000")
	client := NewS3(cfg)
	require.NotNil(t, client)

	o := client.Options()
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)

	var applied s3v2.Options
	WithEndpoint("http://minio:9000")(&applied)
	assert.Equal(t, "http://minio:9000", *applied.BaseEndpoint)
}
