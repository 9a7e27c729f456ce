// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	awsx "github.com/staranto/tudsgo/internal/aws"
	"github.com/staranto/tudsgo/internal/config"
)

// downloadS3 reads s3://bucket/key into destDir. Used when a dataset mirror
// lives in a bucket rather than behind a plain HTTP host. Region and profile
// come from the shell's AWS setup, with optional aws.region / aws.profile
// overrides in tuds.yaml.
func downloadS3(ctx context.Context, rawURL string, destDir string, o options) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url (%s): %w", rawURL, err)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", fmt.Errorf("invalid s3 url (%s): want s3://bucket/key", rawURL)
	}

	var awsOpts []awsx.Option
	if region, err := config.GetString("aws.region"); err == nil && region != "" {
		awsOpts = append(awsOpts, awsx.WithRegion(region))
	}
	if profile, err := config.GetString("aws.profile"); err == nil && profile != "" {
		awsOpts = append(awsOpts, awsx.WithProfile(profile))
	}

	cfg, err := awsx.LoadAWSConfig(ctx, awsOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc := awsx.NewS3(cfg)
	result, err := svc.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	total := int64(-1)
	if result.ContentLength != nil {
		total = *result.ContentLength
	}

	dest := filepath.Join(destDir, path.Base(key))
	written, err := writeBody(dest, result.Body, total, o)
	if err != nil {
		return "", err
	}

	log.Debugf("downloaded %s (%s)", rawURL, humanize.Bytes(uint64(written)))
	return dest, nil
}
