package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/westy/filemaster/internal/config"
	"github.com/westy/filemaster/internal/util/buffers"
)

// S3Backend talks to AWS S3 or any S3-compatible store (MinIO, Ceph).
type S3Backend struct {
	client *s3.Client
	bucket string
}

// NewS3Backend builds a backend from a profile with static credentials.
// A custom endpoint switches the client to path-style addressing, which
// MinIO and most compatible services require.
func NewS3Backend(ctx context.Context, profile *config.Profile) (*S3Backend, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			profile.AccessKey,
			profile.SecretKey,
			"",
		)),
		awsconfig.WithRegion(profile.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := profile.EndpointURL(); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Backend{client: client, bucket: profile.Bucket}, nil
}

// List returns one listing level under prefix, with common prefixes as
// directories.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]Object, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", b.bucket, prefix, err)
		}

		for _, cp := range page.CommonPrefixes {
			key := strings.TrimSuffix(aws.ToString(cp.Prefix), "/")
			if key != "" {
				objects = append(objects, Object{Key: key, IsDir: true})
			}
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue // Directory markers
			}
			objects = append(objects, Object{
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

// Upload stores a local file under key.
func (b *S3Backend) Upload(ctx context.Context, localPath, key string, onBytes func(int64)) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var body io.Reader = f
	if onBytes != nil {
		body = &countingReader{r: f, onBytes: onBytes}
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", filepath.Base(localPath), b.bucket, key, err)
	}
	return nil
}

// Download fetches an object into localPath.
func (b *S3Backend) Download(ctx context.Context, key, localPath string, onBytes func(int64)) error {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download s3://%s/%s: %w", b.bucket, key, err)
	}
	defer result.Body.Close()

	return writeStream(ctx, localPath, result.Body, onBytes)
}

// Delete removes one object.
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3://%s/%s: %w", b.bucket, key, err)
	}
	return nil
}

// Stat returns metadata for one object.
func (b *S3Backend) Stat(ctx context.Context, key string) (Object, error) {
	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Object{}, fmt.Errorf("stat s3://%s/%s: %w", b.bucket, key, err)
	}
	return Object{
		Key:          key,
		Size:         aws.ToInt64(head.ContentLength),
		LastModified: aws.ToTime(head.LastModified),
	}, nil
}

// countingReader forwards read sizes to a callback.
type countingReader struct {
	r       io.Reader
	onBytes func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.onBytes(int64(n))
	}
	return n, err
}

// writeStream copies a response body to a local file in pooled chunks
// with cancellation checks, removing the partial file on failure.
func writeStream(ctx context.Context, localPath string, body io.Reader, onBytes func(int64)) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}
	out, err := os.Create(localPath)
	if err != nil {
		return err
	}

	buf := buffers.GetCopyBuffer()
	defer buffers.PutCopyBuffer(buf)

	var werr error
	for {
		if werr = ctx.Err(); werr != nil {
			break
		}
		n, rerr := body.Read(*buf)
		if n > 0 {
			if _, werr = out.Write((*buf)[:n]); werr != nil {
				break
			}
			if onBytes != nil {
				onBytes(int64(n))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			werr = rerr
			break
		}
	}

	if cerr := out.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(localPath)
	}
	return werr
}
