// Package storage 把导出的简历上传到 MinIO/S3 兼容的对象存储。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ByLCY/papyrus-cv/internal/config"
)

// Client 封装 MinIO 客户端，提供简化的上传接口。
type Client struct {
	client     *minio.Client
	bucketName string
}

// NewClient 根据配置初始化 MinIO 客户端，并确保目标 Bucket 存在。
func NewClient(ctx context.Context, cfg config.MinIOConfig) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{client: client, bucketName: cfg.Bucket}, nil
}

// Bucket 返回目标 Bucket 名称。
func (c *Client) Bucket() string { return c.bucketName }

// UploadFile 将对象上传到 Bucket。attachmentName 非空时写入 Content-Disposition，
// 下载时浏览器会使用该文件名。
func (c *Client) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType, attachmentName string) (*minio.UploadInfo, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if attachmentName != "" {
		opts.ContentDisposition = ContentDisposition(attachmentName)
	}
	info, err := c.client.PutObject(ctx, c.bucketName, objectName, reader, size, opts)
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", objectName, err)
	}
	return &info, nil
}

// PresignedURL 生成对象的限时下载链接。
func (c *Client) PresignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, c.bucketName, objectKey, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("generate presigned url for %q: %w", objectKey, err)
	}
	return u.String(), nil
}

// ObjectKey 返回导出文件的对象键 "resumes/<slug>/<id>/<文件名>"。
func ObjectKey(slug, id, fileName string) string {
	return strings.Join([]string{"resumes", slug, id, fileName}, "/")
}

// ContentDisposition 生成 attachment 头，非 ASCII 文件名按 RFC 5987 编码。
func ContentDisposition(fileName string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, fileName)
	if fallback == fileName {
		return fmt.Sprintf(`attachment; filename="%s"`, fileName)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, encodeExtValue(fileName))
}

// encodeExtValue 按 RFC 5987 对 attr-char 以外的字节做百分号编码。
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

// IsNoSuchBucket 判断错误是否明确表示 Bucket 不存在（S3/MinIO: NoSuchBucket）。
func IsNoSuchBucket(err error) bool {
	if err == nil {
		return false
	}
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return strings.EqualFold(strings.TrimSpace(minioErr.Code), "nosuchbucket")
	}
	return strings.Contains(strings.ToLower(err.Error()), "nosuchbucket")
}
