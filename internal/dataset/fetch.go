package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/logger"
)

// SourceKind はデータの置き場所の種類
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceHTTP SourceKind = "http"
	SourceS3   SourceKind = "s3"
)

// KindOf は location の種類を判定する。
// スキームのないパス (Windowsのドライブ文字を含む) はローカルファイルとみなす
func KindOf(location string) (SourceKind, error) {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		return SourceFile, nil
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return SourceFile, nil
	case "http", "https":
		return SourceHTTP, nil
	case "s3":
		return SourceS3, nil
	}
	return "", apperrors.UnsupportedSource(location)
}

// LocalPath は file:// を取り除いたローカルパスを返す。ローカルでなければ ok=false
func LocalPath(location string) (string, bool) {
	kind, err := KindOf(location)
	if err != nil || kind != SourceFile {
		return "", false
	}
	return strings.TrimPrefix(location, "file://"), true
}

// Fetcher はデータの置き場所から生のバイト列を取得する
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// S3API は S3 クライアントのうち利用する部分
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// FetchOptions はリモート取得の設定
type FetchOptions struct {
	// Timeout は1回の取得のタイムアウト
	Timeout time.Duration
	// Attempts は試行回数。1 ならリトライしない
	Attempts uint
	// RetryDelay はリトライ間隔の初期値
	RetryDelay time.Duration
	// HTTPClient を差し替える場合に指定する
	HTTPClient *http.Client
	// S3Client を差し替える場合に指定する。nil なら初回利用時にAWSの既定設定から作成する
	S3Client S3API
	// MaxBytes は1つのデータの最大サイズ。超えた場合はエラーにする
	MaxBytes int64
}

// DefaultMaxBytes は MaxBytes の既定値
const DefaultMaxBytes = 32 << 20

// readLimited は最大 max バイトまで読み込み、超えていればエラーを返す
func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("data exceeds maximum allowed size of %d bytes", max)
	}
	return data, nil
}

// SourceFetcher は location のスキームに応じて取得方法を切り替える
type SourceFetcher struct {
	opts   FetchOptions
	client *http.Client
	log    *zap.Logger

	s3Mu     sync.Mutex
	s3Client S3API
	// newS3 はクライアントを作る。失敗は保存せず、次の取得で作り直す
	newS3 func(ctx context.Context) (S3API, error)
}

// NewFetcher は新しい SourceFetcher を作成する
func NewFetcher(opts FetchOptions) *SourceFetcher {
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &SourceFetcher{
		opts:     opts,
		client:   client,
		log:      logger.Named("fetch"),
		s3Client: opts.S3Client,
		newS3:    newDefaultS3Client,
	}
}

// Fetch は location からデータを取得する
func (f *SourceFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	kind, err := KindOf(location)
	if err != nil {
		return nil, err
	}

	switch kind {
	case SourceHTTP:
		return f.fetchHTTP(ctx, location)
	case SourceS3:
		return f.fetchS3(ctx, location)
	default:
		return f.fetchFile(location)
	}
}

func (f *SourceFetcher) fetchFile(location string) ([]byte, error) {
	path, _ := LocalPath(location)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.FileNotFound(path)
	}
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeFile, "fetch_failed", path)
	}
	defer file.Close()

	data, err := readLimited(file, f.opts.MaxBytes)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeFile, "fetch_failed", path)
	}
	return data, nil
}

func (f *SourceFetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	data, err := retry.DoWithData(
		func() ([]byte, error) {
			return f.getHTTP(ctx, location)
		},
		retry.Context(ctx),
		retry.Attempts(f.opts.Attempts),
		retry.Delay(f.opts.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.log.Warn("retrying fetch",
				zap.String("location", location),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		return nil, apperrors.FetchFailed(location, err)
	}
	return data, nil
}

func (f *SourceFetcher) getHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, retry.Unrecoverable(errors.Wrap(err, "build request"))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "http get")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		// 4xx はリトライしても結果が変わらない
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}

	data, err := readLimited(resp.Body, f.opts.MaxBytes)
	if err != nil {
		return nil, retry.Unrecoverable(errors.Wrap(err, "read body"))
	}
	return data, nil
}

// ParseS3Location は s3://bucket/key を分解する
func ParseS3Location(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", errors.Wrap(err, "parse s3 location")
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location must look like s3://bucket/key: %q", location)
	}
	return bucket, key, nil
}

func newDefaultS3Client(ctx context.Context) (S3API, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return s3.NewFromConfig(cfg), nil
}

func (f *SourceFetcher) s3(ctx context.Context) (S3API, error) {
	f.s3Mu.Lock()
	defer f.s3Mu.Unlock()

	if f.s3Client != nil {
		return f.s3Client, nil
	}
	client, err := f.newS3(ctx)
	if err != nil {
		return nil, err
	}
	f.s3Client = client
	return client, nil
}

func (f *SourceFetcher) fetchS3(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, apperrors.UnsupportedSource(location)
	}

	client, err := f.s3(ctx)
	if err != nil {
		return nil, apperrors.FetchFailed(location, err).WithSuggestions("suggestion_check_credentials")
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, apperrors.FetchFailed(location, err).WithSuggestions("suggestion_check_credentials")
	}
	defer out.Body.Close()

	data, err := readLimited(out.Body, f.opts.MaxBytes)
	if err != nil {
		return nil, apperrors.FetchFailed(location, errors.Wrap(err, "read object"))
	}
	return data, nil
}
