package dataset

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		location string
		want     SourceKind
		wantErr  bool
	}{
		{"./data/data.csv", SourceFile, false},
		{"/tmp/data.csv", SourceFile, false},
		{`C:\data\data.csv`, SourceFile, false},
		{"file:///tmp/data.csv", SourceFile, false},
		{"http://example.com/data.csv", SourceHTTP, false},
		{"HTTPS://example.com/data.csv", SourceHTTP, false},
		{"s3://bucket/data.csv", SourceS3, false},
		{"ftp://example.com/data.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := KindOf(tt.location)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceFetcher_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("key,val\n"), 0o644))

	f := NewFetcher(FetchOptions{})
	data, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "key,val\n", string(data))

	data, err = f.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "key,val\n", string(data))
}

func TestSourceFetcher_FileNotFound(t *testing.T) {
	f := NewFetcher(FetchOptions{})
	_, err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	fe, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "file_not_found", fe.Key)
	assert.Equal(t, apperrors.ErrorTypeFile, fe.Type)
}

func TestSourceFetcher_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	f := NewFetcher(FetchOptions{})
	data, err := f.Fetch(context.Background(), srv.URL+"/accident_data_d3.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSourceFetcher_HTTPRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	f := NewFetcher(FetchOptions{Attempts: 3, RetryDelay: 1})
	data, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestSourceFetcher_HTTPDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(FetchOptions{Attempts: 3, RetryDelay: 1})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeNetwork, apperrors.TypeOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSourceFetcher_MaxBytes(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	defer srv.Close()

	f := NewFetcher(FetchOptions{Attempts: 3, RetryDelay: 1, MaxBytes: 16})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum allowed size")
	// サイズ超過はリトライしない
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("y", 17)), 0644))
	_, err = f.Fetch(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeFile, apperrors.TypeOf(err))

	// ちょうど上限なら読める
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("y", 16)), 0644))
	data, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, data, 16)
}

func TestSourceFetcher_Unsupported(t *testing.T) {
	f := NewFetcher(FetchOptions{})
	_, err := f.Fetch(context.Background(), "ftp://example.com/data.csv")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfig, apperrors.TypeOf(err))
}

type fakeS3 struct {
	objects map[string]string
	input   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	body, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, assert.AnError
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestSourceFetcher_S3(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"charts/data/data.csv": "key,val\nA,1\n"}}
	f := NewFetcher(FetchOptions{S3Client: client})

	data, err := f.Fetch(context.Background(), "s3://charts/data/data.csv")
	require.NoError(t, err)
	assert.Equal(t, "key,val\nA,1\n", string(data))
	assert.Equal(t, "charts", aws.ToString(client.input.Bucket))
	assert.Equal(t, "data/data.csv", aws.ToString(client.input.Key))

	_, err = f.Fetch(context.Background(), "s3://charts/missing.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSourceFetcher_S3ClientRetriedAfterFailure(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"charts/data.csv": "key,val\nA,1\n"}}
	var calls int32
	f := NewFetcher(FetchOptions{})
	f.newS3 = func(ctx context.Context) (S3API, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, ctx.Err()
		}
		return client, nil
	}

	// 最初の取得はキャンセル済みのコンテキストで失敗する
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(cancelled, "s3://charts/data.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// 失敗は保存されず、次の取得でクライアントを作り直す
	data, err := f.Fetch(context.Background(), "s3://charts/data.csv")
	require.NoError(t, err)
	assert.Equal(t, "key,val\nA,1\n", string(data))

	_, err = f.Fetch(context.Background(), "s3://charts/data.csv")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "成功したクライアントは再利用される")
}

func TestParseS3Location(t *testing.T) {
	bucket, key, err := ParseS3Location("s3://b/k/v.json")
	require.NoError(t, err)
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "k/v.json", key)

	_, _, err = ParseS3Location("s3://only-bucket")
	assert.Error(t, err)
}
