package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/fsbench/vfs"
	"github.com/hupe1980/fsbench/vfs/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStore_Stat(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	t.Run("NotFound", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "test-bucket" && *input.Key == "prefix/foo"
		})).Return(nil, &types.NotFound{}).Once()

		_, err := store.Stat(context.Background(), "foo")
		assert.ErrorIs(t, err, vfs.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		mod := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "test-bucket" && *input.Key == "prefix/bar"
		})).Return(&s3.HeadObjectOutput{
			ContentLength: aws.Int64(100),
			LastModified:  aws.Time(mod),
		}, nil).Once()

		info, err := store.Stat(context.Background(), "bar")
		require.NoError(t, err)
		assert.Equal(t, "bar", info.Key)
		assert.Equal(t, int64(100), info.Size)
		assert.Equal(t, mod, info.LastModified)
	})

	t.Run("OtherError", func(t *testing.T) {
		boom := errors.New("boom")
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Key == "prefix/err"
		})).Return(nil, boom).Once()

		_, err := store.Stat(context.Background(), "err")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, vfs.ErrNotFound)
	})
}

func TestStore_Remove(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	mockClient.On("DeleteObject", mock.Anything, mock.MatchedBy(func(input *s3.DeleteObjectInput) bool {
		return *input.Bucket == "test-bucket" && *input.Key == "prefix/del"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()
	mockClient.On("DeleteObject", mock.Anything, mock.MatchedBy(func(input *s3.DeleteObjectInput) bool {
		return *input.Key == "prefix/gone"
	})).Return(nil, &types.NoSuchKey{}).Once()

	assert.NoError(t, store.Remove(context.Background(), "del"))
	assert.NoError(t, store.Remove(context.Background(), "gone"))
	mockClient.AssertExpectations(t)
}

func TestStore_Copy(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix/")

	mockClient.On("CopyObject", mock.Anything, mock.MatchedBy(func(input *s3.CopyObjectInput) bool {
		return *input.Bucket == "test-bucket" &&
			*input.Key == "prefix/dst file" &&
			*input.CopySource == "test-bucket/prefix/src%20file"
	})).Return(&s3.CopyObjectOutput{}, nil).Once()

	assert.NoError(t, store.Copy(context.Background(), "src file", "dst file"))
	mockClient.AssertExpectations(t)
}

func TestStore_List(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix/")

	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return *input.Bucket == "test-bucket" && *input.Prefix == "prefix/dir/" &&
			input.Delimiter != nil && *input.Delimiter == "/"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("prefix/dir/file1"), Size: aws.Int64(3)},
			{Key: aws.String("prefix/dir/")},
		},
		CommonPrefixes: []types.CommonPrefix{
			{Prefix: aws.String("prefix/dir/sub/")},
		},
	}, nil).Once()

	objs, err := store.List(context.Background(), "dir/", false)
	require.NoError(t, err)
	assert.Equal(t, []object.ObjectInfo{
		{Key: "dir/"},
		{Key: "dir/file1", Size: 3},
		{Key: "dir/sub/", IsPrefix: true},
	}, objs)
}

func TestStore_List_Pagination(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix/")

	// Page 1
	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return input.ContinuationToken == nil && input.Delimiter == nil
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("token"),
		Contents:              []types.Object{{Key: aws.String("prefix/2")}},
	}, nil).Once()

	// Page 2
	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return input.ContinuationToken != nil && *input.ContinuationToken == "token"
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(false),
		Contents:    []types.Object{{Key: aws.String("prefix/1")}},
	}, nil).Once()

	objs, err := store.List(context.Background(), "", true)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "1", objs[0].Key)
	assert.Equal(t, "2", objs[1].Key)
}

func TestStore_Put(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "test-bucket", "prefix")

	var got string
	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Bucket == "test-bucket" && *input.Key == "prefix/new"
	})).Run(func(args mock.Arguments) {
		input := args.Get(1).(*s3.PutObjectInput)
		b, _ := io.ReadAll(input.Body)
		got = string(b)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	err := store.Put(context.Background(), "new", strings.NewReader("content"), -1)
	require.NoError(t, err)
	assert.Equal(t, "content", got)
}

func TestFileSystem_CreateStreamsThroughUploader(t *testing.T) {
	mockClient := new(MockS3Client)
	fsys := object.New(NewStore(mockClient, "test-bucket", "prefix"))

	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
		return *input.Key == "prefix/a/b"
	})).Run(func(args mock.Arguments) {
		input := args.Get(1).(*s3.PutObjectInput)
		_, _ = io.ReadAll(input.Body)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	w, err := fsys.Create(context.Background(), "/a/b")
	require.NoError(t, err)
	_, err = w.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	mockClient.AssertExpectations(t)
}

func TestURI(t *testing.T) {
	store := NewStore(new(MockS3Client), "bucket", "/bench/")
	assert.Equal(t, "s3://bucket/bench/", store.URI())
}
