package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC) }

func TestDiskStorageSave(t *testing.T) {
	d := NewDiskStorage(t.TempDir())
	d.now = fixedNow

	key, err := d.Save(context.Background(), "../../etc/cover.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "article/20240502/"))
	assert.True(t, strings.HasSuffix(key, "_cover.png"))

	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

type fakePut struct {
	in   *s3.PutObjectInput
	body string
}

func (f *fakePut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, err := io.ReadAll(in.Body)
	f.body = string(b)

	return &s3.PutObjectOutput{}, err
}

func TestS3StorageSave(t *testing.T) {
	fake := &fakePut{}
	s := NewS3StorageWithClient(fake, "avatars")
	s.now = fixedNow

	key, err := s.Save(context.Background(), "me.jpg", "image/jpeg", strings.NewReader("jpg"))
	require.NoError(t, err)

	require.NotNil(t, fake.in)
	assert.Equal(t, "avatars", aws.ToString(fake.in.Bucket))
	assert.Equal(t, key, aws.ToString(fake.in.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "jpg", fake.body)
}
