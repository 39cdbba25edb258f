package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	objects map[string][]byte
	input   *s3.GetObjectInput
}

func (f *fakeDownloader) Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error) {
	f.input = input
	body, ok := f.objects[aws.ToString(input.Bucket)+"/"+aws.ToString(input.Key)]
	if !ok {
		return 0, errors.New("NoSuchKey")
	}
	n, err := w.WriteAt(body, 0)
	return int64(n), err
}

func TestS3Service_Fetch(t *testing.T) {
	fake := &fakeDownloader{objects: map[string][]byte{
		"muuapp-templates/reset_password.html": []byte("<p>{{.Link}}</p>"),
	}}
	svc := &S3Service{downloader: fake}

	body, err := svc.Fetch(context.Background(), "muuapp-templates", "reset_password.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>{{.Link}}</p>", string(body))
	assert.Equal(t, "reset_password.html", aws.ToString(fake.input.Key))
}

func TestS3Service_FetchErrors(t *testing.T) {
	svc := &S3Service{downloader: &fakeDownloader{}}

	_, err := svc.Fetch(context.Background(), "", "k")
	assert.Error(t, err)

	_, err = svc.Fetch(context.Background(), "b", "")
	assert.Error(t, err)

	_, err = svc.Fetch(context.Background(), "b", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://b/missing")
}
