package publisher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Publisher_Put(t *testing.T) {
	fake := &fakeS3{}
	p := newS3Publisher(fake, "lab-artifacts", "/runs/2026/")

	require.NoError(t, p.Put(context.Background(), "tables/a__b__v1.0.csv", strings.NewReader("x,y\n"), "text/csv"))

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "lab-artifacts", aws.ToString(in.Bucket))
	assert.Equal(t, "runs/2026/tables/a__b__v1.0.csv", aws.ToString(in.Key))
	assert.Equal(t, "text/csv", aws.ToString(in.ContentType))
	assert.Equal(t, "x,y\n", fake.bodies[0])
	assert.Equal(t, "s3://lab-artifacts/runs/2026", p.Location())
}

func TestS3Publisher_NoPrefix(t *testing.T) {
	fake := &fakeS3{}
	p := newS3Publisher(fake, "bucket", "")

	require.NoError(t, p.Put(context.Background(), "figures/f.png", strings.NewReader(""), "image/png"))
	assert.Equal(t, "figures/f.png", aws.ToString(fake.inputs[0].Key))
	assert.Equal(t, "s3://bucket", p.Location())
}

func TestS3Publisher_Error(t *testing.T) {
	p := newS3Publisher(&fakeS3{err: errors.New("access denied")}, "bucket", "p")

	err := p.Put(context.Background(), "k", strings.NewReader(""), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p/k")
}

func TestNewS3Publisher_RequiresBucket(t *testing.T) {
	_, err := NewS3Publisher(context.Background(), " ", "", "")
	assert.Error(t, err)
}

func TestDirPublisher_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "thesis")
	p, err := NewDirPublisher(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Location())

	ctx := context.Background()
	require.NoError(t, p.Put(ctx, "figures/f.png", strings.NewReader("first"), "image/png"))
	require.NoError(t, p.Put(ctx, "figures/f.png", strings.NewReader("second"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "figures", "f.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "figures"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may remain")
}
