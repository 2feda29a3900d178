package uploads

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"

	"hannas-kitchen/internal/storage"
)

func TestGenerateName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		original string
		want     string
	}{
		{"cake.png", "1700000000123-cake.png"},
		{"my cake.jpg", "1700000000123-my_cake.jpg"},
		{"../../etc/passwd", "1700000000123-passwd"},
		{`C:\photos\momo.jpg`, "1700000000123-momo.jpg"},
		{"", "1700000000123-image"},
	}
	for _, tt := range tests {
		if got := GenerateName(now, tt.original); got != tt.want {
			t.Errorf("GenerateName(%q) = %q, want %q", tt.original, got, tt.want)
		}
	}
}

func TestDisk_Save(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir)
	d.now = func() time.Time { return time.UnixMilli(42) }

	url, err := d.Save(context.Background(), "cake.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/uploads/42-cake.png" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "42-cake.png"))
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("stored file = %q, %v", data, err)
	}
}

func TestDisk_SaveFailedCopyLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir)

	body := io.MultiReader(strings.NewReader("half-an-im"), iotest.ErrReader(errors.New("client went away")))
	_, err := d.Save(context.Background(), "cake.png", "image/png", body)
	if !storage.IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("partial file left behind: %v", entries)
	}
}

type fakePutter struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePutter) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = input
	return &s3.PutObjectOutput{}, f.err
}

func TestS3_Save(t *testing.T) {
	putter := &fakePutter{}
	s := &S3{client: putter, bucket: "kitchen", region: "ap-south-1", now: func() time.Time { return time.UnixMilli(7) }}

	url, err := s.Save(context.Background(), "momo.jpg", "image/jpeg", strings.NewReader("jpg"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "https://kitchen.s3.ap-south-1.amazonaws.com/menu/7-momo.jpg" {
		t.Errorf("url = %q", url)
	}
	if aws.StringValue(putter.input.Key) != "menu/7-momo.jpg" || aws.StringValue(putter.input.ContentType) != "image/jpeg" {
		t.Errorf("put input = %+v", putter.input)
	}

	putter.err = errors.New("access denied")
	if _, err := s.Save(context.Background(), "momo.jpg", "", strings.NewReader("jpg")); !storage.IsUnavailable(err) {
		t.Errorf("expected unavailable error, got %v", err)
	}
}
