package vault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestNewS3Vault(t *testing.T) {
	t.Run("requires bucket", func(t *testing.T) {
		if _, err := NewS3Vault("offsite", S3Options{Region: "eu-west-1"}); err == nil {
			t.Error("NewS3Vault() expected error without bucket")
		}
	})

	t.Run("builds client without network access", func(t *testing.T) {
		v, err := NewS3Vault("offsite", S3Options{
			Bucket:          "fonds",
			Prefix:          "archive/main",
			Region:          "us-east-1",
			Endpoint:        "http://127.0.0.1:9000",
			AccessKeyID:     "minio",
			SecretAccessKey: "minio-secret",
		})
		if err != nil {
			t.Fatalf("NewS3Vault() error = %v", err)
		}
		if got, want := v.snapshotKey("lib-1"), "archive/main/snapshots/lib-1.db"; got != want {
			t.Errorf("snapshotKey() = %q, want %q", got, want)
		}
	})
}

func TestS3Vault_SnapshotKeyWithoutPrefix(t *testing.T) {
	v := &S3Vault{bucket: "fonds"}
	if got, want := v.snapshotKey("lib-1"), "snapshots/lib-1.db"; got != want {
		t.Errorf("snapshotKey() = %q, want %q", got, want)
	}
}

func TestIsS3NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key", fmt.Errorf("get: %w", &types.NoSuchKey{}), true},
		{"not found", &types.NotFound{}, true},
		{"other", errors.New("access denied"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isS3NotFound(tt.err); got != tt.want {
				t.Errorf("isS3NotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
