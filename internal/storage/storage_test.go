package storage

import (
	"testing"

	"github.com/andresuchdata/vaxstock/backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "r.csv", ObjectKey("", "r.csv"))
	assert.Equal(t, "exports/r.csv", ObjectKey("exports", "r.csv"))
	assert.Equal(t, "exports/2024/r.csv", ObjectKey("/exports/2024/", "r.csv"))
}

func TestSplitEndpoint(t *testing.T) {
	host, secure := splitEndpoint("https://s3.example.org/", false)
	assert.Equal(t, "s3.example.org", host)
	assert.True(t, secure)

	host, secure = splitEndpoint("http://localhost:9000", true)
	assert.Equal(t, "localhost:9000", host)
	assert.False(t, secure)

	host, secure = splitEndpoint("minio:9000", true)
	assert.Equal(t, "minio:9000", host)
	assert.True(t, secure)
}

func TestNewMinioClient_Validation(t *testing.T) {
	_, err := NewMinioClient(config.ExportConfig{})
	assert.Error(t, err)

	_, err = NewMinioClient(config.ExportConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.Error(t, err)

	_, err = NewMinioClient(config.ExportConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	assert.Error(t, err)

	c, err := NewMinioClient(config.ExportConfig{Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "reports"})
	require.NoError(t, err)
	assert.Equal(t, "reports", c.bucket)
}
