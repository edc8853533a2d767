// internal/services/storage_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emissionsiq/emissionsiq-backend/internal/config"
)

func TestStorageServiceDisabledWithoutCredentials(t *testing.T) {
	svc, err := NewStorageService(&config.Config{})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.False(t, svc.Enabled())

	_, err = svc.UploadExport("export.csv", []byte("data"))
	assert.ErrorContains(t, err, "not configured")
}

func TestStorageServiceNilReceiverReportsDisabled(t *testing.T) {
	var svc *StorageService
	assert.False(t, svc.Enabled())
}

