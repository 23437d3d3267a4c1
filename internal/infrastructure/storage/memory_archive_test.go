package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryArchive(t *testing.T) {
	ctx := context.Background()
	archive := NewMemoryArchive()

	data := []byte("workbook")
	require.NoError(t, archive.Upload(ctx, "gst/org/a.xlsx", data, "application/xlsx"))
	data[0] = 'W'

	obj, ok := archive.Get("gst/org/a.xlsx")
	require.True(t, ok)
	assert.Equal(t, []byte("workbook"), obj.Data)
	assert.Equal(t, "application/xlsx", obj.ContentType)
	assert.Equal(t, 1, archive.Len())

	_, ok = archive.Get("missing")
	assert.False(t, ok)
	assert.Error(t, archive.Upload(ctx, "", data, "application/xlsx"))
}
