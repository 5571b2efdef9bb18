package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearvide/internal/domain"
)

func TestExportsRepoWithoutDatabase(t *testing.T) {
	r := NewExportsRepo(nil)
	require.NoError(t, r.Save(context.Background(), &domain.ExportJob{ID: uuid.New()}))

	jobs, err := r.ListBySession(context.Background(), "s1", 10)
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}
