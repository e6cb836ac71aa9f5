package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aws-tutor/internal/database"
	"aws-tutor/internal/models"
)

// Runs against a disposable database named by TEST_DATABASE_URL.
func TestDocumentRepo_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := database.NewPostgresPool(dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, database.RunMigrations(pool, filepath.Join("..", "..", "migrations"), zap.NewNop()))

	ctx := context.Background()
	_, err = pool.Exec(ctx, "TRUNCATE documents")
	require.NoError(t, err)

	repo := NewDocumentRepo(pool)
	scraped := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, &models.Document{
		Title:     "What is Amazon S3?",
		Section:   "Overview",
		URL:       "https://docs.aws.amazon.com/AmazonS3/latest/userguide/Welcome.html",
		Content:   "Amazon Simple Storage Service (Amazon S3) is an object storage service.",
		Timestamp: scraped,
	}))
	require.NoError(t, repo.Upsert(ctx, &models.Document{
		Title:   "What is AWS Lambda?",
		URL:     "https://docs.aws.amazon.com/lambda/latest/dg/welcome.html",
		Content: "Lambda runs your code on high-availability compute infrastructure.",
	}))
	// Same URL again replaces the earlier copy.
	require.NoError(t, repo.Upsert(ctx, &models.Document{
		Title:   "What is AWS Lambda?",
		URL:     "https://docs.aws.amazon.com/lambda/latest/dg/welcome.html",
		Content: "Lambda is a compute service that runs code without provisioning servers.",
	}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	docs, err := repo.Search(ctx, "object storage", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "What is Amazon S3?", docs[0].Title)
	assert.Equal(t, "AWS Documentation", docs[0].Source)
	assert.True(t, docs[0].Timestamp.Equal(scraped))

	docs, err = repo.Search(ctx, "provisioning servers", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, "without provisioning servers")
}
