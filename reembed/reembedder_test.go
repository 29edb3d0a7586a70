// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/vibematch/ai/mock"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) *badger.Repositories {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func testConfig() *Config {
	return &Config{
		BatchSize:       3,
		PoolSize:        2,
		ItemTimeout:     time.Second,
		MaxRetries:      2,
		RetryDelay:      time.Millisecond,
		MaxRetryDelay:   5 * time.Millisecond,
		CheckpointEvery: 2,
		ReportInterval:  1,
	}
}

func newTestJob(t *testing.T, repos *badger.Repositories, embedder *mock.MockEmbedder, opts ...Option) *Job {
	t.Helper()
	opts = append([]Option{
		WithConfig(testConfig()),
		WithCheckpoints(repos.Checkpoints),
		WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)
	job, err := NewJob(TagJobType, embedder, repos.Vectors, opts...)
	require.NoError(t, err)
	t.Cleanup(job.Release)
	return job
}

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Key: fmt.Sprintf("item-%02d", i), Text: fmt.Sprintf("quiet place number %d", i)}
	}
	return items
}

func TestNewJob_Validation(t *testing.T) {
	repos := setupRepos(t)
	embedder := mock.NewMockEmbedder()

	_, err := NewJob("", embedder, repos.Vectors)
	assert.Error(t, err)

	_, err = NewJob(TagJobType, nil, repos.Vectors)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewJob(TagJobType, embedder, nil)
	assert.ErrorIs(t, err, ErrVectorRepositoryRequired)

	_, err = NewJob(TagJobType, embedder, repos.Vectors, WithConfig(&Config{MaxRetries: 0}))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = NewJob(TagJobType, embedder, repos.Vectors, WithConfig(nil))
	assert.Error(t, err)
}

func TestJob_Run(t *testing.T) {
	repos := setupRepos(t)
	embedder := mock.NewMockEmbedder()
	var progress strings.Builder
	job := newTestJob(t, repos, embedder, WithProgress(&progress))

	items := testItems(7)
	summary, err := job.Run(t.Context(), items)
	require.NoError(t, err)

	assert.True(t, summary.OK())
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, TagJobType, summary.JobType)
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 7, summary.Embedded)
	assert.Equal(t, 0, summary.Skipped)
	assert.Positive(t, summary.EstimatedTokens)
	assert.Contains(t, progress.String(), "7/7")

	vectors, err := job.Vectors(t.Context())
	require.NoError(t, err)
	require.Len(t, vectors, 7)
	assert.Equal(t, mock.GenerateDeterministicVector(items[3].Text, mock.DefaultDimensions), vectors["item-03"])

	checkpoint, err := repos.Checkpoints.LoadCheckpoint(t.Context(), TagJobType)
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Len(t, checkpoint.Completed, 7)
	assert.Equal(t, "item-00", checkpoint.Completed[0], "checkpoint keys are sorted")
}

func TestJob_FailureIsolation(t *testing.T) {
	repos := setupRepos(t)
	poison := errors.New("input rejected")
	embedder := mock.NewMockEmbedder()
	embedder.WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "number 4") {
			return nil, poison
		}
		return mock.GenerateDeterministicVector(text, mock.DefaultDimensions), nil
	})
	job := newTestJob(t, repos, embedder)

	summary, err := job.Run(t.Context(), testItems(6))
	require.NoError(t, err)

	assert.False(t, summary.OK())
	assert.Equal(t, 5, summary.Embedded)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "item-04", summary.Failed[0].Key)
	assert.ErrorIs(t, summary.Failed[0].Err, poison)

	checkpoint, err := repos.Checkpoints.LoadCheckpoint(t.Context(), TagJobType)
	require.NoError(t, err)
	assert.NotContains(t, checkpoint.Completed, "item-04")
	assert.Len(t, checkpoint.Completed, 5)
}

func TestJob_Resume(t *testing.T) {
	repos := setupRepos(t)
	items := testItems(5)

	first := newTestJob(t, repos, mock.NewMockEmbedder())
	_, err := first.Run(t.Context(), items[:3])
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	second := newTestJob(t, repos, embedder)
	summary, err := second.Run(t.Context(), items)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 2, summary.Embedded)
	assert.ElementsMatch(t, []string{items[3].Text, items[4].Text}, embedder.EmbeddedTexts(),
		"completed items must not be embedded again")

	vectors, err := second.Vectors(t.Context())
	require.NoError(t, err)
	assert.Len(t, vectors, 5)
}

func TestJob_ResumeReembedsChangedText(t *testing.T) {
	repos := setupRepos(t)
	items := testItems(3)

	first := newTestJob(t, repos, mock.NewMockEmbedder())
	_, err := first.Run(t.Context(), items)
	require.NoError(t, err)

	items[1].Text = "sunset dinners on the quay"
	embedder := mock.NewMockEmbedder()
	second := newTestJob(t, repos, embedder)
	summary, err := second.Run(t.Context(), items)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Embedded)
	assert.Equal(t, []string{"sunset dinners on the quay"}, embedder.EmbeddedTexts())

	vectors, err := second.Current(t.Context(), items)
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, mock.GenerateDeterministicVector("sunset dinners on the quay", mock.DefaultDimensions), vectors["item-01"])

	stored, err := repos.Vectors.GetVector(t.Context(), second.VectorKey("item-01"))
	require.NoError(t, err)
	assert.Equal(t, core.ContentKey(mock.DefaultModel, mock.DefaultDimensions, "sunset dinners on the quay"), stored.TextHash)
}

func TestJob_CurrentDropsOutdatedVectors(t *testing.T) {
	repos := setupRepos(t)
	items := testItems(2)

	job := newTestJob(t, repos, mock.NewMockEmbedder())
	_, err := job.Run(t.Context(), items)
	require.NoError(t, err)

	// The text changed but was never embedded again.
	items[0].Text = "rooftop bar with a view"
	vectors, err := job.Current(t.Context(), items)
	require.NoError(t, err)
	assert.NotContains(t, vectors, "item-00")
	assert.Contains(t, vectors, "item-01")
}

func TestJob_ResumeIgnoresOtherModel(t *testing.T) {
	repos := setupRepos(t)
	items := testItems(3)

	first := newTestJob(t, repos, mock.NewMockEmbedder().WithModel("old-model"))
	_, err := first.Run(t.Context(), items)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder().WithModel("new-model")
	second := newTestJob(t, repos, embedder)

	_, err = second.Vectors(t.Context())
	assert.ErrorIs(t, err, core.ErrModelMismatch)

	summary, err := second.Run(t.Context(), items)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Skipped, "vectors from another model are stale")
	assert.Equal(t, 3, summary.Embedded)

	vectors, err := second.Vectors(t.Context())
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
}

func TestJob_EmptyText(t *testing.T) {
	repos := setupRepos(t)
	job := newTestJob(t, repos, mock.NewMockEmbedder())

	items := []Item{{Key: "a", Text: "calm"}, {Key: "b", Text: "   "}}
	summary, err := job.Run(t.Context(), items)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Embedded)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "b", summary.Failed[0].Key)
	assert.ErrorIs(t, summary.Failed[0].Err, core.ErrEmptyText)
}

func TestJob_DuplicateKeys(t *testing.T) {
	repos := setupRepos(t)
	embedder := mock.NewMockEmbedder()
	job := newTestJob(t, repos, embedder)

	_, err := job.Run(t.Context(), []Item{{Key: "a", Text: "x"}, {Key: "a", Text: "y"}})
	assert.ErrorIs(t, err, ErrDuplicateItem)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestJob_Cancelled(t *testing.T) {
	repos := setupRepos(t)
	embedder := mock.NewMockEmbedder()
	job := newTestJob(t, repos, embedder)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	summary, err := job.Run(ctx, testItems(4))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.True(t, summary.Interrupted)
	assert.False(t, summary.OK())
	assert.Equal(t, 0, summary.Embedded)
	assert.Empty(t, summary.Failed, "cancelled items are left for the next run")
	assert.Equal(t, 0, embedder.CallCount())
}

func TestJob_Reset(t *testing.T) {
	repos := setupRepos(t)
	job := newTestJob(t, repos, mock.NewMockEmbedder())

	_, err := job.Run(t.Context(), testItems(3))
	require.NoError(t, err)

	require.NoError(t, job.Reset(t.Context()))

	vectors, err := job.Vectors(t.Context())
	require.NoError(t, err)
	assert.Empty(t, vectors)

	checkpoint, err := repos.Checkpoints.LoadCheckpoint(t.Context(), TagJobType)
	require.NoError(t, err)
	assert.Nil(t, checkpoint)
}

func TestJob_NamespacesDoNotCollide(t *testing.T) {
	repos := setupRepos(t)
	embedder := mock.NewMockEmbedder()

	tags := newTestJob(t, repos, embedder)
	venues, err := NewJob(VenueJobType("hybrid"), embedder, repos.Vectors,
		WithConfig(testConfig()), WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	defer venues.Release()

	_, err = tags.Run(t.Context(), testItems(2))
	require.NoError(t, err)
	_, err = venues.Run(t.Context(), testItems(3))
	require.NoError(t, err)

	assert.Equal(t, "venues/hybrid/item-01", venues.VectorKey("item-01"))

	tagVectors, err := tags.Vectors(t.Context())
	require.NoError(t, err)
	assert.Len(t, tagVectors, 2)

	venueVectors, err := venues.Vectors(t.Context())
	require.NoError(t, err)
	assert.Len(t, venueVectors, 3)
}
