package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/talent-profiler/internal/types"
)

type fakeStore struct {
	mu     sync.Mutex
	chunks []types.TextChunk
	err    error
	asked  []int
}

func (f *fakeStore) SimilaritySearch(_ context.Context, _ string, k int) ([]types.TextChunk, error) {
	f.mu.Lock()
	f.asked = append(f.asked, k)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.chunks) {
		k = len(f.chunks)
	}
	return f.chunks[:k], nil
}

func dated(id int64, y int, m time.Month, d int) types.TextChunk {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return types.TextChunk{ID: id, Content: fmt.Sprintf("chunk %d", id), Date: &t}
}

func window(startYear, startMonth, endYear, endMonth int) *types.DateWindow {
	return &types.DateWindow{
		Start: &types.YearMonth{Year: startYear, Month: startMonth},
		End:   &types.YearMonth{Year: endYear, Month: endMonth},
	}
}

func TestSearch_DateWindowRoundTrip(t *testing.T) {
	store := &fakeStore{chunks: []types.TextChunk{dated(1, 2021, time.July, 15)}}
	s := NewSearcher(store, nil)

	kept := s.Search(context.Background(), "토스의 투자 규모, 조직 규모", 5, window(2021, 1, 2021, 12))
	require.Len(t, kept, 1)
	assert.Equal(t, int64(1), kept[0].ID)

	dropped := s.Search(context.Background(), "토스의 투자 규모, 조직 규모", 5, window(2022, 1, 2022, 12))
	assert.Empty(t, dropped)
}

func TestSearch_OverFetchesThreeTimesK(t *testing.T) {
	store := &fakeStore{}
	s := NewSearcher(store, nil)

	s.Search(context.Background(), "q", 4, nil)

	assert.Equal(t, []int{12}, store.asked)
}

func TestSearch_TruncatesToKInRankOrder(t *testing.T) {
	store := &fakeStore{chunks: []types.TextChunk{
		dated(1, 2020, time.March, 1),
		dated(2, 2019, time.March, 1), // outside window
		dated(3, 2020, time.May, 1),
		{ID: 4, Content: "undated"},
		dated(5, 2020, time.June, 1),
	}}
	s := NewSearcher(store, nil)

	got := s.Search(context.Background(), "q", 3, window(2020, 1, 2020, 12))

	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 3, 4}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestSearch_EndIsLastCalendarDay(t *testing.T) {
	store := &fakeStore{chunks: []types.TextChunk{
		dated(1, 2024, time.February, 29),
		dated(2, 2024, time.March, 1),
	}}
	s := NewSearcher(store, nil)

	got := s.Search(context.Background(), "q", 5, window(2024, 2, 2024, 2))

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSearch_DefaultMonths(t *testing.T) {
	store := &fakeStore{chunks: []types.TextChunk{
		dated(1, 2020, time.January, 1),
		dated(2, 2020, time.December, 31),
		dated(3, 2021, time.January, 1),
	}}
	s := NewSearcher(store, nil)

	got := s.Search(context.Background(), "q", 5, &types.DateWindow{
		Start: &types.YearMonth{Year: 2020},
		End:   &types.YearMonth{Year: 2020},
	})

	assert.Len(t, got, 2)
}

func TestSearch_OpenEndedWindow(t *testing.T) {
	store := &fakeStore{chunks: []types.TextChunk{
		dated(1, 2018, time.January, 1),
		dated(2, 2030, time.January, 1),
	}}
	s := NewSearcher(store, nil)

	got := s.Search(context.Background(), "q", 5, &types.DateWindow{Start: &types.YearMonth{Year: 2019, Month: 6}})

	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSearch_StoreErrorYieldsEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSearcher(&fakeStore{err: errors.New("connection refused")}, zap.New(core))

	got := s.Search(context.Background(), "q", 5, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, logs.FilterMessage("similarity search failed").Len())
}

func TestSearch_NonPositiveK(t *testing.T) {
	store := &fakeStore{chunks: []types.TextChunk{{ID: 1}}}
	s := NewSearcher(store, nil)

	assert.Empty(t, s.Search(context.Background(), "q", 0, nil))
	assert.Empty(t, store.asked)
}

func TestSearch_Concurrent(t *testing.T) {
	store := &fakeStore{chunks: []types.TextChunk{
		dated(1, 2020, time.March, 1),
		dated(2, 2022, time.March, 1),
	}}
	s := NewSearcher(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			year := 2020 + (i%2)*2
			got := s.Search(context.Background(), "q", 5, window(year, 1, year, 12))
			if assert.Len(t, got, 1) {
				assert.Equal(t, year, got[0].Date.Year())
			}
		}(i)
	}
	wg.Wait()
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

type fakeIndex struct {
	gotVec   []float32
	gotLimit int
}

func (f *fakeIndex) SearchCompanyNews(_ context.Context, embedding []float32, limit int) ([]types.TextChunk, error) {
	f.gotVec = embedding
	f.gotLimit = limit
	return []types.TextChunk{{ID: 7, Score: 0.9}}, nil
}

func TestEmbeddingStore(t *testing.T) {
	index := &fakeIndex{}
	store := NewEmbeddingStore(fakeEmbedder{vec: []float32{0.1, 0.2}}, index)

	chunks, err := store.SimilaritySearch(context.Background(), "q", 15)

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, index.gotVec)
	assert.Equal(t, 15, index.gotLimit)
	require.Len(t, chunks, 1)
	assert.Equal(t, int64(7), chunks[0].ID)
}

func TestEmbeddingStore_EmbedError(t *testing.T) {
	index := &fakeIndex{}
	store := NewEmbeddingStore(fakeEmbedder{err: errors.New("quota")}, index)

	_, err := store.SimilaritySearch(context.Background(), "q", 15)

	assert.ErrorContains(t, err, "failed to embed query")
	assert.Nil(t, index.gotVec)
}
