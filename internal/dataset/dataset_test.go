// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/groundchat/internal/cache"
)

func reviews() *Dataset {
	return New(
		[]string{"PRODUCT", "REVIEW_TEXT", "SENTIMENT"},
		[][]string{
			{"Goggles", "Fog up after an hour", "-0.4"},
			{"Ski Boots", "Warm and comfy", "0.9"},
			{"Helmet", "Fits great", "0.8"},
		},
	)
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormat_EmptyReturnsSentinel(t *testing.T) {
	require.Equal(t, "No DataFrame context provided.", NoContext)

	tests := []struct {
		name string
		ds   *Dataset
	}{
		{"nil dataset", nil},
		{"no rows", New([]string{"A"}, nil)},
		{"no columns", &Dataset{Rows: [][]string{{}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, NoContext, Format(tc.ds))
		})
	}
}

func TestFormat_ContainsEveryValue(t *testing.T) {
	tests := []struct {
		name string
		ds   *Dataset
	}{
		{"reviews", reviews()},
		{"control characters", New(
			[]string{"PRODUCT", "REVIEW"},
			[][]string{{"Goggles", "fog\tup"}, {"Helmet", "snug\nfit\r"}},
		)},
		{"row longer than columns", New(
			[]string{"PRODUCT", "REVIEW"},
			[][]string{{"Goggles", "foggy"}, {"Helmet", "great", "extra-cell"}},
		)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Format(tc.ds)
			for _, col := range tc.ds.Columns {
				assert.Contains(t, out, escapeCell(col))
			}
			for _, row := range tc.ds.Rows {
				for _, cell := range row {
					assert.Contains(t, out, escapeCell(cell))
				}
			}
		})
	}
}

func TestFormat_EscapesReversibly(t *testing.T) {
	ds := New([]string{"REVIEW"}, [][]string{{"fog\tup"}})
	lines := strings.Split(Format(ds), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, `fog\tup`, strings.TrimSpace(lines[1]))
}

func TestFormat_ExtraCellsGetBlankHeader(t *testing.T) {
	ds := New([]string{"A"}, [][]string{{"1", "extra"}, {"22"}})

	want := " A       \n" +
		" 1  extra\n" +
		"22       "
	if diff := cmp.Diff(want, Format(ds)); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat_Layout(t *testing.T) {
	ds := New([]string{"NAME", "N"}, [][]string{{"a", "10"}, {"bcd", "2"}})

	want := "NAME   N\n" +
		"   a  10\n" +
		" bcd   2"
	if diff := cmp.Diff(want, Format(ds)); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat_OneLinePerRow(t *testing.T) {
	ds := New([]string{"TEXT"}, [][]string{{"line one\nline two"}, {"tab\there"}})
	lines := strings.Split(Format(ds), "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `line one\nline two`)
	assert.Contains(t, lines[2], `tab\there`)
}

func TestFormat_NoTruncation(t *testing.T) {
	rows := make([][]string, 500)
	for i := range rows {
		rows[i] = []string{strings.Repeat("x", 200)}
	}
	out := Format(New([]string{"C"}, rows))

	assert.Len(t, strings.Split(out, "\n"), 501)
	assert.Contains(t, out, strings.Repeat("x", 200))
}

func TestFormat_WideRunes(t *testing.T) {
	ds := New([]string{"K"}, [][]string{{"日本"}, {"ab"}})
	lines := strings.Split(Format(ds), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "   K", lines[0])
	assert.Equal(t, "日本", lines[1])
	assert.Equal(t, "  ab", lines[2])
}

// =============================================================================
// DATASET TESTS
// =============================================================================

func TestNew_PadsShortRows(t *testing.T) {
	ds := New([]string{"A", "B"}, [][]string{{"1"}})
	assert.Equal(t, []string{"1", ""}, ds.Rows[0])
}

func TestNew_KeepsLongRows(t *testing.T) {
	ds := New([]string{"A"}, [][]string{{"1", "2", "3"}, {"4"}})
	assert.Equal(t, []string{"1", "2", "3"}, ds.Rows[0])
	assert.Equal(t, 3, ds.Width())
}

func TestDataset_Column(t *testing.T) {
	values, err := reviews().Column("PRODUCT")
	require.NoError(t, err)
	assert.Equal(t, []string{"Goggles", "Ski Boots", "Helmet"}, values)

	_, err = reviews().Column("MISSING")
	assert.Error(t, err)
}

func TestDataset_Len(t *testing.T) {
	var nilDS *Dataset
	assert.Equal(t, 0, nilDS.Len())
	assert.True(t, nilDS.IsEmpty())
	assert.Equal(t, 3, reviews().Len())
}

// =============================================================================
// CACHED SOURCE TESTS
// =============================================================================

func TestCachedSource_LoadsOnceThenHits(t *testing.T) {
	ctx := context.Background()
	calls := 0
	src := SourceFunc(func(_ context.Context, table string) (*Dataset, error) {
		calls++
		ds := reviews()
		ds.Table = table
		return ds, nil
	})

	cs := NewCachedSource(src, cache.NewMemoryStore(), time.Hour, nil)

	first, err := cs.Load(ctx, "REVIEWS")
	require.NoError(t, err)
	second, err := cs.Load(ctx, "REVIEWS")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached snapshot differs (-first +second):\n%s", diff)
	}
}

func TestCachedSource_Invalidate(t *testing.T) {
	ctx := context.Background()
	calls := 0
	src := SourceFunc(func(context.Context, string) (*Dataset, error) {
		calls++
		return reviews(), nil
	})
	cs := NewCachedSource(src, cache.NewMemoryStore(), 0, nil)

	_, err := cs.Load(ctx, "T")
	require.NoError(t, err)
	require.NoError(t, cs.Invalidate(ctx, "T"))
	_, err = cs.Load(ctx, "T")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestCachedSource_PropagatesSourceError(t *testing.T) {
	loadErr := errors.New("warehouse down")
	src := SourceFunc(func(context.Context, string) (*Dataset, error) {
		return nil, loadErr
	})
	cs := NewCachedSource(src, cache.NewMemoryStore(), 0, nil)

	_, err := cs.Load(context.Background(), "T")
	assert.ErrorIs(t, err, loadErr)
}

func TestCachedSource_CorruptEntryFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, CacheKey("T"), []byte("{not json"), 0))

	cs := NewCachedSource(Static{Data: reviews()}, store, 0, nil)
	ds, err := cs.Load(ctx, "T")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}
