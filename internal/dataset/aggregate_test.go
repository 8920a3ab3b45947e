// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shipments() *Dataset {
	return New(
		[]string{"PRODUCT", "REGION", "STATUS", "SENTIMENT_SCORE"},
		[][]string{
			{"Goggles", "North", "Late", "-0.5"},
			{"Goggles", "South", "On Time", "0.25"},
			{"Helmet", "North", "On Time", "0.75"},
			{"Helmet", "North", "Late", "NULL"},
			{"Boots", "South", "Late", ""},
		},
	)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"one product", []string{"Helmet"}, []string{"Helmet", "Helmet"}},
		{"two products", []string{"Boots", "Goggles"}, []string{"Goggles", "Goggles", "Boots"}},
		{"unknown product", []string{"Skis"}, []string{}},
		{"no filter", nil, []string{"Goggles", "Goggles", "Helmet", "Helmet", "Boots"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := shipments().Filter("PRODUCT", tc.values)
			require.NoError(t, err)
			products, err := got.Column("PRODUCT")
			require.NoError(t, err)
			assert.Equal(t, tc.want, products)
		})
	}
}

func TestFilter_DoesNotShareRows(t *testing.T) {
	src := shipments()
	got, err := src.Filter("PRODUCT", []string{"Boots"})
	require.NoError(t, err)
	got.Rows[0][0] = "changed"
	assert.Equal(t, "Boots", src.Rows[4][0])
}

func TestMeanBy(t *testing.T) {
	tests := []struct {
		name string
		by   string
		want [][]string
	}{
		{
			name: "product",
			by:   "PRODUCT",
			want: [][]string{
				{"Goggles", "-0.125000", "2"},
				{"Helmet", "0.750000", "2"},
				{"Boots", NaNText, "1"},
			},
		},
		{
			name: "region",
			by:   "REGION",
			want: [][]string{
				{"North", "0.125000", "3"},
				{"South", "0.250000", "2"},
			},
		},
		{
			name: "status",
			by:   "STATUS",
			want: [][]string{
				{"Late", "-0.500000", "3"},
				{"On Time", "0.500000", "2"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := shipments().MeanBy(DefaultMeanColumn, tc.by)
			require.NoError(t, err)
			assert.Equal(t, []string{tc.by, DefaultMeanColumn, "ROWS"}, got.Columns)
			if diff := cmp.Diff(tc.want, got.Rows); diff != "" {
				t.Errorf("MeanBy() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMeanBy_TiesSortByName(t *testing.T) {
	ds := New([]string{"G", "V"}, [][]string{{"b", "1"}, {"a", "1"}})
	got, err := ds.MeanBy("V", "G")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "1.000000", "1"}, {"b", "1.000000", "1"}}, got.Rows)
}

func TestMeanBy_Errors(t *testing.T) {
	tests := []struct {
		name  string
		ds    *Dataset
		value string
		by    string
	}{
		{"missing value column", shipments(), "RATING", "PRODUCT"},
		{"missing group column", shipments(), DefaultMeanColumn, "WAREHOUSE"},
		{"non-numeric value", New([]string{"G", "V"}, [][]string{{"a", "high"}}), "V", "G"},
		{"nil dataset", nil, "V", "G"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.ds.MeanBy(tc.value, tc.by)
			assert.Error(t, err)
		})
	}
}

func TestMeanBy_FormatsAsTable(t *testing.T) {
	got, err := shipments().MeanBy(DefaultMeanColumn, "STATUS")
	require.NoError(t, err)

	want := " STATUS  SENTIMENT_SCORE  ROWS\n" +
		"   Late        -0.500000     3\n" +
		"On Time         0.500000     2"
	if diff := cmp.Diff(want, Format(got)); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}
