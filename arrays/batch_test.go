package arrays_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dorahacksglobal/appchain-grant-vota/arrays"
)

func TestBatch(t *testing.T) {
	cases := []struct {
		name      string
		input     []int
		batchSize int
		expected  [][]int
	}{
		{"even", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"uneven", []int{1, 2, 3}, 2, [][]int{{1, 2}, {3}}},
		{"larger than input", []int{1, 2}, 5, [][]int{{1, 2}}},
		{"zero batch size", []int{1, 2, 3}, 0, [][]int{{1, 2, 3}}},
		{"empty", []int{}, 3, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, arrays.Batch(tc.input, tc.batchSize))
		})
	}
}

func TestBatch_DoesNotAliasFollowingBatch(t *testing.T) {
	batched := arrays.Batch([]int{1, 2, 3, 4}, 2)

	batched[0] = append(batched[0], 99)
	require.Equal(t, []int{3, 4}, batched[1])
}
