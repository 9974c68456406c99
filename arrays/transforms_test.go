package arrays_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dorahacksglobal/appchain-grant-vota/arrays"
)

func TestMap(t *testing.T) {
	projectIDs := []uint64{1, 2, 3}
	formatted := arrays.Map(projectIDs, func(id uint64) string { return strconv.FormatUint(id, 10) })

	require.Equal(t, []string{"1", "2", "3"}, formatted)
}

func TestFilter(t *testing.T) {
	actions := []string{"vote", "", "end_round", "  "}
	nonEmpty := arrays.Filter(actions, func(s string) bool { return strings.TrimSpace(s) != "" })

	require.Equal(t, []string{"vote", "end_round"}, nonEmpty)
}

func TestReduce(t *testing.T) {
	sum := arrays.Reduce([]int{1, 2, 3}, func(acc, v int) int { return acc + v }, 0)
	require.Equal(t, 6, sum)

	joined := arrays.Reduce([]string{"ab", "cd"}, func(acc, v string) string { return acc + v }, ">")
	require.Equal(t, ">abcd", joined)
}

func TestFromEnd(t *testing.T) {
	events := []string{"message", "transfer", "execute", "wasm", "batch_vote"}

	last, ok := arrays.FromEnd(events, 1)
	require.True(t, ok)
	require.Equal(t, "batch_vote", last)

	fourthFromEnd, ok := arrays.FromEnd(events, 4)
	require.True(t, ok)
	require.Equal(t, "transfer", fourthFromEnd)

	_, ok = arrays.FromEnd(events, 6)
	require.False(t, ok)

	_, ok = arrays.FromEnd(events, 0)
	require.False(t, ok)
}
