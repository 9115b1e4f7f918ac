package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func commitList(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("c%d", i)
	}
	return out
}

func TestCommitPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		commits int
		n       int
		want    []Pair
	}{
		{
			name: "no commits",
			n:    1,
			want: []Pair{{EmptyTree, Head}},
		},
		{
			name:    "fewer than n+1 commits",
			commits: 3,
			n:       3,
			want:    []Pair{{EmptyTree, Head}},
		},
		{
			name:    "n of one pairs every commit with its predecessor",
			commits: 3,
			n:       1,
			want:    []Pair{{EmptyTree, "c0"}, {"c0", "c1"}, {"c1", "c2"}},
		},
		{
			name:    "groups ending on the last commit",
			commits: 5,
			n:       2,
			want:    []Pair{{EmptyTree, "c0"}, {"c0", "c2"}, {"c2", "c4"}},
		},
		{
			name:    "trailing pair reaches HEAD",
			commits: 6,
			n:       2,
			want:    []Pair{{EmptyTree, "c0"}, {"c0", "c2"}, {"c2", "c4"}, {"c4", Head}},
		},
		{
			name:    "zero group size is treated as one",
			commits: 2,
			n:       0,
			want:    []Pair{{EmptyTree, "c0"}, {"c0", "c1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CommitPairs(commitList(tt.commits), tt.n))
		})
	}
}

func TestCommitPairs_Chained(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 40).Draw(t, "total")
		n := rapid.IntRange(1, 10).Draw(t, "n")

		pairs := CommitPairs(commitList(total), n)
		require.NotEmpty(t, pairs)
		assert.Equal(t, EmptyTree, pairs[0].From)

		for i := 1; i < len(pairs); i++ {
			assert.Equal(t, pairs[i-1].To, pairs[i].From, "pair %d does not continue the previous one", i)
		}
		last := pairs[len(pairs)-1].To
		if total > 0 && total >= n+1 {
			assert.Contains(t, []string{Head, fmt.Sprintf("c%d", total-1)}, last)
		} else {
			assert.Equal(t, Head, last)
		}
	})
}

func TestTagPairs(t *testing.T) {
	t.Parallel()

	tags := []string{"v1", "v2", "v3"}

	tests := []struct {
		name  string
		tags  []string
		start string
		want  []Pair
	}{
		{
			name: "no tags",
			want: []Pair{{EmptyTree, Head}},
		},
		{
			name: "single tag",
			tags: []string{"v1"},
			want: []Pair{{EmptyTree, "v1"}, {"v1", Head}},
		},
		{
			name: "all tags",
			tags: tags,
			want: []Pair{{EmptyTree, "v1"}, {"v1", "v2"}, {"v2", "v3"}, {"v3", Head}},
		},
		{
			name:  "from a start tag",
			tags:  tags,
			start: "v2",
			want:  []Pair{{"v2", "v3"}, {"v3", Head}},
		},
		{
			name:  "start at the newest tag",
			tags:  tags,
			start: "v3",
			want:  []Pair{{"v3", Head}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := TagPairs(tt.tags, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagPairs_UnknownStart(t *testing.T) {
	t.Parallel()

	_, err := TagPairs([]string{"v1", "v2"}, "v9")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var notFound *TagNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "v9", notFound.Tag)
	assert.Equal(t, []string{"v1", "v2"}, notFound.Available)
	assert.Contains(t, err.Error(), "v1, v2")
}

func TestTagPairs_UnknownStartWithoutTags(t *testing.T) {
	t.Parallel()

	_, err := TagPairs(nil, "v1")
	assert.True(t, IsNotFound(err))
}

func TestShortRef(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "empty-tree", ShortRef(EmptyTree))
	assert.Equal(t, "1a2b3c4", ShortRef("1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"))
	assert.Equal(t, "v1.2.0", ShortRef("v1.2.0"))
	assert.Equal(t, "HEAD", ShortRef(Head))
	assert.Equal(t, "empty-tree..HEAD", Pair{EmptyTree, Head}.String())
}
