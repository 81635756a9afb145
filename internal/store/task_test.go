package store

import (
	"testing"

	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTaskQueryNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   TaskQuery
		want TaskQuery
	}{
		{
			name: "zero value gets defaults",
			in:   TaskQuery{},
			want: TaskQuery{Page: 1, Limit: DefaultPageLimit},
		},
		{
			name: "limit clamped to maximum",
			in:   TaskQuery{Page: 3, Limit: 500},
			want: TaskQuery{Page: 3, Limit: MaxPageLimit},
		},
		{
			name: "negative page and limit",
			in:   TaskQuery{Page: -2, Limit: -1},
			want: TaskQuery{Page: 1, Limit: DefaultPageLimit},
		},
		{
			name: "allow-listed sort preserved",
			in:   TaskQuery{Page: 1, Limit: 10, SortBy: "dueDate", SortOrder: SortAsc},
			want: TaskQuery{Page: 1, Limit: 10, SortBy: "dueDate", SortOrder: SortAsc},
		},
		{
			name: "sort field outside allow-list dropped",
			in:   TaskQuery{Page: 1, Limit: 10, SortBy: "user_id; DROP TABLE tasks", SortOrder: SortDesc},
			want: TaskQuery{Page: 1, Limit: 10, SortBy: "", SortOrder: SortDesc},
		},
		{
			name: "invalid sort order dropped",
			in:   TaskQuery{Page: 1, Limit: 10, SortBy: "title", SortOrder: "sideways"},
			want: TaskQuery{Page: 1, Limit: 10, SortBy: "title", SortOrder: ""},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			q := tc.in
			q.Normalize()
			assert.Equal(t, tc.want, q)
		})
	}
}

func TestTaskQueryOffset(t *testing.T) {
	t.Parallel()

	q := TaskQuery{Page: 3, Limit: 10}
	q.Normalize()
	assert.Equal(t, 20, q.Offset())

	q = TaskQuery{}
	q.Normalize()
	assert.Equal(t, 0, q.Offset())
}

func TestSortColumn(t *testing.T) {
	t.Parallel()

	for field, want := range map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"dueDate":   "due_date",
		"priority":  "priority",
		"title":     "title",
	} {
		col, ok := SortColumn(field)
		assert.True(t, ok, field)
		assert.Equal(t, want, col)
	}

	_, ok := SortColumn("completed")
	assert.False(t, ok)
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	t.Run("middle page", func(t *testing.T) {
		t.Parallel()

		items := make([]int, 10)
		page := NewPage(items, 2, 10, 25)

		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasNextPage)
		assert.True(t, page.HasPrevPage)
	})

	t.Run("single page", func(t *testing.T) {
		t.Parallel()

		page := NewPage([]int{1, 2, 3}, 1, 10, 3)
		assert.Equal(t, 1, page.TotalPages)
		assert.False(t, page.HasNextPage)
		assert.False(t, page.HasPrevPage)
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		page := NewPage[int](nil, 1, 10, 0)
		assert.NotNil(t, page.Items, "items must serialize as [] not null")
		assert.Equal(t, 0, page.TotalPages)
		assert.False(t, page.HasNextPage)
		assert.False(t, page.HasPrevPage)
	})
}

func TestTaskPatchIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, (&TaskPatch{}).IsEmpty())

	title := "new title"
	assert.False(t, (&TaskPatch{Title: &title}).IsEmpty())

	p := domain.PriorityHigh
	assert.False(t, (&TaskPatch{Priority: &p}).IsEmpty())
}
