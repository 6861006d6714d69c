package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPageable(t *testing.T) {
	requested := RequestedPage{Number: 5, Size: 25}

	pageable := ToPageable(requested)

	assert.Equal(t, 5, pageable.Number)
	assert.Equal(t, 25, pageable.Size)
	assert.False(t, pageable.Sort.IsSorted())
}

func TestWithSort_WhenUnsorted(t *testing.T) {
	initial := Of(0, 10)
	assert.False(t, initial.Sort.IsSorted())

	actual := initial.WithSort(By("propertyToSortBy"))

	assert.Equal(t, initial.Number, actual.Number)
	assert.Equal(t, initial.Size, actual.Size)
	assert.Equal(t, By("propertyToSortBy"), actual.Sort)
}

func TestWithSort_WhenSomeSortIsPresent(t *testing.T) {
	initial := Of(0, 10).WithSort(By("propertyAlreadySortedBy"))
	assert.True(t, initial.Sort.IsSorted())

	actual := initial.WithSort(By("propertyToSortBy"))

	assert.Equal(t, initial.Number, actual.Number)
	assert.Equal(t, initial.Size, actual.Size)

	_, present := actual.Sort.OrderFor("propertyAlreadySortedBy")
	assert.True(t, present)
	_, added := actual.Sort.OrderFor("propertyToSortBy")
	assert.True(t, added)

	// 原条件保持在追加条件之前
	assert.Equal(t, Sort{Asc("propertyAlreadySortedBy"), Asc("propertyToSortBy")}, actual.Sort)
}

func TestWithSort_RespectsDirections(t *testing.T) {
	cases := []struct {
		name     string
		existing Direction
		added    Direction
	}{
		{"AscAsc", ASC, ASC},
		{"AscDesc", ASC, DESC},
		{"DescAsc", DESC, ASC},
		{"DescDesc", DESC, DESC},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			initial := Of(0, 10).WithSort(ByDirection(tc.existing, "alreadySortedBy"))

			actual := initial.WithSort(ByDirection(tc.added, "toSortBy"))

			assert.Equal(t, initial.Number, actual.Number)
			assert.Equal(t, initial.Size, actual.Size)

			existingOrder, ok := actual.Sort.OrderFor("alreadySortedBy")
			assert.True(t, ok)
			assert.Equal(t, tc.existing, existingOrder.Direction)

			addedOrder, ok := actual.Sort.OrderFor("toSortBy")
			assert.True(t, ok)
			assert.Equal(t, tc.added, addedOrder.Direction)
		})
	}
}

func TestWithSort_RespectsDirection_IfWasUnsorted(t *testing.T) {
	for _, direction := range []Direction{ASC, DESC} {
		t.Run(direction.Value(), func(t *testing.T) {
			initial := Of(0, 10)
			assert.False(t, initial.Sort.IsSorted())

			actual := initial.WithSort(ByDirection(direction, "propertyToSortBy"))

			assert.Equal(t, initial.Number, actual.Number)
			assert.Equal(t, initial.Size, actual.Size)

			order, ok := actual.Sort.OrderFor("propertyToSortBy")
			assert.True(t, ok)
			assert.Equal(t, direction, order.Direction)
		})
	}
}

func TestWithSort_EmptySortIsIdentity(t *testing.T) {
	initial := Of(3, 20).WithSort(ByDirection(DESC, "create_time"))

	actual := initial.WithSort(nil)

	assert.Equal(t, initial, actual)
}

func TestWithSort_DoesNotMutateReceiver(t *testing.T) {
	initial := Of(0, 10).WithSort(By("a"))

	_ = initial.WithSort(ByDirection(DESC, "b"))

	assert.Equal(t, Sort{Asc("a")}, initial.Sort)
}

func TestSortClause(t *testing.T) {
	assert.Equal(t, "", Sort{}.Clause())
	assert.Equal(t, "title ASC", By("title").Clause())
	assert.Equal(t,
		"create_time DESC, id ASC",
		ByDirection(DESC, "create_time").And(By("id")).Clause())
}

func TestPageableLimitOffset(t *testing.T) {
	pageable := Of(5, 25)

	assert.Equal(t, 25, pageable.Limit())
	assert.Equal(t, 125, pageable.Offset())

	first := Of(0, 10)
	assert.Equal(t, 0, first.Offset())
}
