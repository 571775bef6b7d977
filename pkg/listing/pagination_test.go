package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate_ClampsPastLastPage(t *testing.T) {
	p := Paginate(47, 10, 10)

	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, 5, p.CurrentPage)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPreviousPage)
	assert.Nil(t, p.NextPageNumber)
	if assert.NotNil(t, p.PreviousPageNumber) {
		assert.Equal(t, 4, *p.PreviousPageNumber)
	}
	assert.Equal(t, 40, p.StartItemIndex)
	assert.Equal(t, 50, p.EndItemIndex)
	assert.Equal(t, 41, p.DisplayStartItem)
	assert.Equal(t, 47, p.DisplayEndItem)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.PageRange)
}

func TestPaginate_ZeroResults(t *testing.T) {
	p := Paginate(0, 1, 10)

	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 0, p.DisplayStartItem)
	assert.Equal(t, 0, p.DisplayEndItem)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPreviousPage)
	assert.Empty(t, p.PageRange)
}

func TestPaginate_ZeroResultsHugePage(t *testing.T) {
	const page = int(^uint(0)>>1) / 2
	p := Paginate(0, page, 100)

	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, page, p.CurrentPage)
	assert.Equal(t, 0, p.StartItemIndex)
	assert.Equal(t, 0, p.EndItemIndex)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, 0, p.Limit())
	assert.Equal(t, 0, p.DisplayStartItem)
	assert.Equal(t, 0, p.DisplayEndItem)
}

func TestPaginate_UnboundedPageSize(t *testing.T) {
	p := Paginate(12, 3, 0)

	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, 12, p.Limit())
	assert.Equal(t, 1, p.DisplayStartItem)
	assert.Equal(t, 12, p.DisplayEndItem)
}

func TestPaginate_Table(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page, size int
		wantPage   int
		wantPages  int
		wantStart  int
		wantEnd    int
		wantNext   bool
		wantPrev   bool
	}{
		{"first page", 25, 1, 10, 1, 3, 1, 10, true, false},
		{"middle page", 25, 2, 10, 2, 3, 11, 20, true, true},
		{"last partial page", 25, 3, 10, 3, 3, 21, 25, false, true},
		{"page below one", 25, 0, 10, 1, 3, 1, 10, true, false},
		{"negative page", 25, -4, 10, 1, 3, 1, 10, true, false},
		{"exact multiple", 20, 2, 10, 2, 2, 11, 20, false, true},
		{"single item", 1, 1, 5, 1, 1, 1, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.total, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantStart, p.DisplayStartItem)
			assert.Equal(t, tt.wantEnd, p.DisplayEndItem)
			assert.Equal(t, tt.wantNext, p.HasNextPage)
			assert.Equal(t, tt.wantPrev, p.HasPreviousPage)
		})
	}
}

func TestPaginate_IsPure(t *testing.T) {
	for _, total := range []int64{0, 1, 9, 10, 11, 47, 100} {
		for _, size := range []int{0, 1, 5, 10, 25} {
			for _, page := range []int{1, 2, 5, 50} {
				assert.Equal(t, Paginate(total, page, size), Paginate(total, page, size))
			}
		}
	}
}

func TestPaginate_PerPageOptions(t *testing.T) {
	assert.Equal(t, DefaultPerPageOptions, Paginate(10, 1, 5).PerPageOptions)
	assert.Equal(t, []int{5, 10, 15, 20, 25}, Paginate(10, 1, 5, 5, 10, 15, 20, 25).PerPageOptions)
}
