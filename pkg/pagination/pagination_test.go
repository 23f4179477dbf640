package pagination_test

import (
	"net/url"
	"testing"

	"github.com/copyfy/copyfy/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 24, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"defaults applied", 0, 0, 1, 24},
		{"negative page", -3, 10, 1, 10},
		{"oversized page size clamped", 1, 500, 1, 100},
		{"valid passthrough", 2, 50, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(testConfig())

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "12")
	values.Set("search", "sunset")
	values.Set("sort", "-createdAt")

	req := pagination.PageRequestFromQuery(values, testConfig())

	if req.Page != 2 || req.PageSize != 12 {
		t.Errorf("page/pageSize = %d/%d, want 2/12", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "sunset" {
		t.Errorf("Search = %v, want sunset", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "createdAt" || !req.Sort[0].Descending {
		t.Errorf("Sort = %+v, want descending createdAt", req.Sort)
	}
}

func TestNewPageHasMore(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		want     bool
	}{
		{"exactly full", 24, 24, true},
		{"short page", 10, 24, false},
		{"empty page", 0, 24, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]int, tt.count)
			page := pagination.NewPage(data, tt.pageSize)

			if page.HasMore != tt.want {
				t.Errorf("HasMore = %v, want %v", page.HasMore, tt.want)
			}
		})
	}
}

func TestNewPageNilData(t *testing.T) {
	page := pagination.NewPage[int](nil, 24)

	if page.Data == nil {
		t.Error("expected non-nil Data slice")
	}
	if page.HasMore {
		t.Error("expected HasMore false for empty page")
	}
}

func TestNewPageResult(t *testing.T) {
	result := pagination.NewPageResult([]int{1, 2, 3}, 45, 2, 20)

	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
	if result.Total != 45 || result.Page != 2 || result.PageSize != 20 {
		t.Errorf("unexpected metadata: %+v", result)
	}
}
