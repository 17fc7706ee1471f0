package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/pkg/logger"
)

func TestGetListParamsDefaults(t *testing.T) {
	h := NewBaseHandler(logger.NewNop())
	r := httptest.NewRequest("GET", "/Units", nil)

	params := h.GetListParams(r)

	if params.Page != 1 {
		t.Fatalf("expected page 1, got %d", params.Page)
	}
	if params.PageSize != defaultPageSize {
		t.Fatalf("expected default page size, got %d", params.PageSize)
	}
	if params.Filter.Search != nil || params.Filter.Status != nil || params.Filter.OrderBy != nil {
		t.Fatalf("empty query should leave the filter empty: %+v", params.Filter)
	}
}

func TestGetListParamsParsesQuery(t *testing.T) {
	h := NewBaseHandler(logger.NewNop())
	r := httptest.NewRequest("GET", "/Units?pageNumber=3&pageSize=25&searchQuery=+kg+&sortColumn=unitName&sortDirection=desc&status=false", nil)

	params := h.GetListParams(r)

	if params.Page != 3 || params.PageSize != 25 {
		t.Fatalf("unexpected paging: page=%d size=%d", params.Page, params.PageSize)
	}
	if params.Filter.Search == nil || *params.Filter.Search != "kg" {
		t.Fatalf("search should be trimmed: %v", params.Filter.Search)
	}
	if params.Filter.OrderBy == nil || *params.Filter.OrderBy != "unitName" {
		t.Fatalf("sort column not parsed: %v", params.Filter.OrderBy)
	}
	if params.Filter.OrderDir == nil || *params.Filter.OrderDir != "desc" {
		t.Fatalf("sort direction not parsed: %v", params.Filter.OrderDir)
	}
	if params.Filter.Status == nil || *params.Filter.Status != false {
		t.Fatalf("status filter not parsed: %v", params.Filter.Status)
	}
}

func TestGetListParamsRejectsBadValues(t *testing.T) {
	h := NewBaseHandler(logger.NewNop())
	r := httptest.NewRequest("GET", "/Units?pageNumber=-5&pageSize=17&sortDirection=sideways&status=maybe", nil)

	params := h.GetListParams(r)

	if params.Page != 1 {
		t.Fatalf("negative page should fall back to 1, got %d", params.Page)
	}
	if params.PageSize != defaultPageSize {
		t.Fatalf("disallowed page size should fall back to default, got %d", params.PageSize)
	}
	if params.Filter.OrderDir != nil {
		t.Fatalf("invalid sort direction should be dropped: %v", *params.Filter.OrderDir)
	}
	if params.Filter.Status != nil {
		t.Fatalf("unparseable status should be dropped: %v", *params.Filter.Status)
	}
}

func TestValidateRequestMapsFieldNames(t *testing.T) {
	h := NewBaseHandler(logger.NewNop())

	details, err := h.ValidateRequest(domain.UserCreateRequest{
		UserName: "ab",
		Email:    "not-an-email",
		Password: "longenough1",
		FullName: "Tester",
	})
	if err != nil {
		t.Fatalf("validate request: %v", err)
	}

	byField := map[string]string{}
	for _, d := range details {
		byField[d.PropertyName] = d.ErrorMessage
	}

	if byField["userName"] != "Minimum length is 3" {
		t.Fatalf("userName violation not mapped: %v", byField)
	}
	if byField["email"] != "Invalid email format" {
		t.Fatalf("email violation not mapped: %v", byField)
	}
	if _, ok := byField["UserName"]; ok {
		t.Fatalf("property names must be camelCase, got %v", byField)
	}
}

func TestValidateRequestPassesValidInput(t *testing.T) {
	h := NewBaseHandler(logger.NewNop())

	details, err := h.ValidateRequest(domain.UnitCreateRequest{
		UnitName:     "Kilogram",
		Abbreviation: "kg",
	})
	if err != nil {
		t.Fatalf("validate request: %v", err)
	}
	if details != nil {
		t.Fatalf("valid input should yield no details: %v", details)
	}
}
