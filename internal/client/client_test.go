package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/pkg/listview"
	"github.com/moon90/rms-admin/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestClientLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Auth/login":
			var req domain.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode login request: %v", err)
			}
			if req.UserName != "admin" {
				t.Errorf("unexpected user name %q", req.UserName)
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"isSuccess": true,
				"message":   "Login successful",
				"data": map[string]interface{}{
					"accessToken":     "access-token-123",
					"refreshToken":    "refresh-token-456",
					"rolePermissions": []string{"users.view"},
					"menuPermissions": []string{"Users"},
				},
			})
		case "/Units":
			if got := r.Header.Get("Authorization"); got != "Bearer access-token-123" {
				t.Errorf("token not attached to follow-up request, got %q", got)
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"isSuccess": true,
				"message":   "OK",
				"data":      map[string]interface{}{"items": []interface{}{}, "totalRecords": 0},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewNop())

	resp, err := c.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken != "access-token-123" {
		t.Fatalf("unexpected access token %q", resp.AccessToken)
	}

	if _, err := c.UnitsFetcher()(context.Background(), listview.DefaultQuery()); err != nil {
		t.Fatalf("authenticated fetch: %v", err)
	}
}

func TestClientListQueryEncoding(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"isSuccess": true,
			"message":   "OK",
			"data": map[string]interface{}{
				"items": []map[string]interface{}{
					{"unitID": 1, "unitName": "Kilogram", "abbreviation": "kg", "status": true},
				},
				"totalRecords": 11,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewNop())

	status := true
	page, err := c.UnitsFetcher()(context.Background(), listview.Query{
		PageNumber:    2,
		PageSize:      10,
		SearchQuery:   "kg",
		SortColumn:    "unitName",
		SortDirection: listview.SortDesc,
		StatusFilter:  &status,
	})
	if err != nil {
		t.Fatalf("fetch units: %v", err)
	}

	want := map[string]string{
		"pageNumber":    "2",
		"pageSize":      "10",
		"searchQuery":   "kg",
		"sortColumn":    "unitName",
		"sortDirection": "desc",
		"status":        "true",
	}
	for key, value := range want {
		if query[key] != value {
			t.Fatalf("query param %s = %q, want %q", key, query[key], value)
		}
	}

	if page.TotalRecords != 11 || len(page.Items) != 1 {
		t.Fatalf("page not decoded: %+v", page)
	}
	if page.Items[0].UnitName != "Kilogram" {
		t.Fatalf("item not decoded: %+v", page.Items[0])
	}
}

func TestClientFailureBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"isSuccess": false,
			"message":   "Validation failed",
			"details": []map[string]string{
				{"propertyName": "unitName", "errorMessage": "Unit name is required"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewNop())

	_, err := c.CreateUnit(context.Background(), domain.UnitCreateRequest{})
	if err == nil {
		t.Fatalf("expected error from unsuccessful envelope")
	}

	var apiErr *listview.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *listview.APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "Validation failed" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	fields := apiErr.FieldErrors()
	if fields["unitName"] != "Unit name is required" {
		t.Fatalf("details not mapped: %v", fields)
	}
}

func TestClientSetStatusSendsExplicitFalse(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody domain.StatusRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode status request: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"isSuccess": true,
			"message":   "Unit status updated",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewNop())
	if err := c.SetUnitStatus(context.Background(), 5, false); err != nil {
		t.Fatalf("set unit status: %v", err)
	}

	if gotMethod != http.MethodPut || gotPath != "/Units/5/status" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotBody.Status == nil || *gotBody.Status {
		t.Fatalf("status false must be sent explicitly, got %+v", gotBody)
	}
}

func TestClientProductIngredientsFetcherScopesToProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("productID"); got != "7" {
			t.Errorf("expected productID=7, got %q", got)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"isSuccess": true,
			"message":   "OK",
			"data":      map[string]interface{}{"items": []interface{}{}, "totalRecords": 0},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewNop())
	if _, err := c.ProductIngredientsFetcher(7)(context.Background(), listview.DefaultQuery()); err != nil {
		t.Fatalf("fetch product ingredients: %v", err)
	}
}
