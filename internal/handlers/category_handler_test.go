package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/pagination"
	"gestaofinanceira/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn  func(name string, kind models.Kind, description string) (*models.Category, error)
	listCategoriesFn  func(kind *models.Kind, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	getCategoryByIDFn func(categoryID string) (*models.Category, error)
	updateCategoryFn  func(categoryID string, update services.CategoryUpdate) (*models.Category, error)
	deleteCategoryFn  func(categoryID string) (int64, error)
}

func (m *mockCategoryService) CreateCategory(name string, kind models.Kind, description string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(name, kind, description)
	}
	return &models.Category{Base: models.Base{ID: testCategoryID}, Name: name, Kind: kind}, nil
}

func (m *mockCategoryService) ListCategories(kind *models.Kind, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(kind, page)
	}
	resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(categoryID)
	}
	return &models.Category{Base: models.Base{ID: categoryID}}, nil
}

func (m *mockCategoryService) UpdateCategory(categoryID string, update services.CategoryUpdate) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(categoryID, update)
	}
	return &models.Category{Base: models.Base{ID: categoryID}}, nil
}

func (m *mockCategoryService) DeleteCategory(categoryID string) (int64, error) {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(categoryID)
	}
	return 0, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetCategories)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotDesc string
		catSvc := &mockCategoryService{
			createCategoryFn: func(name string, kind models.Kind, desc string) (*models.Category, error) {
				gotDesc = desc
				return &models.Category{Base: models.Base{ID: testCategoryID}, Name: name, Kind: kind}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Mercado","kind":"expense","description":"compras do mês"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Mercado" {
			t.Errorf("expected Mercado, got %v", cat["name"])
		}
		if cat["kind"] != "expense" {
			t.Errorf("expected expense, got %v", cat["kind"])
		}
		if gotDesc != "compras do mês" {
			t.Errorf("expected description to be passed through, got %q", gotDesc)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_CATEGORY" {
			t.Errorf("expected one CREATE_CATEGORY audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"kind":"expense"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing kind", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Mercado"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid kind", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Mercado","kind":"transfer"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(_ string, _ models.Kind, _ string) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Mercado","kind":"expense"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries, got %d", len(audit.entries))
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/categories", handler.CreateCategory)

		rec := doRequest(r, "POST", "/categories", `{"name":"Mercado","kind":"expense"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetCategories(t *testing.T) {
	t.Run("returns 200 with all categories", func(t *testing.T) {
		catSvc := &mockCategoryService{
			listCategoriesFn: func(kind *models.Kind, _ pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				if kind != nil {
					t.Errorf("expected no kind filter, got %v", *kind)
				}
				resp := pagination.NewPageResponse([]models.Category{
					{Base: models.Base{ID: testCategoryID}, Name: "Mercado", Kind: models.KindExpense},
					{Base: models.Base{ID: testRecordID}, Name: "Salário", Kind: models.KindIncome},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		data := parseJSON(t, rec)["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 categories, got %d", len(data))
		}
	})

	t.Run("filters by kind and passes pagination", func(t *testing.T) {
		var capturedKind models.Kind
		var capturedPage pagination.PageRequest
		catSvc := &mockCategoryService{
			listCategoriesFn: func(kind *models.Kind, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				if kind != nil {
					capturedKind = *kind
				}
				capturedPage = page
				resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?kind=income&page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedKind != models.KindIncome {
			t.Errorf("expected income, got %s", capturedKind)
		}
		if capturedPage.Page != 2 || capturedPage.PageSize != 5 {
			t.Errorf("expected page 2 size 5, got %+v", capturedPage)
		}
	})

	t.Run("returns 400 on invalid kind filter", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?kind=invalid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestCategoryHandler_GetCategoryByID(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getCategoryByIDFn: func(catID string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: catID}, Name: "Mercado"}, nil
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["id"] != testCategoryID {
			t.Errorf("expected %s, got %v", testCategoryID, cat["id"])
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getCategoryByIDFn: func(_ string) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 200 and passes only provided fields", func(t *testing.T) {
		var captured services.CategoryUpdate
		catSvc := &mockCategoryService{
			updateCategoryFn: func(catID string, update services.CategoryUpdate) (*models.Category, error) {
				captured = update
				return &models.Category{Base: models.Base{ID: catID}, Name: *update.Name, Kind: models.KindExpense}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/"+testCategoryID, `{"name":"Feira"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Name == nil || *captured.Name != "Feira" {
			t.Errorf("expected name Feira, got %v", captured.Name)
		}
		if captured.Kind != nil || captured.Description != nil {
			t.Errorf("expected kind and description to be nil, got %+v", captured)
		}
		if len(audit.entries) != 1 || audit.entries[0].resourceID != testCategoryID {
			t.Errorf("expected audit entry for %s, got %+v", testCategoryID, audit.entries)
		}
	})

	t.Run("returns 400 on invalid kind", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/"+testCategoryID, `{"kind":"other"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on name collision", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(_ string, _ services.CategoryUpdate) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "PUT", "/categories/"+testCategoryID, `{"name":"Luz"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 with removed record count", func(t *testing.T) {
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(_ string) (int64, error) {
				return 3, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewCategoryHandler(catSvc, audit)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if removed := parseJSON(t, rec)["records_removed"]; removed != float64(3) {
			t.Errorf("expected 3 records removed, got %v", removed)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_CATEGORY" {
			t.Errorf("expected DELETE_CATEGORY audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(_ string) (int64, error) {
				return 0, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewCategoryHandler(catSvc, &mockAuditService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
