package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/clicklar/internal/store"
)

// CategoryHandler serves the category list.
type CategoryHandler struct {
	store store.Store
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(s store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

// CategoriesOutput is the sorted list of category names.
type CategoriesOutput struct {
	Body []string
}

// List returns every category name.
func (h *CategoryHandler) List(ctx context.Context, _ *struct{}) (*CategoriesOutput, error) {
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return &CategoriesOutput{Body: categories}, nil
}

// RegisterCategoryRoutes registers the category endpoint.
func RegisterCategoryRoutes(api huma.API, h *CategoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/categories",
		Summary:     "List categories",
		Description: "Returns the registered categories plus any category used by a listing.",
		Tags:        []string{"categories"},
	}, h.List)
}
