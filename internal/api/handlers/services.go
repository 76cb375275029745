package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/clicklar/internal/store"
	domain "github.com/donaldgifford/clicklar/pkg/types"
	"github.com/donaldgifford/clicklar/pkg/validate"
)

// ServiceHandler serves public and private service listings.
type ServiceHandler struct {
	store store.Store
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(s store.Store) *ServiceHandler {
	return &ServiceHandler{store: s}
}

// ListServicesInput holds the public listing filters.
type ListServicesInput struct {
	Category string `query:"category" doc:"Exact category name; omit or \"all\" for every category" example:"Pintura"`
	Search   string `query:"search"   doc:"Case-insensitive text matched against title and description" example:"parede"`
}

// ListingsOutput is a list of listings.
type ListingsOutput struct {
	Body []domain.Listing
}

// ListingOutput is a single listing.
type ListingOutput struct {
	Body domain.Listing
}

// ServiceIDInput identifies a service by path.
type ServiceIDInput struct {
	ID string `path:"id" doc:"Service ID"`
}

// ServiceBodyInput is the create form.
type ServiceBodyInput struct {
	Body domain.ServiceInput
}

// UpdateServiceInput is the edit form of an existing service.
type UpdateServiceInput struct {
	ID   string `path:"id" doc:"Service ID"`
	Body domain.ServiceInput
}

// RateServiceInput is a star rating of a service.
type RateServiceInput struct {
	ID   string `path:"id" doc:"Service ID"`
	Body domain.Rating
}

// ListPublic returns every listing matching the filters, newest first.
func (h *ServiceHandler) ListPublic(ctx context.Context, in *ListServicesInput) (*ListingsOutput, error) {
	q := &store.ServiceQuery{Category: in.Category, Search: in.Search}
	q.Normalize()

	services, err := h.store.ListServices(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing services", err)
	}
	return h.listings(ctx, services)
}

// GetPublic returns one listing.
func (h *ServiceHandler) GetPublic(ctx context.Context, in *ServiceIDInput) (*ListingOutput, error) {
	s, err := h.store.GetService(ctx, in.ID)
	if err != nil {
		return nil, storeError(err, "getting service", "service not found")
	}
	return h.listing(ctx, s)
}

// Mine returns the caller's own listings.
func (h *ServiceHandler) Mine(ctx context.Context, _ *struct{}) (*ListingsOutput, error) {
	services, err := h.store.ListServicesByOwner(ctx, userID(ctx))
	if err != nil {
		return nil, huma.Error500InternalServerError("listing services", err)
	}
	return h.listings(ctx, services)
}

// Create publishes a listing owned by the caller.
func (h *ServiceHandler) Create(ctx context.Context, in *ServiceBodyInput) (*ListingOutput, error) {
	form := trimService(in.Body)
	if err := validate.Service(&form); err != nil {
		return nil, validationError(err)
	}

	s := &store.Service{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Price:       form.Price,
		OwnerID:     userID(ctx),
	}
	if err := h.store.CreateService(ctx, s); err != nil {
		return nil, storeError(err, "creating service", "user not found")
	}
	return h.listing(ctx, s)
}

// Update edits a listing owned by the caller.
func (h *ServiceHandler) Update(ctx context.Context, in *UpdateServiceInput) (*ListingOutput, error) {
	form := trimService(in.Body)
	if err := validate.Service(&form); err != nil {
		return nil, validationError(err)
	}

	s, err := h.owned(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	s.Title = form.Title
	s.Description = form.Description
	s.Category = form.Category
	s.Price = form.Price
	if err := h.store.UpdateService(ctx, s); err != nil {
		return nil, storeError(err, "updating service", "service not found")
	}
	return h.listing(ctx, s)
}

// Delete removes a listing owned by the caller.
func (h *ServiceHandler) Delete(ctx context.Context, in *ServiceIDInput) (*struct{}, error) {
	if _, err := h.owned(ctx, in.ID); err != nil {
		return nil, err
	}
	if err := h.store.DeleteService(ctx, in.ID); err != nil {
		return nil, storeError(err, "deleting service", "service not found")
	}
	return nil, nil
}

// Rate records the caller's rating of someone else's listing. Rating again
// replaces the earlier rating.
func (h *ServiceHandler) Rate(ctx context.Context, in *RateServiceInput) (*StatusOutput, error) {
	if err := validate.Rating(in.Body.Rating); err != nil {
		return nil, validationError(err)
	}

	s, err := h.store.GetService(ctx, in.ID)
	if err != nil {
		return nil, storeError(err, "getting service", "service not found")
	}
	uid := userID(ctx)
	if s.OwnerID == uid {
		return nil, huma.Error400BadRequest("you cannot rate your own service")
	}

	if err := h.store.RateService(ctx, in.ID, uid, in.Body.Rating); err != nil {
		return nil, storeError(err, "rating service", "service not found")
	}
	return status("rated"), nil
}

// owned loads a service and checks the caller owns it.
func (h *ServiceHandler) owned(ctx context.Context, id string) (*store.Service, error) {
	s, err := h.store.GetService(ctx, id)
	if err != nil {
		return nil, storeError(err, "getting service", "service not found")
	}
	if s.OwnerID != userID(ctx) {
		return nil, huma.Error403Forbidden("you can only change your own services")
	}
	return s, nil
}

func (h *ServiceHandler) listing(ctx context.Context, s *store.Service) (*ListingOutput, error) {
	p, err := h.provider(ctx, s.OwnerID)
	if err != nil {
		return nil, err
	}
	return &ListingOutput{Body: toListing(s, p)}, nil
}

func (h *ServiceHandler) listings(ctx context.Context, services []store.Service) (*ListingsOutput, error) {
	providers := make(map[string]*domain.Provider)
	out := &ListingsOutput{Body: make([]domain.Listing, 0, len(services))}
	for i := range services {
		s := &services[i]
		p, ok := providers[s.OwnerID]
		if !ok {
			var err error
			if p, err = h.provider(ctx, s.OwnerID); err != nil {
				return nil, err
			}
			providers[s.OwnerID] = p
		}
		out.Body = append(out.Body, toListing(s, p))
	}
	return out, nil
}

// provider returns the public part of a service owner. A missing owner
// yields a nil provider rather than failing the listing.
func (h *ServiceHandler) provider(ctx context.Context, ownerID string) (*domain.Provider, error) {
	u, err := h.store.GetUser(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("getting provider", err)
	}
	return &domain.Provider{ID: u.ID, Name: u.Name, Phone: u.Phone}, nil
}

func toListing(s *store.Service, p *domain.Provider) domain.Listing {
	return domain.Listing{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		Category:      s.Category,
		Price:         s.Price,
		Provider:      p,
		AverageRating: math.Round(s.AverageRating()*10) / 10,
		RatingsCount:  len(s.Ratings),
	}
}

func trimService(in domain.ServiceInput) domain.ServiceInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

// RegisterServiceRoutes registers the listing endpoints. Private routes
// require a bearer token verified by tokens.
func RegisterServiceRoutes(api huma.API, h *ServiceHandler, tokens TokenIssuer) {
	huma.Register(api, huma.Operation{
		OperationID: "list-public-services",
		Method:      http.MethodGet,
		Path:        "/api/services/public",
		Summary:     "List services",
		Description: "Returns every listing matching the optional category and search filters, newest first.",
		Tags:        []string{"services"},
	}, h.ListPublic)

	huma.Register(api, huma.Operation{
		OperationID: "get-public-service",
		Method:      http.MethodGet,
		Path:        "/api/services/public/{id}",
		Summary:     "Get a service",
		Tags:        []string{"services"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetPublic)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID: "list-my-services",
		Method:      http.MethodGet,
		Path:        "/api/services/private/mine",
		Summary:     "List my services",
		Tags:        []string{"services"},
	}), h.Mine)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID:   "create-service",
		Method:        http.MethodPost,
		Path:          "/api/services/private",
		Summary:       "Publish a service",
		Tags:          []string{"services"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}), h.Create)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID: "update-service",
		Method:      http.MethodPut,
		Path:        "/api/services/private/{id}",
		Summary:     "Edit a service",
		Tags:        []string{"services"},
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}), h.Update)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID:   "delete-service",
		Method:        http.MethodDelete,
		Path:          "/api/services/private/{id}",
		Summary:       "Delete a service",
		Tags:          []string{"services"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusForbidden, http.StatusNotFound},
	}), h.Delete)

	huma.Register(api, private(api, tokens, huma.Operation{
		OperationID: "rate-service",
		Method:      http.MethodPost,
		Path:        "/api/services/private/{id}/rate",
		Summary:     "Rate a service",
		Description: "Records a 1-5 star rating. Owners cannot rate their own services.",
		Tags:        []string{"services"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}), h.Rate)
}
