package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/clicklar/internal/api/handlers"
	"github.com/donaldgifford/clicklar/internal/auth"
	"github.com/donaldgifford/clicklar/internal/store"
	"github.com/donaldgifford/clicklar/pkg/logger"
	domain "github.com/donaldgifford/clicklar/pkg/types"
)

const testPassword = "segredo123"

type harness struct {
	api    humatest.TestAPI
	store  *store.MemoryStore
	tokens *auth.Issuer
}

// newHarness serves the full API over a seeded memory store. Ana owns the
// painting listing and Bruno owns the plumbing listing.
func newHarness(t *testing.T) *harness {
	t.Helper()

	st := store.NewMemoryStore()
	seed := &store.Seed{
		Categories: []string{"Pintura", "Encanamento", "Aulas"},
		Users: []store.SeedUser{
			{Name: "Ana Souza", Email: "ana@example.com", Phone: "(11) 98765-4321", Password: testPassword},
			{Name: "Bruno Lima", Email: "bruno@example.com", Phone: "21912345678", Password: testPassword},
		},
		Services: []store.SeedService{
			{
				Title: "Pintura de parede", Description: "Pintura interna e externa",
				Category: "Pintura", Price: 350, Owner: "ana@example.com",
				Ratings: map[string]int{"bruno@example.com": 4},
			},
			{
				Title: "Conserto de vazamento", Description: "Pia e chuveiro",
				Category: "Encanamento", Price: 120, Owner: "bruno@example.com",
			},
		},
	}
	require.NoError(t, seed.Apply(context.Background(), st))

	tokens := auth.NewIssuer("handler-test-secret")
	_, api := humatest.New(t, handlers.Config("test"))
	handlers.Register(api, st, tokens, logger.Discard())

	return &harness{api: api, store: st, tokens: tokens}
}

func (h *harness) user(t *testing.T, email string) *store.User {
	t.Helper()
	u, err := h.store.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	return u
}

// bearer returns an Authorization header argument for humatest.
func (h *harness) bearer(t *testing.T, email string) string {
	t.Helper()
	u := h.user(t, email)
	token, err := h.tokens.Issue(u.ID, u.Name, u.Email)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func (h *harness) serviceID(t *testing.T, title string) string {
	t.Helper()
	services, err := h.store.ListServices(context.Background(), &store.ServiceQuery{Search: title})
	require.NoError(t, err)
	require.Len(t, services, 1)
	return services[0].ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[struct {
		Error string `json:"error"`
	}](t, rec).Error
}

func listingTitles(ls []domain.Listing) []string {
	titles := make([]string, 0, len(ls))
	for _, l := range ls {
		titles = append(titles, l.Title)
	}
	return titles
}
