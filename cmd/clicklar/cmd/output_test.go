package cmd

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/clicklar/internal/browse"
	domain "github.com/donaldgifford/clicklar/pkg/types"
)

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price float64
		want  string
	}{
		{0, "N/A"},
		{-5, "N/A"},
		{math.NaN(), "N/A"},
		{math.Inf(1), "N/A"},
		{0.5, "R$ 0,50"},
		{80, "R$ 80,00"},
		{150.5, "R$ 150,50"},
		{1234.56, "R$ 1.234,56"},
		{999.999, "R$ 1.000,00"},
		{9_999_999, "R$ 9.999.999,00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatPrice(tt.price))
		})
	}
}

func TestFormatStars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating float64
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{1, "★☆☆☆☆"},
		{3.5, "★★★½☆"},
		{3.74, "★★★½☆"},
		{3.76, "★★★★☆"},
		{5, "★★★★★"},
		{7, "★★★★★"},
		{-1, "☆☆☆☆☆"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatStars(tt.rating))
		})
	}
}

func TestFormatRating(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "☆☆☆☆☆ (0)", formatRating(&domain.Listing{}))
	assert.Equal(t, "★★★★☆ 4.3 (7)", formatRating(&domain.Listing{AverageRating: 4.3, RatingsCount: 7}))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "curto", truncate("curto", 10))
	assert.Equal(t, "Instalação...", truncate("Instalação elétrica completa", 13))
}

func TestEmptyMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `No services found for "all".`, emptyMessage(domain.AllCategories, ""))
	assert.Equal(t, `No services found for "all".`, emptyMessage("", "   "))
	assert.Equal(t,
		`No services found for "Pintura" matching "teto".`,
		emptyMessage("Pintura", " teto "),
	)
}

func TestPrintListingsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := printListingsTable(&buf, []domain.Listing{{
		ID:            "s1",
		Title:         "Pintura de parede",
		Category:      "Pintura",
		Price:         350,
		AverageRating: 4,
		RatingsCount:  1,
		Provider:      &domain.Provider{Name: "Ana Souza"},
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Pintura de parede")
	assert.Contains(t, out, "R$ 350,00")
	assert.Contains(t, out, "★★★★☆ 4.0 (1)")
	assert.Contains(t, out, "Ana Souza")
}

func TestPrintBrowseState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state browse.State
		want  []string
		not   []string
	}{
		{
			name:  "first load",
			state: browse.State{Category: "all", Loading: true},
			want:  []string{"Category:", "Loading..."},
			not:   []string{"TITLE"},
		},
		{
			name: "empty result",
			state: browse.State{
				Category: "Pintura", SearchText: "teto", Loaded: true,
				Shown:    browse.Filters{Category: "Pintura", Search: "teto"},
				Listings: []domain.Listing{},
			},
			want: []string{"teto", `No services found for "Pintura" matching "teto".`},
		},
		{
			name: "refreshing keeps listings",
			state: browse.State{
				Category: "all", Loaded: true, Refreshing: true,
				Listings: []domain.Listing{{ID: "s1", Title: "Aula de violão"}},
			},
			want: []string{"Aula de violão", "Refreshing..."},
			not:  []string{"Loading..."},
		},
		{
			name: "error keeps listings",
			state: browse.State{
				Category: "all", Loaded: true, Err: errors.New("boom"),
				Listings: []domain.Listing{{ID: "s1", Title: "Aula de violão"}},
			},
			want: []string{"Aula de violão"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, printBrowseState(&buf, &tt.state))
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.not {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
