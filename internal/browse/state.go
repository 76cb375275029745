package browse

import (
	"fmt"
	"slices"
	"strings"

	domain "github.com/donaldgifford/clicklar/pkg/types"
)

// Filters is the resolved query: a category and a trimmed search term.
type Filters struct {
	Category string `json:"category"`
	Search   string `json:"search,omitempty"`
}

// State is a snapshot of everything the browse screen renders.
type State struct {
	// Category is the selected category, domain.AllCategories by default.
	Category string `json:"category"`
	// SearchText is the raw search input, updated on every keystroke.
	SearchText string `json:"search_text"`
	// Search is the debounced search term.
	Search string `json:"search"`

	// Categories lists the selectable categories, sentinel first. Empty
	// until OnScreenActivated has loaded them.
	Categories []string `json:"categories"`

	// Listings is the displayed result set and Shown the filters that
	// produced it.
	Listings []domain.Listing `json:"listings"`
	Shown    Filters          `json:"shown"`

	// Loading is set while a fetch that will replace the displayed set is
	// in flight. Refreshing is set while a same-filter refresh runs over a
	// non-empty list that stays visible. At most one of the two is set.
	Loading    bool `json:"loading"`
	Refreshing bool `json:"refreshing"`

	// Err is the error of the most recent authoritative fetch, nil on
	// success.
	Err error `json:"-"`

	// Loaded reports whether any fetch has succeeded.
	Loaded bool `json:"loaded"`

	// Authenticated reports whether a user session was present when the
	// screen was last activated.
	Authenticated bool `json:"authenticated"`
}

// Busy reports whether any fetch is in flight.
func (s *State) Busy() bool {
	return s.Loading || s.Refreshing
}

// Empty reports whether a successful fetch returned no listings.
func (s *State) Empty() bool {
	return s.Loaded && len(s.Listings) == 0 && !s.Loading
}

// EmptyMessage describes an empty result set in terms of the filters that
// produced it.
func (s *State) EmptyMessage() string {
	category := s.Shown.Category
	if category == "" {
		category = domain.AllCategories
	}
	if s.Shown.Search != "" {
		return fmt.Sprintf("No services found for %q matching %q.", category, s.Shown.Search)
	}
	return fmt.Sprintf("No services found for %q.", category)
}

func (s *State) resolved() Filters {
	return Filters{Category: s.Category, Search: strings.TrimSpace(s.Search)}
}

func (s *State) clone() State {
	c := *s
	c.Categories = slices.Clone(s.Categories)
	c.Listings = slices.Clone(s.Listings)
	return c
}
