package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/clicklar/internal/browse"
	domain "github.com/donaldgifford/clicklar/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(w io.Writer, listings []domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tCATEGORY\tPRICE\tRATING\tPROVIDER\n")
	for i := range listings {
		l := &listings[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID,
			truncate(l.Title, 40),
			l.Category,
			formatPrice(l.Price),
			formatRating(l),
			l.ProviderName(),
		)
	}
	return tw.finish()
}

func printListingDetail(w io.Writer, l *domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", l.ID)
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Category:\t%s\n", l.Category)
	tw.writef("Price:\t%s\n", formatPrice(l.Price))
	tw.writef("Rating:\t%s\n", formatRating(l))
	tw.writef("Provider:\t%s\n", l.ProviderName())
	if l.Provider != nil && l.Provider.Phone != "" {
		tw.writef("Phone:\t%s\n", l.Provider.Phone)
	}
	tw.writef("Description:\t%s\n", l.Description)
	return tw.finish()
}

func printProfile(w io.Writer, p *domain.Profile) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Email:\t%s\n", p.Email)
	tw.writef("Phone:\t%s\n", p.Phone)
	return tw.finish()
}

// printBrowseState renders one browse screen frame.
func printBrowseState(w io.Writer, s *browse.State) error {
	tw := newTabWriter(w)
	search := s.SearchText
	if search == "" {
		search = "-"
	}
	tw.writef("Category:\t%s\tSearch:\t%s\n", s.Category, search)
	if err := tw.finish(); err != nil {
		return err
	}

	switch {
	case s.Loading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case s.Empty():
		_, err := fmt.Fprintln(w, s.EmptyMessage())
		return err
	}

	if err := printListingsTable(w, s.Listings); err != nil {
		return err
	}
	if s.Refreshing {
		_, err := fmt.Fprintln(w, "Refreshing...")
		return err
	}
	return nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatPrice renders a price in Brazilian reais, e.g. "R$ 1.234,56".
// Zero or negative prices render as "N/A".
func formatPrice(p float64) string {
	if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return "N/A"
	}
	cents := int64(math.Round(p * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	b.WriteString("R$ ")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	fmt.Fprintf(&b, ",%02d", cents%100)
	return b.String()
}

// formatStars renders a rating rounded to the nearest half star, always
// five glyphs wide, e.g. "★★★½☆".
func formatStars(rating float64) string {
	halves := int(math.Round(math.Max(0, math.Min(5, rating)) * 2))
	full, half := halves/2, halves%2
	return strings.Repeat("★", full) +
		strings.Repeat("½", half) +
		strings.Repeat("☆", 5-full-half)
}

func formatRating(l *domain.Listing) string {
	if l.RatingsCount == 0 {
		return formatStars(0) + " (0)"
	}
	return fmt.Sprintf("%s %.1f (%d)", formatStars(l.RoundedRating()), l.AverageRating, l.RatingsCount)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
