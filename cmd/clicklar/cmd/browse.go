package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/clicklar/internal/browse"
	domain "github.com/donaldgifford/clicklar/pkg/types"
)

const browseHelp = "Type to search. :c <category> picks a category, :c alone shows all, " +
	":cats lists categories, :r refreshes, :q quits."

func browseCmd() *cobra.Command {
	var (
		category, search string
		once             bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse services interactively",
		Long: "Browse services. Each line read from stdin replaces the search box\n" +
			"content; results follow once typing pauses.\n\n" + browseHelp,
		RunE: run(func(_ context.Context, a *app, _ []string) error {
			if once {
				return browseOnce(a, category, search)
			}
			return browseInteractive(a, category, search)
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&category, "category", "c", domain.AllCategories, "initial category")
	f.StringVarP(&search, "search", "s", "", "initial search text")
	f.BoolVar(&once, "once", false, "fetch once with the given filters, print and exit")
	return cmd
}

// browseOnce applies the filters, waits for the result and prints it.
func browseOnce(a *app, category, search string) error {
	ctrl := browse.New(a.client,
		browse.WithDebounce(a.cfg.Browse.Debounce),
		browse.WithLogger(a.log),
		browse.WithNotifier(a.notifier),
	)
	defer ctrl.Close()

	ctrl.SetFilters(category, search)
	ctrl.Wait()

	s := ctrl.State()
	if s.Err != nil {
		return s.Err
	}
	return render(a.out, s, func(w io.Writer) error {
		return printBrowseState(w, &s)
	})
}

func browseInteractive(a *app, category, search string) error {
	fr := &framePrinter{w: a.out}
	ctrl := browse.New(a.client,
		browse.WithDebounce(a.cfg.Browse.Debounce),
		browse.WithLogger(a.log),
		browse.WithNotifier(a.notifier),
		browse.WithAuth(a.session),
		browse.WithOnChange(fr.print),
	)
	defer ctrl.Close()

	if _, err := fmt.Fprintln(a.errOut, browseHelp); err != nil {
		return err
	}

	ctrl.OnScreenActivated()
	if category != domain.AllCategories && category != "" {
		ctrl.SetCategory(category)
	}
	if search != "" {
		ctrl.SetSearchText(search)
	}

	for {
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}
		eof := err != nil
		line = strings.TrimRight(line, "\r\n")

		if line != "" || !eof {
			if quit := browseInput(a, ctrl, line); quit {
				return nil
			}
		}

		if eof {
			// Input ended mid-debounce: resolve the last search now.
			ctrl.SubmitSearch()
			ctrl.Wait()
			return fr.err()
		}
	}
}

// browseInput applies one line of input. It reports whether to quit.
func browseInput(a *app, ctrl *browse.Controller, line string) bool {
	switch in := strings.TrimSpace(line); {
	case in == ":q":
		return true
	case in == ":r":
		ctrl.Refresh()
	case in == ":cats":
		s := ctrl.State()
		categories := s.Categories
		if len(categories) == 0 {
			categories = []string{domain.AllCategories}
		}
		fmt.Fprintln(a.errOut, "Categories: "+strings.Join(categories, ", ")) //nolint:errcheck // best-effort hint
	case in == ":c" || strings.HasPrefix(in, ":c "):
		ctrl.SetCategory(strings.TrimSpace(strings.TrimPrefix(in, ":c")))
	default:
		ctrl.SetSearchText(line)
	}
	return false
}

// framePrinter renders browse states, skipping frames identical to the
// previous one.
type framePrinter struct {
	mu       sync.Mutex
	w        io.Writer
	last     string
	writeErr error
}

func (p *framePrinter) print(s browse.State) {
	var buf bytes.Buffer
	if err := printBrowseState(&buf, &s); err != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if buf.String() == p.last || p.writeErr != nil {
		return
	}
	p.last = buf.String()
	_, p.writeErr = fmt.Fprintf(p.w, "\n%s", p.last)
}

func (p *framePrinter) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeErr
}
