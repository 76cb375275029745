package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/clicklar/internal/api/client"
	"github.com/donaldgifford/clicklar/internal/browse"
	domain "github.com/donaldgifford/clicklar/pkg/types"
	"github.com/donaldgifford/clicklar/pkg/validate"
)

func servicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"svc"},
		Short:   "Find, publish and manage services",
	}

	cmd.AddCommand(servicesListCmd())
	cmd.AddCommand(servicesGetCmd())
	cmd.AddCommand(servicesMineCmd())
	cmd.AddCommand(servicesCreateCmd())
	cmd.AddCommand(servicesEditCmd())
	cmd.AddCommand(servicesDeleteCmd())
	cmd.AddCommand(servicesRateCmd())
	cmd.AddCommand(servicesContactCmd())
	return cmd
}

func servicesListCmd() *cobra.Command {
	var params client.ListServicesParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List services",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			listings, err := a.client.ListPublicServices(ctx, &params)
			if err != nil {
				return a.fail(ctx, "Error", "Could not load services.", err)
			}
			return renderListings(a, listings, &params)
		}),
	}

	cmd.Flags().StringVarP(&params.Category, "category", "c", domain.AllCategories, "category filter")
	cmd.Flags().StringVarP(&params.Search, "search", "s", "", "text matched against title and description")
	return cmd
}

func servicesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a service",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			l, err := a.client.GetPublicService(ctx, args[0])
			if err != nil {
				return a.fail(ctx, "Error", "Could not load the service.", err)
			}
			return render(a.out, l, func(w io.Writer) error {
				return printListingDetail(w, l)
			})
		}),
	}
}

func servicesMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the services you published",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}
			listings, err := a.client.MyServices(ctx)
			if err != nil {
				return a.fail(ctx, "Error", "Could not load your services.", err)
			}
			if len(listings) == 0 && !jsonOutput() {
				_, err = fmt.Fprintln(a.out, "You have not published any services yet.")
				return err
			}
			return render(a.out, listings, func(w io.Writer) error {
				return printListingsTable(w, listings)
			})
		}),
	}
}

// serviceFlags are the create/edit form fields. Price is parsed with
// validate.ParsePrice so "150,50" is accepted.
type serviceFlags struct {
	title, description, category, price string
}

func (f *serviceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "service title")
	fl.StringVar(&f.description, "description", "", "service description")
	fl.StringVar(&f.category, "category", "", "service category")
	fl.StringVar(&f.price, "price", "", "price in reais, e.g. 150,50")
}

// input builds a ServiceInput from the flags on top of base.
func (f *serviceFlags) input(base domain.ServiceInput) (domain.ServiceInput, error) {
	in := base
	in.Title = valueOr(f.title, in.Title)
	in.Description = valueOr(f.description, in.Description)
	in.Category = valueOr(f.category, in.Category)
	if f.price != "" {
		p, err := validate.ParsePrice(f.price)
		if err != nil {
			return in, err
		}
		in.Price = p
	}
	if err := validate.Service(&in); err != nil {
		return in, err
	}
	return in, nil
}

func servicesCreateCmd() *cobra.Command {
	var flags serviceFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a service",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}

			var err error
			for _, f := range []struct {
				label string
				dst   *string
			}{
				{"Title", &flags.title},
				{"Description", &flags.description},
				{"Category", &flags.category},
				{"Price", &flags.price},
			} {
				if *f.dst, err = a.prompt(f.label, *f.dst); err != nil {
					return err
				}
			}

			in, err := flags.input(domain.ServiceInput{})
			if err != nil {
				return a.fail(ctx, "Service", "", err)
			}
			created, err := a.client.CreateService(ctx, &in)
			if err != nil {
				return a.fail(ctx, "Service", "Could not publish the service.", err)
			}
			return render(a.out, created, func(w io.Writer) error {
				return printListingDetail(w, created)
			})
		}),
	}

	flags.register(cmd)
	return cmd
}

func servicesEditCmd() *cobra.Command {
	var flags serviceFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one of your services",
		Long:  "Edit a service you published. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}
			current, err := a.client.GetPublicService(ctx, args[0])
			if err != nil {
				return a.fail(ctx, "Service", "Could not load the service.", err)
			}

			in, err := flags.input(domain.ServiceInput{
				Title:       current.Title,
				Description: current.Description,
				Category:    current.Category,
				Price:       current.Price,
			})
			if err != nil {
				return a.fail(ctx, "Service", "", err)
			}

			updated, err := a.client.UpdateService(ctx, args[0], &in)
			if err != nil {
				return a.fail(ctx, "Service", "Could not update the service.", err)
			}
			return render(a.out, updated, func(w io.Writer) error {
				return printListingDetail(w, updated)
			})
		}),
	}

	flags.register(cmd)
	return cmd
}

func servicesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your services",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}
			ok, err := a.confirm("Delete service "+args[0]+"?", yes)
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintln(a.out, "Cancelled.")
				return err
			}
			if err := a.client.DeleteService(ctx, args[0]); err != nil {
				return a.fail(ctx, "Service", "Could not delete the service.", err)
			}
			_, err = fmt.Fprintln(a.out, "Service deleted.")
			return err
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func servicesRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <stars>",
		Short: "Rate a service from 1 to 5 stars",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}
			stars, err := strconv.Atoi(args[1])
			if err != nil {
				stars = 0
			}
			if err := validate.Rating(stars); err != nil {
				return a.fail(ctx, "Rating", "", err)
			}
			if err := a.client.RateService(ctx, args[0], stars); err != nil {
				return a.fail(ctx, "Rating", "Could not submit the rating.", err)
			}
			_, err = fmt.Fprintf(a.out, "Rated %s.\n", formatStars(float64(stars)))
			return err
		}),
	}
}

func servicesContactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contact <id>",
		Short: "Print the provider's WhatsApp link",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			l, err := a.client.GetPublicService(ctx, args[0])
			if err != nil {
				return a.fail(ctx, "Error", "Could not load the service.", err)
			}
			link, err := l.Provider.ContactURL()
			if err != nil {
				return a.fail(ctx, "Contact", "", fmt.Errorf("%s: %w", l.ProviderName(), err))
			}
			_, err = fmt.Fprintln(a.out, link)
			return err
		}),
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List service categories",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			categories, err := a.client.ListCategories(ctx)
			if err != nil {
				return a.fail(ctx, "Error", "Could not load categories.", err)
			}
			return render(a.out, categories, func(w io.Writer) error {
				for _, c := range categories {
					if _, err := fmt.Fprintln(w, c); err != nil {
						return err
					}
				}
				return nil
			})
		}),
	}
}

// renderListings prints a listing table, or the empty-state message for
// the filters when nothing matched.
func renderListings(a *app, listings []domain.Listing, params *client.ListServicesParams) error {
	if len(listings) == 0 && !jsonOutput() {
		_, err := fmt.Fprintln(a.out, emptyMessage(params.Category, params.Search))
		return err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return render(a.out, listings, func(w io.Writer) error {
		return printListingsTable(w, listings)
	})
}

func emptyMessage(category, search string) string {
	s := browse.State{Shown: browse.Filters{Category: category, Search: strings.TrimSpace(search)}}
	return s.EmptyMessage()
}
