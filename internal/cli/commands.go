package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/traveler-registration/internal/controller"
	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/export"
	"github.com/pkordes/traveler-registration/internal/form"
	"github.com/pkordes/traveler-registration/internal/grid"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the connection status badge",
		Long: `Show the connection status badge. The label is fixed; the server is
not contacted and no sign-in happens.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller.New(controller.Deps{
				Status: statusLine{w: cmd.OutOrStdout()},
				Log:    newLogger(cmd, opts),
			}).Init()
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var (
		search string
		page   int
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered travelers, newest first",
		Example: `  # Everyone, as a table
  travelerctl list

  # Second page of travelers in house 2
  travelerctl list --search "house 2" --page 2 --limit 10

  # Machine-readable
  travelerctl list --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			paged := search != "" || cmd.Flags().Changed("page") || cmd.Flags().Changed("limit")

			// Plain table listings are drawn by the controller itself.
			var table grid.View = discardView{}
			if output == "table" && !paged {
				table = tableView{w: out}
			}
			s, err := connect(cmd.Context(), cmd, opts, table)
			if err != nil {
				return err
			}
			if err := s.ctrl.Load(cmd.Context()); err != nil {
				return err
			}

			rows := s.ctrl.Grid().Rows()
			var total int
			if paged {
				var pp, lp *int
				if cmd.Flags().Changed("page") {
					pp = &page
				}
				if cmd.Flags().Changed("limit") {
					lp = &limit
				}
				rows, total = s.ctrl.Grid().Page(search, domain.NewPaginationParams(pp, lp))
			}

			switch output {
			case "table":
				if paged {
					grid.RenderRows(tableView{w: out}, rows)
					fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d matching travelers (%d registered)\n",
						len(rows), total, s.ctrl.Grid().Len())
				}
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(nonNil(rows))
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(nonNil(rows))
			default:
				return fmt.Errorf("unsupported output %q (want table, json or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Only show travelers with a cell containing this text")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", 20, "Travelers per page (max 100)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

func newRegisterCmd(opts *options) *cobra.Command {
	var (
		firstName, lastName string
		telephone, email    string
		house               int
		sites               []string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a traveler",
		Long: `Register a traveler. The form is validated locally with the same rules the
registration page applies, and every invalid field is reported before anything
is sent to the server. Booking sites may be given by id or by name.`,
		Example: `  travelerctl register --first-name Ada --last-name Lovelace \
    --telephone 555-123-4567 --email ada@example.com \
    --house 2 --site Airbnb --site "Booking.com"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := connect(ctx, cmd, opts, discardView{})
			if err != nil {
				return err
			}

			siteIDs, err := resolveSites(cmd, s, sites)
			if err != nil {
				return err
			}
			values := url.Values{
				form.IDFirstName:      {firstName},
				form.IDLastName:       {lastName},
				form.IDTelephone:      {telephone},
				form.IDEmail:          {email},
				form.NameBookingSites: siteIDs,
			}
			if cmd.Flags().Changed("house") {
				values.Set(form.NameHouse, strconv.Itoa(house))
			}

			sub := form.FromValues(values)
			var row domain.TravelerRow
			err = s.ctrl.Submit(ctx, sub.Elements(), func(ctx context.Context) error {
				var err error
				row, err = s.client.AddTraveler(ctx, values)
				return err
			})
			if errors.Is(err, controller.ErrInvalidForm) {
				printFieldErrors(cmd, sub.Errors())
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered traveler %d: %s %s, House %d\n",
				row.ID, row.FirstName, row.LastName, row.HouseNumber)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&firstName, "first-name", "", "First name")
	f.StringVar(&lastName, "last-name", "", "Last name")
	f.StringVar(&telephone, "telephone", "", "Telephone number")
	f.StringVar(&email, "email", "", "Email address")
	f.IntVar(&house, "house", 0, "House number")
	f.StringArrayVar(&sites, "site", nil, "Booking site id or name (repeatable)")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every traveler to a spreadsheet file",
		Long: `Fetch a fresh copy of the traveler table and save it in --dir as
travelers_data.xlsx (or .csv / .parquet with --format).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := connect(cmd.Context(), cmd, opts, discardView{})
			if err != nil {
				return err
			}
			name, err := s.ctrl.ExportAs(cmd.Context(), f)
			if errors.Is(err, controller.ErrNoData) {
				// The notifier has already told the user.
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatXLSX), "File format: xlsx, csv or parquet")
	return cmd
}

func newBackupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Take a database backup on the server and download it",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), cmd, opts, discardView{})
			if err != nil {
				return err
			}
			name, err := s.ctrl.Backup(cmd.Context())
			if err != nil {
				return err
			}
			if name == "" {
				return errors.New("server did not send a backup file")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", name)
			return nil
		},
	}
}

// resolveSites turns booking site ids or names into ids. Names are matched
// case-insensitively against the server's list, which is only fetched when
// a name is given.
func resolveSites(cmd *cobra.Command, s *session, in []string) ([]string, error) {
	var known []domain.BookingSite
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			out = append(out, v)
			continue
		}
		if known == nil {
			var err error
			if known, err = s.client.BookingSites(cmd.Context()); err != nil {
				return nil, err
			}
		}
		id, ok := siteID(known, v)
		if !ok {
			return nil, fmt.Errorf("unknown booking site %q", v)
		}
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out, nil
}

func siteID(sites []domain.BookingSite, name string) (int64, bool) {
	for _, s := range sites {
		if strings.EqualFold(s.Name, name) {
			return s.ID, true
		}
	}
	return 0, false
}

func printFieldErrors(cmd *cobra.Command, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f, errs[f])
	}
}

func nonNil(rows []domain.TravelerRow) []domain.TravelerRow {
	if rows == nil {
		return []domain.TravelerRow{}
	}
	return rows
}
