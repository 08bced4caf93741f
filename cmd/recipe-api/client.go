package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"recipebox/catalog"
	"recipebox/utils"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:3000"

func newSearchCmd() *cobra.Command {
	var (
		server string
		filter catalog.ListFilter
	)

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search recipes on a running backend by title, description or ingredient",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}

			svc := newService(server)
			recipes, err := svc.Search(cmd.Context(), term)
			if err != nil {
				return err
			}
			recipes = filter.Apply(recipes)

			out := cmd.OutOrStdout()
			for _, r := range recipes {
				star := " "
				if r.Favorite {
					star = "*"
				}
				fmt.Fprintf(out, "%s %4d  %s\n", star, r.ID, r.Title)
			}
			fmt.Fprintf(out, "%d recipes\n", len(recipes))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", defaultServer, "backend base URL")
	cmd.Flags().BoolVar(&filter.Added, "added", false, "only recipes you added")
	cmd.Flags().BoolVar(&filter.Saved, "saved", false, "only favorites")
	return cmd
}

func newFavoriteCmd() *cobra.Command {
	var (
		server string
		off    bool
	)

	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark a recipe as favorite (or clear it with --off)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid recipe id %q", args[0])
			}

			r, err := newService(server).ToggleFavorite(cmd.Context(), id, !off)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s favorite=%t\n", r.Title, r.Favorite)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", defaultServer, "backend base URL")
	cmd.Flags().BoolVar(&off, "off", false, "clear the favorite flag")
	return cmd
}

func newService(server string) *catalog.Service {
	client := &http.Client{Timeout: 10 * time.Second}
	return catalog.NewService(server, client, catalog.NewStore(), utils.NewNopLogger())
}
