package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"atkctl/internal/fixtures"

	"github.com/spf13/cobra"
)

var sitemapBaseURL string

func newSitemapCmd() *cobra.Command {
	sitemapCmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Rebuild and inspect the XML sitemap",
	}

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate the XML sitemap with xmlsitemap:rebuild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newHelper().RebuildSitemap(cmd.Context())
			if err != nil {
				return err
			}
			if out = strings.TrimSpace(out); out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Print how many sitemap files sitemap.xml refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := sitemapBaseURL
			if base == "" {
				base = atkConfig.BaseURL
			}
			if base == "" {
				return errors.New("no base URL: set baseUrl in the config or pass --url")
			}
			client := &http.Client{Timeout: 30 * time.Second}
			n, err := fixtures.FetchSitemapCount(cmd.Context(), client, base)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	countCmd.Flags().StringVar(&sitemapBaseURL, "url", "", "Site base URL (default: baseUrl from the config)")

	sitemapCmd.AddCommand(rebuildCmd, countCmd)
	return sitemapCmd
}
