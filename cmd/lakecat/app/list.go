package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/datapond/lakecat/pkg/catalog"
)

var entriesCmd = &cobra.Command{
	Use:   "entries <uri>...",
	Short: "List the entry names discoverable from the given observables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := buildCatalog(cmd, args)
		if err != nil {
			return err
		}
		names, err := cat.EntryNames(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var catalogsCmd = &cobra.Command{
	Use:   "catalogs <uri>...",
	Short: "List the catalog names discoverable from the given observables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := buildCatalog(cmd, args)
		if err != nil {
			return err
		}
		names, err := cat.CatalogNames(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list catalogs: %w", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins <uri>",
	Short: "List the plugin descriptors declared by the given observable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := buildCatalog(cmd, args)
		if err != nil {
			return err
		}
		plugins, err := cat.Plugins(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list plugins: %w", err)
		}
		for _, p := range plugins {
			if p.Module != "" {
				fmt.Printf("module: %s\n", p.Module)
			} else {
				fmt.Printf("dir: %s\n", p.Dir)
			}
		}
		return nil
	},
}

// buildCatalog constructs a catalog from the command's URI arguments and
// shared flags.
func buildCatalog(cmd *cobra.Command, uris []string) (*catalog.Catalog, error) {
	ttl, err := cmd.Flags().GetDuration("ttl")
	if err != nil {
		return nil, err
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return nil, err
	}

	var opts []catalog.Option
	if ttl > 0 {
		opts = append(opts, catalog.WithTTL(ttl))
	}
	if name != "" {
		opts = append(opts, catalog.WithName(name))
	}

	cat, err := catalog.NewCollection(cmd.Context(), uris, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return cat, nil
}

func init() {
	for _, cmd := range []*cobra.Command{entriesCmd, catalogsCmd, pluginsCmd} {
		cmd.Flags().Duration("ttl", time.Second, "Staleness TTL for the root catalog")
		cmd.Flags().String("name", "", "Name override for the root catalog")
	}
}
