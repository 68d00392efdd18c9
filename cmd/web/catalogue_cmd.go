package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finitefield.org/flor-web/internal/catalogue"
	"finitefield.org/flor-web/internal/format"
	"finitefield.org/flor-web/internal/i18n"
	"finitefield.org/flor-web/locales"
)

func newCatalogueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Print the catalogue with filters and sort applied",
		Args:  cobra.NoArgs,
		RunE:  runCatalogue,
	}
	f := cmd.Flags()
	f.String("price", catalogue.PriceAll, "price range: all, 0-1000, 1000-2000, 2000-3000, 3000-5000 or 5000+")
	f.String("availability", catalogue.AvailabilityAll, "availability: all, in-stock or low-stock")
	f.String("sort", string(catalogue.SortNameAsc), "sort: name-asc, name-desc, price-asc, price-desc or newest")
	f.String("lang", "", "collation language (default lang.default)")
	f.String("file", "", "catalogue YAML file (default embedded sample)")
	return cmd
}

func runCatalogue(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	products, err := loadProducts(cfg)
	if err != nil {
		return err
	}
	bundle, err := i18n.Load(locales.FS, cfg.Lang.Default, cfg.Lang.Supported)
	if err != nil {
		return err
	}

	st := catalogue.DefaultState()
	price, _ := cmd.Flags().GetString("price")
	if err := st.SetFilter(catalogue.DimensionPriceRange, price); err != nil {
		return err
	}
	availability, _ := cmd.Flags().GetString("availability")
	if err := st.SetFilter(catalogue.DimensionAvailability, availability); err != nil {
		return err
	}
	sortKey, _ := cmd.Flags().GetString("sort")
	if err := st.SetSort(sortKey); err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")
	if lang == "" {
		lang = cfg.Lang.Default
	}

	visible := catalogue.Apply(products, st, catalogue.WithLanguage(bundle.Tag(lang)))
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range visible {
		stock := string(p.Stock)
		if stock == "" {
			stock = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, format.FmtPeso(p.Price), stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d products\n", len(visible))
	return err
}
