package cli

import (
	"fmt"

	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type sampleProduct struct {
	name        string
	description string
	price       string
	stock       int
	category    string
	colors      []string
}

var sampleProducts = []sampleProduct{
	{"Executive Office Chair", "Ergonomic mesh chair with lumbar support", "18500", 40, "Furniture", []string{"Black", "Grey"}},
	{"Standing Desk", "Height adjustable desk, 140x70 cm", "62000", 15, "Furniture", []string{"Oak", "White"}},
	{"LED Panel Light", "60x60 cm ceiling panel, 48W", "4200", 120, "Lighting", nil},
	{"Desk Lamp", "Dimmable LED desk lamp with USB port", "3500", 80, "Lighting", []string{"Black", "Silver"}},
	{"A4 Copier Paper", "80 gsm, box of 5 reams", "6800", 200, "Stationery", nil},
	{"Whiteboard Marker Set", "Assorted colors, pack of 12", "950", 300, "Stationery", []string{"Assorted"}},
}

func newSeedCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample products (existing names are skipped)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := open()
			if err != nil {
				return err
			}
			created, err := seedProducts(tk.Products)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products (%d skipped)\n", created, len(sampleProducts)-created)
			return nil
		},
	}
}

func seedProducts(repo repository.ProductRepository) (int, error) {
	existing, _, err := repo.List(repository.ProductListFilter{})
	if err != nil {
		return 0, fmt.Errorf("load products: %w", err)
	}
	names := make(map[string]struct{}, len(existing))
	for _, product := range existing {
		names[product.Name] = struct{}{}
	}

	created := 0
	for _, sample := range sampleProducts {
		if _, ok := names[sample.name]; ok {
			continue
		}
		price, err := decimal.NewFromString(sample.price)
		if err != nil {
			return created, fmt.Errorf("parse price of %s: %w", sample.name, err)
		}
		product := &models.Product{
			Name:          sample.name,
			Description:   sample.description,
			Price:         models.NewMoneyFromDecimal(price),
			Stock:         sample.stock,
			Category:      sample.category,
			Images:        models.StringArray{},
			ColorVariants: models.StringArray(sample.colors),
		}
		if err := repo.Create(product); err != nil {
			return created, fmt.Errorf("create %s: %w", sample.name, err)
		}
		created++
	}
	return created, nil
}
