package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/config"
	"github.com/MuhammadMouostafa/library-management-system/internal/entrypoint"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

var demoBooks = []services.BookInput{
	{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Quantity: intPtr(3), ShelfLocation: "A-1"},
	{Title: "Emma", Author: "Jane Austen", ISBN: "9780141439587", Quantity: intPtr(2), ShelfLocation: "B-4"},
	{Title: "Neuromancer", Author: "William Gibson", ISBN: "9780441569595", Quantity: intPtr(1), ShelfLocation: "A-2"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", ISBN: "9780441478125", Quantity: intPtr(2), ShelfLocation: "A-3"},
	{Title: "Middlemarch", Author: "George Eliot", ISBN: "9780141439549", Quantity: intPtr(1), ShelfLocation: "B-7"},
}

var demoBorrowers = []services.BorrowerInput{
	{Name: "Ada Lovelace", Email: "ada@example.com"},
	{Name: "Alan Turing", Email: "alan@example.com"},
	{Name: "Grace Hopper", Email: "grace@example.com"},
}

var demoCategories = []services.CategoryInput{
	{Name: "Science Fiction", Order: intPtr(0)},
	{Name: "Classics", Order: intPtr(1)},
}

func intPtr(n int) *int { return &n }

func newSeedCommand(version string, loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo books, borrowers and categories into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := entrypoint.NewLogger(cfg, version)
			defer func() { _ = log.Sync() }()

			db, err := entrypoint.OpenDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := entrypoint.NewServices(db, cfg, log, nil)
			seeded, err := Seed(cmd.Context(), svc)
			if err != nil {
				return err
			}
			if !seeded {
				log.Info("Database already has books, skipping seed")
				return nil
			}
			log.Info("Seeded demo data",
				zap.Int("books", len(demoBooks)),
				zap.Int("borrowers", len(demoBorrowers)),
				zap.Int("categories", len(demoCategories)))
			return nil
		},
	}
}

// Seed inserts the demo data through the services, so it is validated like
// API input. It does nothing and reports false when books already exist.
func Seed(ctx context.Context, svc entrypoint.Services) (bool, error) {
	existing, err := svc.Books.List(ctx, services.PageRequest{Page: 1, Limit: 1})
	if err != nil {
		return false, err
	}
	if existing.Total > 0 {
		return false, nil
	}

	for _, in := range demoCategories {
		if _, err := svc.Categories.Create(ctx, in); err != nil {
			return false, fmt.Errorf("seed category %q: %w", in.Name, err)
		}
	}
	for _, in := range demoBooks {
		if _, err := svc.Books.Create(ctx, in); err != nil {
			return false, fmt.Errorf("seed book %q: %w", in.Title, err)
		}
	}
	for _, in := range demoBorrowers {
		if _, err := svc.Borrowers.Create(ctx, in); err != nil {
			return false, fmt.Errorf("seed borrower %q: %w", in.Email, err)
		}
	}
	return true, nil
}
