// File: cmd/seed/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/rs/zerolog"

	"academy-platform/internal/config"
	pg "academy-platform/internal/infra/db/postgres"
	"academy-platform/internal/usecase"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	logger := zerolog.New(io.Discard)
	planRepo := pg.NewPlanRepo(pool)
	planUC := usecase.NewPlanUseCase(planRepo, &logger)

	orgID := cfg.Academy.OrganizationID

	// If plans already exist, do nothing
	plans, err := planUC.ListActive(ctx, orgID)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (%s, R$ %.2f)\n", p.Name, p.BillingType, float64(p.Price)/100)
		}
		return
	}

	// Sample plans for exercising the billing flow
	seed := []struct {
		Name        string
		Price       int64 // centavos
		BillingType string
	}{
		{"Mensal", 25_000, "MONTHLY"},
		{"Trimestral", 67_500, "QUARTERLY"},
		{"Anual", 240_000, "YEARLY"},
	}

	for _, s := range seed {
		p, err := planUC.Create(ctx, orgID, s.Name, "", s.Price, s.BillingType)
		if err != nil {
			log.Fatalf("create plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, %s, R$ %.2f)\n", p.Name, p.ID, p.BillingType, float64(p.Price)/100)
	}

	fmt.Println("Seeding complete.")
}
