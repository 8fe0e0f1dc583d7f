// cmd/seed/main.go: loads demo master data: one project, its units, brokers
// and a payment plan. Safe to run repeatedly.
// Usage: go run ./cmd/seed
package main

import (
	"fmt"
	"os"
	"time"

	"l2lsales/internal/config"
	"l2lsales/internal/infra"
	"l2lsales/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed ids are derived from names so reruns hit the same rows.
var seedNS = uuid.MustParse("8f14e45f-ceea-467f-a0e6-7f1d2b3c4a5e")

func seedID(kind, name string) uuid.UUID { return uuid.NewSHA1(seedNS, []byte(kind+":"+name)) }

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := db.Transaction(seed); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed data loaded")
}

func seed(tx *gorm.DB) error {
	insert := tx.Clauses(clause.OnConflict{DoNothing: true})

	location := "Sector 62, Noida"
	project := model.Project{ID: seedID("project", "Skyline Towers"), Name: "Skyline Towers", Location: &location}
	if err := insert.Create(&project).Error; err != nil {
		return fmt.Errorf("project: %w", err)
	}

	flat := "3BHK"
	var units []model.Unit
	for tower := 'A'; tower <= 'B'; tower++ {
		for floor := 1; floor <= 3; floor++ {
			for n := 1; n <= 2; n++ {
				name := fmt.Sprintf("%c-%d0%d", tower, floor, n)
				units = append(units, model.Unit{
					ID:        seedID("unit", name),
					ProjectID: project.ID,
					Name:      name,
					UnitType:  &flat,
					Size:      decimal.NewFromInt(1450),
					BSP:       decimal.NewFromInt(6500),
					Status:    model.UnitFree,
				})
			}
		}
	}
	if err := insert.Create(&units).Error; err != nil {
		return fmt.Errorf("units: %w", err)
	}

	brokers := []model.Broker{
		{ID: seedID("broker", "Acme Realty"), Name: "Acme Realty"},
		{ID: seedID("broker", "Blue Homes"), Name: "Blue Homes"},
	}
	if err := insert.Create(&brokers).Error; err != nil {
		return fmt.Errorf("brokers: %w", err)
	}

	plan := model.PaymentPlan{ID: seedID("plan", "Construction Linked"), Name: "Construction Linked"}
	if err := insert.Omit(clause.Associations).Create(&plan).Error; err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	installments := []model.Installment{
		{Name: "Booking", Value: decimal.NewFromInt(10), IsPercentage: true, DueDays: 0},
		{Name: "Within 30 days", Value: decimal.NewFromInt(20), IsPercentage: true, DueDays: 30},
		{Name: "On slab casting", Value: decimal.NewFromInt(40), IsPercentage: true, DueDays: 180},
		{Name: "On possession", Value: decimal.NewFromInt(30), IsPercentage: true, DueDays: 540},
		{Name: "Club membership", Value: decimal.NewFromInt(150000), IsPercentage: false, DueDays: 540},
	}
	for i := range installments {
		installments[i].ID = seedID("installment", installments[i].Name)
		installments[i].PlanID = plan.ID
		installments[i].Position = i + 1
	}
	if err := insert.Create(&installments).Error; err != nil {
		return fmt.Errorf("installments: %w", err)
	}

	log.Info().
		Str("project", project.Name).
		Int("units", len(units)).
		Int("brokers", len(brokers)).
		Int("installments", len(installments)).
		Msg("seeded")
	return nil
}
