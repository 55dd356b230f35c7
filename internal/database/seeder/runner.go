package seeder

import (
	"context"
	"fmt"
	"log"

	"hireflow/internal/database"
)

type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("seed name=%s status=ok", s.Name())
		}
	}
	return nil
}

func Run(ctx context.Context, db database.DB, logger *log.Logger, seeders ...Seeder) error {
	return Runner{Seeders: seeders, Logger: logger}.Run(ctx, db)
}
