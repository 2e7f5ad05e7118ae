package pg

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/dropDatabas3/notibox/internal/observability/logger"
	migrations "github.com/dropDatabas3/notibox/migrations/postgres"
)

// Migrate aplica las migraciones embebidas en orden de nombre.
// Los statements son idempotentes (IF NOT EXISTS), así que correr esto en
// cada arranque es seguro.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)

	log := logger.Named("store.pg")
	for _, name := range entries {
		b, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		log.Info("migration applied", logger.String("file", name))
	}
	return nil
}
