package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// kindCheckName nombre del CHECK sobre stock_movements.kind. La detección de
// idempotencia se hace por este nombre en pg_constraint.
const kindCheckName = "ck_stock_movements_kind"

// Bootstrap crea las tablas si no existen. Las instalaciones nuevas nacen ya
// con el CHECK de kind; EnsureKindConstraint existe para bases anteriores a
// esa restricción.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS items (
		id         UUID PRIMARY KEY,
		sku        TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		category   TEXT,
		unit       TEXT NOT NULL DEFAULT 'pcs',
		min_stock  NUMERIC NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stock_movements (
		id       UUID PRIMARY KEY,
		item_id  UUID NOT NULL REFERENCES items(id),
		kind     TEXT NOT NULL CONSTRAINT ck_stock_movements_kind CHECK (kind IN ('IN','OUT','ADJUST')),
		quantity NUMERIC NOT NULL,
		ref      TEXT,
		moved_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS ix_stock_movements_item_id ON stock_movements(item_id);`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}

// EnsureKindConstraint migración opt-in (DB_MIGRATE_KIND_CHECK) que retrofita
// el CHECK de kind en bases legacy, vía copia a tabla sombra y swap:
//
//	Disabled -> (flag) -> Migrating -> {Succeeded, Failed-but-harmless}
//
// Los valores de kind fuera de {IN,OUT,ADJUST} se normalizan a ADJUST
// preservando cantidad, ref y fecha (única auto-corrección del sistema).
// Corre en UNA transacción con lock exclusivo de la tabla: si algo falla todo
// se revierte y la tabla original queda intacta (ErrMigrationFailed).
// Es idempotente: con el CHECK ya presente no hace nada.
func EnsureKindConstraint(ctx context.Context, pool *pgxpool.Pool, audit stock.AuditSink) error {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM pg_constraint
			WHERE conname = $1 AND conrelid = 'stock_movements'::regclass
		)`, kindCheckName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: inspeccionar constraints: %v", domain.ErrMigrationFailed, err)
	}
	if exists {
		audit.Emit("migration.kind_check.skip", map[string]any{"reason": "ya migrado"})
		return nil
	}

	audit.Emit("migration.kind_check.start", nil)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrMigrationFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Scope exclusivo para el copy-and-swap: ningún escritor puede colarse
	// entre la copia y el intercambio.
	steps := []string{
		`LOCK TABLE stock_movements IN ACCESS EXCLUSIVE MODE`,
		`CREATE TABLE stock_movements_new (
			id       UUID PRIMARY KEY,
			item_id  UUID NOT NULL REFERENCES items(id),
			kind     TEXT NOT NULL CONSTRAINT ck_stock_movements_kind CHECK (kind IN ('IN','OUT','ADJUST')),
			quantity NUMERIC NOT NULL,
			ref      TEXT,
			moved_at TIMESTAMPTZ NOT NULL
		)`,
		`INSERT INTO stock_movements_new (id, item_id, kind, quantity, ref, moved_at)
		SELECT id, item_id,
		       CASE WHEN kind IN ('IN','OUT','ADJUST') THEN kind ELSE 'ADJUST' END,
		       quantity, ref, moved_at
		FROM stock_movements`,
		`DROP TABLE stock_movements`,
		`ALTER TABLE stock_movements_new RENAME TO stock_movements`,
		`CREATE INDEX ix_stock_movements_item_id ON stock_movements(item_id)`,
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step); err != nil {
			audit.Emit("migration.kind_check.failed", map[string]any{"error": err.Error()})
			return fmt.Errorf("%w: %v", domain.ErrMigrationFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		audit.Emit("migration.kind_check.failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: commit: %v", domain.ErrMigrationFailed, err)
	}

	audit.Emit("migration.kind_check.succeeded", nil)
	return nil
}
