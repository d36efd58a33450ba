package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/production-report-tui/internal/logger"
	"github.com/j-veylop/production-report-tui/internal/models"
)

// ErrNotFound is returned when a production line does not exist.
var ErrNotFound = errors.New("production line not found")

type modelLoc struct {
	line, model int
}

type entryLoc struct {
	line, model, entry int
}

// ListProductionLines returns every production line with its models and
// entries, in insertion order.
func (db *DB) ListProductionLines(ctx context.Context) ([]models.ProductionLine, error) {
	return db.loadLines(ctx, "")
}

// GetProductionLine returns one production line.
func (db *DB) GetProductionLine(ctx context.Context, id string) (*models.ProductionLine, error) {
	lines, err := db.loadLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNotFound
	}
	return &lines[0], nil
}

// CountProductionLines returns the number of stored production lines.
func (db *DB) CountProductionLines(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM production_lines").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count production lines: %w", err)
	}
	return n, nil
}

// SaveProductionLine inserts or updates a production line together with
// all of its models. A missing ID is assigned a new UUID.
func (db *DB) SaveProductionLine(ctx context.Context, line *models.ProductionLine) error {
	if line.ID == "" {
		line.ID = uuid.NewString()
	}

	return db.inTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO production_lines (id, plant_name, description, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				plant_name = excluded.plant_name,
				description = excluded.description,
				updated_at = excluded.updated_at
		`
		now := time.Now().UTC().Format(sqlTimestamp)
		if _, err := tx.ExecContext(ctx, query, line.ID, line.PlantName, line.Description, now); err != nil {
			return fmt.Errorf("failed to save production line: %w", err)
		}
		return replaceModels(ctx, tx, line.ID, line.Models)
	})
}

// ReplaceModels swaps the models of an existing line in one transaction. On
// any error nothing is written.
func (db *DB) ReplaceModels(ctx context.Context, lineID string, lineModels []models.Model) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE production_lines SET updated_at = ? WHERE id = ?",
			time.Now().UTC().Format(sqlTimestamp), lineID)
		if err != nil {
			return fmt.Errorf("failed to touch production line: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		return replaceModels(ctx, tx, lineID, lineModels)
	})
}

// DeleteProductionLine removes a line and everything below it.
func (db *DB) DeleteProductionLine(ctx context.Context, id string) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteModels(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM production_lines WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete production line: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// deleteModels removes the models of a line bottom-up so it does not rely
// on per-connection foreign key enforcement.
func deleteModels(ctx context.Context, tx *sql.Tx, lineID string) error {
	queries := []string{
		`DELETE FROM day_values WHERE entry_id IN (
			SELECT e.id FROM monthly_entries e
			JOIN line_models m ON m.id = e.model_id
			WHERE m.line_id = ?)`,
		`DELETE FROM monthly_entries WHERE model_id IN (
			SELECT id FROM line_models WHERE line_id = ?)`,
		`DELETE FROM line_models WHERE line_id = ?`,
	}
	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query, lineID); err != nil {
			return fmt.Errorf("failed to delete models: %w", err)
		}
	}
	return nil
}

func replaceModels(ctx context.Context, tx *sql.Tx, lineID string, lineModels []models.Model) error {
	if err := deleteModels(ctx, tx, lineID); err != nil {
		return err
	}

	for pos, m := range lineModels {
		var capacity sql.NullFloat64
		if m.MaxCapacity != nil {
			capacity = sql.NullFloat64{Float64: *m.MaxCapacity, Valid: true}
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO line_models (line_id, position, name, max_capacity) VALUES (?, ?, ?, ?)",
			lineID, pos, m.Name, capacity)
		if err != nil {
			return fmt.Errorf("failed to insert model %q: %w", m.Name, err)
		}
		modelID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read model id: %w", err)
		}
		if err := insertEntries(ctx, tx, modelID, m.MonthlyEntries); err != nil {
			return fmt.Errorf("failed to insert entries of model %q: %w", m.Name, err)
		}
	}
	return nil
}

// insertEntries stores the non-empty entries of a model. Only the first
// entry of a (year, month) pair is kept and zero values are not stored.
func insertEntries(ctx context.Context, tx *sql.Tx, modelID int64, entries []models.MonthlyEntry) error {
	seen := make(map[[2]int]bool, len(entries))
	pos := 0
	for _, e := range entries {
		key := [2]int{e.Year, e.Month}
		if seen[key] || e.IsEmpty() {
			continue
		}
		seen[key] = true

		res, err := tx.ExecContext(ctx,
			"INSERT INTO monthly_entries (model_id, position, year, month) VALUES (?, ?, ?, ?)",
			modelID, pos, e.Year, e.Month)
		if err != nil {
			return err
		}
		pos++
		entryID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, status := range models.Statuses() {
			for _, v := range e.StatusData[status] {
				if v.Value == 0 {
					continue
				}
				_, err := tx.ExecContext(ctx, `
					INSERT INTO day_values (entry_id, status, day, value) VALUES (?, ?, ?, ?)
					ON CONFLICT(entry_id, status, day) DO UPDATE SET value = excluded.value`,
					entryID, status.String(), v.Day, v.Value)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// loadLines reads lines, optionally restricted to one id, and assembles the
// model tree from three ordered scans.
func (db *DB) loadLines(ctx context.Context, lineID string) ([]models.ProductionLine, error) {
	var lines []models.ProductionLine
	lineIdx := make(map[string]int)

	err := db.scan(ctx, "production lines",
		"SELECT "+sqlLineColumns+" FROM production_lines WHERE (?1 = '' OR id = ?1) ORDER BY rowid",
		lineID,
		func(rows *sql.Rows) error {
			var l models.ProductionLine
			if err := rows.Scan(&l.ID, &l.PlantName, &l.Description); err != nil {
				return err
			}
			lineIdx[l.ID] = len(lines)
			lines = append(lines, l)
			return nil
		})
	if err != nil || len(lines) == 0 {
		return lines, err
	}

	modelsByID := make(map[int64]modelLoc)
	err = db.scan(ctx, "models", `
		SELECT id, line_id, name, max_capacity FROM line_models
		WHERE (?1 = '' OR line_id = ?1)
		ORDER BY line_id, position`,
		lineID,
		func(rows *sql.Rows) error {
			var (
				id       int64
				line     string
				m        models.Model
				capacity sql.NullFloat64
			)
			if err := rows.Scan(&id, &line, &m.Name, &capacity); err != nil {
				return err
			}
			li, ok := lineIdx[line]
			if !ok {
				return nil
			}
			if capacity.Valid {
				m.MaxCapacity = models.Float(capacity.Float64)
			}
			modelsByID[id] = modelLoc{line: li, model: len(lines[li].Models)}
			lines[li].Models = append(lines[li].Models, m)
			return nil
		})
	if err != nil {
		return nil, err
	}

	entriesByID := make(map[int64]entryLoc)
	err = db.scan(ctx, "monthly entries", `
		SELECT e.id, e.model_id, e.year, e.month FROM monthly_entries e
		JOIN line_models m ON m.id = e.model_id
		WHERE (?1 = '' OR m.line_id = ?1)
		ORDER BY e.model_id, e.position`,
		lineID,
		func(rows *sql.Rows) error {
			var (
				id, modelID int64
				e           models.MonthlyEntry
			)
			if err := rows.Scan(&id, &modelID, &e.Year, &e.Month); err != nil {
				return err
			}
			loc, ok := modelsByID[modelID]
			if !ok {
				return nil
			}
			e.StatusData = models.StatusData{}
			m := &lines[loc.line].Models[loc.model]
			entriesByID[id] = entryLoc{line: loc.line, model: loc.model, entry: len(m.MonthlyEntries)}
			m.MonthlyEntries = append(m.MonthlyEntries, e)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = db.scan(ctx, "day values", `
		SELECT v.entry_id, v.status, v.day, v.value FROM day_values v
		JOIN monthly_entries e ON e.id = v.entry_id
		JOIN line_models m ON m.id = e.model_id
		WHERE (?1 = '' OR m.line_id = ?1)
		ORDER BY v.entry_id, v.day`,
		lineID,
		func(rows *sql.Rows) error {
			var (
				entryID int64
				name    string
				v       models.DayValue
			)
			if err := rows.Scan(&entryID, &name, &v.Day, &v.Value); err != nil {
				return err
			}
			loc, ok := entriesByID[entryID]
			if !ok {
				return nil
			}
			status, ok := models.ParseStatus(name)
			if !ok {
				logger.Warn("skipping unknown status", "status", name, "entry", entryID)
				return nil
			}
			e := &lines[loc.line].Models[loc.model].MonthlyEntries[loc.entry]
			e.StatusData[status] = append(e.StatusData[status], v)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

func (db *DB) scan(ctx context.Context, what, query string, lineID string, fn func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("failed to scan %s: %w", what, err)
		}
	}
	return rows.Err()
}
