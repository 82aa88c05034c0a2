package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/mcsim/internal/stats"
)

const runColumns = `seq, id, name, outcome, target, proposal, k, n, seed, stats, summary, ks_statistic, ks_p_value, error, started_at`

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)

	return scanRun(row)
}

// ListRuns returns runs matching f in ledger order (seq ASC). With a Limit,
// only the most recent runs are returned, still oldest first.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, f ListFilter) ([]RunRecord, error) {
	var where []string
	var args []any
	if f.Name != "" {
		where = append(where, "name = ?")
		args = append(args, f.Name)
	}
	if f.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, f.Outcome)
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit := -1 // SQLite: no limit
	if f.Limit > 0 {
		limit = f.Limit
	}
	query = `SELECT * FROM (` + query + ` ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		rec       RunRecord
		seed      string
		statsJSON string
		summary   sql.NullString
		ksStat    sql.NullFloat64
		ksP       sql.NullFloat64
		startedAt string
	)
	err := sc.Scan(
		&rec.Seq, &rec.ID, &rec.Name, &rec.Outcome, &rec.Target, &rec.Proposal,
		&rec.K, &rec.N, &seed, &statsJSON, &summary, &ksStat, &ksP, &rec.Error, &startedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	if rec.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return RunRecord{}, fmt.Errorf("scan run %s: seed: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &rec.Stats); err != nil {
		return RunRecord{}, fmt.Errorf("scan run %s: stats: %w", rec.ID, err)
	}
	if summary.Valid {
		if rec.Summary, err = unmarshalNullable[stats.Summary](&summary.String); err != nil {
			return RunRecord{}, fmt.Errorf("scan run %s: %w", rec.ID, err)
		}
	}
	if ksStat.Valid && ksP.Valid {
		rec.KS = &stats.KSResult{Statistic: ksStat.Float64, PValue: ksP.Float64}
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return RunRecord{}, fmt.Errorf("scan run %s: started_at: %w", rec.ID, err)
	}

	return rec, nil
}
