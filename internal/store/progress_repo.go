package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lingopro/internal/progress"
)

// progressRepo implements progress.Repo with one row per record and one
// snapshot header row per learner.
type progressRepo struct {
	db      *sql.DB
	dialect string
}

// Save replaces every stored record of the learner inside one transaction.
func (r *progressRepo) Save(ctx context.Context, snap *progress.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b := entsql.Dialect(r.dialect)

	query, args := b.Delete(recordsTableName).
		Where(entsql.EQ("learner", snap.Learner)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}

	for _, e := range snap.Records {
		cp, err := json.Marshal(e.Record.Checkpoint)
		if err != nil {
			return fmt.Errorf("marshal checkpoint: %w", err)
		}
		query, args := b.Insert(recordsTableName).
			Columns(
				"learner", "pathway_id", "unit_id", "lesson_id", "status",
				"best_score_pct", "last_score_pct", "best_time_seconds", "last_time_seconds",
				"completions", "completed_at", "updated_at", "checkpoint",
			).
			Values(
				snap.Learner, e.PathwayID, e.UnitID, e.LessonID, string(e.Record.Status),
				e.Record.BestScorePct, e.Record.LastScorePct, e.Record.BestTimeSeconds, e.Record.LastTimeSeconds,
				e.Record.Completions, unixMilli(e.Record.CompletedAt), unixMilli(e.Record.UpdatedAt), string(cp),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert record %s: %w", e.LessonID, err)
		}
	}

	query, args = b.Delete(snapshotsTableName).
		Where(entsql.EQ("learner", snap.Learner)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshot header: %w", err)
	}

	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	version := snap.Version
	if version == 0 {
		version = progress.SnapshotVersion
	}
	query, args = b.Insert(snapshotsTableName).
		Columns("learner", "version", "saved_at", "xp", "streak", "last_login_date").
		Values(snap.Learner, version, savedAt.UnixMilli(), snap.Profile.XP, snap.Profile.Streak, snap.Profile.LastLoginDate).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert snapshot header: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load returns the learner's snapshot, or nil if the learner never saved.
func (r *progressRepo) Load(ctx context.Context, learner string) (*progress.Snapshot, error) {
	b := entsql.Dialect(r.dialect)

	query, args := b.Select("version", "saved_at", "xp", "streak", "last_login_date").
		From(entsql.Table(snapshotsTableName)).
		Where(entsql.EQ("learner", learner)).
		Query()

	var (
		version int
		savedAt int64
		profile progress.Profile
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&version, &savedAt, &profile.XP, &profile.Streak, &profile.LastLoginDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot header: %w", err)
	}

	snap := &progress.Snapshot{
		Version: version,
		Learner: learner,
		SavedAt: time.UnixMilli(savedAt).UTC(),
		Profile: profile,
		Records: []progress.Entry{},
	}

	query, args = b.Select(
		"pathway_id", "unit_id", "lesson_id", "status",
		"best_score_pct", "last_score_pct", "best_time_seconds", "last_time_seconds",
		"completions", "completed_at", "updated_at", "checkpoint",
	).
		From(entsql.Table(recordsTableName)).
		Where(entsql.EQ("learner", learner)).
		OrderBy("pathway_id", "unit_id", "lesson_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e           progress.Entry
			status      string
			completedAt sql.NullInt64
			updatedAt   sql.NullInt64
			cp          string
		)
		if err := rows.Scan(
			&e.PathwayID, &e.UnitID, &e.LessonID, &status,
			&e.Record.BestScorePct, &e.Record.LastScorePct, &e.Record.BestTimeSeconds, &e.Record.LastTimeSeconds,
			&e.Record.Completions, &completedAt, &updatedAt, &cp,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		e.Record.Status = progress.Status(status)
		e.Record.CompletedAt = fromUnixMilli(completedAt)
		e.Record.UpdatedAt = fromUnixMilli(updatedAt)
		if cp != "" {
			if err := json.Unmarshal([]byte(cp), &e.Record.Checkpoint); err != nil {
				return nil, fmt.Errorf("unmarshal checkpoint for %s: %w", e.LessonID, err)
			}
		}
		snap.Records = append(snap.Records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return snap, nil
}

func unixMilli(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromUnixMilli(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64).UTC()
}
