package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	snapshotsTableName = "learner_snapshots"
	recordsTableName   = "progress_records"
)

var (
	// learnerSnapshotsColumns holds one row per learner that has saved.
	learnerSnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner", Type: field.TypeString, Unique: true},
		{Name: "version", Type: field.TypeInt},
		{Name: "saved_at", Type: field.TypeInt64},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "last_login_date", Type: field.TypeString, Default: ""},
	}
	// LearnerSnapshotsTable holds the schema information for the "learner_snapshots" table.
	LearnerSnapshotsTable = &schema.Table{
		Name:       snapshotsTableName,
		Columns:    learnerSnapshotsColumns,
		PrimaryKey: []*schema.Column{learnerSnapshotsColumns[0]},
	}

	// progressRecordsColumns holds the columns for the "progress_records" table.
	progressRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner", Type: field.TypeString},
		{Name: "pathway_id", Type: field.TypeString, Default: ""},
		{Name: "unit_id", Type: field.TypeString, Default: ""},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "best_score_pct", Type: field.TypeInt, Default: 0},
		{Name: "last_score_pct", Type: field.TypeInt, Default: 0},
		{Name: "best_time_seconds", Type: field.TypeInt, Default: 0},
		{Name: "last_time_seconds", Type: field.TypeInt, Default: 0},
		{Name: "completions", Type: field.TypeInt, Default: 0},
		{Name: "completed_at", Type: field.TypeInt64, Nullable: true},
		{Name: "updated_at", Type: field.TypeInt64, Nullable: true},
		{Name: "checkpoint", Type: field.TypeString, Size: 2147483647},
	}
	// ProgressRecordsTable holds the schema information for the "progress_records" table.
	ProgressRecordsTable = &schema.Table{
		Name:       recordsTableName,
		Columns:    progressRecordsColumns,
		PrimaryKey: []*schema.Column{progressRecordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "progressrecord_learner_pathway_id_unit_id_lesson_id",
				Unique:  true,
				Columns: []*schema.Column{progressRecordsColumns[1], progressRecordsColumns[2], progressRecordsColumns[3], progressRecordsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LearnerSnapshotsTable,
		ProgressRecordsTable,
	}
)
