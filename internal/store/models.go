package store

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one invocation of the engine over a set of files: a CLI
// call, a CI job, an editor-triggered lint pass.
type Run struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	StartedAt   time.Time `gorm:"autoCreateTime"`
	EndedAt     *time.Time
	FilesCount  int `gorm:"default:0"`
	Violations  int `gorm:"default:0"`
	ConfigHash  string `gorm:"type:varchar(64);index"`
}

// FileRun is one file's analysis within a Run — one row per file per
// run, keyed by the file's content hash so identical content across
// runs is easy to spot.
type FileRun struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	RunID      string `gorm:"type:varchar(36);index;not null"`
	Path       string `gorm:"type:text;not null"`
	ContentSHA string `gorm:"type:varchar(64);index"`
	Kind       string `gorm:"type:varchar(20);not null"` // mirrors diagnostic.ResultKind
	Error      string `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Violations []ViolationRow `gorm:"foreignKey:FileRunID"`
}

// ViolationRow is one reported diagnostic.Violation, flattened for
// storage. Range fields are stored individually rather than as one
// JSON blob so a query can filter/sort by line without unpacking JSON
// — everything else about the violation that doesn't fit a column
// (fix edits, suggestions) goes into Metadata.
type ViolationRow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FileRunID  string `gorm:"type:varchar(36);index;not null"`
	Rule       string `gorm:"type:varchar(100);index;not null"`
	Severity   string `gorm:"type:varchar(10);not null"`
	MessageID  string `gorm:"type:varchar(100)"`
	Message    string `gorm:"type:text;not null"`
	StartByte  int
	EndByte    int
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
	Metadata   datatypes.JSON `gorm:"type:jsonb"` // fix descriptor + suggestions, verbatim
}

func (Run) TableName() string          { return "runs" }
func (FileRun) TableName() string      { return "file_runs" }
func (ViolationRow) TableName() string { return "violations" }
