// Package telemetry persists a per-channel record of decode milestones
// (sync transitions, SCR locks, multi-block deliveries) for offline
// inspection, via GORM over the pure-Go modernc.org/sqlite driver -- the
// same storage stack the teacher repository uses for its DMR ID lookup
// database (internal/database).
//
// Persisted state is explicitly out of scope for the decoder core itself
// (spec §6: "Persisted state: none"); this package is an optional
// collaborator a driver can attach for observability, never a dependency
// of the core packages.
package telemetry

import "time"

// SyncEvent records one frame-synchronisation transition.
type SyncEvent struct {
	ID           uint      `gorm:"primarykey"`
	ChannelID    string    `gorm:"index;size:36"`
	Acquired     bool      // true = sync acquired, false = sync lost
	TotalSyncErr int
	OccurredAt   time.Time
}

// TableName specifies the table name for GORM.
func (SyncEvent) TableName() string { return "sync_events" }

// ScrLockEvent records blind scrambling-constant detection converging on
// a value.
type ScrLockEvent struct {
	ID         uint   `gorm:"primarykey"`
	ChannelID  string `gorm:"index;size:36"`
	Scr        int
	Confidence int
	OccurredAt time.Time
}

// TableName specifies the table name for GORM.
func (ScrLockEvent) TableName() string { return "scr_lock_events" }

// MultiBlockRecord records one multi-block delivered (or parity-failed)
// by the assembler.
type MultiBlockRecord struct {
	ID         uint `gorm:"primarykey"`
	ChannelID  string `gorm:"index;size:36"`
	FrameNo    int
	Blocks     int
	ParityOK   bool
	PayloadLen int
	OccurredAt time.Time
}

// TableName specifies the table name for GORM.
func (MultiBlockRecord) TableName() string { return "multiblock_records" }

// DecodeSession records the lifetime of one PhysCh instance, for
// correlating the above event tables.
type DecodeSession struct {
	ID        string `gorm:"primarykey;size:36"` // channel uuid
	StartedAt time.Time
	EndedAt   *time.Time
}

// TableName specifies the table name for GORM.
func (DecodeSession) TableName() string { return "decode_sessions" }
