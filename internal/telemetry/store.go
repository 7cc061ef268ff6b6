package telemetry

import (
	"database/sql"
	stdlog "log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Config holds telemetry database configuration.
type Config struct {
	Path string // Path to SQLite database file, or ":memory:" for tests.
}

// Store wraps the GORM database instance.
type Store struct {
	db *gorm.DB
}

// Open creates a telemetry store with the pure-Go SQLite driver, applies
// the WAL pragmas the teacher's database package uses, and migrates the
// event tables.
func Open(cfg Config, log *stdlog.Logger) (*Store, error) {
	var gormLog logger.Interface
	if log != nil {
		gormLog = logger.New(log, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	} else {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	dialector := sqlite.Dialector{DriverName: "sqlite", DSN: cfg.Path}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := configureSQLite(sqlDB); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&DecodeSession{}, &SyncEvent{}, &ScrLockEvent{}, &MultiBlockRecord{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func configureSQLite(sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=memory",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartSession records a new decode session for channelID.
func (s *Store) StartSession(channelID string) error {
	return s.db.Create(&DecodeSession{ID: channelID, StartedAt: time.Now()}).Error
}

// EndSession marks channelID's session as ended.
func (s *Store) EndSession(channelID string) error {
	now := time.Now()
	return s.db.Model(&DecodeSession{}).Where("id = ?", channelID).Update("ended_at", &now).Error
}

// RecordSync appends a sync-transition event.
func (s *Store) RecordSync(channelID string, acquired bool, totalSyncErr int) error {
	return s.db.Create(&SyncEvent{
		ChannelID:    channelID,
		Acquired:     acquired,
		TotalSyncErr: totalSyncErr,
		OccurredAt:   time.Now(),
	}).Error
}

// RecordScrLock appends a scrambling-constant lock event.
func (s *Store) RecordScrLock(channelID string, scr, confidence int) error {
	return s.db.Create(&ScrLockEvent{
		ChannelID:  channelID,
		Scr:        scr,
		Confidence: confidence,
		OccurredAt: time.Now(),
	}).Error
}

// RecordMultiBlock appends a multi-block delivery event.
func (s *Store) RecordMultiBlock(channelID string, frameNo, blocks, payloadLen int, parityOK bool) error {
	return s.db.Create(&MultiBlockRecord{
		ChannelID:  channelID,
		FrameNo:    frameNo,
		Blocks:     blocks,
		ParityOK:   parityOK,
		PayloadLen: payloadLen,
		OccurredAt: time.Now(),
	}).Error
}
