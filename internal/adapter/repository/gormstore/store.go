package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/record"
)

var emptyArray = []byte("[]")

// collectionRow holds one whole collection as a JSON array plus its mirror
// bookkeeping.
type collectionRow struct {
	Name          string         `gorm:"primaryKey;size:64;column:name"`
	Payload       datatypes.JSON `gorm:"column:payload"`
	// Revision counts local writes; a push may only mark the revision it
	// read as synced.
	Revision      int64          `gorm:"column:revision;not null;default:0"`
	Synced        bool           `gorm:"column:synced"`
	RemoteVersion string         `gorm:"size:128;column:remote_version"`
	LastError     string         `gorm:"type:text;column:last_error"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	SyncedAt      *time.Time     `gorm:"column:synced_at"`
}

func (collectionRow) TableName() string { return "collections" }

// Store is the local, authoritative record.Store.
type Store struct {
	db *gorm.DB

	// set on transaction-bound stores; collects what the tx wrote
	touched map[record.Collection]struct{}
}

var (
	_ record.Store       = (*Store)(nil)
	_ record.SyncTracker = (*Store)(nil)
)

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&collectionRow{})
}

// Batch runs fn in a db transaction, passing a store bound to the tx.
func (s *Store) Batch(ctx context.Context, fn func(tx record.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Read(ctx context.Context, c record.Collection) ([]byte, error) {
	data, _, err := s.ReadRevision(ctx, c)
	return data, err
}

// ReadRevision is Read plus the collection's revision, 0 when it was never
// written. Inside a unit of work the row stays locked until commit so
// read-modify-write cycles on one collection queue up.
func (s *Store) ReadRevision(ctx context.Context, c record.Collection) ([]byte, int64, error) {
	if !c.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", record.ErrUnknownCollection, c)
	}
	q := s.db.WithContext(ctx).Select("name", "payload", "revision").Where("name = ?", string(c))
	if s.touched != nil {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var row collectionRow
	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return emptyArray, 0, nil
	}
	if err != nil {
		return nil, 0, storageErr("read", c, err)
	}
	if len(row.Payload) == 0 {
		return emptyArray, row.Revision, nil
	}
	return []byte(row.Payload), row.Revision, nil
}

// Write replaces the collection and flags it as not yet mirrored.
func (s *Store) Write(ctx context.Context, c record.Collection, data []byte) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", record.ErrUnknownCollection, c)
	}
	if len(data) == 0 {
		data = emptyArray
	}
	row := collectionRow{
		Name:      string(c),
		Payload:   datatypes.JSON(data),
		Revision:  1,
		Synced:    false,
		UpdatedAt: time.Now().UTC(),
	}
	set := clause.AssignmentColumns([]string{"payload", "synced", "updated_at"})
	set = append(set, clause.Assignment{Column: clause.Column{Name: "revision"}, Value: gorm.Expr("revision + 1")})
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: set,
	}).Create(&row).Error
	if err != nil {
		return storageErr("write", c, err)
	}
	if s.touched != nil {
		s.touched[c] = struct{}{}
	}
	return nil
}

func (s *Store) MarkSynced(ctx context.Context, c record.Collection, version string) error {
	now := time.Now().UTC()
	row := collectionRow{
		Name:          string(c),
		Payload:       datatypes.JSON(emptyArray),
		Synced:        true,
		RemoteVersion: version,
		UpdatedAt:     now,
		SyncedAt:      &now,
	}
	return s.upsertSync(ctx, c, &row, []string{"synced", "remote_version", "last_error", "synced_at"})
}

// MarkSyncedIf flags c synced only while its revision is still rev. It
// reports false when a local write landed in between.
func (s *Store) MarkSyncedIf(ctx context.Context, c record.Collection, version string, rev int64) (bool, error) {
	if !c.Valid() {
		return false, fmt.Errorf("%w: %q", record.ErrUnknownCollection, c)
	}
	now := time.Now().UTC()
	if rev == 0 {
		// never written: give the compare below a row to match
		row := collectionRow{Name: string(c), Payload: datatypes.JSON(emptyArray), UpdatedAt: now}
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return false, storageErr("mark sync", c, err)
		}
	}
	res := s.db.WithContext(ctx).Model(&collectionRow{}).
		Where("name = ? AND revision = ?", string(c), rev).
		Updates(map[string]any{
			"synced":         true,
			"remote_version": version,
			"last_error":     "",
			"synced_at":      now,
		})
	if res.Error != nil {
		return false, storageErr("mark sync", c, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) MarkUnsynced(ctx context.Context, c record.Collection, cause error) error {
	row := collectionRow{
		Name:      string(c),
		Payload:   datatypes.JSON(emptyArray),
		UpdatedAt: time.Now().UTC(),
	}
	if cause != nil {
		row.LastError = cause.Error()
	}
	return s.upsertSync(ctx, c, &row, []string{"synced", "last_error"})
}

func (s *Store) upsertSync(ctx context.Context, c record.Collection, row *collectionRow, cols []string) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", record.ErrUnknownCollection, c)
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(row).Error
	if err != nil {
		return storageErr("mark sync", c, err)
	}
	return nil
}

// SyncStates reports every collection in record.All order. Collections
// never written show up unsynced with a zero UpdatedAt.
func (s *Store) SyncStates(ctx context.Context) ([]record.SyncState, error) {
	var rows []collectionRow
	err := s.db.WithContext(ctx).
		Select("name", "synced", "remote_version", "last_error", "updated_at", "synced_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: sync states: %v", errs.ErrStorage, err)
	}
	byName := make(map[string]collectionRow, len(rows))
	for _, r := range rows {
		byName[r.Name] = r
	}

	out := make([]record.SyncState, 0, len(record.All))
	for _, c := range record.All {
		r := byName[string(c)]
		out = append(out, record.SyncState{
			Collection:    c,
			Synced:        r.Synced,
			RemoteVersion: r.RemoteVersion,
			LastError:     r.LastError,
			UpdatedAt:     r.UpdatedAt,
			SyncedAt:      r.SyncedAt,
		})
	}
	return out, nil
}

func storageErr(op string, c record.Collection, err error) error {
	return fmt.Errorf("%w: %s %s: %v", errs.ErrStorage, op, c, err)
}
