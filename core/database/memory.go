package database

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

// Tables and indexes of the in-memory store. Row types are owned by the
// modules; indexes only rely on their field names.
const (
	TableTeams               = "teams"
	TableUsers               = "users"
	TableTasks               = "tasks"
	TableMeetings            = "meetings"
	TableMeetingParticipants = "meeting_participants"

	IndexID        = "id"
	IndexTeamID    = "team_id"
	IndexMeetingID = "meeting_id"
	IndexUserID    = "user_id"
)

// UUIDFieldIndex indexes a uuid.UUID or *uuid.UUID struct field.
type UUIDFieldIndex struct {
	Field string
}

func (u *UUIDFieldIndex) FromObject(obj any) (bool, []byte, error) {
	v := reflect.Indirect(reflect.ValueOf(obj))

	fv := v.FieldByName(u.Field)
	if !fv.IsValid() {
		return false, nil, fmt.Errorf("field '%s' for %#v is invalid", u.Field, obj)
	}

	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return false, nil, nil
		}
		fv = fv.Elem()
	}

	id, ok := fv.Interface().(uuid.UUID)
	if !ok {
		return false, nil, fmt.Errorf("field '%s' is %s, not uuid.UUID", u.Field, fv.Type())
	}
	if id == uuid.Nil {
		return false, nil, nil
	}

	return true, encodeUUID(id), nil
}

func (u *UUIDFieldIndex) FromArgs(args ...any) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("must provide only a single argument")
	}
	switch arg := args[0].(type) {
	case uuid.UUID:
		return encodeUUID(arg), nil
	case *uuid.UUID:
		if arg == nil {
			return nil, fmt.Errorf("nil uuid argument")
		}
		return encodeUUID(*arg), nil
	case string:
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, err
		}
		return encodeUUID(id), nil
	default:
		return nil, fmt.Errorf("argument must be a uuid: %#v", args[0])
	}
}

func encodeUUID(id uuid.UUID) []byte {
	// Add the null character as a terminator
	return append(id[:], '\x00')
}

func memorySchema() *memdb.DBSchema {
	idIndex := &memdb.IndexSchema{
		Name:    IndexID,
		Unique:  true,
		Indexer: &UUIDFieldIndex{Field: "ID"},
	}
	teamIndex := func(allowMissing bool) *memdb.IndexSchema {
		return &memdb.IndexSchema{
			Name:         IndexTeamID,
			AllowMissing: allowMissing,
			Indexer:      &UUIDFieldIndex{Field: "TeamID"},
		}
	}

	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			TableTeams: {
				Name:    TableTeams,
				Indexes: map[string]*memdb.IndexSchema{IndexID: idIndex},
			},
			TableUsers: {
				Name: TableUsers,
				Indexes: map[string]*memdb.IndexSchema{
					IndexID:     idIndex,
					IndexTeamID: teamIndex(true),
				},
			},
			TableTasks: {
				Name: TableTasks,
				Indexes: map[string]*memdb.IndexSchema{
					IndexID:     idIndex,
					IndexTeamID: teamIndex(false),
				},
			},
			TableMeetings: {
				Name: TableMeetings,
				Indexes: map[string]*memdb.IndexSchema{
					IndexID:     idIndex,
					IndexTeamID: teamIndex(false),
				},
			},
			TableMeetingParticipants: {
				Name: TableMeetingParticipants,
				Indexes: map[string]*memdb.IndexSchema{
					IndexID: {
						Name:   IndexID,
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&UUIDFieldIndex{Field: "MeetingID"},
								&UUIDFieldIndex{Field: "UserID"},
							},
						},
					},
					IndexMeetingID: {
						Name:    IndexMeetingID,
						Indexer: &UUIDFieldIndex{Field: "MeetingID"},
					},
					IndexUserID: {
						Name:    IndexUserID,
						Indexer: &UUIDFieldIndex{Field: "UserID"},
					},
				},
			},
		},
	}
}

// MemTxn is a go-memdb transaction, re-exported so repositories only
// depend on this package.
type MemTxn = memdb.Txn

// MemoryDB is the in-memory storage driver. A single write transaction is
// open at a time, which serializes every check-then-write unit of work.
type MemoryDB struct {
	db *memdb.MemDB
}

func NewMemoryDB() (*MemoryDB, error) {
	db, err := memdb.NewMemDB(memorySchema())
	if err != nil {
		return nil, fmt.Errorf("create memory database: %w", err)
	}
	return &MemoryDB{db: db}, nil
}

func (m *MemoryDB) Txn(write bool) *MemTxn {
	return m.db.Txn(write)
}

// WithTx runs fn in a write transaction that is committed only if fn
// succeeds and ctx is still alive.
func (m *MemoryDB) WithTx(ctx context.Context, fn func(txn *MemTxn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := fn(txn); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// Store bundles the configured storage backend. Exactly one of SQL and
// Memory is set.
type Store struct {
	SQL    *Database
	Memory *MemoryDB
}

func (s Store) IsMemory() bool {
	return s.Memory != nil
}

func (s Store) Close() error {
	if s.SQL != nil {
		return s.SQL.Close()
	}
	return nil
}
