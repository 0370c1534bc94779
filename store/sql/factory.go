package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/Najnomics/multihook-adapter/core"
)

// NewPostgresDB wraps an opened postgres handle for the store layer.
func NewPostgresDB(sqldb *sql.DB) (*bun.DB, error) {
	if sqldb == nil {
		return nil, fmt.Errorf("sqlstore: sql db is required")
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// NewSQLiteDB wraps an opened sqlite handle for the store layer.
func NewSQLiteDB(sqldb *sql.DB) (*bun.DB, error) {
	if sqldb == nil {
		return nil, fmt.Errorf("sqlstore: sql db is required")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// RepositoryFactory wires the SQL-backed stores off a shared bun handle.
// It accepts either a *bun.DB or anything exposing DB() *bun.DB, which
// covers the go-persistence-bun client.
type RepositoryFactory struct {
	db *bun.DB

	hookSetStore   *HookSetStore
	feeConfigStore *FeeConfigStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) error {
	if f == nil {
		return fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return err
		}
		f.db = db
	}
	if f.hookSetStore != nil && f.feeConfigStore != nil {
		return nil
	}

	hookSetStore, err := NewHookSetStore(f.db)
	if err != nil {
		return err
	}
	feeConfigStore, err := NewFeeConfigStore(f.db)
	if err != nil {
		return err
	}
	f.hookSetStore = hookSetStore
	f.feeConfigStore = feeConfigStore
	return nil
}

func (f *RepositoryFactory) HookSetStore() core.HookSetStore {
	if f == nil {
		return nil
	}
	return f.hookSetStore
}

func (f *RepositoryFactory) FeeConfigStore() core.FeeConfigStore {
	if f == nil {
		return nil
	}
	return f.feeConfigStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client %T", candidate)
	}
}
