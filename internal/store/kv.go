package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

// GetBlob returns the value stored under key, or nil if the key is absent.
func (db *DB) GetBlob(key string) ([]byte, error) {
	var value []byte
	err := db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// PutBlobs upserts every entry in a single transaction. A nil value deletes
// the key.
func (db *DB) PutBlobs(entries map[string][]byte) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UnixMilli()
	for key, value := range entries {
		if value == nil {
			if _, err := tx.Exec(`DELETE FROM blobs WHERE key = ?`, key); err != nil {
				return fmt.Errorf("delete blob %s: %w", key, err)
			}
			continue
		}
		if _, err := stmt.Exec(key, value, now); err != nil {
			return fmt.Errorf("put blob %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// DeleteBlobs removes the given keys. Missing keys are ignored.
func (db *DB) DeleteBlobs(keys ...string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM blobs WHERE key = ?`, key); err != nil {
			return fmt.Errorf("delete blob %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// BlobKeys lists every stored key in lexical order.
func (db *DB) BlobKeys() ([]string, error) {
	rows, err := db.Query(`SELECT key FROM blobs`)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, rows.Err()
}
