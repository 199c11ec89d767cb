// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// Bolt is a BoltDB-backed store. Each session is one JSON-encoded
// snapshot in the sessions bucket.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens (creating if needed) a Bolt store at the given path.
func NewBolt(path string) (*Bolt, error) {
	opts := &bolt.Options{
		Timeout: time.Second,
	}
	db, err := bolt.Open(path, 0644, opts)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

// Get retrieves a snapshot by session name.
func (b *Bolt) Get(name string) (*Snapshot, error) {
	var snap *Snapshot
	err := b.db.View(func(tx *bolt.Tx) error {
		js := tx.Bucket(sessionsBucket).Get([]byte(name))
		if js == nil {
			return nil
		}
		snap = &Snapshot{}
		return json.Unmarshal(js, snap)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Put stores a snapshot by session name.
func (b *Bolt) Put(name string, snap *Snapshot) error {
	js, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(name), js)
	})
}

// Delete removes a snapshot by session name.
func (b *Bolt) Delete(name string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(name))
	})
}

// Names lists stored session names; Bolt keeps keys sorted.
func (b *Bolt) Names() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.db.Close()
}
