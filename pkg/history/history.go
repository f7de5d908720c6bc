// Copyright (C) 2021-2024 the Fluidpatcher Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package history records provisioning runs to disk, so a later run (or a
// troubleshooting session) can see what happened before. Best effort: a
// broken history store must never block provisioning.
package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KeeganShaw-GIS/fluidpatcher/pkg/log"

	"github.com/prologic/bitcask"
)

//one provisioning run
type Record struct {
	Time     time.Time
	Success  bool
	Fatal    string   `json:",omitempty"` //reason for abort, if any
	Warnings []string `json:",omitempty"`
}

// Store keeps one Record per run, keyed by timestamp. All entries in one
// bitcask db.
type Store struct {
	bc *bitcask.Bitcask
	sync.Mutex
}

// Open opens (or creates) the history store at path.
func Open(path string) (*Store, error) {
	bc, err := bitcask.Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{bc: bc}, nil
}

func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()
	return s.bc.Close()
}

// Append stores a run record. Errors are logged, not returned - callers
// never branch on history failure.
func (s *Store) Append(r Record) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Logf("history: marshalling record: %s", err)
		return
	}
	s.Lock()
	defer s.Unlock()
	k := []byte(r.Time.UTC().Format(time.RFC3339Nano))
	if err = s.bc.Put(k, data); err != nil {
		log.Logf("history: storing record: %s", err)
	}
}

// Runs returns all recorded runs, oldest first (keys sort by time).
func (s *Store) Runs() (records []Record, err error) {
	s.Lock()
	defer s.Unlock()
	var keys [][]byte
	for k := range s.bc.Keys() {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return string(keys[i]) < string(keys[j]) })
	for _, k := range keys {
		v, err := s.bc.Get(k)
		if err != nil {
			return nil, err
		}
		var r Record
		if err = json.Unmarshal(v, &r); err != nil {
			return nil, fmt.Errorf("history: corrupt record %s: %s", k, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Last returns the most recent run, or ok=false if the store is empty.
func (s *Store) Last() (r Record, ok bool) {
	records, err := s.Runs()
	if err != nil || len(records) == 0 {
		return
	}
	return records[len(records)-1], true
}
