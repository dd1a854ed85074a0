// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"fmt"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/stackedmap"
)

// Error is the error caused by ledger access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger: %v", e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// State is a mutable view of the ledger with checkpoint/revert.
// It is not safe for concurrent use.
type State struct {
	load func(key pubkey.Key) (*Account, error)
	sm   *stackedmap.StackedMap[pubkey.Key, *Account]
}

// newState creates a state reading missing accounts with load.
func newState(load func(key pubkey.Key) (*Account, error)) *State {
	s := &State{load: load}
	s.sm = stackedmap.New(func(key pubkey.Key) (*Account, bool, error) {
		acc, err := s.load(key)
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	})
	return s
}

// GetAccount returns a copy of the account at key.
// Missing accounts are returned empty.
func (s *State) GetAccount(key pubkey.Key) (*Account, error) {
	acc, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return acc.Copy(), nil
}

// SetAccount sets the account at key. The state keeps its own copy.
func (s *State) SetAccount(key pubkey.Key, acc *Account) {
	s.sm.Put(key, acc.Copy())
}

// Exists returns whether a non-empty account is at key.
func (s *State) Exists(key pubkey.Key) (bool, error) {
	acc, _, err := s.sm.Get(key)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Changes returns the latest value of every account set since creation,
// excluding reverted changes.
func (s *State) Changes() map[pubkey.Key]*Account {
	changes := make(map[pubkey.Key]*Account)
	s.sm.Journal(func(key pubkey.Key, acc *Account) bool {
		changes[key] = acc
		return true
	})
	return changes
}
