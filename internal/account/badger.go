package account

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/mrz1836/tonsigil/internal/chain"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// keyPrefix namespaces account documents in the database.
const keyPrefix = "account:"

// DBLogger receives the database engine's own log lines.
type DBLogger = badger.Logger

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in memory.
	InMemory bool
	// Logger receives badger's own log lines. Nil silences them.
	Logger DBLogger
}

// BadgerStore keeps account documents in a badger database, one key per
// network.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens or creates the database.
func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path).WithLogger(opts.Logger)
	if opts.InMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, sigilerr.Wrap(err, "opening account database")
	}
	return &BadgerStore{db: db}, nil
}

func accountKey(network chain.Network) []byte {
	return []byte(keyPrefix + network.String())
}

// Load reads the network document.
func (s *BadgerStore) Load(ctx context.Context, network chain.Network) (*State, error) {
	if err := checkNetwork(ctx, network); err != nil {
		return nil, err
	}

	state := NewState()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(network))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, state)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return NewState(), nil
	}
	if err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrAccountStateInvalid, err)
	}
	if state.Wallets == nil {
		state.Wallets = []WalletRecord{}
	}
	return state, nil
}

// Save replaces the network document in a single transaction.
func (s *BadgerStore) Save(ctx context.Context, network chain.Network, state *State) error {
	if err := checkNetwork(ctx, network); err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return sigilerr.Wrap(err, "encoding %s account", network)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(accountKey(network), data)
	}); err != nil {
		return sigilerr.Wrap(err, "saving %s account", network)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
