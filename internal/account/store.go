package account

import (
	"context"
	"path/filepath"

	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/fileutil"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Store persists one account document per network. Save replaces the
// whole document atomically.
type Store interface {
	// Load returns the document, or an empty state if none exists.
	Load(ctx context.Context, network chain.Network) (*State, error)

	// Save validates and replaces the document.
	Save(ctx context.Context, network chain.Network, state *State) error

	// Close releases resources held by the store.
	Close() error
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

const (
	// accountsDir is the directory under home holding file documents.
	accountsDir = "accounts"

	// badgerDir is the directory under home holding the badger database.
	badgerDir = "db"

	// accountFilePermissions is the permission mode for account documents.
	accountFilePermissions = 0o600
)

// Open returns the store for backend rooted at home.
func Open(backend, home string, log DBLogger) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(filepath.Join(home, accountsDir)), nil
	case BackendBadger:
		return OpenBadgerStore(BadgerOptions{Path: filepath.Join(home, badgerDir), Logger: log})
	default:
		return nil, sigilerr.WithDetails(sigilerr.ErrConfigInvalid, map[string]string{"storage.backend": backend})
	}
}

// FileStore keeps each network's document in <dir>/<network>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the document path for network.
func (s *FileStore) Path(network chain.Network) string {
	return filepath.Join(s.dir, network.String()+".json")
}

// Load reads the network document.
func (s *FileStore) Load(ctx context.Context, network chain.Network) (*State, error) {
	if err := checkNetwork(ctx, network); err != nil {
		return nil, err
	}

	state := NewState()
	if _, err := fileutil.ReadJSON(s.Path(network), state); err != nil {
		return nil, sigilerr.WithCause(sigilerr.ErrAccountStateInvalid, err)
	}
	if state.Wallets == nil {
		state.Wallets = []WalletRecord{}
	}
	return state, nil
}

// Save atomically replaces the network document.
func (s *FileStore) Save(ctx context.Context, network chain.Network, state *State) error {
	if err := checkNetwork(ctx, network); err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(s.Path(network), state, accountFilePermissions); err != nil {
		return sigilerr.Wrap(err, "saving %s account", network)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func checkNetwork(ctx context.Context, network chain.Network) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !network.IsValid() {
		return sigilerr.WithDetails(sigilerr.ErrUnknownNetwork, map[string]string{"network": network.String()})
	}
	return nil
}
