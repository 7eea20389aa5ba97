package account

import (
	"context"
	"strings"
	"sync"

	"github.com/mrz1836/tonsigil/internal/account"
	"github.com/mrz1836/tonsigil/internal/chain"
	"github.com/mrz1836/tonsigil/internal/metrics"
	"github.com/mrz1836/tonsigil/internal/mnemonic"
	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Service runs account mutations. Calls for the same network are
// serialized.
type Service struct {
	store       account.Store
	provisioner Provisioner
	password    PasswordFunc
	logger      LogWriter

	mu    sync.Mutex
	locks map[chain.Network]*sync.Mutex
}

// Config contains dependencies for creating an account service.
type Config struct {
	Store       account.Store
	Provisioner Provisioner
	Password    PasswordFunc
	Logger      LogWriter
}

// NewService creates a new account service instance.
func NewService(cfg *Config) *Service {
	return &Service{
		store:       cfg.Store,
		provisioner: cfg.Provisioner,
		password:    cfg.Password,
		logger:      cfg.Logger,
		locks:       make(map[chain.Network]*sync.Mutex),
	}
}

// Create provisions a new wallet and makes it active.
func (s *Service) Create(ctx context.Context, req CreateRequest) (out *Outcome, err error) {
	defer func() { metrics.Global.RecordWalletOp(err) }()

	unlock := s.lock(req.Network)
	defer unlock()

	state, err := s.store.Load(ctx, req.Network)
	if err != nil {
		return nil, err
	}

	password, err := s.requestPassword(req.Password, PromptNewPassword)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(req.Mnemonic)
	if len(words) == 0 {
		if words, err = mnemonic.New(); err != nil {
			return nil, err
		}
	}

	res, err := s.provisioner.CreateWallet(ctx, strings.Join(words, " "), password, state.NextIndex())
	if err != nil {
		return nil, err
	}

	next, err := s.save(ctx, req.Network, state, res.Record)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: res, State: next, Mnemonic: words}, nil
}

// Import provisions an existing phrase and makes it active.
func (s *Service) Import(ctx context.Context, req ImportRequest) (out *Outcome, err error) {
	defer func() { metrics.Global.RecordWalletOp(err) }()

	unlock := s.lock(req.Network)
	defer unlock()

	state, err := s.store.Load(ctx, req.Network)
	if err != nil {
		return nil, err
	}

	password, err := s.requestPassword(req.Password, PromptNewPassword)
	if err != nil {
		return nil, err
	}

	words := mnemonic.Normalize(req.Input)
	if err := mnemonic.Validate(words); err != nil {
		if typos := mnemonic.DetectTypos(words); len(typos) > 0 {
			return nil, sigilerr.WithSuggestion(err, mnemonic.FormatTypoSuggestions(typos))
		}
		return nil, err
	}

	res, err := s.provisioner.ImportWallet(ctx, words, password, state.NextIndex())
	if err != nil {
		return nil, err
	}

	next, err := s.save(ctx, req.Network, state, res.Record)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: res, State: next}, nil
}

// save rejects a duplicate before touching the store, then appends rec
// as the active wallet.
func (s *Service) save(ctx context.Context, network chain.Network, state *account.State, rec account.WalletRecord) (*account.State, error) {
	next, err := state.WithWallet(rec)
	if err != nil {
		s.debug("rejected %s wallet %s: %v", network, rec.Address, err)
		return nil, sigilerr.WithSuggestion(err, "wallet already connected; select it with: tonsigil wallet use "+rec.Address)
	}
	if err := s.store.Save(ctx, network, next); err != nil {
		s.logError("saving %s account: %v", network, err)
		return nil, err
	}
	s.debug("saved %s as %s on %s", rec.Name, rec.Address, network)
	return next, nil
}

// List returns the stored account for network.
func (s *Service) List(ctx context.Context, network chain.Network) (*account.State, error) {
	return s.store.Load(ctx, network)
}

// Select makes address the active wallet.
func (s *Service) Select(ctx context.Context, network chain.Network, address string) (*account.WalletRecord, error) {
	unlock := s.lock(network)
	defer unlock()

	state, err := s.store.Load(ctx, network)
	if err != nil {
		return nil, err
	}
	next, err := state.WithActive(address)
	if err != nil {
		return nil, sigilerr.WithSuggestion(err, "list wallets with: tonsigil wallet list")
	}
	if err := s.store.Save(ctx, network, next); err != nil {
		return nil, err
	}
	rec, _ := next.Active()
	return rec, nil
}

// Reveal decrypts the mnemonic of the wallet at address.
func (s *Service) Reveal(ctx context.Context, network chain.Network, address string, password PasswordFunc) ([]string, error) {
	state, err := s.store.Load(ctx, network)
	if err != nil {
		return nil, err
	}
	rec, ok := state.Find(address)
	if !ok {
		return nil, sigilerr.WithDetails(sigilerr.ErrWalletNotFound, map[string]string{"address": address})
	}

	pw, err := s.requestPassword(password, PromptRevealPassword)
	if err != nil {
		return nil, err
	}
	return s.provisioner.OpenRecord(ctx, rec, pw)
}

// requestPassword asks fn, or the service default when fn is nil.
func (s *Service) requestPassword(fn PasswordFunc, prompt string) (string, error) {
	if fn == nil {
		fn = s.password
	}
	if fn == nil {
		return "", sigilerr.ErrPasswordUnavailable
	}
	pw, err := fn(prompt)
	if err != nil {
		return "", sigilerr.WithCause(sigilerr.ErrPasswordUnavailable, err)
	}
	if pw == "" {
		return "", sigilerr.ErrPasswordUnavailable
	}
	return pw, nil
}

func (s *Service) lock(network chain.Network) func() {
	s.mu.Lock()
	m, ok := s.locks[network]
	if !ok {
		m = &sync.Mutex{}
		s.locks[network] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (s *Service) debug(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(format, args...)
	}
}

func (s *Service) logError(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Error(format, args...)
	}
}
