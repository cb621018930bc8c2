package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/klientenportal-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/klientenportal-cli/internal/adapters/secrets/pass"
	"github.com/bnema/klientenportal-cli/internal/ports"
	"go.uber.org/zap"
)

// Backend is one named store in the chain.
type Backend struct {
	Name  string
	Store ports.SecretStore
}

// Store tries its backends in order. Writes land in the first backend that accepts them; deletes
// go to every backend so a stale copy further down cannot shadow a later write.
type Store struct {
	backends []Backend
	logger   *zap.Logger
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret store chain has no backends")

func NewStore(logger *zap.Logger, backends ...Backend) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend.Store == nil {
			return nil, fmt.Errorf("secret backend %d (%s) is nil", i, backend.Name)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{backends: backends, logger: logger}, nil
}

// NewPassWithFileFallback is the default: the user's pass store, then hardened files under fileRoot.
func NewPassWithFileFallback(fileRoot string, logger *zap.Logger) (*Store, error) {
	return NewStore(logger,
		Backend{Name: "pass", Store: passstore.NewStore()},
		Backend{Name: "file", Store: filestore.NewStore(fileRoot)},
	)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for _, backend := range s.backends {
		err := backend.Store.Put(ctx, key, value)
		if err == nil {
			s.logger.Debug("secret stored", zap.String("backend", backend.Name), zap.String("key", key))
			return nil
		}
		if isCancellation(err) {
			return err
		}
		s.logger.Debug("secret backend rejected put", zap.String("backend", backend.Name), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s backend put: %w", backend.Name, err))
	}
	return errors.Join(errs...)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, backend := range s.backends {
		value, err := backend.Store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if isCancellation(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("%s backend get: %w", backend.Name, err))
	}
	return "", errors.Join(errs...)
}

// Delete succeeds when at least one backend confirms the key is gone.
func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	deleted := false
	for _, backend := range s.backends {
		err := backend.Store.Delete(ctx, key)
		if err == nil {
			deleted = true
			continue
		}
		if isCancellation(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("%s backend delete: %w", backend.Name, err))
	}
	if deleted {
		for _, err := range errs {
			s.logger.Debug("secret backend delete failed", zap.Error(err))
		}
		return nil
	}
	return errors.Join(errs...)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
