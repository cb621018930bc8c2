package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

const notInStoreMarker = "is not in the password store"

type runFunc func(ctx context.Context, env []string, input string, args ...string) (stdout string, stderr string, err error)

// Store keeps portal passwords in the user's pass(1) store. Only the first line of an entry is the
// password, as pass conventions put metadata on the following lines.
type Store struct {
	run      runFunc
	storeDir string
}

type Option func(*Store)

// WithStoreDir points pass at a password store other than ~/.password-store.
func WithStoreDir(dir string) Option {
	return func(s *Store) { s.storeDir = dir }
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(opts ...Option) *Store {
	s := &Store{run: runPass}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("pass put %q: password must be a single line", key)
	}

	_, stderr, err := s.run(ctx, s.env(), value+"\n", "insert", "--multiline", "--force", key)
	return wrap("put", key, err, stderr)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, s.env(), "", "show", key)
	if err != nil {
		return "", wrap("get", key, err, stderr)
	}

	password, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSuffix(password, "\r"), nil
}

// Delete treats a missing entry as already deleted.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, s.env(), "", "rm", "--force", key)
	err = wrap("delete", key, err, stderr)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	return err
}

func (s *Store) env() []string {
	if s.storeDir == "" {
		return nil
	}
	return []string{"PASSWORD_STORE_DIR=" + s.storeDir}
}

func runPass(ctx context.Context, env []string, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

// wrap never includes stdout, which may carry the secret.
func wrap(op string, key string, err error, stderr string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(stderr, notInStoreMarker) {
		return fmt.Errorf("pass %s %q: %w", op, key, domain.ErrSecretNotFound)
	}
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}
	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
