package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-hub/internal/domain"
)

// fakeAdmin records provisioning calls.
type fakeAdmin struct {
	populated    bool
	createErr    error
	createdEmail string
	createdPass  string
	createCalls  int
}

func (f *fakeAdmin) CreateAccount(ctx context.Context, email, password string) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createdEmail = email
	f.createdPass = password
	return "identity-new", nil
}

func (f *fakeAdmin) HasIdentities(ctx context.Context) (bool, error) {
	return f.populated, nil
}

// fakeProfileStore records profile writes.
type fakeProfileStore struct {
	writeErr error
	written  map[string]*domain.Profile
}

func (f *fakeProfileStore) ReadProfile(ctx context.Context, identityID string) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}

func (f *fakeProfileStore) WriteProfile(ctx context.Context, identityID string, profile *domain.Profile) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.written == nil {
		f.written = make(map[string]*domain.Profile)
	}
	f.written[identityID] = profile
	return nil
}

// fakeProfileCache records invalidations.
type fakeProfileCache struct {
	invalidated []string
}

func (f *fakeProfileCache) Get(identityID string) (*domain.Profile, bool) { return nil, false }

func (f *fakeProfileCache) Set(identityID string, profile domain.Profile) {}

func (f *fakeProfileCache) Invalidate(identityID string) {
	f.invalidated = append(f.invalidated, identityID)
}

func testRunner(admin *fakeAdmin, store *fakeProfileStore) (*bootstrapRunner, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &bootstrapRunner{
		admin:    admin,
		profiles: store,
		cache:    &fakeProfileCache{},
		printer:  &printer{out: &out, err: &errOut},
	}, &out, &errOut
}

func TestBootstrapRunner_Run(t *testing.T) {
	t.Run("creates account and profile with default role", func(t *testing.T) {
		admin := &fakeAdmin{}
		store := &fakeProfileStore{}
		runner, out, _ := testRunner(admin, store)

		err := runner.run(context.Background(), "admin@example.com", "s3cret", domain.DefaultBootstrapRole)

		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", admin.createdEmail)
		assert.Equal(t, "s3cret", admin.createdPass)

		profile := store.written["identity-new"]
		require.NotNil(t, profile)
		assert.Equal(t, domain.RoleIT, profile.Role)
		assert.Equal(t, "admin", profile.DisplayName)
		assert.Contains(t, out.String(), "account created")
		assert.Contains(t, out.String(), "identity-new")
	})

	t.Run("explicit role is honored", func(t *testing.T) {
		admin := &fakeAdmin{}
		store := &fakeProfileStore{}
		runner, _, _ := testRunner(admin, store)

		err := runner.run(context.Background(), "ops@example.com", "s3cret", domain.RoleManager)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, store.written["identity-new"].Role)
	})

	t.Run("warns when backend already has accounts", func(t *testing.T) {
		admin := &fakeAdmin{populated: true}
		store := &fakeProfileStore{}
		runner, _, errOut := testRunner(admin, store)

		err := runner.run(context.Background(), "second@example.com", "s3cret", domain.RoleIT)

		require.NoError(t, err)
		assert.Contains(t, errOut.String(), "already has accounts")
		assert.Equal(t, 1, admin.createCalls)
	})

	t.Run("invalid email fails before touching the backend", func(t *testing.T) {
		admin := &fakeAdmin{}
		store := &fakeProfileStore{}
		runner, _, _ := testRunner(admin, store)

		err := runner.run(context.Background(), "not-an-email", "s3cret", domain.RoleIT)

		require.Error(t, err)
		assert.Zero(t, admin.createCalls)
		assert.Empty(t, store.written)
	})

	t.Run("create failure leaves no profile", func(t *testing.T) {
		admin := &fakeAdmin{createErr: errors.New("409 conflict")}
		store := &fakeProfileStore{}
		runner, _, _ := testRunner(admin, store)

		err := runner.run(context.Background(), "dup@example.com", "s3cret", domain.RoleIT)

		require.Error(t, err)
		assert.Empty(t, store.written)
	})

	t.Run("invalidates the cached profile after a write", func(t *testing.T) {
		cache := &fakeProfileCache{}
		runner, _, _ := testRunner(&fakeAdmin{}, &fakeProfileStore{})
		runner.cache = cache

		err := runner.run(context.Background(), "admin@example.com", "s3cret", domain.RoleIT)

		require.NoError(t, err)
		assert.Equal(t, []string{"identity-new"}, cache.invalidated)
	})

	t.Run("write failure leaves the cache untouched", func(t *testing.T) {
		cache := &fakeProfileCache{}
		runner, _, _ := testRunner(&fakeAdmin{}, &fakeProfileStore{writeErr: domain.ErrProfileWrite})
		runner.cache = cache

		err := runner.run(context.Background(), "admin@example.com", "s3cret", domain.RoleIT)

		require.Error(t, err)
		assert.Empty(t, cache.invalidated)
	})

	t.Run("profile write failure surfaces the identity id", func(t *testing.T) {
		admin := &fakeAdmin{}
		store := &fakeProfileStore{writeErr: domain.ErrProfileWrite}
		runner, _, _ := testRunner(admin, store)

		err := runner.run(context.Background(), "admin@example.com", "s3cret", domain.RoleIT)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProfileWrite)
		assert.Contains(t, err.Error(), "identity-new")
	})
}

func TestBootstrapCommand_ArgValidation(t *testing.T) {
	admin := &fakeAdmin{}
	store := &fakeProfileStore{}

	original := newBootstrapRunner
	newBootstrapRunner = func(cmd *cobra.Command) (*bootstrapRunner, func(), error) {
		runner, _, _ := testRunner(admin, store)
		return runner, func() {}, nil
	}
	defer func() { newBootstrapRunner = original }()

	t.Run("missing password is a usage error", func(t *testing.T) {
		var out, errOut bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&errOut)
		rootCmd.SetArgs([]string{"bootstrap", "admin@example.com"})

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Zero(t, admin.createCalls)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		var out, errOut bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&errOut)
		rootCmd.SetArgs([]string{"bootstrap", "admin@example.com", "s3cret", "superuser"})

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
		assert.Zero(t, admin.createCalls)
	})

	t.Run("two args create account with default role", func(t *testing.T) {
		var out, errOut bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&errOut)
		rootCmd.SetArgs([]string{"bootstrap", "admin@example.com", "s3cret"})

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Equal(t, 1, admin.createCalls)
		assert.Equal(t, domain.RoleIT, store.written["identity-new"].Role)
	})
}
