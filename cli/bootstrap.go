package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ops-hub/internal/adapter/gateway"
	"ops-hub/internal/domain"
	"ops-hub/internal/infrastructure/cache"
	"ops-hub/internal/infrastructure/postgres"
)

// accountAdmin is the slice of the identity backend the bootstrap
// command needs.
type accountAdmin interface {
	domain.AccountProvisioner
	HasIdentities(ctx context.Context) (bool, error)
}

// bootstrapRunner holds the bootstrap command's dependencies so tests
// can substitute fakes.
type bootstrapRunner struct {
	admin    accountAdmin
	profiles domain.ProfileStore
	cache    domain.ProfileCache
	printer  *printer
}

// newBootstrapRunner wires the real backend clients. Replaced in tests.
var newBootstrapRunner = func(cmd *cobra.Command) (*bootstrapRunner, func(), error) {
	dsn := viper.GetString("database_dsn")
	if dsn == "" {
		return nil, nil, fmt.Errorf("database DSN is required (--database-dsn or OPSADMIN_DATABASE_DSN)")
	}

	pool, err := postgres.NewPool(cmd.Context(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to profile store: %w", err)
	}

	profileCache := cache.NewProfileCache(time.Minute)
	provider := gateway.NewKratosProvider(
		viper.GetString("kratos_url"),
		viper.GetString("kratos_admin_url"),
		10*time.Second,
		postgres.NewProfileRepository(pool),
		profileCache,
	)

	return &bootstrapRunner{
		admin:    provider,
		profiles: postgres.NewProfileRepository(pool),
		cache:    profileCache,
		printer:  newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}, pool.Close, nil
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap EMAIL PASSWORD [ROLE]",
	Short: "Create an account with its profile record",
	Long: `Create an account in the identity backend and write the matching
profile record. ROLE defaults to it when omitted. The display name is
derived from the email's local part.

Intended for seeding the first administrative account of a fresh
deployment; it also works against a populated backend and warns when
accounts already exist.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	runner, cleanup, err := newBootstrapRunner(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	role := domain.DefaultBootstrapRole
	if len(args) == 3 {
		role, err = domain.ParseRole(args[2])
		if err != nil {
			return err
		}
	}

	return runner.run(cmd.Context(), args[0], args[1], role)
}

func (r *bootstrapRunner) run(ctx context.Context, email, password string, role domain.Role) error {
	profile, err := domain.NewProfile(email, role)
	if err != nil {
		return err
	}

	populated, err := r.admin.HasIdentities(ctx)
	if err != nil {
		return fmt.Errorf("checking existing accounts: %w", err)
	}
	if populated {
		r.printer.Warning("backend already has accounts; adding another one")
	}

	identityID, err := r.admin.CreateAccount(ctx, email, password)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	if err := r.profiles.WriteProfile(ctx, identityID, profile); err != nil {
		return fmt.Errorf("writing profile for %s: %w", identityID, err)
	}
	r.cache.Invalidate(identityID)

	r.printer.Success("account created")
	renderTable(r.printer.out,
		[]string{"identity id", "email", "role", "display name"},
		[][]string{{identityID, profile.Email, string(profile.Role), profile.DisplayName}},
	)
	return nil
}
