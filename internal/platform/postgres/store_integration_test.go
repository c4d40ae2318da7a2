//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/phrazzld/todo-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "password123", "", "")
	require.NoError(t, err)
	user.HashedPassword = "$2a$04$placeholderplaceholderplaceholderplaceholderplace"
	return user
}

func TestPostgresStores_OwnershipAndEmail(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)
		tasks := postgres.NewPostgresTaskStore(tx, nil)

		alice := newUser(t, "alice-"+uuid.NewString()+"@example.com")
		require.NoError(t, users.Create(ctx, alice))

		variant := newUser(t, "ALICE-"+alice.Email[len("alice-"):])
		require.NoError(t, users.Create(ctx, variant), "case variants are distinct accounts")

		bob := newUser(t, "bob-"+uuid.NewString()+"@example.com")
		require.NoError(t, users.Create(ctx, bob))

		task, err := domain.NewTask(alice.ID, "private", "", 0, nil)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		_, err = tasks.GetByID(ctx, bob.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.Delete(ctx, bob.ID, task.ID), store.ErrTaskNotFound)

		require.NoError(t, tasks.Delete(ctx, alice.ID, task.ID))
		assert.ErrorIs(t, tasks.Delete(ctx, alice.ID, task.ID), store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_ToggleConvergence(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.ResetTables(t, db)
	ctx := context.Background()

	users := postgres.NewPostgresUserStore(db, nil)
	tasks := postgres.NewPostgresTaskStore(db, nil)

	owner := newUser(t, "toggle@example.com")
	require.NoError(t, users.Create(ctx, owner))

	for _, n := range []int{1, 2, 9, 20} {
		task, err := domain.NewTask(owner.ID, "flip me", "", 0, nil)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		var g errgroup.Group
		for i := 0; i < n; i++ {
			g.Go(func() error {
				return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
					_, err := tasks.WithTx(tx).ToggleCompletion(ctx, owner.ID, task.ID)
					return err
				})
			})
		}
		require.NoError(t, g.Wait())

		got, err := tasks.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, n%2 == 1, got.Completed, "%d toggles", n)
	}
}
