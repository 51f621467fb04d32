package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/manaujo/Chef-Cardapio-sub000/testutils"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestEnsureCustomer_ExistingMapping(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "customer_mappings" WHERE user_id = (.+)`).
		WithArgs("user-1", 1).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "stripe_customer_id", "created_at"}).
			AddRow("m-1", "user-1", "cus_existing", time.Now()))

	client := &fakeClient{customerID: "cus_should_not_be_created"}
	svc := NewService(gormDB, client)

	customerID, err := svc.EnsureCustomer(context.Background(), "user-1", "owner@resto.com")

	assert.NoError(t, err)
	assert.Equal(t, "cus_existing", customerID)
	assert.Equal(t, 0, client.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCustomer_CreatesMapping(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "customer_mappings" WHERE user_id = (.+)`).
		WithArgs("user-1", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customer_mappings" (.+) ON CONFLICT (.+) DO NOTHING RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("m-1"))
	mock.ExpectCommit()

	client := &fakeClient{customerID: "cus_new"}
	svc := NewService(gormDB, client)

	customerID, err := svc.EnsureCustomer(context.Background(), "user-1", "owner@resto.com")

	assert.NoError(t, err)
	assert.Equal(t, "cus_new", customerID)
	assert.Equal(t, 1, client.created)
	assert.Empty(t, client.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCustomer_RecreatesAfterSoftDelete(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// A soft-deleted mapping is invisible to the lookup and, thanks to
	// the partial unique index, does not block a fresh insert.
	mock.ExpectQuery(`SELECT (.+) FROM "customer_mappings" WHERE user_id = (.+) AND "customer_mappings"."deleted_at" IS NULL`).
		WithArgs("user-1", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customer_mappings" (.+) ON CONFLICT (.+) DO NOTHING RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("m-2"))
	mock.ExpectCommit()

	client := &fakeClient{customerID: "cus_fresh"}
	svc := NewService(gormDB, client)

	customerID, err := svc.EnsureCustomer(context.Background(), "user-1", "owner@resto.com")

	assert.NoError(t, err)
	assert.Equal(t, "cus_fresh", customerID)
	assert.Empty(t, client.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCustomer_PersistenceFailureCompensates(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "customer_mappings" WHERE user_id = (.+)`).
		WithArgs("user-1", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customer_mappings"`).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	client := &fakeClient{customerID: "cus_orphan"}
	svc := NewService(gormDB, client)

	_, err := svc.EnsureCustomer(context.Background(), "user-1", "owner@resto.com")

	assert.ErrorIs(t, err, ErrMappingFailed)
	// The Stripe customer created before the failed insert must be
	// cleaned up, otherwise reconciliation for this user is dead.
	assert.Equal(t, []string{"cus_orphan"}, client.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCustomer_LostRaceAdoptsWinner(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "customer_mappings" WHERE user_id = (.+)`).
		WithArgs("user-1", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Conflict on the unique user_id index: DO NOTHING returns no rows.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customer_mappings" (.+) ON CONFLICT (.+) DO NOTHING RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "customer_mappings" WHERE user_id = (.+)`).
		WithArgs("user-1", 1).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "stripe_customer_id", "created_at"}).
			AddRow("m-1", "user-1", "cus_winner", time.Now()))

	client := &fakeClient{customerID: "cus_loser"}
	svc := NewService(gormDB, client)

	customerID, err := svc.EnsureCustomer(context.Background(), "user-1", "owner@resto.com")

	assert.NoError(t, err)
	assert.Equal(t, "cus_winner", customerID)
	assert.Equal(t, []string{"cus_loser"}, client.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCustomer_ProcessorDown(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "customer_mappings" WHERE user_id = (.+)`).
		WithArgs("user-1", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	client := &fakeClient{customerErr: fmt.Errorf("stripe unreachable")}
	svc := NewService(gormDB, client)

	_, err := svc.EnsureCustomer(context.Background(), "user-1", "owner@resto.com")

	assert.ErrorIs(t, err, ErrExternalService)
	assert.Empty(t, client.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
