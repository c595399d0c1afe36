package address

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type sqliteTx struct {
	db *gorm.DB
}

func (s sqliteTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func setupAddressTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address_line1 TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  pin_code TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'India',
  phone_number TEXT NOT NULL,
  locality TEXT NOT NULL,
  landmark TEXT,
  alternate_phone_number TEXT,
  type TEXT NOT NULL DEFAULT 'Home',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS user_addresses (
  user_id TEXT NOT NULL,
  address_id TEXT NOT NULL,
  created_at DATETIME,
  PRIMARY KEY (user_id, address_id)
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  order_date DATETIME NOT NULL,
  total_amount NUMERIC NOT NULL,
  shipping_charges NUMERIC NOT NULL,
  shipping_address_id TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  payment_id TEXT,
  payment_status TEXT NOT NULL DEFAULT 'Pending',
  shiprocket_order_id TEXT,
  refund_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newAddressService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupAddressTestDB(t)
	svc, err := NewService(NewRepository(conn), sqliteTx{db: conn})
	require.NoError(t, err)
	return svc, conn
}

func sampleInput() CreateInput {
	landmark := "  Near the temple "
	return CreateInput{
		Name:         "Asha Rao",
		AddressLine1: "12 MG Road",
		City:         "Pune",
		State:        "Maharashtra",
		PinCode:      "411001",
		PhoneNumber:  "9876543210",
		Locality:     "Camp",
		Landmark:     &landmark,
	}
}

func TestCreateAndListAddresses(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "India", created.Country)
	assert.Equal(t, enums.AddressTypeHome, created.Type)
	require.NotNil(t, created.Landmark)
	assert.Equal(t, "Near the temple", *created.Landmark)

	work := sampleInput()
	work.Type = "Work"
	_, err = svc.Create(ctx, userID, work)
	require.NoError(t, err)

	_, err = svc.Create(ctx, uuid.New(), sampleInput())
	require.NoError(t, err)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc, _ := newAddressService(t)
	input := sampleInput()
	input.Type = "Warehouse"

	_, err := svc.Create(context.Background(), uuid.New(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeleteRemovesAddressAndLinks(t *testing.T) {
	svc, conn := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, sampleInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	var links int64
	require.NoError(t, conn.Model(&models.UserAddress{}).Where("address_id = ?", created.ID).Count(&links).Error)
	assert.Zero(t, links)
	var rows int64
	require.NoError(t, conn.Model(&models.Address{}).Where("id = ?", created.ID).Count(&rows).Error)
	assert.Zero(t, rows)

	err = svc.Delete(ctx, userID, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteKeepsAddressUsedByOrder(t *testing.T) {
	svc, conn := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, sampleInput())
	require.NoError(t, err)
	require.NoError(t, conn.Exec(
		`INSERT INTO orders (id, order_number, customer_id, order_date, total_amount, shipping_charges, shipping_address_id, payment_method)
		 VALUES (?, 'ORD-0000001', ?, ?, 100, 50, ?, 'COD')`,
		uuid.NewString(), userID.String(), time.Now().UTC(), created.ID.String(),
	).Error)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	var rows int64
	require.NoError(t, conn.Model(&models.Address{}).Where("id = ?", created.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestDeleteForeignAddressIsNotFound(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), sampleInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
