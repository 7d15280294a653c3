// internal/services/inventory_ledger_test.go
package services

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stockhub/stockhub-backend/internal/database"
	"github.com/stockhub/stockhub-backend/internal/models"
)

// LedgerSuite exercises the transactional mutation path against a real
// Postgres instance; the row-lock and rollback semantics under test do not
// exist in a mocked driver. Point TEST_DATABASE_DSN at a scratch database to
// enable it.
type LedgerSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *InventoryService
}

func TestLedgerSuite(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database-backed ledger tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	suite.Run(t, &LedgerSuite{db: db, svc: NewInventoryService(db)})
}

// newAccount returns a manager actor with a fresh account so each test runs in
// its own namespace and never sees another test's rows.
func (s *LedgerSuite) newAccount() *Actor {
	id := uuid.New()
	return &Actor{
		UserID:    id,
		AccountID: id,
		Email:     "owner@shop.test",
		Role:      models.UserRoleManager,
	}
}

func (s *LedgerSuite) createItem(actor *Actor, name string, qty int, price string) *models.InventoryItem {
	p := decimal.RequireFromString(price)
	item, ledger, err := s.svc.CreateItem(actor, &CreateItemRequest{
		ProductName: name,
		SKU:         "SKU-" + name,
		Barcode:     "BC-" + name,
		Brand:       "Acme",
		Category:    "tools",
		Quantity:    &qty,
		Price:       &p,
	})
	s.Require().NoError(err)
	s.Require().Empty(ledger.Warnings)
	return item
}

func (s *LedgerSuite) changeLogs(actor *Actor) []models.StockChangeLog {
	var logs []models.StockChangeLog
	s.Require().NoError(s.db.Where("account_id = ?", actor.AccountID).
		Order("id ASC").Find(&logs).Error)
	return logs
}

func (s *LedgerSuite) snapshots(actor *Actor) []models.AccountTotalsSnapshot {
	var snaps []models.AccountTotalsSnapshot
	s.Require().NoError(s.db.Where("account_id = ?", actor.AccountID).
		Order("id ASC").Find(&snaps).Error)
	return snaps
}

func (s *LedgerSuite) TestUnchangedQuantityIsRejectedAndUnlogged() {
	actor := s.newAccount()
	item := s.createItem(actor, "widget", 5, "2.50")

	same := 5
	_, _, err := s.svc.AdjustQuantity(actor, item.ID, &AdjustQuantityRequest{Quantity: &same})
	s.ErrorIs(err, ErrNoChange)

	// Only the creation reached the ledger, the rejected no-op left no trace.
	s.Len(s.changeLogs(actor), 1)
	s.Len(s.snapshots(actor), 1)

	got, err := s.svc.GetItem(actor, item.ID)
	s.NoError(err)
	s.Equal(5, got.Quantity)

	var totals models.AccountTotals
	s.NoError(s.db.First(&totals, "account_id = ?", actor.AccountID).Error)
	s.Equal(5, totals.Stock)
	s.True(totals.Total.Equal(decimal.RequireFromString("12.50")))
}

func (s *LedgerSuite) TestChangeLogHistorySurvivesDeletion() {
	actor := s.newAccount()
	item := s.createItem(actor, "gadget", 5, "3.00")

	next := 8
	_, _, err := s.svc.AdjustQuantity(actor, item.ID, &AdjustQuantityRequest{Quantity: &next})
	s.Require().NoError(err)

	disposal, ledger, err := s.svc.DeleteItem(actor, item.ID)
	s.Require().NoError(err)
	s.Require().Empty(ledger.Warnings)
	s.Equal(8, disposal.Quantity)

	_, err = s.svc.GetItem(actor, item.ID)
	s.ErrorIs(err, ErrItemNotFound)

	// new, increase, and the disposal's decrease all survive with the
	// back-reference cleared.
	logs := s.changeLogs(actor)
	s.Require().Len(logs, 3)
	s.Equal(models.StockStatusNew, logs[0].Status)
	s.Equal(models.StockStatusIncrease, logs[1].Status)
	s.Equal(models.StockStatusDecrease, logs[2].Status)
	for _, entry := range logs {
		s.Nil(entry.ItemID)
	}
}

func (s *LedgerSuite) TestFieldUpdateAlwaysAppendsLog() {
	actor := s.newAccount()
	item := s.createItem(actor, "sprocket", 2, "4.00")

	brand := "Acme"
	for i := 0; i < 2; i++ {
		_, ledger, err := s.svc.UpdateFields(actor, item.ID, &UpdateFieldsRequest{Brand: &brand})
		s.Require().NoError(err)
		s.Require().NotNil(ledger.ChangeLog)
		s.Equal(models.StockStatusUpdateInfo, ledger.ChangeLog.Status)
	}

	newPrice := decimal.RequireFromString("4.50")
	_, ledger, err := s.svc.UpdateFields(actor, item.ID, &UpdateFieldsRequest{Price: &newPrice})
	s.Require().NoError(err)
	s.Equal(models.StockStatusPriceUpdate, ledger.ChangeLog.Status)

	// Identical submissions are logged each time, the ledger records
	// submissions, not diffs.
	s.Len(s.changeLogs(actor), 4)
}

func (s *LedgerSuite) TestSnapshotsChainAcrossMutations() {
	actor := s.newAccount()
	a := s.createItem(actor, "bolt", 3, "2.00")
	b := s.createItem(actor, "nut", 4, "1.50")

	next := 10
	_, _, err := s.svc.AdjustQuantity(actor, a.ID, &AdjustQuantityRequest{Quantity: &next})
	s.Require().NoError(err)

	_, _, err = s.svc.DeleteItem(actor, b.ID)
	s.Require().NoError(err)

	snaps := s.snapshots(actor)
	s.Require().Len(snaps, 4)

	s.Equal(0, snaps[0].StockBefore)
	s.True(snaps[0].TotalBefore.IsZero())
	for i := 1; i < len(snaps); i++ {
		s.Equal(snaps[i-1].StockAfter, snaps[i].StockBefore)
		s.True(snaps[i-1].TotalAfter.Equal(snaps[i].TotalBefore))
	}

	// The last after-window agrees with the running-totals row the summary
	// reads: stock 10, total 10 * 2.00.
	summary, err := s.svc.GetSummary(actor)
	s.Require().NoError(err)
	s.Equal(snaps[len(snaps)-1].StockAfter, summary.Stock)
	s.True(snaps[len(snaps)-1].TotalAfter.Equal(summary.Total))
	s.Equal(10, summary.Stock)
	s.True(summary.Total.Equal(decimal.RequireFromString("20.00")))
	s.Equal(int64(1), summary.Items)
}
