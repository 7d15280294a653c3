// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockhub/stockhub-backend/internal/models"
	"github.com/stockhub/stockhub-backend/internal/utils"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrNoChange        = errors.New("no changes detected")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative number")
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
)

// Actor is the resolved caller of an inventory operation: AccountID scopes every
// query to the owning manager's namespace, Email is recorded verbatim in the
// ledger so staff activity stays attributable.
type Actor struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Email     string
	Role      models.UserRole
}

// ResolveActor maps JWT claims to an Actor. Staff act inside their manager's
// account; managers own their own.
func ResolveActor(userID, email, role, adminID string) (*Actor, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	actor := &Actor{
		UserID:    uid,
		AccountID: uid,
		Email:     email,
		Role:      models.UserRole(role),
	}

	if actor.Role == models.UserRoleStaff {
		aid, err := uuid.Parse(adminID)
		if err != nil {
			return nil, fmt.Errorf("staff account has no owning manager: %w", err)
		}
		actor.AccountID = aid
	}

	return actor, nil
}

type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

type CreateItemRequest struct {
	ProductName string           `json:"productName" validate:"required"`
	SKU         string           `json:"SKU" validate:"required"`
	Barcode     string           `json:"barcode" validate:"required"`
	Brand       string           `json:"brand" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	Quantity    *int             `json:"quantity" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Image       string           `json:"image,omitempty"`
}

type AdjustQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type UpdateFieldsRequest struct {
	ProductName *string          `json:"productName,omitempty"`
	SKU         *string          `json:"SKU,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

// LedgerResult carries the best-effort ledger rows written after a committed
// mutation. Warnings list append failures; they never fail the operation
// itself, the item state is authoritative and the ledger advisory.
type LedgerResult struct {
	ChangeLog *models.StockChangeLog        `json:"change_log,omitempty"`
	Snapshot  *models.AccountTotalsSnapshot `json:"snapshot,omitempty"`
	Warnings  []string                      `json:"warnings,omitempty"`
}

// mutation captures everything the ledger writer needs about one committed
// change: the account-wide window read under the totals-row lock plus the
// item-level before/after.
type mutation struct {
	item          *models.InventoryItem
	itemID        *uint
	productName   string
	status        models.StockStatus
	quantity      int
	price         decimal.Decimal
	total         decimal.Decimal
	previousTotal decimal.Decimal
	stockBefore   int
	stockAfter    int
	totalBefore   decimal.Decimal
	totalAfter    decimal.Decimal
	priceBefore   decimal.Decimal
	priceAfter    decimal.Decimal
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// lockTotals locks the account's running-totals row for the duration of the
// transaction, creating it on first use. Every mutation on the account funnels
// through this lock, which is what serializes concurrent before/after windows.
func (s *InventoryService) lockTotals(tx *gorm.DB, accountID uuid.UUID) (*models.AccountTotals, error) {
	totals := models.AccountTotals{AccountID: accountID, Total: decimal.Zero}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure totals row: %w", err)
	}

	if err := tx.Clauses(forUpdate()).
		First(&totals, "account_id = ?", accountID).Error; err != nil {
		return nil, fmt.Errorf("failed to lock totals row: %w", err)
	}
	return &totals, nil
}

// applyTotalsDelta moves the locked running-totals row by the mutation's stock
// and money deltas in a single statement.
func (s *InventoryService) applyTotalsDelta(tx *gorm.DB, accountID uuid.UUID, stockDelta int, moneyDelta decimal.Decimal) error {
	return tx.Model(&models.AccountTotals{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock + ?", stockDelta),
			"total": gorm.Expr("total + ?", moneyDelta),
		}).Error
}

func (s *InventoryService) CreateItem(actor *Actor, req *CreateItemRequest) (*models.InventoryItem, *LedgerResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}
	if *req.Quantity < 0 {
		return nil, nil, ErrInvalidQuantity
	}
	if req.Price.IsNegative() {
		return nil, nil, ErrInvalidPrice
	}

	var mut mutation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		totals, err := s.lockTotals(tx, actor.AccountID)
		if err != nil {
			return err
		}

		item := &models.InventoryItem{
			AccountID:   actor.AccountID,
			ProductName: req.ProductName,
			SKU:         req.SKU,
			Barcode:     req.Barcode,
			Brand:       req.Brand,
			Category:    req.Category,
			Quantity:    *req.Quantity,
			Price:       *req.Price,
			Total:       models.ComputeTotal(*req.Quantity, *req.Price),
			ImageURL:    req.Image,
		}

		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}

		if err := s.applyTotalsDelta(tx, actor.AccountID, item.Quantity, item.Total); err != nil {
			return fmt.Errorf("failed to update totals: %w", err)
		}

		mut = mutation{
			item:          item,
			itemID:        &item.ID,
			productName:   item.ProductName,
			status:        models.StockStatusNew,
			quantity:      item.Quantity,
			price:         item.Price,
			total:         item.Total,
			previousTotal: decimal.Zero,
			stockBefore:   totals.Stock,
			stockAfter:    totals.Stock + item.Quantity,
			totalBefore:   totals.Total,
			totalAfter:    totals.Total.Add(item.Total),
			priceBefore:   decimal.Zero,
			priceAfter:    item.Price,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ledger := s.appendLedger(actor, &mut)
	return mut.item, ledger, nil
}

func (s *InventoryService) AdjustQuantity(actor *Actor, itemID uint, req *AdjustQuantityRequest) (*models.InventoryItem, *LedgerResult, error) {
	if req.Quantity == nil {
		return nil, nil, ErrInvalidQuantity
	}
	newQuantity := *req.Quantity
	if newQuantity < 0 {
		return nil, nil, ErrInvalidQuantity
	}

	var mut mutation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		totals, err := s.lockTotals(tx, actor.AccountID)
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := tx.Where("id = ? AND account_id = ?", itemID, actor.AccountID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		// An unchanged quantity is rejected rather than silently logged; the
		// ledger records real movement only.
		if newQuantity == item.Quantity {
			return ErrNoChange
		}

		status := models.StatusForQuantityChange(item.Quantity, newQuantity)

		previousTotal := item.Total
		stockDelta := newQuantity - item.Quantity

		item.Quantity = newQuantity
		item.Total = models.ComputeTotal(newQuantity, item.Price)
		moneyDelta := item.Total.Sub(previousTotal)

		if err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"quantity": item.Quantity,
				"total":    item.Total,
			}).Error; err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		if err := s.applyTotalsDelta(tx, actor.AccountID, stockDelta, moneyDelta); err != nil {
			return fmt.Errorf("failed to update totals: %w", err)
		}

		mut = mutation{
			item:          &item,
			itemID:        &item.ID,
			productName:   item.ProductName,
			status:        status,
			quantity:      item.Quantity,
			price:         item.Price,
			total:         item.Total,
			previousTotal: previousTotal,
			stockBefore:   totals.Stock,
			stockAfter:    totals.Stock + stockDelta,
			totalBefore:   totals.Total,
			totalAfter:    totals.Total.Add(moneyDelta),
			priceBefore:   item.Price,
			priceAfter:    item.Price,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ledger := s.appendLedger(actor, &mut)
	return mut.item, ledger, nil
}

func (s *InventoryService) UpdateFields(actor *Actor, itemID uint, req *UpdateFieldsRequest) (*models.InventoryItem, *LedgerResult, error) {
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, nil, ErrInvalidQuantity
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, nil, ErrInvalidPrice
	}

	var mut mutation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		totals, err := s.lockTotals(tx, actor.AccountID)
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := tx.Where("id = ? AND account_id = ?", itemID, actor.AccountID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		previousTotal := item.Total
		previousQuantity := item.Quantity
		previousPrice := item.Price

		if req.ProductName != nil {
			item.ProductName = *req.ProductName
		}
		if req.SKU != nil {
			item.SKU = *req.SKU
		}
		if req.Barcode != nil {
			item.Barcode = *req.Barcode
		}
		if req.Brand != nil {
			item.Brand = *req.Brand
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Image != nil {
			item.ImageURL = *req.Image
		}

		item.Total = models.ComputeTotal(item.Quantity, item.Price)

		stockDelta := item.Quantity - previousQuantity
		moneyDelta := item.Total.Sub(previousTotal)

		if err := tx.Save(&item).Error; err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		if err := s.applyTotalsDelta(tx, actor.AccountID, stockDelta, moneyDelta); err != nil {
			return fmt.Errorf("failed to update totals: %w", err)
		}

		status := models.StatusForFieldUpdate(previousPrice, item.Price, previousQuantity, item.Quantity)

		mut = mutation{
			item:          &item,
			itemID:        &item.ID,
			productName:   item.ProductName,
			status:        status,
			quantity:      item.Quantity,
			price:         item.Price,
			total:         item.Total,
			previousTotal: previousTotal,
			stockBefore:   totals.Stock,
			stockAfter:    totals.Stock + stockDelta,
			totalBefore:   totals.Total,
			totalAfter:    totals.Total.Add(moneyDelta),
			priceBefore:   previousPrice,
			priceAfter:    item.Price,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ledger := s.appendLedger(actor, &mut)
	return mut.item, ledger, nil
}

// DeleteItem disposes of an item: the row is removed, a frozen DisposalRecord
// is written in the same transaction, and the item's change-log history is kept
// with its back-reference cleared.
func (s *InventoryService) DeleteItem(actor *Actor, itemID uint) (*models.DisposalRecord, *LedgerResult, error) {
	var mut mutation
	var disposal *models.DisposalRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		totals, err := s.lockTotals(tx, actor.AccountID)
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := tx.Where("id = ? AND account_id = ?", itemID, actor.AccountID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		disposal = &models.DisposalRecord{
			AccountID:   item.AccountID,
			ItemID:      item.ID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Barcode:     item.Barcode,
			Brand:       item.Brand,
			Category:    item.Category,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
			ImageURL:    item.ImageURL,
			ActorEmail:  actor.Email,
		}
		if err := tx.Create(disposal).Error; err != nil {
			return fmt.Errorf("failed to create disposal record: %w", err)
		}

		// Audit history survives the item: clear the back-reference instead of
		// cascading the delete.
		if err := tx.Model(&models.StockChangeLog{}).
			Where("item_id = ?", item.ID).
			Update("item_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach change-log rows: %w", err)
		}

		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		if err := s.applyTotalsDelta(tx, actor.AccountID, -item.Quantity, item.Total.Neg()); err != nil {
			return fmt.Errorf("failed to update totals: %w", err)
		}

		mut = mutation{
			itemID:        nil, // the row is gone
			productName:   item.ProductName,
			status:        models.StockStatusDecrease,
			quantity:      0,
			price:         item.Price,
			total:         decimal.Zero,
			previousTotal: item.Total,
			stockBefore:   totals.Stock,
			stockAfter:    totals.Stock - item.Quantity,
			totalBefore:   totals.Total,
			totalAfter:    totals.Total.Sub(item.Total),
			priceBefore:   item.Price,
			priceAfter:    item.Price,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ledger := s.appendLedger(actor, &mut)
	return disposal, ledger, nil
}

// appendLedger writes both halves of the ledger after the primary mutation has
// committed. Failures are logged and reported as warnings, never as errors:
// the already-applied item state must not be rolled back over an audit row.
func (s *InventoryService) appendLedger(actor *Actor, mut *mutation) *LedgerResult {
	result := &LedgerResult{}

	changeLog := &models.StockChangeLog{
		AccountID:     actor.AccountID,
		ItemID:        mut.itemID,
		ProductName:   mut.productName,
		Status:        mut.status,
		Quantity:      mut.quantity,
		Price:         mut.price,
		Total:         mut.total,
		PreviousTotal: mut.previousTotal,
		ActorEmail:    actor.Email,
	}
	if err := s.db.Create(changeLog).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"account_id": actor.AccountID,
			"product":    mut.productName,
			"status":     mut.status,
		}).Error("Failed to append stock change log")
		result.Warnings = append(result.Warnings, "change log entry could not be recorded")
	} else {
		result.ChangeLog = changeLog
	}

	snapshot := &models.AccountTotalsSnapshot{
		AccountID:   actor.AccountID,
		StockBefore: mut.stockBefore,
		StockAfter:  mut.stockAfter,
		TotalBefore: mut.totalBefore,
		TotalAfter:  mut.totalAfter,
		PriceBefore: mut.priceBefore,
		PriceAfter:  mut.priceAfter,
	}
	if err := s.db.Create(snapshot).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"account_id": actor.AccountID,
			"product":    mut.productName,
		}).Error("Failed to append totals snapshot")
		result.Warnings = append(result.Warnings, "totals snapshot could not be recorded")
	} else {
		result.Snapshot = snapshot
	}

	return result
}

func (s *InventoryService) ListItems(actor *Actor, q utils.ListQuery) ([]models.InventoryItem, int64, error) {
	query := s.db.Model(&models.InventoryItem{}).Where("account_id = ?", actor.AccountID)

	if q.Search != "" {
		searchTerm := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(product_name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(barcode) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	var items []models.InventoryItem
	if err := q.Scope(query).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}

	return items, total, nil
}

func (s *InventoryService) GetItem(actor *Actor, itemID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.Where("id = ? AND account_id = ?", itemID, actor.AccountID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

// LedgerView bundles both log streams plus the most recent account-wide totals
// for the dashboard header.
type LedgerView struct {
	UpdateLogs []models.StockChangeLog        `json:"updateLogs"`
	StockLogs  []models.AccountTotalsSnapshot `json:"stockLogs"`
	Latest     LatestTotals                   `json:"latest"`
}

type LatestTotals struct {
	LatestStock int             `json:"latestStock"`
	LatestTotal decimal.Decimal `json:"latestTotal"`
	BeforeStock int             `json:"beforestock"`
	BeforeTotal decimal.Decimal `json:"beforetotal"`
}

func (s *InventoryService) GetLedger(actor *Actor, limit int) (*LedgerView, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	view := &LedgerView{
		Latest: LatestTotals{
			LatestTotal: decimal.Zero,
			BeforeTotal: decimal.Zero,
		},
	}

	if err := s.db.Where("account_id = ?", actor.AccountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&view.UpdateLogs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch change logs: %w", err)
	}

	if err := s.db.Where("account_id = ?", actor.AccountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&view.StockLogs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch totals snapshots: %w", err)
	}

	if len(view.StockLogs) > 0 {
		latest := view.StockLogs[0]
		view.Latest = LatestTotals{
			LatestStock: latest.StockAfter,
			LatestTotal: latest.TotalAfter,
			BeforeStock: latest.StockBefore,
			BeforeTotal: latest.TotalBefore,
		}
	}

	return view, nil
}

func (s *InventoryService) GetDisposals(actor *Actor) ([]models.DisposalRecord, error) {
	var disposals []models.DisposalRecord
	if err := s.db.Where("account_id = ?", actor.AccountID).
		Order("created_at DESC").
		Find(&disposals).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch disposal records: %w", err)
	}
	return disposals, nil
}

// AccountSummary is the dashboard aggregate backed by the running-totals row.
type AccountSummary struct {
	Stock int             `json:"stock"`
	Total decimal.Decimal `json:"total"`
	Items int64           `json:"items"`
}

func (s *InventoryService) GetSummary(actor *Actor) (*AccountSummary, error) {
	summary := &AccountSummary{Total: decimal.Zero}

	var totals models.AccountTotals
	err := s.db.First(&totals, "account_id = ?", actor.AccountID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch totals: %w", err)
	}
	if err == nil {
		summary.Stock = totals.Stock
		summary.Total = totals.Total
	}

	if err := s.db.Model(&models.InventoryItem{}).
		Where("account_id = ?", actor.AccountID).
		Count(&summary.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	return summary, nil
}
