// internal/handlers/inventory.go
package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stockhub/stockhub-backend/internal/services"
	"github.com/stockhub/stockhub-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// actorFromContext rebuilds the resolved caller from the claims the auth
// middleware stored. Inventory operations never touch ambient state beyond
// this.
func actorFromContext(c *gin.Context) (*services.Actor, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	actor, err := services.ResolveActor(
		userID,
		c.GetString("email"),
		c.GetString("role"),
		c.GetString("admin_id"),
	)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return nil, false
	}
	return actor, true
}

func itemIDFromParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return 0, false
	}
	return uint(id), true
}

// GET /inventory
func (h *InventoryHandler) ListItems(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	q := utils.ParseListQuery(c)
	items, total, err := h.inventoryService.ListItems(actor, q)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.NewListResult(items, total, q)
	utils.PaginatedResponse(c, result)
}

// POST /inventory/create
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	item, ledger, err := h.inventoryService.CreateItem(actor, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQuantity) || errors.Is(err, services.ErrInvalidPrice) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		if strings.Contains(err.Error(), "validation failed") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, "Failed to create item")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      "Item added successfully",
		"product":      item,
		"inventoryLog": ledger.ChangeLog,
		"stockLog":     ledger.Snapshot,
		"warnings":     ledger.Warnings,
	})
}

// GET /inventory/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	itemID, ok := itemIDFromParam(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(actor, itemID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": item,
	})
}

// PUT /inventory/:id
func (h *InventoryHandler) AdjustQuantity(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	itemID, ok := itemIDFromParam(c)
	if !ok {
		return
	}

	var req services.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	item, ledger, err := h.inventoryService.AdjustQuantity(actor, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			utils.NotFoundResponse(c, err.Error())
		case errors.Is(err, services.ErrNoChange):
			utils.BadRequestResponse(c, err.Error(), nil)
		case errors.Is(err, services.ErrInvalidQuantity):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, "Failed to update quantity")
		}
		return
	}

	var latestTotal interface{}
	if ledger.Snapshot != nil {
		latestTotal = ledger.Snapshot.TotalAfter
	}

	utils.SuccessResponse(c, gin.H{
		"stock":       item,
		"log":         ledger.ChangeLog,
		"latestTotal": latestTotal,
		"warnings":    ledger.Warnings,
	})
}

// PUT /inventory/productupdate/:id
func (h *InventoryHandler) UpdateFields(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	itemID, ok := itemIDFromParam(c)
	if !ok {
		return
	}

	var req services.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	item, ledger, err := h.inventoryService.UpdateFields(actor, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			utils.NotFoundResponse(c, err.Error())
		case errors.Is(err, services.ErrInvalidQuantity), errors.Is(err, services.ErrInvalidPrice):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, "Failed to update product")
		}
		return
	}

	var currentTotal, currentStock interface{}
	if ledger.Snapshot != nil {
		currentTotal = ledger.Snapshot.TotalAfter
		currentStock = ledger.Snapshot.StockAfter
	}

	utils.SuccessResponse(c, gin.H{
		"data":         item,
		"productLog":   ledger.ChangeLog,
		"currentTotal": currentTotal,
		"currentStock": currentStock,
		"warnings":     ledger.Warnings,
	})
}

// DELETE /inventory/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	itemID, ok := itemIDFromParam(c)
	if !ok {
		return
	}

	disposal, ledger, err := h.inventoryService.DeleteItem(actor, itemID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, "Failed to delete item")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":        "Item disposed successfully",
		"deletedProduct": disposal,
		"stockLog":       ledger.Snapshot,
		"warnings":       ledger.Warnings,
	})
}

// GET /inventory/updatelog
func (h *InventoryHandler) GetLedger(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	view, err := h.inventoryService.GetLedger(actor, limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"updateLogs": view.UpdateLogs,
		"stockLogs":  view.StockLogs,
		"latest":     view.Latest,
	})
}

// GET /inventory/disposelogs
func (h *InventoryHandler) GetDisposals(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	disposals, err := h.inventoryService.GetDisposals(actor)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"dispose": disposals,
	})
}

// GET /inventory/summary
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	summary, err := h.inventoryService.GetSummary(actor)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stock": summary.Stock,
		"total": summary.Total,
		"items": summary.Items,
	})
}
