package reports

import (
	"context"
	"sort"
	"strings"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/models"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockSummaryFilter struct {
	GodownName    *string `form:"godown_name"`
	StockItemName *string `form:"stock_item_name"`
}

type StockSummaryItem struct {
	StockItemName string          `json:"stock_item_name"`
	Bags          int             `json:"bags"`
	WeightQuintal decimal.Decimal `json:"weight_quintal"`
}

type GodownStockSummary struct {
	GodownName         string              `json:"godown_name"`
	Items              []*StockSummaryItem `json:"items"`
	TotalBags          int                 `json:"total_bags"`
	TotalWeightQuintal decimal.Decimal     `json:"total_weight_quintal"`
}

type StockSummaryTotal struct {
	TotalBags          int             `json:"total_bags"`
	TotalWeightQuintal decimal.Decimal `json:"total_weight_quintal"`
}

type StockSummaryResponse struct {
	Summary    []*GodownStockSummary `json:"summary"`
	GrandTotal StockSummaryTotal     `json:"grand_total"`
}

type stockBalanceRow struct {
	GodownId           int
	StockItemId        int
	GodownName         string
	StockItemName      string
	TotalBags          int
	TotalWeightQuintal decimal.Decimal
}

type stockKey struct {
	godownId    int
	stockItemId int
}

// GetStockSummary reports ledger balances per godown and stock item, net of
// the packaging weight that historical sales carried out of each balance.
func GetStockSummary(ctx context.Context, filter *StockSummaryFilter) (*StockSummaryResponse, error) {
	db := config.GetDB()
	if filter == nil {
		filter = &StockSummaryFilter{}
	}
	godownLike := likePattern(filter.GodownName)
	itemLike := likePattern(filter.StockItemName)

	balances := db.WithContext(ctx).Table("stock_ledgers AS sl").
		Select("sl.godown_id, sl.stock_item_id, g.name AS godown_name, si.name AS stock_item_name, " +
			"SUM(sl.quantity_bags) AS total_bags, SUM(sl.weight_quintal) AS total_weight_quintal").
		Joins("JOIN godowns g ON g.id = sl.godown_id").
		Joins("JOIN stock_items si ON si.id = sl.stock_item_id")
	if godownLike != "" {
		balances = balances.Where("LOWER(g.name) LIKE ?", godownLike)
	}
	if itemLike != "" {
		balances = balances.Where("LOWER(si.name) LIKE ?", itemLike)
	}

	var rows []stockBalanceRow
	if err := balances.Group("sl.godown_id, sl.stock_item_id, g.name, si.name").Scan(&rows).Error; err != nil {
		config.LogError(config.GetLogger(), "stockSummary.go", "GetStockSummary", "stock balances", filter, err)
		return nil, err
	}
	if len(rows) == 0 {
		return BuildStockSummary(nil, nil), nil
	}

	sales, err := loadSales(ctx, db, godownLike, itemLike)
	if err != nil {
		config.LogError(config.GetLogger(), "stockSummary.go", "GetStockSummary", "sale transactions", filter, err)
		return nil, err
	}

	return BuildStockSummary(rows, PackagingAdjustments(sales)), nil
}

// sales touching a matching godown or stock item; anything else cannot
// adjust a reported row
func loadSales(ctx context.Context, db *gorm.DB, godownLike string, itemLike string) ([]*models.Transaction, error) {
	query := db.WithContext(ctx).Model(&models.Transaction{}).Where("transaction_type = ?", false)
	if godownLike != "" {
		query = query.Where("id IN (?)", db.Model(&models.TransactionUnloading{}).Select("transaction_id").
			Where("godown_id IN (?)", db.Model(&models.Godown{}).Select("id").Where("LOWER(name) LIKE ?", godownLike)))
	}
	if itemLike != "" {
		query = query.Where("id IN (?)", db.Model(&models.TransactionStockItem{}).Select("transaction_id").
			Where("stock_item_id IN (?)", db.Model(&models.StockItem{}).Select("id").Where("LOWER(name) LIKE ?", itemLike)))
	}

	byId := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	var sales []*models.Transaction
	err := query.
		Preload("StockItems", byId).
		Preload("Packagings", byId).
		Preload("Unloadings", byId).
		Order("id").
		Find(&sales).Error
	return sales, err
}

// PackagingAdjustments replays the bag allocation of every sale and returns,
// per (godown, stock item), the packaging quintals those sales carried out.
func PackagingAdjustments(sales []*models.Transaction) map[stockKey]decimal.Decimal {
	adjustments := make(map[stockKey]decimal.Decimal)
	for _, sale := range sales {
		if sale == nil || sale.IsPurchase() || len(sale.StockItems) == 0 {
			continue
		}
		totalUnloaded := sale.UnloadedBags()
		if totalUnloaded == 0 {
			continue
		}
		_, packagingGrams := sale.PackagingTotals()
		if packagingGrams.IsZero() {
			continue
		}

		itemBags := make([]int, len(sale.StockItems))
		for i, item := range sale.StockItems {
			itemBags[i] = item.NumberOfBags
		}
		for _, unloading := range sale.Unloadings {
			for i, bags := range utils.AllocateBags(unloading.NumberOfBags, itemBags) {
				if bags <= 0 {
					continue
				}
				share := packagingGrams.Mul(decimal.NewFromInt(int64(bags))).Div(decimal.NewFromInt(int64(totalUnloaded)))
				key := stockKey{godownId: unloading.GodownId, stockItemId: sale.StockItems[i].StockItemId}
				adjustments[key] = adjustments[key].Add(utils.PackagingGramsToQuintal(share))
			}
		}
	}
	for key, value := range adjustments {
		adjustments[key] = value.Round(utils.QuintalScale)
	}
	return adjustments
}

// BuildStockSummary groups balance rows by godown (both levels ordered by name)
// and subtracts the packaging adjustments.
func BuildStockSummary(rows []stockBalanceRow, adjustments map[stockKey]decimal.Decimal) *StockSummaryResponse {
	response := &StockSummaryResponse{
		Summary:    []*GodownStockSummary{},
		GrandTotal: StockSummaryTotal{TotalWeightQuintal: decimal.Zero},
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GodownName != rows[j].GodownName {
			return rows[i].GodownName < rows[j].GodownName
		}
		return rows[i].StockItemName < rows[j].StockItemName
	})

	var current *GodownStockSummary
	for _, row := range rows {
		if current == nil || current.GodownName != row.GodownName {
			current = &GodownStockSummary{GodownName: row.GodownName, Items: []*StockSummaryItem{}, TotalWeightQuintal: decimal.Zero}
			response.Summary = append(response.Summary, current)
		}
		weight := row.TotalWeightQuintal.Sub(adjustments[stockKey{godownId: row.GodownId, stockItemId: row.StockItemId}])
		current.Items = append(current.Items, &StockSummaryItem{
			StockItemName: row.StockItemName,
			Bags:          row.TotalBags,
			WeightQuintal: weight,
		})
		current.TotalBags += row.TotalBags
		current.TotalWeightQuintal = current.TotalWeightQuintal.Add(weight)
		response.GrandTotal.TotalBags += row.TotalBags
		response.GrandTotal.TotalWeightQuintal = response.GrandTotal.TotalWeightQuintal.Add(weight)
	}
	return response
}

func likePattern(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return ""
	}
	return "%" + strings.ToLower(strings.TrimSpace(*s)) + "%"
}
