package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transaction is one purchase (TransactionType true) or sale over the weighbridge.
// GrossWeight and TareWeight are kg.
type Transaction struct {
	ID                  int                             `gorm:"primary_key" json:"id"`
	RstNumber           string                          `gorm:"size:50;index" json:"rst_number"`
	BillNumber          string                          `gorm:"size:50;index" json:"bill_number"`
	TransactionDate     time.Time                       `gorm:"index;not null" json:"transaction_date"`
	TransactionType     bool                            `gorm:"not null" json:"transaction_type"`
	PartyId             int                             `gorm:"index;not null" json:"party_id"`
	BrokerId            int                             `gorm:"index;not null" json:"broker_id"`
	TransporterId       int                             `gorm:"index;not null" json:"transporter_id"`
	OperatorId          int                             `gorm:"index;not null" json:"operator_id"`
	GrossWeight         int                             `gorm:"not null;default:0" json:"gross_weight"`
	TareWeight          int                             `gorm:"not null;default:0" json:"tare_weight"`
	VehicleNumber       string                          `gorm:"size:20" json:"vehicle_number"`
	Remarks             string                          `gorm:"size:255" json:"remarks"`
	CreatedBy           string                          `gorm:"size:100" json:"created_by"`
	StockItems          []TransactionStockItem          `gorm:"foreignKey:TransactionId" json:"stock_items"`
	Packagings          []TransactionPackaging          `gorm:"foreignKey:TransactionId" json:"packagings"`
	Payments            []TransactionPayment            `gorm:"foreignKey:TransactionId" json:"payments"`
	AllowanceDeductions []TransactionAllowanceDeduction `gorm:"foreignKey:TransactionId" json:"allowances_deductions"`
	Unloadings          []TransactionUnloading          `gorm:"foreignKey:TransactionId" json:"unloadings"`
	BagDetails          []BagDetail                     `gorm:"foreignKey:TransactionId" json:"bag_details"`
	CreatedAt           time.Time                       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time                       `gorm:"autoUpdateTime" json:"updated_at"`

	// rendered, not stored
	PartyName        string              `gorm:"-" json:"party_name,omitempty"`
	BrokerName       string              `gorm:"-" json:"broker_name,omitempty"`
	TransporterName  string              `gorm:"-" json:"transporter_name,omitempty"`
	OperatorName     string              `gorm:"-" json:"operator_name,omitempty"`
	NetTotal         decimal.Decimal     `gorm:"-" json:"net_total"`
	PaymentStatus    utils.PaymentStatus `gorm:"-" json:"payment_status"`
	RemainingPayment decimal.Decimal     `gorm:"-" json:"remaining_payment"`
}

type TransactionStockItem struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId int             `gorm:"index;not null" json:"transaction_id"`
	StockItemId   int             `gorm:"index;not null" json:"stock_item_id"`
	NumberOfBags  int             `gorm:"not null;default:0" json:"number_of_bags"`
	Weight        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"weight"`
	Rate          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rate"`
	StockItemName string          `gorm:"-" json:"stock_item_name,omitempty"`
}

// TransactionPackaging keeps the bag weight (grams) the transaction was posted with.
type TransactionPackaging struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId int             `gorm:"index;not null" json:"transaction_id"`
	PackagingId   int             `gorm:"index;not null" json:"packaging_id"`
	BagNos        int             `gorm:"not null;default:0" json:"bag_nos"`
	BagWeight     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"bag_weight"`
	PackagingName string          `gorm:"-" json:"packaging_name,omitempty"`
}

type TransactionPayment struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId int             `gorm:"index;not null" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"payment_amount"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Remarks       string          `gorm:"size:255" json:"payment_remarks"`
}

type TransactionAllowanceDeduction struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId int             `gorm:"index;not null" json:"transaction_id"`
	IsAllowance   bool            `gorm:"not null" json:"is_allowance"`
	Name          string          `gorm:"size:100" json:"name"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Remarks       string          `gorm:"size:255" json:"remarks"`
}

type TransactionUnloading struct {
	ID            int    `gorm:"primary_key" json:"id"`
	TransactionId int    `gorm:"index;not null" json:"transaction_id"`
	GodownId      int    `gorm:"index;not null" json:"godown_id"`
	NumberOfBags  int    `gorm:"not null;default:0" json:"number_of_bags"`
	Remarks       string `gorm:"size:255" json:"remarks"`
	GodownName    string `gorm:"-" json:"godown_name,omitempty"`
}

type NewTransaction struct {
	RstNumber           string                    `json:"rst_number" binding:"max=50"`
	BillNumber          string                    `json:"bill_number" binding:"max=50"`
	TransactionDate     time.Time                 `json:"transaction_date" binding:"required"`
	TransactionType     *bool                     `json:"transaction_type" binding:"required"`
	PartyName           string                    `json:"party_name" binding:"required"`
	BrokerName          string                    `json:"broker_name" binding:"required"`
	TransporterName     string                    `json:"transporter_name" binding:"required"`
	OperatorName        string                    `json:"operator_name" binding:"required"`
	GrossWeight         int                       `json:"gross_weight" binding:"min=0"`
	TareWeight          int                       `json:"tare_weight" binding:"min=0"`
	VehicleNumber       string                    `json:"vehicle_number" binding:"max=20"`
	Remarks             string                    `json:"remarks" binding:"max=255"`
	StockItems          []NewTransactionStockItem `json:"stock_items" binding:"dive"`
	Packagings          []NewTransactionPackaging `json:"packagings" binding:"dive"`
	Payments            []NewTransactionPayment   `json:"payments" binding:"dive"`
	AllowanceDeductions []NewAllowanceDeduction   `json:"allowances_deductions" binding:"dive"`
	Unloadings          []NewTransactionUnloading `json:"unloadings" binding:"dive"`
}

type NewTransactionStockItem struct {
	StockItemName string          `json:"stock_item_name" binding:"required"`
	NumberOfBags  int             `json:"number_of_bags" binding:"min=0"`
	Weight        decimal.Decimal `json:"weight"`
	Rate          decimal.Decimal `json:"rate"`
}

type NewTransactionPackaging struct {
	PackagingName string `json:"packaging_name" binding:"required"`
	BagNos        int    `json:"bag_nos" binding:"min=0"`
}

type NewTransactionPayment struct {
	Amount      decimal.Decimal `json:"payment_amount"`
	PaymentDate *time.Time      `json:"payment_date"`
	Remarks     string          `json:"payment_remarks" binding:"max=255"`
}

type NewAllowanceDeduction struct {
	IsAllowance bool            `json:"is_allowance"`
	Name        string          `json:"name" binding:"max=100"`
	Amount      decimal.Decimal `json:"amount"`
	Remarks     string          `json:"remarks" binding:"max=255"`
}

// NewTransactionUnloading names its godown by GodownName, or by GodownId when the name is blank.
type NewTransactionUnloading struct {
	GodownId     int    `json:"godown_id"`
	GodownName   string `json:"godown_name"`
	NumberOfBags int    `json:"number_of_bags" binding:"min=0"`
	Remarks      string `json:"remarks" binding:"max=255"`
}

type TransactionFilter struct {
	PartyName       *string    `form:"party_name"`
	BrokerName      *string    `form:"broker_name"`
	TransporterName *string    `form:"transporter_name"`
	StockItemName   *string    `form:"stock_item_name"`
	FromDate        *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate          *time.Time `form:"to_date" time_format:"2006-01-02"`
	TransactionType *bool      `form:"transaction_type"`
}

func (t *Transaction) IsPurchase() bool {
	return t.TransactionType
}

// CalculateFinancials fills NetTotal, PaymentStatus and RemainingPayment.
func (t *Transaction) CalculateFinancials() {
	lines := make([]utils.FinancialLine, 0, len(t.StockItems))
	for _, item := range t.StockItems {
		lines = append(lines, utils.FinancialLine{Weight: item.Weight, Rate: item.Rate})
	}
	adjustments := make([]utils.AdjustmentLine, 0, len(t.AllowanceDeductions))
	for _, adj := range t.AllowanceDeductions {
		adjustments = append(adjustments, utils.AdjustmentLine{IsAllowance: adj.IsAllowance, Amount: adj.Amount})
	}
	payments := make([]decimal.Decimal, 0, len(t.Payments))
	for _, p := range t.Payments {
		payments = append(payments, p.Amount)
	}
	t.NetTotal, t.PaymentStatus, t.RemainingPayment = utils.CalculateFinancials(lines, adjustments, payments)
}

// resolved master data ids of an input, in input order
type transactionReferences struct {
	partyId       int
	brokerId      int
	transporterId int
	operatorId    int
	stockItemIds  []int
	godownIds     []int
	packagings    []*Packaging
}

// resolve looks up every referenced master row. Nothing is written, so a
// missing reference fails the request before any ledger work.
func (input *NewTransaction) resolve(ctx context.Context, tx *gorm.DB) (*transactionReferences, error) {
	refs := &transactionReferences{}

	party, err := GetResourceByName[Party](ctx, tx, input.PartyName)
	if err != nil {
		return nil, referenceError(err, "party", input.PartyName)
	}
	refs.partyId = party.ID

	broker, err := GetResourceByName[Broker](ctx, tx, input.BrokerName)
	if err != nil {
		return nil, referenceError(err, "broker", input.BrokerName)
	}
	refs.brokerId = broker.ID

	transporter, err := GetResourceByName[Transporter](ctx, tx, input.TransporterName)
	if err != nil {
		return nil, referenceError(err, "transportor", input.TransporterName)
	}
	refs.transporterId = transporter.ID

	operator, err := GetResourceByName[WeightBridgeOperator](ctx, tx, input.OperatorName)
	if err != nil {
		return nil, referenceError(err, "weight bridge operator", input.OperatorName)
	}
	refs.operatorId = operator.ID

	for _, item := range input.StockItems {
		stockItem, err := GetResourceByName[StockItem](ctx, tx, item.StockItemName)
		if err != nil {
			return nil, referenceError(err, "stock item", item.StockItemName)
		}
		refs.stockItemIds = append(refs.stockItemIds, stockItem.ID)
	}

	for _, unloading := range input.Unloadings {
		godown, err := lookupGodown(ctx, tx, unloading.GodownId, unloading.GodownName)
		if err != nil {
			return nil, err
		}
		refs.godownIds = append(refs.godownIds, godown.ID)
	}

	for _, p := range input.Packagings {
		packaging, err := GetResourceByName[Packaging](ctx, tx, p.PackagingName)
		if err != nil {
			return nil, referenceError(err, "packaging", p.PackagingName)
		}
		refs.packagings = append(refs.packagings, packaging)
	}

	return refs, nil
}

func referenceError(err error, kind string, name string) error {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		return &ReferenceNotFoundError{Kind: kind, Name: name}
	}
	return err
}

// build maps the input onto unsaved rows
func (input *NewTransaction) build(refs *transactionReferences) *Transaction {
	t := &Transaction{
		RstNumber:       input.RstNumber,
		BillNumber:      input.BillNumber,
		TransactionDate: input.TransactionDate,
		TransactionType: utils.DereferencePtr(input.TransactionType),
		PartyId:         refs.partyId,
		BrokerId:        refs.brokerId,
		TransporterId:   refs.transporterId,
		OperatorId:      refs.operatorId,
		GrossWeight:     input.GrossWeight,
		TareWeight:      input.TareWeight,
		VehicleNumber:   input.VehicleNumber,
		Remarks:         input.Remarks,
	}
	t.StockItems = input.stockItemRows(refs)
	t.Packagings = input.packagingRows(refs)
	t.Unloadings = input.unloadingRows(refs)
	t.Payments = input.paymentRows()
	t.AllowanceDeductions = input.allowanceDeductionRows()
	t.BagDetails = newBagDetails(t.Packagings)
	return t
}

func (input *NewTransaction) stockItemRows(refs *transactionReferences) []TransactionStockItem {
	rows := make([]TransactionStockItem, 0, len(input.StockItems))
	for i, item := range input.StockItems {
		rows = append(rows, TransactionStockItem{
			StockItemId:  refs.stockItemIds[i],
			NumberOfBags: item.NumberOfBags,
			Weight:       item.Weight,
			Rate:         item.Rate,
		})
	}
	return rows
}

func (input *NewTransaction) packagingRows(refs *transactionReferences) []TransactionPackaging {
	rows := make([]TransactionPackaging, 0, len(input.Packagings))
	for i, p := range input.Packagings {
		rows = append(rows, TransactionPackaging{
			PackagingId: refs.packagings[i].ID,
			BagNos:      p.BagNos,
			BagWeight:   refs.packagings[i].BagWeight,
		})
	}
	return rows
}

func (input *NewTransaction) unloadingRows(refs *transactionReferences) []TransactionUnloading {
	rows := make([]TransactionUnloading, 0, len(input.Unloadings))
	for i, u := range input.Unloadings {
		rows = append(rows, TransactionUnloading{
			GodownId:     refs.godownIds[i],
			NumberOfBags: u.NumberOfBags,
			Remarks:      u.Remarks,
		})
	}
	return rows
}

func (input *NewTransaction) paymentRows() []TransactionPayment {
	rows := make([]TransactionPayment, 0, len(input.Payments))
	for _, p := range input.Payments {
		rows = append(rows, TransactionPayment{
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
			Remarks:     p.Remarks,
		})
	}
	return rows
}

func (input *NewTransaction) allowanceDeductionRows() []TransactionAllowanceDeduction {
	rows := make([]TransactionAllowanceDeduction, 0, len(input.AllowanceDeductions))
	for _, a := range input.AllowanceDeductions {
		rows = append(rows, TransactionAllowanceDeduction{
			IsAllowance: a.IsAllowance,
			Name:        a.Name,
			Amount:      a.Amount,
			Remarks:     a.Remarks,
		})
	}
	return rows
}

// requiresStockUpdate reports whether next posts a different ledger effect
// than existing: direction, weighbridge weights, stock lines, unloadings or
// packaging lines. Rates, remarks, payments and allowances do not count.
func requiresStockUpdate(existing *Transaction, next *Transaction) bool {
	if existing.TransactionType != next.TransactionType {
		return true
	}
	if existing.GrossWeight != next.GrossWeight || existing.TareWeight != next.TareWeight {
		return true
	}

	if len(existing.StockItems) != len(next.StockItems) {
		return true
	}
	for i := range next.StockItems {
		a, b := existing.StockItems[i], next.StockItems[i]
		if a.StockItemId != b.StockItemId || a.NumberOfBags != b.NumberOfBags || !a.Weight.Equal(b.Weight) {
			return true
		}
	}

	if len(existing.Unloadings) != len(next.Unloadings) {
		return true
	}
	for i := range next.Unloadings {
		a, b := existing.Unloadings[i], next.Unloadings[i]
		if a.GodownId != b.GodownId || a.NumberOfBags != b.NumberOfBags {
			return true
		}
	}

	if len(existing.Packagings) != len(next.Packagings) {
		return true
	}
	for i := range next.Packagings {
		a, b := existing.Packagings[i], next.Packagings[i]
		if a.PackagingId != b.PackagingId || a.BagNos != b.BagNos {
			return true
		}
	}
	return false
}

func preloadTransactionChildren(dbCtx *gorm.DB) *gorm.DB {
	byId := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return dbCtx.
		Preload("StockItems", byId).
		Preload("Packagings", byId).
		Preload("Payments", byId).
		Preload("AllowanceDeductions", byId).
		Preload("Unloadings", byId).
		Preload("BagDetails", byId)
}

func CreateTransaction(ctx context.Context, input *NewTransaction) (result *Transaction, err error) {
	logger := config.GetLogger()
	defer func() { config.ObserveTransactionOperation("create", err) }()

	db := config.GetDB()
	refs, err := input.resolve(ctx, db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	transaction := input.build(refs)
	if username, ok := utils.GetUsernameFromContext(ctx); ok {
		transaction.CreatedBy = username
	}

	tx := db.WithContext(ctx).Begin()
	// always rollback on early-return or panic so ledger row locks are released
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	restoreLockTimeout, err := setStockLockTimeout(tx)
	if err != nil {
		return nil, err
	}
	defer restoreLockTimeout()

	// header and every child row; ids are needed by the movement trail
	if err := tx.Create(transaction).Error; err != nil {
		config.LogError(logger, "transaction.go", "CreateTransaction", "create transaction", input, err)
		return nil, err
	}

	if err := ApplyTransactionStock(tx, transaction); err != nil {
		config.LogError(logger, "transaction.go", "CreateTransaction", "apply stock", transaction.ID, err)
		return nil, err
	}

	restoreLockTimeout()
	if err := tx.Commit().Error; err != nil {
		config.LogError(logger, "transaction.go", "CreateTransaction", "commit", transaction.ID, err)
		return nil, err
	}

	transaction.CalculateFinancials()
	return transaction, nil
}

func UpdateTransaction(ctx context.Context, id int, input *NewTransaction) (result *Transaction, err error) {
	logger := config.GetLogger()
	defer func() { config.ObserveTransactionOperation("update", err) }()

	release, err := utils.ObtainResourceLock(ctx, "transactionLock", id, "transaction.go", "UpdateTransaction")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	var existing Transaction
	err = preloadTransactionChildren(tx.Clauses(clause.Locking{Strength: "UPDATE"})).First(&existing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	refs, err := input.resolve(ctx, tx)
	if err != nil {
		return nil, err
	}
	next := input.build(refs)
	next.ID = existing.ID

	err = updateTransactionHeader(tx, &existing, input, next)
	if err != nil {
		return nil, err
	}

	if requiresStockUpdate(&existing, next) {
		if err := repostTransactionStock(tx, &existing, next); err != nil {
			config.LogError(logger, "transaction.go", "UpdateTransaction", "repost stock", id, err)
			return nil, err
		}
	} else {
		if err := updateNonStockLines(tx, &existing, next); err != nil {
			return nil, err
		}
	}

	if err := replaceTransactionPayments(tx, next); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		config.LogError(logger, "transaction.go", "UpdateTransaction", "commit", id, err)
		return nil, err
	}

	return GetTransaction(ctx, id)
}

// updateTransactionHeader writes the header columns only. existing carries
// its preloaded children, which are replaced separately.
func updateTransactionHeader(tx *gorm.DB, existing *Transaction, input *NewTransaction, next *Transaction) error {
	return tx.Model(existing).Omit(clause.Associations).Updates(map[string]interface{}{
		"RstNumber":       input.RstNumber,
		"BillNumber":      input.BillNumber,
		"TransactionDate": input.TransactionDate,
		"TransactionType": next.TransactionType,
		"PartyId":         next.PartyId,
		"BrokerId":        next.BrokerId,
		"TransporterId":   next.TransporterId,
		"OperatorId":      next.OperatorId,
		"GrossWeight":     next.GrossWeight,
		"TareWeight":      next.TareWeight,
		"VehicleNumber":   next.VehicleNumber,
		"Remarks":         next.Remarks,
	}).Error
}

const stockSavePoint = "stock_update"

// repostTransactionStock reverses the recorded ledger effect of existing,
// rebuilds its stock lines from next and posts them again, inside a savepoint.
func repostTransactionStock(tx *gorm.DB, existing *Transaction, next *Transaction) error {
	if err := tx.SavePoint(stockSavePoint).Error; err != nil {
		return &StockUpdateError{Err: err}
	}

	err := func() error {
		restoreLockTimeout, err := setStockLockTimeout(tx)
		if err != nil {
			return err
		}
		defer restoreLockTimeout()

		if err := ReverseTransactionStock(tx, existing.ID); err != nil {
			return err
		}

		for _, model := range []interface{}{&TransactionStockItem{}, &TransactionUnloading{}, &TransactionPackaging{}} {
			if err := tx.Where("transaction_id = ?", existing.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		for i := range next.StockItems {
			next.StockItems[i].TransactionId = existing.ID
		}
		for i := range next.Unloadings {
			next.Unloadings[i].TransactionId = existing.ID
		}
		for i := range next.Packagings {
			next.Packagings[i].TransactionId = existing.ID
		}
		if len(next.StockItems) > 0 {
			if err := tx.Create(&next.StockItems).Error; err != nil {
				return err
			}
		}
		if len(next.Unloadings) > 0 {
			if err := tx.Create(&next.Unloadings).Error; err != nil {
				return err
			}
		}
		if len(next.Packagings) > 0 {
			if err := tx.Create(&next.Packagings).Error; err != nil {
				return err
			}
		}
		if err := rebuildBagDetails(tx, existing.ID, existing.BagDetails, next.Packagings); err != nil {
			return err
		}

		return ApplyTransactionStock(tx, next)
	}()
	if err != nil {
		if rbErr := tx.RollbackTo(stockSavePoint).Error; rbErr != nil {
			config.LogError(config.GetLogger(), "transaction.go", "repostTransactionStock", "rollback to savepoint", existing.ID, rbErr)
		}
		if IsClientError(err) {
			return err
		}
		return &StockUpdateError{Err: err}
	}
	return nil
}

// same stock effect: keep the rows (and the movement trail pointing at them),
// only refresh rates and remarks
func updateNonStockLines(tx *gorm.DB, existing *Transaction, next *Transaction) error {
	for i, item := range existing.StockItems {
		if item.Rate.Equal(next.StockItems[i].Rate) {
			continue
		}
		if err := tx.Model(&existing.StockItems[i]).Update("Rate", next.StockItems[i].Rate).Error; err != nil {
			return err
		}
	}
	for i, unloading := range existing.Unloadings {
		if unloading.Remarks == next.Unloadings[i].Remarks {
			continue
		}
		if err := tx.Model(&existing.Unloadings[i]).Update("Remarks", next.Unloadings[i].Remarks).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceTransactionPayments(tx *gorm.DB, next *Transaction) error {
	if err := tx.Where("transaction_id = ?", next.ID).Delete(&TransactionPayment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("transaction_id = ?", next.ID).Delete(&TransactionAllowanceDeduction{}).Error; err != nil {
		return err
	}
	for i := range next.Payments {
		next.Payments[i].TransactionId = next.ID
	}
	for i := range next.AllowanceDeductions {
		next.AllowanceDeductions[i].TransactionId = next.ID
	}
	if len(next.Payments) > 0 {
		if err := tx.Create(&next.Payments).Error; err != nil {
			return err
		}
	}
	if len(next.AllowanceDeductions) > 0 {
		if err := tx.Create(&next.AllowanceDeductions).Error; err != nil {
			return err
		}
	}
	return nil
}

func GetTransaction(ctx context.Context, id int) (*Transaction, error) {
	db := config.GetDB()
	var transaction Transaction
	err := preloadTransactionChildren(db.WithContext(ctx)).First(&transaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	transaction.CalculateFinancials()
	return &transaction, nil
}

func ListTransactions(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Transaction{})

	if filter != nil {
		if like := likePattern(filter.PartyName); like != "" {
			dbCtx = dbCtx.Where("party_id IN (?)", db.Model(&Party{}).Select("id").Where("LOWER(name) LIKE ?", like))
		}
		if like := likePattern(filter.BrokerName); like != "" {
			dbCtx = dbCtx.Where("broker_id IN (?)", db.Model(&Broker{}).Select("id").Where("LOWER(name) LIKE ?", like))
		}
		if like := likePattern(filter.TransporterName); like != "" {
			dbCtx = dbCtx.Where("transporter_id IN (?)", db.Model(&Transporter{}).Select("id").Where("LOWER(name) LIKE ?", like))
		}
		if like := likePattern(filter.StockItemName); like != "" {
			dbCtx = dbCtx.Where("id IN (?)", db.Model(&TransactionStockItem{}).Select("transaction_id").
				Where("stock_item_id IN (?)", db.Model(&StockItem{}).Select("id").Where("LOWER(name) LIKE ?", like)))
		}
		if filter.FromDate != nil {
			dbCtx = dbCtx.Where("transaction_date >= ?", *filter.FromDate)
		}
		if filter.ToDate != nil {
			dbCtx = dbCtx.Where("transaction_date < ?", filter.ToDate.AddDate(0, 0, 1))
		}
		if filter.TransactionType != nil {
			dbCtx = dbCtx.Where("transaction_type = ?", *filter.TransactionType)
		}
	}

	var results []*Transaction
	if err := preloadTransactionChildren(dbCtx).Order("transaction_date DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	for _, t := range results {
		t.CalculateFinancials()
	}
	return results, nil
}

func likePattern(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return ""
	}
	return "%" + strings.ToLower(strings.TrimSpace(*s)) + "%"
}
