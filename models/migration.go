package models

import (
	"log"

	"github.com/mmdatafocus/ricemill_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Party{}, &Broker{}, &Transporter{}, &WeightBridgeOperator{},
		&Godown{}, &StockItem{}, &Packaging{},
		&Transaction{}, &TransactionStockItem{}, &TransactionPackaging{}, &TransactionPayment{},
		&TransactionAllowanceDeduction{}, &TransactionUnloading{}, &BagDetail{},
		&StockLedger{}, &StockMovement{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
