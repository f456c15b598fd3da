package models

import (
	"time"

	"github.com/mmdatafocus/ricemill_backend/utils"
)

type Identifier interface {
	GetId() int
}

// interface for dataloader result
type Data interface {
	Identifier
	GetDefault(int) Data
}

func (p Party) GetId() int {
	return p.ID
}

func (p Party) GetName() string {
	return p.Name
}

func (p Party) GetDefault(id int) Data {
	return Party{
		ID:        id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (b Broker) GetId() int {
	return b.ID
}

func (b Broker) GetName() string {
	return b.Name
}

func (b Broker) GetDefault(id int) Data {
	return Broker{
		ID:        id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (t Transporter) GetId() int {
	return t.ID
}

func (t Transporter) GetName() string {
	return t.Name
}

func (t Transporter) GetDefault(id int) Data {
	return Transporter{
		ID:        id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (o WeightBridgeOperator) GetId() int {
	return o.ID
}

func (o WeightBridgeOperator) GetName() string {
	return o.Name
}

func (o WeightBridgeOperator) GetDefault(id int) Data {
	return WeightBridgeOperator{
		ID:        id,
		IsActive:  utils.NewFalse(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (g Godown) GetId() int {
	return g.ID
}

func (g Godown) GetName() string {
	return g.Name
}

func (g Godown) GetDefault(id int) Data {
	return Godown{
		ID:        id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (s StockItem) GetId() int {
	return s.ID
}

func (s StockItem) GetName() string {
	return s.Name
}

func (s StockItem) GetDefault(id int) Data {
	return StockItem{
		ID:        id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (p Packaging) GetId() int {
	return p.ID
}

func (p Packaging) GetName() string {
	return p.Name
}

func (p Packaging) GetDefault(id int) Data {
	return Packaging{
		ID:        id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// loader loading more than one model by one id
type RelatedData interface {
	GetReferenceId() int
}

func (m StockMovement) GetReferenceId() int {
	return m.TransactionId
}
