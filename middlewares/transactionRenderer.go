package middlewares

import (
	"context"

	"github.com/mmdatafocus/ricemill_backend/models"
)

// RenderTransactions fills the display names of the transactions and their
// lines. Lookups across all transactions are batched per table.
func RenderTransactions(ctx context.Context, transactions ...*models.Transaction) error {
	loaders := For(ctx)

	// queue every load first so each loader flushes one batch
	type pending struct {
		resolve func() error
	}
	var queue []pending

	for _, t := range transactions {
		if t == nil {
			continue
		}
		t := t
		party := loaders.partyLoader.Load(ctx, t.PartyId)
		broker := loaders.brokerLoader.Load(ctx, t.BrokerId)
		transporter := loaders.transporterLoader.Load(ctx, t.TransporterId)
		operator := loaders.operatorLoader.Load(ctx, t.OperatorId)
		queue = append(queue, pending{func() error {
			p, err := party()
			if err != nil {
				return err
			}
			b, err := broker()
			if err != nil {
				return err
			}
			tr, err := transporter()
			if err != nil {
				return err
			}
			o, err := operator()
			if err != nil {
				return err
			}
			t.PartyName, t.BrokerName, t.TransporterName, t.OperatorName = p.Name, b.Name, tr.Name, o.Name
			return nil
		}})

		for i := range t.StockItems {
			line := &t.StockItems[i]
			thunk := loaders.stockItemLoader.Load(ctx, line.StockItemId)
			queue = append(queue, pending{func() error {
				item, err := thunk()
				if err != nil {
					return err
				}
				line.StockItemName = item.Name
				return nil
			}})
		}
		for i := range t.Packagings {
			line := &t.Packagings[i]
			thunk := loaders.packagingLoader.Load(ctx, line.PackagingId)
			queue = append(queue, pending{func() error {
				packaging, err := thunk()
				if err != nil {
					return err
				}
				line.PackagingName = packaging.Name
				return nil
			}})
		}
		for i := range t.BagDetails {
			detail := &t.BagDetails[i]
			thunk := loaders.packagingLoader.Load(ctx, detail.PackagingId)
			queue = append(queue, pending{func() error {
				packaging, err := thunk()
				if err != nil {
					return err
				}
				detail.PackagingName = packaging.Name
				return nil
			}})
		}
		for i := range t.Unloadings {
			line := &t.Unloadings[i]
			thunk := loaders.godownLoader.Load(ctx, line.GodownId)
			queue = append(queue, pending{func() error {
				godown, err := thunk()
				if err != nil {
					return err
				}
				line.GodownName = godown.Name
				return nil
			}})
		}
	}

	for _, p := range queue {
		if err := p.resolve(); err != nil {
			return err
		}
	}
	return nil
}
