package migration

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// DefaultIteratorPageSize is the number of holdings fetched per
// TraverseIterator call by LockedHoldings.
const DefaultIteratorPageSize = 64

// LockedHolding is a single element of listLockedHoldings iterator.
type LockedHolding struct {
	Holder util.Uint160
	Amount *big.Int
}

// FromStackItem decodes key-value pair returned by the contract iterator.
func (h *LockedHolding) FromStackItem(item stackitem.Item) error {
	if item == nil {
		return errors.New("nil item")
	}
	kv, ok := item.Value().([]stackitem.Item)
	if !ok {
		return fmt.Errorf("unexpected item type %s", item.Type())
	}
	if len(kv) != 2 {
		return fmt.Errorf("wrong number of structure elements: %d", len(kv))
	}

	holder, err := itemToUint160(kv[0])
	if err != nil {
		return fmt.Errorf("field Holder: %w", err)
	}

	amount, err := kv[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	h.Holder = holder
	h.Amount = amount
	return nil
}

// LockedHoldings fetches all non-zero locked holdings using iterator session
// and releases the session afterwards. pageSize <= 0 means
// DefaultIteratorPageSize.
func (c *ContractReader) LockedHoldings(pageSize int) ([]LockedHolding, error) {
	if pageSize <= 0 {
		pageSize = DefaultIteratorPageSize
	}

	sess, iter, err := c.ListLockedHoldings()
	if err != nil {
		return nil, fmt.Errorf("open holdings iterator: %w", err)
	}
	defer func() {
		_ = c.invoker.TerminateSession(sess)
	}()

	var res []LockedHolding
	for {
		items, err := c.invoker.TraverseIterator(sess, &iter, pageSize)
		if err != nil {
			return nil, fmt.Errorf("traverse holdings iterator: %w", err)
		}

		for i := range items {
			var h LockedHolding
			if err := h.FromStackItem(items[i]); err != nil {
				return nil, fmt.Errorf("holding #%d: %w", len(res), err)
			}
			res = append(res, h)
		}

		if len(items) < pageSize {
			return res, nil
		}
	}
}
