package domain

import "github.com/shopspring/decimal"

// LineTotal is unitPrice × quantity rounded once to MoneyScale.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return RoundMoney(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// OrderTotal sums already-rounded line totals and rounds the sum once.
func OrderTotal(lines []OrderLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal)
	}
	return RoundMoney(sum)
}

// DistinctProductIDs returns the product ids referenced by lines, first
// occurrence order, without duplicates.
func DistinctProductIDs(lines []OrderLineRequest) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

// MissingProductIDs returns the ids in want that have no product in found.
func MissingProductIDs(want []string, found []Product) []string {
	have := make(map[string]struct{}, len(found))
	for _, p := range found {
		have[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// PriceLines snapshots catalog prices onto every requested line and returns
// the priced lines with the order total. Each request line is priced on its
// own; repeated product ids are not merged. Every referenced product must be
// present in products.
func PriceLines(requested []OrderLineRequest, products []Product) ([]OrderLine, decimal.Decimal, error) {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]OrderLine, 0, len(requested))
	for i, r := range requested {
		p, ok := byID[r.ProductID]
		if !ok {
			return nil, decimal.Zero, &MissingProductsError{IDs: []string{r.ProductID}}
		}
		lines = append(lines, OrderLine{
			Position:             i,
			ProductID:            p.ID,
			ProductName:          p.Name,
			Quantity:             r.Quantity,
			UnitPriceAtOrderTime: p.UnitPrice,
			LineTotal:            LineTotal(p.UnitPrice, r.Quantity),
		})
	}
	return lines, OrderTotal(lines), nil
}
