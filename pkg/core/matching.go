package core

// companySet summarizes the companies present on one side of a security
// without allocating: it only needs to answer whether a company other than
// a given one is present.
type companySet struct {
	first string
	seen  bool
	mixed bool
}

func (c *companySet) add(company string) {
	switch {
	case !c.seen:
		c.first = company
		c.seen = true
	case company != c.first:
		c.mixed = true
	}
}

// hasOtherThan reports whether the set holds a company different from company
func (c *companySet) hasOtherThan(company string) bool {
	return c.mixed || (c.seen && c.first != company)
}

// MatchingSize returns the total quantity that can match for securityID.
//
// A sell order is eligible when at least one buy order of the same security
// belongs to another company, and vice versa. The sell side contributes the
// summed quantity of its eligible orders as a pool. Eligible buy orders are
// then walked in storage order, each taking min(quantity, pool) out of the
// pool. The allocated total is returned. This is an aggregate capacity
// estimate, not a maximum bipartite matching. Orders with a side other than
// Buy or Sell are ignored.
func MatchingSize(orders []*Order, securityID string) uint64 {
	var (
		buys, sells                 []*Order
		buyCompanies, sellCompanies companySet
	)

	for _, order := range orders {
		if order.securityID != securityID {
			continue
		}
		switch order.side {
		case Buy:
			buys = append(buys, order)
			buyCompanies.add(order.company)
		case Sell:
			sells = append(sells, order)
			sellCompanies.add(order.company)
		}
	}

	if len(buys) == 0 || len(sells) == 0 {
		return 0
	}

	var pool uint64
	for _, sell := range sells {
		if buyCompanies.hasOtherThan(sell.company) {
			pool += sell.quantity
		}
	}

	var matched uint64
	for _, buy := range buys {
		if pool == 0 {
			break
		}
		if !sellCompanies.hasOtherThan(buy.company) {
			continue
		}
		qty := min(buy.quantity, pool)
		matched += qty
		pool -= qty
	}

	return matched
}
