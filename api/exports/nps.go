package exports

import "github.com/shopspring/decimal"

// NPSTally accumulates ratings from nps-type answers.
// NPS = %promoters - %detractors.
type NPSTally struct {
	Total      int `json:"total"`
	Promoters  int `json:"promoters"`  // 9 or 10
	Passives   int `json:"passives"`   // 7 or 8
	Detractors int `json:"detractors"` // 6 or lower
}

func (n *NPSTally) Add(rating int) {
	n.Total++
	switch {
	case rating >= 9:
		n.Promoters++
	case rating >= 7:
		n.Passives++
	default:
		n.Detractors++
	}
}

func (n *NPSTally) Score() decimal.Decimal {
	if n.Total == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(int64(n.Promoters - n.Detractors)).
		Div(decimal.NewFromInt(int64(n.Total))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
