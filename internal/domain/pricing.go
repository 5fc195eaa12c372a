package domain

// EffectivePrice is the price actually charged: the sale price when one is
// set, otherwise the regular price. A sale price of 0 is a real sale price;
// only nil means unset.
func EffectivePrice(price, salePrice *float64) float64 {
	if salePrice != nil {
		return *salePrice
	}
	if price != nil {
		return *price
	}
	return 0
}

// DerivePriceRange computes the min/max effective price of a product. Simple
// products collapse to a single point; Variable products span their
// variations, or {0, 0} when there are none.
func DerivePriceRange(p *Product) PriceRange {
	if p.ProductType != ProductTypeVariable {
		eff := EffectivePrice(p.Price, p.SalePrice)
		return PriceRange{Min: eff, Max: eff}
	}

	if len(p.Variations) == 0 {
		return PriceRange{}
	}

	first := EffectivePrice(p.Variations[0].Price, p.Variations[0].SalePrice)
	r := PriceRange{Min: first, Max: first}
	for _, v := range p.Variations[1:] {
		eff := EffectivePrice(v.Price, v.SalePrice)
		r.Min = min(r.Min, eff)
		r.Max = max(r.Max, eff)
	}
	return r
}
