// Package seed generates a deterministic demo catalog for local development
// and load testing. Re-running with the same seed yields the same ids, so a
// loader can skip rows that already exist.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
)

// namespace scopes the name-based UUIDs of generated rows.
var namespace = uuid.MustParse("6f0e2a9c-51a4-4c8e-9d3b-8e6f1b2c7a10")

// Catalog is a generated demo catalog. Categories are ordered parents first.
type Catalog struct {
	Categories []domain.Category
	Brands     []domain.Brand
	Vendors    []domain.Vendor
	Products   []domain.Product
}

type categoryNode struct {
	name     string
	children []categoryNode
	// attribute and values drive Variable products in leaf categories.
	attribute string
	values    []string
	basePrice float64
}

var tree = []categoryNode{
	{name: "Tools", children: []categoryNode{
		{name: "Power Tools", children: []categoryNode{
			{name: "Drills", attribute: "Voltage", values: []string{"12V", "18V", "20V"}, basePrice: 14500},
			{name: "Angle Grinders", attribute: "Disc Size", values: []string{"4 inch", "5 inch", "7 inch"}, basePrice: 9800},
		}},
		{name: "Hand Tools", children: []categoryNode{
			{name: "Wrenches", attribute: "Size", values: []string{"10mm", "13mm", "17mm", "19mm"}, basePrice: 850},
			{name: "Hammers", attribute: "Weight", values: []string{"500g", "1kg", "2kg"}, basePrice: 1200},
		}},
	}},
	{name: "Building Materials", children: []categoryNode{
		{name: "Steel", children: []categoryNode{
			{name: "Rebar", attribute: "Diameter", values: []string{"10mm", "12mm", "16mm", "20mm"}, basePrice: 2600},
			{name: "Angle Iron", attribute: "Section", values: []string{"25x25", "40x40", "50x50"}, basePrice: 3400},
		}},
		{name: "Cement", attribute: "Bag", values: []string{"25kg", "50kg"}, basePrice: 1450},
	}},
	{name: "Hardware", children: []categoryNode{
		{name: "Fasteners", children: []categoryNode{
			{name: "Bolts", attribute: "Length", values: []string{"1 inch", "2 inch", "3 inch"}, basePrice: 180},
			{name: "Screws", attribute: "Pack", values: []string{"50 pcs", "100 pcs", "250 pcs"}, basePrice: 320},
		}},
		{name: "Locks", attribute: "Finish", values: []string{"Brass", "Chrome", "Black"}, basePrice: 2200},
	}},
	{name: "Electrical", children: []categoryNode{
		{name: "Cables", attribute: "Gauge", values: []string{"3/29", "7/29", "7/36"}, basePrice: 5400},
		{name: "Switches", attribute: "Type", values: []string{"1 Gang", "2 Gang", "3 Gang"}, basePrice: 450},
	}},
	{name: "Plumbing", children: []categoryNode{
		{name: "Pipes", attribute: "Diameter", values: []string{"1/2 inch", "3/4 inch", "1 inch"}, basePrice: 950},
		{name: "Taps", attribute: "Finish", values: []string{"Chrome", "Steel"}, basePrice: 1750},
	}},
}

var brandNames = []string{
	"Amreli Steels", "Mughal Steel", "Bosch", "Makita", "Stanley",
	"Total", "Ingco", "Fast Cables", "Pakistan Cables", "Dadex",
}

var vendorShops = []struct {
	name, shop, city string
}{
	{"Hamza Iqbal", "Iqbal Hardware", "Lahore"},
	{"Sana Tariq", "Tariq Steel Traders", "Karachi"},
	{"Bilal Khan", "Khan Electric House", "Peshawar"},
}

var adjectives = []string{"Heavy Duty", "Professional", "Industrial", "Compact", "Premium", "Standard", "Galvanized", "Pro"}

// ID returns the stable UUID of a generated row of kind with key.
func ID(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key)).String()
}

// Generate builds a catalog of n products using seed for every random
// choice. Timestamps are spread over the 90 days before now. Vendor password
// hashes are left empty for the caller to fill.
func Generate(n int, seed uint64, now time.Time) *Catalog {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	now = now.UTC()
	c := &Catalog{}

	var leaves []categoryNode
	leafIDs := make(map[string]string)
	var walk func(nodes []categoryNode, parent *string)
	walk = func(nodes []categoryNode, parent *string) {
		for _, node := range nodes {
			id := ID("category", node.name)
			c.Categories = append(c.Categories, domain.Category{
				ID:        id,
				Name:      node.name,
				Parent:    parent,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if len(node.children) == 0 {
				leaves = append(leaves, node)
				leafIDs[node.name] = id
				continue
			}
			walk(node.children, &id)
		}
	}
	walk(tree, nil)

	for _, name := range brandNames {
		c.Brands = append(c.Brands, domain.Brand{
			ID:        ID("brand", name),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	for i, v := range vendorShops {
		c.Vendors = append(c.Vendors, domain.Vendor{
			ID:            ID("vendor", v.shop),
			Name:          v.name,
			Email:         fmt.Sprintf("vendor%d@hadeedcart.com", i+1),
			ShopName:      v.shop,
			Phone:         fmt.Sprintf("0300%07d", 1000000+i),
			Address:       v.city,
			AccountStatus: domain.VendorStatusApproved,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	c.Products = make([]domain.Product, 0, n)
	for i := range n {
		leaf := leaves[rng.IntN(len(leaves))]
		brand := c.Brands[rng.IntN(len(c.Brands))]
		vendor := c.Vendors[rng.IntN(len(c.Vendors))]
		created := now.Add(-time.Duration(rng.IntN(90*24)) * time.Hour)

		p := domain.Product{
			ID:          ID("product", fmt.Sprint(i)),
			Name:        fmt.Sprintf("%s %s %s", brand.Name, adjectives[rng.IntN(len(adjectives))], singular(leaf.name)),
			Description: fmt.Sprintf("%s from %s, sold by %s.", singular(leaf.name), brand.Name, vendor.ShopName),
			InStock:     rng.IntN(10) > 0,
			Category:    leafIDs[leaf.name],
			Brand:       brand.ID,
			VendorID:    vendor.ID,
			IsFeatured:  rng.IntN(20) == 0,
			Tags:        []string{strings.ToLower(leaf.name), strings.ToLower(brand.Name)},
			Status:      domain.ProductStatusPublished,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if rng.IntN(10) == 0 {
			p.Status = domain.ProductStatusDraft
		}

		sku := fmt.Sprintf("HC-%05d", i)
		base := price(leaf.basePrice * (0.7 + rng.Float64()*0.8))
		if rng.IntN(5) == 0 {
			p.ProductType = domain.ProductTypeVariable
			for j, value := range leaf.values {
				vp := price(base * (1 + 0.25*float64(j)))
				stock := rng.IntN(200)
				vsku := fmt.Sprintf("%s-%d", sku, j+1)
				v := domain.Variation{
					Attribute: leaf.attribute,
					Value:     value,
					Price:     &vp,
					Stock:     &stock,
					SKU:       &vsku,
				}
				if rng.IntN(4) == 0 {
					sale := price(vp * 0.9)
					v.SalePrice = &sale
				}
				p.Variations = append(p.Variations, v)
			}
		} else {
			p.ProductType = domain.ProductTypeSimple
			p.Price = &base
			p.SKU = &sku
			if rng.IntN(3) == 0 {
				sale := price(base * 0.85)
				p.SalePrice = &sale
			}
		}

		domain.Normalize(&p)
		c.Products = append(c.Products, p)
	}
	return c
}

// price rounds to whole rupees, never below one.
func price(v float64) float64 {
	return math.Max(1, math.Round(v))
}

func singular(s string) string {
	if strings.HasSuffix(s, "ches") || strings.HasSuffix(s, "shes") {
		return strings.TrimSuffix(s, "es")
	}
	return strings.TrimSuffix(s, "s")
}
