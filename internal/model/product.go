package model

// ProductID is the stable catalog key of a product.
type ProductID string

// Product IDs, in catalog order.
const (
	ProductAspect      ProductID = "aspect"
	ProductRightAngle  ProductID = "rightangle"
	ProductTriplePoint ProductID = "triplepoint"
	ProductOpenlink    ProductID = "openlink"
	ProductAllegro     ProductID = "allegro"
)

// Product is a catalog entry.
type Product struct {
	ID           ProductID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	KeyStrengths []string  `json:"keyStrengths"`
}

// catalog is declared in a fixed order. Equal scores are broken by this
// order, so entries must not be reordered.
var catalog = []Product{
	{
		ID:           ProductAspect,
		Name:         "Aspect",
		Description:  "A cloud-native CTRM solution designed for rapid setup and deployment, ideal for small to mid-size companies in metals, oil, and agriculture.",
		KeyStrengths: []string{"Cloud-native", "Fast setup", "Metals focus", "Oil focus", "Agri-commodities focus", "Small to medium size"},
	},
	{
		ID:           ProductRightAngle,
		Name:         "RightAngle",
		Description:  "The industry-leading choice for energy firms with complex physical logistics, supply chain management, and inventory needs.",
		KeyStrengths: []string{"Energy focus", "Physical logistics", "Oil & Gas focus", "Power & Utilities focus"},
	},
	{
		ID:           ProductTriplePoint,
		Name:         "TriplePoint",
		Description:  "A powerful platform for companies requiring advanced, sophisticated risk management capabilities across multiple commodities.",
		KeyStrengths: []string{"Advanced risk", "Multi-commodity", "Enterprise scale"},
	},
	{
		ID:           ProductOpenlink,
		Name:         "Openlink",
		Description:  "The premier solution for large, global enterprises with complex, multi-commodity trading and risk management requirements.",
		KeyStrengths: []string{"Complex trading", "Multi-commodity", "Enterprise scale", "Global operations", "Financial services"},
	},
	{
		ID:           ProductAllegro,
		Name:         "Allegro",
		Description:  "A real-time ETRM platform optimized for the fast-paced demands of energy and power trading, including renewables and utilities.",
		KeyStrengths: []string{"Real-time trading", "Energy focus", "Power & Utilities focus", "ETRM Integration"},
	},
}

// Catalog returns a copy of the product catalog in declaration order.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	for i, p := range catalog {
		p.KeyStrengths = append([]string(nil), p.KeyStrengths...)
		out[i] = p
	}
	return out
}

// ProductByID finds id in products.
func ProductByID(products []Product, id ProductID) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
