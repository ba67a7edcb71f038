package models

// VersionRelease is one row of the current-versions table maintained by the
// middleware. Featured rows are the default version selection for a product.
type VersionRelease struct {
	Product  string `json:"product"`
	Version  string `json:"version"`
	Featured bool   `json:"featured"`
	Throttle string `json:"throttle,omitempty"`
}

// Product is one row of the current-products listing.
type Product struct {
	ProductName string `json:"product_name"`
	Sort        int    `json:"sort"`
}

// ProductVersions pairs a product with its known version strings. Ordered
// slices stand in for the service's ordered mapping so "first product" stays
// well defined.
type ProductVersions struct {
	Product  string   `json:"product"`
	Versions []string `json:"versions"`
}
