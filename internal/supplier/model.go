package supplier

type Supplier struct {
	ID      int64
	Title   string
	OGRN    string
	AdminID int64
}

// CatalogEntry is a (supplier, product) association carrying the
// supplier-local product code and current price in minor currency units.
type CatalogEntry struct {
	SupplierID  int64
	ProductID   int64
	ProductCode string
	Price       int64
}
