package product

type Product struct {
	ID          int64
	Title       string
	Description string
	Unit        string
	Available   int64
}
