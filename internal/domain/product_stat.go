package domain

// ProductStat accumulates purchase statistics for one product across orders.
type ProductStat struct {
	ProductID     string
	ProductName   string
	Brand         string
	Frequency     int     // distinct orders containing the product
	TotalQuantity float64 // sum of line quantities
	AveragePrice  float64 // running mean of per-order unit price
	LastOrderDate string  // greatest order date seen
	Category      string  // fixed at first occurrence
	CategoryID    int64   // fixed at first occurrence
}

// CategoryGroup is a category together with the products assigned to it.
type CategoryGroup struct {
	CategoryID     int64
	CategoryName   string
	TotalFrequency int // sum of Frequency over all members, before truncation
	Products       []ProductStat
}
