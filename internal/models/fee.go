package models

// FeeRecord tracks the assessed fee and the payments made by one student.
// At most one record exists per roll; it is created lazily on first use.
type FeeRecord struct {
	Roll string `json:"roll"`

	// Total is the assessed amount. Defaults to 0.
	Total float64 `json:"total"`

	// Payments is append-only, in the order payments were recorded.
	Payments []Payment `json:"payments"`
}

// Payment is a single amount paid towards a fee record.
type Payment struct {
	Amount float64 `json:"amount"`

	// Date is the day the payment was recorded (YYYY-MM-DD).
	Date string `json:"date"`
}

// Paid returns the sum of all payment amounts.
func (f FeeRecord) Paid() float64 {
	var paid float64
	for _, p := range f.Payments {
		paid += p.Amount
	}
	return paid
}
