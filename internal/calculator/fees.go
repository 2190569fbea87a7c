package calculator

import "github.com/mmynk/rollbook/internal/models"

// FeeInfo is the state of one student's fee account.
type FeeInfo struct {
	Roll     string
	Total    float64
	Paid     float64 // Sum of payment amounts
	Due      float64 // max(0, Total - Paid); overpayment never goes negative
	Payments []models.Payment
}

// Fee builds the FeeInfo for a fee record.
func Fee(rec models.FeeRecord) FeeInfo {
	paid := rec.Paid()
	return FeeInfo{
		Roll:     rec.Roll,
		Total:    rec.Total,
		Paid:     paid,
		Due:      due(rec.Total, paid),
		Payments: rec.Payments,
	}
}

// Outstanding sums the amount still due across fee records.
// Overpaid records contribute 0, not a credit.
func Outstanding(records []models.FeeRecord) float64 {
	var total float64
	for _, rec := range records {
		total += due(rec.Total, rec.Paid())
	}
	return total
}

func due(total, paid float64) float64 {
	return max(0, total-paid)
}
