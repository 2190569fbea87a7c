package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/mmynk/rollbook/internal/calculator"
	"github.com/mmynk/rollbook/internal/models"
)

// DateLayout is the calendar date format used for attendance and payments.
const DateLayout = "2006-01-02"

// FeeService tracks assessed fees and payments per roll.
type FeeService struct {
	store DataStore
	now   func() time.Time
}

// FeeOption configures a FeeService.
type FeeOption func(*FeeService)

// WithClock sets the clock used to date payments.
func WithClock(now func() time.Time) FeeOption {
	return func(s *FeeService) { s.now = now }
}

// NewFeeService creates a new FeeService over the given store.
func NewFeeService(store DataStore, opts ...FeeOption) *FeeService {
	s := &FeeService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTotal sets the assessed total for roll, creating the fee record if needed.
func (s *FeeService) SetTotal(ctx context.Context, roll string, total float64) error {
	err := s.store.Update(ctx, func(d *models.Data) error {
		idx, _ := d.EnsureFeeRecord(roll)
		d.Fees[idx].Total = total
		return nil
	})
	if err != nil {
		slog.Error("SetTotalFee failed", "roll", roll, "error", err)
		return err
	}
	slog.Info("Total fee set", "roll", roll, "total", total)
	return nil
}

// AddPayment appends a payment dated today to roll's fee record, creating the
// record if needed. The amount is not validated: zero and negative amounts are
// recorded as given.
func (s *FeeService) AddPayment(ctx context.Context, roll string, amount float64) error {
	payment := models.Payment{Amount: amount, Date: s.now().Format(DateLayout)}

	err := s.store.Update(ctx, func(d *models.Data) error {
		idx, _ := d.EnsureFeeRecord(roll)
		d.Fees[idx].Payments = append(d.Fees[idx].Payments, payment)
		return nil
	})
	if err != nil {
		slog.Error("AddFeePayment failed", "roll", roll, "error", err)
		return err
	}
	if amount <= 0 {
		slog.Warn("Non-positive fee payment recorded", "roll", roll, "amount", amount)
	}
	slog.Info("Fee payment added", "roll", roll, "amount", amount, "date", payment.Date)
	return nil
}

// Info returns roll's fee account. Reading an unknown roll creates and saves an
// empty record for it, so Info can fail only when that save fails.
func (s *FeeService) Info(ctx context.Context, roll string) (calculator.FeeInfo, error) {
	var (
		rec   models.FeeRecord
		found bool
	)
	s.store.View(func(d *models.Data) {
		if idx := d.FeeRecordIndex(roll); idx >= 0 {
			rec, found = d.Fees[idx], true
			rec.Payments = slices.Clone(rec.Payments)
		}
	})
	if found {
		return calculator.Fee(rec), nil
	}

	err := s.store.Update(ctx, func(d *models.Data) error {
		idx, _ := d.EnsureFeeRecord(roll)
		rec = d.Fees[idx]
		rec.Payments = slices.Clone(rec.Payments)
		return nil
	})
	if err != nil {
		slog.Error("GetFeeInfo failed", "roll", roll, "error", err)
		return calculator.FeeInfo{}, err
	}
	slog.Debug("Created empty fee record on read", "roll", roll)
	return calculator.Fee(rec), nil
}
