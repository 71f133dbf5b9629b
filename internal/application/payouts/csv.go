package payouts

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportResult reports a CSV-driven bulk update: applied row count plus one
// error string per skipped row. The operation as a whole succeeds when at
// least one row was applied.
type ImportResult struct {
	UpdatedCount int      `json:"updated_count"`
	Errors       []string `json:"errors"`
}

// RowError formats use 1-based data row numbers (header excluded).
func rowErr(row int, format string, args ...interface{}) string {
	return fmt.Sprintf("row %d: %s", row, fmt.Sprintf(format, args...))
}

// ImportCSV applies payout updates from CSV rows keyed by payout id. Rows
// referencing a payout outside the target distribution, carrying an unknown
// status token, or failing amount/date parsing are recorded as per-row errors
// and skipped. A paid_at value always forces status PAID, overriding any
// explicit status column. Each applied row goes through Update, so the bank
// account guard and the wallet-credit side effect apply per row.
//
// Expected header: payout_id plus any of status, amount, paid_at,
// payment_method, payment_reference, bank_account, notes.
func (s *Service) ImportCSV(ctx context.Context, distributionID uuid.UUID, r io.Reader, actorID *uuid.UUID) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["payout_id"]; !ok {
		return nil, fmt.Errorf("CSV header missing payout_id column")
	}

	// Restrict updates to payouts of the target distribution.
	var ids []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&domain.Payout{}).
		Where("distribution_id = ?", distributionID).
		Pluck("payout_id", &ids).Error; err != nil {
		return nil, err
	}
	inDistribution := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		inDistribution[id] = true
	}

	result := &ImportResult{}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, rowErr(row, "malformed CSV: %v", err))
			continue
		}

		field := func(name string) (string, bool) {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return "", false
			}
			v := strings.TrimSpace(record[i])
			return v, v != ""
		}

		rawID, _ := field("payout_id")
		payoutID, err := uuid.Parse(rawID)
		if err != nil {
			result.Errors = append(result.Errors, rowErr(row, "invalid payout id %q", rawID))
			continue
		}
		if !inDistribution[payoutID] {
			result.Errors = append(result.Errors, rowErr(row, "payout %s not found in distribution", payoutID))
			continue
		}

		var input UpdateInput
		input.AdjustmentReason = "CSV import"

		if v, ok := field("status"); ok {
			status := strings.ToUpper(v)
			if !domain.ValidPayoutStatus(status) {
				result.Errors = append(result.Errors, rowErr(row, "unrecognized status %q", v))
				continue
			}
			input.Status = &status
		}
		if v, ok := field("amount"); ok {
			amount, err := decimal.NewFromString(v)
			if err != nil {
				result.Errors = append(result.Errors, rowErr(row, "invalid amount %q", v))
				continue
			}
			input.Amount = &amount
		}
		if v, ok := field("paid_at"); ok {
			paidAt, err := parseCSVTime(v)
			if err != nil {
				result.Errors = append(result.Errors, rowErr(row, "invalid paid_at %q", v))
				continue
			}
			input.PaidAt = &paidAt
		}
		if v, ok := field("payment_method"); ok {
			method := strings.ToLower(v)
			input.PaymentMethod = &method
		}
		if v, ok := field("payment_reference"); ok {
			input.PaymentReference = &v
		}
		if v, ok := field("bank_account"); ok {
			input.BankAccount = &v
		}
		if v, ok := field("notes"); ok {
			input.Notes = &v
		}

		if _, err := s.Update(ctx, payoutID, input, actorID); err != nil {
			result.Errors = append(result.Errors, rowErr(row, "%v", err))
			continue
		}
		result.UpdatedCount++
	}

	if result.UpdatedCount == 0 {
		return result, ErrNoRowsApplied
	}
	return result, nil
}

func parseCSVTime(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format")
}
