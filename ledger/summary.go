/*
summary.go - Per-supplier aggregation

PURPOSE:
  Groups all Expenditures by normalized supplier identity and sums amounts,
  paid and remaining per group. Purely derived; never mutates state; only as
  fresh as the last committed write.

SEE ALSO:
  - types.go: SupplierSummary shape and the TotalDue alias
*/
package ledger

// buildSummaries folds the full expenditure set (and, for LastPayment, the
// payment history) into one SupplierSummary per normalized identity.
func buildSummaries(expenditures []Expenditure, payments []SupplierPayment) map[string]SupplierSummary {
	out := make(map[string]SupplierSummary)

	for _, e := range expenditures {
		key := NormalizeSupplier(e.Recipient)
		s := out[key]
		s.TotalExpenditure = s.TotalExpenditure.Add(e.Amount)
		s.TotalPaid = s.TotalPaid.Add(e.PaidAmount)
		s.TotalRemaining = s.TotalRemaining.Add(e.RemainingAmount)
		s.TotalDue = s.TotalRemaining
		s.Transactions = append(s.Transactions, e)
		out[key] = s
	}

	// Payments arrive in ascending creation order, so the last one seen
	// per supplier wins.
	for i := range payments {
		p := payments[i]
		key := NormalizeSupplier(p.Supplier)
		s, ok := out[key]
		if !ok {
			continue
		}
		s.LastPayment = &p
		out[key] = s
	}

	return out
}
