package service

import "strings"

// Payment buckets tracked by reconciliation.
const (
	MethodCash       = "cash"
	MethodTill       = "till"
	MethodWithdrawal = "withdrawal"
	MethodSendMoney  = "send_money"
)

// NormalizePayMethod folds the free-form PaymentMethod cell into one of the
// four buckets. Unknown values pass through lowercased so they are at least
// stable, but they never land in a reconciliation bucket.
func NormalizePayMethod(s string) string {
	m := strings.ToLower(strings.TrimSpace(s))
	m = strings.ReplaceAll(m, "-", "_")
	m = strings.ReplaceAll(m, " ", "_")
	switch m {
	case "", MethodCash:
		return MethodCash
	case MethodTill:
		return MethodTill
	case MethodWithdrawal, "withdraw":
		return MethodWithdrawal
	case MethodSendMoney, "sendmoney":
		return MethodSendMoney
	default:
		return m
	}
}
