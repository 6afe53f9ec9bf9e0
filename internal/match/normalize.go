package match

import (
	"strings"

	"typecontract/naming"
)

// NormalizeIdent folds an identifier for fuzzy comparison: word boundaries
// and separators are dropped and the result is lower case, so "OrderID",
// "order_id" and "order-id" all normalize to "orderid".
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(naming.Tokenize(s), ""))
}
