package repository

import (
	"strings"

	"github.com/fekuna/omnipos-backoffice-service/internal/report/dto"
)

// ledgerSource names the table pair a report reads from. The orders ledger
// additionally supports the payment-method predicate.
type ledgerSource struct {
	lineItemsTable    string
	transactionsTable string
	hasPaymentMethod  bool
}

var (
	orderedSource = ledgerSource{
		lineItemsTable:    "ordered_products",
		transactionsTable: "order_transactions",
		hasPaymentMethod:  true,
	}
	returnedSource = ledgerSource{
		lineItemsTable:    "returned_products",
		transactionsTable: "return_transactions",
	}
)

// buildFilterClause folds the sparse predicate set into one FROM/WHERE pair
// with named arguments. Every predicate contributes exactly one condition
// (and, where needed, one join), so any subset of predicates composes into
// a single query instead of one hand-written method per combination.
func buildFilterClause(f *dto.ReportFilters, source ledgerSource) (string, map[string]interface{}) {
	var sb strings.Builder
	sb.WriteString(" FROM ")
	sb.WriteString(source.lineItemsTable)
	sb.WriteString(" li")
	sb.WriteString(" JOIN ")
	sb.WriteString(source.transactionsTable)
	sb.WriteString(" t ON li.transaction_id = t.id")
	sb.WriteString(" JOIN products p ON li.product_id = p.id")

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Phrase != "" {
		conditions = append(conditions, "p.name ILIKE :phrase")
		args["phrase"] = "%" + f.Phrase + "%"
	}
	if f.Type != "" {
		conditions = append(conditions, "p.type = :type")
		args["type"] = f.Type
	}
	if f.MinPrice != nil && f.MaxPrice != nil {
		// The snapshot price, not the product's live price.
		conditions = append(conditions, "li.price_per_unit BETWEEN :min_price AND :max_price")
		args["min_price"] = *f.MinPrice
		args["max_price"] = *f.MaxPrice
	}
	if f.StartDate != nil && f.EndDate != nil {
		conditions = append(conditions, "t.transaction_date BETWEEN :start_date AND :end_date")
		args["start_date"] = *f.StartDate
		args["end_date"] = *f.EndDate
	}
	if f.PaymentMethodName != "" && source.hasPaymentMethod {
		sb.WriteString(" JOIN payment_methods pm ON pm.id = t.payment_method_id")
		conditions = append(conditions, "pm.name = :payment_method")
		args["payment_method"] = f.PaymentMethodName
	}
	if f.DeliveryProviderName != "" {
		sb.WriteString(" JOIN delivery_providers dp ON dp.id = t.delivery_provider_id")
		conditions = append(conditions, "dp.name = :delivery_provider")
		args["delivery_provider"] = f.DeliveryProviderName
	}
	if f.UserEmail != "" {
		sb.WriteString(" JOIN users u ON u.id = t.user_id")
		conditions = append(conditions, "u.email = :user_email")
		args["user_email"] = f.UserEmail
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	return sb.String(), args
}

// groupKeyColumn maps the aggregation grain onto the grouped column.
func groupKeyColumn(groupBy dto.GroupBy) string {
	if groupBy == dto.GroupByType {
		return "p.type"
	}
	return "p.name"
}
