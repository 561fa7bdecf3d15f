package adapters

import (
	"fmt"
	"strconv"
	"strings"
)

// WooLineItem is one order line of a WooCommerce order webhook.
type WooLineItem struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	ProductID   int64  `json:"product_id"`
	SubtotalTax string `json:"subtotal_tax"`
}

// WooOrder is the inbound WooCommerce order event. Data carries the raw
// order property array as the webhook serializes it.
type WooOrder struct {
	ID        int64                  `json:"id"`
	Status    string                 `json:"status"`
	Data      map[string]interface{} `json:"data"`
	LineItems []WooLineItem          `json:"line_items"`
}

// SourceID is the fixed source identifier WooCommerce integrations are
// registered under; orders are one stream, not per-form.
func (o *WooOrder) SourceID() string { return "shop_order" }

// ExtractWooCommerce flattens an order into the resolver's field map.
// Per-field resolution order: a typed order accessor wins over a raw key
// in the order data, which wins over the line-item aggregation. The four
// aggregated item fields join their per-item values with " | ".
func ExtractWooCommerce(order *WooOrder) map[string]string {
	fields := map[string]string{}

	// (c) line-item aggregation
	if len(order.LineItems) > 0 {
		names := make([]string, len(order.LineItems))
		quantities := make([]string, len(order.LineItems))
		productIDs := make([]string, len(order.LineItems))
		subtotalTaxes := make([]string, len(order.LineItems))
		for i, item := range order.LineItems {
			names[i] = item.Name
			quantities[i] = strconv.Itoa(item.Quantity)
			productIDs[i] = strconv.FormatInt(item.ProductID, 10)
			subtotalTaxes[i] = item.SubtotalTax
		}
		fields["name"] = strings.Join(names, " | ")
		fields["quantity"] = strings.Join(quantities, " | ")
		fields["product_id"] = strings.Join(productIDs, " | ")
		fields["subtotal_tax"] = strings.Join(subtotalTaxes, " | ")
	}

	// (b) raw keys from the order data array
	for key, value := range order.Data {
		fields[key] = stringifyOrderValue(value)
	}

	// (a) typed accessors
	fields["id"] = strconv.FormatInt(order.ID, 10)
	fields["status"] = order.Status

	return fields
}

func stringifyOrderValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
