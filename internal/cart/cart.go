// Package cart implements the cookie-carried shopping cart. The cart lives
// only in the client's cookie; the server reconstructs it from scratch on
// every request and never stores it.
package cart

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// MaxQuantity caps any single line item.
const MaxQuantity = 99

// Cart maps a product id (string form, as it appears in the cookie JSON)
// to a quantity in 1..MaxQuantity. A zero quantity is never stored; the
// entry is simply absent.
type Cart map[string]int

// Decode parses a cookie value: URL-decode, then JSON. Anything that does
// not parse — absent value, bad escaping, bad JSON, a JSON non-object —
// yields an empty cart. Decode never fails.
func Decode(raw string) Cart {
	if raw == "" {
		return Cart{}
	}

	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return Cart{}
	}

	var c Cart
	if err := json.Unmarshal([]byte(unescaped), &c); err != nil || c == nil {
		return Cart{}
	}
	return c
}

// Encode is the inverse of Decode: JSON then URL-encode.
func Encode(c Cart) string {
	if c == nil {
		c = Cart{}
	}
	data, _ := json.Marshal(c)
	return url.QueryEscape(string(data))
}

// Update applies the cart mutation rule: a positive quantity sets the entry
// (capped at MaxQuantity), zero or less removes it. The product id is not
// checked against the catalog here — ids of since-deleted products ride
// along in the cookie and are skipped at render and pricing time.
func (c Cart) Update(id string, qty int) {
	if qty > 0 {
		if qty > MaxQuantity {
			qty = MaxQuantity
		}
		c[id] = qty
		return
	}
	delete(c, id)
}

// ProductID parses a cart key back to a numeric product id.
func ProductID(key string) (int, bool) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return id, true
}
