package web

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/NisseBoman/EdgeShop/internal/catalog"
)

// The listing and cart pages are filled with per-product HTML fragments
// rather than numbered slots. Product fields are HTML-escaped here; the
// template renderer itself inserts values verbatim.

func productListHTML(products []catalog.Product) string {
	var b strings.Builder
	for _, p := range products {
		b.WriteString(productFragment(p))
	}
	return b.String()
}

func productFragment(p catalog.Product) string {
	name := html.EscapeString(p.Name)
	desc := html.EscapeString(p.Description)

	return fmt.Sprintf(`
      <div class="product-list-item p-4">
        <div class="row align-items-center">
          <div class="col-auto">
            <a href="/product/%d/"><img src="/images/%s" class="product-image" alt="%s"></a>
          </div>
          <div class="col">
            <h3 class="product-title mb-2">%s</h3>
            <p class="mb-2">%s</p>
            <div class="d-flex justify-content-between align-items-center">
              <span class="product-price">$%s</span>
              <div>
                <a href="/product/%d/" class="btn btn-primary">View Details</a>
              </div>
            </div>
          </div>
        </div>
      </div>
    `, p.ID, html.EscapeString(p.Image), name, name, desc, p.Price.StringFixed(2), p.ID)
}

func cartItemFragment(p catalog.Product, qty int) string {
	name := html.EscapeString(p.Name)
	line := p.Price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2)

	return fmt.Sprintf(`
      <div class="card mb-3">
        <div class="card-body">
          <div class="row align-items-center">
            <div class="col-md-2">
              <img src="/images/%s" class="img-fluid rounded" alt="%s">
            </div>
            <div class="col-md-5">
              <h5>%s</h5>
            </div>
            <div class="col-md-5">
              <div class="d-flex justify-content-between align-items-center">
                <form method="POST" action="/cart/update/%d" class="d-flex align-items-center">
                  <label class="me-2">Qty:</label>
                  <input type="number" name="quantity" value="%d" min="0" max="99"
                    class="form-control form-control-sm" style="width: 70px;"
                    onchange="this.form.submit()">
                </form>
                <span>$%s</span>
                <form method="POST" action="/cart/update/%d" class="ms-3">
                  <input type="hidden" name="quantity" value="0">
                  <button type="submit" class="btn btn-link text-danger p-0">Remove</button>
                </form>
              </div>
            </div>
          </div>
        </div>
      </div>
    `, html.EscapeString(p.Image), name, name, p.ID, qty, line, p.ID)
}

const (
	freeShippingApplied = `<div class="alert alert-success mb-2 py-2">Free shipping applied!</div>`
	freeShippingHint    = `<div class="text-muted small mb-2">Free shipping on orders over $500</div>`
	emptyCartHTML       = `<p>Your cart is empty</p>`
)
