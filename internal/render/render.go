// Package render does placeholder substitution over the static page
// templates. Placeholders are literal tokens like {Product_Title}; values
// are inserted verbatim, never rescanned, so catalog data containing
// regex-looking text (a description with "$1") cannot corrupt the output.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NisseBoman/EdgeShop/internal/catalog"
)

// Render replaces every occurrence of each key in replacements with its
// value. The substitution is a single pass over the template, so inserted
// values are never themselves scanned and map iteration order cannot
// change the result for disjoint keys. Unmatched placeholders stay
// verbatim in the output.
func Render(template []byte, replacements map[string]string) string {
	if len(replacements) == 0 {
		return string(template)
	}

	pairs := make([]string, 0, 2*len(replacements))
	for k, v := range replacements {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(string(template))
}

// SlotVars builds the numbered-slot replacements for list-style pages:
// {n_Name}, {n_product_id}, {n_image_path}, {n_product_desc} for
// n = 1..len(products). Templates with fewer slots simply never match the
// surplus keys.
func SlotVars(products []catalog.Product) map[string]string {
	vars := make(map[string]string, 4*len(products))
	for i, p := range products {
		n := i + 1
		vars[fmt.Sprintf("{%d_Name}", n)] = p.Name
		vars[fmt.Sprintf("{%d_product_id}", n)] = fmt.Sprintf("%d", p.ID)
		vars[fmt.Sprintf("{%d_image_path}", n)] = p.Image
		vars[fmt.Sprintf("{%d_product_desc}", n)] = p.Description
	}
	return vars
}

// DetailVars builds the fixed replacement set of the product detail page.
func DetailVars(p catalog.Product) map[string]string {
	pretty, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		pretty = []byte("{}")
	}

	return map[string]string{
		"{Product_Title}":       p.Name,
		"{Product_Description}": p.Description,
		"{Product_Price}":       p.Price.StringFixed(2),
		"{Product_image_path}":  p.Image,
		"{Product_Id}":          fmt.Sprintf("%d", p.ID),
		"{JSON}":                string(pretty),
	}
}
