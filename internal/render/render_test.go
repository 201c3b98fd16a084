package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/NisseBoman/EdgeShop/internal/catalog"
)

func TestRender_ReplacesAllOccurrences(t *testing.T) {
	tmpl := []byte("{Product_Title} and again {Product_Title}")

	out := Render(tmpl, map[string]string{"{Product_Title}": "Keyboard"})

	if out != "Keyboard and again Keyboard" {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "{Product_Title}") {
		t.Fatalf("placeholder survived replacement: %q", out)
	}
}

func TestRender_EmptyMappingReturnsInput(t *testing.T) {
	tmpl := []byte("nothing {here} changes")

	if out := Render(tmpl, nil); out != string(tmpl) {
		t.Fatalf("got %q, want input unchanged", out)
	}
	if out := Render(tmpl, map[string]string{}); out != string(tmpl) {
		t.Fatalf("got %q, want input unchanged", out)
	}
}

func TestRender_NoRecursiveSubstitution(t *testing.T) {
	tmpl := []byte("{a}{b}")

	out := Render(tmpl, map[string]string{
		"{a}": "{b}",
		"{b}": "X",
	})

	// The value inserted for {a} must not be rescanned.
	if out != "{b}X" {
		t.Fatalf("got %q, want %q", out, "{b}X")
	}
}

func TestRender_RegexMetacharactersAreLiteral(t *testing.T) {
	tmpl := []byte("desc: {1_product_desc}")

	out := Render(tmpl, map[string]string{"{1_product_desc}": "worth $1 (or more)"})

	if out != "desc: worth $1 (or more)" {
		t.Fatalf("got %q", out)
	}
}

func TestRender_OutputIndependentOfMapOrder(t *testing.T) {
	tmpl := []byte("{1_Name} {2_Name} {Product_Title} {JSON}")
	repl := map[string]string{
		"{1_Name}":         "a",
		"{2_Name}":         "b",
		"{Product_Title}":  "c",
		"{JSON}":           "d",
		"{1_product_desc}": "unused",
	}

	// Map iteration order varies between runs; the output must not.
	first := Render(tmpl, repl)
	for i := 0; i < 50; i++ {
		if out := Render(tmpl, repl); out != first {
			t.Fatalf("iteration %d: got %q, want %q", i, out, first)
		}
	}
}

func TestRender_UnmatchedPlaceholdersStayVerbatim(t *testing.T) {
	tmpl := []byte("{1_Name} / {2_Name}")

	out := Render(tmpl, map[string]string{"{1_Name}": "Mouse"})

	if out != "Mouse / {2_Name}" {
		t.Fatalf("got %q", out)
	}
}

func TestSlotVars_NumbersFromOne(t *testing.T) {
	products := []catalog.Product{
		{ID: 7, Name: "A", Description: "da", Image: "a.png"},
		{ID: 9, Name: "B", Description: "db", Image: "b.png"},
	}

	vars := SlotVars(products)

	want := map[string]string{
		"{1_Name}":         "A",
		"{1_product_id}":   "7",
		"{1_image_path}":   "a.png",
		"{1_product_desc}": "da",
		"{2_Name}":         "B",
		"{2_product_id}":   "9",
		"{2_image_path}":   "b.png",
		"{2_product_desc}": "db",
	}
	if len(vars) != len(want) {
		t.Fatalf("got %d vars, want %d", len(vars), len(want))
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("vars[%q] = %q, want %q", k, vars[k], v)
		}
	}
}

func TestSlotVars_SurplusProductsIgnoredByTemplate(t *testing.T) {
	// Template has one slot, catalog has two products: the second product
	// simply never matches anything.
	tmpl := []byte("only {1_Name}")
	products := []catalog.Product{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	out := Render(tmpl, SlotVars(products))

	if out != "only A" {
		t.Fatalf("got %q", out)
	}
}

func TestDetailVars(t *testing.T) {
	p := catalog.Product{
		ID:          3,
		Name:        "Monitor",
		Description: "27 inch",
		Price:       decimal.NewFromFloat(299),
		Image:       "3_monitor.jpg",
	}

	vars := DetailVars(p)

	if vars["{Product_Title}"] != "Monitor" {
		t.Errorf("title = %q", vars["{Product_Title}"])
	}
	if vars["{Product_Price}"] != "299.00" {
		t.Errorf("price = %q, want 299.00", vars["{Product_Price}"])
	}
	if vars["{Product_Id}"] != "3" {
		t.Errorf("id = %q", vars["{Product_Id}"])
	}
	if !strings.Contains(vars["{JSON}"], `"ProductName": "Monitor"`) {
		t.Errorf("json not pretty-printed: %q", vars["{JSON}"])
	}
}
