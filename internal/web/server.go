package web

import (
	"context"
	"embed"
	"errors"
	"mime"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/NisseBoman/EdgeShop/internal/cart"
	"github.com/NisseBoman/EdgeShop/internal/catalog"
	"github.com/NisseBoman/EdgeShop/internal/pricing"
	"github.com/NisseBoman/EdgeShop/internal/render"
	"github.com/NisseBoman/EdgeShop/pkg/kit"
)

//go:embed templates/*.html
var templates embed.FS

// Pages are static and cached hard; the cart page must never be cached
// because its content depends on the cookie.
const (
	pageCacheControl  = "public, max-age=432000"
	imageCacheControl = "public, max-age=432000"
)

// Server renders the HTML storefront pages.
type Server struct {
	Catalog  *catalog.Service
	Shipping pricing.ShippingPolicy
	Log      *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Catalog.Store.Ping(ctx); err != nil {
			s.log().Warn("readyz failed", zap.Error(err))
			kit.WriteText(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/", s.home)
	r.Get("/products", s.products)
	r.Get("/about", s.about)
	r.Get("/cart", s.cartPage)
	r.Get("/product/{id}", s.productDetail)
	r.Get("/product/{id}/", s.productDetail)
	r.Get("/images/{filename}", s.image)

	r.Post("/cart/add/{id}", s.cartAdd)
	r.Post("/cart/update/{id}", s.cartUpdate)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteText(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(methodNotAllowed)

	return r
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	c, err := s.Catalog.LoadCatalog(r.Context())
	if err != nil {
		s.pageError(w, err, "Products not found")
		return
	}

	page := mustTemplate("index.html")
	w.Header().Set("Cache-Control", pageCacheControl)
	kit.WriteHTML(w, http.StatusOK, render.Render(page, render.SlotVars(c.Products)))
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	c, err := s.Catalog.LoadCatalog(r.Context())
	if err != nil {
		s.pageError(w, err, "Products not found")
		return
	}

	page := mustTemplate("products.html")
	out := render.Render(page, map[string]string{"{all_json}": productListHTML(c.Products)})

	w.Header().Set("Cache-Control", pageCacheControl)
	kit.WriteHTML(w, http.StatusOK, out)
}

func (s *Server) about(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", pageCacheControl)
	kit.WriteHTML(w, http.StatusOK, string(mustTemplate("about.html")))
}

func (s *Server) productDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteText(w, http.StatusNotFound, "Not found")
		return
	}

	p, err := s.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.pageError(w, err, "Product not found")
		return
	}

	page := mustTemplate("product.html")
	w.Header().Set("Cache-Control", pageCacheControl)
	kit.WriteHTML(w, http.StatusOK, render.Render(page, render.DetailVars(p)))
}

func (s *Server) cartPage(w http.ResponseWriter, r *http.Request) {
	ck := cart.FromRequest(r)

	c, err := s.Catalog.LoadCatalog(r.Context())
	if err != nil {
		s.pageError(w, err, "Products not found")
		return
	}

	items := cartItemsHTML(ck, c)
	if items == "" {
		items = emptyCartHTML
	}

	totals := pricing.Compute(ck, c, s.Shipping)
	formatted := totals.Format()

	msg := freeShippingHint
	if totals.FreeShipping() && !totals.Subtotal.IsZero() {
		msg = freeShippingApplied
	}

	page := mustTemplate("cart.html")
	out := render.Render(page, map[string]string{
		"{CART_ITEMS}":            items,
		"{SUBTOTAL}":              formatted.Subtotal,
		"{VAT}":                   formatted.VAT,
		"{SHIPPING}":              formatted.Shipping,
		"{TOTAL}":                 formatted.Total,
		"{FREE_SHIPPING_MESSAGE}": msg,
	})

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	kit.WriteHTML(w, http.StatusOK, out)
}

func (s *Server) cartAdd(w http.ResponseWriter, r *http.Request) {
	s.mutateCart(w, r, 1)
}

func (s *Server) cartUpdate(w http.ResponseWriter, r *http.Request) {
	s.mutateCart(w, r, 0)
}

// mutateCart applies the shared cart mutation: quantity from the form
// (defaultQty when the field is absent), capped at 99, zero removes. The
// product id is taken verbatim; it is not validated against the catalog.
func (s *Server) mutateCart(w http.ResponseWriter, r *http.Request, defaultQty int) {
	ck := cart.FromRequest(r)

	qty := defaultQty
	if err := r.ParseForm(); err == nil {
		if v := r.PostFormValue("quantity"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				qty = n
			} else {
				qty = 0
			}
		}
	}

	ck.Update(chi.URLParam(r, "id"), qty)

	cart.WriteCookie(w, ck)
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) image(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	data, ct, ok, err := s.Catalog.Store.GetAsset(r.Context(), filename)
	if err != nil {
		s.log().Error("get image failed", zap.Error(err), zap.String("filename", filename))
		kit.WriteText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		kit.WriteText(w, http.StatusNotFound, "Image not found")
		return
	}

	if ct == "" {
		ct = imageContentType(filename)
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", imageCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) pageError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, catalog.ErrNotFound) {
		kit.WriteText(w, http.StatusNotFound, notFoundMsg)
		return
	}
	s.log().Error("page render failed", zap.Error(err))
	kit.WriteText(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	kit.WriteText(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func cartItemsHTML(ck cart.Cart, c catalog.Catalog) string {
	// Cookie maps are unordered; render items sorted by product id so the
	// page is stable across reloads.
	keys := make([]string, 0, len(ck))
	for k := range ck {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := cart.ProductID(keys[i])
		b, _ := cart.ProductID(keys[j])
		return a < b
	})

	var b strings.Builder
	for _, key := range keys {
		id, ok := cart.ProductID(key)
		if !ok {
			continue
		}
		p, ok := c.Find(id)
		if !ok {
			continue
		}
		b.WriteString(cartItemFragment(p, ck[key]))
	}
	return b.String()
}

func imageContentType(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if ext != "" {
		return "image/" + strings.TrimPrefix(ext, ".")
	}
	return "application/octet-stream"
}

func mustTemplate(name string) []byte {
	data, err := templates.ReadFile("templates/" + name)
	if err != nil {
		// Templates are embedded; a missing one is a build defect.
		panic(err)
	}
	return data
}
