package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/NisseBoman/EdgeShop/internal/admin"
	"github.com/NisseBoman/EdgeShop/internal/catalog"
	"github.com/NisseBoman/EdgeShop/pkg/kit"
)

const (
	maxLoginBody   = 1 << 20
	maxUploadBytes = 8 << 20

	tokenTTL = 1 * time.Hour

	loginLimitPerMin  = 5
	mutateLimitPerMin = 30
	limitWindow       = 60
)

// Server exposes the JSON product API. Reads are public; mutations require
// an admin bearer token obtained via /login.
type Server struct {
	Catalog *catalog.Service
	Tokens  *admin.TokenMaker
	Creds   *admin.Credentials
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	mutateLimiter := kit.NewIPRateLimiter(mutateLimitPerMin, limitWindow)

	r.With(loginLimiter.Middleware).Post("/login", s.login)

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)

	r.Group(func(pr chi.Router) {
		pr.Use(mutateLimiter.Middleware)
		pr.Use(s.requireAdmin)
		pr.Post("/products", s.create)
		pr.Put("/products/{id}", s.update)
		pr.Delete("/products/{id}", s.remove)
	})

	return r
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)

	var req loginReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if err := s.Creds.Verify(strings.TrimSpace(req.Username), req.Password); err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, err := s.Tokens.New(req.Username, tokenTTL)
	if err != nil {
		s.log().Error("mint token failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: token})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
			return
		}

		claims, err := s.Tokens.Parse(strings.TrimPrefix(authz, "Bearer "))
		if err != nil || claims.Role != "admin" {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	products, err := s.Catalog.ListProducts(r.Context(), q)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := s.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type productResp struct {
	catalog.Product
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	in, image, err := parseProductForm(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var img catalog.AssetUpload
	if image != nil {
		img = *image
	}

	p, warnings, err := s.Catalog.CreateProduct(r.Context(), in, img)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, productResp{Product: p, Warnings: warnings})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	in, image, err := parseProductForm(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	p, warnings, err := s.Catalog.UpdateProduct(r.Context(), id, in, image)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, productResp{Product: p, Warnings: warnings})
}

type deleteResp struct {
	Deleted  int      `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	warnings, err := s.Catalog.DeleteProduct(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, deleteResp{Deleted: id, Warnings: warnings})
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	case errors.Is(err, catalog.ErrValidation):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	default:
		s.log().Error("api request failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func (s *Server) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "malformed id", nil)
		return 0, false
	}
	return id, true
}

func parseListQuery(r *http.Request) (catalog.ListQuery, error) {
	v := r.URL.Query()
	q := catalog.ListQuery{Search: v.Get("search")}

	if raw := v.Get("min_price"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return catalog.ListQuery{}, errors.New("malformed min_price")
		}
		q.MinPrice = &d
	}
	if raw := v.Get("max_price"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return catalog.ListQuery{}, errors.New("malformed max_price")
		}
		q.MaxPrice = &d
	}

	switch sort := v.Get("sort"); sort {
	case "", "price", "name", "id":
		q.Sort = sort
	default:
		return catalog.ListQuery{}, errors.New("sort must be one of price, name, id")
	}

	switch order := v.Get("order"); order {
	case "", "asc", "desc":
		q.Order = order
	default:
		return catalog.ListQuery{}, errors.New("order must be asc or desc")
	}

	return q, nil
}

// parseProductForm reads the multipart product form. The image part is
// optional here; create enforces its presence in the service layer.
func parseProductForm(r *http.Request) (catalog.ProductInput, *catalog.AssetUpload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return catalog.ProductInput{}, nil, errors.New("expected multipart form")
	}

	in := catalog.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return in, nil, nil
	}
	if err != nil {
		return catalog.ProductInput{}, nil, errors.New("malformed image upload")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return catalog.ProductInput{}, nil, errors.New("read image upload")
	}

	return in, &catalog.AssetUpload{
		Filename:    header.Filename,
		ContentType: uploadContentType(header),
		Data:        data,
	}, nil
}

func uploadContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(header.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
