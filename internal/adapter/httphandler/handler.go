package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/internal/core/port"
)

const maxBodyBytes = 1 << 20

// GET /
// GET /test

type RootHandler struct {
	diagnoser port.StorageDiagnoser
}

func RegisterRoot(mux *http.ServeMux, diagnoser port.StorageDiagnoser) {
	h := RootHandler{diagnoser}
	mux.HandleFunc("GET /{$}", h.GetRoot)
	mux.HandleFunc("GET /test", h.GetTest)
}

func (h RootHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	const op = "RootHandler.GetRoot"
	log := slog.With("op", op)

	writeJSON(w, log, http.StatusOK, Message{Message: "Shop API running"})
}

// GetTest always answers 200, store failures are reported in the body.
func (h RootHandler) GetTest(w http.ResponseWriter, r *http.Request) {
	const op = "RootHandler.GetTest"
	log := slog.With("op", op)

	status, err := h.diagnoser.DiagnoseStorage(r.Context())

	d := Diagnostic{
		Backend:          "running",
		Database:         "connected",
		DatabaseName:     status.DatabaseName,
		ConnectionStatus: "Connected",
		Collections:      status.Collections,
	}
	if status.Driver != "" {
		d.Database = status.Driver + " connected"
	}
	if err != nil {
		log.Warn("storage diagnostic failed", "err", err)
		d.Database = "error: " + truncate(err.Error(), 50)
		d.ConnectionStatus = "Not Connected"
	}
	if d.Collections == nil {
		d.Collections = []string{}
	}

	writeJSON(w, log, http.StatusOK, d)
}

// GET /products?q=&category=

type ProductsHandler struct {
	lister port.ProductsLister
}

func RegisterProducts(mux *http.ServeMux, lister port.ProductsLister) {
	h := ProductsHandler{lister}
	mux.HandleFunc("GET /products", h.GetProducts)
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	query := domain.ProductQuery{
		Text:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}

	ps, err := h.lister.ListProducts(r.Context(), query)
	if err != nil {
		writeError(w, log, err)
		return
	}

	res := make([]Product, len(ps))
	for i, p := range ps {
		res[i] = productFromDomain(p)
	}
	writeJSON(w, log, http.StatusOK, res)
}

// POST /checkout JSON (response 201 Created, 400 Bad request, 404 Not found, 409 Conflict)

type CheckoutHandler struct {
	checkouter port.Checkouter
}

func RegisterCheckout(mux *http.ServeMux, checkouter port.Checkouter) {
	h := CheckoutHandler{checkouter}
	mux.HandleFunc("POST /checkout", h.PostCheckout)
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	log := slog.With("op", op)

	var req CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	receipt, err := h.checkouter.Checkout(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, CheckoutResponse{
		OrderID: receipt.OrderID,
		Total:   receipt.Total,
	})
	log.Info("order placed", "orderID", receipt.OrderID, "nItems", len(req.Items))
}

// POST /admin/products JSON (response 201 Created, 400 Bad request)
// PATCH /admin/products/{id} JSON (response 200 OK, 400 Bad request, 404 Not found)
// GET /admin/orders
// GET /admin/sales/{id} (response 200 OK, 400 Bad request, 503 Service unavailable)

type AdminHandler struct {
	products port.ProductsAdministrator
	orders   port.OrdersLister
	sales    port.ProductSalesReader
}

func RegisterAdmin(
	mux *http.ServeMux,
	products port.ProductsAdministrator,
	orders port.OrdersLister,
	sales port.ProductSalesReader,
) {
	h := AdminHandler{products, orders, sales}
	mux.HandleFunc("POST /admin/products", h.PostProduct)
	mux.HandleFunc("PATCH /admin/products/{id}", h.PatchProduct)
	mux.HandleFunc("GET /admin/orders", h.GetOrders)
	mux.HandleFunc("GET /admin/sales/{id}", h.GetSales)
}

func (h AdminHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PostProduct"
	log := slog.With("op", op)

	var req ProductCreate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if req.Price == nil {
		writeError(w, log, domain.ValidationErr("price is required"))
		return
	}

	id, err := h.products.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, CreatedResponse{ID: id})
	log.Info("product created", "productID", id)
}

func (h AdminHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PatchProduct"
	log := slog.With("op", op)

	id := r.PathValue("id")

	var req ProductUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.products.UpdateProduct(r.Context(), id, req.toDomain()); err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, UpdatedResponse{Updated: true})
	log.Info("product updated", "productID", id)
}

func (h AdminHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.GetOrders"
	log := slog.With("op", op)

	list, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	res := make([]Order, len(list))
	for i, o := range list {
		res[i] = orderFromDomain(o)
	}
	writeJSON(w, log, http.StatusOK, res)
}

func (h AdminHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.GetSales"
	log := slog.With("op", op)

	stats, err := h.sales.ReadProductSales(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, ProductSales{
		ProductID: stats.ProductID,
		UnitsSold: stats.UnitsSold,
		Revenue:   stats.Revenue,
		Orders:    stats.Orders,
	})
}

// decodeJSON reads a single JSON object and rejects unknown fields.
// Decoding failures are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ValidationErr("request body is empty")
		}
		return domain.ValidationErr("invalid JSON data: %s", err)
	}
	if dec.More() {
		return domain.ValidationErr("invalid JSON data: trailing data")
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(r[:n]))
}
