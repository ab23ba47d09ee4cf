// Package api - HTTP handler for the quote endpoints.
// The handler wraps the calculation engine; it contains no cost logic
// itself. All math is delegated to core packages.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"landed-cost/core/calc"
	"landed-cost/core/cascade"
	"landed-cost/core/discount"
	"landed-cost/core/display"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Catalog is the product lookup the calculation endpoint needs.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*types.Product, error)
}

// Calculator produces real-time breakdowns.
type Calculator interface {
	Calculate(p *types.Product, req calc.Request) (*calc.Calculation, error)
}

// Handler handles quote requests.
type Handler struct {
	catalog    Catalog
	calculator Calculator
}

// NewHandler creates a handler over its collaborators.
func NewHandler(catalog Catalog, calculator Calculator) *Handler {
	return &Handler{
		catalog:    catalog,
		calculator: calculator,
	}
}

// HandleCalculate handles POST /calculate-logistics-costs. Failures are
// reported inside the envelope with success:false, matching what the
// storefront client expects; transport-level codes are reserved for
// malformed requests.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, calc.Envelope{Success: false, Error: "invalid request body"}, http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, calc.Envelope{Success: false, Error: errorMessage(err)}, http.StatusBadRequest)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsType(err, errors.TypeNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, calc.Envelope{Success: false, Error: errorMessage(err)}, status)
		return
	}

	calculation, err := h.calculator.Calculate(product, req)
	if err != nil {
		writeJSON(w, calc.Envelope{Success: false, Error: errorMessage(err)}, http.StatusInternalServerError)
		return
	}

	writeJSON(w, calc.Envelope{Success: true, Calculation: calculation}, http.StatusOK)
}

// HandleQuote handles POST /quote: the locally computed cascade over
// explicit inputs, with the display projection alongside.
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	start := time.Now()

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, requestID, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	if req.PriceUnit < 0 {
		writeError(w, requestID, "VALIDATION_ERROR", "price_unit must not be negative", http.StatusBadRequest)
		return
	}
	if req.Quantity < 0 {
		writeError(w, requestID, "VALIDATION_ERROR", "quantity must not be negative", http.StatusBadRequest)
		return
	}

	inputs := req.CascadeInputs()
	breakdown := cascade.Compute(
		decFromFloat(req.PriceUnit),
		req.Quantity,
		req.DiscountTable(),
		inputs,
	)

	writeJSON(w, QuoteResponse{
		RequestID:     requestID,
		Timestamp:     time.Now().UTC(),
		Breakdown:     breakdownWire(breakdown),
		DisplayValues: display.FromCascade(breakdown, inputs),
		DurationMs:    time.Since(start).Milliseconds(),
	}, http.StatusOK)
}

// HandleProductQuote handles GET /products/{id}/quote: the cascade over the
// product's precomputed fields, as shown on the product detail page. The
// quantity defaults to the product's minimum order quantity.
func (h *Handler) HandleProductQuote(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	start := time.Now()

	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsType(err, errors.TypeNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, requestID, "CATALOG_ERROR", errorMessage(err), status)
		return
	}

	quantity := product.MOQ
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		quantity, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || quantity < 0 {
			writeError(w, requestID, "VALIDATION_ERROR", "quantity must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	inputs := cascade.InputsFromProduct(product)
	breakdown := cascade.Compute(product.PriceUnit, quantity, discount.TableFromProduct(product), inputs)

	writeJSON(w, QuoteResponse{
		RequestID:     requestID,
		Timestamp:     time.Now().UTC(),
		Breakdown:     breakdownWire(breakdown),
		DisplayValues: display.FromCascade(breakdown, inputs),
		DurationMs:    time.Since(start).Milliseconds(),
	}, http.StatusOK)
}

// errorMessage keeps domain messages and hides internal ones.
func errorMessage(err error) string {
	if e, ok := err.(*errors.Error); ok {
		return e.Message
	}
	return "calculation failed"
}
