package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/stitchworks/internal/catalog"
	"github.com/Simplici0/stitchworks/internal/money"
	"github.com/Simplici0/stitchworks/internal/pricing"
	"github.com/Simplici0/stitchworks/internal/ratecard"
)

const (
	maxBodyBytes = 1 << 20
	// maxQuantity bounds a single quote; the breakdown holds one entry per bundle.
	maxQuantity = 100000
)

var hundred = decimal.NewFromInt(100)

type tierInput struct {
	MinQuantity any `json:"min_quantity"`
	Price       any `json:"price"`
}

type comboPriceRequest struct {
	Quantity        any         `json:"quantity"`
	BasePrice       any         `json:"base_price"`
	DiscountPercent any         `json:"discount_percent"`
	Tiers           []tierInput `json:"tiers"`
}

type productRequest struct {
	Name            string      `json:"name"`
	BasePrice       any         `json:"base_price"`
	DiscountPercent any         `json:"discount_percent"`
	Active          *bool       `json:"active"`
	Tiers           []tierInput `json:"tiers"`
}

type quoteResponse struct {
	Product  catalog.Product          `json:"product"`
	Quantity int                      `json:"quantity"`
	Result   pricing.ComboPriceResult `json:"result"`
}

type rateCardResponse struct {
	Record  ratecard.Record  `json:"record"`
	Summary ratecard.Summary `json:"summary"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleComboPrice(w http.ResponseWriter, r *http.Request) {
	var req comboPriceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	qty, err := quantity(req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tiers := make([]pricing.ComboTier, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		// Out-of-range sizes read as 0 and the tier is skipped.
		minQty, _ := money.CoerceInt(t.MinQuantity)
		tiers = append(tiers, pricing.ComboTier{
			MinQuantity: minQty,
			Price:       money.Coerce(t.Price),
		})
	}

	result := pricing.ComputeComboPrice(
		qty,
		money.Coerce(req.BasePrice),
		tiers,
		money.Coerce(req.DiscountPercent),
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleOperationsSummary(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	rec, err := ratecard.Decode(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	writeJSON(w, http.StatusOK, ratecard.Summarize(rec))
}

func (s *server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.List(r.Context())
	if err != nil {
		log.Printf("list products: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (s *server) handleProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	product, err := parseProductRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.products.Create(r.Context(), product)
	if err != nil {
		log.Printf("create product: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *server) handleProductGet(w http.ResponseWriter, r *http.Request) {
	product, ok := s.loadProduct(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (s *server) handleProductQuote(w http.ResponseWriter, r *http.Request) {
	product, ok := s.loadProduct(w, r)
	if !ok {
		return
	}

	qty, err := quantity(r.URL.Query().Get("qty"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Product:  product,
		Quantity: qty,
		Result:   catalog.Quote(product, qty),
	})
}

func (s *server) loadProduct(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return catalog.Product{}, false
	}

	product, err := s.products.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return catalog.Product{}, false
	}
	if err != nil {
		log.Printf("get product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return catalog.Product{}, false
	}
	return product, true
}

func (s *server) handleRateCardsList(w http.ResponseWriter, r *http.Request) {
	items, err := s.rateCards.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("list rate cards: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load rate cards")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleRateCardsCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	rec, err := ratecard.Decode(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := validateRateCard(rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.rateCards.Create(r.Context(), rec)
	if err != nil {
		log.Printf("create rate card: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create rate card")
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *server) handleRateCardGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRateCard(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, rateCardResponse{Record: rec, Summary: ratecard.Summarize(rec)})
}

func (s *server) loadRateCard(w http.ResponseWriter, r *http.Request) (ratecard.Record, bool) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rate card id")
		return ratecard.Record{}, false
	}

	rec, err := s.rateCards.Get(r.Context(), id)
	if errors.Is(err, ratecard.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return ratecard.Record{}, false
	}
	if err != nil {
		log.Printf("get rate card %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load rate card")
		return ratecard.Record{}, false
	}
	return rec, true
}

// quantity coerces raw like every other calculator input but refuses orders above maxQuantity.
func quantity(raw any) (int, error) {
	if money.Coerce(raw).GreaterThan(decimal.NewFromInt(maxQuantity)) {
		return 0, fmt.Errorf("quantity must be at most %d", maxQuantity)
	}
	qty, _ := money.CoerceInt(raw)
	return qty, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func parseProductRequest(req productRequest) (catalog.Product, error) {
	p := catalog.Product{
		Name:   strings.TrimSpace(req.Name),
		Active: req.Active == nil || *req.Active,
		Tiers:  make([]pricing.ComboTier, 0, len(req.Tiers)),
	}
	if p.Name == "" {
		return p, fmt.Errorf("name is required")
	}

	var err error
	if p.BasePrice, err = parsePositiveDecimal(req.BasePrice, "base_price"); err != nil {
		return p, err
	}
	if req.DiscountPercent != nil {
		if p.DiscountPercent, err = parsePercent(req.DiscountPercent, "discount_percent"); err != nil {
			return p, err
		}
	}

	for i, t := range req.Tiers {
		minQty, err := parsePositiveDecimal(t.MinQuantity, fmt.Sprintf("tiers[%d].min_quantity", i))
		if err != nil {
			return p, err
		}
		if !minQty.Equal(minQty.Truncate(0)) {
			return p, fmt.Errorf("tiers[%d].min_quantity must be a whole number", i)
		}
		if minQty.GreaterThan(decimal.NewFromInt(maxQuantity)) {
			return p, fmt.Errorf("tiers[%d].min_quantity must be at most %d", i, maxQuantity)
		}
		price, err := parseNonNegativeDecimal(t.Price, fmt.Sprintf("tiers[%d].price", i))
		if err != nil {
			return p, err
		}
		p.Tiers = append(p.Tiers, pricing.ComboTier{MinQuantity: int(minQty.IntPart()), Price: price})
	}

	return p, nil
}

func validateRateCard(rec ratecard.Record) error {
	if strings.TrimSpace(rec.StyleName) == "" {
		return fmt.Errorf("style_name is required")
	}
	if _, err := parseNonNegativeDecimal(rec.RatePerPiece, "rate_per_piece"); err != nil {
		return err
	}

	for i, op := range rec.Operations {
		if strings.TrimSpace(op.OperationName) == "" {
			return fmt.Errorf("operations[%d].operation_name is required", i)
		}
		if !isBlank(op.CommissionPercent) {
			if _, err := parsePercent(op.CommissionPercent, fmt.Sprintf("operations[%d].commission_percent", i)); err != nil {
				return err
			}
		}
		if !isBlank(op.RoundOff) {
			if _, ok := strictDecimal(op.RoundOff); !ok {
				return fmt.Errorf("operations[%d].round_off must be numeric", i)
			}
		}
		for j, c := range op.Categories {
			if _, err := parseNonNegativeDecimal(c.Rate, fmt.Sprintf("operations[%d].categories[%d].rate", i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseNonNegativeDecimal(raw any, field string) (decimal.Decimal, error) {
	value, ok := strictDecimal(raw)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s must be numeric", field)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be greater than or equal to 0", field)
	}
	return value, nil
}

func parsePercent(raw any, field string) (decimal.Decimal, error) {
	value, err := parseNonNegativeDecimal(raw, field)
	if err != nil {
		return decimal.Zero, err
	}
	if value.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("%s must be between 0 and 100", field)
	}
	return value, nil
}

func parsePositiveDecimal(raw any, field string) (decimal.Decimal, error) {
	value, ok := strictDecimal(raw)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s must be numeric", field)
	}
	if !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

// strictDecimal accepts only values that actually hold a number.
func strictDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	case float64:
		return money.Coerce(v), true
	}
	return decimal.Zero, false
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
