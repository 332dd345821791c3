package main

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/stitchworks/internal/money"
	"github.com/Simplici0/stitchworks/internal/ratecard"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"inr": money.FormatINR,
	"pct": money.Percent,
	"optionalINR": func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		return money.FormatINR(*d)
	},
}

type rateCardPrintViewData struct {
	Record  ratecard.Record
	Summary ratecard.Summary
}

func (s *server) handleRateCardPrint(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRateCard(w, r)
	if !ok {
		return
	}

	s.renderTemplate(w, "ratecard_print.html", rateCardPrintViewData{
		Record:  rec,
		Summary: ratecard.Summarize(rec),
	})
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(
		templateFS,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		log.Printf("parse template %s: %v", page, err)
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("render template %s: %v", page, err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}
