package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	CategoryIncome = "Ingreso"
	CategoryOther  = "Otros"
)

// incomeKeywords are checked before any expense category.
var incomeKeywords = []string{"cobro", "pago recibido", "transferencia recibida", "depósito", "deposito"}

type categoryRule struct {
	name     string
	keywords []string
}

// categoryRules is evaluated in order; the first keyword hit wins. Food
// delivery sits ahead of transport so "uber eats" is not read as "uber".
var categoryRules = []categoryRule{
	{"alimentos", []string{"supermercado", "restaurante", "delivery", "pedidos ya", "rappi", "uber eats", "glovo"}},
	{"transporte", []string{"uber", "cabify", "taxi", "subte", "colectivo", "tren", "estacionamiento"}},
	{"servicios", []string{"edenor", "metrogas", "telecom", "claro", "movistar", "personal", "fibertel", "telecentro"}},
	{"entretenimiento", []string{"netflix", "spotify", "disney", "amazon prime", "cine", "teatro", "concierto"}},
	{"compras", []string{"amazon", "mercadolibre", "garbarino", "fravega", "musimundo", "tienda"}},
	{"salud", []string{"farmacia", "médico", "medico", "odontólogo", "odontologo", "hospital", "obra social"}},
	{"educación", []string{"universidad", "curso", "libro", "udemy", "coursera"}},
	{"hogar", []string{"easy", "home center", "decoration", "muebles"}},
}

var categoryCaser = cases.Title(language.Spanish)

// Classify assigns a category from the description, falling back to the sign
// of the amount when nothing matches.
func Classify(description string, signedAmount decimal.Decimal) string {
	desc := strings.ToLower(description)

	for _, kw := range incomeKeywords {
		if strings.Contains(desc, kw) {
			return CategoryIncome
		}
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return categoryCaser.String(rule.name)
			}
		}
	}

	if signedAmount.IsPositive() {
		return CategoryIncome
	}
	return CategoryOther
}

// Ledger routing categories.
const (
	LedgerIncome    = "Ingresos"
	LedgerPurchases = "Compras"
	LedgerYields    = "Rendimientos"
	LedgerWithdraw  = "Retiros"
	LedgerTransfers = "Transferencias"
)

type ledgerRoute struct {
	category string
	markers  []string
}

var ledgerRoutes = []ledgerRoute{
	{LedgerIncome, []string{"transferencia recibida", "dinero recibido", "ingreso de dinero", "payment_received", "money_in"}},
	{LedgerYields, []string{"rendimiento", "yield", "interest"}},
	{LedgerWithdraw, []string{"retiro", "extracción", "withdrawal", "cash_out"}},
	{LedgerTransfers, []string{"transferencia enviada", "dinero enviado", "money_transfer", "money_out"}},
	{LedgerPurchases, []string{"compra", "purchase", "pago con qr", "payment"}},
}

// ClassifyLedgerEntry routes an account-ledger entry by its title and type
// before falling back to Classify on the title.
func ClassifyLedgerEntry(title, entryType string, signedAmount decimal.Decimal) string {
	haystack := strings.ToLower(title + " " + entryType)
	for _, route := range ledgerRoutes {
		for _, m := range route.markers {
			if strings.Contains(haystack, m) {
				return route.category
			}
		}
	}
	return Classify(title, signedAmount)
}
