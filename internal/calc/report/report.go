// Package report renders calculator results as PDF proposals. It formats only;
// every figure comes from the engines.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"Caldera/internal/calc/bundle"
	"Caldera/internal/calc/finance"
	"Caldera/internal/calc/savings"
)

type Header struct {
	Title    string `json:"title"`
	Project  string `json:"project"`
	Customer string `json:"customer"`
	Author   string `json:"author"`
	Notes    string `json:"notes"`
	// Lang picks number formatting, e.g. "en" or "es". Defaults to English.
	Lang string `json:"lang"`
}

// doc wraps a page with the translator and number printer for its language.
type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	p   *message.Printer
}

func newDoc(h Header, fallbackTitle string, now time.Time) *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(h.Title, true)
	pdf.SetAuthor(h.Author, true)
	d := &doc{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		p:   newPrinter(h.Lang),
	}
	title := h.Title
	if title == "" {
		title = fallbackTitle
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.tr(title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range [][2]string{
		{"Project", h.Project},
		{"Customer", h.Customer},
		{"Prepared by", h.Author},
		{"Date", now.Format("2006-01-02")},
	} {
		if line[1] == "" {
			continue
		}
		pdf.Cell(0, 6, d.tr(fmt.Sprintf("%s: %s", line[0], line[1])))
		pdf.Ln(6)
	}
	pdf.Ln(4)
	return d
}

func newPrinter(lang string) *message.Printer {
	return message.NewPrinter(Language(lang))
}

// Language falls back to English for empty or unparsable tags.
func Language(tag string) language.Tag {
	if tag == "" {
		return language.English
	}
	t, err := language.Parse(tag)
	if err != nil {
		return language.English
	}
	return t
}

func (d *doc) section(title string) {
	d.pdf.Ln(2)
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.Cell(0, 8, d.tr(title))
	d.pdf.Ln(8)
	d.pdf.SetFont("Helvetica", "", 10)
}

func (d *doc) row(label, value string) {
	d.pdf.CellFormat(90, 6, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.CellFormat(0, 6, d.tr(value), "", 1, "R", false, 0, "")
}

func (d *doc) compare(label, a, b string) {
	d.pdf.CellFormat(80, 6, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.CellFormat(55, 6, d.tr(a), "", 0, "R", false, 0, "")
	d.pdf.CellFormat(0, 6, d.tr(b), "", 1, "R", false, 0, "")
}

func (d *doc) num(v float64, decimals int) string {
	return d.p.Sprint(number.Decimal(v, number.Scale(decimals)))
}

func (d *doc) money(symbol string, v float64) string {
	if v < 0 {
		return "-" + symbol + d.num(-v, 2)
	}
	return symbol + d.num(v, 2)
}

func (d *doc) notes(h Header) {
	if h.Notes == "" {
		return
	}
	d.section("Notes")
	d.pdf.MultiCell(0, 5, d.tr(h.Notes), "", "L", false)
}

func (d *doc) finish(w io.Writer) error {
	d.pdf.SetFont("Helvetica", "I", 8)
	d.pdf.Ln(6)
	d.pdf.MultiCell(0, 4, d.tr("Figures are estimates based on the stated inputs and catalog prices at fixed exchange rates."), "", "L", false)
	return d.pdf.Output(w)
}

// Sizing writes a single-system proposal. Failed results are refused.
func Sizing(w io.Writer, h Header, res savings.Result, now time.Time) error {
	if res.Failed() {
		return fmt.Errorf("report: sizing result carries error %q", res.ErrorCode)
	}
	d := newDoc(h, "Heat Pump Proposal", now)
	fin := res.Financials
	sym := fin.CurrencySymbol

	d.section("Selected equipment")
	d.row("Model", res.System.Equipment.Name)
	d.row("Refrigerant", res.System.Equipment.Refrigerant)
	d.row("Required capacity (kW)", d.num(res.System.RequiredKW, 2))
	d.row("Derated capacity (kW)", d.num(res.System.AdjustedKW, 2))
	d.row("COP", d.num(res.System.COP, 2))
	d.row("Recovery (L/h)", d.num(res.System.RecoveryLph, 0))

	d.section("Demand")
	d.row("Daily hot water (L)", d.num(res.Metrics.DailyLiters, 0))
	d.row("Temperature rise (°C)", d.num(res.Metrics.DeltaT, 1))
	d.row("Thermal load (kWh/day)", d.num(res.Metrics.ThermalLoadKWh, 2))
	d.row("Peak draw (L/h)", d.num(res.Metrics.PeakDrawLph, 0))
	d.row("Buffer tank (L)", d.num(res.Tank.RecommendedL, 0))

	d.section("Financials")
	d.row("Current heating cost per day", d.money(sym, fin.BaselineDailyCost))
	d.row("Heat pump cost per day", d.money(sym, fin.HeatPumpDailyCost))
	d.row("Annual savings", d.money(sym, fin.AnnualSavings))
	d.row("Total investment", d.money(sym, fin.TotalCost))
	if fin.PaybackViable {
		d.row("Payback (years)", d.num(fin.PaybackYears, 1))
	} else {
		d.row("Payback", "not viable")
	}

	d.section("Emissions")
	d.row("Avoided CO2 (kg/year)", d.num(res.Emissions.AvoidedKgPerYear, 0))

	if e := res.Enterprise; e != nil {
		d.section("Enterprise evaluation")
		d.row("NPV", d.money(sym, e.NPV))
		switch {
		case e.IRRDetermined:
			d.row("IRR", d.num(e.IRR*100, 1)+"%")
		case e.IRRAboveRange:
			d.row("IRR", "> "+d.num(finance.IRRCeiling*100, 0)+"%")
		default:
			d.row("IRR", "n/a")
		}
		d.row("Shared-value score", d.num(e.CSVScore, 1))
		d.pdf.MultiCell(0, 5, d.tr(e.Recommendation), "", "L", false)
	}
	d.notes(h)
	return d.finish(w)
}

// Bundle writes the solar-only versus heat pump bundle comparison.
func Bundle(w io.Writer, h Header, a bundle.Analysis, now time.Time) error {
	if a.Failed() {
		return fmt.Errorf("report: bundle analysis carries error %q", a.ErrorCode)
	}
	d := newDoc(h, "Solar and Heat Pump Bundle", now)
	sym := a.CurrencySymbol

	d.section("Scenarios")
	d.compare("", "A: solar only", "B: heat pump + solar")
	d.compare("Water heating load (kW)", d.num(a.A.WaterHeatingKW, 2), d.num(a.B.WaterHeatingKW, 2))
	d.compare("Inverter", a.A.Inverter.Name, a.B.Inverter.Name)
	d.compare("Panels", d.num(float64(a.A.Panels), 0), d.num(float64(a.B.Panels), 0))
	d.compare("CAPEX", d.money(sym, a.A.CAPEX), d.money(sym, a.B.CAPEX))
	d.compare("Monthly payment", d.money(sym, a.A.MonthlyPayment), d.money(sym, a.B.MonthlyPayment))
	d.compare("Monthly grid cost", d.money(sym, a.A.MonthlyGridCost), d.money(sym, a.B.MonthlyGridCost))
	d.compare("Total monthly cost", d.money(sym, a.A.TotalMonthlyCost), d.money(sym, a.B.TotalMonthlyCost))

	d.section("Advantage of the bundle")
	d.row("Panels saved", d.num(float64(a.PanelsSaved), 0))
	d.row("Upfront savings", d.money(sym, a.UpfrontSavings))
	d.row("Monthly advantage", d.money(sym, a.MonthlyAdvantage))
	d.row(fmt.Sprintf("Benefit over %d years", a.BenefitYears), d.money(sym, a.MultiYearBenefit))

	if p := a.Portfolio; p != nil {
		d.section("Portfolio projection")
		d.row("Fleet size", d.num(float64(p.FleetSize), 0))
		d.row("Pipeline value", d.money(sym, p.PipelineValue))
		d.row("Projected conversions", d.num(p.ProjectedConversions, 1))
		d.row("Incremental margin", d.money(sym, p.TotalIncrementalMargin))
	}
	d.notes(h)
	return d.finish(w)
}
