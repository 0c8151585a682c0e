package presenter

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// Row is one labelled line of the breakdown
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Total bool   `json:"total,omitempty"`
}

// MethodQuota is one side of the method comparison
type MethodQuota struct {
	Method     domain.Method `json:"method"`
	Label      string        `json:"label"`
	Quota      string        `json:"quota"`
	Favourable bool          `json:"favourable"`
}

// TownHall points the taxpayer to the municipality
type TownHall struct {
	Label   string `json:"label"`
	URL     string `json:"url,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Breakdown is the human-readable rendering of a calculation
type Breakdown struct {
	Title       string        `json:"title"`
	Amount      string        `json:"amount,omitempty"`
	Message     string        `json:"message,omitempty"`
	Method      string        `json:"method,omitempty"`
	Rows        []Row         `json:"rows,omitempty"`
	Comparison  []MethodQuota `json:"comparison,omitempty"`
	Notice      string        `json:"notice,omitempty"`
	DueDate     string        `json:"due_date,omitempty"`
	TownHall    *TownHall     `json:"town_hall,omitempty"`
	Calculation string        `json:"calculation_id"`
}

var methodNames = map[domain.Method]struct{ short, long string }{
	domain.MethodObjective: {short: "M. Objetivo", long: "Método Objetivo"},
	domain.MethodReal:      {short: "M. Real", long: "Método Real"},
}

// Presenter renders calculations with Spanish labels and es-ES number formatting
type Presenter struct {
	printer *message.Printer
}

// New creates a Presenter for Spain
func New() *Presenter {
	return &Presenter{printer: message.NewPrinter(language.MustParse("es-ES"))}
}

// Money formats an amount as "1.234,56 €"
func (p *Presenter) Money(amount decimal.Decimal) string {
	return formatDecimal(amount, 2, false) + " €"
}

// Percent formats a percentage without trailing zeros, e.g. "30%" or "33,33%"
func (p *Presenter) Percent(pct decimal.Decimal) string {
	return formatDecimal(pct, 2, true) + "%"
}

// formatDecimal renders d in es-ES notation straight from its digits, so the
// text always agrees with the stored amount. Rounding is half away from zero.
// Integer parts of four digits or fewer are not grouped ("2550", "12.500").
func formatDecimal(d decimal.Decimal, places int32, trimZeros bool) string {
	digits := d.StringFixed(places)

	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	intPart, fraction, _ := strings.Cut(digits, ".")
	if trimZeros {
		fraction = strings.TrimRight(fraction, "0")
	}

	var b strings.Builder
	if negative && strings.Trim(intPart+fraction, "0") != "" {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart))
	if fraction != "" {
		b.WriteByte(',')
		b.WriteString(fraction)
	}
	return b.String()
}

func groupThousands(intPart string) string {
	if len(intPart) <= 4 {
		return intPart
	}

	var b strings.Builder
	head := len(intPart) % 3
	if head > 0 {
		b.WriteString(intPart[:head])
	}
	for i := head; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String()
}

// Present builds the breakdown of calc. cfg supplies the town-hall details
// and the filing periods.
func (p *Presenter) Present(calc *domain.Calculation, cfg *domain.MunicipalityConfig) *Breakdown {
	b := &Breakdown{Calculation: calc.ID.String()}
	if cfg != nil {
		b.TownHall = &TownHall{
			Label:   "Información del Ayuntamiento de " + cfg.Name,
			URL:     cfg.TownHallURL,
			Address: cfg.TownHallAddress,
			Phone:   cfg.TownHallPhone,
		}
	}

	switch calc.Outcome.Kind {
	case domain.OutcomeNoTaxDue:
		b.Title = "No se devenga el impuesto"
		b.Message = noTaxDueMessage(calc.Outcome.Reason)
		return b
	case domain.OutcomeCalculationError:
		b.Title = "No se pudo calcular"
		b.Message = "No se pudo calcular. Revisa los datos introducidos."
		return b
	}

	result := calc.Outcome.Result
	b.Title = "Resultado del cálculo"
	b.Amount = p.Money(result.QuotaFinal)
	b.Method = methodNames[result.ChosenMethod].long
	b.Comparison = p.comparison(result)
	b.Rows = p.rows(result)

	if calc.Deadline != nil {
		b.Notice = p.deadlineNotice(calc.Deadline)
		b.DueDate = calc.Deadline.DueDate.Format("02/01/2006")
	}

	return b
}

func (p *Presenter) comparison(result *domain.FinalResult) []MethodQuota {
	if !result.Objective.Taxable() || !result.Real.Taxable() {
		return nil
	}

	quotas := make([]MethodQuota, 0, 2)
	for _, r := range []*domain.MethodResult{result.Objective, result.Real} {
		quotas = append(quotas, MethodQuota{
			Method:     r.Method,
			Label:      methodNames[r.Method].short,
			Quota:      p.Money(r.Quota),
			Favourable: r.Method == result.ChosenMethod,
		})
	}
	return quotas
}

func (p *Presenter) rows(result *domain.FinalResult) []Row {
	chosen := result.Chosen()
	var rows []Row

	if result.ChosenMethod == domain.MethodObjective {
		rows = append(rows,
			Row{Label: "Valor catastral del suelo", Value: p.Money(chosen.LandCadastralValue)},
			Row{Label: "Años transcurridos", Value: p.printer.Sprintf("%d", chosen.Years)},
			Row{Label: "Coeficiente aplicable", Value: formatDecimal(chosen.Coefficient, 4, true)},
			Row{Label: "Base imponible", Value: p.Money(chosen.Base)},
		)
	} else {
		rows = append(rows, Row{Label: "Incremento de valor", Value: p.Money(chosen.Increase)})
		if chosen.LandProportion.LessThan(decimal.NewFromInt(100)) {
			rows = append(rows, Row{Label: "Proporción suelo", Value: p.Percent(chosen.LandProportion)})
		}
		rows = append(rows, Row{Label: "Base imponible", Value: p.Money(chosen.Base)})
	}

	rows = append(rows, Row{Label: "Tipo impositivo", Value: p.Percent(chosen.TaxRate)})

	if result.RebatePercent.GreaterThan(decimal.Zero) {
		rows = append(rows,
			Row{Label: "Cuota antes de bonificación", Value: p.Money(result.QuotaBeforeRebate)},
			Row{Label: "Bonificación aplicada", Value: p.Percent(result.RebatePercent)},
		)
	}

	return append(rows, Row{Label: "Cuota a pagar", Value: p.Money(result.QuotaFinal), Total: true})
}

func noTaxDueMessage(reason string) string {
	switch reason {
	case domain.ReasonUnderOneYear:
		return "No se ha completado un año desde la adquisición. No se devenga el impuesto."
	case domain.ReasonNoIncrease:
		return "No existe incremento de valor. Según la legislación vigente, no se genera plusvalía municipal y no hay obligación de pago."
	default:
		return reason
	}
}

func (p *Presenter) deadlineNotice(d *domain.FilingDeadline) string {
	if d.Unit == domain.DeadlineUnitMonths {
		return p.printer.Sprintf("Dispone de %d meses desde el fallecimiento para presentar la autoliquidación.", d.Amount)
	}
	return p.printer.Sprintf("Dispone de %d días hábiles desde la transmisión para presentar la autoliquidación.", d.Amount)
}
