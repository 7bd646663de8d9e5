package collection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/apperrors"
)

// The renderer accepts a fixed, enumerated set of placeholders mapped to
// typed values. Unknown placeholders are rejected when the rule is saved, not
// silently left in the outgoing message.
const (
	PlaceholderName    = "nome"
	PlaceholderAmount  = "valor"
	PlaceholderDueDate = "vencimento"
	PlaceholderDays    = "dias_atraso"
)

var knownPlaceholders = map[string]struct{}{
	PlaceholderName:    {},
	PlaceholderAmount:  {},
	PlaceholderDueDate: {},
	PlaceholderDays:    {},
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_]+)\s*\}\}`)

// TemplateData are the typed values a rule template may reference.
type TemplateData struct {
	FirstName string
	Amount    decimal.Decimal
	DueDate   time.Time
	DaysLate  int
}

// ValidateTemplate rejects templates referencing unknown placeholders. Runs
// at rule-save time so bad templates never reach a dispatch batch.
func ValidateTemplate(tmpl string) error {
	for _, match := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if _, ok := knownPlaceholders[match[1]]; !ok {
			return apperrors.NewTemplateInvalidError(fmt.Sprintf("unknown placeholder: %s", match[1]))
		}
	}
	return nil
}

// RenderTemplate substitutes every placeholder with its formatted value.
func RenderTemplate(tmpl string, data TemplateData) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		switch key {
		case PlaceholderName:
			return data.FirstName
		case PlaceholderAmount:
			return FormatMoney(data.Amount)
		case PlaceholderDueDate:
			return data.DueDate.Format("02/01/2006")
		case PlaceholderDays:
			return strconv.Itoa(data.DaysLate)
		default:
			return match
		}
	})
}

// FormatMoney renders an amount in Brazilian convention: R$ 1.234,56.
func FormatMoney(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, b.String(), fracPart)
}
