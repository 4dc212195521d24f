package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/model"
)

// ErrInvalidRule is wrapped by every ValidationError.
var ErrInvalidRule = errors.New("invalid rule")

// FieldError is one problem with one rule field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError carries the field errors that stopped a rule from being
// saved.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "invalid rule: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRule }

// ValidateRule checks a rule before it is persisted. Errors make the rule
// unusable; warnings describe behavior the author may not expect.
func ValidateRule(rule model.CustomRule) (errs []FieldError, warnings []string) {
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(rule.Name) == "" {
		add("name", "is required")
	}

	if len(rule.Conditions) == 0 {
		add("conditions", "at least one condition is required")
	}
	for i, c := range rule.Conditions {
		field := fmt.Sprintf("conditions[%d]", i)
		switch c.Field {
		case model.FieldAmount:
			if c.MinAmount == nil && c.MaxAmount == nil {
				add(field, "amount condition needs a minimum or maximum")
			}
			if c.MinAmount != nil && c.MaxAmount != nil && c.MinAmount.GreaterThan(*c.MaxAmount) {
				add(field, "minimum %s exceeds maximum %s", c.MinAmount.StringFixed(2), c.MaxAmount.StringFixed(2))
			}
		case model.FieldDescription, model.FieldCategory:
			if c.Value == "" {
				add(field, "value is required")
			}
			switch c.MatchType {
			case model.MatchContains, model.MatchStartsWith, model.MatchEndsWith, model.MatchExact:
			case model.MatchRegex:
				if _, err := regexp.Compile("(?i)" + c.Value); err != nil {
					add(field, "invalid regular expression: %v", err)
				}
			default:
				add(field, "unknown match type %q", c.MatchType)
			}
		default:
			add(field, "unknown field %q", c.Field)
		}
	}

	switch rule.ConditionLogic {
	case "", model.LogicAll, model.LogicAny:
	default:
		add("conditionLogic", "must be %s or %s", model.LogicAll, model.LogicAny)
	}

	switch a := rule.Action.(type) {
	case nil:
		add("action", "is required")
	case model.CategorizeAction:
		if strings.TrimSpace(a.Category) == "" {
			add("action.category", "is required")
		}
	case model.RenameAction:
		if strings.TrimSpace(a.NewName) == "" {
			add("action.newName", "is required")
		}
	case model.SplitAction:
		splitErrs, splitWarnings := validateSplits(a.Splits)
		errs = append(errs, splitErrs...)
		warnings = append(warnings, splitWarnings...)
	}
	return errs, warnings
}

func validateSplits(splits []model.SplitAllocation) (errs []FieldError, warnings []string) {
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	if len(splits) < 2 {
		add("action.splits", "a split needs at least 2 allocations")
	}

	pctSum := decimal.Zero
	remainders := 0
	for i, s := range splits {
		field := fmt.Sprintf("action.splits[%d]", i)
		if strings.TrimSpace(s.Category) == "" {
			add(field, "category is required")
		}
		switch {
		case s.Percentage != nil && s.FixedAmount != nil:
			add(field, "set either a percentage or a fixed amount, not both")
		case s.Percentage != nil:
			if s.Percentage.IsNegative() || s.Percentage.GreaterThan(hundred) {
				add(field, "percentage %s is outside 0-100", s.Percentage.String())
			}
			pctSum = pctSum.Add(*s.Percentage)
		case s.FixedAmount != nil:
			if s.FixedAmount.IsNegative() {
				add(field, "fixed amount %s is negative", s.FixedAmount.StringFixed(2))
			}
		default:
			remainders++
		}
	}

	if remainders > 1 {
		add("action.splits", "only one allocation may take the remainder")
	}
	if pctSum.GreaterThan(hundred) {
		add("action.splits", "percentages sum to %s%%, more than 100%%", pctSum.String())
	}
	if remainders == 0 && pctSum.IsPositive() && pctSum.LessThan(hundred) {
		warnings = append(warnings, fmt.Sprintf(
			"percentages sum to %s%%; the rest of each amount stays %s", pctSum.String(), model.CategoryUncategorized))
	}
	return errs, warnings
}

// Check returns a *ValidationError when rule has field errors.
func Check(rule model.CustomRule) error {
	if errs, _ := ValidateRule(rule); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
