package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConditionField is the transaction field a condition inspects.
type ConditionField string

const (
	FieldDescription ConditionField = "description"
	FieldCategory    ConditionField = "category"
	FieldAmount      ConditionField = "amount"
)

// MatchType controls how a text condition compares against a field.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "startsWith"
	MatchEndsWith   MatchType = "endsWith"
	MatchExact      MatchType = "exact"
	MatchRegex      MatchType = "regex"
)

// ConditionLogic combines a rule's conditions.
type ConditionLogic string

const (
	LogicAll ConditionLogic = "ALL"
	LogicAny ConditionLogic = "ANY"
)

// Condition is one test in a rule. Text fields use MatchType/Value, the amount
// field uses MinAmount/MaxAmount where nil means unbounded.
type Condition struct {
	Field     ConditionField   `json:"field"`
	MatchType MatchType        `json:"matchType,omitempty"`
	Value     string           `json:"value,omitempty"`
	MinAmount *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount *decimal.Decimal `json:"maxAmount,omitempty"`
}

// ActionKind names an Action variant.
type ActionKind string

const (
	ActionCategorize ActionKind = "categorize"
	ActionRename     ActionKind = "rename"
	ActionSplit      ActionKind = "split"
)

// Action is one of CategorizeAction, RenameAction or SplitAction.
type Action interface {
	Kind() ActionKind
	isAction()
}

// CategorizeAction sets the category of matching transactions.
type CategorizeAction struct {
	Category string
}

// RenameAction replaces the description of matching transactions.
type RenameAction struct {
	NewName string
}

// SplitAction divides a matching transaction into categorized fragments.
type SplitAction struct {
	Splits []SplitAllocation
}

func (CategorizeAction) Kind() ActionKind { return ActionCategorize }
func (RenameAction) Kind() ActionKind     { return ActionRename }
func (SplitAction) Kind() ActionKind      { return ActionSplit }

func (CategorizeAction) isAction() {}
func (RenameAction) isAction()     {}
func (SplitAction) isAction()      {}

// SplitAllocation is one part of a split. At most one of Percentage and
// FixedAmount is set; an allocation with neither absorbs the remainder.
type SplitAllocation struct {
	Category    string           `json:"category"`
	Percentage  *decimal.Decimal `json:"percentage,omitempty"`
	FixedAmount *decimal.Decimal `json:"fixedAmount,omitempty"`
	Memo        string           `json:"memo,omitempty"`
}

// IsRemainder reports whether the allocation takes whatever is left.
func (a SplitAllocation) IsRemainder() bool {
	return a.Percentage == nil && a.FixedAmount == nil
}

// CustomRule is a user-authored transformation.
type CustomRule struct {
	ID             string
	Name           string
	Enabled        bool
	Priority       int // ascending: lower runs first
	Conditions     []Condition
	ConditionLogic ConditionLogic
	Action         Action
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type actionJSON struct {
	Type     ActionKind        `json:"type"`
	Category string            `json:"category,omitempty"`
	NewName  string            `json:"newName,omitempty"`
	Splits   []SplitAllocation `json:"splits,omitempty"`
}

type ruleJSON struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Enabled        bool           `json:"enabled"`
	Priority       int            `json:"priority"`
	Conditions     []Condition    `json:"conditions"`
	ConditionLogic ConditionLogic `json:"conditionLogic"`
	Action         *actionJSON    `json:"action"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// MarshalJSON encodes the action variant with a "type" discriminator.
func (r CustomRule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{
		ID:             r.ID,
		Name:           r.Name,
		Enabled:        r.Enabled,
		Priority:       r.Priority,
		Conditions:     r.Conditions,
		ConditionLogic: r.ConditionLogic,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	switch a := r.Action.(type) {
	case CategorizeAction:
		out.Action = &actionJSON{Type: ActionCategorize, Category: a.Category}
	case RenameAction:
		out.Action = &actionJSON{Type: ActionRename, NewName: a.NewName}
	case SplitAction:
		out.Action = &actionJSON{Type: ActionSplit, Splits: a.Splits}
	case nil:
	default:
		return nil, fmt.Errorf("unknown action type %T", r.Action)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the "type" discriminator into an Action variant.
func (r *CustomRule) UnmarshalJSON(data []byte) error {
	var in ruleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = CustomRule{
		ID:             in.ID,
		Name:           in.Name,
		Enabled:        in.Enabled,
		Priority:       in.Priority,
		Conditions:     in.Conditions,
		ConditionLogic: in.ConditionLogic,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}
	if in.Action == nil {
		return nil
	}
	switch in.Action.Type {
	case ActionCategorize:
		r.Action = CategorizeAction{Category: in.Action.Category}
	case ActionRename:
		r.Action = RenameAction{NewName: in.Action.NewName}
	case ActionSplit:
		r.Action = SplitAction{Splits: in.Action.Splits}
	default:
		return fmt.Errorf("unknown action type %q", in.Action.Type)
	}
	return nil
}
