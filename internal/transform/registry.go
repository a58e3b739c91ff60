package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters, for CLI use.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ProfileTransform, error)

// NewTransformRegistry creates a registry with every built-in transform.
// rs sizes the transforms that depend on the year's rules.
func NewTransformRegistry(rs *domain.RuleSet) *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("switch_regime", createSwitchRegime)
	registry.Register("set_expenses", createSetExpenses)
	registry.Register("set_per", createSetPER)
	registry.Register("max_per", func(map[string]string) (ProfileTransform, error) {
		return &MaxPERContribution{Rules: rs}, nil
	})
	registry.Register("add_deduction", createAddDeduction)
	registry.Register("shift_year", createShiftYear)
	registry.Register("add_child", func(params map[string]string) (ProfileTransform, error) {
		return createAddChild(rs, params)
	})
	registry.Register("scale_revenue", createScaleRevenue)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ProfileTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name" or "transform_name:param1=value1,param2=value2"
// Example: "set_expenses:amount=12000"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ProfileTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			key, value, ok := strings.Cut(paramPair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}

	return r.Create(name, params)
}

func requireParam(transform, key string, params map[string]string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(transform, key string, params map[string]string) (decimal.Decimal, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// Factory functions for each transform

func createSwitchRegime(params map[string]string) (ProfileTransform, error) {
	return &SwitchRegime{To: domain.Regime(params["to"])}, nil
}

func createSetExpenses(params map[string]string) (ProfileTransform, error) {
	amount, err := decimalParam("set_expenses", "amount", params)
	if err != nil {
		return nil, err
	}
	return &SetExpenses{Amount: amount}, nil
}

func createSetPER(params map[string]string) (ProfileTransform, error) {
	amount, err := decimalParam("set_per", "amount", params)
	if err != nil {
		return nil, err
	}
	return &SetPERContribution{Amount: amount}, nil
}

func createAddDeduction(params map[string]string) (ProfileTransform, error) {
	kind, err := requireParam("add_deduction", "type", params)
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam("add_deduction", "amount", params)
	if err != nil {
		return nil, err
	}
	return &AddDeduction{Type: domain.ReductionType(kind), Amount: amount}, nil
}

func createShiftYear(params map[string]string) (ProfileTransform, error) {
	years := 1
	if raw, ok := params["years"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid years value: %w", err)
		}
		years = n
	}
	return &ShiftYear{Years: years}, nil
}

func createAddChild(rs *domain.RuleSet, params map[string]string) (ProfileTransform, error) {
	young := false
	if raw, ok := params["young"]; ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid young value: %w", err)
		}
		young = b
	}
	return &AddChild{Rules: rs, Young: young}, nil
}

func createScaleRevenue(params map[string]string) (ProfileTransform, error) {
	factor, err := decimalParam("scale_revenue", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleRevenue{Factor: factor}, nil
}
