package manifest

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/model"
)

// ValidationError is a single problem found in a manifest.
type ValidationError struct {
	// Field is the path of the offending value, e.g. "containers[2].load".
	Field string

	// Message describes what's wrong with the value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is every problem found in one manifest. It matches
// model.ErrInvalidArgument.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("manifest has %d problem(s): %s", len(v), strings.Join(msgs, "; "))
}

func (v ValidationErrors) Unwrap() error { return model.ErrInvalidArgument }

// Validate checks the manifest as a whole and returns every problem it
// finds (empty list = valid manifest).
//
// Checks performed:
//   - Vessels: valid limits, names unique regardless of case
//   - Containers: known kind, valid weights, kind-specific fields only on
//     their own kind, refrigerated block present for refrigerated kind
//   - Loads: non-negative and within the container's own limit
//   - Boarding: the named vessel is declared, and the declared boarders of
//     each vessel fit its count and weight limits
func Validate(m *Manifest) []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	fold := cases.Fold()
	type budget struct {
		name    string
		count   int
		maxCnt  int
		weight  float64
		limitKg float64
	}
	vessels := make(map[string]*budget, len(m.Vessels))
	var order []string

	for i, spec := range m.Vessels {
		field := fmt.Sprintf("vessels[%d]", i)
		if err := spec.Validate(); err != nil {
			add(field, "%s", strings.TrimPrefix(err.Error(), model.ErrInvalidArgument.Error()+": "))
			continue
		}
		k := fold.String(strings.TrimSpace(spec.Name))
		if _, dup := vessels[k]; dup {
			add(field+".name", "duplicate vessel name %q", spec.Name)
			continue
		}
		vessels[k] = &budget{name: spec.Name, maxCnt: spec.MaxContainerCount, limitKg: spec.MaxTotalWeight * 1000}
		order = append(order, k)
	}

	for i, c := range m.Containers {
		field := fmt.Sprintf("containers[%d]", i)
		kind, err := model.ParseKind(c.Kind)
		if err != nil {
			add(field+".kind", "unknown container kind %q", c.Kind)
			continue
		}
		p, _ := c.Params()
		if err := p.Validate(); err != nil {
			add(field, "%s", strings.TrimPrefix(err.Error(), model.ErrInvalidArgument.Error()+": "))
			continue
		}

		if c.Hazardous && kind != model.KindLiquid {
			add(field+".hazardous", "only liquid containers can be marked hazardous")
		}
		if c.Pressure != 0 && kind != model.KindGas {
			add(field+".pressure", "only gas containers have a pressure")
		}
		switch {
		case kind == model.KindRefrigerated && c.Refrigerated == nil:
			add(field+".refrigerated", "refrigerated containers need a product and temperatures")
		case kind != model.KindRefrigerated && c.Refrigerated != nil:
			add(field+".refrigerated", "only refrigerated containers take a refrigerated block")
		}

		if math.IsNaN(c.Load) || c.Load < 0 {
			add(field+".load", "load must be non-negative, got %g", c.Load)
			continue
		}
		if limit := cargo.LimitFor(kind, c.MaxLoad, c.Hazardous); c.Load > limit {
			add(field+".load", "load %g kg exceeds the container limit of %g kg", c.Load, limit)
		}
		// Boarding a vessel loads the container even at zero weight.
		loaded := c.Load > 0 || c.Vessel != ""
		if r := c.Refrigerated; r != nil && loaded && r.ContainerTemperature < r.RequiredTemperature {
			add(field+".refrigerated.containerTemperature",
				"%g°C is below the %g°C required for %s", r.ContainerTemperature, r.RequiredTemperature, r.ProductType)
		}

		if c.Vessel == "" {
			continue
		}
		b, ok := vessels[fold.String(strings.TrimSpace(c.Vessel))]
		if !ok {
			add(field+".vessel", "vessel %q is not declared", c.Vessel)
			continue
		}
		b.count++
		b.weight += c.TareWeight + c.Load
	}

	for _, k := range order {
		b := vessels[k]
		if b.count > b.maxCnt {
			add("vessels", "vessel %s is assigned %d containers but carries at most %d", b.name, b.count, b.maxCnt)
		}
		if b.weight > b.limitKg {
			add("vessels", "vessel %s is assigned %g kg but carries at most %g kg", b.name, b.weight, b.limitKg)
		}
	}

	return errs
}
