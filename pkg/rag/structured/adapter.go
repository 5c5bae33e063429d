package structured

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/pkg/rag/query"
	"ai-helpdesk-be/pkg/rag/scope"
)

// Adapter answers structured record questions with exact lookups and
// aggregates. It never does fuzzy matching: a name either resolves to a
// record key or the lookup is a miss.
type Adapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAdapter(uowFactory unitofwork.RepositoryFactory) *Adapter {
	return &Adapter{uowFactory: uowFactory}
}

// Result is a structured answer plus the record it came from (nil for
// aggregates, which cite no single record).
type Result struct {
	Answer  string
	Records []*entity.EmployeeRecord
}

// Lookup resolves a structured query. The scope check happens before any
// storage access: a denied caller learns nothing about the dataset, not even
// whether it is reachable.
func (a *Adapter) Lookup(ctx context.Context, scopes *scope.ScopeSet, analysis *query.Analysis) (*Result, error) {
	if !scopes.Contains(constant.ScopeHR) {
		return nil, &dto.ScopeDeniedError{Scope: constant.ScopeHR}
	}

	uow := a.uowFactory.NewUnitOfWork(ctx)

	if analysis.PersonName != "" {
		return a.lookupPerson(ctx, uow, analysis)
	}

	if analysis.IsAggregation {
		return a.aggregate(ctx, uow, analysis)
	}

	return nil, dto.ErrRecordNotFound
}

func (a *Adapter) lookupPerson(ctx context.Context, uow unitofwork.UnitOfWork, analysis *query.Analysis) (*Result, error) {
	record, err := uow.EmployeeRecordRepository().FindByRecordKey(
		ctx, constant.ScopeHR, NormalizeRecordKey(analysis.PersonName))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, dto.ErrRecordNotFound
	}

	field := requestedField(analysis.CleanQuery)
	if field != "" {
		if value, ok := record.Fields[field]; ok {
			return &Result{
				Answer: fmt.Sprintf("%s for **%s**: %s",
					fieldLabel(field), analysis.PersonName, formatValue(value)),
				Records: []*entity.EmployeeRecord{record},
			}, nil
		}
	}

	return &Result{
		Answer:  formatRecord(analysis.PersonName, record),
		Records: []*entity.EmployeeRecord{record},
	}, nil
}

func (a *Adapter) aggregate(ctx context.Context, uow unitofwork.UnitOfWork, analysis *query.Analysis) (*Result, error) {
	records, err := uow.EmployeeRecordRepository().FindAll(ctx,
		specification.ByScope{Scope: constant.ScopeHR})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, dto.ErrRecordNotFound
	}

	field := requestedField(analysis.CleanQuery)
	if field == "" {
		field = "salary"
	}

	values := collectNumeric(records, field)
	if len(values) == 0 {
		return nil, dto.ErrRecordNotFound
	}
	sort.Float64s(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	median := values[len(values)/2]
	if len(values)%2 == 0 {
		median = (values[len(values)/2-1] + values[len(values)/2]) / 2
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s across %d employees:\n\n", fieldLabel(field), len(records))
	fmt.Fprintf(&b, "- Average: %s\n", formatNumber(mean))
	fmt.Fprintf(&b, "- Median: %s\n", formatNumber(median))
	fmt.Fprintf(&b, "- Min: %s\n", formatNumber(values[0]))
	fmt.Fprintf(&b, "- Max: %s\n", formatNumber(values[len(values)-1]))

	return &Result{Answer: b.String()}, nil
}

// NormalizeRecordKey lowercases and collapses whitespace so "Priya  Sharma"
// and "priya sharma" hit the same row.
func NormalizeRecordKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// requestedField maps query wording to a record field name.
func requestedField(clean string) string {
	lower := strings.ToLower(clean)
	switch {
	case strings.Contains(lower, "salary"), strings.Contains(lower, "payroll"),
		strings.Contains(lower, "compensation"):
		return "salary"
	case strings.Contains(lower, "leave balance"):
		return "leave_balance"
	case strings.Contains(lower, "leaves taken"):
		return "leaves_taken"
	case strings.Contains(lower, "attendance"):
		return "attendance_pct"
	case strings.Contains(lower, "performance"), strings.Contains(lower, "rating"):
		return "performance_rating"
	}
	return ""
}

func fieldLabel(field string) string {
	switch field {
	case "salary":
		return "Salary"
	case "leave_balance":
		return "Leave balance"
	case "leaves_taken":
		return "Leaves taken"
	case "attendance_pct":
		return "Attendance"
	case "performance_rating":
		return "Performance rating"
	}
	return field
}

func formatRecord(name string, record *entity.EmployeeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Record for **%s**:\n\n", name)

	keys := make([]string, 0, len(record.Fields))
	for k := range record.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", fieldLabel(k), formatValue(record.Fields[k]))
	}
	return b.String()
}

func collectNumeric(records []*entity.EmployeeRecord, field string) []float64 {
	var values []float64
	for _, r := range records {
		raw, ok := r.Fields[field]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			values = append(values, v)
		case int:
			values = append(values, float64(v))
		}
	}
	return values
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return formatNumber(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
