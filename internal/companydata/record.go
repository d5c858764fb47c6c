// Package companydata parses stored company blobs and slices them to a candidate's employment periods.
package companydata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/db"
	"github.com/jonathan/talent-profiler/internal/types"
)

// Source is the batch-by-name company lookup the joiner depends on.
type Source interface {
	GetCompaniesByNames(ctx context.Context, names []string) ([]db.Company, error)
}

// Lookup fetches and parses the companies matching names. A company whose blob
// is not valid JSON is kept with only its name so it still counts as matched.
func Lookup(ctx context.Context, src Source, names []string, logger *zap.Logger) ([]types.CompanyRecord, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rows, err := src.GetCompaniesByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("company lookup failed: %w", err)
	}

	records := make([]types.CompanyRecord, 0, len(rows))
	for _, row := range rows {
		record, err := ParseRecord(row.ID, row.Name, row.Data)
		if err != nil {
			logger.Warn("ignoring malformed company data",
				zap.Int64("company_id", row.ID),
				zap.String("company", row.Name),
				zap.Error(err),
			)
		}
		records = append(records, record)
	}

	logger.Debug("company lookup complete",
		zap.Int("requested", len(names)),
		zap.Int("found", len(records)),
	)
	return records, nil
}

// ParseRecord reads the attributes the profiler uses out of a company data blob:
// mae, investment.totalInvestmentAmount, investment.data[].{level,announcedAt},
// organization.data[].{value,growRate,referenceMonth} and products[].name.
// Entries whose date cannot be parsed are kept with a nil date.
func ParseRecord(id int64, name string, blob []byte) (types.CompanyRecord, error) {
	record := types.CompanyRecord{ID: id, Name: name}

	if len(blob) == 0 || string(blob) == "null" {
		return record, nil
	}
	if !gjson.ValidBytes(blob) {
		return record, fmt.Errorf("invalid JSON for company %q", name)
	}
	data := gjson.ParseBytes(blob)

	if mae := data.Get("mae"); mae.Exists() {
		record.Capital = mae.Value()
	}

	if total := data.Get("investment.totalInvestmentAmount"); total.Exists() {
		record.TotalInvestmentAmount = total.Value()
	}
	data.Get("investment.data").ForEach(func(_, inv gjson.Result) bool {
		record.Investments = append(record.Investments, types.InvestmentEntry{
			Level:       inv.Get("level").String(),
			AnnouncedAt: parseAnnouncedAt(inv.Get("announcedAt")),
		})
		return true
	})

	data.Get("organization.data").ForEach(func(_, org gjson.Result) bool {
		entry := types.HeadcountEntry{
			Value:          org.Get("value").Int(),
			ReferenceMonth: org.Get("referenceMonth").String(),
		}
		if rate := org.Get("growRate"); rate.Type == gjson.Number {
			v := rate.Float()
			entry.GrowRate = &v
		}
		if t, err := time.Parse("2006-01", strings.TrimSpace(entry.ReferenceMonth)); err == nil {
			entry.Date = &t
		}
		record.Headcounts = append(record.Headcounts, entry)
		return true
	})

	data.Get("products").ForEach(func(_, p gjson.Result) bool {
		product := p.String()
		if p.IsObject() {
			product = p.Get("name").String()
		}
		if product != "" {
			record.Products = append(record.Products, product)
		}
		return true
	})

	return record, nil
}

// parseAnnouncedAt accepts either {"value": "2021-03-15T00:00:00"} or a bare date string.
func parseAnnouncedAt(r gjson.Result) *time.Time {
	if r.IsObject() {
		r = r.Get("value")
	}
	raw := strings.TrimSpace(r.String())
	if raw == "" {
		return nil
	}
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		raw = raw[:i]
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
