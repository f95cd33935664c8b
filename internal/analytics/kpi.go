// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

// NumericStats summarizes a numeric field over the rows that yielded a valid
// value. HasColumn reports whether the field resolved to a column at all;
// Available is true only when the column exists and at least one row
// contributed. When Available is false Min, Max, Avg, and Sum are 0.
type NumericStats struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Avg       float64 `json:"avg"`
	Sum       float64 `json:"sum"`
	Count     int     `json:"count"`
	HasColumn bool    `json:"hasColumn"`
	Available bool    `json:"available"`
}

// numericAccumulator folds values into NumericStats.
type numericAccumulator struct {
	min, max, sum float64
	count         int
}

func (a *numericAccumulator) add(v float64) {
	if a.count == 0 || v < a.min {
		a.min = v
	}
	if a.count == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.count++
}

func (a *numericAccumulator) stats(hasColumn bool) NumericStats {
	s := NumericStats{HasColumn: hasColumn}
	if !hasColumn || a.count == 0 {
		return s
	}
	s.Min = a.min
	s.Max = a.max
	s.Sum = a.sum
	s.Count = a.count
	s.Avg = a.sum / float64(a.count)
	s.Available = true
	return s
}

// Counter is an additive count backed by an optional column.
type Counter struct {
	Total     float64 `json:"total"`
	Rows      int     `json:"rows"`
	HasColumn bool    `json:"hasColumn"`
}

// KPIBundle is the flat set of request metrics for a dataset.
type KPIBundle struct {
	TotalRequests int `json:"totalRequests"`

	ActiveRequests    int  `json:"activeRequests"`
	CancelledRequests int  `json:"cancelledRequests"`
	PendingRequests   int  `json:"pendingRequests"`
	HasStatusColumn   bool `json:"hasStatusColumn"`

	VerifiedRequests   int  `json:"verifiedRequests"`
	HasVerifiedColumn  bool `json:"hasVerifiedColumn"`
	CompletedRequests  int  `json:"completedRequests"`
	HasCompletedColumn bool `json:"hasCompletedColumn"`

	Offers             Counter `json:"offers"`
	RequestsWithOffers int     `json:"requestsWithOffers"`
	Views              Counter `json:"views"`

	PriceFrom  NumericStats `json:"priceFrom"`
	PriceTo    NumericStats `json:"priceTo"`
	PriceRange NumericStats `json:"priceRange"`
	Area       NumericStats `json:"area"`

	UniqueCustomers   int  `json:"uniqueCustomers"`
	HasCustomerColumn bool `json:"hasCustomerColumn"`
	UniqueCities      int  `json:"uniqueCities"`
	HasCityColumn     bool `json:"hasCityColumn"`

	// Columns records which sheet column each logical field resolved to.
	Columns map[string]string `json:"columns"`
}

// AggregateOption customizes Aggregate.
type AggregateOption func(*aggregateOptions)

type aggregateOptions struct {
	fields    RequestFieldSet
	vocab     *Vocabulary
	verified  TokenSet
	completed TokenSet
}

// WithRequestFields overrides the field catalog.
func WithRequestFields(fields RequestFieldSet) AggregateOption {
	return func(o *aggregateOptions) { o.fields = fields }
}

// WithVocabulary overrides the status vocabulary.
func WithVocabulary(v *Vocabulary) AggregateOption {
	return func(o *aggregateOptions) {
		if v != nil {
			o.vocab = v
		}
	}
}

// WithFlagTokens overrides the verified and completed token sets.
func WithFlagTokens(verified, completed TokenSet) AggregateOption {
	return func(o *aggregateOptions) {
		o.verified = verified
		o.completed = completed
	}
}

// Aggregate folds rows into a KPIBundle in a single pass. Every metric is
// evaluated independently per row; a row missing one field still contributes
// to the others.
func Aggregate(rows Rows, opts ...AggregateOption) KPIBundle {
	o := aggregateOptions{
		fields:    RequestFields,
		vocab:     DefaultStatusVocabulary,
		verified:  VerifiedTokens,
		completed: CompletedTokens,
	}
	for _, opt := range opts {
		opt(&o)
	}

	f := o.fields
	n := NewNormalizer(rows, f.All()...)

	kpi := KPIBundle{
		TotalRequests:      len(rows),
		HasStatusColumn:    n.Has(f.Status.Name),
		HasVerifiedColumn:  n.Has(f.Verified.Name),
		HasCompletedColumn: n.Has(f.Completed.Name),
		HasCustomerColumn:  n.Has(f.CustomerID.Name),
		HasCityColumn:      n.Has(f.City.Name),
		Columns:            n.Columns(),
	}
	kpi.Offers.HasColumn = n.Has(f.Offers.Name)
	kpi.Views.HasColumn = n.Has(f.Views.Name)

	var priceFrom, priceTo, priceRange, area numericAccumulator
	customers := make(map[string]struct{})
	cities := make(map[string]struct{})

	for _, row := range rows {
		switch o.vocab.Classify(n.String(row, f.Status.Name)) {
		case StatusActive:
			kpi.ActiveRequests++
		case StatusCancelled:
			kpi.CancelledRequests++
		case StatusPending:
			kpi.PendingRequests++
		}

		if o.verified.Match(n.String(row, f.Verified.Name)) {
			kpi.VerifiedRequests++
		}
		if o.completed.Match(n.String(row, f.Completed.Name)) {
			kpi.CompletedRequests++
		}

		if v, ok := n.Number(row, f.Offers.Name); ok {
			kpi.Offers.Total += v
			kpi.Offers.Rows++
			if v > 0 {
				kpi.RequestsWithOffers++
			}
		}
		if v, ok := n.Number(row, f.Views.Name); ok {
			kpi.Views.Total += v
			kpi.Views.Rows++
		}

		from, fromOK := positive(n.Number(row, f.PriceFrom.Name))
		to, toOK := positive(n.Number(row, f.PriceTo.Name))
		if fromOK {
			priceFrom.add(from)
		}
		if toOK {
			priceTo.add(to)
		}
		if fromOK && toOK && to >= from {
			priceRange.add(to - from)
		}

		if v, ok := positive(n.Number(row, f.Area.Name)); ok {
			area.add(v)
		}

		if id := n.String(row, f.CustomerID.Name); id != "" {
			customers[id] = struct{}{}
		}
		if city := n.String(row, f.City.Name); city != "" {
			cities[city] = struct{}{}
		}
	}

	hasPrices := n.Has(f.PriceFrom.Name) && n.Has(f.PriceTo.Name)
	kpi.PriceFrom = priceFrom.stats(n.Has(f.PriceFrom.Name))
	kpi.PriceTo = priceTo.stats(n.Has(f.PriceTo.Name))
	kpi.PriceRange = priceRange.stats(hasPrices)
	kpi.Area = area.stats(n.Has(f.Area.Name))
	kpi.UniqueCustomers = len(customers)
	kpi.UniqueCities = len(cities)
	return kpi
}

func positive(v float64, ok bool) (float64, bool) {
	return v, ok && v > 0
}
