// Package testutil provides seeded fixtures for tests and examples.
package testutil

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"github.com/hupe1980/gowergo/dataset"
	"github.com/hupe1980/gowergo/schema"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{rand: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Pick returns a random element of choices.
func (r *RNG) Pick(choices []string) string {
	return choices[r.Intn(len(choices))]
}

// AccountSchema returns the clustering schema used by fixtures: product
// group and payment method as nominal attributes, contract length as an
// ordinal, monthly price and tenure as numerics.
func AccountSchema() *schema.Schema {
	s, err := schema.New(
		schema.Attribute{Name: "product_group", Kind: schema.KindNominal, Levels: []string{"basic", "plus", "premium"}},
		schema.Attribute{Name: "payment_method", Kind: schema.KindNominal, Levels: []string{"card", "invoice", "debit"}},
		schema.Attribute{Name: "contract_length", Kind: schema.KindOrdinal, Levels: []string{"monthly", "yearly", "two_year"}},
		schema.Attribute{Name: "monthly_price", Kind: schema.KindNumeric},
		schema.Attribute{Name: "tenure_months", Kind: schema.KindNumeric},
	)
	if err != nil {
		panic(fmt.Errorf("testutil: invalid account schema: %w", err))
	}
	return s
}

// Accounts generates a synthetic subscription table with n rows. Rows split
// into two deliberately separated populations (cheap basic accounts on
// cards, expensive premium accounts on invoices) so clustering fixtures have
// structure to find.
func (r *RNG) Accounts(n int) *dataset.Table {
	ids := make([]string, n)
	status := make([]string, n)
	product := make([]string, n)
	payment := make([]string, n)
	contract := make([]string, n)
	price := make([]string, n)
	tenure := make([]string, n)
	reason := make([]string, n)

	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("acct-%04d", i)

		if i%2 == 0 {
			product[i] = "basic"
			payment[i] = "card"
			contract[i] = "monthly"
			price[i] = strconv.FormatFloat(5+r.Float64()*5, 'f', 2, 64)
		} else {
			product[i] = "premium"
			payment[i] = "invoice"
			contract[i] = "two_year"
			price[i] = strconv.FormatFloat(40+r.Float64()*10, 'f', 2, 64)
		}
		tenure[i] = strconv.Itoa(1 + r.Intn(48))

		if r.Float64() < 0.3 {
			status[i] = "Cancelled"
			reason[i] = r.Pick([]string{"price", "competitor", "failed_payment"})
		} else {
			status[i] = "Active"
			reason[i] = ""
		}
	}

	t, err := dataset.New(
		dataset.Column{Name: "account_id", Values: ids},
		dataset.Column{Name: "status", Values: status},
		dataset.Column{Name: "product_group", Values: product},
		dataset.Column{Name: "payment_method", Values: payment},
		dataset.Column{Name: "contract_length", Values: contract},
		dataset.Column{Name: "monthly_price", Values: price},
		dataset.Column{Name: "tenure_months", Values: tenure},
		dataset.Column{Name: "cancellation_reason", Values: reason},
	)
	if err != nil {
		panic(fmt.Errorf("testutil: invalid account table: %w", err))
	}
	return t
}
