// Package identity holds the permission slugs that gate API access.
// Users and their credentials are managed by an external collaborator.
package identity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

// Permission slugs checked by the HTTP layer
const (
	PermInvoiceCreate         = "invoice.create"
	PermInvoiceView           = "invoice.view"
	PermStockCreate           = "stock.create"
	PermStockView             = "stock.view"
	PermStockReceive          = "stock.receive"
	PermSupplierBillCreate    = "supplier_bill.create"
	PermSupplierBillView      = "supplier_bill.view"
	PermSupplierBillDelete    = "supplier_bill.delete"
	PermSupplierPaymentCreate = "supplier_payment.create"
	PermSupplierPaymentUpdate = "supplier_payment.update"
	PermSupplierPaymentDelete = "supplier_payment.delete"
	PermSalaryCreate          = "salary.create"
	PermSalaryView            = "salary.view"
	PermSalaryPaymentCreate   = "salary_payment.create"
	PermSalaryPaymentUpdate   = "salary_payment.update"
	PermSalaryPaymentDelete   = "salary_payment.delete"
	PermPermissionAssign      = "permission.assign"
	PermPaymentProofUpload    = "payment_proof.upload"
)

var slugPattern = regexp.MustCompile(`^[a-z][a-z_]*\.[a-z][a-z_]*$`)

// NormalizeSlugs trims, lowercases, validates and de-duplicates slugs.
// The result is sorted.
func NormalizeSlugs(slugs []string) ([]string, error) {
	verr := shared.NewValidationError()
	seen := make(map[string]struct{}, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		s = strings.ToLower(strings.TrimSpace(s))
		if !slugPattern.MatchString(s) {
			verr.Add("permissions", "Invalid permission slug: "+s)
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// PermissionSet is the set of slugs granted to a user
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from slugs
func NewPermissionSet(slugs []string) PermissionSet {
	set := make(PermissionSet, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	return set
}

// Has reports whether the slug is granted
func (p PermissionSet) Has(slug string) bool {
	_, ok := p[slug]
	return ok
}
