// Package masks holds the input masks applied while typing into the intake
// and partner forms. Every mask strips non-digits first, so re-applying a
// mask to already-masked input is idempotent.
package masks

import (
	"strings"

	"credops-backend/internal/models"
)

// Digits strips every non-digit character. Masked values are stored in this
// form; masks are display-only.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone formats up to 11 digits as (DD) DDDDD-DDDD, or the 10-digit landline
// variant (DD) DDDD-DDDD. Partial input is masked as far as it goes.
func Phone(s string) string {
	n := Digits(s)
	switch {
	case len(n) == 0:
		return ""
	case len(n) <= 2:
		return "(" + n
	case len(n) <= 6:
		return "(" + n[:2] + ") " + n[2:]
	case len(n) <= 10:
		return "(" + n[:2] + ") " + n[2:6] + "-" + n[6:]
	default:
		return "(" + n[:2] + ") " + n[2:7] + "-" + n[7:min(len(n), 11)]
	}
}

// CPF formats up to 11 digits as DDD.DDD.DDD-DD.
func CPF(s string) string {
	n := Digits(s)
	switch {
	case len(n) <= 3:
		return n
	case len(n) <= 6:
		return n[:3] + "." + n[3:]
	case len(n) <= 9:
		return n[:3] + "." + n[3:6] + "." + n[6:]
	default:
		return n[:3] + "." + n[3:6] + "." + n[6:9] + "-" + n[9:min(len(n), 11)]
	}
}

// CNPJ formats up to 14 digits as DD.DDD.DDD/DDDD-DD.
func CNPJ(s string) string {
	n := Digits(s)
	switch {
	case len(n) <= 2:
		return n
	case len(n) <= 5:
		return n[:2] + "." + n[2:]
	case len(n) <= 8:
		return n[:2] + "." + n[2:5] + "." + n[5:]
	case len(n) <= 12:
		return n[:2] + "." + n[2:5] + "." + n[5:8] + "/" + n[8:]
	default:
		return n[:2] + "." + n[2:5] + "." + n[5:8] + "/" + n[8:12] + "-" + n[12:min(len(n), 14)]
	}
}

// Branch keeps up to 4 bank branch digits, no separators.
func Branch(s string) string {
	n := Digits(s)
	if len(n) > 4 {
		return n[:4]
	}
	return n
}

// Account inserts a literal hyphen before the last digit once the account
// number passes five digits.
func Account(s string) string {
	n := Digits(s)
	if len(n) <= 5 {
		return n
	}
	return n[:len(n)-1] + "-" + n[len(n)-1:]
}

// Document picks the tax-document mask from the person-type discriminator, so
// switching the discriminator re-derives the mask from the raw digits.
func Document(personType, s string) string {
	if personType == models.PersonJuridica {
		return CNPJ(s)
	}
	return CPF(s)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
