package masks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	assert.Equal(t, "", Phone(""))
	assert.Equal(t, "(1", Phone("1"))
	assert.Equal(t, "(11", Phone("11"))
	assert.Equal(t, "(11) 987", Phone("11987"))
	assert.Equal(t, "(11) 3456-789", Phone("113456789"))
	assert.Equal(t, "(11) 3456-7890", Phone("1134567890"))
	assert.Equal(t, "(11) 98765-4321", Phone("11987654321"))
}

func TestPhone_JunkInputIsStripped(t *testing.T) {
	inputs := []string{
		"abc11x98765--4321zz",
		"(11) 98765-4321",
		"+55 (11) 98765-4321 ext",
		"!!!@@@",
	}
	for _, in := range inputs {
		out := Phone(in)
		digits := 0
		for _, r := range out {
			switch {
			case r >= '0' && r <= '9':
				digits++
			case r == '(' || r == ')' || r == ' ' || r == '-':
			default:
				t.Fatalf("Phone(%q) produced unexpected rune %q in %q", in, r, out)
			}
		}
		assert.LessOrEqual(t, digits, 11, "Phone(%q)", in)
	}
}

func TestPhone_TruncatesBeyondElevenDigits(t *testing.T) {
	assert.Equal(t, "(11) 98765-4321", Phone("119876543219999"))
}

func TestCPF(t *testing.T) {
	assert.Equal(t, "123", CPF("123"))
	assert.Equal(t, "123.456", CPF("123456"))
	assert.Equal(t, "123.456.789", CPF("123456789"))
	assert.Equal(t, "123.456.789-00", CPF("12345678900"))
	assert.Equal(t, "123.456.789-00", CPF("123456789009999"))
}

func TestCNPJ(t *testing.T) {
	assert.Equal(t, "12", CNPJ("12"))
	assert.Equal(t, "12.345", CNPJ("12345"))
	assert.Equal(t, "12.345.678", CNPJ("12345678"))
	assert.Equal(t, "12.345.678/9012", CNPJ("123456789012"))
	assert.Equal(t, "12.345.678/9012-34", CNPJ("12345678901234"))
}

func TestDocumentMasks_Idempotent(t *testing.T) {
	cases := []struct {
		name string
		f    func(string) string
		in   string
	}{
		{"cpf", CPF, "12345678900"},
		{"cpf partial", CPF, "12345"},
		{"cnpj", CNPJ, "12345678901234"},
		{"cnpj partial", CNPJ, "1234567"},
		{"phone", Phone, "11987654321"},
		{"account", Account, "123456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			once := tc.f(tc.in)
			twice := tc.f(once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestDocument_SwitchesMaskWithPersonType(t *testing.T) {
	raw := "12345678901234"
	assert.Equal(t, "123.456.789-01", Document("fisica", raw))
	assert.Equal(t, "12.345.678/9012-34", Document("juridica", raw))
	// Re-derive from an already CPF-masked value.
	assert.Equal(t, "12.345.678/900", Document("juridica", "123.456.789-00"))
}

func TestBranch(t *testing.T) {
	assert.Equal(t, "1234", Branch("12345"))
	assert.Equal(t, "12", Branch("1a2b"))
}

func TestAccount(t *testing.T) {
	assert.Equal(t, "12345", Account("12345"))
	assert.Equal(t, "12345-6", Account("123456"))
	assert.Equal(t, "12345-6", Account("12345-6"))
}
