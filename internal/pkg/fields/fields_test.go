package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationCatalog_LabelsFollowPersonType(t *testing.T) {
	fisica := Operation("fisica")
	juridica := Operation("juridica")

	assert.Equal(t, "Nome do Cliente", fisica["client_name"].Label)
	assert.Equal(t, "Nome da Empresa", juridica["client_name"].Label)
	assert.Equal(t, "CPF", fisica["client_document"].Label)
	assert.Equal(t, "CNPJ", juridica["client_document"].Label)
}

func TestOperationCatalog_DocumentFormatFollowsPersonType(t *testing.T) {
	raw := "12345678900"
	assert.Equal(t, "123.456.789-00", Operation("fisica")["client_document"].Format(raw))
	assert.Equal(t, "12.345.678/900", Operation("juridica")["client_document"].Format(raw))
}

func TestOperationCatalog_IsExhaustive(t *testing.T) {
	catalog := Operation("fisica")
	for _, key := range []string{
		"number", "status", "person_type", "client_name", "client_email",
		"client_phone", "client_address", "client_document", "client_salary",
		"profession", "professional_activity", "property_type",
		"property_value", "property_location", "desired_value", "income_proof",
		"credit_defense", "documents",
	} {
		f, ok := catalog[key]
		require.True(t, ok, "missing field %s", key)
		require.NotNil(t, f.Format, "field %s has no formatter", key)
		require.NotEmpty(t, f.Label, "field %s has no label", key)
	}
}

func TestPartnerCatalog(t *testing.T) {
	cpf := Partner("cpf")
	cnpj := Partner("cnpj")
	assert.Equal(t, "CPF", cpf["document"].Label)
	assert.Equal(t, "CNPJ", cnpj["document"].Label)
	assert.Equal(t, "12345-6", cpf["account"].Format("123456"))
	assert.Equal(t, "Poupança", cpf["account_type"].Format("poupanca"))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "R$ 100.000,00", Currency(float64(100000)))
	assert.Equal(t, "R$ 1.234,56", Currency(1234.56))
	assert.Equal(t, "R$ 0,50", Currency(0.5))
	assert.Equal(t, "-R$ 12,00", Currency(float64(-12)))
}

func TestStatusLabels(t *testing.T) {
	f := Operation("fisica")["status"]
	assert.Equal(t, "Em andamento", f.Format("in_progress"))
	assert.Equal(t, "Em análise", f.Format("under_review"))
	assert.Equal(t, "Aprovada", f.Format("approved"))
	assert.Equal(t, "Declinada", f.Format("declined"))
}
