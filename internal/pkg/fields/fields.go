// Package fields maps record field identifiers to display labels and
// formatters. The catalogs are exhaustive per record type; an unknown key is a
// programming error surfaced by the ok return, not a silent fallback.
package fields

import (
	"fmt"
	"strings"

	"credops-backend/internal/pkg/masks"

	"credops-backend/internal/models"
)

// Field is the display contract for one record field.
type Field struct {
	Label  string
	Format func(v interface{}) string
}

// Operation returns the field catalog for operation records. Client-facing
// labels follow the person-type discriminator (client vs company wording).
func Operation(personType string) map[string]Field {
	fisica := personType != models.PersonJuridica
	who := func(f, j string) string {
		if fisica {
			return f
		}
		return j
	}
	return map[string]Field{
		"number":      {Label: "Número da Operação", Format: asString},
		"status":      {Label: "Status", Format: statusLabel},
		"person_type": {Label: "Tipo de Pessoa", Format: personTypeLabel},
		"client_name": {Label: who("Nome do Cliente", "Nome da Empresa"), Format: asString},
		"client_email": {
			Label:  who("Email do Cliente", "Email da Empresa"),
			Format: asString,
		},
		"client_phone": {
			Label:  who("Telefone do Cliente", "Telefone da Empresa"),
			Format: func(v interface{}) string { return masks.Phone(asString(v)) },
		},
		"client_address": {
			Label:  who("Endereço do Cliente", "Endereço da Empresa"),
			Format: asString,
		},
		"client_document": {
			Label:  who("CPF", "CNPJ"),
			Format: func(v interface{}) string { return masks.Document(personType, asString(v)) },
		},
		"client_salary":         {Label: "Renda/Faturamento", Format: Currency},
		"profession":            {Label: "Profissão", Format: asString},
		"professional_activity": {Label: "Atividade Profissional", Format: asString},
		"property_type":         {Label: "Tipo de Imóvel", Format: asString},
		"property_value":        {Label: "Valor do Imóvel", Format: Currency},
		"property_location":     {Label: "Localização do Imóvel", Format: asString},
		"desired_value":         {Label: "Valor Pretendido", Format: Currency},
		"income_proof":          {Label: "Comprovação de Renda", Format: asString},
		"credit_defense":        {Label: "Defesa de Crédito", Format: asString},
		"documents":             {Label: "Documentos", Format: documentCount},
	}
}

// Partner returns the field catalog for partner records.
func Partner(documentType string) map[string]Field {
	docLabel := "CPF"
	docFormat := masks.CPF
	if documentType == models.DocumentCNPJ {
		docLabel = "CNPJ"
		docFormat = masks.CNPJ
	}
	return map[string]Field{
		"full_name":     {Label: "Nome Completo", Format: asString},
		"document_type": {Label: "Tipo de Documento", Format: upper},
		"document":      {Label: docLabel, Format: func(v interface{}) string { return docFormat(asString(v)) }},
		"email":         {Label: "Email", Format: asString},
		"phone":         {Label: "Telefone", Format: func(v interface{}) string { return masks.Phone(asString(v)) }},
		"address":       {Label: "Endereço", Format: asString},
		"bank":          {Label: "Banco", Format: asString},
		"branch":        {Label: "Agência", Format: asString},
		"account":       {Label: "Conta", Format: func(v interface{}) string { return masks.Account(asString(v)) }},
		"account_type":  {Label: "Tipo de Conta", Format: accountTypeLabel},
		"pix_key":       {Label: "Chave PIX", Format: asString},
		"notes":         {Label: "Observações", Format: asString},
	}
}

// Currency renders a value as BRL with pt-BR separators, e.g. R$ 1.234,56.
func Currency(v interface{}) string {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return asString(v)
	}
	neg := f < 0
	if neg {
		f = -f
	}
	cents := int64(f*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := fmt.Sprintf("R$ %s,%02d", strings.Join(groups, "."), frac)
	if neg {
		return "-" + out
	}
	return out
}

func statusLabel(v interface{}) string {
	switch asString(v) {
	case models.StatusInProgress:
		return "Em andamento"
	case models.StatusUnderReview:
		return "Em análise"
	case models.StatusApproved:
		return "Aprovada"
	case models.StatusDeclined:
		return "Declinada"
	}
	return asString(v)
}

func personTypeLabel(v interface{}) string {
	if asString(v) == models.PersonJuridica {
		return "Jurídica"
	}
	return "Física"
}

func accountTypeLabel(v interface{}) string {
	if asString(v) == models.AccountPoupanca {
		return "Poupança"
	}
	return "Corrente"
}

func documentCount(v interface{}) string {
	if docs, ok := v.([]string); ok {
		if len(docs) == 1 {
			return "1 documento"
		}
		return fmt.Sprintf("%d documentos", len(docs))
	}
	return asString(v)
}

func upper(v interface{}) string {
	return strings.ToUpper(asString(v))
}

func asString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
