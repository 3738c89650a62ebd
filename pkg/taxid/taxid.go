// Package taxid valida CNPJ (14 dígitos) y CPF (11 dígitos) por sus dígitos verificadores
// módulo 11 (Receita Federal). Acepta entradas con o sin máscara.
package taxid

import (
	"fmt"
	"unicode"
)

// Kind tipo de documento detectado.
type Kind string

// Tipos de documento.
const (
	KindCNPJ Kind = "cnpj"
	KindCPF  Kind = "cpf"
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights1  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights2  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits devuelve solo los dígitos de s ("11.222.333/0001-81" → "11222333000181").
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// IsCNPJCandidate informa si la entrada tiene exactamente 14 dígitos (dispara el
// autocompletado contra el registro de empresas).
func IsCNPJCandidate(s string) bool {
	return len(Digits(s)) == 14
}

// Validate valida un CNPJ o CPF y devuelve sus dígitos normalizados y el tipo.
func Validate(s string) (string, Kind, error) {
	d := Digits(s)
	switch len(d) {
	case 14:
		return d, KindCNPJ, check(d, cnpjWeights1, cnpjWeights2)
	case 11:
		return d, KindCPF, check(d, cpfWeights1, cpfWeights2)
	default:
		return d, "", fmt.Errorf("taxid: se esperaban 11 (CPF) o 14 (CNPJ) dígitos, se encontraron %d", len(d))
	}
}

// Format aplica la máscara habitual (00.000.000/0000-00 o 000.000.000-00). Si la
// entrada no tiene 11 ni 14 dígitos se devuelve tal cual.
func Format(s string) string {
	d := Digits(s)
	switch len(d) {
	case 14:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	case 11:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	}
	return s
}

func check(d string, w1, w2 []int) error {
	if repeated(d) {
		return fmt.Errorf("taxid: secuencia repetida %s", d)
	}
	n := len(w1)
	first := verifier(d[:n], w1)
	second := verifier(d[:n]+string(first), w2)
	if d[n] != first || d[n+1] != second {
		return fmt.Errorf("taxid: dígitos verificadores inválidos: esperado %c%c, recibido %s", first, second, d[n:])
	}
	return nil
}

func verifier(base string, weights []int) byte {
	var sum int
	for i := range weights {
		sum += int(base[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + (11 - r))
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
