package registration

import (
	"errors"
	"strings"
	"time"
)

const (
	minAgeYears = 5
	maxAgeYears = 120
)

// ValidateCPF accepts any string that contains exactly 11 digits once
// formatting is stripped. The checksum check exists as CPFChecksumValid but is
// deliberately not enforced here; see DESIGN.md before tightening this.
func ValidateCPF(cpf string) bool {
	return len(stripNonDigits(cpf)) == 11
}

// CPFChecksumValid runs the full CPF validation: repeated-digit rejection plus
// both check digits. Not wired into ValidateCPF.
func CPFChecksumValid(cpf string) bool {
	clean := stripNonDigits(cpf)
	if len(clean) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < len(clean); i++ {
		if clean[i] != clean[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	digit := func(i int) int { return int(clean[i] - '0') }

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digit(i) * (10 - i)
	}
	check := 11 - (sum % 11)
	if check >= 10 {
		check = 0
	}
	if check != digit(9) {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += digit(i) * (11 - i)
	}
	check = 11 - (sum % 11)
	if check >= 10 {
		check = 0
	}
	return check == digit(10)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateBirthDate checks a dd/mm/yyyy date: calendar validity, not in the
// future, and an age between 5 and 120 years at validation time.
func ValidateBirthDate(date string) error {
	return validateBirthDateAt(date, time.Now())
}

func validateBirthDateAt(date string, now time.Time) error {
	if len(date) != 10 {
		return errors.New("Data incompleta")
	}

	parsed, err := time.ParseInLocation("02/01/2006", date, now.Location())
	if err != nil {
		// Covers out-of-range month/day and calendar-invalid dates like 31/02.
		return errors.New("Data inválida")
	}
	if parsed.Format("02/01/2006") != date {
		return errors.New("Data não existe")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.After(today) {
		return errors.New("Data não pode ser no futuro")
	}

	if parsed.After(today.AddDate(-minAgeYears, 0, 0)) {
		return errors.New("Idade mínima: 5 anos")
	}
	if parsed.Before(today.AddDate(-maxAgeYears, 0, 0)) {
		return errors.New("Data inválida")
	}

	return nil
}
