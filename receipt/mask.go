package receipt

import "strings"

// MaskEmail keeps the first 3 characters and everything from one character
// before the "@" onward: "samuel@gmail.com" -> "sam******l@gmail.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 || len(email) < 4 {
		return email
	}
	return email[:3] + "******" + email[at-1:]
}

// MaskCPF keeps the first 3 and last 2 digits: "12345678901" -> "123*******01".
func MaskCPF(cpf string) string {
	if len(cpf) < 5 {
		return cpf
	}
	return cpf[:3] + "*******" + cpf[len(cpf)-2:]
}
