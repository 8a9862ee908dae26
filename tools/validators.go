package tools

import (
	"regexp"
	"strings"
)

var plateCleanup = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizePlate deixa a placa em maiúsculas e remove tudo que não for
// alfanumérico. É idempotente: normalizar duas vezes dá o mesmo resultado.
func NormalizePlate(plate string) string {
	return plateCleanup.ReplaceAllString(strings.ToUpper(strings.TrimSpace(plate)), "")
}

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func CheckPassword(password string) string {
	if len(password) < 6 {
		return "password"
	}
	return ""
}
