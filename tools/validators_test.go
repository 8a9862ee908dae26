package tools

import "testing"

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abc-1234", "ABC1234"},
		{"ABC1234", "ABC1234"},
		{" abc 1d23 ", "ABC1D23"},
		{"a.b.c-1_2 3 4", "ABC1234"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		got := NormalizePlate(tc.in)
		if got != tc.want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", tc.in, got, tc.want)
		}
		// idempotente
		if again := NormalizePlate(got); again != got {
			t.Errorf("NormalizePlate não é idempotente: %q -> %q", got, again)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"maria@example.com", "joao.silva+praia@dunar.com.br"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false", email)
		}
	}
	invalid := []string{"", "maria", "maria@", "@example.com", "maria@example"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true", email)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	if got := CheckPassword("12345"); got != "password" {
		t.Errorf("CheckPassword curta = %q, want %q", got, "password")
	}
	if got := CheckPassword("123456"); got != "" {
		t.Errorf("CheckPassword válida = %q, want vazio", got)
	}
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("segredo1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("segredo1", hash) {
		t.Error("CheckPasswordHash recusou a senha correta")
	}
	if CheckPasswordHash("segredo2", hash) {
		t.Error("CheckPasswordHash aceitou senha errada")
	}
}

func TestRandomNumbers(t *testing.T) {
	code := RandomNumbers(6)
	if len(code) != 6 {
		t.Fatalf("len = %d, want 6", len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Errorf("caractere não numérico %q em %q", r, code)
		}
	}
}
