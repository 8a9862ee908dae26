package tools

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// =====================
// Envio de email (SMTP)
// =====================
//
// ENV esperadas:
// - SMTP_HOST  (vazio desabilita o envio real; o conteúdo vai para o log)
// - SMTP_PORT  (ex: 587)
// - SMTP_USER
// - SMTP_PASS
// - SMTP_FROM  (ex: "Dunar <nao-responda@dunar.com.br>")

// SendEmail envia um email simples em texto. Sem SMTP_HOST configurado o
// envio é simulado via log (modo dev), sem erro.
func SendEmail(to, subject, body string) error {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if host == "" {
		log.Printf("[EMAIL] (dev) to=%s subject=%q body=%q", to, subject, body)
		return nil
	}

	port := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	if port == "" {
		port = "587"
	}
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := strings.TrimSpace(os.Getenv("SMTP_FROM"))
	if from == "" {
		from = user
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body)

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}

	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendSMS registra a notificação por SMS. A integração com o provedor
// (Twilio/SNS) ainda não existe; o conteúdo vai para o log.
func SendSMS(to, message string) error {
	// TODO: integrar provedor de SMS quando contratado.
	log.Printf("[SMS] (dev) to=%s message=%q", to, message)
	return nil
}
