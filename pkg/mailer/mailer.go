package mailer

import (
	"cmms-system/pkg/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message — письмо для отправки. Body в текстовом виде.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer — почтовый шлюз. Реализации не должны паниковать и обязаны
// возвращать ошибку вместо ретраев: политика повторов лежит на вызывающем.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer отправляет письма через SMTP (gomail).
type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		sender: cfg.Sender,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(msg Message) error {
	if len(msg.To) == 0 {
		m.logger.Warn("Письмо без получателей, отправка пропущена", zap.String("subject", msg.Subject))
		return nil
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.sender)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return err
	}

	m.logger.Info("Письмо отправлено",
		zap.String("subject", msg.Subject),
		zap.Int("recipients", len(msg.To)),
	)
	return nil
}

// NopMailer используется, когда отправка почты выключена в конфигурации.
// Пишет письмо в лог и всегда возвращает nil.
type NopMailer struct {
	logger *zap.Logger
}

func NewNopMailer(logger *zap.Logger) *NopMailer {
	return &NopMailer{logger: logger}
}

func (m *NopMailer) Send(msg Message) error {
	m.logger.Info("Почта отключена, письмо не отправлено",
		zap.String("subject", msg.Subject),
		zap.Strings("to", msg.To),
	)
	return nil
}
