package mailer

import (
	"fmt"
	"io"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendStatement(toEmail string, month time.Time, filename string, pdf []byte) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		logger:      log,
	}
}

func (s *emailService) SendStatement(toEmail string, month time.Time, filename string, pdf []byte) error {
	m := newStatementMessage(s.senderEmail, toEmail, month, filename, pdf)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error(logger.ModuleLedger, "Failed to send statement", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info(logger.ModuleLedger, "Statement sent", map[string]interface{}{
		"to":    toEmail,
		"month": month.Format(constant.MonthLayout),
	})
	return nil
}

func newStatementMessage(from, to string, month time.Time, filename string, pdf []byte) *gomail.Message {
	label := month.Format(constant.DisplayMonth)

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Bank statement for %s", label))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Bank statement</h2>
			<p>Your statement for <strong>%s</strong> is attached.</p>
		</div>
	`, label)
	m.SetBody("text/html", body)

	m.Attach(filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)
	return m
}
