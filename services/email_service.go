package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sinemagic_server/lib"
	"sinemagic_server/structs"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var orderEmailTemplate = template.Must(template.New("order").Parse(`<h2>Новый заказ {{.Reference}}</h2>
<p><b>{{.Order.CustomerName}}</b>, {{.Order.CustomerPhone}}</p>
<p>{{.Order.Address}}</p>
{{if .Order.Comment}}<p><i>{{.Order.Comment}}</i></p>{{end}}
<table>
{{range .Order.Items}}<tr><td>{{.ProductName}}{{if .Color}} ({{.Color}}){{end}}</td><td>{{.Quantity}} × {{.Price}} ₽</td></tr>
{{end}}</table>
<p>Итого: <b>{{printf "%.2f" .Order.Total}} ₽</b></p>`))

// EmailService notifies the shop owner about new orders through Resend.
// Sending is best effort and never blocks the order.
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.EmailConfig
	client *resend.Client
	wg     sync.WaitGroup
}

func NewEmailService(logger *gecho.Logger, cfg *structs.EmailConfig) *EmailService {
	es := &EmailService{logger: logger, cfg: cfg}
	if cfg.ApiKey != "" {
		es.client = resend.NewClient(cfg.ApiKey)
	}
	return es
}

// Enabled reports whether order notifications can be sent.
func (es *EmailService) Enabled() bool {
	return es.client != nil && es.cfg.ShopEmail != ""
}

func (es *EmailService) SendEmail(to []string, subject, body string) error {
	if es.client == nil {
		return fmt.Errorf("email client not configured")
	}
	params := &resend.SendEmailRequest{
		From:    es.cfg.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}
	if _, err := es.client.Emails.Send(params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}
	return nil
}

func renderOrderEmail(order structs.Order) (string, error) {
	var buf bytes.Buffer
	err := orderEmailTemplate.Execute(&buf, map[string]any{
		"Reference": lib.OrderReference(order.ID),
		"Order":     order,
	})
	return buf.String(), err
}

// OrderPlaced sends the order summary to the shop address in the
// background.
func (es *EmailService) OrderPlaced(_ context.Context, order structs.Order) {
	if !es.Enabled() {
		return
	}

	es.wg.Add(1)
	go func() {
		defer es.wg.Done()

		body, err := renderOrderEmail(order)
		if err != nil {
			es.logger.Error("Failed to render order email", gecho.Field("error", err))
			return
		}
		subject := fmt.Sprintf("Новый заказ %s", lib.OrderReference(order.ID))
		if err := es.SendEmail([]string{es.cfg.ShopEmail}, subject, body); err == nil {
			es.logger.Info("Order notification sent", gecho.Field("order_id", order.ID))
		}
	}()
}

// Wait blocks until pending notifications finish or timeout passes.
func (es *EmailService) Wait(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		es.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
