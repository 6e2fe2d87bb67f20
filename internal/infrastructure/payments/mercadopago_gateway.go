package payments

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"garage_billing/internal/usecase/interfaces"
	"garage_billing/internal/util"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"go.uber.org/zap"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// MercadoPagoGateway adapts the Mercado Pago SDK to IPaymentGateway.
//
// In mock mode (PAYMENT_GATEWAY_MOCK / MERCADOPAGO_MOCK) every charge is approved
// locally without touching the provider, which keeps local and CI environments
// independent of real credentials.
type MercadoPagoGateway struct {
	payments payment.Client
	refunds  refund.Client
	logger   *zap.Logger
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	logger := util.GetLogger()

	if isPaymentGatewayMockEnabled() {
		logger.Info("payment gateway mock mode enabled")
		return &MercadoPagoGateway{logger: logger, mockMode: true}, nil
	}

	if accessToken == "" {
		logger.Error("missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		logger.Error("failed creating mercado pago sdk config", zap.Error(err))
		return nil, err
	}
	logger.Info("mercado pago client initialized")

	return &MercadoPagoGateway{
		payments: payment.NewClient(cfg),
		refunds:  refund.NewClient(cfg),
		logger:   logger,
	}, nil
}

func (g *MercadoPagoGateway) CreateCharge(ctx context.Context, amount float64, description, methodCode, payerEmail string) (interfaces.ChargeResult, error) {
	if g != nil && g.mockMode {
		return g.mockResult("approved", "accredited"), nil
	}
	if g == nil || g.payments == nil {
		return interfaces.ChargeResult{}, ErrMercadoPagoGatewayNotConfigured
	}

	defer observeGatewayCall(time.Now())

	resp, err := g.payments.Create(ctx, payment.Request{
		TransactionAmount: amount,
		Description:       description,
		PaymentMethodID:   methodCode,
		Payer: &payment.PayerRequest{
			Email: payerEmail,
		},
	})
	if err != nil {
		g.logger.Error("mercado pago create charge failed", zap.Error(err))
		return interfaces.ChargeResult{}, err
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return interfaces.ChargeResult{}, err
	}

	g.logger.Info("mercado pago charge created",
		zap.Int("provider_payment_id", resp.ID),
		zap.String("provider_status", resp.Status))

	return interfaces.ChargeResult{
		ExternalID:   strconv.Itoa(resp.ID),
		Status:       resp.Status,
		StatusDetail: resp.StatusDetail,
		Raw:          raw,
	}, nil
}

func (g *MercadoPagoGateway) GetStatus(ctx context.Context, externalID string) (interfaces.ChargeResult, error) {
	if g != nil && g.mockMode {
		return g.mockResult("approved", "accredited"), nil
	}
	if g == nil || g.payments == nil {
		return interfaces.ChargeResult{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(externalID)
	if err != nil {
		return interfaces.ChargeResult{}, err
	}

	defer observeGatewayCall(time.Now())

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		g.logger.Error("mercado pago get payment failed",
			zap.String("provider_payment_id", externalID),
			zap.Error(err))
		return interfaces.ChargeResult{}, err
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return interfaces.ChargeResult{}, err
	}

	return interfaces.ChargeResult{
		ExternalID:   strconv.Itoa(resp.ID),
		Status:       resp.Status,
		StatusDetail: resp.StatusDetail,
		Raw:          raw,
	}, nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, externalID string) (interfaces.ChargeResult, error) {
	if g != nil && g.mockMode {
		return g.mockResult("refunded", "refunded"), nil
	}
	if g == nil || g.refunds == nil {
		return interfaces.ChargeResult{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(externalID)
	if err != nil {
		return interfaces.ChargeResult{}, err
	}

	defer observeGatewayCall(time.Now())

	resp, err := g.refunds.Create(ctx, id)
	if err != nil {
		g.logger.Error("mercado pago refund failed",
			zap.String("provider_payment_id", externalID),
			zap.Error(err))
		return interfaces.ChargeResult{}, err
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return interfaces.ChargeResult{}, err
	}

	g.logger.Info("mercado pago refund created",
		zap.String("provider_payment_id", externalID),
		zap.String("refund_status", resp.Status))

	return interfaces.ChargeResult{
		ExternalID:   externalID,
		Status:       resp.Status,
		StatusDetail: resp.Status,
		Raw:          raw,
	}, nil
}

func (g *MercadoPagoGateway) mockResult(status, detail string) interfaces.ChargeResult {
	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	raw, _ := json.Marshal(map[string]any{
		"id":            id,
		"status":        status,
		"status_detail": detail,
		"date_created":  now,
		"date_approved": now,
	})

	g.logger.Info("mock gateway call",
		zap.String("provider_payment_id", id),
		zap.String("provider_status", status))

	return interfaces.ChargeResult{
		ExternalID:   id,
		Status:       status,
		StatusDetail: detail,
		Raw:          raw,
	}
}

func observeGatewayCall(start time.Time) {
	util.GatewayCallLatency.Observe(time.Since(start).Seconds())
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
