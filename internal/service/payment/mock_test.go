package payment

import (
	"errors"
	"testing"

	"github.com/blusmotif/storefront/internal/domain"
)

func TestMockGateway_Initiate(t *testing.T) {
	gw := NewMockGateway()

	session, err := gw.Initiate(domain.PaymentRequest{
		OrderID:     "order-1",
		AmountMinor: 4500,
		Currency:    "GHS",
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if session.Reference != "mock-ref-order-1" {
		t.Fatalf("unexpected reference: %s", session.Reference)
	}
	if session.CheckoutURL != "https://checkout.example.com/order-1" {
		t.Fatalf("unexpected checkout url: %s", session.CheckoutURL)
	}
	if gw.InitiateCalls != 1 {
		t.Fatalf("expected 1 call, got %d", gw.InitiateCalls)
	}
	if gw.LastRequest.AmountMinor != 4500 {
		t.Fatalf("expected recorded request, got %+v", gw.LastRequest)
	}
}

func TestMockGateway_InitiateError(t *testing.T) {
	gw := NewMockGateway()
	gw.InitiateErr = errors.New("gateway down")

	if _, err := gw.Initiate(domain.PaymentRequest{OrderID: "order-1"}); err == nil {
		t.Fatal("expected error")
	}
	if gw.InitiateCalls != 1 {
		t.Fatalf("expected call counted even on error, got %d", gw.InitiateCalls)
	}
}
