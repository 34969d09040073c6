package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func TestOrderRequestValidate_Ok(t *testing.T) {
	req := domain.OrderRequest{CustomerID: 1, ProductID: 1, Quantity: 5}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestOrderRequestValidate_Errors(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(r *domain.OrderRequest)
		field string
	}{
		{
			name:  "zero quantity",
			mut:   func(r *domain.OrderRequest) { r.Quantity = 0 },
			field: "quantity",
		},
		{
			name:  "negative quantity",
			mut:   func(r *domain.OrderRequest) { r.Quantity = -3 },
			field: "quantity",
		},
		{
			name:  "no customer",
			mut:   func(r *domain.OrderRequest) { r.CustomerID = 0 },
			field: "customer_id",
		},
		{
			name:  "no product",
			mut:   func(r *domain.OrderRequest) { r.ProductID = -1 },
			field: "product_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := domain.OrderRequest{CustomerID: 1, ProductID: 1, Quantity: 1}
			tc.mut(&req)

			err := req.Validate()
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var verr *domain.ValidationError
			if !errorsAs(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected field %s, got %v", tc.field, err)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    domain.OrderStatus
		wantErr bool
	}{
		{raw: "Shipped", want: domain.OrderStatusShipped},
		{raw: "  delivered ", want: domain.OrderStatusDelivered},
		{raw: "CANCELLED", want: domain.OrderStatusCancelled},
		{raw: "canceled", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := domain.ParseOrderStatus(tt.raw)
			if tt.wantErr {
				if !domain.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestOpenTransitions_AllowsAnyKnownStatus(t *testing.T) {
	policy := domain.OpenTransitions{}
	for _, from := range domain.OrderStatuses() {
		for _, to := range domain.OrderStatuses() {
			if err := policy.Allow(from, to); err != nil {
				t.Fatalf("open policy rejected %s -> %s: %v", from, to, err)
			}
		}
	}
	if err := policy.Allow(domain.OrderStatusPending, "Lost"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestStrictTransitions(t *testing.T) {
	policy := domain.StrictTransitions{}

	allowed := [][2]domain.OrderStatus{
		{domain.OrderStatusPending, domain.OrderStatusProcessing},
		{domain.OrderStatusPending, domain.OrderStatusCancelled},
		{domain.OrderStatusProcessing, domain.OrderStatusShipped},
		{domain.OrderStatusProcessing, domain.OrderStatusCancelled},
		{domain.OrderStatusShipped, domain.OrderStatusDelivered},
		{domain.OrderStatusDelivered, domain.OrderStatusDelivered},
	}
	for _, pair := range allowed {
		if err := policy.Allow(pair[0], pair[1]); err != nil {
			t.Fatalf("expected %s -> %s to be allowed: %v", pair[0], pair[1], err)
		}
	}

	denied := [][2]domain.OrderStatus{
		{domain.OrderStatusPending, domain.OrderStatusDelivered},
		{domain.OrderStatusShipped, domain.OrderStatusCancelled},
		{domain.OrderStatusCancelled, domain.OrderStatusPending},
		{domain.OrderStatusDelivered, domain.OrderStatusPending},
	}
	for _, pair := range denied {
		if err := policy.Allow(pair[0], pair[1]); !domain.IsValidation(err) {
			t.Fatalf("expected %s -> %s to be rejected, got %v", pair[0], pair[1], err)
		}
	}
}
