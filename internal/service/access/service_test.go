package access

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/storage/memory"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestAuthorized_OwnerOperatorAndPartner(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := NewService(memory.NewPartnerRepository(), []string{"operator-1"}, newTestLogger())
	if err := service.AddPartner(ctx, "owner-1", "partner-1"); err != nil {
		t.Fatalf("adding partner failed: %v", err)
	}

	cases := []struct {
		name   string
		caller string
		owner  string
		want   bool
	}{
		{"owner on own resource", "owner-1", "owner-1", true},
		{"operator on anyone's resource", "operator-1", "owner-1", true},
		{"allow-listed partner", "partner-1", "owner-1", true},
		{"partner on a different owner", "partner-1", "owner-2", false},
		{"stranger", "stranger", "owner-1", false},
	}

	for _, tc := range cases {
		// Act
		got, err := service.Authorized(ctx, tc.caller, tc.owner)

		// Assert
		if err != nil {
			t.Errorf("%s: expected no error, got %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestCanAdminister_ExcludesAllowList(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := NewService(memory.NewPartnerRepository(), []string{"operator-1"}, newTestLogger())
	if err := service.AddPartner(ctx, "owner-1", "partner-1"); err != nil {
		t.Fatalf("adding partner failed: %v", err)
	}

	cases := []struct {
		name   string
		caller string
		owner  string
		want   bool
	}{
		{"owner on own resource", "owner-1", "owner-1", true},
		{"operator on anyone's resource", "operator-1", "owner-1", true},
		{"allow-listed partner", "partner-1", "owner-1", false},
		{"stranger", "stranger", "owner-1", false},
	}

	for _, tc := range cases {
		// Act
		got, err := service.CanAdminister(ctx, tc.caller, tc.owner)

		// Assert
		if err != nil {
			t.Errorf("%s: expected no error, got %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestDeletePartner_RevokesAccess(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := NewService(memory.NewPartnerRepository(), nil, newTestLogger())
	if err := service.AddPartner(ctx, "owner-1", "partner-1"); err != nil {
		t.Fatalf("adding partner failed: %v", err)
	}

	// Act
	if err := service.DeletePartner(ctx, "owner-1", "partner-1"); err != nil {
		t.Fatalf("deleting partner failed: %v", err)
	}

	// Assert
	allowed, err := service.PartnerCanCreateTransaction(ctx, "owner-1", "partner-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if allowed {
		t.Error("expected access revoked after delete")
	}
}
