// Package access implements the partner/capability registry: a per-owner
// allow-list of identities that may open transactions on the owner's
// stations, plus a configured set of elevated operator identities.
package access

import (
	"context"

	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/ports"
)

type Service struct {
	partners  ports.PartnerRepository
	operators map[string]struct{}
	log       *zap.Logger
}

func NewService(partners ports.PartnerRepository, operators []string, log *zap.Logger) ports.AccessService {
	ops := make(map[string]struct{}, len(operators))
	for _, op := range operators {
		ops[op] = struct{}{}
	}
	return &Service{
		partners:  partners,
		operators: ops,
		log:       log,
	}
}

func (s *Service) AddPartner(ctx context.Context, owner, identity string) error {
	if err := s.partners.Add(ctx, owner, identity); err != nil {
		return err
	}
	s.log.Info("Partner allow-listed",
		zap.String("owner", owner),
		zap.String("identity", identity),
	)
	return nil
}

func (s *Service) DeletePartner(ctx context.Context, owner, identity string) error {
	if err := s.partners.Delete(ctx, owner, identity); err != nil {
		return err
	}
	s.log.Info("Partner removed from allow-list",
		zap.String("owner", owner),
		zap.String("identity", identity),
	)
	return nil
}

func (s *Service) PartnerCanCreateTransaction(ctx context.Context, owner, identity string) (bool, error) {
	return s.partners.Exists(ctx, owner, identity)
}

// Authorized is the predicate consulted before opening a session: the caller
// is the owner itself, holds the operator capability, or sits on the owner's
// allow-list.
func (s *Service) Authorized(ctx context.Context, caller, owner string) (bool, error) {
	if s.canAdminister(caller, owner) {
		return true, nil
	}
	return s.partners.Exists(ctx, owner, caller)
}

// CanAdminister gates administrative writes. Allow-listed partners may open
// sessions but never flip a station's enable flag.
func (s *Service) CanAdminister(ctx context.Context, caller, owner string) (bool, error) {
	return s.canAdminister(caller, owner), nil
}

func (s *Service) canAdminister(caller, owner string) bool {
	if caller == owner {
		return true
	}
	_, ok := s.operators[caller]
	return ok
}
