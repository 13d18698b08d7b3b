package rooms

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
)

// Service serves the room catalog and the forward availability picture. The
// catalog comes from the store when seeded, from the PMS when reachable, and
// from the built-in table otherwise.
type Service struct {
	pms  ports.PMSClient
	repo ports.RoomKindRepository
	log  *zap.Logger
}

// NewService wires the room service.
func NewService(pms ports.PMSClient, repo ports.RoomKindRepository, log *zap.Logger) *Service {
	return &Service{pms: pms, repo: repo, log: log}
}

// Catalog returns the room kinds, store first, PMS second, built-in table
// last. A successful PMS fetch is written back to the store.
func (s *Service) Catalog(ctx context.Context) ([]domain.RoomKind, error) {
	if s.repo != nil {
		kinds, err := s.repo.FindAll(ctx)
		if err != nil {
			s.log.Warn("room catalog store read failed", zap.Error(err))
		} else if len(kinds) > 0 {
			return kinds, nil
		}
	}

	if s.pms != nil {
		kinds, err := s.pms.FetchRoomKinds(ctx)
		if err != nil {
			s.log.Warn("room catalog PMS fetch failed, using built-in table", zap.Error(err))
		} else if len(kinds) > 0 {
			if s.repo != nil {
				if err := s.repo.SaveAll(ctx, kinds); err != nil {
					s.log.Warn("room catalog store write failed", zap.Error(err))
				}
			}
			return kinds, nil
		}
	}

	return domain.DefaultRoomKinds(), nil
}

// CatalogMap returns the catalog indexed by room kind ID.
func (s *Service) CatalogMap(ctx context.Context) (domain.RoomCatalog, error) {
	kinds, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewRoomCatalog(kinds), nil
}

// Availability fetches the availability snapshot covering today through
// today+days from the PMS.
func (s *Service) Availability(ctx context.Context, days int) (*domain.AvailabilitySnapshot, error) {
	today := time.Now().UTC()
	from := today.Format(domain.DateLayout)
	to := today.AddDate(0, 0, days).Format(domain.DateLayout)
	return s.pms.FetchAvailability(ctx, from, to)
}
