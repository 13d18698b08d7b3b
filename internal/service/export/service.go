package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
	"github.com/ratesense/ratesense/internal/service/rates"
)

// csvHeader matches the column layout the PMS import expects.
var csvHeader = []string{
	"Datum", "Den", "Pokoj", "Kategorie", "Obsazenost",
	"Aktualni cena (2os)", "Doporucena zmena %", "Nova cena",
	"Duvod", "Svatek", "Sezona", "Confidence",
}

// Service renders the recommendation payload for download.
type Service struct {
	recommendations ports.RecommendationService
	rates           ports.RateService
	log             *zap.Logger
}

// NewService wires the export service.
func NewService(recommendations ports.RecommendationService, rateSvc ports.RateService, log *zap.Logger) *Service {
	return &Service{recommendations: recommendations, rates: rateSvc, log: log}
}

// CSV renders the actionable room rows as a semicolon-separated file and
// returns it with its suggested filename. Rows without a known current price
// keep empty price cells.
func (s *Service) CSV(ctx context.Context, hotelID string) ([]byte, string, error) {
	payload, err := s.recommendations.Payload(ctx, hotelID)
	if err != nil {
		return nil, "", err
	}

	prices, err := s.rates.CurrentPrices(ctx)
	if err != nil {
		s.log.Warn("current prices unavailable, exporting without them", zap.Error(err))
		prices = nil
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = ';'

	if err := writer.Write(csvHeader); err != nil {
		return nil, "", fmt.Errorf("writing export header: %w", err)
	}

	for _, rec := range payload.Recommendations {
		if rec.Type == domain.AdjustmentNoChange {
			continue
		}

		currentCell := ""
		newCell := ""
		if current := rates.PriceFor(prices, rec.RoomKindID); current > 0 {
			currentCell = strconv.FormatFloat(current, 'f', -1, 64)
			if rec.ChangePct != 0 {
				newCell = strconv.FormatFloat(rates.NewPrice(current, rec.ChangePct), 'f', -1, 64)
			}
		}

		row := []string{
			rec.Date,
			rec.Weekday,
			rec.RoomName,
			rec.Category.DisplayName(),
			fmt.Sprintf("%.0f%%", rec.SameWeekdayOccupancy),
			currentCell,
			fmt.Sprintf("%+.0f%%", rec.ChangePct),
			newCell,
			rec.Reason,
			rec.HolidayName,
			rec.Season,
			fmt.Sprintf("%.0f%%", rec.Confidence*100),
		}
		if err := writer.Write(row); err != nil {
			return nil, "", fmt.Errorf("writing export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("flushing export: %w", err)
	}

	filename := fmt.Sprintf("previo_doporuceni_%s.csv", time.Now().UTC().Format(domain.DateLayout))
	return buf.Bytes(), filename, nil
}

// JSON returns the full payload for API consumers.
func (s *Service) JSON(ctx context.Context, hotelID string) (*domain.RecommendationPayload, error) {
	return s.recommendations.Payload(ctx, hotelID)
}
