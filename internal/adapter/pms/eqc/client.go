package eqc

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/infrastructure/circuitbreaker"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
)

// The channel manager speaks the Expedia QuickConnect dialect. AR carries
// availability and rate updates, BR booking retrieval.
const (
	arNamespace = "http://www.expediaconnect.com/EQC/AR/2011/06"
	brNamespace = "http://www.expediaconnect.com/EQC/BR/2014/01"

	defaultARURL = "https://api.previo.app/eqc1/ar"
	defaultBRURL = "https://api.previo.app/eqc1/br"

	xmlContentType = "application/xml; charset=utf-8"

	defaultCurrency = "CZK"

	maxRetries   = 2
	initialDelay = time.Second
)

// Config carries EQC connection settings. Credentials come from config or
// Vault, never from source.
type Config struct {
	Username string
	Password string
	HotelID  string
	ARURL    string
	BRURL    string
}

// Client implements ports.RatePushClient over the EQC endpoints.
type Client struct {
	cfg  Config
	http *circuitbreaker.HTTPClient
	log  *zap.Logger
}

var _ ports.RatePushClient = (*Client)(nil)

// NewClient builds an EQC client. A nil httpClient gets a breaker-wrapped
// default.
func NewClient(cfg Config, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) *Client {
	if cfg.ARURL == "" {
		cfg.ARURL = defaultARURL
	}
	if cfg.BRURL == "" {
		cfg.BRURL = defaultBRURL
	}
	if httpClient == nil {
		httpClient = circuitbreaker.NewHTTPClientWithSettings(
			circuitbreaker.DefaultHTTPClientSettings("eqc"), log)
	}
	return &Client{cfg: cfg, http: httpClient, log: log}
}

type arRequest struct {
	XMLName        xml.Name         `xml:"AvailRateUpdateRQ"`
	Namespace      string           `xml:"xmlns,attr"`
	Authentication authentication   `xml:"Authentication"`
	Hotel          hotelRef         `xml:"Hotel"`
	Updates        []availRateBlock `xml:"AvailRateUpdate"`
}

type authentication struct {
	Username string `xml:"username,attr"`
	Password string `xml:"password,attr"`
}

type hotelRef struct {
	ID string `xml:"id,attr"`
}

type availRateBlock struct {
	DateRange dateRange   `xml:"DateRange"`
	RoomType  roomTypeRef `xml:"RoomType"`
}

type dateRange struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
}

type roomTypeRef struct {
	ID       string      `xml:"id,attr"`
	RatePlan ratePlanRef `xml:"RatePlan"`
}

type ratePlanRef struct {
	ID     string    `xml:"id,attr"`
	Closed string    `xml:"closed,attr"`
	Rate   *rateSpec `xml:"Rate,omitempty"`
}

type rateSpec struct {
	Currency string  `xml:"currency,attr"`
	PerDay   perDay  `xml:"PerDay"`
}

type perDay struct {
	Rate string `xml:"rate,attr"`
}

func (c *Client) newARRequest(roomTypeID, ratePlanID int, updates []ports.RateUpdate) arRequest {
	req := arRequest{
		Namespace:      arNamespace,
		Authentication: authentication{Username: c.cfg.Username, Password: c.cfg.Password},
		Hotel:          hotelRef{ID: c.cfg.HotelID},
	}
	for _, update := range updates {
		plan := ratePlanRef{
			ID:     strconv.Itoa(ratePlanID),
			Closed: strconv.FormatBool(update.Closed),
		}
		if !update.Closed {
			currency := update.Currency
			if currency == "" {
				currency = defaultCurrency
			}
			plan.Rate = &rateSpec{
				Currency: currency,
				PerDay:   perDay{Rate: fmt.Sprintf("%.2f", update.Rate)},
			}
		}
		req.Updates = append(req.Updates, availRateBlock{
			DateRange: dateRange{From: update.Date, To: update.Date},
			RoomType: roomTypeRef{
				ID:       strconv.Itoa(roomTypeID),
				RatePlan: plan,
			},
		})
	}
	return req
}

type brRequest struct {
	XMLName        xml.Name       `xml:"BookingRetrievalRQ"`
	Namespace      string         `xml:"xmlns,attr"`
	Authentication authentication `xml:"Authentication"`
	Hotel          hotelRef       `xml:"Hotel"`
	ParamSet       brParamSet     `xml:"ParamSet"`
}

type brParamSet struct {
	Status string `xml:"Status"`
}

// eqcError matches the Error element a failed EQC response embeds. Success
// is the absence of this element.
type eqcError struct {
	Code    string `xml:"code,attr"`
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

func (c *Client) send(ctx context.Context, url string, req interface{}) ([]byte, error) {
	body, err := xml.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode EQC request: %w", err)
	}
	payload := append([]byte(xml.Header), body...)

	var raw []byte
	err = circuitbreaker.RetryWithBackoff(ctx, maxRetries, initialDelay, func() error {
		resp, err := c.http.Post(ctx, url, xmlContentType, payload)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("EQC endpoint %s: HTTP %d", url, resp.StatusCode)
		}
		raw, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		telemetry.PMSRequestFailures.Inc()
		return nil, err
	}

	if apiErr := findError(raw); apiErr != nil {
		telemetry.PMSRequestFailures.Inc()
		return nil, apiErr
	}
	return raw, nil
}

// findError scans the response for an Error element regardless of nesting.
func findError(raw []byte) error {
	decoder := xml.NewDecoder(strings.NewReader(string(raw)))
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "Error" {
			continue
		}
		var e eqcError
		if err := decoder.DecodeElement(&e, &start); err != nil {
			return fmt.Errorf("EQC error (unparseable detail)")
		}
		msg := e.Message
		if msg == "" {
			msg = strings.TrimSpace(e.Text)
		}
		return fmt.Errorf("EQC error %s: %s", e.Code, msg)
	}
}

// UpdateRate sets the price of one room type for one date.
func (c *Client) UpdateRate(ctx context.Context, roomTypeID, ratePlanID int, date string, rate float64) error {
	return c.UpdateRatesBatch(ctx, roomTypeID, ratePlanID, []ports.RateUpdate{
		{Date: date, Rate: rate, Currency: defaultCurrency},
	})
}

// UpdateRatesBatch applies several dated updates for one room type in a
// single request.
func (c *Client) UpdateRatesBatch(ctx context.Context, roomTypeID, ratePlanID int, updates []ports.RateUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	req := c.newARRequest(roomTypeID, ratePlanID, updates)
	if _, err := c.send(ctx, c.cfg.ARURL, req); err != nil {
		return fmt.Errorf("rate update room %d plan %d: %w", roomTypeID, ratePlanID, err)
	}
	c.log.Info("Pushed rate update",
		zap.Int("room_type_id", roomTypeID),
		zap.Int("rate_plan_id", ratePlanID),
		zap.Int("updates", len(updates)),
	)
	return nil
}

// CloseRoom stop-sells a room type for one date.
func (c *Client) CloseRoom(ctx context.Context, roomTypeID, ratePlanID int, date string) error {
	req := c.newARRequest(roomTypeID, ratePlanID, []ports.RateUpdate{
		{Date: date, Closed: true},
	})
	if _, err := c.send(ctx, c.cfg.ARURL, req); err != nil {
		return fmt.Errorf("close room %d on %s: %w", roomTypeID, date, err)
	}
	c.log.Info("Closed room",
		zap.Int("room_type_id", roomTypeID),
		zap.String("date", date),
	)
	return nil
}

// bookingRetrievalRS matches the BR response shape we consume.
type bookingRetrievalRS struct {
	Bookings []xmlBooking `xml:"Bookings>Booking"`
}

type xmlBooking struct {
	ID           string `xml:"id,attr"`
	Status       string `xml:"status,attr"`
	Source       string `xml:"source,attr"`
	Created      string `xml:"createDateTime,attr"`
	PrimaryGuest struct {
		Name struct {
			GivenName string `xml:"givenName,attr"`
			Surname   string `xml:"surname,attr"`
		} `xml:"Name"`
	} `xml:"PrimaryGuest"`
	RoomStay struct {
		StayDate struct {
			Arrival   string `xml:"arrival,attr"`
			Departure string `xml:"departure,attr"`
		} `xml:"StayDate"`
		RoomType struct {
			ID string `xml:"id,attr"`
		} `xml:"RoomType"`
	} `xml:"RoomStay"`
}

// FetchBookings retrieves bookings filtered by status (pending, confirmed,
// cancelled).
func (c *Client) FetchBookings(ctx context.Context, status string) ([]ports.Booking, error) {
	req := brRequest{
		Namespace:      brNamespace,
		Authentication: authentication{Username: c.cfg.Username, Password: c.cfg.Password},
		Hotel:          hotelRef{ID: c.cfg.HotelID},
		ParamSet:       brParamSet{Status: status},
	}
	raw, err := c.send(ctx, c.cfg.BRURL, req)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}

	var rs bookingRetrievalRS
	if err := xml.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	bookings := make([]ports.Booking, 0, len(rs.Bookings))
	for _, b := range rs.Bookings {
		guest := strings.TrimSpace(b.PrimaryGuest.Name.GivenName + " " + b.PrimaryGuest.Name.Surname)
		bookings = append(bookings, ports.Booking{
			ID:         b.ID,
			Status:     b.Status,
			Source:     b.Source,
			Created:    b.Created,
			GuestName:  guest,
			Arrival:    b.RoomStay.StayDate.Arrival,
			Departure:  b.RoomStay.StayDate.Departure,
			RoomTypeID: b.RoomStay.RoomType.ID,
		})
	}
	return bookings, nil
}

// TestConnection exercises the booking retrieval endpoint, the least
// invasive of the two.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.FetchBookings(ctx, "pending"); err != nil {
		return fmt.Errorf("EQC connection test: %w", err)
	}
	return nil
}
