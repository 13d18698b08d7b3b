package previo

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/infrastructure/circuitbreaker"
	"github.com/ratesense/ratesense/internal/observability/telemetry"
	"github.com/ratesense/ratesense/internal/ports"
)

const (
	defaultXMLBaseURL  = "https://api.previo.app/x1"
	defaultRESTBaseURL = "https://api.previo.app/rest"

	xmlContentType = "application/xml; charset=utf-8"

	maxRetries   = 3
	initialDelay = 2 * time.Second
)

// Config carries Previo connection settings. Credentials come from the
// environment or Vault, never from source.
type Config struct {
	Login       string
	Password    string
	HotelID     string
	XMLBaseURL  string
	RESTBaseURL string
}

// Client talks to both halves of the Previo API: the XML endpoints under
// /x1 (rates, room kinds) and the REST endpoints under /rest (availability,
// rate plans). Implements ports.PMSClient.
type Client struct {
	cfg  Config
	http *circuitbreaker.HTTPClient
	log  *zap.Logger
}

var _ ports.PMSClient = (*Client)(nil)

// NewClient builds a Previo client. A nil httpClient gets a breaker-wrapped
// default with PMS-tuned settings.
func NewClient(cfg Config, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) *Client {
	if cfg.XMLBaseURL == "" {
		cfg.XMLBaseURL = defaultXMLBaseURL
	}
	if cfg.RESTBaseURL == "" {
		cfg.RESTBaseURL = defaultRESTBaseURL
	}
	if httpClient == nil {
		httpClient = circuitbreaker.NewHTTPClientWithSettings(
			circuitbreaker.DefaultHTTPClientSettings("previo"), log)
	}
	return &Client{cfg: cfg, http: httpClient, log: log}
}

// xmlRequest is the envelope every /x1 call posts. Method-specific elements
// ride along via Term and Currencies.
type xmlRequest struct {
	XMLName    xml.Name       `xml:"request"`
	Login      string         `xml:"login"`
	Password   string         `xml:"password"`
	HotelID    string         `xml:"hotId"`
	Term       *xmlTerm       `xml:"term,omitempty"`
	Currencies *xmlCurrencies `xml:"currencies,omitempty"`
}

type xmlTerm struct {
	From string `xml:"from"`
	To   string `xml:"to"`
}

type xmlCurrencies struct {
	Codes []xmlCurrency `xml:"currency"`
}

type xmlCurrency struct {
	Code string `xml:"code"`
}

func (c *Client) newRequest() xmlRequest {
	return xmlRequest{
		Login:    c.cfg.Login,
		Password: c.cfg.Password,
		HotelID:  c.cfg.HotelID,
	}
}

// callXML posts the request body to {base}/{method} and decodes the response
// into out. The method path is case sensitive on the Previo side.
func (c *Client) callXML(ctx context.Context, method string, req xmlRequest, out interface{}) error {
	body, err := xml.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}
	payload := append([]byte(xml.Header), body...)

	endpoint := c.cfg.XMLBaseURL + "/" + method

	var raw []byte
	err = circuitbreaker.RetryWithBackoff(ctx, maxRetries, initialDelay, func() error {
		resp, err := c.http.Post(ctx, endpoint, xmlContentType, payload)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("previo %s: HTTP %d", method, resp.StatusCode)
		}
		raw, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		telemetry.PMSRequestFailures.Inc()
		return err
	}

	if apiErr := parseAPIError(raw); apiErr != nil {
		telemetry.PMSRequestFailures.Inc()
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := xml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

// errorResponse matches the <error> element Previo embeds in failed
// responses instead of using HTTP status codes.
type errorResponse struct {
	XMLName xml.Name  `xml:"response"`
	Error   *xmlError `xml:"error"`
}

type xmlError struct {
	Code    string `xml:"code"`
	Message string `xml:"message"`
	Text    string `xml:",chardata"`
}

func parseAPIError(raw []byte) error {
	var resp errorResponse
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	if resp.Error == nil {
		return nil
	}
	msg := resp.Error.Message
	if msg == "" {
		msg = resp.Error.Text
	}
	return fmt.Errorf("previo API error %s: %s", resp.Error.Code, msg)
}

// callREST performs a basic-auth GET against the REST base and decodes the
// JSON response into out.
func (c *Client) callREST(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.cfg.RESTBaseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	err := circuitbreaker.RetryWithBackoff(ctx, maxRetries, initialDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.cfg.Login, c.cfg.Password)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("previo %s: HTTP %d", path, resp.StatusCode)
		}
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		telemetry.PMSRequestFailures.Inc()
	}
	return err
}

// FetchAvailability retrieves the per-plan availability calendar between the
// two dates (inclusive, YYYY-MM-DD).
func (c *Client) FetchAvailability(ctx context.Context, from, to string) (*domain.AvailabilitySnapshot, error) {
	query := url.Values{}
	query.Set("filterFrom", from)
	query.Set("filterTo", to)

	var plans []domain.RatePlanAvailability
	if err := c.callREST(ctx, "calendar/availability", query, &plans); err != nil {
		return nil, fmt.Errorf("fetch availability: %w", err)
	}

	snapshot := &domain.AvailabilitySnapshot{
		HotelID:   c.cfg.HotelID,
		RatePlans: plans,
		FetchedAt: time.Now().UTC(),
	}
	c.log.Debug("Fetched availability",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("rate_plans", len(plans)),
	)
	return snapshot, nil
}

// roomKindsResponse matches hotel/getRoomKinds.
type roomKindsResponse struct {
	XMLName xml.Name      `xml:"response"`
	Rooms   []xmlRoomKind `xml:"hotel>roomKinds>roomKind"`
}

type xmlRoomKind struct {
	ID       int    `xml:"obkId"`
	Name     string `xml:"name"`
	Capacity int    `xml:"capacity"`
}

// FetchRoomKinds lists the room types configured in the PMS. Categories are
// resolved against the built-in catalog; types the catalog does not know
// come back as unknown.
func (c *Client) FetchRoomKinds(ctx context.Context) ([]domain.RoomKind, error) {
	var resp roomKindsResponse
	if err := c.callXML(ctx, "hotel/getRoomKinds", c.newRequest(), &resp); err != nil {
		return nil, fmt.Errorf("fetch room kinds: %w", err)
	}

	catalog := domain.NewRoomCatalog(domain.DefaultRoomKinds())
	kinds := make([]domain.RoomKind, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		kind := domain.RoomKind{
			ID:       room.ID,
			Name:     room.Name,
			Category: catalog.Resolve(room.ID).Category,
			Capacity: room.Capacity,
		}
		if kind.Name == "" {
			kind.Name = strconv.Itoa(room.ID)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// FetchRatePlans lists the configured rate plans via the REST API.
func (c *Client) FetchRatePlans(ctx context.Context) ([]ports.RatePlan, error) {
	var plans []ports.RatePlan
	if err := c.callREST(ctx, "rate-plan", nil, &plans); err != nil {
		return nil, fmt.Errorf("fetch rate plans: %w", err)
	}
	return plans, nil
}

// ratesResponse matches hotel/getRates. Prices nest under
// ratePlan > season > objectKind, keyed by occupancy.
type ratesResponse struct {
	XMLName xml.Name      `xml:"response"`
	Plans   []xmlRatePlan `xml:"hotel>ratePlans>ratePlan"`
}

type xmlRatePlan struct {
	Seasons []xmlSeason `xml:"seasons>season"`
}

type xmlSeason struct {
	ObjectKinds []xmlObjectKind `xml:"objectKinds>objectKind"`
}

type xmlObjectKind struct {
	ID    int       `xml:"obkId"`
	Rates []xmlRate `xml:"rates>rate"`
}

type xmlRate struct {
	Occupancy int     `xml:"occupancy"`
	Price     float64 `xml:"price"`
}

// FetchRates returns current prices as room kind -> occupancy -> price for
// the given period, in CZK. Later seasons overwrite earlier ones for the
// same room kind and occupancy.
func (c *Client) FetchRates(ctx context.Context, from, to string) (map[int]map[int]float64, error) {
	req := c.newRequest()
	req.Term = &xmlTerm{From: from, To: to}
	req.Currencies = &xmlCurrencies{Codes: []xmlCurrency{{Code: "CZK"}}}

	var resp ratesResponse
	if err := c.callXML(ctx, "hotel/getRates", req, &resp); err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}

	prices := make(map[int]map[int]float64)
	for _, plan := range resp.Plans {
		for _, season := range plan.Seasons {
			for _, kind := range season.ObjectKinds {
				if kind.ID == 0 {
					continue
				}
				rows, ok := prices[kind.ID]
				if !ok {
					rows = make(map[int]float64)
					prices[kind.ID] = rows
				}
				for _, rate := range kind.Rates {
					rows[rate.Occupancy] = rate.Price
				}
			}
		}
	}

	c.log.Debug("Fetched rates",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("room_kinds", len(prices)),
	)
	return prices, nil
}

// TestConnection verifies the credentials against the cheapest XML endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	if err := c.callXML(ctx, "hotel/get", c.newRequest(), nil); err != nil {
		return fmt.Errorf("previo connection test: %w", err)
	}
	return nil
}
