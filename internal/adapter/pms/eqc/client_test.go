package eqc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/ports"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		Username: "eqc-user",
		Password: "eqc-pass",
		HotelID:  "12345",
		ARURL:    server.URL + "/ar",
		BRURL:    server.URL + "/br",
	}
	return NewClient(cfg, nil, zap.NewNop())
}

const okResponse = `<?xml version="1.0" encoding="UTF-8"?>
<AvailRateUpdateRS xmlns="http://www.expediaconnect.com/EQC/AR/2011/06">
  <Success/>
</AvailRateUpdateRS>`

func TestUpdateRateBuildsARRequest(t *testing.T) {
	var gotPath, gotBody string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(okResponse))
	}))

	err := client.UpdateRate(context.Background(), 640240, 125099, "2025-05-08", 2890)
	if err != nil {
		t.Fatalf("UpdateRate: %v", err)
	}

	if gotPath != "/ar" {
		t.Errorf("posted to %q, want /ar", gotPath)
	}
	for _, want := range []string{
		`xmlns="http://www.expediaconnect.com/EQC/AR/2011/06"`,
		`username="eqc-user"`,
		`password="eqc-pass"`,
		`<Hotel id="12345">`,
		`from="2025-05-08"`,
		`to="2025-05-08"`,
		`<RoomType id="640240">`,
		`<RatePlan id="125099" closed="false">`,
		`currency="CZK"`,
		`rate="2890.00"`,
	} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request missing %q:\n%s", want, gotBody)
		}
	}
}

func TestUpdateRatesBatchGroupsPerDate(t *testing.T) {
	var gotBody string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(okResponse))
	}))

	updates := []ports.RateUpdate{
		{Date: "2025-05-08", Rate: 2890},
		{Date: "2025-05-09", Rate: 3100, Currency: "EUR"},
	}
	if err := client.UpdateRatesBatch(context.Background(), 640240, 125099, updates); err != nil {
		t.Fatalf("UpdateRatesBatch: %v", err)
	}

	if got := strings.Count(gotBody, "<AvailRateUpdate>"); got != 2 {
		t.Errorf("expected 2 AvailRateUpdate blocks, got %d", got)
	}
	if !strings.Contains(gotBody, `currency="EUR"`) {
		t.Error("explicit currency not honored")
	}
	if !strings.Contains(gotBody, `rate="3100.00"`) {
		t.Error("second rate missing")
	}
}

func TestUpdateRatesBatchEmptyIsNoop(t *testing.T) {
	called := false
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(okResponse))
	}))

	if err := client.UpdateRatesBatch(context.Background(), 640240, 125099, nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if called {
		t.Error("empty batch should not hit the endpoint")
	}
}

func TestCloseRoomOmitsRate(t *testing.T) {
	var gotBody string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(okResponse))
	}))

	if err := client.CloseRoom(context.Background(), 640240, 125099, "2025-05-08"); err != nil {
		t.Fatalf("CloseRoom: %v", err)
	}
	if !strings.Contains(gotBody, `closed="true"`) {
		t.Errorf("close flag missing:\n%s", gotBody)
	}
	if strings.Contains(gotBody, "<Rate") {
		t.Errorf("closed update must not carry a rate:\n%s", gotBody)
	}
}

func TestUpdateRateSurfacesErrorElement(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<AvailRateUpdateRS xmlns="http://www.expediaconnect.com/EQC/AR/2011/06">
  <Error code="3202">Rate plan not found</Error>
</AvailRateUpdateRS>`))
	}))

	err := client.UpdateRate(context.Background(), 640240, 999, "2025-05-08", 2890)
	if err == nil {
		t.Fatal("expected error for Error element")
	}
	if !strings.Contains(err.Error(), "3202") || !strings.Contains(err.Error(), "Rate plan not found") {
		t.Errorf("error should carry code and message, got %v", err)
	}
}

func TestFetchBookingsParsesResponse(t *testing.T) {
	var gotPath, gotBody string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`<?xml version="1.0"?>
<BookingRetrievalRS xmlns="http://www.expediaconnect.com/EQC/BR/2014/01">
  <Bookings>
    <Booking id="B-1001" status="pending" source="booking.com" createDateTime="2025-05-01T10:00:00">
      <PrimaryGuest><Name givenName="Jan" surname="Novák"/></PrimaryGuest>
      <RoomStay>
        <StayDate arrival="2025-05-08" departure="2025-05-10"/>
        <RoomType id="640240"/>
      </RoomStay>
    </Booking>
  </Bookings>
</BookingRetrievalRS>`))
	}))

	bookings, err := client.FetchBookings(context.Background(), "pending")
	if err != nil {
		t.Fatalf("FetchBookings: %v", err)
	}

	if gotPath != "/br" {
		t.Errorf("posted to %q, want /br", gotPath)
	}
	if !strings.Contains(gotBody, "<Status>pending</Status>") {
		t.Errorf("status filter missing:\n%s", gotBody)
	}
	if !strings.Contains(gotBody, `xmlns="http://www.expediaconnect.com/EQC/BR/2014/01"`) {
		t.Error("BR namespace missing")
	}

	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	b := bookings[0]
	if b.ID != "B-1001" || b.Status != "pending" {
		t.Errorf("booking = %+v", b)
	}
	if b.GuestName != "Jan Novák" {
		t.Errorf("guest = %q", b.GuestName)
	}
	if b.Arrival != "2025-05-08" || b.Departure != "2025-05-10" || b.RoomTypeID != "640240" {
		t.Errorf("stay = %+v", b)
	}
}

func TestTestConnectionUsesBookingEndpoint(t *testing.T) {
	var gotPath string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`<?xml version="1.0"?>
<BookingRetrievalRS xmlns="http://www.expediaconnect.com/EQC/BR/2014/01"><Bookings/></BookingRetrievalRS>`))
	}))

	if err := client.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
	if gotPath != "/br" {
		t.Errorf("test connection hit %q, want /br", gotPath)
	}
}
