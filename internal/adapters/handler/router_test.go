package handler_test

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/handler"
	"github.com/AchilleasB/activeplay/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/services"
	"github.com/AchilleasB/activeplay/booking-service/test/mocks"
)

type testAPI struct {
	server    *httptest.Server
	key       *rsa.PrivateKey
	sessions  *mocks.MockSessionStore
	schedule  *mocks.MockScheduleRepository
	publisher *mocks.MockTrackingEventPublisher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log, _ := mocks.NewTestLogger()
	key := mocks.NewTestKeyPair()

	api := &testAPI{
		key:       key,
		sessions:  mocks.NewMockSessionStore(),
		schedule:  mocks.NewMockScheduleRepository(),
		publisher: mocks.NewMockTrackingEventPublisher(),
	}
	users := mocks.NewMockUserRepository()
	metrics := mocks.NewMockMetrics()
	google := &mocks.MockGoogleVerifier{Identities: map[string]ports.GoogleIdentity{}}
	reports := &mocks.MockReportRepository{Owners: map[string]string{}}

	subscriptions := services.NewSubscriptionService(mocks.NewMockSubscriptionRepository(), services.DefaultPlans(), metrics, log)
	tracking := services.NewTrackingService(api.schedule, &mocks.MockDriverRoster{Driver: mocks.TestDriver()},
		mocks.NewMockTrackingStore(), api.publisher, metrics, 20*time.Millisecond, log)
	t.Cleanup(tracking.Shutdown)

	h := handler.Handlers{
		Auth: handler.NewAuthHandler(services.NewAuthService(mocks.NewMockCredentialRepository(), users, google,
			api.sessions, key, time.Hour, log)),
		Subscription: handler.NewSubscriptionHandler(subscriptions),
		Booking:      handler.NewBookingHandler(services.NewBookingService(subscriptions, api.schedule, metrics, time.UTC, log)),
		Schedule:     handler.NewScheduleHandler(services.NewScheduleService(api.schedule, time.UTC, log)),
		Tracking:     handler.NewTrackingHandler(tracking, []string{"*"}, log),
		Report:       handler.NewReportHandler(services.NewReportService(reports, time.UTC)),
		Profile:      handler.NewProfileHandler(services.NewProfileService(users, mocks.NewMockChildRepository(), log)),
		Health:       handler.NewHealthHandler(nil, nil),
	}
	auth := middleware.NewAuthMiddleware(&key.PublicKey, api.sessions, log)
	api.server = httptest.NewServer(handler.NewRouter(h, auth, middleware.RequestLogger(log)))
	t.Cleanup(api.server.Close)
	return api
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (a *testAPI) signUp(t *testing.T, email string) domain.Session {
	t.Helper()
	var session domain.Session
	status := a.do(t, http.MethodPost, "/api/v1/auth/signup", "", handler.SignUpRequest{
		Name: "Priya", Email: email, Password: "secret", ConfirmPassword: "secret",
	}, &session)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from signup, got %d", status)
	}
	return session
}

// driverToken mints a token for a driver account with a live session.
func (a *testAPI) driverToken(t *testing.T, driverID string) string {
	t.Helper()
	claims := domain.Claims{UserID: driverID, Role: domain.RoleDriver, SessionID: "session-" + driverID}
	if err := a.sessions.SaveSession(t.Context(), claims, time.Hour); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":  claims.UserID,
		"role": string(claims.Role),
		"jti":  claims.SessionID,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(a.key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestRouter_AuthFlow(t *testing.T) {
	api := newTestAPI(t)

	status := api.do(t, http.MethodPost, "/api/v1/auth/signup", "", handler.SignUpRequest{
		Name: "Priya", Email: "p@example.com", Password: "a", ConfirmPassword: "b",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for password mismatch, got %d", status)
	}

	session := api.signUp(t, "p@example.com")

	var me domain.User
	if status := api.do(t, http.MethodGet, "/api/v1/me", session.Token, nil, &me); status != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d", status)
	}
	if me.Email != "p@example.com" || me.Role != domain.RoleParent {
		t.Errorf("unexpected user %+v", me)
	}

	if status := api.do(t, http.MethodPost, "/api/v1/auth/signup", "", handler.SignUpRequest{
		Name: "Again", Email: "p@example.com", Password: "x", ConfirmPassword: "x",
	}, nil); status != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", status)
	}

	if status := api.do(t, http.MethodPost, "/api/v1/auth/signin", "", handler.SignInRequest{
		Email: "p@example.com", Password: "wrong",
	}, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", status)
	}

	if status := api.do(t, http.MethodPost, "/api/v1/auth/logout", session.Token, nil, nil); status != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", status)
	}
	if status := api.do(t, http.MethodGet, "/api/v1/me", session.Token, nil, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", status)
	}
}

func TestRouter_PublicCatalog(t *testing.T) {
	api := newTestAPI(t)

	var plans []domain.Plan
	if status := api.do(t, http.MethodGet, "/api/v1/plans", "", nil, &plans); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(plans) != 3 {
		t.Errorf("expected 3 plans, got %d", len(plans))
	}

	var quote domain.Quote
	api.do(t, http.MethodGet, "/api/v1/plans/premium-5/quote?transport=true", "", nil, &quote)
	if quote.Total != 6499 {
		t.Errorf("expected total 6499, got %d", quote.Total)
	}

	if status := api.do(t, http.MethodGet, "/api/v1/plans/gold/quote", "", nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown plan, got %d", status)
	}
}

func TestRouter_BookingRequiresSubscription(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp(t, "p@example.com").Token

	var opts domain.BookingOptions
	api.do(t, http.MethodGet, "/api/v1/booking/options", token, nil, &opts)
	if opts.Enabled || opts.Redirect != "/subscription" {
		t.Errorf("expected disabled booking with redirect, got %+v", opts)
	}

	var body map[string]string
	status := api.do(t, http.MethodPost, "/api/v1/booking", token, domain.BookingRequest{Mode: domain.BookingAutomated}, &body)
	if status != http.StatusPaymentRequired {
		t.Errorf("expected 402, got %d", status)
	}
	if body["redirect"] != "/subscription" {
		t.Errorf("expected redirect, got %v", body)
	}
}

func TestRouter_SubscribeBookAndCancel(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp(t, "p@example.com").Token

	var current handler.CurrentSubscriptionResponse
	api.do(t, http.MethodGet, "/api/v1/subscription", token, nil, &current)
	if current.Active || current.Subscription != nil {
		t.Errorf("expected no subscription, got %+v", current)
	}

	var sub domain.Subscription
	status := api.do(t, http.MethodPost, "/api/v1/subscription", token, handler.SubscribeRequest{
		PlanID: "basic-3", IncludesTransport: true,
	}, &sub)
	if status != http.StatusCreated || sub.Status != domain.SubscriptionActive {
		t.Fatalf("expected active subscription, got %d %+v", status, sub)
	}

	var result domain.BookingResult
	status = api.do(t, http.MethodPost, "/api/v1/booking", token, domain.BookingRequest{
		Mode: domain.BookingAutomated, Children: []string{"Sarah"},
	}, &result)
	if status != http.StatusCreated || len(result.Items) != 3 {
		t.Fatalf("expected 3 booked sessions, got %d %d", status, len(result.Items))
	}

	var items []domain.ScheduleItem
	api.do(t, http.MethodGet, "/api/v1/schedule?child=Sarah", token, nil, &items)
	if len(items) != 3 {
		t.Fatalf("expected 3 schedule items, got %d", len(items))
	}

	var cancelled domain.ScheduleItem
	if status := api.do(t, http.MethodPost, "/api/v1/schedule/"+items[0].ID+"/cancel", token, nil, &cancelled); status != http.StatusOK {
		t.Fatalf("expected 200 from cancel, got %d", status)
	}
	if cancelled.Status != domain.SessionCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if status := api.do(t, http.MethodPost, "/api/v1/schedule/"+items[0].ID+"/cancel", token, nil, nil); status != http.StatusConflict {
		t.Errorf("expected 409 on second cancel, got %d", status)
	}
	if len(api.schedule.CancelEvents) != 1 {
		t.Errorf("expected one outbox event, got %d", len(api.schedule.CancelEvents))
	}

	var msg map[string]string
	if status := api.do(t, http.MethodPost, "/api/v1/schedule/"+items[1].ID+"/reschedule", token, nil, &msg); status != http.StatusNotImplemented {
		t.Errorf("expected 501 from reschedule, got %d", status)
	}
	if msg["message"] != "Reschedule feature coming soon!" {
		t.Errorf("unexpected message %v", msg)
	}

	other := api.signUp(t, "other@example.com").Token
	if status := api.do(t, http.MethodPost, "/api/v1/schedule/"+items[1].ID+"/cancel", other, nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for another parent's session, got %d", status)
	}

	if status := api.do(t, http.MethodDelete, "/api/v1/subscription", token, nil, &sub); status != http.StatusOK {
		t.Fatalf("expected 200 from cancel subscription, got %d", status)
	}
	if sub.Status != domain.SubscriptionCancelled {
		t.Errorf("expected cancelled subscription, got %s", sub.Status)
	}
}

func TestRouter_ProfilePlaceholders(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp(t, "p@example.com").Token

	var msg map[string]string
	if status := api.do(t, http.MethodPost, "/api/v1/profile/privacy", token, nil, &msg); status != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", status)
	}
	if msg["message"] != "Privacy & Security feature coming soon!" {
		t.Errorf("unexpected message %v", msg)
	}

	if status := api.do(t, http.MethodPost, "/api/v1/profile/unknown", token, nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown placeholder, got %d", status)
	}
}

func TestRouter_DriverRoutesRejectParents(t *testing.T) {
	api := newTestAPI(t)
	token := api.signUp(t, "p@example.com").Token

	if status := api.do(t, http.MethodPost, "/api/v1/tracking/t1/depart", token, nil, nil); status != http.StatusForbidden {
		t.Errorf("expected 403, got %d", status)
	}
	if status := api.do(t, http.MethodPost, "/api/v1/tracking/t1/depart", api.driverToken(t, mocks.TestDriver().ID), nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown visit, got %d", status)
	}
}

func TestRouter_TrackingStream(t *testing.T) {
	api := newTestAPI(t)
	session := api.signUp(t, "p@example.com")
	item := mocks.SampleScheduleItem("s1", time.Now().Add(time.Hour), "Sarah")
	item.ParentID = session.User.ID
	if err := api.schedule.CreateScheduleItems(t.Context(), []domain.ScheduleItem{item}); err != nil {
		t.Fatalf("failed to seed schedule: %v", err)
	}

	var started domain.Tracking
	status := api.do(t, http.MethodPost, "/api/v1/tracking", session.Token, handler.StartTrackingRequest{ScheduleItemID: "s1"}, &started)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	wsURL := "ws" + strings.TrimPrefix(api.server.URL, "http") +
		"/api/v1/tracking/" + started.ID + "/stream?access_token=" + session.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}
	defer conn.Close()

	next := func(want domain.TrackingStatus) domain.Tracking {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		for {
			var update domain.Tracking
			if err := conn.ReadJSON(&update); err != nil {
				t.Fatalf("waiting for %s: %v", want, err)
			}
			if update.Status == want {
				return update
			}
		}
	}

	arrived := next(domain.TrackingArrived)
	if !arrived.ShowOTP || len(arrived.OTPCode) != 4 {
		t.Fatalf("expected OTP prompt, got %+v", arrived)
	}

	if status := api.do(t, http.MethodPost, "/api/v1/tracking/"+started.ID+"/confirm", session.Token,
		handler.ConfirmPickupRequest{OTP: "wrong"}, nil); status != http.StatusConflict {
		t.Errorf("expected 409 for wrong OTP, got %d", status)
	}
	if status := api.do(t, http.MethodPost, "/api/v1/tracking/"+started.ID+"/confirm", session.Token,
		handler.ConfirmPickupRequest{OTP: arrived.OTPCode}, nil); status != http.StatusOK {
		t.Fatalf("expected 200 from confirm, got %d", status)
	}
	next(domain.TrackingBoarded)

	if status := api.do(t, http.MethodPost, "/api/v1/tracking/"+started.ID+"/depart", api.driverToken(t, "driver-9"), nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for a driver not assigned to the visit, got %d", status)
	}
	driver := api.driverToken(t, mocks.TestDriver().ID)
	api.do(t, http.MethodPost, "/api/v1/tracking/"+started.ID+"/depart", driver, nil, nil)
	next(domain.TrackingInTransit)
	api.do(t, http.MethodPost, "/api/v1/tracking/"+started.ID+"/complete", driver, nil, nil)
	next(domain.TrackingCompleted)

	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal closure, got %v", err)
	}
	if got := len(api.publisher.GetPublishedEvents()); got != 5 {
		t.Errorf("expected 5 tracking events, got %d", got)
	}
}

func TestRouter_TrackingStreamRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	wsURL := "ws" + strings.TrimPrefix(api.server.URL, "http") + "/api/v1/tracking/t1/stream"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", resp)
	}
}
