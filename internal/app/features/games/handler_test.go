package games

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	"github.com/suraj4124/gamesphere/internal/app/store/audit"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	joinrequeststore "github.com/suraj4124/gamesphere/internal/app/store/joinrequests"
	"github.com/suraj4124/gamesphere/internal/app/store/queries/gamerosters"
	"github.com/suraj4124/gamesphere/internal/app/system/auditlog"
	"github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"github.com/suraj4124/gamesphere/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type testEnv struct {
	db     *mongo.Database
	fx     *testutil.Fixtures
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	mgr, err := auth.NewManager(auth.Config{
		Secret: []byte("test-jwt-secret-must-be-32-bytes-long!!"),
		Expiry: time.Hour,
	}, logger)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	al := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: auditlog.ModeDB, Game: auditlog.ModeDB})
	h := NewHandler(db, uierrors.NewErrorLogger(logger), al, logger)
	return &testEnv{db: db, fx: testutil.NewFixtures(t, db), router: Routes(h, mgr)}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do sends a request through the feature router, signed in as u when u
// is non-nil.
func (e *testEnv) do(t *testing.T, method, path, body string, u *models.User) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req = testutil.WithUser(req, *u)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, env
}

func gameView(t *testing.T, env envelope) gamerosters.GameView {
	t.Helper()
	var v gamerosters.GameView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	return v
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := e.fx.CreateOrganizer(ctx, "Olga", "olga@example.com")

	body := `{"sport":"Basketball","date":"2026-12-05T17:30:00Z","location":"Downtown Gym",
		"skillLevel":"Intermediate","maxPlayers":10,"entryFee":5,"description":"Full court run",
		"organizer":"000000000000000000000000","players":["000000000000000000000001"]}`
	rec, env := e.do(t, http.MethodPost, "/", body, &org)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, error = %q", rec.Code, env.Error)
	}
	created := gameView(t, env)
	if created.Organizer == nil || created.Organizer.ID != org.ID {
		t.Errorf("organizer = %+v, want caller", created.Organizer)
	}
	if len(created.Players) != 0 {
		t.Errorf("players = %v, want empty", created.Players)
	}
	if created.Status != models.GameStatusOpen || created.SpotsLeft != 10 {
		t.Errorf("status = %q spotsLeft = %d", created.Status, created.SpotsLeft)
	}

	rec, env = e.do(t, http.MethodGet, "/"+created.ID.Hex(), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := gameView(t, env)
	if got.ID != created.ID || got.Sport != "Basketball" || got.Location != "Downtown Gym" ||
		got.MaxPlayers != 10 || got.EntryFee != 5 || got.SkillLevel != models.SkillIntermediate {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Organizer == nil || got.Organizer.Name != "Olga" || got.Organizer.Email != "olga@example.com" {
		t.Errorf("organizer not populated: %+v", got.Organizer)
	}
}

func TestCreate_PlayerForbidden(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := e.fx.CreatePlayer(ctx, "Pat", "pat@example.com")

	body := `{"sport":"Football","date":"2026-12-05","location":"Field 1","maxPlayers":10,"description":"x"}`
	rec, env := e.do(t, http.MethodPost, "/", body, &p)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}

	n, err := e.db.Collection("games").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("games = %d, want 0", n)
	}
}

func TestCreate_Anonymous(t *testing.T) {
	e := newTestEnv(t)
	rec, _ := e.do(t, http.MethodPost, "/", `{}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreate_Validation(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := e.fx.CreateOrganizer(ctx, "Olga", "olga@example.com")

	rec, env := e.do(t, http.MethodPost, "/", `{"sport":"Football","maxPlayers":0}`, &org)
	if rec.Code != http.StatusBadRequest || env.Error == "" {
		t.Errorf("status = %d error = %q, want 400 with message", rec.Code, env.Error)
	}
}

func TestGet_NotFound(t *testing.T) {
	e := newTestEnv(t)
	for _, id := range []string{"not-an-id", "507f1f77bcf86cd799439011"} {
		rec, env := e.do(t, http.MethodGet, "/"+id, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", id, rec.Code)
		}
		if env.Error != msgGameNotFound {
			t.Errorf("%s: error = %q", id, env.Error)
		}
	}
}

func TestJoin_CapacityScenario(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := e.fx.CreateOrganizer(ctx, "A", "a@example.com")
	b := e.fx.CreatePlayer(ctx, "B", "b@example.com")
	c := e.fx.CreatePlayer(ctx, "C", "c@example.com")
	d := e.fx.CreatePlayer(ctx, "D", "d@example.com")
	g := e.fx.CreateGame(ctx, a.ID, 2)
	path := "/" + g.ID.Hex() + "/join"

	rec, env := e.do(t, http.MethodPost, path, "", &b)
	if rec.Code != http.StatusOK {
		t.Fatalf("B join status = %d, error = %q", rec.Code, env.Error)
	}
	v := gameView(t, env)
	if len(v.Players) != 1 || v.Players[0].ID != b.ID || v.Status != models.GameStatusOpen {
		t.Errorf("after B: players = %v status = %q", v.Players, v.Status)
	}

	rec, env = e.do(t, http.MethodPost, path, "", &b)
	if rec.Code != http.StatusBadRequest || env.Error != "You have already joined this game" {
		t.Errorf("B rejoin: status = %d error = %q", rec.Code, env.Error)
	}

	rec, env = e.do(t, http.MethodPost, path, "", &c)
	if rec.Code != http.StatusOK {
		t.Fatalf("C join status = %d, error = %q", rec.Code, env.Error)
	}
	v = gameView(t, env)
	if len(v.Players) != 2 || v.Players[1].ID != c.ID || v.Status != models.GameStatusFull {
		t.Errorf("after C: players = %v status = %q", v.Players, v.Status)
	}
	if v.Players[0].Name != "B" || v.Players[0].Email != "" {
		t.Errorf("player summary = %+v, want name and no email", v.Players[0])
	}

	rec, env = e.do(t, http.MethodPost, path, "", &d)
	if rec.Code != http.StatusBadRequest || env.Error != "Game is full" {
		t.Errorf("D join: status = %d error = %q", rec.Code, env.Error)
	}

	stored, err := gamestore.New(e.db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Players) != 2 {
		t.Errorf("stored players = %d, want 2", len(stored.Players))
	}
}

func TestJoin_Concurrent(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := e.fx.CreateOrganizer(ctx, "Org", "org@example.com")
	g := e.fx.CreateGame(ctx, org.ID, 3)
	path := "/" + g.ID.Hex() + "/join"

	players := make([]models.User, 12)
	for i := range players {
		players[i] = e.fx.CreatePlayer(ctx, fmt.Sprintf("P%d", i), fmt.Sprintf("p%d@example.com", i))
	}

	var wg sync.WaitGroup
	codes := make([]int, len(players))
	for i := range players {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, path, nil)
			req = testutil.WithUser(req, players[i])
			rec := httptest.NewRecorder()
			e.router.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if ok != 3 {
		t.Errorf("successful joins = %d, want 3", ok)
	}
	stored, err := gamestore.New(e.db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Players) > stored.MaxPlayers {
		t.Errorf("oversold: %d players for %d spots", len(stored.Players), stored.MaxPlayers)
	}
}

func TestJoin_ApprovalWorkflow(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := e.fx.CreateOrganizer(ctx, "Org", "org@example.com")
	other := e.fx.CreateOrganizer(ctx, "Other", "other@example.com")
	p := e.fx.CreatePlayer(ctx, "Pia", "pia@example.com")
	q := e.fx.CreatePlayer(ctx, "Quinn", "quinn@example.com")
	g := e.fx.CreateGame(ctx, org.ID, 1, testutil.WithApproval())
	base := "/" + g.ID.Hex()

	rec, env := e.do(t, http.MethodPost, base+"/join", "", &p)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("join status = %d, error = %q", rec.Code, env.Error)
	}
	var jr models.JoinRequest
	if err := json.Unmarshal(env.Data, &jr); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if jr.Status != models.JoinPending || jr.UserID != p.ID {
		t.Errorf("request = %+v", jr)
	}

	rec, env = e.do(t, http.MethodPost, base+"/join", "", &p)
	if rec.Code != http.StatusBadRequest || env.Error != "You already have a pending request" {
		t.Errorf("second request: status = %d error = %q", rec.Code, env.Error)
	}

	qr := e.fx.CreateJoinRequest(ctx, g, q.ID)

	rec, _ = e.do(t, http.MethodGet, base+"/requests?status=pending", "", &other)
	if rec.Code != http.StatusForbidden {
		t.Errorf("other organizer list: status = %d, want 403", rec.Code)
	}

	rec, env = e.do(t, http.MethodGet, base+"/requests?status=pending", "", &org)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var views []gamerosters.RequestView
	if err := json.Unmarshal(env.Data, &views); err != nil {
		t.Fatalf("decode requests: %v", err)
	}
	if len(views) != 2 || views[0].Requester == nil || views[0].Requester.Name != "Pia" {
		t.Errorf("requests = %+v", views)
	}

	rec, env = e.do(t, http.MethodPost, base+"/requests/"+jr.ID.Hex()+"/approve", "", &org)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, error = %q", rec.Code, env.Error)
	}
	var approved struct {
		Request gamerosters.RequestView `json:"request"`
		Game    gamerosters.GameView    `json:"game"`
	}
	if err := json.Unmarshal(env.Data, &approved); err != nil {
		t.Fatalf("decode approve: %v", err)
	}
	if approved.Request.Status != models.JoinApproved || len(approved.Game.Players) != 1 {
		t.Errorf("approve = %+v", approved)
	}

	rec, env = e.do(t, http.MethodPost, base+"/requests/"+jr.ID.Hex()+"/reject", "", &org)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("deciding twice: status = %d error = %q", rec.Code, env.Error)
	}

	// The game is now full, so Quinn's approval fails and the request
	// stays pending.
	rec, env = e.do(t, http.MethodPost, base+"/requests/"+qr.ID.Hex()+"/approve", "", &org)
	if rec.Code != http.StatusBadRequest || env.Error != "Game is full" {
		t.Errorf("approve into full game: status = %d error = %q", rec.Code, env.Error)
	}
	still, err := joinrequeststore.New(e.db).Get(ctx, g.ID, qr.ID)
	if err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if still.Status != models.JoinPending {
		t.Errorf("status = %q, want pending", still.Status)
	}

	rec, env = e.do(t, http.MethodPost, base+"/requests/"+qr.ID.Hex()+"/reject", "", &org)
	if rec.Code != http.StatusOK {
		t.Fatalf("reject status = %d, error = %q", rec.Code, env.Error)
	}
}

func TestApprove_Concurrent(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := e.fx.CreateOrganizer(ctx, "Org", "org@example.com")
	p := e.fx.CreatePlayer(ctx, "Pia", "pia@example.com")
	g := e.fx.CreateGame(ctx, org.ID, 4, testutil.WithApproval())
	jr := e.fx.CreateJoinRequest(ctx, g, p.ID)
	path := "/" + g.ID.Hex() + "/requests/" + jr.ID.Hex() + "/approve"

	const n = 8
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, path, nil)
			req = testutil.WithUser(req, org)
			rec := httptest.NewRecorder()
			e.router.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if ok != 1 {
		t.Errorf("successful approvals = %d, want 1", ok)
	}

	stored, err := gamestore.New(e.db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("reload game: %v", err)
	}
	if len(stored.Players) != 1 || stored.Players[0] != p.ID {
		t.Errorf("players = %v, want [%s]", stored.Players, p.ID.Hex())
	}
	got, err := joinrequeststore.New(e.db).Get(ctx, g.ID, jr.ID)
	if err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if got.Status != models.JoinApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
}

func TestUpdate(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := e.fx.CreateOrganizer(ctx, "Org", "org@example.com")
	other := e.fx.CreateOrganizer(ctx, "Other", "other@example.com")
	admin := e.fx.CreateUser(ctx, "Admin", "admin@example.com", models.RoleAdmin)
	p1 := e.fx.CreatePlayer(ctx, "P1", "p1@example.com")
	p2 := e.fx.CreatePlayer(ctx, "P2", "p2@example.com")
	g := e.fx.CreateGame(ctx, org.ID, 5, testutil.WithPlayers(p1.ID, p2.ID))
	path := "/" + g.ID.Hex()

	rec, _ := e.do(t, http.MethodPut, path, `{"description":"hijack"}`, &other)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-owner update: status = %d, want 403", rec.Code)
	}

	rec, env := e.do(t, http.MethodPut, path, `{"maxPlayers":1}`, &org)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("shrink below roster: status = %d error = %q", rec.Code, env.Error)
	}

	rec, env = e.do(t, http.MethodPut, path,
		fmt.Sprintf(`{"maxPlayers":2,"location":"North Field","organizer":%q,"players":[]}`, other.ID.Hex()), &org)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d error = %q", rec.Code, env.Error)
	}
	v := gameView(t, env)
	if v.MaxPlayers != 2 || v.Location != "North Field" || v.Status != models.GameStatusFull {
		t.Errorf("updated = %+v", v)
	}
	if v.Organizer.ID != org.ID || len(v.Players) != 2 {
		t.Errorf("organizer/players must not change: %+v", v)
	}

	rec, env = e.do(t, http.MethodPut, path, `{"entryFee":12.5}`, &admin)
	if rec.Code != http.StatusOK {
		t.Errorf("admin update: status = %d error = %q", rec.Code, env.Error)
	}
}

func TestDelete_RemovesJoinRequests(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := e.fx.CreateOrganizer(ctx, "Org", "org@example.com")
	p := e.fx.CreatePlayer(ctx, "P", "p@example.com")
	g := e.fx.CreateGame(ctx, org.ID, 4, testutil.WithApproval())
	e.fx.CreateJoinRequest(ctx, g, p.ID)

	rec, _ := e.do(t, http.MethodDelete, "/"+g.ID.Hex(), "", &p)
	if rec.Code != http.StatusForbidden {
		t.Errorf("player delete: status = %d, want 403", rec.Code)
	}

	rec, env := e.do(t, http.MethodDelete, "/"+g.ID.Hex(), "", &org)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("delete status = %d error = %q", rec.Code, env.Error)
	}
	if string(env.Data) != "{}" {
		t.Errorf("data = %s, want {}", env.Data)
	}

	if _, err := gamestore.New(e.db).GetByID(ctx, g.ID); err != gamestore.ErrNotFound {
		t.Errorf("game still present: %v", err)
	}
	n, err := e.db.Collection("join_requests").CountDocuments(ctx, bson.M{"game_id": g.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("join requests left = %d", n)
	}

	rec, _ = e.do(t, http.MethodDelete, "/"+g.ID.Hex(), "", &org)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestList_FilterSortPage(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := e.fx.CreateOrganizer(ctx, "Org", "org@example.com")
	p := e.fx.CreatePlayer(ctx, "P", "p@example.com")
	e.fx.CreateGame(ctx, org.ID, 2, testutil.WithSport("Tennis"), testutil.WithSkill(models.SkillBeginner))
	e.fx.CreateGame(ctx, org.ID, 2, testutil.WithSport("Tennis"), testutil.WithSkill(models.SkillPro))
	e.fx.CreateGame(ctx, org.ID, 1, testutil.WithSport("Tennis"), testutil.WithPlayers(p.ID))
	e.fx.CreateGame(ctx, org.ID, 8, testutil.WithLocation("Riverside"))

	var list struct {
		Success    bool                   `json:"success"`
		Count      int                    `json:"count"`
		Total      int64                  `json:"total"`
		Pagination map[string]any         `json:"pagination"`
		Data       []gamerosters.GameView `json:"data"`
	}
	get := func(query string) int {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		list.Data = nil
		list.Pagination = nil
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
		return rec.Code
	}

	if code := get(""); code != http.StatusOK || list.Total != 4 || list.Count != 4 {
		t.Errorf("all: code = %d total = %d count = %d", code, list.Total, list.Count)
	}

	// Beginner matches the Beginner game and the All Levels tennis game.
	if get("sport=tennis&skillLevel=Beginner"); list.Total != 2 {
		t.Errorf("tennis beginner total = %d, want 2", list.Total)
	}

	if get("status=full"); list.Total != 1 || list.Data[0].Status != models.GameStatusFull {
		t.Errorf("full total = %d", list.Total)
	}

	if get("location=riverside"); list.Total != 1 || list.Data[0].Location != "Riverside" {
		t.Errorf("location total = %d", list.Total)
	}

	if get("sort=-maxPlayers&limit=2"); list.Count != 2 || list.Total != 4 || list.Data[0].MaxPlayers != 8 {
		t.Errorf("sorted page: count = %d first = %+v", list.Count, list.Data)
	}
	if list.Pagination["next"] == nil || list.Pagination["prev"] != nil {
		t.Errorf("page 1 pagination = %v", list.Pagination)
	}

	if get("sort=-maxPlayers&limit=2&page=2"); list.Count != 2 || list.Pagination["prev"] == nil || list.Pagination["next"] != nil {
		t.Errorf("page 2: count = %d pagination = %v", list.Count, list.Pagination)
	}

	if code := get("page=9223372036854775807&limit=100"); code != http.StatusOK || list.Count != 0 || list.Total != 4 {
		t.Errorf("huge page: code = %d count = %d total = %d", code, list.Count, list.Total)
	}
	if list.Pagination["next"] != nil {
		t.Errorf("huge page pagination = %v", list.Pagination)
	}

	if code := get("maxPlayers[$gt]=1"); code != http.StatusBadRequest || list.Success {
		t.Errorf("operator injection: code = %d", code)
	}
}
