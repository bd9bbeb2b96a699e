package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/picksheet/internal/adapters/cache"
	"github.com/okian/picksheet/internal/adapters/http/api"
	"github.com/okian/picksheet/internal/adapters/notify"
	"github.com/okian/picksheet/internal/adapters/repository"
	"github.com/okian/picksheet/internal/adapters/sheet"
	service "github.com/okian/picksheet/internal/app"
	"github.com/okian/picksheet/internal/domain/model"
	"github.com/okian/picksheet/internal/domain/playerstats"
	"github.com/okian/picksheet/internal/domain/weekly"
	. "github.com/smartystreets/goconvey/convey"
)

type errorBody struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings"`
}

// mockDependencies records the arguments of the last call and returns the
// configured results.
type mockDependencies struct {
	scores     service.ScoresView
	stats      service.StatsView
	standings  []repository.Standing
	report     weekly.Report
	delivery   service.Delivery
	err        error
	panicOn    string
	lastPeriod string
	lastN      int
	lastPlayer string
	lastDeck   int
	lastForce  bool
	refreshes  int
}

func (m *mockDependencies) Scores(_ context.Context, period string) (service.ScoresView, error) {
	m.lastPeriod = period
	return m.scores, m.err
}

func (m *mockDependencies) PlayerStats(_ context.Context, period string) (service.StatsView, error) {
	if m.panicOn == "players" {
		panic("boom")
	}
	m.lastPeriod = period
	return m.stats, m.err
}

func (m *mockDependencies) TopN(_ context.Context, n int) ([]repository.Standing, error) {
	m.lastN = n
	if m.err != nil {
		return nil, m.err
	}
	if n > len(m.standings) {
		return m.standings, nil
	}
	return m.standings[:n], nil
}

func (m *mockDependencies) Rank(_ context.Context, player string) (repository.Standing, error) {
	m.lastPlayer = player
	if m.err != nil {
		return repository.Standing{}, m.err
	}
	for _, s := range m.standings {
		if s.Player == player {
			return s, nil
		}
	}
	return repository.Standing{}, repository.ErrNotFound
}

func (m *mockDependencies) Weekly(_ context.Context, deck int) (weekly.Report, error) {
	m.lastDeck = deck
	return m.report, m.err
}

func (m *mockDependencies) Refresh(context.Context) error {
	m.refreshes++
	return m.err
}

func (m *mockDependencies) NotifyWeekly(_ context.Context, deck int, force bool) (service.Delivery, error) {
	m.lastDeck, m.lastForce = deck, force
	return m.delivery, m.err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats(context.Context) map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"events": 16}}, 10)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var body errorBody
	_ = json.NewDecoder(w.Body).Decode(&body)
	return body
}

func sampleStandings() []repository.Standing {
	return []repository.Standing{
		{Rank: 1, Player: "Alice", Points: 250, Games: 8, Average: 31.25},
		{Rank: 2, Player: "Bob", Points: 80, Games: 8, Average: 10},
		{Rank: 3, Player: "Jean Luc", Points: 40, Games: 2, Average: 20},
	}
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{standings: sampleStandings()}
		mux := newMux(deps)

		Convey("Then health serves the metrics exposition", func() {
			w := serve(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats returns the provider map", func() {
			w := serve(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			var body map[string]interface{}
			So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
			So(body["events"], ShouldEqual, 16.0)
		})

		Convey("And the dashboard page is embedded", func() {
			w := serve(mux, http.MethodGet, "/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `id="players"`)
			So(w.Body.String(), ShouldContainSubstring, "/weekly")
		})

		Convey("And unknown paths are not found", func() {
			w := serve(mux, http.MethodGet, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And read routes reject writes", func() {
			for _, path := range []string{"/scores", "/players", "/leaderboard", "/weekly", "/rank/Alice"} {
				w := serve(mux, http.MethodPost, path)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			}
		})

		Convey("And write routes reject reads", func() {
			So(serve(mux, http.MethodGet, "/refresh").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, http.MethodGet, "/notify").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(&mockDependencies{}, &mockStatsProvider{}, 0)
		So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestScoresAndPlayers(t *testing.T) {
	Convey("Given a period with rows", t, func() {
		deps := &mockDependencies{
			scores: service.ScoresView{
				Period: model.Period{Name: "deck:1", From: 1, To: 7},
				Events: []model.ScoreEvent{{Player: "Alice", Pick: 1, Score: 30}},
			},
			stats: service.StatsView{
				Period: model.Period{Name: "season", From: 1, To: 8},
				Rows:   []model.PlayerStats{{Player: "Alice", Games: 8, Mean: 31.25}},
			},
		}
		mux := newMux(deps)

		Convey("Then scores pass the period through", func() {
			w := serve(mux, http.MethodGet, "/scores?period=deck:1")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastPeriod, ShouldEqual, "deck:1")

			var view service.ScoresView
			So(json.NewDecoder(w.Body).Decode(&view), ShouldBeNil)
			So(view.Events, ShouldHaveLength, 1)
			So(view.Period.To, ShouldEqual, 7)
		})

		Convey("And players return the stats view", func() {
			w := serve(mux, http.MethodGet, "/players")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastPeriod, ShouldEqual, "")

			var view service.StatsView
			So(json.NewDecoder(w.Body).Decode(&view), ShouldBeNil)
			So(view.Rows[0].Player, ShouldEqual, "Alice")
		})
	})

	Convey("Given period failures", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{playerstats.ErrNoData, http.StatusNotFound, "no_data"},
			{fmt.Errorf("%w: deck:9", playerstats.ErrPeriodNotStarted), http.StatusConflict, "period_not_started"},
			{fmt.Errorf("%w: \"fortnight\"", playerstats.ErrInvalidPeriod), http.StatusBadRequest, "bad_request"},
		}
		for _, tc := range cases {
			Convey(fmt.Sprintf("When the service returns %v", tc.err), func() {
				deps := &mockDependencies{
					err:   tc.err,
					stats: service.StatsView{Warnings: []string{"sheet unavailable: boom"}},
				}
				w := serve(newMux(deps), http.MethodGet, "/players?period=x")

				Convey("Then the kind selects the status", func() {
					So(w.Code, ShouldEqual, tc.status)
					body := decodeError(w)
					So(body.Code, ShouldEqual, tc.code)
					So(body.Message, ShouldContainSubstring, "api.get_players")
					So(body.Warnings, ShouldResemble, []string{"sheet unavailable: boom"})
				})
			})
		}
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given a leaderboard with three players and a limit of 10", t, func() {
		deps := &mockDependencies{standings: sampleStandings()}
		mux := newMux(deps)

		Convey("When asking for the top 2", func() {
			w := serve(mux, http.MethodGet, "/leaderboard?limit=2")

			Convey("Then two standings are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got []repository.Standing
				So(json.NewDecoder(w.Body).Decode(&got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Player, ShouldEqual, "Alice")
			})
		})

		Convey("When no limit is given", func() {
			serve(mux, http.MethodGet, "/leaderboard")

			Convey("Then the maximum is used", func() {
				So(deps.lastN, ShouldEqual, 10)
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-1", "ten"} {
				w := serve(mux, http.MethodGet, "/leaderboard?limit="+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w).Code, ShouldEqual, "bad_request")
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			w := serve(mux, http.MethodGet, "/leaderboard?limit=11")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w).Code, ShouldEqual, "limit_exceeded")
		})

		Convey("When the store fails", func() {
			deps.err = errors.New("disk on fire")
			w := serve(mux, http.MethodGet, "/leaderboard?limit=1")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w).Code, ShouldEqual, "internal_error")
		})
	})
}

func TestRankHandler(t *testing.T) {
	Convey("Given season standings", t, func() {
		deps := &mockDependencies{standings: sampleStandings()}
		mux := newMux(deps)

		Convey("Then a known player is returned", func() {
			w := serve(mux, http.MethodGet, "/rank/Bob")
			So(w.Code, ShouldEqual, http.StatusOK)
			var got repository.Standing
			So(json.NewDecoder(w.Body).Decode(&got), ShouldBeNil)
			So(got.Rank, ShouldEqual, 2)
		})

		Convey("And escaped names are decoded", func() {
			w := serve(mux, http.MethodGet, "/rank/Jean%20Luc")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastPlayer, ShouldEqual, "Jean Luc")
		})

		Convey("And an unknown player is not found", func() {
			w := serve(mux, http.MethodGet, "/rank/Zed")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "not_found")
		})

		Convey("And a missing or nested name is a bad request", func() {
			So(serve(mux, http.MethodGet, "/rank/").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, http.MethodGet, "/rank/a/b").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestWeeklyHandler(t *testing.T) {
	Convey("Given a weekly report", t, func() {
		deps := &mockDependencies{report: weekly.Report{
			Meta:  weekly.Meta{Deck: 2, FirstPick: 8, LastPick: 14, Complete: true},
			Lines: []string{"Week 2"},
		}}
		mux := newMux(deps)

		Convey("Then the latest week is the default", func() {
			w := serve(mux, http.MethodGet, "/weekly")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastDeck, ShouldEqual, 0)

			var got weekly.Report
			So(json.NewDecoder(w.Body).Decode(&got), ShouldBeNil)
			So(got.Meta.Deck, ShouldEqual, 2)
			So(got.Lines, ShouldResemble, []string{"Week 2"})
		})

		Convey("And a deck can be selected", func() {
			serve(mux, http.MethodGet, "/weekly?deck=2")
			So(deps.lastDeck, ShouldEqual, 2)
		})

		Convey("And a bad deck is rejected", func() {
			So(serve(mux, http.MethodGet, "/weekly?deck=-1").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, http.MethodGet, "/weekly?deck=two").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("And an absent report is not found", func() {
			deps.err = service.ErrNoReport
			w := serve(mux, http.MethodGet, "/weekly?deck=9")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w).Code, ShouldEqual, "no_report")
		})
	})
}

func TestRefreshHandler(t *testing.T) {
	Convey("Given a refresh endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Then a refresh is accepted", func() {
			w := serve(mux, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(deps.refreshes, ShouldEqual, 1)
		})

		Convey("And a refresh inside the cooldown is throttled", func() {
			deps.err = fmt.Errorf("%w: retry in 42s", cache.ErrCooldown)
			w := serve(mux, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			body := decodeError(w)
			So(body.Code, ShouldEqual, "cooldown")
			So(body.Message, ShouldContainSubstring, "retry in 42s")
		})

		Convey("And an unreachable sheet is a bad gateway", func() {
			deps.err = fmt.Errorf("%w: status 503", sheet.ErrStatus)
			w := serve(mux, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			So(decodeError(w).Code, ShouldEqual, "sheet_unavailable")
		})
	})
}

func TestNotifyHandler(t *testing.T) {
	Convey("Given a notify endpoint", t, func() {
		deps := &mockDependencies{delivery: service.Delivery{
			Status: service.DeliverySent, Deck: 1, Key: "deck:1:7", DeliveryID: "abc",
		}}
		mux := newMux(deps)

		Convey("Then a delivery is returned", func() {
			w := serve(mux, http.MethodPost, "/notify?deck=1&force=true")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastDeck, ShouldEqual, 1)
			So(deps.lastForce, ShouldBeTrue)

			var got service.Delivery
			So(json.NewDecoder(w.Body).Decode(&got), ShouldBeNil)
			So(got.Status, ShouldEqual, service.DeliverySent)
			So(got.DeliveryID, ShouldEqual, "abc")
		})

		Convey("And force must be a boolean", func() {
			w := serve(mux, http.MethodPost, "/notify?force=maybe")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("And errors map to delivery statuses", func() {
			cases := []struct {
				err    error
				status int
				code   string
			}{
				{notify.ErrNotConfigured, http.StatusServiceUnavailable, "not_configured"},
				{fmt.Errorf("%w: status 500", notify.ErrDelivery), http.StatusBadGateway, "delivery_failed"},
				{service.ErrNoReport, http.StatusNotFound, "no_report"},
			}
			for _, tc := range cases {
				deps.err = tc.err
				w := serve(mux, http.MethodPost, "/notify")
				So(w.Code, ShouldEqual, tc.status)
				So(decodeError(w).Code, ShouldEqual, tc.code)
			}
		})
	})
}

func TestRecoverMiddleware(t *testing.T) {
	Convey("Given a handler that panics", t, func() {
		mux := newMux(&mockDependencies{panicOn: "players"})

		Convey("When it is called", func() {
			w := serve(mux, http.MethodGet, "/players")

			Convey("Then a generic 500 with a request id is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				id := w.Header().Get(api.RequestIDHeader)
				So(id, ShouldNotBeEmpty)
				body := decodeError(w)
				So(body.Code, ShouldEqual, "internal_error")
				So(body.Message, ShouldContainSubstring, id)
				So(body.Message, ShouldNotContainSubstring, "boom")
			})
		})
	})
}

func TestErrorWrappers(t *testing.T) {
	Convey("Given op-tagged errors", t, func() {
		cause := errors.New("cause")

		Convey("Then kinds and causes stay reachable", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: cause")
		})

		Convey("And NewKind carries only the kind", func() {
			err := api.NewKind("api.op", api.ErrNotFound)
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: not found")
		})

		Convey("And Wrap keeps nil as nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: cause")
		})
	})
}
