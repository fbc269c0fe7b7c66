package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/okian/fiesta/internal/adapters/http/api"
	repository "github.com/okian/fiesta/internal/adapters/repository"
	service "github.com/okian/fiesta/internal/app"
	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps implements api.Dependencies against canned data.
type mockDeps struct {
	seen      map[string]bool
	submitted []model.Update
	reply     model.Reply
	submitErr error
	board     types.Board
	rank      types.Entry
	rankErr   error
}

func newMockDeps() *mockDeps {
	return &mockDeps{seen: make(map[string]bool)}
}

func (m *mockDeps) SeenAndRecord(_ context.Context, id string) bool {
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDeps) Unrecord(_ context.Context, id string) {
	delete(m.seen, id)
}

func (m *mockDeps) Submit(_ context.Context, update model.Update, _ types.Input) (model.Reply, error) {
	if m.submitErr != nil {
		return model.Reply{}, m.submitErr
	}
	m.submitted = append(m.submitted, update)
	return m.reply, nil
}

func (m *mockDeps) Board(_ context.Context, _ types.Track) types.Board {
	return m.board
}

func (m *mockDeps) RankOf(_ context.Context, _ string) (types.Entry, error) {
	if m.rankErr != nil {
		return types.Entry{}, m.rankErr
	}
	return m.rank, nil
}

// mockStats implements api.StatsProvider.
type mockStats struct{}

func (m *mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "participants": 2}
}

func newTestServer(deps *mockDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /healthz is called", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it reports ok", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]string
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /stats is called", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the provider's stats come back as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["started"], ShouldEqual, true)
				So(body["participants"], ShouldEqual, 2)
			})
		})
	})
}

func TestUpdatesEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newMockDeps()
		deps.reply = model.Reply{Text: "Main menu:", Menu: model.MenuMainOnSite}
		srv := newTestServer(deps)
		defer srv.Close()

		post := func(body string) *http.Response {
			resp, err := http.Post(srv.URL+"/updates", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			return resp
		}

		Convey("When a fresh update arrives", func() {
			resp := post(`{"update_id":"u-1","external_id":"tg-1","text":"menu"}`)
			defer resp.Body.Close()

			Convey("Then it is processed and the reply returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body struct {
					Duplicate bool        `json:"duplicate"`
					Reply     model.Reply `json:"reply"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Duplicate, ShouldBeFalse)
				So(body.Reply.Text, ShouldEqual, "Main menu:")
				So(body.Reply.Menu, ShouldEqual, model.MenuMainOnSite)
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].UpdateID, ShouldEqual, "u-1")
			})
		})

		Convey("When the same update id arrives twice", func() {
			first := post(`{"update_id":"u-1","external_id":"tg-1","text":"menu"}`)
			first.Body.Close()
			second := post(`{"update_id":"u-1","external_id":"tg-1","text":"menu"}`)
			defer second.Body.Close()

			Convey("Then the redelivery is acknowledged without reprocessing", func() {
				So(second.StatusCode, ShouldEqual, http.StatusOK)
				var body struct {
					Duplicate bool `json:"duplicate"`
				}
				So(json.NewDecoder(second.Body).Decode(&body), ShouldBeNil)
				So(body.Duplicate, ShouldBeTrue)
				So(deps.submitted, ShouldHaveLength, 1)
			})
		})

		Convey("When the body is malformed", func() {
			resp := post(`{nope`)
			defer resp.Body.Close()

			Convey("Then it is rejected as a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When required fields are missing", func() {
			resp := post(`{"text":"menu"}`)
			defer resp.Body.Close()

			Convey("Then it is rejected as a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service is saturated", func() {
			deps.submitErr = service.ErrBackpressure
			resp := post(`{"update_id":"u-2","external_id":"tg-1","text":"menu"}`)
			defer resp.Body.Close()

			Convey("Then the gateway is told to retry later", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
			})
		})

		Convey("When the method is not POST", func() {
			resp, err := http.Get(srv.URL + "/updates")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the route does not exist", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given the API server with a populated board", t, func() {
		deps := newMockDeps()
		deps.board = types.Board{
			Track: types.TrackOnSite,
			Top: []types.Entry{
				{Rank: 1, ID: 2, Name: "Boris Lind", Score: 9},
				{Rank: 2, ID: 1, Name: "Anna Berg", Score: 3},
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /leaderboard is called with a valid track", func() {
			resp, err := http.Get(srv.URL + "/leaderboard?track=on_site")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the board is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var board types.Board
				So(json.NewDecoder(resp.Body).Decode(&board), ShouldBeNil)
				So(board.Top, ShouldHaveLength, 2)
				So(board.Top[0].Name, ShouldEqual, "Boris Lind")
				So(board.Top[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When the track is missing or unknown", func() {
			for _, url := range []string{"/leaderboard", "/leaderboard?track=hybrid"} {
				resp, err := http.Get(srv.URL + url)
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()
			}
		})
	})
}

func TestRankEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newMockDeps()
		deps.rank = types.Entry{Rank: 4, ID: 7, Name: "Ivan Petrov", Score: 3}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /rank/{query} matches a participant", func() {
			resp, err := http.Get(srv.URL + "/rank/7")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the exact rank entry is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var entry types.Entry
				So(json.NewDecoder(resp.Body).Decode(&entry), ShouldBeNil)
				So(entry.Rank, ShouldEqual, 4)
				So(entry.Name, ShouldEqual, "Ivan Petrov")
			})
		})

		Convey("When the participant is unknown", func() {
			deps.rankErr = repository.ErrNotFound
			resp, err := http.Get(srv.URL + "/rank/nobody")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the API answers 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the query is empty", func() {
			resp, err := http.Get(srv.URL + "/rank/")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the API answers 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
