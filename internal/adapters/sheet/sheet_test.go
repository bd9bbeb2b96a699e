package sheet_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/picksheet/internal/adapters/breaker"
	"github.com/okian/picksheet/internal/adapters/sheet"
	. "github.com/smartystreets/goconvey/convey"
)

const csvBody = "Deck,1,,2\nPick,1,2,3\nAlice,25,31*,18\nBob,40,,22!\n"

func TestHTTPSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a server publishing the sheet", t, func() {
		var ua atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua.Store(r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(csvBody))
		}))
		defer srv.Close()

		src := sheet.NewHTTPSource(srv.URL, sheet.WithUserAgent("picksheet-test"))
		grid, err := src.Fetch(ctx)

		Convey("Then the ragged grid is returned as is", func() {
			So(err, ShouldBeNil)
			So(len(grid), ShouldEqual, 4)
			So(grid[0], ShouldResemble, []string{"Deck", "1", "", "2"})
			So(grid[2][2], ShouldEqual, "31*")
			So(grid[3][2], ShouldEqual, "")
		})

		Convey("And the configured User-Agent is sent", func() {
			So(ua.Load(), ShouldEqual, "picksheet-test")
		})
	})

	Convey("Given a server answering with an error status", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		src := sheet.NewHTTPSource(srv.URL, sheet.WithBreakerOptions(breaker.WithTimeout(time.Minute)))

		Convey("When fetching once", func() {
			_, err := src.Fetch(ctx)

			Convey("Then the error is a status error", func() {
				So(errors.Is(err, sheet.ErrStatus), ShouldBeTrue)
			})
		})

		Convey("When failures keep coming", func() {
			for i := 0; i < 3; i++ {
				_, _ = src.Fetch(ctx)
			}
			_, err := src.Fetch(ctx)

			Convey("Then the breaker opens without calling the server", func() {
				So(errors.Is(err, sheet.ErrFetch), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an unreachable server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := sheet.NewHTTPSource(url, sheet.WithTimeout(time.Second)).Fetch(ctx)
		So(errors.Is(err, sheet.ErrFetch), ShouldBeTrue)
	})

	Convey("Given an export larger than the size cap", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(csvBody))
		}))
		defer srv.Close()

		Convey("Then it is rejected rather than parsed short", func() {
			_, err := sheet.NewHTTPSource(srv.URL, sheet.WithMaxBodyBytes(int64(len(csvBody)-1))).Fetch(ctx)
			So(errors.Is(err, sheet.ErrParse), ShouldBeTrue)
		})

		Convey("And a body of exactly the cap is accepted", func() {
			grid, err := sheet.NewHTTPSource(srv.URL, sheet.WithMaxBodyBytes(int64(len(csvBody)))).Fetch(ctx)
			So(err, ShouldBeNil)
			So(len(grid), ShouldEqual, 4)
		})
	})

	Convey("Given a cancelled context", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(csvBody))
		}))
		defer srv.Close()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := sheet.NewHTTPSource(srv.URL).Fetch(cctx)
		So(errors.Is(err, sheet.ErrFetch), ShouldBeTrue)
	})
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a CSV file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "season.csv")
		So(os.WriteFile(path, []byte(csvBody), 0o600), ShouldBeNil)

		grid, err := sheet.NewFileSource(path).Fetch(ctx)

		Convey("Then it is parsed like the HTTP export", func() {
			So(err, ShouldBeNil)
			So(len(grid), ShouldEqual, 4)
			So(grid[1], ShouldResemble, []string{"Pick", "1", "2", "3"})
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := sheet.NewFileSource(filepath.Join(t.TempDir(), "nope.csv")).Fetch(ctx)
		So(errors.Is(err, sheet.ErrFetch), ShouldBeTrue)
	})
}

func TestSourceFunc(t *testing.T) {
	Convey("Given a function source", t, func() {
		var src sheet.Source = sheet.SourceFunc(func(context.Context) ([][]string, error) {
			return [][]string{{"Pick", "1"}}, nil
		})
		grid, err := src.Fetch(context.Background())
		So(err, ShouldBeNil)
		So(grid[0][0], ShouldEqual, "Pick")
	})
}
