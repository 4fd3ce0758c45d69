package main

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tasklist/internal/analytics"
	"tasklist/internal/config"
	"tasklist/internal/logger"
	"tasklist/internal/middleware"
	"tasklist/internal/storage"
	"tasklist/internal/tasks"
)

func newTestServer(t *testing.T) (*httptest.Server, *tasks.Store) {
	t.Helper()
	log := logger.Discard()
	store := tasks.NewStore(tasks.NewRepository(storage.NewMemory(), "tarefas"), log)
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	srv := httptest.NewServer(newRouter(config.Default(), store, analytics.NewRecorder(log), log))
	t.Cleanup(srv.Close)
	return srv, store
}

// browser returns a client with a cookie jar that does not follow redirects.
func browser(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	c := *srv.Client()
	c.Jar = jar
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &c
}

func TestRouter_CrossSiteDeleteRefused(t *testing.T) {
	srv, store := newTestServer(t)
	task, _ := store.Add(context.Background(), "Buy milk")

	form := url.Values{"confirm": {"yes"}}
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/tasks/1/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Sec-Fetch-Site", "cross-site")

	resp, err := browser(t, srv).Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if _, ok := store.Get(task.ID); !ok {
		t.Error("task deleted without confirmation page")
	}
}

func TestRouter_JSONDeleteNeedsToken(t *testing.T) {
	srv, store := newTestServer(t)
	store.Add(context.Background(), "Buy milk")

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/tasks/1?confirm=true", nil)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden || store.Len() != 1 {
		t.Errorf("status = %d, Len = %d; want 403 and task kept", resp.StatusCode, store.Len())
	}
}

func TestRouter_SameSiteFormFlow(t *testing.T) {
	srv, store := newTestServer(t)
	client := browser(t, srv)
	store.Add(context.Background(), "Buy milk")

	resp, err := client.Get(srv.URL + "/tasks/1/delete")
	if err != nil {
		t.Fatalf("GET confirm page: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}

	u, _ := url.Parse(srv.URL)
	var token string
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == middleware.CSRFCookie {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("no csrf cookie issued")
	}
	if !strings.Contains(string(body), `value="`+token+`"`) {
		t.Fatal("confirm page does not carry the csrf token")
	}

	resp, err = client.PostForm(srv.URL+"/tasks/1/delete", url.Values{
		"confirm":            {"yes"},
		middleware.CSRFField: {token},
	})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", resp.StatusCode)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}
