package convert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteClientMissingCredential(t *testing.T) {
	client := NewRemoteClient("")
	_, err := client.Convert(context.Background(), "<html></html>", OutputPNG)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
}

func TestRemoteClientPNGSuccess(t *testing.T) {
	var gotReq docRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != "dp_test_key" {
			t.Errorf("basic auth user = %q", user)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte("\x89PNG fake bytes"))
	}))
	t.Cleanup(srv.Close)

	client := NewRemoteClient("dp_test_key", WithBaseURL(srv.URL), WithTestMode(true))
	out, err := client.Convert(context.Background(), "<html>x</html>", OutputPNG)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty artifact")
	}
	if gotReq.Doc.DocumentType != "png" || !gotReq.Doc.Test {
		t.Fatalf("request payload = %+v", gotReq.Doc)
	}
	if gotReq.Doc.DocumentContent != "<html>x</html>" {
		t.Fatalf("markup not forwarded: %q", gotReq.Doc.DocumentContent)
	}
}

func TestRemoteClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	client := NewRemoteClient("bad", WithBaseURL(srv.URL))
	_, err := client.Convert(context.Background(), "x", OutputPNG)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
}

func TestRemoteClientRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("bad markup"))
	}))
	t.Cleanup(srv.Close)

	client := NewRemoteClient("key", WithBaseURL(srv.URL))
	_, err := client.Convert(context.Background(), "x", OutputPNG)
	if !errors.Is(err, ErrServiceRejected) {
		t.Fatalf("err = %v, want ErrServiceRejected", err)
	}
}

func TestRemoteClientInvalidPDFRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a pdf"))
	}))
	t.Cleanup(srv.Close)

	client := NewRemoteClient("key", WithBaseURL(srv.URL))
	_, err := client.Convert(context.Background(), "x", OutputPDF)
	if !errors.Is(err, ErrServiceRejected) {
		t.Fatalf("err = %v, want ErrServiceRejected", err)
	}
}

func TestRemoteClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewRemoteClient("key", WithBaseURL(srv.URL))
	_, err := client.Convert(context.Background(), "x", OutputPNG)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}
