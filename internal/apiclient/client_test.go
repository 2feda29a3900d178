package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hannas-kitchen/internal/models"
)

func TestCreateOrder_SendsJSON(t *testing.T) {
	var got models.CreateOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Order placed successfully!"}`))
	}))
	defer srv.Close()

	err := New(srv.URL+"/", nil).CreateOrder(context.Background(), models.CreateOrderRequest{
		Items:       []models.RequestLine{models.NewRequestLine("a", 2)},
		TotalAmount: 200,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got.TotalAmount != 200 || len(got.Items) != 1 || got.Items[0].ItemID != "a" {
		t.Errorf("server received %+v", got)
	}
}

func TestClient_NetworkErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to fetch items"}`))
	}))
	defer failing.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name   string
		client *Client
	}{
		{"server error", New(failing.URL, nil)},
		{"timeout", New(slow.URL, &http.Client{Timeout: 20 * time.Millisecond})},
		{"connection refused", New(closedURL, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.client.ListItems(context.Background())
			if !IsNetwork(err) {
				t.Fatalf("expected NetworkError, got %v", err)
			}
		})
	}

	_, err := New(failing.URL, nil).ListItems(context.Background())
	if !strings.Contains(err.Error(), "Failed to fetch items") || !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %v", err)
	}
}

func TestAddItem_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("name") != "Brownie" || r.FormValue("price") != "80" || r.FormValue("tags") != "choco" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		f, fh, err := r.FormFile("image")
		if err != nil {
			t.Errorf("image: %v", err)
		} else {
			data, _ := io.ReadAll(f)
			if fh.Filename != "brownie.jpg" || string(data) != "jpeg" {
				t.Errorf("image %q = %q", fh.Filename, data)
			}
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := New(srv.URL, nil).AddItem(context.Background(),
		map[string]string{"name": "Brownie", "price": "80", "category": "Cake", "tags": "choco"},
		&Image{Filename: "brownie.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
}
