//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_WithStore(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	doJSON(t, http.MethodPost, baseURL+"/api/login", map[string]any{
		"username": getenv("E2E_ADMIN_USER", "admin"),
		"password": getenv("E2E_ADMIN_PASS", "admin"),
	}, &loginResp, 200)
	if loginResp.AccessToken == "" {
		t.Fatalf("empty access_token")
	}

	name := fmt.Sprintf("E2E Widget %d-%d", time.Now().Unix(), rand.Intn(100000))
	created := createProduct(t, loginResp.AccessToken, name, "integration test product", "100.00")

	id, ok := created["ProductId"].(float64)
	if !ok || id <= 0 {
		t.Fatalf("product id missing in response: %#v", created)
	}
	pid := int(id)

	var got map[string]any
	doJSONAuth(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", baseURL, pid), "", nil, &got, 200)
	if got["ProductName"] != name {
		t.Fatalf("read back product: %#v", got)
	}

	checkProductPage(t, pid, name)
	checkCartFlow(t, pid)

	if os.Getenv("E2E_RESTART_SHOP") == "1" {
		restartShopContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")
		doJSONAuth(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", baseURL, pid), "", nil, &got, 200)
		if got["ProductName"] != name {
			t.Fatalf("product lost across restart: %#v", got)
		}
	}

	var deleted struct {
		Deleted int `json:"deleted"`
	}
	doJSONAuth(t, http.MethodDelete, fmt.Sprintf("%s/api/products/%d", baseURL, pid),
		loginResp.AccessToken, nil, &deleted, 200)
	if deleted.Deleted != pid {
		t.Fatalf("deleted=%d want=%d", deleted.Deleted, pid)
	}
}

func createProduct(t *testing.T, token, name, desc, price string) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", name)
	_ = mw.WriteField("description", desc)
	_ = mw.WriteField("price", price)
	fw, err := mw.CreateFormFile("image", "e2e.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte{0x89, 0x50, 0x4e, 0x47}); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/products", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create product: status=%d body=%s", resp.StatusCode, raw)
	}

	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created
}

func checkProductPage(t *testing.T, pid int, name string) {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("%s/product/%d", baseURL, pid))
	if err != nil {
		t.Fatalf("product page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("product page status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read product page: %v", err)
	}
	if !strings.Contains(string(body), name) {
		t.Fatalf("product page does not show %q", name)
	}
}

func checkCartFlow(t *testing.T, pid int) {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{Timeout: 5 * time.Second, Jar: jar}

	resp, err := client.PostForm(fmt.Sprintf("%s/cart/add/%d", baseURL, pid),
		url.Values{"quantity": {"2"}})
	if err != nil {
		t.Fatalf("cart add: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("cart page after add: status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read cart page: %v", err)
	}
	// 2 * 100.00 with 25% VAT and $10 shipping.
	for _, want := range []string{"$200.00", "$50.00", "$260.00"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("cart page missing %q", want)
		}
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()
	doJSONAuth(t, method, url, "", body, out, want)
}

func doJSONAuth(t *testing.T, method, url, token string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
