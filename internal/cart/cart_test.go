package cart

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestDecode_EncodeRoundTrip(t *testing.T) {
	carts := []Cart{
		{},
		{"1": 1},
		{"1": 5, "2": 99, "17": 42},
	}

	for _, c := range carts {
		got := Decode(Encode(c))
		if !reflect.DeepEqual(got, c) {
			t.Errorf("round trip of %v = %v", c, got)
		}
	}
}

func TestDecode_GarbageYieldsEmptyCart(t *testing.T) {
	inputs := []string{
		"",
		"not json",
		"%zz",                // bad url escaping
		"%7B%22broken",       // truncated json
		"%5B1%2C2%5D",        // json array, not an object
		"%22just a string%22",
		"null",
	}

	for _, in := range inputs {
		c := Decode(in)
		if c == nil {
			t.Fatalf("Decode(%q) returned nil", in)
		}
		if len(c) != 0 {
			t.Errorf("Decode(%q) = %v, want empty", in, c)
		}
	}
}

func TestUpdate_SetAndCap(t *testing.T) {
	c := Cart{}

	c.Update("5", 5)
	if c["5"] != 5 {
		t.Fatalf("cart = %v, want {5:5}", c)
	}

	c.Update("5", 150)
	if c["5"] != 99 {
		t.Fatalf("quantity not capped: %v", c)
	}
}

func TestUpdate_ZeroRemoves(t *testing.T) {
	c := Cart{"5": 3}

	c.Update("5", 0)
	if _, ok := c["5"]; ok {
		t.Fatalf("entry not removed: %v", c)
	}

	// Removing an absent id is a no-op.
	c.Update("5", 0)
	c.Update("missing", -1)
	if len(c) != 0 {
		t.Fatalf("cart = %v, want empty", c)
	}
}

func TestCookie_RoundTripThroughHTTP(t *testing.T) {
	c := Cart{"1": 2, "3": 4}

	rec := httptest.NewRecorder()
	WriteCookie(rec, c)

	res := rec.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}

	ck := cookies[0]
	if ck.Name != CookieName || ck.Path != "/" || ck.MaxAge != CookieMaxAge {
		t.Fatalf("cookie policy wrong: %+v", ck)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(ck)

	if got := FromRequest(req); !reflect.DeepEqual(got, c) {
		t.Fatalf("FromRequest = %v, want %v", got, c)
	}
}

func TestFromRequest_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)

	if got := FromRequest(req); len(got) != 0 {
		t.Fatalf("got %v, want empty cart", got)
	}
}
